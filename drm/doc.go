// Package drm holds the DRM-facing constants shared between callers and the
// buffer allocation backends: fourcc pixel formats, buffer use flags, format
// modifiers, and the lock rectangle type.
//
// The package is deliberately data-only. Allocation behavior lives in the
// vgpu package; generic per-format geometry lives in internal/layout.
package drm
