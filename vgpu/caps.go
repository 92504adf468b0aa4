package vgpu

import (
	"math"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

// FormatMaskWords is the length of a FormatMask in 32-bit words.
const FormatMaskWords = virgl.FormatMaskWords

// FormatMask is a host format support bitmask, one bit per host format
// code.
type FormatMask [FormatMaskWords]uint32

// Supports reports whether the mask has the bit for the given host format
// code. Code 0 means "no host equivalent" and is never supported.
func (m *FormatMask) Supports(code uint32) bool {
	if code == 0 || code >= FormatMaskWords*32 {
		return false
	}
	return m[code/32]&(1<<(code%32)) != 0
}

// Set marks a host format code as supported. Used by transports while
// decoding capability payloads and by tests building synthetic capability
// sets.
func (m *FormatMask) Set(code uint32) {
	if code >= FormatMaskWords*32 {
		return
	}
	m[code/32] |= 1 << (code % 32)
}

// Caps is the host's declared capability set. The zero value is the
// "unknown" state (Version 0): no capability information, which the support
// predicates deliberately treat as everything-supported. Hosts that expose
// no capability query still work that way, just without the ability to
// strip unsupported combinations up front.
type Caps struct {
	// Version is the host's maximum capability version; 0 means the query
	// failed or was never made.
	Version uint32

	// Sampler and Render are the per-usage format support masks from the
	// version 1 payload.
	Sampler FormatMask
	Render  FormatMask

	// Scanout is only meaningful when the extended (version 2) query
	// succeeded; see Device and the support predicates.
	Scanout FormatMask

	// MaxTexture2DSize is the host's 2D texture dimension limit; 0 means
	// the host did not report one.
	MaxTexture2DSize uint32
}

// negotiateCaps performs the capability handshake: the extended query when
// the device advertises the fixed query path, falling back to the base
// query, and degrading to the permissive zero Caps when both fail.
func (d *Device) negotiateCaps() {
	if d.params.CapsetQueryFix {
		caps, err := d.tr.GetCaps(virgl.CapSetVirgl2)
		if err == nil {
			d.caps = caps
			d.capsIsV2 = true
			return
		}
		d.log.Warn("extended capability query failed, retrying base set",
			"err", err)
	}

	caps, err := d.tr.GetCaps(virgl.CapSetVirgl)
	if err != nil {
		// Leave the zero capability set: absence of information degrades
		// to maximal permissiveness, not to failure.
		d.log.Warn("capability query failed, assuming full format support",
			"err", err)
		return
	}
	d.caps = caps
}

// supportsCombinationNatively implements the native-support predicate: with
// no capability information every combination passes; otherwise every
// relevant usage bit must have its format bit set in the corresponding
// mask. Scanout is only consulted when the extended query succeeded.
func (d *Device) supportsCombinationNatively(f drm.Format, use drm.UseFlags) bool {
	if d.caps.Version == 0 {
		return true
	}

	code := uint32(virgl.TranslateFormat(f))

	if use&drm.UseRendering != 0 && !d.caps.Render.Supports(code) {
		return false
	}
	if use&drm.UseTexture != 0 && !d.caps.Sampler.Supports(code) {
		return false
	}
	if use&drm.UseScanout != 0 && d.capsIsV2 && !d.caps.Scanout.Supports(code) {
		return false
	}
	return true
}

// emulatableFormat reports whether the format is one of the multi-planar
// YUV formats the emulated layout engine can synthesize.
func emulatableFormat(f drm.Format) bool {
	switch f {
	case drm.FormatNV12, drm.FormatNV21, drm.FormatYVU420, drm.FormatYVU420Android:
		return true
	}
	return false
}

// supportsCombinationThroughEmulation reports whether an unsupported
// multi-planar combination can instead be carried as a single-plane byte
// buffer. Hosts with their own buffer manager allocate planar images
// themselves and never need this path.
func (d *Device) supportsCombinationThroughEmulation(f drm.Format, use drm.UseFlags) bool {
	if d.hostGBM {
		return false
	}
	if use&(drm.UseRendering|drm.UseScanout) != 0 {
		return false
	}
	if !d.supportsCombinationNatively(drm.FormatR8, use) {
		return false
	}
	return emulatableFormat(f)
}

// 2D texture size limits for devices without 3D support: the smaller of the
// host software rasterizer's limit and the limit of the translation layer
// running on top of it.
const (
	swiftshaderMaxTexture2DSize = 8192
	llvmpipeMaxTexture2DSize    = 4096

	// llvmpipeTileSize is the software rasterizer's tile granularity; dumb
	// allocations are widened to it.
	llvmpipeTileSize = 64
)

// MaxTexture2DSize returns the largest 2D texture dimension the host
// accepts.
func (d *Device) MaxTexture2DSize() uint32 {
	if !d.params.ThreeD {
		return min(swiftshaderMaxTexture2DSize, llvmpipeMaxTexture2DSize)
	}
	if d.caps.MaxTexture2DSize != 0 {
		return d.caps.MaxTexture2DSize
	}
	return math.MaxUint32
}
