package drm

// Modifier is a DRM format modifier describing the tiling of a buffer.
// This backend only ever allocates linear buffers; modifiers exist so the
// create-with-modifiers entry point can filter the caller's candidate list.
type Modifier uint64

const (
	// ModifierLinear is DRM_FORMAT_MOD_LINEAR: rows laid out sequentially
	// with no tiling.
	ModifierLinear Modifier = 0

	// ModifierInvalid is DRM_FORMAT_MOD_INVALID: modifier information is
	// absent or unknown. Reported by resource-info when the device was not
	// negotiated with 3D support.
	ModifierInvalid Modifier = 0x00ffffffffffffff
)
