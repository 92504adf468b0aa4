// Package virgl holds the host renderer protocol surface this backend
// speaks: the host pixel format enum, resource bind bits, capability set
// payloads, and the pipe-resource-create command encoding.
//
// Only the slice of the protocol the allocator populates is defined here;
// command submission, shaders and the rest of the 3D stream are out of
// scope.
package virgl

import "github.com/joshuapare/vgpukit/drm"

// Format is a host pixel format code (the renderer's pipe format enum).
// Codes index the per-usage capability bitmasks, so they must stay below
// FormatMaskBits.
type Format uint32

// Host formats this backend allocates. Values follow the host renderer's
// enum; FormatNone doubles as "no host equivalent".
const (
	FormatNone Format = 0

	FormatB8G8R8A8 Format = 1
	FormatB8G8R8X8 Format = 2
	FormatB5G6R5   Format = 7

	FormatR8   Format = 64
	FormatR8G8 Format = 65

	FormatR8G8B8   Format = 66
	FormatR8G8B8A8 Format = 67
	FormatR8G8B8X8 Format = 68

	FormatR16 Format = 92

	FormatR16G16B16A16Float Format = 94

	FormatR10G10B10A2 Format = 103

	FormatYV12 Format = 163
	FormatNV12 Format = 166
	FormatNV21 Format = 167

	FormatP010 Format = 314
)

// TranslateFormat maps a guest fourcc to the host format code, or FormatNone
// when the host has no equivalent. Both YV12 variants share one host format;
// their differing stride rules are a guest-side concern.
func TranslateFormat(f drm.Format) Format {
	switch f {
	case drm.FormatBGR888, drm.FormatRGB888:
		return FormatR8G8B8
	case drm.FormatXRGB8888:
		return FormatB8G8R8X8
	case drm.FormatARGB8888:
		return FormatB8G8R8A8
	case drm.FormatXBGR8888:
		return FormatR8G8B8X8
	case drm.FormatABGR8888:
		return FormatR8G8B8A8
	case drm.FormatABGR16161616F:
		return FormatR16G16B16A16Float
	case drm.FormatABGR2101010:
		return FormatR10G10B10A2
	case drm.FormatRGB565:
		return FormatB5G6R5
	case drm.FormatR8:
		return FormatR8
	case drm.FormatR16:
		return FormatR16
	case drm.FormatRG88:
		return FormatR8G8
	case drm.FormatNV12:
		return FormatNV12
	case drm.FormatNV21:
		return FormatNV21
	case drm.FormatP010:
		return FormatP010
	case drm.FormatYVU420, drm.FormatYVU420Android:
		return FormatYV12
	default:
		return FormatNone
	}
}
