package drm

import "fmt"

// Format is a DRM fourcc pixel format code as used by the kernel mode
// setting and PRIME APIs. The guest-facing allocation API speaks fourcc;
// translation to the host renderer's own format enum happens inside the
// backend.
type Format uint32

// FourCC builds a fourcc code from its four character bytes, matching the
// kernel's fourcc_code() macro (little-endian packing).
func FourCC(a, b, c, d byte) Format {
	return Format(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Pixel formats understood by this module. The list mirrors the set a
// virtio-gpu guest actually allocates; it is not the full kernel fourcc
// table.
var (
	FormatR8            = FourCC('R', '8', ' ', ' ')
	FormatR16           = FourCC('R', '1', '6', ' ')
	FormatRG88          = FourCC('R', 'G', '8', '8')
	FormatRGB565        = FourCC('R', 'G', '1', '6')
	FormatRGB888        = FourCC('R', 'G', '2', '4')
	FormatBGR888        = FourCC('B', 'G', '2', '4')
	FormatXRGB8888      = FourCC('X', 'R', '2', '4')
	FormatARGB8888      = FourCC('A', 'R', '2', '4')
	FormatXBGR8888      = FourCC('X', 'B', '2', '4')
	FormatABGR8888      = FourCC('A', 'B', '2', '4')
	FormatABGR2101010   = FourCC('A', 'B', '3', '0')
	FormatABGR16161616F = FourCC('A', 'B', '4', 'H')
	FormatNV12          = FourCC('N', 'V', '1', '2')
	FormatNV21          = FourCC('N', 'V', '2', '1')
	FormatP010          = FourCC('P', '0', '1', '0')
	FormatYVU420        = FourCC('Y', 'V', '1', '2')

	// FormatYVU420Android is the Android gralloc variant of YV12. It shares
	// the host translation with FormatYVU420 but carries different stride
	// alignment rules, so it keeps a distinct (non-kernel) fourcc.
	FormatYVU420Android = FourCC('9', '9', '9', '7')

	// FormatFlexImplementationDefined is the Android
	// HAL_PIXEL_FORMAT_IMPLEMENTATION_DEFINED placeholder. It never reaches
	// the host; the format resolver replaces it with a concrete format
	// according to the requested usage.
	FormatFlexImplementationDefined = FourCC('9', '9', '9', '8')

	// FormatFlexYCbCr420 is the Android HAL_PIXEL_FORMAT_YCbCr_420_888
	// placeholder, resolved to a concrete planar YUV format before
	// allocation.
	FormatFlexYCbCr420 = FourCC('9', '9', '9', '9')
)

// String renders the fourcc as its four characters when printable, else the
// raw hex value.
func (f Format) String() string {
	b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%#08x", uint32(f))
		}
	}
	return string(b[:])
}
