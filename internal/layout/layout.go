// Package layout computes concrete buffer geometry from a pixel format:
// bytes per pixel, plane counts, subsampling, and the per-plane
// stride/offset/size table for a given logical size. It is shared by every
// allocation path and knows nothing about any particular host protocol.
package layout

import (
	"fmt"

	"github.com/joshuapare/vgpukit/drm"
)

// MaxPlanes is the largest plane count of any supported format.
const MaxPlanes = 3

// Plane is the byte-level geometry of one sub-image.
type Plane struct {
	Stride uint32
	Offset uint32
	Size   uint32
}

// Geometry is the full physical layout of a buffer.
type Geometry struct {
	Planes []Plane
	Total  uint32
}

// Align rounds n up to the next multiple of a. a must be a power of two.
func Align(n, a uint32) uint32 {
	return (n + a - 1) &^ (a - 1)
}

// DivRoundUp is ceil(n / d) in integer arithmetic.
func DivRoundUp(n, d uint32) uint32 {
	return (n + d - 1) / d
}

// PlaneCount returns the number of planes of a format, or 0 for formats this
// module does not lay out (including the flexible placeholders, which must
// be resolved before allocation).
func PlaneCount(f drm.Format) int {
	switch f {
	case drm.FormatNV12, drm.FormatNV21, drm.FormatP010:
		return 2
	case drm.FormatYVU420, drm.FormatYVU420Android:
		return 3
	case drm.FormatR8, drm.FormatR16, drm.FormatRG88, drm.FormatRGB565,
		drm.FormatRGB888, drm.FormatBGR888, drm.FormatXRGB8888,
		drm.FormatARGB8888, drm.FormatXBGR8888, drm.FormatABGR8888,
		drm.FormatABGR2101010, drm.FormatABGR16161616F:
		return 1
	default:
		return 0
	}
}

// BytesPerPixel returns the byte width of one sample in the given plane.
func BytesPerPixel(f drm.Format, plane int) uint32 {
	switch f {
	case drm.FormatR8, drm.FormatYVU420, drm.FormatYVU420Android:
		return 1
	case drm.FormatRGB888, drm.FormatBGR888:
		return 3
	case drm.FormatNV12, drm.FormatNV21:
		if plane == 0 {
			return 1
		}
		// Interleaved CbCr.
		return 2
	case drm.FormatP010:
		if plane == 0 {
			return 2
		}
		return 4
	case drm.FormatR16, drm.FormatRGB565, drm.FormatRG88:
		return 2
	case drm.FormatXRGB8888, drm.FormatARGB8888, drm.FormatXBGR8888,
		drm.FormatABGR8888, drm.FormatABGR2101010:
		return 4
	case drm.FormatABGR16161616F:
		return 8
	default:
		return 0
	}
}

// subsampling returns the horizontal and vertical divisor of the given
// plane relative to the full-resolution plane 0.
func subsampling(f drm.Format, plane int) (hsub, vsub uint32) {
	if plane == 0 {
		return 1, 1
	}
	switch f {
	case drm.FormatNV12, drm.FormatNV21, drm.FormatP010:
		// CbCr is interleaved, so the byte width is not halved; only the
		// row count is.
		return 1, 2
	case drm.FormatYVU420, drm.FormatYVU420Android:
		return 2, 2
	}
	return 1, 1
}

// Stride returns the plane-0 stride for a logical width.
func Stride(f drm.Format, width uint32) uint32 {
	stride := BytesPerPixel(f, 0) * width
	// Android media code requires the luma stride of its YV12 variant to be
	// 32-byte aligned (chroma rows then stay 16-byte aligned).
	if f == drm.FormatYVU420Android {
		stride = Align(stride, 32)
	}
	return stride
}

// FromFormat lays out every plane of a buffer from its plane-0 stride and
// logical height. Planes are stacked in fourcc order with no padding between
// them.
func FromFormat(f drm.Format, stride, height uint32) (Geometry, error) {
	n := PlaneCount(f)
	if n == 0 {
		return Geometry{}, fmt.Errorf("layout: no plane layout for format %s", f)
	}

	g := Geometry{Planes: make([]Plane, n)}
	var offset uint32
	for p := 0; p < n; p++ {
		hsub, vsub := subsampling(f, p)
		planeStride := stride / hsub
		if f == drm.FormatYVU420Android && p > 0 {
			planeStride = Align(stride/2, 16)
		}
		rows := DivRoundUp(height, vsub)
		size := planeStride * rows

		g.Planes[p] = Plane{Stride: planeStride, Offset: offset, Size: size}
		offset += size
	}
	g.Total = offset
	return g, nil
}
