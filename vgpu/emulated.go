package vgpu

import (
	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/layout"
)

// emulatedGeometry is the synthesized single-plane layout of a multi-planar
// format the host cannot allocate directly. Read-only once computed.
type emulatedGeometry struct {
	// format is the physical format of the synthesized image.
	format drm.Format

	// width and height are the physical dimensions; height stacks every
	// plane vertically.
	width  uint32
	height uint32

	planes []layout.Plane
	total  uint32
}

// emulatedLayout synthesizes the single-plane geometry for an emulated
// format. Each plane is laid out as a full-width sub-image of one byte
// buffer, stacked luma first and never interleaved, so a partial lock maps
// to exactly one rectangle per plane. The chroma planes of the triplanar
// layouts waste the right half of their rows; that slack is the price of
// keeping every plane an axis-aligned sub-image. Media framework code also
// assumes Cb and Cr are not row-interlaced, which rules out packing them
// side by side.
func emulatedLayout(f drm.Format, width, height uint32) (emulatedGeometry, bool) {
	g := emulatedGeometry{format: drm.FormatR8}

	yRows := height
	cRows := layout.DivRoundUp(height, 2)

	switch f {
	case drm.FormatNV12, drm.FormatNV21:
		// Biplanar: full-resolution luma over an interleaved half-height
		// chroma plane.
		g.width = width
		g.height = yRows + cRows
		g.planes = []layout.Plane{
			{Stride: g.width, Offset: 0, Size: g.width * yRows},
			{Stride: g.width, Offset: g.width * yRows, Size: g.width * cRows},
		}
	case drm.FormatYVU420, drm.FormatYVU420Android:
		// Triplanar: luma, then the two half-height chroma planes. The
		// physical width is rounded up to a 32-byte boundary.
		g.width = layout.Align(width, 32)
		g.height = yRows + 2*cRows

		ySize := g.width * yRows
		cSize := g.width * cRows
		g.planes = []layout.Plane{
			{Stride: g.width, Offset: 0, Size: ySize},
			{Stride: g.width, Offset: ySize, Size: cSize},
			{Stride: g.width, Offset: ySize + cSize, Size: cSize},
		}
	default:
		return emulatedGeometry{}, false
	}

	g.total = g.width * g.height
	return g, true
}
