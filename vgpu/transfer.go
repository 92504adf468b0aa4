package vgpu

import (
	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/layout"
)

// transferPlan decomposes a logical lock rectangle into the host transfer
// rectangles invalidate and flush must issue, one per physical plane. The
// transfers for one lock are submitted sequentially and are individually
// subject to host failure; there is no rollback across them.
func transferPlan(b *Buffer, r drm.Rect) []drm.Rect {
	// A full-buffer lock always becomes a single transfer covering the
	// whole physical image. Besides being cheaper, this avoids the
	// per-plane edge rounding that partial rectangles need.
	if r.X == 0 && r.Y == 0 && r.Width == b.Width && r.Height == b.Height {
		if g, ok := emulatedLayout(b.Format, b.Width, b.Height); ok && b.emulated {
			return []drm.Rect{{Width: g.width, Height: g.height}}
		}
		return []drm.Rect{{Width: b.Width, Height: b.Height}}
	}

	if !b.emulated {
		return []drm.Rect{r}
	}

	yRows := b.Height
	cRows := layout.DivRoundUp(b.Height, 2)

	switch b.Format {
	case drm.FormatNV12, drm.FormatNV21:
		return []drm.Rect{
			r,
			{
				X:      r.X,
				Y:      r.Y + yRows,
				Width:  r.Width,
				Height: layout.DivRoundUp(r.Height, 2),
			},
		}
	case drm.FormatYVU420, drm.FormatYVU420Android:
		cw := layout.DivRoundUp(r.Width, 2)
		ch := layout.DivRoundUp(r.Height, 2)
		return []drm.Rect{
			r,
			{X: r.X, Y: r.Y + yRows, Width: cw, Height: ch},
			{X: r.X, Y: r.Y + yRows + cRows, Width: cw, Height: ch},
		}
	}

	// Emulated buffers only ever carry the formats above.
	return []drm.Rect{r}
}
