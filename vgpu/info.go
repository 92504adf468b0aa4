package vgpu

import (
	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

// HostFormatCode returns the host renderer's format code for a guest fourcc,
// or 0 when the host has no equivalent. Diagnostic; allocation paths
// translate internally.
func HostFormatCode(f drm.Format) uint32 {
	return uint32(virgl.TranslateFormat(f))
}

// ResourceInfo reports the host-side per-plane strides and offsets of a
// buffer plus its layout modifier. Without negotiated 3D support the host
// keeps no layout of its own and the result is empty with an invalid
// modifier.
func (d *Device) ResourceInfo(b *Buffer) (strides, offsets [MaxPlanes]uint32, modifier drm.Modifier, err error) {
	if e := d.ready(); e != nil {
		return strides, offsets, drm.ModifierInvalid, e
	}
	if !d.params.ThreeD {
		return strides, offsets, drm.ModifierInvalid, nil
	}

	reply, e := d.tr.ResourceInfo(b.Handle)
	if e != nil {
		return strides, offsets, drm.ModifierInvalid, e
	}

	for plane := 0; plane < MaxPlanes; plane++ {
		// Older kernels lack the extended info request and report no
		// strides at all.
		if reply.Strides[plane] == 0 {
			break
		}
		strides[plane] = reply.Strides[plane]
		offsets[plane] = reply.Offsets[plane]
	}
	return strides, offsets, drm.Modifier(reply.FormatModifier), nil
}

// PlaneFD exports the buffer as a file descriptor the caller can pass to
// another process or API. All planes share the one backing resource.
func (d *Device) PlaneFD(b *Buffer) (int, error) {
	if err := d.ready(); err != nil {
		return -1, err
	}
	return d.tr.PlaneFD(b.Handle)
}
