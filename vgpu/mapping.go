package vgpu

import (
	"fmt"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/layout"
)

// MapFlags describe the CPU's intent for a mapping.
type MapFlags uint32

const (
	MapRead  MapFlags = 1 << 0
	MapWrite MapFlags = 1 << 1

	MapReadWrite = MapRead | MapWrite
)

// Mapping pairs a buffer with an active CPU mapping and the locked
// rectangle. It lives between Map and the paired Unmap; the design assumes
// at most one in-flight mapping per buffer.
type Mapping struct {
	Buffer *Buffer

	// Data is the CPU-visible view, TotalSize bytes long.
	Data []byte

	Rect  drm.Rect
	Flags MapFlags
}

// Map maps the buffer's full byte range and records the locked rectangle.
// Reads from Data are only valid after Invalidate returns; writes must be
// followed by Flush before the host consumes them.
func (d *Device) Map(b *Buffer, r drm.Rect, flags MapFlags) (*Mapping, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}

	var (
		offset uint64
		err    error
	)
	if b.kind == bufferDumb {
		offset, err = d.tr.MapDumb(b.Handle)
	} else {
		offset, err = d.tr.MapResource(b.Handle)
	}
	if err != nil {
		return nil, err
	}

	data, err := d.tr.MapMemory(offset, b.TotalSize, flags&MapWrite != 0)
	if err != nil {
		return nil, fmt.Errorf("vgpu: mapping %d bytes: %w", b.TotalSize, err)
	}

	return &Mapping{Buffer: b, Data: data, Rect: r, Flags: flags}, nil
}

// Unmap releases the CPU mapping. The mapping must not be used afterwards.
func (d *Device) Unmap(m *Mapping) error {
	if err := d.ready(); err != nil {
		return err
	}
	data := m.Data
	m.Data = nil
	return d.tr.UnmapMemory(data)
}

// hostWriteUse returns the usage bits that imply the host writes into the
// buffer. The codec flags don't distinguish input from output buffers, but
// the format does: the single-channel format is the encoder's output
// (bitstream), everything else can be decoder output.
func hostWriteUse(f drm.Format) drm.UseFlags {
	use := drm.UseRendering | drm.UseCameraWrite | drm.UseGPUDataBuffer
	if f == drm.FormatR8 {
		use |= drm.UseHWVideoEncoder
	} else {
		use |= drm.UseHWVideoDecoder
	}
	return use
}

// mappableBlob reports whether the buffer is a blob the CPU maps directly;
// such buffers need no transfers at all.
func (d *Device) mappableBlob(b *Buffer) bool {
	return d.params.ResourceBlob && b.blobFlags&BlobFlagMappable != 0
}

// transferOffset computes the byte offset of the rectangle origin. The host
// assumes offset 0 for planar images, so only single-plane buffers carry
// one.
func transferOffset(b *Buffer, r drm.Rect) uint64 {
	if r.X == 0 && r.Y == 0 {
		return 0
	}
	if b.PlaneCount != 1 {
		return 0
	}
	return uint64(b.Strides[0])*uint64(r.Y) +
		uint64(layout.BytesPerPixel(b.Format, 0))*uint64(r.X)
}

// Invalidate pulls host-side writes into the mapping. It must complete
// before any CPU read of the mapped region is considered valid, so the host
// wait is unconditional. The per-plane transfers are sequential with no
// rollback: a failure can leave earlier planes updated and later ones
// stale.
func (d *Device) Invalidate(m *Mapping) error {
	if err := d.ready(); err != nil {
		return err
	}
	// Without 3D there is no separate host copy to pull from.
	if !d.params.ThreeD {
		return nil
	}

	b := m.Buffer
	if b.Use&hostWriteUse(b.Format) == 0 {
		return nil
	}
	if d.mappableBlob(b) {
		return nil
	}

	req := TransferRequest{
		Handle: b.Handle,
		Offset: transferOffset(b, m.Rect),
	}
	if b.Use&drm.UseRendering == 0 && d.hostGBM {
		// The kernel request has no stride field; hosts backed by a
		// buffer manager read it from the mip level instead. Resources
		// with rendering usage bypass that transfer path and must not see
		// the overloaded value.
		req.Level = b.Strides[0]
	}

	for _, box := range transferPlan(b, m.Rect) {
		req.Box = box
		if err := d.tr.TransferFromHost(req); err != nil {
			return err
		}
	}

	// The transfer must finish before this returns, both so host changes
	// are visible and so the host cannot overwrite subsequent guest
	// writes.
	return d.tr.Wait(b.Handle)
}

// Flush pushes CPU writes to the host copy. Ordering with later GPU work
// is implicit in submission order, so the host wait is only needed when
// hardware other than the GPU consumes the buffer.
func (d *Device) Flush(m *Mapping) error {
	if err := d.ready(); err != nil {
		return err
	}
	if !d.params.ThreeD {
		return nil
	}

	b := m.Buffer
	if m.Flags&MapWrite == 0 {
		return nil
	}
	if d.mappableBlob(b) {
		return nil
	}

	req := TransferRequest{
		Handle: b.Handle,
		Offset: transferOffset(b, m.Rect),
	}
	if d.hostGBM {
		req.Level = b.Strides[0]
	}

	for _, box := range transferPlan(b, m.Rect) {
		req.Box = box
		if err := d.tr.TransferToHost(req); err != nil {
			return err
		}
	}

	if b.Use&drm.UseNonGPUHW != 0 {
		return d.tr.Wait(b.Handle)
	}
	return nil
}
