package vgpu

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/layout"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

// bufferKind records which creation path backed a buffer; it decides the
// destroy and map routes.
type bufferKind uint8

const (
	bufferBlob bufferKind = iota
	buffer3D
	bufferDumb
)

// Buffer is the concrete descriptor of one allocated resource. Width,
// Height, Format and Use keep the caller's logical request; the plane
// arrays and TotalSize hold the physical geometry, which for emulated
// buffers differs from what the logical format implies.
type Buffer struct {
	Width  uint32
	Height uint32
	Format drm.Format
	Use    drm.UseFlags

	Strides [MaxPlanes]uint32
	Offsets [MaxPlanes]uint32
	Sizes   [MaxPlanes]uint32

	PlaneCount int
	TotalSize  uint32

	// Handle is the opaque guest handle of the host resource.
	Handle uint32

	kind      bufferKind
	blobFlags uint32
	emulated  bool
}

// setGeometry copies a computed plane layout into the descriptor.
func (b *Buffer) setGeometry(planes []layout.Plane, total uint32) {
	b.PlaneCount = len(planes)
	for i, p := range planes {
		b.Strides[i] = p.Stride
		b.Offsets[i] = p.Offset
		b.Sizes[i] = p.Size
	}
	b.TotalSize = total
}

// CreateBuffer allocates a host-backed buffer for the given logical
// geometry and usage. The creation path is picked in order: blob when the
// device and the combination qualify, full 3D when negotiated, dumb
// otherwise. A failed path is not retried on another path.
func (d *Device) CreateBuffer(width, height uint32, f drm.Format, use drm.UseFlags) (*Buffer, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	if !d.combinationAllowed(f, use) {
		return nil, fmt.Errorf("%w: %s with %s", ErrUnsupported, f, use)
	}

	b := &Buffer{Width: width, Height: height, Format: f, Use: use}

	var err error
	switch {
	case d.params.ResourceBlob && d.params.HostVisible && d.shouldUseBlob(f, use):
		err = d.createBlob(b)
	case d.params.ThreeD:
		err = d.create3D(b)
	default:
		err = d.createDumb(b)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBufferWithModifiers allocates with an explicit modifier candidate
// list. Only the linear modifier is ever supported; without it in the list
// there is no path to try and the request is invalid.
func (d *Device) CreateBufferWithModifiers(width, height uint32, f drm.Format, modifiers []drm.Modifier) (*Buffer, error) {
	for _, m := range modifiers {
		if m == drm.ModifierLinear {
			return d.CreateBuffer(width, height, f, drm.UseNone)
		}
	}
	return nil, fmt.Errorf("vgpu: no linear modifier offered for %s: %w", f, unix.EINVAL)
}

// shouldUseBlob is the blob-path predicate. Blob resources only pay off
// when the host's own buffer manager backs them, and only for usage that
// maps or shares raw bytes. Multi-planar formats are admitted only for
// pure GPU/hardware consumption: a blob creation cannot yet convey
// per-plane metadata back to the caller, so a CPU mapping of one would be
// unusable.
func (d *Device) shouldUseBlob(f drm.Format, use drm.UseFlags) bool {
	if !d.hostGBM {
		return false
	}
	if use&(drm.UseSWReadOften|drm.UseSWWriteOften|drm.UseLinear|
		drm.UseNonGPUHW|drm.UseGPUDataBuffer) == 0 {
		return false
	}
	switch f {
	case drm.FormatR8:
		// Strictly defined stride; always safe.
		return true
	case drm.FormatNV12, drm.FormatYVU420Android:
		return use&drm.UseSWMask == 0
	default:
		return false
	}
}

func (d *Device) createBlob(b *Buffer) error {
	blobFlags := BlobFlagShareable
	if b.Use&(drm.UseSWMask|drm.UseGPUDataBuffer) != 0 {
		blobFlags |= BlobFlagMappable
	}
	// Every current blob use case crosses devices.
	blobFlags |= BlobFlagCrossDevice

	// The identifier must be unique across every creation on this device;
	// the counter is the only mutable context state touched here.
	blobID := d.nextBlobID.Add(1)

	stride := layout.Stride(b.Format, b.Width)
	g, err := layout.FromFormat(b.Format, stride, b.Height)
	if err != nil {
		return err
	}
	b.setGeometry(g.Planes, layout.Align(g.Total, pageSize))
	b.kind = bufferBlob
	b.blobFlags = blobFlags

	cmd := virgl.PipeResourceCreate{
		Format: virgl.TranslateFormat(b.Format),
		Bind:   d.bindFlags(b.Use),
		Width:  b.Width,
		Height: b.Height,
		BlobID: blobID,
	}

	handle, err := d.tr.CreateResourceBlob(BlobRequest{
		Cmd:       cmd.Encode(),
		BlobMem:   BlobMemHost3D,
		BlobFlags: blobFlags,
		BlobID:    uint64(blobID),
		Size:      uint64(b.TotalSize),
	})
	if err != nil {
		return err
	}
	b.Handle = handle
	return nil
}

func (d *Device) create3D(b *Buffer) error {
	hostFormat := b.Format
	width, height := b.Width, b.Height

	if d.supportsCombinationNatively(b.Format, b.Use) {
		stride := layout.Stride(b.Format, b.Width)
		g, err := layout.FromFormat(b.Format, stride, b.Height)
		if err != nil {
			return err
		}
		b.setGeometry(g.Planes, g.Total)
	} else {
		// By construction of the combination table the format must be
		// emulatable here.
		g, ok := emulatedLayout(b.Format, b.Width, b.Height)
		if !ok {
			return fmt.Errorf("%w: %s has no emulated layout", ErrUnsupported, b.Format)
		}
		hostFormat = g.format
		width, height = g.width, g.height
		b.setGeometry(g.planes, g.total)
		b.emulated = true
	}
	b.kind = buffer3D

	// The 2D-texture target makes the host bind the resource as a plain
	// texture regardless of how the guest uses it.
	handle, err := d.tr.CreateResource3D(Resource3DRequest{
		Target:    virgl.PipeTexture2D,
		Format:    uint32(virgl.TranslateFormat(hostFormat)),
		Bind:      d.bindFlags(b.Use),
		Width:     width,
		Height:    height,
		Depth:     1,
		ArraySize: 1,
		Size:      layout.Align(b.TotalSize, pageSize),
	})
	if err != nil {
		return err
	}
	b.Handle = handle
	return nil
}

func (d *Device) createDumb(b *Buffer) error {
	width, height := b.Width, b.Height
	// The host rasterizer works in fixed tiles; widen everything except
	// the tightly-strided single-channel format to the tile grid.
	if b.Format != drm.FormatR8 {
		width = layout.Align(width, llvmpipeTileSize)
		height = layout.Align(height, llvmpipeTileSize)
	}

	stride := layout.Stride(b.Format, width)
	g, err := layout.FromFormat(b.Format, stride, height)
	if err != nil {
		return err
	}

	// Dumb allocations are requested as 32bpp rows regardless of format;
	// the true layout is re-derived from the returned pitch.
	reply, err := d.tr.CreateDumb(layout.DivRoundUp(stride, 4),
		layout.DivRoundUp(g.Total, stride), 32)
	if err != nil {
		return err
	}

	g, err = layout.FromFormat(b.Format, reply.Pitch, height)
	if err != nil {
		return err
	}
	b.setGeometry(g.Planes, uint32(reply.Size))
	b.kind = bufferDumb
	b.Handle = reply.Handle
	return nil
}

// DestroyBuffer releases the host resource backing b. The buffer must be
// unmapped first.
func (d *Device) DestroyBuffer(b *Buffer) error {
	if err := d.ready(); err != nil {
		return err
	}
	if b.kind == bufferDumb {
		return d.tr.DestroyDumb(b.Handle)
	}
	return d.tr.CloseResource(b.Handle)
}
