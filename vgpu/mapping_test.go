package vgpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

func hostGBMDevice(t *testing.T, params Params) (*Device, *fakeTransport) {
	t.Helper()
	tr := &fakeTransport{capsBySet: map[uint32]Caps{virgl.CapSetVirgl2: fullCaps(2)}}
	return newTestDevice(t, tr, params), tr
}

func TestMapUnmap_3D(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)
	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888, drm.UseRendering|drm.UseSWReadOften)
	require.NoError(t, err)

	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapReadWrite)
	require.NoError(t, err)
	require.Len(t, m.Data, int(b.TotalSize))

	require.NoError(t, d.Unmap(m))
	require.Nil(t, m.Data)
	require.Equal(t, 1, tr.unmapped)
}

func TestMap_DumbRoute(t *testing.T) {
	tr := &fakeTransport{}
	d := newTestDevice(t, tr, Params{})
	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888, drm.UseRendering)
	require.NoError(t, err)
	require.Equal(t, bufferDumb, b.kind)

	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapRead)
	require.NoError(t, err)
	require.Len(t, tr.mapOffsets, 1)
	require.NoError(t, d.Unmap(m))
}

// A buffer the host never writes needs no invalidate transfer at all.
func TestInvalidate_NoHostWriter(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)
	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888, drm.UseTexture|drm.UseSWReadOften)
	require.NoError(t, err)

	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))
	require.Empty(t, tr.fromHost)
	require.Empty(t, tr.waits)
}

// Host-written buffers pull their content and always wait for completion.
func TestInvalidate_DecoderOutput(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)
	b, err := d.CreateBuffer(256, 144, drm.FormatNV12,
		drm.UseTexture|drm.UseHWVideoDecoder|drm.UseSWReadOften)
	require.NoError(t, err)

	m, err := d.Map(b, drm.Rect{Width: 256, Height: 144}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))

	require.Len(t, tr.fromHost, 1)
	req := tr.fromHost[0]
	require.Equal(t, b.Handle, req.Handle)
	require.Equal(t, drm.Rect{Width: 256, Height: 144}, req.Box)
	// Hosts with a buffer manager read the guest stride from the mip level.
	require.Equal(t, b.Strides[0], req.Level)
	require.Equal(t, []uint32{b.Handle}, tr.waits)
}

// Rendering resources go through the renderer's own transfer path, which
// must not see the stride-in-level overload.
func TestInvalidate_RenderingLevelZero(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)
	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888,
		drm.UseRendering|drm.UseSWReadOften)
	require.NoError(t, err)

	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))

	require.Len(t, tr.fromHost, 1)
	require.Zero(t, tr.fromHost[0].Level)
}

// The encoder writes the bitstream buffer, not its image input; the
// single-channel format is what flags the output side.
func TestInvalidate_EncoderBitstream(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)

	b, err := d.CreateBuffer(4096, 1, drm.FormatR8,
		drm.UseHWVideoEncoder|drm.UseSWReadOften)
	require.NoError(t, err)
	m, err := d.Map(b, drm.Rect{Width: 4096, Height: 1}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))
	require.Len(t, tr.fromHost, 1)

	// The encoder's NV12 input is host-read, not host-written.
	b2, err := d.CreateBuffer(256, 144, drm.FormatNV12,
		drm.UseHWVideoEncoder|drm.UseSWWriteOften)
	require.NoError(t, err)
	m2, err := d.Map(b2, drm.Rect{Width: 256, Height: 144}, MapWrite)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m2))
	require.Len(t, tr.fromHost, 1, "no new transfer for the input buffer")
}

func TestInvalidate_EmulatedPartial(t *testing.T) {
	caps := Caps{Version: 1}
	caps.Sampler.Set(uint32(virgl.TranslateFormat(drm.FormatR8)))
	tr := &fakeTransport{capsBySet: map[uint32]Caps{virgl.CapSetVirgl: caps}}
	d := newTestDevice(t, tr, Params{ThreeD: true})

	b, err := d.CreateBuffer(6, 6, drm.FormatNV12,
		drm.UseTexture|drm.UseCameraWrite|drm.UseSWReadOften)
	require.NoError(t, err)
	require.True(t, b.emulated)

	m, err := d.Map(b, drm.Rect{X: 2, Y: 2, Width: 2, Height: 2}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))

	require.Len(t, tr.fromHost, 2)
	require.Equal(t, drm.Rect{X: 2, Y: 2, Width: 2, Height: 2}, tr.fromHost[0].Box)
	require.Equal(t, drm.Rect{X: 2, Y: 8, Width: 2, Height: 1}, tr.fromHost[1].Box)
	require.Len(t, tr.waits, 1)
}

func TestInvalidate_No3D(t *testing.T) {
	tr := &fakeTransport{}
	d := newTestDevice(t, tr, Params{})
	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888, drm.UseRendering)
	require.NoError(t, err)

	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))
	require.NoError(t, d.Flush(m))
	require.Empty(t, tr.fromHost)
	require.Empty(t, tr.toHost)
}

func TestFlush_ReadOnlyMappingSkips(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)
	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888,
		drm.UseRendering|drm.UseSWReadOften)
	require.NoError(t, err)

	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapRead)
	require.NoError(t, err)
	require.NoError(t, d.Flush(m))
	require.Empty(t, tr.toHost)
}

// Flush waits only when hardware other than the GPU consumes the buffer.
func TestFlush_WaitOnlyForNonGPUConsumers(t *testing.T) {
	d, tr := hostGBMDevice(t, params3D)

	b, err := d.CreateBuffer(16, 16, drm.FormatXRGB8888,
		drm.UseRendering|drm.UseSWWriteOften)
	require.NoError(t, err)
	m, err := d.Map(b, drm.Rect{Width: 16, Height: 16}, MapWrite)
	require.NoError(t, err)
	require.NoError(t, d.Flush(m))
	require.Len(t, tr.toHost, 1)
	require.Empty(t, tr.waits, "GPU-only consumption orders by submission")

	b2, err := d.CreateBuffer(256, 144, drm.FormatNV12,
		drm.UseCameraRead|drm.UseSWWriteOften)
	require.NoError(t, err)
	m2, err := d.Map(b2, drm.Rect{Width: 256, Height: 144}, MapWrite)
	require.NoError(t, err)
	require.NoError(t, d.Flush(m2))
	require.Len(t, tr.toHost, 2)
	require.Equal(t, []uint32{b2.Handle}, tr.waits)
}

// Mappable blobs are coherent: the CPU sees host memory directly, so both
// sync directions are no-ops.
func TestSync_MappableBlobSkips(t *testing.T) {
	params := params3D
	params.ResourceBlob = true
	params.HostVisible = true
	d, tr := hostGBMDevice(t, params)

	b, err := d.CreateBuffer(4096, 1, drm.FormatR8,
		drm.UseGPUDataBuffer|drm.UseSWWriteOften|drm.UseSWReadOften)
	require.NoError(t, err)
	require.Equal(t, bufferBlob, b.kind)

	m, err := d.Map(b, drm.Rect{Width: 4096, Height: 1}, MapReadWrite)
	require.NoError(t, err)
	require.NoError(t, d.Invalidate(m))
	require.NoError(t, d.Flush(m))
	require.Empty(t, tr.fromHost)
	require.Empty(t, tr.toHost)
	require.Empty(t, tr.waits)
}

func TestTransferOffset(t *testing.T) {
	b := &Buffer{Format: drm.FormatXRGB8888, PlaneCount: 1}
	b.Strides[0] = 256

	require.Zero(t, transferOffset(b, drm.Rect{Width: 16, Height: 16}))
	require.Equal(t, uint64(256*3+4*2),
		transferOffset(b, drm.Rect{X: 2, Y: 3, Width: 4, Height: 4}))

	// Planar images transfer from offset 0; the host computes plane bases.
	nb := &Buffer{Format: drm.FormatNV12, PlaneCount: 2}
	nb.Strides[0] = 256
	require.Zero(t, transferOffset(nb, drm.Rect{X: 2, Y: 3, Width: 4, Height: 4}))
}
