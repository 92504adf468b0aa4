package vgpu

import (
	"io"
	"log/slog"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

// --- recording fake transport ---

// fakeTransport records every request the backend issues and answers from
// canned state. Zero value: every capability set available and empty, every
// creation succeeds with ascending handles.
type fakeTransport struct {
	capsBySet map[uint32]Caps
	capsErr   map[uint32]error

	nextHandle uint32

	create3D   []Resource3DRequest
	createBlob []BlobRequest
	dumb       []struct{ Width, Height, Bpp uint32 }
	dumbPitch  uint32

	toHost   []TransferRequest
	fromHost []TransferRequest
	waits    []uint32

	mapOffsets  []uint64
	mapped      [][]byte
	unmapped    int
	infoReply   ResourceInfoReply
	destroyed   []uint32
	closedRes   []uint32
	planeFDs    []uint32
	closeCalled bool
}

func (f *fakeTransport) handle() uint32 {
	f.nextHandle++
	return f.nextHandle
}

func (f *fakeTransport) GetCaps(set uint32) (Caps, error) {
	if err, ok := f.capsErr[set]; ok {
		return Caps{}, err
	}
	if c, ok := f.capsBySet[set]; ok {
		return c, nil
	}
	return Caps{}, &HostCallError{Req: "get-caps", Errno: unix.EINVAL}
}

func (f *fakeTransport) CreateResource3D(req Resource3DRequest) (uint32, error) {
	f.create3D = append(f.create3D, req)
	return f.handle(), nil
}

func (f *fakeTransport) CreateResourceBlob(req BlobRequest) (uint32, error) {
	f.createBlob = append(f.createBlob, req)
	return f.handle(), nil
}

func (f *fakeTransport) MapResource(handle uint32) (uint64, error) {
	f.mapOffsets = append(f.mapOffsets, uint64(handle)<<12)
	return uint64(handle) << 12, nil
}

func (f *fakeTransport) MapDumb(handle uint32) (uint64, error) {
	f.mapOffsets = append(f.mapOffsets, uint64(handle)<<12)
	return uint64(handle) << 12, nil
}

func (f *fakeTransport) MapMemory(offset uint64, length uint32, writable bool) ([]byte, error) {
	data := make([]byte, length)
	f.mapped = append(f.mapped, data)
	return data, nil
}

func (f *fakeTransport) UnmapMemory(data []byte) error {
	f.unmapped++
	return nil
}

func (f *fakeTransport) ResourceInfo(handle uint32) (ResourceInfoReply, error) {
	return f.infoReply, nil
}

func (f *fakeTransport) TransferToHost(req TransferRequest) error {
	f.toHost = append(f.toHost, req)
	return nil
}

func (f *fakeTransport) TransferFromHost(req TransferRequest) error {
	f.fromHost = append(f.fromHost, req)
	return nil
}

func (f *fakeTransport) Wait(handle uint32) error {
	f.waits = append(f.waits, handle)
	return nil
}

func (f *fakeTransport) CreateDumb(width, height, bpp uint32) (DumbReply, error) {
	f.dumb = append(f.dumb, struct{ Width, Height, Bpp uint32 }{width, height, bpp})
	pitch := f.dumbPitch
	if pitch == 0 {
		pitch = width * 4
	}
	return DumbReply{Handle: f.handle(), Pitch: pitch, Size: uint64(pitch * height)}, nil
}

func (f *fakeTransport) DestroyDumb(handle uint32) error {
	f.destroyed = append(f.destroyed, handle)
	return nil
}

func (f *fakeTransport) CloseResource(handle uint32) error {
	f.closedRes = append(f.closedRes, handle)
	return nil
}

func (f *fakeTransport) PlaneFD(handle uint32) (int, error) {
	f.planeFDs = append(f.planeFDs, handle)
	return int(handle) + 100, nil
}

func (f *fakeTransport) Close() error {
	f.closeCalled = true
	return nil
}

// --- canned capability sets ---

// fullCaps builds a version-1 or version-2 capability set supporting every
// host format code the translator emits.
func fullCaps(version uint32) Caps {
	c := Caps{Version: version}
	for _, f := range []drm.Format{
		drm.FormatR8, drm.FormatR16, drm.FormatRG88, drm.FormatRGB565,
		drm.FormatRGB888, drm.FormatBGR888, drm.FormatXRGB8888,
		drm.FormatARGB8888, drm.FormatXBGR8888, drm.FormatABGR8888,
		drm.FormatABGR2101010, drm.FormatABGR16161616F, drm.FormatNV12,
		drm.FormatNV21, drm.FormatP010, drm.FormatYVU420,
		drm.FormatYVU420Android,
	} {
		code := uint32(virgl.TranslateFormat(f))
		c.Sampler.Set(code)
		c.Render.Set(code)
		c.Scanout.Set(code)
	}
	return c
}

// --- device construction ---

func newTestDevice(t *testing.T, tr *fakeTransport, params Params) *Device {
	t.Helper()
	d, err := NewDevice(Config{
		Transport: tr,
		Params:    params,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d
}

// params3D is the common fully-featured 3D device configuration.
var params3D = Params{ThreeD: true, CapsetQueryFix: true}
