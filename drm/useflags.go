package drm

import "strings"

// UseFlags describes what the guest intends to do with a buffer. The bits
// mirror gralloc-style usage: they are requests, not guarantees; the backend
// may strip bits it cannot honor (scanout on a format the host cannot show)
// and rejects combinations it cannot allocate at all.
type UseFlags uint64

const (
	UseNone      UseFlags = 0
	UseScanout   UseFlags = 1 << 0
	UseCursor    UseFlags = 1 << 1
	UseRendering UseFlags = 1 << 2

	// Bit 3 is reserved (historic write flag).

	UseLinear      UseFlags = 1 << 4
	UseTexture     UseFlags = 1 << 5
	UseCameraWrite UseFlags = 1 << 6
	UseCameraRead  UseFlags = 1 << 7
	UseProtected   UseFlags = 1 << 8

	UseSWReadOften   UseFlags = 1 << 9
	UseSWReadRarely  UseFlags = 1 << 10
	UseSWWriteOften  UseFlags = 1 << 11
	UseSWWriteRarely UseFlags = 1 << 12

	UseHWVideoDecoder UseFlags = 1 << 13
	UseHWVideoEncoder UseFlags = 1 << 14
	UseTestAlloc      UseFlags = 1 << 15
	UseFrontRendering UseFlags = 1 << 16
	UseRenderscript   UseFlags = 1 << 17

	// UseGPUDataBuffer marks raw GPU data buffers (no image semantics).
	UseGPUDataBuffer UseFlags = 1 << 18

	// UseSensorDirectData marks buffers shared with the sensor subsystem.
	UseSensorDirectData UseFlags = 1 << 19
)

// Derived masks.
const (
	UseSWReadMask  = UseSWReadOften | UseSWReadRarely
	UseSWWriteMask = UseSWWriteOften | UseSWWriteRarely

	// UseSWMask covers any CPU mapping intent.
	UseSWMask = UseSWReadMask | UseSWWriteMask

	// UseNonGPUHW covers consumers other than the host GPU. Flush must wait
	// for transfer completion when any of these is set.
	UseNonGPUHW = UseScanout | UseCameraWrite | UseCameraRead |
		UseHWVideoDecoder | UseHWVideoEncoder

	// UseRenderMask is the usage granted to render-target formats.
	UseRenderMask = UseRendering | UseTexture | UseLinear | UseSWMask

	// UseTextureMask is the usage granted to texture-source formats.
	UseTextureMask = UseTexture | UseLinear | UseSWMask
)

var useFlagNames = []struct {
	bit  UseFlags
	name string
}{
	{UseScanout, "scanout"},
	{UseCursor, "cursor"},
	{UseRendering, "rendering"},
	{UseLinear, "linear"},
	{UseTexture, "texture"},
	{UseCameraWrite, "camera-write"},
	{UseCameraRead, "camera-read"},
	{UseProtected, "protected"},
	{UseSWReadOften, "sw-read-often"},
	{UseSWReadRarely, "sw-read-rarely"},
	{UseSWWriteOften, "sw-write-often"},
	{UseSWWriteRarely, "sw-write-rarely"},
	{UseHWVideoDecoder, "hw-video-decoder"},
	{UseHWVideoEncoder, "hw-video-encoder"},
	{UseTestAlloc, "test-alloc"},
	{UseFrontRendering, "front-rendering"},
	{UseRenderscript, "renderscript"},
	{UseGPUDataBuffer, "gpu-data-buffer"},
	{UseSensorDirectData, "sensor-direct-data"},
}

// String lists the set bits by name, for diagnostics.
func (u UseFlags) String() string {
	if u == UseNone {
		return "none"
	}
	var names []string
	rest := u
	for _, f := range useFlagNames {
		if rest&f.bit != 0 {
			names = append(names, f.name)
			rest &^= f.bit
		}
	}
	if rest != 0 {
		names = append(names, "unknown")
	}
	return strings.Join(names, "|")
}
