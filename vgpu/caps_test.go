package vgpu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

func TestNegotiateCaps_ExtendedPreferred(t *testing.T) {
	tr := &fakeTransport{
		capsBySet: map[uint32]Caps{
			virgl.CapSetVirgl2: fullCaps(2),
			virgl.CapSetVirgl:  fullCaps(1),
		},
	}
	d := newTestDevice(t, tr, params3D)

	require.True(t, d.capsIsV2)
	require.Equal(t, uint32(2), d.caps.Version)
}

func TestNegotiateCaps_FallbackToBase(t *testing.T) {
	tr := &fakeTransport{
		capsErr: map[uint32]error{
			virgl.CapSetVirgl2: &HostCallError{Req: "get-caps", Errno: unix.EINVAL},
		},
		capsBySet: map[uint32]Caps{
			virgl.CapSetVirgl: fullCaps(1),
		},
	}
	d := newTestDevice(t, tr, params3D)

	require.False(t, d.capsIsV2)
	require.Equal(t, uint32(1), d.caps.Version)
}

// Devices without the fixed query path must not even attempt the extended
// set.
func TestNegotiateCaps_NoQueryFix(t *testing.T) {
	tr := &fakeTransport{
		capsErr: map[uint32]error{
			virgl.CapSetVirgl2: &HostCallError{Req: "get-caps", Errno: unix.EINVAL},
		},
		capsBySet: map[uint32]Caps{
			virgl.CapSetVirgl: fullCaps(1),
		},
	}
	d := newTestDevice(t, tr, Params{ThreeD: true})

	require.False(t, d.capsIsV2)
	require.Equal(t, uint32(1), d.caps.Version)
}

// When both queries fail the device degrades to permissive: every native
// support check passes.
func TestNegotiateCaps_DoubleFailureIsPermissive(t *testing.T) {
	tr := &fakeTransport{
		capsErr: map[uint32]error{
			virgl.CapSetVirgl2: &HostCallError{Req: "get-caps", Errno: unix.EINVAL},
			virgl.CapSetVirgl:  &HostCallError{Req: "get-caps", Errno: unix.EINVAL},
		},
	}
	d := newTestDevice(t, tr, params3D)

	require.Equal(t, uint32(0), d.caps.Version)
	for _, f := range []drm.Format{
		drm.FormatXRGB8888, drm.FormatNV12, drm.FormatABGR16161616F,
	} {
		require.True(t, d.supportsCombinationNatively(f,
			drm.UseRendering|drm.UseTexture|drm.UseScanout), "format %s", f)
	}
}

func TestSupportsCombinationNatively_Masks(t *testing.T) {
	caps := Caps{Version: 2}
	caps.Sampler.Set(uint32(virgl.TranslateFormat(drm.FormatNV12)))
	caps.Render.Set(uint32(virgl.TranslateFormat(drm.FormatXRGB8888)))
	caps.Scanout.Set(uint32(virgl.TranslateFormat(drm.FormatXRGB8888)))

	tr := &fakeTransport{capsBySet: map[uint32]Caps{virgl.CapSetVirgl2: caps}}
	d := newTestDevice(t, tr, params3D)

	require.True(t, d.supportsCombinationNatively(drm.FormatNV12, drm.UseTexture))
	require.False(t, d.supportsCombinationNatively(drm.FormatNV12, drm.UseRendering))
	require.True(t, d.supportsCombinationNatively(drm.FormatXRGB8888,
		drm.UseRendering|drm.UseScanout))
	require.False(t, d.supportsCombinationNatively(drm.FormatNV21, drm.UseTexture))
}

// The scanout mask only constrains devices that completed the extended
// query; a base-set device cannot see it and must not reject on it.
func TestSupportsCombinationNatively_ScanoutNeedsV2(t *testing.T) {
	caps := fullCaps(1)
	caps.Scanout = FormatMask{}
	tr := &fakeTransport{capsBySet: map[uint32]Caps{virgl.CapSetVirgl: caps}}
	d := newTestDevice(t, tr, Params{ThreeD: true})

	require.True(t, d.supportsCombinationNatively(drm.FormatXRGB8888, drm.UseScanout))
}

func TestFormatMask_Bounds(t *testing.T) {
	var m FormatMask
	m.Set(0)
	require.False(t, m.Supports(0), "code 0 means no host equivalent")
	m.Set(63)
	require.True(t, m.Supports(63))
	m.Set(FormatMaskWords * 32) // out of range, ignored
	require.False(t, m.Supports(FormatMaskWords*32))
}

func TestMaxTexture2DSize(t *testing.T) {
	// Without 3D: the stricter of the two software rasterizer limits.
	tr := &fakeTransport{}
	d := newTestDevice(t, tr, Params{})
	require.Equal(t, uint32(4096), d.MaxTexture2DSize())

	// With 3D and a reported limit: the host's value.
	caps := fullCaps(2)
	caps.MaxTexture2DSize = 16384
	tr = &fakeTransport{capsBySet: map[uint32]Caps{virgl.CapSetVirgl2: caps}}
	d = newTestDevice(t, tr, params3D)
	require.Equal(t, uint32(16384), d.MaxTexture2DSize())
}
