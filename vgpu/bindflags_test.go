package vgpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

func TestComputeBindFlags_TextureRenderSW(t *testing.T) {
	bind, residue := computeBindFlags(
		drm.UseTexture | drm.UseRendering | drm.UseSWReadOften | drm.UseSWWriteRarely)

	require.Equal(t, virgl.BindShared|virgl.BindSamplerView|virgl.BindRenderTarget|
		virgl.BindSWReadOften|virgl.BindSWWriteRarely, bind)
	require.Zero(t, bind&virgl.BindProtected)
	require.Equal(t, drm.UseNone, residue)
}

func TestComputeBindFlags_SharedAlways(t *testing.T) {
	bind, residue := computeBindFlags(drm.UseNone)
	require.Equal(t, virgl.BindShared, bind)
	require.Equal(t, drm.UseNone, residue)
}

// Protected content must not carry software-intent bits: a read+write pair
// could otherwise be mistaken for the protection encoding. The intent bits
// are not consumed, so they come back as residue to be reported.
func TestComputeBindFlags_ProtectedIgnoresSW(t *testing.T) {
	bind, residue := computeBindFlags(
		drm.UseProtected | drm.UseSWReadOften | drm.UseSWWriteOften)

	require.Equal(t, virgl.BindShared|virgl.BindProtected, bind)
	require.Zero(t, bind&(virgl.BindSWReadOften|virgl.BindSWWriteOften))
	require.Equal(t, drm.UseSWReadOften|drm.UseSWWriteOften, residue)
}

// Often takes priority over rarely within each intent direction; only one
// bit per direction is emitted, and the losing rarely bit stays unconsumed
// in the residue.
func TestComputeBindFlags_OftenOverRarely(t *testing.T) {
	bind, residue := computeBindFlags(
		drm.UseSWReadOften | drm.UseSWReadRarely |
			drm.UseSWWriteOften | drm.UseSWWriteRarely)

	require.Equal(t, virgl.BindShared|virgl.BindSWReadOften|virgl.BindSWWriteOften, bind)
	require.Zero(t, bind&(virgl.BindSWReadRarely|virgl.BindSWWriteRarely))
	require.Equal(t, drm.UseSWReadRarely|drm.UseSWWriteRarely, residue)
}

func TestComputeBindFlags_CameraAndCodec(t *testing.T) {
	bind, residue := computeBindFlags(
		drm.UseCameraRead | drm.UseCameraWrite |
			drm.UseHWVideoDecoder | drm.UseHWVideoEncoder)

	require.Equal(t, virgl.BindShared|virgl.BindCameraRead|virgl.BindCameraWrite|
		virgl.BindHWVideoDecoder|virgl.BindHWVideoEncoder, bind)
	require.Equal(t, drm.UseNone, residue)
}

func TestComputeBindFlags_LinearAliases(t *testing.T) {
	for _, use := range []drm.UseFlags{
		drm.UseLinear, drm.UseSensorDirectData,
		drm.UseGPUDataBuffer, drm.UseFrontRendering,
	} {
		bind, residue := computeBindFlags(use)
		require.Equal(t, virgl.BindShared|virgl.BindLinear, bind, "use %s", use)
		require.Equal(t, drm.UseNone, residue, "use %s", use)
	}
}

// Usage bits with no translation rule come back as residue rather than
// failing the request.
func TestComputeBindFlags_Residue(t *testing.T) {
	bind, residue := computeBindFlags(drm.UseTexture | drm.UseRenderscript)
	require.Equal(t, virgl.BindShared|virgl.BindSamplerView, bind)
	require.Equal(t, drm.UseRenderscript, residue)
}
