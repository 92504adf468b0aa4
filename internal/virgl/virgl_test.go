package virgl

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/vgpukit/drm"
)

func TestTranslateFormat(t *testing.T) {
	require.Equal(t, FormatB8G8R8X8, TranslateFormat(drm.FormatXRGB8888))
	require.Equal(t, FormatNV12, TranslateFormat(drm.FormatNV12))
	require.Equal(t, FormatR8, TranslateFormat(drm.FormatR8))

	// Both YV12 variants share the host format.
	require.Equal(t, FormatYV12, TranslateFormat(drm.FormatYVU420))
	require.Equal(t, FormatYV12, TranslateFormat(drm.FormatYVU420Android))

	// Flexible placeholders must never reach translation with a result.
	require.Equal(t, FormatNone, TranslateFormat(drm.FormatFlexYCbCr420))
	require.Equal(t, FormatNone, TranslateFormat(drm.FormatFlexImplementationDefined))
}

// Format codes index the capability bitmasks and must fit them.
func TestFormatCodesFitMask(t *testing.T) {
	for _, f := range []drm.Format{
		drm.FormatR8, drm.FormatR16, drm.FormatRG88, drm.FormatRGB565,
		drm.FormatRGB888, drm.FormatBGR888, drm.FormatXRGB8888,
		drm.FormatARGB8888, drm.FormatXBGR8888, drm.FormatABGR8888,
		drm.FormatABGR2101010, drm.FormatABGR16161616F, drm.FormatNV12,
		drm.FormatNV21, drm.FormatP010, drm.FormatYVU420,
		drm.FormatYVU420Android,
	} {
		require.Less(t, uint32(TranslateFormat(f)), uint32(FormatMaskWords*32),
			"format %s", f)
	}
}

func TestPipeResourceCreateEncode(t *testing.T) {
	cmd := PipeResourceCreate{
		Format: FormatR8,
		Bind:   BindShared | BindLinear,
		Width:  640,
		Height: 480,
		BlobID: 7,
	}
	out := cmd.Encode()
	require.Len(t, out, (PipeResCreateLen+1)*4)

	dw := func(i int) uint32 { return binary.LittleEndian.Uint32(out[i*4:]) }

	require.Equal(t, cmdHeader(cmdPipeResourceCreate, 0, PipeResCreateLen), dw(0))
	require.Equal(t, PipeTexture2D, dw(pipeResCreateTarget))
	require.Equal(t, uint32(FormatR8), dw(pipeResCreateFormat))
	require.Equal(t, BindShared|BindLinear, dw(pipeResCreateBind))
	require.Equal(t, uint32(640), dw(pipeResCreateWidth))
	require.Equal(t, uint32(480), dw(pipeResCreateHeight))
	require.Equal(t, uint32(1), dw(pipeResCreateDepth))
	require.Equal(t, uint32(1), dw(pipeResCreateArraySize))
	require.Zero(t, dw(pipeResCreateLastLevel))
	require.Zero(t, dw(pipeResCreateNrSamples))
	require.Equal(t, uint32(7), dw(pipeResCreateBlobID))
}

func TestCmdHeader(t *testing.T) {
	h := cmdHeader(cmdPipeResourceCreate, 0, PipeResCreateLen)
	require.Equal(t, cmdPipeResourceCreate, h&0xff)
	require.Equal(t, uint32(PipeResCreateLen), h>>16)
}

func TestCapsLayoutConsistency(t *testing.T) {
	require.Equal(t, CapsV1SamplerMaskOff+FormatMaskBytes, CapsV1RenderMaskOff)
	require.Less(t, CapsV1RenderMaskOff+FormatMaskBytes, CapsV1Size)
	require.Equal(t, CapsV2ScanoutMaskOff+FormatMaskBytes, CapsV2Size)
	require.Greater(t, CapsV2Size, CapsV1Size)
}
