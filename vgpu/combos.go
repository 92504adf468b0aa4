package vgpu

import (
	"sort"

	"github.com/joshuapare/vgpukit/drm"
)

// Format groups admitted into the combination table. Order matters: later
// modify calls only add usage to formats already admitted.
var (
	renderTargetFormats = []drm.Format{
		drm.FormatABGR8888, drm.FormatARGB8888, drm.FormatRGB565,
		drm.FormatXBGR8888, drm.FormatXRGB8888,
	}

	textureSourceFormats = []drm.Format{
		drm.FormatNV12, drm.FormatNV21, drm.FormatR8, drm.FormatR16,
		drm.FormatRG88, drm.FormatYVU420Android, drm.FormatABGR2101010,
		drm.FormatABGR16161616F,
	}

	// dumbTextureSourceFormats is the wider set offered without 3D; dumb
	// buffers are host-agnostic so no native support check constrains them.
	dumbTextureSourceFormats = []drm.Format{
		drm.FormatR8, drm.FormatR16, drm.FormatYVU420, drm.FormatNV12,
		drm.FormatNV21, drm.FormatYVU420Android, drm.FormatABGR2101010,
		drm.FormatABGR16161616F,
	}
)

// Combination is one admitted (format, usage) entry of the table.
type Combination struct {
	Format drm.Format
	Use    drm.UseFlags
}

// addCombination admits a (format, usage) pair after checking host support.
// Scanout usage is stripped rather than failing the whole combination when
// the host cannot scan the format out; a combination that is neither
// natively supported nor emulatable is dropped entirely.
func (d *Device) addCombination(f drm.Format, use drm.UseFlags) {
	if d.params.ThreeD {
		if use&drm.UseScanout != 0 &&
			!d.supportsCombinationNatively(f, drm.UseScanout) {
			d.log.Info("stripping scanout usage", "format", f)
			use &^= drm.UseScanout
		}

		if !d.supportsCombinationNatively(f, use) &&
			!d.supportsCombinationThroughEmulation(f, use) {
			d.log.Info("skipping unsupported combination", "format", f, "use", use)
			return
		}
	}

	d.combos[f] |= use
}

func (d *Device) addCombinations(formats []drm.Format, use drm.UseFlags) {
	for _, f := range formats {
		d.addCombination(f, use)
	}
}

// modifyCombination unions extra usage bits into an existing entry without
// re-checking native support; the added usages are always carried by the
// emulation or dumb path. Formats never admitted stay absent.
func (d *Device) modifyCombination(f drm.Format, use drm.UseFlags) {
	if _, ok := d.combos[f]; !ok {
		return
	}
	d.combos[f] |= use
}

const cameraCodecUse = drm.UseCameraRead | drm.UseCameraWrite |
	drm.UseHWVideoDecoder | drm.UseHWVideoEncoder

// initCombinations builds the table once, after capability negotiation.
func (d *Device) initCombinations() {
	if d.params.ThreeD {
		// Scanout here only means the hypervisor can display the format,
		// not that the host can scan everything out.
		d.addCombinations(renderTargetFormats, drm.UseRenderMask|drm.UseScanout)
		d.addCombinations(textureSourceFormats, drm.UseTextureMask)
		// NV12 scanout must pass through the native check so the usage can
		// be conditionally stripped; the camera and codec grants ride the
		// emulation path regardless and are added without re-checking.
		d.addCombination(drm.FormatNV12, drm.UseTextureMask|drm.UseScanout)
		d.modifyCombination(drm.FormatNV12, cameraCodecUse)
	} else {
		// The display's primary plane accepts only this format.
		d.addCombination(drm.FormatXRGB8888, drm.UseRenderMask|drm.UseScanout)
		// The cursor plane accepts only this one.
		d.addCombination(drm.FormatARGB8888, drm.UseRenderMask|drm.UseCursor)
		d.addCombinations(renderTargetFormats, drm.UseRenderMask)
		d.addCombinations(dumbTextureSourceFormats, drm.UseTextureMask)
		d.modifyCombination(drm.FormatNV12, cameraCodecUse)
	}

	// Compatibility test suites require the 24-bit RGB orders with CPU
	// access.
	d.addCombination(drm.FormatRGB888, drm.UseSWMask)
	d.addCombination(drm.FormatBGR888, drm.UseSWMask)
	// Camera stacks additionally need P010; its scanout usage is expected
	// to be stripped above when the host cannot show it.
	d.addCombination(drm.FormatP010,
		drm.UseScanout|drm.UseTexture|drm.UseSWMask|
			drm.UseCameraRead|drm.UseCameraWrite)
	// Sensor and raw data buffers ride on R8.
	d.modifyCombination(drm.FormatR8,
		cameraCodecUse|drm.UseSensorDirectData|drm.UseGPUDataBuffer)

	if !d.hostGBM {
		d.modifyCombination(drm.FormatABGR8888, cameraCodecUse)
		d.modifyCombination(drm.FormatXBGR8888, cameraCodecUse)
		d.modifyCombination(drm.FormatNV21, cameraCodecUse)
		d.modifyCombination(drm.FormatR16,
			drm.UseCameraRead|drm.UseCameraWrite|drm.UseHWVideoDecoder)
		d.modifyCombination(drm.FormatYVU420, cameraCodecUse)
		d.modifyCombination(drm.FormatYVU420Android, cameraCodecUse)
	}

	// Everything this backend allocates is linear.
	for f := range d.combos {
		d.combos[f] |= drm.UseLinear
	}
}

// combinationAllowed reports whether every requested usage bit was admitted
// for the format.
func (d *Device) combinationAllowed(f drm.Format, use drm.UseFlags) bool {
	allowed, ok := d.combos[f]
	return ok && use&^allowed == 0
}

// Combinations returns the admitted table sorted by format, for
// diagnostics.
func (d *Device) Combinations() []Combination {
	out := make([]Combination, 0, len(d.combos))
	for f, use := range d.combos {
		out = append(out, Combination{Format: f, Use: use})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format < out[j].Format })
	return out
}
