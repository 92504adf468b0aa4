package vgpu

import (
	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/internal/virgl"
)

// bindRule maps one usage bit to one host bind bit.
type bindRule struct {
	use  drm.UseFlags
	bind uint32
}

// Straightforward rules applied before the protected/software-intent group.
var earlyBindRules = []bindRule{
	{drm.UseTexture, virgl.BindSamplerView},
	{drm.UseRendering, virgl.BindRenderTarget},
	{drm.UseScanout, virgl.BindScanout},
	{drm.UseCursor, virgl.BindCursor},
	{drm.UseLinear, virgl.BindLinear},
	{drm.UseSensorDirectData, virgl.BindLinear},
	{drm.UseGPUDataBuffer, virgl.BindLinear},
	{drm.UseFrontRendering, virgl.BindLinear},
}

// Rules applied after it.
var lateBindRules = []bindRule{
	{drm.UseCameraWrite, virgl.BindCameraWrite},
	{drm.UseCameraRead, virgl.BindCameraRead},
	{drm.UseHWVideoDecoder, virgl.BindHWVideoDecoder},
	{drm.UseHWVideoEncoder, virgl.BindHWVideoEncoder},
}

// applyBindRules folds a rule list over the remaining usage: each matching
// rule clears its usage bit and sets its bind bit.
func applyBindRules(rules []bindRule, use drm.UseFlags, bind uint32) (uint32, drm.UseFlags) {
	for _, r := range rules {
		if use&r.use != 0 {
			use &^= r.use
			bind |= r.bind
		}
	}
	return bind, use
}

// computeBindFlags translates guest usage into host bind bits, returning
// the bind word and any usage bits no rule consumed. The caller reports the
// residue; it is not an error, the corresponding host semantics are simply
// absent.
func computeBindFlags(use drm.UseFlags) (uint32, drm.UseFlags) {
	// The host treats shared as "the guest allocator owns the storage".
	bind := virgl.BindShared

	bind, use = applyBindRules(earlyBindRules, use, bind)

	if use&drm.UseProtected != 0 {
		// Protected content maps alone: no software-intent bit is
		// translated, so the host cannot mistake an unrelated read+write
		// pair for the protection encoding. The intent bits stay in the
		// residue and are reported, not silently dropped.
		use &^= drm.UseProtected
		bind |= virgl.BindProtected
	} else {
		// At most one read-intent bit and one write-intent bit, with
		// "often" taking priority over "rarely". A losing "rarely" bit is
		// left unconsumed and surfaces in the residue report.
		if use&drm.UseSWReadOften != 0 {
			use &^= drm.UseSWReadOften
			bind |= virgl.BindSWReadOften
		} else if use&drm.UseSWReadRarely != 0 {
			use &^= drm.UseSWReadRarely
			bind |= virgl.BindSWReadRarely
		}
		if use&drm.UseSWWriteOften != 0 {
			use &^= drm.UseSWWriteOften
			bind |= virgl.BindSWWriteOften
		} else if use&drm.UseSWWriteRarely != 0 {
			use &^= drm.UseSWWriteRarely
			bind |= virgl.BindSWWriteRarely
		}
	}

	bind, use = applyBindRules(lateBindRules, use, bind)

	return bind, use
}

// bindFlags is computeBindFlags plus the non-fatal residue report.
func (d *Device) bindFlags(use drm.UseFlags) uint32 {
	bind, residue := computeBindFlags(use)
	if residue != 0 {
		d.log.Warn("unhandled buffer use flags", "use", residue)
	}
	return bind
}
