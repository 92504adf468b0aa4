package vgpu

import "github.com/joshuapare/vgpukit/drm"

// ResolveFormatAndUseFlags maps the caller-visible flexible formats to
// concrete ones and adjusts usage to what the device can honor. It is pure
// with respect to buffer state and idempotent: feeding its output back in
// changes nothing further.
func (d *Device) ResolveFormatAndUseFlags(f drm.Format, use drm.UseFlags) (drm.Format, drm.UseFlags) {
	if d.params.ThreeD {
		return d.resolve3D(f, use)
	}
	return d.resolve2D(f, use)
}

func (d *Device) resolve3D(f drm.Format, use drm.UseFlags) (drm.Format, drm.UseFlags) {
	// Flexible formats first.
	switch f {
	case drm.FormatFlexImplementationDefined:
		if use&(drm.UseCameraRead|drm.UseCameraWrite) != 0 {
			// The camera subsystem requires the biplanar format.
			f = drm.FormatNV12
		} else {
			f = drm.FormatXBGR8888
			use &^= drm.UseHWVideoEncoder
			use |= drm.UseLinear
		}
	case drm.FormatFlexYCbCr420:
		// Every supported host prefers NV12 as its flexible media format.
		f = drm.FormatNV12
	}

	// Then concrete-format adjustments.
	switch f {
	case drm.FormatNV12, drm.FormatABGR8888, drm.FormatARGB8888,
		drm.FormatRGB565, drm.FormatXBGR8888, drm.FormatXRGB8888:
		// The guest-visible scanout formats. Strip the usage when the host
		// cannot natively scan the format out.
		if use&drm.UseScanout != 0 &&
			!d.supportsCombinationNatively(f, drm.UseScanout) {
			use &^= drm.UseScanout
		}
	case drm.FormatYVU420Android:
		use &^= drm.UseScanout
		use |= drm.UseLinear
	}

	return f, use
}

func (d *Device) resolve2D(f drm.Format, use drm.UseFlags) (drm.Format, drm.UseFlags) {
	// Without 3D the display's primary plane only accepts XRGB8888; every
	// other format loses scanout up front.
	if f != drm.FormatXRGB8888 {
		use &^= drm.UseScanout
	}

	switch f {
	case drm.FormatFlexImplementationDefined:
		if use&(drm.UseCameraRead|drm.UseCameraWrite) != 0 {
			f = drm.FormatNV12
		} else {
			f = drm.FormatXBGR8888
			use &^= drm.UseHWVideoEncoder
		}
	case drm.FormatFlexYCbCr420:
		f = drm.FormatYVU420Android
		use &^= drm.UseScanout
		use |= drm.UseLinear
	case drm.FormatYVU420Android:
		use &^= drm.UseScanout
		use |= drm.UseLinear
	}

	return f, use
}
