package virgl

// Capability set payload layout. The host fills a single byte buffer whose
// layout is fixed by protocol version; the constants below locate the few
// fields the allocator reads. Version 1 carries the per-usage format
// bitmasks; version 2 appends (among many renderer limits this backend does
// not consume) the scanout format bitmask and the 2D texture size limit.
const (
	// FormatMaskWords is the length of a supported-format bitmask in
	// 32-bit words. One bit per host format code.
	FormatMaskWords = 16

	// FormatMaskBytes is the byte size of one format bitmask.
	FormatMaskBytes = FormatMaskWords * 4

	// CapsV1MaxVersionOff is the offset of the max_version field.
	CapsV1MaxVersionOff = 0

	// CapsV1SamplerMaskOff locates the sampler (texture source) mask.
	CapsV1SamplerMaskOff = 4

	// CapsV1RenderMaskOff locates the render target mask.
	CapsV1RenderMaskOff = CapsV1SamplerMaskOff + FormatMaskBytes

	// CapsV1Size is the full version-1 payload size. The fields between
	// the render mask and the end (depth/stencil and vertex masks, shader
	// limit blocks) are not consumed by the allocator.
	CapsV1Size = 308

	// CapsV2MaxTexture2DSizeOff locates the max_texture_2d_size limit in
	// the version-2 payload (after the version-1 prefix and the float and
	// shader limit blocks).
	CapsV2MaxTexture2DSizeOff = 492

	// CapsV2ScanoutMaskOff locates the scanout format mask.
	CapsV2ScanoutMaskOff = 504

	// CapsV2Size is the full version-2 payload size as far as this
	// allocator is concerned.
	CapsV2Size = CapsV2ScanoutMaskOff + FormatMaskBytes
)

// Capability set identifiers for the host capability query.
const (
	CapSetVirgl  uint32 = 1
	CapSetVirgl2 uint32 = 2
)
