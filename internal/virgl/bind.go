package virgl

// Resource bind bits carried in resource-create requests. The low bits are
// the renderer's own pipe bind semantics; the high bits are the allocator
// extension range the host side of this protocol understands.
const (
	BindDepthStencil uint32 = 1 << 0
	BindRenderTarget uint32 = 1 << 1
	BindSamplerView  uint32 = 1 << 3
	BindVertexBuffer uint32 = 1 << 4
	BindIndexBuffer  uint32 = 1 << 5
	BindCursor       uint32 = 1 << 16
	BindCustom       uint32 = 1 << 17
	BindScanout      uint32 = 1 << 18

	// BindShared tells the host that the guest allocator owns the backing
	// storage, not the renderer.
	BindShared uint32 = 1 << 20

	BindLinear uint32 = 1 << 22

	// Allocator extension range.
	BindCameraWrite    uint32 = 1 << 23
	BindCameraRead     uint32 = 1 << 24
	BindHWVideoDecoder uint32 = 1 << 25
	BindHWVideoEncoder uint32 = 1 << 26
	BindProtected      uint32 = 1 << 27
	BindSWReadOften    uint32 = 1 << 28
	BindSWReadRarely   uint32 = 1 << 29
	BindSWWriteOften   uint32 = 1 << 30
	BindSWWriteRarely  uint32 = 1 << 31
)
