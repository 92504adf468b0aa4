package virgl

import "encoding/binary"

// PipeTexture2D is the resource target that binds a resource as a 2D
// texture in the host renderer's state. Every resource this backend creates
// uses it; the host converts the target to its API equivalent when binding.
const PipeTexture2D uint32 = 2

// Pipe-resource-create command stream layout: one header dword followed by
// PipeResCreateLen payload dwords.
const (
	cmdPipeResourceCreate uint32 = 40

	// PipeResCreateLen is the payload length in dwords.
	PipeResCreateLen = 11

	pipeResCreateTarget    = 1
	pipeResCreateFormat    = 2
	pipeResCreateBind      = 3
	pipeResCreateWidth     = 4
	pipeResCreateHeight    = 5
	pipeResCreateDepth     = 6
	pipeResCreateArraySize = 7
	pipeResCreateLastLevel = 8
	pipeResCreateNrSamples = 9
	pipeResCreateFlags     = 10
	pipeResCreateBlobID    = 11
)

// cmdHeader packs a command dword: command id in the low byte, object type
// in the next, payload length in the high half.
func cmdHeader(cmd, obj, length uint32) uint32 {
	return cmd | obj<<8 | length<<16
}

// PipeResourceCreate is the host command embedded in a blob resource
// creation, describing the 2D image the blob backs.
type PipeResourceCreate struct {
	Format Format
	Bind   uint32
	Width  uint32
	Height uint32
	BlobID uint32
}

// Encode serializes the command as the little-endian dword stream the host
// expects. Depth is fixed at 1; mip levels, array layers and multisampling
// are never used by buffer allocations.
func (c PipeResourceCreate) Encode() []byte {
	var dw [PipeResCreateLen + 1]uint32
	dw[0] = cmdHeader(cmdPipeResourceCreate, 0, PipeResCreateLen)
	dw[pipeResCreateTarget] = PipeTexture2D
	dw[pipeResCreateFormat] = uint32(c.Format)
	dw[pipeResCreateBind] = c.Bind
	dw[pipeResCreateWidth] = c.Width
	dw[pipeResCreateHeight] = c.Height
	dw[pipeResCreateDepth] = 1
	dw[pipeResCreateArraySize] = 1
	dw[pipeResCreateBlobID] = c.BlobID

	out := make([]byte, len(dw)*4)
	for i, w := range dw {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}
