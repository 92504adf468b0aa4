package vgpu

import "github.com/joshuapare/vgpukit/drm"

// Params are the device features negotiated when the virtio-gpu node was
// opened. They are queried once by the transport and treated as read-only
// by the backend.
type Params struct {
	// ThreeD reports full 3D (virgl) command support. Without it the
	// backend falls back to dumb buffer allocation and transfers become
	// no-ops.
	ThreeD bool

	// CapsetQueryFix reports that the host honors the extended capability
	// query (capability set 2).
	CapsetQueryFix bool

	// ResourceBlob reports blob resource support.
	ResourceBlob bool

	// HostVisible reports that host memory can be mapped into the guest,
	// a prerequisite for the blob creation path.
	HostVisible bool
}

// Resource3DRequest describes a structured 2D/3D resource to create on the
// host. Depth, ArraySize and the mip/sample fields are filled by the
// backend; buffer allocations never use more than one layer or level.
type Resource3DRequest struct {
	Target    uint32
	Format    uint32 // host format code, already translated
	Bind      uint32
	Width     uint32
	Height    uint32
	Depth     uint32
	ArraySize uint32
	LastLevel uint32
	NrSamples uint32
	Flags     uint32
	Size      uint32 // page-aligned byte size
}

// Blob memory types and flags carried by BlobRequest.
const (
	BlobMemGuest       uint32 = 0x0001
	BlobMemHost3D      uint32 = 0x0002
	BlobMemHost3DGuest uint32 = 0x0003

	BlobFlagMappable    uint32 = 0x0001
	BlobFlagShareable   uint32 = 0x0002
	BlobFlagCrossDevice uint32 = 0x0004
)

// BlobRequest describes a blob resource: a raw byte range with explicit
// mappability and sharing flags, created from a host command stream that
// describes the image the bytes back.
type BlobRequest struct {
	Cmd       []byte
	BlobMem   uint32
	BlobFlags uint32
	BlobID    uint64
	Size      uint64
}

// TransferRequest scopes one host transfer to a rectangle of a resource.
// Level carries the guest stride on hosts whose transfer path needs it (the
// request format has no stride field of its own); Offset is the byte offset
// of the rectangle origin for single-plane resources.
type TransferRequest struct {
	Handle uint32
	Box    drm.Rect
	Level  uint32
	Offset uint64
}

// ResourceInfoReply is the host's per-plane layout of a resource. Unused
// trailing planes have zero strides.
type ResourceInfoReply struct {
	Strides        [MaxPlanes]uint32
	Offsets        [MaxPlanes]uint32
	FormatModifier uint64
}

// DumbReply is the result of a dumb buffer allocation.
type DumbReply struct {
	Handle uint32
	Pitch  uint32
	Size   uint64
}

// Transport issues the host protocol requests the backend depends on, one
// method per request. Every method is a blocking request/response pair; a
// failing request surfaces the host's status as a *HostCallError.
//
// Implementations must be safe for the serialization model described on
// Device: capability and parameter queries happen once during
// initialization, everything else is serialized per buffer by the caller.
// The drmnode package provides the real implementation; tests substitute a
// recording fake.
type Transport interface {
	// GetCaps queries one capability set and returns its decoded payload.
	GetCaps(set uint32) (Caps, error)

	// CreateResource3D creates a structured host resource and returns its
	// guest handle.
	CreateResource3D(req Resource3DRequest) (uint32, error)

	// CreateResourceBlob creates a blob resource and returns its guest
	// handle.
	CreateResourceBlob(req BlobRequest) (uint32, error)

	// MapResource asks the host for the mmap offset of a resource.
	MapResource(handle uint32) (uint64, error)

	// MapDumb asks for the mmap offset of a dumb buffer.
	MapDumb(handle uint32) (uint64, error)

	// MapMemory maps length bytes at the device offset into the process
	// and returns the mapping.
	MapMemory(offset uint64, length uint32, writable bool) ([]byte, error)

	// UnmapMemory releases a mapping returned by MapMemory.
	UnmapMemory(data []byte) error

	// ResourceInfo returns the host-side plane layout of a resource.
	ResourceInfo(handle uint32) (ResourceInfoReply, error)

	// TransferToHost pushes a rectangle of guest bytes to the host copy.
	TransferToHost(req TransferRequest) error

	// TransferFromHost pulls a rectangle of the host copy into guest bytes.
	TransferFromHost(req TransferRequest) error

	// Wait blocks until all pending host operations on the resource have
	// completed.
	Wait(handle uint32) error

	// CreateDumb allocates a dumb buffer.
	CreateDumb(width, height, bpp uint32) (DumbReply, error)

	// DestroyDumb frees a dumb buffer.
	DestroyDumb(handle uint32) error

	// CloseResource drops the guest handle of a 3D or blob resource.
	CloseResource(handle uint32) error

	// PlaneFD exports the resource as a file descriptor.
	PlaneFD(handle uint32) (int, error)

	// Close releases the transport itself.
	Close() error
}
