//go:build linux

package drmnode

import "unsafe"

// ioctl request encoding, per asm-generic/ioctl.h.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<iocDirShift | 'd'<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift
}

func iow(nr, size uintptr) uintptr  { return ioc(iocWrite, nr, size) }
func iowr(nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, nr, size) }

// DRM core and virtio-gpu driver command numbers, from the kernel uapi
// (drm.h, virtgpu_drm.h). Driver commands start at the command base.
const (
	drmCommandBase = 0x40

	nrGemClose        = 0x09
	nrPrimeHandleToFD = 0x2d
	nrModeCreateDumb  = 0xb2
	nrModeMapDumb     = 0xb3
	nrModeDestroyDumb = 0xb4

	nrVirtgpuMap                = drmCommandBase + 0x01
	nrVirtgpuGetparam           = drmCommandBase + 0x03
	nrVirtgpuResourceCreate     = drmCommandBase + 0x04
	nrVirtgpuResourceInfo       = drmCommandBase + 0x05
	nrVirtgpuTransferFromHost   = drmCommandBase + 0x06
	nrVirtgpuTransferToHost     = drmCommandBase + 0x07
	nrVirtgpuWait               = drmCommandBase + 0x08
	nrVirtgpuGetCaps            = drmCommandBase + 0x09
	nrVirtgpuResourceCreateBlob = drmCommandBase + 0x0a
)

// Device parameters queried through getparam.
const (
	param3DFeatures     = 1
	paramCapsetQueryFix = 2
	paramResourceBlob   = 3
	paramHostVisible    = 4
)

// Flags for prime export.
const (
	primeCloexec = 0x1 // O_CLOEXEC as DRM_CLOEXEC
	primeRDWR    = 0x2 // O_RDWR as DRM_RDWR
)

// Extended resource info request type.
const resourceInfoTypeExtended = 1

type virtgpuMap struct {
	Offset uint64
	Handle uint32
	_      uint32
}

type virtgpuResourceCreate struct {
	Target    uint32
	Format    uint32
	Bind      uint32
	Width     uint32
	Height    uint32
	Depth     uint32
	ArraySize uint32
	LastLevel uint32
	NrSamples uint32
	Flags     uint32
	BoHandle  uint32
	ResHandle uint32
	Size      uint32
	Stride    uint32
}

type virtgpuResourceInfo struct {
	BoHandle       uint32
	ResHandle      uint32
	Size           uint32
	InfoType       uint32
	Strides        [4]uint32
	Offsets        [4]uint32
	FormatModifier uint64
}

type virtgpuBox struct {
	X, Y, Z uint32
	W, H, D uint32
}

type virtgpuTransfer struct {
	BoHandle    uint32
	Box         virtgpuBox
	Level       uint32
	Offset      uint32
	Stride      uint32
	LayerStride uint32
}

type virtgpuWait struct {
	Handle uint32
	Flags  uint32
}

type virtgpuGetCaps struct {
	CapSetID  uint32
	CapSetVer uint32
	Addr      uint64
	Size      uint32
	_         uint32
}

type virtgpuResourceCreateBlob struct {
	BlobMem   uint32
	BlobFlags uint32
	BoHandle  uint32
	ResHandle uint32
	Size      uint64
	_         uint32
	CmdSize   uint32
	Cmd       uint64
	BlobID    uint64
}

type virtgpuGetparam struct {
	Param uint64
	Value uint64
}

type gemClose struct {
	Handle uint32
	_      uint32
}

type primeHandle struct {
	Handle uint32
	Flags  uint32
	FD     int32
}

type modeCreateDumb struct {
	Height uint32
	Width  uint32
	Bpp    uint32
	Flags  uint32
	Handle uint32
	Pitch  uint32
	Size   uint64
}

type modeMapDumb struct {
	Handle uint32
	_      uint32
	Offset uint64
}

type modeDestroyDumb struct {
	Handle uint32
}

// Request codes, built from the struct sizes above.
var (
	ioctlGemClose        = iow(nrGemClose, unsafe.Sizeof(gemClose{}))
	ioctlPrimeHandleToFD = iowr(nrPrimeHandleToFD, unsafe.Sizeof(primeHandle{}))
	ioctlModeCreateDumb  = iowr(nrModeCreateDumb, unsafe.Sizeof(modeCreateDumb{}))
	ioctlModeMapDumb     = iowr(nrModeMapDumb, unsafe.Sizeof(modeMapDumb{}))
	ioctlModeDestroyDumb = iowr(nrModeDestroyDumb, unsafe.Sizeof(modeDestroyDumb{}))

	ioctlVirtgpuMap                = iowr(nrVirtgpuMap, unsafe.Sizeof(virtgpuMap{}))
	ioctlVirtgpuGetparam           = iowr(nrVirtgpuGetparam, unsafe.Sizeof(virtgpuGetparam{}))
	ioctlVirtgpuResourceCreate     = iowr(nrVirtgpuResourceCreate, unsafe.Sizeof(virtgpuResourceCreate{}))
	ioctlVirtgpuResourceInfo       = iowr(nrVirtgpuResourceInfo, unsafe.Sizeof(virtgpuResourceInfo{}))
	ioctlVirtgpuTransferFromHost   = iowr(nrVirtgpuTransferFromHost, unsafe.Sizeof(virtgpuTransfer{}))
	ioctlVirtgpuTransferToHost     = iowr(nrVirtgpuTransferToHost, unsafe.Sizeof(virtgpuTransfer{}))
	ioctlVirtgpuWait               = iowr(nrVirtgpuWait, unsafe.Sizeof(virtgpuWait{}))
	ioctlVirtgpuGetCaps            = iowr(nrVirtgpuGetCaps, unsafe.Sizeof(virtgpuGetCaps{}))
	ioctlVirtgpuResourceCreateBlob = iowr(nrVirtgpuResourceCreateBlob, unsafe.Sizeof(virtgpuResourceCreateBlob{}))
)
