//go:build linux

// Package drmnode implements the vgpu host transport over a virtio-gpu DRM
// render node. Each transport method is one ioctl round trip; a negative
// status surfaces as a *vgpu.HostCallError carrying the errno.
package drmnode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/vgpukit/internal/virgl"
	"github.com/joshuapare/vgpukit/vgpu"
)

// DefaultPath is the first render node; most guests have exactly one.
const DefaultPath = "/dev/dri/renderD128"

// Node is an open virtio-gpu render node.
type Node struct {
	fd   int
	path string
}

var _ vgpu.Transport = (*Node)(nil)

// Open opens the render node at path.
func Open(path string) (*Node, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("drmnode: open %s: %w", path, err)
	}
	return &Node{fd: fd, path: path}, nil
}

// Close closes the node. Mappings returned by MapMemory stay valid until
// unmapped.
func (n *Node) Close() error {
	if n.fd < 0 {
		return nil
	}
	fd := n.fd
	n.fd = -1
	return unix.Close(fd)
}

// ioctl issues one request, retrying transparent restarts the way the DRM
// userspace helpers do.
func (n *Node) ioctl(req string, code uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(n.fd), code, uintptr(arg))
		if errno == 0 {
			return nil
		}
		if errno == unix.EINTR || errno == unix.EAGAIN {
			continue
		}
		return &vgpu.HostCallError{Req: req, Errno: errno}
	}
}

func (n *Node) getparam(param uint64) (uint64, error) {
	args := virtgpuGetparam{Param: param}
	if err := n.ioctl("getparam", ioctlVirtgpuGetparam, unsafe.Pointer(&args)); err != nil {
		return 0, err
	}
	return args.Value, nil
}

// Params queries the device features the backend dispatches on. A missing
// parameter (ENOTSUP from older kernels) reads as absent, not as an error.
func (n *Node) Params() (vgpu.Params, error) {
	var p vgpu.Params
	for _, q := range []struct {
		id  uint64
		dst *bool
	}{
		{param3DFeatures, &p.ThreeD},
		{paramCapsetQueryFix, &p.CapsetQueryFix},
		{paramResourceBlob, &p.ResourceBlob},
		{paramHostVisible, &p.HostVisible},
	} {
		v, err := n.getparam(q.id)
		if err != nil {
			if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP) {
				continue
			}
			return vgpu.Params{}, err
		}
		*q.dst = v != 0
	}
	return p, nil
}

// GetCaps queries one host capability set and decodes the fields the
// allocator consumes. The extended set keeps the base layout as a prefix, so
// both decodes share the version-1 cursor positions.
func (n *Node) GetCaps(set uint32) (vgpu.Caps, error) {
	size := virgl.CapsV1Size
	if set == virgl.CapSetVirgl2 {
		size = virgl.CapsV2Size
	}
	buf := make([]byte, size)
	args := virtgpuGetCaps{
		CapSetID:  set,
		CapSetVer: 0,
		Addr:      uint64(uintptr(unsafe.Pointer(&buf[0]))),
		Size:      uint32(len(buf)),
	}
	err := n.ioctl("get-caps", ioctlVirtgpuGetCaps, unsafe.Pointer(&args))
	runtime.KeepAlive(buf)
	if err != nil {
		return vgpu.Caps{}, err
	}
	return decodeCaps(set, buf), nil
}

// decodeCaps extracts the consumed fields from a capability payload. The
// version is taken from the payload as-is: an all-zero payload decodes to
// the zero Caps, which the backend treats as maximally permissive rather
// than as empty support.
func decodeCaps(set uint32, buf []byte) vgpu.Caps {
	var caps vgpu.Caps
	caps.Version = binary.LittleEndian.Uint32(buf[virgl.CapsV1MaxVersionOff:])
	decodeMask(&caps.Sampler, buf[virgl.CapsV1SamplerMaskOff:])
	decodeMask(&caps.Render, buf[virgl.CapsV1RenderMaskOff:])
	if set == virgl.CapSetVirgl2 {
		caps.MaxTexture2DSize = binary.LittleEndian.Uint32(buf[virgl.CapsV2MaxTexture2DSizeOff:])
		decodeMask(&caps.Scanout, buf[virgl.CapsV2ScanoutMaskOff:])
	}
	return caps
}

func decodeMask(m *vgpu.FormatMask, b []byte) {
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
}

func (n *Node) CreateResource3D(req vgpu.Resource3DRequest) (uint32, error) {
	args := virtgpuResourceCreate{
		Target:    req.Target,
		Format:    req.Format,
		Bind:      req.Bind,
		Width:     req.Width,
		Height:    req.Height,
		Depth:     req.Depth,
		ArraySize: req.ArraySize,
		LastLevel: req.LastLevel,
		NrSamples: req.NrSamples,
		Flags:     req.Flags,
		Size:      req.Size,
	}
	if err := n.ioctl("resource-create", ioctlVirtgpuResourceCreate, unsafe.Pointer(&args)); err != nil {
		return 0, err
	}
	return args.BoHandle, nil
}

func (n *Node) CreateResourceBlob(req vgpu.BlobRequest) (uint32, error) {
	args := virtgpuResourceCreateBlob{
		BlobMem:   req.BlobMem,
		BlobFlags: req.BlobFlags,
		Size:      req.Size,
		BlobID:    req.BlobID,
	}
	if len(req.Cmd) > 0 {
		args.Cmd = uint64(uintptr(unsafe.Pointer(&req.Cmd[0])))
		args.CmdSize = uint32(len(req.Cmd))
	}
	err := n.ioctl("resource-create-blob", ioctlVirtgpuResourceCreateBlob, unsafe.Pointer(&args))
	runtime.KeepAlive(req.Cmd)
	if err != nil {
		return 0, err
	}
	return args.BoHandle, nil
}

func (n *Node) MapResource(handle uint32) (uint64, error) {
	args := virtgpuMap{Handle: handle}
	if err := n.ioctl("map", ioctlVirtgpuMap, unsafe.Pointer(&args)); err != nil {
		return 0, err
	}
	return args.Offset, nil
}

func (n *Node) MapDumb(handle uint32) (uint64, error) {
	args := modeMapDumb{Handle: handle}
	if err := n.ioctl("map-dumb", ioctlModeMapDumb, unsafe.Pointer(&args)); err != nil {
		return 0, err
	}
	return args.Offset, nil
}

func (n *Node) MapMemory(offset uint64, length uint32, writable bool) ([]byte, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(n.fd, int64(offset), int(length), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("drmnode: mmap: %w", err)
	}
	return data, nil
}

func (n *Node) UnmapMemory(data []byte) error {
	if data == nil {
		return nil
	}
	return unix.Munmap(data)
}

func (n *Node) ResourceInfo(handle uint32) (vgpu.ResourceInfoReply, error) {
	args := virtgpuResourceInfo{BoHandle: handle, InfoType: resourceInfoTypeExtended}
	if err := n.ioctl("resource-info", ioctlVirtgpuResourceInfo, unsafe.Pointer(&args)); err != nil {
		return vgpu.ResourceInfoReply{}, err
	}
	var reply vgpu.ResourceInfoReply
	copy(reply.Strides[:], args.Strides[:])
	copy(reply.Offsets[:], args.Offsets[:])
	reply.FormatModifier = args.FormatModifier
	return reply, nil
}

func (n *Node) transfer(req vgpu.TransferRequest, name string, code uintptr) error {
	args := virtgpuTransfer{
		BoHandle: req.Handle,
		Box: virtgpuBox{
			X: req.Box.X, Y: req.Box.Y,
			W: req.Box.Width, H: req.Box.Height,
			D: 1,
		},
		Level:  req.Level,
		Offset: uint32(req.Offset),
	}
	return n.ioctl(name, code, unsafe.Pointer(&args))
}

func (n *Node) TransferToHost(req vgpu.TransferRequest) error {
	return n.transfer(req, "transfer-to-host", ioctlVirtgpuTransferToHost)
}

func (n *Node) TransferFromHost(req vgpu.TransferRequest) error {
	return n.transfer(req, "transfer-from-host", ioctlVirtgpuTransferFromHost)
}

func (n *Node) Wait(handle uint32) error {
	args := virtgpuWait{Handle: handle}
	return n.ioctl("wait", ioctlVirtgpuWait, unsafe.Pointer(&args))
}

func (n *Node) CreateDumb(width, height, bpp uint32) (vgpu.DumbReply, error) {
	args := modeCreateDumb{Width: width, Height: height, Bpp: bpp}
	if err := n.ioctl("create-dumb", ioctlModeCreateDumb, unsafe.Pointer(&args)); err != nil {
		return vgpu.DumbReply{}, err
	}
	return vgpu.DumbReply{Handle: args.Handle, Pitch: args.Pitch, Size: args.Size}, nil
}

func (n *Node) DestroyDumb(handle uint32) error {
	args := modeDestroyDumb{Handle: handle}
	return n.ioctl("destroy-dumb", ioctlModeDestroyDumb, unsafe.Pointer(&args))
}

func (n *Node) CloseResource(handle uint32) error {
	args := gemClose{Handle: handle}
	return n.ioctl("gem-close", ioctlGemClose, unsafe.Pointer(&args))
}

func (n *Node) PlaneFD(handle uint32) (int, error) {
	args := primeHandle{Handle: handle, Flags: primeCloexec | primeRDWR, FD: -1}
	if err := n.ioctl("prime-export", ioctlPrimeHandleToFD, unsafe.Pointer(&args)); err != nil {
		return -1, err
	}
	return int(args.FD), nil
}
