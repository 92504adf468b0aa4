// Package vgpu allocates host-backed graphics buffers for a virtualized
// GPU device. It turns an abstract request ("a width-by-height image in
// format F usable as texture, render target, scanout, camera buffer") into
// a concrete host resource, negotiating with a remote renderer whose
// capabilities are only known at runtime and which may not natively
// support every pixel format a caller needs.
//
// # Overview
//
// A Device is created over a Transport, which issues the host protocol
// requests (the drmnode package provides the real one over a virtio-gpu
// render node). Init performs the capability handshake and builds the
// combination table: the set of (format, usage) pairs the device will
// allocate, each either natively supported by the host or carried by the
// emulation path, which synthesizes multi-planar YUV images as sub-images
// of a single-plane byte buffer when the host cannot allocate planar
// images itself.
//
// Buffer creation dispatches across three paths: blob resources (raw byte
// ranges with explicit mappability, used when the host's own buffer
// manager backs allocations), full 3D resources, and dumb buffers when no
// 3D support was negotiated.
//
// # Locking and transfers
//
// Map returns a CPU-visible view of a buffer together with the locked
// rectangle. Invalidate pulls host writes into the view before CPU reads;
// Flush pushes CPU writes back. For emulated buffers a partial lock
// decomposes into one host transfer per plane; the transfers are
// sequential and individually subject to host failure, with no rollback
// across them.
//
// # Concurrency
//
// Every operation is a synchronous host round trip. The capability set and
// combination table are written once by Init and read-only afterwards; the
// blob identifier counter is atomic. Callers serialize per-buffer
// operations and keep at most one mapping in flight per buffer.
package vgpu
