package vgpu

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotInitialized is returned by buffer operations before Init has
	// completed.
	ErrNotInitialized = errors.New("vgpu: device not initialized")

	// ErrClosed is returned by operations on a closed device.
	ErrClosed = errors.New("vgpu: device closed")

	// ErrUnsupported indicates a format and usage combination the device
	// can neither allocate natively nor emulate.
	ErrUnsupported = errors.New("vgpu: unsupported format and usage combination")
)

// HostCallError is a host protocol failure: a device request completed with
// a negative status. It unwraps to the underlying errno so callers can test
// with errors.Is(err, unix.ENODEV) and the like.
type HostCallError struct {
	Req   string
	Errno unix.Errno
}

func (e *HostCallError) Error() string {
	return fmt.Sprintf("vgpu: host %s request failed: %v", e.Req, e.Errno)
}

func (e *HostCallError) Unwrap() error { return e.Errno }
