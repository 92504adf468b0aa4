package vgpu

import (
	"sync"

	"github.com/joshuapare/vgpukit/drm"
)

// BackendVirgl is the name this package registers itself under.
const BackendVirgl = "virtgpu-virgl"

// Backend is the fixed operation set a buffer allocation backend exposes to
// the dispatch layer above it. Device implements it; alternative backends
// (cross-domain, 2D-only test backends) register their own factories.
type Backend interface {
	Name() string
	Init() error
	Close() error

	CreateBuffer(width, height uint32, f drm.Format, use drm.UseFlags) (*Buffer, error)
	CreateBufferWithModifiers(width, height uint32, f drm.Format, modifiers []drm.Modifier) (*Buffer, error)
	DestroyBuffer(b *Buffer) error

	Map(b *Buffer, r drm.Rect, flags MapFlags) (*Mapping, error)
	Unmap(m *Mapping) error
	Invalidate(m *Mapping) error
	Flush(m *Mapping) error

	ResolveFormatAndUseFlags(f drm.Format, use drm.UseFlags) (drm.Format, drm.UseFlags)
	ResourceInfo(b *Buffer) (strides, offsets [MaxPlanes]uint32, modifier drm.Modifier, err error)
	MaxTexture2DSize() uint32
	PlaneFD(b *Buffer) (int, error)
}

var _ Backend = (*Device)(nil)

// Factory builds a backend over a configured transport.
type Factory func(cfg Config) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register registers a backend factory under a name, replacing any previous
// registration. Backend packages call it from init.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Lookup returns the factory registered under name, or nil.
func Lookup(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Available lists the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	Register(BackendVirgl, func(cfg Config) (Backend, error) {
		return NewDevice(cfg)
	})
}
