package vgpu

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/joshuapare/vgpukit/drm"
)

// MaxPlanes is the largest plane count a buffer descriptor carries.
const MaxPlanes = 4

// pageSize is the allocation granularity of host resource byte sizes.
const pageSize = 4096

// Config configures a Device.
type Config struct {
	// Transport issues the host protocol requests. Required.
	Transport Transport

	// Params are the device features negotiated at open time. Transports
	// that can query them (see drmnode.Node.Params) should be asked;
	// tests fill them directly.
	Params Params

	// Logger receives the non-fatal notices the backend emits (stripped
	// usage, skipped combinations, capability fallback, unhandled use
	// flags). Defaults to slog.Default().
	Logger *slog.Logger
}

// Device is the per-device allocation context. The capability set and
// combination table are written exactly once, by Init, and are read-only
// afterwards; the blob identifier counter is the only state mutated by
// buffer operations and is atomic. Per-buffer operations must be
// serialized by the caller, with at most one in-flight mapping per buffer.
type Device struct {
	tr     Transport
	params Params
	log    *slog.Logger

	caps     Caps
	capsIsV2 bool

	// hostGBM is set when the host runs its own general buffer manager.
	// There is no direct signal; see Init for the heuristic.
	hostGBM bool

	nextBlobID atomic.Uint32

	combos map[drm.Format]drm.UseFlags

	initialized bool
	closed      bool
}

// NewDevice builds a Device over the given transport. The device issues no
// host requests until Init.
func NewDevice(cfg Config) (*Device, error) {
	if cfg.Transport == nil {
		return nil, errors.New("vgpu: config has no transport")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Device{
		tr:     cfg.Transport,
		params: cfg.Params,
		log:    log,
		combos: make(map[drm.Format]drm.UseFlags),
	}, nil
}

// Init negotiates host capabilities and builds the combination table. It
// must complete before any buffer operation and must not run concurrently
// with one.
func (d *Device) Init() error {
	if d.closed {
		return ErrClosed
	}
	if d.initialized {
		return nil
	}

	if d.params.ThreeD {
		d.negotiateCaps()

		// Whether the host allocates through its own buffer manager is
		// inferred, not announced: only such hosts advertise capabilities
		// and support planar texture formats natively.
		d.hostGBM = d.caps.Version > 0 &&
			d.supportsCombinationNatively(drm.FormatNV12, drm.UseTexture)
	}

	d.initCombinations()
	d.initialized = true
	return nil
}

// Close releases the device context and its transport. Buffers must be
// destroyed first; Close does not track them.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.combos = nil
	return d.tr.Close()
}

// Name returns the backend identifier.
func (d *Device) Name() string { return BackendVirgl }

func (d *Device) ready() error {
	if d.closed {
		return ErrClosed
	}
	if !d.initialized {
		return ErrNotInitialized
	}
	return nil
}
