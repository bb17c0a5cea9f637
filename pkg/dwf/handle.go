package dwf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often blocking acquisitions query instrument
// status.
const DefaultPollInterval = 10 * time.Millisecond

// Option customizes a Handle at open time.
type Option func(*Handle)

// WithLogger attaches a logger to the handle. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Handle) { h.log = l }
}

// WithPollInterval sets the status polling interval used by Acquire and
// Stream. Non-positive values keep the default.
func WithPollInterval(d time.Duration) Option {
	return func(h *Handle) {
		if d > 0 {
			h.poll = d
		}
	}
}

// Handle is an exclusive lock on an opened device. It is safe for
// concurrent use; calls are serialized.
type Handle struct {
	drv    Driver
	device Device
	log    zerolog.Logger
	poll   time.Duration

	mu     sync.Mutex
	raw    RawHandle
	closed bool
}

func newHandle(d Device, raw RawHandle, opts ...Option) *Handle {
	h := &Handle{
		drv:    d.drv,
		device: d,
		raw:    raw,
		log:    zerolog.Nop(),
		poll:   DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With().Str("device", d.String()).Logger()
	h.log.Debug().Int("handle", int(raw)).Msg("device opened")
	return h
}

// Device returns the enumeration record the handle was opened from.
func (h *Handle) Device() Device { return h.device }

// call runs fn with the driver lock held.
func (h *Handle) call(fn func(Driver, RawHandle) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandleClosed
	}
	return fn(h.drv, h.raw)
}

// get runs fn with the driver lock held and returns its value.
func get[T any](h *Handle, fn func(Driver, RawHandle) (T, error)) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		var zero T
		return zero, ErrHandleClosed
	}
	return fn(h.drv, h.raw)
}

// get2 is get for SDK calls that return a pair, typically a min/max range.
func get2[A, B any](h *Handle, fn func(Driver, RawHandle) (A, B, error)) (A, B, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		var a A
		var b B
		return a, b, ErrHandleClosed
	}
	return fn(h.drv, h.raw)
}

type knownEnum interface {
	~int
	Known() bool
}

// checked rejects enum values the SDK returned but this package does not
// define.
func checked[T knownEnum](v T, err error) (T, error) {
	if err != nil {
		return v, err
	}
	if !v.Known() {
		return v, unknownVariant(fmt.Sprintf("%T", v), int(v))
	}
	return v, nil
}

// waitFor calls done every poll interval until it reports true, fails, or
// ctx ends.
func (h *Handle) waitFor(ctx context.Context, done func() (bool, error)) error {
	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()
	for {
		ok, err := done()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// TriggerSources returns the sources supported on the global trigger bus.
func (h *Handle) TriggerSources() (Support[TriggerSource], error) {
	mask, err := get(h, func(d Driver, r RawHandle) (uint32, error) { return d.DeviceTriggerInfo(r) })
	return Support[TriggerSource](mask), err
}

// Trigger returns the source routed to trigger pin.
func (h *Handle) Trigger(pin int) (TriggerSource, error) {
	return checked(get(h, func(d Driver, r RawHandle) (TriggerSource, error) { return d.DeviceTriggerGet(r, pin) }))
}

// SetTrigger routes src to trigger pin.
func (h *Handle) SetTrigger(pin int, src TriggerSource) error {
	return h.call(func(d Driver, r RawHandle) error { return d.DeviceTriggerSet(r, pin, src) })
}

// TriggerPC generates one pulse on the PC trigger line. Instruments using
// TriggerSourcePC start together.
func (h *Handle) TriggerPC() error {
	h.log.Debug().Msg("pc trigger")
	return h.call(func(d Driver, r RawHandle) error { return d.DeviceTriggerPC(r) })
}

// Param reads a device parameter.
func (h *Handle) Param(p Param) (int, error) {
	return get(h, func(d Driver, r RawHandle) (int, error) { return d.DeviceParamGet(r, p) })
}

// SetParam writes a device parameter.
func (h *Handle) SetParam(p Param, v int) error {
	return h.call(func(d Driver, r RawHandle) error { return d.DeviceParamSet(r, p, v) })
}

// Oscilloscope returns the analog in instrument.
func (h *Handle) Oscilloscope() *Oscilloscope { return &Oscilloscope{h: h} }

// WaveformGenerator returns the analog out instrument.
func (h *Handle) WaveformGenerator() *WaveformGenerator { return &WaveformGenerator{h: h} }

// LogicAnalyzer returns the digital in instrument.
func (h *Handle) LogicAnalyzer() *LogicAnalyzer { return &LogicAnalyzer{h: h} }

// PatternGenerator returns the digital out instrument.
func (h *Handle) PatternGenerator() *PatternGenerator { return &PatternGenerator{h: h} }

// Protocols returns the digital I/O protocol instruments.
func (h *Handle) Protocols() *Protocols { return &Protocols{h: h} }

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close releases the device. It is safe to call more than once; only the
// first call reaches the SDK.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.log.Debug().Msg("device closed")
	return h.drv.DeviceClose(h.raw)
}
