package dwf

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// PatternGenerator is the digital out instrument.
type PatternGenerator struct {
	h *Handle
}

func (p *PatternGenerator) Reset() error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutReset(r) })
}

func (p *PatternGenerator) Start() error {
	p.h.log.Debug().Msg("pattern start")
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutConfigure(r, true) })
}

func (p *PatternGenerator) Stop() error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutConfigure(r, false) })
}

func (p *PatternGenerator) State() (InstrumentState, error) {
	return get(p.h, func(d Driver, r RawHandle) (InstrumentState, error) { return d.DigitalOutStatus(r) })
}

func (p *PatternGenerator) RunTimeRange() (min, max units.Time, err error) {
	lo, hi, err := get2(p.h, func(d Driver, r RawHandle) (float64, float64, error) { return d.DigitalOutRunInfo(r) })
	return units.Seconds(lo), units.Seconds(hi), err
}

// SetRunTime sets how long the pattern runs. Zero runs until stopped.
func (p *PatternGenerator) SetRunTime(t units.Time) error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutRunSet(r, t.Seconds()) })
}

func (p *PatternGenerator) RunTime() (units.Time, error) {
	v, err := get(p.h, func(d Driver, r RawHandle) (float64, error) { return d.DigitalOutRunGet(r) })
	return units.Seconds(v), err
}

func (p *PatternGenerator) WaitTimeRange() (min, max units.Time, err error) {
	lo, hi, err := get2(p.h, func(d Driver, r RawHandle) (float64, float64, error) { return d.DigitalOutWaitInfo(r) })
	return units.Seconds(lo), units.Seconds(hi), err
}

func (p *PatternGenerator) SetWaitTime(t units.Time) error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutWaitSet(r, t.Seconds()) })
}

func (p *PatternGenerator) WaitTime() (units.Time, error) {
	v, err := get(p.h, func(d Driver, r RawHandle) (float64, error) { return d.DigitalOutWaitGet(r) })
	return units.Seconds(v), err
}

func (p *PatternGenerator) RepeatRange() (min, max uint32, err error) {
	return get2(p.h, func(d Driver, r RawHandle) (uint32, uint32, error) { return d.DigitalOutRepeatInfo(r) })
}

func (p *PatternGenerator) SetRepeat(n uint32) error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutRepeatSet(r, n) })
}

func (p *PatternGenerator) Repeat() (uint32, error) {
	return get(p.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutRepeatGet(r) })
}

// InternalClock returns the frequency of the on-device clock that channel
// dividers count.
func (p *PatternGenerator) InternalClock() (units.Frequency, error) {
	v, err := get(p.h, func(d Driver, r RawHandle) (float64, error) { return d.DigitalOutInternalClockInfo(r) })
	return units.Hertz(v), err
}

func (p *PatternGenerator) SetTriggerSource(src TriggerSource) error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutTriggerSourceSet(r, src) })
}

func (p *PatternGenerator) TriggerSource() (TriggerSource, error) {
	return checked(get(p.h, func(d Driver, r RawHandle) (TriggerSource, error) { return d.DigitalOutTriggerSourceGet(r) }))
}

func (p *PatternGenerator) Channels() ([]*PatternChannel, error) {
	n, err := get(p.h, func(d Driver, r RawHandle) (int, error) { return d.DigitalOutCount(r) })
	if err != nil {
		return nil, err
	}
	chans := make([]*PatternChannel, n)
	for i := range chans {
		chans[i] = &PatternChannel{h: p.h, index: i}
	}
	return chans, nil
}

// Channel returns DIO output i without checking that it exists.
func (p *PatternGenerator) Channel(i int) *PatternChannel {
	return &PatternChannel{h: p.h, index: i}
}

// SetPlayRate sets the playback sample rate, e.g. 44.1 kHz.
func (p *PatternGenerator) SetPlayRate(f units.Frequency) error {
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutPlayRateSet(r, f.Hertz()) })
}

// SetPlayData loads samples for channels of type OutputTypePlay. The sample
// count is len(data)*8/bitrate; with Bitrate16 the data length must be
// even.
func (p *PatternGenerator) SetPlayData(data []byte, bitrate Bitrate) error {
	if !bitrate.Known() {
		return invalidParam(2, "unsupported bitrate %d", int(bitrate))
	}
	if bitrate == Bitrate16 && len(data)%2 != 0 {
		return invalidParam(1, "16 bit playback needs an even data length, got %d", len(data))
	}
	count := uint32(len(data) * 8 / int(bitrate))
	return p.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutPlayDataSet(r, data, uint32(bitrate), count) })
}

// PatternChannel is one DIO output of the pattern generator.
type PatternChannel struct {
	h     *Handle
	index int
}

func (c *PatternChannel) Index() int { return c.index }

func (c *PatternChannel) Enable() error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutEnableSet(r, c.index, true) })
}

func (c *PatternChannel) Disable() error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutEnableSet(r, c.index, false) })
}

func (c *PatternChannel) Enabled() (bool, error) {
	return get(c.h, func(d Driver, r RawHandle) (bool, error) { return d.DigitalOutEnableGet(r, c.index) })
}

func (c *PatternChannel) OutputModes() (Support[OutputMode], error) {
	mask, err := get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutOutputInfo(r, c.index) })
	return Support[OutputMode](mask), err
}

func (c *PatternChannel) SetOutputMode(m OutputMode) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutOutputSet(r, c.index, m) })
}

func (c *PatternChannel) OutputMode() (OutputMode, error) {
	return get(c.h, func(d Driver, r RawHandle) (OutputMode, error) { return d.DigitalOutOutputGet(r, c.index) })
}

func (c *PatternChannel) Types() (Support[OutputType], error) {
	mask, err := get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutTypeInfo(r, c.index) })
	return Support[OutputType](mask), err
}

func (c *PatternChannel) SetType(t OutputType) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutTypeSet(r, c.index, t) })
}

func (c *PatternChannel) Type() (OutputType, error) {
	return get(c.h, func(d Driver, r RawHandle) (OutputType, error) { return d.DigitalOutTypeGet(r, c.index) })
}

func (c *PatternChannel) Idles() (Support[Idle], error) {
	mask, err := get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutIdleInfo(r, c.index) })
	return Support[Idle](mask), err
}

func (c *PatternChannel) SetIdle(i Idle) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutIdleSet(r, c.index, i) })
}

func (c *PatternChannel) Idle() (Idle, error) {
	return get(c.h, func(d Driver, r RawHandle) (Idle, error) { return d.DigitalOutIdleGet(r, c.index) })
}

func (c *PatternChannel) DividerRange() (min, max uint32, err error) {
	return get2(c.h, func(d Driver, r RawHandle) (uint32, uint32, error) { return d.DigitalOutDividerInfo(r, c.index) })
}

// SetInitialDivider sets the divider value loaded when the channel starts.
func (c *PatternChannel) SetInitialDivider(div uint32) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutDividerInitSet(r, c.index, div) })
}

func (c *PatternChannel) InitialDivider() (uint32, error) {
	return get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutDividerInitGet(r, c.index) })
}

func (c *PatternChannel) SetDivider(div uint32) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutDividerSet(r, c.index, div) })
}

func (c *PatternChannel) Divider() (uint32, error) {
	return get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutDividerGet(r, c.index) })
}

func (c *PatternChannel) CounterRange() (min, max uint32, err error) {
	return get2(c.h, func(d Driver, r RawHandle) (uint32, uint32, error) { return d.DigitalOutCounterInfo(r, c.index) })
}

// SetInitialCounter sets the starting level and the count loaded when the
// channel starts.
func (c *PatternChannel) SetInitialCounter(high bool, count uint32) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutCounterInitSet(r, c.index, high, count) })
}

func (c *PatternChannel) InitialCounter() (high bool, count uint32, err error) {
	return get2(c.h, func(d Driver, r RawHandle) (bool, uint32, error) { return d.DigitalOutCounterInitGet(r, c.index) })
}

// SetCounter sets how many divided clock ticks the output stays low and
// high in pulse mode.
func (c *PatternChannel) SetCounter(low, high uint32) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.DigitalOutCounterSet(r, c.index, low, high) })
}

func (c *PatternChannel) Counter() (low, high uint32, err error) {
	return get2(c.h, func(d Driver, r RawHandle) (uint32, uint32, error) { return d.DigitalOutCounterGet(r, c.index) })
}

// MaxDataLength returns the maximum number of custom data bits.
func (c *PatternChannel) MaxDataLength() (int, error) {
	n, err := get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalOutDataInfo(r, c.index) })
	return int(n), err
}

// SetData loads a custom bit sequence, sent LSB first. The SDK also sets
// the counters from the number of bits.
func (c *PatternChannel) SetData(bits []bool) error {
	packed := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	return c.h.call(func(d Driver, r RawHandle) error {
		limit, err := d.DigitalOutDataInfo(r, c.index)
		if err != nil {
			return err
		}
		if uint32(len(bits)) > limit {
			return invalidParam(2, "custom data has %d bits, channel holds %d", len(bits), limit)
		}
		return d.DigitalOutDataSet(r, c.index, packed, uint32(len(bits)))
	})
}

// SetClock configures the channel as a 50% duty square wave at f, derived
// from the internal clock with one low and one high count.
func (c *PatternChannel) SetClock(f units.Frequency) error {
	if f <= 0 {
		return invalidParam(1, "clock frequency must be positive, got %s", f)
	}
	return c.h.call(func(d Driver, r RawHandle) error {
		clock, err := d.DigitalOutInternalClockInfo(r)
		if err != nil {
			return err
		}
		lo, hi, err := d.DigitalOutDividerInfo(r, c.index)
		if err != nil {
			return err
		}
		div := math.Round(clock / f.Hertz() / 2)
		div = math.Max(float64(lo), math.Min(div, float64(hi)))
		if div < 1 {
			div = 1
		}
		if err := d.DigitalOutEnableSet(r, c.index, true); err != nil {
			return err
		}
		if err := d.DigitalOutTypeSet(r, c.index, OutputTypePulse); err != nil {
			return err
		}
		if err := d.DigitalOutDividerSet(r, c.index, uint32(div)); err != nil {
			return err
		}
		return d.DigitalOutCounterSet(r, c.index, 1, 1)
	})
}
