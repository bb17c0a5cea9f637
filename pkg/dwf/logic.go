package dwf

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// LogicAnalyzer is the digital in instrument.
type LogicAnalyzer struct {
	h *Handle
}

func (l *LogicAnalyzer) Reset() error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInReset(r) })
}

func (l *LogicAnalyzer) Start() error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInConfigure(r, false, true) })
}

func (l *LogicAnalyzer) Stop() error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInConfigure(r, false, false) })
}

func (l *LogicAnalyzer) State() (InstrumentState, error) {
	return get(l.h, func(d Driver, r RawHandle) (InstrumentState, error) { return d.DigitalInStatus(r, false) })
}

// InternalClock returns the frequency of the internal sample clock.
func (l *LogicAnalyzer) InternalClock() (units.Frequency, error) {
	v, err := get(l.h, func(d Driver, r RawHandle) (float64, error) { return d.DigitalInInternalClockInfo(r) })
	return units.Hertz(v), err
}

func (l *LogicAnalyzer) SetClockSource(src ClockSource) error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInClockSourceSet(r, src) })
}

func (l *LogicAnalyzer) ClockSource() (ClockSource, error) {
	return get(l.h, func(d Driver, r RawHandle) (ClockSource, error) { return d.DigitalInClockSourceGet(r) })
}

// MaxDivider returns the largest supported clock divider.
func (l *LogicAnalyzer) MaxDivider() (uint32, error) {
	return get(l.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalInDividerInfo(r) })
}

// SetDivider sets the sample clock divider. The sample frequency is the
// clock frequency divided by it.
func (l *LogicAnalyzer) SetDivider(div uint32) error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInDividerSet(r, div) })
}

func (l *LogicAnalyzer) Divider() (uint32, error) {
	return get(l.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalInDividerGet(r) })
}

// BitWidth returns the number of DIO lines stored per sample.
func (l *LogicAnalyzer) BitWidth() (int, error) {
	return get(l.h, func(d Driver, r RawHandle) (int, error) { return d.DigitalInBitsInfo(r) })
}

func (l *LogicAnalyzer) MaxBufferSize() (int, error) {
	return get(l.h, func(d Driver, r RawHandle) (int, error) { return d.DigitalInBufferSizeInfo(r) })
}

func (l *LogicAnalyzer) SetBufferSize(n int) error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInBufferSizeSet(r, n) })
}

func (l *LogicAnalyzer) BufferSize() (int, error) {
	return get(l.h, func(d Driver, r RawHandle) (int, error) { return d.DigitalInBufferSizeGet(r) })
}

func (l *LogicAnalyzer) SampleModes() (Support[SampleMode], error) {
	mask, err := get(l.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalInSampleModeInfo(r) })
	return Support[SampleMode](mask), err
}

func (l *LogicAnalyzer) SetSampleMode(m SampleMode) error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInSampleModeSet(r, m) })
}

func (l *LogicAnalyzer) SampleMode() (SampleMode, error) {
	return get(l.h, func(d Driver, r RawHandle) (SampleMode, error) { return d.DigitalInSampleModeGet(r) })
}

func (l *LogicAnalyzer) AcquisitionModes() (Support[AcquisitionMode], error) {
	mask, err := get(l.h, func(d Driver, r RawHandle) (uint32, error) { return d.DigitalInAcquisitionModeInfo(r) })
	return Support[AcquisitionMode](mask), err
}

func (l *LogicAnalyzer) SetAcquisitionMode(m AcquisitionMode) error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInAcquisitionModeSet(r, m) })
}

func (l *LogicAnalyzer) AcquisitionMode() (AcquisitionMode, error) {
	return get(l.h, func(d Driver, r RawHandle) (AcquisitionMode, error) { return d.DigitalInAcquisitionModeGet(r) })
}

func (l *LogicAnalyzer) SetTriggerSource(src TriggerSource) error {
	return l.h.call(func(d Driver, r RawHandle) error { return d.DigitalInTriggerSourceSet(r, src) })
}

func (l *LogicAnalyzer) TriggerSource() (TriggerSource, error) {
	return checked(get(l.h, func(d Driver, r RawHandle) (TriggerSource, error) { return d.DigitalInTriggerSourceGet(r) }))
}

// SampleFrequency returns the internal clock divided by the divider.
func (l *LogicAnalyzer) SampleFrequency() (units.Frequency, error) {
	var hz float64
	err := l.h.call(func(d Driver, r RawHandle) error {
		clock, err := d.DigitalInInternalClockInfo(r)
		if err != nil {
			return err
		}
		div, err := d.DigitalInDividerGet(r)
		if err != nil {
			return err
		}
		if div == 0 {
			div = 1
		}
		hz = clock / float64(div)
		return nil
	})
	return units.Hertz(hz), err
}

// SetSampleFrequency picks the divider closest to f, clamped to the
// supported divider range.
func (l *LogicAnalyzer) SetSampleFrequency(f units.Frequency) error {
	if f <= 0 {
		return invalidParam(1, "sample frequency must be positive, got %s", f)
	}
	return l.h.call(func(d Driver, r RawHandle) error {
		clock, err := d.DigitalInInternalClockInfo(r)
		if err != nil {
			return err
		}
		maxDiv, err := d.DigitalInDividerInfo(r)
		if err != nil {
			return err
		}
		div := math.Round(clock / f.Hertz())
		div = math.Max(1, math.Min(div, float64(maxDiv)))
		return d.DigitalInDividerSet(r, uint32(div))
	})
}

// LogicCapture is the result of a logic analyzer acquisition. Bit n of each
// sample is DIO line n.
type LogicCapture struct {
	Rate    units.Frequency `json:"rate"`
	Time    time.Time       `json:"time"`
	Samples []uint32        `json:"samples"`
}

// Line extracts the level of one DIO line from every sample.
func (c *LogicCapture) Line(n int) []bool {
	out := make([]bool, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s&(1<<uint(n)) != 0
	}
	return out
}

// Acquire runs one Single acquisition and returns the sampled DIO words.
func (l *LogicAnalyzer) Acquire(ctx context.Context) (*LogicCapture, error) {
	err := l.h.call(func(d Driver, r RawHandle) error {
		if err := d.DigitalInAcquisitionModeSet(r, AcquisitionModeSingle); err != nil {
			return err
		}
		return d.DigitalInConfigure(r, false, true)
	})
	if err != nil {
		return nil, fmt.Errorf("start logic acquisition: %w", err)
	}

	err = l.h.waitFor(ctx, func() (bool, error) {
		st, err := get(l.h, func(d Driver, r RawHandle) (InstrumentState, error) { return d.DigitalInStatus(r, true) })
		return st == StateDone, err
	})
	if err != nil {
		_ = l.Stop()
		return nil, fmt.Errorf("wait for logic acquisition: %w", err)
	}

	rate, err := l.SampleFrequency()
	if err != nil {
		return nil, err
	}
	capture := &LogicCapture{Rate: rate, Time: time.Now()}
	err = l.h.call(func(d Driver, r RawHandle) error {
		n, err := d.DigitalInStatusSamplesValid(r)
		if err != nil {
			return err
		}
		capture.Samples = make([]uint32, n)
		if n == 0 {
			return nil
		}
		return d.DigitalInStatusData(r, capture.Samples)
	})
	if err != nil {
		return nil, err
	}
	l.h.log.Debug().Int("samples", len(capture.Samples)).Stringer("rate", rate).Msg("logic acquisition done")
	return capture, nil
}
