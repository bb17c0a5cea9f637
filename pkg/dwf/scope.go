package dwf

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
	"golang.org/x/sync/errgroup"
)

// Oscilloscope is the analog in instrument.
type Oscilloscope struct {
	h *Handle
}

func (o *Oscilloscope) Reset() error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInReset(r) })
}

// Start arms the instrument with the current configuration.
func (o *Oscilloscope) Start() error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInConfigure(r, false, true) })
}

func (o *Oscilloscope) Stop() error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInConfigure(r, false, false) })
}

// State checks the instrument state without reading data from the device.
func (o *Oscilloscope) State() (InstrumentState, error) {
	return get(o.h, func(d Driver, r RawHandle) (InstrumentState, error) { return d.AnalogInStatus(r, false) })
}

// SetRecordLength sets the length of a Record acquisition. Zero records
// indefinitely.
func (o *Oscilloscope) SetRecordLength(t units.Time) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInRecordLengthSet(r, t.Seconds()) })
}

func (o *Oscilloscope) RecordLength() (units.Time, error) {
	v, err := get(o.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInRecordLengthGet(r) })
	return units.Seconds(v), err
}

func (o *Oscilloscope) SetSampleFrequency(f units.Frequency) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInFrequencySet(r, f.Hertz()) })
}

// SampleFrequency reads the configured sample frequency. The ADC always
// runs at its maximum rate; channel filters decide how conversions are
// reduced to stored samples.
func (o *Oscilloscope) SampleFrequency() (units.Frequency, error) {
	v, err := get(o.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInFrequencyGet(r) })
	return units.Hertz(v), err
}

// SampleFrequencyRange returns the supported sample frequency bounds.
func (o *Oscilloscope) SampleFrequencyRange() (min, max units.Frequency, err error) {
	lo, hi, err := get2(o.h, func(d Driver, r RawHandle) (float64, float64, error) { return d.AnalogInFrequencyInfo(r) })
	return units.Hertz(lo), units.Hertz(hi), err
}

// ADCBits returns the converter resolution.
func (o *Oscilloscope) ADCBits() (int, error) {
	return get(o.h, func(d Driver, r RawHandle) (int, error) { return d.AnalogInBitsInfo(r) })
}

func (o *Oscilloscope) BufferSizeRange() (min, max int, err error) {
	return get2(o.h, func(d Driver, r RawHandle) (int, int, error) { return d.AnalogInBufferSizeInfo(r) })
}

func (o *Oscilloscope) SetBufferSize(n int) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInBufferSizeSet(r, n) })
}

func (o *Oscilloscope) BufferSize() (int, error) {
	return get(o.h, func(d Driver, r RawHandle) (int, error) { return d.AnalogInBufferSizeGet(r) })
}

func (o *Oscilloscope) AcquisitionModes() (Support[AcquisitionMode], error) {
	mask, err := get(o.h, func(d Driver, r RawHandle) (uint32, error) { return d.AnalogInAcquisitionModeInfo(r) })
	return Support[AcquisitionMode](mask), err
}

func (o *Oscilloscope) SetAcquisitionMode(m AcquisitionMode) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInAcquisitionModeSet(r, m) })
}

func (o *Oscilloscope) AcquisitionMode() (AcquisitionMode, error) {
	return get(o.h, func(d Driver, r RawHandle) (AcquisitionMode, error) { return d.AnalogInAcquisitionModeGet(r) })
}

// SetTriggerSource selects what starts the acquisition.
func (o *Oscilloscope) SetTriggerSource(src TriggerSource) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerSourceSet(r, src) })
}

func (o *Oscilloscope) TriggerSource() (TriggerSource, error) {
	return checked(get(o.h, func(d Driver, r RawHandle) (TriggerSource, error) { return d.AnalogInTriggerSourceGet(r) }))
}

func (o *Oscilloscope) SetTriggerSlope(s TriggerSlope) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerConditionSet(r, s) })
}

func (o *Oscilloscope) TriggerSlope() (TriggerSlope, error) {
	return get(o.h, func(d Driver, r RawHandle) (TriggerSlope, error) { return d.AnalogInTriggerConditionGet(r) })
}

// SetTriggerPosition sets the horizontal trigger position relative to the
// middle of the buffer. Positive values delay the capture window.
func (o *Oscilloscope) SetTriggerPosition(t units.Time) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerPositionSet(r, t.Seconds()) })
}

func (o *Oscilloscope) TriggerPosition() (units.Time, error) {
	v, err := get(o.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInTriggerPositionGet(r) })
	return units.Seconds(v), err
}

func (o *Oscilloscope) SetTriggerLevel(v units.Voltage) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerLevelSet(r, v.Volts()) })
}

func (o *Oscilloscope) TriggerLevel() (units.Voltage, error) {
	v, err := get(o.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInTriggerLevelGet(r) })
	return units.Volts(v), err
}

func (o *Oscilloscope) SetTriggerType(t TriggerType) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerTypeSet(r, t) })
}

func (o *Oscilloscope) TriggerType() (TriggerType, error) {
	return get(o.h, func(d Driver, r RawHandle) (TriggerType, error) { return d.AnalogInTriggerTypeGet(r) })
}

// SetTriggerChannel selects the channel watched by the trigger detector.
func (o *Oscilloscope) SetTriggerChannel(ch int) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerChannelSet(r, ch) })
}

func (o *Oscilloscope) TriggerChannel() (int, error) {
	return get(o.h, func(d Driver, r RawHandle) (int, error) { return d.AnalogInTriggerChannelGet(r) })
}

// SetTriggerAutoTimeout sets how long the instrument waits for a trigger
// before capturing anyway. Zero waits forever.
func (o *Oscilloscope) SetTriggerAutoTimeout(t units.Time) error {
	return o.h.call(func(d Driver, r RawHandle) error { return d.AnalogInTriggerAutoTimeoutSet(r, t.Seconds()) })
}

func (o *Oscilloscope) TriggerAutoTimeout() (units.Time, error) {
	v, err := get(o.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInTriggerAutoTimeoutGet(r) })
	return units.Seconds(v), err
}

// SetTriggerLength sets the pulse or transition length and how it is
// compared.
func (o *Oscilloscope) SetTriggerLength(t units.Time, cond TriggerLength) error {
	return o.h.call(func(d Driver, r RawHandle) error {
		if err := d.AnalogInTriggerLengthSet(r, t.Seconds()); err != nil {
			return err
		}
		return d.AnalogInTriggerLengthConditionSet(r, cond)
	})
}

func (o *Oscilloscope) TriggerLength() (units.Time, TriggerLength, error) {
	var (
		t    float64
		cond TriggerLength
	)
	err := o.h.call(func(d Driver, r RawHandle) error {
		var err error
		if t, err = d.AnalogInTriggerLengthGet(r); err != nil {
			return err
		}
		cond, err = d.AnalogInTriggerLengthConditionGet(r)
		return err
	})
	return units.Seconds(t), cond, err
}

// Channels returns the input channels.
func (o *Oscilloscope) Channels() ([]*ScopeChannel, error) {
	n, err := get(o.h, func(d Driver, r RawHandle) (int, error) { return d.AnalogInChannelCount(r) })
	if err != nil {
		return nil, err
	}
	chans := make([]*ScopeChannel, n)
	for i := range chans {
		chans[i] = &ScopeChannel{h: o.h, index: i}
	}
	return chans, nil
}

// Channel returns input channel i without checking that it exists.
func (o *Oscilloscope) Channel(i int) *ScopeChannel {
	return &ScopeChannel{h: o.h, index: i}
}

// ChannelData holds the samples read from one channel.
type ChannelData struct {
	Index   int             `json:"index"`
	Samples []units.Voltage `json:"samples"`
}

// Capture is the result of a single oscilloscope acquisition.
type Capture struct {
	Rate     units.Frequency `json:"rate"`
	Time     time.Time       `json:"time"`
	Channels []ChannelData   `json:"channels"`
}

// Len returns the number of samples per channel.
func (c *Capture) Len() int {
	n := 0
	for _, ch := range c.Channels {
		if len(ch.Samples) > n {
			n = len(ch.Samples)
		}
	}
	return n
}

// Duration returns the time spanned by the capture.
func (c *Capture) Duration() units.Time {
	if c.Rate == 0 {
		return 0
	}
	return units.Seconds(float64(c.Len()) / c.Rate.Hertz())
}

// SampleTime returns the offset of sample i from the first sample.
func (c *Capture) SampleTime(i int) units.Time {
	if c.Rate == 0 {
		return 0
	}
	return units.Seconds(float64(i) / c.Rate.Hertz())
}

// Chunk is one batch of samples delivered by Stream.
type Chunk struct {
	Seq      int             `json:"seq"`
	Rate     units.Frequency `json:"rate"`
	Channels []ChannelData   `json:"channels"`
	// Lost counts samples the device overwrote before they were read.
	Lost int `json:"lost"`
	// Corrupted counts samples that may have been overwritten during the read.
	Corrupted int `json:"corrupted"`
}

func (o *Oscilloscope) enabledChannels() ([]int, error) {
	var enabled []int
	err := o.h.call(func(d Driver, r RawHandle) error {
		n, err := d.AnalogInChannelCount(r)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			on, err := d.AnalogInChannelEnableGet(r, i)
			if err != nil {
				return err
			}
			if on {
				enabled = append(enabled, i)
			}
		}
		return nil
	})
	if err == nil && len(enabled) == 0 {
		err = fmt.Errorf("dwf: no oscilloscope channel enabled")
	}
	return enabled, err
}

// readChannels copies n samples of each channel out of the SDK buffer.
// Callers hold the handle lock.
func readChannels(d Driver, r RawHandle, channels []int, n int) ([]ChannelData, error) {
	out := make([]ChannelData, 0, len(channels))
	for _, ch := range channels {
		buf := make([]float64, n)
		if n > 0 {
			if err := d.AnalogInStatusData(r, ch, buf); err != nil {
				return nil, fmt.Errorf("read channel %d: %w", ch, err)
			}
		}
		samples := make([]units.Voltage, n)
		for i, v := range buf {
			samples[i] = units.Volts(v)
		}
		out = append(out, ChannelData{Index: ch, Samples: samples})
	}
	return out, nil
}

// Acquire runs one Single acquisition with the current configuration and
// returns the samples of every enabled channel. It blocks until the
// instrument is done or ctx ends; on cancellation the instrument is stopped.
func (o *Oscilloscope) Acquire(ctx context.Context) (*Capture, error) {
	channels, err := o.enabledChannels()
	if err != nil {
		return nil, err
	}

	err = o.h.call(func(d Driver, r RawHandle) error {
		if err := d.AnalogInAcquisitionModeSet(r, AcquisitionModeSingle); err != nil {
			return err
		}
		return d.AnalogInConfigure(r, false, true)
	})
	if err != nil {
		return nil, fmt.Errorf("start acquisition: %w", err)
	}
	o.h.log.Debug().Ints("channels", channels).Msg("scope acquisition started")

	err = o.h.waitFor(ctx, func() (bool, error) {
		st, err := get(o.h, func(d Driver, r RawHandle) (InstrumentState, error) { return d.AnalogInStatus(r, true) })
		return st == StateDone, err
	})
	if err != nil {
		_ = o.Stop()
		return nil, fmt.Errorf("wait for acquisition: %w", err)
	}

	capture := &Capture{Time: time.Now()}
	err = o.h.call(func(d Driver, r RawHandle) error {
		rate, err := d.AnalogInFrequencyGet(r)
		if err != nil {
			return err
		}
		capture.Rate = units.Hertz(rate)
		n, err := d.AnalogInStatusSamplesValid(r)
		if err != nil {
			return err
		}
		capture.Channels, err = readChannels(d, r, channels, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	o.h.log.Debug().Int("samples", capture.Len()).Stringer("rate", capture.Rate).Msg("scope acquisition done")
	return capture, nil
}

// Stream runs a Record acquisition and hands each batch of samples to fn
// until the record length elapses, ctx ends, or fn returns an error. The
// instrument is stopped before Stream returns. Reading from the device and
// calling fn happen on separate goroutines so a slow fn does not stall the
// device reads.
func (o *Oscilloscope) Stream(ctx context.Context, fn func(Chunk) error) error {
	channels, err := o.enabledChannels()
	if err != nil {
		return err
	}

	var rate float64
	err = o.h.call(func(d Driver, r RawHandle) error {
		if err := d.AnalogInAcquisitionModeSet(r, AcquisitionModeRecord); err != nil {
			return err
		}
		var err error
		if rate, err = d.AnalogInFrequencyGet(r); err != nil {
			return err
		}
		return d.AnalogInConfigure(r, false, true)
	})
	if err != nil {
		return fmt.Errorf("start record: %w", err)
	}
	defer func() { _ = o.Stop() }()
	o.h.log.Debug().Ints("channels", channels).Float64("rate", rate).Msg("scope record started")

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan Chunk, 4)

	g.Go(func() error {
		defer close(chunks)
		seq := 0
		return o.h.waitFor(gctx, func() (bool, error) {
			var (
				chunk Chunk
				done  bool
			)
			err := o.h.call(func(d Driver, r RawHandle) error {
				st, err := d.AnalogInStatus(r, true)
				if err != nil {
					return err
				}
				avail, lost, corrupted, err := d.AnalogInStatusRecord(r)
				if err != nil {
					return err
				}
				done = st == StateDone && avail == 0
				if avail == 0 && lost == 0 && corrupted == 0 {
					return nil
				}
				data, err := readChannels(d, r, channels, avail)
				if err != nil {
					return err
				}
				chunk = Chunk{Seq: seq, Rate: units.Hertz(rate), Channels: data, Lost: lost, Corrupted: corrupted}
				seq++
				return nil
			})
			if err != nil {
				return false, err
			}
			if chunk.Channels != nil {
				select {
				case chunks <- chunk:
				case <-gctx.Done():
					return false, gctx.Err()
				}
			}
			return done, nil
		})
	})

	g.Go(func() error {
		for chunk := range chunks {
			if chunk.Lost > 0 || chunk.Corrupted > 0 {
				o.h.log.Warn().Int("seq", chunk.Seq).Int("lost", chunk.Lost).Int("corrupted", chunk.Corrupted).Msg("record samples dropped")
			}
			if err := fn(chunk); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// ScopeChannel is one oscilloscope input.
type ScopeChannel struct {
	h     *Handle
	index int
}

func (c *ScopeChannel) Index() int { return c.index }

func (c *ScopeChannel) Enable() error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogInChannelEnableSet(r, c.index, true) })
}

func (c *ScopeChannel) Disable() error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogInChannelEnableSet(r, c.index, false) })
}

func (c *ScopeChannel) Enabled() (bool, error) {
	return get(c.h, func(d Driver, r RawHandle) (bool, error) { return d.AnalogInChannelEnableGet(r, c.index) })
}

func (c *ScopeChannel) SetFilter(f Filter) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogInChannelFilterSet(r, c.index, f) })
}

func (c *ScopeChannel) Filter() (Filter, error) {
	return get(c.h, func(d Driver, r RawHandle) (Filter, error) { return d.AnalogInChannelFilterGet(r, c.index) })
}

func (c *ScopeChannel) Filters() (Support[Filter], error) {
	mask, err := get(c.h, func(d Driver, r RawHandle) (uint32, error) { return d.AnalogInChannelFilterInfo(r) })
	return Support[Filter](mask), err
}

// RangeSteps returns the discrete input ranges the scope supports.
func (c *ScopeChannel) RangeSteps() ([]units.Voltage, error) {
	steps, err := get(c.h, func(d Driver, r RawHandle) ([]float64, error) { return d.AnalogInChannelRangeSteps(r) })
	if err != nil {
		return nil, err
	}
	out := make([]units.Voltage, len(steps))
	for i, s := range steps {
		out[i] = units.Volts(s)
	}
	return out, nil
}

// SetRange sets the peak-to-peak input range. The device rounds to a
// supported step.
func (c *ScopeChannel) SetRange(v units.Voltage) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogInChannelRangeSet(r, c.index, v.Volts()) })
}

func (c *ScopeChannel) Range() (units.Voltage, error) {
	v, err := get(c.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInChannelRangeGet(r, c.index) })
	return units.Volts(v), err
}

func (c *ScopeChannel) SetOffset(v units.Voltage) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogInChannelOffsetSet(r, c.index, v.Volts()) })
}

func (c *ScopeChannel) Offset() (units.Voltage, error) {
	v, err := get(c.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInChannelOffsetGet(r, c.index) })
	return units.Volts(v), err
}

// SetAttenuation informs the device of externally applied attenuation, such
// as a 10x probe.
func (c *ScopeChannel) SetAttenuation(x float64) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogInChannelAttenuationSet(r, c.index, x) })
}

func (c *ScopeChannel) Attenuation() (float64, error) {
	return get(c.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogInChannelAttenuationGet(r, c.index) })
}
