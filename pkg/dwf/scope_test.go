package dwf

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

func TestScopeSettings(t *testing.T) {
	_, h := openSim(t)
	scope := h.Oscilloscope()

	require.NoError(t, scope.SetSampleFrequency(units.Megahertz(1)))
	f, err := scope.SampleFrequency()
	require.NoError(t, err)
	assert.Equal(t, units.Megahertz(1), f)

	lo, hi, err := scope.SampleFrequencyRange()
	require.NoError(t, err)
	assert.Equal(t, units.Hertz(1), lo)
	assert.Equal(t, units.Megahertz(100), hi)

	bits, err := scope.ADCBits()
	require.NoError(t, err)
	assert.Equal(t, 14, bits)

	require.NoError(t, scope.SetBufferSize(1000))
	n, err := scope.BufferSize()
	require.NoError(t, err)
	assert.Equal(t, 1000, n)

	require.NoError(t, scope.SetRecordLength(units.Seconds(2)))
	rl, err := scope.RecordLength()
	require.NoError(t, err)
	assert.Equal(t, units.Seconds(2), rl)

	modes, err := scope.AcquisitionModes()
	require.NoError(t, err)
	assert.True(t, modes.Has(AcquisitionModeRecord))
	require.NoError(t, scope.SetAcquisitionMode(AcquisitionModeScanShift))
	mode, err := scope.AcquisitionMode()
	require.NoError(t, err)
	assert.Equal(t, AcquisitionModeScanShift, mode)

	require.NoError(t, scope.SetTriggerSource(TriggerSourceDetectorAnalogIn))
	src, err := scope.TriggerSource()
	require.NoError(t, err)
	assert.Equal(t, TriggerSourceDetectorAnalogIn, src)

	require.NoError(t, scope.SetTriggerSlope(SlopeFall))
	slope, err := scope.TriggerSlope()
	require.NoError(t, err)
	assert.Equal(t, SlopeFall, slope)

	require.NoError(t, scope.SetTriggerLevel(units.Millivolts(250)))
	level, err := scope.TriggerLevel()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, level.Volts(), 1e-12)

	require.NoError(t, scope.SetTriggerPosition(units.Milliseconds(1)))
	pos, err := scope.TriggerPosition()
	require.NoError(t, err)
	assert.InDelta(t, 1e-3, pos.Seconds(), 1e-12)

	require.NoError(t, scope.SetTriggerChannel(1))
	tch, err := scope.TriggerChannel()
	require.NoError(t, err)
	assert.Equal(t, 1, tch)
	assert.Error(t, scope.SetTriggerChannel(2))

	require.NoError(t, scope.SetTriggerLength(units.Microseconds(5), TriggerLengthMore))
	tl, cond, err := scope.TriggerLength()
	require.NoError(t, err)
	assert.InDelta(t, 5e-6, tl.Seconds(), 1e-15)
	assert.Equal(t, TriggerLengthMore, cond)
}

func TestScopeChannel(t *testing.T) {
	_, h := openSim(t)
	chans, err := h.Oscilloscope().Channels()
	require.NoError(t, err)
	require.Len(t, chans, 2)
	ch := chans[1]
	assert.Equal(t, 1, ch.Index())

	require.NoError(t, ch.Disable())
	on, err := ch.Enabled()
	require.NoError(t, err)
	assert.False(t, on)

	steps, err := ch.RangeSteps()
	require.NoError(t, err)
	assert.Equal(t, units.Volts(0.05), steps[0])

	// ranges snap up to the next supported step
	require.NoError(t, ch.SetRange(units.Volts(3)))
	rng, err := ch.Range()
	require.NoError(t, err)
	assert.Equal(t, units.Volts(5), rng)

	require.NoError(t, ch.SetOffset(units.Millivolts(-500)))
	off, err := ch.Offset()
	require.NoError(t, err)
	assert.InDelta(t, -0.5, off.Volts(), 1e-12)

	require.NoError(t, ch.SetAttenuation(10))
	att, err := ch.Attenuation()
	require.NoError(t, err)
	assert.Equal(t, 10.0, att)

	filters, err := ch.Filters()
	require.NoError(t, err)
	assert.True(t, filters.Has(FilterAverage))
	require.NoError(t, ch.SetFilter(FilterMinMax))
	fl, err := ch.Filter()
	require.NoError(t, err)
	assert.Equal(t, FilterMinMax, fl)
}

func TestScopeAcquireLoopback(t *testing.T) {
	_, h := openSim(t)

	wg := h.WaveformGenerator().Channel(0)
	carrier := wg.Carrier()
	require.NoError(t, carrier.Enable())
	require.NoError(t, carrier.SetFunction(FunctionSine))
	require.NoError(t, carrier.SetFrequency(units.Kilohertz(1)))
	require.NoError(t, carrier.SetAmplitude(units.Volts(1)))
	require.NoError(t, carrier.SetOffset(units.Volts(0.5)))
	require.NoError(t, wg.Start())

	scope := h.Oscilloscope()
	require.NoError(t, scope.SetSampleFrequency(units.Megahertz(1)))
	require.NoError(t, scope.SetBufferSize(1000))
	require.NoError(t, scope.Channel(1).Disable())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	capture, err := scope.Acquire(ctx)
	require.NoError(t, err)

	require.Len(t, capture.Channels, 1)
	assert.Equal(t, 0, capture.Channels[0].Index)
	assert.Equal(t, 1000, capture.Len())
	assert.Equal(t, units.Megahertz(1), capture.Rate)
	assert.InDelta(t, 1e-3, capture.Duration().Seconds(), 1e-12)
	assert.InDelta(t, 250e-6, capture.SampleTime(250).Seconds(), 1e-12)

	lo, hi := capture.Channels[0].Samples[0], capture.Channels[0].Samples[0]
	for _, v := range capture.Channels[0].Samples {
		lo, hi = min(lo, v), max(hi, v)
	}
	assert.InDelta(t, 1.5, hi.Volts(), 0.01)
	assert.InDelta(t, -0.5, lo.Volts(), 0.01)
	assert.InDelta(t, 0.5, capture.Channels[0].Samples[0].Volts(), 1e-9)
}

func TestScopeAcquireClipsToRange(t *testing.T) {
	_, h := openSim(t)
	carrier := h.WaveformGenerator().Channel(1).Carrier()
	require.NoError(t, carrier.Enable())
	require.NoError(t, carrier.SetFunction(FunctionDC))
	require.NoError(t, carrier.SetOffset(units.Volts(3)))
	require.NoError(t, h.WaveformGenerator().Channel(1).Start())

	scope := h.Oscilloscope()
	require.NoError(t, scope.Channel(0).Disable())
	require.NoError(t, scope.Channel(1).SetRange(units.Volts(2)))
	require.NoError(t, scope.SetBufferSize(64))

	capture, err := scope.Acquire(context.Background())
	require.NoError(t, err)
	require.Len(t, capture.Channels, 1)
	for _, v := range capture.Channels[0].Samples {
		assert.Equal(t, units.Volts(1), v)
	}
}

func TestScopeAcquireNoChannels(t *testing.T) {
	_, h := openSim(t)
	scope := h.Oscilloscope()
	require.NoError(t, scope.Channel(0).Disable())
	require.NoError(t, scope.Channel(1).Disable())

	_, err := scope.Acquire(context.Background())
	assert.Error(t, err)
}

func TestScopeAcquireCanceled(t *testing.T) {
	_, h := openSim(t)
	scope := h.Oscilloscope()
	require.NoError(t, scope.SetTriggerSource(TriggerSourcePC))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := scope.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	st, err := scope.State()
	require.NoError(t, err)
	assert.Equal(t, StateReady, st)
}

func TestScopePCTrigger(t *testing.T) {
	_, h := openSim(t)
	scope := h.Oscilloscope()
	require.NoError(t, scope.SetTriggerSource(TriggerSourcePC))
	require.NoError(t, scope.SetBufferSize(32))

	type result struct {
		capture *Capture
		err     error
	}
	done := make(chan result, 1)
	go func() {
		c, err := scope.Acquire(context.Background())
		done <- result{c, err}
	}()

	require.Eventually(t, func() bool {
		st, err := scope.State()
		return err == nil && st == StateArmed
	}, time.Second, time.Millisecond)

	select {
	case <-done:
		t.Fatal("acquisition finished before the PC trigger")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, h.TriggerPC())

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, 32, r.capture.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("acquisition did not complete after the PC trigger")
	}
}

func TestScopeStream(t *testing.T) {
	defer goleak.VerifyNone(t)

	sim, h := openSim(t)
	scope := h.Oscilloscope()
	require.NoError(t, scope.SetSampleFrequency(units.Kilohertz(1)))
	require.NoError(t, scope.SetRecordLength(units.Milliseconds(100)))
	require.NoError(t, scope.SetBufferSize(16))
	sim.InjectRecordLoss(3, 1)

	var chunks []Chunk
	err := scope.Stream(context.Background(), func(c Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, chunks, 25)
	total := 0
	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
		assert.Equal(t, units.Kilohertz(1), c.Rate)
		require.Len(t, c.Channels, 2)
		assert.Len(t, c.Channels[1].Samples, len(c.Channels[0].Samples))
		total += len(c.Channels[0].Samples)
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, 3, chunks[0].Lost)
	assert.Equal(t, 1, chunks[0].Corrupted)
	assert.Zero(t, chunks[1].Lost)

	st, err := scope.State()
	require.NoError(t, err)
	assert.Equal(t, StateReady, st)
}

func TestScopeStreamCallbackError(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, h := openSim(t)
	scope := h.Oscilloscope()
	require.NoError(t, scope.SetRecordLength(0))
	require.NoError(t, scope.SetBufferSize(64))

	errStop := errors.New("stop")
	calls := 0
	err := scope.Stream(context.Background(), func(Chunk) error {
		calls++
		if calls == 3 {
			return errStop
		}
		return nil
	})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 3, calls)
}

func TestScopeStreamCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, h := openSim(t)
	scope := h.Oscilloscope()
	require.NoError(t, scope.SetBufferSize(64))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seen := 0
	err := scope.Stream(ctx, func(Chunk) error {
		seen++
		if seen == 5 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, seen, 5)
}
