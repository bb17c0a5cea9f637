package dwf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

func TestWavegenChannels(t *testing.T) {
	_, h := openSim(t)
	chans, err := h.WaveformGenerator().Channels()
	require.NoError(t, err)
	require.Len(t, chans, 2)
	assert.Equal(t, 1, chans[1].Index())

	_, err = h.WaveformGenerator().Channel(2).State()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestWavegenNode(t *testing.T) {
	_, h := openSim(t)
	ch := h.WaveformGenerator().Channel(0)
	carrier := ch.Carrier()
	assert.Equal(t, NodeCarrier, carrier.Kind())
	assert.Equal(t, "channel 0 carrier", carrier.String())

	require.NoError(t, ch.Enable())
	on, err := ch.Enabled()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, carrier.SetFunction(FunctionSquare))
	fn, err := carrier.Function()
	require.NoError(t, err)
	assert.Equal(t, FunctionSquare, fn)

	require.NoError(t, carrier.SetFrequency(units.Kilohertz(10)))
	f, err := carrier.Frequency()
	require.NoError(t, err)
	assert.Equal(t, units.Kilohertz(10), f)

	// the simulated output stage tops out at 5 V
	require.NoError(t, carrier.SetAmplitude(units.Volts(12)))
	amp, err := carrier.Amplitude()
	require.NoError(t, err)
	assert.Equal(t, units.Volts(5), amp)

	require.NoError(t, carrier.SetSymmetry(25))
	sym, err := carrier.Symmetry()
	require.NoError(t, err)
	assert.Equal(t, 25.0, sym)

	require.NoError(t, carrier.SetPhase(90))
	ph, err := carrier.Phase()
	require.NoError(t, err)
	assert.Equal(t, 90.0, ph)

	assert.ErrorIs(t, carrier.SetModulationDepth(50), ErrInvalidParameter)
	require.NoError(t, ch.AM().SetModulationDepth(50))
	depth, err := ch.AM().Amplitude()
	require.NoError(t, err)
	assert.Equal(t, 50.0, depth.Volts())
}

func TestWavegenTiming(t *testing.T) {
	_, h := openSim(t)
	ch := h.WaveformGenerator().Channel(1)

	require.NoError(t, ch.SetRunTime(units.Milliseconds(10)))
	run, err := ch.RunTime()
	require.NoError(t, err)
	assert.InDelta(t, 0.01, run.Seconds(), 1e-12)

	require.NoError(t, ch.SetWaitTime(units.Milliseconds(1)))
	wait, err := ch.WaitTime()
	require.NoError(t, err)
	assert.InDelta(t, 0.001, wait.Seconds(), 1e-12)

	require.NoError(t, ch.SetRepeat(3))
	n, err := ch.Repeat()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, ch.SetTriggerSource(TriggerSourceExternal1))
	src, err := ch.TriggerSource()
	require.NoError(t, err)
	assert.Equal(t, TriggerSourceExternal1, src)

	require.NoError(t, ch.Start())
	st, err := ch.State()
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st)
	require.NoError(t, ch.Stop())
	st, err = ch.State()
	require.NoError(t, err)
	assert.Equal(t, StateReady, st)
}

func TestWavegenCustomData(t *testing.T) {
	_, h := openSim(t)
	carrier := h.WaveformGenerator().Channel(0).Carrier()

	lo, hi, err := carrier.DataLimits()
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 4096, hi)

	tests := []struct {
		name    string
		data    []float64
		wantErr bool
	}{
		{"ramp", []float64{-1, -0.5, 0, 0.5, 1}, false},
		{"single", []float64{0.25}, false},
		{"out of range", []float64{0, 1.5}, true},
		{"empty", nil, true},
		{"too long", make([]float64, 4097), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := carrier.SetData(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWavegenCustomLoopback(t *testing.T) {
	_, h := openSim(t)
	wg := h.WaveformGenerator().Channel(0)
	carrier := wg.Carrier()
	require.NoError(t, carrier.Enable())
	require.NoError(t, carrier.SetFunction(FunctionCustom))
	require.NoError(t, carrier.SetData([]float64{1, -1}))
	require.NoError(t, carrier.SetAmplitude(units.Volts(2)))
	require.NoError(t, carrier.SetFrequency(units.Kilohertz(1)))
	require.NoError(t, wg.Start())

	scope := h.Oscilloscope()
	require.NoError(t, scope.SetSampleFrequency(units.Kilohertz(100)))
	require.NoError(t, scope.SetBufferSize(100))
	require.NoError(t, scope.Channel(1).Disable())

	capture, err := scope.Acquire(context.Background())
	require.NoError(t, err)
	samples := capture.Channels[0].Samples
	// first half period high, second half low
	assert.InDelta(t, 2, samples[10].Volts(), 1e-9)
	assert.InDelta(t, -2, samples[60].Volts(), 1e-9)
}

func TestWavegenAM(t *testing.T) {
	_, h := openSim(t)
	wg := h.WaveformGenerator().Channel(0)
	carrier := wg.Carrier()
	require.NoError(t, carrier.Enable())
	require.NoError(t, carrier.SetFunction(FunctionSine))
	require.NoError(t, carrier.SetFrequency(units.Kilohertz(10)))
	require.NoError(t, carrier.SetAmplitude(units.Volts(1)))

	am := wg.AM()
	require.NoError(t, am.Enable())
	require.NoError(t, am.SetFunction(FunctionSquare))
	require.NoError(t, am.SetFrequency(units.Kilohertz(1)))
	require.NoError(t, am.SetModulationDepth(50))
	require.NoError(t, wg.Start())

	scope := h.Oscilloscope()
	require.NoError(t, scope.SetSampleFrequency(units.Megahertz(1)))
	require.NoError(t, scope.SetBufferSize(1000))
	capture, err := scope.Acquire(context.Background())
	require.NoError(t, err)

	peak := func(from, to int) float64 {
		p := 0.0
		for _, v := range capture.Channels[0].Samples[from:to] {
			p = math.Max(p, math.Abs(v.Volts()))
		}
		return p
	}
	// square modulator: 150% amplitude in the first half, 50% in the second
	assert.InDelta(t, 1.5, peak(0, 500), 0.01)
	assert.InDelta(t, 0.5, peak(500, 1000), 0.01)
}

func TestWavegenReset(t *testing.T) {
	_, h := openSim(t)
	carrier := h.WaveformGenerator().Channel(1).Carrier()
	require.NoError(t, carrier.SetFunction(FunctionTriangle))
	require.NoError(t, h.WaveformGenerator().Reset())

	fn, err := carrier.Function()
	require.NoError(t, err)
	assert.Equal(t, FunctionDC, fn)
}
