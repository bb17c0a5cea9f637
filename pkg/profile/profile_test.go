package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

func TestLoad(t *testing.T) {
	p, err := Load("testdata/loopback.yaml")
	require.NoError(t, err)

	assert.Equal(t, "loopback", p.Name)
	require.Len(t, p.Wavegen, 1)
	assert.Equal(t, Frequency(1e3), p.Wavegen[0].Frequency)
	assert.InDelta(t, 0.5, float64(p.Wavegen[0].Offset), 1e-12)
	require.NotNil(t, p.Scope)
	assert.Equal(t, Frequency(1e6), p.Scope.Rate)
	assert.Equal(t, Voltage(5), p.Scope.Channels[0].Range)
	require.NotNil(t, p.Pattern)
	assert.Equal(t, Frequency(1e6), p.Pattern.Channels[0].Clock)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "unknown key",
			doc:  "name: x\nscoop: {}\n",
			want: []string{"scoop"},
		},
		{
			name: "bad quantity",
			doc:  "name: x\nscope:\n  rate: fast\n",
			want: []string{"line 3"},
		},
		{
			name: "wrong dimension",
			doc:  "name: x\nscope:\n  rate: 5V\n",
			want: []string{"voltage"},
		},
		{
			name: "missing name",
			doc:  "scope: {}\n",
			want: []string{"name is required"},
		},
		{
			name: "every bad enum is reported",
			doc: `name: x
triggers:
  - pin: 0
    source: laser
wavegen:
  - channel: 0
    function: sawtooth
scope:
  trigger:
    source: pc
    slope: sideways
pattern:
  channels:
    - pin: 1
      bits: "10x"
`,
			want: []string{"triggers[0]", "wavegen[0].function", "scope.trigger.slope", "pattern.channels[0].bits"},
		},
		{
			name: "custom without data",
			doc:  "name: x\nwavegen:\n  - channel: 0\n    function: custom\n",
			want: []string{"custom function needs data"},
		},
		{
			name: "duplicate channel",
			doc:  "name: x\nwavegen:\n  - channel: 1\n    function: dc\n  - channel: 1\n    function: sine\n",
			want: []string{"listed twice"},
		},
		{
			name: "bad uart",
			doc:  "name: x\nuart:\n  data_bits: 12\n",
			want: []string{"uart"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	p, err := Load("testdata/loopback.yaml")
	require.NoError(t, err)
	// values that do not fit the four digits of the display format
	p.Wavegen[0].Frequency = Frequency(1234567)
	p.Wavegen[0].Amplitude = Voltage(1.23456)
	p.Scope.Trigger.Position = Time(12.345678e-6)

	data, err := p.Marshal()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, p.Name, back.Name)
	assert.Equal(t, p.Wavegen[0].Frequency, back.Wavegen[0].Frequency)
	assert.Equal(t, p.Wavegen[0].Amplitude, back.Wavegen[0].Amplitude)
	assert.Equal(t, p.Wavegen[0].Offset, back.Wavegen[0].Offset)
	assert.Equal(t, p.Scope.Trigger.Position, back.Scope.Trigger.Position)
	assert.Equal(t, p.Scope.Trigger.Level, back.Scope.Trigger.Level)
	assert.Equal(t, p.Scope.Rate, back.Scope.Rate)
	assert.Equal(t, p.Pattern.Channels[1].Bits, back.Pattern.Channels[1].Bits)
	assert.Contains(t, string(data), "1234567Hz")
	assert.Contains(t, string(data), "1.23456V")
}

func openSim(t *testing.T) *dwf.Handle {
	t.Helper()
	devs, err := dwf.Enumerate(dwf.NewSimulator(), dwf.EnumFilterAll)
	require.NoError(t, err)
	h, err := devs[0].Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestApply(t *testing.T) {
	p, err := Load("testdata/loopback.yaml")
	require.NoError(t, err)
	h := openSim(t)

	require.NoError(t, p.Apply(context.Background(), h))

	src, err := h.Trigger(0)
	require.NoError(t, err)
	assert.Equal(t, dwf.TriggerSourcePC, src)

	st, err := h.WaveformGenerator().Channel(0).State()
	require.NoError(t, err)
	assert.Equal(t, dwf.StateRunning, st)

	scope := h.Oscilloscope()
	on, err := scope.Channel(1).Enabled()
	require.NoError(t, err)
	assert.False(t, on, "unlisted channels are disabled")
	tsrc, err := scope.TriggerSource()
	require.NoError(t, err)
	assert.Equal(t, dwf.TriggerSourceDetectorAnalogIn, tsrc)

	capture, err := scope.Acquire(context.Background())
	require.NoError(t, err)
	require.Len(t, capture.Channels, 1)
	assert.Equal(t, 1000, capture.Len())
	hi := units.Volts(-10)
	for _, v := range capture.Channels[0].Samples {
		hi = max(hi, v)
	}
	assert.InDelta(t, 1.5, hi.Volts(), 0.01)

	logic, err := h.LogicAnalyzer().Acquire(context.Background())
	require.NoError(t, err)
	line := logic.Line(0)
	assert.False(t, line[0])
	assert.True(t, line[5])
	custom := logic.Line(3)
	assert.Equal(t, []bool{true, false, true, true, false, false, false, false}, custom[:8])
}

func TestApplyCanceled(t *testing.T) {
	p, err := Parse([]byte("name: x\nscope:\n  rate: 1MHz\n"))
	require.NoError(t, err)
	h := openSim(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Apply(ctx, h), context.Canceled)
}

func TestApplyDeviceError(t *testing.T) {
	p, err := Parse([]byte("name: x\ntriggers:\n  - pin: 9\n    source: pc\n"))
	require.NoError(t, err)
	h := openSim(t)

	err = p.Apply(context.Background(), h)
	assert.ErrorIs(t, err, dwf.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "apply triggers")
}
