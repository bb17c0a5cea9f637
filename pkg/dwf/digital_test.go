package dwf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

func TestLogicSettings(t *testing.T) {
	_, h := openSim(t)
	la := h.LogicAnalyzer()

	clock, err := la.InternalClock()
	require.NoError(t, err)
	assert.Equal(t, units.Megahertz(100), clock)

	bits, err := la.BitWidth()
	require.NoError(t, err)
	assert.Equal(t, 16, bits)

	require.NoError(t, la.SetSampleFrequency(units.Megahertz(1)))
	div, err := la.Divider()
	require.NoError(t, err)
	assert.Equal(t, uint32(100), div)
	f, err := la.SampleFrequency()
	require.NoError(t, err)
	assert.Equal(t, units.Megahertz(1), f)

	// frequencies above the clock clamp to divider 1
	require.NoError(t, la.SetSampleFrequency(units.Megahertz(500)))
	div, err = la.Divider()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), div)
	assert.ErrorIs(t, la.SetSampleFrequency(0), ErrInvalidParameter)

	require.NoError(t, la.SetBufferSize(512))
	n, err := la.BufferSize()
	require.NoError(t, err)
	assert.Equal(t, 512, n)

	modes, err := la.SampleModes()
	require.NoError(t, err)
	assert.Equal(t, []SampleMode{SampleModeSimple, SampleModeNoise}, modes.Variants())

	acq, err := la.AcquisitionModes()
	require.NoError(t, err)
	assert.False(t, acq.Has(AcquisitionModeSingleWithoutRearm))
	assert.ErrorIs(t, la.SetAcquisitionMode(AcquisitionModeSingleWithoutRearm), ErrInvalidParameter)

	require.NoError(t, la.SetClockSource(ClockExternal))
	src, err := la.ClockSource()
	require.NoError(t, err)
	assert.Equal(t, ClockExternal, src)
}

func TestLogicSeesPatternClock(t *testing.T) {
	_, h := openSim(t)

	pg := h.PatternGenerator()
	require.NoError(t, pg.Channel(0).SetClock(units.Megahertz(1)))
	require.NoError(t, pg.Start())

	div, err := pg.Channel(0).Divider()
	require.NoError(t, err)
	assert.Equal(t, uint32(50), div)

	la := h.LogicAnalyzer()
	require.NoError(t, la.SetSampleFrequency(units.Megahertz(10)))
	require.NoError(t, la.SetBufferSize(40))

	capture, err := la.Acquire(context.Background())
	require.NoError(t, err)
	require.Len(t, capture.Samples, 40)
	assert.Equal(t, units.Megahertz(10), capture.Rate)

	line := capture.Line(0)
	for i, v := range line {
		want := (i/5)%2 == 1
		assert.Equal(t, want, v, "sample %d", i)
	}
	// other lines stay at their idle level
	for _, v := range capture.Line(1) {
		assert.False(t, v)
	}
}

func TestLogicSeesIdleLevel(t *testing.T) {
	_, h := openSim(t)
	require.NoError(t, h.PatternGenerator().Channel(2).SetIdle(IdleHigh))

	la := h.LogicAnalyzer()
	require.NoError(t, la.SetBufferSize(8))
	capture, err := la.Acquire(context.Background())
	require.NoError(t, err)
	for _, s := range capture.Samples {
		assert.Equal(t, uint32(1<<2), s)
	}
}

func TestPatternCustomData(t *testing.T) {
	_, h := openSim(t)
	pg := h.PatternGenerator()
	ch := pg.Channel(3)

	bits := []bool{true, false, true, true, false, false, false, false, true}
	require.NoError(t, ch.Enable())
	require.NoError(t, ch.SetType(OutputTypeCustom))
	require.NoError(t, ch.SetDivider(10))
	require.NoError(t, ch.SetData(bits))
	require.NoError(t, pg.Start())

	la := h.LogicAnalyzer()
	require.NoError(t, la.SetDivider(10))
	require.NoError(t, la.SetBufferSize(len(bits)*2))
	capture, err := la.Acquire(context.Background())
	require.NoError(t, err)

	line := capture.Line(3)
	assert.Equal(t, bits, line[:len(bits)])
	assert.Equal(t, bits, line[len(bits):])
}

func TestPatternCustomDataTooLong(t *testing.T) {
	_, h := openSim(t)
	ch := h.PatternGenerator().Channel(0)

	limit, err := ch.MaxDataLength()
	require.NoError(t, err)
	assert.Equal(t, 1024, limit)

	err = ch.SetData(make([]bool, limit+1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPatternChannelSettings(t *testing.T) {
	_, h := openSim(t)
	ch := h.PatternGenerator().Channel(5)
	assert.Equal(t, 5, ch.Index())

	modes, err := ch.OutputModes()
	require.NoError(t, err)
	assert.True(t, modes.Has(OutputOpenDrain))
	require.NoError(t, ch.SetOutputMode(OutputOpenDrain))
	mode, err := ch.OutputMode()
	require.NoError(t, err)
	assert.Equal(t, OutputOpenDrain, mode)

	types, err := ch.Types()
	require.NoError(t, err)
	assert.True(t, types.Has(OutputTypePlay))
	require.NoError(t, ch.SetType(OutputTypeRandom))
	typ, err := ch.Type()
	require.NoError(t, err)
	assert.Equal(t, OutputTypeRandom, typ)

	idles, err := ch.Idles()
	require.NoError(t, err)
	assert.True(t, idles.Has(IdleTristate))
	require.NoError(t, ch.SetIdle(IdleLow))
	idle, err := ch.Idle()
	require.NoError(t, err)
	assert.Equal(t, IdleLow, idle)

	lo, hi, err := ch.DividerRange()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), lo)
	assert.Equal(t, uint32(0x7FFFFFFF), hi)

	require.NoError(t, ch.SetInitialDivider(7))
	div, err := ch.InitialDivider()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), div)

	require.NoError(t, ch.SetInitialCounter(true, 5))
	high, count, err := ch.InitialCounter()
	require.NoError(t, err)
	assert.True(t, high)
	assert.Equal(t, uint32(5), count)

	require.NoError(t, ch.SetCounter(3, 4))
	low, hiCount, err := ch.Counter()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), low)
	assert.Equal(t, uint32(4), hiCount)

	_, maxCount, err := ch.CounterRange()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7FFF), maxCount)

	_, err = h.PatternGenerator().Channel(16).Enabled()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPatternInitialCounterStartsHigh(t *testing.T) {
	_, h := openSim(t)
	pg := h.PatternGenerator()
	ch := pg.Channel(0)
	require.NoError(t, ch.SetClock(units.Megahertz(10)))
	require.NoError(t, ch.SetInitialCounter(true, 0))
	require.NoError(t, pg.Start())

	la := h.LogicAnalyzer()
	require.NoError(t, la.SetBufferSize(20))
	capture, err := la.Acquire(context.Background())
	require.NoError(t, err)

	line := capture.Line(0)
	assert.True(t, line[0])
	assert.False(t, line[5])
	assert.True(t, line[10])
}

func TestPatternGeneratorSettings(t *testing.T) {
	_, h := openSim(t)
	pg := h.PatternGenerator()

	chans, err := pg.Channels()
	require.NoError(t, err)
	assert.Len(t, chans, 16)

	_, hi, err := pg.RunTimeRange()
	require.NoError(t, err)
	assert.InDelta(t, 42.9, hi.Seconds(), 1e-9)

	require.NoError(t, pg.SetRunTime(units.Milliseconds(5)))
	run, err := pg.RunTime()
	require.NoError(t, err)
	assert.InDelta(t, 5e-3, run.Seconds(), 1e-12)

	require.NoError(t, pg.SetWaitTime(units.Milliseconds(2)))
	wait, err := pg.WaitTime()
	require.NoError(t, err)
	assert.InDelta(t, 2e-3, wait.Seconds(), 1e-12)

	require.NoError(t, pg.SetRepeat(4))
	rep, err := pg.Repeat()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), rep)

	require.NoError(t, pg.SetTriggerSource(TriggerSourceAnalogIn))
	src, err := pg.TriggerSource()
	require.NoError(t, err)
	assert.Equal(t, TriggerSourceAnalogIn, src)

	require.NoError(t, pg.Start())
	st, err := pg.State()
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st)
	require.NoError(t, pg.Stop())
}

func TestPatternPlayData(t *testing.T) {
	_, h := openSim(t)
	pg := h.PatternGenerator()
	require.NoError(t, pg.SetPlayRate(units.Megahertz(1)))
	assert.ErrorIs(t, pg.SetPlayRate(0), ErrInvalidParameter)

	tests := []struct {
		name    string
		data    []byte
		bitrate Bitrate
		wantErr bool
	}{
		{"8 bit", []byte{1, 2, 3, 4}, Bitrate8, false},
		{"1 bit", []byte{0xAA}, Bitrate1, false},
		{"16 bit even", []byte{1, 2, 3, 4}, Bitrate16, false},
		{"16 bit odd", []byte{1, 2, 3}, Bitrate16, true},
		{"bad bitrate", []byte{1, 2}, Bitrate(3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pg.SetPlayData(tt.data, tt.bitrate)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUARTLoopback(t *testing.T) {
	_, h := openSim(t)
	uart := h.Protocols().UART()

	cfg := DefaultUARTConfig()
	cfg.Baud = 115200
	cfg.RxPin = cfg.TxPin
	require.NoError(t, uart.Configure(cfg))

	require.NoError(t, uart.Tx([]byte("hello")))
	got, status, err := uart.Rx(16)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
	assert.False(t, status.Overflow())
	assert.False(t, status.ParityError())

	got, _, err = uart.Rx(16)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, _, err = uart.Rx(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestUARTSeparatePins(t *testing.T) {
	_, h := openSim(t)
	uart := h.Protocols().UART()
	require.NoError(t, uart.Configure(DefaultUARTConfig()))

	require.NoError(t, uart.Tx([]byte("ping")))
	got, _, err := uart.Rx(8)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUARTOverflow(t *testing.T) {
	_, h := openSim(t)
	uart := h.Protocols().UART()
	cfg := DefaultUARTConfig()
	cfg.RxPin = cfg.TxPin
	require.NoError(t, uart.Configure(cfg))

	require.NoError(t, uart.Tx(bytes.Repeat([]byte{'x'}, 9000)))
	got, status, err := uart.Rx(16)
	require.NoError(t, err)
	assert.Len(t, got, 16)
	assert.True(t, status.Overflow())
	assert.Equal(t, -1, status.ParityIndex())
}

func TestUARTConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UARTConfig)
		wantErr bool
	}{
		{"default", func(*UARTConfig) {}, false},
		{"odd parity", func(c *UARTConfig) { c.Parity = ParityOdd }, false},
		{"1.5 stop bits", func(c *UARTConfig) { c.StopBits = 1.5 }, false},
		{"zero baud", func(c *UARTConfig) { c.Baud = 0 }, true},
		{"four data bits", func(c *UARTConfig) { c.DataBits = 4 }, true},
		{"bad parity", func(c *UARTConfig) { c.Parity = Parity(7) }, true},
		{"three stop bits", func(c *UARTConfig) { c.StopBits = 3 }, true},
		{"negative pin", func(c *UARTConfig) { c.TxPin = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultUARTConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRxStatus(t *testing.T) {
	assert.True(t, RxStatus(-1).Overflow())
	assert.True(t, RxStatus(3).ParityError())
	assert.Equal(t, 2, RxStatus(3).ParityIndex())
	assert.Equal(t, -1, RxStatus(0).ParityIndex())
}

func TestParseParity(t *testing.T) {
	for _, p := range []Parity{ParityNone, ParityOdd, ParityEven} {
		got, err := ParseParity(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseParity("mark")
	assert.Error(t, err)
}
