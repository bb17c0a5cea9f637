//go:build hardware && dwf

package dwf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// These tests need an attached Analog Discovery with W1 wired to 1+ and
// 1- wired to ground.

func openHardware(t *testing.T) *Handle {
	t.Helper()
	drv, err := NewNativeDriver()
	require.NoError(t, err)

	v, err := Version(drv)
	require.NoError(t, err)
	t.Logf("WaveForms SDK %s", v)

	devs, err := Enumerate(drv, EnumFilterAll)
	require.NoError(t, err)
	if len(devs) == 0 {
		t.Skip("no device attached")
	}
	h, err := devs[0].Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHardwareLoopback(t *testing.T) {
	h := openHardware(t)

	wg := h.WaveformGenerator().Channel(0)
	carrier := wg.Carrier()
	require.NoError(t, carrier.Enable())
	require.NoError(t, carrier.SetFunction(FunctionDC))
	require.NoError(t, carrier.SetOffset(units.Volts(1)))
	require.NoError(t, wg.Start())
	t.Cleanup(func() { _ = wg.Stop() })
	time.Sleep(100 * time.Millisecond)

	scope := h.Oscilloscope()
	require.NoError(t, scope.SetSampleFrequency(units.Megahertz(1)))
	require.NoError(t, scope.SetBufferSize(1000))
	require.NoError(t, scope.Channel(0).SetRange(units.Volts(5)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	capture, err := scope.Acquire(ctx)
	require.NoError(t, err)

	var sum float64
	for _, v := range capture.Channels[0].Samples {
		sum += v.Volts()
	}
	assert.InDelta(t, 1.0, sum/float64(capture.Len()), 0.05)
}

func TestHardwareTriggerPC(t *testing.T) {
	h := openHardware(t)
	require.NoError(t, h.TriggerPC())
}
