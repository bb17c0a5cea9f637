package dwf

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openSim enumerates a simulator and opens its first device.
func openSim(t *testing.T, devs ...SimDevice) (*Simulator, *Handle) {
	t.Helper()
	sim := NewSimulator(devs...)
	list, err := Enumerate(sim, EnumFilterAll)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	h, err := list[0].Open(WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return sim, h
}

func TestVersion(t *testing.T) {
	v, err := Version(NewSimulator())
	require.NoError(t, err)
	assert.Equal(t, "3.21.3", v)
}

func TestEnumerate(t *testing.T) {
	sim := NewSimulator()
	devs, err := Enumerate(sim, EnumFilterAll)
	require.NoError(t, err)
	require.Len(t, devs, 1)

	d := devs[0]
	assert.Equal(t, 0, d.Index)
	assert.Equal(t, DeviceTypeAnalogDiscovery2, d.Type)
	assert.Equal(t, 3, d.Revision)
	assert.Equal(t, "Analog Discovery 2", d.Name)
	assert.Equal(t, "Discovery2", d.UserName)
	assert.Equal(t, "SN:210321A1B2C3", d.SerialNumber)

	if diff := cmp.Diff(DefaultSimDevice().Configs, d.Configs); diff != "" {
		t.Errorf("configs mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateFilter(t *testing.T) {
	dd := SimDevice{
		Type:         DeviceTypeDigitalDiscovery,
		Name:         "Digital Discovery",
		SerialNumber: "SN:210415DD0001",
		DIOCount:     24,
		DigitalClock: 800e6,
		TriggerPins:  2,
	}
	sim := NewSimulator(DefaultSimDevice(), dd)

	tests := []struct {
		filter EnumFilter
		want   []DeviceType
	}{
		{EnumFilterAll, []DeviceType{DeviceTypeAnalogDiscovery2, DeviceTypeDigitalDiscovery}},
		{EnumFilterAnalogDiscovery2, []DeviceType{DeviceTypeAnalogDiscovery2}},
		{EnumFilterDigitalDiscovery, []DeviceType{DeviceTypeDigitalDiscovery}},
		{EnumFilterElectronicsExplorer, nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			devs, err := Enumerate(sim, tt.filter)
			require.NoError(t, err)
			var got []DeviceType
			for _, d := range devs {
				got = append(got, d.Type)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumerateSynthesizedConfig(t *testing.T) {
	dev := DefaultSimDevice()
	dev.Configs = nil
	devs, err := Enumerate(NewSimulator(dev), EnumFilterAll)
	require.NoError(t, err)
	require.Len(t, devs[0].Configs, 1)
	assert.Equal(t, uint32(2), devs[0].Configs[0].Analog.InputChannels)
	assert.Equal(t, uint32(16), devs[0].Configs[0].Digital.IOChannels)
}

func TestOpenAlreadyOpened(t *testing.T) {
	sim := NewSimulator()
	devs, err := Enumerate(sim, EnumFilterAll)
	require.NoError(t, err)

	h, err := devs[0].Open()
	require.NoError(t, err)

	_, err = devs[0].Open()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyOpened), "got %v", err)

	var dwfErr *Error
	require.True(t, errors.As(err, &dwfErr))
	assert.Equal(t, CodeAlreadyOpened, dwfErr.Code)

	require.NoError(t, h.Close())
	assert.Equal(t, 0, sim.OpenHandles())

	h, err = devs[0].Open()
	require.NoError(t, err)
	require.NoError(t, h.Close())
}

func TestOpenedElsewhere(t *testing.T) {
	dev := DefaultSimDevice()
	dev.OpenedElsewhere = true
	devs, err := Enumerate(NewSimulator(dev), EnumFilterAll)
	require.NoError(t, err)

	_, err = devs[0].Open()
	assert.ErrorIs(t, err, ErrAlreadyOpened)
}

func TestOpenConfig(t *testing.T) {
	sim := NewSimulator()
	devs, err := Enumerate(sim, EnumFilterAll)
	require.NoError(t, err)

	h, err := devs[0].OpenConfig(devs[0].Configs[1])
	require.NoError(t, err)
	defer h.Close()

	_, hi, err := h.Oscilloscope().BufferSizeRange()
	require.NoError(t, err)
	assert.Equal(t, 16384, hi)

	size, err := h.LogicAnalyzer().MaxBufferSize()
	require.NoError(t, err)
	assert.Equal(t, 1024, size)
}

func TestOpenNotEnumerated(t *testing.T) {
	_, err := Device{Index: 3}.Open()
	assert.Error(t, err)
}

func TestFindDevice(t *testing.T) {
	devs := []Device{
		{Index: 0, Name: "Analog Discovery 2", SerialNumber: "SN:210321A1B2C3", UserName: "Discovery2"},
		{Index: 1, Name: "Analog Discovery 2", SerialNumber: "SN:210321FFFFFF", UserName: "bench"},
	}

	tests := []struct {
		selector string
		want     int
		wantErr  bool
	}{
		{"", 0, false},
		{"1", 1, false},
		{" 0 ", 0, false},
		{"210321ffffff", 1, false},
		{"SN:210321A1B2C3", 0, false},
		{"Bench", 1, false},
		{"7", 0, true},
		{"nope", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			d, err := FindDevice(devs, tt.selector)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Index)
		})
	}

	_, err := FindDevice(nil, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeviceString(t *testing.T) {
	assert.Equal(t, "Analog Discovery 2 SN:1", Device{Name: "Analog Discovery 2", SerialNumber: "SN:1"}.String())
	assert.Equal(t, "Analog Discovery 2 #2", Device{Name: "Analog Discovery 2", Index: 2}.String())
}
