package dwf

import (
	"errors"
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
)

func TestClassifyUSB(t *testing.T) {
	tests := []struct {
		name   string
		vid    gousb.ID
		pid    gousb.ID
		want   bool
		shared bool
	}{
		{"adept", VendorIDDigilent, 0x0007, true, false},
		{"jtag-usb", VendorIDDigilent, 0x0001, true, false},
		{"ft232h", VendorIDFTDI, 0x6014, true, true},
		{"ft232r", VendorIDFTDI, 0x6001, false, false},
		{"other vendor", 0x1234, 0x0007, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			known, ok := classifyUSB(&gousb.DeviceDesc{Vendor: tt.vid, Product: tt.pid})
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.shared, known.shared)
		})
	}
}

func TestKnownUSBDeviceAccepts(t *testing.T) {
	dedicated := knownUSBDevices[0]
	shared := knownUSBDevices[2]
	readErr := errors.New("libusb: pipe error")

	tests := []struct {
		name         string
		known        knownUSBDevice
		opened       bool
		manufacturer string
		err          error
		want         bool
	}{
		{"dedicated pid", dedicated, true, "", readErr, true},
		{"shared digilent", shared, true, "Digilent", nil, true},
		{"shared digilent lower case", shared, true, "digilent inc.", nil, true},
		{"shared other vendor", shared, true, "FTDI", nil, false},
		{"shared empty manufacturer", shared, true, "", nil, false},
		{"shared read failed", shared, true, "", readErr, false},
		{"shared not opened", shared, false, "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.known.accepts(tt.opened, tt.manufacturer, tt.err))
		})
	}
}

func TestUSBDeviceLabel(t *testing.T) {
	assert.Equal(t, "Analog Discovery 2 (210321A1B2C3)",
		USBDevice{Product: "Analog Discovery 2", SerialNumber: "210321A1B2C3", Description: "x"}.Label())
	assert.Equal(t, "Digilent Adept USB", USBDevice{Description: "Digilent Adept USB"}.Label())
	assert.Equal(t, "USB 1443:0007", USBDevice{VendorID: 0x1443, ProductID: 7}.Label())
}
