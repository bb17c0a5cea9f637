package dwf

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/gousb"
	"github.com/rs/zerolog"
)

const (
	VendorIDDigilent = 0x1443
	VendorIDFTDI     = 0x0403
)

// USBDevice describes an attached instrument found on the USB bus without
// going through the SDK.
type USBDevice struct {
	VendorID     uint16
	ProductID    uint16
	Bus          int
	Address      int
	Description  string
	Manufacturer string
	Product      string
	SerialNumber string
}

// Label returns a user-friendly description for the device.
func (d USBDevice) Label() string {
	if d.Product != "" && d.SerialNumber != "" {
		return fmt.Sprintf("%s (%s)", d.Product, d.SerialNumber)
	}
	if d.Description != "" {
		return d.Description
	}
	return fmt.Sprintf("USB %04X:%04X", d.VendorID, d.ProductID)
}

type knownUSBDevice struct {
	VendorID    uint16
	ProductID   uint16
	Description string
	// shared marks generic bridge chips that are only Digilent products
	// when the manufacturer string says so.
	shared bool
}

var knownUSBDevices = []knownUSBDevice{
	{VendorID: VendorIDDigilent, ProductID: 0x0007, Description: "Digilent Adept USB"},
	{VendorID: VendorIDDigilent, ProductID: 0x0001, Description: "Digilent JTAG-USB"},
	{VendorID: VendorIDFTDI, ProductID: 0x6014, Description: "Digilent FT232H instrument", shared: true},
	{VendorID: VendorIDFTDI, ProductID: 0x6010, Description: "Digilent FT2232H instrument", shared: true},
}

// accepts reports whether a matched device should be listed. Shared bridge
// chips are kept only when their manufacturer string names Digilent, or
// when the device could not be opened and the string is unknown.
func (k knownUSBDevice) accepts(opened bool, manufacturer string, err error) bool {
	if !k.shared || !opened {
		return true
	}
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(manufacturer), "digilent")
}

func classifyUSB(desc *gousb.DeviceDesc) (knownUSBDevice, bool) {
	for _, known := range knownUSBDevices {
		if uint16(desc.Vendor) == known.VendorID && uint16(desc.Product) == known.ProductID {
			return known, true
		}
	}
	return knownUSBDevice{}, false
}

// DiscoverUSB lists attached Digilent instruments by VID/PID using libusb.
// Devices the process may not open are still listed, without their
// descriptor strings.
func DiscoverUSB(ctx context.Context) ([]USBDevice, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	known := map[*gousb.DeviceDesc]knownUSBDevice{}
	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		k, ok := classifyUSB(desc)
		if ok {
			known[desc] = k
		}
		return ok
	})
	defer func() {
		for _, d := range devs {
			d.Close()
		}
	}()
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		return nil, fmt.Errorf("usb enumeration: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opened := map[*gousb.DeviceDesc]*gousb.Device{}
	for _, d := range devs {
		opened[d.Desc] = d
	}

	logger := zerolog.Ctx(ctx)
	var results []USBDevice
	for desc, k := range known {
		info := USBDevice{
			VendorID:    k.VendorID,
			ProductID:   k.ProductID,
			Bus:         desc.Bus,
			Address:     desc.Address,
			Description: k.Description,
		}
		d, ok := opened[desc]
		var mfrErr error
		if ok {
			info.Manufacturer, mfrErr = d.Manufacturer()
			if mfrErr != nil {
				logger.Debug().Err(mfrErr).Str("device", info.Description).Int("bus", desc.Bus).Int("address", desc.Address).
					Msg("read usb manufacturer")
			}
			// product and serial only feed the label, which falls back to
			// the description
			info.Product, _ = d.Product()
			info.SerialNumber, _ = d.SerialNumber()
		}
		if !k.accepts(ok, info.Manufacturer, mfrErr) {
			continue
		}
		results = append(results, info)
	}
	slices.SortFunc(results, func(a, b USBDevice) int {
		if a.Bus != b.Bus {
			return a.Bus - b.Bus
		}
		return a.Address - b.Address
	})
	return results, nil
}
