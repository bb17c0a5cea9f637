package dwf

import (
	"fmt"
	"strconv"
	"strings"
)

// DomainConfig is the channel and buffer layout of one domain (analog or
// digital) in a device configuration.
type DomainConfig struct {
	InputChannels    uint32 `json:"input_channels"`
	OutputChannels   uint32 `json:"output_channels"`
	IOChannels       uint32 `json:"io_channels"`
	InputBufferSize  uint32 `json:"input_buffer_size"`
	OutputBufferSize uint32 `json:"output_buffer_size"`
}

// Config is one of the configurations a device can be opened with.
type Config struct {
	Index   int          `json:"index"`
	Analog  DomainConfig `json:"analog"`
	Digital DomainConfig `json:"digital"`
}

// Device is an enumerated instrument. Open it to obtain a Handle.
type Device struct {
	Index        int        `json:"index"`
	Type         DeviceType `json:"type"`
	Revision     int        `json:"revision"`
	UserName     string     `json:"user_name"`
	Name         string     `json:"name"`
	SerialNumber string     `json:"serial_number"`
	Configs      []Config   `json:"configs"`

	drv Driver
}

// Version returns the SDK version string, e.g. "3.16.3".
func Version(drv SystemDriver) (string, error) {
	return drv.Version()
}

// Enumerate detects the devices matching filter.
func Enumerate(drv Driver, filter EnumFilter) ([]Device, error) {
	count, err := drv.Enum(filter)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	devices := make([]Device, 0, count)
	for i := 0; i < count; i++ {
		dev, err := describeDevice(drv, i)
		if err != nil {
			return nil, fmt.Errorf("describe device %d: %w", i, err)
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func describeDevice(drv Driver, index int) (Device, error) {
	dev := Device{Index: index, drv: drv}

	var err error
	if dev.Type, dev.Revision, err = drv.EnumDeviceType(index); err != nil {
		return Device{}, err
	}
	if dev.UserName, err = drv.EnumUserName(index); err != nil {
		return Device{}, err
	}
	if dev.Name, err = drv.EnumDeviceName(index); err != nil {
		return Device{}, err
	}
	if dev.SerialNumber, err = drv.EnumSN(index); err != nil {
		return Device{}, err
	}

	configs, err := drv.EnumConfig(index)
	if err != nil {
		return Device{}, err
	}
	for c := 0; c < configs; c++ {
		cfg, err := describeConfig(drv, c)
		if err != nil {
			return Device{}, fmt.Errorf("config %d: %w", c, err)
		}
		dev.Configs = append(dev.Configs, cfg)
	}
	return dev, nil
}

func describeConfig(drv EnumDriver, index int) (Config, error) {
	cfg := Config{Index: index}
	fields := []struct {
		info ConfigInfo
		dst  *uint32
	}{
		{ConfigAnalogInChannelCount, &cfg.Analog.InputChannels},
		{ConfigAnalogOutChannelCount, &cfg.Analog.OutputChannels},
		{ConfigAnalogIOChannelCount, &cfg.Analog.IOChannels},
		{ConfigAnalogInBufferSize, &cfg.Analog.InputBufferSize},
		{ConfigAnalogOutBufferSize, &cfg.Analog.OutputBufferSize},
		{ConfigDigitalInChannelCount, &cfg.Digital.InputChannels},
		{ConfigDigitalOutChannelCount, &cfg.Digital.OutputChannels},
		{ConfigDigitalIOChannelCount, &cfg.Digital.IOChannels},
		{ConfigDigitalInBufferSize, &cfg.Digital.InputBufferSize},
		{ConfigDigitalOutBufferSize, &cfg.Digital.OutputBufferSize},
	}
	for _, f := range fields {
		v, err := drv.EnumConfigInfo(index, f.info)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", f.info, err)
		}
		if v < 0 {
			v = 0
		}
		*f.dst = uint32(v)
	}
	return cfg, nil
}

// Open acquires an exclusive lock on the device using its default
// configuration.
func (d Device) Open(opts ...Option) (*Handle, error) {
	if err := d.checkNotOpened(); err != nil {
		return nil, err
	}
	raw, err := d.drv.DeviceOpen(d.Index)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	return newHandle(d, raw, opts...), nil
}

// OpenConfig acquires an exclusive lock on the device using cfg.
func (d Device) OpenConfig(cfg Config, opts ...Option) (*Handle, error) {
	if err := d.checkNotOpened(); err != nil {
		return nil, err
	}
	raw, err := d.drv.DeviceConfigOpen(d.Index, cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("open %s config %d: %w", d, cfg.Index, err)
	}
	return newHandle(d, raw, opts...), nil
}

// The SDK does not reliably report AlreadyOpened from the open call itself,
// so the enumeration flag is checked first.
func (d Device) checkNotOpened() error {
	if d.drv == nil {
		return fmt.Errorf("dwf: device %d was not enumerated", d.Index)
	}
	opened, err := d.drv.EnumDeviceIsOpened(d.Index)
	if err != nil {
		return fmt.Errorf("query device %d: %w", d.Index, err)
	}
	if opened {
		return &Error{Code: CodeAlreadyOpened, Reason: "device was already opened"}
	}
	return nil
}

func (d Device) String() string {
	if d.SerialNumber == "" {
		return fmt.Sprintf("%s #%d", d.Name, d.Index)
	}
	return fmt.Sprintf("%s %s", d.Name, d.SerialNumber)
}

// FindDevice selects a device by enumeration index, serial number or user
// name. An empty selector picks the first device.
func FindDevice(devs []Device, selector string) (Device, error) {
	if len(devs) == 0 {
		return Device{}, ErrNotFound
	}
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return devs[0], nil
	}
	if idx, err := strconv.Atoi(selector); err == nil {
		for _, d := range devs {
			if d.Index == idx {
				return d, nil
			}
		}
		return Device{}, fmt.Errorf("%w: index %d", ErrNotFound, idx)
	}
	sn := strings.TrimPrefix(strings.ToUpper(selector), "SN:")
	for _, d := range devs {
		if strings.TrimPrefix(strings.ToUpper(d.SerialNumber), "SN:") == sn {
			return d, nil
		}
	}
	for _, d := range devs {
		if d.UserName != "" && strings.EqualFold(d.UserName, selector) {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%w: %q", ErrNotFound, selector)
}
