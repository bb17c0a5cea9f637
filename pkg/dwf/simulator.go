package dwf

import (
	"fmt"
	"sync"
)

// SimDevice describes one device exposed by the Simulator.
type SimDevice struct {
	Type         DeviceType
	Revision     int
	UserName     string
	Name         string
	SerialNumber string
	// Configs lists the open configurations. Buffer sizes of the config a
	// device is opened with bound the simulated instrument buffers.
	Configs []Config
	// OpenedElsewhere reports the device as in use by another program.
	OpenedElsewhere bool

	ScopeChannels   int
	ScopeBits       int
	ScopeRateMin    float64
	ScopeRateMax    float64
	RangeSteps      []float64
	WavegenChannels int
	DIOCount        int
	DigitalClock    float64
	TriggerPins     int
	TriggerSources  Support[TriggerSource]
	Params          []Param
}

// DefaultSimDevice returns an Analog Discovery 2 shaped device.
func DefaultSimDevice() SimDevice {
	return SimDevice{
		Type:         DeviceTypeAnalogDiscovery2,
		Revision:     3,
		UserName:     "Discovery2",
		Name:         "Analog Discovery 2",
		SerialNumber: "SN:210321A1B2C3",
		Configs: []Config{
			{
				Index:   0,
				Analog:  DomainConfig{InputChannels: 2, OutputChannels: 2, IOChannels: 2, InputBufferSize: 8192, OutputBufferSize: 4096},
				Digital: DomainConfig{InputChannels: 16, OutputChannels: 16, IOChannels: 16, InputBufferSize: 4096, OutputBufferSize: 1024},
			},
			{
				Index:   1,
				Analog:  DomainConfig{InputChannels: 2, OutputChannels: 2, IOChannels: 2, InputBufferSize: 16384, OutputBufferSize: 1024},
				Digital: DomainConfig{InputChannels: 16, OutputChannels: 16, IOChannels: 16, InputBufferSize: 1024, OutputBufferSize: 256},
			},
		},
		ScopeChannels:   2,
		ScopeBits:       14,
		ScopeRateMin:    1,
		ScopeRateMax:    100e6,
		RangeSteps:      []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 50},
		WavegenChannels: 2,
		DIOCount:        16,
		DigitalClock:    100e6,
		TriggerPins:     2,
		TriggerSources: SupportOf(
			TriggerSourceNone, TriggerSourcePC,
			TriggerSourceDetectorAnalogIn, TriggerSourceDetectorDigitalIn,
			TriggerSourceAnalogIn, TriggerSourceDigitalIn, TriggerSourceDigitalOut,
			TriggerSourceAnalogOut1, TriggerSourceAnalogOut2,
			TriggerSourceExternal1, TriggerSourceExternal2,
			TriggerSourceHigh, TriggerSourceLow,
		),
		Params: []Param{ParamUSBPower, ParamOnClose, ParamAudioOut, ParamUSBLimit, ParamAnalogOut, ParamFrequency},
	}
}

// Simulator is an in-memory Driver. Scope channel N sees the signal of
// waveform generator channel N, logic analyzer lines see the pattern
// generator outputs, and the UART receives what it sends when its TX and RX
// pins are the same. It is safe for concurrent use.
type Simulator struct {
	mu      sync.Mutex
	version string
	devices []SimDevice

	enumerated []int
	configs    []Config

	handles map[RawHandle]*simState
	next    RawHandle

	lost      int
	corrupted int
}

// NewSimulator returns a simulator exposing devs, or a single
// DefaultSimDevice when none are given.
func NewSimulator(devs ...SimDevice) *Simulator {
	if len(devs) == 0 {
		devs = []SimDevice{DefaultSimDevice()}
	}
	devs = append([]SimDevice(nil), devs...)
	for i := range devs {
		if len(devs[i].Configs) == 0 {
			devs[i].Configs = []Config{synthesizeConfig(&devs[i])}
		}
	}
	return &Simulator{
		version: "3.21.3",
		devices: devs,
		handles: make(map[RawHandle]*simState),
	}
}

func synthesizeConfig(d *SimDevice) Config {
	return Config{
		Analog: DomainConfig{
			InputChannels:    uint32(d.ScopeChannels),
			OutputChannels:   uint32(d.WavegenChannels),
			InputBufferSize:  8192,
			OutputBufferSize: 4096,
		},
		Digital: DomainConfig{
			InputChannels:    uint32(d.DIOCount),
			OutputChannels:   uint32(d.DIOCount),
			IOChannels:       uint32(d.DIOCount),
			InputBufferSize:  4096,
			OutputBufferSize: 1024,
		},
	}
}

// InjectRecordLoss makes the next record batch report lost and corrupted
// samples.
func (s *Simulator) InjectRecordLoss(lost, corrupted int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lost, s.corrupted = lost, corrupted
}

// SetRawTrigger stores v on a trigger pin without validation, standing in
// for an SDK that knows sources this package does not.
func (s *Simulator) SetRawTrigger(h RawHandle, pin int, v TriggerSource) error {
	return s.with(h, func(st *simState) error {
		if pin < 0 || pin >= len(st.triggers) {
			return invalidParam(1, "trigger pin %d out of range", pin)
		}
		st.triggers[pin] = v
		return nil
	})
}

// OpenHandles returns the number of handles not yet closed.
func (s *Simulator) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

type simState struct {
	dev      *SimDevice
	devIndex int
	config   Config

	triggers   []TriggerSource
	params     map[Param]int
	pcTriggers int

	scope   simScope
	wavegen []simWavegen
	logic   simLogic
	pattern simPattern
	uart    simUART
}

func newSimState(dev *SimDevice, devIndex int, cfg Config) *simState {
	st := &simState{
		dev:      dev,
		devIndex: devIndex,
		config:   cfg,
		triggers: make([]TriggerSource, dev.TriggerPins),
		params:   make(map[Param]int),
	}
	for _, p := range dev.Params {
		st.params[p] = 0
	}
	if _, ok := st.params[ParamUSBLimit]; ok {
		st.params[ParamUSBLimit] = -1
	}
	if _, ok := st.params[ParamFrequency]; ok {
		st.params[ParamFrequency] = int(dev.DigitalClock / 1e6)
	}
	st.scope.reset(dev, cfg)
	st.wavegen = make([]simWavegen, dev.WavegenChannels)
	for i := range st.wavegen {
		st.wavegen[i].reset()
	}
	st.logic.reset(cfg)
	st.pattern.reset(dev, cfg)
	st.uart.reset()
	return st
}

func (s *Simulator) with(h RawHandle, fn func(*simState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.handles[h]
	if !ok {
		return invalidParam(0, "invalid device handle %d", h)
	}
	return fn(st)
}

func simGet[T any](s *Simulator, h RawHandle, fn func(*simState) (T, error)) (T, error) {
	var out T
	err := s.with(h, func(st *simState) error {
		var err error
		out, err = fn(st)
		return err
	})
	return out, err
}

func simGet2[A, B any](s *Simulator, h RawHandle, fn func(*simState) (A, B, error)) (A, B, error) {
	var (
		a A
		b B
	)
	err := s.with(h, func(st *simState) error {
		var err error
		a, b, err = fn(st)
		return err
	})
	return a, b, err
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Simulator) Version() (string, error) {
	return s.version, nil
}

func matchesFilter(t DeviceType, f EnumFilter) bool {
	switch f {
	case EnumFilterAll:
		return true
	case EnumFilterElectronicsExplorer:
		return t == DeviceTypeElectronicsExplorer
	case EnumFilterAnalogDiscovery:
		return t == DeviceTypeAnalogDiscovery
	case EnumFilterAnalogDiscovery2:
		return t == DeviceTypeAnalogDiscovery2
	case EnumFilterDigitalDiscovery:
		return t == DeviceTypeDigitalDiscovery
	}
	return false
}

func (s *Simulator) Enum(filter EnumFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !filter.Known() {
		return 0, invalidParam(0, "unknown enumeration filter %d", int(filter))
	}
	s.enumerated = s.enumerated[:0]
	for i, d := range s.devices {
		if matchesFilter(d.Type, filter) {
			s.enumerated = append(s.enumerated, i)
		}
	}
	return len(s.enumerated), nil
}

// device resolves an enumeration index. Callers hold s.mu.
func (s *Simulator) device(index int) (*SimDevice, int, error) {
	if index < 0 || index >= len(s.enumerated) {
		return nil, 0, invalidParam(0, "device index %d out of range", index)
	}
	i := s.enumerated[index]
	return &s.devices[i], i, nil
}

func (s *Simulator) enumField(index int, fn func(*SimDevice) string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _, err := s.device(index)
	if err != nil {
		return "", err
	}
	return fn(d), nil
}

func (s *Simulator) EnumDeviceType(index int) (DeviceType, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _, err := s.device(index)
	if err != nil {
		return 0, 0, err
	}
	return d.Type, d.Revision, nil
}

func (s *Simulator) isOpened(devIndex int) bool {
	if s.devices[devIndex].OpenedElsewhere {
		return true
	}
	for _, st := range s.handles {
		if st.devIndex == devIndex {
			return true
		}
	}
	return false
}

func (s *Simulator) EnumDeviceIsOpened(index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i, err := s.device(index)
	if err != nil {
		return false, err
	}
	return s.isOpened(i), nil
}

func (s *Simulator) EnumUserName(index int) (string, error) {
	return s.enumField(index, func(d *SimDevice) string { return d.UserName })
}

func (s *Simulator) EnumDeviceName(index int) (string, error) {
	return s.enumField(index, func(d *SimDevice) string { return d.Name })
}

func (s *Simulator) EnumSN(index int) (string, error) {
	return s.enumField(index, func(d *SimDevice) string { return d.SerialNumber })
}

func (s *Simulator) EnumConfig(index int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _, err := s.device(index)
	if err != nil {
		return 0, err
	}
	s.configs = d.Configs
	return len(d.Configs), nil
}

func (s *Simulator) EnumConfigInfo(config int, info ConfigInfo) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if config < 0 || config >= len(s.configs) {
		return 0, invalidParam(0, "config index %d out of range", config)
	}
	c := s.configs[config]
	var v uint32
	switch info {
	case ConfigAnalogInChannelCount:
		v = c.Analog.InputChannels
	case ConfigAnalogOutChannelCount:
		v = c.Analog.OutputChannels
	case ConfigAnalogIOChannelCount:
		v = c.Analog.IOChannels
	case ConfigDigitalInChannelCount:
		v = c.Digital.InputChannels
	case ConfigDigitalOutChannelCount:
		v = c.Digital.OutputChannels
	case ConfigDigitalIOChannelCount:
		v = c.Digital.IOChannels
	case ConfigAnalogInBufferSize:
		v = c.Analog.InputBufferSize
	case ConfigAnalogOutBufferSize:
		v = c.Analog.OutputBufferSize
	case ConfigDigitalInBufferSize:
		v = c.Digital.InputBufferSize
	case ConfigDigitalOutBufferSize:
		v = c.Digital.OutputBufferSize
	default:
		return 0, invalidParam(1, "unknown config info %d", int(info))
	}
	return int(v), nil
}

func (s *Simulator) open(index, config int) (RawHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, i, err := s.device(index)
	if err != nil {
		return 0, err
	}
	if s.isOpened(i) {
		return 0, &Error{Code: CodeAlreadyOpened, Reason: "Devices is busy, used by other application."}
	}
	if config < 0 || config >= len(d.Configs) {
		return 0, invalidParam(1, "config index %d out of range", config)
	}
	s.next++
	s.handles[s.next] = newSimState(d, i, d.Configs[config])
	return s.next, nil
}

func (s *Simulator) DeviceOpen(index int) (RawHandle, error) {
	return s.open(index, 0)
}

func (s *Simulator) DeviceConfigOpen(index, config int) (RawHandle, error) {
	return s.open(index, config)
}

func (s *Simulator) DeviceClose(h RawHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[h]; !ok {
		return invalidParam(0, "invalid device handle %d", h)
	}
	delete(s.handles, h)
	return nil
}

func (s *Simulator) DeviceTriggerInfo(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return uint32(st.dev.TriggerSources), nil })
}

func (s *Simulator) DeviceTriggerSet(h RawHandle, pin int, src TriggerSource) error {
	return s.with(h, func(st *simState) error {
		if pin < 0 || pin >= len(st.triggers) {
			return invalidParam(1, "trigger pin %d out of range", pin)
		}
		if !st.dev.TriggerSources.Has(src) {
			return invalidParam(2, "trigger source %s not supported", src)
		}
		st.triggers[pin] = src
		return nil
	})
}

func (s *Simulator) DeviceTriggerGet(h RawHandle, pin int) (TriggerSource, error) {
	return simGet(s, h, func(st *simState) (TriggerSource, error) {
		if pin < 0 || pin >= len(st.triggers) {
			return 0, invalidParam(1, "trigger pin %d out of range", pin)
		}
		return st.triggers[pin], nil
	})
}

func (s *Simulator) DeviceTriggerPC(h RawHandle) error {
	return s.with(h, func(st *simState) error {
		st.pcTriggers++
		st.scope.pcPulsed = true
		st.logic.pcPulsed = true
		return nil
	})
}

func (s *Simulator) DeviceParamSet(h RawHandle, p Param, v int) error {
	return s.with(h, func(st *simState) error {
		if _, ok := st.params[p]; !ok {
			return &Error{Code: CodeNotSupported, Reason: fmt.Sprintf("parameter %s not supported", p)}
		}
		st.params[p] = v
		return nil
	})
}

func (s *Simulator) DeviceParamGet(h RawHandle, p Param) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) {
		v, ok := st.params[p]
		if !ok {
			return 0, &Error{Code: CodeNotSupported, Reason: fmt.Sprintf("parameter %s not supported", p)}
		}
		return v, nil
	})
}

// triggered reports whether an armed instrument waiting on src may start.
func triggered(src TriggerSource, pcPulsed bool) bool {
	return src != TriggerSourcePC || pcPulsed
}
