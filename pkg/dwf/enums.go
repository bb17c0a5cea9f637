package dwf

import "fmt"

// Enumerations mirror the constants of dwf.h. Values the SDK returns that
// are not listed here are preserved as-is; Known reports whether a value is
// one of the listed variants and String renders unknown values as Name(n).

type variant[T ~int] struct {
	value T
	name  string
}

func enumName[T ~int](kind string, table []variant[T], v T) string {
	for _, e := range table {
		if e.value == v {
			return e.name
		}
	}
	return fmt.Sprintf("%s(%d)", kind, int(v))
}

func enumKnown[T ~int](table []variant[T], v T) bool {
	for _, e := range table {
		if e.value == v {
			return true
		}
	}
	return false
}

func enumValues[T ~int](table []variant[T]) []T {
	out := make([]T, len(table))
	for i, e := range table {
		out[i] = e.value
	}
	return out
}

// EnumFilter restricts device enumeration to a device family.
type EnumFilter int

const (
	EnumFilterAll                 EnumFilter = 0
	EnumFilterElectronicsExplorer EnumFilter = 1
	EnumFilterAnalogDiscovery     EnumFilter = 2
	EnumFilterAnalogDiscovery2    EnumFilter = 3
	EnumFilterDigitalDiscovery    EnumFilter = 4
)

var enumFilterTable = []variant[EnumFilter]{
	{EnumFilterAll, "all"},
	{EnumFilterElectronicsExplorer, "electronics-explorer"},
	{EnumFilterAnalogDiscovery, "analog-discovery"},
	{EnumFilterAnalogDiscovery2, "analog-discovery-2"},
	{EnumFilterDigitalDiscovery, "digital-discovery"},
}

func (f EnumFilter) String() string { return enumName("EnumFilter", enumFilterTable, f) }
func (f EnumFilter) Known() bool { return enumKnown(enumFilterTable, f) }
func (EnumFilter) variants() []EnumFilter { return enumValues(enumFilterTable) }

// ParseEnumFilter maps a filter name as printed by String back to its value.
func ParseEnumFilter(s string) (EnumFilter, error) {
	for _, e := range enumFilterTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown device filter %q", s)
}

// DeviceType identifies the product family of an enumerated device.
type DeviceType int

const (
	DeviceTypeElectronicsExplorer DeviceType = 1
	DeviceTypeAnalogDiscovery     DeviceType = 2
	DeviceTypeAnalogDiscovery2    DeviceType = 3
	DeviceTypeDigitalDiscovery    DeviceType = 4
	DeviceTypeAnalogDiscoveryPro  DeviceType = 6
)

var deviceTypeTable = []variant[DeviceType]{
	{DeviceTypeElectronicsExplorer, "Electronics Explorer"},
	{DeviceTypeAnalogDiscovery, "Analog Discovery"},
	{DeviceTypeAnalogDiscovery2, "Analog Discovery 2"},
	{DeviceTypeDigitalDiscovery, "Digital Discovery"},
	{DeviceTypeAnalogDiscoveryPro, "Analog Discovery Pro"},
}

func (d DeviceType) String() string { return enumName("DeviceType", deviceTypeTable, d) }
func (d DeviceType) Known() bool { return enumKnown(deviceTypeTable, d) }
func (DeviceType) variants() []DeviceType { return enumValues(deviceTypeTable) }

// TriggerSource is a source on the device's global trigger bus.
type TriggerSource int

const (
	TriggerSourceNone              TriggerSource = 0
	TriggerSourcePC                TriggerSource = 1 // from this computer
	TriggerSourceDetectorAnalogIn  TriggerSource = 2
	TriggerSourceDetectorDigitalIn TriggerSource = 3
	TriggerSourceAnalogIn          TriggerSource = 4 // when the scope is running
	TriggerSourceDigitalIn         TriggerSource = 5
	TriggerSourceDigitalOut        TriggerSource = 6
	TriggerSourceAnalogOut1        TriggerSource = 7
	TriggerSourceAnalogOut2        TriggerSource = 8
	TriggerSourceAnalogOut3        TriggerSource = 9
	TriggerSourceAnalogOut4        TriggerSource = 10
	TriggerSourceExternal1         TriggerSource = 11
	TriggerSourceExternal2         TriggerSource = 12
	TriggerSourceExternal3         TriggerSource = 13
	TriggerSourceExternal4         TriggerSource = 14
	TriggerSourceHigh              TriggerSource = 15
	TriggerSourceLow               TriggerSource = 16
)

var triggerSourceTable = []variant[TriggerSource]{
	{TriggerSourceNone, "none"},
	{TriggerSourcePC, "pc"},
	{TriggerSourceDetectorAnalogIn, "detector-analog-in"},
	{TriggerSourceDetectorDigitalIn, "detector-digital-in"},
	{TriggerSourceAnalogIn, "analog-in"},
	{TriggerSourceDigitalIn, "digital-in"},
	{TriggerSourceDigitalOut, "digital-out"},
	{TriggerSourceAnalogOut1, "analog-out-1"},
	{TriggerSourceAnalogOut2, "analog-out-2"},
	{TriggerSourceAnalogOut3, "analog-out-3"},
	{TriggerSourceAnalogOut4, "analog-out-4"},
	{TriggerSourceExternal1, "external-1"},
	{TriggerSourceExternal2, "external-2"},
	{TriggerSourceExternal3, "external-3"},
	{TriggerSourceExternal4, "external-4"},
	{TriggerSourceHigh, "high"},
	{TriggerSourceLow, "low"},
}

func (t TriggerSource) String() string { return enumName("TriggerSource", triggerSourceTable, t) }
func (t TriggerSource) Known() bool { return enumKnown(triggerSourceTable, t) }
func (TriggerSource) variants() []TriggerSource { return enumValues(triggerSourceTable) }

// ParseTriggerSource maps a source name as printed by String back to its value.
func ParseTriggerSource(s string) (TriggerSource, error) {
	for _, e := range triggerSourceTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown trigger source %q", s)
}

// AcquisitionMode selects how the oscilloscope or logic analyzer fills its
// buffer.
type AcquisitionMode int

const (
	// AcquisitionModeSingle acquires one buffer and rearms; the next capture
	// starts after the data is fetched. This is the SDK default.
	AcquisitionModeSingle AcquisitionMode = 0
	// AcquisitionModeScanShift acquires continuously in FIFO order; the
	// trigger is ignored.
	AcquisitionModeScanShift AcquisitionMode = 1
	// AcquisitionModeScanScreen acquires continuously, writing circularly.
	AcquisitionModeScanScreen AcquisitionMode = 2
	// AcquisitionModeRecord acquires for the configured record length.
	AcquisitionModeRecord AcquisitionMode = 3
	AcquisitionModeOvers  AcquisitionMode = 4
	// AcquisitionModeSingleWithoutRearm acquires one buffer and stops.
	AcquisitionModeSingleWithoutRearm AcquisitionMode = 5
)

var acquisitionModeTable = []variant[AcquisitionMode]{
	{AcquisitionModeSingle, "single"},
	{AcquisitionModeScanShift, "scan-shift"},
	{AcquisitionModeScanScreen, "scan-screen"},
	{AcquisitionModeRecord, "record"},
	{AcquisitionModeOvers, "overs"},
	{AcquisitionModeSingleWithoutRearm, "single-without-rearm"},
}

func (m AcquisitionMode) String() string { return enumName("AcquisitionMode", acquisitionModeTable, m) }
func (m AcquisitionMode) Known() bool { return enumKnown(acquisitionModeTable, m) }
func (AcquisitionMode) variants() []AcquisitionMode { return enumValues(acquisitionModeTable) }

// ParseAcquisitionMode maps a mode name as printed by String back to its value.
func ParseAcquisitionMode(s string) (AcquisitionMode, error) {
	for _, e := range acquisitionModeTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown acquisition mode %q", s)
}

// InstrumentState is the run state shared by all instruments. Each
// instrument walks a different subset of it:
//
//	oscilloscope / logic analyzer: Ready -> Config -> Prefill -> Armed -> Running -> Done
//	waveform / pattern generator:  Ready -> Armed -> Wait -> Running -> Done
//
// The SDK uses the same value for "triggered" and "running".
type InstrumentState int

const (
	StateReady   InstrumentState = 0
	StateArmed   InstrumentState = 1
	StateDone    InstrumentState = 2
	StateRunning InstrumentState = 3
	StateConfig  InstrumentState = 4
	StatePrefill InstrumentState = 5
	StateWait    InstrumentState = 7
)

// StateTriggered is the SDK alias of StateRunning.
const StateTriggered = StateRunning

var instrumentStateTable = []variant[InstrumentState]{
	{StateReady, "ready"},
	{StateArmed, "armed"},
	{StateDone, "done"},
	{StateRunning, "running"},
	{StateConfig, "config"},
	{StatePrefill, "prefill"},
	{StateWait, "wait"},
}

func (s InstrumentState) String() string { return enumName("InstrumentState", instrumentStateTable, s) }
func (s InstrumentState) Known() bool { return enumKnown(instrumentStateTable, s) }
func (InstrumentState) variants() []InstrumentState { return enumValues(instrumentStateTable) }

// TriggerSlope is the edge condition of the analog-in trigger detector.
type TriggerSlope int

const (
	// SlopeRise: rising edge; positive pulse; window exit.
	SlopeRise TriggerSlope = 0
	// SlopeFall: falling edge; negative pulse; window entry.
	SlopeFall TriggerSlope = 1
	// SlopeEither: either edge or pulse polarity.
	SlopeEither TriggerSlope = 2
)

var triggerSlopeTable = []variant[TriggerSlope]{
	{SlopeRise, "rise"},
	{SlopeFall, "fall"},
	{SlopeEither, "either"},
}

func (s TriggerSlope) String() string { return enumName("TriggerSlope", triggerSlopeTable, s) }
func (s TriggerSlope) Known() bool { return enumKnown(triggerSlopeTable, s) }
func (TriggerSlope) variants() []TriggerSlope { return enumValues(triggerSlopeTable) }

// ParseTriggerSlope maps a slope name as printed by String back to its value.
func ParseTriggerSlope(s string) (TriggerSlope, error) {
	for _, e := range triggerSlopeTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown trigger slope %q", s)
}

// TriggerType is the analog-in trigger detector mode.
type TriggerType int

const (
	TriggerTypeEdge       TriggerType = 0
	TriggerTypePulse      TriggerType = 1
	TriggerTypeTransition TriggerType = 2
	TriggerTypeWindow     TriggerType = 3
)

var triggerTypeTable = []variant[TriggerType]{
	{TriggerTypeEdge, "edge"},
	{TriggerTypePulse, "pulse"},
	{TriggerTypeTransition, "transition"},
	{TriggerTypeWindow, "window"},
}

func (t TriggerType) String() string { return enumName("TriggerType", triggerTypeTable, t) }
func (t TriggerType) Known() bool { return enumKnown(triggerTypeTable, t) }
func (TriggerType) variants() []TriggerType { return enumValues(triggerTypeTable) }

// TriggerLength is the pulse/transition length condition.
type TriggerLength int

const (
	TriggerLengthLess    TriggerLength = 0
	TriggerLengthTimeout TriggerLength = 1
	TriggerLengthMore    TriggerLength = 2
)

var triggerLengthTable = []variant[TriggerLength]{
	{TriggerLengthLess, "less"},
	{TriggerLengthTimeout, "timeout"},
	{TriggerLengthMore, "more"},
}

func (l TriggerLength) String() string { return enumName("TriggerLength", triggerLengthTable, l) }
func (l TriggerLength) Known() bool { return enumKnown(triggerLengthTable, l) }
func (TriggerLength) variants() []TriggerLength { return enumValues(triggerLengthTable) }

// Filter selects how ADC conversions are reduced to stored samples.
type Filter int

const (
	// FilterDecimate stores every Nth conversion, N = ADC rate / sample rate.
	FilterDecimate Filter = 0
	// FilterAverage stores the average of N conversions.
	FilterAverage Filter = 1
	// FilterMinMax stores the interleaved minimum and maximum of 2N conversions.
	FilterMinMax Filter = 2
)

var filterTable = []variant[Filter]{
	{FilterDecimate, "decimate"},
	{FilterAverage, "average"},
	{FilterMinMax, "minmax"},
}

func (f Filter) String() string { return enumName("Filter", filterTable, f) }
func (f Filter) Known() bool { return enumKnown(filterTable, f) }
func (Filter) variants() []Filter { return enumValues(filterTable) }

// ParseFilter maps a filter name as printed by String back to its value.
func ParseFilter(s string) (Filter, error) {
	for _, e := range filterTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown filter %q", s)
}

// Function is a waveform generator signal shape.
type Function int

const (
	FunctionDC        Function = 0
	FunctionSine      Function = 1
	FunctionSquare    Function = 2
	FunctionTriangle  Function = 3
	FunctionRampUp    Function = 4
	FunctionRampDown  Function = 5
	FunctionNoise     Function = 6
	FunctionPulse     Function = 7
	FunctionTrapezium Function = 8
	FunctionSinePower Function = 9
	FunctionCustom    Function = 30
	FunctionPlay      Function = 31
)

var functionTable = []variant[Function]{
	{FunctionDC, "dc"},
	{FunctionSine, "sine"},
	{FunctionSquare, "square"},
	{FunctionTriangle, "triangle"},
	{FunctionRampUp, "ramp-up"},
	{FunctionRampDown, "ramp-down"},
	{FunctionNoise, "noise"},
	{FunctionPulse, "pulse"},
	{FunctionTrapezium, "trapezium"},
	{FunctionSinePower, "sine-power"},
	{FunctionCustom, "custom"},
	{FunctionPlay, "play"},
}

func (f Function) String() string { return enumName("Function", functionTable, f) }
func (f Function) Known() bool { return enumKnown(functionTable, f) }
func (Function) variants() []Function { return enumValues(functionTable) }

// ParseFunction maps a function name as printed by String back to its value.
func ParseFunction(s string) (Function, error) {
	for _, e := range functionTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown function %q", s)
}

// AnalogOutNode is a waveform generator channel node: the carrier or one of
// its modulators.
type AnalogOutNode int

const (
	NodeCarrier AnalogOutNode = 0
	NodeFM      AnalogOutNode = 1
	NodeAM      AnalogOutNode = 2
)

var analogOutNodeTable = []variant[AnalogOutNode]{
	{NodeCarrier, "carrier"},
	{NodeFM, "fm"},
	{NodeAM, "am"},
}

func (n AnalogOutNode) String() string { return enumName("AnalogOutNode", analogOutNodeTable, n) }
func (n AnalogOutNode) Known() bool { return enumKnown(analogOutNodeTable, n) }
func (AnalogOutNode) variants() []AnalogOutNode { return enumValues(analogOutNodeTable) }

// ClockSource is the logic analyzer sample clock source.
type ClockSource int

const (
	ClockInternal  ClockSource = 0
	ClockExternal  ClockSource = 1
	ClockExternal2 ClockSource = 2
)

var clockSourceTable = []variant[ClockSource]{
	{ClockInternal, "internal"},
	{ClockExternal, "external"},
	{ClockExternal2, "external-2"},
}

func (c ClockSource) String() string { return enumName("ClockSource", clockSourceTable, c) }
func (c ClockSource) Known() bool { return enumKnown(clockSourceTable, c) }
func (ClockSource) variants() []ClockSource { return enumValues(clockSourceTable) }

// SampleMode is the logic analyzer sampling mode.
type SampleMode int

const (
	SampleModeSimple SampleMode = 0
	// SampleModeNoise alternates noise and sample words; noise marks more
	// than one transition between two samples.
	SampleModeNoise SampleMode = 1
)

var sampleModeTable = []variant[SampleMode]{
	{SampleModeSimple, "simple"},
	{SampleModeNoise, "noise"},
}

func (m SampleMode) String() string { return enumName("SampleMode", sampleModeTable, m) }
func (m SampleMode) Known() bool { return enumKnown(sampleModeTable, m) }
func (SampleMode) variants() []SampleMode { return enumValues(sampleModeTable) }

// OutputMode is the electrical drive mode of a pattern generator pin.
type OutputMode int

const (
	// OutputPushPull drives active high and low.
	OutputPushPull OutputMode = 0
	// OutputOpenDrain sinks current and needs an external pull-up.
	OutputOpenDrain OutputMode = 1
	// OutputOpenSource sources current and needs an external pull-down.
	OutputOpenSource OutputMode = 2
	// OutputThreeState drives high, low or high impedance. Used with custom
	// and random types.
	OutputThreeState OutputMode = 3
)

var outputModeTable = []variant[OutputMode]{
	{OutputPushPull, "push-pull"},
	{OutputOpenDrain, "open-drain"},
	{OutputOpenSource, "open-source"},
	{OutputThreeState, "three-state"},
}

func (m OutputMode) String() string { return enumName("OutputMode", outputModeTable, m) }
func (m OutputMode) Known() bool { return enumKnown(outputModeTable, m) }
func (OutputMode) variants() []OutputMode { return enumValues(outputModeTable) }

// ParseOutputMode maps a mode name as printed by String back to its value.
func ParseOutputMode(s string) (OutputMode, error) {
	for _, e := range outputModeTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown output mode %q", s)
}

// OutputType is the signal type of a pattern generator pin.
type OutputType int

const (
	OutputTypePulse  OutputType = 0
	OutputTypeCustom OutputType = 1
	OutputTypeRandom OutputType = 2
	OutputTypeROM    OutputType = 3
	OutputTypeState  OutputType = 4
	OutputTypePlay   OutputType = 5
)

var outputTypeTable = []variant[OutputType]{
	{OutputTypePulse, "pulse"},
	{OutputTypeCustom, "custom"},
	{OutputTypeRandom, "random"},
	{OutputTypeROM, "rom"},
	{OutputTypeState, "state"},
	{OutputTypePlay, "play"},
}

func (t OutputType) String() string { return enumName("OutputType", outputTypeTable, t) }
func (t OutputType) Known() bool { return enumKnown(outputTypeTable, t) }
func (OutputType) variants() []OutputType { return enumValues(outputTypeTable) }

// ParseOutputType maps a type name as printed by String back to its value.
func ParseOutputType(s string) (OutputType, error) {
	for _, e := range outputTypeTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown output type %q", s)
}

// Idle is the level a pattern generator pin holds while not running.
type Idle int

const (
	// IdleInit keeps outputting the initial value.
	IdleInit     Idle = 0
	IdleLow      Idle = 1
	IdleHigh     Idle = 2
	IdleTristate Idle = 3
)

var idleTable = []variant[Idle]{
	{IdleInit, "init"},
	{IdleLow, "low"},
	{IdleHigh, "high"},
	{IdleTristate, "tristate"},
}

func (i Idle) String() string { return enumName("Idle", idleTable, i) }
func (i Idle) Known() bool { return enumKnown(idleTable, i) }
func (Idle) variants() []Idle { return enumValues(idleTable) }

// ParseIdle maps an idle level name as printed by String back to its value.
func ParseIdle(s string) (Idle, error) {
	for _, e := range idleTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown idle level %q", s)
}

// Param is a device-level parameter.
type Param int

const (
	// ParamUSBPower keeps USB power enabled when AUX is connected (AD2).
	ParamUSBPower Param = 2
	// ParamLEDBrightness is 0..100% (Digital Discovery).
	ParamLEDBrightness Param = 3
	// ParamOnClose is 0 continue, 1 stop, 2 shutdown.
	ParamOnClose Param = 4
	// ParamAudioOut enables audio output (AD1, AD2).
	ParamAudioOut Param = 5
	// ParamUSBLimit is the USB current limit in mA, -1 for none (AD1, AD2).
	ParamUSBLimit Param = 6
	// ParamAnalogOut enables the analog outputs.
	ParamAnalogOut Param = 7
	// ParamFrequency is the system clock in MHz.
	ParamFrequency Param = 8
)

var paramTable = []variant[Param]{
	{ParamUSBPower, "usb-power"},
	{ParamLEDBrightness, "led-brightness"},
	{ParamOnClose, "on-close"},
	{ParamAudioOut, "audio-out"},
	{ParamUSBLimit, "usb-limit"},
	{ParamAnalogOut, "analog-out"},
	{ParamFrequency, "frequency"},
}

func (p Param) String() string { return enumName("Param", paramTable, p) }
func (p Param) Known() bool { return enumKnown(paramTable, p) }
func (Param) variants() []Param { return enumValues(paramTable) }

// ParseParam maps a parameter name as printed by String back to its value.
func ParseParam(s string) (Param, error) {
	for _, e := range paramTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown parameter %q", s)
}

// ConfigInfo selects a field of a device configuration during enumeration.
type ConfigInfo int

const (
	ConfigAnalogInChannelCount   ConfigInfo = 1
	ConfigAnalogOutChannelCount  ConfigInfo = 2
	ConfigAnalogIOChannelCount   ConfigInfo = 3
	ConfigDigitalInChannelCount  ConfigInfo = 4
	ConfigDigitalOutChannelCount ConfigInfo = 5
	ConfigDigitalIOChannelCount  ConfigInfo = 6
	ConfigAnalogInBufferSize     ConfigInfo = 7
	ConfigAnalogOutBufferSize    ConfigInfo = 8
	ConfigDigitalInBufferSize    ConfigInfo = 9
	ConfigDigitalOutBufferSize   ConfigInfo = 10
)

// Bitrate is the number of bits per sample for pattern generator playback.
type Bitrate int

const (
	Bitrate1  Bitrate = 1
	Bitrate2  Bitrate = 2
	Bitrate4  Bitrate = 4
	Bitrate8  Bitrate = 8
	Bitrate16 Bitrate = 16
)

// Known reports whether b is one of the bitrates the SDK accepts.
func (b Bitrate) Known() bool {
	switch b {
	case Bitrate1, Bitrate2, Bitrate4, Bitrate8, Bitrate16:
		return true
	}
	return false
}

var configInfoTable = []variant[ConfigInfo]{
	{ConfigAnalogInChannelCount, "analog-in-channels"},
	{ConfigAnalogOutChannelCount, "analog-out-channels"},
	{ConfigAnalogIOChannelCount, "analog-io-channels"},
	{ConfigDigitalInChannelCount, "digital-in-channels"},
	{ConfigDigitalOutChannelCount, "digital-out-channels"},
	{ConfigDigitalIOChannelCount, "digital-io-channels"},
	{ConfigAnalogInBufferSize, "analog-in-buffer"},
	{ConfigAnalogOutBufferSize, "analog-out-buffer"},
	{ConfigDigitalInBufferSize, "digital-in-buffer"},
	{ConfigDigitalOutBufferSize, "digital-out-buffer"},
}

func (c ConfigInfo) String() string { return enumName("ConfigInfo", configInfoTable, c) }
func (c ConfigInfo) Known() bool { return enumKnown(configInfoTable, c) }

func (b Bitrate) String() string {
	if !b.Known() {
		return fmt.Sprintf("Bitrate(%d)", int(b))
	}
	return fmt.Sprintf("%d bit", int(b))
}
