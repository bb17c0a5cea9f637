package dwf

// RawHandle is the SDK's device handle (HDWF).
type RawHandle int32

// Driver is the raw WaveForms SDK surface, one method per SDK call. It is
// implemented by the cgo binding (NewNativeDriver) and by Simulator.
//
// Implementations must return *Error for SDK failures. Driver methods are
// not required to be safe for concurrent use; Handle serializes access.
type Driver interface {
	SystemDriver
	EnumDriver
	DeviceDriver
	AnalogInDriver
	AnalogOutDriver
	DigitalInDriver
	DigitalOutDriver
	UARTDriver
}

type SystemDriver interface {
	Version() (string, error)
}

type EnumDriver interface {
	Enum(filter EnumFilter) (int, error)
	// EnumDeviceType returns the device type and hardware revision.
	EnumDeviceType(device int) (DeviceType, int, error)
	EnumDeviceIsOpened(device int) (bool, error)
	EnumUserName(device int) (string, error)
	EnumDeviceName(device int) (string, error)
	EnumSN(device int) (string, error)
	// EnumConfig returns the number of configurations of device and selects
	// it for subsequent EnumConfigInfo calls.
	EnumConfig(device int) (int, error)
	EnumConfigInfo(config int, info ConfigInfo) (int, error)
}

type DeviceDriver interface {
	DeviceOpen(device int) (RawHandle, error)
	DeviceConfigOpen(device, config int) (RawHandle, error)
	DeviceClose(h RawHandle) error
	DeviceTriggerInfo(h RawHandle) (uint32, error)
	DeviceTriggerSet(h RawHandle, pin int, src TriggerSource) error
	DeviceTriggerGet(h RawHandle, pin int) (TriggerSource, error)
	DeviceTriggerPC(h RawHandle) error
	DeviceParamSet(h RawHandle, p Param, v int) error
	DeviceParamGet(h RawHandle, p Param) (int, error)
}

type AnalogInDriver interface {
	AnalogInReset(h RawHandle) error
	AnalogInConfigure(h RawHandle, reconfigure, start bool) error
	AnalogInStatus(h RawHandle, readData bool) (InstrumentState, error)
	AnalogInStatusSamplesValid(h RawHandle) (int, error)
	AnalogInStatusData(h RawHandle, channel int, buf []float64) error
	AnalogInStatusRecord(h RawHandle) (available, lost, corrupted int, err error)
	AnalogInFrequencyInfo(h RawHandle) (min, max float64, err error)
	AnalogInFrequencySet(h RawHandle, hz float64) error
	AnalogInFrequencyGet(h RawHandle) (float64, error)
	AnalogInBitsInfo(h RawHandle) (int, error)
	AnalogInBufferSizeInfo(h RawHandle) (min, max int, err error)
	AnalogInBufferSizeSet(h RawHandle, size int) error
	AnalogInBufferSizeGet(h RawHandle) (int, error)
	AnalogInAcquisitionModeInfo(h RawHandle) (uint32, error)
	AnalogInAcquisitionModeSet(h RawHandle, mode AcquisitionMode) error
	AnalogInAcquisitionModeGet(h RawHandle) (AcquisitionMode, error)
	AnalogInRecordLengthSet(h RawHandle, seconds float64) error
	AnalogInRecordLengthGet(h RawHandle) (float64, error)
	AnalogInChannelCount(h RawHandle) (int, error)
	AnalogInChannelEnableSet(h RawHandle, channel int, enable bool) error
	AnalogInChannelEnableGet(h RawHandle, channel int) (bool, error)
	AnalogInChannelFilterInfo(h RawHandle) (uint32, error)
	AnalogInChannelFilterSet(h RawHandle, channel int, f Filter) error
	AnalogInChannelFilterGet(h RawHandle, channel int) (Filter, error)
	AnalogInChannelRangeSteps(h RawHandle) ([]float64, error)
	AnalogInChannelRangeSet(h RawHandle, channel int, volts float64) error
	AnalogInChannelRangeGet(h RawHandle, channel int) (float64, error)
	AnalogInChannelOffsetSet(h RawHandle, channel int, volts float64) error
	AnalogInChannelOffsetGet(h RawHandle, channel int) (float64, error)
	AnalogInChannelAttenuationSet(h RawHandle, channel int, attenuation float64) error
	AnalogInChannelAttenuationGet(h RawHandle, channel int) (float64, error)
	AnalogInTriggerSourceSet(h RawHandle, src TriggerSource) error
	AnalogInTriggerSourceGet(h RawHandle) (TriggerSource, error)
	AnalogInTriggerPositionSet(h RawHandle, seconds float64) error
	AnalogInTriggerPositionGet(h RawHandle) (float64, error)
	AnalogInTriggerAutoTimeoutSet(h RawHandle, seconds float64) error
	AnalogInTriggerAutoTimeoutGet(h RawHandle) (float64, error)
	AnalogInTriggerTypeSet(h RawHandle, t TriggerType) error
	AnalogInTriggerTypeGet(h RawHandle) (TriggerType, error)
	AnalogInTriggerChannelSet(h RawHandle, channel int) error
	AnalogInTriggerChannelGet(h RawHandle) (int, error)
	AnalogInTriggerLevelSet(h RawHandle, volts float64) error
	AnalogInTriggerLevelGet(h RawHandle) (float64, error)
	AnalogInTriggerConditionSet(h RawHandle, slope TriggerSlope) error
	AnalogInTriggerConditionGet(h RawHandle) (TriggerSlope, error)
	AnalogInTriggerLengthSet(h RawHandle, seconds float64) error
	AnalogInTriggerLengthGet(h RawHandle) (float64, error)
	AnalogInTriggerLengthConditionSet(h RawHandle, cond TriggerLength) error
	AnalogInTriggerLengthConditionGet(h RawHandle) (TriggerLength, error)
}

type AnalogOutDriver interface {
	AnalogOutCount(h RawHandle) (int, error)
	// AnalogOutReset resets channel, or every channel when channel is -1.
	AnalogOutReset(h RawHandle, channel int) error
	AnalogOutConfigure(h RawHandle, channel int, start bool) error
	AnalogOutStatus(h RawHandle, channel int) (InstrumentState, error)
	AnalogOutNodeEnableSet(h RawHandle, channel int, node AnalogOutNode, enable bool) error
	AnalogOutNodeEnableGet(h RawHandle, channel int, node AnalogOutNode) (bool, error)
	AnalogOutNodeFunctionSet(h RawHandle, channel int, node AnalogOutNode, fn Function) error
	AnalogOutNodeFunctionGet(h RawHandle, channel int, node AnalogOutNode) (Function, error)
	AnalogOutNodeFrequencySet(h RawHandle, channel int, node AnalogOutNode, hz float64) error
	AnalogOutNodeFrequencyGet(h RawHandle, channel int, node AnalogOutNode) (float64, error)
	AnalogOutNodeAmplitudeSet(h RawHandle, channel int, node AnalogOutNode, v float64) error
	AnalogOutNodeAmplitudeGet(h RawHandle, channel int, node AnalogOutNode) (float64, error)
	AnalogOutNodeOffsetSet(h RawHandle, channel int, node AnalogOutNode, v float64) error
	AnalogOutNodeOffsetGet(h RawHandle, channel int, node AnalogOutNode) (float64, error)
	AnalogOutNodeSymmetrySet(h RawHandle, channel int, node AnalogOutNode, percent float64) error
	AnalogOutNodeSymmetryGet(h RawHandle, channel int, node AnalogOutNode) (float64, error)
	AnalogOutNodePhaseSet(h RawHandle, channel int, node AnalogOutNode, degrees float64) error
	AnalogOutNodePhaseGet(h RawHandle, channel int, node AnalogOutNode) (float64, error)
	AnalogOutNodeDataInfo(h RawHandle, channel int, node AnalogOutNode) (min, max int, err error)
	AnalogOutNodeDataSet(h RawHandle, channel int, node AnalogOutNode, data []float64) error
	AnalogOutRunSet(h RawHandle, channel int, seconds float64) error
	AnalogOutRunGet(h RawHandle, channel int) (float64, error)
	AnalogOutWaitSet(h RawHandle, channel int, seconds float64) error
	AnalogOutWaitGet(h RawHandle, channel int) (float64, error)
	AnalogOutRepeatSet(h RawHandle, channel int, repeat int) error
	AnalogOutRepeatGet(h RawHandle, channel int) (int, error)
	AnalogOutTriggerSourceSet(h RawHandle, channel int, src TriggerSource) error
	AnalogOutTriggerSourceGet(h RawHandle, channel int) (TriggerSource, error)
}

type DigitalInDriver interface {
	DigitalInReset(h RawHandle) error
	DigitalInConfigure(h RawHandle, reconfigure, start bool) error
	DigitalInStatus(h RawHandle, readData bool) (InstrumentState, error)
	DigitalInStatusSamplesValid(h RawHandle) (int, error)
	DigitalInStatusData(h RawHandle, buf []uint32) error
	DigitalInInternalClockInfo(h RawHandle) (float64, error)
	DigitalInClockSourceSet(h RawHandle, src ClockSource) error
	DigitalInClockSourceGet(h RawHandle) (ClockSource, error)
	DigitalInDividerInfo(h RawHandle) (uint32, error)
	DigitalInDividerSet(h RawHandle, div uint32) error
	DigitalInDividerGet(h RawHandle) (uint32, error)
	DigitalInBitsInfo(h RawHandle) (int, error)
	DigitalInBufferSizeInfo(h RawHandle) (int, error)
	DigitalInBufferSizeSet(h RawHandle, size int) error
	DigitalInBufferSizeGet(h RawHandle) (int, error)
	DigitalInSampleModeInfo(h RawHandle) (uint32, error)
	DigitalInSampleModeSet(h RawHandle, mode SampleMode) error
	DigitalInSampleModeGet(h RawHandle) (SampleMode, error)
	DigitalInAcquisitionModeInfo(h RawHandle) (uint32, error)
	DigitalInAcquisitionModeSet(h RawHandle, mode AcquisitionMode) error
	DigitalInAcquisitionModeGet(h RawHandle) (AcquisitionMode, error)
	DigitalInTriggerSourceSet(h RawHandle, src TriggerSource) error
	DigitalInTriggerSourceGet(h RawHandle) (TriggerSource, error)
}

type DigitalOutDriver interface {
	DigitalOutReset(h RawHandle) error
	DigitalOutConfigure(h RawHandle, start bool) error
	DigitalOutStatus(h RawHandle) (InstrumentState, error)
	DigitalOutInternalClockInfo(h RawHandle) (float64, error)
	DigitalOutTriggerSourceSet(h RawHandle, src TriggerSource) error
	DigitalOutTriggerSourceGet(h RawHandle) (TriggerSource, error)
	DigitalOutRunInfo(h RawHandle) (min, max float64, err error)
	DigitalOutRunSet(h RawHandle, seconds float64) error
	DigitalOutRunGet(h RawHandle) (float64, error)
	DigitalOutWaitInfo(h RawHandle) (min, max float64, err error)
	DigitalOutWaitSet(h RawHandle, seconds float64) error
	DigitalOutWaitGet(h RawHandle) (float64, error)
	DigitalOutRepeatInfo(h RawHandle) (min, max uint32, err error)
	DigitalOutRepeatSet(h RawHandle, repeat uint32) error
	DigitalOutRepeatGet(h RawHandle) (uint32, error)
	DigitalOutCount(h RawHandle) (int, error)
	DigitalOutEnableSet(h RawHandle, channel int, enable bool) error
	DigitalOutEnableGet(h RawHandle, channel int) (bool, error)
	DigitalOutOutputInfo(h RawHandle, channel int) (uint32, error)
	DigitalOutOutputSet(h RawHandle, channel int, mode OutputMode) error
	DigitalOutOutputGet(h RawHandle, channel int) (OutputMode, error)
	DigitalOutTypeInfo(h RawHandle, channel int) (uint32, error)
	DigitalOutTypeSet(h RawHandle, channel int, t OutputType) error
	DigitalOutTypeGet(h RawHandle, channel int) (OutputType, error)
	DigitalOutIdleInfo(h RawHandle, channel int) (uint32, error)
	DigitalOutIdleSet(h RawHandle, channel int, idle Idle) error
	DigitalOutIdleGet(h RawHandle, channel int) (Idle, error)
	DigitalOutDividerInfo(h RawHandle, channel int) (min, max uint32, err error)
	DigitalOutDividerInitSet(h RawHandle, channel int, div uint32) error
	DigitalOutDividerInitGet(h RawHandle, channel int) (uint32, error)
	DigitalOutDividerSet(h RawHandle, channel int, div uint32) error
	DigitalOutDividerGet(h RawHandle, channel int) (uint32, error)
	DigitalOutCounterInfo(h RawHandle, channel int) (min, max uint32, err error)
	DigitalOutCounterInitSet(h RawHandle, channel int, high bool, count uint32) error
	DigitalOutCounterInitGet(h RawHandle, channel int) (high bool, count uint32, err error)
	DigitalOutCounterSet(h RawHandle, channel int, low, high uint32) error
	DigitalOutCounterGet(h RawHandle, channel int) (low, high uint32, err error)
	DigitalOutDataInfo(h RawHandle, channel int) (uint32, error)
	DigitalOutDataSet(h RawHandle, channel int, bits []byte, count uint32) error
	DigitalOutPlayRateSet(h RawHandle, hz float64) error
	DigitalOutPlayDataSet(h RawHandle, data []byte, bitsPerSample, count uint32) error
}

type UARTDriver interface {
	DigitalUARTReset(h RawHandle) error
	DigitalUARTRateSet(h RawHandle, baud float64) error
	DigitalUARTBitsSet(h RawHandle, bits int) error
	DigitalUARTParitySet(h RawHandle, parity int) error
	DigitalUARTStopSet(h RawHandle, stop float64) error
	DigitalUARTTxSet(h RawHandle, pin int) error
	DigitalUARTRxSet(h RawHandle, pin int) error
	DigitalUARTTx(h RawHandle, data []byte) error
	// DigitalUARTRx reads into buf and returns the byte count and the SDK's
	// parity indicator (0 none, <0 buffer overflow, >0 parity error index).
	DigitalUARTRx(h RawHandle, buf []byte) (n int, parity int, err error)
}
