//go:build dwf

package dwf

/*
#cgo linux LDFLAGS: -ldwf
#cgo darwin CFLAGS: -F/Library/Frameworks
#cgo darwin LDFLAGS: -F/Library/Frameworks -framework dwf
#cgo windows LDFLAGS: -ldwf

#ifdef __APPLE__
#include <dwf/dwf.h>
#else
#include <digilent/waveforms/dwf.h>
#endif
*/
import "C"

import (
	"sync"
	"unsafe"
)

// The SDK keeps its last error in process-global state, so a call and the
// error lookup that follows it must not interleave with other calls.
var nativeMu sync.Mutex

type nativeDriver struct{}

// NewNativeDriver returns a Driver backed by libdwf.
func NewNativeDriver() (Driver, error) {
	return nativeDriver{}, nil
}

func lastError() error {
	var code C.DWFERC
	C.FDwfGetLastError(&code)
	var msg [512]C.char
	C.FDwfGetLastErrorMsg(&msg[0])
	if e := ErrorFromSDK(int(code), C.GoString(&msg[0])); e != nil {
		return e
	}
	return &Error{Code: CodeUnknown, Reason: "call failed without an error code"}
}

func ncall(fn func() C.BOOL) error {
	nativeMu.Lock()
	defer nativeMu.Unlock()
	if fn() != 0 {
		return nil
	}
	return lastError()
}

func cbool(b bool) C.BOOL {
	if b {
		return 1
	}
	return 0
}

func (nativeDriver) Version() (string, error) {
	var buf [32]C.char
	err := ncall(func() C.BOOL { return C.FDwfGetVersion(&buf[0]) })
	return C.GoString(&buf[0]), err
}

// Enumeration

func (nativeDriver) Enum(filter EnumFilter) (int, error) {
	var n C.int
	err := ncall(func() C.BOOL { return C.FDwfEnum(C.ENUMFILTER(filter), &n) })
	return int(n), err
}

func (nativeDriver) EnumDeviceType(device int) (DeviceType, int, error) {
	var id C.DEVID
	var rev C.DEVVER
	err := ncall(func() C.BOOL { return C.FDwfEnumDeviceType(C.int(device), &id, &rev) })
	return DeviceType(id), int(rev), err
}

func (nativeDriver) EnumDeviceIsOpened(device int) (bool, error) {
	var used C.BOOL
	err := ncall(func() C.BOOL { return C.FDwfEnumDeviceIsOpened(C.int(device), &used) })
	return used != 0, err
}

func enumString(device int, fn func(C.int, *C.char) C.BOOL) (string, error) {
	var buf [32]C.char
	err := ncall(func() C.BOOL { return fn(C.int(device), &buf[0]) })
	return C.GoString(&buf[0]), err
}

func (nativeDriver) EnumUserName(device int) (string, error) {
	return enumString(device, func(i C.int, s *C.char) C.BOOL { return C.FDwfEnumUserName(i, s) })
}

func (nativeDriver) EnumDeviceName(device int) (string, error) {
	return enumString(device, func(i C.int, s *C.char) C.BOOL { return C.FDwfEnumDeviceName(i, s) })
}

func (nativeDriver) EnumSN(device int) (string, error) {
	return enumString(device, func(i C.int, s *C.char) C.BOOL { return C.FDwfEnumSN(i, s) })
}

func (nativeDriver) EnumConfig(device int) (int, error) {
	var n C.int
	err := ncall(func() C.BOOL { return C.FDwfEnumConfig(C.int(device), &n) })
	return int(n), err
}

func (nativeDriver) EnumConfigInfo(config int, info ConfigInfo) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfEnumConfigInfo(C.int(config), C.DwfEnumConfigInfo(info), &v) })
	return int(v), err
}

// Device

func (nativeDriver) DeviceOpen(device int) (RawHandle, error) {
	var h C.HDWF
	err := ncall(func() C.BOOL { return C.FDwfDeviceOpen(C.int(device), &h) })
	return RawHandle(h), err
}

func (nativeDriver) DeviceConfigOpen(device, config int) (RawHandle, error) {
	var h C.HDWF
	err := ncall(func() C.BOOL { return C.FDwfDeviceConfigOpen(C.int(device), C.int(config), &h) })
	return RawHandle(h), err
}

func (nativeDriver) DeviceClose(h RawHandle) error {
	return ncall(func() C.BOOL { return C.FDwfDeviceClose(C.HDWF(h)) })
}

func (nativeDriver) DeviceTriggerInfo(h RawHandle) (uint32, error) {
	var mask C.int
	err := ncall(func() C.BOOL { return C.FDwfDeviceTriggerInfo(C.HDWF(h), &mask) })
	return uint32(mask), err
}

func (nativeDriver) DeviceTriggerSet(h RawHandle, pin int, src TriggerSource) error {
	return ncall(func() C.BOOL { return C.FDwfDeviceTriggerSet(C.HDWF(h), C.int(pin), C.TRIGSRC(src)) })
}

func (nativeDriver) DeviceTriggerGet(h RawHandle, pin int) (TriggerSource, error) {
	var src C.TRIGSRC
	err := ncall(func() C.BOOL { return C.FDwfDeviceTriggerGet(C.HDWF(h), C.int(pin), &src) })
	return TriggerSource(src), err
}

func (nativeDriver) DeviceTriggerPC(h RawHandle) error {
	return ncall(func() C.BOOL { return C.FDwfDeviceTriggerPC(C.HDWF(h)) })
}

func (nativeDriver) DeviceParamSet(h RawHandle, p Param, v int) error {
	return ncall(func() C.BOOL { return C.FDwfDeviceParamSet(C.HDWF(h), C.DwfParam(p), C.int(v)) })
}

func (nativeDriver) DeviceParamGet(h RawHandle, p Param) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDeviceParamGet(C.HDWF(h), C.DwfParam(p), &v) })
	return int(v), err
}

// Analog in

func (nativeDriver) AnalogInReset(h RawHandle) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInReset(C.HDWF(h)) })
}

func (nativeDriver) AnalogInConfigure(h RawHandle, reconfigure, start bool) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInConfigure(C.HDWF(h), cbool(reconfigure), cbool(start)) })
}

func (nativeDriver) AnalogInStatus(h RawHandle, readData bool) (InstrumentState, error) {
	var st C.DwfState
	err := ncall(func() C.BOOL { return C.FDwfAnalogInStatus(C.HDWF(h), cbool(readData), &st) })
	return InstrumentState(st), err
}

func (nativeDriver) AnalogInStatusSamplesValid(h RawHandle) (int, error) {
	var n C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInStatusSamplesValid(C.HDWF(h), &n) })
	return int(n), err
}

func (nativeDriver) AnalogInStatusData(h RawHandle, channel int, buf []float64) error {
	if len(buf) == 0 {
		return nil
	}
	return ncall(func() C.BOOL {
		return C.FDwfAnalogInStatusData(C.HDWF(h), C.int(channel), (*C.double)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
	})
}

func (nativeDriver) AnalogInStatusRecord(h RawHandle) (int, int, int, error) {
	var avail, lost, corrupt C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInStatusRecord(C.HDWF(h), &avail, &lost, &corrupt) })
	return int(avail), int(lost), int(corrupt), err
}

func (nativeDriver) AnalogInFrequencyInfo(h RawHandle) (float64, float64, error) {
	var lo, hi C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInFrequencyInfo(C.HDWF(h), &lo, &hi) })
	return float64(lo), float64(hi), err
}

func (nativeDriver) AnalogInFrequencySet(h RawHandle, hz float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInFrequencySet(C.HDWF(h), C.double(hz)) })
}

func (nativeDriver) AnalogInFrequencyGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInFrequencyGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInBitsInfo(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInBitsInfo(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) AnalogInBufferSizeInfo(h RawHandle) (int, int, error) {
	var lo, hi C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInBufferSizeInfo(C.HDWF(h), &lo, &hi) })
	return int(lo), int(hi), err
}

func (nativeDriver) AnalogInBufferSizeSet(h RawHandle, size int) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInBufferSizeSet(C.HDWF(h), C.int(size)) })
}

func (nativeDriver) AnalogInBufferSizeGet(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInBufferSizeGet(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) AnalogInAcquisitionModeInfo(h RawHandle) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInAcquisitionModeInfo(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) AnalogInAcquisitionModeSet(h RawHandle, mode AcquisitionMode) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInAcquisitionModeSet(C.HDWF(h), C.ACQMODE(mode)) })
}

func (nativeDriver) AnalogInAcquisitionModeGet(h RawHandle) (AcquisitionMode, error) {
	var v C.ACQMODE
	err := ncall(func() C.BOOL { return C.FDwfAnalogInAcquisitionModeGet(C.HDWF(h), &v) })
	return AcquisitionMode(v), err
}

func (nativeDriver) AnalogInRecordLengthSet(h RawHandle, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInRecordLengthSet(C.HDWF(h), C.double(seconds)) })
}

func (nativeDriver) AnalogInRecordLengthGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInRecordLengthGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInChannelCount(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelCount(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) AnalogInChannelEnableSet(h RawHandle, channel int, enable bool) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInChannelEnableSet(C.HDWF(h), C.int(channel), cbool(enable)) })
}

func (nativeDriver) AnalogInChannelEnableGet(h RawHandle, channel int) (bool, error) {
	var v C.BOOL
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelEnableGet(C.HDWF(h), C.int(channel), &v) })
	return v != 0, err
}

func (nativeDriver) AnalogInChannelFilterInfo(h RawHandle) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelFilterInfo(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) AnalogInChannelFilterSet(h RawHandle, channel int, f Filter) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInChannelFilterSet(C.HDWF(h), C.int(channel), C.FILTER(f)) })
}

func (nativeDriver) AnalogInChannelFilterGet(h RawHandle, channel int) (Filter, error) {
	var v C.FILTER
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelFilterGet(C.HDWF(h), C.int(channel), &v) })
	return Filter(v), err
}

func (nativeDriver) AnalogInChannelRangeSteps(h RawHandle) ([]float64, error) {
	var steps [32]C.double
	var n C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelRangeSteps(C.HDWF(h), &steps[0], &n) })
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, int(n))
	for i := 0; i < int(n) && i < len(steps); i++ {
		out = append(out, float64(steps[i]))
	}
	return out, nil
}

func (nativeDriver) AnalogInChannelRangeSet(h RawHandle, channel int, volts float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInChannelRangeSet(C.HDWF(h), C.int(channel), C.double(volts)) })
}

func (nativeDriver) AnalogInChannelRangeGet(h RawHandle, channel int) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelRangeGet(C.HDWF(h), C.int(channel), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInChannelOffsetSet(h RawHandle, channel int, volts float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInChannelOffsetSet(C.HDWF(h), C.int(channel), C.double(volts)) })
}

func (nativeDriver) AnalogInChannelOffsetGet(h RawHandle, channel int) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelOffsetGet(C.HDWF(h), C.int(channel), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInChannelAttenuationSet(h RawHandle, channel int, attenuation float64) error {
	return ncall(func() C.BOOL {
		return C.FDwfAnalogInChannelAttenuationSet(C.HDWF(h), C.int(channel), C.double(attenuation))
	})
}

func (nativeDriver) AnalogInChannelAttenuationGet(h RawHandle, channel int) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInChannelAttenuationGet(C.HDWF(h), C.int(channel), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInTriggerSourceSet(h RawHandle, src TriggerSource) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerSourceSet(C.HDWF(h), C.TRIGSRC(src)) })
}

func (nativeDriver) AnalogInTriggerSourceGet(h RawHandle) (TriggerSource, error) {
	var v C.TRIGSRC
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerSourceGet(C.HDWF(h), &v) })
	return TriggerSource(v), err
}

func (nativeDriver) AnalogInTriggerPositionSet(h RawHandle, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerPositionSet(C.HDWF(h), C.double(seconds)) })
}

func (nativeDriver) AnalogInTriggerPositionGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerPositionGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInTriggerAutoTimeoutSet(h RawHandle, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerAutoTimeoutSet(C.HDWF(h), C.double(seconds)) })
}

func (nativeDriver) AnalogInTriggerAutoTimeoutGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerAutoTimeoutGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInTriggerTypeSet(h RawHandle, t TriggerType) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerTypeSet(C.HDWF(h), C.TRIGTYPE(t)) })
}

func (nativeDriver) AnalogInTriggerTypeGet(h RawHandle) (TriggerType, error) {
	var v C.TRIGTYPE
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerTypeGet(C.HDWF(h), &v) })
	return TriggerType(v), err
}

func (nativeDriver) AnalogInTriggerChannelSet(h RawHandle, channel int) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerChannelSet(C.HDWF(h), C.int(channel)) })
}

func (nativeDriver) AnalogInTriggerChannelGet(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerChannelGet(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) AnalogInTriggerLevelSet(h RawHandle, volts float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerLevelSet(C.HDWF(h), C.double(volts)) })
}

func (nativeDriver) AnalogInTriggerLevelGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerLevelGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInTriggerConditionSet(h RawHandle, slope TriggerSlope) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerConditionSet(C.HDWF(h), C.DwfTriggerSlope(slope)) })
}

func (nativeDriver) AnalogInTriggerConditionGet(h RawHandle) (TriggerSlope, error) {
	var v C.DwfTriggerSlope
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerConditionGet(C.HDWF(h), &v) })
	return TriggerSlope(v), err
}

func (nativeDriver) AnalogInTriggerLengthSet(h RawHandle, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerLengthSet(C.HDWF(h), C.double(seconds)) })
}

func (nativeDriver) AnalogInTriggerLengthGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerLengthGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogInTriggerLengthConditionSet(h RawHandle, cond TriggerLength) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogInTriggerLengthConditionSet(C.HDWF(h), C.TRIGLEN(cond)) })
}

func (nativeDriver) AnalogInTriggerLengthConditionGet(h RawHandle) (TriggerLength, error) {
	var v C.TRIGLEN
	err := ncall(func() C.BOOL { return C.FDwfAnalogInTriggerLengthConditionGet(C.HDWF(h), &v) })
	return TriggerLength(v), err
}

// Analog out

func (nativeDriver) AnalogOutCount(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogOutCount(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) AnalogOutReset(h RawHandle, channel int) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogOutReset(C.HDWF(h), C.int(channel)) })
}

func (nativeDriver) AnalogOutConfigure(h RawHandle, channel int, start bool) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogOutConfigure(C.HDWF(h), C.int(channel), cbool(start)) })
}

func (nativeDriver) AnalogOutStatus(h RawHandle, channel int) (InstrumentState, error) {
	var v C.DwfState
	err := ncall(func() C.BOOL { return C.FDwfAnalogOutStatus(C.HDWF(h), C.int(channel), &v) })
	return InstrumentState(v), err
}

func (nativeDriver) AnalogOutNodeEnableSet(h RawHandle, channel int, node AnalogOutNode, enable bool) error {
	return ncall(func() C.BOOL {
		return C.FDwfAnalogOutNodeEnableSet(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), cbool(enable))
	})
}

func (nativeDriver) AnalogOutNodeEnableGet(h RawHandle, channel int, node AnalogOutNode) (bool, error) {
	var v C.BOOL
	err := ncall(func() C.BOOL {
		return C.FDwfAnalogOutNodeEnableGet(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), &v)
	})
	return v != 0, err
}

func (nativeDriver) AnalogOutNodeFunctionSet(h RawHandle, channel int, node AnalogOutNode, fn Function) error {
	return ncall(func() C.BOOL {
		return C.FDwfAnalogOutNodeFunctionSet(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), C.FUNC(fn))
	})
}

func (nativeDriver) AnalogOutNodeFunctionGet(h RawHandle, channel int, node AnalogOutNode) (Function, error) {
	var v C.FUNC
	err := ncall(func() C.BOOL {
		return C.FDwfAnalogOutNodeFunctionGet(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), &v)
	})
	return Function(v), err
}

// nodeFloat covers the Node*Set/Get pairs that carry a single double.
type nodeFloatSetter func(C.HDWF, C.int, C.AnalogOutNode, C.double) C.BOOL
type nodeFloatGetter func(C.HDWF, C.int, C.AnalogOutNode, *C.double) C.BOOL

func setNodeFloat(fn nodeFloatSetter, h RawHandle, channel int, node AnalogOutNode, v float64) error {
	return ncall(func() C.BOOL { return fn(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), C.double(v)) })
}

func getNodeFloat(fn nodeFloatGetter, h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return fn(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogOutNodeFrequencySet(h RawHandle, channel int, node AnalogOutNode, hz float64) error {
	return setNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d C.double) C.BOOL {
		return C.FDwfAnalogOutNodeFrequencySet(a, b, c, d)
	}, h, channel, node, hz)
}

func (nativeDriver) AnalogOutNodeFrequencyGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return getNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d *C.double) C.BOOL {
		return C.FDwfAnalogOutNodeFrequencyGet(a, b, c, d)
	}, h, channel, node)
}

func (nativeDriver) AnalogOutNodeAmplitudeSet(h RawHandle, channel int, node AnalogOutNode, v float64) error {
	return setNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d C.double) C.BOOL {
		return C.FDwfAnalogOutNodeAmplitudeSet(a, b, c, d)
	}, h, channel, node, v)
}

func (nativeDriver) AnalogOutNodeAmplitudeGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return getNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d *C.double) C.BOOL {
		return C.FDwfAnalogOutNodeAmplitudeGet(a, b, c, d)
	}, h, channel, node)
}

func (nativeDriver) AnalogOutNodeOffsetSet(h RawHandle, channel int, node AnalogOutNode, v float64) error {
	return setNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d C.double) C.BOOL {
		return C.FDwfAnalogOutNodeOffsetSet(a, b, c, d)
	}, h, channel, node, v)
}

func (nativeDriver) AnalogOutNodeOffsetGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return getNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d *C.double) C.BOOL {
		return C.FDwfAnalogOutNodeOffsetGet(a, b, c, d)
	}, h, channel, node)
}

func (nativeDriver) AnalogOutNodeSymmetrySet(h RawHandle, channel int, node AnalogOutNode, percent float64) error {
	return setNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d C.double) C.BOOL {
		return C.FDwfAnalogOutNodeSymmetrySet(a, b, c, d)
	}, h, channel, node, percent)
}

func (nativeDriver) AnalogOutNodeSymmetryGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return getNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d *C.double) C.BOOL {
		return C.FDwfAnalogOutNodeSymmetryGet(a, b, c, d)
	}, h, channel, node)
}

func (nativeDriver) AnalogOutNodePhaseSet(h RawHandle, channel int, node AnalogOutNode, degrees float64) error {
	return setNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d C.double) C.BOOL {
		return C.FDwfAnalogOutNodePhaseSet(a, b, c, d)
	}, h, channel, node, degrees)
}

func (nativeDriver) AnalogOutNodePhaseGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return getNodeFloat(func(a C.HDWF, b C.int, c C.AnalogOutNode, d *C.double) C.BOOL {
		return C.FDwfAnalogOutNodePhaseGet(a, b, c, d)
	}, h, channel, node)
}

func (nativeDriver) AnalogOutNodeDataInfo(h RawHandle, channel int, node AnalogOutNode) (int, int, error) {
	var lo, hi C.int
	err := ncall(func() C.BOOL {
		return C.FDwfAnalogOutNodeDataInfo(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), &lo, &hi)
	})
	return int(lo), int(hi), err
}

func (nativeDriver) AnalogOutNodeDataSet(h RawHandle, channel int, node AnalogOutNode, data []float64) error {
	var ptr *C.double
	if len(data) > 0 {
		ptr = (*C.double)(unsafe.Pointer(&data[0]))
	}
	return ncall(func() C.BOOL {
		return C.FDwfAnalogOutNodeDataSet(C.HDWF(h), C.int(channel), C.AnalogOutNode(node), ptr, C.int(len(data)))
	})
}

func (nativeDriver) AnalogOutRunSet(h RawHandle, channel int, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogOutRunSet(C.HDWF(h), C.int(channel), C.double(seconds)) })
}

func (nativeDriver) AnalogOutRunGet(h RawHandle, channel int) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogOutRunGet(C.HDWF(h), C.int(channel), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogOutWaitSet(h RawHandle, channel int, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogOutWaitSet(C.HDWF(h), C.int(channel), C.double(seconds)) })
}

func (nativeDriver) AnalogOutWaitGet(h RawHandle, channel int) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfAnalogOutWaitGet(C.HDWF(h), C.int(channel), &v) })
	return float64(v), err
}

func (nativeDriver) AnalogOutRepeatSet(h RawHandle, channel int, repeat int) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogOutRepeatSet(C.HDWF(h), C.int(channel), C.int(repeat)) })
}

func (nativeDriver) AnalogOutRepeatGet(h RawHandle, channel int) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfAnalogOutRepeatGet(C.HDWF(h), C.int(channel), &v) })
	return int(v), err
}

func (nativeDriver) AnalogOutTriggerSourceSet(h RawHandle, channel int, src TriggerSource) error {
	return ncall(func() C.BOOL { return C.FDwfAnalogOutTriggerSourceSet(C.HDWF(h), C.int(channel), C.TRIGSRC(src)) })
}

func (nativeDriver) AnalogOutTriggerSourceGet(h RawHandle, channel int) (TriggerSource, error) {
	var v C.TRIGSRC
	err := ncall(func() C.BOOL { return C.FDwfAnalogOutTriggerSourceGet(C.HDWF(h), C.int(channel), &v) })
	return TriggerSource(v), err
}

// Digital in

func (nativeDriver) DigitalInReset(h RawHandle) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInReset(C.HDWF(h)) })
}

func (nativeDriver) DigitalInConfigure(h RawHandle, reconfigure, start bool) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInConfigure(C.HDWF(h), cbool(reconfigure), cbool(start)) })
}

func (nativeDriver) DigitalInStatus(h RawHandle, readData bool) (InstrumentState, error) {
	var v C.DwfState
	err := ncall(func() C.BOOL { return C.FDwfDigitalInStatus(C.HDWF(h), cbool(readData), &v) })
	return InstrumentState(v), err
}

func (nativeDriver) DigitalInStatusSamplesValid(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalInStatusSamplesValid(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) DigitalInStatusData(h RawHandle, buf []uint32) error {
	if len(buf) == 0 {
		return nil
	}
	return ncall(func() C.BOOL {
		return C.FDwfDigitalInStatusData(C.HDWF(h), unsafe.Pointer(&buf[0]), C.int(len(buf)*4))
	})
}

func (nativeDriver) DigitalInInternalClockInfo(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfDigitalInInternalClockInfo(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) DigitalInClockSourceSet(h RawHandle, src ClockSource) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInClockSourceSet(C.HDWF(h), C.DwfDigitalInClockSource(src)) })
}

func (nativeDriver) DigitalInClockSourceGet(h RawHandle) (ClockSource, error) {
	var v C.DwfDigitalInClockSource
	err := ncall(func() C.BOOL { return C.FDwfDigitalInClockSourceGet(C.HDWF(h), &v) })
	return ClockSource(v), err
}

func (nativeDriver) DigitalInDividerInfo(h RawHandle) (uint32, error) {
	var v C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalInDividerInfo(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalInDividerSet(h RawHandle, div uint32) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInDividerSet(C.HDWF(h), C.uint(div)) })
}

func (nativeDriver) DigitalInDividerGet(h RawHandle) (uint32, error) {
	var v C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalInDividerGet(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalInBitsInfo(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalInBitsInfo(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) DigitalInBufferSizeInfo(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalInBufferSizeInfo(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) DigitalInBufferSizeSet(h RawHandle, size int) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInBufferSizeSet(C.HDWF(h), C.int(size)) })
}

func (nativeDriver) DigitalInBufferSizeGet(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalInBufferSizeGet(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) DigitalInSampleModeInfo(h RawHandle) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalInSampleModeInfo(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalInSampleModeSet(h RawHandle, mode SampleMode) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInSampleModeSet(C.HDWF(h), C.DwfDigitalInSampleMode(mode)) })
}

func (nativeDriver) DigitalInSampleModeGet(h RawHandle) (SampleMode, error) {
	var v C.DwfDigitalInSampleMode
	err := ncall(func() C.BOOL { return C.FDwfDigitalInSampleModeGet(C.HDWF(h), &v) })
	return SampleMode(v), err
}

func (nativeDriver) DigitalInAcquisitionModeInfo(h RawHandle) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalInAcquisitionModeInfo(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalInAcquisitionModeSet(h RawHandle, mode AcquisitionMode) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInAcquisitionModeSet(C.HDWF(h), C.ACQMODE(mode)) })
}

func (nativeDriver) DigitalInAcquisitionModeGet(h RawHandle) (AcquisitionMode, error) {
	var v C.ACQMODE
	err := ncall(func() C.BOOL { return C.FDwfDigitalInAcquisitionModeGet(C.HDWF(h), &v) })
	return AcquisitionMode(v), err
}

func (nativeDriver) DigitalInTriggerSourceSet(h RawHandle, src TriggerSource) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalInTriggerSourceSet(C.HDWF(h), C.TRIGSRC(src)) })
}

func (nativeDriver) DigitalInTriggerSourceGet(h RawHandle) (TriggerSource, error) {
	var v C.TRIGSRC
	err := ncall(func() C.BOOL { return C.FDwfDigitalInTriggerSourceGet(C.HDWF(h), &v) })
	return TriggerSource(v), err
}

// Digital out

func (nativeDriver) DigitalOutReset(h RawHandle) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutReset(C.HDWF(h)) })
}

func (nativeDriver) DigitalOutConfigure(h RawHandle, start bool) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutConfigure(C.HDWF(h), cbool(start)) })
}

func (nativeDriver) DigitalOutStatus(h RawHandle) (InstrumentState, error) {
	var v C.DwfState
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutStatus(C.HDWF(h), &v) })
	return InstrumentState(v), err
}

func (nativeDriver) DigitalOutInternalClockInfo(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutInternalClockInfo(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) DigitalOutTriggerSourceSet(h RawHandle, src TriggerSource) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutTriggerSourceSet(C.HDWF(h), C.TRIGSRC(src)) })
}

func (nativeDriver) DigitalOutTriggerSourceGet(h RawHandle) (TriggerSource, error) {
	var v C.TRIGSRC
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutTriggerSourceGet(C.HDWF(h), &v) })
	return TriggerSource(v), err
}

func (nativeDriver) DigitalOutRunInfo(h RawHandle) (float64, float64, error) {
	var lo, hi C.double
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutRunInfo(C.HDWF(h), &lo, &hi) })
	return float64(lo), float64(hi), err
}

func (nativeDriver) DigitalOutRunSet(h RawHandle, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutRunSet(C.HDWF(h), C.double(seconds)) })
}

func (nativeDriver) DigitalOutRunGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutRunGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) DigitalOutWaitInfo(h RawHandle) (float64, float64, error) {
	var lo, hi C.double
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutWaitInfo(C.HDWF(h), &lo, &hi) })
	return float64(lo), float64(hi), err
}

func (nativeDriver) DigitalOutWaitSet(h RawHandle, seconds float64) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutWaitSet(C.HDWF(h), C.double(seconds)) })
}

func (nativeDriver) DigitalOutWaitGet(h RawHandle) (float64, error) {
	var v C.double
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutWaitGet(C.HDWF(h), &v) })
	return float64(v), err
}

func (nativeDriver) DigitalOutRepeatInfo(h RawHandle) (uint32, uint32, error) {
	var lo, hi C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutRepeatInfo(C.HDWF(h), &lo, &hi) })
	return uint32(lo), uint32(hi), err
}

func (nativeDriver) DigitalOutRepeatSet(h RawHandle, repeat uint32) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutRepeatSet(C.HDWF(h), C.uint(repeat)) })
}

func (nativeDriver) DigitalOutRepeatGet(h RawHandle) (uint32, error) {
	var v C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutRepeatGet(C.HDWF(h), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutCount(h RawHandle) (int, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutCount(C.HDWF(h), &v) })
	return int(v), err
}

func (nativeDriver) DigitalOutEnableSet(h RawHandle, channel int, enable bool) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutEnableSet(C.HDWF(h), C.int(channel), cbool(enable)) })
}

func (nativeDriver) DigitalOutEnableGet(h RawHandle, channel int) (bool, error) {
	var v C.BOOL
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutEnableGet(C.HDWF(h), C.int(channel), &v) })
	return v != 0, err
}

func (nativeDriver) DigitalOutOutputInfo(h RawHandle, channel int) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutOutputInfo(C.HDWF(h), C.int(channel), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutOutputSet(h RawHandle, channel int, mode OutputMode) error {
	return ncall(func() C.BOOL {
		return C.FDwfDigitalOutOutputSet(C.HDWF(h), C.int(channel), C.DwfDigitalOutOutput(mode))
	})
}

func (nativeDriver) DigitalOutOutputGet(h RawHandle, channel int) (OutputMode, error) {
	var v C.DwfDigitalOutOutput
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutOutputGet(C.HDWF(h), C.int(channel), &v) })
	return OutputMode(v), err
}

func (nativeDriver) DigitalOutTypeInfo(h RawHandle, channel int) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutTypeInfo(C.HDWF(h), C.int(channel), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutTypeSet(h RawHandle, channel int, t OutputType) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutTypeSet(C.HDWF(h), C.int(channel), C.DwfDigitalOutType(t)) })
}

func (nativeDriver) DigitalOutTypeGet(h RawHandle, channel int) (OutputType, error) {
	var v C.DwfDigitalOutType
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutTypeGet(C.HDWF(h), C.int(channel), &v) })
	return OutputType(v), err
}

func (nativeDriver) DigitalOutIdleInfo(h RawHandle, channel int) (uint32, error) {
	var v C.int
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutIdleInfo(C.HDWF(h), C.int(channel), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutIdleSet(h RawHandle, channel int, idle Idle) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutIdleSet(C.HDWF(h), C.int(channel), C.DwfDigitalOutIdle(idle)) })
}

func (nativeDriver) DigitalOutIdleGet(h RawHandle, channel int) (Idle, error) {
	var v C.DwfDigitalOutIdle
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutIdleGet(C.HDWF(h), C.int(channel), &v) })
	return Idle(v), err
}

func (nativeDriver) DigitalOutDividerInfo(h RawHandle, channel int) (uint32, uint32, error) {
	var lo, hi C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutDividerInfo(C.HDWF(h), C.int(channel), &lo, &hi) })
	return uint32(lo), uint32(hi), err
}

func (nativeDriver) DigitalOutDividerInitSet(h RawHandle, channel int, div uint32) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutDividerInitSet(C.HDWF(h), C.int(channel), C.uint(div)) })
}

func (nativeDriver) DigitalOutDividerInitGet(h RawHandle, channel int) (uint32, error) {
	var v C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutDividerInitGet(C.HDWF(h), C.int(channel), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutDividerSet(h RawHandle, channel int, div uint32) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutDividerSet(C.HDWF(h), C.int(channel), C.uint(div)) })
}

func (nativeDriver) DigitalOutDividerGet(h RawHandle, channel int) (uint32, error) {
	var v C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutDividerGet(C.HDWF(h), C.int(channel), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutCounterInfo(h RawHandle, channel int) (uint32, uint32, error) {
	var lo, hi C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutCounterInfo(C.HDWF(h), C.int(channel), &lo, &hi) })
	return uint32(lo), uint32(hi), err
}

func (nativeDriver) DigitalOutCounterInitSet(h RawHandle, channel int, high bool, count uint32) error {
	return ncall(func() C.BOOL {
		return C.FDwfDigitalOutCounterInitSet(C.HDWF(h), C.int(channel), cbool(high), C.uint(count))
	})
}

func (nativeDriver) DigitalOutCounterInitGet(h RawHandle, channel int) (bool, uint32, error) {
	var high C.BOOL
	var count C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutCounterInitGet(C.HDWF(h), C.int(channel), &high, &count) })
	return high != 0, uint32(count), err
}

func (nativeDriver) DigitalOutCounterSet(h RawHandle, channel int, low, high uint32) error {
	return ncall(func() C.BOOL {
		return C.FDwfDigitalOutCounterSet(C.HDWF(h), C.int(channel), C.uint(low), C.uint(high))
	})
}

func (nativeDriver) DigitalOutCounterGet(h RawHandle, channel int) (uint32, uint32, error) {
	var low, high C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutCounterGet(C.HDWF(h), C.int(channel), &low, &high) })
	return uint32(low), uint32(high), err
}

func (nativeDriver) DigitalOutDataInfo(h RawHandle, channel int) (uint32, error) {
	var v C.uint
	err := ncall(func() C.BOOL { return C.FDwfDigitalOutDataInfo(C.HDWF(h), C.int(channel), &v) })
	return uint32(v), err
}

func (nativeDriver) DigitalOutDataSet(h RawHandle, channel int, bits []byte, count uint32) error {
	var ptr unsafe.Pointer
	if len(bits) > 0 {
		ptr = unsafe.Pointer(&bits[0])
	}
	return ncall(func() C.BOOL { return C.FDwfDigitalOutDataSet(C.HDWF(h), C.int(channel), ptr, C.uint(count)) })
}

func (nativeDriver) DigitalOutPlayRateSet(h RawHandle, hz float64) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalOutPlayRateSet(C.HDWF(h), C.double(hz)) })
}

func (nativeDriver) DigitalOutPlayDataSet(h RawHandle, data []byte, bitsPerSample, count uint32) error {
	var ptr *C.uchar
	if len(data) > 0 {
		ptr = (*C.uchar)(unsafe.Pointer(&data[0]))
	}
	return ncall(func() C.BOOL {
		return C.FDwfDigitalOutPlayDataSet(C.HDWF(h), ptr, C.uint(bitsPerSample), C.uint(count))
	})
}

// UART

func (nativeDriver) DigitalUARTReset(h RawHandle) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartReset(C.HDWF(h)) })
}

func (nativeDriver) DigitalUARTRateSet(h RawHandle, baud float64) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartRateSet(C.HDWF(h), C.double(baud)) })
}

func (nativeDriver) DigitalUARTBitsSet(h RawHandle, bits int) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartBitsSet(C.HDWF(h), C.int(bits)) })
}

func (nativeDriver) DigitalUARTParitySet(h RawHandle, parity int) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartParitySet(C.HDWF(h), C.int(parity)) })
}

func (nativeDriver) DigitalUARTStopSet(h RawHandle, stop float64) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartStopSet(C.HDWF(h), C.double(stop)) })
}

func (nativeDriver) DigitalUARTTxSet(h RawHandle, pin int) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartTxSet(C.HDWF(h), C.int(pin)) })
}

func (nativeDriver) DigitalUARTRxSet(h RawHandle, pin int) error {
	return ncall(func() C.BOOL { return C.FDwfDigitalUartRxSet(C.HDWF(h), C.int(pin)) })
}

func (nativeDriver) DigitalUARTTx(h RawHandle, data []byte) error {
	var ptr *C.char
	if len(data) > 0 {
		ptr = (*C.char)(unsafe.Pointer(&data[0]))
	}
	return ncall(func() C.BOOL { return C.FDwfDigitalUartTx(C.HDWF(h), ptr, C.int(len(data))) })
}

func (nativeDriver) DigitalUARTRx(h RawHandle, buf []byte) (int, int, error) {
	var ptr *C.char
	if len(buf) > 0 {
		ptr = (*C.char)(unsafe.Pointer(&buf[0]))
	}
	var n, parity C.int
	err := ncall(func() C.BOOL {
		return C.FDwfDigitalUartRx(C.HDWF(h), ptr, C.int(len(buf)), &n, &parity)
	})
	return int(n), int(parity), err
}
