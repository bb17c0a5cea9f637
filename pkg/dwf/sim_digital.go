package dwf

import "math"

type simLogic struct {
	clockSrc   ClockSource
	divider    uint32
	bufMax     int
	bufSize    int
	sampleMode SampleMode
	mode       AcquisitionMode
	trigSrc    TriggerSource

	state    InstrumentState
	pcPulsed bool
	data     []uint32
}

const simLogicMaxDivider = 0x3FFFFFFF

var (
	logicModes       = SupportOf(AcquisitionModeSingle, AcquisitionModeScanShift, AcquisitionModeScanScreen, AcquisitionModeRecord)
	logicSampleModes = SupportOf(SampleModeSimple, SampleModeNoise)
)

func (l *simLogic) reset(cfg Config) {
	bufMax := int(cfg.Digital.InputBufferSize)
	if bufMax <= 0 {
		bufMax = 4096
	}
	*l = simLogic{divider: 1, bufMax: bufMax, bufSize: bufMax}
}

// sampleLogic renders n DIO words. Each line reflects the pattern generator
// output on the same pin.
func (st *simState) sampleLogic(n int) []uint32 {
	l := &st.logic
	out := make([]uint32, n)
	// pattern clock ticks per logic sample
	step := float64(l.divider) * st.pattern.clock / st.dev.DigitalClock
	lines := min(st.dev.DIOCount, len(st.pattern.channels), 32)
	for i := range out {
		ticks := float64(i) * step
		var word uint32
		for ch := 0; ch < lines; ch++ {
			if st.pattern.level(ch, ticks) {
				word |= 1 << uint(ch)
			}
		}
		out[i] = word
	}
	return out
}

func (st *simState) logicStatus() InstrumentState {
	l := &st.logic
	switch l.state {
	case StateArmed:
		if triggered(l.trigSrc, l.pcPulsed) {
			l.state = StateRunning
		}
	case StateRunning:
		l.data = st.sampleLogic(l.bufSize)
		l.state = StateDone
	}
	return l.state
}

func (s *Simulator) DigitalInReset(h RawHandle) error {
	return s.with(h, func(st *simState) error {
		st.logic.reset(st.config)
		return nil
	})
}

func (s *Simulator) DigitalInConfigure(h RawHandle, reconfigure, start bool) error {
	return s.with(h, func(st *simState) error {
		l := &st.logic
		if !start {
			l.state = StateReady
			return nil
		}
		l.state = StateArmed
		l.pcPulsed = false
		l.data = nil
		return nil
	})
}

func (s *Simulator) DigitalInStatus(h RawHandle, readData bool) (InstrumentState, error) {
	return simGet(s, h, func(st *simState) (InstrumentState, error) { return st.logicStatus(), nil })
}

func (s *Simulator) DigitalInStatusSamplesValid(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) {
		if st.logic.state != StateDone {
			return 0, nil
		}
		return len(st.logic.data), nil
	})
}

func (s *Simulator) DigitalInStatusData(h RawHandle, buf []uint32) error {
	return s.with(h, func(st *simState) error {
		copy(buf, st.logic.data)
		return nil
	})
}

func (s *Simulator) DigitalInInternalClockInfo(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.dev.DigitalClock, nil })
}

func (s *Simulator) DigitalInClockSourceSet(h RawHandle, src ClockSource) error {
	return s.with(h, func(st *simState) error {
		if !src.Known() {
			return invalidParam(1, "unknown clock source %d", int(src))
		}
		st.logic.clockSrc = src
		return nil
	})
}

func (s *Simulator) DigitalInClockSourceGet(h RawHandle) (ClockSource, error) {
	return simGet(s, h, func(st *simState) (ClockSource, error) { return st.logic.clockSrc, nil })
}

func (s *Simulator) DigitalInDividerInfo(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return simLogicMaxDivider, nil })
}

func (s *Simulator) DigitalInDividerSet(h RawHandle, div uint32) error {
	return s.with(h, func(st *simState) error {
		st.logic.divider = min(max(div, 1), simLogicMaxDivider)
		return nil
	})
}

func (s *Simulator) DigitalInDividerGet(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return st.logic.divider, nil })
}

func (s *Simulator) DigitalInBitsInfo(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return st.dev.DIOCount, nil })
}

func (s *Simulator) DigitalInBufferSizeInfo(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return st.logic.bufMax, nil })
}

func (s *Simulator) DigitalInBufferSizeSet(h RawHandle, size int) error {
	return s.with(h, func(st *simState) error {
		st.logic.bufSize = clampInt(size, 1, st.logic.bufMax)
		return nil
	})
}

func (s *Simulator) DigitalInBufferSizeGet(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return st.logic.bufSize, nil })
}

func (s *Simulator) DigitalInSampleModeInfo(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return uint32(logicSampleModes), nil })
}

func (s *Simulator) DigitalInSampleModeSet(h RawHandle, mode SampleMode) error {
	return s.with(h, func(st *simState) error {
		if !logicSampleModes.Has(mode) {
			return invalidParam(1, "sample mode %s not supported", mode)
		}
		st.logic.sampleMode = mode
		return nil
	})
}

func (s *Simulator) DigitalInSampleModeGet(h RawHandle) (SampleMode, error) {
	return simGet(s, h, func(st *simState) (SampleMode, error) { return st.logic.sampleMode, nil })
}

func (s *Simulator) DigitalInAcquisitionModeInfo(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return uint32(logicModes), nil })
}

func (s *Simulator) DigitalInAcquisitionModeSet(h RawHandle, mode AcquisitionMode) error {
	return s.with(h, func(st *simState) error {
		if !logicModes.Has(mode) {
			return invalidParam(1, "acquisition mode %s not supported", mode)
		}
		st.logic.mode = mode
		return nil
	})
}

func (s *Simulator) DigitalInAcquisitionModeGet(h RawHandle) (AcquisitionMode, error) {
	return simGet(s, h, func(st *simState) (AcquisitionMode, error) { return st.logic.mode, nil })
}

func (s *Simulator) DigitalInTriggerSourceSet(h RawHandle, src TriggerSource) error {
	return s.with(h, func(st *simState) error {
		if !st.dev.TriggerSources.Has(src) {
			return invalidParam(1, "trigger source %s not supported", src)
		}
		st.logic.trigSrc = src
		return nil
	})
}

func (s *Simulator) DigitalInTriggerSourceGet(h RawHandle) (TriggerSource, error) {
	return simGet(s, h, func(st *simState) (TriggerSource, error) { return st.logic.trigSrc, nil })
}

// Pattern generator

const (
	simPatternMaxRun     = 42.9
	simPatternMaxDivider = 0x7FFFFFFF
	simPatternMaxCounter = 0x7FFF
)

var (
	patternOutputModes = SupportOf(OutputPushPull, OutputOpenDrain, OutputOpenSource, OutputThreeState)
	patternTypes       = SupportOf(OutputTypePulse, OutputTypeCustom, OutputTypeRandom, OutputTypeROM, OutputTypeState, OutputTypePlay)
	patternIdles       = SupportOf(IdleInit, IdleLow, IdleHigh, IdleTristate)
)

type simPatternChannel struct {
	enabled     bool
	output      OutputMode
	typ         OutputType
	idle        Idle
	dividerInit uint32
	divider     uint32
	initHigh    bool
	initCount   uint32
	low, high   uint32
	bits        []byte
	bitCount    uint32
}

type simPattern struct {
	channels []simPatternChannel
	clock    float64
	dataMax  uint32
	state    InstrumentState
	run      float64
	wait     float64
	repeat   uint32
	trigSrc  TriggerSource

	playRate  float64
	playData  []byte
	playBits  uint32
	playCount uint32
}

func (p *simPattern) reset(dev *SimDevice, cfg Config) {
	dataMax := cfg.Digital.OutputBufferSize
	if dataMax == 0 {
		dataMax = 1024
	}
	*p = simPattern{
		channels: make([]simPatternChannel, dev.DIOCount),
		clock:    dev.DigitalClock,
		dataMax:  dataMax,
	}
	for i := range p.channels {
		p.channels[i] = simPatternChannel{divider: 1}
	}
}

// level returns the output of channel ch after ticks internal clock ticks.
func (p *simPattern) level(ch int, ticks float64) bool {
	c := &p.channels[ch]
	if p.state != StateRunning || !c.enabled {
		switch c.idle {
		case IdleHigh:
			return true
		case IdleInit:
			return c.initHigh
		}
		return false
	}

	div := float64(max(c.divider, 1))
	tick := uint64(math.Floor(ticks/div + 1e-9))
	switch c.typ {
	case OutputTypePulse:
		period := uint64(c.low) + uint64(c.high)
		if period == 0 {
			return c.initHigh
		}
		pos := tick % period
		if c.initHigh {
			return pos < uint64(c.high)
		}
		return pos >= uint64(c.low)
	case OutputTypeCustom:
		if c.bitCount == 0 {
			return false
		}
		i := tick % uint64(c.bitCount)
		return c.bits[i/8]&(1<<(i%8)) != 0
	case OutputTypeRandom:
		x := (tick + uint64(ch)*0x9E3779B97F4A7C15) * 0xBF58476D1CE4E5B9
		return (x>>31)&1 == 1
	}
	return false
}

func (st *simState) patternChannel(ch int) (*simPatternChannel, error) {
	if ch < 0 || ch >= len(st.pattern.channels) {
		return nil, invalidParam(1, "digital out channel %d out of range", ch)
	}
	return &st.pattern.channels[ch], nil
}

func (s *Simulator) patternSet(h RawHandle, ch int, fn func(*simPatternChannel) error) error {
	return s.with(h, func(st *simState) error {
		c, err := st.patternChannel(ch)
		if err != nil {
			return err
		}
		return fn(c)
	})
}

func patternGet[T any](s *Simulator, h RawHandle, ch int, fn func(*simPatternChannel) T) (T, error) {
	return simGet(s, h, func(st *simState) (T, error) {
		c, err := st.patternChannel(ch)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(c), nil
	})
}

func (s *Simulator) DigitalOutReset(h RawHandle) error {
	return s.with(h, func(st *simState) error {
		st.pattern.reset(st.dev, st.config)
		return nil
	})
}

func (s *Simulator) DigitalOutConfigure(h RawHandle, start bool) error {
	return s.with(h, func(st *simState) error {
		if start {
			st.pattern.state = StateRunning
		} else {
			st.pattern.state = StateReady
		}
		return nil
	})
}

func (s *Simulator) DigitalOutStatus(h RawHandle) (InstrumentState, error) {
	return simGet(s, h, func(st *simState) (InstrumentState, error) { return st.pattern.state, nil })
}

func (s *Simulator) DigitalOutInternalClockInfo(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.pattern.clock, nil })
}

func (s *Simulator) DigitalOutTriggerSourceSet(h RawHandle, src TriggerSource) error {
	return s.with(h, func(st *simState) error {
		if !st.dev.TriggerSources.Has(src) {
			return invalidParam(1, "trigger source %s not supported", src)
		}
		st.pattern.trigSrc = src
		return nil
	})
}

func (s *Simulator) DigitalOutTriggerSourceGet(h RawHandle) (TriggerSource, error) {
	return simGet(s, h, func(st *simState) (TriggerSource, error) { return st.pattern.trigSrc, nil })
}

func (s *Simulator) DigitalOutRunInfo(h RawHandle) (float64, float64, error) {
	return simGet2(s, h, func(st *simState) (float64, float64, error) { return 0, simPatternMaxRun, nil })
}

func (s *Simulator) DigitalOutRunSet(h RawHandle, seconds float64) error {
	return s.with(h, func(st *simState) error { st.pattern.run = clamp(seconds, 0, simPatternMaxRun); return nil })
}

func (s *Simulator) DigitalOutRunGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.pattern.run, nil })
}

func (s *Simulator) DigitalOutWaitInfo(h RawHandle) (float64, float64, error) {
	return simGet2(s, h, func(st *simState) (float64, float64, error) { return 0, simPatternMaxRun, nil })
}

func (s *Simulator) DigitalOutWaitSet(h RawHandle, seconds float64) error {
	return s.with(h, func(st *simState) error { st.pattern.wait = clamp(seconds, 0, simPatternMaxRun); return nil })
}

func (s *Simulator) DigitalOutWaitGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.pattern.wait, nil })
}

func (s *Simulator) DigitalOutRepeatInfo(h RawHandle) (uint32, uint32, error) {
	return simGet2(s, h, func(st *simState) (uint32, uint32, error) { return 0, math.MaxUint32, nil })
}

func (s *Simulator) DigitalOutRepeatSet(h RawHandle, repeat uint32) error {
	return s.with(h, func(st *simState) error { st.pattern.repeat = repeat; return nil })
}

func (s *Simulator) DigitalOutRepeatGet(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return st.pattern.repeat, nil })
}

func (s *Simulator) DigitalOutCount(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return len(st.pattern.channels), nil })
}

func (s *Simulator) DigitalOutEnableSet(h RawHandle, ch int, enable bool) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error { c.enabled = enable; return nil })
}

func (s *Simulator) DigitalOutEnableGet(h RawHandle, ch int) (bool, error) {
	return patternGet(s, h, ch, func(c *simPatternChannel) bool { return c.enabled })
}

func (s *Simulator) DigitalOutOutputInfo(h RawHandle, ch int) (uint32, error) {
	return patternGet(s, h, ch, func(*simPatternChannel) uint32 { return uint32(patternOutputModes) })
}

func (s *Simulator) DigitalOutOutputSet(h RawHandle, ch int, mode OutputMode) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error {
		if !patternOutputModes.Has(mode) {
			return invalidParam(2, "output mode %s not supported", mode)
		}
		c.output = mode
		return nil
	})
}

func (s *Simulator) DigitalOutOutputGet(h RawHandle, ch int) (OutputMode, error) {
	return patternGet(s, h, ch, func(c *simPatternChannel) OutputMode { return c.output })
}

func (s *Simulator) DigitalOutTypeInfo(h RawHandle, ch int) (uint32, error) {
	return patternGet(s, h, ch, func(*simPatternChannel) uint32 { return uint32(patternTypes) })
}

func (s *Simulator) DigitalOutTypeSet(h RawHandle, ch int, t OutputType) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error {
		if !patternTypes.Has(t) {
			return invalidParam(2, "output type %s not supported", t)
		}
		c.typ = t
		return nil
	})
}

func (s *Simulator) DigitalOutTypeGet(h RawHandle, ch int) (OutputType, error) {
	return patternGet(s, h, ch, func(c *simPatternChannel) OutputType { return c.typ })
}

func (s *Simulator) DigitalOutIdleInfo(h RawHandle, ch int) (uint32, error) {
	return patternGet(s, h, ch, func(*simPatternChannel) uint32 { return uint32(patternIdles) })
}

func (s *Simulator) DigitalOutIdleSet(h RawHandle, ch int, idle Idle) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error {
		if !patternIdles.Has(idle) {
			return invalidParam(2, "idle %s not supported", idle)
		}
		c.idle = idle
		return nil
	})
}

func (s *Simulator) DigitalOutIdleGet(h RawHandle, ch int) (Idle, error) {
	return patternGet(s, h, ch, func(c *simPatternChannel) Idle { return c.idle })
}

func (s *Simulator) DigitalOutDividerInfo(h RawHandle, ch int) (uint32, uint32, error) {
	return simGet2(s, h, func(st *simState) (uint32, uint32, error) {
		if _, err := st.patternChannel(ch); err != nil {
			return 0, 0, err
		}
		return 1, simPatternMaxDivider, nil
	})
}

func (s *Simulator) DigitalOutDividerInitSet(h RawHandle, ch int, div uint32) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error { c.dividerInit = min(div, simPatternMaxDivider); return nil })
}

func (s *Simulator) DigitalOutDividerInitGet(h RawHandle, ch int) (uint32, error) {
	return patternGet(s, h, ch, func(c *simPatternChannel) uint32 { return c.dividerInit })
}

func (s *Simulator) DigitalOutDividerSet(h RawHandle, ch int, div uint32) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error { c.divider = min(max(div, 1), simPatternMaxDivider); return nil })
}

func (s *Simulator) DigitalOutDividerGet(h RawHandle, ch int) (uint32, error) {
	return patternGet(s, h, ch, func(c *simPatternChannel) uint32 { return c.divider })
}

func (s *Simulator) DigitalOutCounterInfo(h RawHandle, ch int) (uint32, uint32, error) {
	return simGet2(s, h, func(st *simState) (uint32, uint32, error) {
		if _, err := st.patternChannel(ch); err != nil {
			return 0, 0, err
		}
		return 0, simPatternMaxCounter, nil
	})
}

func (s *Simulator) DigitalOutCounterInitSet(h RawHandle, ch int, high bool, count uint32) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error {
		c.initHigh, c.initCount = high, min(count, simPatternMaxCounter)
		return nil
	})
}

func (s *Simulator) DigitalOutCounterInitGet(h RawHandle, ch int) (bool, uint32, error) {
	return simGet2(s, h, func(st *simState) (bool, uint32, error) {
		c, err := st.patternChannel(ch)
		if err != nil {
			return false, 0, err
		}
		return c.initHigh, c.initCount, nil
	})
}

func (s *Simulator) DigitalOutCounterSet(h RawHandle, ch int, low, high uint32) error {
	return s.patternSet(h, ch, func(c *simPatternChannel) error {
		c.low, c.high = min(low, simPatternMaxCounter), min(high, simPatternMaxCounter)
		return nil
	})
}

func (s *Simulator) DigitalOutCounterGet(h RawHandle, ch int) (uint32, uint32, error) {
	return simGet2(s, h, func(st *simState) (uint32, uint32, error) {
		c, err := st.patternChannel(ch)
		if err != nil {
			return 0, 0, err
		}
		return c.low, c.high, nil
	})
}

func (s *Simulator) DigitalOutDataInfo(h RawHandle, ch int) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) {
		if _, err := st.patternChannel(ch); err != nil {
			return 0, err
		}
		return st.pattern.dataMax, nil
	})
}

// DigitalOutDataSet also sets the counters from the bit count, as the SDK
// does.
func (s *Simulator) DigitalOutDataSet(h RawHandle, ch int, bits []byte, count uint32) error {
	return s.with(h, func(st *simState) error {
		c, err := st.patternChannel(ch)
		if err != nil {
			return err
		}
		if count > st.pattern.dataMax {
			return invalidParam(3, "%d bits exceed the %d bit buffer", count, st.pattern.dataMax)
		}
		if uint32(len(bits))*8 < count {
			return invalidParam(2, "%d bytes hold fewer than %d bits", len(bits), count)
		}
		c.bits = append([]byte(nil), bits...)
		c.bitCount = count
		c.low, c.high = count, 0
		return nil
	})
}

func (s *Simulator) DigitalOutPlayRateSet(h RawHandle, hz float64) error {
	return s.with(h, func(st *simState) error {
		if hz <= 0 {
			return invalidParam(1, "play rate must be positive")
		}
		st.pattern.playRate = hz
		return nil
	})
}

func (s *Simulator) DigitalOutPlayDataSet(h RawHandle, data []byte, bitsPerSample, count uint32) error {
	return s.with(h, func(st *simState) error {
		if !Bitrate(bitsPerSample).Known() {
			return invalidParam(2, "unsupported bitrate %d", bitsPerSample)
		}
		if uint64(count)*uint64(bitsPerSample) > uint64(len(data))*8 {
			return invalidParam(3, "%d samples do not fit in %d bytes", count, len(data))
		}
		st.pattern.playData = append([]byte(nil), data...)
		st.pattern.playBits, st.pattern.playCount = bitsPerSample, count
		return nil
	})
}

// UART

const simUARTBuffer = 8192

type simUART struct {
	baud     float64
	bits     int
	parity   int
	stop     float64
	tx, rx   int
	rxBuf    []byte
	overflow bool
}

func (u *simUART) reset() {
	*u = simUART{baud: 9600, bits: 8, stop: 1, tx: 0, rx: 1}
}

func (st *simState) checkPin(pin int) error {
	if pin < 0 || pin >= st.dev.DIOCount {
		return invalidParam(1, "DIO pin %d out of range", pin)
	}
	return nil
}

func (s *Simulator) DigitalUARTReset(h RawHandle) error {
	return s.with(h, func(st *simState) error { st.uart.reset(); return nil })
}

func (s *Simulator) DigitalUARTRateSet(h RawHandle, baud float64) error {
	return s.with(h, func(st *simState) error {
		if baud <= 0 {
			return invalidParam(1, "baud rate must be positive")
		}
		st.uart.baud = baud
		return nil
	})
}

func (s *Simulator) DigitalUARTBitsSet(h RawHandle, bits int) error {
	return s.with(h, func(st *simState) error {
		if bits < 5 || bits > 9 {
			return invalidParam(1, "data bits %d out of range", bits)
		}
		st.uart.bits = bits
		return nil
	})
}

func (s *Simulator) DigitalUARTParitySet(h RawHandle, parity int) error {
	return s.with(h, func(st *simState) error {
		if !Parity(parity).Known() {
			return invalidParam(1, "unknown parity %d", parity)
		}
		st.uart.parity = parity
		return nil
	})
}

func (s *Simulator) DigitalUARTStopSet(h RawHandle, stop float64) error {
	return s.with(h, func(st *simState) error { st.uart.stop = stop; return nil })
}

func (s *Simulator) DigitalUARTTxSet(h RawHandle, pin int) error {
	return s.with(h, func(st *simState) error {
		if err := st.checkPin(pin); err != nil {
			return err
		}
		st.uart.tx = pin
		return nil
	})
}

func (s *Simulator) DigitalUARTRxSet(h RawHandle, pin int) error {
	return s.with(h, func(st *simState) error {
		if err := st.checkPin(pin); err != nil {
			return err
		}
		st.uart.rx = pin
		return nil
	})
}

func (s *Simulator) DigitalUARTTx(h RawHandle, data []byte) error {
	return s.with(h, func(st *simState) error {
		u := &st.uart
		if len(data) == 0 || u.tx != u.rx {
			return nil
		}
		u.rxBuf = append(u.rxBuf, data...)
		if len(u.rxBuf) > simUARTBuffer {
			u.rxBuf = u.rxBuf[len(u.rxBuf)-simUARTBuffer:]
			u.overflow = true
		}
		return nil
	})
}

// DigitalUARTRx with an empty buffer restarts reception.
func (s *Simulator) DigitalUARTRx(h RawHandle, buf []byte) (int, int, error) {
	var n, parity int
	err := s.with(h, func(st *simState) error {
		u := &st.uart
		if len(buf) == 0 {
			u.rxBuf = nil
			u.overflow = false
			return nil
		}
		n = copy(buf, u.rxBuf)
		u.rxBuf = u.rxBuf[n:]
		if u.overflow {
			parity = -1
			u.overflow = false
		}
		return nil
	})
	return n, parity, err
}
