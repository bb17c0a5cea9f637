package dwf

import (
	"math"
	"sort"
)

type simScopeChannel struct {
	enabled     bool
	filter      Filter
	rng         float64
	offset      float64
	attenuation float64
}

type simScope struct {
	channels []simScopeChannel
	steps    []float64
	bits     int

	rateMin, rateMax, rate float64
	bufMin, bufMax, bufSize int
	mode                    AcquisitionMode
	recordLen               float64

	trigSrc     TriggerSource
	slope       TriggerSlope
	ttype       TriggerType
	tchannel    int
	position    float64
	level       float64
	autoTimeout float64
	length      float64
	lengthCond  TriggerLength

	state    InstrumentState
	pcPulsed bool

	data        [][]float64
	recordPos   int
	recordTotal int
	lost        int
	corrupted   int
}

var scopeModes = SupportOf(
	AcquisitionModeSingle, AcquisitionModeScanShift, AcquisitionModeScanScreen,
	AcquisitionModeRecord, AcquisitionModeSingleWithoutRearm,
)

func (sc *simScope) reset(dev *SimDevice, cfg Config) {
	bufMax := int(cfg.Analog.InputBufferSize)
	if bufMax <= 0 {
		bufMax = 8192
	}
	*sc = simScope{
		channels:    make([]simScopeChannel, dev.ScopeChannels),
		steps:       append([]float64(nil), dev.RangeSteps...),
		bits:        dev.ScopeBits,
		rateMin:     dev.ScopeRateMin,
		rateMax:     dev.ScopeRateMax,
		rate:        math.Min(20e6, dev.ScopeRateMax),
		bufMin:      16,
		bufMax:      bufMax,
		bufSize:     bufMax,
		autoTimeout: 1,
	}
	sort.Float64s(sc.steps)
	for i := range sc.channels {
		sc.channels[i] = simScopeChannel{enabled: true, rng: 5, attenuation: 1}
	}
}

func (sc *simScope) channel(ch int) (*simScopeChannel, error) {
	if ch < 0 || ch >= len(sc.channels) {
		return nil, invalidParam(1, "analog in channel %d out of range", ch)
	}
	return &sc.channels[ch], nil
}

// sampleScope renders n samples per channel starting at sample index start.
// Each scope channel is wired to the wavegen channel with the same index.
func (st *simState) sampleScope(start, n int) [][]float64 {
	sc := &st.scope
	out := make([][]float64, len(sc.channels))
	for c, ch := range sc.channels {
		buf := make([]float64, n)
		lo, hi := ch.offset-ch.rng/2, ch.offset+ch.rng/2
		for i := range buf {
			var v float64
			if c < len(st.wavegen) && st.wavegen[c].state == StateRunning {
				v = st.wavegen[c].sample(float64(start+i) / sc.rate)
			}
			buf[i] = clamp(v, lo, hi)
		}
		out[c] = buf
	}
	return out
}

func (st *simState) scopeStatus(s *Simulator, readData bool) InstrumentState {
	sc := &st.scope
	record := sc.mode == AcquisitionModeRecord
	if record && readData {
		sc.data = nil
		sc.lost, sc.corrupted = 0, 0
	}

	switch sc.state {
	case StateArmed:
		if !triggered(sc.trigSrc, sc.pcPulsed) {
			return sc.state
		}
		sc.state = StateRunning
		if !record {
			return sc.state
		}
	case StateRunning:
		if !record {
			sc.data = st.sampleScope(0, sc.bufSize)
			sc.state = StateDone
			return sc.state
		}
	default:
		return sc.state
	}

	if !readData {
		return sc.state
	}
	batch := max(1, sc.bufSize/4)
	if sc.recordTotal > 0 {
		batch = min(batch, sc.recordTotal-sc.recordPos)
	}
	sc.data = st.sampleScope(sc.recordPos, batch)
	sc.recordPos += batch
	sc.lost, sc.corrupted = s.lost, s.corrupted
	s.lost, s.corrupted = 0, 0
	if sc.recordTotal > 0 && sc.recordPos >= sc.recordTotal {
		sc.state = StateDone
	}
	return sc.state
}

func (s *Simulator) AnalogInReset(h RawHandle) error {
	return s.with(h, func(st *simState) error {
		st.scope.reset(st.dev, st.config)
		return nil
	})
}

func (s *Simulator) AnalogInConfigure(h RawHandle, reconfigure, start bool) error {
	return s.with(h, func(st *simState) error {
		sc := &st.scope
		if !start {
			sc.state = StateReady
			return nil
		}
		sc.state = StateArmed
		sc.pcPulsed = false
		sc.data = nil
		sc.recordPos = 0
		sc.recordTotal = int(math.Round(sc.recordLen * sc.rate))
		return nil
	})
}

func (s *Simulator) AnalogInStatus(h RawHandle, readData bool) (InstrumentState, error) {
	return simGet(s, h, func(st *simState) (InstrumentState, error) { return st.scopeStatus(s, readData), nil })
}

func (s *Simulator) AnalogInStatusSamplesValid(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) {
		sc := &st.scope
		if len(sc.data) == 0 {
			return 0, nil
		}
		if sc.mode != AcquisitionModeRecord && sc.state != StateDone {
			return 0, nil
		}
		return len(sc.data[0]), nil
	})
}

func (s *Simulator) AnalogInStatusData(h RawHandle, channel int, buf []float64) error {
	return s.with(h, func(st *simState) error {
		if _, err := st.scope.channel(channel); err != nil {
			return err
		}
		if channel < len(st.scope.data) {
			copy(buf, st.scope.data[channel])
		}
		return nil
	})
}

func (s *Simulator) AnalogInStatusRecord(h RawHandle) (int, int, int, error) {
	var avail, lost, corrupted int
	err := s.with(h, func(st *simState) error {
		sc := &st.scope
		if len(sc.data) > 0 {
			avail = len(sc.data[0])
		}
		lost, corrupted = sc.lost, sc.corrupted
		return nil
	})
	return avail, lost, corrupted, err
}

func (s *Simulator) AnalogInFrequencyInfo(h RawHandle) (float64, float64, error) {
	return simGet2(s, h, func(st *simState) (float64, float64, error) { return st.scope.rateMin, st.scope.rateMax, nil })
}

func (s *Simulator) AnalogInFrequencySet(h RawHandle, hz float64) error {
	return s.with(h, func(st *simState) error {
		st.scope.rate = clamp(hz, st.scope.rateMin, st.scope.rateMax)
		return nil
	})
}

func (s *Simulator) AnalogInFrequencyGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.scope.rate, nil })
}

func (s *Simulator) AnalogInBitsInfo(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return st.scope.bits, nil })
}

func (s *Simulator) AnalogInBufferSizeInfo(h RawHandle) (int, int, error) {
	return simGet2(s, h, func(st *simState) (int, int, error) { return st.scope.bufMin, st.scope.bufMax, nil })
}

func (s *Simulator) AnalogInBufferSizeSet(h RawHandle, size int) error {
	return s.with(h, func(st *simState) error {
		st.scope.bufSize = clampInt(size, st.scope.bufMin, st.scope.bufMax)
		return nil
	})
}

func (s *Simulator) AnalogInBufferSizeGet(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return st.scope.bufSize, nil })
}

func (s *Simulator) AnalogInAcquisitionModeInfo(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return uint32(scopeModes), nil })
}

func (s *Simulator) AnalogInAcquisitionModeSet(h RawHandle, mode AcquisitionMode) error {
	return s.with(h, func(st *simState) error {
		if !scopeModes.Has(mode) {
			return invalidParam(1, "acquisition mode %s not supported", mode)
		}
		st.scope.mode = mode
		return nil
	})
}

func (s *Simulator) AnalogInAcquisitionModeGet(h RawHandle) (AcquisitionMode, error) {
	return simGet(s, h, func(st *simState) (AcquisitionMode, error) { return st.scope.mode, nil })
}

func (s *Simulator) AnalogInRecordLengthSet(h RawHandle, seconds float64) error {
	return s.with(h, func(st *simState) error {
		if seconds < 0 {
			return invalidParam(1, "record length must not be negative")
		}
		st.scope.recordLen = seconds
		return nil
	})
}

func (s *Simulator) AnalogInRecordLengthGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.scope.recordLen, nil })
}

func (s *Simulator) AnalogInChannelCount(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return len(st.scope.channels), nil })
}

func (s *Simulator) AnalogInChannelEnableSet(h RawHandle, channel int, enable bool) error {
	return s.with(h, func(st *simState) error {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return err
		}
		ch.enabled = enable
		return nil
	})
}

func (s *Simulator) AnalogInChannelEnableGet(h RawHandle, channel int) (bool, error) {
	return simGet(s, h, func(st *simState) (bool, error) {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return false, err
		}
		return ch.enabled, nil
	})
}

var scopeFilters = SupportOf(FilterDecimate, FilterAverage, FilterMinMax)

func (s *Simulator) AnalogInChannelFilterInfo(h RawHandle) (uint32, error) {
	return simGet(s, h, func(st *simState) (uint32, error) { return uint32(scopeFilters), nil })
}

func (s *Simulator) AnalogInChannelFilterSet(h RawHandle, channel int, f Filter) error {
	return s.with(h, func(st *simState) error {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return err
		}
		if !scopeFilters.Has(f) {
			return invalidParam(2, "filter %s not supported", f)
		}
		ch.filter = f
		return nil
	})
}

func (s *Simulator) AnalogInChannelFilterGet(h RawHandle, channel int) (Filter, error) {
	return simGet(s, h, func(st *simState) (Filter, error) {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return 0, err
		}
		return ch.filter, nil
	})
}

func (s *Simulator) AnalogInChannelRangeSteps(h RawHandle) ([]float64, error) {
	return simGet(s, h, func(st *simState) ([]float64, error) {
		return append([]float64(nil), st.scope.steps...), nil
	})
}

// AnalogInChannelRangeSet rounds up to the next supported step.
func (s *Simulator) AnalogInChannelRangeSet(h RawHandle, channel int, volts float64) error {
	return s.with(h, func(st *simState) error {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return err
		}
		steps := st.scope.steps
		if len(steps) == 0 {
			ch.rng = volts
			return nil
		}
		ch.rng = steps[len(steps)-1]
		for _, step := range steps {
			if step >= volts {
				ch.rng = step
				break
			}
		}
		return nil
	})
}

func (s *Simulator) AnalogInChannelRangeGet(h RawHandle, channel int) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return 0, err
		}
		return ch.rng, nil
	})
}

func (s *Simulator) AnalogInChannelOffsetSet(h RawHandle, channel int, volts float64) error {
	return s.with(h, func(st *simState) error {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return err
		}
		ch.offset = clamp(volts, -25, 25)
		return nil
	})
}

func (s *Simulator) AnalogInChannelOffsetGet(h RawHandle, channel int) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return 0, err
		}
		return ch.offset, nil
	})
}

func (s *Simulator) AnalogInChannelAttenuationSet(h RawHandle, channel int, attenuation float64) error {
	return s.with(h, func(st *simState) error {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return err
		}
		if attenuation <= 0 {
			return invalidParam(2, "attenuation must be positive")
		}
		ch.attenuation = attenuation
		return nil
	})
}

func (s *Simulator) AnalogInChannelAttenuationGet(h RawHandle, channel int) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) {
		ch, err := st.scope.channel(channel)
		if err != nil {
			return 0, err
		}
		return ch.attenuation, nil
	})
}

func (s *Simulator) AnalogInTriggerSourceSet(h RawHandle, src TriggerSource) error {
	return s.with(h, func(st *simState) error {
		if !st.dev.TriggerSources.Has(src) {
			return invalidParam(1, "trigger source %s not supported", src)
		}
		st.scope.trigSrc = src
		return nil
	})
}

func (s *Simulator) AnalogInTriggerSourceGet(h RawHandle) (TriggerSource, error) {
	return simGet(s, h, func(st *simState) (TriggerSource, error) { return st.scope.trigSrc, nil })
}

func (s *Simulator) AnalogInTriggerPositionSet(h RawHandle, seconds float64) error {
	return s.with(h, func(st *simState) error { st.scope.position = seconds; return nil })
}

func (s *Simulator) AnalogInTriggerPositionGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.scope.position, nil })
}

func (s *Simulator) AnalogInTriggerAutoTimeoutSet(h RawHandle, seconds float64) error {
	return s.with(h, func(st *simState) error { st.scope.autoTimeout = clamp(seconds, 0, 10); return nil })
}

func (s *Simulator) AnalogInTriggerAutoTimeoutGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.scope.autoTimeout, nil })
}

func (s *Simulator) AnalogInTriggerTypeSet(h RawHandle, t TriggerType) error {
	return s.with(h, func(st *simState) error {
		if !t.Known() {
			return invalidParam(1, "unknown trigger type %d", int(t))
		}
		st.scope.ttype = t
		return nil
	})
}

func (s *Simulator) AnalogInTriggerTypeGet(h RawHandle) (TriggerType, error) {
	return simGet(s, h, func(st *simState) (TriggerType, error) { return st.scope.ttype, nil })
}

func (s *Simulator) AnalogInTriggerChannelSet(h RawHandle, channel int) error {
	return s.with(h, func(st *simState) error {
		if _, err := st.scope.channel(channel); err != nil {
			return err
		}
		st.scope.tchannel = channel
		return nil
	})
}

func (s *Simulator) AnalogInTriggerChannelGet(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return st.scope.tchannel, nil })
}

func (s *Simulator) AnalogInTriggerLevelSet(h RawHandle, volts float64) error {
	return s.with(h, func(st *simState) error { st.scope.level = volts; return nil })
}

func (s *Simulator) AnalogInTriggerLevelGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.scope.level, nil })
}

func (s *Simulator) AnalogInTriggerConditionSet(h RawHandle, slope TriggerSlope) error {
	return s.with(h, func(st *simState) error {
		if !slope.Known() {
			return invalidParam(1, "unknown trigger slope %d", int(slope))
		}
		st.scope.slope = slope
		return nil
	})
}

func (s *Simulator) AnalogInTriggerConditionGet(h RawHandle) (TriggerSlope, error) {
	return simGet(s, h, func(st *simState) (TriggerSlope, error) { return st.scope.slope, nil })
}

func (s *Simulator) AnalogInTriggerLengthSet(h RawHandle, seconds float64) error {
	return s.with(h, func(st *simState) error { st.scope.length = math.Max(0, seconds); return nil })
}

func (s *Simulator) AnalogInTriggerLengthGet(h RawHandle) (float64, error) {
	return simGet(s, h, func(st *simState) (float64, error) { return st.scope.length, nil })
}

func (s *Simulator) AnalogInTriggerLengthConditionSet(h RawHandle, cond TriggerLength) error {
	return s.with(h, func(st *simState) error {
		if !cond.Known() {
			return invalidParam(1, "unknown trigger length condition %d", int(cond))
		}
		st.scope.lengthCond = cond
		return nil
	})
}

func (s *Simulator) AnalogInTriggerLengthConditionGet(h RawHandle) (TriggerLength, error) {
	return simGet(s, h, func(st *simState) (TriggerLength, error) { return st.scope.lengthCond, nil })
}

// Waveform generator

const (
	simWavegenMaxFrequency = 20e6
	simWavegenMaxVolts     = 5
)

type simNode struct {
	enabled   bool
	function  Function
	frequency float64
	amplitude float64
	offset    float64
	symmetry  float64
	phase     float64
	data      []float64
}

type simWavegen struct {
	nodes   [3]simNode
	state   InstrumentState
	run     float64
	wait    float64
	repeat  int
	trigSrc TriggerSource
}

func (w *simWavegen) reset() {
	*w = simWavegen{}
	for i := range w.nodes {
		w.nodes[i] = simNode{function: FunctionSine, frequency: 1000, amplitude: 1, symmetry: 50}
	}
	w.nodes[NodeCarrier].function = FunctionDC
}

// sample evaluates the channel output at t seconds after start. FM is
// modeled for a sinusoidal modulator.
func (w *simWavegen) sample(t float64) float64 {
	c := &w.nodes[NodeCarrier]
	if !c.enabled {
		return 0
	}
	if c.function == FunctionDC {
		return c.offset
	}

	phase := c.frequency*t + c.phase/360
	if fm := &w.nodes[NodeFM]; fm.enabled && fm.frequency > 0 {
		depth := fm.amplitude / 100
		phase -= c.frequency * depth / (2 * math.Pi * fm.frequency) * math.Cos(2*math.Pi*(fm.frequency*t+fm.phase/360))
	}
	amp := c.amplitude
	if am := &w.nodes[NodeAM]; am.enabled {
		amp *= 1 + am.amplitude/100*am.shape(am.frequency*t+am.phase/360)
	}
	return c.offset + amp*c.shape(phase)
}

// shape returns the normalized -1..1 waveform at phase (in cycles).
func (n *simNode) shape(phase float64) float64 {
	p := phase - math.Floor(phase)
	sym := clamp(n.symmetry/100, 0, 1)
	switch n.function {
	case FunctionDC:
		return 0
	case FunctionSine:
		return math.Sin(2 * math.Pi * p)
	case FunctionSquare:
		if p < sym {
			return 1
		}
		return -1
	case FunctionTriangle:
		switch {
		case sym <= 0:
			return 1 - 2*p
		case sym >= 1:
			return 2*p - 1
		case p < sym:
			return -1 + 2*p/sym
		}
		return 1 - 2*(p-sym)/(1-sym)
	case FunctionRampUp:
		return 2*p - 1
	case FunctionRampDown:
		return 1 - 2*p
	case FunctionNoise:
		x := math.Sin(phase*12.9898) * 43758.5453
		return 2*(x-math.Floor(x)) - 1
	case FunctionPulse:
		if p < sym {
			return 1
		}
		return 0
	case FunctionTrapezium:
		tri := 1 - 4*math.Abs(p-0.5)
		return clamp(2*tri, -1, 1)
	case FunctionSinePower:
		s := math.Sin(2 * math.Pi * p)
		return math.Copysign(s*s, s)
	case FunctionCustom:
		if len(n.data) == 0 {
			return 0
		}
		return n.data[int(p*float64(len(n.data)))%len(n.data)]
	}
	return 0
}

func (st *simState) node(channel int, node AnalogOutNode) (*simNode, error) {
	if channel < 0 || channel >= len(st.wavegen) {
		return nil, invalidParam(1, "analog out channel %d out of range", channel)
	}
	if !node.Known() {
		return nil, invalidParam(2, "unknown node %d", int(node))
	}
	return &st.wavegen[channel].nodes[node], nil
}

func (st *simState) wavegenChannel(channel int) (*simWavegen, error) {
	if channel < 0 || channel >= len(st.wavegen) {
		return nil, invalidParam(1, "analog out channel %d out of range", channel)
	}
	return &st.wavegen[channel], nil
}

// forChannels applies fn to channel, or to every channel when channel is -1.
func (st *simState) forChannels(channel int, fn func(*simWavegen)) error {
	if channel == -1 {
		for i := range st.wavegen {
			fn(&st.wavegen[i])
		}
		return nil
	}
	w, err := st.wavegenChannel(channel)
	if err != nil {
		return err
	}
	fn(w)
	return nil
}

func (s *Simulator) AnalogOutCount(h RawHandle) (int, error) {
	return simGet(s, h, func(st *simState) (int, error) { return len(st.wavegen), nil })
}

func (s *Simulator) AnalogOutReset(h RawHandle, channel int) error {
	return s.with(h, func(st *simState) error {
		return st.forChannels(channel, func(w *simWavegen) { w.reset() })
	})
}

func (s *Simulator) AnalogOutConfigure(h RawHandle, channel int, start bool) error {
	return s.with(h, func(st *simState) error {
		return st.forChannels(channel, func(w *simWavegen) {
			if start {
				w.state = StateRunning
			} else {
				w.state = StateReady
			}
		})
	})
}

func (s *Simulator) AnalogOutStatus(h RawHandle, channel int) (InstrumentState, error) {
	return simGet(s, h, func(st *simState) (InstrumentState, error) {
		w, err := st.wavegenChannel(channel)
		if err != nil {
			return 0, err
		}
		return w.state, nil
	})
}

func (s *Simulator) nodeSet(h RawHandle, channel int, node AnalogOutNode, fn func(*simNode)) error {
	return s.with(h, func(st *simState) error {
		n, err := st.node(channel, node)
		if err != nil {
			return err
		}
		fn(n)
		return nil
	})
}

func nodeGet[T any](s *Simulator, h RawHandle, channel int, node AnalogOutNode, fn func(*simNode) T) (T, error) {
	return simGet(s, h, func(st *simState) (T, error) {
		n, err := st.node(channel, node)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(n), nil
	})
}

func (s *Simulator) AnalogOutNodeEnableSet(h RawHandle, channel int, node AnalogOutNode, enable bool) error {
	return s.nodeSet(h, channel, node, func(n *simNode) { n.enabled = enable })
}

func (s *Simulator) AnalogOutNodeEnableGet(h RawHandle, channel int, node AnalogOutNode) (bool, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) bool { return n.enabled })
}

func (s *Simulator) AnalogOutNodeFunctionSet(h RawHandle, channel int, node AnalogOutNode, fn Function) error {
	if !fn.Known() {
		return invalidParam(3, "unknown function %d", int(fn))
	}
	return s.nodeSet(h, channel, node, func(n *simNode) { n.function = fn })
}

func (s *Simulator) AnalogOutNodeFunctionGet(h RawHandle, channel int, node AnalogOutNode) (Function, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) Function { return n.function })
}

func (s *Simulator) AnalogOutNodeFrequencySet(h RawHandle, channel int, node AnalogOutNode, hz float64) error {
	return s.nodeSet(h, channel, node, func(n *simNode) { n.frequency = clamp(hz, 0, simWavegenMaxFrequency) })
}

func (s *Simulator) AnalogOutNodeFrequencyGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) float64 { return n.frequency })
}

// Carrier amplitude is in volts; modulator amplitude is a percentage.
func (s *Simulator) AnalogOutNodeAmplitudeSet(h RawHandle, channel int, node AnalogOutNode, v float64) error {
	return s.nodeSet(h, channel, node, func(n *simNode) {
		if node == NodeCarrier {
			n.amplitude = clamp(v, 0, simWavegenMaxVolts)
		} else {
			n.amplitude = clamp(v, -100, 100)
		}
	})
}

func (s *Simulator) AnalogOutNodeAmplitudeGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) float64 { return n.amplitude })
}

func (s *Simulator) AnalogOutNodeOffsetSet(h RawHandle, channel int, node AnalogOutNode, v float64) error {
	return s.nodeSet(h, channel, node, func(n *simNode) { n.offset = clamp(v, -simWavegenMaxVolts, simWavegenMaxVolts) })
}

func (s *Simulator) AnalogOutNodeOffsetGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) float64 { return n.offset })
}

func (s *Simulator) AnalogOutNodeSymmetrySet(h RawHandle, channel int, node AnalogOutNode, percent float64) error {
	return s.nodeSet(h, channel, node, func(n *simNode) { n.symmetry = clamp(percent, 0, 100) })
}

func (s *Simulator) AnalogOutNodeSymmetryGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) float64 { return n.symmetry })
}

func (s *Simulator) AnalogOutNodePhaseSet(h RawHandle, channel int, node AnalogOutNode, degrees float64) error {
	return s.nodeSet(h, channel, node, func(n *simNode) {
		n.phase = math.Mod(degrees, 360)
		if n.phase < 0 {
			n.phase += 360
		}
	})
}

func (s *Simulator) AnalogOutNodePhaseGet(h RawHandle, channel int, node AnalogOutNode) (float64, error) {
	return nodeGet(s, h, channel, node, func(n *simNode) float64 { return n.phase })
}

func (s *Simulator) AnalogOutNodeDataInfo(h RawHandle, channel int, node AnalogOutNode) (int, int, error) {
	return simGet2(s, h, func(st *simState) (int, int, error) {
		if _, err := st.node(channel, node); err != nil {
			return 0, 0, err
		}
		return 1, int(st.config.Analog.OutputBufferSize), nil
	})
}

func (s *Simulator) AnalogOutNodeDataSet(h RawHandle, channel int, node AnalogOutNode, data []float64) error {
	return s.with(h, func(st *simState) error {
		n, err := st.node(channel, node)
		if err != nil {
			return err
		}
		if len(data) > int(st.config.Analog.OutputBufferSize) {
			return invalidParam(3, "custom data longer than %d samples", st.config.Analog.OutputBufferSize)
		}
		n.data = append([]float64(nil), data...)
		return nil
	})
}

func (s *Simulator) wavegenSet(h RawHandle, channel int, fn func(*simWavegen)) error {
	return s.with(h, func(st *simState) error { return st.forChannels(channel, fn) })
}

func wavegenGet[T any](s *Simulator, h RawHandle, channel int, fn func(*simWavegen) T) (T, error) {
	return simGet(s, h, func(st *simState) (T, error) {
		w, err := st.wavegenChannel(channel)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(w), nil
	})
}

func (s *Simulator) AnalogOutRunSet(h RawHandle, channel int, seconds float64) error {
	return s.wavegenSet(h, channel, func(w *simWavegen) { w.run = math.Max(0, seconds) })
}

func (s *Simulator) AnalogOutRunGet(h RawHandle, channel int) (float64, error) {
	return wavegenGet(s, h, channel, func(w *simWavegen) float64 { return w.run })
}

func (s *Simulator) AnalogOutWaitSet(h RawHandle, channel int, seconds float64) error {
	return s.wavegenSet(h, channel, func(w *simWavegen) { w.wait = math.Max(0, seconds) })
}

func (s *Simulator) AnalogOutWaitGet(h RawHandle, channel int) (float64, error) {
	return wavegenGet(s, h, channel, func(w *simWavegen) float64 { return w.wait })
}

func (s *Simulator) AnalogOutRepeatSet(h RawHandle, channel int, repeat int) error {
	return s.wavegenSet(h, channel, func(w *simWavegen) { w.repeat = max(0, repeat) })
}

func (s *Simulator) AnalogOutRepeatGet(h RawHandle, channel int) (int, error) {
	return wavegenGet(s, h, channel, func(w *simWavegen) int { return w.repeat })
}

func (s *Simulator) AnalogOutTriggerSourceSet(h RawHandle, channel int, src TriggerSource) error {
	return s.with(h, func(st *simState) error {
		if !st.dev.TriggerSources.Has(src) {
			return invalidParam(2, "trigger source %s not supported", src)
		}
		return st.forChannels(channel, func(w *simWavegen) { w.trigSrc = src })
	})
}

func (s *Simulator) AnalogOutTriggerSourceGet(h RawHandle, channel int) (TriggerSource, error) {
	return wavegenGet(s, h, channel, func(w *simWavegen) TriggerSource { return w.trigSrc })
}
