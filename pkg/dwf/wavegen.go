package dwf

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// WaveformGenerator is the analog out instrument.
type WaveformGenerator struct {
	h *Handle
}

// Reset resets every output channel.
func (w *WaveformGenerator) Reset() error {
	return w.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutReset(r, -1) })
}

func (w *WaveformGenerator) Channels() ([]*WavegenChannel, error) {
	n, err := get(w.h, func(d Driver, r RawHandle) (int, error) { return d.AnalogOutCount(r) })
	if err != nil {
		return nil, err
	}
	chans := make([]*WavegenChannel, n)
	for i := range chans {
		chans[i] = &WavegenChannel{h: w.h, index: i}
	}
	return chans, nil
}

// Channel returns output channel i without checking that it exists.
func (w *WaveformGenerator) Channel(i int) *WavegenChannel {
	return &WavegenChannel{h: w.h, index: i}
}

// WavegenChannel is one waveform generator output. Its signal is the
// carrier node, optionally modulated by the AM and FM nodes.
type WavegenChannel struct {
	h     *Handle
	index int
}

func (c *WavegenChannel) Index() int { return c.index }

func (c *WavegenChannel) Reset() error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutReset(r, c.index) })
}

// Enable enables the carrier node.
func (c *WavegenChannel) Enable() error { return c.Carrier().Enable() }

func (c *WavegenChannel) Disable() error { return c.Carrier().Disable() }

func (c *WavegenChannel) Enabled() (bool, error) { return c.Carrier().Enabled() }

func (c *WavegenChannel) Carrier() *Node { return &Node{h: c.h, channel: c.index, node: NodeCarrier} }

// AM returns the amplitude modulation node.
func (c *WavegenChannel) AM() *Node { return &Node{h: c.h, channel: c.index, node: NodeAM} }

// FM returns the frequency modulation node.
func (c *WavegenChannel) FM() *Node { return &Node{h: c.h, channel: c.index, node: NodeFM} }

// SetRunTime sets how long the channel generates after a trigger. Zero runs
// until stopped.
func (c *WavegenChannel) SetRunTime(t units.Time) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutRunSet(r, c.index, t.Seconds()) })
}

func (c *WavegenChannel) RunTime() (units.Time, error) {
	v, err := get(c.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutRunGet(r, c.index) })
	return units.Seconds(v), err
}

// SetWaitTime sets the delay between the trigger and the start of
// generation.
func (c *WavegenChannel) SetWaitTime(t units.Time) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutWaitSet(r, c.index, t.Seconds()) })
}

func (c *WavegenChannel) WaitTime() (units.Time, error) {
	v, err := get(c.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutWaitGet(r, c.index) })
	return units.Seconds(v), err
}

// SetRepeat sets how many wait/run cycles are generated. Zero repeats
// forever.
func (c *WavegenChannel) SetRepeat(n int) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutRepeatSet(r, c.index, n) })
}

func (c *WavegenChannel) Repeat() (int, error) {
	return get(c.h, func(d Driver, r RawHandle) (int, error) { return d.AnalogOutRepeatGet(r, c.index) })
}

func (c *WavegenChannel) SetTriggerSource(src TriggerSource) error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutTriggerSourceSet(r, c.index, src) })
}

func (c *WavegenChannel) TriggerSource() (TriggerSource, error) {
	return checked(get(c.h, func(d Driver, r RawHandle) (TriggerSource, error) { return d.AnalogOutTriggerSourceGet(r, c.index) }))
}

func (c *WavegenChannel) Start() error {
	c.h.log.Debug().Int("channel", c.index).Msg("wavegen start")
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutConfigure(r, c.index, true) })
}

func (c *WavegenChannel) Stop() error {
	return c.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutConfigure(r, c.index, false) })
}

func (c *WavegenChannel) State() (InstrumentState, error) {
	return get(c.h, func(d Driver, r RawHandle) (InstrumentState, error) { return d.AnalogOutStatus(r, c.index) })
}

// Node is a carrier or modulator node of a waveform generator channel.
type Node struct {
	h       *Handle
	channel int
	node    AnalogOutNode
}

func (n *Node) Kind() AnalogOutNode { return n.node }

func (n *Node) Enable() error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeEnableSet(r, n.channel, n.node, true) })
}

func (n *Node) Disable() error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeEnableSet(r, n.channel, n.node, false) })
}

func (n *Node) Enabled() (bool, error) {
	return get(n.h, func(d Driver, r RawHandle) (bool, error) { return d.AnalogOutNodeEnableGet(r, n.channel, n.node) })
}

func (n *Node) SetFunction(f Function) error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeFunctionSet(r, n.channel, n.node, f) })
}

func (n *Node) Function() (Function, error) {
	return get(n.h, func(d Driver, r RawHandle) (Function, error) { return d.AnalogOutNodeFunctionGet(r, n.channel, n.node) })
}

func (n *Node) SetFrequency(f units.Frequency) error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeFrequencySet(r, n.channel, n.node, f.Hertz()) })
}

func (n *Node) Frequency() (units.Frequency, error) {
	v, err := get(n.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutNodeFrequencyGet(r, n.channel, n.node) })
	return units.Hertz(v), err
}

// SetAmplitude sets the carrier amplitude.
func (n *Node) SetAmplitude(v units.Voltage) error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeAmplitudeSet(r, n.channel, n.node, v.Volts()) })
}

func (n *Node) Amplitude() (units.Voltage, error) {
	v, err := get(n.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutNodeAmplitudeGet(r, n.channel, n.node) })
	return units.Volts(v), err
}

// SetModulationDepth sets the modulation index of an AM or FM node in
// percent. The SDK stores it in the node's amplitude.
func (n *Node) SetModulationDepth(percent float64) error {
	if n.node == NodeCarrier {
		return invalidParam(2, "modulation depth applies to AM and FM nodes")
	}
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeAmplitudeSet(r, n.channel, n.node, percent) })
}

func (n *Node) SetOffset(v units.Voltage) error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeOffsetSet(r, n.channel, n.node, v.Volts()) })
}

func (n *Node) Offset() (units.Voltage, error) {
	v, err := get(n.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutNodeOffsetGet(r, n.channel, n.node) })
	return units.Volts(v), err
}

// SetSymmetry sets the duty cycle in percent.
func (n *Node) SetSymmetry(percent float64) error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodeSymmetrySet(r, n.channel, n.node, percent) })
}

func (n *Node) Symmetry() (float64, error) {
	return get(n.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutNodeSymmetryGet(r, n.channel, n.node) })
}

// SetPhase sets the phase in degrees.
func (n *Node) SetPhase(degrees float64) error {
	return n.h.call(func(d Driver, r RawHandle) error { return d.AnalogOutNodePhaseSet(r, n.channel, n.node, degrees) })
}

func (n *Node) Phase() (float64, error) {
	return get(n.h, func(d Driver, r RawHandle) (float64, error) { return d.AnalogOutNodePhaseGet(r, n.channel, n.node) })
}

// DataLimits returns the supported custom waveform length range.
func (n *Node) DataLimits() (min, max int, err error) {
	return get2(n.h, func(d Driver, r RawHandle) (int, int, error) { return d.AnalogOutNodeDataInfo(r, n.channel, n.node) })
}

// SetData loads a custom waveform used by FunctionCustom. Samples are
// normalized to -1..1 and scaled by the amplitude.
func (n *Node) SetData(samples []float64) error {
	for i, s := range samples {
		if s < -1 || s > 1 {
			return invalidParam(3, "sample %d out of range -1..1: %g", i, s)
		}
	}
	return n.h.call(func(d Driver, r RawHandle) error {
		lo, hi, err := d.AnalogOutNodeDataInfo(r, n.channel, n.node)
		if err != nil {
			return err
		}
		if len(samples) < lo || len(samples) > hi {
			return invalidParam(3, "custom data length %d outside %d..%d", len(samples), lo, hi)
		}
		return d.AnalogOutNodeDataSet(r, n.channel, n.node, samples)
	})
}

func (n *Node) String() string {
	return fmt.Sprintf("channel %d %s", n.channel, n.node)
}
