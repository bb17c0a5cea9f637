package profile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// Apply configures the device behind h. Trigger routing and the generators
// are set up and started first so the acquisition instruments, configured
// last, see their output from the first sample. Apply does not start the
// oscilloscope or the logic analyzer.
func (p *Profile) Apply(ctx context.Context, h *dwf.Handle) error {
	log := zerolog.Ctx(ctx).With().Str("profile", p.Name).Logger()

	steps := []struct {
		name string
		run  func() error
	}{
		{"triggers", func() error { return p.applyTriggers(h) }},
		{"wavegen", func() error { return p.applyWavegen(h) }},
		{"pattern", func() error { return p.applyPattern(h) }},
		{"uart", func() error { return p.applyUART(h) }},
		{"scope", func() error { return p.applyScope(h) }},
		{"logic", func() error { return p.applyLogic(h) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.run(); err != nil {
			return fmt.Errorf("apply %s: %w", step.name, err)
		}
		log.Debug().Str("section", step.name).Msg("applied")
	}
	log.Info().Msg("profile applied")
	return nil
}

func (p *Profile) applyTriggers(h *dwf.Handle) error {
	for _, t := range p.Triggers {
		src, err := dwf.ParseTriggerSource(t.Source)
		if err != nil {
			return err
		}
		if err := h.SetTrigger(t.Pin, src); err != nil {
			return fmt.Errorf("pin %d: %w", t.Pin, err)
		}
	}
	return nil
}

func (p *Profile) applyWavegen(h *dwf.Handle) error {
	for _, w := range p.Wavegen {
		ch := h.WaveformGenerator().Channel(w.Channel)
		if err := configureWavegen(ch, w); err != nil {
			return fmt.Errorf("channel %d: %w", w.Channel, err)
		}
		if err := ch.Start(); err != nil {
			return fmt.Errorf("channel %d: %w", w.Channel, err)
		}
	}
	return nil
}

func configureWavegen(ch *dwf.WavegenChannel, w WavegenChannel) error {
	fn, err := dwf.ParseFunction(w.Function)
	if err != nil {
		return err
	}
	carrier := ch.Carrier()
	calls := []func() error{
		carrier.Enable,
		func() error { return carrier.SetFunction(fn) },
		func() error { return carrier.SetOffset(units.Voltage(w.Offset)) },
		func() error { return carrier.SetPhase(w.Phase) },
		func() error { return ch.SetRunTime(units.Time(w.Run)) },
		func() error { return ch.SetWaitTime(units.Time(w.Wait)) },
		func() error { return ch.SetRepeat(w.Repeat) },
	}
	if fn == dwf.FunctionCustom {
		calls = append(calls, func() error { return carrier.SetData(w.Data) })
	}
	if w.Frequency != 0 {
		calls = append(calls, func() error { return carrier.SetFrequency(units.Frequency(w.Frequency)) })
	}
	if w.Amplitude != 0 {
		calls = append(calls, func() error { return carrier.SetAmplitude(units.Voltage(w.Amplitude)) })
	}
	if w.Symmetry != nil {
		calls = append(calls, func() error { return carrier.SetSymmetry(*w.Symmetry) })
	}
	if w.Trigger != "" {
		src, err := dwf.ParseTriggerSource(w.Trigger)
		if err != nil {
			return err
		}
		calls = append(calls, func() error { return ch.SetTriggerSource(src) })
	}
	if w.AM != nil {
		calls = append(calls, modulatorCalls(ch.AM(), w.AM)...)
	}
	if w.FM != nil {
		calls = append(calls, modulatorCalls(ch.FM(), w.FM)...)
	}
	for _, call := range calls {
		if err := call(); err != nil {
			return err
		}
	}
	return nil
}

func modulatorCalls(n *dwf.Node, m *Modulator) []func() error {
	return []func() error{
		n.Enable,
		func() error {
			fn, err := dwf.ParseFunction(m.Function)
			if err != nil {
				return err
			}
			return n.SetFunction(fn)
		},
		func() error { return n.SetFrequency(units.Frequency(m.Frequency)) },
		func() error { return n.SetModulationDepth(m.Depth) },
	}
}

func (p *Profile) applyPattern(h *dwf.Handle) error {
	pg := p.Pattern
	if pg == nil {
		return nil
	}
	gen := h.PatternGenerator()
	if err := gen.Reset(); err != nil {
		return err
	}
	if pg.Trigger != "" {
		src, err := dwf.ParseTriggerSource(pg.Trigger)
		if err != nil {
			return err
		}
		if err := gen.SetTriggerSource(src); err != nil {
			return err
		}
	}
	if err := gen.SetRunTime(units.Time(pg.Run)); err != nil {
		return err
	}
	if err := gen.SetWaitTime(units.Time(pg.Wait)); err != nil {
		return err
	}
	if err := gen.SetRepeat(pg.Repeat); err != nil {
		return err
	}
	for _, c := range pg.Channels {
		if err := configurePatternChannel(gen.Channel(c.Pin), c); err != nil {
			return fmt.Errorf("pin %d: %w", c.Pin, err)
		}
	}
	return gen.Start()
}

func configurePatternChannel(ch *dwf.PatternChannel, c PatternChannel) error {
	if err := ch.Enable(); err != nil {
		return err
	}
	if c.Clock != 0 {
		if err := ch.SetClock(units.Frequency(c.Clock)); err != nil {
			return err
		}
	}
	if c.Type != "" {
		t, err := dwf.ParseOutputType(c.Type)
		if err != nil {
			return err
		}
		if err := ch.SetType(t); err != nil {
			return err
		}
	}
	if c.Output != "" {
		m, err := dwf.ParseOutputMode(c.Output)
		if err != nil {
			return err
		}
		if err := ch.SetOutputMode(m); err != nil {
			return err
		}
	}
	if c.Idle != "" {
		idle, err := dwf.ParseIdle(c.Idle)
		if err != nil {
			return err
		}
		if err := ch.SetIdle(idle); err != nil {
			return err
		}
	}
	if c.Divider != 0 {
		if err := ch.SetDivider(c.Divider); err != nil {
			return err
		}
	}
	if c.Low != 0 || c.High != 0 {
		if err := ch.SetCounter(c.Low, c.High); err != nil {
			return err
		}
	}
	if c.Bits != "" {
		bits, err := ParseBits(c.Bits)
		if err != nil {
			return err
		}
		if err := ch.SetData(bits); err != nil {
			return err
		}
	}
	return nil
}

func (p *Profile) applyUART(h *dwf.Handle) error {
	if p.UART == nil {
		return nil
	}
	return h.Protocols().UART().Configure(p.UART.config())
}

func (p *Profile) applyScope(h *dwf.Handle) error {
	s := p.Scope
	if s == nil {
		return nil
	}
	scope := h.Oscilloscope()
	if s.Rate != 0 {
		if err := scope.SetSampleFrequency(units.Frequency(s.Rate)); err != nil {
			return err
		}
	}
	if s.Buffer != 0 {
		if err := scope.SetBufferSize(s.Buffer); err != nil {
			return err
		}
	}
	if s.Mode != "" {
		m, err := dwf.ParseAcquisitionMode(s.Mode)
		if err != nil {
			return err
		}
		if err := scope.SetAcquisitionMode(m); err != nil {
			return err
		}
	}
	if s.Record != 0 {
		if err := scope.SetRecordLength(units.Time(s.Record)); err != nil {
			return err
		}
	}

	if len(s.Channels) > 0 {
		chans, err := scope.Channels()
		if err != nil {
			return err
		}
		listed := map[int]ScopeChannel{}
		for _, c := range s.Channels {
			listed[c.Channel] = c
		}
		for _, ch := range chans {
			c, ok := listed[ch.Index()]
			if !ok {
				if err := ch.Disable(); err != nil {
					return err
				}
				continue
			}
			if err := configureScopeChannel(ch, c); err != nil {
				return fmt.Errorf("channel %d: %w", c.Channel, err)
			}
		}
	}

	if t := s.Trigger; t != nil {
		if err := configureScopeTrigger(scope, t); err != nil {
			return fmt.Errorf("trigger: %w", err)
		}
	}
	return nil
}

func configureScopeChannel(ch *dwf.ScopeChannel, c ScopeChannel) error {
	if err := ch.Enable(); err != nil {
		return err
	}
	if c.Range != 0 {
		if err := ch.SetRange(units.Voltage(c.Range)); err != nil {
			return err
		}
	}
	if err := ch.SetOffset(units.Voltage(c.Offset)); err != nil {
		return err
	}
	if c.Attenuation != 0 {
		if err := ch.SetAttenuation(c.Attenuation); err != nil {
			return err
		}
	}
	if c.Filter != "" {
		f, err := dwf.ParseFilter(c.Filter)
		if err != nil {
			return err
		}
		if err := ch.SetFilter(f); err != nil {
			return err
		}
	}
	return nil
}

func configureScopeTrigger(scope *dwf.Oscilloscope, t *ScopeTrigger) error {
	src, err := dwf.ParseTriggerSource(t.Source)
	if err != nil {
		return err
	}
	if err := scope.SetTriggerSource(src); err != nil {
		return err
	}
	if src == dwf.TriggerSourceDetectorAnalogIn {
		if err := scope.SetTriggerChannel(t.Channel); err != nil {
			return err
		}
		if err := scope.SetTriggerLevel(units.Voltage(t.Level)); err != nil {
			return err
		}
	}
	if t.Slope != "" {
		slope, err := dwf.ParseTriggerSlope(t.Slope)
		if err != nil {
			return err
		}
		if err := scope.SetTriggerSlope(slope); err != nil {
			return err
		}
	}
	if err := scope.SetTriggerPosition(units.Time(t.Position)); err != nil {
		return err
	}
	if t.AutoTimeout != 0 {
		return scope.SetTriggerAutoTimeout(units.Time(t.AutoTimeout))
	}
	return nil
}

func (p *Profile) applyLogic(h *dwf.Handle) error {
	l := p.Logic
	if l == nil {
		return nil
	}
	la := h.LogicAnalyzer()
	if l.Rate != 0 {
		if err := la.SetSampleFrequency(units.Frequency(l.Rate)); err != nil {
			return err
		}
	}
	if l.Buffer != 0 {
		if err := la.SetBufferSize(l.Buffer); err != nil {
			return err
		}
	}
	if l.Trigger != "" {
		src, err := dwf.ParseTriggerSource(l.Trigger)
		if err != nil {
			return err
		}
		if err := la.SetTriggerSource(src); err != nil {
			return err
		}
	}
	return nil
}
