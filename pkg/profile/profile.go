// Package profile loads YAML acquisition profiles and applies them to an
// open device.
//
// A profile describes the setup of every instrument with quantity strings
// such as "1MHz" or "250mV":
//
//	name: loopback
//	wavegen:
//	  - channel: 0
//	    function: sine
//	    frequency: 1kHz
//	    amplitude: 1V
//	scope:
//	  rate: 1MHz
//	  buffer: 1000
//	  channels:
//	    - channel: 0
//	      range: 5V
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// Profile is the root of a profile document. Sections left out are not
// touched by Apply.
type Profile struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Device      string           `yaml:"device,omitempty"`
	Triggers    []TriggerPin     `yaml:"triggers,omitempty"`
	Wavegen     []WavegenChannel `yaml:"wavegen,omitempty"`
	Pattern     *Pattern         `yaml:"pattern,omitempty"`
	UART        *UART            `yaml:"uart,omitempty"`
	Scope       *Scope           `yaml:"scope,omitempty"`
	Logic       *Logic           `yaml:"logic,omitempty"`
}

// TriggerPin routes a source onto one of the external trigger pins.
type TriggerPin struct {
	Pin    int    `yaml:"pin"`
	Source string `yaml:"source"`
}

// WavegenChannel configures one analog output channel.
type WavegenChannel struct {
	Channel   int        `yaml:"channel"`
	Function  string     `yaml:"function"`
	Frequency Frequency  `yaml:"frequency,omitempty"`
	Amplitude Voltage    `yaml:"amplitude,omitempty"`
	Offset    Voltage    `yaml:"offset,omitempty"`
	Symmetry  *float64   `yaml:"symmetry,omitempty"`
	Phase     float64    `yaml:"phase,omitempty"`
	Data      []float64  `yaml:"data,omitempty"`
	Run       Time       `yaml:"run,omitempty"`
	Wait      Time       `yaml:"wait,omitempty"`
	Repeat    int        `yaml:"repeat,omitempty"`
	Trigger   string     `yaml:"trigger,omitempty"`
	AM        *Modulator `yaml:"am,omitempty"`
	FM        *Modulator `yaml:"fm,omitempty"`
}

// Modulator configures an AM or FM node. Depth is in percent.
type Modulator struct {
	Function  string    `yaml:"function"`
	Frequency Frequency `yaml:"frequency"`
	Depth     float64   `yaml:"depth"`
}

// Pattern configures the pattern generator.
type Pattern struct {
	Trigger  string           `yaml:"trigger,omitempty"`
	Run      Time             `yaml:"run,omitempty"`
	Wait     Time             `yaml:"wait,omitempty"`
	Repeat   uint32           `yaml:"repeat,omitempty"`
	Channels []PatternChannel `yaml:"channels"`
}

// PatternChannel configures one DIO output. Clock is a shorthand for a 50%
// duty pulse; Bits loads custom data given as a string of 0 and 1, first
// bit sent first.
type PatternChannel struct {
	Pin     int       `yaml:"pin"`
	Type    string    `yaml:"type,omitempty"`
	Output  string    `yaml:"output,omitempty"`
	Idle    string    `yaml:"idle,omitempty"`
	Clock   Frequency `yaml:"clock,omitempty"`
	Divider uint32    `yaml:"divider,omitempty"`
	Low     uint32    `yaml:"low,omitempty"`
	High    uint32    `yaml:"high,omitempty"`
	Bits    string    `yaml:"bits,omitempty"`
}

// UART configures the UART engine. Zero fields keep the 9600 8N1 default.
type UART struct {
	Baud     float64 `yaml:"baud,omitempty"`
	DataBits int     `yaml:"data_bits,omitempty"`
	Parity   string  `yaml:"parity,omitempty"`
	StopBits float64 `yaml:"stop_bits,omitempty"`
	TxPin    *int    `yaml:"tx,omitempty"`
	RxPin    *int    `yaml:"rx,omitempty"`
}

// Scope configures the oscilloscope.
type Scope struct {
	Rate     Frequency      `yaml:"rate,omitempty"`
	Buffer   int            `yaml:"buffer,omitempty"`
	Mode     string         `yaml:"mode,omitempty"`
	Record   Time           `yaml:"record,omitempty"`
	Channels []ScopeChannel `yaml:"channels,omitempty"`
	Trigger  *ScopeTrigger  `yaml:"trigger,omitempty"`
}

// ScopeChannel configures one oscilloscope input. Channels not listed are
// disabled when the list is non-empty.
type ScopeChannel struct {
	Channel     int     `yaml:"channel"`
	Range       Voltage `yaml:"range,omitempty"`
	Offset      Voltage `yaml:"offset,omitempty"`
	Attenuation float64 `yaml:"attenuation,omitempty"`
	Filter      string  `yaml:"filter,omitempty"`
}

// ScopeTrigger configures the oscilloscope trigger.
type ScopeTrigger struct {
	Source      string  `yaml:"source"`
	Channel     int     `yaml:"channel,omitempty"`
	Slope       string  `yaml:"slope,omitempty"`
	Level       Voltage `yaml:"level,omitempty"`
	Position    Time    `yaml:"position,omitempty"`
	AutoTimeout Time    `yaml:"auto_timeout,omitempty"`
}

// Logic configures the logic analyzer.
type Logic struct {
	Rate    Frequency `yaml:"rate,omitempty"`
	Buffer  int       `yaml:"buffer,omitempty"`
	Trigger string    `yaml:"trigger,omitempty"`
}

// Voltage, Frequency and Time decode quantity strings. Bare numbers are
// taken in the base unit.
type (
	Voltage   units.Voltage
	Frequency units.Frequency
	Time      units.Time
)

func (v *Voltage) UnmarshalYAML(n *yaml.Node) error {
	q, err := units.ParseVoltage(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*v = Voltage(q)
	return nil
}

func (f *Frequency) UnmarshalYAML(n *yaml.Node) error {
	q, err := units.ParseFrequency(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*f = Frequency(q)
	return nil
}

func (t *Time) UnmarshalYAML(n *yaml.Node) error {
	q, err := units.ParseTime(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*t = Time(q)
	return nil
}

// Quantities marshal in the base unit with every significant digit so a
// marshaled profile parses back to the same values.
func (v Voltage) MarshalYAML() (any, error)   { return exact(float64(v), "V"), nil }
func (f Frequency) MarshalYAML() (any, error) { return exact(float64(f), "Hz"), nil }
func (t Time) MarshalYAML() (any, error)      { return exact(float64(t), "s"), nil }

func exact(v float64, unit string) string {
	return strconv.FormatFloat(v, 'g', -1, 64) + unit
}

// Load reads and validates the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a profile document. Unknown keys are
// rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Marshal encodes the profile back to YAML.
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Validate checks every enum name and bit string in the profile and
// reports all problems at once.
func (p *Profile) Validate() error {
	var errs []error
	check := func(where string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	if p.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for i, t := range p.Triggers {
		_, err := dwf.ParseTriggerSource(t.Source)
		check(fmt.Sprintf("triggers[%d]", i), err)
	}

	seen := map[int]bool{}
	for i, w := range p.Wavegen {
		where := fmt.Sprintf("wavegen[%d]", i)
		if seen[w.Channel] {
			errs = append(errs, fmt.Errorf("%s: channel %d listed twice", where, w.Channel))
		}
		seen[w.Channel] = true
		fn, err := dwf.ParseFunction(w.Function)
		check(where+".function", err)
		if fn == dwf.FunctionCustom && len(w.Data) == 0 {
			errs = append(errs, fmt.Errorf("%s: custom function needs data", where))
		}
		check(where+".trigger", optional(w.Trigger, dwf.ParseTriggerSource))
		if w.AM != nil {
			_, err := dwf.ParseFunction(w.AM.Function)
			check(where+".am.function", err)
		}
		if w.FM != nil {
			_, err := dwf.ParseFunction(w.FM.Function)
			check(where+".fm.function", err)
		}
	}

	if pg := p.Pattern; pg != nil {
		check("pattern.trigger", optional(pg.Trigger, dwf.ParseTriggerSource))
		for i, c := range pg.Channels {
			where := fmt.Sprintf("pattern.channels[%d]", i)
			check(where+".type", optional(c.Type, dwf.ParseOutputType))
			check(where+".output", optional(c.Output, dwf.ParseOutputMode))
			check(where+".idle", optional(c.Idle, dwf.ParseIdle))
			_, err := ParseBits(c.Bits)
			check(where+".bits", err)
		}
	}

	if u := p.UART; u != nil {
		check("uart.parity", optional(u.Parity, dwf.ParseParity))
		check("uart", u.config().Validate())
	}

	if s := p.Scope; s != nil {
		check("scope.mode", optional(s.Mode, dwf.ParseAcquisitionMode))
		for i, c := range s.Channels {
			check(fmt.Sprintf("scope.channels[%d].filter", i), optional(c.Filter, dwf.ParseFilter))
		}
		if t := s.Trigger; t != nil {
			_, err := dwf.ParseTriggerSource(t.Source)
			check("scope.trigger.source", err)
			check("scope.trigger.slope", optional(t.Slope, dwf.ParseTriggerSlope))
		}
	}

	if l := p.Logic; l != nil {
		check("logic.trigger", optional(l.Trigger, dwf.ParseTriggerSource))
	}

	return errors.Join(errs...)
}

func optional[T any](s string, parse func(string) (T, error)) error {
	if s == "" {
		return nil
	}
	_, err := parse(s)
	return err
}

// ParseBits reads a bit string such as "1011_0000", first bit first.
// Underscores and spaces are ignored.
func ParseBits(s string) ([]bool, error) {
	bits := make([]bool, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case '_', ' ':
		default:
			return nil, fmt.Errorf("invalid bit %q at offset %d", r, i)
		}
	}
	return bits, nil
}

func (u *UART) config() dwf.UARTConfig {
	cfg := dwf.DefaultUARTConfig()
	if u.Baud != 0 {
		cfg.Baud = u.Baud
	}
	if u.DataBits != 0 {
		cfg.DataBits = u.DataBits
	}
	if u.Parity != "" {
		if p, err := dwf.ParseParity(u.Parity); err == nil {
			cfg.Parity = p
		}
	}
	if u.StopBits != 0 {
		cfg.StopBits = u.StopBits
	}
	if u.TxPin != nil {
		cfg.TxPin = *u.TxPin
	}
	if u.RxPin != nil {
		cfg.RxPin = *u.RxPin
	}
	return cfg
}
