package units

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Dimension identifies the physical dimension of a parsed quantity.
type Dimension int

const (
	Dimensionless Dimension = iota
	DimVoltage
	DimFrequency
	DimTime
)

func (d Dimension) String() string {
	switch d {
	case DimVoltage:
		return "voltage"
	case DimFrequency:
		return "frequency"
	case DimTime:
		return "time"
	default:
		return "dimensionless"
	}
}

// Quantity is a parsed literal scaled to its SI base unit.
type Quantity struct {
	Value     float64
	Dimension Dimension
}

// quantityLexer tokenizes literals such as "3.3V", "-200 mV" or "1e-3 s".
var quantityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Unit", Pattern: `[a-zA-Zµ]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

type quantityLiteral struct {
	Value float64 `parser:"@Number"`
	Unit  string  `parser:"@Unit?"`
}

var quantityParser = participle.MustBuild[quantityLiteral](
	participle.Lexer(quantityLexer),
	participle.Elide("Whitespace"),
)

var baseUnits = map[string]Dimension{
	"V":  DimVoltage,
	"Hz": DimFrequency,
	"s":  DimTime,
}

var prefixScale = map[string]float64{
	"p": 1e-12,
	"n": 1e-9,
	"u": 1e-6,
	"µ": 1e-6,
	"m": 1e-3,
	"k": 1e3,
	"M": 1e6,
	"G": 1e9,
}

// Parse parses a quantity literal. A bare number parses as Dimensionless.
func Parse(s string) (Quantity, error) {
	lit, err := quantityParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Quantity{}, fmt.Errorf("units: invalid quantity %q: %w", s, err)
	}
	if lit.Unit == "" {
		return Quantity{Value: lit.Value}, nil
	}

	dim, scale, err := resolveUnit(lit.Unit)
	if err != nil {
		return Quantity{}, fmt.Errorf("units: invalid quantity %q: %w", s, err)
	}
	return Quantity{Value: lit.Value * scale, Dimension: dim}, nil
}

func resolveUnit(unit string) (Dimension, float64, error) {
	if dim, ok := baseUnits[unit]; ok {
		return dim, 1, nil
	}
	for prefix, scale := range prefixScale {
		rest, ok := strings.CutPrefix(unit, prefix)
		if !ok {
			continue
		}
		if dim, ok := baseUnits[rest]; ok {
			return dim, scale, nil
		}
	}
	return Dimensionless, 0, fmt.Errorf("unknown unit %q", unit)
}

func parseAs(s string, want Dimension) (float64, error) {
	q, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if q.Dimension != want && q.Dimension != Dimensionless {
		return 0, fmt.Errorf("units: %q is a %s, want %s", s, q.Dimension, want)
	}
	return q.Value, nil
}

// ParseVoltage parses a voltage literal. Bare numbers are taken as volts.
func ParseVoltage(s string) (Voltage, error) {
	v, err := parseAs(s, DimVoltage)
	return Voltage(v), err
}

// ParseFrequency parses a frequency literal. Bare numbers are taken as hertz.
func ParseFrequency(s string) (Frequency, error) {
	v, err := parseAs(s, DimFrequency)
	return Frequency(v), err
}

// ParseTime parses a time literal. Bare numbers are taken as seconds.
func ParseTime(s string) (Time, error) {
	v, err := parseAs(s, DimTime)
	return Time(v), err
}
