package units

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"volts", Volts(3.3).String(), "3.3 V"},
		{"millivolts", Millivolts(-200).String(), "-200 mV"},
		{"kilohertz", Kilohertz(100).String(), "100 kHz"},
		{"megahertz", Megahertz(1).String(), "1 MHz"},
		{"milliseconds", Milliseconds(2.5).String(), "2.5 ms"},
		{"microseconds", Microseconds(1).String(), "1 µs"},
		{"zero", Volts(0).String(), "0 V"},
		{"tiny", Seconds(5e-13).String(), "0.5 ps"},
		{"rounds into kilo", Hertz(999.99).String(), "1 kHz"},
		{"rounds into mega", Hertz(999999.9).String(), "1 MHz"},
		{"rounds into volts", Millivolts(-999.96).String(), "-1 V"},
		{"stays below carry", Hertz(999.4).String(), "999.4 Hz"},
		{"largest prefix", Hertz(2.5e12).String(), "2500 GHz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPeriodAndRate(t *testing.T) {
	if p := Megahertz(1).Period(); !approx(p.Seconds(), 1e-6) {
		t.Errorf("Period = %v, want 1µs", p)
	}
	if r := Milliseconds(1).Rate(); !approx(r.Hertz(), 1000) {
		t.Errorf("Rate = %v, want 1kHz", r)
	}
	if !math.IsInf(Hertz(0).Period().Seconds(), 1) {
		t.Errorf("zero frequency should have infinite period")
	}
}

func TestDurationConversion(t *testing.T) {
	if d := Milliseconds(250).Duration(); d != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", d)
	}
	if s := FromDuration(1500 * time.Millisecond); !approx(s.Seconds(), 1.5) {
		t.Errorf("FromDuration = %v, want 1.5s", s)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		value   float64
		dim     Dimension
		wantErr bool
	}{
		{in: "3.3V", value: 3.3, dim: DimVoltage},
		{in: "-200 mV", value: -0.2, dim: DimVoltage},
		{in: "1MHz", value: 1e6, dim: DimFrequency},
		{in: "44.1kHz", value: 44100, dim: DimFrequency},
		{in: "2.5ms", value: 2.5e-3, dim: DimTime},
		{in: "10us", value: 1e-5, dim: DimTime},
		{in: "10µs", value: 1e-5, dim: DimTime},
		{in: "1e-3 s", value: 1e-3, dim: DimTime},
		{in: " 42 ", value: 42, dim: Dimensionless},
		{in: "5 furlongs", wantErr: true},
		{in: "V", wantErr: true},
		{in: "1 V V", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", q)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if q.Dimension != tt.dim {
				t.Errorf("dimension = %s, want %s", q.Dimension, tt.dim)
			}
			if !approx(q.Value, tt.value) {
				t.Errorf("value = %g, want %g", q.Value, tt.value)
			}
		})
	}
}

func TestTypedParsers(t *testing.T) {
	v, err := ParseVoltage("5")
	if err != nil || v != Volts(5) {
		t.Fatalf("ParseVoltage(5) = %v, %v", v, err)
	}

	f, err := ParseFrequency("100kHz")
	if err != nil || !approx(f.Hertz(), 1e5) {
		t.Fatalf("ParseFrequency(100kHz) = %v, %v", f, err)
	}

	if _, err := ParseTime("3V"); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
	if _, err := ParseVoltage("1MHz"); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
