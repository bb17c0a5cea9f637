// Package units provides typed physical quantities for instrument values.
//
// Every quantity is a float64 in its SI base unit, in the same spirit as
// time.Duration: the type carries the dimension so a voltage cannot be
// passed where a frequency is expected.
//
//	rate := units.Megahertz(1)
//	rng := units.Volts(5)
//	fmt.Println(rate, rng.Volts(), rate.Period()) // 1 MHz 5 1 µs
package units

import (
	"math"
	"strconv"
	"time"
)

// Voltage is an electric potential in volts.
type Voltage float64

// Frequency is a rate in hertz. Sample rates use this type as well.
type Frequency float64

// Time is a span in seconds. It is kept distinct from time.Duration because
// SDK values routinely go below a nanosecond.
type Time float64

func Volts(v float64) Voltage { return Voltage(v) }
func Millivolts(v float64) Voltage { return Voltage(v * 1e-3) }

func Hertz(v float64) Frequency { return Frequency(v) }
func Kilohertz(v float64) Frequency { return Frequency(v * 1e3) }
func Megahertz(v float64) Frequency { return Frequency(v * 1e6) }

func Seconds(v float64) Time { return Time(v) }
func Milliseconds(v float64) Time { return Time(v * 1e-3) }
func Microseconds(v float64) Time { return Time(v * 1e-6) }

// FromDuration converts a time.Duration to Time.
func FromDuration(d time.Duration) Time { return Time(d.Seconds()) }

func (v Voltage) Volts() float64 { return float64(v) }
func (f Frequency) Hertz() float64 { return float64(f) }
func (t Time) Seconds() float64 { return float64(t) }

// Duration converts t to a time.Duration, truncating below one nanosecond.
func (t Time) Duration() time.Duration {
	return time.Duration(float64(t) * float64(time.Second))
}

// Period returns 1/f. A zero frequency has an infinite period.
func (f Frequency) Period() Time {
	if f == 0 {
		return Time(math.Inf(1))
	}
	return Time(1 / float64(f))
}

// Rate returns 1/t. A zero span has an infinite rate.
func (t Time) Rate() Frequency {
	if t == 0 {
		return Frequency(math.Inf(1))
	}
	return Frequency(1 / float64(t))
}

func (v Voltage) String() string { return format(float64(v), "V") }
func (f Frequency) String() string { return format(float64(f), "Hz") }
func (t Time) String() string { return format(float64(t), "s") }

var siPrefixes = []struct {
	exp    int
	symbol string
}{
	{-12, "p"},
	{-9, "n"},
	{-6, "µ"},
	{-3, "m"},
	{0, ""},
	{3, "k"},
	{6, "M"},
	{9, "G"},
}

// format renders value with the largest SI prefix that keeps the mantissa at
// or above one, using four significant digits.
func format(value float64, unit string) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'g', -1, 64) + " " + unit
	}

	abs := math.Abs(value)
	i := 0
	for j, p := range siPrefixes {
		if abs >= math.Pow10(p.exp) {
			i = j
		}
	}

	// rounding to four digits can carry the mantissa into the next decade
	mantissa := round4(value / math.Pow10(siPrefixes[i].exp))
	if math.Abs(mantissa) >= 1000 && i < len(siPrefixes)-1 {
		i++
		mantissa = round4(value / math.Pow10(siPrefixes[i].exp))
	}
	return strconv.FormatFloat(mantissa, 'g', 4, 64) + " " + siPrefixes[i].symbol + unit
}

func round4(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 4, 64), 64)
	return r
}
