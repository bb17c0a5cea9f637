package dwf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumString(t *testing.T) {
	assert.Equal(t, "pc", TriggerSourcePC.String())
	assert.Equal(t, "TriggerSource(42)", TriggerSource(42).String())
	assert.Equal(t, "custom", FunctionCustom.String())
	assert.Equal(t, "Function(12)", Function(12).String())
	assert.Equal(t, "Idle(9)", Idle(9).String())
	assert.Equal(t, "digital-in-buffer", ConfigDigitalInBufferSize.String())
	assert.False(t, ConfigInfo(0).Known())
}

func TestEnumParseRoundTrip(t *testing.T) {
	for _, src := range TriggerSource(0).variants() {
		got, err := ParseTriggerSource(src.String())
		require.NoError(t, err)
		assert.Equal(t, src, got)
	}
	for _, fn := range Function(0).variants() {
		got, err := ParseFunction(fn.String())
		require.NoError(t, err)
		assert.Equal(t, fn, got)
	}
	for _, m := range AcquisitionMode(0).variants() {
		got, err := ParseAcquisitionMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	for _, p := range Param(0).variants() {
		got, err := ParseParam(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	parsers := map[string]func(string) error{
		"filter":  func(s string) error { _, err := ParseEnumFilter(s); return err },
		"source":  func(s string) error { _, err := ParseTriggerSource(s); return err },
		"slope":   func(s string) error { _, err := ParseTriggerSlope(s); return err },
		"filter2": func(s string) error { _, err := ParseFilter(s); return err },
		"type":    func(s string) error { _, err := ParseOutputType(s); return err },
	}
	for name, parse := range parsers {
		assert.Error(t, parse("bogus"), name)
	}
}

func TestSupport(t *testing.T) {
	s := SupportOf(TriggerSourcePC, TriggerSourceExternal1)
	assert.True(t, s.Has(TriggerSourceNone), "zero variant is always supported")
	assert.True(t, s.Has(TriggerSourcePC))
	assert.False(t, s.Has(TriggerSourceExternal2))
	assert.False(t, s.Has(TriggerSource(40)))
	assert.False(t, s.Has(TriggerSource(-1)))

	assert.Equal(t, []TriggerSource{TriggerSourceNone, TriggerSourcePC, TriggerSourceExternal1}, s.Variants())
	assert.Equal(t, "[none pc external-1]", s.String())

	// bits for unlisted values are kept but not reported as variants
	raw := Support[Function](1<<FunctionSine | 1<<12)
	assert.Equal(t, []Function{FunctionDC, FunctionSine}, raw.Variants())
	assert.True(t, raw.Has(Function(12)))
	assert.False(t, raw.Has(FunctionCustom))
}

func TestBitrate(t *testing.T) {
	for _, b := range []Bitrate{Bitrate1, Bitrate2, Bitrate4, Bitrate8, Bitrate16} {
		assert.True(t, b.Known(), b.String())
	}
	for _, b := range []Bitrate{0, 3, 32, -8} {
		assert.False(t, b.Known(), b.String())
	}
	assert.Equal(t, "8 bit", Bitrate8.String())
	assert.Equal(t, "Bitrate(3)", Bitrate(3).String())
}
