package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_PassesValuesThrough(t *testing.T) {
	src := Fields{
		{Name: "tariff", Value: "domestic"},
		{Name: "load", Value: " 2 "},
		{Name: "units", Value: ""},
	}

	p := Collect(src)

	assert.Equal(t, "domestic", p.Get("tariff"))
	assert.Equal(t, " 2 ", p.Get("load"), "values must not be trimmed")
	assert.True(t, p.Has("units"), "empty fields are still submitted")
	assert.Equal(t, "", p.Get("units"))
	assert.Equal(t, []string{"load", "tariff", "units"}, p.Names())
}

func TestCollect_SkipsUnnamedAndDisabled(t *testing.T) {
	src := Fields{
		{Name: "", Value: "orphan"},
		{Name: "tariff", Value: "commercial"},
		{Name: "load", Value: "5", Disabled: true},
	}

	p := Collect(src)

	assert.Equal(t, []string{"tariff"}, p.Names())
	assert.False(t, p.Has("load"))
}

func TestCollect_RepeatedNames(t *testing.T) {
	src := Fields{
		{Name: "appliance", Value: "ac"},
		{Name: "appliance", Value: "geyser"},
	}

	p := Collect(src)

	require.Len(t, p["appliance"], 2)
	assert.Equal(t, "ac", p.Get("appliance"))
	assert.Equal(t, "appliance=ac&appliance=geyser", p.Encode())
}

func TestCollect_NilSource(t *testing.T) {
	p := Collect(nil)
	assert.NotNil(t, p)
	assert.Empty(t, p)
}

// Each call builds a fresh payload reflecting the source at that moment.
func TestCollect_ReflectsLatestEdits(t *testing.T) {
	src := Fields{{Name: "load", Value: "2"}}
	first := Collect(src)

	src[0].Value = "3"
	second := Collect(src)

	assert.Equal(t, "2", first.Get("load"))
	assert.Equal(t, "3", second.Get("load"))
}

func TestLookup(t *testing.T) {
	s, ok := Lookup(FieldTariff)
	require.True(t, ok)
	assert.Equal(t, TariffCategories, s.Options)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
