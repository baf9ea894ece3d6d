package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_PreservesNumberSpelling(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`125.50`), &v))

	assert.True(t, v.Present())
	assert.False(t, v.IsString())
	assert.Equal(t, "125.50", v.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "125.50", string(out))
}

func TestValue_Strings(t *testing.T) {
	v := StringValue("domestic")

	assert.True(t, v.IsString())
	assert.Equal(t, "domestic", v.String())
	assert.Equal(t, `"domestic"`, string(v.Raw()))
}

func TestValue_Present(t *testing.T) {
	assert.False(t, Value{}.Present())
	assert.False(t, RawValue("null").Present())
	assert.False(t, RawValue("  ").Present())
	assert.True(t, RawValue("0").Present())
	assert.True(t, RawValue(`""`).Present())
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{``, false},
		{`null`, false},
		{`false`, false},
		{`""`, false},
		{`0`, false},
		{`0.0`, false},
		{`"0"`, true},
		{`"invalid load value"`, true},
		{`true`, true},
		{`1`, true},
		{`{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, RawValue(tt.raw).Truthy())
		})
	}
}

func TestValue_Decimal(t *testing.T) {
	d, err := RawValue("125.50").Decimal()
	require.NoError(t, err)
	assert.Equal(t, "125.5", d.String())

	d, err = StringValue("1000").Decimal()
	require.NoError(t, err)
	assert.True(t, d.IsPositive())

	_, err = StringValue("2kW").Decimal()
	assert.Error(t, err)

	_, err = Value{}.Decimal()
	assert.Error(t, err)
}

func TestValue_MarshalEmptyIsNull(t *testing.T) {
	out, err := json.Marshal(Value{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestTipsRequestFor(t *testing.T) {
	result := &PredictionResult{
		PredictedAmount: RawValue("125.50"),
		RawUnits:        RawValue("210"),
		Tariff:          StringValue("domestic"),
	}

	req := TipsRequestFor(result)
	assert.True(t, req.Amount.Equal(result.PredictedAmount))
	assert.True(t, req.Units.Equal(result.RawUnits))
	assert.True(t, req.Tariff.Equal(result.Tariff))

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":125.50,"units":210,"tariff":"domestic"}`, string(body))
}

func TestBreakdown_Items(t *testing.T) {
	b := Breakdown{
		Load:   StringValue("2kW"),
		Units:  RawValue("210"),
		Energy: RawValue("1000"),
		Fixed:  RawValue("50"),
		Duty:   RawValue("20"),
	}

	items := b.Items()
	require.Len(t, items, 5)
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	assert.Equal(t, []string{"load", "units", "energy", "fixed", "duty"}, keys)

	charges := b.Charges()
	require.Len(t, charges, 3)
	assert.Equal(t, "energy", charges[0].Key)
	assert.Equal(t, "20", charges[2].Value.String())
}
