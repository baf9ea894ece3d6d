package billing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Value is a JSON scalar carried exactly as the service sent it.
// Numbers keep their original spelling ("125.50" stays "125.50"), so a value
// can be displayed and sent back to the service without any coercion.
type Value struct {
	raw json.RawMessage
}

// RawValue builds a Value from literal JSON text (e.g. `125.50` or `"domestic"`).
func RawValue(raw string) Value {
	return Value{raw: json.RawMessage(raw)}
}

// StringValue builds a Value holding a JSON string.
func StringValue(s string) Value {
	data, _ := json.Marshal(s)
	return Value{raw: data}
}

// Present reports whether the value was sent and is not null.
func (v Value) Present() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Raw returns the JSON text of the value.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// IsString reports whether the value is a JSON string.
func (v Value) IsString() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// String returns the display text: strings unquoted, everything else as sent.
func (v Value) String() string {
	if !v.Present() {
		return ""
	}
	if v.IsString() {
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	}
	return string(bytes.TrimSpace(v.raw))
}

// Truthy reports whether the value counts as set: present, and not false,
// zero, or the empty string.
func (v Value) Truthy() bool {
	if !v.Present() {
		return false
	}
	switch string(bytes.TrimSpace(v.raw)) {
	case "false", `""`:
		return false
	}
	if d, err := v.Decimal(); err == nil && !v.IsString() {
		return !d.IsZero()
	}
	return true
}

// Decimal parses the value as a decimal number. Numeric strings are accepted.
func (v Value) Decimal() (decimal.Decimal, error) {
	if !v.Present() {
		return decimal.Zero, fmt.Errorf("value is not set")
	}
	return decimal.NewFromString(v.String())
}

// Equal reports whether two values have identical JSON text.
func (v Value) Equal(o Value) bool {
	return bytes.Equal(bytes.TrimSpace(v.raw), bytes.TrimSpace(o.raw))
}

// MarshalJSON writes the value back exactly as received.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(v.raw)) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON stores a copy of the raw JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0:0], data...)
	return nil
}

// Breakdown is the itemised cost of a prediction.
type Breakdown struct {
	Load   Value `json:"load"`
	Units  Value `json:"units"`
	Energy Value `json:"energy"`
	Fixed  Value `json:"fixed"`
	Duty   Value `json:"duty"`
}

// PredictionResult is a successful response from the prediction endpoint.
// Treat it as immutable once received.
type PredictionResult struct {
	PredictedAmount Value     `json:"predicted_amount"`
	RawUnits        Value     `json:"raw_units"`
	Tariff          Value     `json:"tariff"`
	Breakdown       Breakdown `json:"breakdown"`
}

// TipsRequest is the body sent to the tips endpoint.
type TipsRequest struct {
	Amount Value `json:"amount"`
	Units  Value `json:"units"`
	Tariff Value `json:"tariff"`
}

// TipsRequestFor derives the tips request from a prediction. It is the only
// way a TipsRequest is built.
func TipsRequestFor(r *PredictionResult) TipsRequest {
	return TipsRequest{
		Amount: r.PredictedAmount,
		Units:  r.RawUnits,
		Tariff: r.Tariff,
	}
}

// TipsResult is the ordered list of tips, in the order the service sent them.
type TipsResult []string

// BreakdownItem is one labelled line of a breakdown, in display order.
type BreakdownItem struct {
	Key   string
	Label string
	Value Value
}

// Items returns the breakdown lines in display order.
func (b Breakdown) Items() []BreakdownItem {
	return []BreakdownItem{
		{Key: "load", Label: "Sanctioned load", Value: b.Load},
		{Key: "units", Label: "Units", Value: b.Units},
		{Key: "energy", Label: "Energy charge", Value: b.Energy},
		{Key: "fixed", Label: "Fixed charge", Value: b.Fixed},
		{Key: "duty", Label: "Electricity duty", Value: b.Duty},
	}
}

// Charges returns the breakdown lines that are money amounts.
func (b Breakdown) Charges() []BreakdownItem {
	items := b.Items()
	return items[2:]
}
