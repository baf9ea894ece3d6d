package billing

import (
	"encoding/json"
	"fmt"
)

// responseObject is a decoded top-level JSON object, one raw value per key.
type responseObject map[string]json.RawMessage

// decodeObject parses body as a JSON object.
// Non-JSON bodies are transport failures; JSON that is not an object is a
// schema violation.
func decodeObject(op Op, statusCode int, body []byte) (responseObject, error) {
	if !json.Valid(body) {
		return nil, NewMalformedBodyError(op, statusCode, fmt.Errorf("%d bytes of non-JSON data", len(body)))
	}

	var obj responseObject
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, NewSchemaError(op, statusCode, "response is not a JSON object")
	}
	return obj, nil
}

// reportedError returns the service's error message if the object carries one.
func (o responseObject) reportedError(op Op, statusCode int) error {
	v := Value{raw: o["error"]}
	if !v.Truthy() {
		return nil
	}
	return NewReportedError(op, statusCode, v.String())
}

// value returns the named field, or a schema error naming path if it is absent or null.
func (o responseObject) value(op Op, statusCode int, key, path string) (Value, error) {
	v := Value{raw: o[key]}
	if !v.Present() {
		return Value{}, NewSchemaError(op, statusCode, "missing field "+path)
	}
	return v, nil
}

// decodePrediction maps a /predict response body to a result or a typed error.
func decodePrediction(statusCode int, body []byte) (*PredictionResult, error) {
	obj, err := decodeObject(OpPredict, statusCode, body)
	if err != nil {
		return nil, err
	}
	if err := obj.reportedError(OpPredict, statusCode); err != nil {
		return nil, err
	}

	var result PredictionResult
	fields := []struct {
		key  string
		dest *Value
	}{
		{"predicted_amount", &result.PredictedAmount},
		{"raw_units", &result.RawUnits},
		{"tariff", &result.Tariff},
	}
	for _, f := range fields {
		v, err := obj.value(OpPredict, statusCode, f.key, f.key)
		if err != nil {
			return nil, err
		}
		*f.dest = v
	}

	if !(Value{raw: obj["breakdown"]}).Present() {
		return nil, NewSchemaError(OpPredict, statusCode, "missing field breakdown")
	}
	var breakdown responseObject
	if err := json.Unmarshal(obj["breakdown"], &breakdown); err != nil {
		return nil, NewSchemaError(OpPredict, statusCode, "field breakdown is not an object")
	}

	breakdownFields := []struct {
		key  string
		dest *Value
	}{
		{"load", &result.Breakdown.Load},
		{"units", &result.Breakdown.Units},
		{"energy", &result.Breakdown.Energy},
		{"fixed", &result.Breakdown.Fixed},
		{"duty", &result.Breakdown.Duty},
	}
	for _, f := range breakdownFields {
		v, err := breakdown.value(OpPredict, statusCode, f.key, "breakdown."+f.key)
		if err != nil {
			return nil, err
		}
		*f.dest = v
	}

	return &result, nil
}

// decodeTips maps a /get-tips response body to a tip list or a typed error.
func decodeTips(statusCode int, body []byte) (TipsResult, error) {
	obj, err := decodeObject(OpTips, statusCode, body)
	if err != nil {
		return nil, err
	}
	if err := obj.reportedError(OpTips, statusCode); err != nil {
		return nil, err
	}

	raw, err := obj.value(OpTips, statusCode, "tips", "tips")
	if err != nil {
		return nil, err
	}

	var tips []string
	if err := json.Unmarshal(raw.raw, &tips); err != nil {
		return nil, NewSchemaError(OpTips, statusCode, "field tips is not a list of strings")
	}
	if tips == nil {
		tips = []string{}
	}
	return TipsResult(tips), nil
}
