// Package form turns the prediction form's current inputs into the payload
// sent to the prediction service.
//
// Collection is a pure pass-through: every named, enabled field is copied
// with its raw string value, empty strings included. No validation or
// trimming happens here; the prediction service owns interpretation of the
// values.
//
// # Usage Example
//
//	fields := []form.Field{
//	    {Name: "tariff", Value: "domestic"},
//	    {Name: "load", Value: "2"},
//	}
//	payload := form.Collect(form.Fields(fields))
//	fmt.Println(payload.Encode()) // load=2&tariff=domestic
package form
