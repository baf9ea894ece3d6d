// Package billing is the client for the electricity-bill prediction service.
//
// The service exposes two endpoints:
//
//	POST /predict   form-encoded prediction form fields
//	POST /get-tips  JSON {"amount", "units", "tariff"} taken from a prediction
//
// Both answer with JSON: either {"error": "..."} or the successful payload.
// The client makes exactly one request per call, never retries, and keeps no
// state between calls.
//
// # Values
//
// Response fields are kept as raw JSON scalars (Value) so nothing is coerced:
// a predicted amount of 125.50 is displayed as "125.50" and sent back to the
// tips endpoint as 125.50.
//
// # Errors
//
// Every failure is an *Error with one of four kinds:
//
//   - ErrTypeTransport: network failure, timeout, or a body that is not JSON
//   - ErrTypeReported: the service answered with an "error" message
//   - ErrTypeSchema: a successful answer missing documented fields
//   - ErrTypeGuard: an action attempted before its precondition held (raised
//     by the session state machine, never by the client)
//
// Use GetShortErrorMessage for the notice shown to the user and
// GetTroubleshootingHints for follow-up advice.
//
// # Usage Example
//
//	client := billing.NewClient("http://127.0.0.1:5000")
//	result, err := client.SubmitPrediction(ctx, payload)
//	if err != nil {
//	    fmt.Println(billing.GetShortErrorMessage(err))
//	    return
//	}
//	tips, err := client.FetchTips(ctx, billing.TipsRequestFor(result))
package billing
