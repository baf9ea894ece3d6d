package billing

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// Error types for prediction and tips requests

// ErrorKind represents the category of error that occurred
type ErrorKind int

const (
	// ErrTypeTransport indicates the request did not produce a usable JSON
	// response (network failure, timeout, non-JSON body)
	ErrTypeTransport ErrorKind = iota
	// ErrTypeReported indicates the service answered with an "error" message
	ErrTypeReported
	// ErrTypeGuard indicates an action was attempted before its precondition
	// held; these never reach the network
	ErrTypeGuard
	// ErrTypeSchema indicates a successful response that lacked expected fields
	ErrTypeSchema
)

// NetworkErrorSubtype provides more specific transport error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorMalformedBody
	NetworkErrorCanceled
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeReported:
		return "Service Error"
	case ErrTypeGuard:
		return "Not Ready"
	case ErrTypeSchema:
		return "Schema Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Op identifies which request an error belongs to.
type Op string

const (
	OpPredict Op = "predict"
	OpTips    Op = "tips"
)

// GuardMessage is shown when tips are requested before any prediction succeeded.
const GuardMessage = "Please make a prediction first!"

// Error represents a failed prediction or tips request
type Error struct {
	Kind           ErrorKind           // Category of error
	Op             Op                  // Which request failed
	Message        string              // Human-readable message; for ErrTypeReported, the service's text verbatim
	StatusCode     int                 // HTTP status code (if a response was received)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific transport error type
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport failure and returns a classified Error
func ClassifyNetworkError(op Op, err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &Error{
			Kind:           ErrTypeTransport,
			Op:             op,
			Message:        "Request canceled",
			Err:            err,
			NetworkSubtype: NetworkErrorCanceled,
		}
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Kind:           ErrTypeTransport,
			Op:             op,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Kind:           ErrTypeTransport,
			Op:             op,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &Error{
				Kind:           ErrTypeTransport,
				Op:             op,
				Message:        "Service refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &Error{
				Kind:           ErrTypeTransport,
				Op:             op,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &Error{
				Kind:           ErrTypeTransport,
				Op:             op,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return ClassifyNetworkError(op, urlErr.Err)
	}

	return &Error{
		Kind:           ErrTypeTransport,
		Op:             op,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
	}
}

// NewTransportError creates a transport error with automatic classification
func NewTransportError(op Op, message string, err error) *Error {
	classified := ClassifyNetworkError(op, err)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &Error{
		Kind:    ErrTypeTransport,
		Op:      op,
		Message: message,
	}
}

// NewMalformedBodyError creates a transport error for a response body that is not JSON
func NewMalformedBodyError(op Op, statusCode int, err error) *Error {
	return &Error{
		Kind:           ErrTypeTransport,
		Op:             op,
		Message:        "response is not valid JSON",
		StatusCode:     statusCode,
		Err:            err,
		NetworkSubtype: NetworkErrorMalformedBody,
	}
}

// NewReportedError creates an error carrying the service's own message
func NewReportedError(op Op, statusCode int, message string) *Error {
	return &Error{
		Kind:       ErrTypeReported,
		Op:         op,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewSchemaError creates an error for a response missing expected fields
func NewSchemaError(op Op, statusCode int, message string) *Error {
	return &Error{
		Kind:       ErrTypeSchema,
		Op:         op,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewGuardError creates a precondition error
func NewGuardError(op Op, message string) *Error {
	return &Error{
		Kind:    ErrTypeGuard,
		Op:      op,
		Message: message,
	}
}

// KindOf returns the kind of err, and false if err is not an *Error
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return isKind(err, ErrTypeTransport)
}

// IsGuardError checks if an error is a precondition failure
func IsGuardError(err error) bool {
	return isKind(err, ErrTypeGuard)
}

// GetShortErrorMessage returns the notice shown to the user for err
func GetShortErrorMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case ErrTypeReported:
		return "Error: " + e.Message
	case ErrTypeGuard:
		return e.Message
	case ErrTypeSchema:
		return fmt.Sprintf("The service returned an incomplete response (%s)", e.Message)
	case ErrTypeTransport:
		if e.Op == OpTips {
			return "An error occurred while fetching saving tips."
		}
		return "An error occurred while getting the prediction."
	default:
		return e.Message
	}
}

// GetTroubleshootingHints returns user-facing troubleshooting advice for err
func GetTroubleshootingHints(err error) []string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	switch e.Kind {
	case ErrTypeGuard:
		return []string{"Submit the prediction form first, then ask for tips"}

	case ErrTypeReported:
		return []string{
			"The service rejected the request; check the form values",
			"Tariff, load and units must match what the service expects",
		}

	case ErrTypeSchema:
		return []string{
			"The service answered but its response is missing fields",
			"Check that the service version matches this client",
		}
	}

	switch e.NetworkSubtype {
	case NetworkErrorTimeout:
		return []string{
			"The service did not respond in time",
			"Try again, or raise the timeout with --timeout",
		}
	case NetworkErrorConnectionRefused:
		return []string{
			"Nothing is listening at the service address",
			"Check that the prediction service is running",
			"Verify the URL with --url or in the config file",
		}
	case NetworkErrorDNS:
		return []string{
			"The service hostname could not be resolved",
			"Use an IP address, or run 'billwise discover'",
		}
	case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
		return []string{
			"The service host is not reachable from this machine",
			"Check your network connection",
		}
	case NetworkErrorMalformedBody:
		return []string{
			"The service answered with something other than JSON",
			"The URL may point at a different web server",
		}
	default:
		return []string{
			"Check your network connection",
			"Verify the service URL",
		}
	}
}
