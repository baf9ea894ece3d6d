// Package logging provides structured logging for billwise.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used by the client: outbound service requests, responses, state
// machine transitions, and notices shown to the user.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (response bodies, state transitions)
//   - Info: Normal operations (requests sent, responses received)
//   - Warn: Notices shown to the user (service errors, guard failures)
//   - Error: Fatal issues (startup failures)
//
// # Silent By Default
//
// Logging is off unless BILLWISE_LOG_LEVEL (or --log-level) is set, so the
// curated CLI and TUI output stays clean:
//
//	BILLWISE_LOG_LEVEL=debug billwise predict --field tariff=domestic
//
// The interactive client writes logs to a file instead of the terminal:
//
//	billwise --log-level debug --log-file /tmp/billwise.log
//
// # Structured Logging
//
//	logging.LogRequest(requestID, "POST", "http://127.0.0.1:5000/predict", 42)
//	logging.LogTransition("Idle", "PredictionPending", "submit", 1)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
