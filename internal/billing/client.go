package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/billwise/internal/form"
	"github.com/muurk/billwise/internal/logging"
	"github.com/muurk/billwise/internal/version"
)

const (
	// DefaultBaseURL is where the prediction service listens in development
	DefaultBaseURL = "http://127.0.0.1:5000"

	// PredictPath is the prediction endpoint
	PredictPath = "/predict"

	// TipsPath is the savings tips endpoint
	TipsPath = "/get-tips"

	// RequestIDHeader carries a per-request ID for correlating client and service logs
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the prediction service.
// It keeps no state between calls and never retries: each call is exactly
// one HTTP request.
type Client struct {
	// BaseURL is the service root (e.g., "http://127.0.0.1:5000")
	BaseURL string

	// HTTPClient is the underlying HTTP client. Its zero Timeout means the
	// transport defaults apply.
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		UserAgent:  version.UserAgent(),
	}
}

// SetTimeout sets the HTTP request timeout (0 = no client-side timeout)
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SubmitPrediction sends the form payload to the prediction endpoint.
// It returns the parsed result, or an *Error of kind Reported (the service
// answered with an error message), Schema (fields missing) or Transport.
func (c *Client) SubmitPrediction(ctx context.Context, payload form.Payload) (*PredictionResult, error) {
	body := []byte(payload.Encode())

	status, data, err := c.post(ctx, OpPredict, PredictPath, "application/x-www-form-urlencoded", body)
	if err != nil {
		return nil, err
	}

	return decodePrediction(status, data)
}

// FetchTips sends the tips request derived from a prediction to the tips endpoint.
// Callers must only invoke it once a prediction exists; see TipsRequestFor.
func (c *Client) FetchTips(ctx context.Context, req TipsRequest) (TipsResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, NewTransportError(OpTips, "failed to encode tips request", err)
	}

	status, data, err := c.post(ctx, OpTips, TipsPath, "application/json", body)
	if err != nil {
		return nil, err
	}

	return decodeTips(status, data)
}

// post performs a single POST and returns the status code and full body.
// The status code is not interpreted here: the service reports business
// errors in the JSON body regardless of status.
func (c *Client) post(ctx context.Context, op Op, path, contentType string, body []byte) (int, []byte, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, NewTransportError(op, "failed to create POST request", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogRequest(requestID, req.Method, req.URL.String(), len(body))
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, NewTransportError(op, "POST request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, NewTransportError(op, "failed to read response body", err)
	}

	logging.LogResponse(requestID, resp.StatusCode, data, time.Since(start))

	return resp.StatusCode, data, nil
}
