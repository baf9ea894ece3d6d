package billing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/billwise/internal/form"
)

// Mock service response - valid prediction
const mockPredictionResponse = `{"predicted_amount": 125.50, "raw_units": 210, "tariff": "domestic", "breakdown": {"load": "2kW", "units": 210, "energy": 1000, "fixed": 50, "duty": 20}}`

func testPayload() form.Payload {
	return form.Collect(form.Fields{
		{Name: "tariff", Value: "domestic"},
		{Name: "load", Value: "2"},
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://127.0.0.1:8080/")

	if client.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (transport defaults)", client.HTTPClient.Timeout)
	}
	if !strings.HasPrefix(client.UserAgent, "billwise/") {
		t.Errorf("UserAgent = %s, want billwise/ prefix", client.UserAgent)
	}
}

func TestNewClient_DefaultURL(t *testing.T) {
	client := NewClient("")
	if client.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", client.BaseURL, DefaultBaseURL)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("")
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestSubmitPrediction_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if r.URL.Path != PredictPath {
			t.Errorf("Path = %s, want %s", r.URL.Path, PredictPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s, want form encoding", ct)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("request ID header should be set")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if r.PostForm.Get("tariff") != "domestic" || r.PostForm.Get("load") != "2" {
			t.Errorf("form = %v, want tariff=domestic load=2", r.PostForm)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockPredictionResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.SubmitPrediction(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("SubmitPrediction() error = %v", err)
	}

	if got := result.PredictedAmount.String(); got != "125.50" {
		t.Errorf("PredictedAmount = %s, want 125.50", got)
	}
	if got := result.RawUnits.String(); got != "210" {
		t.Errorf("RawUnits = %s, want 210", got)
	}
	if got := result.Tariff.String(); got != "domestic" {
		t.Errorf("Tariff = %s, want domestic", got)
	}
	if got := result.Breakdown.Load.String(); got != "2kW" {
		t.Errorf("Breakdown.Load = %s, want 2kW", got)
	}
	if got := result.Breakdown.Duty.String(); got != "20" {
		t.Errorf("Breakdown.Duty = %s, want 20", got)
	}
}

func TestSubmitPrediction_ReportedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid load value"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.SubmitPrediction(context.Background(), testPayload())

	if result != nil {
		t.Error("result should be nil on reported error")
	}
	if !isKind(err, ErrTypeReported) {
		t.Fatalf("error should be reported error, got %v", err)
	}

	e := err.(*Error)
	if e.Message != "invalid load value" {
		t.Errorf("Message = %q, want exact service text", e.Message)
	}
	if e.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", e.StatusCode)
	}
	if e.Op != OpPredict {
		t.Errorf("Op = %s, want %s", e.Op, OpPredict)
	}
}

func TestSubmitPrediction_EmptyErrorFieldIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "", "predicted_amount": "99", "raw_units": 1, "tariff": "domestic", "breakdown": {"load": 1, "units": 1, "energy": 1, "fixed": 1, "duty": 1}}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL).SubmitPrediction(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("SubmitPrediction() error = %v", err)
	}
	if !result.PredictedAmount.IsString() || result.PredictedAmount.String() != "99" {
		t.Errorf("PredictedAmount = %s, want string 99 preserved", result.PredictedAmount.Raw())
	}
}

func TestSubmitPrediction_SchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPath string
	}{
		{
			name:     "missing predicted_amount",
			body:     `{"raw_units": 210, "tariff": "domestic", "breakdown": {"load": 1, "units": 1, "energy": 1, "fixed": 1, "duty": 1}}`,
			wantPath: "predicted_amount",
		},
		{
			name:     "null tariff",
			body:     `{"predicted_amount": 1, "raw_units": 210, "tariff": null, "breakdown": {"load": 1, "units": 1, "energy": 1, "fixed": 1, "duty": 1}}`,
			wantPath: "tariff",
		},
		{
			name:     "missing breakdown",
			body:     `{"predicted_amount": 1, "raw_units": 210, "tariff": "domestic"}`,
			wantPath: "breakdown",
		},
		{
			name:     "breakdown not an object",
			body:     `{"predicted_amount": 1, "raw_units": 210, "tariff": "domestic", "breakdown": [1, 2]}`,
			wantPath: "breakdown",
		},
		{
			name:     "missing breakdown.duty",
			body:     `{"predicted_amount": 1, "raw_units": 210, "tariff": "domestic", "breakdown": {"load": 1, "units": 1, "energy": 1, "fixed": 1}}`,
			wantPath: "breakdown.duty",
		},
		{
			name:     "array body",
			body:     `[1, 2, 3]`,
			wantPath: "object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).SubmitPrediction(context.Background(), testPayload())
			if !isKind(err, ErrTypeSchema) {
				t.Fatalf("error should be schema error, got %v", err)
			}
			if !strings.Contains(err.(*Error).Message, tt.wantPath) {
				t.Errorf("Message = %q, want mention of %s", err.(*Error).Message, tt.wantPath)
			}
		})
	}
}

func TestSubmitPrediction_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SubmitPrediction(context.Background(), testPayload())

	if !IsTransportError(err) {
		t.Fatalf("error should be transport error, got %v", err)
	}
	if err.(*Error).NetworkSubtype != NetworkErrorMalformedBody {
		t.Errorf("NetworkSubtype = %v, want malformed body", err.(*Error).NetworkSubtype)
	}
}

func TestSubmitPrediction_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).SubmitPrediction(context.Background(), testPayload())

	if !IsTransportError(err) {
		t.Fatalf("error should be transport error, got %v", err)
	}
}

func TestSubmitPrediction_SingleAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SubmitPrediction(context.Background(), testPayload())
	if err == nil {
		t.Fatal("SubmitPrediction() should fail")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("service called %d times, want exactly 1", got)
	}
}

func TestSubmitPrediction_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(mockPredictionResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetTimeout(20 * time.Millisecond)

	_, err := client.SubmitPrediction(context.Background(), testPayload())
	if !IsTransportError(err) {
		t.Fatalf("error should be transport error, got %v", err)
	}
	if err.(*Error).NetworkSubtype != NetworkErrorTimeout {
		t.Errorf("NetworkSubtype = %v, want timeout", err.(*Error).NetworkSubtype)
	}
}

func TestFetchTips_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != TipsPath {
			t.Errorf("Path = %s, want %s", r.URL.Path, TipsPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		body, _ := io.ReadAll(r.Body)
		want := `{"amount":125.50,"units":210,"tariff":"domestic"}`
		if string(body) != want {
			t.Errorf("body = %s, want %s", body, want)
		}
		_, _ = w.Write([]byte(`{"tips": ["Run the AC at 24C", "Switch to LED bulbs", "Run the AC at 24C"]}`))
	}))
	defer server.Close()

	req := TipsRequest{
		Amount: RawValue("125.50"),
		Units:  RawValue("210"),
		Tariff: StringValue("domestic"),
	}

	tips, err := NewClient(server.URL).FetchTips(context.Background(), req)
	if err != nil {
		t.Fatalf("FetchTips() error = %v", err)
	}

	want := []string{"Run the AC at 24C", "Switch to LED bulbs", "Run the AC at 24C"}
	if len(tips) != len(want) {
		t.Fatalf("len(tips) = %d, want %d (no de-duplication)", len(tips), len(want))
	}
	for i := range want {
		if tips[i] != want[i] {
			t.Errorf("tips[%d] = %q, want %q", i, tips[i], want[i])
		}
	}
}

func TestFetchTips_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tips": []}`))
	}))
	defer server.Close()

	tips, err := NewClient(server.URL).FetchTips(context.Background(), TipsRequest{})
	if err != nil {
		t.Fatalf("FetchTips() error = %v", err)
	}
	if tips == nil || len(tips) != 0 {
		t.Errorf("tips = %#v, want empty non-nil list", tips)
	}
}

func TestFetchTips_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind ErrorKind
	}{
		{"reported", `{"error": "Gemini quota exceeded"}`, ErrTypeReported},
		{"missing tips", `{"advice": []}`, ErrTypeSchema},
		{"null tips", `{"tips": null}`, ErrTypeSchema},
		{"tips not strings", `{"tips": [1, 2]}`, ErrTypeSchema},
		{"not json", `Service Unavailable`, ErrTypeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).FetchTips(context.Background(), TipsRequest{})
			kind, ok := KindOf(err)
			if !ok {
				t.Fatalf("error should be *Error, got %v", err)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
			if err.(*Error).Op != OpTips {
				t.Errorf("Op = %s, want %s", err.(*Error).Op, OpTips)
			}
		})
	}
}

func TestFetchTips_RequestDerivedFromPrediction(t *testing.T) {
	var got map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PredictPath:
			_, _ = w.Write([]byte(mockPredictionResponse))
		case TipsPath:
			_ = json.NewDecoder(r.Body).Decode(&got)
			_, _ = w.Write([]byte(`{"tips": ["ok"]}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.SubmitPrediction(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("SubmitPrediction() error = %v", err)
	}
	if _, err := client.FetchTips(context.Background(), TipsRequestFor(result)); err != nil {
		t.Fatalf("FetchTips() error = %v", err)
	}

	if string(got["amount"]) != "125.50" {
		t.Errorf("amount = %s, want 125.50", got["amount"])
	}
	if string(got["units"]) != "210" {
		t.Errorf("units = %s, want 210", got["units"])
	}
	if string(got["tariff"]) != `"domestic"` {
		t.Errorf("tariff = %s, want \"domestic\"", got["tariff"])
	}
}
