package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/session"
)

func samplePrediction() *billing.PredictionResult {
	return &billing.PredictionResult{
		PredictedAmount: billing.RawValue("125.50"),
		RawUnits:        billing.RawValue("210"),
		Tariff:          billing.StringValue("domestic"),
		Breakdown: billing.Breakdown{
			Load:   billing.RawValue("3"),
			Units:  billing.RawValue("210"),
			Energy: billing.RawValue("1000"),
			Fixed:  billing.RawValue("50"),
			Duty:   billing.RawValue("20"),
		},
	}
}

func TestChargeShares(t *testing.T) {
	shares, ok := ChargeShares(samplePrediction().Breakdown)
	require.True(t, ok)
	require.Len(t, shares, 3)

	assert.Equal(t, "energy", shares[0].Item.Key)
	assert.Equal(t, "93.5", shares[0].Percent.StringFixed(1))
	assert.Equal(t, "4.7", shares[1].Percent.StringFixed(1))
	assert.Equal(t, "1.9", shares[2].Percent.StringFixed(1))
	assert.InDelta(t, 1000.0/1070.0, shares[0].Fraction, 1e-9)
}

func TestChargeSharesUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		breakdown billing.Breakdown
	}{
		{
			name: "non-numeric charge",
			breakdown: billing.Breakdown{
				Energy: billing.StringValue("n/a"),
				Fixed:  billing.RawValue("50"),
				Duty:   billing.RawValue("20"),
			},
		},
		{
			name: "negative charge",
			breakdown: billing.Breakdown{
				Energy: billing.RawValue("100"),
				Fixed:  billing.RawValue("-5"),
				Duty:   billing.RawValue("20"),
			},
		},
		{
			name: "all zero",
			breakdown: billing.Breakdown{
				Energy: billing.RawValue("0"),
				Fixed:  billing.RawValue("0"),
				Duty:   billing.RawValue("0"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, ok := ChargeShares(tt.breakdown)
			assert.False(t, ok)
			assert.Nil(t, shares)
		})
	}
}

func TestRenderPrediction(t *testing.T) {
	out := RenderPrediction(samplePrediction(), 80)

	assert.Contains(t, out, "125.50")
	assert.Contains(t, out, "domestic")
	for _, label := range []string{"Sanctioned load", "Units", "Energy charge", "Fixed charge", "Electricity duty"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "93.5%")
	assert.Empty(t, RenderPrediction(nil, 80))
}

func TestRenderPredictionWithoutShares(t *testing.T) {
	result := samplePrediction()
	result.Breakdown.Duty = billing.StringValue("included")

	out := RenderPrediction(result, 80)
	assert.Contains(t, out, "included")
	assert.NotContains(t, out, "%")
}

func TestRenderTips(t *testing.T) {
	out := RenderTips([]string{"Use LED bulbs", "Run AC at 24C"}, 80)
	assert.Contains(t, out, "💡 Use LED bulbs")
	assert.Contains(t, out, "💡 Run AC at 24C")
	assert.Less(t, strings.Index(out, "LED"), strings.Index(out, "24C"))

	empty := RenderTips(nil, 80)
	assert.Contains(t, empty, "(no tips)")
	assert.NotContains(t, empty, TipMarker)
}

func TestFormatTip(t *testing.T) {
	assert.Equal(t, "💡 Switch off standby devices", FormatTip("Switch off standby devices"))
}

func TestResultRender(t *testing.T) {
	out := NewSuccessResult("Profile saved", Detail{Key: "Name", Value: "home"}).SetWidth(70).Render()
	assert.Contains(t, out, SuccessMarker)
	assert.Contains(t, out, "Profile saved")
	assert.Contains(t, out, "home")

	out = NewFailureResult("Prediction failed", "Request timed out", []string{"Check the service"}).SetWidth(70).Render()
	assert.Contains(t, out, FailureMarker)
	assert.Contains(t, out, "Request timed out")
	assert.Contains(t, out, "Troubleshooting:")
	assert.Contains(t, out, "Check the service")
}

func TestHeaderKeepsParamOrder(t *testing.T) {
	out := NewHeader("Bill prediction", "billwise predict",
		Detail{Key: "Service", Value: "http://127.0.0.1:5000"},
		Detail{Key: "Profile", Value: "home"},
	).SetWidth(70).Render()

	assert.Contains(t, out, "BILL PREDICTION")
	assert.Contains(t, out, "billwise predict")
	assert.Less(t, strings.Index(out, "Service:"), strings.Index(out, "Profile:"))
}

func TestPrinterView(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintView(session.View{
		ResultVisible:   true,
		Result:          samplePrediction(),
		TipsVisible:     true,
		TipsListVisible: true,
		Tips:            []string{"Use LED bulbs"},
	})

	out := buf.String()
	assert.Contains(t, out, "125.50")
	assert.Contains(t, out, "💡 Use LED bulbs")
}

func TestPrinterHiddenRegions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintView(session.View{Result: samplePrediction(), Tips: []string{"hidden tip"}})
	assert.Empty(t, buf.String())
}

func TestPrinterNotice(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintNotice(&session.Notice{Kind: billing.ErrTypeGuard, Message: billing.GuardMessage})
	assert.Contains(t, buf.String(), billing.GuardMessage)
	assert.Contains(t, buf.String(), WarningMarker)

	buf.Reset()
	err := billing.NewReportedError(billing.OpPredict, 200, "Invalid tariff")
	p.PrintNotice(&session.Notice{Kind: billing.ErrTypeReported, Message: "Invalid tariff", Err: err})
	assert.Contains(t, buf.String(), "Invalid tariff")
	assert.Contains(t, buf.String(), FailureMarker)
}

func TestPrintErrorIgnoresNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintError("Prediction failed", nil)
	assert.Empty(t, buf.String())

	NewPrinter(&buf).SetWidth(80).PrintError("Prediction failed", errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf).SetWidth(70)
			got := p.Confirm(strings.NewReader(tt.input), "Overwrite profile", []string{"Profile \"home\" exists"}, "Overwrite it?")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, buf.String(), "Overwrite it?")
		})
	}
}

func TestLoaderWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "loader")
	require.NoError(t, err)
	defer f.Close()

	l := NewLoader(f, "Fetching tips...")
	assert.False(t, l.Animated())
	assert.False(t, l.Visible())

	l.Start()
	l.Start()
	assert.True(t, l.Visible())
	l.Stop()
	assert.False(t, l.Visible())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "Fetching tips...\n", string(data))
}
