package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/form"
	"github.com/muurk/billwise/internal/session"
)

// fakeService answers every request with a fixed response
type fakeService struct {
	mu sync.Mutex

	result  *billing.PredictionResult
	predErr error
	tips    billing.TipsResult
	tipsErr error

	payloads    []form.Payload
	tipsReqs    []billing.TipsRequest
	predictions int
}

func (f *fakeService) SubmitPrediction(ctx context.Context, payload form.Payload) (*billing.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictions++
	f.payloads = append(f.payloads, payload)
	return f.result, f.predErr
}

func (f *fakeService) FetchTips(ctx context.Context, req billing.TipsRequest) (billing.TipsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tipsReqs = append(f.tipsReqs, req)
	return f.tips, f.tipsErr
}

func samplePrediction() *billing.PredictionResult {
	return &billing.PredictionResult{
		PredictedAmount: billing.RawValue("125.50"),
		RawUnits:        billing.RawValue("210"),
		Tariff:          billing.StringValue("domestic"),
		Breakdown: billing.Breakdown{
			Load:   billing.RawValue("2"),
			Units:  billing.RawValue("210"),
			Energy: billing.RawValue("1000"),
			Fixed:  billing.RawValue("50"),
			Duty:   billing.RawValue("20"),
		},
	}
}

// collectOutcomes runs cmd (and any batched commands) and returns the
// session outcomes it produced. Only use it on commands that do not sleep.
func collectOutcomes(cmd tea.Cmd) []outcomeMsg {
	if cmd == nil {
		return nil
	}
	var out []outcomeMsg
	switch msg := cmd().(type) {
	case outcomeMsg:
		out = append(out, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collectOutcomes(c)...)
		}
	}
	return out
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// press sends a key, applies any outcomes it triggers and returns the model
func press(t *testing.T, m tea.Model, k tea.KeyType) tea.Model {
	t.Helper()
	m, cmd := m.Update(keyMsg(k))
	for _, o := range collectOutcomes(cmd) {
		m, _ = m.Update(o)
	}
	return m
}

func newTestPredictModel(svc session.Service, profile *config.Profile) PredictModel {
	m := NewPredictModel(session.NewMachine(svc), profile, "http://127.0.0.1:5000")
	m.Width, m.Height = 100, 40
	return m
}

func TestPredictModel_PrefillFromProfile(t *testing.T) {
	profile := &config.Profile{Values: map[string]string{
		form.FieldTariff: "domestic",
		form.FieldLoad:   "2",
	}}
	m := newTestPredictModel(&fakeService{}, profile)

	payload := form.Collect(m)
	assert.Equal(t, "domestic", payload.Get(form.FieldTariff))
	assert.Equal(t, "2", payload.Get(form.FieldLoad))
	assert.True(t, payload.Has(form.FieldUnits))
	assert.Equal(t, "", payload.Get(form.FieldUnits))
}

func TestPredictModel_SubmitShowsResult(t *testing.T) {
	svc := &fakeService{result: samplePrediction()}
	var m tea.Model = newTestPredictModel(svc, nil)

	m = typeText(m, "domestic")
	m, _ = m.Update(keyMsg(tea.KeyTab))
	m = typeText(m, "2")
	m = press(t, m, tea.KeyEnter)

	pm := m.(PredictModel)
	require.Len(t, svc.payloads, 1)
	assert.Equal(t, "domestic", svc.payloads[0].Get(form.FieldTariff))
	assert.Equal(t, "2", svc.payloads[0].Get(form.FieldLoad))

	assert.Equal(t, session.PredictionShown, pm.Machine.State())
	view := pm.View()
	assert.Contains(t, view, "125.50")
	assert.Contains(t, view, "Energy charge")
	assert.Contains(t, view, "93.5%")
}

func TestPredictModel_ReportedErrorNotice(t *testing.T) {
	svc := &fakeService{predErr: billing.NewReportedError(billing.OpPredict, 200, "invalid load value")}
	var m tea.Model = newTestPredictModel(svc, nil)

	m = press(t, m, tea.KeyEnter)

	pm := m.(PredictModel)
	assert.Equal(t, session.PredictionFailed, pm.Machine.State())
	assert.Contains(t, pm.View(), "invalid load value")

	m = press(t, m, tea.KeyEsc)
	assert.Nil(t, m.(PredictModel).Machine.View().Notice)
}

func TestPredictModel_TipsGuard(t *testing.T) {
	svc := &fakeService{}
	var m tea.Model = newTestPredictModel(svc, nil)

	m, cmd := m.Update(keyMsg(tea.KeyCtrlT))
	assert.Nil(t, cmd)

	pm := m.(PredictModel)
	assert.Empty(t, svc.tipsReqs)
	require.NotNil(t, pm.Machine.View().Notice)
	assert.Contains(t, pm.View(), billing.GuardMessage)
}

func TestPredictModel_TipsAfterPrediction(t *testing.T) {
	svc := &fakeService{
		result: samplePrediction(),
		tips:   billing.TipsResult{"Use LED bulbs", "Run the AC at 24C"},
	}
	var m tea.Model = newTestPredictModel(svc, nil)

	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyCtrlT)

	pm := m.(PredictModel)
	require.Len(t, svc.tipsReqs, 1)
	assert.True(t, svc.tipsReqs[0].Amount.Equal(billing.RawValue("125.50")))

	v := pm.Machine.View()
	assert.Equal(t, session.TipsShown, v.State)
	assert.False(t, v.LoaderVisible)

	view := pm.View()
	assert.Contains(t, view, "💡 Use LED bulbs")
	assert.Contains(t, view, "💡 Run the AC at 24C")
}

func TestPredictModel_LoaderWhileTipsPending(t *testing.T) {
	svc := &fakeService{result: samplePrediction()}
	var m tea.Model = newTestPredictModel(svc, nil)

	m = press(t, m, tea.KeyEnter)
	m, _ = m.Update(keyMsg(tea.KeyCtrlT))

	pm := m.(PredictModel)
	assert.True(t, pm.Machine.View().LoaderVisible)
	assert.Contains(t, pm.View(), "Fetching saving tips...")
}

func TestPredictModel_IgnoresOutcomesFromOtherMachine(t *testing.T) {
	m := newTestPredictModel(&fakeService{}, nil)

	other := session.NewMachine(&fakeService{})
	updated, _ := m.Update(outcomeMsg{
		machine: other,
		outcome: session.PredictionOutcome{Seq: 1, Result: samplePrediction()},
	})

	assert.Nil(t, updated.(PredictModel).Machine.Current())
}

func TestPredictModel_FocusWraps(t *testing.T) {
	var m tea.Model = newTestPredictModel(&fakeService{}, nil)
	n := len(form.PredictionForm)

	for i := 0; i < n; i++ {
		m, _ = m.Update(keyMsg(tea.KeyTab))
	}
	assert.Equal(t, 0, m.(PredictModel).Focused())

	m, _ = m.Update(keyMsg(tea.KeyShiftTab))
	assert.Equal(t, n-1, m.(PredictModel).Focused())
}

func TestPredictModel_TypingDismissesNotice(t *testing.T) {
	var m tea.Model = newTestPredictModel(&fakeService{}, nil)

	m, _ = m.Update(keyMsg(tea.KeyCtrlT))
	require.NotNil(t, m.(PredictModel).Machine.View().Notice)

	m = typeText(m, "d")
	assert.Nil(t, m.(PredictModel).Machine.View().Notice)
}
