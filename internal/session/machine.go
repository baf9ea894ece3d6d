package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/form"
	"github.com/muurk/billwise/internal/logging"
)

// Service is the remote prediction service. *billing.Client implements it.
type Service interface {
	SubmitPrediction(ctx context.Context, payload form.Payload) (*billing.PredictionResult, error)
	FetchTips(ctx context.Context, req billing.TipsRequest) (billing.TipsResult, error)
}

// Effect performs the network call for one user action and reports its Outcome.
// Effects are safe to run on any goroutine; they do not touch the Machine.
type Effect func(ctx context.Context) Outcome

// Outcome is the result of an Effect, to be handed to Machine.Apply.
type Outcome interface {
	apply(m *Machine)
}

// PredictionOutcome is the result of a prediction request.
type PredictionOutcome struct {
	Seq    uint64
	Result *billing.PredictionResult
	Err    error
}

// TipsOutcome is the result of a tips request. Prediction identifies the
// stored prediction the request was built from.
type TipsOutcome struct {
	Seq        uint64
	Prediction uint64
	Tips       billing.TipsResult
	Err        error
}

// Notice is an error surfaced to the user. It stays until dismissed or until
// the next user action.
type Notice struct {
	Kind    billing.ErrorKind
	Message string
	Err     error
}

// View is a snapshot of every visible region.
type View struct {
	State State

	// Result panel
	ResultVisible bool
	Result        *billing.PredictionResult

	// Tips panel: the container, its loader and the list inside it
	TipsVisible     bool
	LoaderVisible   bool
	TipsListVisible bool
	Tips            []string

	Notice *Notice
}

// Amount returns the predicted amount as displayed, or "" with no result.
func (v View) Amount() string {
	if v.Result == nil {
		return ""
	}
	return v.Result.PredictedAmount.String()
}

// Breakdown returns the breakdown display fields, or nil with no result.
func (v View) Breakdown() []billing.BreakdownItem {
	if v.Result == nil {
		return nil
	}
	return v.Result.Breakdown.Items()
}

// Machine drives the prediction/tips cycle.
type Machine struct {
	svc   Service
	state State

	// current is the last successful prediction. It is overwritten by each
	// new success and never cleared.
	current *billing.PredictionResult
	// generation counts stored predictions; tips answer one generation.
	generation uint64

	view View

	predictSeq uint64
	tipsSeq    uint64
}

// NewMachine creates a Machine in the Idle state
func NewMachine(svc Service) *Machine {
	return &Machine{svc: svc, state: Idle}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Current returns the stored prediction, or nil if none succeeded yet.
func (m *Machine) Current() *billing.PredictionResult {
	return m.current
}

// View returns a snapshot of the visible regions.
func (m *Machine) View() View {
	v := m.view
	v.State = m.state
	if v.Tips != nil {
		v.Tips = append([]string{}, v.Tips...)
	}
	if v.Notice != nil {
		n := *v.Notice
		v.Notice = &n
	}
	return v
}

// DismissNotice hides the current notice.
func (m *Machine) DismissNotice() {
	m.view.Notice = nil
}

// Submit starts a prediction for payload. It is accepted in every state; a
// submission while another is pending issues a second request.
func (m *Machine) Submit(payload form.Payload) Effect {
	m.view.Notice = nil
	m.predictSeq++
	seq := m.predictSeq
	m.transition(PredictionPending, "submit", seq)

	svc := m.svc
	return func(ctx context.Context) Outcome {
		result, err := svc.SubmitPrediction(ctx, payload)
		return PredictionOutcome{Seq: seq, Result: result, Err: err}
	}
}

// RequestTips starts a tips request for the stored prediction.
// Without a stored prediction it fails with a guard error, sets the notice and
// returns no Effect.
func (m *Machine) RequestTips() (Effect, error) {
	m.view.Notice = nil

	if m.current == nil {
		err := billing.NewGuardError(billing.OpTips, billing.GuardMessage)
		m.setNotice(err)
		return nil, err
	}

	req := billing.TipsRequestFor(m.current)

	m.tipsSeq++
	seq := m.tipsSeq
	gen := m.generation
	m.view.TipsVisible = true
	m.view.LoaderVisible = true
	m.view.TipsListVisible = false
	m.view.Tips = nil
	m.transition(TipsPending, "tips", seq)

	svc := m.svc
	return func(ctx context.Context) Outcome {
		tips, err := svc.FetchTips(ctx, req)
		return TipsOutcome{Seq: seq, Prediction: gen, Tips: tips, Err: err}
	}, nil
}

// Apply folds the outcome of an Effect into the machine.
func (m *Machine) Apply(o Outcome) {
	if o == nil {
		return
	}
	o.apply(m)
}

func (o PredictionOutcome) apply(m *Machine) {
	if o.Seq != m.predictSeq {
		logging.Debug("Applying superseded prediction response",
			zap.Uint64("seq", o.Seq),
			zap.Uint64("latest", m.predictSeq),
		)
	}

	if o.Err != nil {
		m.setNotice(o.Err)
		m.transition(PredictionFailed, "prediction error", o.Seq)
		return
	}
	if o.Result == nil {
		m.setNotice(billing.NewSchemaError(billing.OpPredict, 0, "empty prediction"))
		m.transition(PredictionFailed, "prediction error", o.Seq)
		return
	}

	m.current = o.Result
	m.generation++
	m.view.ResultVisible = true
	m.view.Result = o.Result

	m.view.TipsVisible = false
	m.view.LoaderVisible = false
	m.view.TipsListVisible = false
	m.view.Tips = nil

	m.transition(PredictionShown, "prediction success", o.Seq)
}

func (o TipsOutcome) apply(m *Machine) {
	if o.Prediction != m.generation {
		logging.Debug("Dropping tips for a replaced prediction",
			zap.Uint64("seq", o.Seq),
			zap.Uint64("prediction", o.Prediction),
			zap.Uint64("current", m.generation),
		)
		return
	}
	if o.Seq != m.tipsSeq {
		logging.Debug("Applying superseded tips response",
			zap.Uint64("seq", o.Seq),
			zap.Uint64("latest", m.tipsSeq),
		)
	}

	m.view.LoaderVisible = false

	if o.Err != nil {
		m.view.TipsListVisible = false
		m.view.Tips = nil
		m.setNotice(o.Err)
		m.transition(TipsFailed, "tips error", o.Seq)
		return
	}

	m.view.Tips = append([]string{}, o.Tips...)
	m.view.TipsListVisible = true
	m.transition(TipsShown, "tips success", o.Seq)
}

func (m *Machine) setNotice(err error) {
	kind, ok := billing.KindOf(err)
	if !ok {
		kind = billing.ErrTypeTransport
	}
	msg := billing.GetShortErrorMessage(err)
	m.view.Notice = &Notice{Kind: kind, Message: msg, Err: err}
	logging.LogNotice(kind.String(), msg)
}

func (m *Machine) transition(to State, trigger string, seq uint64) {
	logging.LogTransition(m.state.String(), to.String(), trigger, seq)
	m.state = to
}
