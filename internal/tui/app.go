package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/logging"
	"github.com/muurk/billwise/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenPredict   Screen = "predict"
	ScreenSignup    Screen = "signup"
	ScreenDiscovery Screen = "discovery"
)

// Options configures the application
type Options struct {
	// Client talks to the prediction service. Required.
	Client *billing.Client

	// Registry holds saved profiles and the service location. When nil,
	// nothing is persisted.
	Registry *config.Registry

	// Profile names the profile that pre-fills the form. Predictions made
	// while it is loaded are recorded against it.
	Profile string

	// Scan finds prediction services for the discovery screen
	Scan ScanFunc
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	PredictModel   PredictModel
	SignupModel    SignupModel
	DiscoveryModel DiscoveryModel

	// Shared application state
	client   *billing.Client
	registry *config.Registry
	profile  string
	scan     ScanFunc

	// UI state
	Width  int
	Height int
}

// NewAppModel creates the application, starting on the prediction screen
func NewAppModel(opts Options) AppModel {
	client := opts.Client
	if client == nil {
		client = billing.NewClient("")
	}

	var profile *config.Profile
	if opts.Registry != nil {
		if opts.Profile != "" {
			profile = opts.Registry.GetProfile(opts.Profile)
		} else {
			profile = opts.Registry.DefaultProfile()
			if profile != nil {
				opts.Profile = opts.Registry.Preferences.DefaultProfile
			}
		}
	}

	return AppModel{
		CurrentScreen: ScreenPredict,
		PredictModel:  NewPredictModel(session.NewMachine(client), profile, client.BaseURL),
		client:        client,
		registry:      opts.Registry,
		profile:       opts.Profile,
		scan:          opts.Scan,
	}
}

// Client returns the client in use
func (m AppModel) Client() *billing.Client {
	return m.client
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.PredictModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.PredictModel.Width, m.PredictModel.Height = msg.Width, msg.Height
		m.SignupModel.Width, m.SignupModel.Height = msg.Width, msg.Height
		if m.CurrentScreen == ScreenDiscovery {
			updated, cmd := m.DiscoveryModel.Update(msg)
			m.DiscoveryModel = updated.(DiscoveryModel)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case outcomeMsg:
		// Outcomes belong to the prediction screen whichever screen is showing
		return m.applyOutcome(msg)

	case spinner.TickMsg:
		// Spinners ignore ticks that carry another spinner's ID
		updated, predictCmd := m.PredictModel.Update(msg)
		m.PredictModel = updated.(PredictModel)
		var discoveryCmd tea.Cmd
		if m.CurrentScreen == ScreenDiscovery {
			updatedDiscovery, c := m.DiscoveryModel.Update(msg)
			m.DiscoveryModel = updatedDiscovery.(DiscoveryModel)
			discoveryCmd = c
		}
		return m, tea.Batch(predictCmd, discoveryCmd)
	}

	return m.updateCurrentScreen(msg)
}

// applyOutcome applies a session outcome and records new predictions
// against the loaded profile
func (m AppModel) applyOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	before := m.PredictModel.Machine.Current()

	updated, cmd := m.PredictModel.Update(msg)
	m.PredictModel = updated.(PredictModel)

	current := m.PredictModel.Machine.Current()
	if current != nil && current != before && m.registry != nil && m.profile != "" {
		m.registry.RecordPrediction(m.profile, current.PredictedAmount.String())
		if err := m.registry.Save(); err != nil {
			logging.Warn("Failed to save configuration", zap.Error(err))
		}
	}

	return m, cmd
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenPredict:
		updated, c := m.PredictModel.Update(msg)
		m.PredictModel = updated.(PredictModel)
		cmd = c

		if m.PredictModel.consumeSignupRequest() {
			return m.transitionTo(ScreenSignup)
		}
		if m.PredictModel.consumeDiscoverRequest() {
			return m.transitionTo(ScreenDiscovery)
		}

	case ScreenSignup:
		updated, c := m.SignupModel.Update(msg)
		m.SignupModel = updated.(SignupModel)
		cmd = c

		if m.SignupModel.consumeBackRequest() {
			return m.goBack()
		}

	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		if baseURL, ok := m.DiscoveryModel.consumeSelection(); ok {
			m.useService(baseURL)
			return m.goBack()
		}
		if m.DiscoveryModel.consumeBackRequest() {
			return m.goBack()
		}
	}

	return m, cmd
}

// useService switches to the service at baseURL. The prediction screen
// keeps its inputs but starts a fresh session, so in-flight requests to the
// old service cannot overwrite results from the new one.
func (m *AppModel) useService(baseURL string) {
	client := billing.NewClient(baseURL)
	if m.client != nil && m.client.HTTPClient != nil {
		client.SetTimeout(m.client.HTTPClient.Timeout)
	}
	m.client = client

	old := m.PredictModel
	m.PredictModel = NewPredictModel(session.NewMachine(client), nil, client.BaseURL)
	for i := range m.PredictModel.Inputs {
		if i < len(old.Inputs) {
			m.PredictModel.Inputs[i].SetValue(old.Inputs[i].Value())
		}
	}
	m.PredictModel.Width, m.PredictModel.Height = m.Width, m.Height

	logging.Info("Using prediction service", zap.String("url", client.BaseURL))

	if m.registry != nil {
		m.registry.SetService(client.BaseURL, m.registry.Timeout())
		if err := m.registry.Save(); err != nil {
			logging.Warn("Failed to save configuration", zap.Error(err))
		}
	}
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenPredict:
		cmd = m.PredictModel.Init()

	case ScreenSignup:
		m.SignupModel = NewSignupModel(m.client.BaseURL)
		m.SignupModel.Width, m.SignupModel.Height = m.Width, m.Height
		cmd = m.SignupModel.Init()

	case ScreenDiscovery:
		timeout := discoveryTimeout(m.registry)
		m.DiscoveryModel = NewDiscoveryModel(m.scan, timeout, m.client.BaseURL)
		if m.Width > 0 {
			updated, _ := m.DiscoveryModel.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
			m.DiscoveryModel = updated.(DiscoveryModel)
		}
		cmd = m.DiscoveryModel.Init()
	}

	return m, cmd
}

// goBack returns to the prediction screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	if m.CurrentScreen == ScreenPredict {
		return m, tea.Quit
	}
	return m.transitionTo(ScreenPredict)
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenPredict:
		return m.PredictModel.View()
	case ScreenSignup:
		return m.SignupModel.View()
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	default:
		return "Unknown screen"
	}
}
