package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/form"
	"github.com/muurk/billwise/internal/session"
	"github.com/muurk/billwise/internal/ui"
)

// outcomeMsg carries the outcome of a session effect back to the update loop
type outcomeMsg struct {
	machine *session.Machine
	outcome session.Outcome
}

// runEffect runs eff as a Bubble Tea command. The outcome is tagged with the
// machine that issued it.
func runEffect(machine *session.Machine, eff session.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	return func() tea.Msg {
		return outcomeMsg{machine: machine, outcome: eff(context.Background())}
	}
}

// predictKeyMap defines key bindings for the prediction screen
type predictKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Tips     key.Binding
	Dismiss  key.Binding
	Signup   key.Binding
	Discover key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k predictKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Tips, k.Dismiss, k.Signup, k.Discover, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k predictKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit},
		{k.Tips, k.Dismiss},
		{k.Signup, k.Discover, k.Quit},
	}
}

func newPredictKeyMap() predictKeyMap {
	return predictKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "predict"),
		),
		Tips: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "saving tips"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Signup: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "sign up"),
		),
		Discover: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "find service"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// PredictModel is the prediction screen: the form, the result panel and the
// tips panel. All state changes go through the session Machine.
type PredictModel struct {
	Machine *session.Machine

	Inputs []textinput.Model
	defs   []form.Input
	focus  int

	// UI state
	Width    int
	Height   int
	Service  string
	Spinner  spinner.Model
	ShareBar progress.Model
	Help     help.Model
	Keys     predictKeyMap

	signupRequested   bool
	discoverRequested bool
}

// NewPredictModel creates the prediction screen. Inputs are pre-filled from
// profile when it is not nil.
func NewPredictModel(machine *session.Machine, profile *config.Profile, service string) PredictModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(
		progress.WithSolidFill(string(PrimaryColor)),
		progress.WithWidth(16),
		progress.WithoutPercentage(),
	)

	defs := form.PredictionForm
	inputs := make([]textinput.Model, len(defs))
	for i, def := range defs {
		in := textinput.New()
		in.Placeholder = def.Placeholder
		in.CharLimit = 32
		in.Width = 24
		in.Prompt = "› "
		if profile != nil {
			in.SetValue(profile.Values[def.Name])
		}
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	return PredictModel{
		Machine:  machine,
		Inputs:   inputs,
		defs:     defs,
		Service:  service,
		Spinner:  s,
		ShareBar: bar,
		Help:     help.New(),
		Keys:     newPredictKeyMap(),
	}
}

// Fields implements form.Source over the current inputs
func (m PredictModel) Fields() []form.Field {
	fields := make([]form.Field, len(m.defs))
	for i, def := range m.defs {
		fields[i] = form.Field{Name: def.Name, Value: m.Inputs[i].Value()}
	}
	return fields
}

// Focused returns the index of the focused input
func (m PredictModel) Focused() int {
	return m.focus
}

// Init initializes the prediction screen
func (m PredictModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m PredictModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case outcomeMsg:
		if msg.machine != m.Machine {
			// Issued before the service was switched
			return m, nil
		}
		m.Machine.Apply(msg.outcome)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.updateFocusedInput(msg)
}

// updateKeys handles keyboard input
func (m PredictModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Dismiss):
		m.Machine.DismissNotice()
		return m, nil

	case key.Matches(msg, m.Keys.Submit):
		eff := m.Machine.Submit(form.Collect(m))
		return m, tea.Batch(runEffect(m.Machine, eff), m.Spinner.Tick)

	case key.Matches(msg, m.Keys.Tips):
		eff, err := m.Machine.RequestTips()
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(runEffect(m.Machine, eff), m.Spinner.Tick)

	case key.Matches(msg, m.Keys.Next):
		m.Machine.DismissNotice()
		return m, m.setFocus(m.focus + 1)

	case key.Matches(msg, m.Keys.Prev):
		m.Machine.DismissNotice()
		return m, m.setFocus(m.focus - 1)

	case key.Matches(msg, m.Keys.Signup):
		m.signupRequested = true
		return m, nil

	case key.Matches(msg, m.Keys.Discover):
		m.discoverRequested = true
		return m, nil
	}

	m.Machine.DismissNotice()
	return m.updateFocusedInput(msg)
}

// updateFocusedInput passes msg to the focused text input
func (m PredictModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.Inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.Inputs[m.focus], cmd = m.Inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to input i, wrapping around
func (m *PredictModel) setFocus(i int) tea.Cmd {
	n := len(m.Inputs)
	if n == 0 {
		return nil
	}
	i = ((i % n) + n) % n

	m.Inputs[m.focus].Blur()
	m.focus = i
	return m.Inputs[m.focus].Focus()
}

// busy reports whether a request is in flight
func (m PredictModel) busy() bool {
	return m.Machine.State().IsPending()
}

// consumeSignupRequest reports and clears a pending request to open signup
func (m *PredictModel) consumeSignupRequest() bool {
	r := m.signupRequested
	m.signupRequested = false
	return r
}

// consumeDiscoverRequest reports and clears a pending request to open discovery
func (m *PredictModel) consumeDiscoverRequest() bool {
	r := m.discoverRequested
	m.discoverRequested = false
	return r
}

// View renders the prediction screen
func (m PredictModel) View() string {
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Service, m.Width, m.Height)
}

// buildContent builds the screen content without the container
func (m PredictModel) buildContent() string {
	v := m.Machine.View()
	width := panelWidth(m.Width)

	var b strings.Builder

	b.WriteString(RenderTitle("  Predict your electricity bill"))
	b.WriteString("\n\n")

	for i, def := range m.defs {
		label := LabelStyle.Render(def.Label)
		if i == m.focus {
			label = FocusedLabelStyle.Render("› " + def.Label)
		}
		b.WriteString(label)
		b.WriteString(m.Inputs[i].View())
		b.WriteString("\n")
		if len(def.Options) > 0 && i == m.focus {
			b.WriteString(HintStyle.Render(strings.Join(def.Options, " · ")))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if v.Notice != nil {
		b.WriteString(renderNotice(v.Notice, width))
		b.WriteString("\n\n")
	}

	if v.State == session.PredictionPending {
		b.WriteString(fmt.Sprintf("  %s Predicting...\n\n", m.Spinner.View()))
	}

	if v.ResultVisible {
		b.WriteString(m.renderResult(v.Result, width))
		b.WriteString("\n")
	}

	if v.TipsVisible {
		b.WriteString(m.renderTips(v, width))
		b.WriteString("\n")
	}

	return b.String()
}

// renderNotice renders a notice box
func renderNotice(n *session.Notice, width int) string {
	if n.Kind == billing.ErrTypeGuard {
		return WarningBoxStyle.Width(width).Render("⚠ " + n.Message)
	}
	return ErrorBoxStyle.Width(width).Render("✗ " + n.Message + "\n" + SubtitleStyle.Render("esc to dismiss"))
}

// renderResult renders the result panel with the breakdown and charge shares
func (m PredictModel) renderResult(result *billing.PredictionResult, width int) string {
	if result == nil {
		return ""
	}

	var lines []string
	lines = append(lines,
		KeyStyle.Render("Predicted amount")+AmountStyle.Render(result.PredictedAmount.String()),
		KeyStyle.Render("Tariff")+ValueStyle.Render(result.Tariff.String()),
		"",
	)

	shares, ok := ui.ChargeShares(result.Breakdown)
	byKey := make(map[string]ui.Share, len(shares))
	for _, s := range shares {
		byKey[s.Item.Key] = s
	}

	for _, item := range result.Breakdown.Items() {
		line := KeyStyle.Render(item.Label) + ValueStyle.Width(10).Render(item.Value.String())
		if s, found := byKey[item.Key]; ok && found {
			line += m.ShareBar.ViewAs(s.Fraction) + " " + ShareStyle.Render(s.Percent.StringFixed(1)+"%")
		}
		lines = append(lines, line)
	}

	return PanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderTips renders the tips panel: the loader while fetching, then the list
func (m PredictModel) renderTips(v session.View, width int) string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Saving tips"), "")

	if v.LoaderVisible {
		lines = append(lines, m.Spinner.View()+" Fetching saving tips...")
	}
	if v.TipsListVisible {
		for _, tip := range v.Tips {
			lines = append(lines, ui.FormatTip(tip))
		}
		if len(v.Tips) == 0 {
			lines = append(lines, SubtitleStyle.Render("(no tips)"))
		}
	}

	return PanelStyle.BorderForeground(AccentColor).Width(width).Render(strings.Join(lines, "\n"))
}
