package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/billwise/internal/signup"
)

// Signup inputs, in focus order
const (
	signupEmail = iota
	signupPassword
	signupConfirm
	signupInputCount
)

// signupKeyMap defines key bindings for the signup screen
type signupKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k signupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k signupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Toggle, k.Back, k.Quit},
	}
}

// SignupModel is the signup screen. Fields are validated as they are typed;
// nothing is sent anywhere.
type SignupModel struct {
	Form       signup.Form
	Visibility signup.Visibility
	Inputs     [signupInputCount]textinput.Model
	focus      int

	// UI state
	Width   int
	Height  int
	Service string
	Help    help.Model
	Keys    signupKeyMap

	backRequested bool
}

// NewSignupModel creates the signup screen with masked password inputs
func NewSignupModel(service string) SignupModel {
	var inputs [signupInputCount]textinput.Model
	placeholders := [signupInputCount]string{"you@example.com", "at least 8 characters", "repeat password"}
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		in.Width = 32
		in.Prompt = "› "
		inputs[i] = in
	}
	inputs[signupEmail].Focus()

	m := SignupModel{
		Inputs:  inputs,
		Service: service,
		Help:    help.New(),
		Keys: signupKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "down", "enter"),
				key.WithHelp("tab", "next field"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab", "previous field"),
			),
			Toggle: key.NewBinding(
				key.WithKeys("ctrl+v"),
				key.WithHelp("ctrl+v", "show/hide password"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "back"),
			),
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c"),
				key.WithHelp("ctrl+c", "quit"),
			),
		},
	}
	m.applyVisibility()
	return m
}

// Init initializes the signup screen
func (m SignupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m SignupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Back):
			m.backRequested = true
			return m, nil

		case key.Matches(msg, m.Keys.Toggle):
			m.Visibility.Toggle()
			m.applyVisibility()
			return m, nil

		case key.Matches(msg, m.Keys.Next):
			return m, m.setFocus(m.focus + 1)

		case key.Matches(msg, m.Keys.Prev):
			return m, m.setFocus(m.focus - 1)
		}
	}

	before := m.Inputs[m.focus].Value()

	var cmd tea.Cmd
	m.Inputs[m.focus], cmd = m.Inputs[m.focus].Update(msg)

	if value := m.Inputs[m.focus].Value(); value != before {
		m.edit(m.focus, value)
	}
	return m, cmd
}

// edit records an edit of input i in the validation form
func (m *SignupModel) edit(i int, value string) {
	switch i {
	case signupEmail:
		m.Form.SetEmail(value)
	case signupPassword:
		m.Form.SetPassword(value)
	case signupConfirm:
		m.Form.SetConfirm(value)
	}
}

// applyVisibility sets the echo mode of both password inputs
func (m *SignupModel) applyVisibility() {
	mode := textinput.EchoNormal
	if m.Visibility.Masked() {
		mode = textinput.EchoPassword
	}
	for _, i := range []int{signupPassword, signupConfirm} {
		m.Inputs[i].EchoMode = mode
		m.Inputs[i].EchoCharacter = '•'
	}
}

// setFocus moves focus to input i, wrapping around
func (m *SignupModel) setFocus(i int) tea.Cmd {
	i = ((i % signupInputCount) + signupInputCount) % signupInputCount
	m.Inputs[m.focus].Blur()
	m.focus = i
	return m.Inputs[m.focus].Focus()
}

// consumeBackRequest reports and clears a pending request to leave the screen
func (m *SignupModel) consumeBackRequest() bool {
	r := m.backRequested
	m.backRequested = false
	return r
}

// View renders the signup screen
func (m SignupModel) View() string {
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Service, m.Width, m.Height)
}

// buildContent builds the screen content without the container
func (m SignupModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("  Create an account"))
	b.WriteString("\n\n")

	labels := [signupInputCount]string{"Email", "Password", "Confirm password"}
	states := [signupInputCount]signup.FieldState{m.Form.EmailState(), m.Form.PasswordState(), m.Form.ConfirmState()}

	for i := range m.Inputs {
		label := LabelStyle.Render(labels[i])
		if i == m.focus {
			label = FocusedLabelStyle.Render("› " + labels[i])
		}
		b.WriteString(label)
		b.WriteString(m.Inputs[i].View())
		b.WriteString(" ")
		b.WriteString(renderFieldState(states[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HintStyle.Render("password: " + m.Visibility.Label()))
	b.WriteString("\n\n")

	if m.Form.Valid() {
		b.WriteString(ValidStyle.Render("  ✓ Ready to sign up"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFieldState renders the validation mark next to an input
func renderFieldState(s signup.FieldState) string {
	switch s {
	case signup.Valid:
		return ValidStyle.Render("✓")
	case signup.Invalid:
		return InvalidStyle.Render("✗")
	default:
		return ""
	}
}
