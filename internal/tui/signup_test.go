package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/muurk/billwise/internal/signup"
)

func TestSignupModel_ValidatesAsTyped(t *testing.T) {
	var m tea.Model = NewSignupModel("")

	m = typeText(m, "ab")
	assert.Equal(t, signup.Invalid, m.(SignupModel).Form.EmailState())

	m = typeText(m, "@x.io")
	assert.Equal(t, signup.Valid, m.(SignupModel).Form.EmailState())
	assert.Equal(t, signup.Unset, m.(SignupModel).Form.PasswordState())

	m, _ = m.Update(keyMsg(tea.KeyTab))
	m = typeText(m, "secret12")
	assert.Equal(t, signup.Valid, m.(SignupModel).Form.PasswordState())

	m, _ = m.Update(keyMsg(tea.KeyTab))
	m = typeText(m, "secret1")
	assert.Equal(t, signup.Invalid, m.(SignupModel).Form.ConfirmState())

	m = typeText(m, "2")
	sm := m.(SignupModel)
	assert.Equal(t, signup.Valid, sm.Form.ConfirmState())
	assert.True(t, sm.Form.Valid())
	assert.Contains(t, sm.View(), "Ready to sign up")
}

func TestSignupModel_VisibilityToggle(t *testing.T) {
	var m tea.Model = NewSignupModel("")

	sm := m.(SignupModel)
	assert.Equal(t, textinput.EchoPassword, sm.Inputs[signupPassword].EchoMode)
	assert.Equal(t, textinput.EchoPassword, sm.Inputs[signupConfirm].EchoMode)
	assert.Equal(t, textinput.EchoNormal, sm.Inputs[signupEmail].EchoMode)
	assert.Contains(t, sm.View(), signup.LabelShow)

	m, _ = m.Update(keyMsg(tea.KeyCtrlV))
	sm = m.(SignupModel)
	assert.Equal(t, textinput.EchoNormal, sm.Inputs[signupPassword].EchoMode)
	assert.Equal(t, textinput.EchoNormal, sm.Inputs[signupConfirm].EchoMode)
	assert.Contains(t, sm.View(), signup.LabelHide)

	m, _ = m.Update(keyMsg(tea.KeyCtrlV))
	assert.Equal(t, textinput.EchoPassword, m.(SignupModel).Inputs[signupPassword].EchoMode)
}

func TestSignupModel_BackRequest(t *testing.T) {
	var m tea.Model = NewSignupModel("")
	m, _ = m.Update(keyMsg(tea.KeyEsc))

	sm := m.(SignupModel)
	assert.True(t, sm.consumeBackRequest())
	assert.False(t, sm.consumeBackRequest())
}
