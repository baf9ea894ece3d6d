// Package signup validates the account signup form as the user types.
//
// Validation is advisory: each field is marked Valid or Invalid once edited,
// and nothing is sent anywhere.
package signup

import (
	"strings"
	"unicode/utf16"
)

const (
	// MinEmailLength is exclusive: an email needs more characters than this
	MinEmailLength = 5

	// MinPasswordLength is inclusive
	MinPasswordLength = 8
)

// FieldState is the validation mark of one field.
type FieldState int

const (
	// Unset means the field was never edited
	Unset FieldState = iota
	Valid
	Invalid
)

// String returns the state name
func (s FieldState) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unset"
	}
}

func stateOf(ok bool) FieldState {
	if ok {
		return Valid
	}
	return Invalid
}

// Length is the length of s in UTF-16 code units, the unit browsers count
// form input length in. A character outside the Basic Multilingual Plane,
// such as most emoji, counts twice.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// ValidEmail reports whether s looks like an email address: it contains '@'
// and '.' and is longer than MinEmailLength characters.
func ValidEmail(s string) bool {
	return strings.ContainsRune(s, '@') && strings.ContainsRune(s, '.') && Length(s) > MinEmailLength
}

// ValidPassword reports whether s has at least MinPasswordLength characters.
func ValidPassword(s string) bool {
	return Length(s) >= MinPasswordLength
}

// ValidConfirm reports whether confirm repeats password and is not empty.
func ValidConfirm(password, confirm string) bool {
	return confirm != "" && password == confirm
}

// Form holds the signup inputs and their validation marks.
type Form struct {
	email    string
	password string
	confirm  string

	emailState    FieldState
	passwordState FieldState
	confirmState  FieldState
}

// SetEmail records an edit of the email field and re-validates it.
func (f *Form) SetEmail(v string) FieldState {
	f.email = v
	f.emailState = stateOf(ValidEmail(v))
	return f.emailState
}

// SetPassword records an edit of the password field. The confirmation field
// is re-validated too, since it depends on the password.
func (f *Form) SetPassword(v string) (password, confirm FieldState) {
	f.password = v
	f.passwordState = stateOf(ValidPassword(v))
	f.confirmState = stateOf(ValidConfirm(f.password, f.confirm))
	return f.passwordState, f.confirmState
}

// SetConfirm records an edit of the confirmation field and re-validates it.
func (f *Form) SetConfirm(v string) FieldState {
	f.confirm = v
	f.confirmState = stateOf(ValidConfirm(f.password, f.confirm))
	return f.confirmState
}

func (f *Form) Email() string    { return f.email }
func (f *Form) Password() string { return f.password }
func (f *Form) Confirm() string  { return f.confirm }

func (f *Form) EmailState() FieldState    { return f.emailState }
func (f *Form) PasswordState() FieldState { return f.passwordState }
func (f *Form) ConfirmState() FieldState  { return f.confirmState }

// Valid reports whether every field is marked Valid.
func (f *Form) Valid() bool {
	return f.emailState == Valid && f.passwordState == Valid && f.confirmState == Valid
}

// Check validates all three values at once, as if each had been typed in
// order, and returns the resulting form.
func Check(email, password, confirm string) *Form {
	f := &Form{}
	f.SetEmail(email)
	f.SetPassword(password)
	f.SetConfirm(confirm)
	return f
}
