package signup

const (
	// LabelShow is displayed while the password is masked
	LabelShow = "visibility"

	// LabelHide is displayed while the password is shown in plain text
	LabelHide = "visibility_off"
)

// Visibility is the show/hide state of a password input. The zero value is masked.
type Visibility struct {
	plain bool
}

// Toggle flips between masked and plain text.
func (v *Visibility) Toggle() {
	v.plain = !v.plain
}

// Masked reports whether the password is hidden.
func (v Visibility) Masked() bool {
	return !v.plain
}

// Label returns the toggle's label for the current state.
func (v Visibility) Label() string {
	if v.plain {
		return LabelHide
	}
	return LabelShow
}
