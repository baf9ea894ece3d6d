package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Loader is the "please wait" indicator shown while tips are fetched.
// On a terminal it animates; otherwise it prints the message once so logs
// and pipes still show what happened.
type Loader struct {
	message string
	out     *os.File
	spin    *spinner.Spinner
	running bool
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewLoader creates a loader writing to out (os.Stderr if nil)
func NewLoader(out *os.File, message string) *Loader {
	if out == nil {
		out = os.Stderr
	}
	l := &Loader{message: message, out: out}
	if IsTerminal(out) {
		l.spin = spinner.New(
			spinner.CharSets[14],
			100*time.Millisecond,
			spinner.WithWriterFile(out),
			spinner.WithSuffix(" "+message),
			spinner.WithColor("magenta"),
		)
	}
	return l
}

// Start shows the loader. Calling Start on a running loader does nothing.
func (l *Loader) Start() {
	if l.running {
		return
	}
	l.running = true
	if l.spin != nil {
		l.spin.Start()
		return
	}
	_, _ = fmt.Fprintln(l.out, l.message)
}

// Stop hides the loader.
func (l *Loader) Stop() {
	if !l.running {
		return
	}
	l.running = false
	if l.spin != nil {
		l.spin.Stop()
	}
}

// Visible reports whether the loader is shown
func (l *Loader) Visible() bool {
	return l.running
}

// Animated reports whether the loader draws a spinner
func (l *Loader) Animated() bool {
	return l.spin != nil
}
