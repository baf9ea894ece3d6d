package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/session"
)

// Printer provides methods for printing UI components to a writer.
// CLI commands use it for all styled output.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintFailure prints a failure result box with troubleshooting tips
func (p *Printer) PrintFailure(title, message string, troubleshooting []string) {
	p.Println(NewFailureResult(title, message, troubleshooting).SetWidth(p.width).Render())
}

// PrintError prints err as a failure box, using the notice text and hints
// of billing errors.
func (p *Printer) PrintError(title string, err error) {
	if err == nil {
		return
	}
	p.PrintFailure(title, billing.GetShortErrorMessage(err), billing.GetTroubleshootingHints(err))
}

// PrintPrediction prints the predicted amount and its breakdown
func (p *Printer) PrintPrediction(result *billing.PredictionResult) {
	if result == nil {
		return
	}
	p.Println(RenderPrediction(result, p.width))
}

// PrintTips prints the tips list
func (p *Printer) PrintTips(tips []string) {
	p.Println(RenderTips(tips, p.width))
}

// PrintNotice prints a session notice
func (p *Printer) PrintNotice(n *session.Notice) {
	if n == nil {
		return
	}
	if n.Kind == billing.ErrTypeGuard || billing.IsGuardError(n.Err) {
		p.PrintWarning(n.Message)
		return
	}
	var hints []string
	if n.Err != nil {
		hints = billing.GetTroubleshootingHints(n.Err)
	}
	p.PrintFailure(n.Kind.String(), n.Message, hints)
}

// PrintView prints the visible regions of a session view
func (p *Printer) PrintView(v session.View) {
	if v.Notice != nil {
		p.PrintNotice(v.Notice)
	}
	if v.ResultVisible {
		p.PrintPrediction(v.Result)
	}
	if v.TipsListVisible {
		p.PrintTips(v.Tips)
	}
}
