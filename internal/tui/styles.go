package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/billwise/internal/ui"
	"github.com/muurk/billwise/internal/version"
)

// Application branding constants
const (
	AppName   = "BILLWISE"
	GitHubURL = "github.com/muurk/billwise"
)

// AppVersion is shown in the header
func AppVersion() string {
	return version.Get().Version
}

// The TUI needs more room than CLI output
const (
	MinTerminalWidth = 72
	MaxContentWidth  = 120
)

// Colors follow the CLI palette so both front ends look alike.
var (
	PrimaryColor   = ui.PrimaryColor
	SecondaryColor = ui.SuccessColor
	AccentColor    = ui.AccentColor
	WarningColor   = ui.WarningColor
	ErrorColor     = ui.ErrorColor
	TextColor      = ui.TextColor
	SubtleColor    = ui.MutedColor
	BorderColor    = ui.PrimaryColor
	HighlightColor = ui.SuccessColor
)

// Common styles
var (
	// Title style - bold, primary color
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0, 0, 0)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Label style for form inputs
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Width(24).
			PaddingLeft(2)

	// Focused label style
	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true).
				Width(24)

	// Hint style (allowed values, placeholders)
	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(26)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Panel style for the result and tips panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2).
			MarginLeft(2)

	// Amount style for the predicted amount
	AmountStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	// Key style for breakdown lines
	KeyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(20)

	// Value style for breakdown lines
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Share style for the percentage next to a charge
	ShareStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Valid field marker style
	ValidStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Invalid field marker style
	InvalidStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Error box style (notices)
	ErrorBoxStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 2).
			MarginLeft(2)

	// Warning box style (guard notices)
	WarningBoxStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(0, 2).
			MarginLeft(2)

	// Selected list item style
	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent(service string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	if service != "" {
		right = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Render("service: " + service)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// RenderApplicationContainer wraps every screen: application header, the
// screen's content and a context-sensitive footer, inside a bordered panel
// that fills the terminal.
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(content, m.Help.View(m.Keys), m.Service, m.Width, m.Height)
//	}
//
// A zero width or height (no tea.WindowSizeMsg yet) falls back to the
// minimum width and a content-sized height.
func RenderApplicationContainer(content, footerText, service string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent(service)),
		contentStyle.Render(content),
		footerStyle.Render(BuildFooterContent(footerText)),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		borderStyle = borderStyle.Height(terminalHeight - 2)
	}

	bordered := borderStyle.Render(innerContent)
	if terminalHeight <= 0 {
		return bordered
	}

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}

// panelWidth returns the inner width for panels on a screen of the given width
func panelWidth(terminalWidth int) int {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalWidth > MaxContentWidth {
		terminalWidth = MaxContentWidth
	}
	return terminalWidth - 12
}
