package tui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/discovery"
)

// ScanFunc finds prediction services on the network
type ScanFunc func(ctx context.Context) ([]*discovery.Service, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	services []*discovery.Service
	err      error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Back},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// serviceItem wraps a Service for use with bubbles/list
type serviceItem struct {
	service *discovery.Service
}

// FilterValue implements list.Item
func (s serviceItem) FilterValue() string {
	return s.service.Instance + " " + s.service.IP + " " + s.service.Hostname
}

// Title returns the service name for list display
func (s serviceItem) Title() string {
	return s.service.Instance
}

// Description returns service details for list display
func (s serviceItem) Description() string {
	return s.service.BaseURL()
}

// serviceDelegate renders services as cards
type serviceDelegate struct {
	width int
}

func (d serviceDelegate) Height() int { return 5 } // Card height including borders

func (d serviceDelegate) Spacing() int { return 1 }

func (d serviceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d serviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(serviceItem)
	if !ok {
		return
	}
	svc := si.service
	selected := index == m.Index()

	version := svc.Version
	if version == "" {
		version = "Unknown"
	}

	var content strings.Builder
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + svc.Instance))
	} else {
		content.WriteString("  " + svc.Instance)
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  URL:     %s\n", svc.BaseURL()))
	content.WriteString(fmt.Sprintf("  Version: %s", version))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// DiscoveryModel is the service discovery screen
type DiscoveryModel struct {
	// Discovery state
	Scanning    bool
	ServiceList list.Model
	Err         error
	scan        ScanFunc
	scanTimeout time.Duration

	// Manual URL entry state
	ManualMode bool
	URLInput   textinput.Model

	// UI state
	Width         int
	Height        int
	Service       string
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap

	selected      string
	backRequested bool
}

// NewDiscoveryModel creates a new discovery screen model
func NewDiscoveryModel(scan ScanFunc, timeout time.Duration, service string) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://192.168.1.20:5000"
	urlInput.CharLimit = 256
	urlInput.Width = 40

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	serviceList := list.New([]list.Item{}, serviceDelegate{width: MinTerminalWidth}, 0, 0)
	serviceList.Title = "Prediction Services"
	serviceList.SetShowStatusBar(false)
	serviceList.SetFilteringEnabled(false)
	serviceList.SetShowHelp(false)
	serviceList.Styles.Title = TitleStyle

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return DiscoveryModel{
		ServiceList: serviceList,
		scan:        scan,
		scanTimeout: timeout,
		URLInput:    urlInput,
		Service:     service,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "use service"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter URL"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc", "q"),
				key.WithHelp("esc", "back"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanServices(),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ServiceList.SetDelegate(serviceDelegate{width: msg.Width})
		m.ServiceList.SetWidth(msg.Width - 4)
		m.ServiceList.SetHeight(msg.Height - 10) // Leave room for header/footer
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.services))
		for i, svc := range msg.services {
			items[i] = serviceItem{service: svc}
		}
		m.ServiceList.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in normal list mode
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.backRequested = true
		return m, nil

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()
	}

	if m.Scanning {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.ServiceList.SelectedItem().(serviceItem); ok {
			m.selected = item.service.BaseURL()
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.ServiceList.SetItems([]list.Item{})
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			m.scanServices(),
			m.Spinner.Tick,
		)
	}

	var cmd tea.Cmd
	m.ServiceList, cmd = m.ServiceList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		m.Err = nil
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.URLInput.Value())
		if err := validateServiceURL(value); err != nil {
			m.Err = err
			return m, nil
		}
		m.selected = strings.TrimRight(value, "/")
		m.ManualMode = false
		m.URLInput.Blur()
		m.Err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// validateServiceURL checks a manually entered service URL
func validateServiceURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// consumeSelection returns the chosen service URL, if any, and clears it
func (m *DiscoveryModel) consumeSelection() (string, bool) {
	s := m.selected
	m.selected = ""
	return s, s != ""
}

// consumeBackRequest reports and clears a pending request to leave the screen
func (m *DiscoveryModel) consumeBackRequest() bool {
	r := m.backRequested
	m.backRequested = false
	return r
}

// scanServices returns a command that performs service discovery
func (m DiscoveryModel) scanServices() tea.Cmd {
	scan := m.scan
	timeout := m.scanTimeout
	return func() tea.Msg {
		if scan == nil {
			return scanCompleteMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
		defer cancel()
		services, err := scan(ctx)
		return scanCompleteMsg{services: services, err: err}
	}
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderServiceResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Service, m.Width, m.Height)
}

// renderScanning renders a centered scanning progress display
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := float64(elapsed) / float64(m.scanTimeout)
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR PREDICTION SERVICES", m.Spinner.View())),
		"",
		SubtitleStyle.Render("Looking for "+discovery.ServiceType+" on your network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderServiceResults renders the service list or a "nothing found" message
func (m DiscoveryModel) renderServiceResults() string {
	var b strings.Builder
	b.WriteString("\n")

	troubleshooting := func() {
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the prediction service is running\n")
		b.WriteString("    • Check it advertises " + discovery.ServiceType + " over mDNS\n")
		b.WriteString("    • Press m to enter its URL by hand\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(ErrorBoxStyle.Render(fmt.Sprintf("✗ Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		troubleshooting()

	case len(m.ServiceList.Items()) == 0:
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warningStyle.Render("⚠ No prediction services found on your network"))
		b.WriteString("\n\n")
		troubleshooting()

	default:
		b.WriteString(m.ServiceList.View())
	}

	return b.String()
}

// renderManualEntry renders the manual URL entry dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderSubtitle("  Enter the prediction service URL"))
	b.WriteString("\n\n")
	b.WriteString("  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(InvalidStyle.Render("  ✗ " + m.Err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

// discoveryTimeout returns the scan timeout from r, or the default
func discoveryTimeout(r *config.Registry) time.Duration {
	if r == nil {
		return discovery.DefaultScanTimeout
	}
	return r.DiscoverTimeout()
}
