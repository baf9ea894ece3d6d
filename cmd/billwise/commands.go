package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/discovery"
	"github.com/muurk/billwise/internal/logging"
	"github.com/muurk/billwise/internal/tui"
)

// errReported is returned by commands that have already shown the failure;
// main exits non-zero without printing it again.
var errReported = errors.New("failure already reported")

// Common flags (persistent on root)
var (
	serviceURL     string
	requestTimeout time.Duration
	logLevel       string
	logFile        string
	profileName    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceURL, "url", "", "Prediction service URL (default from config, then "+billing.DefaultBaseURL+")")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 0, "Request timeout, e.g. 10s (0 = no client-side timeout)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default $"+logging.LogLevelEnvVar+", silent if unset)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (interactive mode defaults to billwise.log in the config directory)")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "Profile used to pre-fill the form (default: the default profile)")
}

// setupLogging initializes logging before any command runs. The interactive
// client never logs to the terminal it draws on.
func setupLogging(cmd *cobra.Command, args []string) error {
	output := logFile
	if output == "" {
		output = "stderr"
		if cmd == rootCmd {
			output = defaultLogFile()
		}
	}
	return logging.InitializeWithOutput(logLevel, output)
}

// defaultLogFile returns the log path used by the interactive client
func defaultLogFile() string {
	dir, err := config.GetConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "billwise.log")
}

// loadRegistry loads the user configuration
func loadRegistry() (*config.Registry, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return registry, nil
}

// newClient creates the service client. Flags take precedence over the
// configuration file.
func newClient(registry *config.Registry) *billing.Client {
	baseURL := serviceURL
	if baseURL == "" && registry != nil {
		baseURL = registry.BaseURL()
	}

	timeout := requestTimeout
	if timeout == 0 && registry != nil {
		timeout = registry.Timeout()
	}

	client := billing.NewClient(baseURL)
	client.SetTimeout(timeout)

	logging.Debug("Using prediction service",
		zap.String("url", client.BaseURL),
		zap.Duration("timeout", timeout),
	)
	return client
}

// runInteractive launches the interactive client
func runInteractive(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	if profileName != "" && registry.GetProfile(profileName) == nil {
		return fmt.Errorf("profile %q not found", profileName)
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = registry.DiscoverTimeout()

	model := tui.NewAppModel(tui.Options{
		Client:   newClient(registry),
		Registry: registry,
		Profile:  profileName,
		Scan:     scanner.Scan,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive client error: %w", err)
	}
	return nil
}
