package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/billwise/internal/discovery"
	"github.com/muurk/billwise/internal/ui"
)

// Discover command flags
var (
	discoverTimeout  int
	discoverInstance string
	discoverSave     bool
)

func init() {
	discoverCmd.Flags().IntVar(&discoverTimeout, "scan-timeout", 0, "Scan timeout in seconds (default from config, 5)")
	discoverCmd.Flags().StringVar(&discoverInstance, "instance", "", "Wait for the service with this instance name")
	discoverCmd.Flags().BoolVar(&discoverSave, "save", false, "Store the found service URL in the configuration")

	rootCmd.AddCommand(discoverCmd)
}

// discoverCmd finds prediction services on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find prediction services on the network",
	Long: `Find prediction services using mDNS/DNS-SD discovery.

Services advertise themselves as ` + discovery.ServiceType + `. TXT records
"path" and "version" are honoured when present.`,
	Example: `  # List services on the network
  billwise discover

  # Use the only service found from now on
  billwise discover --save

  # Wait for a named service and use it
  billwise discover --instance "Kitchen Meter" --save`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	timeout := registry.DiscoverTimeout()
	if discoverTimeout > 0 {
		timeout = time.Duration(discoverTimeout) * time.Second
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Service discovery", "billwise discover",
		ui.Detail{Key: "Service type", Value: discovery.ServiceType},
		ui.Detail{Key: "Timeout", Value: timeout.String()},
	)

	scanner := discovery.NewScanner()
	scanner.Timeout = timeout

	var services []*discovery.Service
	if discoverInstance != "" {
		svc, err := scanner.WaitForService(cmd.Context(), discoverInstance)
		if err != nil {
			printer.PrintFailure("Service not found", err.Error(), discoveryHints())
			return errReported
		}
		services = []*discovery.Service{svc}
	} else {
		services, err = scanner.Scan(cmd.Context())
		if err != nil {
			printer.PrintFailure("Scan failed", err.Error(), discoveryHints())
			return errReported
		}
	}

	if len(services) == 0 {
		printer.PrintWarning("No prediction services found",
			ui.Detail{Key: "Hint", Value: "use --url to point at a service directly"},
		)
		return nil
	}

	details := make([]ui.Detail, 0, len(services))
	for _, svc := range services {
		value := svc.BaseURL()
		if svc.Version != "" {
			value += "  (v" + svc.Version + ")"
		}
		details = append(details, ui.Detail{Key: svc.Instance, Value: value})
	}
	printer.PrintSuccess(fmt.Sprintf("Found %d service(s)", len(services)), details...)

	if !discoverSave {
		return nil
	}
	if len(services) > 1 {
		return fmt.Errorf("multiple services found. Use --instance to pick one")
	}

	registry.SetService(services[0].BaseURL(), registry.Timeout())
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	printer.PrintSuccess("Service saved", ui.Detail{Key: "URL", Value: registry.BaseURL()})
	return nil
}

func discoveryHints() []string {
	return []string{
		"Ensure the prediction service is running and advertising " + discovery.ServiceType,
		"Check that this machine is on the same network segment",
		"Try a longer --scan-timeout",
	}
}
