// Billwise is a terminal client for an electricity bill prediction service.
//
// It submits household consumption details to the service, shows the
// predicted bill with its breakdown, and fetches saving tips for the latest
// prediction. Saved profiles pre-fill the form; prediction services on the
// local network can be found over mDNS.
//
// Usage:
//
//	billwise [command] [flags]
//
// Running without arguments launches the interactive client.
// See 'billwise --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/billwise/internal/logging"
	"github.com/muurk/billwise/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "billwise",
	Short: "Electricity bill prediction client",
	Long: `A terminal client for an electricity bill prediction service.

Enter your tariff category, sanctioned load and consumption to get a
predicted bill with its breakdown, then ask for tips on how to save.

If no command is specified, the interactive client will launch automatically.`,
	Version:           version.Get().Version,
	PersistentPreRunE: setupLogging,
	RunE:              runInteractive,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// main prints errors itself
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get())
	},
}
