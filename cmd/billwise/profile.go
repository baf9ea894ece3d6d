package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/form"
	"github.com/muurk/billwise/internal/ui"
)

// Profile command flags
var (
	profileFields    []string
	profileForce     bool
	profileAsDefault bool
)

func init() {
	profileSaveCmd.Flags().StringArrayVarP(&profileFields, "field", "f", nil, "Form field as name=value (repeatable)")
	profileSaveCmd.Flags().BoolVar(&profileForce, "force", false, "Overwrite an existing profile without asking")
	profileSaveCmd.Flags().BoolVar(&profileAsDefault, "default", false, "Make this the default profile")
	profileDeleteCmd.Flags().BoolVar(&profileForce, "force", false, "Delete without asking")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileDefaultCmd)
	rootCmd.AddCommand(profileCmd)
}

// profileCmd groups profile management
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved household profiles",
	Long: `Profiles are named sets of prediction form values stored in the
configuration file. The default profile pre-fills the form in the
interactive client and in 'billwise predict'.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save form values as a profile",
	Example: `  # Save a household profile and make it the default
  billwise profile save home -f tariff=domestic -f load=2 -f units=210 --default`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileSave,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

var profileDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDefault,
}

// describeProfile renders profile values as a single line
func describeProfile(p *config.Profile) string {
	names := make([]string, 0, len(p.Values))
	for name := range p.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	for _, name := range names {
		parts = append(parts, name+"="+p.Values[name])
	}
	if p.LastAmount != "" {
		parts = append(parts, "last: "+p.LastAmount)
	}
	return strings.Join(parts, "  ")
}

func runProfileList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	names := registry.ProfileNames()
	if len(names) == 0 {
		printer.PrintWarning("No profiles saved",
			ui.Detail{Key: "Hint", Value: "billwise profile save <name> -f tariff=domestic ..."},
		)
		return nil
	}

	defaultName := ""
	if registry.Preferences != nil {
		defaultName = registry.Preferences.DefaultProfile
	}

	details := make([]ui.Detail, 0, len(names))
	for _, name := range names {
		label := name
		if name == defaultName {
			label += " *"
		}
		details = append(details, ui.Detail{Key: label, Value: describeProfile(registry.GetProfile(name))})
	}
	printer.PrintSuccess(fmt.Sprintf("%d profile(s)", len(names)), details...)
	return nil
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	name := args[0]

	fields, err := parseFieldFlags(profileFields)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields given (use -f name=value)")
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	if existing := registry.GetProfile(name); existing != nil && !profileForce {
		ok := printer.Confirm(os.Stdin, "Profile exists",
			[]string{fmt.Sprintf("Profile %q already holds: %s", name, describeProfile(existing))},
			"Overwrite it?")
		if !ok {
			return nil
		}
	}

	profile := registry.SaveProfile(name, form.Collect(fields))
	if profileAsDefault {
		registry.Preferences.DefaultProfile = name
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	printer.PrintSuccess("Profile saved",
		ui.Detail{Key: "Name", Value: name},
		ui.Detail{Key: "Values", Value: describeProfile(profile)},
	)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	name := args[0]

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	if registry.GetProfile(name) == nil {
		return fmt.Errorf("profile %q not found", name)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	if !profileForce {
		ok := printer.Confirm(os.Stdin, "Delete profile",
			[]string{fmt.Sprintf("Profile %q will be removed from the configuration", name)},
			"Delete it?")
		if !ok {
			return nil
		}
	}

	registry.DeleteProfile(name)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	printer.PrintSuccess("Profile deleted", ui.Detail{Key: "Name", Value: name})
	return nil
}

func runProfileDefault(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	name := args[0]

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	if registry.GetProfile(name) == nil {
		return fmt.Errorf("profile %q not found", name)
	}

	registry.Preferences.DefaultProfile = name
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Default profile set", ui.Detail{Key: "Name", Value: name})
	return nil
}
