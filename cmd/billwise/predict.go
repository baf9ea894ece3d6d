package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/billwise/internal/billing"
	"github.com/muurk/billwise/internal/config"
	"github.com/muurk/billwise/internal/form"
	"github.com/muurk/billwise/internal/logging"
	"github.com/muurk/billwise/internal/session"
	"github.com/muurk/billwise/internal/ui"
)

// Predict command flags
var (
	fieldFlags     []string
	predictProfile string
	withTips       bool
	outputFormat   string
	saveAs         string
)

func init() {
	predictCmd.Flags().StringArrayVarP(&fieldFlags, "field", "f", nil, "Form field as name=value (repeatable)")
	predictCmd.Flags().StringVarP(&predictProfile, "profile", "p", "", "Start from a saved profile (default: the default profile)")
	predictCmd.Flags().BoolVar(&withTips, "tips", false, "Also fetch saving tips for the prediction")
	predictCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
	predictCmd.Flags().StringVar(&saveAs, "save-profile", "", "Save the submitted fields as a profile with this name")

	rootCmd.AddCommand(predictCmd)
}

// predictCmd submits one prediction
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict an electricity bill",
	Long: `Submit the prediction form once and print the predicted bill.

Fields come from a saved profile (if any) and are overridden by --field.
The form fields are: ` + strings.Join(fieldNames(), ", ") + `.
Tariff categories: ` + strings.Join(form.TariffCategories, ", ") + `.

With --tips, saving tips for the prediction are fetched afterwards.`,
	Example: `  # Predict from explicit fields
  billwise predict -f tariff=domestic -f load=2 -f units=210

  # Predict from a saved profile and fetch tips
  billwise predict --profile home --tips

  # JSON output for scripting
  billwise predict --profile home --format json`,
	RunE: runPredict,
}

func fieldNames() []string {
	names := make([]string, len(form.PredictionForm))
	for i, def := range form.PredictionForm {
		names[i] = def.Name
	}
	return names
}

// parseFieldFlags turns name=value flags into form fields, in order
func parseFieldFlags(flags []string) (form.Fields, error) {
	fields := make(form.Fields, 0, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", f)
		}
		if _, known := form.Lookup(name); !known {
			logging.Warn("Submitting field the form does not define", zap.String("field", name))
		}
		fields = append(fields, form.Field{Name: name, Value: value})
	}
	return fields, nil
}

// buildPayload merges profile values with field flags. A flag replaces every
// profile value of the same name. Form inputs given by neither are submitted
// empty, as an untouched form would send them.
func buildPayload(profile *config.Profile, flags []string) (form.Payload, error) {
	overrides, err := parseFieldFlags(flags)
	if err != nil {
		return nil, err
	}

	payload := form.Collect(profile)
	replaced := make(map[string]bool)
	for _, f := range overrides {
		if !replaced[f.Name] {
			delete(payload, f.Name)
			replaced[f.Name] = true
		}
		payload[f.Name] = append(payload[f.Name], f.Value)
	}
	for _, def := range form.PredictionForm {
		if !payload.Has(def.Name) {
			payload[def.Name] = []string{""}
		}
	}
	return payload, nil
}

// resolveProfile returns the profile named by name, or the default profile
// when name is empty
func resolveProfile(registry *config.Registry, name string) (string, *config.Profile, error) {
	if name != "" {
		profile := registry.GetProfile(name)
		if profile == nil {
			return "", nil, fmt.Errorf("profile %q not found", name)
		}
		return name, profile, nil
	}
	if profile := registry.DefaultProfile(); profile != nil {
		return registry.Preferences.DefaultProfile, profile, nil
	}
	return "", nil, nil
}

// predictOutput is the JSON form of a prediction
type predictOutput struct {
	*billing.PredictionResult
	Tips []string `json:"tips,omitempty"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	if outputFormat != "detailed" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (use detailed or json)", outputFormat)
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	name, profile, err := resolveProfile(registry, predictProfile)
	if err != nil {
		return err
	}

	payload, err := buildPayload(profile, fieldFlags)
	if err != nil {
		return err
	}

	client := newClient(registry)
	printer := ui.NewPrinter(cmd.OutOrStdout())
	detailed := outputFormat == "detailed"

	if detailed {
		params := []ui.Detail{{Key: "Service", Value: client.BaseURL}}
		if name != "" {
			params = append(params, ui.Detail{Key: "Profile", Value: name})
		}
		for _, field := range payload.Names() {
			params = append(params, ui.Detail{Key: field, Value: strings.Join(payload[field], ", ")})
		}
		printer.PrintHeader("Bill prediction", "billwise predict", params...)
	}

	machine := session.NewMachine(client)
	loop := session.NewLoop(machine)
	ctx := cmd.Context()

	loop.Start(ctx, machine.Submit(payload))
	if err := loop.Drain(ctx, nil); err != nil {
		logging.Debug("Interrupted with requests in flight", zap.Int("pending", loop.Pending()))
		return err
	}

	view := machine.View()
	if detailed {
		printer.PrintView(view)
	}
	if view.Notice != nil {
		return requestFailed(cmd, detailed, "Prediction failed", view.Notice, client.BaseURL)
	}

	if err := recordPrediction(registry, name, saveAs, payload, view.Amount()); err != nil {
		logging.Warn("Failed to save configuration", zap.Error(err))
	}

	if withTips {
		view, err = fetchTips(ctx, machine, loop, detailed)
		if err != nil {
			return err
		}
		if view.Notice != nil {
			if detailed {
				printer.PrintNotice(view.Notice)
			}
			return requestFailed(cmd, detailed, "Tips failed", view.Notice, client.BaseURL)
		}
		if detailed {
			printer.PrintTips(view.Tips)
		}
	}

	if !detailed {
		return writeJSON(cmd.OutOrStdout(), predictOutput{PredictionResult: machine.Current(), Tips: view.Tips})
	}
	return nil
}

// fetchTips requests tips for the stored prediction, showing the loader
// while the request is in flight
func fetchTips(ctx context.Context, machine *session.Machine, loop *session.Loop, showLoader bool) (session.View, error) {
	eff, err := machine.RequestTips()
	if err != nil {
		return machine.View(), nil
	}

	var loader *ui.Loader
	if showLoader {
		loader = ui.NewLoader(os.Stderr, "Fetching saving tips...")
		loader.Start()
		defer loader.Stop()
	}

	loop.Start(ctx, eff)
	err = loop.Drain(ctx, func(v session.View) {
		if loader != nil && !v.LoaderVisible {
			loader.Stop()
		}
	})
	if err != nil {
		logging.Debug("Interrupted with requests in flight", zap.Int("pending", loop.Pending()))
	}
	return machine.View(), err
}

// requestFailed finishes a command whose request produced a notice. Detailed
// output has already shown it; JSON output reports it on stderr so stdout
// stays parseable.
func requestFailed(cmd *cobra.Command, detailed bool, title string, n *session.Notice, service string) error {
	if !detailed {
		ui.NewPrinter(cmd.ErrOrStderr()).PrintError(title, n.Err)
	}
	if billing.IsTransportError(n.Err) {
		logging.Warn("Prediction service unreachable", zap.String("service", service), zap.Error(n.Err))
	}
	return errReported
}

// recordPrediction saves the profile updates a successful prediction implies
func recordPrediction(registry *config.Registry, profile, saveAs string, payload form.Payload, amount string) error {
	changed := false
	if saveAs != "" {
		registry.SaveProfile(saveAs, payload)
		registry.RecordPrediction(saveAs, amount)
		changed = true
	}
	if profile != "" && profile != saveAs {
		registry.RecordPrediction(profile, amount)
		changed = true
	}
	if !changed {
		return nil
	}
	return registry.Save()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
