package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/billwise/internal/signup"
	"github.com/muurk/billwise/internal/ui"
)

// Signup check flags
var (
	signupEmail    string
	signupPassword string
	signupConfirm  string
)

func init() {
	signupCheckCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCheckCmd.Flags().StringVar(&signupPassword, "password", "", "Password (prompted for when omitted on a terminal)")
	signupCheckCmd.Flags().StringVar(&signupConfirm, "confirm", "", "Password confirmation (prompted for when omitted on a terminal)")

	rootCmd.AddCommand(signupCheckCmd)
}

// signupCheckCmd validates signup details the way the signup screen does
var signupCheckCmd = &cobra.Command{
	Use:   "signup-check",
	Short: "Validate signup details",
	Long: fmt.Sprintf(`Check an email address and password against the signup rules:

  - email must contain "@" and "." and be longer than %d characters
  - password must be at least %d characters
  - confirmation must repeat the password`, signup.MinEmailLength, signup.MinPasswordLength),
	Args: cobra.NoArgs,
	RunE: runSignupCheck,
}

// readSecret prompts for a value without echo when stdin is a terminal
func readSecret(printer *ui.Printer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	printer.Print(prompt)
	b, err := term.ReadPassword(fd)
	printer.Newline()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", prompt, err)
	}
	return string(b), nil
}

func runSignupCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(cmd.OutOrStdout())

	var err error
	if !cmd.Flags().Changed("password") {
		if signupPassword, err = readSecret(printer, "Password: "); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("confirm") {
		if signupConfirm, err = readSecret(printer, "Confirm password: "); err != nil {
			return err
		}
	}

	f := signup.Check(signupEmail, signupPassword, signupConfirm)
	details := []ui.Detail{
		{Key: "Email", Value: f.EmailState().String()},
		{Key: "Password", Value: f.PasswordState().String()},
		{Key: "Confirm", Value: f.ConfirmState().String()},
	}

	if f.Valid() {
		printer.PrintSuccess("Signup details are valid", details...)
		return nil
	}

	printer.PrintWarning("Signup details are invalid", details...)
	return errReported
}
