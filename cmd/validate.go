package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/bosun/validate"
)

var strict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate bosun.yaml and the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	result := &validate.ValidationResult{}

	data, err := os.ReadFile(cfgFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s not found; using defaults", cfgFile))
	case err != nil:
		return fmt.Errorf("reading config: %w", err)
	default:
		errs, err := validate.ValidateConfigDocument(data)
		if err != nil {
			return err
		}
		for _, e := range errs {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", cfgFile, e))
		}
	}

	if result.IsValid() {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		semantic := validate.ValidateConfig(cfg)
		result.Errors = append(result.Errors, semantic.Errors...)
		result.Warnings = append(result.Warnings, semantic.Warnings...)
	}

	stderr := cmd.ErrOrStderr()
	styles := stylesFor(stderr)
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "%s %s\n", styles.Warn.Render("WARNING:"), w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(stderr, "%s %s\n", styles.Error.Render("ERROR:"), e)
	}

	if strict && len(result.Warnings) > 0 {
		return fmt.Errorf("validation failed: %d warning(s) treated as errors in strict mode", len(result.Warnings))
	}

	if !result.IsValid() {
		return fmt.Errorf("validation failed: %d error(s)", len(result.Errors))
	}

	fmt.Fprintln(cmd.OutOrStdout(), stylesFor(cmd.OutOrStdout()).OK.Render("Validation passed."))
	return nil
}
