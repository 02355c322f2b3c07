package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rtikit/internal/fom"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                  `json:"valid"`
	Modules []string              `json:"modules"`
	Errors  []fom.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [module]...",
		Short: "Validate FOM modules",
		Long: `Validate FOM modules (OMT XML or CUE) as one federation object model.

Every problem is reported, not just the first: bad sizes, endianness and
cardinalities, undefined or wrongly classed references, overlapping
variant alternatives, duplicate names and datatype cycles.

Without arguments the modules listed under fom_modules in the config are
validated.

Exit codes:
  0 - All modules valid
  1 - Validation errors found
  2 - A module could not be read or parsed`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	paths, err := requireModulePaths(opts, formatter, paths)
	if err != nil {
		return err
	}
	modules, err := loadModules(cmd.Context(), opts, formatter, paths)
	if err != nil {
		return err
	}

	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Module
	}

	validationErrors := fom.Validate(modules...)
	if len(validationErrors) == 0 {
		// Member and class problems only surface when resolving.
		if _, err := fom.Resolve(modules...); err != nil {
			validationErrors = append(validationErrors, fom.ValidationError{
				Field:   "model",
				Message: err.Error(),
				Code:    fom.ErrCodeLoad,
			})
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, names, validationErrors)
	}
	return outputValidateSuccess(formatter, names)
}

func outputValidateSuccess(formatter *OutputFormatter, modules []string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Modules: modules})
	}

	fmt.Fprintf(formatter.Writer, "✓ All modules valid (%d)\n", len(modules))
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, modules []string, errs []fom.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Modules: modules, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.JSON(response); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return exitErr
}
