package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/marquee/internal/config"
	"github.com/roach88/marquee/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                `json:"valid"`
	Schema     string              `json:"schema"`
	Files      []string            `json:"files,omitempty"`
	Hash       string              `json:"hash,omitempty"`
	Displays   int                 `json:"displays"`
	Animations int                 `json:"animations"`
	Rotations  int                 `json:"rotations"`
	Errors     []*config.LoadError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-path]",
		Short: "Validate display configuration",
		Long: `Validate YAML and CUE display configuration without rendering.

Checks document syntax, duplicate ids across files, condition syntax,
rotation strategies, layer definitions, replacements and script
compilation. Every problem is reported, not just the first.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	path, err := opts.configPath(args)
	if err != nil {
		return fail(formatter, err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		code, message := errorParts(err)
		return outputValidateError(formatter, code, message)
	}
	formatter.VerboseLog("Found %d config file(s) in %s", len(loaded.Files), path)

	result := ValidationResult{
		Valid:      true,
		Schema:     ir.SchemaVersion,
		Files:      loaded.Files,
		Hash:       loaded.Hash,
		Displays:   len(loaded.Doc.Displays),
		Animations: len(loaded.Doc.Animations),
		Rotations:  len(loaded.Doc.Rotations),
	}
	for _, err := range config.Validate(loaded.Doc) {
		var le *config.LoadError
		if !errors.As(err, &le) {
			le = &config.LoadError{Code: config.ErrCodeGeneric, Message: err.Error()}
		}
		result.Errors = append(result.Errors, le)
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Config valid: %d display(s), %d animation(s), %d rotation(s) in %d file(s)\n",
		result.Displays, result.Animations, result.Rotations, len(result.Files))
	formatter.VerboseLog("hash %s", result.Hash)
	return nil
}

// outputValidateError outputs a single load error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.JSON() {
		err := formatter.Respond(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, le := range result.Errors {
		if le.Field != "" {
			fmt.Fprintf(formatter.Writer, "%s\n", le.Field)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", le.Code, le.Message)
	}
	return failure
}
