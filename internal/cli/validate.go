package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/babelgo/internal/config"
	"github.com/roach88/babelgo/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	PresetsDir string
	Config     string
}

// ValidationError is one problem found by validate.
type ValidationError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Checks  int               `json:"checks"`
	Presets int               `json:"presets"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <suite>",
		Short: "Validate check files without running them",
		Long: `Validate check YAML files, CUE preset definitions and an options file
without compiling anything.

Every check file is parsed and validated so all problems are reported in
one pass. Faster than test for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PresetsDir, "presets-dir", "", "directory or file of CUE preset definitions")
	cmd.Flags().StringVar(&opts.Config, "config", "", "options file to validate")

	return cmd
}

func runValidate(opts *ValidateOptions, suitePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := checkFiles(suitePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("suite not found: %s", suitePath), nil)
		}
		return formatter.Fail(ErrCodeReadFailed, "failed to read suite", err)
	}
	if len(files) == 0 {
		return formatter.Fail(ErrCodeNoFiles, fmt.Sprintf("no checks found in %s", suitePath), nil)
	}
	formatter.VerboseLog("Found %d check file(s) in %s", len(files), suitePath)

	result := ValidationResult{}
	for _, file := range files {
		formatter.VerboseLog("Validating check: %s", file)
		if _, err := harness.LoadCheck(file); err != nil {
			result.Errors = append(result.Errors, ValidationError{Path: file, Code: ErrCodeInvalidConfig, Message: err.Error()})
			continue
		}
		result.Checks++
	}
	if len(result.Errors) == 0 {
		// Cross-file rules such as unique names.
		if _, err := harness.LoadSuite(suitePath); err != nil {
			result.Errors = append(result.Errors, ValidationError{Path: suitePath, Code: ErrCodeInvalidConfig, Message: err.Error()})
		}
	}

	if opts.PresetsDir != "" {
		formatter.VerboseLog("Validating presets: %s", opts.PresetsDir)
		specs, err := config.LoadPresets(opts.PresetsDir)
		if err != nil {
			result.Errors = append(result.Errors, presetError(opts.PresetsDir, err))
		} else {
			result.Presets = len(specs)
		}
	}

	if opts.Config != "" {
		formatter.VerboseLog("Validating options: %s", opts.Config)
		if _, err := config.LoadBabelrc(opts.Config); err != nil {
			result.Errors = append(result.Errors, ValidationError{Path: opts.Config, Code: ErrCodeInvalidConfig, Message: err.Error()})
		}
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

// checkFiles lists the check files of a suite directory, or the path itself
// when it names a file.
func checkFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return files, nil
}

func presetError(path string, err error) ValidationError {
	verr := ValidationError{Path: path, Code: ErrCodeInvalidConfig, Message: err.Error()}
	var cerr *config.CompileError
	var cycle *config.CycleError
	switch {
	case errors.As(err, &cerr):
		verr.Line = getLineFromCuePos(cerr.Pos)
	case errors.As(err, &cycle):
		verr.Line = getLineFromCuePos(cycle.Pos)
	}
	return verr
}

// getLineFromCuePos extracts line number from a token.Pos.
func getLineFromCuePos(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "All valid: %d check(s), %d preset(s)\n", result.Checks, result.Presets)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.Path, err.Line)
		} else {
			fmt.Fprintln(formatter.Writer, err.Path)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
