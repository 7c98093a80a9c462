package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/config"
	"github.com/roach88/babelgo/internal/harness"
	"github.com/roach88/babelgo/internal/store"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter     string // regexp over check names
	Database   string // record the run here when set
	Registry   string // "fresh" | "shared"
	PresetsDir string
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <suite>",
		Short: "Run a suite of checks",
		Long: `Run the checks of a suite against the compiler.

A suite is a directory of check YAML files, run in file name order, or a
single check file. With --db the run and each result are recorded, and
checks that passed in the previous recorded run but fail now are reported
as regressions.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Command error (invalid paths, bad check files, etc.)

Examples:
  babelgo test ./checks
  babelgo test ./checks --filter "es2015"
  babelgo test ./checks --db results.db
  babelgo test ./checks --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only checks whose name matches this regexp")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record results in this SQLite database")
	cmd.Flags().StringVar(&opts.Registry, "registry", string(harness.PolicyFresh), "registry policy (fresh|shared)")
	cmd.Flags().StringVar(&opts.PresetsDir, "presets-dir", "", "directory or file of CUE preset definitions")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, suitePath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	policy, err := harness.ParsePolicy(opts.Registry)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, "invalid --registry", err)
	}
	runOpts := harness.RunOptions{Policy: policy, Logger: opts.logger()}

	if opts.Filter != "" {
		re, err := regexp.Compile(opts.Filter)
		if err != nil {
			return formatter.Fail(ErrCodeGeneric, "invalid --filter", err)
		}
		runOpts.Filter = re
	}

	if opts.PresetsDir != "" {
		if policy == harness.PolicyShared {
			specs, err := config.LoadPresets(opts.PresetsDir)
			if err != nil {
				return formatter.Fail(ErrCodeInvalidConfig, "failed to load presets", err)
			}
			config.Register(babel.Default, specs)
		} else {
			b, err := newCompiler(opts.RootOptions, opts.PresetsDir)
			if err != nil {
				return formatter.Fail(ErrCodeInvalidConfig, "failed to load presets", err)
			}
			runOpts.Babel = b
		}
	}

	suite, err := harness.LoadSuite(suitePath)
	if err != nil {
		return formatter.Fail(ErrCodeReadFailed, "failed to load suite", err)
	}
	formatter.VerboseLog("Loaded %d check(s) from %s", len(suite.Checks), suitePath)

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ErrCodeStoreFailed, "failed to open database", err)
		}
		defer st.Close()
		runOpts.Store = st
	}

	report, err := harness.Run(ctx, suite, runOpts)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, "suite run failed", err)
	}

	if opts.Format == "json" {
		return outputTestJSON(formatter.Writer, report)
	}
	return outputTestText(formatter.Writer, report)
}

func outputTestJSON(w io.Writer, report *harness.Report) error {
	response := CLIResponse{
		Status: "ok",
		Data:   report,
		RunID:  report.RunID,
	}
	if !report.OK() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_CHECK_FAILED",
			Message: fmt.Sprintf("%d check(s) failed", report.Failed),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}
	if !report.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d check(s) failed", report.Failed))
	}
	return nil
}

func outputTestText(w io.Writer, report *harness.Report) error {
	for _, r := range report.Results {
		if r.Pass {
			fmt.Fprintf(w, "PASS %s\n", r.Name)
			continue
		}
		fmt.Fprintf(w, "FAIL %s\n", r.Name)
		for _, line := range strings.Split(strings.TrimRight(r.Failure, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total (run %s)\n",
		report.Passed, report.Failed, len(report.Results), report.RunID)
	if len(report.Regressions) > 0 {
		fmt.Fprintf(w, "Regressions: %s\n", strings.Join(report.Regressions, ", "))
	}

	if !report.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d check(s) failed", report.Failed))
	}
	fmt.Fprintln(w, "All checks passed")
	return nil
}
