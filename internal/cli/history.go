package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/babelgo/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Suite    string
	Limit    int
}

// RunDetail is the JSON payload for a single run.
type RunDetail struct {
	Run     store.Run           `json:"run"`
	Results []store.CheckResult `json:"results"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded suite runs",
		Long: `Show suite runs recorded with "test --db", newest first, or the check
results of one run.

Examples:
  babelgo history --db results.db
  babelgo history --db results.db --suite standalone --limit 5
  babelgo history --db results.db 01912345-6789-7abc-8def-0123456789ab`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "only show runs of this suite")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to show (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Open would create a missing database.
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if len(args) == 1 {
		return showRun(formatter, st, args[0], cmd)
	}

	runs, err := st.ListRuns(ctx, opts.Suite, opts.Limit)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, "failed to list runs", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{r.ID, r.Suite, r.Seq, r.Policy, r.Passed, r.Failed}
	}
	formatter.Table(table.Row{"Run", "Suite", "Seq", "Registry", "Passed", "Failed"}, rows)
	return nil
}

func showRun(formatter *OutputFormatter, st *store.Store, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("run not found: %s", id), nil)
	}
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, "failed to read run", err)
	}
	results, err := st.RunResults(ctx, id)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, "failed to read results", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunDetail{Run: run, Results: results})
	}

	fmt.Fprintf(formatter.Writer, "Run %s: suite %s, %d passed, %d failed (version %s)\n",
		run.ID, run.Suite, run.Passed, run.Failed, run.Version)
	rows := make([]table.Row, len(results))
	for i, r := range results {
		status := "PASS"
		if !r.Pass {
			status = "FAIL"
		}
		rows[i] = table.Row{r.Seq, r.Name, status, firstLine(r.Error)}
	}
	formatter.Table(table.Row{"Seq", "Check", "Result", "Error"}, rows)
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
