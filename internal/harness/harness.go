package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/canon"
	"github.com/roach88/babelgo/internal/store"
	"github.com/roach88/babelgo/internal/testutil"
)

// Policy selects the registry a run compiles with.
type Policy string

const (
	// PolicyFresh gives each suite run its own registry seeded with the
	// builtins. Registrations made by one check are visible to the later
	// checks of the same run only.
	PolicyFresh Policy = "fresh"

	// PolicyShared runs against the process-wide babel.Default.
	PolicyShared Policy = "shared"
)

// ParsePolicy validates a policy name. An empty name means PolicyFresh.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFresh:
		return PolicyFresh, nil
	case PolicyShared:
		return PolicyShared, nil
	}
	return "", fmt.Errorf("unknown registry policy %q (expected fresh or shared)", s)
}

// RunOptions configure a suite run. The zero value runs every check with a
// fresh registry, without recording.
type RunOptions struct {
	Policy Policy

	// Filter selects checks by name. Nil runs all checks.
	Filter *regexp.Regexp

	// Babel overrides the compiler chosen by Policy.
	Babel *babel.Babel

	// Store records the run and its results when set.
	Store *store.Store

	Logger *slog.Logger
	Clock  Clock
	IDs    IDGenerator
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Policy == "" {
		o.Policy = PolicyFresh
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Clock == nil {
		o.Clock = testutil.NewDeterministicClock()
	}
	if o.IDs == nil {
		o.IDs = UUIDv7Generator{}
	}
	return o
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seq  int64  `json:"seq"`
	Pass bool   `json:"pass"`

	// Output is the compiled code, empty when the call failed.
	Output string `json:"output,omitempty"`

	// OutputHash identifies Output; equal hashes across runs mean the
	// compiler produced identical code.
	OutputHash string `json:"output_hash,omitempty"`

	// CallError is the error the call returned, if any.
	CallError string `json:"call_error,omitempty"`

	// Failure explains why the check failed. Empty when Pass is true.
	Failure string `json:"failure,omitempty"`
}

// Report is the outcome of a suite run.
type Report struct {
	RunID   string        `json:"run_id"`
	Suite   string        `json:"suite"`
	Policy  Policy        `json:"policy"`
	Results []CheckResult `json:"results"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`

	// Regressions names the checks that passed in the previous recorded run
	// and fail now. Only set when recording.
	Regressions []string `json:"regressions,omitempty"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return r.Failed == 0 }

// Run executes the checks of suite in order and returns the report.
//
// Check failures are reported in the result; the error return is reserved
// for problems running the suite itself (cancellation, recording).
func Run(ctx context.Context, suite *Suite, opts RunOptions) (*Report, error) {
	opts = opts.withDefaults()

	b := opts.Babel
	if b == nil {
		switch opts.Policy {
		case PolicyShared:
			b = babel.Default
		default:
			b = babel.New(babel.WithLogger(opts.Logger))
		}
	}

	report := &Report{
		RunID:   opts.IDs.Generate(),
		Suite:   suite.Name,
		Policy:  opts.Policy,
		Results: []CheckResult{},
	}

	var rec *recorder
	if opts.Store != nil {
		var err error
		if rec, err = startRecording(ctx, opts.Store, report); err != nil {
			return nil, err
		}
	}

	for _, c := range suite.Checks {
		if opts.Filter != nil && !opts.Filter.MatchString(c.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := RunCheck(ctx, b, suite.Name, c)
		res.Seq = opts.Clock.Next()
		report.Results = append(report.Results, res)
		if res.Pass {
			report.Passed++
		} else {
			report.Failed++
		}

		opts.Logger.Info("check completed",
			"suite", suite.Name,
			"check", c.Name,
			"check_id", res.ID,
			"seq", res.Seq,
			"pass", res.Pass,
		)

		if rec != nil {
			if err := rec.record(ctx, c, res); err != nil {
				return nil, err
			}
		}
	}

	if rec != nil {
		if err := rec.finish(ctx); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// RunCheck compiles the check's input with b and verifies the outcome.
// Registrations the check asks for are applied to b first.
func RunCheck(ctx context.Context, b *babel.Babel, suite string, c *Check) CheckResult {
	res := CheckResult{Name: c.Name}

	id, err := canon.CheckID(suite, c.Name, c.Source, c.Options)
	if err != nil {
		res.Failure = fmt.Sprintf("computing check ID: %v", err)
		return res
	}
	res.ID = id

	register(b, c.Register)

	code, callErr := call(b, c)
	if callErr != nil {
		res.CallError = callErr.Error()
	} else {
		res.Output = code
		res.OutputHash = canon.ArtifactHash(code)
	}

	res.Failure = c.verify(ctx, code, callErr)
	res.Pass = res.Failure == ""
	return res
}

// call invokes the facade the way the check's input requires.
func call(b *babel.Babel, c *Check) (string, error) {
	opts, err := babel.OptionsFromMap(c.Options)
	if err != nil {
		return "", err
	}
	if opts.Filename == "" && c.SourceFile != "" {
		opts.Filename = c.SourceFile
	}

	var out *babel.Result
	if c.tree != nil {
		out, err = b.TransformFromAst(c.tree, c.Source, opts)
	} else {
		out, err = b.Transform(c.Source, opts)
	}
	if err != nil {
		return "", err
	}
	return out.Code, nil
}
