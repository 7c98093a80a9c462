package harness

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/grafana/sobek"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/roach88/babelgo/internal/canon"
)

// evalTimeout bounds how long compiled output may run.
const evalTimeout = 5 * time.Second

// verify compares the outcome of the call with the check's expectation and
// returns a failure message, or "" when the check passes.
func (c *Check) verify(ctx context.Context, code string, callErr error) string {
	switch {
	case c.Expect.Code != nil:
		if callErr != nil {
			return fmt.Sprintf("expected code, got error: %v", callErr)
		}
		if code != *c.Expect.Code {
			return "output differs from expected code:\n" + codeDiff(*c.Expect.Code, code)
		}
	case c.Expect.Error != "":
		re, err := c.errorPattern()
		if err != nil {
			return fmt.Sprintf("invalid error pattern: %v", err)
		}
		if callErr == nil {
			return fmt.Sprintf("expected error matching /%s/, got code:\n%s", c.Expect.Error, code)
		}
		if !re.MatchString(callErr.Error()) {
			return fmt.Sprintf("error %q does not match /%s/", callErr.Error(), c.Expect.Error)
		}
	case c.Expect.Eval != nil:
		if callErr != nil {
			return fmt.Sprintf("expected code to evaluate, got error: %v", callErr)
		}
		got, err := evaluate(ctx, c.Name+".js", code, c.Expect.Eval.Expr)
		if err != nil {
			return fmt.Sprintf("evaluating output: %v", err)
		}
		return compareValues(c.Expect.Eval.Expr, c.Expect.Eval.Value, got)
	default:
		return "check has no expectation"
	}
	return ""
}

func (c *Check) errorPattern() (*regexp.Regexp, error) {
	if c.pattern == nil {
		re, err := regexp.Compile(c.Expect.Error)
		if err != nil {
			return nil, err
		}
		c.pattern = re
	}
	return c.pattern, nil
}

// codeDiff renders a unified diff from want to got.
func codeDiff(want, got string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil || diff == "" {
		return fmt.Sprintf("expected: %q\nactual:   %q", want, got)
	}
	return diff
}

// evaluate runs code as a script with CommonJS-style module and exports
// globals, then returns the exported value of expr.
func evaluate(ctx context.Context, filename, code, expr string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()

	vm := sobek.New()
	exports := vm.NewObject()
	module := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	if _, err := vm.RunScript(filename, code); err != nil {
		return nil, err
	}
	v, err := vm.RunString(expr)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}

func compareValues(expr string, want, got any) string {
	wantJSON, err := canon.Marshal(want)
	if err != nil {
		return fmt.Sprintf("expected value of %s: %v", expr, err)
	}
	gotJSON, err := canon.Marshal(got)
	if err != nil {
		return fmt.Sprintf("value of %s: %v", expr, err)
	}
	if !bytes.Equal(wantJSON, gotJSON) {
		return fmt.Sprintf("%s = %s, want %s", expr, gotJSON, wantJSON)
	}
	return ""
}
