// Package template builds syntax trees from JavaScript snippets.
//
// Identifiers in a snippet that match a key of the replacement map are
// swapped for the mapped node. By convention placeholders are upper case,
// e.g. "var NAME = require(SOURCE);". Every node produced carries no source
// span, so the generator treats it as synthesized.
package template

import (
	"fmt"
	"sync"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/parser"
)

// Replacements maps placeholder names to the nodes substituted for them.
type Replacements map[string]ast.Node

var (
	mu    sync.Mutex
	cache = map[string]*ast.Program{}
)

func parse(src string) (*ast.Program, error) {
	mu.Lock()
	defer mu.Unlock()

	if prog, ok := cache[src]; ok {
		return ast.Clone(prog), nil
	}
	prog, _, err := parser.Parse(src, parser.Options{SourceType: parser.SourceScript, Filename: "template"})
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", src, err)
	}
	ast.Inspect(prog, func(n, _ ast.Node, _ string) bool {
		ast.ClearSpan(n)
		return true
	})
	cache[src] = prog
	return ast.Clone(prog), nil
}

// Statements parses src and returns its top-level statements with
// placeholders replaced.
func Statements(src string, repl Replacements) ([]ast.Node, error) {
	prog, err := parse(src)
	if err != nil {
		return nil, err
	}
	for i, stmt := range prog.Body {
		if r, ok := placeholderStatement(stmt, repl); ok {
			prog.Body[i] = r
			continue
		}
		substitute(stmt, repl)
	}
	out := make([]ast.Node, 0, len(prog.Directives)+len(prog.Body))
	for _, d := range prog.Directives {
		out = append(out, ast.NewExpressionStatement(ast.NewString(d.Value.Value)))
	}
	return append(out, prog.Body...), nil
}

// Statement is Statements for snippets holding exactly one statement.
func Statement(src string, repl Replacements) (ast.Node, error) {
	stmts, err := Statements(src, repl)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, fmt.Errorf("template %q: expected one statement, got %d", src, len(stmts))
	}
	return stmts[0], nil
}

// Expression parses src as a single expression.
func Expression(src string, repl Replacements) (ast.Node, error) {
	stmt, err := Statement("("+src+");", repl)
	if err != nil {
		return nil, err
	}
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return nil, fmt.Errorf("template %q: not an expression", src)
	}
	return es.Expression, nil
}

// MustStatement is Statement for snippets known to be valid. It panics on error.
func MustStatement(src string, repl Replacements) ast.Node {
	n, err := Statement(src, repl)
	if err != nil {
		panic(err)
	}
	return n
}

// MustExpression is Expression for snippets known to be valid. It panics on error.
func MustExpression(src string, repl Replacements) ast.Node {
	n, err := Expression(src, repl)
	if err != nil {
		panic(err)
	}
	return n
}

// placeholderStatement handles `NAME;` where NAME maps to a statement.
func placeholderStatement(stmt ast.Node, repl Replacements) (ast.Node, bool) {
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	id, ok := es.Expression.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	r, ok := repl[id.Name]
	if !ok || !ast.IsStatement(r) {
		return nil, false
	}
	return ast.Clone(r), true
}

func substitute(n ast.Node, repl Replacements) {
	if len(repl) == 0 {
		return
	}
	for _, f := range ast.Fields(n) {
		if !f.List {
			child := f.Get()
			if child == nil {
				continue
			}
			if r, ok := replacement(n, f.Key, child, repl); ok {
				_ = f.Set(r)
				continue
			}
			substitute(child, repl)
			continue
		}
		for i := 0; i < f.Len(); i++ {
			child := f.At(i)
			if child == nil {
				continue
			}
			if r, ok := placeholderStatement(child, repl); ok {
				_ = f.SetAt(i, r)
				continue
			}
			if r, ok := replacement(n, f.Key, child, repl); ok {
				_ = f.SetAt(i, r)
				continue
			}
			substitute(child, repl)
		}
	}
}

func replacement(parent ast.Node, key string, child ast.Node, repl Replacements) (ast.Node, bool) {
	id, ok := child.(*ast.Identifier)
	if !ok || ast.IsPropertyName(parent, key) {
		return nil, false
	}
	r, ok := repl[id.Name]
	if !ok {
		return nil, false
	}
	return ast.Clone(r), true
}
