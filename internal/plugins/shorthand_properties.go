package plugins

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

// newShorthandProperties expands {a} to {a: a} and {m() {}} to
// {m: function () {}}. Getters and setters are left alone.
func newShorthandProperties(map[string]any) (*traverse.Plugin, error) {
	return simple(ShorthandProperties, traverse.Visitor{
		ast.KindObjectMethod: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			m := p.Node.(*ast.ObjectMethod)
			if m.Kind != "method" {
				return nil
			}
			fn := &ast.FunctionExpression{
				Params:    m.Params,
				Body:      m.Body,
				Generator: m.Generator,
				Async:     m.Async,
			}
			prop := &ast.ObjectProperty{Key: m.Key, Value: fn, Computed: m.Computed}
			return p.ReplaceWith(ast.SetSpan(prop, m))
		}),
		ast.KindObjectProperty: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			p.Node.(*ast.ObjectProperty).Shorthand = false
			return nil
		}),
	}), nil
}
