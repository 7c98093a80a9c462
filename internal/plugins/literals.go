package plugins

import (
	"strings"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

// newLiterals drops the source spelling of binary and octal numbers and of
// strings with unicode escapes, so they print in ES5 form.
func newLiterals(map[string]any) (*traverse.Plugin, error) {
	return simple(Literals, traverse.Visitor{
		ast.KindNumericLiteral: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			n := p.Node.(*ast.NumericLiteral)
			if len(n.Raw) > 1 && n.Raw[0] == '0' && strings.ContainsAny(n.Raw[1:2], "oObB") {
				n.Raw = ""
			}
			return nil
		}),
		ast.KindStringLiteral: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			n := p.Node.(*ast.StringLiteral)
			if strings.Contains(n.Raw, `\u`) || strings.Contains(n.Raw, `\U`) {
				n.Raw = ""
			}
			return nil
		}),
	}), nil
}

func newStickyRegex(map[string]any) (*traverse.Plugin, error) {
	return simple(StickyRegex, traverse.Visitor{
		ast.KindRegExpLiteral: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			re := p.Node.(*ast.RegExpLiteral)
			if !strings.Contains(re.Flags, "y") {
				return nil
			}
			return p.ReplaceWith(ast.SetSpan(&ast.NewExpression{
				Callee:    ast.NewIdentifier("RegExp"),
				Arguments: []ast.Node{ast.NewString(re.Pattern), ast.NewString(re.Flags)},
			}, re))
		}),
	}), nil
}
