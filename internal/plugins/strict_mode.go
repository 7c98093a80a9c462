package plugins

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

func newStrictMode(map[string]any) (*traverse.Plugin, error) {
	return simple(StrictMode, traverse.Visitor{
		ast.KindProgram: traverse.Enter(addUseStrict),
	}), nil
}

// addUseStrict prepends a "use strict" directive unless the program has one
// or the strict or strictMode option is false.
func addUseStrict(p *traverse.Path, pass *traverse.Pass) error {
	if !pass.OptBool("strict", true) || !pass.OptBool("strictMode", true) {
		return nil
	}
	prog := p.Node.(*ast.Program)
	for _, d := range prog.Directives {
		if d.Value != nil && d.Value.Value == "use strict" {
			return nil
		}
	}
	prog.Directives = append([]*ast.Directive{ast.NewDirective("use strict")}, prog.Directives...)
	return nil
}
