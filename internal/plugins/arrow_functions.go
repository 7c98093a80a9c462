package plugins

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

// ownArguments marks synthesized arguments references that belong to the
// function they were generated in, even when it is a converted arrow.
const ownArguments = "ownArguments"

// newArrowFunctions rewrites arrows as function expressions. The converted
// functions are marked Shadow; once the traversal is done their this and
// arguments are pointed at _this and _arguments variables declared in the
// enclosing scope.
func newArrowFunctions(map[string]any) (*traverse.Plugin, error) {
	return simple(ArrowFunctions, traverse.Visitor{
		ast.KindArrowFunctionExpression: traverse.Enter(arrowToFunction),
		ast.KindProgram:                 traverse.Exit(remapShadowed),
	}), nil
}

func arrowToFunction(p *traverse.Path, pass *traverse.Pass) error {
	arrow := p.Node.(*ast.ArrowFunctionExpression)
	body, ok := arrow.Body.(*ast.BlockStatement)
	if !ok {
		body = ast.NewBlock(ast.NewReturn(arrow.Body))
	}
	pass.Set("shadowed", true)
	return p.ReplaceWith(ast.SetSpan(&ast.FunctionExpression{
		Params: arrow.Params,
		Body:   body,
		Async:  arrow.Async,
		Shadow: true,
	}, arrow))
}

// shadowRemapper binds this and arguments inside shadow functions to
// variables of the scope that owns them.
type shadowRemapper struct {
	file  *traverse.File
	decls map[ast.Node]*ast.VariableDeclaration
	names map[ast.Node]map[string]string
}

func remapShadowed(p *traverse.Path, pass *traverse.Pass) error {
	if pass.Get("shadowed") == nil {
		return nil
	}
	r := &shadowRemapper{
		file:  pass.File,
		decls: map[ast.Node]*ast.VariableDeclaration{},
		names: map[ast.Node]map[string]string{},
	}
	r.walk(p.Node, p.Node, false)
	return nil
}

func (r *shadowRemapper) walk(n, owner ast.Node, shadowed bool) {
	for _, f := range ast.Fields(n) {
		for i, c := range f.Nodes() {
			if c == nil {
				continue
			}
			if repl := r.replacement(c, n, f.Key, owner, shadowed); repl != nil {
				if f.List {
					_ = f.SetAt(i, repl)
				} else {
					_ = f.Set(repl)
				}
				continue
			}
			switch {
			case isShadow(c):
				r.walk(c, owner, true)
			case ast.IsFunction(c):
				r.walk(c, c, false)
			default:
				r.walk(c, owner, shadowed)
			}
		}
	}
}

func (r *shadowRemapper) replacement(c, parent ast.Node, key string, owner ast.Node, shadowed bool) ast.Node {
	if !shadowed {
		return nil
	}
	switch c := c.(type) {
	case *ast.ThisExpression:
		return r.ref(owner, "this")
	case *ast.Identifier:
		if c.Name == "arguments" && !ast.IsPropertyName(parent, key) && !r.file.Marked(c, ownArguments) {
			return r.ref(owner, "arguments")
		}
	}
	return nil
}

// ref returns the variable standing in for this or arguments in owner,
// declaring it at the top of owner's body on first use.
func (r *shadowRemapper) ref(owner ast.Node, kind string) ast.Node {
	if r.names[owner] == nil {
		r.names[owner] = map[string]string{}
	}
	name, ok := r.names[owner][kind]
	if ok {
		return ast.NewIdentifier(name)
	}
	name = r.file.GenerateUID(kind)
	r.names[owner][kind] = name

	decl := r.decls[owner]
	if decl == nil {
		decl = &ast.VariableDeclaration{Kind: "var"}
		r.decls[owner] = decl
		if prog, ok := owner.(*ast.Program); ok {
			prog.Body = append([]ast.Node{decl}, prog.Body...)
		} else if _, body, ok := ast.FunctionParts(owner); ok && body != nil {
			body.Body = append([]ast.Node{decl}, body.Body...)
		}
	}
	var init ast.Node = &ast.ThisExpression{}
	if kind == "arguments" {
		init = ast.NewIdentifier("arguments")
	}
	decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{ID: ast.NewIdentifier(name), Init: init})
	return ast.NewIdentifier(name)
}

func isShadow(n ast.Node) bool {
	fn, ok := n.(*ast.FunctionExpression)
	return ok && fn.Shadow
}
