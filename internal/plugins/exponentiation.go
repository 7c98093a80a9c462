package plugins

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

// newExponentiationOperator compiles a ** b to Math.pow(a, b). Compound
// assignments evaluate their target's object and key once.
func newExponentiationOperator(map[string]any) (*traverse.Plugin, error) {
	return simple(ExponentiationOperator, traverse.Visitor{
		ast.KindBinaryExpression: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			b := p.Node.(*ast.BinaryExpression)
			if b.Operator != "**" {
				return nil
			}
			return p.ReplaceWith(ast.SetSpan(mathPow(b.Left, b.Right), b))
		}),
		ast.KindAssignmentExpression: traverse.Enter(powAssign),
	}), nil
}

func mathPow(base, exp ast.Node) *ast.CallExpression {
	return ast.NewCall(ast.NewMemberPath("Math", "pow"), base, exp)
}

func powAssign(p *traverse.Path, pass *traverse.Pass) error {
	a := p.Node.(*ast.AssignmentExpression)
	if a.Operator != "**=" {
		return nil
	}
	member, ok := a.Left.(*ast.MemberExpression)
	if !ok {
		return p.ReplaceWith(ast.SetSpan(ast.NewAssign("=", a.Left, mathPow(ast.Clone(a.Left), a.Right)), a))
	}

	var temps []ast.Node
	object := member.Object
	if !isStaticRef(object) {
		tmp, assign := memoize(p, pass.File, "obj", object)
		temps = append(temps, assign)
		object = tmp
	}
	property := member.Property
	if member.Computed && !ast.Is(property, ast.AliasLiteral) && !isStaticRef(property) {
		tmp, assign := memoize(p, pass.File, "prop", property)
		temps = append(temps, assign)
		property = tmp
	}

	target := func() ast.Node {
		return &ast.MemberExpression{Object: ast.Clone(object), Property: ast.Clone(property), Computed: member.Computed}
	}
	result := ast.Node(ast.NewAssign("=", target(), mathPow(target(), a.Right)))
	if len(temps) > 0 {
		result = &ast.SequenceExpression{Expressions: append(temps, result)}
	}
	return p.ReplaceWith(ast.SetSpan(result, a))
}

func isStaticRef(n ast.Node) bool {
	switch n.(type) {
	case *ast.Identifier, *ast.ThisExpression, *ast.Super:
		return true
	}
	return false
}

// memoize declares a temporary in the enclosing function or program and
// returns it with the assignment that fills it.
func memoize(p *traverse.Path, file *traverse.File, hint string, value ast.Node) (ast.Node, ast.Node) {
	name := file.GenerateUID(hint)
	decl := &ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{ID: ast.NewIdentifier(name)}}}
	if scope := p.ScopeParent(); scope != nil {
		if _, body, ok := ast.FunctionParts(scope.Node); ok && body != nil {
			_ = p.Unshift(body, "body", decl)
		} else {
			_ = p.Unshift(scope.Node, "body", decl)
		}
	}
	return ast.NewIdentifier(name), ast.NewAssign("=", ast.NewIdentifier(name), value)
}
