package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/ast"
)

func TestStatementReplacesPlaceholders(t *testing.T) {
	stmt, err := Statement("var NAME = require(SOURCE);", Replacements{
		"NAME":   ast.NewIdentifier("_foo"),
		"SOURCE": ast.NewString("foo"),
	})
	require.NoError(t, err)

	decl, ok := stmt.(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "var", decl.Kind)
	assert.True(t, ast.IsIdentifier(decl.Declarations[0].ID, "_foo"))

	call := decl.Declarations[0].Init.(*ast.CallExpression)
	assert.True(t, ast.IsIdentifier(call.Callee, "require"))
	assert.Equal(t, "foo", call.Arguments[0].(*ast.StringLiteral).Value)
}

func TestTemplateNodesHaveNoSpan(t *testing.T) {
	stmt, err := Statement("exports.NAME = VALUE;", Replacements{"VALUE": ast.NewVoid0()})
	require.NoError(t, err)

	ast.Inspect(stmt, func(n, _ ast.Node, _ string) bool {
		assert.False(t, ast.HasSpan(n), "%s carries a span", n.Type())
		return true
	})
}

func TestPropertyNamesAreNotPlaceholders(t *testing.T) {
	stmt, err := Statement("exports.NAME = NAME;", Replacements{"NAME": ast.NewIdentifier("x")})
	require.NoError(t, err)

	assign := stmt.(*ast.ExpressionStatement).Expression.(*ast.AssignmentExpression)
	member := assign.Left.(*ast.MemberExpression)
	assert.True(t, ast.IsIdentifier(member.Property, "NAME"))
	assert.True(t, ast.IsIdentifier(assign.Right, "x"))
}

func TestReplacementsAreCloned(t *testing.T) {
	shared := ast.NewIdentifier("obj")
	expr, err := Expression("A + A", Replacements{"A": shared})
	require.NoError(t, err)

	bin := expr.(*ast.BinaryExpression)
	assert.NotSame(t, bin.Left, bin.Right)
	assert.NotSame(t, shared, bin.Left)
}

func TestCacheDoesNotLeakMutations(t *testing.T) {
	first := MustStatement("x = 1;", nil)
	first.(*ast.ExpressionStatement).Expression.(*ast.AssignmentExpression).Operator = "+="

	second := MustStatement("x = 1;", nil)
	assert.Equal(t, "=", second.(*ast.ExpressionStatement).Expression.(*ast.AssignmentExpression).Operator)
}

func TestStatementPlaceholder(t *testing.T) {
	body := ast.NewReturn(ast.NewIdentifier("v"))
	stmts, err := Statements("function wrap() { BODY; }", Replacements{"BODY": body})
	require.NoError(t, err)

	fn := stmts[0].(*ast.FunctionDeclaration)
	require.Len(t, fn.Body.Body, 1)
	assert.IsType(t, &ast.ReturnStatement{}, fn.Body.Body[0])
}

func TestExpressionFunction(t *testing.T) {
	expr := MustExpression("function (obj) { return obj && obj.__esModule ? obj : { default: obj }; }", nil)

	fn, ok := expr.(*ast.FunctionExpression)
	require.True(t, ok)
	require.Len(t, fn.Params, 1)
	assert.IsType(t, &ast.ReturnStatement{}, fn.Body.Body[0])
}

func TestStatementErrors(t *testing.T) {
	_, err := Statement("a; b;", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one statement, got 2")

	_, err = Statement("var = ;", nil)
	require.Error(t, err)

	assert.Panics(t, func() { MustExpression("}", nil) })
}
