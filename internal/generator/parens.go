package generator

import (
	"strings"

	"github.com/roach88/babelgo/internal/ast"
)

var precedence = map[string]int{
	"||": 0, "&&": 1, "??": 1, "|": 2, "^": 3, "&": 4,
	"==": 5, "===": 5, "!=": 5, "!==": 5,
	"<": 6, ">": 6, "<=": 6, ">=": 6, "in": 6, "instanceof": 6,
	">>": 7, "<<": 7, ">>>": 7,
	"+": 8, "-": 8,
	"*": 9, "/": 9, "%": 9,
	"**": 10,
}

func isBinary(n ast.Node) bool {
	switch n.(type) {
	case *ast.BinaryExpression, *ast.LogicalExpression:
		return true
	}
	return false
}

func isUnaryLike(n ast.Node) bool {
	switch n.(type) {
	case *ast.UnaryExpression, *ast.SpreadElement, *ast.RestElement:
		return true
	}
	return false
}

func operator(n ast.Node) string {
	switch b := n.(type) {
	case *ast.BinaryExpression:
		return b.Operator
	case *ast.LogicalExpression:
		return b.Operator
	}
	return ""
}

func isCallee(n, parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.CallExpression:
		return p.Callee == n
	case *ast.NewExpression:
		return p.Callee == n
	}
	return false
}

func isMemberObject(n, parent ast.Node) bool {
	m, ok := parent.(*ast.MemberExpression)
	return ok && m.Object == n
}

func isLeft(n, parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.BinaryExpression:
		return p.Left == n
	case *ast.LogicalExpression:
		return p.Left == n
	}
	return false
}

func isRight(n, parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.BinaryExpression:
		return p.Right == n
	case *ast.LogicalExpression:
		return p.Right == n
	}
	return false
}

func isConditionalTest(n, parent ast.Node) bool {
	c, ok := parent.(*ast.ConditionalExpression)
	return ok && c.Test == n
}

// needsParens reports whether n must be wrapped in parentheses when printed
// under parent. stack holds the nodes being printed, n last.
func needsParens(n, parent ast.Node, stack []ast.Node) bool {
	if parent == nil {
		return false
	}
	if ne, ok := parent.(*ast.NewExpression); ok && ne.Callee == n && isOrHasCall(n) {
		return true
	}

	switch node := n.(type) {
	case *ast.UpdateExpression:
		return isMemberObject(n, parent)
	case *ast.ObjectExpression:
		return isFirstInStatement(stack, true, false)
	case *ast.FunctionExpression, *ast.ClassExpression:
		return isFirstInStatement(stack, false, true)
	case *ast.BinaryExpression:
		if node.Operator == "in" {
			switch parent.(type) {
			case *ast.VariableDeclarator, *ast.ForStatement, *ast.ForInStatement, *ast.ForOfStatement:
				return true
			}
		}
		return binaryParens(n, parent)
	case *ast.LogicalExpression:
		return binaryParens(n, parent)
	case *ast.SequenceExpression:
		return sequenceParens(n, parent)
	case *ast.YieldExpression, *ast.AwaitExpression:
		switch parent.(type) {
		case *ast.CallExpression, *ast.MemberExpression, *ast.NewExpression:
			return true
		}
		return isBinary(parent) || isUnaryLike(parent) || isConditionalTest(n, parent)
	case *ast.UnaryExpression:
		return unaryLikeParens(n, parent)
	case *ast.ArrowFunctionExpression:
		switch parent.(type) {
		case *ast.ExportNamedDeclaration, *ast.ExportDefaultDeclaration, *ast.ExportAllDeclaration,
			*ast.BinaryExpression, *ast.LogicalExpression, *ast.UnaryExpression, *ast.TaggedTemplateExpression:
			return true
		}
		return unaryLikeParens(n, parent)
	case *ast.ConditionalExpression:
		return conditionalParens(n, parent)
	case *ast.AssignmentExpression:
		if _, ok := node.Left.(*ast.ObjectPattern); ok {
			return true
		}
		return conditionalParens(n, parent)
	}
	return false
}

func isOrHasCall(n ast.Node) bool {
	switch c := n.(type) {
	case *ast.CallExpression:
		return true
	case *ast.MemberExpression:
		return isOrHasCall(c.Object) || (!c.Computed && isOrHasCall(c.Property))
	}
	return false
}

func binaryParens(n, parent ast.Node) bool {
	if isCallee(n, parent) || isUnaryLike(parent) || isMemberObject(n, parent) {
		return true
	}
	if !isBinary(parent) {
		return false
	}
	parentOp, nodeOp := operator(parent), operator(n)
	parentPos, nodePos := precedence[parentOp], precedence[nodeOp]
	if parentPos > nodePos {
		return true
	}
	if parentPos == nodePos && isRight(n, parent) {
		return true
	}
	if parentPos == nodePos && nodeOp == "**" && isLeft(n, parent) {
		return true
	}
	return parentPos < nodePos && nodeOp == "%" && (parentOp == "+" || parentOp == "-")
}

func sequenceParens(n, parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.ForStatement, *ast.ExpressionStatement, *ast.ReturnStatement, *ast.ThrowStatement:
		return false
	case *ast.SwitchStatement:
		return p.Discriminant != n
	case *ast.WhileStatement:
		return p.Test != n
	case *ast.IfStatement:
		return p.Test != n
	case *ast.ForInStatement:
		return p.Right != n
	}
	return true
}

func unaryLikeParens(n, parent ast.Node) bool {
	if isMemberObject(n, parent) || isCallee(n, parent) {
		return true
	}
	b, ok := parent.(*ast.BinaryExpression)
	return ok && b.Operator == "**" && b.Left == n
}

func conditionalParens(n, parent ast.Node) bool {
	if isUnaryLike(parent) || isBinary(parent) || isConditionalTest(n, parent) {
		return true
	}
	if _, ok := parent.(*ast.AwaitExpression); ok {
		return true
	}
	return unaryLikeParens(n, parent)
}

// isFirstInStatement reports whether the node on top of stack would be the
// first token of its statement, where a leading "{", "function" or "class"
// would be misread.
func isFirstInStatement(stack []ast.Node, considerArrow, considerDefaultExports bool) bool {
	i := len(stack) - 1
	node := stack[i]
	i--
	for i >= 0 {
		parent := stack[i]
		switch p := parent.(type) {
		case *ast.ExpressionStatement:
			if p.Expression == node {
				return true
			}
		case *ast.TaggedTemplateExpression:
			return true
		case *ast.ExportDefaultDeclaration:
			if considerDefaultExports && p.Declaration == node {
				return true
			}
		case *ast.ArrowFunctionExpression:
			if considerArrow && p.Body == node {
				return true
			}
		}

		if !continuesStatementStart(node, parent) {
			return false
		}
		node = parent
		i--
	}
	return false
}

func continuesStatementStart(node, parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.CallExpression:
		return p.Callee == node
	case *ast.SequenceExpression:
		return len(p.Expressions) > 0 && p.Expressions[0] == node
	case *ast.MemberExpression:
		return p.Object == node
	case *ast.ConditionalExpression:
		return p.Test == node
	case *ast.BinaryExpression:
		return p.Left == node
	case *ast.LogicalExpression:
		return p.Left == node
	case *ast.AssignmentExpression:
		return p.Left == node
	}
	return false
}

// needsWhitespace decides the blank lines around a synthesized node: whether
// it wants an empty line before it and after it.
func needsWhitespace(n, parent ast.Node) (before, after bool) {
	if es, ok := n.(*ast.ExpressionStatement); ok {
		n = es.Expression
	}
	switch node := n.(type) {
	case *ast.AssignmentExpression:
		st := crawl(node.Right)
		if (st.hasCall && st.hasHelper) || st.hasFunction {
			return st.hasFunction, true
		}
	case *ast.SwitchCase:
		if len(node.Consequent) > 0 {
			return true, false
		}
		if sw, ok := parent.(*ast.SwitchStatement); ok && len(sw.Cases) > 0 && sw.Cases[0] == node {
			return true, false
		}
	case *ast.LogicalExpression:
		if isHelper(node.Left) || isHelper(node.Right) {
			return false, true
		}
	case *ast.StringLiteral:
		if node.Value == "use strict" {
			return false, true
		}
	case *ast.CallExpression:
		if ast.IsFunction(node.Callee) || isHelper(node) {
			return true, true
		}
	case *ast.VariableDeclaration:
		for _, d := range node.Declarations {
			enabled := isHelper(d.ID) && !isType(d.Init)
			if !enabled && d.Init != nil {
				st := crawl(d.Init)
				enabled = (isHelper(d.Init) && st.hasCall) || st.hasFunction
			}
			if enabled {
				return true, true
			}
		}
	case *ast.IfStatement:
		if _, ok := node.Consequent.(*ast.BlockStatement); ok {
			return true, true
		}
	case *ast.ObjectProperty:
		if obj, ok := parent.(*ast.ObjectExpression); ok && len(obj.Properties) > 0 && obj.Properties[0] == n {
			return true, false
		}
	case *ast.LabeledStatement, *ast.SwitchStatement, *ast.TryStatement:
		return true, true
	}
	if ast.IsFunction(n) || ast.Is(n, ast.AliasClass) || ast.Is(n, ast.AliasLoop) {
		return true, true
	}
	return false, false
}

type crawlState struct {
	hasCall     bool
	hasFunction bool
	hasHelper   bool
}

func crawl(n ast.Node) crawlState {
	var st crawlState
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch node := n.(type) {
		case *ast.MemberExpression:
			walk(node.Object)
			if node.Computed {
				walk(node.Property)
			}
		case *ast.BinaryExpression:
			walk(node.Left)
			walk(node.Right)
		case *ast.LogicalExpression:
			walk(node.Left)
			walk(node.Right)
		case *ast.AssignmentExpression:
			walk(node.Left)
			walk(node.Right)
		case *ast.CallExpression:
			st.hasCall = true
			walk(node.Callee)
		default:
			if ast.IsFunction(n) {
				st.hasFunction = true
			}
		}
	}
	if !ast.IsNil(n) {
		walk(n)
	}
	return st
}

// isHelper reports whether n refers to require or an underscore-prefixed
// binding, the names injected module and runtime helpers use.
func isHelper(n ast.Node) bool {
	switch node := n.(type) {
	case *ast.MemberExpression:
		return isHelper(node.Object) || isHelper(node.Property)
	case *ast.Identifier:
		return node.Name == "require" || strings.HasPrefix(node.Name, "_")
	case *ast.CallExpression:
		return isHelper(node.Callee)
	case *ast.BinaryExpression:
		return (ast.IsIdentifier(node.Left) && isHelper(node.Left)) || isHelper(node.Right)
	case *ast.AssignmentExpression:
		return (ast.IsIdentifier(node.Left) && isHelper(node.Left)) || isHelper(node.Right)
	}
	return false
}

func isType(n ast.Node) bool {
	if ast.IsNil(n) {
		return false
	}
	if ast.Is(n, ast.AliasLiteral) {
		return true
	}
	switch n.(type) {
	case *ast.ObjectExpression, *ast.ArrayExpression, *ast.Identifier, *ast.MemberExpression:
		return true
	}
	return false
}
