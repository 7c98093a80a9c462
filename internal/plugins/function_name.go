package plugins

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/template"
	"github.com/roach88/babelgo/internal/traverse"
)

// newFunctionName gives anonymous function expressions the name of the
// variable, assignment target, or property they are bound to.
func newFunctionName(map[string]any) (*traverse.Plugin, error) {
	return simple(FunctionName, traverse.Visitor{
		ast.KindFunctionExpression: traverse.Exit(func(p *traverse.Path, pass *traverse.Pass) error {
			return nameFunction(p, pass.File)
		}),
	}), nil
}

const selfWrapperSource = `(function (FUNCTION_KEY) {
  function FUNCTION_ID() { return FUNCTION_KEY.apply(this, arguments); }
  FUNCTION_ID.toString = function () { return FUNCTION_KEY.toString(); };
  return FUNCTION_ID;
})(FUNCTION)`

func nameFunction(p *traverse.Path, file *traverse.File) error {
	fn := p.Node.(*ast.FunctionExpression)
	if fn.ID != nil {
		return nil
	}
	name, fromDeclarator := inferredName(p)
	if name == "" {
		return nil
	}
	name = toBindingIdentifierName(name)

	// A constant variable always refers to this function, so the name can be
	// reused as is.
	if fromDeclarator && !traverse.DeclaresName(fn, name) {
		if scope := declaringScope(p, name); scope != nil && isConstant(scope.Node, name) {
			fn.ID = ast.NewIdentifier(name)
			return nil
		}
	}

	ownParam := bindsParam(fn, name)
	selfRef := ownParam
	if !ownParam && !traverse.DeclaresName(fn, name) && (p.InScope(name) || file.IsGlobal(name)) {
		selfRef = traverse.References(fn, name)
	}

	if selfRef {
		switch {
		case ownParam:
			traverse.Rename(fn, name, file.GenerateUID(name))
		case p.InScope(name) && !file.IsGlobal(name):
			if scope := declaringScope(p, name); scope != nil {
				traverse.Rename(scope.Node, name, file.GenerateUID(name))
			}
		default:
			return p.ReplaceWith(selfWrapper(fn, name, file))
		}
	}
	fn.ID = ast.NewIdentifier(name)
	return nil
}

// selfWrapper keeps a function that calls itself through a global of the
// same name working once the name is bound inside it.
func selfWrapper(fn *ast.FunctionExpression, name string, file *traverse.File) ast.Node {
	call := template.MustExpression(selfWrapperSource, template.Replacements{
		"FUNCTION_KEY": ast.NewIdentifier(file.GenerateUID(name)),
		"FUNCTION_ID":  ast.NewIdentifier(name),
		"FUNCTION":     fn,
	}).(*ast.CallExpression)

	// Dummy parameters keep the wrapper's length equal to the function's.
	outer := call.Callee.(*ast.FunctionExpression)
	inner := outer.Body.Body[0].(*ast.FunctionDeclaration)
	for range functionArity(fn.Params) {
		inner.Params = append(inner.Params, ast.NewIdentifier(file.GenerateUID("x")))
	}
	return call
}

// inferredName reports the name a function expression takes from its
// position, and whether it came from a variable declarator.
func inferredName(p *traverse.Path) (string, bool) {
	switch parent := p.Parent.(type) {
	case *ast.ObjectProperty:
		if p.Key != "value" {
			return "", false
		}
		if !parent.Computed {
			if id, ok := parent.Key.(*ast.Identifier); ok {
				return id.Name, false
			}
		}
		return literalName(parent.Key), false
	case *ast.VariableDeclarator:
		if id, ok := parent.ID.(*ast.Identifier); ok && p.Key == "init" {
			return id.Name, true
		}
	case *ast.AssignmentExpression:
		if id, ok := parent.Left.(*ast.Identifier); ok && p.Key == "right" && parent.Operator == "=" {
			return id.Name, false
		}
	}
	return "", false
}

func literalName(n ast.Node) string {
	switch l := n.(type) {
	case *ast.StringLiteral:
		return l.Value
	case *ast.NumericLiteral:
		return strconv.FormatFloat(l.Value, 'f', -1, 64)
	case *ast.BooleanLiteral:
		return strconv.FormatBool(l.Value)
	case *ast.NullLiteral:
		return "null"
	case *ast.RegExpLiteral:
		return "_" + l.Pattern + "_" + l.Flags
	}
	return ""
}

func bindsParam(fn *ast.FunctionExpression, name string) bool {
	for _, param := range fn.Params {
		for _, n := range ast.BindingNames(param) {
			if n == name {
				return true
			}
		}
	}
	return false
}

func declaringScope(p *traverse.Path, name string) *traverse.Path {
	return p.FindParent(func(a *traverse.Path) bool {
		return traverse.DeclaresName(a.Node, name)
	})
}

// isConstant reports whether name is never assigned after its declaration
// within scope.
func isConstant(scope ast.Node, name string) bool {
	constant := true
	traverse.RewriteScope(scope, name, func(n, _ ast.Node, _ string) ast.Node {
		switch e := n.(type) {
		case *ast.AssignmentExpression:
			if ast.IsIdentifier(e.Left, name) {
				constant = false
			}
		case *ast.UpdateExpression:
			if ast.IsIdentifier(e.Argument, name) {
				constant = false
			}
		}
		return nil
	})
	return constant
}

// functionArity counts the parameters before the first default or rest.
func functionArity(params []ast.Node) int {
	for i, param := range params {
		switch param.(type) {
		case *ast.AssignmentPattern, *ast.RestElement:
			return i
		}
	}
	return len(params)
}

var (
	invalidIdentChars = regexp.MustCompile(`[^a-zA-Z0-9$_]`)
	leadingDigits     = regexp.MustCompile(`^[-0-9]+`)
	dashRuns          = regexp.MustCompile(`[-\s]+(.)?`)
)

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
	"implements": true, "interface": true, "let": true, "package": true, "private": true,
	"protected": true, "public": true, "static": true, "yield": true, "await": true,
}

// toBindingIdentifierName turns an arbitrary string into a name usable as a
// binding: invalid characters are dropped with the next letter upper-cased,
// and reserved words get a leading underscore.
func toBindingIdentifierName(name string) string {
	name = invalidIdentChars.ReplaceAllString(name, "-")
	name = leadingDigits.ReplaceAllString(name, "")
	name = dashRuns.ReplaceAllStringFunc(name, func(m string) string {
		return strings.ToUpper(strings.TrimLeft(m, "- \t\n\r\f\v"))
	})
	if name == "" || reservedWords[name] {
		name = "_" + name
	}
	if name == "eval" || name == "arguments" {
		name = "_" + name
	}
	return name
}
