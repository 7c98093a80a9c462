package plugins

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/template"
	"github.com/roach88/babelgo/internal/traverse"
)

// newParameters lowers default, rest, and destructured parameters to
// statements at the top of the function body.
func newParameters(map[string]any) (*traverse.Plugin, error) {
	return simple(Parameters, traverse.Visitor{
		ast.AliasFunction: traverse.Enter(lowerParams),
		ast.KindProgram:   traverse.Exit(remapShadowed),
	}), nil
}

const (
	defaultParamSource = `let VARIABLE_NAME = arguments.length > ARGUMENT_KEY && arguments[ARGUMENT_KEY] !== undefined ? arguments[ARGUMENT_KEY] : DEFAULT_VALUE;`
	cutOffSource       = `let VARIABLE_NAME = arguments[ARGUMENT_KEY];`
	restSource         = `for (var LEN = arguments.length, ARRAY = Array(ARRAY_LEN), KEY = START; KEY < LEN; KEY++) { ARRAY[ARRAY_KEY] = arguments[KEY]; }`
)

func lowerParams(p *traverse.Path, pass *traverse.Pass) error {
	params, _, _ := ast.FunctionParts(p.Node)
	if onlyIdentifiers(*params) {
		return nil
	}
	// Arrows have no arguments object of their own; convert first and lower
	// the resulting function when it is revisited.
	if _, ok := p.Node.(*ast.ArrowFunctionExpression); ok {
		return arrowToFunction(p, pass)
	}

	file := pass.File
	list := *params
	var head []ast.Node

	if rest, ok := list[len(list)-1].(*ast.RestElement); ok {
		list = list[:len(list)-1]
		head = append(head, restLoop(file, p.Node, rest, len(list))...)
	}

	arity := functionArity(list)
	var stmts []ast.Node
	for i, param := range list {
		key := ast.NewNumber(float64(i))
		switch pr := param.(type) {
		case *ast.AssignmentPattern:
			stmts = append(stmts, template.MustStatement(defaultParamSource, template.Replacements{
				"VARIABLE_NAME": pr.Left,
				"ARGUMENT_KEY":  key,
				"DEFAULT_VALUE": pr.Right,
			}))
		case *ast.ObjectPattern, *ast.ArrayPattern:
			ref := ast.NewIdentifier(file.GenerateUID("ref"))
			if i < arity {
				list[i] = ref
			} else {
				stmts = append(stmts, template.MustStatement(cutOffSource, template.Replacements{
					"VARIABLE_NAME": ref,
					"ARGUMENT_KEY":  key,
				}))
			}
			stmts = append(stmts, declareLet(pr, ast.NewIdentifier(ref.Name)))
		default:
			if i > arity {
				stmts = append(stmts, template.MustStatement(cutOffSource, template.Replacements{
					"VARIABLE_NAME": param,
					"ARGUMENT_KEY":  key,
				}))
			}
		}
	}

	*params = list[:arity]
	head = append(head, stmts...)
	for _, stmt := range head {
		markArguments(file, stmt)
	}
	_, body, _ := ast.FunctionParts(p.Node)
	body.Body = append(head, body.Body...)
	return nil
}

// restLoop copies the trailing arguments into the rest binding. An unused
// rest binding needs no copy.
func restLoop(file *traverse.File, fn ast.Node, rest *ast.RestElement, start int) []ast.Node {
	target, isIdent := rest.Argument.(*ast.Identifier)
	_, body, _ := ast.FunctionParts(fn)
	if isIdent && (body == nil || !traverse.References(body, target.Name)) {
		return nil
	}
	var stmts []ast.Node
	if !isIdent {
		target = ast.NewIdentifier(file.GenerateUID("ref"))
	}

	key := ast.NewIdentifier(file.GenerateUID("key"))
	length := ast.NewIdentifier(file.GenerateUID("len"))
	startNum := ast.NewNumber(float64(start))
	var arrKey, arrLen ast.Node = key, length
	if start > 0 {
		arrKey = ast.NewBinary("-", key, startNum)
		arrLen = &ast.ConditionalExpression{
			Test:       ast.NewBinary(">", length, startNum),
			Consequent: ast.NewBinary("-", length, startNum),
			Alternate:  ast.NewNumber(0),
		}
	}
	stmts = append(stmts, template.MustStatement(restSource, template.Replacements{
		"LEN":       length,
		"ARRAY":     target,
		"ARRAY_LEN": arrLen,
		"KEY":       key,
		"START":     startNum,
		"ARRAY_KEY": arrKey,
	}))
	if !isIdent {
		stmts = append(stmts, declareLet(rest.Argument, ast.NewIdentifier(target.Name)))
	}
	return stmts
}

func declareLet(id, init ast.Node) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{
		Kind:         "let",
		Declarations: []*ast.VariableDeclarator{{ID: id, Init: init}},
	}
}

// markArguments claims the arguments references in generated code for the
// function they are inserted into.
func markArguments(file *traverse.File, n ast.Node) {
	ast.Inspect(n, func(c, _ ast.Node, _ string) bool {
		if ast.IsIdentifier(c, "arguments") {
			file.Mark(c, ownArguments)
		}
		return !ast.IsFunction(c)
	})
}

func onlyIdentifiers(params []ast.Node) bool {
	for _, param := range params {
		if _, ok := param.(*ast.Identifier); !ok {
			return false
		}
	}
	return true
}
