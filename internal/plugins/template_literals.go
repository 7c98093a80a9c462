package plugins

import (
	"fmt"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

// newTemplateLiterals compiles template literals to string concatenation.
// Options: loose selects the lighter tagged-template helper; spec calls
// String.prototype.concat so values convert exactly like a template would.
func newTemplateLiterals(map[string]any) (*traverse.Plugin, error) {
	return simple(TemplateLiterals, traverse.Visitor{
		ast.KindTaggedTemplateExpression: traverse.Enter(taggedTemplate),
		ast.KindTemplateLiteral:          traverse.Enter(templateLiteral),
	}), nil
}

func taggedTemplate(p *traverse.Path, pass *traverse.Pass) error {
	node := p.Node.(*ast.TaggedTemplateExpression)
	cooked := make([]ast.Node, 0, len(node.Quasi.Quasis))
	raw := make([]ast.Node, 0, len(node.Quasi.Quasis))
	rawText := make([]string, 0, len(node.Quasi.Quasis))
	for _, q := range node.Quasi.Quasis {
		cooked = append(cooked, ast.NewString(q.Value.Cooked))
		raw = append(raw, ast.NewString(q.Value.Raw))
		rawText = append(rawText, q.Value.Raw)
	}

	helper := "taggedTemplateLiteral"
	if pass.OptBool("loose", false) {
		helper += "Loose"
	}

	// Identical templates share one frozen strings object.
	objects, _ := pass.Get("templateObjects").(map[string]string)
	if objects == nil {
		objects = map[string]string{}
		pass.Set("templateObjects", objects)
	}
	key := fmt.Sprintf("%s_%d_%s", helper, len(raw), strings.Join(rawText, ","))
	name, ok := objects[key]
	if !ok {
		name = pass.File.GenerateUID("templateObject")
		objects[key] = name
		init := ast.NewCall(useHelper(pass.File, helper),
			&ast.ArrayExpression{Elements: cooked},
			&ast.ArrayExpression{Elements: raw})
		pass.File.Hoist(traverse.HoistImports, ast.NewVar("var", name, init))
	}

	args := append([]ast.Node{ast.NewIdentifier(name)}, node.Quasi.Expressions...)
	return p.ReplaceWith(ast.SetSpan(ast.NewCall(node.Tag, args...), node))
}

func templateLiteral(p *traverse.Path, pass *traverse.Pass) error {
	node := p.Node.(*ast.TemplateLiteral)
	if pass.OptBool("spec", false) {
		return p.ReplaceWith(ast.SetSpan(concatTemplate(node), node))
	}

	var parts []ast.Node
	for i, q := range node.Quasis {
		parts = append(parts, ast.NewString(q.Value.Cooked))
		if i < len(node.Expressions) {
			parts = append(parts, node.Expressions[i])
		}
	}
	parts = filterEmptyStrings(parts)
	if !isString(at(parts, 0)) && !isString(at(parts, 1)) {
		parts = append([]ast.Node{ast.NewString("")}, parts...)
	}

	root := parts[0]
	for _, part := range parts[1:] {
		root = ast.NewBinary("+", root, part)
	}
	return p.ReplaceWith(ast.SetSpan(root, node))
}

// concatTemplate builds "a".concat(b, "c", d). Literal chunks may share a
// call with the value before them; every other value starts a new call so
// each is converted in order.
func concatTemplate(node *ast.TemplateLiteral) ast.Node {
	var parts []ast.Node
	for i, q := range node.Quasis {
		if q.Value.Cooked != "" {
			parts = append(parts, ast.NewString(q.Value.Cooked))
		}
		if i < len(node.Expressions) {
			if s, ok := node.Expressions[i].(*ast.StringLiteral); ok && s.Value == "" {
				continue
			}
			parts = append(parts, node.Expressions[i])
		}
	}
	if !isString(at(parts, 0)) {
		parts = append([]ast.Node{ast.NewString("")}, parts...)
	}

	root := parts[0]
	avail := true
	for _, part := range parts[1:] {
		insert := ast.Is(part, ast.AliasLiteral)
		if !insert && avail {
			insert = true
			avail = false
		}
		if call, ok := root.(*ast.CallExpression); ok && insert {
			call.Arguments = append(call.Arguments, part)
			continue
		}
		root = ast.NewCall(ast.NewMember(root, "concat"), part)
	}
	return root
}

func filterEmptyStrings(nodes []ast.Node) []ast.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if s, ok := n.(*ast.StringLiteral); ok && s.Value == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

func isString(n ast.Node) bool {
	_, ok := n.(*ast.StringLiteral)
	return ok
}

func at(nodes []ast.Node, i int) ast.Node {
	if i < len(nodes) {
		return nodes[i]
	}
	return nil
}
