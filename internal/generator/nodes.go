package generator

import (
	"fmt"

	"github.com/roach88/babelgo/internal/ast"
)

func nodesOf[T ast.Node](xs []T) []ast.Node {
	out := make([]ast.Node, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func (p *printer) printNode(n, parent ast.Node) {
	switch n := n.(type) {
	case *ast.Program:
		p.printSequence(nodesOf(n.Directives), n, false, nil)
		if len(n.Directives) > 0 {
			p.newline(1)
		}
		p.printSequence(n.Body, n, false, nil)

	case *ast.Directive:
		p.print(n.Value, n)
		p.semicolon()
	case *ast.DirectiveLiteral:
		if n.Raw != "" {
			p.token(n.Raw)
			return
		}
		p.token(quoteString(n.Value, p.quote))

	case *ast.ExpressionStatement:
		p.print(n.Expression, n)
		p.semicolon()
	case *ast.BlockStatement:
		p.block(n)
	case *ast.EmptyStatement:
		p.semicolon()
	case *ast.DebuggerStatement:
		p.word("debugger")
		p.semicolon()
	case *ast.WithStatement:
		p.word("with")
		p.space()
		p.token("(")
		p.print(n.Object, n)
		p.token(")")
		p.printBlock(n.Body, n)
	case *ast.ReturnStatement:
		p.word("return")
		if n.Argument != nil {
			p.space()
			p.print(n.Argument, n)
		}
		p.semicolon()
	case *ast.ThrowStatement:
		p.word("throw")
		p.space()
		p.print(n.Argument, n)
		p.semicolon()
	case *ast.LabeledStatement:
		p.print(n.Label, n)
		p.token(":")
		p.space()
		p.print(n.Body, n)
	case *ast.BreakStatement:
		p.jump("break", n.Label, n)
	case *ast.ContinueStatement:
		p.jump("continue", n.Label, n)
	case *ast.IfStatement:
		p.ifStatement(n)
	case *ast.SwitchStatement:
		p.word("switch")
		p.space()
		p.token("(")
		p.print(n.Discriminant, n)
		p.token(")")
		p.space()
		p.token("{")
		last := len(n.Cases) - 1
		p.printSequence(nodesOf(n.Cases), n, true, func(leading bool, c ast.Node) int {
			if !leading && last >= 0 && c == ast.Node(n.Cases[last]) {
				return -1
			}
			return 0
		})
		p.token("}")
	case *ast.SwitchCase:
		if n.Test != nil {
			p.word("case")
			p.space()
			p.print(n.Test, n)
			p.token(":")
		} else {
			p.word("default")
			p.token(":")
		}
		if len(n.Consequent) > 0 {
			p.newline(1)
			p.printSequence(n.Consequent, n, true, nil)
		}
	case *ast.TryStatement:
		p.word("try")
		p.space()
		p.print(n.Block, n)
		p.space()
		if n.Handler != nil {
			p.print(n.Handler, n)
		}
		if n.Finalizer != nil {
			p.space()
			p.word("finally")
			p.space()
			p.print(n.Finalizer, n)
		}
	case *ast.CatchClause:
		p.word("catch")
		p.space()
		if n.Param != nil {
			p.token("(")
			p.print(n.Param, n)
			p.token(")")
			p.space()
		}
		p.print(n.Body, n)
	case *ast.WhileStatement:
		p.word("while")
		p.space()
		p.token("(")
		p.print(n.Test, n)
		p.token(")")
		p.printBlock(n.Body, n)
	case *ast.DoWhileStatement:
		p.word("do")
		p.space()
		p.print(n.Body, n)
		p.space()
		p.word("while")
		p.space()
		p.token("(")
		p.print(n.Test, n)
		p.token(")")
		p.semicolon()
	case *ast.ForStatement:
		p.word("for")
		p.space()
		p.token("(")
		p.forInit++
		p.print(n.Init, n)
		p.forInit--
		p.token(";")
		if n.Test != nil {
			p.space()
			p.print(n.Test, n)
		}
		p.token(";")
		if n.Update != nil {
			p.space()
			p.print(n.Update, n)
		}
		p.token(")")
		p.printBlock(n.Body, n)
	case *ast.ForInStatement:
		p.forInOf("in", false, n.Left, n.Right, n.Body, n)
	case *ast.ForOfStatement:
		p.forInOf("of", n.Await, n.Left, n.Right, n.Body, n)

	case *ast.VariableDeclaration:
		p.variableDeclaration(n, parent)
	case *ast.VariableDeclarator:
		p.print(n.ID, n)
		if n.Init != nil {
			p.space()
			p.token("=")
			p.space()
			p.print(n.Init, n)
		}

	case *ast.FunctionDeclaration:
		p.function(n, n.Async, n.Generator, n.ID, n.Params, n.Body)
	case *ast.FunctionExpression:
		p.function(n, n.Async, n.Generator, n.ID, n.Params, n.Body)
	case *ast.ArrowFunctionExpression:
		if n.Async {
			p.word("async")
			p.space()
		}
		if len(n.Params) == 1 && ast.IsIdentifier(n.Params[0]) {
			p.print(n.Params[0], n)
		} else {
			p.params(n.Params, n)
		}
		p.space()
		p.token("=>")
		p.space()
		p.print(n.Body, n)

	case *ast.ClassDeclaration:
		p.class(n, n.ID, n.SuperClass, n.Body)
	case *ast.ClassExpression:
		p.class(n, n.ID, n.SuperClass, n.Body)
	case *ast.ClassBody:
		p.token("{")
		if len(n.Body) == 0 {
			p.token("}")
			return
		}
		p.newline(1)
		p.printSequence(n.Body, n, true, nil)
		if !p.endsWith("\n") {
			p.newline(1)
		}
		p.token("}")
	case *ast.ClassMethod:
		if n.Static {
			p.word("static")
			p.space()
		}
		p.method(n, n.Kind, n.Key, n.Computed, n.Async, n.Generator, n.Params, n.Body)
	case *ast.ClassProperty:
		if n.Static {
			p.word("static")
			p.space()
		}
		p.propertyKey(n.Key, n.Computed, n)
		if n.Value != nil {
			p.space()
			p.token("=")
			p.space()
			p.print(n.Value, n)
		}
		p.semicolon()

	case *ast.ImportDeclaration:
		p.importDeclaration(n)
	case *ast.ImportSpecifier:
		p.print(n.Imported, n)
		if n.Local != nil && n.Local.Name != n.Imported.Name {
			p.space()
			p.word("as")
			p.space()
			p.print(n.Local, n)
		}
	case *ast.ImportDefaultSpecifier:
		p.print(n.Local, n)
	case *ast.ImportNamespaceSpecifier:
		p.token("*")
		p.space()
		p.word("as")
		p.space()
		p.print(n.Local, n)
	case *ast.ExportNamedDeclaration:
		p.word("export")
		p.space()
		p.exportDeclaration(n.Declaration, n.Specifiers, n.Source, n)
	case *ast.ExportDefaultDeclaration:
		p.word("export")
		p.space()
		p.word("default")
		p.space()
		p.exportDeclaration(n.Declaration, nil, nil, n)
	case *ast.ExportAllDeclaration:
		p.word("export")
		p.space()
		p.token("*")
		p.space()
		p.word("from")
		p.space()
		p.print(n.Source, n)
		p.semicolon()
	case *ast.ExportSpecifier:
		p.print(n.Local, n)
		if n.Exported != nil && n.Exported.Name != n.Local.Name {
			p.space()
			p.word("as")
			p.space()
			p.print(n.Exported, n)
		}
	case *ast.ExportNamespaceSpecifier:
		p.token("*")
		p.space()
		p.word("as")
		p.space()
		p.print(n.Exported, n)

	case *ast.Identifier:
		p.word(n.Name)
	case *ast.PrivateName:
		p.token("#")
		p.print(n.ID, n)
	case *ast.StringLiteral:
		if n.Raw != "" {
			p.token(n.Raw)
			return
		}
		p.token(quoteString(n.Value, p.quote))
	case *ast.NumericLiteral:
		if n.Raw != "" {
			p.number(n.Raw)
			return
		}
		p.number(formatNumber(n.Value))
	case *ast.BooleanLiteral:
		if n.Value {
			p.word("true")
		} else {
			p.word("false")
		}
	case *ast.NullLiteral:
		p.word("null")
	case *ast.RegExpLiteral:
		p.word("/" + n.Pattern + "/" + n.Flags)
	case *ast.TemplateLiteral:
		p.token("`")
		for i, q := range n.Quasis {
			p.print(q, n)
			if i+1 < len(n.Quasis) && i < len(n.Expressions) {
				p.token("${")
				p.print(n.Expressions[i], n)
				p.token("}")
			}
		}
		p.token("`")
	case *ast.TemplateElement:
		p.token(n.Value.Raw)
	case *ast.TaggedTemplateExpression:
		p.print(n.Tag, n)
		p.print(n.Quasi, n)
	case *ast.ThisExpression:
		p.word("this")
	case *ast.Super:
		p.word("super")

	case *ast.ArrayExpression:
		p.array(n.Elements, n)
	case *ast.ArrayPattern:
		p.array(n.Elements, n)
	case *ast.ObjectExpression:
		p.object(n.Properties, n)
	case *ast.ObjectPattern:
		p.object(n.Properties, n)
	case *ast.ObjectProperty:
		p.objectProperty(n)
	case *ast.ObjectMethod:
		p.method(n, n.Kind, n.Key, n.Computed, n.Async, n.Generator, n.Params, n.Body)
	case *ast.SpreadElement:
		p.token("...")
		p.print(n.Argument, n)
	case *ast.RestElement:
		p.token("...")
		p.print(n.Argument, n)
	case *ast.AssignmentPattern:
		p.print(n.Left, n)
		p.space()
		p.token("=")
		p.space()
		p.print(n.Right, n)

	case *ast.UnaryExpression:
		switch n.Operator {
		case "void", "delete", "typeof":
			p.word(n.Operator)
			p.space()
		default:
			p.token(n.Operator)
		}
		p.print(n.Argument, n)
	case *ast.UpdateExpression:
		if n.Prefix {
			p.token(n.Operator)
			p.print(n.Argument, n)
		} else {
			p.print(n.Argument, n)
			p.token(n.Operator)
		}
	case *ast.BinaryExpression:
		p.binary(n, n.Operator, n.Left, n.Right, parent)
	case *ast.LogicalExpression:
		p.binary(n, n.Operator, n.Left, n.Right, parent)
	case *ast.AssignmentExpression:
		p.binary(n, n.Operator, n.Left, n.Right, parent)
	case *ast.ConditionalExpression:
		p.print(n.Test, n)
		p.space()
		p.token("?")
		p.space()
		p.print(n.Consequent, n)
		p.space()
		p.token(":")
		p.space()
		p.print(n.Alternate, n)
	case *ast.CallExpression:
		p.print(n.Callee, n)
		if n.Optional {
			p.token("?.")
		}
		p.token("(")
		p.printList(n.Arguments, n)
		p.token(")")
	case *ast.NewExpression:
		p.word("new")
		p.space()
		p.print(n.Callee, n)
		p.token("(")
		p.printList(n.Arguments, n)
		p.token(")")
	case *ast.MemberExpression:
		p.member(n)
	case *ast.SequenceExpression:
		p.printList(n.Expressions, n)
	case *ast.YieldExpression:
		p.word("yield")
		if n.Delegate {
			p.token("*")
		}
		if n.Argument != nil {
			p.space()
			p.print(n.Argument, n)
		}
	case *ast.AwaitExpression:
		p.word("await")
		p.space()
		p.print(n.Argument, n)
	case *ast.MetaProperty:
		p.print(n.Meta, n)
		p.token(".")
		p.print(n.Property, n)

	default:
		panic(fmt.Sprintf("generator: cannot print %s", n.Type()))
	}
}

func (p *printer) block(n *ast.BlockStatement) {
	p.token("{")
	if len(n.Body) == 0 && len(n.Directives) == 0 {
		p.token("}")
		return
	}
	p.newline(1)
	p.printSequence(nodesOf(n.Directives), n, true, nil)
	if len(n.Directives) > 0 {
		p.newline(1)
	}
	p.printSequence(n.Body, n, true, nil)
	p.removeTrailingNewline()
	if !p.endsWith("\n") {
		p.newline(1)
	}
	p.token("}")
}

// printBlock prints a loop or with body, which is a lone ";" when empty.
func (p *printer) printBlock(body, parent ast.Node) {
	if _, ok := body.(*ast.EmptyStatement); ok {
		p.semicolon()
		return
	}
	p.space()
	p.print(body, parent)
}

func (p *printer) jump(keyword string, label *ast.Identifier, n ast.Node) {
	p.word(keyword)
	if label != nil {
		p.space()
		p.print(label, n)
	}
	p.semicolon()
}

func (p *printer) ifStatement(n *ast.IfStatement) {
	p.word("if")
	p.space()
	p.token("(")
	p.print(n.Test, n)
	p.token(")")
	p.space()

	_, nestedIf := lastStatement(n.Consequent).(*ast.IfStatement)
	needsBlock := n.Alternate != nil && nestedIf
	if needsBlock {
		p.token("{")
		p.newline(1)
		p.indent++
	}
	p.print(n.Consequent, n)
	if needsBlock {
		p.indent--
		p.newline(1)
		p.token("}")
	}

	if n.Alternate != nil {
		if p.endsWith("}") {
			p.space()
		}
		p.word("else")
		p.space()
		p.print(n.Alternate, n)
	}
}

// lastStatement follows the trailing statement of nested bodies so a
// dangling else binds to the right if.
func lastStatement(n ast.Node) ast.Node {
	switch s := n.(type) {
	case *ast.IfStatement:
		if s.Alternate == nil {
			return s
		}
		return lastStatement(s.Alternate)
	case *ast.WhileStatement:
		return lastStatement(s.Body)
	case *ast.ForStatement:
		return lastStatement(s.Body)
	case *ast.ForInStatement:
		return lastStatement(s.Body)
	case *ast.ForOfStatement:
		return lastStatement(s.Body)
	case *ast.LabeledStatement:
		return lastStatement(s.Body)
	case *ast.WithStatement:
		return lastStatement(s.Body)
	}
	return n
}

func (p *printer) forInOf(op string, await bool, left, right, body, n ast.Node) {
	p.word("for")
	p.space()
	if await {
		p.word("await")
		p.space()
	}
	p.token("(")
	p.print(left, n)
	p.space()
	p.word(op)
	p.space()
	p.print(right, n)
	p.token(")")
	p.printBlock(body, n)
}

func (p *printer) variableDeclaration(n *ast.VariableDeclaration, parent ast.Node) {
	p.word(n.Kind)
	p.space()

	inFor := ast.Is(parent, ast.AliasFor)
	hasInits := false
	if !inFor {
		for _, d := range n.Declarations {
			if d.Init != nil {
				hasInits = true
			}
		}
	}

	sep := p.commaSeparator
	if hasInits {
		width := 4
		if n.Kind == "const" {
			width = 6
		}
		sep = func() {
			p.token(",")
			p.newline(1)
			if p.endsWith("\n") {
				for range width {
					p.forceSpace()
				}
			}
		}
	}
	p.printJoin(nodesOf(n.Declarations), n, joinOpts{separator: sep})

	if inFor {
		switch f := parent.(type) {
		case *ast.ForStatement:
			if f.Init == ast.Node(n) {
				return
			}
		case *ast.ForInStatement:
			if f.Left == ast.Node(n) {
				return
			}
		case *ast.ForOfStatement:
			if f.Left == ast.Node(n) {
				return
			}
		}
	}
	p.semicolon()
}

func (p *printer) function(n ast.Node, async, generator bool, id *ast.Identifier, params []ast.Node, body *ast.BlockStatement) {
	if async {
		p.word("async")
		p.space()
	}
	p.word("function")
	if generator {
		p.token("*")
	}
	p.space()
	if id != nil {
		p.print(id, n)
	}
	p.params(params, n)
	p.space()
	p.print(body, n)
}

func (p *printer) params(params []ast.Node, n ast.Node) {
	p.token("(")
	p.printList(params, n)
	p.token(")")
}

func (p *printer) method(n ast.Node, kind string, key ast.Node, computed, async, generator bool, params []ast.Node, body *ast.BlockStatement) {
	if kind == "get" || kind == "set" {
		p.word(kind)
		p.space()
	}
	if async {
		p.word("async")
		p.space()
	}
	if generator && (kind == "method" || kind == "init" || kind == "") {
		p.token("*")
	}
	p.propertyKey(key, computed, n)
	p.params(params, n)
	p.space()
	p.print(body, n)
}

func (p *printer) propertyKey(key ast.Node, computed bool, n ast.Node) {
	if computed {
		p.token("[")
		p.print(key, n)
		p.token("]")
		return
	}
	p.print(key, n)
}

func (p *printer) class(n ast.Node, id *ast.Identifier, super ast.Node, body *ast.ClassBody) {
	p.word("class")
	if id != nil {
		p.space()
		p.print(id, n)
	}
	if super != nil {
		p.space()
		p.word("extends")
		p.space()
		p.print(super, n)
	}
	p.space()
	p.print(body, n)
}

func (p *printer) importDeclaration(n *ast.ImportDeclaration) {
	p.word("import")
	p.space()

	specs := n.Specifiers
	if len(specs) > 0 {
		for len(specs) > 0 {
			first := specs[0].Type()
			if first != ast.KindImportDefaultSpecifier && first != ast.KindImportNamespaceSpecifier {
				break
			}
			p.print(specs[0], n)
			specs = specs[1:]
			if len(specs) > 0 {
				p.token(",")
				p.space()
			}
		}
		if len(specs) > 0 {
			p.token("{")
			p.space()
			p.printList(specs, n)
			p.space()
			p.token("}")
		}
		p.space()
		p.word("from")
		p.space()
	}
	p.print(n.Source, n)
	p.semicolon()
}

func (p *printer) exportDeclaration(decl ast.Node, specs []ast.Node, source *ast.StringLiteral, n ast.Node) {
	if decl != nil {
		p.print(decl, n)
		if !ast.IsStatement(decl) {
			p.semicolon()
		}
		return
	}

	special := false
	for len(specs) > 0 && specs[0].Type() == ast.KindExportNamespaceSpecifier {
		special = true
		p.print(specs[0], n)
		specs = specs[1:]
		if len(specs) > 0 {
			p.token(",")
			p.space()
		}
	}
	if len(specs) > 0 || !special {
		p.token("{")
		if len(specs) > 0 {
			p.space()
			p.printList(specs, n)
			p.space()
		}
		p.token("}")
	}
	if source != nil {
		p.space()
		p.word("from")
		p.space()
		p.print(source, n)
	}
	p.semicolon()
}

func (p *printer) array(elems []ast.Node, n ast.Node) {
	p.token("[")
	for i, el := range elems {
		if ast.IsNil(el) {
			p.token(",")
			continue
		}
		if i > 0 {
			p.space()
		}
		p.print(el, n)
		if i < len(elems)-1 {
			p.token(",")
		}
	}
	p.token("]")
}

func (p *printer) object(props []ast.Node, n ast.Node) {
	p.token("{")
	if len(props) > 0 {
		p.space()
		p.printJoin(props, n, joinOpts{indent: true, statement: true, separator: p.commaSeparator})
		p.space()
	}
	p.token("}")
}

func (p *printer) objectProperty(n *ast.ObjectProperty) {
	if n.Computed {
		p.token("[")
		p.print(n.Key, n)
		p.token("]")
	} else {
		key, keyIsIdent := n.Key.(*ast.Identifier)
		if ap, ok := n.Value.(*ast.AssignmentPattern); ok && keyIsIdent && ast.IsIdentifier(ap.Left, key.Name) {
			p.print(n.Value, n)
			return
		}
		p.print(n.Key, n)
		if n.Shorthand && keyIsIdent && ast.IsIdentifier(n.Value, key.Name) {
			return
		}
	}
	p.token(":")
	p.space()
	p.print(n.Value, n)
}

func (p *printer) binary(n ast.Node, op string, left, right, parent ast.Node) {
	parens := p.forInit > 0 && op == "in" && !needsParens(n, parent, p.stack)
	if parens {
		p.token("(")
	}
	p.print(left, n)
	p.space()
	if op == "in" || op == "instanceof" {
		p.word(op)
	} else {
		p.token(op)
	}
	p.space()
	p.print(right, n)
	if parens {
		p.token(")")
	}
}

func (p *printer) member(n *ast.MemberExpression) {
	p.print(n.Object, n)

	computed := n.Computed
	if num, ok := n.Property.(*ast.NumericLiteral); ok && num != nil {
		computed = true
	}
	switch {
	case computed && n.Optional:
		p.token("?.[")
	case computed:
		p.token("[")
	case n.Optional:
		p.token("?.")
	default:
		p.token(".")
	}
	p.print(n.Property, n)
	if computed {
		p.token("]")
	}
}
