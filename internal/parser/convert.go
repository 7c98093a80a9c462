package parser

import (
	"fmt"
	"strings"

	sast "github.com/grafana/sobek/ast"
	"github.com/grafana/sobek/file"
	"github.com/grafana/sobek/token"

	"github.com/roach88/babelgo/internal/ast"
)

// converter maps sobek's tree onto ast nodes. The first unsupported
// construct is recorded in err; conversion keeps going and the caller checks
// err once at the end.
type converter struct {
	src      string
	filename string
	err      error

	// semicolons holds the offsets of the ";" ending import declarations.
	// sobek leaves that token in the statement list as an EmptyStatement.
	semicolons map[int]bool
}

// offset maps a sobek index (1-based, nil file set) to a byte offset.
func (c *converter) offset(idx file.Idx) int {
	off := int(idx) - 1
	if off < 0 {
		return 0
	}
	if off > len(c.src) {
		return len(c.src)
	}
	return off
}

func (c *converter) span(n sast.Node) ast.Base {
	return ast.Base{Start: c.offset(n.Idx0()), End: c.offset(n.Idx1())}
}

func (c *converter) fail(n sast.Node, format string, args ...any) {
	if c.err != nil {
		return
	}
	line, col := Position(c.src, c.offset(n.Idx0()))
	c.err = &SyntaxError{
		Filename: c.filename,
		Line:     line,
		Column:   col,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (c *converter) program(p *sast.Program, sourceType string) *ast.Program {
	directives, rest := c.directives(p.Body)
	return &ast.Program{
		Base:       ast.Base{Start: 0, End: len(c.src)},
		Directives: directives,
		Body:       c.statements(rest),
		SourceType: sourceType,
	}
}

// directives splits the leading string-literal statements off a body.
func (c *converter) directives(list []sast.Statement) ([]*ast.Directive, []sast.Statement) {
	directives := []*ast.Directive{}
	for len(list) > 0 {
		es, ok := list[0].(*sast.ExpressionStatement)
		if !ok {
			break
		}
		lit, ok := es.Expression.(*sast.StringLiteral)
		if !ok || len(lit.Literal) < 2 {
			break
		}
		raw := lit.Literal
		directives = append(directives, &ast.Directive{
			Base: c.span(es),
			Value: &ast.DirectiveLiteral{
				Base:  c.span(lit),
				Value: raw[1 : len(raw)-1],
				Raw:   raw,
			},
		})
		list = list[1:]
	}
	return directives, list
}

func (c *converter) statements(list []sast.Statement) []ast.Node {
	out := make([]ast.Node, 0, len(list))
	for _, s := range list {
		if e, ok := s.(*sast.EmptyStatement); ok && c.semicolons[c.offset(e.Semicolon)] {
			continue
		}
		if n := c.stmt(s); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (c *converter) block(b *sast.BlockStatement) *ast.BlockStatement {
	if b == nil {
		return nil
	}
	return &ast.BlockStatement{Base: c.span(b), Directives: []*ast.Directive{}, Body: c.statements(b.List)}
}

func (c *converter) functionBody(b *sast.BlockStatement) *ast.BlockStatement {
	if b == nil {
		return nil
	}
	directives, rest := c.directives(b.List)
	return &ast.BlockStatement{Base: c.span(b), Directives: directives, Body: c.statements(rest)}
}

func (c *converter) optStmt(s sast.Statement) ast.Node {
	if s == nil {
		return nil
	}
	return c.stmt(s)
}

func (c *converter) stmt(s sast.Statement) ast.Node {
	switch s := s.(type) {
	case *sast.ExpressionStatement:
		return &ast.ExpressionStatement{Base: c.span(s), Expression: c.expr(s.Expression)}
	case *sast.BlockStatement:
		return c.block(s)
	case *sast.EmptyStatement:
		return &ast.EmptyStatement{Base: c.span(s)}
	case *sast.DebuggerStatement:
		return &ast.DebuggerStatement{Base: c.span(s)}
	case *sast.WithStatement:
		return &ast.WithStatement{Base: c.span(s), Object: c.expr(s.Object), Body: c.stmt(s.Body)}
	case *sast.ReturnStatement:
		return &ast.ReturnStatement{Base: c.span(s), Argument: c.optExpr(s.Argument)}
	case *sast.LabelledStatement:
		return &ast.LabeledStatement{Base: c.span(s), Label: c.ident(s.Label), Body: c.stmt(s.Statement)}
	case *sast.BranchStatement:
		var label *ast.Identifier
		if s.Label != nil {
			label = c.ident(s.Label)
		}
		if s.Token == token.CONTINUE {
			return &ast.ContinueStatement{Base: c.span(s), Label: label}
		}
		return &ast.BreakStatement{Base: c.span(s), Label: label}
	case *sast.IfStatement:
		return &ast.IfStatement{
			Base:       c.span(s),
			Test:       c.expr(s.Test),
			Consequent: c.stmt(s.Consequent),
			Alternate:  c.optStmt(s.Alternate),
		}
	case *sast.SwitchStatement:
		sw := &ast.SwitchStatement{Base: c.span(s), Discriminant: c.expr(s.Discriminant), Cases: []*ast.SwitchCase{}}
		for _, cs := range s.Body {
			sw.Cases = append(sw.Cases, &ast.SwitchCase{
				Base:       c.span(cs),
				Test:       c.optExpr(cs.Test),
				Consequent: c.statements(cs.Consequent),
			})
		}
		return sw
	case *sast.ThrowStatement:
		return &ast.ThrowStatement{Base: c.span(s), Argument: c.expr(s.Argument)}
	case *sast.TryStatement:
		try := &ast.TryStatement{Base: c.span(s), Block: c.block(s.Body), Finalizer: c.block(s.Finally)}
		if s.Catch != nil {
			handler := &ast.CatchClause{Base: c.span(s.Catch), Body: c.block(s.Catch.Body)}
			if s.Catch.Parameter != nil {
				handler.Param = c.pattern(s.Catch.Parameter)
			}
			try.Handler = handler
		}
		return try
	case *sast.WhileStatement:
		return &ast.WhileStatement{Base: c.span(s), Test: c.expr(s.Test), Body: c.stmt(s.Body)}
	case *sast.DoWhileStatement:
		return &ast.DoWhileStatement{Base: c.span(s), Test: c.expr(s.Test), Body: c.stmt(s.Body)}
	case *sast.ForStatement:
		return &ast.ForStatement{
			Base:   c.span(s),
			Init:   c.forInit(s.Initializer),
			Test:   c.optExpr(s.Test),
			Update: c.optExpr(s.Update),
			Body:   c.stmt(s.Body),
		}
	case *sast.ForInStatement:
		return &ast.ForInStatement{Base: c.span(s), Left: c.forInto(s.Into), Right: c.expr(s.Source), Body: c.stmt(s.Body)}
	case *sast.ForOfStatement:
		return &ast.ForOfStatement{Base: c.span(s), Left: c.forInto(s.Into), Right: c.expr(s.Source), Body: c.stmt(s.Body)}
	case *sast.FunctionDeclaration:
		return c.functionDeclaration(s)
	case *sast.ClassDeclaration:
		return c.classDeclaration(s)
	case *sast.VariableStatement:
		return c.variables(s, "var", s.List)
	case *sast.LexicalDeclaration:
		return c.variables(s, lexicalKind(s.Token), s.List)
	case *sast.ImportDeclaration:
		return c.importDeclaration(s)
	case *sast.ExportDeclaration:
		return c.exportDeclaration(s)
	case *sast.BadStatement:
		c.fail(s, "Unexpected token")
		return nil
	case nil:
		return nil
	default:
		c.fail(s, "Unsupported statement %T", s)
		return nil
	}
}

func lexicalKind(tok token.Token) string {
	if tok == token.CONST {
		return "const"
	}
	return "let"
}

func (c *converter) variables(n sast.Node, kind string, list []*sast.Binding) *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Base: c.span(n), Kind: kind, Declarations: []*ast.VariableDeclarator{}}
	for _, b := range list {
		decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
			Base: c.span(b),
			ID:   c.pattern(b.Target),
			Init: c.optExpr(b.Initializer),
		})
	}
	return decl
}

func (c *converter) forInit(init sast.ForLoopInitializer) ast.Node {
	switch i := init.(type) {
	case nil:
		return nil
	case *sast.ForLoopInitializerExpression:
		return c.expr(i.Expression)
	case *sast.ForLoopInitializerVarDeclList:
		decl := &ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{}}
		for _, b := range i.List {
			decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
				Base: c.span(b), ID: c.pattern(b.Target), Init: c.optExpr(b.Initializer),
			})
		}
		if len(i.List) > 0 {
			decl.Start = c.offset(i.List[0].Idx0())
			decl.End = c.offset(i.List[len(i.List)-1].Idx1())
		}
		return decl
	case *sast.ForLoopInitializerLexicalDecl:
		return c.variables(&i.LexicalDeclaration, lexicalKind(i.LexicalDeclaration.Token), i.LexicalDeclaration.List)
	default:
		c.err = fmt.Errorf("unsupported for-loop initializer %T", init)
		return nil
	}
}

func (c *converter) forInto(into sast.ForInto) ast.Node {
	switch i := into.(type) {
	case *sast.ForIntoVar:
		return &ast.VariableDeclaration{
			Base: c.span(i.Binding),
			Kind: "var",
			Declarations: []*ast.VariableDeclarator{{
				Base: c.span(i.Binding),
				ID:   c.pattern(i.Binding.Target),
				Init: c.optExpr(i.Binding.Initializer),
			}},
		}
	case *sast.ForDeclaration:
		kind := "let"
		if i.IsConst {
			kind = "const"
		}
		return &ast.VariableDeclaration{
			Base:         c.span(i),
			Kind:         kind,
			Declarations: []*ast.VariableDeclarator{{Base: c.span(i), ID: c.pattern(i.Target)}},
		}
	case *sast.ForIntoExpression:
		return c.pattern(i.Expression)
	default:
		c.err = fmt.Errorf("unsupported for-in/of head %T", into)
		return nil
	}
}

func (c *converter) functionDeclaration(s *sast.FunctionDeclaration) *ast.FunctionDeclaration {
	fn := s.Function
	decl := &ast.FunctionDeclaration{
		Base:      c.span(s),
		Params:    c.params(fn.ParameterList),
		Body:      c.functionBody(fn.Body),
		Generator: fn.Generator,
		Async:     fn.Async,
	}
	if fn.Name != nil && fn.Name.Name != "default" {
		decl.ID = c.ident(fn.Name)
	}
	return decl
}

func (c *converter) classDeclaration(s *sast.ClassDeclaration) *ast.ClassDeclaration {
	id, super, body := c.class(s.Class)
	return &ast.ClassDeclaration{Base: c.span(s), ID: id, SuperClass: super, Body: body}
}

func (c *converter) class(cl *sast.ClassLiteral) (*ast.Identifier, ast.Node, *ast.ClassBody) {
	var id *ast.Identifier
	if cl.Name != nil && cl.Name.Name != "default" {
		id = c.ident(cl.Name)
	}
	body := &ast.ClassBody{Base: c.span(cl), Body: []ast.Node{}}
	for _, el := range cl.Body {
		switch e := el.(type) {
		case *sast.MethodDefinition:
			key := c.propertyKey(e.Key, e.Computed)
			kind := string(e.Kind)
			if kind == string(sast.PropertyKindMethod) && !e.Static && ast.StaticName(key, e.Computed) == "constructor" {
				kind = "constructor"
			}
			body.Body = append(body.Body, &ast.ClassMethod{
				Base:      c.span(e),
				Kind:      kind,
				Key:       key,
				Params:    c.params(e.Body.ParameterList),
				Body:      c.functionBody(e.Body.Body),
				Computed:  e.Computed,
				Static:    e.Static,
				Generator: e.Body.Generator,
				Async:     e.Body.Async,
			})
		case *sast.FieldDefinition:
			body.Body = append(body.Body, &ast.ClassProperty{
				Base:     c.span(e),
				Key:      c.propertyKey(e.Key, e.Computed),
				Value:    c.optExpr(e.Initializer),
				Computed: e.Computed,
				Static:   e.Static,
			})
		default:
			c.fail(el, "Unsupported class element %T", el)
		}
	}
	return id, c.optExpr(cl.SuperClass), body
}

func (c *converter) params(pl *sast.ParameterList) []ast.Node {
	out := []ast.Node{}
	if pl == nil {
		return out
	}
	for _, b := range pl.List {
		param := c.pattern(b.Target)
		if b.Initializer != nil {
			param = &ast.AssignmentPattern{Base: c.span(b), Left: param, Right: c.expr(b.Initializer)}
		}
		out = append(out, param)
	}
	if pl.Rest != nil {
		out = append(out, &ast.RestElement{Base: c.span(pl.Rest), Argument: c.pattern(pl.Rest)})
	}
	return out
}

func (c *converter) importDeclaration(s *sast.ImportDeclaration) *ast.ImportDeclaration {
	decl := &ast.ImportDeclaration{Base: c.span(s), Specifiers: []ast.Node{}}
	value := string(s.ModuleSpecifier)
	if s.FromClause != nil {
		value = string(s.FromClause.ModuleSpecifier)
	}
	var semi int
	decl.Source, decl.End, semi = c.moduleSource(decl.Start, value)
	if semi >= 0 {
		if c.semicolons == nil {
			c.semicolons = map[int]bool{}
		}
		c.semicolons[semi] = true
	}

	if clause := s.ImportClause; clause != nil {
		if clause.ImportedDefaultBinding != nil {
			decl.Specifiers = append(decl.Specifiers, &ast.ImportDefaultSpecifier{Local: c.ident(clause.ImportedDefaultBinding)})
		}
		if clause.NameSpaceImport != nil {
			decl.Specifiers = append(decl.Specifiers, &ast.ImportNamespaceSpecifier{
				Local: ast.NewIdentifier(string(clause.NameSpaceImport.ImportedBinding)),
			})
		}
		if clause.NamedImports != nil {
			for _, spec := range clause.NamedImports.ImportsList {
				local := string(spec.IdentifierName)
				if spec.Alias != "" {
					local = string(spec.Alias)
				}
				decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{
					Local:    ast.NewIdentifier(local),
					Imported: ast.NewIdentifier(string(spec.IdentifierName)),
				})
			}
		}
	}
	return decl
}

func (c *converter) exportDeclaration(s *sast.ExportDeclaration) ast.Node {
	base := c.span(s)
	var source *ast.StringLiteral
	if s.FromClause != nil {
		source, base.End, _ = c.moduleSource(base.Start, string(s.FromClause.ModuleSpecifier))
	}

	switch {
	case s.Variable != nil:
		return &ast.ExportNamedDeclaration{Base: base, Declaration: c.stmt(s.Variable), Specifiers: []ast.Node{}}
	case s.LexicalDeclaration != nil:
		return &ast.ExportNamedDeclaration{Base: base, Declaration: c.stmt(s.LexicalDeclaration), Specifiers: []ast.Node{}}
	case s.HoistableDeclaration != nil && s.HoistableDeclaration.FunctionDeclaration != nil:
		fn := c.functionDeclaration(s.HoistableDeclaration.FunctionDeclaration)
		if s.IsDefault {
			return &ast.ExportDefaultDeclaration{Base: base, Declaration: fn}
		}
		return &ast.ExportNamedDeclaration{Base: base, Declaration: fn, Specifiers: []ast.Node{}}
	case s.ClassDeclaration != nil:
		cl := c.classDeclaration(s.ClassDeclaration)
		if s.IsDefault {
			return &ast.ExportDefaultDeclaration{Base: base, Declaration: cl}
		}
		return &ast.ExportNamedDeclaration{Base: base, Declaration: cl, Specifiers: []ast.Node{}}
	case s.AssignExpression != nil:
		return &ast.ExportDefaultDeclaration{Base: base, Declaration: c.expr(s.AssignExpression)}
	case s.ExportFromClause != nil:
		from := s.ExportFromClause
		if from.IsWildcard {
			if from.Alias != "" {
				return &ast.ExportNamedDeclaration{
					Base:       base,
					Specifiers: []ast.Node{&ast.ExportNamespaceSpecifier{Exported: ast.NewIdentifier(string(from.Alias))}},
					Source:     source,
				}
			}
			return &ast.ExportAllDeclaration{Base: base, Source: source}
		}
		return &ast.ExportNamedDeclaration{Base: base, Specifiers: c.exportSpecifiers(from.NamedExports), Source: source}
	case s.NamedExports != nil:
		return &ast.ExportNamedDeclaration{Base: base, Specifiers: c.exportSpecifiers(s.NamedExports), Source: source}
	}
	c.fail(s, "Unsupported export declaration")
	return nil
}

func (c *converter) exportSpecifiers(named *sast.NamedExports) []ast.Node {
	out := []ast.Node{}
	if named == nil {
		return out
	}
	for _, spec := range named.ExportsList {
		exported := string(spec.IdentifierName)
		if spec.Alias != "" {
			exported = string(spec.Alias)
		}
		out = append(out, &ast.ExportSpecifier{
			Local:    ast.NewIdentifier(string(spec.IdentifierName)),
			Exported: ast.NewIdentifier(exported),
		})
	}
	return out
}

func (c *converter) ident(id *sast.Identifier) *ast.Identifier {
	return &ast.Identifier{Base: c.span(id), Name: string(id.Name)}
}

func (c *converter) optExpr(e sast.Expression) ast.Node {
	if e == nil {
		return nil
	}
	return c.expr(e)
}

func (c *converter) exprs(list []sast.Expression) []ast.Node {
	out := make([]ast.Node, 0, len(list))
	for _, e := range list {
		if e == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, c.expr(e))
	}
	return out
}

func (c *converter) expr(e sast.Expression) ast.Node {
	switch e := e.(type) {
	case *sast.Identifier:
		return c.ident(e)
	case *sast.StringLiteral:
		return &ast.StringLiteral{Base: c.span(e), Value: string(e.Value), Raw: e.Literal}
	case *sast.NumberLiteral:
		lit := &ast.NumericLiteral{Base: c.span(e), Raw: e.Literal}
		switch v := e.Value.(type) {
		case int64:
			lit.Value = float64(v)
		case float64:
			lit.Value = v
		default:
			c.fail(e, "BigInt literals are not supported")
		}
		return lit
	case *sast.BooleanLiteral:
		return &ast.BooleanLiteral{Base: c.span(e), Value: e.Value}
	case *sast.NullLiteral:
		return &ast.NullLiteral{Base: c.span(e)}
	case *sast.RegExpLiteral:
		return &ast.RegExpLiteral{Base: c.span(e), Pattern: e.Pattern, Flags: e.Flags}
	case *sast.TemplateLiteral:
		return c.template(e)
	case *sast.ThisExpression:
		return &ast.ThisExpression{Base: c.span(e)}
	case *sast.SuperExpression:
		return &ast.Super{Base: c.span(e)}
	case *sast.ArrayLiteral:
		return &ast.ArrayExpression{Base: c.span(e), Elements: c.exprs(e.Value)}
	case *sast.ObjectLiteral:
		obj := &ast.ObjectExpression{Base: c.span(e), Properties: []ast.Node{}}
		for _, p := range e.Value {
			if n := c.property(p); n != nil {
				obj.Properties = append(obj.Properties, n)
			}
		}
		return obj
	case *sast.FunctionLiteral:
		fn := &ast.FunctionExpression{
			Base:      c.span(e),
			Params:    c.params(e.ParameterList),
			Body:      c.functionBody(e.Body),
			Generator: e.Generator,
			Async:     e.Async,
		}
		if e.Name != nil {
			fn.ID = c.ident(e.Name)
		}
		return fn
	case *sast.ArrowFunctionLiteral:
		arrow := &ast.ArrowFunctionExpression{Base: c.span(e), Params: c.params(e.ParameterList), Async: e.Async}
		switch body := e.Body.(type) {
		case *sast.BlockStatement:
			arrow.Body = c.functionBody(body)
		case *sast.ExpressionBody:
			arrow.Body = c.expr(body.Expression)
			arrow.Expression = true
		}
		return arrow
	case *sast.ClassLiteral:
		id, super, body := c.class(e)
		return &ast.ClassExpression{Base: c.span(e), ID: id, SuperClass: super, Body: body}
	case *sast.UnaryExpression:
		if e.Operator == token.INCREMENT || e.Operator == token.DECREMENT {
			return &ast.UpdateExpression{
				Base:     c.span(e),
				Operator: e.Operator.String(),
				Argument: c.expr(e.Operand),
				Prefix:   !e.Postfix,
			}
		}
		return &ast.UnaryExpression{Base: c.span(e), Operator: e.Operator.String(), Argument: c.expr(e.Operand), Prefix: true}
	case *sast.BinaryExpression:
		switch e.Operator {
		case token.LOGICAL_AND, token.LOGICAL_OR, token.COALESCE:
			return &ast.LogicalExpression{Base: c.span(e), Operator: e.Operator.String(), Left: c.expr(e.Left), Right: c.expr(e.Right)}
		}
		return &ast.BinaryExpression{Base: c.span(e), Operator: e.Operator.String(), Left: c.expr(e.Left), Right: c.expr(e.Right)}
	case *sast.AssignExpression:
		op := "="
		if e.Operator != token.ASSIGN {
			op = e.Operator.String() + "="
		}
		return &ast.AssignmentExpression{Base: c.span(e), Operator: op, Left: c.pattern(e.Left), Right: c.expr(e.Right)}
	case *sast.ConditionalExpression:
		return &ast.ConditionalExpression{
			Base:       c.span(e),
			Test:       c.expr(e.Test),
			Consequent: c.expr(e.Consequent),
			Alternate:  c.expr(e.Alternate),
		}
	case *sast.CallExpression:
		callee, optional := c.chainPart(e.Callee)
		return &ast.CallExpression{Base: c.span(e), Callee: callee, Arguments: c.exprs(e.ArgumentList), Optional: optional}
	case *sast.NewExpression:
		return &ast.NewExpression{Base: c.span(e), Callee: c.expr(e.Callee), Arguments: c.exprs(e.ArgumentList)}
	case *sast.DotExpression:
		object, optional := c.chainPart(e.Left)
		return &ast.MemberExpression{Base: c.span(e), Object: object, Property: c.ident(&e.Identifier), Optional: optional}
	case *sast.PrivateDotExpression:
		object, optional := c.chainPart(e.Left)
		return &ast.MemberExpression{
			Base:     c.span(e),
			Object:   object,
			Property: &ast.PrivateName{ID: c.ident(&e.Identifier.Identifier)},
			Optional: optional,
		}
	case *sast.BracketExpression:
		object, optional := c.chainPart(e.Left)
		return &ast.MemberExpression{Base: c.span(e), Object: object, Property: c.expr(e.Member), Computed: true, Optional: optional}
	case *sast.OptionalChain:
		return c.expr(e.Expression)
	case *sast.Optional:
		return c.expr(e.Expression)
	case *sast.SequenceExpression:
		return &ast.SequenceExpression{Base: c.span(e), Expressions: c.exprs(e.Sequence)}
	case *sast.SpreadElement:
		return &ast.SpreadElement{Base: c.span(e), Argument: c.expr(e.Expression)}
	case *sast.YieldExpression:
		return &ast.YieldExpression{Base: c.span(e), Argument: c.optExpr(e.Argument), Delegate: e.Delegate}
	case *sast.AwaitExpression:
		return &ast.AwaitExpression{Base: c.span(e), Argument: c.expr(e.Argument)}
	case *sast.MetaProperty:
		return &ast.MetaProperty{Base: c.span(e), Meta: c.ident(e.Meta), Property: c.ident(e.Property)}
	case *sast.ObjectPattern, *sast.ArrayPattern:
		return c.pattern(e)
	case *sast.BadExpression:
		c.fail(e, "Unexpected token")
		return nil
	default:
		c.fail(e, "Unsupported expression %T", e)
		return nil
	}
}

// chainPart unwraps the marker sobek places before a ?. link.
func (c *converter) chainPart(e sast.Expression) (ast.Node, bool) {
	if opt, ok := e.(*sast.Optional); ok {
		return c.expr(opt.Expression), true
	}
	return c.expr(e), false
}

func (c *converter) template(e *sast.TemplateLiteral) ast.Node {
	tl := &ast.TemplateLiteral{Base: c.span(e), Quasis: []*ast.TemplateElement{}, Expressions: c.exprs(e.Expressions)}
	for i, el := range e.Elements {
		tl.Quasis = append(tl.Quasis, &ast.TemplateElement{
			Base:  c.span(el),
			Value: ast.TemplateValue{Raw: el.Literal, Cooked: string(el.Parsed)},
			Tail:  i == len(e.Elements)-1,
		})
	}
	if e.Tag == nil {
		return tl
	}
	return &ast.TaggedTemplateExpression{Base: c.span(e), Tag: c.expr(e.Tag), Quasi: tl}
}

func (c *converter) property(p sast.Property) ast.Node {
	switch p := p.(type) {
	case *sast.PropertyShort:
		var value ast.Node = c.ident(&p.Name)
		if p.Initializer != nil {
			value = &ast.AssignmentPattern{Base: c.span(p), Left: value, Right: c.expr(p.Initializer)}
		}
		return &ast.ObjectProperty{Base: c.span(p), Key: c.ident(&p.Name), Value: value, Shorthand: true}
	case *sast.PropertyKeyed:
		key := c.propertyKey(p.Key, p.Computed)
		switch p.Kind {
		case sast.PropertyKindMethod, sast.PropertyKindGet, sast.PropertyKindSet:
			fn, ok := p.Value.(*sast.FunctionLiteral)
			if !ok {
				c.fail(p, "Unsupported method body %T", p.Value)
				return nil
			}
			return &ast.ObjectMethod{
				Base:      c.span(p),
				Kind:      string(p.Kind),
				Key:       key,
				Params:    c.params(fn.ParameterList),
				Body:      c.functionBody(fn.Body),
				Computed:  p.Computed,
				Generator: fn.Generator,
				Async:     fn.Async,
			}
		default:
			return &ast.ObjectProperty{Base: c.span(p), Key: key, Value: c.expr(p.Value), Computed: p.Computed}
		}
	case *sast.SpreadElement:
		return &ast.SpreadElement{Base: c.span(p), Argument: c.expr(p.Expression)}
	default:
		c.fail(p, "Unsupported property %T", p)
		return nil
	}
}

// propertyKey converts an object or class key. sobek represents identifier
// keys as string literals whose raw text is unquoted.
func (c *converter) propertyKey(key sast.Expression, computed bool) ast.Node {
	if computed {
		return c.expr(key)
	}
	switch k := key.(type) {
	case *sast.StringLiteral:
		if len(k.Literal) > 0 && (k.Literal[0] == '"' || k.Literal[0] == '\'') {
			return &ast.StringLiteral{Base: c.span(k), Value: string(k.Value), Raw: k.Literal}
		}
		return &ast.Identifier{Base: c.span(k), Name: string(k.Value)}
	case *sast.PrivateIdentifier:
		return &ast.PrivateName{Base: c.span(k), ID: c.ident(&k.Identifier)}
	default:
		return c.expr(key)
	}
}

// pattern converts a binding or assignment target.
func (c *converter) pattern(t sast.Node) ast.Node {
	switch p := t.(type) {
	case *sast.Identifier:
		return c.ident(p)
	case *sast.ObjectPattern:
		op := &ast.ObjectPattern{Base: c.span(p), Properties: []ast.Node{}}
		for _, prop := range p.Properties {
			switch pp := prop.(type) {
			case *sast.PropertyShort:
				var value ast.Node = c.ident(&pp.Name)
				if pp.Initializer != nil {
					value = &ast.AssignmentPattern{Base: c.span(pp), Left: value, Right: c.expr(pp.Initializer)}
				}
				op.Properties = append(op.Properties, &ast.ObjectProperty{
					Base: c.span(pp), Key: c.ident(&pp.Name), Value: value, Shorthand: true,
				})
			case *sast.PropertyKeyed:
				op.Properties = append(op.Properties, &ast.ObjectProperty{
					Base:     c.span(pp),
					Key:      c.propertyKey(pp.Key, pp.Computed),
					Value:    c.pattern(pp.Value),
					Computed: pp.Computed,
				})
			default:
				c.fail(prop, "Unsupported pattern property %T", prop)
			}
		}
		if p.Rest != nil {
			op.Properties = append(op.Properties, &ast.RestElement{Base: c.span(p.Rest), Argument: c.pattern(p.Rest)})
		}
		return op
	case *sast.ArrayPattern:
		ap := &ast.ArrayPattern{Base: c.span(p), Elements: []ast.Node{}}
		for _, el := range p.Elements {
			if el == nil {
				ap.Elements = append(ap.Elements, nil)
				continue
			}
			ap.Elements = append(ap.Elements, c.pattern(el))
		}
		if p.Rest != nil {
			ap.Elements = append(ap.Elements, &ast.RestElement{Base: c.span(p.Rest), Argument: c.pattern(p.Rest)})
		}
		return ap
	case *sast.AssignExpression:
		if p.Operator == token.ASSIGN {
			return &ast.AssignmentPattern{Base: c.span(p), Left: c.pattern(p.Left), Right: c.expr(p.Right)}
		}
		return c.expr(p)
	case sast.Expression:
		return c.expr(p)
	default:
		c.fail(t, "Unsupported binding target %T", t)
		return nil
	}
}

// moduleSource finds the module specifier of the declaration starting at
// start. sobek keeps only the specifier's value, so the literal is read back
// from the source to keep its quotes. end is the offset past the declaration
// and semi the offset of its terminating ";", or -1.
func (c *converter) moduleSource(start int, value string) (lit *ast.StringLiteral, end, semi int) {
	for i := c.skipTrivia(start); i < len(c.src); i = c.skipTrivia(i + 1) {
		quote := c.src[i]
		if quote != '\'' && quote != '"' {
			continue
		}
		j := i + 1
		for j < len(c.src) && c.src[j] != quote {
			if c.src[j] == '\\' {
				j++
			}
			j++
		}
		j = min(j+1, len(c.src))
		lit = &ast.StringLiteral{Base: ast.Base{Start: i, End: j}, Value: value, Raw: c.src[i:j]}
		if k := c.skipTrivia(j); k < len(c.src) && c.src[k] == ';' {
			return lit, k + 1, k
		}
		return lit, j, -1
	}
	return ast.NewString(value), len(c.src), -1
}

// skipTrivia returns the offset of the first byte at or after i that is not
// whitespace or part of a comment.
func (c *converter) skipTrivia(i int) int {
	for i < len(c.src) {
		switch {
		case c.src[i] == ' ' || c.src[i] == '\t' || c.src[i] == '\n' || c.src[i] == '\r':
			i++
		case strings.HasPrefix(c.src[i:], "//"):
			nl := strings.IndexByte(c.src[i:], '\n')
			if nl < 0 {
				return len(c.src)
			}
			i += nl + 1
		case strings.HasPrefix(c.src[i:], "/*"):
			end := strings.Index(c.src[i+2:], "*/")
			if end < 0 {
				return len(c.src)
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}
