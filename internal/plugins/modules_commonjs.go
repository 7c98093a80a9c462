package plugins

import (
	"path"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/template"
	"github.com/roach88/babelgo/internal/traverse"
)

// newModulesCommonJS compiles ES module syntax to CommonJS. Imports become
// require calls, exports become assignments to exports, and the program is
// made strict.
//
// Options:
//
//	loose              mark the module with exports.__esModule = true
//	strict             omit the __esModule marker
//	noInterop          read default imports as .default without a helper
//	allowTopLevelThis  keep top-level this instead of undefined
//	strictMode         false skips the "use strict" directive
func newModulesCommonJS(map[string]any) (*traverse.Plugin, error) {
	return simple(ModulesCommonJS, traverse.Visitor{
		ast.KindProgram:        {Enter: addUseStrict, Exit: lowerModule},
		ast.KindThisExpression: traverse.Enter(topLevelThis),
	}), nil
}

const (
	esModuleSource      = `Object.defineProperty(exports, "__esModule", { value: true });`
	looseESModuleSource = `exports.__esModule = true;`
	exportFromSource    = `Object.defineProperty(exports, NAME, { enumerable: true, get: function () { return VALUE; } });`
	exportAllSource     = `Object.keys(OBJECT).forEach(function (key) {
  if (key === "default" || key === "__esModule") return;
  Object.defineProperty(exports, key, { enumerable: true, get: function () { return OBJECT[key]; } });
});`
)

// topLevelThis replaces this outside any function with undefined, which is
// what it evaluates to in a module.
func topLevelThis(p *traverse.Path, pass *traverse.Pass) error {
	if pass.OptBool("allowTopLevelThis", false) {
		return nil
	}
	for a := p.ParentPath; a != nil; a = a.ParentPath {
		switch a.Node.(type) {
		case *ast.FunctionDeclaration, *ast.ObjectMethod, *ast.ClassMethod, *ast.ClassProperty:
			return nil
		case *ast.FunctionExpression:
			if !isShadow(a.Node) {
				return nil
			}
		}
	}
	return p.ReplaceWith(ast.SetSpan(ast.NewIdentifier("undefined"), p.Node))
}

type moduleImport struct {
	source     string
	specifiers []ast.Node
}

// moduleLowering collects a program's module declarations and rewrites
// them in one go once the rest of the traversal is done.
type moduleLowering struct {
	file *traverse.File
	pass *traverse.Pass

	imports     []*moduleImport
	importIndex map[string]*moduleImport
	requires    map[string]*ast.Identifier
	top         []ast.Node
	exports     map[string][]string
	exportOrder []string
	remaps      map[string]ast.Node
	hasExports  bool
}

func lowerModule(p *traverse.Path, pass *traverse.Pass) error {
	prog := p.Node.(*ast.Program)
	m := &moduleLowering{
		file:        pass.File,
		pass:        pass,
		importIndex: map[string]*moduleImport{},
		requires:    map[string]*ast.Identifier{},
		exports:     map[string][]string{},
		remaps:      map[string]ast.Node{},
	}

	body := make([]ast.Node, 0, len(prog.Body))
	for _, stmt := range prog.Body {
		body = append(body, m.statement(stmt)...)
	}
	prog.Body = body
	m.lowerImports()

	if m.hasExports && !pass.OptBool("strict", false) {
		src := esModuleSource
		if pass.OptBool("loose", false) {
			src = looseESModuleSource
		}
		pass.File.Hoist(traverse.HoistExports, template.MustStatement(src, nil))
	}
	pass.File.Hoist(traverse.HoistImports, m.top...)

	for _, local := range m.exportOrder {
		m.rewriteAssignments(prog, local)
	}
	for local, remap := range m.remaps {
		traverse.ReplaceReferences(prog, local, func(parent ast.Node, key string) ast.Node {
			ref := ast.Clone(remap)
			if call, ok := parent.(*ast.CallExpression); ok && key == "callee" && call.Callee != nil {
				if _, member := ref.(*ast.MemberExpression); member {
					return &ast.SequenceExpression{Expressions: []ast.Node{ast.NewNumber(0), ref}}
				}
			}
			return ref
		})
	}
	return nil
}

// statement lowers one top-level statement and returns what takes its place.
func (m *moduleLowering) statement(stmt ast.Node) []ast.Node {
	switch s := stmt.(type) {
	case *ast.ImportDeclaration:
		imp := m.importIndex[s.Source.Value]
		if imp == nil {
			imp = &moduleImport{source: s.Source.Value}
			m.importIndex[imp.source] = imp
			m.imports = append(m.imports, imp)
		}
		imp.specifiers = append(imp.specifiers, s.Specifiers...)
		return nil
	case *ast.ExportDefaultDeclaration:
		m.hasExports = true
		return m.exportDefault(s)
	case *ast.ExportNamedDeclaration:
		m.hasExports = true
		if s.Source != nil {
			m.exportFrom(s)
			return nil
		}
		if s.Declaration != nil {
			return m.exportDeclaration(ast.SetSpan(s.Declaration, s))
		}
		var out []ast.Node
		for _, spec := range s.Specifiers {
			es, ok := spec.(*ast.ExportSpecifier)
			if !ok {
				continue
			}
			m.addExport(es.Local.Name, es.Exported.Name)
			assign := exportsAssignment(es.Exported.Name, ast.NewIdentifier(es.Local.Name))
			if m.isHoistedFunction(es.Local.Name) {
				m.top = append(m.top, assign)
			} else {
				out = append(out, assign)
			}
		}
		return out
	case *ast.ExportAllDeclaration:
		m.hasExports = true
		ref := m.require(s.Source.Value)
		m.top = append(m.top, template.MustStatement(exportAllSource, template.Replacements{"OBJECT": ref}))
		return nil
	}
	return []ast.Node{stmt}
}

func (m *moduleLowering) exportDefault(s *ast.ExportDefaultDeclaration) []ast.Node {
	switch d := s.Declaration.(type) {
	case *ast.FunctionDeclaration:
		if d.ID == nil {
			fn := ast.SetSpan(&ast.FunctionExpression{Params: d.Params, Body: d.Body, Generator: d.Generator, Async: d.Async}, d)
			return []ast.Node{exportsAssignment("default", fn)}
		}
		m.addExport(d.ID.Name, "default")
		m.top = append(m.top, exportsAssignment("default", ast.NewIdentifier(d.ID.Name)))
		return []ast.Node{ast.SetSpan(d, s)}
	case *ast.ClassDeclaration:
		if d.ID == nil {
			cls := ast.SetSpan(&ast.ClassExpression{SuperClass: d.SuperClass, Body: d.Body}, d)
			return []ast.Node{exportsAssignment("default", cls)}
		}
		m.addExport(d.ID.Name, "default")
		return []ast.Node{ast.SetSpan(d, s), exportsAssignment("default", ast.NewIdentifier(d.ID.Name))}
	}
	return []ast.Node{ast.SetSpan(exportsAssignment("default", s.Declaration), s)}
}

func (m *moduleLowering) exportDeclaration(decl ast.Node) []ast.Node {
	switch d := decl.(type) {
	case *ast.FunctionDeclaration:
		m.addExport(d.ID.Name, d.ID.Name)
		m.top = append(m.top, exportsAssignment(d.ID.Name, ast.NewIdentifier(d.ID.Name)))
		return []ast.Node{d}
	case *ast.ClassDeclaration:
		m.addExport(d.ID.Name, d.ID.Name)
		return []ast.Node{d, exportsAssignment(d.ID.Name, ast.NewIdentifier(d.ID.Name))}
	case *ast.VariableDeclaration:
		out := []ast.Node{d}
		for _, dcl := range d.Declarations {
			if dcl.Init == nil {
				dcl.Init = ast.NewIdentifier("undefined")
			}
			if id, ok := dcl.ID.(*ast.Identifier); ok {
				m.addExport(id.Name, id.Name)
				dcl.Init = ast.NewAssign("=", ast.NewMember(ast.NewIdentifier("exports"), id.Name), dcl.Init)
				continue
			}
			for _, name := range ast.BindingNames(dcl.ID) {
				m.addExport(name, name)
				out = append(out, exportsAssignment(name, ast.NewIdentifier(name)))
			}
		}
		return out
	}
	return []ast.Node{decl}
}

// exportFrom re-exports bindings of another module through getters.
func (m *moduleLowering) exportFrom(s *ast.ExportNamedDeclaration) {
	ref := m.require(s.Source.Value)
	for _, spec := range s.Specifiers {
		switch sp := spec.(type) {
		case *ast.ExportSpecifier:
			var value ast.Node = ast.NewMember(ast.NewIdentifier(ref.Name), sp.Local.Name)
			if sp.Local.Name == "default" && !m.pass.OptBool("noInterop", false) {
				value = ast.NewMember(ast.NewCall(useHelper(m.file, "interopRequireDefault"), ast.NewIdentifier(ref.Name)), "default")
			}
			m.top = append(m.top, template.MustStatement(exportFromSource, template.Replacements{
				"NAME":  ast.NewString(sp.Exported.Name),
				"VALUE": value,
			}))
		case *ast.ExportNamespaceSpecifier:
			var value ast.Node = ast.NewIdentifier(ref.Name)
			if !m.pass.OptBool("noInterop", false) {
				value = ast.NewCall(useHelper(m.file, "interopRequireWildcard"), value)
			}
			m.top = append(m.top, exportsAssignment(sp.Exported.Name, value))
		}
	}
}

func (m *moduleLowering) lowerImports() {
	noInterop := m.pass.OptBool("noInterop", false)
	strict := m.pass.OptBool("strict", false)
	for _, imp := range m.imports {
		if len(imp.specifiers) == 0 {
			if _, ok := m.requires[imp.source]; !ok {
				m.top = append(m.top, ast.NewExpressionStatement(requireCall(imp.source)))
			}
			continue
		}
		uid := m.require(imp.source)

		var wildcard *ast.Identifier
		for _, spec := range imp.specifiers {
			ns, ok := spec.(*ast.ImportNamespaceSpecifier)
			if !ok {
				continue
			}
			if strict || noInterop {
				m.remaps[ns.Local.Name] = ast.NewIdentifier(uid.Name)
			} else {
				call := ast.NewCall(useHelper(m.file, "interopRequireWildcard"), ast.NewIdentifier(uid.Name))
				m.top = append(m.top, ast.NewVar("var", ns.Local.Name, call))
			}
			wildcard = ns.Local
		}

		for _, spec := range imp.specifiers {
			var local, imported string
			switch sp := spec.(type) {
			case *ast.ImportDefaultSpecifier:
				local, imported = sp.Local.Name, "default"
			case *ast.ImportSpecifier:
				local, imported = sp.Local.Name, sp.Imported.Name
			default:
				continue
			}
			target := uid
			if imported == "default" {
				switch {
				case wildcard != nil:
					target = wildcard
				case !noInterop:
					wildcard = ast.NewIdentifier(m.file.GenerateUID(uid.Name))
					target = wildcard
					call := ast.NewCall(useHelper(m.file, "interopRequireDefault"), ast.NewIdentifier(uid.Name))
					m.top = append(m.top, ast.NewVar("var", wildcard.Name, call))
				}
			}
			m.remaps[local] = ast.NewMember(ast.NewIdentifier(target.Name), imported)
		}
	}
}

// require declares var _name = require("source") once per source.
func (m *moduleLowering) require(source string) *ast.Identifier {
	if id, ok := m.requires[source]; ok {
		return ast.NewIdentifier(id.Name)
	}
	base := path.Base(source)
	base = strings.TrimSuffix(base, path.Ext(base))
	id := ast.NewIdentifier(m.file.GenerateUID(base))
	m.requires[source] = id
	m.top = append(m.top, ast.NewVar("var", id.Name, requireCall(source)))
	return ast.NewIdentifier(id.Name)
}

func (m *moduleLowering) addExport(local, exported string) {
	if _, ok := m.exports[local]; !ok {
		m.exportOrder = append(m.exportOrder, local)
	}
	m.exports[local] = append(m.exports[local], exported)
}

func (m *moduleLowering) isHoistedFunction(name string) bool {
	for _, stmt := range m.file.Program.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			if s.ID != nil && s.ID.Name == name {
				return true
			}
		case *ast.ExportNamedDeclaration:
			if fd, ok := s.Declaration.(*ast.FunctionDeclaration); ok && fd.ID.Name == name {
				return true
			}
		}
	}
	return false
}

// rewriteAssignments keeps exports in sync with later assignments to an
// exported binding: x = 1 becomes exports.x = x = 1.
func (m *moduleLowering) rewriteAssignments(prog *ast.Program, local string) {
	names := m.exports[local]
	wrap := func(expr ast.Node) ast.Node {
		for _, name := range names {
			expr = ast.NewAssign("=", ast.NewMember(ast.NewIdentifier("exports"), name), expr)
		}
		return expr
	}
	traverse.RewriteScope(prog, local, func(n, parent ast.Node, _ string) ast.Node {
		switch e := n.(type) {
		case *ast.AssignmentExpression:
			if ast.IsIdentifier(e.Left, local) {
				return wrap(e)
			}
		case *ast.UpdateExpression:
			if !ast.IsIdentifier(e.Argument, local) {
				return nil
			}
			assign := wrap(ast.NewAssign(e.Operator[:1]+"=", e.Argument, ast.NewNumber(1)))
			if _, stmt := parent.(*ast.ExpressionStatement); stmt || e.Prefix {
				return assign
			}
			op := "-"
			if e.Operator == "--" {
				op = "+"
			}
			return &ast.SequenceExpression{Expressions: []ast.Node{assign, ast.NewBinary(op, ast.NewIdentifier(local), ast.NewNumber(1))}}
		}
		return nil
	})
}

func requireCall(source string) *ast.CallExpression {
	return ast.NewCall(ast.NewIdentifier("require"), ast.NewString(source))
}

func exportsAssignment(name string, value ast.Node) *ast.ExpressionStatement {
	return ast.NewExpressionStatement(ast.NewAssign("=", ast.NewMember(ast.NewIdentifier("exports"), name), value))
}
