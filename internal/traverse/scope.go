package traverse

import (
	"slices"

	"github.com/roach88/babelgo/internal/ast"
)

// LexicalNames returns the let, const, class, and function names declared
// directly in a block, program, switch, or for-loop head.
func LexicalNames(scope ast.Node) []string {
	var names []string
	collect := func(stmts []ast.Node) {
		for _, s := range stmts {
			switch d := s.(type) {
			case *ast.VariableDeclaration:
				if d.Kind != "var" {
					names = append(names, ast.DeclaredNames(d)...)
				}
			case *ast.FunctionDeclaration, *ast.ClassDeclaration:
				names = append(names, ast.DeclaredNames(d)...)
			case *ast.ExportNamedDeclaration, *ast.ExportDefaultDeclaration:
				if decl, ok := d.(*ast.ExportNamedDeclaration); ok {
					if v, ok := decl.Declaration.(*ast.VariableDeclaration); ok && v.Kind == "var" {
						continue
					}
				}
				names = append(names, ast.DeclaredNames(d)...)
			case *ast.ImportDeclaration:
				names = append(names, ast.DeclaredNames(d)...)
			}
		}
	}
	switch s := scope.(type) {
	case *ast.Program:
		collect(s.Body)
	case *ast.BlockStatement:
		collect(s.Body)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			collect(c.Consequent)
		}
	case *ast.ForStatement:
		collect([]ast.Node{s.Init})
	case *ast.ForInStatement:
		collect([]ast.Node{s.Left})
	case *ast.ForOfStatement:
		collect([]ast.Node{s.Left})
	}
	return names
}

// VarNames returns the names hoisted to a function or program scope: var
// declarations anywhere in its body outside nested functions, plus
// parameters.
func VarNames(scope ast.Node) []string {
	var names []string
	var body ast.Node = scope
	if params, block, ok := ast.FunctionParts(scope); ok {
		for _, p := range *params {
			names = append(names, ast.BindingNames(p)...)
		}
		if block == nil {
			return names
		}
		body = block
	}
	ast.Inspect(body, func(n, _ ast.Node, _ string) bool {
		if ast.IsFunction(n) {
			return false
		}
		if v, ok := n.(*ast.VariableDeclaration); ok && v.Kind == "var" {
			names = append(names, ast.DeclaredNames(v)...)
		}
		return true
	})
	return names
}

// DeclaresName reports whether scope binds name itself: a function by its
// parameters, hoisted vars, or expression name; a block or loop by its
// lexical declarations; a catch clause by its parameter.
func DeclaresName(scope ast.Node, name string) bool {
	switch s := scope.(type) {
	case *ast.Program:
		return slices.Contains(LexicalNames(s), name) || slices.Contains(VarNames(s), name)
	case *ast.FunctionExpression:
		if s.ID != nil && s.ID.Name == name {
			return true
		}
		return slices.Contains(VarNames(s), name) || (s.Body != nil && slices.Contains(LexicalNames(s.Body), name))
	case *ast.FunctionDeclaration, *ast.ArrowFunctionExpression, *ast.ObjectMethod, *ast.ClassMethod:
		if slices.Contains(VarNames(s), name) {
			return true
		}
		_, body, _ := ast.FunctionParts(s)
		return body != nil && slices.Contains(LexicalNames(body), name)
	case *ast.ClassExpression:
		return s.ID != nil && s.ID.Name == name
	case *ast.CatchClause:
		return s.Param != nil && slices.Contains(ast.BindingNames(s.Param), name)
	case *ast.BlockStatement, *ast.SwitchStatement, *ast.ForStatement, *ast.ForInStatement, *ast.ForOfStatement:
		return slices.Contains(LexicalNames(s), name)
	}
	return false
}

// References reports whether name is used as a variable anywhere under root,
// ignoring scopes nested inside root that rebind it.
func References(root ast.Node, name string) bool {
	found := false
	walkBinding(root, name, func(id *ast.Identifier) {
		found = true
	})
	return found
}

// Rename changes every binding and reference of from to to under root,
// leaving alone nested scopes that declare their own from.
func Rename(root ast.Node, from, to string) {
	walkBinding(root, from, func(id *ast.Identifier) {
		id.Name = to
	})
	// Shorthand properties whose value was renamed need their key spelled out.
	ast.Inspect(root, func(n, _ ast.Node, _ string) bool {
		if prop, ok := n.(*ast.ObjectProperty); ok && prop.Shorthand {
			key, kok := prop.Key.(*ast.Identifier)
			val := prop.Value
			if ap, ok := val.(*ast.AssignmentPattern); ok {
				val = ap.Left
			}
			if v, vok := val.(*ast.Identifier); kok && vok && key.Name != v.Name {
				prop.Shorthand = false
			}
		}
		return true
	})
}

func walkBinding(root ast.Node, name string, fn func(*ast.Identifier)) {
	ast.Inspect(root, func(n, parent ast.Node, key string) bool {
		if n != root && shadows(n, name) {
			if fd, ok := n.(*ast.FunctionDeclaration); ok && fd.ID != nil && fd.ID.Name == name {
				fn(fd.ID)
			}
			if cd, ok := n.(*ast.ClassDeclaration); ok && cd.ID != nil && cd.ID.Name == name {
				fn(cd.ID)
			}
			return false
		}
		id, ok := n.(*ast.Identifier)
		if !ok || id.Name != name || ast.IsPropertyName(parent, key) {
			return true
		}
		fn(id)
		return true
	})
}

// shadows reports whether a nested scope rebinds name for its contents.
func shadows(n ast.Node, name string) bool {
	switch n.(type) {
	case *ast.FunctionDeclaration, *ast.FunctionExpression, *ast.ArrowFunctionExpression,
		*ast.ObjectMethod, *ast.ClassMethod, *ast.CatchClause, *ast.ClassExpression:
		return DeclaresName(n, name)
	case *ast.BlockStatement, *ast.SwitchStatement, *ast.ForStatement, *ast.ForInStatement, *ast.ForOfStatement:
		return DeclaresName(n, name)
	}
	return false
}

// ContainsThis reports whether n uses this or arguments outside nested
// non-arrow functions.
func ContainsThis(n ast.Node) bool {
	found := false
	ast.Inspect(n, func(c, _ ast.Node, _ string) bool {
		if found {
			return false
		}
		if c != n && ast.IsFunction(c) && c.Type() != ast.KindArrowFunctionExpression {
			return false
		}
		if c.Type() == ast.KindThisExpression {
			found = true
		}
		return true
	})
	return found
}

// RewriteScope offers fn every node under root where name keeps the binding
// it has at root. Nested scopes that rebind name are not entered. A non-nil
// result from fn replaces the node and is not walked.
func RewriteScope(root ast.Node, name string, fn func(n, parent ast.Node, key string) ast.Node) {
	var walk func(n ast.Node)
	visit := func(child, parent ast.Node, key string) ast.Node {
		if shadows(child, name) {
			return nil
		}
		if r := fn(child, parent, key); r != nil {
			return r
		}
		walk(child)
		return nil
	}
	walk = func(n ast.Node) {
		for _, f := range ast.Fields(n) {
			if !f.List {
				if child := f.Get(); child != nil {
					if r := visit(child, n, f.Key); r != nil {
						_ = f.Set(r)
					}
				}
				continue
			}
			for i := 0; i < f.Len(); i++ {
				if child := f.At(i); child != nil {
					if r := visit(child, n, f.Key); r != nil {
						_ = f.SetAt(i, r)
					}
				}
			}
		}
	}
	walk(root)
}

// ReplaceReferences swaps each variable reference to name under root for the
// node build returns. build sees the reference's parent and key so it can
// fit the replacement to its position.
func ReplaceReferences(root ast.Node, name string, build func(parent ast.Node, key string) ast.Node) {
	RewriteScope(root, name, func(n, parent ast.Node, key string) ast.Node {
		id, ok := n.(*ast.Identifier)
		if !ok || id.Name != name || ast.IsPropertyName(parent, key) {
			return nil
		}
		if prop, ok := parent.(*ast.ObjectProperty); ok {
			prop.Shorthand = false
		}
		return build(parent, key)
	})
}
