package traverse

import (
	"github.com/roach88/babelgo/internal/ast"
)

// Path locates a node in the tree during traversal and mutates the tree
// around it.
type Path struct {
	Node       ast.Node
	Parent     ast.Node
	ParentPath *Path
	Key        string
	// Index is the position within a list field, or -1.
	Index int

	file    *File
	field   ast.Field
	listed  bool
	removed bool
	skipped bool
}

// File returns the file being traversed.
func (p *Path) File() *File { return p.file }

// Listed reports whether the node sits in a list field such as a block body.
func (p *Path) Listed() bool { return p.listed }

// Removed reports whether Remove was called on the path.
func (p *Path) Removed() bool { return p.removed }

// Skip prevents the children of the current node from being visited.
func (p *Path) Skip() { p.skipped = true }

// ReplaceWith puts n in the path's slot. An expression replacing a statement
// is wrapped in an expression statement.
func (p *Path) ReplaceWith(n ast.Node) error {
	if p.removed {
		return &MutationError{Op: "replaceWith", Message: "path was removed"}
	}
	if p.Parent == nil {
		return &MutationError{Op: "replaceWith", Message: "cannot replace the root node"}
	}
	if ast.IsStatement(p.Node) && ast.IsExpression(n) {
		n = ast.SetSpan(ast.NewExpressionStatement(n), n)
	}
	var err error
	if p.listed {
		err = p.field.SetAt(p.Index, n)
	} else {
		err = p.field.Set(n)
	}
	if err != nil {
		return &MutationError{Op: "replaceWith", Message: err.Error()}
	}
	p.Node = n
	return nil
}

// ReplaceWithMultiple replaces the node with several. In a list they are
// spliced in place; elsewhere statements are wrapped in a block and
// expressions in a sequence.
func (p *Path) ReplaceWithMultiple(nodes []ast.Node) error {
	switch {
	case len(nodes) == 0:
		return p.Remove()
	case len(nodes) == 1:
		return p.ReplaceWith(nodes[0])
	case p.listed:
		if err := p.ReplaceWith(nodes[0]); err != nil {
			return err
		}
		return p.InsertAfter(nodes[1:]...)
	case ast.IsStatement(p.Node):
		return p.ReplaceWith(ast.NewBlock(nodes...))
	default:
		return p.ReplaceWith(&ast.SequenceExpression{Expressions: nodes})
	}
}

// InsertBefore places nodes ahead of the current one in its list. Inserted
// nodes are not visited.
func (p *Path) InsertBefore(nodes ...ast.Node) error {
	if !p.listed {
		return &MutationError{Op: "insertBefore", Message: "node is not in a list"}
	}
	return p.InsertAt(p.Parent, p.Key, p.Index, nodes...)
}

// InsertAfter places nodes behind the current one in its list. They are
// visited after the current node.
func (p *Path) InsertAfter(nodes ...ast.Node) error {
	if !p.listed {
		return &MutationError{Op: "insertAfter", Message: "node is not in a list"}
	}
	return p.InsertAt(p.Parent, p.Key, p.Index+1, nodes...)
}

// InsertAt inserts nodes into the list field key of container. Paths being
// iterated over that list keep pointing at their nodes.
func (p *Path) InsertAt(container ast.Node, key string, index int, nodes ...ast.Node) error {
	f, ok := ast.FieldByKey(container, key)
	if !ok || !f.List {
		return &MutationError{Op: "insert", Message: string(container.Type()) + "." + key + " is not a list"}
	}
	if index < 0 || index > f.Len() {
		index = f.Len()
	}
	if err := f.Insert(index, nodes...); err != nil {
		return &MutationError{Op: "insert", Message: err.Error()}
	}
	for a := p; a != nil; a = a.ParentPath {
		if a.listed && a.Parent == container && a.Key == key && a.Index >= index {
			a.Index += len(nodes)
		}
	}
	return nil
}

// Unshift inserts nodes at the start of container's list field key.
func (p *Path) Unshift(container ast.Node, key string, nodes ...ast.Node) error {
	return p.InsertAt(container, key, 0, nodes...)
}

// Remove deletes the node from the tree.
func (p *Path) Remove() error {
	if p.removed {
		return nil
	}
	if p.Parent == nil {
		return &MutationError{Op: "remove", Message: "cannot remove the root node"}
	}
	if p.listed {
		p.field.Delete(p.Index)
	} else if err := p.field.Set(nil); err != nil {
		return &MutationError{Op: "remove", Message: err.Error()}
	}
	p.removed = true
	return nil
}

// FindParent returns the nearest ancestor path for which match is true.
func (p *Path) FindParent(match func(*Path) bool) *Path {
	for a := p.ParentPath; a != nil; a = a.ParentPath {
		if match(a) {
			return a
		}
	}
	return nil
}

// FunctionParent returns the nearest enclosing function or the program.
func (p *Path) FunctionParent() *Path {
	return p.FindParent(func(a *Path) bool {
		return ast.IsFunction(a.Node) || a.Node.Type() == ast.KindProgram
	})
}

// ScopeParent returns the nearest enclosing non-arrow function or the
// program: the scope that owns this, arguments, and var bindings.
func (p *Path) ScopeParent() *Path {
	return p.FindParent(func(a *Path) bool {
		if a.Node.Type() == ast.KindArrowFunctionExpression {
			return false
		}
		return ast.IsFunction(a.Node) || a.Node.Type() == ast.KindProgram
	})
}

// InScope reports whether name is declared by any scope enclosing the path,
// not counting the path's own node.
func (p *Path) InScope(name string) bool {
	for a := p.ParentPath; a != nil; a = a.ParentPath {
		if DeclaresName(a.Node, name) {
			return true
		}
	}
	return false
}
