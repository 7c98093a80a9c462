// Package ast defines the Babel-shaped syntax tree that plugins traverse
// and the generator prints.
//
// Node and field names follow Babel's AST so that trees serialized by Babel
// (for example with JSON.stringify) decode directly into these types.
package ast

import "reflect"

// Kind names a node type, e.g. "Identifier" or "VariableDeclaration".
type Kind string

// Node is implemented by every syntax tree node.
type Node interface {
	Type() Kind
	base() *Base
}

// Base carries the source span shared by every node. Offsets index the text
// the tree was parsed from; synthesized nodes have Start == End == 0.
type Base struct {
	Start int
	End   int
}

func (b *Base) base() *Base { return b }

// Span returns the node's source offsets.
func Span(n Node) (start, end int) {
	b := n.base()
	return b.Start, b.End
}

// HasSpan reports whether n came from source text rather than a plugin.
func HasSpan(n Node) bool {
	b := n.base()
	return b.End > b.Start
}

// SetSpan copies the span of from onto to and returns to.
func SetSpan[T Node](to T, from Node) T {
	if from == nil {
		return to
	}
	dst, src := to.base(), from.base()
	dst.Start, dst.End = src.Start, src.End
	return to
}

// ClearSpan zeroes the span of n without touching its children.
func ClearSpan(n Node) {
	b := n.base()
	b.Start, b.End = 0, 0
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
