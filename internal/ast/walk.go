package ast

import (
	"fmt"
	"reflect"
	"strings"
)

type fieldKind int

const (
	fieldScalar fieldKind = iota
	fieldNode
	fieldNodeList
	fieldValue
)

type fieldInfo struct {
	name      string
	index     int
	kind      fieldKind
	omitEmpty bool
}

type typeInfo struct {
	kind   Kind
	typ    reflect.Type
	fields []fieldInfo
}

var (
	nodeType    = reflect.TypeOf((*Node)(nil)).Elem()
	typesByKind = map[Kind]*typeInfo{}
	typesByType = map[reflect.Type]*typeInfo{}
)

func init() {
	for _, p := range prototypes {
		registerType(p)
	}
}

func registerType(proto Node) {
	typ := reflect.TypeOf(proto).Elem()
	info := &typeInfo{kind: proto.Type(), typ: typ}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		info.fields = append(info.fields, fieldInfo{
			name:      name,
			index:     i,
			kind:      classify(f.Type),
			omitEmpty: opts == "omitempty",
		})
	}
	typesByKind[info.kind] = info
	typesByType[typ] = info
}

func classify(t reflect.Type) fieldKind {
	switch {
	case isNodeType(t):
		return fieldNode
	case t.Kind() == reflect.Slice && isNodeType(t.Elem()):
		return fieldNodeList
	case t.Kind() == reflect.Struct:
		return fieldValue
	default:
		return fieldScalar
	}
}

func isNodeType(t reflect.Type) bool {
	if t == nodeType {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Implements(nodeType)
}

func infoOf(n Node) *typeInfo {
	info, ok := typesByType[reflect.TypeOf(n).Elem()]
	if !ok {
		panic(fmt.Sprintf("ast: unregistered node type %T", n))
	}
	return info
}

// Known reports whether kind names a node type this package defines.
func Known(kind Kind) bool {
	_, ok := typesByKind[kind]
	return ok
}

// Kinds returns every defined node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(prototypes))
	for i, p := range prototypes {
		kinds[i] = p.Type()
	}
	return kinds
}

// VisitorKeys returns the child-bearing field names of kind, in traversal order.
func VisitorKeys(kind Kind) []string {
	info, ok := typesByKind[kind]
	if !ok {
		return nil
	}
	var keys []string
	for _, f := range info.fields {
		if f.kind == fieldNode || f.kind == fieldNodeList {
			keys = append(keys, f.name)
		}
	}
	return keys
}

// Field is a settable reference to one child slot of a node. List fields hold
// a slice of nodes; single fields hold exactly one (possibly nil) node.
type Field struct {
	Key  string
	List bool
	v    reflect.Value
}

// Fields returns the child slots of n in traversal order.
func Fields(n Node) []Field {
	info := infoOf(n)
	sv := reflect.ValueOf(n).Elem()
	var out []Field
	for _, f := range info.fields {
		switch f.kind {
		case fieldNode:
			out = append(out, Field{Key: f.name, v: sv.Field(f.index)})
		case fieldNodeList:
			out = append(out, Field{Key: f.name, List: true, v: sv.Field(f.index)})
		}
	}
	return out
}

// FieldByKey returns the child slot named key.
func FieldByKey(n Node, key string) (Field, bool) {
	for _, f := range Fields(n) {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the node held by a single field.
func (f Field) Get() Node {
	return toNode(f.v)
}

// Set stores node in a single field.
func (f Field) Set(node Node) error {
	rv, err := nodeValue(node, f.v.Type())
	if err != nil {
		return fmt.Errorf("%s: %w", f.Key, err)
	}
	f.v.Set(rv)
	return nil
}

// Len returns the length of a list field.
func (f Field) Len() int {
	return f.v.Len()
}

// At returns element i of a list field; holes are nil.
func (f Field) At(i int) Node {
	return toNode(f.v.Index(i))
}

// SetAt replaces element i of a list field.
func (f Field) SetAt(i int, node Node) error {
	rv, err := nodeValue(node, f.v.Type().Elem())
	if err != nil {
		return fmt.Errorf("%s[%d]: %w", f.Key, i, err)
	}
	f.v.Index(i).Set(rv)
	return nil
}

// Insert places nodes before index i of a list field.
func (f Field) Insert(i int, nodes ...Node) error {
	elem := f.v.Type().Elem()
	vals := make([]reflect.Value, len(nodes))
	for j, n := range nodes {
		rv, err := nodeValue(n, elem)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", f.Key, i+j, err)
		}
		vals[j] = rv
	}
	tail := reflect.MakeSlice(f.v.Type(), 0, f.v.Len()-i)
	tail = reflect.AppendSlice(tail, f.v.Slice(i, f.v.Len()))
	head := f.v.Slice(0, i)
	head = reflect.Append(head, vals...)
	f.v.Set(reflect.AppendSlice(head, tail))
	return nil
}

// Delete removes element i of a list field.
func (f Field) Delete(i int) {
	n := f.v.Len()
	tail := reflect.MakeSlice(f.v.Type(), 0, n-i-1)
	tail = reflect.AppendSlice(tail, f.v.Slice(i+1, n))
	f.v.Set(reflect.AppendSlice(f.v.Slice(0, i), tail))
}

// Nodes returns the elements of a list field, or the single node as a
// one-element slice. Nil entries are kept.
func (f Field) Nodes() []Node {
	if !f.List {
		return []Node{f.Get()}
	}
	out := make([]Node, f.v.Len())
	for i := range out {
		out[i] = f.At(i)
	}
	return out
}

func toNode(v reflect.Value) Node {
	if !v.IsValid() || v.IsNil() {
		return nil
	}
	n, _ := v.Interface().(Node)
	if IsNil(n) {
		return nil
	}
	return n
}

func nodeValue(node Node, target reflect.Type) (reflect.Value, error) {
	if IsNil(node) {
		return reflect.Zero(target), nil
	}
	rv := reflect.ValueOf(node)
	if !rv.Type().AssignableTo(target) {
		return reflect.Value{}, fmt.Errorf("cannot place %s where %s is expected", node.Type(), describe(target))
	}
	return rv, nil
}

func describe(t reflect.Type) string {
	if t == nodeType {
		return "a node"
	}
	if info, ok := typesByType[t.Elem()]; ok {
		return string(info.kind)
	}
	return t.String()
}

// Children returns the non-nil direct children of n in traversal order.
func Children(n Node) []Node {
	var out []Node
	for _, f := range Fields(n) {
		for _, c := range f.Nodes() {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// Inspect walks the tree rooted at n in depth-first order. fn receives each
// node with its parent and the key it occupies; returning false skips the
// node's children.
func Inspect(n Node, fn func(node, parent Node, key string) bool) {
	inspect(n, nil, "", fn)
}

func inspect(n, parent Node, key string, fn func(node, parent Node, key string) bool) {
	if IsNil(n) || !fn(n, parent, key) {
		return
	}
	for _, f := range Fields(n) {
		for _, c := range f.Nodes() {
			if c != nil {
				inspect(c, n, f.Key, fn)
			}
		}
	}
}

// Clone returns a deep copy of the tree rooted at n.
func Clone[T Node](n T) T {
	if IsNil(n) {
		return n
	}
	return cloneNode(n).(T)
}

func cloneNode(n Node) Node {
	src := reflect.ValueOf(n).Elem()
	dst := reflect.New(src.Type())
	dst.Elem().Set(src)
	info := infoOf(n)
	for _, f := range info.fields {
		fv := dst.Elem().Field(f.index)
		switch f.kind {
		case fieldNode:
			if c := toNode(fv); c != nil {
				fv.Set(reflect.ValueOf(cloneNode(c)))
			}
		case fieldNodeList:
			if fv.IsNil() {
				continue
			}
			list := reflect.MakeSlice(fv.Type(), fv.Len(), fv.Len())
			for i := 0; i < fv.Len(); i++ {
				if c := toNode(fv.Index(i)); c != nil {
					list.Index(i).Set(reflect.ValueOf(cloneNode(c)))
				}
			}
			fv.Set(list)
		}
	}
	return dst.Interface().(Node)
}
