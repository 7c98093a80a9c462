package ast

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/roach88/babelgo/internal/canon"
)

// DecodeError reports a JSON tree that does not fit the node schema.
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid AST at %s: %s", e.Path, e.Message)
}

// Decode reads a Babel-style JSON tree. A Babel File wrapper is unwrapped to
// its program.
func Decode(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Path: "$", Message: "malformed JSON"}
	}
	root := gjson.ParseBytes(data)
	if root.Get("type").String() == "File" {
		return decodeNode(root.Get("program"), "$.program")
	}
	return decodeNode(root, "$")
}

// DecodeProgram is Decode restricted to trees rooted at a Program.
func DecodeProgram(data []byte) (*Program, error) {
	n, err := Decode(data)
	if err != nil {
		return nil, err
	}
	prog, ok := n.(*Program)
	if !ok {
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("expected Program, got %s", n.Type())}
	}
	return prog, nil
}

func decodeNode(r gjson.Result, path string) (Node, error) {
	if !r.IsObject() {
		return nil, &DecodeError{Path: path, Message: "expected a node object"}
	}
	kind := Kind(r.Get("type").String())
	if kind == "" {
		return nil, &DecodeError{Path: path, Message: "missing node type"}
	}
	info, ok := typesByKind[kind]
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("unsupported node type %q", kind)}
	}

	ptr := reflect.New(info.typ)
	node := ptr.Interface().(Node)
	b := node.base()
	b.Start = int(r.Get("start").Int())
	b.End = int(r.Get("end").Int())

	sv := ptr.Elem()
	for _, f := range info.fields {
		fr := r.Get(f.name)
		if !fr.Exists() && strings.HasPrefix(f.name, "extra.") {
			fr = r.Get(strings.TrimPrefix(f.name, "extra."))
		}
		fpath := path + "." + f.name
		fv := sv.Field(f.index)
		if !fr.Exists() || fr.Type == gjson.Null {
			continue
		}
		switch f.kind {
		case fieldNode:
			child, err := decodeNode(fr, fpath)
			if err != nil {
				return nil, err
			}
			rv, err := nodeValue(child, fv.Type())
			if err != nil {
				return nil, &DecodeError{Path: fpath, Message: err.Error()}
			}
			fv.Set(rv)
		case fieldNodeList:
			if !fr.IsArray() {
				return nil, &DecodeError{Path: fpath, Message: "expected an array"}
			}
			items := fr.Array()
			list := reflect.MakeSlice(fv.Type(), len(items), len(items))
			for i, item := range items {
				if item.Type == gjson.Null {
					continue
				}
				ipath := fmt.Sprintf("%s[%d]", fpath, i)
				child, err := decodeNode(item, ipath)
				if err != nil {
					return nil, err
				}
				rv, err := nodeValue(child, fv.Type().Elem())
				if err != nil {
					return nil, &DecodeError{Path: ipath, Message: err.Error()}
				}
				list.Index(i).Set(rv)
			}
			fv.Set(list)
		case fieldValue:
			if err := json.Unmarshal([]byte(fr.Raw), fv.Addr().Interface()); err != nil {
				return nil, &DecodeError{Path: fpath, Message: err.Error()}
			}
		case fieldScalar:
			if err := setScalar(fv, fr); err != nil {
				return nil, &DecodeError{Path: fpath, Message: err.Error()}
			}
		}
	}
	return node, nil
}

func setScalar(fv reflect.Value, r gjson.Result) error {
	switch fv.Kind() {
	case reflect.String:
		if r.Type != gjson.String {
			return fmt.Errorf("expected a string")
		}
		fv.SetString(r.String())
	case reflect.Bool:
		if r.Type != gjson.True && r.Type != gjson.False {
			return fmt.Errorf("expected a boolean")
		}
		fv.SetBool(r.Bool())
	case reflect.Float64:
		if r.Type != gjson.Number {
			return fmt.Errorf("expected a number")
		}
		fv.SetFloat(r.Float())
	case reflect.Int:
		fv.SetInt(r.Int())
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
	return nil
}

// ToMap converts the tree rooted at n into plain maps and slices keyed by
// Babel field names. Synthesized nodes carry no start or end.
func ToMap(n Node) map[string]any {
	if IsNil(n) {
		return nil
	}
	info := infoOf(n)
	out := map[string]any{"type": string(info.kind)}
	if HasSpan(n) {
		s, e := Span(n)
		out["start"] = s
		out["end"] = e
	}
	sv := reflect.ValueOf(n).Elem()
	for _, f := range info.fields {
		fv := sv.Field(f.index)
		var val any
		switch f.kind {
		case fieldNode:
			if c := toNode(fv); c != nil {
				val = ToMap(c)
			}
		case fieldNodeList:
			items := make([]any, fv.Len())
			for i := range items {
				if c := toNode(fv.Index(i)); c != nil {
					items[i] = ToMap(c)
				}
			}
			val = items
		case fieldValue:
			data, _ := json.Marshal(fv.Interface())
			var m map[string]any
			_ = json.Unmarshal(data, &m)
			val = m
		default:
			if f.omitEmpty && fv.IsZero() {
				continue
			}
			val = fv.Interface()
		}
		setPath(out, f.name, val)
	}
	return out
}

func setPath(m map[string]any, path string, val any) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		m[head] = val
		return
	}
	sub, ok := m[head].(map[string]any)
	if !ok {
		sub = map[string]any{}
		m[head] = sub
	}
	setPath(sub, rest, val)
}

// Marshal encodes the tree rooted at n as indented Babel-style JSON.
func Marshal(n Node) ([]byte, error) {
	return json.MarshalIndent(ToMap(n), "", "  ")
}

// Snapshot renders the tree as canonical JSON for golden files and hashing.
func Snapshot(n Node) ([]byte, error) {
	return canon.Marshal(ToMap(n))
}
