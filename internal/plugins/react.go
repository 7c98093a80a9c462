package plugins

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/parser"
	"github.com/roach88/babelgo/internal/traverse"
)

// newReactJSX enables JSX in the parser. Elements are lowered to calls of
// the pragma (default React.createElement) while the source is read, so the
// plugin has nothing left to visit.
func newReactJSX(opts map[string]any) (*traverse.Plugin, error) {
	for _, key := range []string{"pragma", "pragmaFrag"} {
		if v, ok := opts[key]; ok {
			if _, isString := v.(string); !isString {
				return nil, fmt.Errorf("%s: option %s must be a string, got %T", ReactJSX, key, v)
			}
		}
	}
	return &traverse.Plugin{
		Name: ReactJSX,
		ManipulateOptions: func(po *parser.Options, pluginOpts map[string]any) {
			po.JSX = true
			if v, ok := pluginOpts["pragma"].(string); ok && v != "" {
				po.JSXPragma = v
			}
			if v, ok := pluginOpts["pragmaFrag"].(string); ok && v != "" {
				po.JSXPragmaFrag = v
			}
		},
	}, nil
}

// newReactDisplayName adds a displayName to React.createClass and
// createReactClass specs, taken from the variable, property, or assignment
// the class is bound to.
func newReactDisplayName(map[string]any) (*traverse.Plugin, error) {
	return simple(ReactDisplayName, traverse.Visitor{
		ast.KindExportDefaultDeclaration: traverse.Enter(func(p *traverse.Path, pass *traverse.Pass) error {
			d := p.Node.(*ast.ExportDefaultDeclaration)
			call, ok := createClassCall(d.Declaration)
			if !ok {
				return nil
			}
			addDisplayName(displayNameFromFile(pass.File.Filename), call)
			return nil
		}),
		ast.KindCallExpression: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			call, ok := createClassCall(p.Node)
			if !ok {
				return nil
			}
			var id ast.Node
			for a := p.ParentPath; a != nil && id == nil; a = a.ParentPath {
				switch n := a.Node.(type) {
				case *ast.AssignmentExpression:
					id = n.Left
				case *ast.ObjectProperty:
					id = n.Key
				case *ast.VariableDeclarator:
					id = n.ID
				default:
					if ast.IsStatement(n) {
						return nil
					}
				}
			}
			if m, ok := id.(*ast.MemberExpression); ok {
				id = m.Property
			}
			if ident, ok := id.(*ast.Identifier); ok {
				addDisplayName(ident.Name, call)
			}
			return nil
		}),
	}), nil
}

func createClassCall(n ast.Node) (*ast.CallExpression, bool) {
	call, ok := n.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 1 {
		return nil, false
	}
	if _, ok := call.Arguments[0].(*ast.ObjectExpression); !ok {
		return nil, false
	}
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		return call, callee.Name == "createReactClass"
	case *ast.MemberExpression:
		return call, !callee.Computed && ast.IsIdentifier(callee.Object, "React") && ast.IsIdentifier(callee.Property, "createClass")
	}
	return nil, false
}

func addDisplayName(name string, call *ast.CallExpression) {
	obj := call.Arguments[0].(*ast.ObjectExpression)
	for _, prop := range obj.Properties {
		switch pr := prop.(type) {
		case *ast.ObjectProperty:
			if ast.StaticName(pr.Key, pr.Computed) == "displayName" {
				return
			}
		case *ast.ObjectMethod:
			if ast.StaticName(pr.Key, pr.Computed) == "displayName" {
				return
			}
		}
	}
	prop := ast.NewProperty(ast.NewIdentifier("displayName"), ast.NewString(name))
	obj.Properties = append([]ast.Node{prop}, obj.Properties...)
}

// displayNameFromFile names a default-exported class after its file, or
// after the directory for index files.
func displayNameFromFile(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "index" {
		return filepath.Base(filepath.Dir(filename))
	}
	return name
}
