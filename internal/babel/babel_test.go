package babel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/parser"
	"github.com/roach88/babelgo/internal/registry"
	"github.com/roach88/babelgo/internal/traverse"
)

// lolizer renames every identifier to LOL.
func lolizer(map[string]any) (*traverse.Plugin, error) {
	return &traverse.Plugin{Name: "lolizer", Visitor: traverse.Visitor{
		ast.KindIdentifier: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			p.Node.(*ast.Identifier).Name = "LOL"
			return nil
		}),
	}}, nil
}

func lulz(map[string]any) (*PresetDef, error) {
	return &PresetDef{Plugins: []Item{registry.Inline("lolizer", lolizer)}}, nil
}

func withPresets(items ...Item) Options { return Options{Presets: items} }
func withPlugins(items ...Item) Options { return Options{Plugins: items} }

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			name: "es2015-no-commonjs preset",
			src:  `const getMessage = () => "Hello World"`,
			opts: withPresets(registry.Named("es2015-no-commonjs")),
			want: "var getMessage = function getMessage() {\n  return \"Hello World\";\n};",
		},
		{
			name: "react preset",
			src:  "const someDiv = <div>{getMessage()}</div>",
			opts: withPresets(registry.Named("react")),
			want: `const someDiv = React.createElement("div", null, getMessage());`,
		},
		{
			name: "preset with options",
			src:  "export let x",
			opts: withPresets(registry.Named("es2015", map[string]any{"modules": false})),
			want: "export var x = void 0;",
		},
		{
			name: "plugin by name",
			src:  `const getMessage = () => "Hello World"`,
			opts: withPlugins(registry.Named("transform-es2015-arrow-functions")),
			want: "const getMessage = function () {\n  return \"Hello World\";\n};",
		},
		{
			name: "plugin with options",
			src:  "`${x}`",
			opts: withPlugins(registry.Named("transform-es2015-template-literals", map[string]any{"spec": true})),
			want: `"".concat(x);`,
		},
		{
			name: "imports keep their quotes",
			src:  "import a from 'x';\na();",
			want: "import a from 'x';\na();",
		},
	}
	b := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := b.Transform(tt.src, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Code)
		})
	}
}

func TestCommonJSImportsLeaveNoEmptyStatements(t *testing.T) {
	res, err := New().Transform(`import a from "x"; export default a;`, withPresets(registry.Named("es2015")))
	require.NoError(t, err)
	assert.Contains(t, res.Code, "exports.default = _x2.default;")
	assert.NotContains(t, res.Code, ";exports.default")
	assert.NotContains(t, res.Code, "\n;")
}

func TestNilFactoriesAreUnresolved(t *testing.T) {
	b := New()
	b.RegisterPlugin("nothing", nil)
	b.RegisterPreset("nobody", nil)

	_, err := b.Transform("a;", withPlugins(registry.Named("nothing")))
	require.Error(t, err)
	assert.True(t, IsResolveError(err))

	_, err = b.Transform("a;", withPresets(registry.Named("nobody")))
	require.Error(t, err)
	assert.EqualError(t, err, `Invalid preset specified in Babel options: "nobody"`)
}

func TestTransformFromAst(t *testing.T) {
	tree, err := ast.Decode([]byte(`{
		"type": "Program", "start": 0, "end": 2, "directives": [], "sourceType": "module",
		"body": [{
			"type": "ExpressionStatement", "start": 0, "end": 1,
			"expression": {"type": "NumericLiteral", "start": 0, "end": 2, "value": 42, "raw": "42"}
		}]
	}`))
	require.NoError(t, err)

	res, err := New().TransformFromAst(tree, "42", withPresets(registry.Named("es2015")))
	require.NoError(t, err)
	assert.Equal(t, "\"use strict\";\n\n42;", res.Code)
}

func TestTransformFromAstLeavesInputUntouched(t *testing.T) {
	prog, _, err := parser.Parse("let a = () => 1;", parser.Options{})
	require.NoError(t, err)
	before, err := ast.Snapshot(prog)
	require.NoError(t, err)

	res, err := New().TransformFromAst(prog, "let a = () => 1;", withPresets(registry.Named("es2015")))
	require.NoError(t, err)
	assert.Contains(t, res.Code, "var a = function a() {")

	after, err := ast.Snapshot(prog)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestTransformFromAstWrapsExpressions(t *testing.T) {
	res, err := New().TransformFromAst(ast.NewNumber(7), "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "7;", res.Code)

	_, err = New().TransformFromAst(nil, "", Options{})
	var oe *OptionError
	assert.ErrorAs(t, err, &oe)
}

func TestUnresolvedNames(t *testing.T) {
	b := New()

	_, err := b.Transform("var foo", withPresets(registry.Named("lolfail")))
	require.Error(t, err)
	assert.Regexp(t, `Invalid preset specified in Babel options: "lolfail"`, err.Error())
	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindPreset, re.Kind)
	assert.Equal(t, "lolfail", re.Name)

	_, err = b.Transform("var foo", withPlugins(registry.Named("lolfail")))
	require.Error(t, err)
	assert.Regexp(t, `Invalid plugin specified in Babel options: "lolfail"`, err.Error())
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindPlugin, re.Kind)
}

func TestUnresolvedNameFailsBeforeParsing(t *testing.T) {
	_, err := New().Transform("var = ;", Options{
		Presets: []Item{registry.Named("es2015")},
		Plugins: []Item{registry.Named("missing")},
	})
	assert.True(t, IsResolveError(err), "got %v", err)
}

func TestUnresolvedNestedPreset(t *testing.T) {
	b := New()
	b.RegisterPreset("outer", func(map[string]any) (*PresetDef, error) {
		return &PresetDef{Presets: []Item{registry.Named("inner")}}, nil
	})
	_, err := b.Transform("x;", withPresets(registry.Named("outer")))
	assert.EqualError(t, err, `Invalid preset specified in Babel options: "inner"`)
}

func TestCustomPluginAndPreset(t *testing.T) {
	b := New()
	b.RegisterPlugin("lolizer", lolizer)
	res, err := b.Transform("function helloWorld() { alert(hello); }", withPlugins(registry.Named("lolizer")))
	require.NoError(t, err)
	assert.Equal(t, "function LOL() {\n  LOL(LOL);\n}", res.Code)

	b.RegisterPreset("lulz", lulz)
	res, err = b.Transform("function helloWorld() { alert(hello); }", withPresets(registry.Named("lulz")))
	require.NoError(t, err)
	assert.Equal(t, "function LOL() {\n  LOL(LOL);\n}", res.Code)
}

func TestRegistriesAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.RegisterPlugin("lolizer", lolizer)

	_, err := a.Transform("x;", withPlugins(registry.Named("lolizer")))
	require.NoError(t, err)
	_, err = b.Transform("x;", withPlugins(registry.Named("lolizer")))
	assert.True(t, IsResolveError(err))
	assert.Contains(t, a.AvailablePlugins(), "lolizer")
	assert.NotContains(t, b.AvailablePlugins(), "lolizer")
}

func TestSharedRegistry(t *testing.T) {
	r := registry.New()
	a, b := New(WithRegistry(r)), New(WithRegistry(r))
	a.RegisterPreset("lulz", lulz)

	res, err := b.Transform("hi;", withPresets(registry.Named("lulz")))
	require.NoError(t, err)
	assert.Equal(t, "LOL;", res.Code)
	assert.Equal(t, []string{"lulz"}, b.AvailablePresets())
}

func TestDefaultIsProcessWide(t *testing.T) {
	RegisterPlugin("default-lolizer", lolizer)
	res, err := Transform("x;", withPlugins(registry.Named("default-lolizer")))
	require.NoError(t, err)
	assert.Equal(t, "LOL;", res.Code)

	RegisterPreset("default-lulz", lulz)
	res, err = TransformFromAst(ast.NewIdentifier("y"), "", withPresets(registry.Named("default-lulz")))
	require.NoError(t, err)
	assert.Equal(t, "LOL;", res.Code)
}

func TestReregisterReplaces(t *testing.T) {
	b := New()
	b.RegisterPlugin("p", lolizer)
	b.RegisterPlugin("p", func(map[string]any) (*traverse.Plugin, error) {
		return &traverse.Plugin{}, nil
	})
	res, err := b.Transform("x;", withPlugins(registry.Named("p")))
	require.NoError(t, err)
	assert.Equal(t, "x;", res.Code)
	assert.Equal(t, []string{"p"}, res.Metadata.UsedPlugins)
}

func TestPresetsRunBeforePlugins(t *testing.T) {
	var order []string
	tracer := func(name string) PluginFactory {
		return func(map[string]any) (*traverse.Plugin, error) {
			return &traverse.Plugin{Name: name, Visitor: traverse.Visitor{
				ast.KindProgram: traverse.Enter(func(*traverse.Path, *traverse.Pass) error {
					order = append(order, name)
					return nil
				}),
			}}, nil
		}
	}
	b := New()
	b.RegisterPreset("both", func(map[string]any) (*PresetDef, error) {
		return &PresetDef{
			Presets: []Item{registry.Named("nested")},
			Plugins: []Item{registry.Inline("own", tracer("own"))},
		}, nil
	})
	b.RegisterPreset("nested", func(map[string]any) (*PresetDef, error) {
		return &PresetDef{Plugins: []Item{registry.Inline("deep", tracer("deep"))}}, nil
	})

	res, err := b.Transform("x;", Options{
		Plugins: []Item{registry.Inline("listed", tracer("listed"))},
		Presets: []Item{registry.Named("both")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"deep", "own", "listed"}, order)
	assert.Equal(t, []string{"deep", "own", "listed"}, res.Metadata.UsedPlugins)
}

func TestPresetCycleIsRejected(t *testing.T) {
	b := New()
	b.RegisterPreset("loop", func(map[string]any) (*PresetDef, error) {
		return &PresetDef{Presets: []Item{registry.Named("loop")}}, nil
	})
	_, err := b.Transform("x;", withPresets(registry.Named("loop")))
	var oe *OptionError
	require.ErrorAs(t, err, &oe)
	assert.Contains(t, oe.Message, "loop -> loop")
}

func TestFactoryErrors(t *testing.T) {
	b := New()
	_, err := b.Transform("x;", withPresets(registry.Named("es2015", map[string]any{"modules": "amd"})))
	var oe *OptionError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "presets[0]", oe.Field)

	boom := errors.New("boom")
	b.RegisterPlugin("broken", func(map[string]any) (*traverse.Plugin, error) { return nil, boom })
	_, err = b.Transform("x;", withPlugins(registry.Named("broken")))
	assert.ErrorIs(t, err, boom)
}

func TestVisitorErrorsAreWrapped(t *testing.T) {
	b := New()
	b.RegisterPlugin("fails", func(map[string]any) (*traverse.Plugin, error) {
		return &traverse.Plugin{Name: "fails", Visitor: traverse.Visitor{
			ast.KindIdentifier: traverse.Enter(func(*traverse.Path, *traverse.Pass) error {
				return fmt.Errorf("nope")
			}),
		}}, nil
	})
	_, err := b.Transform("x;", Options{Filename: "in.js", Plugins: []Item{registry.Named("fails")}})
	var pe *traverse.PluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "fails", pe.Plugin)
	assert.Contains(t, err.Error(), "in.js")
}

func TestSyntaxError(t *testing.T) {
	_, err := New().Transform("var = ;", Options{Filename: "bad.js"})
	var se *parser.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad.js", se.Filename)
}

func TestResultExtras(t *testing.T) {
	res, err := New().Transform("let a = 1;", Options{
		Presets:    []Item{registry.Named("es2015-no-commonjs")},
		AST:        true,
		SourceMaps: true,
		Filename:   "in.js",
	})
	require.NoError(t, err)
	require.NotNil(t, res.AST)
	assert.Len(t, res.AST.Body, 1)
	require.NotNil(t, res.Map)
	assert.Equal(t, []string{"in.js"}, res.Map.Sources)
	assert.Len(t, res.Metadata.UsedPlugins, 8)

	plain, err := New().Transform("a;", Options{})
	require.NoError(t, err)
	assert.Nil(t, plain.AST)
	assert.Nil(t, plain.Map)
	assert.Empty(t, plain.Metadata.UsedPlugins)
}

func TestAvailableBuiltins(t *testing.T) {
	b := New()
	assert.Contains(t, b.AvailablePresets(), "es2015")
	assert.Contains(t, b.AvailablePresets(), "react")
	assert.Contains(t, b.AvailablePlugins(), "transform-es2015-arrow-functions")
	assert.Empty(t, New(WithRegistry(registry.New())).AvailablePlugins())
}
