package plugins

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/generator"
	"github.com/roach88/babelgo/internal/parser"
	"github.com/roach88/babelgo/internal/registry"
	"github.com/roach88/babelgo/internal/traverse"
)

type use struct {
	name string
	opts map[string]any
}

func plugin(name string, opts ...map[string]any) use {
	u := use{name: name}
	if len(opts) > 0 {
		u.opts = opts[0]
	}
	return u
}

func builtins() *registry.Registry {
	r := registry.New()
	Register(r)
	return r
}

func transformFile(t *testing.T, filename, src string, uses ...use) (string, error) {
	t.Helper()
	r := builtins()
	popts := parser.Options{SourceType: parser.SourceModule, Filename: filename}

	var entries []traverse.Entry
	for _, u := range uses {
		f, ok := r.Plugin(u.name)
		require.True(t, ok, "plugin %s", u.name)
		opts := u.opts
		if opts == nil {
			opts = map[string]any{}
		}
		p, err := f(opts)
		require.NoError(t, err)
		if p.ManipulateOptions != nil {
			p.ManipulateOptions(&popts, opts)
		}
		entries = append(entries, traverse.Entry{Plugin: p, Options: opts})
	}

	prog, text, err := parser.Parse(src, popts)
	require.NoError(t, err)
	file := traverse.NewFile(prog, text, filename)
	if err := traverse.Traverse(file, entries); err != nil {
		return "", err
	}
	return generator.Generate(prog, generator.Options{Code: text, RetainLines: true}).Code, nil
}

func compileFile(t *testing.T, filename, src string, uses ...use) string {
	t.Helper()
	out, err := transformFile(t, filename, src, uses...)
	require.NoError(t, err)
	return out
}

func compile(t *testing.T, src string, uses ...use) string {
	t.Helper()
	return compileFile(t, "test.js", src, uses...)
}

// expand flattens a builtin preset into the plugins it applies, nested
// presets first.
func expand(t *testing.T, name string, opts map[string]any) []use {
	t.Helper()
	f, ok := builtins().Preset(name)
	require.True(t, ok, "preset %s", name)
	if opts == nil {
		opts = map[string]any{}
	}
	def, err := f(opts)
	require.NoError(t, err)

	var out []use
	for _, it := range def.Presets {
		out = append(out, expand(t, it.Name, it.Options)...)
	}
	for _, it := range def.Plugins {
		out = append(out, use{name: it.Name, opts: it.Options})
	}
	return out
}

func names(uses []use) []string {
	out := make([]string, len(uses))
	for i, u := range uses {
		out[i] = u.name
	}
	return out
}

func TestRegisterAddsEveryBuiltin(t *testing.T) {
	r := builtins()
	assert.Len(t, r.PluginNames(), len(builtinPlugins))
	assert.ElementsMatch(t, []string{
		PresetES2015, PresetES2015NoCommonJS, PresetES2015Loose,
		PresetES2016, PresetLatest, PresetReact,
	}, r.PresetNames())
}

func TestArrowFunctions(t *testing.T) {
	assert.Equal(t, "var f = function () {\n  return 1;\n};",
		compile(t, "var f = () => 1;", plugin(ArrowFunctions)))

	out := compile(t, "var f = () => this.x;", plugin(ArrowFunctions))
	assert.Contains(t, out, "var _this = this;")
	assert.Contains(t, out, "return _this.x;")
}

func TestArrowFunctionsKeepOwnThis(t *testing.T) {
	out := compile(t, "function outer() { return () => this; }", plugin(ArrowFunctions))
	assert.Contains(t, out, "function outer() {\n  var _this = this;")
	assert.Contains(t, out, "return _this;")
}

func TestFunctionName(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"declarator", "var f = function () {};", "var f = function f() {};"},
		{"property", "var o = { foo: function () {} };", "var o = { foo: function foo() {} };"},
		{"string key", "var o = { \"bar\": function () {} };", "var o = { \"bar\": function bar() {} };"},
		{"already named", "var f = function g() {};", "var f = function g() {};"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, tt.src, plugin(FunctionName)))
		})
	}
}

func TestFunctionNameInvalidIdentifier(t *testing.T) {
	out := compile(t, "var o = { \"foo-bar\": function () {} };", plugin(FunctionName))
	assert.Contains(t, out, "function fooBar()")
}

func TestTemplateLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts map[string]any
		want string
	}{
		{"mixed", "var s = `a${b}c`;", nil, `var s = "a" + b + "c";`},
		{"leading values", "var s = `${a}${b}`;", nil, `var s = "" + a + b;`},
		{"plain", "var s = `abc`;", nil, `var s = "abc";`},
		{"spec concat", "var s = `a${b}`;", map[string]any{"spec": true}, `var s = "a".concat(b);`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, tt.src, plugin(TemplateLiterals, tt.opts)))
		})
	}
}

func TestTaggedTemplate(t *testing.T) {
	out := compile(t, "tag`a${b}`;", plugin(TemplateLiterals))
	assert.Contains(t, out, "function _taggedTemplateLiteral(strings, raw)")
	assert.Contains(t, out, `var _templateObject = _taggedTemplateLiteral(["a", ""], ["a", ""]);`)
	assert.Contains(t, out, "tag(_templateObject, b);")

	loose := compile(t, "tag`x`;", plugin(TemplateLiterals, map[string]any{"loose": true}))
	assert.Contains(t, loose, "_taggedTemplateLiteralLoose([\"x\"], [\"x\"])")
}

func TestLiterals(t *testing.T) {
	assert.Equal(t, "var n = 3;", compile(t, "var n = 0b11;", plugin(Literals)))
	assert.Equal(t, "var n = 8;", compile(t, "var n = 0o10;", plugin(Literals)))
	assert.Equal(t, "var n = 0x10;", compile(t, "var n = 0x10;", plugin(Literals)))
}

func TestStickyRegex(t *testing.T) {
	assert.Equal(t, `var r = new RegExp("a", "y");`, compile(t, "var r = /a/y;", plugin(StickyRegex)))
	assert.Equal(t, "var r = /a/g;", compile(t, "var r = /a/g;", plugin(StickyRegex)))
}

func TestShorthandProperties(t *testing.T) {
	out := compile(t, "var o = { a, b() {} };", plugin(ShorthandProperties))
	assert.Contains(t, out, "a: a")
	assert.Contains(t, out, "b: function () {}")
}

func TestParametersDefaults(t *testing.T) {
	out := compile(t, "function f(a = 1) { return a; }", plugin(Parameters))
	assert.Contains(t, out, "function f() {")
	assert.Contains(t, out, "let a = arguments.length > 0 && arguments[0] !== undefined ? arguments[0] : 1;")
}

func TestParametersRest(t *testing.T) {
	out := compile(t, "function f(a, ...rest) { return rest; }", plugin(Parameters))
	assert.Contains(t, out, "function f(a) {")
	assert.Contains(t, out, "for (var _len = arguments.length, rest = Array(_len > 1 ? _len - 1 : 0), _key = 1; _key < _len; _key++) {")
	assert.Contains(t, out, "rest[_key - 1] = arguments[_key];")
}

func TestParametersUnusedRestDropped(t *testing.T) {
	assert.Equal(t, "function f() {}", compile(t, "function f(...rest) {}", plugin(Parameters)))
}

func TestParametersDestructuring(t *testing.T) {
	out := compile(t, "function f({ a }) { return a; }", plugin(Parameters))
	assert.Contains(t, out, "function f(_ref) {")
	assert.Contains(t, out, "let { a } = _ref;")
}

func TestBlockScoping(t *testing.T) {
	assert.Equal(t, "var a = 1;", compile(t, "let a = 1;", plugin(BlockScoping)))
	assert.Equal(t, "var a = void 0;", compile(t, "let a;", plugin(BlockScoping)))
	assert.Equal(t, "var a = 1;", compile(t, "const a = 1;", plugin(BlockScoping)))

	out := compile(t, "let a = 1;\n{\n  let a = 2;\n}", plugin(BlockScoping))
	assert.Contains(t, out, "var a = 1;")
	assert.Contains(t, out, "var _a = 2;")
}

func TestBlockScopingCapturedLoopBinding(t *testing.T) {
	src := "for (let i = 0; i < 3; i++) {\n  fs.push(() => i);\n}"
	out := compile(t, src, plugin(ArrowFunctions), plugin(BlockScoping))
	assert.Contains(t, out, "var _loop = function _loop(i) {")
	assert.Contains(t, out, "return i;")
	assert.Contains(t, out, "for (var i = 0; i < 3; i++) {\n  _loop(i);\n}")
	assert.NotContains(t, out, "let")
}

func TestBlockScopingUncapturedLoopStaysFlat(t *testing.T) {
	src := "for (let i = 0; i < 3; i++) {\n  f(i);\n}"
	assert.Equal(t, "for (var i = 0; i < 3; i++) {\n  f(i);\n}", compile(t, src, plugin(BlockScoping)))
}

func TestBlockScopingLoopContinueReturns(t *testing.T) {
	src := "for (const x of xs) {\n  if (!x) continue;\n  for (;;) {\n    continue;\n  }\n  fs.push(function () {\n    return x;\n  });\n}"
	out := compile(t, src, plugin(BlockScoping))
	assert.Contains(t, out, "if (!x) return;")
	assert.Contains(t, out, "    continue;")
	assert.Contains(t, out, "for (var x of xs) {\n  _loop(x);\n}")
}

func TestBlockScopingLoopOutsideBlock(t *testing.T) {
	src := "if (a) for (let i of xs) g(() => i);"
	out := compile(t, src, plugin(ArrowFunctions), plugin(BlockScoping))
	assert.Contains(t, out, "var _loop = function _loop(i) {")
	assert.Contains(t, out, "_loop(i);")
}

func TestBlockScopingLoopThisKeepsOwner(t *testing.T) {
	src := "function f() {\n  for (let i of xs) {\n    this.fs.push(() => i);\n  }\n}"
	out := compile(t, src, plugin(ArrowFunctions), plugin(BlockScoping))
	assert.Contains(t, out, "var _this = this;")
	assert.Contains(t, out, "_this.fs.push(")
}

func TestBlockScopingRejectsUnsupportedCapturedLoops(t *testing.T) {
	tests := map[string]string{
		"break":             "for (let i of xs) {\n  g(() => i);\n  if (i) break;\n}",
		"return":            "function f() {\n  for (let i of xs) {\n    g(() => i);\n    return;\n  }\n}",
		"update of i":       "for (let i = 0; i < 3;) {\n  g(() => i);\n  i++;\n}",
		"continue outer":    "outer: for (;;) {\n  for (let i of xs) {\n    g(() => i);\n    continue outer;\n  }\n}",
		"this or arguments": "function f() {\n  for (let i of xs) {\n    g(() => this[i]);\n  }\n}",
	}
	for what, src := range tests {
		t.Run(what, func(t *testing.T) {
			_, err := transformFile(t, "test.js", src, plugin(BlockScoping))
			require.Error(t, err)
			assert.Contains(t, err.Error(), what+" in a loop whose bindings are captured by a closure is not supported")
		})
	}
}

func TestStrictMode(t *testing.T) {
	assert.Equal(t, "\"use strict\";\n\nfoo();", compile(t, "foo();", plugin(StrictMode)))
	assert.Equal(t, "'use strict';\n\nfoo();", compile(t, "'use strict';\nfoo();", plugin(StrictMode)))
	assert.Equal(t, "foo();", compile(t, "foo();", plugin(StrictMode, map[string]any{"strictMode": false})))
}

func TestExponentiationOperator(t *testing.T) {
	assert.Equal(t, "var x = Math.pow(a, b);", compile(t, "var x = a ** b;", plugin(ExponentiationOperator)))
	assert.Equal(t, "a = Math.pow(a, 2);", compile(t, "a **= 2;", plugin(ExponentiationOperator)))
}

func TestModulesCommonJSDefaultExport(t *testing.T) {
	out := compile(t, "export default 42;", plugin(ModulesCommonJS))
	assert.True(t, strings.HasPrefix(out, "\"use strict\";\n\n"), out)
	assert.Contains(t, out, "Object.defineProperty(exports, \"__esModule\", {\n  value: true\n});")
	assert.Contains(t, out, "exports.default = 42;")
}

func TestModulesCommonJSLooseMarker(t *testing.T) {
	out := compile(t, "export var a = 1;", plugin(ModulesCommonJS, map[string]any{"loose": true}))
	assert.Contains(t, out, "exports.__esModule = true;")
	assert.Contains(t, out, "var a = exports.a = 1;")
}

func TestModulesCommonJSImports(t *testing.T) {
	out := compile(t, "import foo from \"foo\";\nfoo();", plugin(ModulesCommonJS))
	assert.Contains(t, out, "var _foo = require(\"foo\");")
	assert.Contains(t, out, "var _foo2 = _interopRequireDefault(_foo);")
	assert.Contains(t, out, "(0, _foo2.default)();")
	assert.Contains(t, out, "function _interopRequireDefault(obj) {")
	assert.NotContains(t, out, "__esModule\", {")
}

func TestModulesCommonJSTopLevelThis(t *testing.T) {
	out := compile(t, "this.x = 1;", plugin(ModulesCommonJS))
	assert.Contains(t, out, "undefined.x = 1;")

	kept := compile(t, "this.x = 1;", plugin(ModulesCommonJS, map[string]any{"allowTopLevelThis": true}))
	assert.Contains(t, kept, "this.x = 1;")
}

func TestReactJSX(t *testing.T) {
	assert.Equal(t, `const someDiv = React.createElement("div", null, getMessage());`,
		compile(t, "const someDiv = <div>{getMessage()}</div>", plugin(ReactJSX)))
	assert.Equal(t, `var a = h("b", null);`,
		compile(t, "var a = <b />;", plugin(ReactJSX, map[string]any{"pragma": "h"})))
}

func TestReactJSXRejectsBadPragma(t *testing.T) {
	_, err := newReactJSX(map[string]any{"pragma": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pragma")
}

func TestReactDisplayName(t *testing.T) {
	out := compile(t, "var Foo = React.createClass({ render: function () {} });", plugin(ReactDisplayName))
	assert.Contains(t, out, `displayName: "Foo"`)

	out = compile(t, "obj.Bar = createReactClass({});", plugin(ReactDisplayName))
	assert.Contains(t, out, `displayName: "Bar"`)

	out = compile(t, "var Foo = React.createClass({ displayName: \"Other\" });", plugin(ReactDisplayName))
	assert.Equal(t, 1, strings.Count(out, "displayName"))

	out = compile(t, "var Foo = React.createClass(spec);", plugin(ReactDisplayName))
	assert.NotContains(t, out, "displayName")
}

func TestReactDisplayNameFromFile(t *testing.T) {
	out := compileFile(t, "components/Button.js", "export default React.createClass({});", plugin(ReactDisplayName))
	assert.Contains(t, out, `displayName: "Button"`)

	out = compileFile(t, "components/Card/index.js", "export default React.createClass({});", plugin(ReactDisplayName))
	assert.Contains(t, out, `displayName: "Card"`)
}

func TestES2015PresetOrder(t *testing.T) {
	assert.Equal(t, []string{
		TemplateLiterals, Literals, FunctionName, ArrowFunctions,
		ShorthandProperties, StickyRegex, Parameters, BlockScoping, ModulesCommonJS,
	}, names(expand(t, PresetES2015, nil)))

	noModules := names(expand(t, PresetES2015NoCommonJS, nil))
	assert.NotContains(t, noModules, ModulesCommonJS)
	assert.Len(t, noModules, 8)

	for _, u := range expand(t, PresetES2015Loose, nil) {
		assert.Equal(t, true, u.opts["loose"], u.name)
	}
}

func TestES2015PresetOptionErrors(t *testing.T) {
	_, err := es2015(map[string]any{"modules": "amd"})
	assert.Error(t, err)
	_, err = es2015(map[string]any{"modules": true})
	assert.Error(t, err)
	_, err = es2015(map[string]any{"loose": "yes"})
	assert.Error(t, err)
	_, err = es2015(map[string]any{"modules": "commonjs"})
	assert.NoError(t, err)
}

func TestLatestPreset(t *testing.T) {
	all := names(expand(t, PresetLatest, nil))
	assert.Equal(t, ExponentiationOperator, all[len(all)-1])
	assert.Contains(t, all, ModulesCommonJS)

	trimmed := names(expand(t, PresetLatest, map[string]any{
		"es2015": map[string]any{"modules": false},
		"es2016": false,
	}))
	assert.NotContains(t, trimmed, ModulesCommonJS)
	assert.NotContains(t, trimmed, ExponentiationOperator)

	_, err := latest(map[string]any{"es2016": "nope"})
	assert.Error(t, err)
}

func TestReactPreset(t *testing.T) {
	uses := expand(t, PresetReact, map[string]any{"pragma": "h"})
	assert.Equal(t, []string{ReactJSX, ReactDisplayName}, names(uses))
	assert.Equal(t, "h", uses[0].opts["pragma"])
}

func TestES2015NoCommonJSArrow(t *testing.T) {
	out := compile(t, `const getMessage = () => "Hello World"`, expand(t, PresetES2015NoCommonJS, nil)...)
	assert.Equal(t, "var getMessage = function getMessage() {\n  return \"Hello World\";\n};", out)
}

func TestES2015ModuleOutput(t *testing.T) {
	out := compile(t, "export const answer = () => 42;", expand(t, PresetES2015, nil)...)
	assert.True(t, strings.HasPrefix(out, "\"use strict\";"), out)
	assert.Contains(t, out, "var answer = exports.answer = function answer() {")
	assert.Contains(t, out, "return 42;")
}

func TestES2015LeavesClassesAsWritten(t *testing.T) {
	out := compile(t, "class A {\n  m() {\n    return 1;\n  }\n}", expand(t, PresetES2015NoCommonJS, nil)...)
	assert.Contains(t, out, "class A {")
	assert.NotContains(t, out, "_classCallCheck")
}
