package generator

import (
	"testing"

	"github.com/go-sourcemap/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/parser"
	"github.com/roach88/babelgo/internal/template"
)

func parse(t *testing.T, src string) (*ast.Program, string) {
	t.Helper()
	prog, text, err := parser.Parse(src, parser.Options{SourceType: parser.SourceModule})
	require.NoError(t, err)
	return prog, text
}

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	prog, text := parse(t, src)
	return Generate(prog, Options{Code: text, RetainLines: true}).Code
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"blank lines capped at one", "var a = 1;\n\n\n\nvar b = 2;", "var a = 1;\n\nvar b = 2;"},
		{"adjacent lines kept", "a();\nb();", "a();\nb();"},
		{"dangling else", "if (a) b(); else c();", "if (a) b();else c();"},
		{"if block else", "if (a) {\n  b();\n} else {\n  c();\n}", "if (a) {\n  b();\n} else {\n  c();\n}"},
		{"multiple declarators", "var a = 1, b = 2;", "var a = 1,\n    b = 2;"},
		{"for head", "for (let i = 0; i < n; i++) {}", "for (let i = 0; i < n; i++) {}"},
		{"precedence", "x = (a + b) * c;", "x = (a + b) * c;"},
		{"unary minus spacing", "x = a - -b;", "x = a - -b;"},
		{"iife", "(function () {})();", "(function () {})();"},
		{"arrow object body", "f = () => ({ a: 1 });", "f = () => ({ a: 1 });"},
		{"single arrow param", "f = x => x * 2;", "f = x => x * 2;"},
		{"object one line", "var o = { a: 1, b };", "var o = { a: 1, b };"},
		{"object multi line", "var o = {\n  a: 1,\n  b: 2\n};", "var o = {\n  a: 1,\n  b: 2\n};"},
		{"template", "var s = `a${b}c`;", "var s = `a${b}c`;"},
		{"new with args", "var d = new Date();", "var d = new Date();"},
		{"class", "class A extends B {\n  m() {}\n}", "class A extends B {\n  m() {}\n}"},
		{"import export", "import a, { b as c } from 'x';\nexport { c };", "import a, { b as c } from 'x';\nexport { c };"},
		{"switch", "switch (a) {\n  case 1:\n    b();\n  default:\n    c();\n}", "switch (a) {\n  case 1:\n    b();\n  default:\n    c();\n}"},
		{"try", "try {\n  a();\n} catch (e) {\n  b();\n} finally {\n  c();\n}", "try {\n  a();\n} catch (e) {\n  b();\n} finally {\n  c();\n}"},
		{"directive", "'use strict';\nfoo();", "'use strict';\n\nfoo();"},
		{"number member", "x = 1..toString();", "x = 1..toString();"},
		{"empty function", "function f() {}", "function f() {}"},
		{"regexp", "var r = /ab+c/gi;", "var r = /ab+c/gi;"},
		{"sequence in arrow body", "f = () => (a, b);", "f = () => (a, b);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTrip(t, tt.src))
		})
	}
}

func TestSynthesizedDirective(t *testing.T) {
	prog := &ast.Program{
		Directives: []*ast.Directive{ast.NewDirective("use strict")},
		Body:       []ast.Node{ast.NewExpressionStatement(ast.NewNumber(42))},
	}
	assert.Equal(t, "\"use strict\";\n\n42;", Generate(prog, Options{}).Code)
}

func TestSynthesizedObjectBreaksLines(t *testing.T) {
	call := ast.NewCall(
		ast.NewMemberPath("Object", "defineProperty"),
		ast.NewIdentifier("exports"),
		ast.NewString("__esModule"),
		ast.NewObject(ast.NewProperty(ast.NewIdentifier("value"), ast.NewBool(true))),
	)
	prog := &ast.Program{Body: []ast.Node{ast.NewExpressionStatement(call)}}

	assert.Equal(t, "Object.defineProperty(exports, \"__esModule\", {\n  value: true\n});", Generate(prog, Options{}).Code)
}

func TestCompactFunction(t *testing.T) {
	stmt := template.MustStatement("function _interopRequireDefault(obj) { return obj && obj.__esModule ? obj : { default: obj }; }", nil)
	stmt.(*ast.FunctionDeclaration).Compact = true
	prog := &ast.Program{Body: []ast.Node{stmt}}

	assert.Equal(t,
		"function _interopRequireDefault(obj) { return obj && obj.__esModule ? obj : { default: obj }; }",
		Generate(prog, Options{}).Code)
}

func TestHelperDeclarationsGetBlankLines(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		template.MustStatement("var _foo = require(\"foo\");", nil),
		template.MustStatement("var _foo2 = _interopRequireDefault(_foo);", nil),
		template.MustStatement("bar(_foo2.default);", nil),
	}}

	want := "var _foo = require(\"foo\");\n\nvar _foo2 = _interopRequireDefault(_foo);\n\nbar(_foo2.default);"
	assert.Equal(t, want, Generate(prog, Options{}).Code)
}

func TestGeneratedStringsFollowSourceQuotes(t *testing.T) {
	prog, text := parse(t, "x('a');")
	prog.Body = append(prog.Body, ast.NewExpressionStatement(ast.NewCall(ast.NewIdentifier("y"), ast.NewString("b"))))

	assert.Equal(t, "x('a');\ny('b');", Generate(prog, Options{Code: text, RetainLines: true}).Code)
}

func TestSynthesizedBinaryParens(t *testing.T) {
	sum := ast.NewBinary("+", ast.NewIdentifier("a"), ast.NewIdentifier("b"))
	prod := ast.NewBinary("*", sum, ast.NewIdentifier("c"))
	prog := &ast.Program{Body: []ast.Node{ast.NewExpressionStatement(prod)}}
	assert.Equal(t, "(a + b) * c;", Generate(prog, Options{}).Code)

	right := ast.NewBinary("-", ast.NewIdentifier("a"), ast.NewBinary("-", ast.NewIdentifier("b"), ast.NewIdentifier("c")))
	prog.Body[0] = ast.NewExpressionStatement(right)
	assert.Equal(t, "a - (b - c);", Generate(prog, Options{}).Code)
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"a\"b"`, quoteString(`a"b`, '"'))
	assert.Equal(t, `'it\'s'`, quoteString("it's", '\''))
	assert.Equal(t, `"line\nbreak\ttab\\"`, quoteString("line\nbreak\ttab\\", '"'))
	assert.Equal(t, `"caf\u00E9"`, quoteString("caf\u00e9", '"'))
	assert.Equal(t, `"\uD83D\uDE00"`, quoteString("\U0001F600", '"'))
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		5:       "5",
		0.5:     "0.5",
		1e21:    "1e+21",
		1e-6:    "0.000001",
		1.5e-6:  "0.0000015",
		9.99e-7: "9.99e-7",
		1e-7:    "1e-7",
		-1e-7:   "-1e-7",
		1.5e-10: "1.5e-10",
		123456:  "123456",
		0:       "0",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in), "formatNumber(%v)", in)
	}
}

func TestSourceMap(t *testing.T) {
	prog, text := parse(t, "a();\n\nb();")
	res := Generate(prog, Options{Code: text, RetainLines: true, SourceMaps: true, SourceFileName: "in.js"})
	require.NotNil(t, res.Map)

	assert.Equal(t, 3, res.Map.Version)
	assert.Equal(t, []string{"in.js"}, res.Map.Sources)
	assert.Equal(t, []string{text}, res.Map.SourcesContent)
	assert.NotEmpty(t, res.Map.Mappings)

	data, err := res.Map.JSON()
	require.NoError(t, err)
	consumer, err := sourcemap.Parse("", data)
	require.NoError(t, err)

	_, _, firstLine, firstCol, ok := consumer.Source(1, 0)
	require.True(t, ok)
	_, _, secondLine, secondCol, ok := consumer.Source(3, 0)
	require.True(t, ok)
	assert.Equal(t, firstLine+2, secondLine)
	assert.Equal(t, firstCol, secondCol)
}

func TestSourceMapOmittedByDefault(t *testing.T) {
	prog, text := parse(t, "a();")
	assert.Nil(t, Generate(prog, Options{Code: text}).Map)
}

func TestWithoutRetainLinesEverythingIsSynthesized(t *testing.T) {
	prog, text := parse(t, "a();\n\n\nb();")
	assert.Equal(t, "a();\nb();", Generate(prog, Options{Code: text}).Code)
}
