package plugins

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/template"
	"github.com/roach88/babelgo/internal/traverse"
)

// Runtime helpers injected into the output, keyed by helper name. HELPER is
// replaced with the file-unique binding.
var helperSources = map[string]string{
	"interopRequireDefault": `function HELPER(obj) { return obj && obj.__esModule ? obj : { default: obj }; }`,
	"interopRequireWildcard": `function HELPER(obj) { if (obj && obj.__esModule) { return obj; } else { var newObj = {}; ` +
		`if (obj != null) { for (var key in obj) { if (Object.prototype.hasOwnProperty.call(obj, key)) newObj[key] = obj[key]; } } ` +
		`newObj.default = obj; return newObj; } }`,
	"taggedTemplateLiteral":      `function HELPER(strings, raw) { return Object.freeze(Object.defineProperties(strings, { raw: { value: Object.freeze(raw) } })); }`,
	"taggedTemplateLiteralLoose": `function HELPER(strings, raw) { strings.raw = raw; return strings; }`,
}

// useHelper returns a reference to the named runtime helper, declaring it
// once per file.
func useHelper(f *traverse.File, name string) *ast.Identifier {
	return f.Helper(name, func(id *ast.Identifier) ast.Node {
		fn := template.MustStatement(helperSources[name], template.Replacements{"HELPER": id}).(*ast.FunctionDeclaration)
		fn.Compact = true
		return fn
	})
}
