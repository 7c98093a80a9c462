package babel

import "github.com/roach88/babelgo/internal/ast"

// Default is the process-wide compiler used by the package-level functions.
// Registrations on it are visible to every later call in the process.
var Default = New()

// Transform compiles code with Default.
func Transform(code string, opts Options) (*Result, error) {
	return Default.Transform(code, opts)
}

// TransformFromAst compiles a tree with Default.
func TransformFromAst(node ast.Node, code string, opts Options) (*Result, error) {
	return Default.TransformFromAst(node, code, opts)
}

// RegisterPlugin registers a plugin on Default.
func RegisterPlugin(name string, f PluginFactory) {
	Default.RegisterPlugin(name, f)
}

// RegisterPreset registers a preset on Default.
func RegisterPreset(name string, f PresetFactory) {
	Default.RegisterPreset(name, f)
}
