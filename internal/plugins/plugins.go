// Package plugins holds the builtin transformation plugins and the presets
// that bundle them.
//
// Plugin names follow Babel's package names without the babel-plugin-
// prefix, so configurations written for Babel resolve unchanged.
package plugins

import (
	"github.com/roach88/babelgo/internal/registry"
	"github.com/roach88/babelgo/internal/traverse"
)

// Builtin plugin names.
const (
	TemplateLiterals       = "transform-es2015-template-literals"
	Literals               = "transform-es2015-literals"
	FunctionName           = "transform-es2015-function-name"
	ArrowFunctions         = "transform-es2015-arrow-functions"
	ShorthandProperties    = "transform-es2015-shorthand-properties"
	Parameters             = "transform-es2015-parameters"
	StickyRegex            = "transform-es2015-sticky-regex"
	BlockScoping           = "transform-es2015-block-scoping"
	ModulesCommonJS        = "transform-es2015-modules-commonjs"
	StrictMode             = "transform-strict-mode"
	ExponentiationOperator = "transform-exponentiation-operator"
	ReactJSX               = "transform-react-jsx"
	ReactDisplayName       = "transform-react-display-name"
)

// Builtin preset names.
const (
	PresetES2015           = "es2015"
	PresetES2015NoCommonJS = "es2015-no-commonjs"
	PresetES2015Loose      = "es2015-loose"
	PresetES2016           = "es2016"
	PresetLatest           = "latest"
	PresetReact            = "react"
)

var builtinPlugins = map[string]registry.PluginFactory{
	TemplateLiterals:       newTemplateLiterals,
	Literals:               newLiterals,
	FunctionName:           newFunctionName,
	ArrowFunctions:         newArrowFunctions,
	ShorthandProperties:    newShorthandProperties,
	Parameters:             newParameters,
	StickyRegex:            newStickyRegex,
	BlockScoping:           newBlockScoping,
	ModulesCommonJS:        newModulesCommonJS,
	StrictMode:             newStrictMode,
	ExponentiationOperator: newExponentiationOperator,
	ReactJSX:               newReactJSX,
	ReactDisplayName:       newReactDisplayName,
}

var builtinPresets = map[string]registry.PresetFactory{
	PresetES2015:           es2015,
	PresetES2015NoCommonJS: es2015NoCommonJS,
	PresetES2015Loose:      es2015Loose,
	PresetES2016:           es2016,
	PresetLatest:           latest,
	PresetReact:            react,
}

// Register adds every builtin plugin and preset to r.
func Register(r *registry.Registry) {
	for name, f := range builtinPlugins {
		r.RegisterPlugin(name, f)
	}
	for name, f := range builtinPresets {
		r.RegisterPreset(name, f)
	}
}

// simple wraps a visitor whose handlers read options from the pass.
func simple(name string, v traverse.Visitor) *traverse.Plugin {
	return &traverse.Plugin{Name: name, Visitor: v}
}
