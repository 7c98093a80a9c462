package harness

import (
	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/registry"
	"github.com/roach88/babelgo/internal/traverse"
)

// Test units a check can register by name.
var (
	testPlugins = map[string]babel.PluginFactory{
		"lolizer": lolizer,
	}
	testPresets = map[string]babel.PresetFactory{
		"lulz": lulz,
	}
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

// lulz bundles lolizer by value, so it works without lolizer registered.
func lulz(map[string]any) (*babel.PresetDef, error) {
	return &babel.PresetDef{Plugins: []babel.Item{registry.Inline("lolizer", lolizer)}}, nil
}

// RegistrableUnits lists the plugin and preset names a check may register.
func RegistrableUnits() (plugins, presets []string) {
	return sortedKeys(testPlugins), sortedKeys(testPresets)
}

func register(b *babel.Babel, r *Registration) {
	if r == nil {
		return
	}
	for _, name := range r.Plugins {
		b.RegisterPlugin(name, testPlugins[name])
	}
	for _, name := range r.Presets {
		b.RegisterPreset(name, testPresets[name])
	}
}
