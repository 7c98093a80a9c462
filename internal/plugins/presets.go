package plugins

import (
	"fmt"
	"maps"

	"github.com/roach88/babelgo/internal/registry"
)

// es2015 bundles the ES2015 transforms in the order Babel 6 applied them.
// Options: loose and spec are forwarded to every plugin; modules is false to
// keep ES module syntax or "commonjs" (the default).
//
// Classes, destructuring, spread, computed properties, for-of iteration,
// generators and the other ES2015 forms without a plugin here are left as
// written, so output using them still needs an ES2015 runtime.
func es2015(opts map[string]any) (*registry.PresetDef, error) {
	loose, err := optionalBool(PresetES2015, opts, "loose")
	if err != nil {
		return nil, err
	}
	spec, err := optionalBool(PresetES2015, opts, "spec")
	if err != nil {
		return nil, err
	}
	commonjs := true
	switch m := opts["modules"].(type) {
	case nil:
	case bool:
		if m {
			return nil, fmt.Errorf("preset %s: modules must be false or \"commonjs\"", PresetES2015)
		}
		commonjs = false
	case string:
		if m != "commonjs" {
			return nil, fmt.Errorf("preset %s: unsupported modules value %q", PresetES2015, m)
		}
	default:
		return nil, fmt.Errorf("preset %s: modules must be false or \"commonjs\", got %T", PresetES2015, m)
	}

	shared := map[string]any{"loose": loose, "spec": spec}
	names := []string{
		TemplateLiterals,
		Literals,
		FunctionName,
		ArrowFunctions,
		ShorthandProperties,
		StickyRegex,
		Parameters,
		BlockScoping,
	}
	if commonjs {
		names = append(names, ModulesCommonJS)
	}
	def := &registry.PresetDef{}
	for _, name := range names {
		def.Plugins = append(def.Plugins, registry.Named(name, maps.Clone(shared)))
	}
	return def, nil
}

func es2015NoCommonJS(opts map[string]any) (*registry.PresetDef, error) {
	return es2015(withOption(opts, "modules", false))
}

func es2015Loose(opts map[string]any) (*registry.PresetDef, error) {
	return es2015(withOption(opts, "loose", true))
}

func es2016(map[string]any) (*registry.PresetDef, error) {
	return &registry.PresetDef{Plugins: []registry.Item{registry.Named(ExponentiationOperator)}}, nil
}

// latest applies es2015 then es2016. Each entry may be given options under
// its preset name or disabled with false.
func latest(opts map[string]any) (*registry.PresetDef, error) {
	def := &registry.PresetDef{}
	for _, name := range []string{PresetES2015, PresetES2016} {
		switch o := opts[name].(type) {
		case nil:
			def.Presets = append(def.Presets, registry.Named(name))
		case bool:
			if o {
				def.Presets = append(def.Presets, registry.Named(name))
			}
		case map[string]any:
			def.Presets = append(def.Presets, registry.Named(name, o))
		default:
			return nil, fmt.Errorf("preset %s: option %s must be false or an object, got %T", PresetLatest, name, o)
		}
	}
	return def, nil
}

// react compiles JSX and names createClass components. Options are passed to
// the JSX transform.
func react(opts map[string]any) (*registry.PresetDef, error) {
	return &registry.PresetDef{Plugins: []registry.Item{
		registry.Named(ReactJSX, maps.Clone(opts)),
		registry.Named(ReactDisplayName),
	}}, nil
}

func optionalBool(owner string, opts map[string]any, key string) (bool, error) {
	v, ok := opts[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("preset %s: option %s must be a boolean, got %T", owner, key, v)
	}
	return b, nil
}

func withOption(opts map[string]any, key string, value any) map[string]any {
	o := make(map[string]any, len(opts)+1)
	maps.Copy(o, opts)
	o[key] = value
	return o
}
