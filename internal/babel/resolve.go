package babel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/babelgo/internal/traverse"
)

// resolve turns a configuration into the ordered plugin list of one
// traversal: the plugins of each preset in listed order (nested presets
// before the preset's own plugins), then the configured plugins. Every name
// is resolved before anything runs, so one bad name fails the whole call.
func (b *Babel) resolve(opts Options) ([]traverse.Entry, error) {
	var entries []traverse.Entry
	for i, it := range opts.Presets {
		got, err := b.expandPreset(it, fmt.Sprintf("presets[%d]", i), nil)
		if err != nil {
			return nil, err
		}
		entries = append(entries, got...)
	}
	for i, it := range opts.Plugins {
		e, err := b.instantiatePlugin(it, fmt.Sprintf("plugins[%d]", i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (b *Babel) expandPreset(it Item, field string, stack []string) ([]traverse.Entry, error) {
	factory := it.Preset
	if factory == nil {
		if it.Name == "" {
			return nil, &OptionError{Field: field, Message: "preset has neither a name nor a value"}
		}
		var ok bool
		if factory, ok = b.registry.Preset(it.Name); !ok {
			return nil, &ResolveError{Kind: KindPreset, Name: it.Name}
		}
	}
	if it.Name != "" && slices.Contains(stack, it.Name) {
		return nil, &OptionError{
			Field:   field,
			Message: "preset includes itself: " + strings.Join(append(stack, it.Name), " -> "),
		}
	}

	def, err := factory(optionsOf(it))
	if err != nil {
		return nil, &OptionError{Field: field, Message: fmt.Sprintf("preset %q", it.Name), Err: err}
	}
	if def == nil {
		return nil, nil
	}

	stack = append(stack, it.Name)
	var entries []traverse.Entry
	for i, nested := range def.Presets {
		got, err := b.expandPreset(nested, fmt.Sprintf("%s.presets[%d]", field, i), stack)
		if err != nil {
			return nil, err
		}
		entries = append(entries, got...)
	}
	for i, p := range def.Plugins {
		e, err := b.instantiatePlugin(p, fmt.Sprintf("%s.plugins[%d]", field, i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (b *Babel) instantiatePlugin(it Item, field string) (traverse.Entry, error) {
	factory := it.Plugin
	if factory == nil {
		if it.Name == "" {
			return traverse.Entry{}, &OptionError{Field: field, Message: "plugin has neither a name nor a value"}
		}
		var ok bool
		if factory, ok = b.registry.Plugin(it.Name); !ok {
			return traverse.Entry{}, &ResolveError{Kind: KindPlugin, Name: it.Name}
		}
	}

	opts := optionsOf(it)
	p, err := factory(opts)
	if err != nil {
		return traverse.Entry{}, &OptionError{Field: field, Message: fmt.Sprintf("plugin %q", it.Name), Err: err}
	}
	if p == nil {
		return traverse.Entry{}, &OptionError{Field: field, Message: fmt.Sprintf("plugin %q returned nothing", it.Name)}
	}
	if p.Name == "" {
		p.Name = it.Name
	}
	return traverse.Entry{Plugin: p, Options: opts}, nil
}

func optionsOf(it Item) map[string]any {
	if it.Options == nil {
		return map[string]any{}
	}
	return it.Options
}
