// Package registry holds the named plugins and presets a compiler instance
// can resolve.
package registry

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/roach88/babelgo/internal/traverse"
)

// PluginFactory builds a plugin for one transform. opts are the options the
// plugin was configured with, never nil.
type PluginFactory func(opts map[string]any) (*traverse.Plugin, error)

// PresetFactory expands a preset into the plugins and nested presets it
// bundles. opts are the options the preset was configured with, never nil.
type PresetFactory func(opts map[string]any) (*PresetDef, error)

// PresetDef is the content of a preset. Nested presets are applied before
// its own plugins.
type PresetDef struct {
	Presets []Item
	Plugins []Item
}

// Item references a plugin or preset either by registered name or by value,
// with the options to apply it with.
type Item struct {
	Name    string
	Plugin  PluginFactory
	Preset  PresetFactory
	Options map[string]any
}

// Named references a registered plugin or preset by name.
func Named(name string, opts ...map[string]any) Item {
	it := Item{Name: name}
	if len(opts) > 0 {
		it.Options = opts[0]
	}
	return it
}

// Inline wraps a plugin factory so it can be used without registering it.
func Inline(name string, f PluginFactory, opts ...map[string]any) Item {
	it := Item{Name: name, Plugin: f}
	if len(opts) > 0 {
		it.Options = opts[0]
	}
	return it
}

// Registry maps names to plugin and preset factories. It is safe for
// concurrent use; a transform sees the registry as it was when it resolved
// its configuration.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]PluginFactory
	presets map[string]PresetFactory
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		plugins: map[string]PluginFactory{},
		presets: map[string]PresetFactory{},
	}
}

// RegisterPlugin makes f available under name, replacing any earlier entry.
// A nil f removes the entry.
func (r *Registry) RegisterPlugin(name string, f PluginFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f == nil {
		delete(r.plugins, name)
		return
	}
	r.plugins[name] = f
}

// RegisterPreset makes f available under name, replacing any earlier entry.
// A nil f removes the entry.
func (r *Registry) RegisterPreset(name string, f PresetFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f == nil {
		delete(r.presets, name)
		return
	}
	r.presets[name] = f
}

// Plugin looks up a plugin factory.
func (r *Registry) Plugin(name string) (PluginFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.plugins[name]
	return f, ok
}

// Preset looks up a preset factory.
func (r *Registry) Preset(name string) (PresetFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.presets[name]
	return f, ok
}

// PluginNames returns the registered plugin names in sorted order.
func (r *Registry) PluginNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.plugins)
	slices.Sort(names)
	return names
}

// PresetNames returns the registered preset names in sorted order.
func (r *Registry) PresetNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.presets)
	slices.Sort(names)
	return names
}

// Clone returns an independent registry with the same entries.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{
		plugins: lo.Assign(r.plugins),
		presets: lo.Assign(r.presets),
	}
}
