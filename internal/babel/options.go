package babel

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/roach88/babelgo/internal/parser"
	"github.com/roach88/babelgo/internal/registry"
)

// Options configure one transform.
type Options struct {
	// Presets are applied first, in order, then Plugins.
	Presets []Item
	Plugins []Item

	// Filename is used in error messages and by plugins that derive names
	// from it. Defaults to "unknown".
	Filename string

	// SourceType is "module" (default), "script", or "unambiguous".
	SourceType string

	// SourceMaps adds a version 3 source map to the result.
	SourceMaps bool

	// AST keeps the transformed tree in the result.
	AST bool
}

func (o Options) filename() string {
	if o.Filename == "" {
		return parser.DefaultFilename
	}
	return o.Filename
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{SourceType: o.SourceType, Filename: o.Filename}
}

var knownOptions = []string{"presets", "plugins", "filename", "sourceType", "sourceMaps", "ast"}

// OptionsFromMap reads a Babel-style options object, as decoded from JSON or
// YAML. Preset and plugin entries are either a name or a [name, options]
// pair.
func OptionsFromMap(m map[string]any) (Options, error) {
	var opts Options
	for key := range m {
		if !slices.Contains(knownOptions, key) {
			return opts, &OptionError{Field: key, Message: fmt.Sprintf("unknown option, expected one of %v", knownOptions)}
		}
	}

	var err error
	if opts.Presets, err = itemsFromValue("presets", m["presets"]); err != nil {
		return opts, err
	}
	if opts.Plugins, err = itemsFromValue("plugins", m["plugins"]); err != nil {
		return opts, err
	}
	if opts.Filename, err = stringOption(m, "filename"); err != nil {
		return opts, err
	}
	if opts.SourceType, err = stringOption(m, "sourceType"); err != nil {
		return opts, err
	}
	if opts.SourceMaps, err = boolOption(m, "sourceMaps"); err != nil {
		return opts, err
	}
	if opts.AST, err = boolOption(m, "ast"); err != nil {
		return opts, err
	}
	return opts, nil
}

// DecodeOptions parses a JSON options object.
func DecodeOptions(data []byte) (Options, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Options{}, &OptionError{Field: "options", Message: "not a JSON object", Err: err}
	}
	return OptionsFromMap(m)
}

// ItemNames lists the names of items, for logs and metadata.
func ItemNames(items []Item) []string {
	return lo.Map(items, func(it Item, _ int) string { return it.Name })
}

func itemsFromValue(field string, v any) ([]Item, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &OptionError{Field: field, Message: fmt.Sprintf("expected a list, got %T", v)}
	}
	items := make([]Item, 0, len(list))
	for i, entry := range list {
		it, err := itemFromValue(entry)
		if err != nil {
			return nil, &OptionError{Field: fmt.Sprintf("%s[%d]", field, i), Message: err.Error()}
		}
		items = append(items, it)
	}
	return items, nil
}

func itemFromValue(v any) (Item, error) {
	switch e := v.(type) {
	case string:
		return registry.Named(e), nil
	case []any:
		if len(e) == 0 || len(e) > 2 {
			return Item{}, fmt.Errorf("expected [name] or [name, options], got %d elements", len(e))
		}
		name, ok := e[0].(string)
		if !ok {
			return Item{}, fmt.Errorf("name must be a string, got %T", e[0])
		}
		if len(e) == 1 || e[1] == nil {
			return registry.Named(name), nil
		}
		opts, ok := e[1].(map[string]any)
		if !ok {
			return Item{}, fmt.Errorf("options for %q must be an object, got %T", name, e[1])
		}
		return registry.Named(name, opts), nil
	}
	return Item{}, fmt.Errorf("expected a name or [name, options], got %T", v)
}

func stringOption(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &OptionError{Field: key, Message: fmt.Sprintf("expected a string, got %T", v)}
	}
	return s, nil
}

func boolOption(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &OptionError{Field: key, Message: fmt.Sprintf("expected a boolean, got %T", v)}
	}
	return b, nil
}
