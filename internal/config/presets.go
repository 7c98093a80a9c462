package config

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/roach88/babelgo/internal/babel"
)

// PresetSpec is a preset defined in a CUE file:
//
//	preset: "my-react": {
//		presets: ["react"]
//		plugins: [
//			"transform-es2015-arrow-functions",
//			["transform-es2015-template-literals", {spec: true}],
//		]
//	}
type PresetSpec struct {
	Name    string
	Presets []babel.Item
	Plugins []babel.Item
	Pos     token.Pos
}

// Factory returns a preset factory that expands to the spec's items. The
// preset itself takes no options.
func (p PresetSpec) Factory() babel.PresetFactory {
	return func(map[string]any) (*babel.PresetDef, error) {
		return &babel.PresetDef{
			Presets: slices.Clone(p.Presets),
			Plugins: slices.Clone(p.Plugins),
		}, nil
	}
}

// Register adds every spec to b as a preset.
func Register(b *babel.Babel, specs []PresetSpec) {
	for _, p := range specs {
		b.RegisterPreset(p.Name, p.Factory())
	}
}

// LoadPresets compiles every *.cue file in dir, or the single file dir
// names, into preset specs sorted by name. Duplicate names and presets that
// reference each other in a cycle are errors.
func LoadPresets(path string) ([]PresetSpec, error) {
	files, err := cueFiles(path)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	var specs []PresetSpec
	seen := map[string]PresetSpec{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read preset file: %w", err)
		}
		v := ctx.CompileBytes(data, cue.Filename(file))
		fileSpecs, err := CompilePresets(v)
		if err != nil {
			return nil, err
		}
		for _, p := range fileSpecs {
			if prev, dup := seen[p.Name]; dup {
				return nil, &CompileError{
					Field:   "preset." + p.Name,
					Message: fmt.Sprintf("already defined at %s", prev.Pos),
					Pos:     p.Pos,
				}
			}
			seen[p.Name] = p
			specs = append(specs, p)
		}
	}

	slices.SortFunc(specs, func(a, b PresetSpec) int { return cmp.Compare(a.Name, b.Name) })
	if cycles := AnalyzeCycles(specs); len(cycles) > 0 {
		return nil, cycles[0]
	}
	return specs, nil
}

func cueFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.cue"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", path)
	}
	slices.Sort(files)
	return files, nil
}

// CompilePresets reads the preset definitions under the top-level "preset"
// field of v. A value without that field defines no presets.
func CompilePresets(v cue.Value) ([]PresetSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	presetsVal := v.LookupPath(cue.ParsePath("preset"))
	if !presetsVal.Exists() {
		return nil, nil
	}

	iter, err := presetsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var specs []PresetSpec
	for iter.Next() {
		spec, err := CompilePreset(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// CompilePreset parses one preset definition.
func CompilePreset(name string, v cue.Value) (PresetSpec, error) {
	spec := PresetSpec{Name: name, Pos: v.Pos()}
	field := "preset." + name
	if err := v.Err(); err != nil {
		return spec, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return spec, &CompileError{Field: field, Message: "must be a struct with presets and plugins", Pos: v.Pos()}
	}

	iter, err := v.Fields()
	if err != nil {
		return spec, formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		if label != "presets" && label != "plugins" {
			return spec, &CompileError{
				Field:   field + "." + label,
				Message: "unknown field, expected presets or plugins",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	if spec.Presets, err = compileItems(field+".presets", v.LookupPath(cue.ParsePath("presets"))); err != nil {
		return spec, err
	}
	if spec.Plugins, err = compileItems(field+".plugins", v.LookupPath(cue.ParsePath("plugins"))); err != nil {
		return spec, err
	}
	if len(spec.Presets) == 0 && len(spec.Plugins) == 0 {
		return spec, &CompileError{Field: field, Message: "at least one preset or plugin is required", Pos: v.Pos()}
	}
	return spec, nil
}

// compileItems reads a list of "name" or ["name", {options}] entries.
func compileItems(field string, v cue.Value) ([]babel.Item, error) {
	if !v.Exists() {
		return nil, nil
	}
	if v.Kind() != cue.ListKind {
		return nil, &CompileError{Field: field, Message: "must be a list", Pos: v.Pos()}
	}

	list, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var items []babel.Item
	for i := 0; list.Next(); i++ {
		elem := list.Value()
		elemField := fmt.Sprintf("%s[%d]", field, i)
		var raw any
		if err := elem.Decode(&raw); err != nil {
			return nil, formatCUEError(err)
		}
		opts, err := babel.OptionsFromMap(map[string]any{"plugins": []any{raw}})
		if err != nil {
			return nil, &CompileError{
				Field:   elemField,
				Message: `must be "name" or ["name", {options}]`,
				Pos:     elem.Pos(),
			}
		}
		items = append(items, opts.Plugins...)
	}
	return items, nil
}
