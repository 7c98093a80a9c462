// Package config loads compiler options from files: Babel-style .babelrc
// JSON (comments and trailing commas allowed) and CUE preset definitions.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/roach88/babelgo/internal/babel"
)

// BabelrcNames are the option file names FindBabelrc looks for, in order.
var BabelrcNames = []string{".babelrc", ".babelrc.json", "babel.config.json"}

// LoadBabelrc reads an options file. Comments and trailing commas are
// accepted.
func LoadBabelrc(path string) (babel.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return babel.Options{}, fmt.Errorf("failed to read options file: %w", err)
	}
	return ParseBabelrc(path, data)
}

// ParseBabelrc parses the contents of an options file. path is used in
// error messages.
func ParseBabelrc(path string, data []byte) (babel.Options, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return babel.Options{}, fmt.Errorf("%s: %w", path, err)
	}
	var m map[string]any
	if err := json.Unmarshal(std, &m); err != nil {
		return babel.Options{}, fmt.Errorf("%s: options must be a JSON object: %w", path, err)
	}
	opts, err := babel.OptionsFromMap(m)
	if err != nil {
		return babel.Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// FindBabelrc returns the nearest options file in dir or one of its
// parents, or "" when there is none.
func FindBabelrc(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range BabelrcNames {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Merge layers override on top of base. Presets and plugins are
// concatenated, base first; other fields are taken from override when set.
func Merge(base, override babel.Options) babel.Options {
	out := base
	out.Presets = append(append([]babel.Item{}, base.Presets...), override.Presets...)
	out.Plugins = append(append([]babel.Item{}, base.Plugins...), override.Plugins...)
	if override.Filename != "" {
		out.Filename = override.Filename
	}
	if override.SourceType != "" {
		out.SourceType = override.SourceType
	}
	out.SourceMaps = base.SourceMaps || override.SourceMaps
	out.AST = base.AST || override.AST
	return out
}
