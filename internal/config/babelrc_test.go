package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/registry"
)

func TestParseBabelrc_CommentsAndTrailingCommas(t *testing.T) {
	opts, err := ParseBabelrc(".babelrc", []byte(`{
		// compile for old browsers
		"presets": [["es2015", {"modules": false}], "react",],
		"plugins": ["transform-exponentiation-operator"],
		"sourceMaps": true,
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"es2015", "react"}, babel.ItemNames(opts.Presets))
	assert.Equal(t, map[string]any{"modules": false}, opts.Presets[0].Options)
	assert.Equal(t, []string{"transform-exponentiation-operator"}, babel.ItemNames(opts.Plugins))
	assert.True(t, opts.SourceMaps)
}

func TestParseBabelrc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"malformed", `{"presets": [`, ".babelrc:"},
		{"not an object", `["es2015"]`, "options must be a JSON object"},
		{"unknown option", `{"preset": ["es2015"]}`, "invalid option preset"},
		{"bad item", `{"plugins": [42]}`, "plugins[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBabelrc(".babelrc", []byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindBabelrc_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0755))
	rc := filepath.Join(root, ".babelrc")
	require.NoError(t, os.WriteFile(rc, []byte(`{}`), 0644))

	found, err := FindBabelrc(nested)
	require.NoError(t, err)
	assert.Equal(t, rc, found)
}

func TestFindBabelrc_PrefersNearest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".babelrc"), []byte(`{}`), 0644))
	near := filepath.Join(nested, "babel.config.json")
	require.NoError(t, os.WriteFile(near, []byte(`{}`), 0644))

	found, err := FindBabelrc(nested)
	require.NoError(t, err)
	assert.Equal(t, near, found)
}

func TestLoadBabelrc_MissingFile(t *testing.T) {
	_, err := LoadBabelrc(filepath.Join(t.TempDir(), ".babelrc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read options file")
}

func TestMerge(t *testing.T) {
	base := babel.Options{
		Presets:  []babel.Item{registry.Named("es2015")},
		Plugins:  []babel.Item{registry.Named("a")},
		Filename: "from-file.js",
	}
	override := babel.Options{
		Presets:    []babel.Item{registry.Named("react")},
		SourceType: "script",
		SourceMaps: true,
	}

	got := Merge(base, override)
	assert.Equal(t, []string{"es2015", "react"}, babel.ItemNames(got.Presets))
	assert.Equal(t, []string{"a"}, babel.ItemNames(got.Plugins))
	assert.Equal(t, "from-file.js", got.Filename)
	assert.Equal(t, "script", got.SourceType)
	assert.True(t, got.SourceMaps)
	assert.Len(t, base.Presets, 1)
}
