package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommandText(t *testing.T) {
	out, err := execute(NewListCommand(&RootOptions{Format: "text"}))
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "es2015-no-commonjs")
	assert.Contains(t, out, "transform-react-jsx")
	assert.NotContains(t, out, "cue")
}

func TestListCommandPresetsDir(t *testing.T) {
	presets := writeTestFile(t, t.TempDir(), "presets.cue", `preset: arrows: plugins: ["transform-es2015-arrow-functions"]`)

	out, err := execute(NewListCommand(&RootOptions{Format: "json"}), "--presets-dir", presets)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   []ListEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, resp.Data, ListEntry{Kind: "preset", Name: "arrows", Source: "cue"})
	assert.Contains(t, resp.Data, ListEntry{Kind: "preset", Name: "react", Source: "builtin"})
	assert.Contains(t, resp.Data, ListEntry{Kind: "plugin", Name: "transform-strict-mode", Source: "builtin"})
	assert.Equal(t, "preset", resp.Data[0].Kind)
	assert.Equal(t, "plugin", resp.Data[len(resp.Data)-1].Kind)
}

func TestListCommandRejectsArgs(t *testing.T) {
	_, err := execute(NewListCommand(&RootOptions{Format: "text"}), "extra")
	require.Error(t, err)
}
