package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<script type="text/babel" data-plugins="transform-es2015-arrow-functions">const f = () => 1</script>
</body></html>`

func TestHTMLCommand(t *testing.T) {
	file := writeTestFile(t, t.TempDir(), "index.html", page)

	out, err := execute(NewHTMLCommand(&RootOptions{Format: "text"}), file)
	require.NoError(t, err)
	assert.Contains(t, out, `<script type="text/javascript">const f = function () {`)
	assert.NotContains(t, out, "text/babel")
}

func TestHTMLCommandExternalScript(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "js/app.jsx", "const el = <b/>")
	file := writeTestFile(t, dir, "index.html", `<script type="text/babel" data-presets="react" src="js/app.jsx"></script>`)

	out, err := execute(NewHTMLCommand(&RootOptions{Format: "text"}), file)
	require.NoError(t, err)
	assert.Contains(t, out, `React.createElement("b", null)`)
	assert.NotContains(t, out, "src=")
}

func TestHTMLCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "index.html", page)
	outFile := filepath.Join(dir, "dist", "index.html")

	out, err := execute(NewHTMLCommand(&RootOptions{Format: "json"}), file, "-o", outFile)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "const f = function () {")
}

func TestHTMLCommandScriptError(t *testing.T) {
	file := writeTestFile(t, t.TempDir(), "index.html",
		`<script type="text/babel" data-presets="lolfail">var a</script>`)

	out, err := execute(NewHTMLCommand(&RootOptions{Format: "text"}), file)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Inline Babel script")
	assert.Contains(t, out, `Invalid preset specified in Babel options: "lolfail"`)
}

func TestHTMLCommandMissingFile(t *testing.T) {
	out, err := execute(NewHTMLCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.Contains(t, out, "failed to read page")
}
