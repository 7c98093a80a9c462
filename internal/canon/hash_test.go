package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIDDeterminism(t *testing.T) {
	opts := map[string]any{"presets": []any{"es2015"}}

	id1, err := CheckID("standalone", "es2015", "const x = 1", opts)
	require.NoError(t, err)
	id2, err := CheckID("standalone", "es2015", "const x = 1", map[string]any{"presets": []any{"es2015"}})
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestCheckIDChangesWithInput(t *testing.T) {
	base := MustCheckID("s", "c", "1", nil)

	assert.NotEqual(t, base, MustCheckID("s2", "c", "1", nil))
	assert.NotEqual(t, base, MustCheckID("s", "c2", "1", nil))
	assert.NotEqual(t, base, MustCheckID("s", "c", "2", nil))
	assert.NotEqual(t, base, MustCheckID("s", "c", "1", map[string]any{"plugins": []any{"x"}}))
}

func TestHashDomainSeparation(t *testing.T) {
	a, err := Hash(DomainAST, "x")
	require.NoError(t, err)
	b, err := Hash(DomainOptions, "x")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestArtifactHash(t *testing.T) {
	assert.Equal(t, ArtifactHash("var a;"), ArtifactHash("var a;"))
	assert.NotEqual(t, ArtifactHash("var a;"), ArtifactHash("var b;"))
}
