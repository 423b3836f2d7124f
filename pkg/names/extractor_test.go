package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorFor(t *testing.T) {
	fn, err := ExtractorFor("institution")
	require.NoError(t, err)
	assert.Equal(t, []string{"vanguard"}, fn([]any{map[string]any{"Holder": " Vanguard "}}))

	_, err = ExtractorFor("planet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fund institution officer")
	assert.Equal(t, []string{"fund", "institution", "officer"}, Kinds())
}
