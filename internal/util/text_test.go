package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name", input: "vanguard group inc", want: "vanguard group inc"},
		{name: "null byte", input: "acme\x00co", want: "acmeco"},
		{name: "invalid utf8", input: string([]byte{'a', 0xff, 'b'}), want: "ab"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePostgresText(tt.input))
		})
	}
}

func TestSanitizePostgresTextPtr(t *testing.T) {
	assert.Nil(t, SanitizePostgresTextPtr(nil))

	in := "jane\x00 smith|1961"
	got := SanitizePostgresTextPtr(&in)
	if assert.NotNil(t, got) {
		assert.Equal(t, "jane smith|1961", *got)
	}
}
