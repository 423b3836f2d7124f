package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("KGCONV_TEST_BOOL", "true")
	t.Setenv("KGCONV_TEST_BAD_BOOL", "yes")
	t.Setenv("KGCONV_TEST_NUM", "8")
	t.Setenv("KGCONV_TEST_EMPTY", "")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"bool set", GetEnvBool("KGCONV_TEST_BOOL", false), true},
		{"bool invalid", GetEnvBool("KGCONV_TEST_BAD_BOOL", false), false},
		{"bool unset", GetEnvBool("KGCONV_TEST_UNSET", true), true},
		{"numeric", GetEnvNumeric("KGCONV_TEST_NUM", 4), 8},
		{"numeric unset", GetEnvNumeric("KGCONV_TEST_UNSET", 4), 4},
		{"string empty uses default", GetEnvString("KGCONV_TEST_EMPTY", "fs"), "fs"},
		{"path default", GetEnvPath("KGCONV_TEST_UNSET", "data", "rdf"), filepath.Join("data", "rdf")},
		{"path override", GetEnvPath("KGCONV_TEST_NUM", "data", "rdf"), "8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestNewRunID(t *testing.T) {
	id, err := NewRunID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-z]{12}$`), id)

	other, err := NewRunID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileFuncKeepsOldContentOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFile(path, []byte("keep")))

	err := WriteFileFunc(path, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return errors.New("render failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}
