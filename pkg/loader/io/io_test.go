package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/finkg/kgconv/pkg/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "company2id.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"AcmeCo": 0}`), 0o644))

	l := NewIOFileLoader()
	file := loader.NewJSONFile(loader.NewInputFileParams{ID: "company", FilePath: path, Loader: l})

	data, err := file.GetText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"AcmeCo": 0}`, string(data))

	// served from cache after the file is gone
	require.NoError(t, os.Remove(path))
	data, err = file.GetText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"AcmeCo": 0}`, string(data))
}

func TestIOFileLoaderMissing(t *testing.T) {
	l := NewIOFileLoader()
	file := loader.NewJSONFile(loader.NewInputFileParams{
		ID:       "missing",
		FilePath: filepath.Join(t.TempDir(), "nope.json"),
		Loader:   l,
	})

	_, err := file.GetText(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrNotFound)
}
