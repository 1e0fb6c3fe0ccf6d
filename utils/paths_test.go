package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "events.csv"),
		DeriveOutputPath(filepath.Join("data", "events.parquet"), "out", ".csv"))

	// Without a destination the output lands next to the source.
	assert.Equal(t, filepath.Join("data", "events.jsonl"),
		DeriveOutputPath(filepath.Join("data", "events.parquet"), "", ".jsonl"))

	assert.Equal(t, filepath.Join("out", "no_ext.arrow"),
		DeriveOutputPath("no_ext", "out", ".arrow"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureDir(""))
	assert.NoError(t, EnsureDir(dir)) // already exists
}

func TestFileSizeMB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024*1024), 0o644))

	assert.InDelta(t, 1.0, FileSizeMB(path), 0.001)
	assert.Zero(t, FileSizeMB(filepath.Join(t.TempDir(), "missing")))
}
