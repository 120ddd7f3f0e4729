package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".scopefs.toml"), []byte(content), 0o644))
}

func TestLoadTOML_MissingFileReturnsNil(t *testing.T) {
	cfg, err := LoadTOML(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadTOML_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeTOML(t, dir, `
version = 1
exclude = ["**/node_modules/**"]

[sandbox]
root = "data"
max_file_size = "5MB"
follow_symlinks = true

[search]
max_results = 250
max_depth = 4
concurrency = 3
`)

	cfg, err := LoadTOML(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.Sandbox.Root)
	assert.Equal(t, int64(5*1024*1024), cfg.Sandbox.MaxFileSize)
	assert.True(t, cfg.Sandbox.FollowSymlinks)
	assert.Equal(t, 250, cfg.Search.MaxResults)
	assert.Equal(t, 4, cfg.Search.MaxDepth)
	assert.Equal(t, 3, cfg.Search.Concurrency)
	assert.Equal(t, []string{"**/node_modules/**"}, cfg.Exclude)
}

func TestLoadTOML_AbsentKeysKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	writeTOML(t, dir, `
[search]
max_results = 50
`)

	cfg, err := LoadTOML(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Sandbox.MaxFileSize)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
}

func TestLoadTOML_BadSize(t *testing.T) {
	dir := t.TempDir()
	writeTOML(t, dir, `
[sandbox]
max_file_size = "huge"
`)

	_, err := LoadTOML(dir)
	assert.Error(t, err)
}

func TestLoadTOML_BadSyntax(t *testing.T) {
	dir := t.TempDir()
	writeTOML(t, dir, `[sandbox`)

	_, err := LoadTOML(dir)
	assert.Error(t, err)
}
