package security

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scoperr "github.com/standardbeagle/scopefs/internal/errors"
)

func newTestResolver(t *testing.T, followSymlinks bool) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	r, err := NewResolver(root, followSymlinks)
	require.NoError(t, err)
	return r, r.Root()
}

func TestResolveValidPaths(t *testing.T) {
	r, root := newTestResolver(t, false)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty resolves to root", "", root},
		{"dot resolves to root", ".", root},
		{"plain file", "notes.txt", filepath.Join(root, "notes.txt")},
		{"nested path", "a/b/c.go", filepath.Join(root, "a", "b", "c.go")},
		{"internal dotdot that stays inside", "a/b/../c", filepath.Join(root, "a", "c")},
		{"redundant separators", "a//b/./c", filepath.Join(root, "a", "b", "c")},
		{"trailing slash", "a/b/", filepath.Join(root, "a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	r, _ := newTestResolver(t, false)

	tests := []struct {
		name  string
		input string
	}{
		{"bare dotdot", ".."},
		{"leading dotdot", "../etc/passwd"},
		{"dotdot after normalization", "a/../../x"},
		{"deep dotdot chain", "a/b/../../../x"},
		{"absolute path", "/etc/passwd"},
		{"backslash traversal", `..\..\windows`},
		{"drive letter", `C:/Windows/system32`},
		{"nul byte", "a\x00b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.input)
			require.Error(t, err)
			assert.True(t, scoperr.IsInvalidPath(err), "expected invalid-path error, got %v", err)
		})
	}
}

func TestResolveIsIdempotentOnNormalizedInput(t *testing.T) {
	r, _ := newTestResolver(t, false)

	abs1, err := r.Resolve("a/b/../c/d.txt")
	require.NoError(t, err)
	abs2, err := r.Resolve("a/c/d.txt")
	require.NoError(t, err)
	assert.Equal(t, abs1, abs2)
}

func TestResolveNonexistentPathValidatesAncestor(t *testing.T) {
	r, root := newTestResolver(t, false)

	// Nothing under root exists yet; the nearest existing ancestor is
	// the root itself, which trivially passes.
	got, err := r.Resolve("does/not/exist.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "does", "not", "exist.txt"), got)
}

func TestResolveSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevation on windows")
	}

	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o600))

	root := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "leak")))

	strict, err := NewResolver(root, false)
	require.NoError(t, err)

	_, err = strict.Resolve("leak/secret.txt")
	require.Error(t, err)
	assert.True(t, scoperr.IsInvalidPath(err))

	// With symlink following enabled the same input is accepted.
	permissive, err := NewResolver(root, true)
	require.NoError(t, err)
	_, err = permissive.Resolve("leak/secret.txt")
	assert.NoError(t, err)
}

func TestResolveSymlinkInsideRootAllowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevation on windows")
	}

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real", "f.txt"), []byte("x"), 0o600))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	r, err := NewResolver(root, false)
	require.NoError(t, err)

	_, err = r.Resolve("alias/f.txt")
	assert.NoError(t, err)
}
