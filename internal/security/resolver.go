package security

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	scoperr "github.com/standardbeagle/scopefs/internal/errors"
)

// Resolver confines client-supplied relative paths to a fixed root
// directory. Every filesystem call elsewhere in the system goes through
// Resolve; raw client input is never handed to the OS.
//
// Normalization happens BEFORE the traversal check. A naive substring
// check on the raw input is bypassable with inputs like "a/../../etc",
// so the check runs on the cleaned form only.
type Resolver struct {
	root           string // absolute, cleaned
	realRoot       string // root with symlinks resolved, for escape checks
	followSymlinks bool
}

// NewResolver creates a resolver rooted at root. The root is fixed for
// the resolver's lifetime; relative or messy inputs are made absolute.
func NewResolver(root string, followSymlinks bool) (*Resolver, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}
	absRoot = filepath.Clean(absRoot)

	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	return &Resolver{
		root:           absRoot,
		realRoot:       realRoot,
		followSymlinks: followSymlinks,
	}, nil
}

// Root returns the absolute root directory all queries are confined to.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve validates a client-supplied relative path and returns the
// absolute path beneath the root. The empty string resolves to the root
// itself. Fails with an invalid-path error when the input is absolute,
// contains a parent-traversal segment after normalization, or (with
// symlink following disabled) points through a symlink that leaves the
// root.
func (r *Resolver) Resolve(rel string) (string, error) {
	if strings.ContainsRune(rel, 0) {
		return "", scoperr.NewPathError(rel, "path contains a NUL byte")
	}

	// Normalize separators first so traversal spelled with backslashes
	// is caught on every platform.
	normalized := strings.ReplaceAll(rel, "\\", "/")
	if path.IsAbs(normalized) || filepath.IsAbs(rel) || hasVolumePrefix(normalized) {
		return "", scoperr.NewPathError(rel, "absolute paths are not allowed")
	}

	clean := path.Clean(normalized)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", scoperr.NewPathError(rel, "path escapes the root directory")
	}

	resolved := r.root
	if clean != "." {
		resolved = filepath.Join(r.root, filepath.FromSlash(clean))
	}

	if !r.followSymlinks {
		if err := r.checkSymlinkEscape(rel, resolved); err != nil {
			return "", err
		}
	}

	return resolved, nil
}

// checkSymlinkEscape verifies that the real path of resolved (or, when it
// does not exist yet, of its nearest existing ancestor) still lies under
// the real root. A symlink inside the root pointing outside it would
// otherwise be followed silently by later I/O calls.
func (r *Resolver) checkSymlinkEscape(rel, resolved string) error {
	probe := resolved
	for {
		real, err := filepath.EvalSymlinks(probe)
		if err == nil {
			if !r.underRealRoot(real) {
				return scoperr.NewPathError(rel, "path escapes the root directory via a symlink")
			}
			return nil
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			// Walked off the top without finding an existing ancestor.
			return scoperr.NewPathError(rel, "path cannot be validated against the root")
		}
		probe = parent
	}
}

func (r *Resolver) underRealRoot(p string) bool {
	return p == r.realRoot || strings.HasPrefix(p, r.realRoot+string(filepath.Separator))
}

// hasVolumePrefix reports Windows-style drive inputs like "C:/x" which
// filepath.IsAbs misses when running on other platforms.
func hasVolumePrefix(p string) bool {
	if len(p) < 2 {
		return false
	}
	ch := p[0]
	isLetter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
	return isLetter && p[1] == ':'
}
