// Package pathutil converts between absolute and relative paths.
//
// scopefs uses absolute paths internally for consistency; everything a
// client sees is relative to the sandbox root with forward slashes.
// This package is the conversion layer between the two representations.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root
// directory. Falls back to the original path if conversion fails or the
// path is already relative.
//
// Examples:
//   - ToRelative("/srv/data/src/main.go", "/srv/data") → "src/main.go"
//   - ToRelative("/other/file.go", "/srv/data") → "/other/file.go" (outside root)
//   - ToRelative("src/main.go", "/srv/data") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	// A ".." prefix means the file is outside the root; the absolute
	// path is clearer in that case.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToSlashRelative is ToRelative with separators normalized to forward
// slashes. Client-facing paths use this form on every platform.
func ToSlashRelative(absPath, rootDir string) string {
	rel := ToRelative(absPath, rootDir)
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
