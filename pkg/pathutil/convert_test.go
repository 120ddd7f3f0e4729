package pathutil

import (
	"testing"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/srv/data/src/main.go",
			rootDir:  "/srv/data",
			expected: "src/main.go",
		},
		{
			name:     "nested relative path",
			absPath:  "/srv/data/a/b/c.txt",
			rootDir:  "/srv/data",
			expected: "a/b/c.txt",
		},
		{
			name:     "root level file",
			absPath:  "/srv/data/README.md",
			rootDir:  "/srv/data",
			expected: "README.md",
		},
		{
			name:     "same directory",
			absPath:  "/srv/data",
			rootDir:  "/srv/data",
			expected: ".",
		},
		{
			name:     "outside root stays absolute",
			absPath:  "/other/location/file.go",
			rootDir:  "/srv/data",
			expected: "/other/location/file.go",
		},
		{
			name:     "already relative",
			absPath:  "src/main.go",
			rootDir:  "/srv/data",
			expected: "src/main.go",
		},
		{
			name:     "empty path",
			absPath:  "",
			rootDir:  "/srv/data",
			expected: "",
		},
		{
			name:     "empty root",
			absPath:  "/srv/data/file.go",
			rootDir:  "",
			expected: "/srv/data/file.go",
		},
		{
			name:     "unclean inputs",
			absPath:  "/srv/data//src/./main.go",
			rootDir:  "/srv/data/",
			expected: "src/main.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRelative(tt.absPath, tt.rootDir)
			if got != tt.expected {
				t.Errorf("ToRelative(%q, %q) = %q, want %q", tt.absPath, tt.rootDir, got, tt.expected)
			}
		})
	}
}

func TestToSlashRelative(t *testing.T) {
	if got := ToSlashRelative("/srv/data/a/b.txt", "/srv/data"); got != "a/b.txt" {
		t.Errorf("expected a/b.txt, got %q", got)
	}

	// The root itself renders as the empty relative path.
	if got := ToSlashRelative("/srv/data", "/srv/data"); got != "" {
		t.Errorf("expected empty string for root, got %q", got)
	}
}
