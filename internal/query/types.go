package query

import "time"

// Entry kinds reported by List and Stat.
const (
	KindFile      = "file"
	KindDirectory = "directory"
	KindOther     = "other"
)

// Operation names used in error messages and diagnostics.
const (
	OpList   = "list_directory"
	OpRead   = "read_file"
	OpSearch = "search_files"
	OpStat   = "get_file_info"
)

// DirEntry is one item in a directory listing.
type DirEntry struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	SizeBytes  int64     `json:"sizeBytes,omitempty"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// DirListing is the result of List: the listed directory's root-relative
// path and its immediate children in filename order.
type DirListing struct {
	Path  string     `json:"path"`
	Items []DirEntry `json:"items"`
}

// FileContent is the result of ReadFile.
type FileContent struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
	Content   string `json:"content"`
}

// SearchResult is one matching file found during traversal. The path is
// relative to the sandbox root, slash-separated.
type SearchResult struct {
	RelativePath string    `json:"relativePath"`
	SizeBytes    int64     `json:"sizeBytes"`
	ModifiedAt   time.Time `json:"modifiedAt"`
}

// SearchReport is the result of Search. Found holds matches in traversal
// order. Truncated is set when the result cap was hit and matches beyond
// it were dropped.
type SearchReport struct {
	Pattern   string         `json:"pattern"`
	Found     []SearchResult `json:"found"`
	Truncated bool           `json:"truncated,omitempty"`
}

// FileInfo is the result of Stat. Timestamps that the platform does not
// track fall back to the modification time.
type FileInfo struct {
	RelativePath string    `json:"relativePath"`
	Type         string    `json:"type"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `json:"createdAt"`
	ModifiedAt   time.Time `json:"modifiedAt"`
	AccessedAt   time.Time `json:"accessedAt"`
	Permissions  string    `json:"permissions"`
}
