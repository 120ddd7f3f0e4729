package query

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	scoperr "github.com/standardbeagle/scopefs/internal/errors"
	"github.com/standardbeagle/scopefs/internal/glob"
)

// searchFrame is one directory being traversed. The explicit stack keeps
// traversal order identical to naive recursion (each entry is visited,
// and a subdirectory is fully explored before its later siblings)
// without growing the call stack on deep trees.
type searchFrame struct {
	abs     string
	rel     string // slash-separated, relative to the sandbox root
	entries []os.DirEntry
	next    int
	depth   int
}

// Search walks the tree under a directory depth-first and returns the
// non-directory entries whose filename matches the wildcard pattern.
// Directories are descended into but never matched. Excluded paths are
// neither matched nor descended into. Traversal stops early once the
// configured result cap is reached, with Truncated set.
func (e *Engine) Search(ctx context.Context, rel, pattern string) (*SearchReport, error) {
	abs, err := e.resolver.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scoperr.NewNotFoundError(OpSearch, displayPath(rel))
		}
		return nil, scoperr.NewIOError(OpSearch, displayPath(rel), err)
	}
	if !info.IsDir() {
		return nil, scoperr.NewNotADirectoryError(OpSearch, displayPath(rel))
	}

	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, scoperr.NewIOError(OpSearch, displayPath(rel), err)
	}

	report := &SearchReport{Pattern: pattern, Found: []SearchResult{}}

	baseEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, scoperr.NewIOError(OpSearch, displayPath(rel), err)
	}

	baseRel := path.Clean("/" + filepath.ToSlash(rel))[1:]
	stack := []*searchFrame{{abs: abs, rel: baseRel, entries: baseEntries}}

	maxResults := e.cfg.Search.MaxResults
	maxDepth := e.cfg.Search.MaxDepth

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		if frame.next >= len(frame.entries) {
			stack = stack[:len(stack)-1]
			continue
		}

		entry := frame.entries[frame.next]
		frame.next++

		childRel := path.Join(frame.rel, entry.Name())
		if e.isExcluded(childRel) {
			continue
		}

		if !entry.IsDir() {
			if !matcher.Match(entry.Name()) {
				continue
			}
			entryInfo, err := entry.Info()
			if err != nil {
				// The entry vanished mid-walk. Skip it.
				continue
			}
			if len(report.Found) >= maxResults {
				report.Truncated = true
				return report, nil
			}
			report.Found = append(report.Found, SearchResult{
				RelativePath: childRel,
				SizeBytes:    entryInfo.Size(),
				ModifiedAt:   entryInfo.ModTime(),
			})
			continue
		}
		if maxDepth > 0 && frame.depth+1 >= maxDepth {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		childAbs := filepath.Join(frame.abs, entry.Name())
		childEntries, err := os.ReadDir(childAbs)
		if err != nil {
			// Unreadable subdirectories are skipped, not fatal.
			continue
		}
		stack = append(stack, &searchFrame{
			abs:     childAbs,
			rel:     childRel,
			entries: childEntries,
			depth:   frame.depth + 1,
		})
	}

	return report, nil
}

func (e *Engine) isExcluded(rel string) bool {
	for _, pattern := range e.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
