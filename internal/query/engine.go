// Package query implements the read-only filesystem operations exposed
// to clients: directory listing, bounded file reads, recursive wildcard
// search, and metadata lookup. All paths in and out are relative to the
// sandbox root; confinement is enforced before any I/O happens.
package query

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scopefs/internal/config"
	scoperr "github.com/standardbeagle/scopefs/internal/errors"
	"github.com/standardbeagle/scopefs/internal/security"
)

// Engine executes queries against the sandbox. Safe for concurrent use;
// all state is fixed at construction.
type Engine struct {
	cfg      *config.Config
	resolver *security.Resolver
	guard    *security.ReadGuard
	excludes []string
}

// NewEngine builds an engine from validated configuration. The sandbox
// root must exist; exclusion patterns are checked up front so a bad
// pattern fails loudly instead of silently matching nothing.
func NewEngine(cfg *config.Config) (*Engine, error) {
	resolver, err := security.NewResolver(cfg.Sandbox.Root, cfg.Sandbox.FollowSymlinks)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolver.Root())
	if err != nil {
		return nil, fmt.Errorf("sandbox root %s: %w", cfg.Sandbox.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root %s is not a directory", cfg.Sandbox.Root)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		guard:    security.NewReadGuard(cfg.Sandbox.MaxFileSize),
		excludes: cfg.Exclude,
	}, nil
}

// Root returns the absolute sandbox root.
func (e *Engine) Root() string {
	return e.resolver.Root()
}

// List returns the immediate children of a directory in filename order.
// Per-entry metadata (size, modification time) is gathered with a
// bounded number of concurrent stat calls; entries whose stat fails are
// still listed, without metadata.
func (e *Engine) List(ctx context.Context, rel string) (*DirListing, error) {
	abs, err := e.resolver.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scoperr.NewNotFoundError(OpList, displayPath(rel))
		}
		return nil, scoperr.NewIOError(OpList, displayPath(rel), err)
	}
	if !info.IsDir() {
		return nil, scoperr.NewNotADirectoryError(OpList, displayPath(rel))
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, scoperr.NewIOError(OpList, displayPath(rel), err)
	}

	items := make([]DirEntry, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, e.cfg.Search.Concurrency))
	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := DirEntry{Name: entry.Name(), Type: entryKind(entry.Type())}
			if fi, err := entry.Info(); err == nil {
				item.ModifiedAt = fi.ModTime()
				if entry.Type().IsRegular() {
					item.SizeBytes = fi.Size()
				}
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ReadDir sorts by filename already; keep the guarantee explicit.
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return &DirListing{Path: displayPath(rel), Items: items}, nil
}

// ReadFile returns the full content of a regular file. The size ceiling
// is checked against metadata before the content is loaded; a file
// exactly at the limit is readable.
func (e *Engine) ReadFile(ctx context.Context, rel string) (*FileContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := e.resolver.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := e.guard.CheckRead(OpRead, displayPath(rel), abs)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, scoperr.NewIOError(OpRead, displayPath(rel), err)
	}

	return &FileContent{
		Path:      displayPath(rel),
		SizeBytes: info.Size(),
		Content:   string(data),
	}, nil
}

// Stat returns metadata for a file or directory without reading content.
func (e *Engine) Stat(ctx context.Context, rel string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := e.resolver.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scoperr.NewNotFoundError(OpStat, displayPath(rel))
		}
		return nil, scoperr.NewIOError(OpStat, displayPath(rel), err)
	}

	created, accessed := statTimes(info)

	return &FileInfo{
		RelativePath: displayPath(rel),
		Type:         entryKind(info.Mode()),
		SizeBytes:    info.Size(),
		CreatedAt:    created,
		ModifiedAt:   info.ModTime(),
		AccessedAt:   accessed,
		Permissions:  fmt.Sprintf("%03o", info.Mode().Perm()),
	}, nil
}

func entryKind(mode os.FileMode) string {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// displayPath normalizes the client-facing form of a relative path. The
// root itself reads better as "." than as the empty string.
func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
