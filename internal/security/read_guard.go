package security

import (
	"os"

	scoperr "github.com/standardbeagle/scopefs/internal/errors"
)

// ReadGuard enforces the file-size ceiling on reads. The size check runs
// against metadata before any content is loaded, so an oversized file is
// rejected without allocating a buffer for it.
type ReadGuard struct {
	maxFileSize int64
}

// NewReadGuard creates a guard with the given maximum readable file size
// in bytes.
func NewReadGuard(maxFileSize int64) *ReadGuard {
	return &ReadGuard{maxFileSize: maxFileSize}
}

// MaxFileSize returns the configured ceiling in bytes.
func (g *ReadGuard) MaxFileSize() int64 {
	return g.maxFileSize
}

// CheckRead stats abs and verifies it is a regular file no larger than
// the limit. rel is the client-facing relative path used in errors. The
// returned FileInfo lets callers avoid a second stat. A file exactly at
// the limit passes.
func (g *ReadGuard) CheckRead(op, rel, abs string) (os.FileInfo, error) {
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scoperr.NewNotFoundError(op, rel)
		}
		return nil, scoperr.NewIOError(op, rel, err)
	}
	if info.IsDir() {
		return nil, scoperr.NewNotAFileError(op, rel)
	}
	if !info.Mode().IsRegular() {
		return nil, scoperr.NewNotAFileError(op, rel)
	}
	if info.Size() > g.maxFileSize {
		return nil, scoperr.NewFileTooLargeError(op, rel, info.Size(), g.maxFileSize)
	}
	return info, nil
}
