package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by every backend when a path is absent
var ErrNotExist = errors.New("fsx: file does not exist")

// FileSystem abstracts the blob store résumés are written to. Paths are
// slash-separated and relative to the backend root.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	// DeleteFile succeeds when the path is already absent
	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Join(elem ...string) string
}
