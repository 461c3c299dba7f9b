package fsxgcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/youssef9656/server/pkg/fsx"
)

// GCSFileSystem stores files in a Google Cloud Storage bucket
type GCSFileSystem struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSFileSystem(client *storage.Client, bucket, prefix string) *GCSFileSystem {
	return &GCSFileSystem{client: client, bucket: bucket, prefix: prefix}
}

func (g *GCSFileSystem) object(p string) *storage.ObjectHandle {
	name := path.Join(g.prefix, path.Clean("/"+p)[1:])
	return g.client.Bucket(g.bucket).Object(name)
}

func (g *GCSFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	rc, err := g.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (g *GCSFileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	r, err := g.object(p).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fsx.ErrNotExist
		}
		return nil, fmt.Errorf("open object %s: %w", p, err)
	}
	return r, nil
}

func (g *GCSFileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	wc := g.object(p).NewWriter(ctx)
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		wc.Close()
		return fmt.Errorf("copy to object %s: %w", p, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close object writer %s: %w", p, err)
	}
	return nil
}

func (g *GCSFileSystem) DeleteFile(ctx context.Context, p string) error {
	if err := g.object(p).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", p, err)
	}
	return nil
}

func (g *GCSFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := g.object(p).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", p, err)
	}
	return true, nil
}

func (g *GCSFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}
