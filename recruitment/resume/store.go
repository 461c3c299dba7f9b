package resume

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/fsx"
	"github.com/youssef9656/server/pkg/kernel"
)

// Store keeps résumé files under UploadDir of a FileSystem
type Store struct {
	fs       fsx.FileSystem
	renderer PreviewRenderer
	now      func() time.Time
}

func NewStore(fs fsx.FileSystem, renderer PreviewRenderer) *Store {
	return &Store{
		fs:       fs,
		renderer: renderer,
		now:      time.Now,
	}
}

func (s *Store) path(name kernel.FileName) string {
	return s.fs.Join(UploadDir, string(name))
}

// Attach writes an already validated upload under a generated name
func (s *Store) Attach(ctx context.Context, u *Upload) (*Attachment, error) {
	name := GenerateName(u.FileName, s.now())
	p, err := s.Save(ctx, u.Data, name)
	if err != nil {
		return nil, err
	}
	return &Attachment{
		FileName:     name,
		Path:         p,
		OriginalName: baseName(u.FileName),
		Size:         u.Size,
		MimeType:     normalizeMime(u.ContentType),
	}, nil
}

func (s *Store) Save(ctx context.Context, data []byte, name kernel.FileName) (string, error) {
	p := s.path(name)
	if err := s.fs.WriteFile(ctx, p, data); err != nil {
		return "", errx.Wrap(err, "failed to store résumé", errx.TypeExternal).WithDetail("path", p)
	}
	return p, nil
}

// Delete is idempotent
func (s *Store) Delete(ctx context.Context, name kernel.FileName) error {
	if name.IsEmpty() {
		return nil
	}
	if err := s.fs.DeleteFile(ctx, s.path(name)); err != nil {
		return errx.Wrap(err, "failed to delete résumé", errx.TypeExternal).WithDetail("file", name)
	}
	return nil
}

// Resolve sanitizes a requested name and checks the file exists
func (s *Store) Resolve(ctx context.Context, requested string) (kernel.FileName, error) {
	name, err := SanitizeName(requested)
	if err != nil {
		return "", err
	}
	ok, err := s.fs.Exists(ctx, s.path(name))
	if err != nil {
		return "", errx.Wrap(err, "failed to stat résumé", errx.TypeExternal)
	}
	if !ok {
		return "", ErrFileNotFound().WithDetail("filename", string(name))
	}
	return name, nil
}

func (s *Store) Open(ctx context.Context, name kernel.FileName) (io.ReadCloser, error) {
	rc, err := s.fs.ReadFileStream(ctx, s.path(name))
	if err != nil {
		if errors.Is(err, fsx.ErrNotExist) {
			return nil, ErrFileNotFound().WithDetail("filename", string(name))
		}
		return nil, errx.Wrap(err, "failed to open résumé", errx.TypeExternal)
	}
	return rc, nil
}

// Preview renders the first page of a stored PDF résumé as JPEG
func (s *Store) Preview(ctx context.Context, requested string) ([]byte, error) {
	name, err := s.Resolve(ctx, requested)
	if err != nil {
		return nil, err
	}
	if !IsPDF(name) || s.renderer == nil {
		return nil, ErrPreviewUnsupported().WithDetail("filename", string(name))
	}
	data, err := s.fs.ReadFile(ctx, s.path(name))
	if err != nil {
		return nil, errx.Wrap(err, "failed to read résumé", errx.TypeExternal)
	}
	img, err := s.renderer.RenderFirstPage(data)
	if err != nil {
		return nil, errx.Wrap(err, "failed to render résumé preview", errx.TypeInternal)
	}
	return img, nil
}
