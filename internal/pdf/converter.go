package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
)

var ErrNoPages = errors.New("pdf has no pages")

// Renderer rasterizes PDF pages to JPEG
type Renderer struct {
	Quality int
}

func NewRenderer() *Renderer {
	return &Renderer{Quality: 85}
}

// RenderFirstPage returns the first page of pdfData as a JPEG image
func (r *Renderer) RenderFirstPage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, ErrNoPages
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("failed to render first page: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode first page: %w", err)
	}
	return buf.Bytes(), nil
}
