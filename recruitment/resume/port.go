package resume

// PreviewRenderer turns a PDF into an image of its first page
type PreviewRenderer interface {
	RenderFirstPage(pdf []byte) ([]byte, error)
}
