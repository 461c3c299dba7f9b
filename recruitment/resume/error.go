package resume

import (
	"net/http"

	"github.com/youssef9656/server/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RESUME")

var (
	CodeMissingCV          = ErrRegistry.Register("MISSING_CV", errx.TypeValidation, http.StatusBadRequest, "A résumé file is required")
	CodeInvalidFileType    = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Type de fichier non autorisé.")
	CodeFileTooLarge       = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File size exceeds maximum allowed")
	CodeFileNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Fichier non trouvé.")
	CodePreviewUnsupported = ErrRegistry.Register("PREVIEW_UNSUPPORTED", errx.TypeValidation, http.StatusBadRequest, "Preview is only available for PDF files")
)

func ErrMissingCV() *errx.Error {
	return ErrRegistry.New(CodeMissingCV)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrFileTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileTooLarge)
}

func ErrFileNotFound() *errx.Error {
	return ErrRegistry.New(CodeFileNotFound)
}

func ErrPreviewUnsupported() *errx.Error {
	return ErrRegistry.New(CodePreviewUnsupported)
}
