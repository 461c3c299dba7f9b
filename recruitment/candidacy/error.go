package candidacy

import (
	"net/http"

	"github.com/youssef9656/server/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CANDIDACY")

var (
	CodeMissingField        = ErrRegistry.Register("MISSING_FIELD", errx.TypeValidation, http.StatusBadRequest, "Champ requis manquant")
	CodeInvalidEmail        = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Format d'email invalide")
	CodeEmailExists         = ErrRegistry.Register("EMAIL_EXISTS", errx.TypeConflict, http.StatusBadRequest, "Cet email a déjà été utilisé pour une candidature.")
	CodeInvalidID           = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Identifiant invalide")
	CodeNotFound            = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidature non trouvée")
	CodeInvalidStatus       = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Statut invalide")
	CodeInvalidRequest      = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeInvalidExportFormat = ErrRegistry.Register("INVALID_EXPORT_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Export format must be xlsx or csv")
	CodeExportFailed        = ErrRegistry.Register("EXPORT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to export candidacies")
)

func ErrMissingField(field string) *errx.Error {
	return ErrRegistry.New(CodeMissingField).WithDetail("field", field)
}

func ErrInvalidEmail() *errx.Error {
	return ErrRegistry.New(CodeInvalidEmail).WithDetail("field", "email")
}

func ErrEmailExists() *errx.Error {
	return ErrRegistry.New(CodeEmailExists).WithDetail("field", "email")
}

func ErrInvalidID() *errx.Error {
	return ErrRegistry.New(CodeInvalidID)
}

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrInvalidExportFormat() *errx.Error {
	return ErrRegistry.New(CodeInvalidExportFormat)
}

func ErrExportFailed() *errx.Error {
	return ErrRegistry.New(CodeExportFailed)
}
