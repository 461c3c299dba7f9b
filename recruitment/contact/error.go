package contact

import (
	"net/http"

	"github.com/youssef9656/server/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CONTACT")

var (
	CodeNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Contact non trouvé.")
	CodeInvalidID      = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Identifiant invalide")
	CodeMissingField   = ErrRegistry.Register("MISSING_FIELD", errx.TypeValidation, http.StatusBadRequest, "Champ requis manquant")
	CodeInvalidEmail   = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Format d'email invalide")
	CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrInvalidID() *errx.Error {
	return ErrRegistry.New(CodeInvalidID)
}

func ErrMissingField(field string) *errx.Error {
	return ErrRegistry.New(CodeMissingField).WithDetail("field", field)
}

func ErrInvalidEmail() *errx.Error {
	return ErrRegistry.New(CodeInvalidEmail).WithDetail("field", "email")
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
