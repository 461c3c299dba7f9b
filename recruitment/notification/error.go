package notification

import (
	"net/http"

	"github.com/youssef9656/server/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("NOTIFICATION")

var (
	CodeDispatchFailed = ErrRegistry.Register("DISPATCH_FAILED", errx.TypeExternal, http.StatusInternalServerError, "Erreur lors de l'envoi de l'email.")
	CodeMissingMessage = ErrRegistry.Register("MISSING_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "Message et données complètes du candidat requis.")
	CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

func ErrDispatchFailed() *errx.Error {
	return ErrRegistry.New(CodeDispatchFailed)
}

func ErrMissingMessage() *errx.Error {
	return ErrRegistry.New(CodeMissingMessage)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
