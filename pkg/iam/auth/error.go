package auth

import (
	"net/http"

	"github.com/youssef9656/server/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeMissingToken       = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Missing authorization token")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusForbidden, "Invalid or expired token")
	CodeMissingSession     = ErrRegistry.Register("MISSING_TOKEN_IN_BODY", errx.TypeAuthorization, http.StatusUnauthorized, "Missing session token in request body")
	CodeInvalidSession     = ErrRegistry.Register("INVALID_OR_EXPIRED_TOKEN", errx.TypeAuthorization, http.StatusForbidden, "Invalid token or expired session")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeValidation, http.StatusBadRequest, "Invalid email or password")
	CodeInsufficientScope  = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeWeakPassword       = ErrRegistry.Register("WEAK_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password must be at least 8 characters")
	CodeInvalidRole        = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role")
)

func ErrMissingToken() *errx.Error       { return ErrRegistry.New(CodeMissingToken) }
func ErrInvalidToken() *errx.Error       { return ErrRegistry.New(CodeInvalidToken) }
func ErrMissingSession() *errx.Error     { return ErrRegistry.New(CodeMissingSession) }
func ErrInvalidSession() *errx.Error     { return ErrRegistry.New(CodeInvalidSession) }
func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrInsufficientScope() *errx.Error  { return ErrRegistry.New(CodeInsufficientScope) }
func ErrInvalidRequest() *errx.Error     { return ErrRegistry.New(CodeInvalidRequest) }
func ErrWeakPassword() *errx.Error       { return ErrRegistry.New(CodeWeakPassword) }
func ErrInvalidRole() *errx.Error        { return ErrRegistry.New(CodeInvalidRole) }
