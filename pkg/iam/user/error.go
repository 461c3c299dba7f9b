package user

import (
	"net/http"

	"github.com/youssef9656/server/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailInUse   = ErrRegistry.Register("EMAIL_IN_USE", errx.TypeConflict, http.StatusBadRequest, "Email already in use")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrEmailInUse() *errx.Error {
	return ErrRegistry.New(CodeEmailInUse)
}
