package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an error for transport mapping
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// defaultStatus is used when an error is built without a registry entry
var defaultStatus = map[Type]int{
	TypeValidation:    http.StatusBadRequest,
	TypeNotFound:      http.StatusNotFound,
	TypeConflict:      http.StatusConflict,
	TypeBusiness:      http.StatusUnprocessableEntity,
	TypeAuthorization: http.StatusForbidden,
	TypeInternal:      http.StatusInternalServerError,
	TypeExternal:      http.StatusBadGateway,
}

// Error is the domain error carried through services up to the HTTP layer
type Error struct {
	Domain     string         `json:"domain,omitempty"`
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	prefix := e.Code
	if e.Domain != "" {
		prefix = e.Domain + "." + e.Code
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on domain and code so registry-built errors compare equal
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Domain == t.Domain && e.Code == t.Code
}

// WithDetail attaches a single key/value to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given map into the error details
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// ToHTTPResponse renders the error body returned to clients
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"success": false,
		"error":   e.Message,
		"type":    e.Type,
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Domain != "" {
		resp["domain"] = e.Domain
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
		if field, ok := e.Details["field"]; ok {
			resp["field"] = field
		}
	}
	return resp
}

// Redacted returns a copy without details or cause, for production responses
func (e *Error) Redacted() *Error {
	return &Error{
		Domain:     e.Domain,
		Code:       e.Code,
		Type:       e.Type,
		Message:    e.Message,
		HTTPStatus: e.HTTPStatus,
	}
}

// New creates an ad-hoc error of the given type
func New(message string, t Type) *Error {
	return &Error{
		Code:       string(t) + "_ERROR",
		Type:       t,
		Message:    message,
		HTTPStatus: statusFor(t),
	}
}

// Wrap annotates err with a message and type. Errors that already are *Error
// are returned untouched so their domain code reaches the caller.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(message, t).WithCause(err)
}

// AsError extracts an *Error from err's chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err carries the given type
func IsType(err error, t Type) bool {
	e, ok := AsError(err)
	return ok && e.Type == t
}

func statusFor(t Type) int {
	if s, ok := defaultStatus[t]; ok {
		return s
	}
	return http.StatusInternalServerError
}
