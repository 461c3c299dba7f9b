package errx

import (
	"net/http"
	"sync"
)

// Code identifies a registered error as DOMAIN.CODE
type Code string

type definition struct {
	code    string
	typ     Type
	status  int
	message string
}

// Registry groups the error codes of one domain
type Registry struct {
	domain  string
	mu      sync.RWMutex
	entries map[Code]definition
}

func NewRegistry(domain string) *Registry {
	return &Registry{
		domain:  domain,
		entries: make(map[Code]definition),
	}
}

func (r *Registry) Domain() string { return r.domain }

// Register declares a code. Registering the same code twice replaces it.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	key := Code(r.domain + "." + code)
	r.mu.Lock()
	r.entries[key] = definition{code: code, typ: t, status: httpStatus, message: message}
	r.mu.Unlock()
	return key
}

// New builds a fresh error instance for code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.entries[code]
	r.mu.RUnlock()
	if !ok {
		return &Error{
			Domain:     r.domain,
			Code:       "UNREGISTERED",
			Type:       TypeInternal,
			Message:    "unregistered error code " + string(code),
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Domain:     r.domain,
		Code:       def.code,
		Type:       def.typ,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}

func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.New(code).WithCause(cause)
}

// NewWithMessage keeps the registered code but overrides the message
func (r *Registry) NewWithMessage(code Code, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// IsCode reports whether err is the registered error code
func IsCode(err error, code Code) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	return Code(e.Domain+"."+e.Code) == code
}
