package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestRegistryNew(t *testing.T) {
	reg := NewRegistry("THING")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Thing not found")

	e := reg.New(code)
	if e.Code != "NOT_FOUND" || e.Domain != "THING" {
		t.Fatalf("unexpected identity %s.%s", e.Domain, e.Code)
	}
	if e.HTTPStatus != http.StatusNotFound {
		t.Errorf("want status 404, got %d", e.HTTPStatus)
	}
	if !IsCode(e, code) {
		t.Errorf("IsCode should match its own code")
	}

	// instances must not share details
	reg.New(code).WithDetail("id", "1")
	if len(reg.New(code).Details) != 0 {
		t.Errorf("details leaked between instances")
	}
}

func TestUnregisteredCode(t *testing.T) {
	reg := NewRegistry("THING")
	e := reg.New(Code("THING.MISSING"))
	if e.Type != TypeInternal {
		t.Errorf("want internal type, got %s", e.Type)
	}
}

func TestWrapKeepsDomainErrors(t *testing.T) {
	reg := NewRegistry("THING")
	code := reg.Register("CONFLICT", TypeConflict, http.StatusConflict, "conflict")
	domainErr := reg.New(code)

	wrapped := Wrap(fmt.Errorf("repo: %w", domainErr), "failed to save", TypeInternal)
	if !IsCode(wrapped, code) {
		t.Fatalf("want domain code to survive wrap, got %v", wrapped)
	}

	plain := errors.New("boom")
	w := Wrap(plain, "failed to save", TypeInternal)
	if w.Type != TypeInternal || !errors.Is(w, plain) {
		t.Errorf("wrap should keep cause and type, got %v", w)
	}
	if Wrap(nil, "x", TypeInternal) != nil {
		t.Errorf("wrap of nil must be nil")
	}
}

func TestToHTTPResponse(t *testing.T) {
	reg := NewRegistry("FORM")
	code := reg.Register("MISSING_FIELD", TypeValidation, http.StatusBadRequest, "Missing field")

	resp := reg.New(code).WithDetail("field", "email").ToHTTPResponse()
	if resp["code"] != "MISSING_FIELD" {
		t.Errorf("want code MISSING_FIELD, got %v", resp["code"])
	}
	if resp["field"] != "email" {
		t.Errorf("want field email, got %v", resp["field"])
	}
	if resp["success"] != false {
		t.Errorf("want success=false")
	}

	red := reg.New(code).WithDetail("field", "email").WithCause(errors.New("x")).Redacted()
	if red.Details != nil || red.Cause != nil {
		t.Errorf("redacted copy should drop details and cause")
	}
}
