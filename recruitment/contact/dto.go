package contact

import (
	"strings"

	"github.com/youssef9656/server/pkg/kernel"
)

type CreateRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func (r *CreateRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)

	switch {
	case r.FullName == "":
		return ErrMissingField("fullName")
	case r.Email == "":
		return ErrMissingField("email")
	case r.Subject == "":
		return ErrMissingField("subject")
	case r.Message == "":
		return ErrMissingField("message")
	}
	if !kernel.NewEmail(r.Email).IsValid() {
		return ErrInvalidEmail()
	}
	return nil
}

// UpdateFields is a partial edit; nil fields are left untouched
type UpdateFields struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Subject  *string `json:"subject"`
	Message  *string `json:"message"`
}

func (f *UpdateFields) Validate() error {
	if f.Email != nil {
		e := kernel.NewEmail(*f.Email)
		if !e.IsValid() {
			return ErrInvalidEmail()
		}
		s := e.String()
		f.Email = &s
	}
	return nil
}

func (f *UpdateFields) IsEmpty() bool {
	return f.FullName == nil && f.Email == nil && f.Phone == nil && f.Subject == nil && f.Message == nil
}

type ReplyRequest struct {
	Email     string           `json:"email"`
	Subject   string           `json:"subject"`
	Reply     string           `json:"replyMessage"`
	ContactID kernel.ContactID `json:"contactId"`
}

type ForwardRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ListResponse struct {
	Success bool      `json:"success"`
	Data    []Message `json:"data"`
}
