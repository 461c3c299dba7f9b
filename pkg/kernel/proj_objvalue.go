package kernel

import (
	"regexp"
	"strings"
)

type Email string

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewEmail trims and lower-cases the address
func NewEmail(raw string) Email {
	return Email(strings.ToLower(strings.TrimSpace(raw)))
}

func (e Email) String() string { return string(e) }
func (e Email) IsEmpty() bool  { return string(e) == "" }
func (e Email) IsValid() bool  { return emailPattern.MatchString(string(e)) }

// FileName is the generated, store-unique name of an uploaded file
type FileName string

func (f FileName) String() string { return string(f) }
func (f FileName) IsEmpty() bool  { return string(f) == "" }
