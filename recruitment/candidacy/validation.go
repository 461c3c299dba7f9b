package candidacy

import (
	"encoding/json"
	"strings"

	"github.com/youssef9656/server/pkg/kernel"
)

// ValidateIntake trims the form in place and reports the first missing
// required field, in form order, then the email format.
func ValidateIntake(f *IntakeForm) error {
	if f == nil {
		return ErrInvalidRequest()
	}
	required := []struct {
		name  string
		value *string
	}{
		{"nom", &f.LastName},
		{"prenom", &f.FirstName},
		{"email", &f.Email},
		{"telephone", &f.Phone},
		{"dateNaissance", &f.BirthDate},
		{"nationalite", &f.Nationality},
		{"diplomes", &f.Degrees},
		{"experiencesProfessionnelles", &f.Experience},
	}
	for _, r := range required {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return ErrMissingField(r.name)
		}
	}
	f.CurrentJob = strings.TrimSpace(f.CurrentJob)

	if !kernel.NewEmail(f.Email).IsValid() {
		return ErrInvalidEmail()
	}
	return nil
}

// ParseDomains decodes a JSON array of strings; anything else yields an
// empty list.
func ParseDomains(raw string) []string {
	domains := []string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domains
	}
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domains
	}
	for _, d := range parsed {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
