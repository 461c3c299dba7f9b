package candidacy

import (
	"reflect"
	"testing"

	"github.com/youssef9656/server/pkg/errx"
)

func validForm() *IntakeForm {
	return &IntakeForm{
		LastName:    " Saidi ",
		FirstName:   "Amine",
		Email:       "Amine.Saidi@Example.com",
		Phone:       "0600000000",
		BirthDate:   "1990-05-14",
		Nationality: "Marocaine",
		Degrees:     "Master",
		Experience:  "5 ans",
	}
}

func TestValidateIntake(t *testing.T) {
	if err := ValidateIntake(validForm()); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	tests := []struct {
		name  string
		edit  func(f *IntakeForm)
		code  errx.Code
		field string
	}{
		{"missing nom", func(f *IntakeForm) { f.LastName = "  " }, CodeMissingField, "nom"},
		{"missing telephone", func(f *IntakeForm) { f.Phone = "" }, CodeMissingField, "telephone"},
		{"first missing wins", func(f *IntakeForm) { f.Degrees = ""; f.Experience = "" }, CodeMissingField, "diplomes"},
		{"missing experience", func(f *IntakeForm) { f.Experience = "" }, CodeMissingField, "experiencesProfessionnelles"},
		{"bad email", func(f *IntakeForm) { f.Email = "not-an-email" }, CodeInvalidEmail, "email"},
		{"email with space", func(f *IntakeForm) { f.Email = "a b@c.de" }, CodeInvalidEmail, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(f)
			err := ValidateIntake(f)
			if !errx.IsCode(err, tt.code) {
				t.Fatalf("want %s, got %v", tt.code, err)
			}
			e, _ := errx.AsError(err)
			if e.Details["field"] != tt.field {
				t.Errorf("want field %s, got %v", tt.field, e.Details["field"])
			}
		})
	}
}

func TestValidateIntakeTrims(t *testing.T) {
	f := validForm()
	f.CurrentJob = "  "
	if err := ValidateIntake(f); err != nil {
		t.Fatal(err)
	}
	if f.LastName != "Saidi" || f.CurrentJob != "" {
		t.Errorf("values not trimmed: %q %q", f.LastName, f.CurrentJob)
	}
}

func TestParseDomains(t *testing.T) {
	cases := map[string][]string{
		`["Finance","  RH ",""]`: {"Finance", "RH"},
		`[]`:                     {},
		"":                       {},
		"not-json":               {},
		`{"a":1}`:                {},
		`[1,2]`:                  {},
	}
	for in, want := range cases {
		got := ParseDomains(in)
		if got == nil || !reflect.DeepEqual(got, want) {
			t.Errorf("ParseDomains(%q): want %v, got %#v", in, want, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseStatus(" " + string(s) + " ")
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	for _, bad := range []string{"", "Accepted", "accepté"} {
		if _, err := ParseStatus(bad); !errx.IsCode(err, CodeInvalidStatus) {
			t.Errorf("ParseStatus(%q) should fail, got %v", bad, err)
		}
	}
}
