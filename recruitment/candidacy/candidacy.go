package candidacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/resume"
)

// Status is stored with its French label, as shown in the admin console
type Status string

const (
	StatusPending     Status = "En attente"
	StatusAccepted    Status = "Accepté"
	StatusRejected    Status = "Refusé"
	StatusUnderReview Status = "En cours d'évaluation"
)

var statuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusUnderReview}

// Statuses lists every accepted status, in display order
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

func (s Status) IsValid() bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", ErrInvalidStatus().
			WithDetail("field", "statut").
			WithDetail("allowed", statuses)
	}
	return s, nil
}

type Candidacy struct {
	ID          kernel.CandidacyID `json:"id"`
	LastName    string             `json:"nom"`
	FirstName   string             `json:"prenom"`
	Email       kernel.Email       `json:"email"`
	Phone       string             `json:"telephone"`
	BirthDate   string             `json:"dateNaissance"`
	Nationality string             `json:"nationalite"`
	Degrees     string             `json:"diplomes"`
	CurrentJob  *string            `json:"emploiActuel"`
	Domains     []string           `json:"domainesIntervention"`
	Experience  string             `json:"experiencesProfessionnelles"`
	resume.Attachment
	Status      Status     `json:"statut"`
	CreatedAt   time.Time  `json:"dateCreation"`
	UpdatedAt   *time.Time `json:"dateModification"`
	EmailsSent  int        `json:"emailsEnvoyes"`
	LastEmailAt *time.Time `json:"dernierEmailEnvoye"`
	LastMessage *string    `json:"dernierMessageEnvoye"`
}

func (c *Candidacy) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// CurrentJobOr returns the current job or fallback when none was given
func (c *Candidacy) CurrentJobOr(fallback string) string {
	if c.CurrentJob == nil || *c.CurrentJob == "" {
		return fallback
	}
	return *c.CurrentJob
}
