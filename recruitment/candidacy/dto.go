package candidacy

import (
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

// IntakeForm is the public submission, read from multipart values
type IntakeForm struct {
	LastName    string `form:"nom"`
	FirstName   string `form:"prenom"`
	Email       string `form:"email"`
	Phone       string `form:"telephone"`
	BirthDate   string `form:"dateNaissance"`
	Nationality string `form:"nationalite"`
	Degrees     string `form:"diplomes"`
	CurrentJob  string `form:"emploiActuel"`
	Domains     string `form:"domainesIntervention"`
	Experience  string `form:"experiencesProfessionnelles"`
}

type CreateResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	ID         kernel.CandidacyID `json:"id"`
	LastName   string             `json:"nom"`
	FirstName  string             `json:"prenom"`
	Email      kernel.Email       `json:"email"`
	CreatedAt  time.Time          `json:"dateCreation"`
	CVFileName kernel.FileName    `json:"cvFileName"`
}

type ListResponse struct {
	Success    bool        `json:"success"`
	Data       []Candidacy `json:"data"`
	Pagination kernel.Page `json:"pagination"`
}

type UpdateStatusRequest struct {
	Status string `json:"statut"`
}

type UpdateStatusResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	ID      kernel.CandidacyID `json:"id"`
	Status  Status             `json:"statut"`
}

type DeleteResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}
