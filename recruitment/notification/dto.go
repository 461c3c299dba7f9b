package notification

// SendMessageRequest is posted by the admin console. Only the email of
// candidatureData is used; the stored candidacy provides the rest.
type SendMessageRequest struct {
	Message       string `json:"message"`
	CandidacyData struct {
		Email string `json:"email"`
	} `json:"candidatureData"`
}

// WarnCounterNotUpdated is reported when the email went out but the
// candidacy's send counter could not be updated.
const WarnCounterNotUpdated = "Le compteur d'emails n'a pas pu être mis à jour"

type SendResult struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	CandidateEmail   string   `json:"candidatEmail"`
	CandidateName    string   `json:"candidatNom"`
	FormattedMessage string   `json:"messageFormate"`
	Warnings         []string `json:"warnings,omitempty"`
}

type TemplatesResponse struct {
	Success   bool                `json:"success"`
	Templates map[string]Template `json:"templates"`
}
