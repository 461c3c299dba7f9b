package contact

import (
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

// StatusReplied marks a message an admin has answered. New messages have no status.
const StatusReplied = "Répondu"

// Message is a submission of the public contact form
type Message struct {
	ID        kernel.ContactID `json:"id"`
	FullName  string           `json:"fullName"`
	Email     kernel.Email     `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Subject   string           `json:"subject"`
	Body      string           `json:"message"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt *time.Time       `json:"updatedAt"`
}

func (m *Message) IsReplied() bool {
	return m.Status == StatusReplied
}
