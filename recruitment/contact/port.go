package contact

import (
	"context"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error

	// List returns every message, newest first
	List(ctx context.Context) ([]Message, error)

	GetByID(ctx context.Context, id kernel.ContactID) (*Message, error)

	// Update applies the non-nil fields and stamps updatedAt
	Update(ctx context.Context, id kernel.ContactID, fields UpdateFields, at time.Time) error

	SetStatus(ctx context.Context, id kernel.ContactID, status string) error
}

// Notifier sends the mail side of contact handling
type Notifier interface {
	NotifyNewContact(ctx context.Context, m *Message)
	SendReply(ctx context.Context, to kernel.Email, subject, body string) error
	ForwardToOps(ctx context.Context, from kernel.Email, body string) error
}
