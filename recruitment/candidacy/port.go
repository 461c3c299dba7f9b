package candidacy

import (
	"context"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

// ListFilter narrows listings by exact match; empty fields are ignored
type ListFilter struct {
	Status      Status
	Nationality string
}

type Repository interface {
	// FindByEmail returns nil, nil when no candidacy uses email
	FindByEmail(ctx context.Context, email kernel.Email) (*Candidacy, error)

	// Create fails with EMAIL_EXISTS when the unique index rejects the row
	Create(ctx context.Context, c *Candidacy) error

	// List returns newest first
	List(ctx context.Context, filter ListFilter, opts kernel.PaginationOptions) (*kernel.Paginated[Candidacy], error)

	ListAll(ctx context.Context, filter ListFilter) ([]Candidacy, error)

	GetByID(ctx context.Context, id kernel.CandidacyID) (*Candidacy, error)

	// UpdateStatus sets the status and modification date together
	UpdateStatus(ctx context.Context, id kernel.CandidacyID, status Status, at time.Time) error

	// Delete removes the record and returns it; files are left alone
	Delete(ctx context.Context, id kernel.CandidacyID) (*Candidacy, error)

	// IncrementEmailCount bumps the counter and records the last message atomically
	IncrementEmailCount(ctx context.Context, email kernel.Email, message string, at time.Time) error
}

// OpsNotifier tells the operations mailbox about new submissions
type OpsNotifier interface {
	NotifyNewCandidacy(ctx context.Context, c *Candidacy)
}
