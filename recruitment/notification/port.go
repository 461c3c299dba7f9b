package notification

import (
	"context"
	"time"
)

// MailJob is an email waiting for background delivery
type MailJob struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

type JobQueue interface {
	Enqueue(ctx context.Context, job *MailJob) error

	// Dequeue blocks up to timeout; nil, nil means nothing was ready
	Dequeue(ctx context.Context, timeout time.Duration) (*MailJob, error)

	EnqueueDelayed(ctx context.Context, job *MailJob, delay time.Duration) error

	// MoveDelayedToReady returns how many delayed jobs became ready
	MoveDelayedToReady(ctx context.Context) (int, error)
}
