package notificationinfra

import (
	"context"
	"sync"
	"time"

	"github.com/youssef9656/server/recruitment/notification"
)

// MemoryQueue is the single-process queue used when Redis is not configured.
// Jobs are lost on restart.
type MemoryQueue struct {
	ready chan *notification.MailJob

	mu      sync.Mutex
	delayed []delayedJob
	now     func() time.Time
}

type delayedJob struct {
	job *notification.MailJob
	due time.Time
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{
		ready: make(chan *notification.MailJob, size),
		now:   time.Now,
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job *notification.MailJob) error {
	select {
	case q.ready <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*notification.MailJob, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.ready:
		return job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, nil
	}
}

func (q *MemoryQueue) EnqueueDelayed(ctx context.Context, job *notification.MailJob, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, delayedJob{job: job, due: q.now().Add(delay)})
	return nil
}

func (q *MemoryQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	q.mu.Lock()
	now := q.now()
	var due []*notification.MailJob
	pending := q.delayed[:0]
	for _, d := range q.delayed {
		if d.due.After(now) {
			pending = append(pending, d)
			continue
		}
		due = append(due, d.job)
	}
	q.delayed = pending
	q.mu.Unlock()

	for i, job := range due {
		if err := q.Enqueue(ctx, job); err != nil {
			return i, err
		}
	}
	return len(due), nil
}

func (q *MemoryQueue) Len() int {
	return len(q.ready)
}

// Delayed reports how many jobs wait for their retry time
func (q *MemoryQueue) Delayed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.delayed)
}

func (q *MemoryQueue) Stats(ctx context.Context) (map[string]any, error) {
	return map[string]any{
		"queue_name":   "memory",
		"ready_jobs":   q.Len(),
		"delayed_jobs": q.Delayed(),
	}, nil
}
