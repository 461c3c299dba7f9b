package worker

import (
	"context"
	"time"

	"github.com/matryer/try"
	"github.com/youssef9656/server/pkg/logx"
	"github.com/youssef9656/server/pkg/mailx"
	"github.com/youssef9656/server/recruitment/notification"
)

type Config struct {
	Workers     int
	Attempts    int           // sends tried per dequeue
	MaxRequeues int           // delayed retries before a job is dropped
	RetryDelay  time.Duration // delay before a requeued job is ready again
}

func DefaultConfig() Config {
	return Config{
		Workers:     2,
		Attempts:    3,
		MaxRequeues: 3,
		RetryDelay:  time.Minute,
	}
}

// MailWorker drains the mail queue in the background
type MailWorker struct {
	queue  notification.JobQueue
	sender mailx.Sender
	cfg    Config

	pollTimeout  time.Duration
	moveInterval time.Duration
	backoff      time.Duration
}

func NewMailWorker(queue notification.JobQueue, sender mailx.Sender, cfg Config) *MailWorker {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.MaxRequeues < 0 {
		cfg.MaxRequeues = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	return &MailWorker{
		queue:        queue,
		sender:       sender,
		cfg:          cfg,
		pollTimeout:  5 * time.Second,
		moveInterval: 30 * time.Second,
		backoff:      2 * time.Second,
	}
}

// Start launches the pool; it returns immediately and stops with ctx
func (w *MailWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d mail workers", w.cfg.Workers)

	go w.moveDelayedJobs(ctx)

	for i := 0; i < w.cfg.Workers; i++ {
		go w.processJobs(ctx, i)
	}
}

func (w *MailWorker) processJobs(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			logx.Infof("Mail worker %d stopping", workerID)
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			logx.Errorf("Mail worker %d dequeue error: %v", workerID, err)
			w.sleep(ctx, w.backoff)
			continue
		}
		if job == nil {
			continue
		}
		w.deliver(ctx, job)
	}
}

// deliver tries the job a few times in a row, then hands it back to the
// queue as a delayed job until MaxRequeues is spent.
func (w *MailWorker) deliver(ctx context.Context, job *notification.MailJob) {
	log := logx.WithFields(logx.Fields{"job_id": job.ID, "to": job.To, "subject": job.Subject})

	err := try.Do(func(attempt int) (bool, error) {
		err := w.sender.Send(ctx, job.To, job.Subject, job.HTML)
		if err != nil && attempt < w.cfg.Attempts {
			w.sleep(ctx, time.Duration(attempt)*w.backoff)
		}
		return attempt < w.cfg.Attempts && ctx.Err() == nil, err
	})
	if err == nil {
		log.Info("mail delivered")
		return
	}

	job.Attempts++
	if job.Attempts > w.cfg.MaxRequeues {
		log.Errorf("dropping mail after %d requeues: %v", job.Attempts-1, err)
		return
	}

	log.Warnf("mail failed, retrying in %s: %v", w.cfg.RetryDelay, err)
	if err := w.queue.EnqueueDelayed(context.WithoutCancel(ctx), job, w.cfg.RetryDelay); err != nil {
		log.Errorf("failed to requeue mail: %v", err)
	}
}

func (w *MailWorker) moveDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(w.moveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed mail jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed mail jobs to ready queue", count)
			}
		}
	}
}

func (w *MailWorker) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
