package notificationinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/youssef9656/server/recruitment/notification"
)

// RedisQueue keeps ready jobs in a list and delayed retries in a sorted set
// scored by due time.
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

func (q *RedisQueue) delayedKey() string {
	return q.queueName + ":delayed"
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *notification.MailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal mail job %s: %w", job.ID, err)
	}
	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return fmt.Errorf("enqueue mail job %s: %w", job.ID, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*notification.MailJob, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue mail job: %w", err)
	}
	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	var job notification.MailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("decode mail job: %w", err)
	}
	return &job, nil
}

func (q *RedisQueue) EnqueueDelayed(ctx context.Context, job *notification.MailJob, delay time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal delayed mail job %s: %w", job.ID, err)
	}
	score := float64(time.Now().Add(delay).Unix())
	if err := q.client.ZAdd(ctx, q.delayedKey(), redis.Z{Score: score, Member: data}).Err(); err != nil {
		return fmt.Errorf("enqueue delayed mail job %s: %w", job.ID, err)
	}
	return nil
}

func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	jobs, err := q.client.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", time.Now().Unix()),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed mail jobs: %w", err)
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	pipe := q.client.TxPipeline()
	for _, job := range jobs {
		pipe.LPush(ctx, q.queueName, job)
		pipe.ZRem(ctx, q.delayedKey(), job)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("move delayed mail jobs: %w", err)
	}
	return len(jobs), nil
}

// Stats reports queue depth for the health endpoint
func (q *RedisQueue) Stats(ctx context.Context) (map[string]any, error) {
	ready, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return nil, fmt.Errorf("get queue size: %w", err)
	}
	delayed, err := q.client.ZCard(ctx, q.delayedKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("get delayed queue size: %w", err)
	}
	return map[string]any{
		"queue_name":   q.queueName,
		"ready_jobs":   ready,
		"delayed_jobs": delayed,
	}, nil
}
