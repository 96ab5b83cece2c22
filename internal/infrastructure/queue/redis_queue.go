package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultListKey = "soundfy:jobs"

// defaultMaxAttempts caps retryable requeues before a job is dropped.
const defaultMaxAttempts = 10

// Job is the queue envelope. Args is the job's positional argument
// object; its shape is owned by the handler.
type Job struct {
	Name     string          `json:"name"`
	Args     json.RawMessage `json:"args"`
	Attempts int             `json:"attempts"`
}

// Handler performs one named job.
type Handler interface {
	Name() string
	Perform(ctx context.Context, args json.RawMessage) error
}

// RedisQueue is a thin adapter over a Redis list: the durable queue is a
// building block here, not a scheduling engine. Failed jobs are either
// requeued (retryable kinds, with an attempt cap) or dropped with an
// error log (fatal kinds such as an unknown shop domain).
type RedisQueue struct {
	client      *redis.Client
	key         string
	logger      zerolog.Logger
	maxAttempts int

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRedisQueue creates a queue on the default list key.
func NewRedisQueue(client *redis.Client, logger zerolog.Logger) *RedisQueue {
	return &RedisQueue{
		client:      client,
		key:         defaultListKey,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		handlers:    make(map[string]Handler),
	}
}

var _ ports.JobQueue = (*RedisQueue)(nil)

// Register adds a handler for its job name.
func (q *RedisQueue) Register(h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[h.Name()] = h
}

// Enqueue pushes a job onto the shared list.
func (q *RedisQueue) Enqueue(ctx context.Context, name string, args any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode job args: %w", err)
	}
	payload, err := json.Marshal(Job{Name: name, Args: raw})
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", name, err)
	}
	return nil
}

// Run consumes jobs until ctx ends. Multiple workers may run
// concurrently; per-record serialization is the storage layer's
// non-blocking lock, not the queue's.
func (q *RedisQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.logger.Error().Err(err).Msg("Failed to pop job")
			time.Sleep(time.Second)
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.logger.Error().Err(err).Msg("Dropping malformed job payload")
			continue
		}
		q.perform(ctx, job)
	}
}

func (q *RedisQueue) perform(ctx context.Context, job Job) {
	q.mu.RLock()
	handler, ok := q.handlers[job.Name]
	q.mu.RUnlock()
	if !ok {
		q.logger.Error().Str("job", job.Name).Msg("No handler registered, dropping job")
		return
	}

	err := handler.Perform(ctx, job.Args)
	if err == nil {
		return
	}

	if Requeue(job, err, q.maxAttempts) {
		job.Attempts++
		q.logger.Warn().Str("job", job.Name).Int("attempts", job.Attempts).Err(err).
			Msg("Job failed, rescheduling")
		payload, mErr := json.Marshal(job)
		if mErr != nil {
			q.logger.Error().Str("job", job.Name).Err(mErr).Msg("Failed to encode requeued job")
			return
		}
		if pErr := q.client.LPush(ctx, q.key, payload).Err(); pErr != nil {
			q.logger.Error().Str("job", job.Name).Err(pErr).Msg("Failed to requeue job")
		}
		return
	}

	q.logger.Error().Str("job", job.Name).Int("attempts", job.Attempts).Err(err).
		Msg("Job discarded")
}

// Requeue decides whether a failed job goes back on the list: only
// retryable error kinds, and only below the attempt cap.
func Requeue(job Job, err error, maxAttempts int) bool {
	return domain.IsRetryable(err) && job.Attempts+1 < maxAttempts
}
