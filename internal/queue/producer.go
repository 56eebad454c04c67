package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"go.uber.org/zap"
)

// Store хранилище задач (Postgres таблица jobs)
type Store interface {
	Insert(ctx context.Context, job *model.Job) error
	ClaimNext(ctx context.Context, now time.Time) (*model.Job, error)
	// MarkDone, Reschedule и MarkTerminal возвращают model.ErrLeaseLost,
	// если задача уже не в processing с переданным lockedAt
	MarkDone(ctx context.Context, id uuid.UUID, lockedAt, now time.Time) error
	Reschedule(ctx context.Context, id uuid.UUID, lockedAt time.Time, attempts int, runAt time.Time, lastErr string, now time.Time) error
	MarkTerminal(ctx context.Context, id uuid.UUID, lockedAt time.Time, status model.JobStatus, attempts int, lastErr string, now time.Time) error
	RequeueStale(ctx context.Context, lockedBefore, now time.Time) (model.StaleRecovery, error)
}

// Producer ставит задачи в очередь
type Producer struct {
	store       Store
	maxAttempts int
	clock       func() time.Time
	logger      *zap.Logger
}

func NewProducer(store Store, maxAttempts int, clock func() time.Time, logger *zap.Logger) *Producer {
	return &Producer{
		store:       store,
		maxAttempts: maxAttempts,
		clock:       clock,
		logger:      logger,
	}
}

// Enqueue сохраняет задачу и сразу возвращает её ID
func (p *Producer) Enqueue(ctx context.Context, jobType string, payload any) (uuid.UUID, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal %s payload: %w", jobType, err)
	}

	job := &model.Job{
		ID:          uuid.New(),
		Type:        jobType,
		Payload:     raw,
		MaxAttempts: p.maxAttempts,
		RunAt:       p.clock(),
	}

	if err := p.store.Insert(ctx, job); err != nil {
		return uuid.Nil, fmt.Errorf("enqueue %s: %w", jobType, err)
	}

	p.logger.Info("Job enqueued",
		zap.String("job_id", job.ID.String()),
		zap.String("type", jobType),
	)

	return job.ID, nil
}
