package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Handler обрабатывает задачу одного типа
type Handler func(ctx context.Context, job *model.Job) error

// Options настройки обработчика очереди
type Options struct {
	BackoffBase  time.Duration
	BackoffMax   time.Duration
	PollInterval time.Duration
	LeaseTimeout time.Duration
}

// Consumer забирает задачи из очереди и вызывает зарегистрированные обработчики
type Consumer struct {
	store    Store
	handlers map[string]Handler
	opts     Options
	clock    func() time.Time
	logger   *zap.Logger
}

func NewConsumer(store Store, opts Options, clock func() time.Time, logger *zap.Logger) *Consumer {
	return &Consumer{
		store:    store,
		handlers: make(map[string]Handler),
		opts:     opts,
		clock:    clock,
		logger:   logger,
	}
}

// Register регистрирует обработчик для типа задачи
func (c *Consumer) Register(jobType string, handler Handler) {
	c.handlers[jobType] = handler
}

// Run крутит цикл обработки до отмены ctx
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Job consumer started",
		zap.Duration("poll_interval", c.opts.PollInterval),
		zap.Duration("lease_timeout", c.opts.LeaseTimeout),
	)

	c.RecoverStale(ctx)

	poll := time.NewTicker(c.opts.PollInterval)
	defer poll.Stop()

	recovery := time.NewTicker(c.opts.LeaseTimeout)
	defer recovery.Stop()

	for {
		c.drain(ctx)

		select {
		case <-ctx.Done():
			c.logger.Info("Job consumer stopped")
			return nil
		case <-poll.C:
		case <-recovery.C:
			c.RecoverStale(ctx)
		}
	}
}

// drain обрабатывает готовые задачи, пока очередь не опустеет
func (c *Consumer) drain(ctx context.Context) {
	for ctx.Err() == nil {
		processed, err := c.ProcessNext(ctx)
		if err != nil {
			c.logger.Error("Failed to process job", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}

// RecoverStale возвращает в очередь задачи, чей обработчик упал, не закончив работу.
// Каждый истёкший lease расходует попытку.
func (c *Consumer) RecoverStale(ctx context.Context) {
	now := c.clock()

	res, err := c.store.RequeueStale(ctx, now.Add(-c.opts.LeaseTimeout), now)
	if err != nil {
		c.logger.Error("Failed to requeue stale jobs", zap.Error(err))
		return
	}

	if res.Requeued > 0 {
		c.logger.Warn("Requeued stale jobs", zap.Int64("count", res.Requeued))
	}
	if res.DeadLettered > 0 {
		c.logger.Error("Stale jobs dead-lettered", zap.Int64("count", res.DeadLettered))
	}
}

// ProcessNext забирает и обрабатывает одну задачу. false означает пустую очередь.
func (c *Consumer) ProcessNext(ctx context.Context) (bool, error) {
	job, err := c.store.ClaimNext(ctx, c.clock())
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	handleErr := c.invoke(ctx, job)

	// Статус пишем даже если ctx отменили во время обработки
	err = c.complete(context.WithoutCancel(ctx), job, handleErr)
	if errors.Is(err, model.ErrLeaseLost) {
		c.logger.Warn("Job lease lost, result discarded",
			zap.String("job_id", job.ID.String()),
			zap.String("type", job.Type),
			zap.NamedError("handler_error", handleErr),
		)
		return true, nil
	}
	if err != nil {
		return true, err
	}

	return true, nil
}

func (c *Consumer) invoke(ctx context.Context, job *model.Job) (err error) {
	handler, ok := c.handlers[job.Type]
	if !ok {
		return Permanent(fmt.Errorf("no handler registered for job type %q", job.Type))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.opts.LeaseTimeout)
	defer cancel()

	return handler(ctx, job)
}

func (c *Consumer) complete(ctx context.Context, job *model.Job, handleErr error) error {
	now := c.clock()
	var lockedAt time.Time
	if job.LockedAt != nil {
		lockedAt = *job.LockedAt
	}
	log := c.logger.With(
		zap.String("job_id", job.ID.String()),
		zap.String("type", job.Type),
	)

	if handleErr == nil {
		if err := c.store.MarkDone(ctx, job.ID, lockedAt, now); err != nil {
			return err
		}
		log.Info("Job done", zap.Int("attempts", job.Attempts+1))
		return nil
	}

	attempts := job.Attempts + 1
	lastErr := handleErr.Error()

	switch {
	case IsPermanent(handleErr):
		if err := c.store.MarkTerminal(ctx, job.ID, lockedAt, model.JobStatusFailed, attempts, lastErr, now); err != nil {
			return err
		}
		log.Error("Job failed permanently", zap.Error(handleErr))

	case attempts >= job.MaxAttempts:
		if err := c.store.MarkTerminal(ctx, job.ID, lockedAt, model.JobStatusDeadLettered, attempts, lastErr, now); err != nil {
			return err
		}
		log.Error("Job dead-lettered",
			zap.Int("attempts", attempts),
			zap.Error(handleErr),
		)

	default:
		delay := c.Backoff(attempts)
		if err := c.store.Reschedule(ctx, job.ID, lockedAt, attempts, now.Add(delay), lastErr, now); err != nil {
			return err
		}
		log.Warn("Job failed, retrying",
			zap.Int("attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(handleErr),
		)
	}

	return nil
}

// Backoff возвращает задержку перед повтором после attempts неудачных попыток:
// base, 2*base, 4*base, ... не больше BackoffMax
func (c *Consumer) Backoff(attempts int) time.Duration {
	b := retry.WithCappedDuration(c.opts.BackoffMax, retry.NewExponential(c.opts.BackoffBase))

	var delay time.Duration
	for i := 0; i < attempts; i++ {
		next, stop := b.Next()
		if stop {
			break
		}
		delay = next
	}
	return delay
}
