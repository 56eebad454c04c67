package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	*base.Repository
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{Repository: base.NewRepository(pool)}
}

const jobColumns = `id, type, payload, status, attempts, max_attempts, run_at, locked_at, last_error, created_at, updated_at`

// Insert сохраняет новую задачу в статусе queued
func (r *JobRepository) Insert(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (id, type, payload, status, max_attempts, run_at)
		VALUES ($1, $2, $3, 'queued', $4, $5)
		RETURNING status, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		job.ID,
		job.Type,
		job.Payload,
		job.MaxAttempts,
		job.RunAt,
	).Scan(&job.Status, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

// ClaimNext забирает самую старую готовую задачу и переводит её в processing.
// Возвращает nil, nil если очередь пуста.
func (r *JobRepository) ClaimNext(ctx context.Context, now time.Time) (*model.Job, error) {
	query := `
		UPDATE jobs
		SET status = 'processing', locked_at = $1, updated_at = $1
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = 'queued' AND run_at <= $1
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	var job model.Job
	err := r.QueryRow(ctx, query, now).Scan(
		&job.ID,
		&job.Type,
		&job.Payload,
		&job.Status,
		&job.Attempts,
		&job.MaxAttempts,
		&job.RunAt,
		&job.LockedAt,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim job: %w", err)
	}

	return &job, nil
}

// MarkDone завершает задачу успешно.
// Пишет только пока задача в processing с тем же locked_at, иначе model.ErrLeaseLost.
func (r *JobRepository) MarkDone(ctx context.Context, id uuid.UUID, lockedAt, now time.Time) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE jobs
		SET status = 'done', locked_at = NULL, updated_at = $3
		WHERE id = $1 AND status = 'processing' AND locked_at = $2
	`, id, lockedAt, now)
	if err != nil {
		return fmt.Errorf("mark job done: %w", err)
	}
	if affected == 0 {
		return model.ErrLeaseLost
	}
	return nil
}

// Reschedule возвращает задачу в очередь с новым временем запуска
func (r *JobRepository) Reschedule(ctx context.Context, id uuid.UUID, lockedAt time.Time, attempts int, runAt time.Time, lastErr string, now time.Time) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE jobs
		SET status = 'queued', attempts = $3, run_at = $4, last_error = $5, locked_at = NULL, updated_at = $6
		WHERE id = $1 AND status = 'processing' AND locked_at = $2
	`, id, lockedAt, attempts, runAt, lastErr, now)
	if err != nil {
		return fmt.Errorf("reschedule job: %w", err)
	}
	if affected == 0 {
		return model.ErrLeaseLost
	}
	return nil
}

// MarkTerminal переводит задачу в failed или dead_lettered
func (r *JobRepository) MarkTerminal(ctx context.Context, id uuid.UUID, lockedAt time.Time, status model.JobStatus, attempts int, lastErr string, now time.Time) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE jobs
		SET status = $3, attempts = $4, last_error = $5, locked_at = NULL, updated_at = $6
		WHERE id = $1 AND status = 'processing' AND locked_at = $2
	`, id, lockedAt, status, attempts, lastErr, now)
	if err != nil {
		return fmt.Errorf("mark job %s: %w", status, err)
	}
	if affected == 0 {
		return model.ErrLeaseLost
	}
	return nil
}

// RequeueStale возвращает задачи, зависшие в processing дольше lease.
// Истёкший lease считается попыткой: задача с исчерпанными попытками уходит в dead_lettered.
func (r *JobRepository) RequeueStale(ctx context.Context, lockedBefore, now time.Time) (model.StaleRecovery, error) {
	var res model.StaleRecovery

	rows, err := r.Query(ctx, `
		UPDATE jobs
		SET attempts = attempts + 1,
			status = CASE WHEN attempts + 1 >= max_attempts THEN 'dead_lettered' ELSE 'queued' END,
			last_error = $3,
			locked_at = NULL,
			updated_at = $2
		WHERE status = 'processing' AND locked_at < $1
		RETURNING status
	`, lockedBefore, now, model.StaleLeaseError)
	if err != nil {
		return res, fmt.Errorf("requeue stale jobs: %w", err)
	}

	statuses, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return res, fmt.Errorf("requeue stale jobs: %w", err)
	}

	for _, status := range statuses {
		if model.JobStatus(status) == model.JobStatusDeadLettered {
			res.DeadLettered++
		} else {
			res.Requeued++
		}
	}
	return res, nil
}
