package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harry-torres/gbarber-backend/internal/model"
)

type memoryStore struct {
	mu    sync.Mutex
	jobs  map[uuid.UUID]*model.Job
	order []uuid.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{jobs: make(map[uuid.UUID]*model.Job)}
}

func (s *memoryStore) Insert(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.Status = model.JobStatusQueued
	job.CreatedAt = job.RunAt
	job.UpdatedAt = job.RunAt
	cp := *job
	s.jobs[job.ID] = &cp
	s.order = append(s.order, job.ID)
	return nil
}

func (s *memoryStore) ClaimNext(_ context.Context, now time.Time) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		job := s.jobs[id]
		if job.Status == model.JobStatusQueued && !job.RunAt.After(now) {
			job.Status = model.JobStatusProcessing
			locked := now
			job.LockedAt = &locked
			cp := *job
			return &cp, nil
		}
	}
	return nil, nil
}

// leasedLocked отдаёт задачу, только если она всё ещё захвачена с тем же locked_at
func (s *memoryStore) leasedLocked(id uuid.UUID, lockedAt time.Time) (*model.Job, error) {
	job := s.jobs[id]
	if job == nil || job.Status != model.JobStatusProcessing || job.LockedAt == nil || !job.LockedAt.Equal(lockedAt) {
		return nil, model.ErrLeaseLost
	}
	return job, nil
}

func (s *memoryStore) MarkDone(_ context.Context, id uuid.UUID, lockedAt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.leasedLocked(id, lockedAt)
	if err != nil {
		return err
	}
	job.Status = model.JobStatusDone
	job.LockedAt = nil
	job.UpdatedAt = now
	return nil
}

func (s *memoryStore) Reschedule(_ context.Context, id uuid.UUID, lockedAt time.Time, attempts int, runAt time.Time, lastErr string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.leasedLocked(id, lockedAt)
	if err != nil {
		return err
	}
	job.Status = model.JobStatusQueued
	job.Attempts = attempts
	job.RunAt = runAt
	job.LastError = &lastErr
	job.LockedAt = nil
	job.UpdatedAt = now
	return nil
}

func (s *memoryStore) MarkTerminal(_ context.Context, id uuid.UUID, lockedAt time.Time, status model.JobStatus, attempts int, lastErr string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.leasedLocked(id, lockedAt)
	if err != nil {
		return err
	}
	job.Status = status
	job.Attempts = attempts
	job.LastError = &lastErr
	job.LockedAt = nil
	job.UpdatedAt = now
	return nil
}

func (s *memoryStore) RequeueStale(_ context.Context, lockedBefore, now time.Time) (model.StaleRecovery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res model.StaleRecovery
	for _, job := range s.jobs {
		if job.Status != model.JobStatusProcessing || job.LockedAt == nil || !job.LockedAt.Before(lockedBefore) {
			continue
		}

		job.Attempts++
		lastErr := model.StaleLeaseError
		job.LastError = &lastErr
		job.LockedAt = nil
		job.UpdatedAt = now

		if job.Attempts >= job.MaxAttempts {
			job.Status = model.JobStatusDeadLettered
			res.DeadLettered++
		} else {
			job.Status = model.JobStatusQueued
			res.Requeued++
		}
	}
	return res, nil
}

func (s *memoryStore) get(id uuid.UUID) model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.jobs[id]
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
