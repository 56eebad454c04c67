package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued       JobStatus = "queued"        // Ожидает обработки
	JobStatusProcessing   JobStatus = "processing"    // Взята обработчиком
	JobStatusDone         JobStatus = "done"          // Успешно выполнена
	JobStatusFailed       JobStatus = "failed"        // Неисправимая ошибка, без повторов
	JobStatusDeadLettered JobStatus = "dead_lettered" // Исчерпаны попытки
)

// ErrLeaseLost задача больше не принадлежит обработчику: lease истёк и её забрали заново
var ErrLeaseLost = errors.New("job lease lost")

// StaleLeaseError last_error задачи, возвращённой в очередь после истечения lease
const StaleLeaseError = "processing lease expired"

// StaleRecovery итог возврата зависших задач
type StaleRecovery struct {
	Requeued     int64
	DeadLettered int64
}

type Job struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      JobStatus       `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	RunAt       time.Time       `json:"run_at"`
	LockedAt    *time.Time      `json:"locked_at"`
	LastError   *string         `json:"last_error"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
