package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeFetchSource TaskType = "fetch_source"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSourceName() string
	GetTimeout() time.Duration
	Start()
	GetDuration() time.Duration
}

// Task carries the bookkeeping shared by every task. Tasks are not retried
// within a run; the next run picks the source up again.
type Task struct {
	ID         string
	Type       TaskType
	SourceName string
	Timeout    time.Duration
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSourceName() string {
	return t.SourceName
}

func (t *Task) GetTimeout() time.Duration {
	return t.Timeout
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, sourceName string, timeout time.Duration) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		SourceName: sourceName,
		Timeout:    timeout,
	}
}
