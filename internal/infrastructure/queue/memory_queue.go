package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/infrastructure/metrics"
)

// ErrQueueFull is returned when the queue cannot accept more tasks.
var ErrQueueFull = errors.New("background queue is full")

// MemoryQueue is a bounded in-process task queue.
type MemoryQueue struct {
	tasks chan *Task
	log   zerolog.Logger
}

// NewMemoryQueue builds a queue holding up to capacity tasks.
func NewMemoryQueue(capacity int, log zerolog.Logger) *MemoryQueue {
	if capacity <= 0 {
		capacity = 128
	}
	return &MemoryQueue{
		tasks: make(chan *Task, capacity),
		log:   log.With().Str("component", "memory-queue").Logger(),
	}
}

// Enqueue adds a task without blocking. A full queue rejects the task so
// the caller can fail the request instead of stalling it.
func (q *MemoryQueue) Enqueue(run func(ctx context.Context)) error {
	task := &Task{
		ID:       uuid.NewString(),
		Run:      run,
		QueuedAt: time.Now().UTC(),
	}
	select {
	case q.tasks <- task:
		metrics.QueueDepth.Set(float64(len(q.tasks)))
		q.log.Debug().Str("task_id", task.ID).Msg("task queued")
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue returns the next task or nil when the queue is empty.
func (q *MemoryQueue) Dequeue() *Task {
	select {
	case task := <-q.tasks:
		metrics.QueueDepth.Set(float64(len(q.tasks)))
		return task
	default:
		return nil
	}
}

// Depth returns the number of queued tasks.
func (q *MemoryQueue) Depth() int {
	return len(q.tasks)
}

// Ensure interface compliance.
var _ TaskQueue = (*MemoryQueue)(nil)
