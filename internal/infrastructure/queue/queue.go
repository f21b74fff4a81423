// Package queue buffers background tasks for the worker pool.
package queue

import (
	"context"
	"time"
)

// Task is one unit of deferred work.
type Task struct {
	ID       string
	Run      func(ctx context.Context)
	QueuedAt time.Time
}

// TaskQueue defines the interface for task queue operations.
type TaskQueue interface {
	// Enqueue adds a task, failing when the queue is full.
	Enqueue(run func(ctx context.Context)) error

	// Dequeue returns the next task or nil when the queue is empty.
	Dequeue() *Task

	// Depth returns the number of queued tasks.
	Depth() int
}
