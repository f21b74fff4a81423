package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/infrastructure/queue"
)

// Worker processes background tasks from the queue.
type Worker struct {
	id          int
	queue       queue.TaskQueue
	taskTimeout time.Duration
	log         zerolog.Logger
	stopChan    chan struct{}
}

// NewWorker creates a new background worker.
func NewWorker(id int, taskQueue queue.TaskQueue, taskTimeout time.Duration, log zerolog.Logger) *Worker {
	return &Worker{
		id:          id,
		queue:       taskQueue,
		taskTimeout: taskTimeout,
		log:         log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Start begins processing tasks from the queue.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextTask(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextTask(ctx context.Context) {
	task := w.queue.Dequeue()
	if task == nil {
		return
	}

	w.log.Info().
		Str("task_id", task.ID).
		Dur("queued_for", time.Since(task.QueuedAt)).
		Msg("processing background task")

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	task.Run(taskCtx)

	w.log.Info().Str("task_id", task.ID).Msg("background task finished")
}
