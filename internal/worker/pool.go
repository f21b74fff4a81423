// Package worker drains the background task queue.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/infrastructure/queue"
)

// Pool manages multiple background workers.
type Pool struct {
	workers     []*Worker
	queue       queue.TaskQueue
	workerCount int
	taskTimeout time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount int
	TaskTimeout time.Duration
}

// NewPool creates a new worker pool.
func NewPool(taskQueue queue.TaskQueue, cfg Config, log zerolog.Logger) *Pool {
	return &Pool{
		queue:       taskQueue,
		workerCount: cfg.WorkerCount,
		taskTimeout: cfg.TaskTimeout,
		log:         log.With().Str("component", "worker-pool").Logger(),
	}
}

// Start initializes and starts all workers.
func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("worker_count", p.workerCount).Msg("starting worker pool")

	p.workers = make([]*Worker, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		w := NewWorker(i+1, p.queue, p.taskTimeout, p.log)
		p.workers[i] = w

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx)
		}(w)
	}
}

// Stop gracefully shuts down all workers.
func (p *Pool) Stop() {
	p.log.Info().Msg("stopping worker pool")

	for _, w := range p.workers {
		w.Stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all workers stopped gracefully")
	case <-time.After(30 * time.Second):
		p.log.Warn().Msg("worker pool shutdown timed out")
	}
}

// QueueDepth returns the current queue depth.
func (p *Pool) QueueDepth() int {
	return p.queue.Depth()
}
