// Package jobstatus tracks asynchronous request state in process memory.
package jobstatus

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/status"
	"newsagents/services/chat-api/internal/infrastructure/metrics"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// MemoryStore is an in-memory status.Tracker. Reads never block writers
// beyond the RWMutex critical section, and every returned entry is a copy
// so callers observe the pre- or post-write state atomically.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]*status.Entry
	retention time.Duration
	log       zerolog.Logger
}

// NewMemoryStore builds the store. Terminal entries older than retention
// are evicted by the janitor.
func NewMemoryStore(retention time.Duration, log zerolog.Logger) *MemoryStore {
	if retention <= 0 {
		retention = time.Hour
	}
	return &MemoryStore{
		entries:   make(map[string]*status.Entry),
		retention: retention,
		log:       log.With().Str("component", "jobstatus-store").Logger(),
	}
}

// Start registers the request in StatusProcessing. Registering the same id
// twice is a conflict.
func (s *MemoryStore) Start(ctx context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[requestID]; exists {
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeConflict,
			"request id already tracked", nil)
	}

	now := time.Now().UTC()
	s.entries[requestID] = &status.Entry{
		RequestID: requestID,
		State:     status.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	metrics.TrackedJobs.WithLabelValues(status.StatusProcessing.String()).Inc()
	return nil
}

// Complete transitions the request to StatusCompleted.
func (s *MemoryStore) Complete(ctx context.Context, requestID string, result interface{}) error {
	return s.transition(ctx, requestID, status.StatusCompleted, func(e *status.Entry) {
		e.Result = result
	})
}

// Fail transitions the request to StatusFailed with an error summary.
func (s *MemoryStore) Fail(ctx context.Context, requestID string, reason string) error {
	return s.transition(ctx, requestID, status.StatusFailed, func(e *status.Entry) {
		e.Error = reason
	})
}

// Get returns a copy of the current entry or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, requestID string) (*status.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[requestID]
	if !ok {
		return nil, status.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

// StartJanitor evicts expired terminal entries until ctx is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	interval := s.retention / 10
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictExpired()
			}
		}
	}()
}

func (s *MemoryStore) evictExpired() {
	cutoff := time.Now().UTC().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		if entry.State.IsTerminal() && entry.UpdatedAt.Before(cutoff) {
			metrics.TrackedJobs.WithLabelValues(entry.State.String()).Dec()
			delete(s.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Debug().Int("evicted", evicted).Msg("expired job status entries removed")
	}
}

func (s *MemoryStore) transition(ctx context.Context, requestID string, target status.Status, apply func(*status.Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[requestID]
	if !ok {
		return status.ErrNotFound
	}

	next, err := entry.State.TransitionTo(target)
	if err != nil {
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeConflict,
			"status transition rejected", err)
	}

	metrics.TrackedJobs.WithLabelValues(entry.State.String()).Dec()
	metrics.TrackedJobs.WithLabelValues(next.String()).Inc()

	entry.State = next
	entry.UpdatedAt = time.Now().UTC()
	apply(entry)
	return nil
}

// Ensure interface compliance.
var _ status.Tracker = (*MemoryStore)(nil)
