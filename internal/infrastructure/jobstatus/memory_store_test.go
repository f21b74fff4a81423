package jobstatus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/status"
)

func TestLifecycle(t *testing.T) {
	store := NewMemoryStore(time.Hour, zerolog.Nop())
	ctx := context.Background()

	if err := store.Start(ctx, "req-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	entry, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.State != status.StatusProcessing {
		t.Fatalf("expected processing, got %s", entry.State)
	}

	if err := store.Complete(ctx, "req-1", "result ref"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	entry, err = store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("get after complete: %v", err)
	}
	if entry.State != status.StatusCompleted {
		t.Fatalf("expected completed, got %s", entry.State)
	}
	if entry.Result != "result ref" {
		t.Errorf("expected result reference kept, got %v", entry.Result)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	store := NewMemoryStore(time.Hour, zerolog.Nop())
	ctx := context.Background()

	if err := store.Start(ctx, "req-2"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := store.Fail(ctx, "req-2", "model down"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	if err := store.Complete(ctx, "req-2", nil); err == nil {
		t.Fatal("expected transition out of failed to be rejected")
	}

	entry, err := store.Get(ctx, "req-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.State != status.StatusFailed || entry.Error != "model down" {
		t.Fatalf("terminal state must be stable, got %+v", entry)
	}
}

func TestUnknownID(t *testing.T) {
	store := NewMemoryStore(time.Hour, zerolog.Nop())

	_, err := store.Get(context.Background(), "never-seen")
	if !errors.Is(err, status.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateStart(t *testing.T) {
	store := NewMemoryStore(time.Hour, zerolog.Nop())
	ctx := context.Background()

	if err := store.Start(ctx, "req-3"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := store.Start(ctx, "req-3"); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestEviction(t *testing.T) {
	store := NewMemoryStore(10*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	if err := store.Start(ctx, "old"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := store.Complete(ctx, "old", nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.Start(ctx, "still-processing"); err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	store.evictExpired()

	if _, err := store.Get(ctx, "old"); !errors.Is(err, status.ErrNotFound) {
		t.Fatalf("expected expired terminal entry evicted, got %v", err)
	}
	if _, err := store.Get(ctx, "still-processing"); err != nil {
		t.Fatal("non-terminal entries must survive eviction")
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	store := NewMemoryStore(time.Hour, zerolog.Nop())
	ctx := context.Background()

	if err := store.Start(ctx, "req-4"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = store.Complete(ctx, "req-4", "done")
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			entry, err := store.Get(ctx, "req-4")
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			if entry.State != status.StatusProcessing && entry.State != status.StatusCompleted {
				t.Errorf("observed partial state %q", entry.State)
				return
			}
		}
	}()
	wg.Wait()
}
