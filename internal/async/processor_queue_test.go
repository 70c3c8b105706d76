package async

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type countingProcessor struct {
	mu   sync.Mutex
	seen []uuid.UUID
}

func (c *countingProcessor) ProcessFile(_ context.Context, fileID uuid.UUID) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, fileID)
	return uuid.New(), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &countingProcessor{}
	q := NewProcessorQueue(proc, discardLogger(), WithWorkers(2), WithQueueSize(16))

	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
		if err := q.Enqueue(context.Background(), Job{FileID: ids[i], SubmittedAt: time.Now()}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.seen) != len(ids) {
		t.Fatalf("processed %d jobs, want %d", len(proc.seen), len(ids))
	}
}

func TestEnqueueAfterShutdownIsNoop(t *testing.T) {
	proc := &countingProcessor{}
	q := NewProcessorQueue(proc, discardLogger(), WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if err := q.Enqueue(context.Background(), Job{FileID: uuid.New()}); err != nil {
		t.Fatalf("enqueue after shutdown should be a silent no-op, got %v", err)
	}
	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.seen) != 0 {
		t.Fatalf("no jobs should run after shutdown, got %d", len(proc.seen))
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	q := NewProcessorQueue(&countingProcessor{}, discardLogger(), WithWorkers(1))
	ctx := context.Background()
	q.Shutdown(ctx)
	q.Shutdown(ctx) // must not panic on double close
}
