package app

import (
	"context"
	"sync"

	"github.com/polyquant/snipebot/internal/domain"
)

// execFlushSize is how many buffered executions trigger a batch flush.
const execFlushSize = 16

// executionSink is the storage surface the recorder writes to.
type executionSink interface {
	Insert(ctx context.Context, exec domain.Execution) error
	InsertBatch(ctx context.Context, execs []domain.Execution) error
}

// ExecutionRecorder buffers executions on the hook path and writes them out
// in batches, one round trip per execFlushSize executions instead of one per
// execution. Flush must be called on shutdown to drain the tail.
type ExecutionRecorder struct {
	sink executionSink

	mu  sync.Mutex
	buf []domain.Execution
}

func newExecutionRecorder(sink executionSink) *ExecutionRecorder {
	return &ExecutionRecorder{sink: sink}
}

// Record buffers one execution, flushing when the buffer is full.
func (r *ExecutionRecorder) Record(ctx context.Context, exec domain.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, exec)
	if len(r.buf) < execFlushSize {
		return nil
	}
	return r.flushLocked(ctx)
}

// Flush drains whatever is buffered.
func (r *ExecutionRecorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked(ctx)
}

// flushLocked hands the buffer to the sink. A failed write drops the batch
// rather than retrying it; audit output must not poison the event path.
func (r *ExecutionRecorder) flushLocked(ctx context.Context) error {
	if len(r.buf) == 0 {
		return nil
	}
	batch := r.buf
	r.buf = nil
	if len(batch) == 1 {
		return r.sink.Insert(ctx, batch[0])
	}
	return r.sink.InsertBatch(ctx, batch)
}
