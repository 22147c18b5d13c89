package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyquant/snipebot/internal/domain"
)

type fakeExecutionSink struct {
	inserts []domain.Execution
	batches [][]domain.Execution
	fail    bool
}

func (f *fakeExecutionSink) Insert(_ context.Context, exec domain.Execution) error {
	if f.fail {
		return fmt.Errorf("sink down")
	}
	f.inserts = append(f.inserts, exec)
	return nil
}

func (f *fakeExecutionSink) InsertBatch(_ context.Context, execs []domain.Execution) error {
	if f.fail {
		return fmt.Errorf("sink down")
	}
	f.batches = append(f.batches, execs)
	return nil
}

func execWithID(id string) domain.Execution {
	return domain.Execution{ClientID: id, AssetID: "tkn", Side: domain.SideBuy}
}

func TestExecutionRecorderBatchesAtThreshold(t *testing.T) {
	sink := &fakeExecutionSink{}
	r := newExecutionRecorder(sink)
	ctx := context.Background()

	for i := 0; i < execFlushSize; i++ {
		require.NoError(t, r.Record(ctx, execWithID(fmt.Sprintf("snipe_%d", i))))
	}

	require.Len(t, sink.batches, 1, "a full buffer must flush as one batch")
	assert.Len(t, sink.batches[0], execFlushSize)
	assert.Empty(t, sink.inserts)

	// The next record starts a fresh buffer.
	require.NoError(t, r.Record(ctx, execWithID("snipe_next")))
	assert.Len(t, sink.batches, 1)
}

func TestExecutionRecorderFlushDrainsTail(t *testing.T) {
	sink := &fakeExecutionSink{}
	r := newExecutionRecorder(sink)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, execWithID("snipe_1")))
	require.NoError(t, r.Record(ctx, execWithID("snipe_2")))
	require.NoError(t, r.Flush(ctx))

	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 2)

	// Flushing an empty buffer is a no-op.
	require.NoError(t, r.Flush(ctx))
	assert.Len(t, sink.batches, 1)
}

func TestExecutionRecorderLoneExecutionUsesSingleInsert(t *testing.T) {
	sink := &fakeExecutionSink{}
	r := newExecutionRecorder(sink)

	require.NoError(t, r.Record(context.Background(), execWithID("snipe_1")))
	require.NoError(t, r.Flush(context.Background()))

	assert.Len(t, sink.inserts, 1)
	assert.Empty(t, sink.batches)
}

func TestExecutionRecorderContinuesAfterSinkFailure(t *testing.T) {
	sink := &fakeExecutionSink{fail: true}
	r := newExecutionRecorder(sink)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, execWithID("snipe_1")))
	assert.Error(t, r.Flush(ctx))

	// The failed batch is dropped, not retried; recording keeps working.
	sink.fail = false
	require.NoError(t, r.Record(ctx, execWithID("snipe_2")))
	require.NoError(t, r.Flush(ctx))
	require.Len(t, sink.inserts, 1)
	assert.Equal(t, "snipe_2", sink.inserts[0].ClientID)
}
