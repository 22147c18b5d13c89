package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyquant/snipebot/internal/domain"
)

// ExecutionStore persists simulated executions for offline analysis. It is
// audit output only; the strategy never reads it back.
type ExecutionStore struct {
	pool *pgxpool.Pool
}

// NewExecutionStore creates an ExecutionStore backed by the given pool.
func NewExecutionStore(pool *pgxpool.Pool) *ExecutionStore {
	return &ExecutionStore{pool: pool}
}

// EnsureSchema creates the executions table if it does not exist.
func (s *ExecutionStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS executions (
			id            BIGSERIAL PRIMARY KEY,
			client_id     TEXT NOT NULL,
			asset_id      TEXT NOT NULL,
			side          TEXT NOT NULL,
			amount        NUMERIC NOT NULL,
			status        TEXT NOT NULL,
			total_size    NUMERIC NOT NULL,
			average_price NUMERIC NOT NULL,
			slippage_pct  NUMERIC NOT NULL,
			fee           NUMERIC NOT NULL,
			latency_ms    DOUBLE PRECISION NOT NULL,
			executed_at   TIMESTAMPTZ NOT NULL,
			UNIQUE (client_id)
		)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure executions schema: %w", err)
	}
	return nil
}

const insertExecution = `
	INSERT INTO executions (
		client_id, asset_id, side, amount,
		status, total_size, average_price, slippage_pct, fee,
		latency_ms, executed_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9,
		$10, $11
	) ON CONFLICT (client_id) DO NOTHING`

// Insert records a single execution. Re-inserting the same client ID is a
// no-op.
func (s *ExecutionStore) Insert(ctx context.Context, exec domain.Execution) error {
	_, err := s.pool.Exec(ctx, insertExecution,
		exec.ClientID, exec.AssetID, string(exec.Side), exec.Amount,
		string(exec.Result.Status), exec.Result.TotalSize, exec.Result.AveragePrice,
		exec.Result.SlippagePct, exec.Result.Fee,
		exec.LatencyMS, exec.At,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert execution %s: %w", exec.ClientID, err)
	}
	return nil
}

// InsertBatch records multiple executions efficiently using a pgx Batch.
func (s *ExecutionStore) InsertBatch(ctx context.Context, execs []domain.Execution) error {
	if len(execs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, exec := range execs {
		batch.Queue(insertExecution,
			exec.ClientID, exec.AssetID, string(exec.Side), exec.Amount,
			string(exec.Result.Status), exec.Result.TotalSize, exec.Result.AveragePrice,
			exec.Result.SlippagePct, exec.Result.Fee,
			exec.LatencyMS, exec.At,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range execs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: batch insert executions: %w", err)
		}
	}
	return nil
}
