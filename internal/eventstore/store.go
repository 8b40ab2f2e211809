// Package eventstore persists the render event journal: one row per
// dispatched event, so dispatch order can be inspected after a run.
package eventstore

import (
	"context"
	"time"
)

// Record is one journaled event.
type Record struct {
	ID        int64
	RunID     string
	Kind      string
	Seq       int
	Payload   []byte
	CreatedAt time.Time
}

// Journal persists dispatched render events and reads them back per run.
// The renderer appends through the narrow subset it declares itself; the
// read side exists for inspection and the run history.
type Journal interface {
	// Append adds one event row. Per-run seq numbering is assigned by the
	// store.
	Append(ctx context.Context, runID, kind string, payload []byte) error

	// ByRun returns a run's records in dispatch order.
	ByRun(ctx context.Context, runID string) ([]Record, error)

	// Runs returns up to limit distinct run ids, newest first.
	Runs(ctx context.Context, limit int) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}
