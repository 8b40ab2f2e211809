package eventstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docreflect/internal/foundation/errors"
)

// SQLiteJournal implements Journal on a local SQLite database. Use
// ":memory:" for a throwaway journal.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "open event journal").
			WithContext("path", path).Build()
	}

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStorage, "initialize journal schema").Build()
	}
	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS render_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		seq INTEGER NOT NULL,
		payload BLOB,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_render_events_run ON render_events(run_id);
	CREATE INDEX IF NOT EXISTS idx_render_events_kind ON render_events(kind);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append inserts one event row, continuing the run's seq numbering. The
// subquery is safe under the store mutex.
func (j *SQLiteJournal) Append(ctx context.Context, runID, kind string, payload []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO render_events (run_id, kind, seq, payload, created_at)
		 VALUES (?, ?, (SELECT COUNT(*) FROM render_events WHERE run_id = ?), ?, ?)`,
		runID, kind, runID, payload, time.Now().Unix(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStorage, "append journal event").
			WithContext("kind", kind).Build()
	}
	return nil
}

// ByRun returns the run's records in dispatch order.
func (j *SQLiteJournal) ByRun(ctx context.Context, runID string) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, run_id, kind, seq, payload, created_at FROM render_events WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "query journal events").Build()
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Runs returns distinct run ids, newest first by insertion order.
func (j *SQLiteJournal) Runs(ctx context.Context, limit int) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT run_id FROM render_events GROUP BY run_id ORDER BY MAX(id) DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "query journal runs").Build()
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WrapError(err, errors.CategoryStorage, "scan run id").Build()
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "iterate run ids").Build()
	}
	return ids, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Kind, &r.Seq, &r.Payload, &created); err != nil {
			return nil, errors.WrapError(err, errors.CategoryStorage, "scan journal row").Build()
		}
		r.CreatedAt = time.Unix(created, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "iterate journal rows").Build()
	}
	return records, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}
