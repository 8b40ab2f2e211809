package eventstore

import (
	"bytes"
	"path/filepath"
	"testing"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournalAppendAndReadBack(t *testing.T) {
	j := newTestJournal(t)
	ctx := t.Context()

	kinds := []string{"begin_render", "begin_page", "end_page"}
	for _, kind := range kinds {
		if err := j.Append(ctx, "run-1", kind, []byte(`{"url":"index.html"}`)); err != nil {
			t.Fatalf("append %s: %v", kind, err)
		}
	}

	records, err := j.ByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, r := range records {
		if r.Kind != kinds[i] {
			t.Errorf("record %d kind = %q, want %q", i, r.Kind, kinds[i])
		}
		if r.Seq != i {
			t.Errorf("record %d seq = %d, want %d", i, r.Seq, i)
		}
		if r.RunID != "run-1" {
			t.Errorf("record %d run = %q", i, r.RunID)
		}
	}
	if !bytes.Equal(records[0].Payload, []byte(`{"url":"index.html"}`)) {
		t.Errorf("payload = %s", records[0].Payload)
	}
}

func TestJournalSeqPerRun(t *testing.T) {
	j := newTestJournal(t)
	ctx := t.Context()

	// Interleave two runs; each keeps its own numbering.
	appends := []struct{ run, kind string }{
		{"run-a", "begin_render"},
		{"run-b", "begin_render"},
		{"run-a", "end_render"},
		{"run-b", "end_render"},
	}
	for _, a := range appends {
		if err := j.Append(ctx, a.run, a.kind, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	for _, run := range []string{"run-a", "run-b"} {
		records, err := j.ByRun(ctx, run)
		if err != nil {
			t.Fatalf("read %s: %v", run, err)
		}
		if len(records) != 2 || records[0].Seq != 0 || records[1].Seq != 1 {
			t.Errorf("%s seqs wrong: %+v", run, records)
		}
	}
}

func TestJournalRunsNewestFirst(t *testing.T) {
	j := newTestJournal(t)
	ctx := t.Context()

	for _, run := range []string{"run-1", "run-2", "run-3"} {
		if err := j.Append(ctx, run, "begin_render", nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	runs, err := j.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 || runs[0] != "run-3" || runs[1] != "run-2" {
		t.Errorf("runs = %v", runs)
	}
}

func TestJournalByRunEmpty(t *testing.T) {
	j := newTestJournal(t)

	records, err := j.ByRun(t.Context(), "missing")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestJournalPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	if err := j.Append(t.Context(), "run-1", "begin_render", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	records, err := reopened.ByRun(t.Context(), "run-1")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(records))
	}
}
