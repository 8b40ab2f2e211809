package eventstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const (
	runStatusRunning   = "running"
	runStatusCompleted = "completed"
)

// Kind names mirrored from the render event enum. The journal stores kinds
// as text; the history interprets only the ones below.
const (
	kindBeginRender  = "begin_render"
	kindEndRender    = "end_render"
	kindEndPage      = "end_page"
	kindPrepareIndex = "prepare_index"
)

// RunSummary is a read model over one journaled render run.
type RunSummary struct {
	RunID         string        `json:"run_id"`
	Status        string        `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    *time.Time    `json:"finished_at,omitempty"`
	Duration      time.Duration `json:"duration,omitempty"`
	Output        string        `json:"output,omitempty"`
	PlannedPages  int           `json:"planned_pages"`
	Pages         int           `json:"pages"`
	SearchResults int           `json:"search_results"`
	Events        int           `json:"events"`
}

// RunHistory maintains summaries of recent runs, reconstructed from the
// journal on demand. Runs are short and journaled whole, so the history is
// rebuild-only.
type RunHistory struct {
	mu      sync.RWMutex
	journal Journal
	runs    []RunSummary
}

func NewRunHistory(journal Journal) *RunHistory {
	return &RunHistory{journal: journal}
}

// Rebuild reconstructs the history from the journal, newest run first.
func (h *RunHistory) Rebuild(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = 20
	}
	ids, err := h.journal.Runs(ctx, limit)
	if err != nil {
		return err
	}

	runs := make([]RunSummary, 0, len(ids))
	for _, id := range ids {
		records, err := h.journal.ByRun(ctx, id)
		if err != nil {
			return err
		}
		runs = append(runs, summarize(id, records))
	}

	h.mu.Lock()
	h.runs = runs
	h.mu.Unlock()
	return nil
}

// Summaries returns the reconstructed runs, newest first.
func (h *RunHistory) Summaries() []RunSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]RunSummary(nil), h.runs...)
}

// Latest returns the most recent run.
func (h *RunHistory) Latest() (RunSummary, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.runs) == 0 {
		return RunSummary{}, false
	}
	return h.runs[0], true
}

// summarize folds one run's records into its summary. A run without an
// end_render row stays in running status.
func summarize(runID string, records []Record) RunSummary {
	s := RunSummary{RunID: runID, Status: runStatusRunning, Events: len(records)}
	for _, r := range records {
		switch r.Kind {
		case kindBeginRender:
			s.StartedAt = r.CreatedAt
			var payload struct {
				Pages  int    `json:"pages"`
				Output string `json:"output"`
			}
			if err := json.Unmarshal(r.Payload, &payload); err == nil {
				s.PlannedPages = payload.Pages
				s.Output = payload.Output
			}
		case kindEndPage:
			s.Pages++
		case kindPrepareIndex:
			var payload struct {
				Results int `json:"results"`
			}
			if err := json.Unmarshal(r.Payload, &payload); err == nil {
				s.SearchResults = payload.Results
			}
		case kindEndRender:
			finished := r.CreatedAt
			s.FinishedAt = &finished
			s.Duration = finished.Sub(s.StartedAt)
			s.Status = runStatusCompleted
		}
	}
	return s
}
