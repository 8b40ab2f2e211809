package render

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

// Journal persists dispatched events. Subset of the event store interface
// to avoid a dependency cycle.
type Journal interface {
	Append(ctx context.Context, runID, kind string, payload []byte) error
}

// Recorder is the metrics capability the renderer needs.
type Recorder interface {
	ObserveRenderDuration(seconds float64)
	ObservePageDuration(kind string, seconds float64)
	IncPagesRendered(kind string)
	IncEventsDispatched(kind string)
	SetSearchIndexSize(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRenderDuration(float64)       {}
func (noopRecorder) ObservePageDuration(string, float64) {}
func (noopRecorder) IncPagesRendered(string)             {}
func (noopRecorder) IncEventsDispatched(string)          {}
func (noopRecorder) SetSearchIndexSize(int)              {}

// ContentGenerator produces the markup for one page between its begin and
// end events. The default theme implements it.
type ContentGenerator interface {
	GeneratePage(r *Renderer, page *PageEvent) error
}

// Renderer fires the run's events in their fixed order: BeginRender once,
// then per page BeginPage, content generation and EndPage strictly in plan
// order, then PrepareIndex exactly once, then EndRender last. Everything is
// synchronous; a listener error aborts the run.
type Renderer struct {
	Bus    *Bus
	Router *router.Router

	// Output is the site root. Empty means dry run: events fire but no
	// file is written.
	Output string

	Theme         ContentGenerator
	SearchIndex   bool
	SearchWeights map[string]float64
	Journal       Journal
	Metrics       Recorder

	runID string
}

func NewRenderer(bus *Bus, rt *router.Router, output string) *Renderer {
	return &Renderer{Bus: bus, Router: rt, Output: output}
}

// RunID identifies the current (or last) run.
func (r *Renderer) RunID() string { return r.runID }

func (r *Renderer) Run(ctx context.Context, project *model.Project) error {
	r.runID = uuid.NewString()
	start := time.Now()

	pages := r.Router.PageDefinitions(project)
	slog.Info("Render started",
		logfields.RunID(r.runID),
		logfields.Count(len(pages)))

	ev := &RendererEvent{Project: project, OutputDirectory: r.Output, Pages: pages}
	if err := r.fire(BeginRender, ev); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "begin render").Build()
	}

	for _, def := range ev.Pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.renderPage(project, def); err != nil {
			return err
		}
	}

	idx := NewIndexEvent(BuildSearchCandidates(project, r.Router))
	idx.Project = project
	for field, weight := range r.SearchWeights {
		idx.FieldWeights[field] = weight
	}
	if err := r.fire(PrepareIndex, idx); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "prepare search index").Build()
	}
	r.recorder().SetSearchIndexSize(len(idx.Results))

	if err := r.fire(EndRender, ev); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "end render").Build()
	}

	if r.SearchIndex {
		if err := r.writeSearchIndex(idx); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	r.recorder().ObserveRenderDuration(elapsed.Seconds())
	slog.Info("Render finished",
		logfields.RunID(r.runID),
		logfields.Count(len(ev.Pages)),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

func (r *Renderer) renderPage(project *model.Project, def router.PageDefinition) error {
	start := time.Now()
	page := NewPageEvent(project, def)

	if err := r.fire(BeginPage, page); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "begin page").WithContext("page", def.URL).Build()
	}
	if r.Theme != nil {
		if err := r.Theme.GeneratePage(r, page); err != nil {
			return errors.WrapError(err, errors.CategoryTheme, "generate page").WithContext("page", def.URL).Build()
		}
	}
	if err := r.fire(EndPage, page); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "end page").WithContext("page", def.URL).Build()
	}

	if err := r.writePage(def.Filename, page.Contents); err != nil {
		return err
	}

	kind := def.Kind.String()
	r.recorder().IncPagesRendered(kind)
	r.recorder().ObservePageDuration(kind, time.Since(start).Seconds())
	slog.Debug("Rendered page", logfields.RunID(r.runID), logfields.Page(def.URL))
	return nil
}

// RenderMarkdown runs text through the markdown-parse channel and returns
// the final ParsedText after all listeners ran.
func (r *Renderer) RenderMarkdown(page *PageEvent, text string) (string, error) {
	ev := &MarkdownEvent{Page: page, OriginalText: text, ParsedText: text}
	if err := r.fire(ParseMarkdown, ev); err != nil {
		return "", err
	}
	return ev.ParsedText, nil
}

// fire journals, counts and emits one event. Journal failures degrade to a
// warning; the run goes on.
func (r *Renderer) fire(kind Kind, e Event) error {
	if r.Journal != nil {
		if err := r.Journal.Append(context.Background(), r.runID, kind.String(), journalPayload(e)); err != nil {
			slog.Warn("Event journal append failed",
				logfields.Event(kind.String()),
				logfields.Error(err))
		}
	}
	r.recorder().IncEventsDispatched(kind.String())
	return r.Bus.Emit(kind, e)
}

func (r *Renderer) writePage(filename, contents string) error {
	if r.Output == "" {
		return nil
	}
	path := filepath.Join(r.Output, filepath.FromSlash(filename))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create page directory").WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write page").WithContext("path", path).Build()
	}
	return nil
}

type searchIndexFile struct {
	Results []SearchResult      `json:"results"`
	Fields  []map[string]string `json:"fields"`
	Weights map[string]float64  `json:"weights"`
}

func (r *Renderer) writeSearchIndex(idx *IndexEvent) error {
	if r.Output == "" {
		return nil
	}
	data, err := json.MarshalIndent(searchIndexFile{
		Results: idx.Results,
		Fields:  idx.Fields,
		Weights: idx.FieldWeights,
	}, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "encode search index").Build()
	}
	path := filepath.Join(r.Output, "search.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write search index").WithContext("path", path).Build()
	}
	slog.Debug("Wrote search index", logfields.Path(path), logfields.Count(len(idx.Results)))
	return nil
}

func journalPayload(e Event) []byte {
	var v any
	switch ev := e.(type) {
	case *RendererEvent:
		v = map[string]any{"pages": len(ev.Pages), "output": ev.OutputDirectory}
	case *PageEvent:
		v = map[string]any{"url": ev.URL, "kind": ev.PageKind.String()}
	case *MarkdownEvent:
		url := ""
		if ev.Page != nil {
			url = ev.Page.URL
		}
		v = map[string]any{"url": url}
	case *IndexEvent:
		v = map[string]any{"results": len(ev.Results)}
	default:
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func (r *Renderer) recorder() Recorder {
	if r.Metrics != nil {
		return r.Metrics
	}
	return noopRecorder{}
}
