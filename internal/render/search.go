package render

import (
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

// Built-in search fields and their default weights. Name relevance
// dominates body text by an order of magnitude.
const (
	FieldName     = "name"
	FieldComment  = "comment"
	FieldDocument = "document"
)

// SearchResult is one searchable entry, built from declarations and
// documents only.
type SearchResult struct {
	ID     model.ReflectionID `json:"id"`
	Kind   model.Kind         `json:"kind"`
	Name   string             `json:"name"`
	URL    string             `json:"url"`
	Parent string             `json:"parent,omitempty"`
}

// IndexEvent is fired once per run at PrepareIndex. Results and Fields are
// parallel and index-aligned at all times; RemoveResult is the only
// sanctioned shrink. Listeners add field values and weight keys; they must
// not replace the weight map and should not insert new results.
type IndexEvent struct {
	// Project is the graph the results came from, for listeners that look
	// entries up by id.
	Project *model.Project

	Results      []SearchResult
	Fields       []map[string]string
	FieldWeights map[string]float64
}

func (*IndexEvent) event() {}

// NewIndexEvent initializes one empty field record per result and seeds the
// built-in field weights.
func NewIndexEvent(results []SearchResult) *IndexEvent {
	fields := make([]map[string]string, len(results))
	for i := range fields {
		fields[i] = make(map[string]string)
	}
	return &IndexEvent{
		Results: results,
		Fields:  fields,
		FieldWeights: map[string]float64{
			FieldName:     10,
			FieldComment:  1,
			FieldDocument: 1,
		},
	}
}

// RemoveResult removes the entry at i from Results and Fields together,
// preserving order.
func (e *IndexEvent) RemoveResult(i int) {
	e.Results = append(e.Results[:i], e.Results[i+1:]...)
	e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
}

// SetField records a custom field value for the entry at i. Fields are
// invisible to search unless FieldWeights also carries the key.
func (e *IndexEvent) SetField(i int, key, value string) {
	e.Fields[i][key] = value
}

// BuildSearchCandidates collects every routed declaration and document into
// search results, in id order. Unrouted nodes are skipped.
func BuildSearchCandidates(p *model.Project, rt *router.Router) []SearchResult {
	var out []SearchResult
	for _, refl := range p.All() {
		switch refl.(type) {
		case *model.Declaration, *model.Document:
		default:
			continue
		}
		url, ok := rt.URLFor(refl)
		if !ok {
			continue
		}
		base := refl.Base()
		res := SearchResult{ID: base.ID, Kind: base.Kind, Name: base.Name, URL: url}
		if parent := base.Parent; parent != nil {
			if _, isRoot := parent.(*model.Project); !isRoot {
				res.Parent = parent.Base().FriendlyFullName()
			}
		}
		out = append(out, res)
	}
	return out
}
