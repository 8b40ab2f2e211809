package render

import (
	"git.home.luguber.info/inful/docreflect/internal/markdown"
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

// PageSection groups the headings registered while it was active. A page
// always starts with exactly one untitled section.
type PageSection struct {
	Title    string
	Headings []markdown.Heading
}

// PageEvent is the per-page record, created just before BeginPage fires and
// discarded after EndPage. The model is fixed at construction; Contents is
// empty at BeginPage and must be filled by content generation before
// EndPage.
type PageEvent struct {
	Project  *model.Project
	Filename string
	URL      string
	PageKind router.PageKind

	// Contents is the rendered page markup.
	Contents string

	model    any
	sections []PageSection
	active   int
}

func NewPageEvent(project *model.Project, def router.PageDefinition) *PageEvent {
	return &PageEvent{
		Project:  project,
		Filename: def.Filename,
		URL:      def.URL,
		PageKind: def.Kind,
		model:    def.Model,
		sections: []PageSection{{}},
	}
}

func (*PageEvent) event() {}

// Model returns the page's model as planned by the router.
func (e *PageEvent) Model() any { return e.model }

// ReflectionModel narrows the model without a cast: ok is true iff the page
// was planned around a reflection.
func (e *PageEvent) ReflectionModel() (model.Reflection, bool) {
	refl, ok := e.model.(model.Reflection)
	return refl, ok
}

// StartNewSection appends a titled section and makes its headings slice the
// active collector. The collector is addressed by index, so later appends
// land in the section itself rather than a detached copy.
func (e *PageEvent) StartNewSection(title string) {
	e.sections = append(e.sections, PageSection{Title: title})
	e.active = len(e.sections) - 1
}

// PushHeading records a heading in the active collector, which is always
// the headings slice of the last section.
func (e *PageEvent) PushHeading(h markdown.Heading) {
	s := &e.sections[e.active]
	s.Headings = append(s.Headings, h)
}

// Headings returns the active collector's contents.
func (e *PageEvent) Headings() []markdown.Heading {
	return e.sections[e.active].Headings
}

// Sections returns every section in creation order. Never empty.
func (e *PageEvent) Sections() []PageSection {
	return e.sections
}
