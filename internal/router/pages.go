package router

import "git.home.luguber.info/inful/docreflect/internal/model"

// Target is any node the router may assign a page or anchor to: the project
// root, declarations, and documents.
type Target = model.Reflection

// PageKind classifies a planned page.
type PageKind uint8

const (
	PageIndex PageKind = iota
	PageReflection
	PageDocument
)

func (k PageKind) String() string {
	switch k {
	case PageIndex:
		return "index"
	case PageReflection:
		return "reflection"
	case PageDocument:
		return "document"
	}
	return "unknown"
}

// PageDefinition is one planned output page. Immutable once constructed;
// mutable per-page state lives on the render event, not here.
type PageDefinition struct {
	URL      string
	Filename string
	Kind     PageKind
	Model    Target
}

func pageKindOf(k model.Kind) PageKind {
	if k == model.KindDocument {
		return PageDocument
	}
	return PageReflection
}
