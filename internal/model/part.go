// Package model defines the documentation model produced by the upstream
// source parser: a project-rooted graph of reflections, the structured
// comments attached to them, and the typed display parts comments are made of.
//
// The model is read-only once built. Validation and rendering traverse it but
// never mutate it.
package model

import (
	"strings"

	"git.home.luguber.info/inful/docreflect/internal/util/sets"
)

// PartKind discriminates the display part variants.
type PartKind string

const (
	PartText      PartKind = "text"
	PartCode      PartKind = "code"
	PartInlineTag PartKind = "inline-tag"
)

// Part is one typed fragment of comment text. The union is closed: consumers
// switch over all three variants and must be extended when a variant is added.
type Part interface {
	Kind() PartKind
}

// TextPart is literal prose.
type TextPart struct {
	Text string
}

func (TextPart) Kind() PartKind { return PartText }

// CodePart is a literal code span, rendered verbatim in backticks.
type CodePart struct {
	Text string
}

func (CodePart) Kind() PartKind { return PartCode }

// InlineTagPart is an inline tag such as a cross-reference link. Target is nil
// until resolution assigns one; a *SymbolID target means the link was
// recognized syntactically but never bound to a declaration.
type InlineTagPart struct {
	Tag    string
	Text   string
	Target InlineTarget
}

func (InlineTagPart) Kind() PartKind { return PartInlineTag }

// Broken reports whether the part is a link tag that never resolved: the
// target is either absent or still the unresolved symbol placeholder.
func (p InlineTagPart) Broken() bool {
	if !IsLinkTag(p.Tag) {
		return false
	}
	if p.Target == nil {
		return true
	}
	_, unresolved := p.Target.(*SymbolID)
	return unresolved
}

// InlineTarget is the destination an inline tag resolved to. The union is
// closed; nil means no target was ever assigned.
type InlineTarget interface {
	inlineTarget()
}

// SymbolID is the unresolved placeholder: the resolver recognized a symbol
// reference but could not bind it to any known declaration.
type SymbolID struct {
	FileName      string
	QualifiedName string
}

func (*SymbolID) inlineTarget() {}

// ReflectionTarget binds a link to a reflection in the same project by id.
type ReflectionTarget ReflectionID

func (ReflectionTarget) inlineTarget() {}

// URLTarget binds a link to an external URL.
type URLTarget string

func (URLTarget) inlineTarget() {}

// linkTags are the inline tag spellings that cross-reference another
// reflection. Other inline tags (e.g. @label) never count as links.
var linkTags = sets.New("@link", "@linkcode", "@linkplain")

// IsLinkTag reports whether tag is one of the recognized link tag spellings.
func IsLinkTag(tag string) bool { return linkTags.Has(tag) }

// PlainText flattens a part sequence to prose for search text and log output.
// Inline tags contribute their display text, never their target.
func PlainText(parts []Part) string {
	var b strings.Builder
	for _, part := range parts {
		switch p := part.(type) {
		case TextPart:
			b.WriteString(p.Text)
		case CodePart:
			b.WriteString(p.Text)
		case InlineTagPart:
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
