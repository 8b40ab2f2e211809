package validation

import "fmt"

// Source identifies where a broken link was found. The wording of a
// diagnostic depends on it so users know which artifact to fix.
type Source string

const (
	SourceReadme       Source = "readme"
	SourceDocument     Source = "document"
	SourceComment      Source = "comment"
	SourceUnionSummary Source = "union_summary"
)

// MessagePair is the two template variants for one link source. Plain takes
// the link text and the reflection's friendly full name; Suggestion takes
// those plus the rewritten link text.
type MessagePair struct {
	Plain      string
	Suggestion string
}

// Catalog maps each link source onto its message pair. Catalogs are passed
// into the validator explicitly; a missing entry falls back to English.
type Catalog map[Source]MessagePair

// English is the default catalog.
var English = Catalog{
	SourceReadme: {
		Plain:      "Failed to resolve link to %q in readme for %s",
		Suggestion: "Failed to resolve link to %q in readme for %s. You may have meant %q",
	},
	SourceDocument: {
		Plain:      "Failed to resolve link to %q in document %s",
		Suggestion: "Failed to resolve link to %q in document %s. You may have meant %q",
	},
	SourceComment: {
		Plain:      "Failed to resolve link to %q in comment for %s",
		Suggestion: "Failed to resolve link to %q in comment for %s. You may have meant %q",
	},
	SourceUnionSummary: {
		Plain:      "Failed to resolve link to %q in union member summary for %s",
		Suggestion: "Failed to resolve link to %q in union member summary for %s. You may have meant %q",
	},
}

// Format renders the plain variant for src.
func (c Catalog) Format(src Source, link, name string) string {
	return fmt.Sprintf(c.pair(src).Plain, link, name)
}

// FormatSuggestion renders the with-suggestion variant for src.
func (c Catalog) FormatSuggestion(src Source, link, name, suggestion string) string {
	return fmt.Sprintf(c.pair(src).Suggestion, link, name, suggestion)
}

func (c Catalog) pair(src Source) MessagePair {
	if p, ok := c[src]; ok {
		return p
	}
	return English[src]
}
