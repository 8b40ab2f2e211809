// Package validation surfaces resolution failures already encoded in a built
// reflection graph. It never mutates the graph and never re-resolves a link;
// broken cross-references become warnings, optional NATS reports, and
// counters, nothing fatal.
package validation

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docreflect/internal/logfields"
	"git.home.luguber.info/inful/docreflect/internal/model"
)

// Logger receives one warning per broken link.
type Logger interface {
	Warn(msg string)
}

// DiagnosticLogger is an optional upgrade of Logger: implementations receive
// the structured form of each finding instead of just the rendered message.
type DiagnosticLogger interface {
	WarnDiagnostic(d Diagnostic)
}

// BrokenLinkCounter is the metrics capability the validator needs.
type BrokenLinkCounter interface {
	IncBrokenLink(source string)
}

// Diagnostic is one broken-link finding.
type Diagnostic struct {
	Source     Source
	Link       string
	Reflection string
	Suggestion string
	Message    string
}

// Validator runs the broken-link pass. Logger is the only required
// collaborator; Reporter and Metrics are optional sinks.
type Validator struct {
	Catalog  Catalog
	Logger   Logger
	Reporter Reporter
	Metrics  BrokenLinkCounter
}

// ValidateLinks checks every reflection of project for unresolved link tags
// and emits one warning per finding through logger.
func ValidateLinks(project *model.Project, logger Logger) {
	(&Validator{Logger: logger}).Validate(project)
}

// Validate walks the reflections index in id order. The project root is
// checked explicitly when it is not a key of its own index, so the root's
// readme and comment links are never skipped.
func (v *Validator) Validate(project *model.Project) {
	for _, r := range project.All() {
		v.checkReflection(r)
	}
	if _, ok := project.Reflections[project.ID]; !ok {
		v.checkReflection(project)
	}
}

func (v *Validator) checkReflection(r model.Reflection) {
	name := r.Base().FriendlyFullName()

	switch node := r.(type) {
	case *model.Project:
		v.emit(SourceReadme, brokenPartLinks(node.Readme), name)
	case *model.Declaration:
		v.emit(SourceReadme, brokenPartLinks(node.Readme), name)
		if node.Kind == model.KindTypeAlias {
			if u, ok := node.Type.(model.UnionType); ok {
				for _, summary := range u.ElementSummaries {
					v.emit(SourceUnionSummary, brokenPartLinks(summary), name)
				}
			}
		}
	case *model.Document:
		v.emit(SourceDocument, brokenPartLinks(node.Content), name)
	}

	v.emit(SourceComment, brokenPartLinks(r.Base().Comment.Parts()), name)
}

// brokenPartLinks collects the trimmed text of every link tag whose target
// is absent or an unbound symbol placeholder. Any other non-nil target was
// resolved upstream and is excluded.
func brokenPartLinks(parts []model.Part) []string {
	var out []string
	for _, part := range parts {
		tag, ok := part.(model.InlineTagPart)
		if !ok || !tag.Broken() {
			continue
		}
		out = append(out, strings.TrimSpace(tag.Text))
	}
	return out
}

func (v *Validator) emit(src Source, links []string, name string) {
	for _, link := range links {
		d := Diagnostic{Source: src, Link: link, Reflection: name}
		if fix, ok := suggestFix(link); ok {
			d.Suggestion = fix
			d.Message = v.catalog().FormatSuggestion(src, link, name, fix)
		} else {
			d.Message = v.catalog().Format(src, link, name)
		}
		v.warn(d)
	}
}

// suggestFix classifies likely package-scope references typed without the
// module indicator. Link paths reserve ".", "#" and "~" for walking into a
// symbol, which collides with npm-scope package names: "@scope/pkg.Thing"
// almost always meant "@scope/pkg!Thing". The first path separator is
// rewritten; a "!" anywhere means the author already used module syntax.
func suggestFix(link string) (string, bool) {
	if !strings.HasPrefix(link, "@") || strings.Contains(link, "!") {
		return "", false
	}
	if i := strings.IndexAny(link, ".#~"); i != -1 {
		return link[:i] + "!" + link[i+1:], true
	}
	return link, true
}

func (v *Validator) warn(d Diagnostic) {
	if dl, ok := v.Logger.(DiagnosticLogger); ok {
		dl.WarnDiagnostic(d)
	} else if v.Logger != nil {
		v.Logger.Warn(d.Message)
	}
	if v.Reporter != nil {
		if err := v.Reporter.Report(d); err != nil {
			slog.Warn("Failed to report broken link",
				logfields.Subject(d.Link),
				logfields.Error(err))
		}
	}
	if v.Metrics != nil {
		v.Metrics.IncBrokenLink(string(d.Source))
	}
}

func (v *Validator) catalog() Catalog {
	if v.Catalog != nil {
		return v.Catalog
	}
	return English
}
