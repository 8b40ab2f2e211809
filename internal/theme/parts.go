package theme

import (
	"strings"

	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/render"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

// renderParts flattens a display part sequence to markdown. The switch is
// exhaustive over the part union; extending the union means extending it
// here.
func (t *Theme) renderParts(page *render.PageEvent, parts []model.Part) string {
	var sb strings.Builder
	for _, part := range parts {
		switch p := part.(type) {
		case model.TextPart:
			sb.WriteString(p.Text)
		case model.CodePart:
			sb.WriteString(renderCode(p.Text))
		case model.InlineTagPart:
			sb.WriteString(t.renderInlineTag(page, p))
		}
	}
	return sb.String()
}

// renderCode wraps code text as a span or a fenced block depending on its
// shape.
func renderCode(text string) string {
	if strings.Contains(text, "\n") {
		return "\n```\n" + strings.Trim(text, "\n") + "\n```\n"
	}
	return "`" + text + "`"
}

// renderInlineTag resolves link tags through the router. Broken links and
// external tags degrade to their display text; the validator reports the
// broken ones separately.
func (t *Theme) renderInlineTag(page *render.PageEvent, p model.InlineTagPart) string {
	if !model.IsLinkTag(p.Tag) {
		return p.Text
	}
	label := strings.TrimSpace(p.Text)
	if p.Tag == "@linkcode" {
		label = "`" + label + "`"
	}
	switch target := p.Target.(type) {
	case model.ReflectionTarget:
		url := t.urlForID(page, model.ReflectionID(target))
		if url == "" {
			return label
		}
		return "[" + label + "](" + url + ")"
	case model.URLTarget:
		return "[" + label + "](" + string(target) + ")"
	default:
		return label
	}
}

// urlForID resolves a reflection id to a URL relative to the current page.
func (t *Theme) urlForID(page *render.PageEvent, id model.ReflectionID) string {
	if page.Project == nil {
		return ""
	}
	refl := page.Project.ByID(id)
	if refl == nil {
		return ""
	}
	url, ok := t.Router.URLFor(refl)
	if !ok {
		return ""
	}
	return router.URLTo(page.URL, url)
}
