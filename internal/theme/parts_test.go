package theme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/render"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

func widgetPage(t *testing.T) (*Theme, *render.PageEvent) {
	t.Helper()
	p := themeProject()
	rt := plannedRouter(p)
	return New(rt, Options{}), pageFor(t, p, rt, "classes/api.widget.html")
}

func TestRenderInlineTag(t *testing.T) {
	th, page := widgetPage(t)

	tests := []struct {
		name string
		part model.InlineTagPart
		want string
	}{
		{
			"resolved reflection",
			model.InlineTagPart{Tag: "@link", Text: "Options", Target: model.ReflectionTarget(5)},
			"[Options](../interfaces/api.options.html)",
		},
		{
			"linkcode wraps in backticks",
			model.InlineTagPart{Tag: "@linkcode", Text: "Options", Target: model.ReflectionTarget(5)},
			"[`Options`](../interfaces/api.options.html)",
		},
		{
			"external url",
			model.InlineTagPart{Tag: "@link", Text: "docs", Target: model.URLTarget("https://example.com")},
			"[docs](https://example.com)",
		},
		{
			"unresolved keeps text",
			model.InlineTagPart{Tag: "@link", Text: "Missing"},
			"Missing",
		},
		{
			"placeholder keeps text",
			model.InlineTagPart{Tag: "@link", Text: "Thing", Target: &model.SymbolID{QualifiedName: "Thing"}},
			"Thing",
		},
		{
			"non-link tag keeps text",
			model.InlineTagPart{Tag: "@label", Text: "anchor-name"},
			"anchor-name",
		},
		{
			"target outside project",
			model.InlineTagPart{Tag: "@link", Text: "Ghost", Target: model.ReflectionTarget(99)},
			"Ghost",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, th.renderInlineTag(page, tt.part))
		})
	}
}

func TestRenderPartsMixed(t *testing.T) {
	th, page := widgetPage(t)

	got := th.renderParts(page, []model.Part{
		model.TextPart{Text: "Use "},
		model.CodePart{Text: "widget.run()"},
		model.TextPart{Text: " or see "},
		model.InlineTagPart{Tag: "@link", Text: "Options", Target: model.ReflectionTarget(5)},
		model.TextPart{Text: "."},
	})
	require.Equal(t, "Use `widget.run()` or see [Options](../interfaces/api.options.html).", got)
}

func TestRenderCode(t *testing.T) {
	require.Equal(t, "`x := 1`", renderCode("x := 1"))
	require.Equal(t, "\n```\nline one\nline two\n```\n", renderCode("line one\nline two\n"))
}

func TestURLForIDUnrouted(t *testing.T) {
	p := themeProject()
	rt := router.New(router.StyleKind)
	rt.PageDefinitions(p)
	th := New(rt, Options{})
	page := pageFor(t, p, rt, "index.html")

	// Parameters are never routed.
	require.Equal(t, "", th.urlForID(page, 8))
}
