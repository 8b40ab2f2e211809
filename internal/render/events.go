package render

import (
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

// RendererEvent is the whole-run record, fired once at BeginRender and once
// at EndRender. Pages may be filtered or extended by listeners between
// BeginRender and the page loop; afterwards it reflects what was rendered.
type RendererEvent struct {
	Project         *model.Project
	OutputDirectory string
	Pages           []router.PageDefinition
}

func (*RendererEvent) event() {}

// MarkdownEvent is fired per markdown-parse invocation. Listeners rewrite
// ParsedText; the final value is what gets embedded in the page. Page is a
// read-only back-reference, not owned.
type MarkdownEvent struct {
	Page         *PageEvent
	OriginalText string
	ParsedText   string
}

func (*MarkdownEvent) event() {}
