// Package theme is the default content generator: it renders every planned
// page as markdown (name heading, comment text, one member section per
// group) and converts the result to HTML at the end of the markdown
// listener chain. Cross-reference links resolve to relative URLs through
// the router.
//
// All output flows through the public render events, so a replacement theme
// or a plugin sees and may change every intermediate step.
package theme

import (
	"fmt"

	"git.home.luguber.info/inful/docreflect/internal/markdown"
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/render"
	"git.home.luguber.info/inful/docreflect/internal/router"
)

// SourceLinker turns a declaration source location into a web URL. The
// gitinfo resolver implements it; nil disables source lines.
type SourceLinker interface {
	LinkFor(fileName string, line int) (string, bool)
}

// Options tunes the generated pages.
type Options struct {
	// Title overrides the project name on the front page.
	Title string

	// GroupMembers renders one titled section per member kind instead of a
	// single flat list.
	GroupMembers bool

	// SearchComments fills the comment search field from summaries.
	SearchComments bool

	// SearchDocuments fills the document search field from document bodies.
	SearchDocuments bool
}

// Theme renders pages. Zero value is unusable; construct with New.
type Theme struct {
	Router  *router.Router
	Options Options

	// Source resolves "defined in" links. Optional.
	Source SourceLinker
}

func New(rt *router.Router, opts Options) *Theme {
	return &Theme{Router: rt, Options: opts}
}

// Listener priorities. Markdown conversion runs after plugin rewrites at
// the default priority; search field fill runs before them so plugins can
// override filled values.
const (
	markdownPriority = 100
	indexPriority    = -100
)

// Install registers the theme's bus listeners. The theme additionally
// serves as the renderer's ContentGenerator; that wiring is separate.
func (t *Theme) Install(bus *render.Bus) {
	bus.OnMarkdown(markdownPriority, t.convertMarkdown)
	bus.OnIndex(indexPriority, t.fillSearchFields)
}

// convertMarkdown is the terminal markdown listener: whatever text earlier
// listeners left in ParsedText becomes HTML.
func (t *Theme) convertMarkdown(e *render.MarkdownEvent) error {
	html, err := markdown.Convert([]byte(e.ParsedText))
	if err != nil {
		return err
	}
	e.ParsedText = string(html)
	return nil
}

// GeneratePage builds the markdown body for one page and pushes it through
// the markdown channel into page.Contents.
func (t *Theme) GeneratePage(r *render.Renderer, page *render.PageEvent) error {
	html, err := r.RenderMarkdown(page, t.pageMarkdown(page))
	if err != nil {
		return err
	}
	page.Contents = html
	return nil
}

func (t *Theme) pageMarkdown(page *render.PageEvent) string {
	b := &pageBuilder{page: page}
	switch m := page.Model().(type) {
	case *model.Project:
		t.projectPage(b, m)
	case *model.Declaration:
		t.declarationPage(b, m)
	case *model.Document:
		t.documentPage(b, m)
	}
	return b.String()
}

// projectPage is the front page: title, readme, then links to every
// top-level page.
func (t *Theme) projectPage(b *pageBuilder, p *model.Project) {
	title := t.Options.Title
	if title == "" {
		title = p.Name
	}
	b.heading(1, title)
	b.para(t.renderParts(b.page, p.Readme))

	if links := t.childLinks(b.page, p.Children); len(links) > 0 {
		b.heading(2, "Contents")
		b.list(links)
	}
}

func (t *Theme) declarationPage(b *pageBuilder, d *model.Declaration) {
	b.heading(1, d.FriendlyFullName())
	b.para(fmt.Sprintf("*%s*", d.Kind))
	b.para(t.sourceLine(d))
	t.commentBody(b, d.Comment)
	b.para(t.renderParts(b.page, d.Readme))
	t.typeBlock(b, d)
	t.memberSections(b, d)
}

// documentPage renders the standalone page body. Headings are harvested
// from the final markdown so their anchors match the converted output
// exactly, duplicates included.
func (t *Theme) documentPage(b *pageBuilder, doc *model.Document) {
	b.raw("# " + doc.Name + "\n\n")
	b.para(t.renderParts(b.page, doc.Content))

	if links := t.childLinks(b.page, doc.Children); len(links) > 0 {
		b.raw("## Pages\n\n")
		b.list(links)
	}

	for _, h := range markdown.ExtractHeadings([]byte(b.String())) {
		b.page.PushHeading(h)
	}
}

// commentBody writes a comment's summary followed by its block tags in
// declaration order.
func (t *Theme) commentBody(b *pageBuilder, c *model.Comment) {
	if c == nil {
		return
	}
	b.para(t.renderParts(b.page, c.Summary))
	for _, tag := range c.BlockTags {
		b.para("**" + tag.Tag + "**")
		b.para(t.renderParts(b.page, tag.Content))
	}
}

// typeBlock writes the declared type of aliases and variables, expanding
// union members with their summaries when present.
func (t *Theme) typeBlock(b *pageBuilder, d *model.Declaration) {
	if d.Type == nil || !d.Kind.Is(model.KindTypeAlias|model.KindVariable) {
		return
	}
	b.para("Type: `" + d.Type.String() + "`")

	union, ok := d.Type.(model.UnionType)
	if !ok || union.ElementSummaries == nil {
		return
	}
	var items []string
	for i, member := range union.Members {
		item := "`" + member.String() + "`"
		if i < len(union.ElementSummaries) {
			if summary := t.renderParts(b.page, union.ElementSummaries[i]); summary != "" {
				item += ": " + summary
			}
		}
		items = append(items, item)
	}
	b.list(items)
}

// memberSections writes one titled section per member group. Each group
// becomes a new heading collector, so navigation can mirror the grouping.
func (t *Theme) memberSections(b *pageBuilder, d *model.Declaration) {
	if len(d.Children) == 0 {
		return
	}
	if !t.Options.GroupMembers {
		b.page.StartNewSection("Members")
		b.heading(2, "Members")
		t.memberEntries(b, d.Children)
		return
	}
	for _, g := range groupChildren(d.Children) {
		b.page.StartNewSection(g.Title)
		b.heading(2, g.Title)
		t.memberEntries(b, g.Members)
	}
}

// memberEntries writes the entries of one group. Children with a page of
// their own collapse into a link list; anchored members get a pinned
// heading so router fragments always resolve, then their comment and
// parameters inline.
func (t *Theme) memberEntries(b *pageBuilder, members []model.Reflection) {
	var links []string
	flush := func() {
		b.list(links)
		links = links[:0]
	}
	for _, c := range members {
		url, ok := t.Router.URLFor(c)
		if !ok {
			continue
		}
		if anchor, inline := anchorOf(url); inline {
			flush()
			b.anchored(3, c.Base().Name, anchor)
			t.commentBody(b, c.Base().Comment)
			t.paramList(b, c)
			continue
		}
		links = append(links, "["+c.Base().Name+"]("+router.URLTo(b.page.URL, url)+")")
	}
	flush()
}

// paramList writes the parameter bullets of a function-like member.
func (t *Theme) paramList(b *pageBuilder, r model.Reflection) {
	d, ok := r.(*model.Declaration)
	if !ok {
		return
	}
	var items []string
	for _, c := range d.Children {
		if !c.Base().Kind.Is(model.KindParameter) {
			continue
		}
		item := "`" + c.Base().Name + "`"
		if param, ok := c.(*model.Declaration); ok && param.Type != nil {
			item += " (`" + param.Type.String() + "`)"
		}
		if comment := c.Base().Comment; comment != nil {
			if summary := t.renderParts(b.page, comment.Summary); summary != "" {
				item += ": " + summary
			}
		}
		items = append(items, item)
	}
	if len(items) > 0 {
		b.para("Parameters:")
		b.list(items)
	}
}

// childLinks returns one markdown link per routed child, relative to the
// page under construction.
func (t *Theme) childLinks(page *render.PageEvent, children []model.Reflection) []string {
	var links []string
	for _, c := range children {
		url, ok := t.Router.URLFor(c)
		if !ok {
			continue
		}
		if _, inline := anchorOf(url); inline {
			continue
		}
		links = append(links, "["+c.Base().Name+"]("+router.URLTo(page.URL, url)+")")
	}
	return links
}

// sourceLine renders the "defined in" line for a declaration's first
// source, linked when a SourceLinker resolves it.
func (t *Theme) sourceLine(d *model.Declaration) string {
	if len(d.Sources) == 0 {
		return ""
	}
	src := d.Sources[0]
	label := fmt.Sprintf("%s:%d", src.FileName, src.Line)
	if t.Source != nil {
		if url, ok := t.Source.LinkFor(src.FileName, src.Line); ok {
			return fmt.Sprintf("Defined in [%s](%s)", label, url)
		}
	}
	return "Defined in " + label
}

// anchorOf splits a routed URL into its fragment. inline is true when the
// target lives on its parent's page rather than a page of its own.
func anchorOf(url string) (anchor string, inline bool) {
	for i := 0; i < len(url); i++ {
		if url[i] == '#' {
			return url[i+1:], true
		}
	}
	return "", false
}
