package theme

import (
	"fmt"
	"html"
	"strings"

	"git.home.luguber.info/inful/docreflect/internal/markdown"
	"git.home.luguber.info/inful/docreflect/internal/render"
)

// pageBuilder accumulates one page's markdown and mirrors structural
// headings into the page's section collector as they are written.
type pageBuilder struct {
	page *render.PageEvent
	sb   strings.Builder
}

func (b *pageBuilder) String() string { return b.sb.String() }

// raw appends text verbatim. Callers supply their own spacing.
func (b *pageBuilder) raw(s string) {
	b.sb.WriteString(s)
}

// para appends a paragraph with a blank line after it. Empty input writes
// nothing.
func (b *pageBuilder) para(s string) {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return
	}
	b.sb.WriteString(s)
	b.sb.WriteString("\n\n")
}

// heading writes a markdown heading and records it under the active
// section. The anchor mirrors the converter's auto id for the first
// occurrence of the text.
func (b *pageBuilder) heading(level int, text string) {
	b.sb.WriteString(strings.Repeat("#", level))
	b.sb.WriteString(" ")
	b.sb.WriteString(text)
	b.sb.WriteString("\n\n")
	b.page.PushHeading(markdown.Heading{Level: level, Text: text, Anchor: markdown.Slug(text)})
}

// anchored writes a raw HTML heading with a fixed id, so router fragments
// hit regardless of what the auto id assignment would have produced.
func (b *pageBuilder) anchored(level int, text, anchor string) {
	fmt.Fprintf(&b.sb, "<h%d id=%q>%s</h%d>\n\n", level, anchor, html.EscapeString(text), level)
	b.page.PushHeading(markdown.Heading{Level: level, Text: text, Anchor: anchor})
}

// list writes a bullet list followed by a blank line.
func (b *pageBuilder) list(items []string) {
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		b.sb.WriteString("- ")
		b.sb.WriteString(item)
		b.sb.WriteString("\n")
	}
	b.sb.WriteString("\n")
}
