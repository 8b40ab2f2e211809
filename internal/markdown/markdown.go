// Package markdown wraps the Goldmark pipeline used for comment text,
// readmes and standalone documents: HTML conversion, heading extraction for
// tables of contents, anchor slugs, and relative link rewriting between
// pages.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// converter is shared; Goldmark instances are safe for concurrent use.
var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Convert renders markdown to HTML. Heading ids come from the same slug
// algorithm ExtractHeadings uses, so anchors in a table of contents always
// match the rendered output.
func Convert(src []byte) ([]byte, error) {
	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))

	var buf bytes.Buffer
	if err := converter.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseBody parses markdown into a Goldmark AST without rendering.
func ParseBody(src []byte) gmast.Node {
	return converter.Parser().Parse(text.NewReader(src))
}
