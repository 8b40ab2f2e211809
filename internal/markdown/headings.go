package markdown

import (
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// Heading is one section heading found in a markdown body.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// ExtractHeadings returns the headings of src in document order. Anchors are
// deduplicated exactly as Convert deduplicates rendered heading ids.
func ExtractHeadings(src []byte) []Heading {
	root := ParseBody(src)
	ids := newSlugIDs()

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		text := nodeText(h, src)
		headings = append(headings, Heading{
			Level:  h.Level,
			Text:   text,
			Anchor: string(ids.Generate([]byte(text), gmast.KindHeading)),
		})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// nodeText flattens the inline text of a node, dropping markup.
func nodeText(n gmast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return b.String()
}
