package render

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractText returns the visible text of an HTML fragment, used to fill
// search index fields from rendered page content. Script, style and
// template subtrees are skipped; adjacent blocks are joined with a single
// space.
func ExtractText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var pieces []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				pieces = append(pieces, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(pieces, " ")
}
