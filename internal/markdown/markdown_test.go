package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertBasics(t *testing.T) {
	out, err := Convert([]byte("# Title\n\nSome *emphasis* and `code`.\n"))
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "<h1 id=\"title\">Title</h1>")
	require.Contains(t, html, "<em>emphasis</em>")
	require.Contains(t, html, "<code>code</code>")
}

func TestConvertGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	require.Contains(t, string(out), "<table>")
}

func TestConvertKeepsRawHTML(t *testing.T) {
	out, err := Convert([]byte("before <span class=\"x\">kept</span> after\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<span class=\"x\">kept</span>")
}

func TestConvertDeduplicatesHeadingIDs(t *testing.T) {
	src := "## Usage\n\n## Usage\n"
	out, err := Convert([]byte(src))
	require.NoError(t, err)
	require.Contains(t, string(out), "id=\"usage\"")
	require.Contains(t, string(out), "id=\"usage-1\"")
}

func TestExtractHeadings(t *testing.T) {
	src := "# Getting Started\n\ntext\n\n## Install\n\n### With `npm`\n\n## Install\n"
	headings := ExtractHeadings([]byte(src))
	require.Len(t, headings, 4)

	require.Equal(t, 1, headings[0].Level)
	require.Equal(t, "Getting Started", headings[0].Text)
	require.Equal(t, "getting-started", headings[0].Anchor)

	require.Equal(t, "With npm", headings[2].Text)
	require.Equal(t, "with-npm", headings[2].Anchor)

	// Duplicate headings get distinct anchors, mirroring Convert.
	require.Equal(t, "install", headings[1].Anchor)
	require.Equal(t, "install-1", headings[3].Anchor)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"  spaced   out  ", "spaced-out"},
		{"Über uns", "uber-uns"},
		{"C'est déjà l'été", "c-est-deja-l-ete"},
		{"API v2.0", "api-v2-0"},
		{"___", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Slug(tt.in), "Slug(%q)", tt.in)
	}
}

func TestExtractLinks(t *testing.T) {
	src := []byte("See [API](api.md) and ![Diagram](d.png) and <https://example.com>.\n\n[ref]: target.md\n")
	links := ExtractLinks(src)

	var kinds []LinkKind
	var dests []string
	for _, l := range links {
		kinds = append(kinds, l.Kind)
		dests = append(dests, l.Destination)
	}
	require.Contains(t, dests, "api.md")
	require.Contains(t, dests, "d.png")
	require.Contains(t, dests, "https://example.com")
	require.Contains(t, dests, "target.md")
	require.Contains(t, kinds, LinkKindReferenceDefinition)
}

func TestExtractLinksResolvesReferences(t *testing.T) {
	src := []byte("See [API][ref].\n\n[ref]: api.md\n")
	links := ExtractLinks(src)
	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
}
