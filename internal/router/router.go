// Package router plans the page layout of a rendered site: which reflections
// get their own page, where those pages live relative to the output root, and
// which members land as anchors on an ancestor's page.
package router

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docreflect/internal/foundation/normalization"
	"git.home.luguber.info/inful/docreflect/internal/markdown"
	"git.home.luguber.info/inful/docreflect/internal/model"
)

// Style selects the page layout scheme.
type Style string

const (
	// StyleKind groups pages by reflection kind (classes/, interfaces/, ...).
	StyleKind Style = "kind"
	// StyleStructure mirrors the module tree in the directory layout.
	StyleStructure Style = "structure"
)

var styleNormalizer = normalization.NewNormalizer(map[string]Style{
	"kind":      StyleKind,
	"structure": StyleStructure,
}, StyleKind)

// ParseStyle maps a config value onto a routing style.
func ParseStyle(raw string) (Style, error) {
	return styleNormalizer.NormalizeWithError(raw)
}

// kindDirs places each page-worthy kind under its directory in the kind style.
var kindDirs = map[model.Kind]string{
	model.KindModule:    "modules",
	model.KindNamespace: "modules",
	model.KindClass:     "classes",
	model.KindInterface: "interfaces",
	model.KindEnum:      "enums",
	model.KindFunction:  "functions",
	model.KindVariable:  "variables",
	model.KindTypeAlias: "types",
	model.KindDocument:  "documents",
}

// KindMembers are rendered as anchors on the nearest paged ancestor instead
// of getting a page of their own.
const KindMembers = model.KindEnumMember | model.KindProperty | model.KindMethod |
	model.KindAccessor | model.KindConstructor

const indexFile = "index.html"

// Router assigns URLs and filenames to every routable node of a project.
// PageDefinitions must run before URLFor answers.
type Router struct {
	style Style
	pages []PageDefinition
	urls  map[model.ReflectionID]string
}

func New(style Style) *Router {
	return &Router{style: style}
}

// PageDefinitions returns the planned page list: the index page first, then
// one page per routable reflection and document in id order. The plan is
// computed once and memoized along with the per-node URL table.
func (r *Router) PageDefinitions(p *model.Project) []PageDefinition {
	if r.pages != nil {
		return r.pages
	}
	r.urls = make(map[model.ReflectionID]string)
	r.urls[p.ID] = indexFile

	pages := []PageDefinition{{URL: indexFile, Filename: indexFile, Kind: PageIndex, Model: p}}
	seen := map[string]int{indexFile: 1}

	for _, refl := range p.All() {
		base := refl.Base()
		if base.Kind == model.KindProject {
			continue
		}
		if _, ok := kindDirs[base.Kind]; !ok {
			continue
		}
		file := dedupePath(seen, r.pageFile(refl))
		r.urls[base.ID] = file
		pages = append(pages, PageDefinition{
			URL:      file,
			Filename: file,
			Kind:     pageKindOf(base.Kind),
			Model:    refl,
		})
	}

	r.assignAnchors(p)
	r.pages = pages
	return pages
}

// URLFor returns the site-root-relative URL of a target, including the
// fragment for members. It answers only after PageDefinitions has run.
func (r *Router) URLFor(t Target) (string, bool) {
	if r.urls == nil || t == nil {
		return "", false
	}
	url, ok := r.urls[t.Base().ID]
	return url, ok
}

// pageFile computes the output-relative file path for a paged reflection.
// Kind style: {kindDir}/{slugged.dotted.path}.html
// Structure style: {slugged/nested/path}.html
func (r *Router) pageFile(t Target) string {
	segs := routePath(t)
	if r.style == StyleStructure {
		return strings.Join(segs, "/") + ".html"
	}
	return kindDirs[t.Base().Kind] + "/" + strings.Join(segs, ".") + ".html"
}

// assignAnchors gives member reflections a fragment URL on the nearest paged
// ancestor. Anchors are deduplicated per page in id order.
func (r *Router) assignAnchors(p *model.Project) {
	anchors := make(map[string]map[string]int)
	for _, refl := range p.All() {
		base := refl.Base()
		if !base.Kind.Is(KindMembers) {
			continue
		}
		pageURL, ok := r.pageURLOf(base.Parent)
		if !ok {
			continue
		}
		slug := markdown.Slug(base.Name)
		if slug == "" {
			slug = "member"
		}
		if anchors[pageURL] == nil {
			anchors[pageURL] = make(map[string]int)
		}
		r.urls[base.ID] = pageURL + "#" + dedupeAnchor(anchors[pageURL], slug)
	}
}

// pageURLOf walks up to the nearest ancestor that owns a page.
func (r *Router) pageURLOf(t Target) (string, bool) {
	for node := t; node != nil; node = node.Base().Parent {
		if url, ok := r.urls[node.Base().ID]; ok && !strings.Contains(url, "#") {
			return url, true
		}
	}
	return "", false
}

// routePath is the slugged name chain from below the project root down to t.
func routePath(t Target) []string {
	var segs []string
	for node := t; node != nil; node = node.Base().Parent {
		base := node.Base()
		if base.Kind == model.KindProject {
			break
		}
		seg := markdown.Slug(base.Name)
		if seg == "" {
			seg = "node"
		}
		segs = append([]string{seg}, segs...)
	}
	return segs
}

func dedupePath(seen map[string]int, file string) string {
	if _, taken := seen[file]; !taken {
		seen[file] = 1
		return file
	}
	stem := strings.TrimSuffix(file, ".html")
	for i := seen[file]; ; i++ {
		candidate := fmt.Sprintf("%s-%d.html", stem, i)
		if _, taken := seen[candidate]; !taken {
			seen[file] = i + 1
			seen[candidate] = 1
			return candidate
		}
	}
}

func dedupeAnchor(seen map[string]int, slug string) string {
	n, taken := seen[slug]
	if !taken {
		seen[slug] = 1
		return slug
	}
	seen[slug] = n + 1
	return fmt.Sprintf("%s-%d", slug, n)
}
