package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// SchemaVersion is the snapshot format this loader understands.
const SchemaVersion = 1

// Snapshot wire format. The parser frontend serializes its reflection graph
// to a flat JSON file; Load rebuilds the linked model from it.

type snapshotFile struct {
	SchemaVersion int         `json:"schema_version"`
	Project       wireProject `json:"project"`
}

type wireProject struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	PackageName string           `json:"package_name,omitempty"`
	Readme      []wirePart       `json:"readme,omitempty"`
	Comment     *wireComment     `json:"comment,omitempty"`
	Reflections []wireReflection `json:"reflections"`
}

type wireReflection struct {
	ID      int          `json:"id"`
	Variant string       `json:"variant"`
	Kind    string       `json:"kind"`
	Name    string       `json:"name"`
	Parent  *int         `json:"parent,omitempty"`
	Comment *wireComment `json:"comment,omitempty"`
	Readme  []wirePart   `json:"readme,omitempty"`
	Content []wirePart   `json:"content,omitempty"`
	Sources []wireSource `json:"sources,omitempty"`
	Type    *wireType    `json:"type,omitempty"`
}

type wireComment struct {
	Summary   []wirePart     `json:"summary,omitempty"`
	BlockTags []wireBlockTag `json:"block_tags,omitempty"`
}

type wireBlockTag struct {
	Tag     string     `json:"tag"`
	Content []wirePart `json:"content,omitempty"`
}

type wirePart struct {
	Kind   string      `json:"kind"`
	Text   string      `json:"text"`
	Tag    string      `json:"tag,omitempty"`
	Target *wireTarget `json:"target,omitempty"`
}

type wireTarget struct {
	Reflection *int          `json:"reflection,omitempty"`
	Symbol     *wireSymbolID `json:"symbol,omitempty"`
	URL        string        `json:"url,omitempty"`
}

type wireSymbolID struct {
	FileName      string `json:"file_name"`
	QualifiedName string `json:"qualified_name"`
}

type wireSource struct {
	FileName string `json:"file_name"`
	Line     int    `json:"line"`
}

type wireType struct {
	Type             string       `json:"type"`
	Name             string       `json:"name,omitempty"`
	Target           int          `json:"target,omitempty"`
	Members          []wireType   `json:"members,omitempty"`
	ElementSummaries [][]wirePart `json:"element_summaries,omitempty"`
}

// Load reads a single snapshot and rebuilds its reflection graph. The root
// is registered in the project's own index, matching the single-package
// layout the parser emits.
func Load(r io.Reader) (*Project, error) {
	var file snapshotFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if file.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported snapshot schema version %d", file.SchemaVersion)
	}
	return buildProject(file.Project, 0, true)
}

// LoadFile reads the snapshot at path.
func LoadFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return p, nil
}

// LoadFiles reads one or more snapshots. A single path loads directly.
// Multiple paths are merged under a synthetic root named name: each package
// becomes a module child carrying its readme, every id is shifted to keep the
// combined index collision-free, and the synthetic root itself stays out of
// the index. Consumers therefore cannot assume the root id resolves through
// Reflections.
func LoadFiles(name string, paths []string) (*Project, error) {
	switch len(paths) {
	case 0:
		return nil, fmt.Errorf("no snapshot files given")
	case 1:
		return LoadFile(paths[0])
	}

	merged := NewProject(name)
	nextID := 1 // id 0 is reserved for the synthetic root
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open snapshot: %w", err)
		}
		var file snapshotFile
		err = json.NewDecoder(f).Decode(&file)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
		}
		if file.SchemaVersion != SchemaVersion {
			return nil, fmt.Errorf("snapshot %s: unsupported schema version %d", path, file.SchemaVersion)
		}

		offset := nextID - file.Project.ID
		pkg, err := buildPackageModule(file.Project, offset)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", path, err)
		}
		merged.AddModule(pkg.module, pkg.index)
		nextID += pkg.span
	}
	return merged, nil
}

// AddModule attaches a package module under the root and folds its index into
// the project's.
func (p *Project) AddModule(m *Declaration, index map[ReflectionID]Reflection) {
	m.Parent = p
	p.Children = append(p.Children, m)
	for id, r := range index {
		p.Reflections[id] = r
	}
}

type packageModule struct {
	module *Declaration
	index  map[ReflectionID]Reflection
	span   int
}

// buildPackageModule turns one package snapshot into a module declaration
// whose ids are shifted by offset. span is how many ids the package occupied,
// used to place the next package's offset past this one.
func buildPackageModule(wp wireProject, offset int) (*packageModule, error) {
	p, err := buildProject(wp, offset, false)
	if err != nil {
		return nil, err
	}

	mod := &Declaration{
		ReflectionBase: ReflectionBase{
			ID:      p.ID,
			Name:    p.Name,
			Kind:    KindModule,
			Comment: p.Comment,
		},
		Readme: p.Readme,
	}
	maxID := int(p.ID)
	for id := range p.Reflections {
		if int(id) > maxID {
			maxID = int(id)
		}
	}
	// The package's top-level nodes move under the module.
	for _, c := range p.Children {
		c.Base().Parent = mod
	}
	mod.Children = p.Children

	index := p.Reflections
	index[mod.ID] = mod
	return &packageModule{module: mod, index: index, span: maxID - offset + 1}, nil
}

// buildProject links a decoded wire project into a reflection graph. All ids
// are shifted by offset. registerRoot controls whether the root appears in
// its own index.
func buildProject(wp wireProject, offset int, registerRoot bool) (*Project, error) {
	p := NewProject(wp.Name)
	p.ID = ReflectionID(wp.ID + offset)
	p.PackageName = wp.PackageName
	p.Comment = buildComment(wp.Comment, offset)
	p.Readme = buildParts(wp.Readme, offset)
	if registerRoot {
		p.Register(p)
	}

	// First pass: construct every node so parents can be wired regardless of
	// declaration order.
	nodes := make(map[ReflectionID]Reflection, len(wp.Reflections))
	for _, wr := range wp.Reflections {
		id := ReflectionID(wr.ID + offset)
		if _, dup := nodes[id]; dup || id == p.ID {
			return nil, fmt.Errorf("duplicate reflection id %d", wr.ID)
		}
		kind, ok := ParseKind(wr.Kind)
		if !ok {
			return nil, fmt.Errorf("reflection %d: unknown kind %q", wr.ID, wr.Kind)
		}
		base := ReflectionBase{
			ID:      id,
			Name:    wr.Name,
			Kind:    kind,
			Comment: buildComment(wr.Comment, offset),
		}
		var node Reflection
		switch wr.Variant {
		case "declaration", "":
			d := &Declaration{
				ReflectionBase: base,
				Readme:         buildParts(wr.Readme, offset),
				Sources:        buildSources(wr.Sources),
			}
			if wr.Type != nil {
				d.Type = buildType(*wr.Type, offset)
			}
			node = d
		case "document":
			node = &Document{
				ReflectionBase: base,
				Content:        buildParts(wr.Content, offset),
			}
		default:
			return nil, fmt.Errorf("reflection %d: unknown variant %q", wr.ID, wr.Variant)
		}
		nodes[id] = node
		p.Register(node)
	}

	// Second pass: attach children in file order. Nodes without an explicit
	// parent hang off the root.
	for _, wr := range wp.Reflections {
		node := nodes[ReflectionID(wr.ID+offset)]
		if wr.Parent == nil {
			p.AddChild(node)
			continue
		}
		parentID := ReflectionID(*wr.Parent + offset)
		parent := nodes[parentID]
		if parent == nil {
			if parentID == p.ID {
				p.AddChild(node)
				continue
			}
			return nil, fmt.Errorf("reflection %d: unknown parent %d", wr.ID, *wr.Parent)
		}
		switch pn := parent.(type) {
		case *Declaration:
			pn.AddChild(node)
		case *Document:
			pn.AddChild(node)
		default:
			return nil, fmt.Errorf("reflection %d: parent %d cannot hold children", wr.ID, *wr.Parent)
		}
	}
	return p, nil
}

func buildComment(wc *wireComment, offset int) *Comment {
	if wc == nil {
		return nil
	}
	c := &Comment{Summary: buildParts(wc.Summary, offset)}
	for _, tag := range wc.BlockTags {
		c.BlockTags = append(c.BlockTags, BlockTag{Tag: tag.Tag, Content: buildParts(tag.Content, offset)})
	}
	return c
}

func buildParts(ws []wirePart, offset int) []Part {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Part, 0, len(ws))
	for _, w := range ws {
		switch PartKind(w.Kind) {
		case PartCode:
			out = append(out, CodePart{Text: w.Text})
		case PartInlineTag:
			out = append(out, InlineTagPart{Tag: w.Tag, Text: w.Text, Target: buildTarget(w.Target, offset)})
		default:
			out = append(out, TextPart{Text: w.Text})
		}
	}
	return out
}

// buildTarget picks the first populated destination. Reflection ids win over
// symbol placeholders, placeholders over raw URLs.
func buildTarget(w *wireTarget, offset int) InlineTarget {
	switch {
	case w == nil:
		return nil
	case w.Reflection != nil:
		return ReflectionTarget(*w.Reflection + offset)
	case w.Symbol != nil:
		return &SymbolID{FileName: w.Symbol.FileName, QualifiedName: w.Symbol.QualifiedName}
	case w.URL != "":
		return URLTarget(w.URL)
	default:
		return nil
	}
}

func buildSources(ws []wireSource) []Source {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Source, 0, len(ws))
	for _, w := range ws {
		out = append(out, Source{FileName: w.FileName, Line: w.Line})
	}
	return out
}

func buildType(w wireType, offset int) Type {
	switch w.Type {
	case "reference":
		t := ReferenceType{Name: w.Name}
		if w.Target != 0 {
			t.Target = ReflectionID(w.Target + offset)
		}
		return t
	case "union":
		u := UnionType{}
		for _, m := range w.Members {
			u.Members = append(u.Members, buildType(m, offset))
		}
		if w.ElementSummaries != nil {
			u.ElementSummaries = make([][]Part, 0, len(w.ElementSummaries))
			for _, parts := range w.ElementSummaries {
				u.ElementSummaries = append(u.ElementSummaries, buildParts(parts, offset))
			}
		}
		return u
	default:
		return IntrinsicType{Name: w.Name}
	}
}
