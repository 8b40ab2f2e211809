package model

import "sort"

// Project is the root reflection. It owns the id index over every reflection
// in the graph.
//
// Reflections maps ids to nodes. The root itself is only present when it was
// registered explicitly; merged multi-package snapshots omit it, so consumers
// iterating the index must not assume the root appears there.
type Project struct {
	ReflectionBase

	// PackageName is the package the docs were generated for, when known.
	PackageName string

	// Readme is the rendered front page, empty when the project has none.
	Readme []Part

	Children []Reflection

	Reflections map[ReflectionID]Reflection
}

// NewProject creates an empty project with the given name. The root is not
// registered in its own index; call Register(p) for the single-package layout
// where it is.
func NewProject(name string) *Project {
	p := &Project{
		ReflectionBase: ReflectionBase{ID: 0, Name: name, Kind: KindProject},
		Reflections:    make(map[ReflectionID]Reflection),
	}
	return p
}

// Register adds r to the id index. Later registrations win on id collision.
func (p *Project) Register(r Reflection) {
	p.Reflections[r.Base().ID] = r
}

// AddChild appends c and points its parent at p.
func (p *Project) AddChild(c Reflection) {
	c.Base().Parent = p
	p.Children = append(p.Children, c)
}

// ByID returns the reflection with the given id, or nil. The root is found
// even when absent from the index.
func (p *Project) ByID(id ReflectionID) Reflection {
	if r, ok := p.Reflections[id]; ok {
		return r
	}
	if id == p.ID {
		return p
	}
	return nil
}

// All returns every registered reflection ordered by id. Map iteration order
// is unstable; traversals that log or emit pages use All for determinism.
func (p *Project) All() []Reflection {
	ids := make([]int, 0, len(p.Reflections))
	for id := range p.Reflections {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]Reflection, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.Reflections[ReflectionID(id)])
	}
	return out
}
