package model

// ReflectionID identifies a reflection within its project. IDs are assigned
// by the parser and are unique per project, not globally.
type ReflectionID int

// Reflection is one node of the documentation model. The concrete variants
// are Project, Declaration and Document; code that needs variant-specific
// data type-switches on them.
type Reflection interface {
	Base() *ReflectionBase
}

// ReflectionBase carries the fields every reflection variant shares. Variants
// embed it and inherit its methods.
type ReflectionBase struct {
	ID      ReflectionID
	Name    string
	Kind    Kind
	Comment *Comment
	Parent  Reflection
}

func (b *ReflectionBase) Base() *ReflectionBase { return b }

// FriendlyFullName is the dotted path from the first non-project ancestor
// down to this reflection. The project root and its direct children go by
// their bare name.
func (b *ReflectionBase) FriendlyFullName() string {
	if b.Kind.Is(KindProject) || b.Parent == nil {
		return b.Name
	}
	if pb := b.Parent.Base(); !pb.Kind.Is(KindProject) {
		return pb.FriendlyFullName() + "." + b.Name
	}
	return b.Name
}

// ProjectOf returns the root of the graph r belongs to, or nil if r was
// never attached to one.
func ProjectOf(r Reflection) *Project {
	for r != nil {
		if p, ok := r.(*Project); ok {
			return p
		}
		r = r.Base().Parent
	}
	return nil
}

// Source records where a declaration was parsed from.
type Source struct {
	FileName string
	Line     int
}
