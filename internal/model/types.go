package model

import "strings"

// Type is the modeled type of a declaration. Only the shapes the validator
// and renderer inspect are modeled; everything else the parser emits is
// collapsed to an intrinsic with the printed form as its name.
type Type interface {
	typeNode()
	String() string
}

// IntrinsicType is a primitive or any type rendered purely by name.
type IntrinsicType struct {
	Name string
}

func (IntrinsicType) typeNode()        {}
func (t IntrinsicType) String() string { return t.Name }

// ReferenceType points at another declaration, e.g. a named type used in a
// signature. Target is zero when the reference never resolved in-project.
type ReferenceType struct {
	Name   string
	Target ReflectionID
}

func (ReferenceType) typeNode()        {}
func (t ReferenceType) String() string { return t.Name }

// UnionType is a union of member types. ElementSummaries, when present,
// carries one display part sequence per member, aligned by index with
// Members; it is nil when no member has a summary.
type UnionType struct {
	Members          []Type
	ElementSummaries [][]Part
}

func (UnionType) typeNode() {}

func (t UnionType) String() string {
	names := make([]string, len(t.Members))
	for i, m := range t.Members {
		names[i] = m.String()
	}
	return strings.Join(names, " | ")
}
