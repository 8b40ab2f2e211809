package model

import "strings"

// Kind classifies a reflection. Kinds are single bits so that groups of kinds
// can be expressed as masks and membership tested with Is.
type Kind uint32

const (
	KindProject Kind = 1 << iota
	KindModule
	KindNamespace
	KindClass
	KindInterface
	KindEnum
	KindEnumMember
	KindFunction
	KindVariable
	KindTypeAlias
	KindProperty
	KindMethod
	KindAccessor
	KindConstructor
	KindParameter
	KindTypeParameter
	KindDocument
)

// KindContainers are the kinds that may own child reflections.
const KindContainers = KindProject | KindModule | KindNamespace | KindClass | KindInterface | KindEnum

// Is reports whether k matches any bit of the given mask.
func (k Kind) Is(mask Kind) bool { return k&mask != 0 }

var kindNames = map[Kind]string{
	KindProject:       "Project",
	KindModule:        "Module",
	KindNamespace:     "Namespace",
	KindClass:         "Class",
	KindInterface:     "Interface",
	KindEnum:          "Enum",
	KindEnumMember:    "EnumMember",
	KindFunction:      "Function",
	KindVariable:      "Variable",
	KindTypeAlias:     "TypeAlias",
	KindProperty:      "Property",
	KindMethod:        "Method",
	KindAccessor:      "Accessor",
	KindConstructor:   "Constructor",
	KindParameter:     "Parameter",
	KindTypeParameter: "TypeParameter",
	KindDocument:      "Document",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKind maps a kind name from snapshot input back to its Kind. Matching
// is case-insensitive; unknown names return false.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[strings.ToLower(name)]
	return k, ok
}
