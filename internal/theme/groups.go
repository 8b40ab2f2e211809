package theme

import "git.home.luguber.info/inful/docreflect/internal/model"

// memberGroup is one titled run of children sharing a kind.
type memberGroup struct {
	Title   string
	Members []model.Reflection
}

// groupOrder fixes the section order on container pages: namespaces and
// types first, then callable and value members.
var groupOrder = []model.Kind{
	model.KindModule,
	model.KindNamespace,
	model.KindClass,
	model.KindInterface,
	model.KindEnum,
	model.KindTypeAlias,
	model.KindFunction,
	model.KindVariable,
	model.KindConstructor,
	model.KindProperty,
	model.KindAccessor,
	model.KindMethod,
	model.KindEnumMember,
	model.KindDocument,
}

var groupTitles = map[model.Kind]string{
	model.KindModule:      "Modules",
	model.KindNamespace:   "Namespaces",
	model.KindClass:       "Classes",
	model.KindInterface:   "Interfaces",
	model.KindEnum:        "Enums",
	model.KindTypeAlias:   "Type Aliases",
	model.KindFunction:    "Functions",
	model.KindVariable:    "Variables",
	model.KindConstructor: "Constructors",
	model.KindProperty:    "Properties",
	model.KindAccessor:    "Accessors",
	model.KindMethod:      "Methods",
	model.KindEnumMember:  "Enumeration Members",
	model.KindDocument:    "Documents",
}

// groupChildren buckets children by kind and returns the non-empty groups
// in display order. Kinds without a title, parameters among them, are not
// listed.
func groupChildren(children []model.Reflection) []memberGroup {
	byKind := make(map[model.Kind][]model.Reflection)
	for _, c := range children {
		k := c.Base().Kind
		if _, ok := groupTitles[k]; !ok {
			continue
		}
		byKind[k] = append(byKind[k], c)
	}

	var groups []memberGroup
	for _, k := range groupOrder {
		if members := byKind[k]; len(members) > 0 {
			groups = append(groups, memberGroup{Title: groupTitles[k], Members: members})
		}
	}
	return groups
}
