package model

// Declaration is a documented symbol: a class, function, type alias, module
// and so on. Modules may carry their own readme in multi-package projects.
type Declaration struct {
	ReflectionBase

	Readme   []Part
	Type     Type
	Sources  []Source
	Children []Reflection
}

// AddChild appends c and points its parent at d.
func (d *Declaration) AddChild(c Reflection) {
	c.Base().Parent = d
	d.Children = append(d.Children, c)
}
