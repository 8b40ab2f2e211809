package model

// Document is a standalone markdown page included in the docs alongside the
// API reflections. Its body is a display part sequence like any comment, so
// links inside documents resolve and validate the same way.
type Document struct {
	ReflectionBase

	Content  []Part
	Children []Reflection
}

// AddChild appends c and points its parent at d. Documents nest to form the
// guides section of the page tree.
func (d *Document) AddChild(c Reflection) {
	c.Base().Parent = d
	d.Children = append(d.Children, c)
}
