package model

// BlockTag is a named block in a comment body, e.g. @remarks or @example,
// holding its own display part sequence.
type BlockTag struct {
	Tag     string
	Content []Part
}

// Comment is the structured documentation attached to a reflection: a summary
// followed by any number of block tags.
type Comment struct {
	Summary   []Part
	BlockTags []BlockTag
}

// Parts returns the summary followed by every block tag body, in declaration
// order. That order is the canonical traversal order for link checking.
func (c *Comment) Parts() []Part {
	if c == nil {
		return nil
	}
	out := make([]Part, 0, len(c.Summary))
	out = append(out, c.Summary...)
	for _, tag := range c.BlockTags {
		out = append(out, tag.Content...)
	}
	return out
}

// Tag returns the first block tag with the given name, or nil.
func (c *Comment) Tag(name string) *BlockTag {
	if c == nil {
		return nil
	}
	for i := range c.BlockTags {
		if c.BlockTags[i].Tag == name {
			return &c.BlockTags[i]
		}
	}
	return nil
}
