// Package render drives the page generation pipeline: a synchronous event
// bus with prioritized listeners, the per-run and per-page event records
// those listeners mutate, and the renderer that fires them in a fixed order.
package render

// Kind identifies a dispatch channel on the bus. Typed registration keeps
// listeners from subscribing a handler to a channel whose event shape it
// cannot handle.
type Kind uint8

const (
	BeginRender Kind = iota
	EndRender
	BeginPage
	EndPage
	ParseMarkdown
	PrepareIndex
)

var kindNames = [...]string{
	BeginRender:   "begin_render",
	EndRender:     "end_render",
	BeginPage:     "begin_page",
	EndPage:       "end_page",
	ParseMarkdown: "parse_markdown",
	PrepareIndex:  "prepare_index",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is a bus payload. Records are short-lived and mutable; listeners
// run synchronously and mutate them in place.
type Event interface {
	event()
}
