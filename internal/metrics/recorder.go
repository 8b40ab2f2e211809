// Package metrics defines the observability hooks for rendering and link
// validation. Components take a Recorder by injection and default to the
// noop implementation, so metrics stay optional everywhere.
package metrics

// Recorder defines the hooks the renderer and validator call. It is a
// superset of the narrow interfaces those packages declare for themselves;
// any implementation here satisfies them structurally.
type Recorder interface {
	ObserveRenderDuration(seconds float64)
	ObservePageDuration(kind string, seconds float64)
	IncPagesRendered(kind string)
	IncEventsDispatched(kind string)
	IncBrokenLink(source string)
	SetSearchIndexSize(n int)
}

// NoopRecorder is a Recorder that does nothing, the default when metrics
// are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(float64)       {}
func (NoopRecorder) ObservePageDuration(string, float64) {}
func (NoopRecorder) IncPagesRendered(string)             {}
func (NoopRecorder) IncEventsDispatched(string)          {}
func (NoopRecorder) IncBrokenLink(string)                {}
func (NoopRecorder) SetSearchIndexSize(int)              {}
