package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration  prom.Histogram
	pageDuration    *prom.HistogramVec
	pagesRendered   *prom.CounterVec
	eventsDispatch  *prom.CounterVec
	brokenLinks     *prom.CounterVec
	searchIndexSize prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics on reg. A nil
// registry gets a private one, useful in tests.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docreflect",
			Name:      "render_duration_seconds",
			Help:      "Total render run duration",
			Buckets:   prom.DefBuckets,
		}),
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docreflect",
			Name:      "page_duration_seconds",
			Help:      "Duration of individual page renders",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docreflect",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered by page kind",
		}, []string{"kind"}),
		eventsDispatch: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docreflect",
			Name:      "events_dispatched_total",
			Help:      "Render events dispatched by kind",
		}, []string{"kind"}),
		brokenLinks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docreflect",
			Name:      "broken_links_total",
			Help:      "Broken links found by comment source",
		}, []string{"source"}),
		searchIndexSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docreflect",
			Name:      "search_index_size",
			Help:      "Entries in the search index of the last run",
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.pageDuration, pr.pagesRendered,
		pr.eventsDispatch, pr.brokenLinks, pr.searchIndexSize)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(seconds float64) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(seconds)
}

func (p *PrometheusRecorder) ObservePageDuration(kind string, seconds float64) {
	if p == nil || p.pageDuration == nil {
		return
	}
	p.pageDuration.WithLabelValues(kind).Observe(seconds)
}

func (p *PrometheusRecorder) IncPagesRendered(kind string) {
	if p == nil || p.pagesRendered == nil {
		return
	}
	p.pagesRendered.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncEventsDispatched(kind string) {
	if p == nil || p.eventsDispatch == nil {
		return
	}
	p.eventsDispatch.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncBrokenLink(source string) {
	if p == nil || p.brokenLinks == nil {
		return
	}
	p.brokenLinks.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) SetSearchIndexSize(n int) {
	if p == nil || p.searchIndexSize == nil {
		return
	}
	p.searchIndexSize.Set(float64(n))
}
