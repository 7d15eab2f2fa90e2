package http

import "github.com/prometheus/client_golang/prometheus"

// DocsMetrics counts markdown rendering outcomes.
type DocsMetrics struct {
	Renders        prometheus.Counter
	RenderFailures prometheus.Counter
}

// NewDocsMetrics creates the rendering counters and registers them on
// the given registry.
func NewDocsMetrics(reg prometheus.Registerer) *DocsMetrics {
	m := &DocsMetrics{
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docs_markdown_renders_total",
			Help: "Total number of markdown documents rendered to HTML",
		}),
		RenderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docs_markdown_render_failures_total",
			Help: "Total number of markdown requests that fell back to raw file serving",
		}),
	}
	reg.MustRegister(m.Renders, m.RenderFailures)
	return m
}
