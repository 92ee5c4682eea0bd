// Package metrics exposes gitweb's request and render counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests and multiple sessions never collide.
type Recorder struct {
	registry       *prom.Registry
	apiRequests    *prom.CounterVec
	renders        *prom.CounterVec
	renderDuration prom.Histogram
	documents      *prom.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prom.NewRegistry(),
		apiRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gitweb",
			Name:      "api_requests_total",
			Help:      "GitHub API requests issued, by call shape.",
		}, []string{"shape"}),
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gitweb",
			Name:      "renders_total",
			Help:      "Repository view renders, by result.",
		}, []string{"result"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "gitweb",
			Name:      "render_duration_seconds",
			Help:      "Wall time of a full render cycle.",
			Buckets:   prom.ExponentialBuckets(0.05, 2, 10),
		}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gitweb",
			Name:      "documents_total",
			Help:      "Read-only documents served, by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.apiRequests, r.renders, r.renderDuration, r.documents)
	return r
}

// ObserveRequest counts one API request
func (r *Recorder) ObserveRequest(shape string) {
	r.apiRequests.WithLabelValues(shape).Inc()
}

// ObserveRender records a finished render
func (r *Recorder) ObserveRender(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.renders.WithLabelValues(result).Inc()
	r.renderDuration.Observe(d.Seconds())
}

// ObserveDocument records a document request: "ok", "empty" or "error"
func (r *Recorder) ObserveDocument(result string) {
	r.documents.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it)
func (r *Recorder) Registry() *prom.Registry {
	return r.registry
}
