// Package metrics holds the Prometheus collectors for the docs server and
// generator. Every Metrics owns an isolated registry; all methods are safe on
// a nil receiver so callers can run without metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reveal outcomes.
const (
	RevealShown     = "revealed"
	RevealCancelled = "cancelled"
	RevealImmediate = "immediate"
)

// Build outcomes.
const (
	BuildWritten = "written"
	BuildSkipped = "skipped"
	BuildFailed  = "failed"
)

// Metrics holds all docs collectors.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec

	RendersTotal          *prometheus.CounterVec
	RenderDurationSeconds prometheus.Histogram
	HeadingCollisions     prometheus.Counter

	RevealsTotal *prometheus.CounterVec

	PagesBuiltTotal *prometheus.CounterVec

	CatalogReloadsTotal *prometheus.CounterVec
	CatalogPages        prometheus.Gauge

	CommandsTotal *prometheus.CounterVec

	BuildInfo *prometheus.GaugeVec
}

// New registers every collector on a fresh registry.
func New(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_http_requests_total",
				Help: "Total number of HTTP requests served.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docs_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds, including the reveal delay.",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "route", "status"},
		),

		RendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_markdown_renders_total",
				Help: "Total number of markdown renders by cache outcome.",
			},
			[]string{"cache"},
		),
		RenderDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docs_markdown_render_duration_seconds",
				Help:    "Duration of markdown renders in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us to ~1.6s
			},
		),
		HeadingCollisions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_heading_collisions_total",
				Help: "Total number of duplicate heading ids seen while rendering.",
			},
		),

		RevealsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_reveals_total",
				Help: "Total number of page reveals by outcome.",
			},
			[]string{"outcome"},
		),

		PagesBuiltTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_generator_pages_total",
				Help: "Total number of pages handled by the static generator.",
			},
			[]string{"result"},
		),

		CatalogReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_catalog_reloads_total",
				Help: "Total number of catalog reloads by result.",
			},
			[]string{"result"},
		),
		CatalogPages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docs_catalog_pages",
				Help: "Number of pages in the active catalog.",
			},
		),

		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_commands_total",
				Help: "Total number of command executions by command and status.",
			},
			[]string{"command", "status"},
		),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docs_info",
				Help: "Build information for the running docs binary.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.RendersTotal,
		m.RenderDurationSeconds,
		m.HeadingCollisions,
		m.RevealsTotal,
		m.PagesBuiltTotal,
		m.CatalogReloadsTotal,
		m.CatalogPages,
		m.CommandsTotal,
		m.BuildInfo,
	)
	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRender records one markdown render.
func (m *Metrics) ObserveRender(elapsed time.Duration, cached bool, collisions int) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	m.RendersTotal.WithLabelValues(outcome).Inc()
	m.RenderDurationSeconds.Observe(elapsed.Seconds())
	if collisions > 0 {
		m.HeadingCollisions.Add(float64(collisions))
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDurationSeconds.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// ObserveReveal records how a page view left the loading state.
func (m *Metrics) ObserveReveal(outcome string) {
	if m == nil {
		return
	}
	m.RevealsTotal.WithLabelValues(outcome).Inc()
}

// ObserveBuild records one generator page outcome.
func (m *Metrics) ObserveBuild(result string) {
	if m == nil {
		return
	}
	m.PagesBuiltTotal.WithLabelValues(result).Inc()
}

// ObserveReload records a catalog reload. pages is the size of the active
// catalog afterwards.
func (m *Metrics) ObserveReload(err error, pages int) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CatalogReloadsTotal.WithLabelValues(result).Inc()
	m.CatalogPages.Set(float64(pages))
}

// ObserveCommand records one command execution.
func (m *Metrics) ObserveCommand(command, status string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, status).Inc()
}
