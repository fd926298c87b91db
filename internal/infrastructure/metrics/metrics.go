package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/ports"
)

// Collector implements ports.Recorder on top of a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	Resolutions        *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	SourcesServed      *prometheus.CounterVec
	ProviderFailures   *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

var _ ports.Recorder = (*Collector)(nil)

// New registers all collectors on a fresh registry so tests can build several.
func New(service string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": service}

	return &Collector{
		registry: reg,
		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "catalog_resolutions_total",
				Help:        "Total number of per-date source resolutions",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		ResolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "catalog_resolution_duration_seconds",
				Help:        "Per-date source resolution duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		SourcesServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "catalog_sources_served_total",
				Help:        "Total number of sources produced per provider",
				ConstLabels: constLabels,
			},
			[]string{"provider"},
		),
		ProviderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "catalog_provider_failures_total",
				Help:        "Total number of provider URL generation failures",
				ConstLabels: constLabels,
			},
			[]string{"provider"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveResolution counts one resolution by outcome and records its latency.
func (c *Collector) ObserveResolution(outcome string, duration time.Duration) {
	c.Resolutions.WithLabelValues(outcome).Inc()
	c.ResolutionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// AddSources adds n sources served by a provider.
func (c *Collector) AddSources(key domain.ProviderKey, n int) {
	c.SourcesServed.WithLabelValues(string(key)).Add(float64(n))
}

// ProviderFailed counts one failed generation for a provider.
func (c *Collector) ProviderFailed(key domain.ProviderKey) {
	c.ProviderFailures.WithLabelValues(string(key)).Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
