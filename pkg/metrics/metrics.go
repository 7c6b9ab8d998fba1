// Package metrics provides Prometheus metrics for the pronviz dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every collector the service exports. A nil *Manager is
// valid and records nothing, so packages can take one optionally.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	panelRenders  *prometheus.CounterVec
	panelDuration *prometheus.HistogramVec
	pageRenders   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	wsClients     prometheus.Gauge
	configReloads prometheus.Counter
	exportedFiles prometheus.Counter
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace (default "pronviz").
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets the latency buckets, in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// New creates a Manager with its own registry.
func New(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pronviz",
		buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.panelRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "panel",
		Name:      "renders_total",
		Help:      "Panel renders by chart kind and result.",
	}, []string{"kind", "result"})

	m.panelDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "panel",
		Name:      "render_duration_seconds",
		Help:      "Time spent drawing one panel.",
		Buckets:   m.buckets,
	}, []string{"kind"})

	m.pageRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "page",
		Name:      "renders_total",
		Help:      "Full dashboard builds by result.",
	}, []string{"result"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Rendered page cache lookups by outcome.",
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   m.buckets,
	}, []string{"route"})

	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected live-reload websocket clients.",
	})

	m.configReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "config_reloads_total",
		Help:      "Configuration file changes picked up at runtime.",
	})

	m.exportedFiles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "files_total",
		Help:      "Files written by dashboard exports.",
	})
}

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePanel records one panel render.
func (m *Manager) ObservePanel(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.panelRenders.WithLabelValues(kind, result(err)).Inc()
	if err == nil {
		m.panelDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// ObservePage records one dashboard build.
func (m *Manager) ObservePage(err error) {
	if m == nil {
		return
	}
	m.pageRenders.WithLabelValues(result(err)).Inc()
}

// CacheHit and CacheMiss count page cache lookups.
func (m *Manager) CacheHit() {
	if m != nil {
		m.cacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Manager) CacheMiss() {
	if m != nil {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// ObserveHTTP records a served request.
func (m *Manager) ObserveHTTP(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// SetWSClients reports the current live-reload client count.
func (m *Manager) SetWSClients(n int) {
	if m != nil {
		m.wsClients.Set(float64(n))
	}
}

// ConfigReloaded counts a runtime configuration change.
func (m *Manager) ConfigReloaded() {
	if m != nil {
		m.configReloads.Inc()
	}
}

// FilesExported adds n written export files.
func (m *Manager) FilesExported(n int) {
	if m != nil {
		m.exportedFiles.Add(float64(n))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
