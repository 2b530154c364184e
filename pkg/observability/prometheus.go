package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skilltree"

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	LayoutsTotal        *prometheus.CounterVec
	LayoutDuration      *prometheus.HistogramVec
	LayoutNodes         prometheus.Histogram
	DanglingTotal       prometheus.Counter
	RendersTotal        *prometheus.CounterVec
	RenderDuration      prometheus.Histogram
	CacheEventsTotal    *prometheus.CounterVec
	CacheBytesTotal     *prometheus.CounterVec
	SessionsActive      *prometheus.GaugeVec
	CommandsTotal       *prometheus.CounterVec
	CommandDuration     prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Total number of layout runs",
		}, []string{"strategy", "status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		LayoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_nodes",
			Help:      "Number of positioned nodes per layout",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
		}),
		DanglingTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dangling_requirements_total",
			Help:      "Requirements that did not resolve to a node",
		}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of render runs",
		}, []string{"status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes",
		}, []string{"key_type", "event"}),
		CacheBytesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		SessionsActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Viewport sessions currently stored",
		}, []string{"store"}),
		CommandsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewport_commands_total",
			Help:      "Viewport commands applied to sessions",
		}, []string{"command", "changed"}),
		CommandDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "viewport_command_duration_seconds",
			Help:      "Viewport command latency in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers p as the global pipeline, cache, session and HTTP hooks.
func (p *Prometheus) Install() {
	SetPipelineHooks(p)
	SetCacheHooks(p)
	SetSessionHooks(p)
	SetHTTPHooks(p)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnLayoutStart(context.Context, string, int) {}

func (p *Prometheus) OnLayoutComplete(_ context.Context, strategy string, nodeCount, dangling int, d time.Duration, err error) {
	p.LayoutsTotal.WithLabelValues(strategy, status(err)).Inc()
	p.LayoutDuration.WithLabelValues(strategy).Observe(d.Seconds())
	if err == nil {
		p.LayoutNodes.Observe(float64(nodeCount))
	}
	p.DanglingTotal.Add(float64(dangling))
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.RendersTotal.WithLabelValues(status(err)).Inc()
	p.RenderDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheEventsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheEventsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheEventsTotal.WithLabelValues(keyType, "set").Inc()
	p.CacheBytesTotal.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnSessionCreated(_ context.Context, store string) {
	p.SessionsActive.WithLabelValues(store).Inc()
}

func (p *Prometheus) OnSessionCommand(_ context.Context, command string, changed bool, d time.Duration) {
	p.CommandsTotal.WithLabelValues(command, strconv.FormatBool(changed)).Inc()
	p.CommandDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnSessionDeleted(_ context.Context, store string) {
	p.SessionsActive.WithLabelValues(store).Dec()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
