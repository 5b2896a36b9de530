package prometheus

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// MetricsCollector registers labelled metrics on a private registry and
// serves them.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

type Counter interface {
	Inc()
	Add(delta float64)
}

type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Namespace            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
	ConstLabels          map[string]string
}

type prometheusCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector backed by a fresh registry.
func NewMetricsCollector(cfg CollectorConfig, log logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("metrics namespace is required")
	}
	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}
	return &prometheusCollector{
		registry:   registry,
		config:     cfg,
		logger:     log,
		registered: make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// register returns the collector already registered under name, if any, so
// that building AppMetrics twice against one collector is harmless.
func (c *prometheusCollector) register(name string, fresh prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return existing, nil
	}
	if err := c.registry.Register(fresh); err != nil {
		return nil, err
	}
	c.registered[name] = fresh
	return fresh, nil
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.config.Namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	got, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("failed to register counter", logging.String("name", name), logging.Err(err))
		return nopCounterVec{}
	}
	if v, ok := got.(*prometheus.CounterVec); ok {
		return counterVec{v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("want", "counter"))
	return nopCounterVec{}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	got, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("failed to register gauge", logging.String("name", name), logging.Err(err))
		return nopGaugeVec{}
	}
	if v, ok := got.(*prometheus.GaugeVec); ok {
		return gaugeVec{v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("want", "gauge"))
	return nopGaugeVec{}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.config.Namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
		Buckets:     buckets,
	}, labels)
	got, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("failed to register histogram", logging.String("name", name), logging.Err(err))
		return nopHistogramVec{}
	}
	if v, ok := got.(*prometheus.HistogramVec); ok {
		return histogramVec{v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("want", "histogram"))
	return nopHistogramVec{}
}

// ─────────────────────────────────────────────────────────────────────────────
// Wrappers
// ─────────────────────────────────────────────────────────────────────────────

type counterVec struct{ vec *prometheus.CounterVec }

func (v counterVec) WithLabelValues(lvs ...string) Counter { return v.vec.WithLabelValues(lvs...) }

type gaugeVec struct{ vec *prometheus.GaugeVec }

func (v gaugeVec) WithLabelValues(lvs ...string) Gauge { return v.vec.WithLabelValues(lvs...) }

type histogramVec struct{ vec *prometheus.HistogramVec }

func (v histogramVec) WithLabelValues(lvs ...string) Histogram { return v.vec.WithLabelValues(lvs...) }

// noopVec stands in for every metric kind when metrics are disabled or a
// registration failed.
type noopVec struct{}

func (noopVec) Inc()            {}
func (noopVec) Dec()            {}
func (noopVec) Add(float64)     {}
func (noopVec) Set(float64)     {}
func (noopVec) Observe(float64) {}

type nopCollector struct{}

// NewNopCollector returns a collector that records nothing and serves 404.
func NewNopCollector() MetricsCollector { return nopCollector{} }

func (nopCollector) RegisterCounter(string, string, ...string) CounterVec { return nopCounterVec{} }
func (nopCollector) RegisterGauge(string, string, ...string) GaugeVec     { return nopGaugeVec{} }
func (nopCollector) RegisterHistogram(string, string, []float64, ...string) HistogramVec {
	return nopHistogramVec{}
}
func (nopCollector) Handler() http.Handler { return http.NotFoundHandler() }

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return noopVec{} }

type nopGaugeVec struct{}

func (nopGaugeVec) WithLabelValues(...string) Gauge { return noopVec{} }

type nopHistogramVec struct{}

func (nopHistogramVec) WithLabelValues(...string) Histogram { return noopVec{} }

// Timer observes elapsed seconds into a histogram.
type Timer struct {
	histogram Histogram
	start     time.Time
}

func NewTimer(h Histogram) *Timer {
	return &Timer{histogram: h, start: time.Now()}
}

func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if t.histogram != nil {
		t.histogram.Observe(d.Seconds())
	}
	return d
}

//Personal.AI order the ending
