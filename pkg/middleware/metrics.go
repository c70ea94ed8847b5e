package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "nanohtml").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for encode duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "nanohtml",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the encoder metrics registered with one registry.
type Collector struct {
	encodesTotal   *prometheus.CounterVec
	encodeDuration prometheus.Histogram
	encodeErrors   *prometheus.CounterVec
	outputBytes    prometheus.Histogram
}

// Metrics are registered once per registry; later calls reuse them.
var (
	collectorsMu sync.Mutex
	collectors   = map[prometheus.Registerer]*Collector{}
)

func newCollector(config MetricsConfig) *Collector {
	factory := promauto.With(config.Registry)

	return &Collector{
		encodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "encodes_total",
			Help:        "Total number of nano structures encoded to HTML",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		encodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "encode_duration_seconds",
			Help:        "Encode duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		encodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "encode_errors_total",
			Help:        "Total number of failed encodes by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		outputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "output_bytes",
			Help:        "Size of the rendered HTML in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(64, 4, 8), // 64B to 1MB
		}),
	}
}

// GetMetrics returns the collector registered with registry, or nil if
// Prometheus has not been called for it.
func GetMetrics(registry prometheus.Registerer) *Collector {
	collectorsMu.Lock()
	defer collectorsMu.Unlock()
	return collectors[registry]
}

// Prometheus creates middleware that collects Prometheus metrics for every
// encode.
//
// Metrics collected:
//   - nanohtml_encodes_total: Counter of encodes by status
//   - nanohtml_encode_duration_seconds: Histogram of encode duration
//   - nanohtml_encode_errors_total: Counter of failed encodes by error type
//   - nanohtml_output_bytes: Histogram of rendered output size
//
// Example:
//
//	tr := html.NewTransformer(
//	    html.WithMiddleware(middleware.Prometheus()),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) html.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	collectorsMu.Lock()
	m, ok := collectors[config.Registry]
	if !ok {
		m = newCollector(config)
		collectors[config.Registry] = m
	}
	collectorsMu.Unlock()

	return func(next html.Encoder) html.Encoder {
		return html.EncoderFunc(func(ctx context.Context, data any, opts nano.Options) (string, error) {
			start := time.Now()
			out, err := next.Encode(ctx, data, opts)
			m.encodeDuration.Observe(time.Since(start).Seconds())

			if err != nil {
				m.encodeErrors.WithLabelValues(categorizeError(err)).Inc()
				m.encodesTotal.WithLabelValues("error").Inc()
				return out, err
			}
			m.encodesTotal.WithLabelValues("success").Inc()
			m.outputBytes.Observe(float64(len(out)))
			return out, nil
		})
	}
}

// categorizeError keeps the error_type label to a fixed set of values.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, nano.ErrUnsupportedValue):
		return "unsupported_value"
	case errors.Is(err, nano.ErrInvalidSource):
		return "invalid_source"
	case errors.Is(err, html.ErrNotImplemented):
		return "not_implemented"
	default:
		return "internal"
	}
}
