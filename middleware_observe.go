package depot

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
)

// LoggingMiddleware logs every resolution at Debug and every failure at Error.
type LoggingMiddleware struct {
	logger log.Logger
}

// NewLoggingMiddleware creates a logging middleware. A nil logger discards.
func NewLoggingMiddleware(logger log.Logger) *LoggingMiddleware {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	return &LoggingMiddleware{logger: logger}
}

// BeforeResolve implements Middleware.
func (m *LoggingMiddleware) BeforeResolve(_ context.Context, name string) error {
	m.logger.Debug("resolving service", log.String("service", name))

	return nil
}

// AfterResolve implements Middleware.
func (m *LoggingMiddleware) AfterResolve(_ context.Context, name string, _ any, err error) error {
	if err != nil {
		m.logger.Error("service resolution failed",
			log.String("service", name),
			log.Error(err),
		)

		return nil
	}

	m.logger.Debug("service resolved", log.String("service", name))

	return nil
}

// Metric names recorded by MetricsMiddleware.
const (
	MetricResolveTotal       = "depot_resolve_total"
	MetricResolveFailedTotal = "depot_resolve_failed_total"
)

// MetricsMiddleware counts resolutions and failures per service.
type MetricsMiddleware struct {
	metrics metrics.Metrics
}

// NewMetricsMiddleware creates a middleware recording into m.
func NewMetricsMiddleware(m metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// BeforeResolve implements Middleware.
func (m *MetricsMiddleware) BeforeResolve(context.Context, string) error {
	return nil
}

// AfterResolve implements Middleware.
func (m *MetricsMiddleware) AfterResolve(_ context.Context, name string, _ any, err error) error {
	if m.metrics == nil {
		return nil
	}

	m.metrics.Counter(MetricResolveTotal,
		metrics.WithLabel("service", name),
	).Inc()

	if err != nil {
		m.metrics.Counter(MetricResolveFailedTotal,
			metrics.WithLabel("service", name),
		).Inc()
	}

	return nil
}

// PrometheusMiddleware counts resolutions in depot_resolutions_total,
// labelled by service and result ("success" or "error").
type PrometheusMiddleware struct {
	resolutions *prometheus.CounterVec
}

// NewPrometheusMiddleware registers the resolution counter with reg. A
// counter registered earlier under the same name is reused.
func NewPrometheusMiddleware(reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "depot_resolutions_total",
		Help: "Service resolutions by service and result.",
	}, []string{"service", "result"})

	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}

		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}

		counter = existing
	}

	return &PrometheusMiddleware{resolutions: counter}, nil
}

// Collector returns the underlying counter.
func (m *PrometheusMiddleware) Collector() *prometheus.CounterVec {
	return m.resolutions
}

// BeforeResolve implements Middleware.
func (m *PrometheusMiddleware) BeforeResolve(context.Context, string) error {
	return nil
}

// AfterResolve implements Middleware.
func (m *PrometheusMiddleware) AfterResolve(_ context.Context, name string, _ any, err error) error {
	result := "success"
	if err != nil {
		result = "error"
	}

	m.resolutions.WithLabelValues(name, result).Inc()

	return nil
}
