package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}

// HTTPMetrics captures low-cardinality HTTP server metrics.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics registers HTTP metrics on the given registerer.
func NewHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "nfeat_http_request_duration_seconds",
			Help:        "HTTP request duration by endpoint and status code.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "status_code"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "nfeat_http_in_flight_requests",
			Help:        "Number of HTTP requests currently being served.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(requestDuration, inFlight)
	return &HTTPMetrics{
		requestDuration: requestDuration,
		inFlight:        inFlight,
	}
}

// GinMiddleware records request duration and in-flight metrics.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		m.inFlight.Inc()
		start := time.Now()
		c.Next()
		m.inFlight.Dec()

		endpoint := normalizeEndpoint(c.FullPath())
		m.requestDuration.
			WithLabelValues(endpoint, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// ReceiptMetrics tracks document generation outcomes.
type ReceiptMetrics struct {
	generated *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewReceiptMetrics registers receipt generation metrics.
func NewReceiptMetrics(registerer prometheus.Registerer, cfg Config) *ReceiptMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	generated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nfeat_receipts_generated_total",
			Help:        "Total receipt documents generated by variant and result.",
			ConstLabels: constLabels,
		},
		[]string{"variant", "result"}, // result: success | malformed | renderer_unavailable | failed
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "nfeat_receipt_render_duration_seconds",
			Help:        "Time spent building and rendering a receipt document.",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(generated, duration)
	return &ReceiptMetrics{generated: generated, duration: duration}
}

// IncGenerated counts one generation attempt outcome.
func (m *ReceiptMetrics) IncGenerated(variant, result string) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(variant, result).Inc()
}

// ObserveRenderDuration records how long a build+render took.
func (m *ReceiptMetrics) ObserveRenderDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func (c Config) constLabels() prometheus.Labels {
	service := strings.TrimSpace(c.ServiceName)
	if service == "" {
		service = "nfeat"
	}
	environment := strings.TrimSpace(c.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{"service": service, "env": environment}
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "unmatched"
	}
	return endpoint
}
