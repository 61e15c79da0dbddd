package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the parser's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	documentsTotal    *prometheus.CounterVec
	fieldsTotal       *prometheus.CounterVec
	documentDuration  prometheus.Histogram
	ocrFallbacksTotal *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statement",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "statement",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statement",
			Subsystem: "parser",
			Name:      "documents_total",
			Help:      "Statements parsed, by detected issuer and outcome.",
		},
		[]string{"issuer", "status"},
	)
	fieldsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statement",
			Subsystem: "parser",
			Name:      "fields_extracted_total",
			Help:      "Fields found, by field and the strategy that found them.",
		},
		[]string{"field", "strategy"},
	)
	documentDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "statement",
			Subsystem: "parser",
			Name:      "document_duration_seconds",
			Help:      "Time to parse one statement, OCR included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
	ocrFallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statement",
			Subsystem: "ocr",
			Name:      "pages_total",
			Help:      "Pages recognized by OCR, by engine and outcome.",
		},
		[]string{"engine", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		documentsTotal,
		fieldsTotal,
		documentDuration,
		ocrFallbacksTotal,
	)

	return &Metrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		documentsTotal:    documentsTotal,
		fieldsTotal:       fieldsTotal,
		documentDuration:  documentDuration,
		ocrFallbacksTotal: ocrFallbacksTotal,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request totals and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordDocument(issuer, status string, duration time.Duration) {
	if issuer == "" {
		issuer = "unknown"
	}
	m.documentsTotal.WithLabelValues(issuer, status).Inc()
	m.documentDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordField(field, strategy string) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.fieldsTotal.WithLabelValues(field, strategy).Inc()
}

func (m *Metrics) RecordOCRPage(engine string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.ocrFallbacksTotal.WithLabelValues(engine, status).Inc()
}
