package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

var _ inventory.Recorder = (*Metrics)(nil)

// Metrics agrupa las métricas Prometheus de la API y de los reportes del libro.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reportsTotal    *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	skippedTotal    *prometheus.CounterVec
	truncatedTotal  *prometheus.CounterVec
}

// New inicializa un registry propio con las métricas del servicio.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockledger_http_requests_total",
		Help: "Peticiones HTTP por ruta y código de estado.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockledger_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockledger_reports_total",
		Help: "Reportes generados por tipo y resultado.",
	}, []string{"report", "result"})
	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockledger_report_duration_seconds",
		Help:    "Duración de la generación de reportes.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"report"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockledger_skipped_records_total",
		Help: "Registros omitidos por el motor de conciliación, por motivo.",
	}, []string{"report", "reason"})
	truncated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockledger_truncated_reports_total",
		Help: "Reportes cuyo resultado alcanzó el límite de paginación.",
	}, []string{"report"})
	registry.MustRegister(requests, duration, reports, reportDuration, skipped, truncated)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reportsTotal:    reports,
		reportDuration:  reportDuration,
		skippedTotal:    skipped,
		truncatedTotal:  truncated,
	}
}

// Handler devuelve el http.Handler del endpoint de métricas.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registerer expone el registry para métricas adicionales.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// Middleware registra conteo y duración de cada petición usando el patrón de ruta de Fiber.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unknown"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveReport implementa inventory.Recorder.
func (m *Metrics) ObserveReport(report string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reportsTotal.WithLabelValues(report, result).Inc()
	m.reportDuration.WithLabelValues(report).Observe(d.Seconds())
}

// RecordSkipped implementa inventory.Recorder.
func (m *Metrics) RecordSkipped(report, reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedTotal.WithLabelValues(report, reason).Add(float64(n))
}

// RecordTruncated implementa inventory.Recorder.
func (m *Metrics) RecordTruncated(report string) {
	if m == nil {
		return
	}
	m.truncatedTotal.WithLabelValues(report).Inc()
}
