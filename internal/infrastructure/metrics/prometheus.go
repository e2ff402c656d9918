// Package metrics expone contadores Prometheus del registro de administraciones, de las
// evaluaciones de cumplimiento y de las peticiones HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
)

const namespace = "ganaderia"

var (
	_ administration.Metrics = (*Collector)(nil)
	_ compliance.Metrics     = (*Collector)(nil)
)

// Collector agrupa las métricas de la API sobre un registro propio (no el global).
type Collector struct {
	registry *prometheus.Registry

	administrations   *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	evaluations       prometheus.Counter
	evaluationSeconds prometheus.Histogram
	farmScore         *prometheus.GaugeVec
	httpRequests      *prometheus.CounterVec
	httpSeconds       *prometheus.HistogramVec
}

// New registra las métricas. Con withRuntime agrega los colectores de Go y del proceso.
func New(withRuntime bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		administrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "administrations_recorded_total",
			Help: "Administraciones aceptadas en el ledger, por vía.",
		}, []string{"route"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "administrations_rejected_total",
			Help: "Administraciones rechazadas, por motivo.",
		}, []string{"reason"}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "compliance_evaluations_total",
			Help: "Evaluaciones de cumplimiento calculadas.",
		}),
		evaluationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "compliance_evaluation_seconds",
			Help:    "Duración de la evaluación de cumplimiento.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		farmScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "compliance_score",
			Help: "Último puntaje calculado por finca.",
		}, []string{"farm_id"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_seconds",
			Help:    "Latencia HTTP por método y ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	c.registry.MustRegister(
		c.administrations, c.rejections, c.evaluations, c.evaluationSeconds,
		c.farmScore, c.httpRequests, c.httpSeconds,
	)
	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// AdministrationRecorded implementa administration.Metrics.
func (c *Collector) AdministrationRecorded(route string) {
	if route == "" {
		route = "sin_via"
	}
	c.administrations.WithLabelValues(route).Inc()
}

// AdministrationRejected implementa administration.Metrics.
func (c *Collector) AdministrationRejected(reason string) {
	c.rejections.WithLabelValues(reason).Inc()
}

// ComplianceEvaluated implementa compliance.Metrics.
func (c *Collector) ComplianceEvaluated(farmID string, score int, elapsed time.Duration) {
	c.evaluations.Inc()
	c.evaluationSeconds.Observe(elapsed.Seconds())
	c.farmScore.WithLabelValues(farmID).Set(float64(score))
}

// HTTPRequest registra una petición; route es el patrón (/api/farms/:id), no la URL.
func (c *Collector) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry registro subyacente (pruebas).
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler sirve /metrics en formato de exposición Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
