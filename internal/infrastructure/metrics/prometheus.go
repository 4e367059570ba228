// Package metrics implementa ports.Metrics con Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/erp-core/internal/application/ports"
)

const namespace = "erp"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus registro propio con los colectores del motor de inventario y libro.
type Prometheus struct {
	registry      *prometheus.Registry
	resolutions   *prometheus.HistogramVec
	availability  *prometheus.CounterVec
	shortages     prometheus.Counter
	postings      *prometheus.CounterVec
	decisions     *prometheus.CounterVec
	balanceChecks *prometheus.CounterVec
}

// NewPrometheus crea y registra los colectores (incluye métricas de proceso y runtime de Go).
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bom",
			Name:      "resolution_duration_seconds",
			Help:      "Duración de la resolución de listas de materiales por resultado.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"outcome"}),
		availability: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "checks_total",
			Help:      "Verificaciones de inventario por resultado.",
		}, []string{"available"}),
		shortages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "shortages_total",
			Help:      "Faltantes de materiales atómicos reportados.",
		}),
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "postings_total",
			Help:      "Asientos por tipo, moneda y resultado.",
		}, []string{"type", "currency", "outcome"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "item_decisions_total",
			Help:      "Decisiones sobre líneas de pedido.",
		}, []string{"accepted"}),
		balanceChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "balance_checks_total",
			Help:      "Verificaciones de saldo cacheado contra derivado.",
		}, []string{"consistent"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.resolutions, p.availability, p.shortages, p.postings, p.decisions, p.balanceChecks,
	)
	return p
}

// Registry registro subyacente (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler expone el registro en formato de texto Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) ObserveResolution(outcome string, elapsed time.Duration) {
	p.resolutions.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveAvailability(available bool, shortages int) {
	p.availability.WithLabelValues(strconv.FormatBool(available)).Inc()
	p.shortages.Add(float64(shortages))
}

func (p *Prometheus) ObservePosting(postingType, currency, outcome string) {
	p.postings.WithLabelValues(postingType, currency, outcome).Inc()
}

func (p *Prometheus) ObserveOrderDecision(accepted bool) {
	p.decisions.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}

func (p *Prometheus) ObserveBalanceCheck(consistent bool) {
	p.balanceChecks.WithLabelValues(strconv.FormatBool(consistent)).Inc()
}
