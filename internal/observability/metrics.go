// Package observability expone las métricas de Prometheus del dashboard.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cryptotracker"

// Metrics contiene las métricas de Prometheus de la aplicación.
// Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	// Métricas del mercado
	MarketRefreshes       *prometheus.CounterVec
	MarketRefreshDuration prometheus.Histogram
	CoinsTracked          prometheus.Gauge
	DetailFetches         *prometheus.CounterVec
	StaleDetailsDiscarded prometheus.Counter

	// Métricas del portafolio
	PortfolioMutations *prometheus.CounterVec
	PersistErrors      prometheus.Counter

	// Métricas del feed en vivo
	LiveFeedClients prometheus.Gauge
}

// NewMetrics crea las métricas sobre un registro propio
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MarketRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "refreshes_total",
			Help:      "Cantidad de actualizaciones del listado de mercado por resultado",
		}, []string{"result"}),
		MarketRefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "refresh_duration_seconds",
			Help:      "Duración de las consultas del listado de mercado",
			Buckets:   prometheus.DefBuckets,
		}),
		CoinsTracked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "coins_tracked",
			Help:      "Cantidad de monedas en el listado actual",
		}),
		DetailFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "detail_fetches_total",
			Help:      "Cantidad de consultas de detalle por resultado",
		}, []string{"result"}),
		StaleDetailsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "stale_details_discarded_total",
			Help:      "Detalles descartados porque la vista abierta cambió",
		}),
		PortfolioMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "mutations_total",
			Help:      "Cantidad de cambios en portafolio y watchlist por operación",
		}, []string{"operation"}),
		PersistErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "persist_errors_total",
			Help:      "Cantidad de escrituras fallidas en el almacenamiento persistente",
		}),
		LiveFeedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live_feed",
			Name:      "clients",
			Help:      "Cantidad de clientes websocket conectados",
		}),
	}
}

// Handler devuelve el handler HTTP que expone las métricas
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registro subyacente
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRefresh registra una consulta del listado de mercado
func (m *Metrics) ObserveRefresh(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.MarketRefreshDuration.Observe(d.Seconds())
	m.MarketRefreshes.WithLabelValues(result(err == nil)).Inc()
}

// SetCoinsTracked fija el tamaño del listado actual
func (m *Metrics) SetCoinsTracked(n int) {
	if m == nil {
		return
	}
	m.CoinsTracked.Set(float64(n))
}

// ObserveDetail registra una consulta de detalle
func (m *Metrics) ObserveDetail(ok bool) {
	if m == nil {
		return
	}
	m.DetailFetches.WithLabelValues(result(ok)).Inc()
}

// IncStaleDetail registra un detalle descartado
func (m *Metrics) IncStaleDetail() {
	if m == nil {
		return
	}
	m.StaleDetailsDiscarded.Inc()
}

// ObserveMutation registra un cambio en portafolio o watchlist y si falló al persistirse
func (m *Metrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	m.PortfolioMutations.WithLabelValues(operation).Inc()
	if err != nil {
		m.PersistErrors.Inc()
	}
}

// AddLiveFeedClients ajusta la cantidad de clientes conectados
func (m *Metrics) AddLiveFeedClients(delta int) {
	if m == nil {
		return
	}
	m.LiveFeedClients.Add(float64(delta))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
