package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/efreitasn/auctionengine/internal/domain"
)

const namespace = "auctionengine"

// Metrics counts engine events per symbol. It is an engine.Observer and
// owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	ordersAdded    *prometheus.CounterVec
	fills          *prometheus.CounterVec
	filledQuantity *prometheus.CounterVec
}

// NewMetrics registers the engine counters plus the Go and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_added_total",
			Help:      "Orders accepted by the engine.",
		}, []string{"symbol"}),
		fills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fills_total",
			Help:      "Fills produced by matching passes.",
		}, []string{"symbol"}),
		filledQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filled_quantity_total",
			Help:      "Units exchanged across all fills.",
		}, []string{"symbol"}),
	}

	m.registry.MustRegister(
		m.ordersAdded,
		m.fills,
		m.filledQuantity,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// OrderAdded counts an accepted order.
func (m *Metrics) OrderAdded(order domain.Order) {
	m.ordersAdded.WithLabelValues(order.Symbol).Inc()
}

// Matched counts a fill and its quantity.
func (m *Metrics) Matched(fill domain.Fill) {
	m.fills.WithLabelValues(fill.Symbol).Inc()
	m.filledQuantity.WithLabelValues(fill.Symbol).Add(float64(fill.Quantity))
}

// Gauge registers a gauge named namespace_name whose value is read from
// fn at scrape time. It panics if the name is already registered.
func (m *Metrics) Gauge(name, help string, fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(fn()) }))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
