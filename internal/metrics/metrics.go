// server/internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "lmis_mock"

// Collector holds the Prometheus metrics of the server on its own registry.
type Collector struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RequisitionsCreated          prometheus.Counter
	RequisitionTransitions       *prometheus.CounterVec
	RequisitionTransitionsFailed *prometheus.CounterVec

	StockEvents         prometheus.Counter
	StockEventLineItems *prometheus.CounterVec

	EventsReceived *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	m := &Collector{
		Registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route"}),

		RequisitionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requisition",
			Name:      "created_total",
			Help:      "Requisitions initiated through the API.",
		}),

		RequisitionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requisition",
			Name:      "transitions_total",
			Help:      "Successful requisition status transitions by target status.",
		}, []string{"to"}),

		RequisitionTransitionsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requisition",
			Name:      "transition_failures_total",
			Help:      "Rejected requisition transitions by target status and error kind.",
		}, []string{"to", "reason"}),

		StockEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "events_total",
			Help:      "Stock events recorded.",
		}),

		StockEventLineItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "event_line_items_total",
			Help:      "Stock event line items by result (applied or skipped).",
		}, []string{"result"}),

		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "received_total",
			Help:      "Webhook and simulated events by source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RequisitionsCreated,
		m.RequisitionTransitions,
		m.RequisitionTransitionsFailed,
		m.StockEvents,
		m.StockEventLineItems,
		m.EventsReceived,
	)

	return m
}

// RegisterGauge exposes a value computed at scrape time.
func (m *Collector) RegisterGauge(subsystem, name, help string, fn func() float64) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}
