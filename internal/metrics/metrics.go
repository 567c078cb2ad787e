package metrics

import (
	"net/http"
	"time"

	"github.com/nexusai/billing/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the billing engine's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	TransactionsTotal  *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	AccountErrorsTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		TransactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_billing_transactions_total",
				Help: "Total number of ledger entries recorded",
			},
			[]string{"type", "status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nexus_billing_run_duration_seconds",
				Help:    "Duration of recurring billing runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
		AccountErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "nexus_billing_account_errors_total",
				Help: "Total number of accounts a billing run could not process",
			},
		),
	}

	registry.MustRegister(
		m.TransactionsTotal,
		m.RunDuration,
		m.AccountErrorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) RecordTransaction(txnType types.TransactionType, status types.TransactionStatus) {
	m.TransactionsTotal.WithLabelValues(txnType.String(), status.String()).Inc()
}

func (m *Metrics) ObserveRun(d time.Duration) {
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordAccountErrors(n int) {
	if n > 0 {
		m.AccountErrorsTotal.Add(float64(n))
	}
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
