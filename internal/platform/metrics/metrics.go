package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	InvoicesCreated        prometheus.Counter
	SendsCommitted         prometheus.Counter
	NotifierFailures       prometheus.Counter
	ConfirmationsApplied   prometheus.Counter
	ConfirmationsDuplicate prometheus.Counter
	ConfirmationsIgnored   prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		InvoicesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoicer_invoices_created_total",
			Help: "Total number of invoices created",
		}),
		SendsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoicer_sends_committed_total",
			Help: "Total number of invoices committed to the sending state",
		}),
		NotifierFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoicer_notifier_failures_total",
			Help: "Total number of outbound notification failures after the sending state was committed",
		}),
		ConfirmationsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoicer_delivery_confirmations_applied_total",
			Help: "Total number of delivery confirmations that advanced an invoice to sent-to-client",
		}),
		ConfirmationsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoicer_delivery_confirmations_duplicate_total",
			Help: "Total number of delivery confirmations absorbed because the invoice was already delivered",
		}),
		ConfirmationsIgnored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoicer_delivery_confirmations_ignored_total",
			Help: "Total number of delivery confirmations absorbed as no-ops (unknown invoice or wrong status)",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoicer_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
