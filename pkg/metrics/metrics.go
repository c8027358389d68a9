package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEvents counts processed identity-provider webhook events by type and outcome
	// (processed|ignored|rejected|failed).
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ministry_webhook_events_total",
			Help: "Total number of identity provider webhook events received",
		},
		[]string{"type", "outcome"},
	)

	// TenantsProvisioned counts organizations created through the provisioning workflow.
	TenantsProvisioned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ministry_tenants_provisioned_total",
			Help: "Total number of organizations provisioned",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ministry_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
