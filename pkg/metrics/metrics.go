package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agro"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	InvestmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "investments_total",
		Help:      "Investment attempts by outcome.",
	}, []string{"outcome"})

	RealtimeSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_subscribers",
		Help:      "Open change feed subscriptions by table.",
	}, []string{"table"})

	RealtimeDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_dropped_events_total",
		Help:      "Change events dropped because a subscriber buffer was full.",
	}, []string{"table"})

	FundingMismatches = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "funding_reconcile_mismatches",
		Help:      "Projects whose amount raised disagrees with committed investments at the last reconciliation.",
	})
)

// Investment outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)
