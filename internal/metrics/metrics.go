// Package metrics exposes the Prometheus collectors for the relay service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay outcomes recorded per processed request.
const (
	OutcomeRelayed  = "relayed"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// RequestsTotal counts processed slash-command requests by outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Processed slash-command requests by outcome.",
		},
		[]string{"outcome"},
	)

	// SignatureFailuresTotal counts requests rejected by signature verification, by failure reason.
	SignatureFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Subsystem: "relay",
			Name:      "signature_failures_total",
			Help:      "Requests rejected by timed HMAC signature verification, by reason.",
		},
		[]string{"reason"},
	)

	// RewriteFailuresTotal counts rewrite calls that failed and fell back to the original text.
	RewriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Subsystem: "relay",
			Name:      "rewrite_failures_total",
			Help:      "Rewrite calls that failed and fell back to the original text.",
		},
	)
)
