package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CodesIssuedTotal counts issued verification codes by purpose and channel.
	CodesIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zintra",
		Subsystem: "verify",
		Name:      "codes_issued_total",
		Help:      "Verification codes issued.",
	}, []string{"purpose", "channel"})

	// ValidationsTotal counts code submissions by outcome.
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zintra",
		Subsystem: "verify",
		Name:      "validations_total",
		Help:      "Verification code submissions by outcome.",
	}, []string{"outcome"})

	// RateLimitedTotal counts issuance requests blocked by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zintra",
		Subsystem: "verify",
		Name:      "rate_limited_total",
		Help:      "Issuance requests blocked by the rate limiter.",
	}, []string{"purpose"})

	// DeliveriesTotal counts delivery attempts by channel and result
	// ("ok" or the normalized failure reason).
	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zintra",
		Subsystem: "verify",
		Name:      "deliveries_total",
		Help:      "Code delivery attempts by channel and result.",
	}, []string{"channel", "result"})

	// CreditDebitsTotal counts successful ledger debits by spend type.
	CreditDebitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zintra",
		Subsystem: "zcc",
		Name:      "credit_debits_total",
		Help:      "Successful credit debits by spend type.",
	}, []string{"spend_type"})
)
