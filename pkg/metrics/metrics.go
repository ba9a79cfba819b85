package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegistrationsTotal counts registration attempts by outcome
// (created, duplicate, error)
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "brieflyai_registrations_total",
		Help: "Total number of registration attempts by outcome",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts by outcome
// (success, invalid_credentials, disabled, error)
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "brieflyai_logins_total",
		Help: "Total number of login attempts by outcome",
	},
	[]string{"outcome"},
)

// SummarizationsTotal counts summarization requests by outcome
var SummarizationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "brieflyai_summarizations_total",
		Help: "Total number of summarization requests by outcome",
	},
	[]string{"outcome"},
)

// SummarizationLatency records latency distribution for upstream
// inference calls
var SummarizationLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "brieflyai_summarization_latency_seconds",
		Help:    "Latency in seconds of upstream summarization calls",
		Buckets: prometheus.DefBuckets,
	},
)

func init() {
	prometheus.MustRegister(RegistrationsTotal, LoginsTotal)
	prometheus.MustRegister(SummarizationsTotal, SummarizationLatency)
}
