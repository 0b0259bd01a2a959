package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes.
const (
	OutcomeDelivered     = "delivered"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeGenerateError = "generate_error"
	OutcomeSynthError    = "synthesize_error"
	OutcomeLedgerError   = "ledger_error"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicebot_turns_total",
			Help: "Conversation turns by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voicebot_stage_duration_seconds",
			Help:    "Latency of the generate and synthesize stages",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~1min
		},
		[]string{"stage"},
	)

	CatalogVoices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voicebot_catalog_voices",
			Help: "Number of voices loaded into the catalog",
		},
	)

	AdminActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicebot_admin_actions_total",
			Help: "Admin commands executed",
		},
		[]string{"action"},
	)
)

// RecordTurn counts a finished conversation turn.
func RecordTurn(outcome string) {
	TurnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, seconds float64) {
	StageDuration.WithLabelValues(stage).Observe(seconds)
}

// SetCatalogSize updates the catalog gauge.
func SetCatalogSize(n int) {
	CatalogVoices.Set(float64(n))
}

// RecordAdminAction counts an admin command.
func RecordAdminAction(action string) {
	AdminActionsTotal.WithLabelValues(action).Inc()
}
