package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_sessions_started_total",
		Help: "Total number of story sessions started.",
	})

	SessionsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_sessions_completed_total",
		Help: "Total number of story sessions that reached completion.",
	})

	UnsafeChoicesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_unsafe_choices_total",
		Help: "Total number of unsafe option selections across sessions.",
	})

	RiskAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_risk_alerts_total",
		Help: "Total number of unsafe-choice alerts raised.",
	})

	EmotionSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_emotion_samples_total",
		Help: "Total number of emotion samples recorded.",
	})

	ClassifierFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_classifier_failures_total",
		Help: "Total number of failed frame classifications.",
	})

	ReportSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "player_report_submissions_total",
			Help: "Total number of progress report submissions by status.",
		},
		[]string{"status"},
	)
)
