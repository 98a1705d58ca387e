package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	TeamRegistrations    prometheus.Counter
	LiveEvents           *prometheus.CounterVec
	MatchesCompleted     prometheus.Counter
	CompletionDuration   prometheus.Histogram
	AchievementsUnlocked prometheus.Counter
	ConcurrencyConflicts prometheus.Counter
	SlackNotifSent       prometheus.Counter
	SlackNotifFailed     prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}
