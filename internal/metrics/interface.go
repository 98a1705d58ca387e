package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncTeamRegistrations()
	IncLiveEvents(eventType string)
	IncMatchesCompleted()
	ObserveCompletionDuration(seconds float64)
	IncAchievementsUnlocked(count int)
	IncConcurrencyConflicts()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
