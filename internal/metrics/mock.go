package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	teamRegistrations    int
	liveEvents           map[string]int
	matchesCompleted     int
	completionDurations  []float64
	achievementsUnlocked int
	concurrencyConflicts int
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		liveEvents:          make(map[string]int),
		completionDurations: make([]float64, 0),
	}
}

func (m *Mock) IncTeamRegistrations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamRegistrations++
}

func (m *Mock) IncLiveEvents(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveEvents[eventType]++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) ObserveCompletionDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionDurations = append(m.completionDurations, seconds)
}

func (m *Mock) IncAchievementsUnlocked(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievementsUnlocked += count
}

func (m *Mock) IncConcurrencyConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.concurrencyConflicts++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// TeamRegistrations returns the number of times IncTeamRegistrations was called.
func (m *Mock) TeamRegistrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamRegistrations
}

// LiveEvents returns how many live events of eventType were counted.
func (m *Mock) LiveEvents(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveEvents[eventType]
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// AchievementsUnlocked returns the total passed to IncAchievementsUnlocked.
func (m *Mock) AchievementsUnlocked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.achievementsUnlocked
}

// ConcurrencyConflicts returns the number of times IncConcurrencyConflicts was called.
func (m *Mock) ConcurrencyConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.concurrencyConflicts
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
