package notifier

import (
	"sync"

	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/tournament"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc         func(ev pubsub.MatchCompleted, dryRun bool) error
	SendAchievementUnlockedFunc func(ev pubsub.AchievementUnlocked, dryRun bool) error

	// Call records
	SendMatchResultCalls         []pubsub.MatchCompleted
	SendAchievementUnlockedCalls []pubsub.AchievementUnlocked
	SendStandingsCalls           []struct {
		Name string
		View *tournament.StandingsView
	}
	SendLeaderboardCalls [][]achievement.LeaderboardEntry
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendAchievementUnlockedCalls = nil
	m.SendStandingsCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendMatchResult(ev pubsub.MatchCompleted, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, ev)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(ev, dryRun)
	}
	return nil
}

func (m *Mock) SendAchievementUnlocked(ev pubsub.AchievementUnlocked, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAchievementUnlockedCalls = append(m.SendAchievementUnlockedCalls, ev)
	if m.SendAchievementUnlockedFunc != nil {
		return m.SendAchievementUnlockedFunc(ev, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(name string, view *tournament.StandingsView, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, struct {
		Name string
		View *tournament.StandingsView
	}{name, view})
	return nil
}

func (m *Mock) SendLeaderboard(entries []achievement.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return nil
}
