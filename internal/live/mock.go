package live

import "sync"

// Broadcast is one recorded BroadcastToRoom call.
type Broadcast struct {
	Room    string
	Type    string
	Payload any
}

// Mock records broadcasts instead of sending them. It is safe for concurrent use.
type Mock struct {
	mu    sync.Mutex
	Calls []Broadcast
}

// NewMock creates a new mock broadcaster.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) BroadcastToRoom(room, kind string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Broadcast{Room: room, Type: kind, Payload: payload})
}

// Rooms returns the rooms broadcast to, in call order.
func (m *Mock) Rooms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		rooms[i] = c.Room
	}
	return rooms
}
