package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, room string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeRoom(w, r, room)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Clients(room) > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_BroadcastToRoom(t *testing.T) {
	hub := NewHub(nil)
	matchConn := dial(t, hub, MatchRoom("m1"))
	otherConn := dial(t, hub, MatchRoom("m2"))

	hub.BroadcastToRoom(MatchRoom("m1"), "goal", map[string]int{"homeScore": 1})

	var msg Message
	require.NoError(t, matchConn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, matchConn.ReadJSON(&msg))
	assert.Equal(t, "goal", msg.Type)
	assert.Equal(t, "match_m1", msg.RoomID)
	assert.Equal(t, map[string]any{"homeScore": float64(1)}, msg.Payload)

	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := otherConn.ReadMessage()
	assert.Error(t, err, "clients in other rooms get nothing")
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub(nil)
	conn := dial(t, hub, TournamentRoom("t1"))
	require.Equal(t, 1, hub.Clients("tournament_t1"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients("tournament_t1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() { hub.BroadcastToRoom("empty", "noop", nil) })
}
