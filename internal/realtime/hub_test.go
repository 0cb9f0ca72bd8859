package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)

	hello := readEvent(t, a)
	assert.Equal(t, EventConnected, hello.Type)
	assert.NotEmpty(t, hello.ClientID)
	assert.Equal(t, EventConnected, readEvent(t, b).Type)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hub.NotifyUpdated(context.Background(), at)

	for _, conn := range []*websocket.Conn{a, b} {
		event := readEvent(t, conn)
		assert.Equal(t, EventLeaderboardUpdated, event.Type)
		assert.True(t, at.Equal(event.At))
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(logger.Nop())

	slow := &client{id: "slow", send: make(chan Event, 1), connectedAt: time.Now()}
	fast := &client{id: "fast", send: make(chan Event, 4), connectedAt: time.Now()}
	require.True(t, hub.register(slow))
	require.True(t, hub.register(fast))

	event := NewLeaderboardUpdated(time.Now())
	assert.Equal(t, 2, hub.Broadcast(event))
	assert.Equal(t, 1, hub.Broadcast(event))
	assert.Equal(t, 1, hub.ClientCount())

	// the queued event is still drained before the channel reports closed
	_, ok := <-slow.send
	assert.True(t, ok)
	_, ok = <-slow.send
	assert.False(t, ok)

	assert.Len(t, fast.send, 2)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
