package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

const (
	// Ping/Pong settings
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second

	// sendBuffer is how many events a client may fall behind before it is dropped
	sendBuffer = 16

	// clients only send control frames
	maxMessageSize = 512
)

type client struct {
	id          string
	conn        *websocket.Conn
	send        chan Event
	connectedAt time.Time
}

// Hub tracks websocket clients and fans events out to them.
// A client whose buffer is full is disconnected rather than blocking the broadcast.
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// NewHub creates a new hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log.WithComponent("realtime"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the board is public; the web app is served from another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the request and streams events until the client goes away
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	c := &client{
		id:          uuid.NewString(),
		conn:        conn,
		send:        make(chan Event, sendBuffer),
		connectedAt: time.Now(),
	}
	c.send <- newConnected(c.id, c.connectedAt)

	if !h.register(c) {
		conn.Close()
		return
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.WithFields(map[string]interface{}{
		"client_id":     c.id,
		"total_clients": total,
	}).Info("Websocket client connected")
	return true
}

// unregister removes c and closes its send channel, which stops its write loop
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.WithFields(map[string]interface{}{
		"client_id":     c.id,
		"duration":      time.Since(c.connectedAt),
		"total_clients": total,
	}).Info("Websocket client disconnected")
}

// readLoop consumes control frames so pongs extend the read deadline
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).WithField("client_id", c.id).Debug("Websocket read failed")
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				h.logger.WithError(err).WithField("client_id", c.id).Debug("Websocket write failed")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast queues event for every client and returns how many accepted it
func (h *Hub) Broadcast(event Event) int {
	var delivered int
	var slow []*client

	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- event:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.WithFields(map[string]interface{}{
			"client_id":  c.id,
			"event_type": string(event.Type),
		}).Warn("Dropping slow websocket client")
		h.unregister(c)
	}

	h.logger.WithFields(map[string]interface{}{
		"event_type": string(event.Type),
		"delivered":  delivered,
		"dropped":    len(slow),
	}).Debug("Event broadcast")

	return delivered
}

// NotifyUpdated broadcasts a leaderboard.updated event
func (h *Hub) NotifyUpdated(ctx context.Context, at time.Time) {
	h.Broadcast(NewLeaderboardUpdated(at))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
	h.logger.Info("All websocket clients disconnected")
}
