// Package realtime pushes leaderboard change notifications to websocket clients.
package realtime

import "time"

// EventType identifies a pushed event
type EventType string

const (
	EventConnected          EventType = "connected"
	EventLeaderboardUpdated EventType = "leaderboard.updated"
)

// Event is the JSON frame written to clients
type Event struct {
	Type     EventType `json:"type"`
	At       time.Time `json:"at"`
	ClientID string    `json:"clientId,omitempty"`
}

// NewLeaderboardUpdated announces a fresh ranking snapshot taken at at
func NewLeaderboardUpdated(at time.Time) Event {
	return Event{Type: EventLeaderboardUpdated, At: at.UTC()}
}

func newConnected(clientID string, at time.Time) Event {
	return Event{Type: EventConnected, At: at.UTC(), ClientID: clientID}
}
