package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when an id has no row
var ErrNotFound = errors.New("not found")

// UserRankRepository stores the individual population
type UserRankRepository interface {
	Get(ctx context.Context, id string) (UserRank, error)
	Put(ctx context.Context, users ...UserRank) error
	List(ctx context.Context) ([]UserRank, error)
}

// TeamRankRepository stores the precomputed team population
type TeamRankRepository interface {
	Get(ctx context.Context, id string) (TeamRank, error)
	Put(ctx context.Context, teams ...TeamRank) error
	List(ctx context.Context) ([]TeamRank, error)
}

// SnapshotRepository keeps ranking snapshots so position changes can be diffed
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	// LatestSnapshot returns ErrNotFound when no snapshot of that kind exists
	LatestSnapshot(ctx context.Context, kind string) (Snapshot, error)
}

// AssessmentCache keeps the last good generated question set per skill and proficiency
type AssessmentCache interface {
	// GetQuestionSet returns ErrNotFound on a miss
	GetQuestionSet(ctx context.Context, skill, proficiency string) (json.RawMessage, error)
	PutQuestionSet(ctx context.Context, skill, proficiency string, payload json.RawMessage) error
}

// Snapshot kinds besides the per-dimension group snapshots
const (
	SnapshotUsers = "users"
	SnapshotTeams = "teams"
)

// GroupSnapshotKind names the snapshot of groups aggregated by d
func GroupSnapshotKind(d Dimension) string {
	return "group:" + d.String()
}

// Snapshot records the positions of one ranking at a point in time
type Snapshot struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	TakenAt   time.Time      `json:"takenAt"`
	Positions map[string]int `json:"positions"` // entity id or group key -> position

	// Previous holds the positions of the snapshot this one replaced
	Previous map[string]int `json:"previous,omitempty"`
}

// Baseline returns the replaced snapshot's positions as a snapshot, or nil
func (s *Snapshot) Baseline() *Snapshot {
	if s == nil || s.Previous == nil {
		return nil
	}
	return &Snapshot{Kind: s.Kind, Positions: s.Previous}
}

// PositionOf returns the recorded position for key
func (s *Snapshot) PositionOf(key string) (int, bool) {
	if s == nil || s.Positions == nil {
		return 0, false
	}
	pos, ok := s.Positions[key]
	return pos, ok
}

// Change returns how many places key moved up since this snapshot (0 if unknown)
func (s *Snapshot) Change(key string, position int) int {
	prev, ok := s.PositionOf(key)
	if !ok {
		return 0
	}
	return prev - position
}
