// Package store holds the rank repositories: in-memory, PostgreSQL and a Redis read-through cache.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// Memory keeps everything in process. List returns entries in first-insertion order.
type Memory struct {
	mu sync.RWMutex

	users     map[string]contracts.UserRank
	userOrder []string
	teams     map[string]contracts.TeamRank
	teamOrder []string

	snapshots map[string]contracts.Snapshot
	questions map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]contracts.UserRank),
		teams:     make(map[string]contracts.TeamRank),
		snapshots: make(map[string]contracts.Snapshot),
		questions: make(map[string]json.RawMessage),
	}
}

// Users exposes the store as a UserRankRepository
func (m *Memory) Users() contracts.UserRankRepository { return memoryUsers{m} }

// Teams exposes the store as a TeamRankRepository
func (m *Memory) Teams() contracts.TeamRankRepository { return memoryTeams{m} }

type memoryUsers struct{ m *Memory }

func (r memoryUsers) Get(ctx context.Context, id string) (contracts.UserRank, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return contracts.UserRank{}, contracts.ErrNotFound
	}
	return u.Clone(), nil
}

func (r memoryUsers) Put(ctx context.Context, users ...contracts.UserRank) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range users {
		if _, ok := r.m.users[u.ID]; !ok {
			r.m.userOrder = append(r.m.userOrder, u.ID)
		}
		r.m.users[u.ID] = u.Clone()
	}
	return nil
}

func (r memoryUsers) List(ctx context.Context) ([]contracts.UserRank, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]contracts.UserRank, 0, len(r.m.userOrder))
	for _, id := range r.m.userOrder {
		out = append(out, r.m.users[id].Clone())
	}
	return out, nil
}

type memoryTeams struct{ m *Memory }

func (r memoryTeams) Get(ctx context.Context, id string) (contracts.TeamRank, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	t, ok := r.m.teams[id]
	if !ok {
		return contracts.TeamRank{}, contracts.ErrNotFound
	}
	return t, nil
}

func (r memoryTeams) Put(ctx context.Context, teams ...contracts.TeamRank) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, t := range teams {
		if _, ok := r.m.teams[t.ID]; !ok {
			r.m.teamOrder = append(r.m.teamOrder, t.ID)
		}
		r.m.teams[t.ID] = t
	}
	return nil
}

func (r memoryTeams) List(ctx context.Context) ([]contracts.TeamRank, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]contracts.TeamRank, 0, len(r.m.teamOrder))
	for _, id := range r.m.teamOrder {
		out = append(out, r.m.teams[id])
	}
	return out, nil
}

// SaveSnapshot replaces the latest snapshot of its kind
func (m *Memory) SaveSnapshot(ctx context.Context, snapshot contracts.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	positions := make(map[string]int, len(snapshot.Positions))
	for k, v := range snapshot.Positions {
		positions[k] = v
	}
	snapshot.Positions = positions
	if snapshot.Previous != nil {
		previous := make(map[string]int, len(snapshot.Previous))
		for k, v := range snapshot.Previous {
			previous[k] = v
		}
		snapshot.Previous = previous
	}
	m.snapshots[snapshot.Kind] = snapshot
	return nil
}

// LatestSnapshot returns the last snapshot saved for kind
func (m *Memory) LatestSnapshot(ctx context.Context, kind string) (contracts.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[kind]
	if !ok {
		return contracts.Snapshot{}, contracts.ErrNotFound
	}
	return s, nil
}

// GetQuestionSet returns the cached question set for skill and proficiency
func (m *Memory) GetQuestionSet(ctx context.Context, skill, proficiency string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.questions[questionKey(skill, proficiency)]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return append(json.RawMessage(nil), payload...), nil
}

// PutQuestionSet caches a question set for skill and proficiency
func (m *Memory) PutQuestionSet(ctx context.Context, skill, proficiency string, payload json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.questions[questionKey(skill, proficiency)] = append(json.RawMessage(nil), payload...)
	return nil
}
