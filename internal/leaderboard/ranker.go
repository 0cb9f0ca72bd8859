package leaderboard

import (
	"maps"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// Ranker assigns positions from learning points
type Ranker struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewRanker creates a new ranker
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{
		logger: log,
		now:    time.Now,
	}
}

// RankUsers sorts users by points (descending, id ascending on ties) and assigns positions.
// previous, when non-nil, supplies the position changes.
func (r *Ranker) RankUsers(users []contracts.UserRank, previous *contracts.Snapshot) []contracts.UserRank {
	ranked := contracts.CloneUsers(users)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].PositionChange = previous.Change(ranked[i].ID, ranked[i].Position)
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_users": len(ranked),
			"top_points":  ranked[0].Points,
			"top_user":    ranked[0].ID,
		}).Info("User ranking completed")
	}

	return ranked
}

// RankTeams is RankUsers for the team population
func (r *Ranker) RankTeams(teams []contracts.TeamRank, previous *contracts.Snapshot) []contracts.TeamRank {
	ranked := make([]contracts.TeamRank, len(teams))
	copy(ranked, teams)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].PositionChange = previous.Change(ranked[i].ID, ranked[i].Position)
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_teams": len(ranked),
			"top_points":  ranked[0].Points,
			"top_team":    ranked[0].ID,
		}).Info("Team ranking completed")
	}

	return ranked
}

// SnapshotOfUsers records user positions keyed by id
func (r *Ranker) SnapshotOfUsers(users []contracts.UserRank) contracts.Snapshot {
	s := r.newSnapshot(contracts.SnapshotUsers, len(users))
	for _, u := range users {
		s.Positions[u.ID] = u.Position
	}
	return s
}

// SnapshotOfTeams records team positions keyed by id
func (r *Ranker) SnapshotOfTeams(teams []contracts.TeamRank) contracts.Snapshot {
	s := r.newSnapshot(contracts.SnapshotTeams, len(teams))
	for _, t := range teams {
		s.Positions[t.ID] = t.Position
	}
	return s
}

// SnapshotOfGroups records aggregated group positions keyed by group name.
// The positions of previous are carried along so boards can diff against them later.
// When nothing moved since previous, its own baseline is kept so the last real movement stays visible.
func (r *Ranker) SnapshotOfGroups(d contracts.Dimension, groups []contracts.TeamRank, previous *contracts.Snapshot) contracts.Snapshot {
	s := r.newSnapshot(contracts.GroupSnapshotKind(d), len(groups))
	for _, g := range groups {
		s.Positions[g.Name] = g.Position
	}
	if previous == nil {
		return s
	}

	baseline := previous.Positions
	if previous.Previous != nil && maps.Equal(previous.Positions, s.Positions) {
		baseline = previous.Previous
	}
	s.Previous = maps.Clone(baseline)
	if s.Previous == nil {
		s.Previous = map[string]int{}
	}
	return s
}

func (r *Ranker) newSnapshot(kind string, size int) contracts.Snapshot {
	return contracts.Snapshot{
		ID:        uuid.NewString(),
		Kind:      kind,
		TakenAt:   r.now().UTC(),
		Positions: make(map[string]int, size),
	}
}
