package leaderboard

import (
	"sort"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

const (
	// MaxFilteredEntries caps the category-filtered list
	MaxFilteredEntries = 5
	// MaxGroups caps the aggregated group list
	MaxGroups = 5
)

// Filtered returns the first MaxFilteredEntries users whose attribute for d equals value,
// keeping their existing order. An empty value or "all" resolves to the viewer's own value.
// A non-attribute dimension returns an unfiltered copy of users.
func Filtered(users []contracts.UserRank, d contracts.Dimension, value string, viewer *contracts.UserRank) []contracts.UserRank {
	if !d.IsAttribute() {
		return contracts.CloneUsers(users)
	}

	resolved := ResolveValue(d, value, viewer)
	if resolved == "" {
		return []contracts.UserRank{}
	}

	out := make([]contracts.UserRank, 0, MaxFilteredEntries)
	for _, u := range users {
		if v, _ := d.Attribute(u); v != resolved {
			continue
		}
		out = append(out, u.Clone())
		if len(out) == MaxFilteredEntries {
			break
		}
	}
	return out
}

// ResolveValue applies the "all means mine" rule for filter values
func ResolveValue(d contracts.Dimension, value string, viewer *contracts.UserRank) string {
	if value != "" && value != contracts.ValueAll {
		return value
	}
	if viewer == nil {
		return ""
	}
	v, _ := d.Attribute(*viewer)
	return v
}

// Aggregate groups users by d and returns the top MaxGroups groups by summed points.
// For DimensionTeam the precomputed teams are returned instead of re-aggregating.
// previous, when non-nil, supplies last snapshot positions keyed by group name.
func Aggregate(users []contracts.UserRank, teams []contracts.TeamRank, d contracts.Dimension, viewer *contracts.UserRank, previous *contracts.Snapshot) []contracts.TeamRank {
	if d == contracts.DimensionTeam {
		return topTeams(teams, viewer)
	}

	groups := AggregateAll(users, d, viewer, previous)
	return groups[:min(MaxGroups, len(groups))]
}

// AggregateAll is Aggregate without the truncation and team short-circuit.
// Groups with equal points keep the order in which their key first appeared.
func AggregateAll(users []contracts.UserRank, d contracts.Dimension, viewer *contracts.UserRank, previous *contracts.Snapshot) []contracts.TeamRank {
	if !d.IsAttribute() {
		return []contracts.TeamRank{}
	}

	index := make(map[string]int)
	groups := make([]contracts.TeamRank, 0)
	for _, u := range users {
		key, _ := d.Attribute(u)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, contracts.TeamRank{
				ID:   GroupID(d, key),
				Name: key,
			})
		}
		groups[i].Points += u.Points
		groups[i].MemberCount++
	}

	var viewerKey string
	if viewer != nil {
		viewerKey, _ = d.Attribute(*viewer)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Points > groups[j].Points
	})

	for i := range groups {
		groups[i].Position = i + 1
		groups[i].PositionChange = previous.Change(groups[i].Name, groups[i].Position)
		groups[i].IsCurrentUserGroup = viewerKey != "" && groups[i].Name == viewerKey
	}

	return groups
}

// GroupID builds the id of an aggregated group
func GroupID(d contracts.Dimension, key string) string {
	return d.String() + ":" + key
}

// topTeams orders the stored teams by position and flags the viewer's own team
func topTeams(teams []contracts.TeamRank, viewer *contracts.UserRank) []contracts.TeamRank {
	sorted := make([]contracts.TeamRank, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	sorted = sorted[:min(MaxGroups, len(sorted))]

	for i := range sorted {
		if viewer != nil && viewer.Team != "" && sorted[i].Name == viewer.Team {
			sorted[i].IsCurrentUserGroup = true
		}
	}
	return sorted
}
