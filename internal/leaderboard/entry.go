// Package leaderboard turns rank populations into the lists a leaderboard view renders.
//
// Every selector is pure: inputs are never mutated, each call returns a fresh slice,
// and nil or empty inputs degrade to empty results instead of errors.
package leaderboard

import (
	"sort"
	"time"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// EntryKind tells the view which half of an Entry is populated
type EntryKind string

const (
	EntryUser EntryKind = "user"
	EntryTeam EntryKind = "team"
)

// Entry is one render-ready leaderboard row
type Entry struct {
	Kind EntryKind           `json:"kind"`
	User *contracts.UserRank `json:"user,omitempty"`
	Team *contracts.TeamRank `json:"team,omitempty"`
}

// ID returns the id of the underlying rank entity
func (e Entry) ID() string {
	if e.Team != nil {
		return e.Team.ID
	}
	if e.User != nil {
		return e.User.ID
	}
	return ""
}

// Position returns the position of the underlying rank entity
func (e Entry) Position() int {
	if e.Team != nil {
		return e.Team.Position
	}
	if e.User != nil {
		return e.User.Position
	}
	return 0
}

// Board is a leaderboard ready for display
type Board struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Scope       contracts.Scope     `json:"scope"`
	TeamScope   contracts.TeamScope `json:"teamScope,omitempty"`
	Filter      string              `json:"filter"`
	Entries     []Entry             `json:"entries"`
	Stale       bool                `json:"stale"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

func userEntries(users []contracts.UserRank) []Entry {
	entries := make([]Entry, len(users))
	for i := range users {
		u := users[i]
		entries[i] = Entry{Kind: EntryUser, User: &u}
	}
	return entries
}

func teamEntries(teams []contracts.TeamRank) []Entry {
	entries := make([]Entry, len(teams))
	for i := range teams {
		t := teams[i]
		entries[i] = Entry{Kind: EntryTeam, Team: &t}
	}
	return entries
}

// sortedByPosition returns a copy of users in ascending position order
func sortedByPosition(users []contracts.UserRank) []contracts.UserRank {
	sorted := contracts.CloneUsers(users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}
