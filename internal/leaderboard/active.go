package leaderboard

import (
	"time"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// Request carries everything a leaderboard view needs to pick its rows
type Request struct {
	Users  []contracts.UserRank
	Teams  []contracts.TeamRank
	Viewer *contracts.UserRank

	Scope     contracts.Scope
	TeamScope contracts.TeamScope
	Dimension contracts.Dimension
	Value     string

	// Detailed widens the relative window and pins the leader
	Detailed bool

	// PreviousGroups feeds position changes of aggregated groups
	PreviousGroups *contracts.Snapshot
}

// Active dispatches req to the selector matching its scope, team scope and dimension.
//
//	individual + personal      -> History
//	individual + attribute     -> Filtered
//	individual + anything else -> Relative
//	team + intra               -> Filtered (team by default)
//	team + inter               -> Aggregate (team by default)
func Active(req Request) []Entry {
	if req.Scope == contracts.ScopeTeam {
		d := teamDimension(req.Dimension)
		if req.TeamScope == contracts.TeamScopeInter {
			return teamEntries(Aggregate(req.Users, req.Teams, d, req.Viewer, req.PreviousGroups))
		}
		return userEntries(Filtered(req.Users, d, req.Value, req.Viewer))
	}

	switch {
	case req.Dimension == contracts.DimensionPersonal:
		return userEntries(History(req.Viewer))
	case req.Dimension.IsAttribute():
		return userEntries(Filtered(req.Users, req.Dimension, req.Value, req.Viewer))
	default:
		w := CompactWindow
		if req.Detailed {
			w = ExtendedWindow
		}
		return userEntries(Relative(req.Users, req.Viewer, w))
	}
}

// BuildBoard runs Active and attaches the title and description
func BuildBoard(req Request, now time.Time) Board {
	scope := req.Scope
	if scope != contracts.ScopeTeam {
		scope = contracts.ScopeIndividual
	}

	board := Board{
		Title:       Title(scope, req.TeamScope, req.Dimension),
		Description: Description(scope, req.TeamScope, req.Dimension),
		Scope:       scope,
		Filter:      req.Dimension.String(),
		Entries:     Active(req),
		GeneratedAt: now,
	}
	if scope == contracts.ScopeTeam {
		board.TeamScope = req.TeamScope
		board.Filter = teamDimension(req.Dimension).String()
	}
	return board
}
