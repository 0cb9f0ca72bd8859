package leaderboard

import "github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"

// Title names the leaderboard selected by scope, teamScope and d
func Title(scope contracts.Scope, teamScope contracts.TeamScope, d contracts.Dimension) string {
	switch scope {
	case contracts.ScopeIndividual:
		switch {
		case d == contracts.DimensionPersonal:
			return "Your Progress"
		case d.IsAttribute():
			return d.Label() + " Leaderboard"
		default:
			return "Top Learners"
		}
	case contracts.ScopeTeam:
		d = teamDimension(d)
		if teamScope == contracts.TeamScopeInter {
			if d == contracts.DimensionTeam {
				return "Team Rankings"
			}
			return d.Label() + " Rankings"
		}
		return "Your " + d.Label()
	}
	return "Leaderboard"
}

// Description explains what the leaderboard selected by scope, teamScope and d compares
func Description(scope contracts.Scope, teamScope contracts.TeamScope, d contracts.Dimension) string {
	switch scope {
	case contracts.ScopeIndividual:
		switch {
		case d == contracts.DimensionPersonal:
			return "How your position has changed over the last few months"
		case d.IsAttribute():
			return "Top learners who share your " + lower(d)
		default:
			return "See where you stand among learners near your rank"
		}
	case contracts.ScopeTeam:
		d = teamDimension(d)
		if teamScope == contracts.TeamScopeInter {
			return "Total learning points compared across each " + lower(d)
		}
		return "How you compare with colleagues in your " + lower(d)
	}
	return "Rankings based on learning points"
}

func lower(d contracts.Dimension) string {
	switch d {
	case contracts.DimensionJobFamily:
		return "job family"
	default:
		return d.String()
	}
}

// teamDimension defaults team-scope views to grouping by team
func teamDimension(d contracts.Dimension) contracts.Dimension {
	if d.IsAttribute() {
		return d
	}
	return contracts.DimensionTeam
}
