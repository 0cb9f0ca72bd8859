package leaderboard

import "github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"

// historyLabels are oldest first
var historyLabels = [...]string{"3 months ago", "2 months ago", "1 month ago", "This month"}

// historyStep is how many places the viewer is shown gaining per month
const historyStep = 3

// History fabricates the viewer's ranking over the last months, oldest first,
// ending at the current position. There are no stored historical snapshots behind it.
func History(viewer *contracts.UserRank) []contracts.UserRank {
	if viewer == nil {
		return []contracts.UserRank{}
	}

	series := make([]contracts.UserRank, 0, len(historyLabels))
	for i, label := range historyLabels {
		e := viewer.Clone()
		e.Position = viewer.Position + (len(historyLabels)-1-i)*historyStep
		e.Date = label
		e.PositionChange = 0
		if i > 0 {
			e.PositionChange = series[i-1].Position - e.Position
		}
		series = append(series, e)
	}
	return series
}
