package leaderboard

import "github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"

// DefaultTopN is how many entries are shown when the viewer is not ranked
const DefaultTopN = 10

// Window sizes the slice of the ranking shown around the viewer
type Window struct {
	Above int
	Below int
	// IncludeLeader forces position #1 into the result
	IncludeLeader bool
}

var (
	// CompactWindow shows two neighbours on each side
	CompactWindow = Window{Above: 2, Below: 2}
	// ExtendedWindow shows five neighbours on each side plus the leader
	ExtendedWindow = Window{Above: 5, Below: 5, IncludeLeader: true}
)

// Relative returns the entries around the viewer in ascending position order.
// When the viewer is absent from users the first DefaultTopN entries are returned
// in their original order.
func Relative(users []contracts.UserRank, viewer *contracts.UserRank, w Window) []contracts.UserRank {
	if len(users) == 0 {
		return []contracts.UserRank{}
	}

	sorted := sortedByPosition(users)

	idx := -1
	if viewer != nil {
		for i := range sorted {
			if sorted[i].ID == viewer.ID {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return contracts.CloneUsers(users[:min(DefaultTopN, len(users))])
	}

	start := max(0, idx-max(0, w.Above))
	end := min(len(sorted), idx+max(0, w.Below)+1)

	// keyed by id so the forced leader never shows up twice
	picked := make(map[string]struct{}, end-start+1)
	window := make([]contracts.UserRank, 0, end-start+1)
	add := func(u contracts.UserRank) {
		if _, seen := picked[u.ID]; seen {
			return
		}
		picked[u.ID] = struct{}{}
		window = append(window, u)
	}

	if w.IncludeLeader {
		add(sorted[0])
	}
	for i := start; i < end; i++ {
		add(sorted[i])
	}

	return window
}
