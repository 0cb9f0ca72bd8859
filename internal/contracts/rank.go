package contracts

// UserRank is an individual's position in a leaderboard snapshot.
// Position is 1-based and unique within one snapshot; a higher Points value ranks higher.
type UserRank struct {
	ID             string       `json:"id" yaml:"id"`
	Name           string       `json:"name" yaml:"name"`
	Position       int          `json:"position" yaml:"position"`
	PositionChange int          `json:"positionChange,omitempty" yaml:"positionChange,omitempty"`
	Points         int          `json:"points" yaml:"points"`
	Avatar         string       `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Department     string       `json:"department,omitempty" yaml:"department,omitempty"`
	Team           string       `json:"team,omitempty" yaml:"team,omitempty"`
	Role           string       `json:"role,omitempty" yaml:"role,omitempty"`
	Location       string       `json:"location,omitempty" yaml:"location,omitempty"`
	Segment        string       `json:"segment,omitempty" yaml:"segment,omitempty"`
	JobFamily      string       `json:"jobFamily,omitempty" yaml:"jobFamily,omitempty"`
	Skill          string       `json:"skill,omitempty" yaml:"skill,omitempty"`
	Details        *RankDetails `json:"details,omitempty" yaml:"details,omitempty"`

	// Date labels an entry of the personal history series
	Date string `json:"date,omitempty" yaml:"-"`
}

// RankDetails breaks a learner's points down into 0-100 scores
type RankDetails struct {
	AssessmentScore float64 `json:"assessmentScore" yaml:"assessmentScore"`
	EngagementScore float64 `json:"engagementScore" yaml:"engagementScore"`
	CompletionRate  float64 `json:"completionRate" yaml:"completionRate"`
}

// TeamRank is a group's position in a leaderboard. Points is the sum of its members' points.
type TeamRank struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Position           int    `json:"position" yaml:"position"`
	PositionChange     int    `json:"positionChange,omitempty" yaml:"positionChange,omitempty"`
	Points             int    `json:"points" yaml:"points"`
	Avatar             string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	MemberCount        int    `json:"memberCount" yaml:"memberCount"`
	WinStreak          int    `json:"winStreak" yaml:"winStreak"`
	IsCurrentUserGroup bool   `json:"isCurrentUserGroup" yaml:"-"`
}

// Clone returns a copy that shares nothing mutable with u
func (u UserRank) Clone() UserRank {
	if u.Details != nil {
		d := *u.Details
		u.Details = &d
	}
	return u
}

// IsTopRanked checks if the entry is within the first n positions
func (u *UserRank) IsTopRanked(n int) bool {
	return u.Position <= n && u.Position > 0
}

// Improved reports whether the entry moved up since the previous snapshot
func (u *UserRank) Improved() bool {
	return u.PositionChange > 0
}

// CloneUsers copies a population so callers can reorder it freely
func CloneUsers(users []UserRank) []UserRank {
	out := make([]UserRank, len(users))
	for i := range users {
		out[i] = users[i].Clone()
	}
	return out
}

// FindUser returns the entry with the given id
func FindUser(users []UserRank, id string) (UserRank, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return UserRank{}, false
}
