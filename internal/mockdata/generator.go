// Package mockdata produces synthetic rank populations for demos, seeding and fallbacks.
package mockdata

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

var (
	namespaceUsers = uuid.NewSHA1(uuid.NameSpaceOID, []byte("questboard/users"))
	namespaceTeams = uuid.NewSHA1(uuid.NameSpaceOID, []byte("questboard/teams"))
)

var (
	Departments = []string{"Engineering", "Marketing", "Sales", "Finance", "Human Resources", "Operations"}
	Teams       = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta"}
	Roles       = []string{"Individual Contributor", "Team Lead", "Manager", "Director"}
	Locations   = []string{"New York", "London", "Bangalore", "Singapore", "Berlin"}
	Segments    = []string{"Enterprise", "SMB", "Public Sector"}
	JobFamilies = []string{"Technology", "Commercial", "Corporate Functions"}
	Skills      = []string{"Data Analysis", "Leadership", "Cloud Computing", "Negotiation", "Design Thinking"}

	firstNames = []string{"Alex", "Jordan", "Sam", "Taylor", "Morgan", "Casey", "Riley", "Jamie", "Avery", "Quinn", "Priya", "Kenji"}
	lastNames  = []string{"Smith", "Chen", "Patel", "Garcia", "Kim", "Müller", "Okafor", "Silva", "Nakamura", "Rossi"}
)

const (
	topPoints   = 5000
	maxPointGap = 60
)

// Generator builds reproducible populations from a seed
type Generator struct {
	rng *rand.Rand
}

// New creates a generator. The same seed always yields the same population.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// UserID returns the deterministic id of the i-th generated user
func UserID(i int) string {
	return uuid.NewSHA1(namespaceUsers, []byte(fmt.Sprintf("user-%d", i))).String()
}

// TeamID returns the deterministic id of the named generated team
func TeamID(name string) string {
	return uuid.NewSHA1(namespaceTeams, []byte(name)).String()
}

// Users returns n users with strictly descending points and positions 1..n
func (g *Generator) Users(n int) []contracts.UserRank {
	if n <= 0 {
		return []contracts.UserRank{}
	}

	users := make([]contracts.UserRank, n)
	points := topPoints + n*maxPointGap
	for i := range users {
		points -= 1 + g.rng.IntN(maxPointGap)
		id := UserID(i + 1)
		users[i] = contracts.UserRank{
			ID:             id,
			Name:           g.pick(firstNames) + " " + g.pick(lastNames),
			Position:       i + 1,
			PositionChange: g.rng.IntN(7) - 3,
			Points:         max(points, 0),
			Avatar:         "https://i.pravatar.cc/150?u=" + id,
			Department:     Departments[i%len(Departments)],
			Team:           g.pick(Teams),
			Role:           g.pick(Roles),
			Location:       g.pick(Locations),
			Segment:        g.pick(Segments),
			JobFamily:      g.pick(JobFamilies),
			Skill:          g.pick(Skills),
			Details: &contracts.RankDetails{
				AssessmentScore: g.score(),
				EngagementScore: g.score(),
				CompletionRate:  g.score(),
			},
		}
	}
	return users
}

// Teams returns up to n teams named from the fixed pool, points descending
func (g *Generator) Teams(n int) []contracts.TeamRank {
	n = min(max(n, 0), len(Teams))

	teams := make([]contracts.TeamRank, n)
	points := topPoints * 10
	for i := range teams {
		points -= 100 + g.rng.IntN(maxPointGap*10)
		name := "Team " + Teams[i]
		teams[i] = contracts.TeamRank{
			ID:             TeamID(name),
			Name:           name,
			Position:       i + 1,
			PositionChange: g.rng.IntN(5) - 2,
			Points:         points,
			Avatar:         "https://api.dicebear.com/7.x/identicon/svg?seed=" + Teams[i],
			MemberCount:    5 + g.rng.IntN(20),
			WinStreak:      g.rng.IntN(4),
		}
	}
	return teams
}

// Population returns users and matching teams, with user teams drawn from the generated names
func (g *Generator) Population(users, teams int) ([]contracts.UserRank, []contracts.TeamRank) {
	ts := g.Teams(teams)
	us := g.Users(users)
	if len(ts) > 0 {
		for i := range us {
			us[i].Team = ts[i%len(ts)].Name
		}
	}
	return us, ts
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.IntN(len(pool))]
}

// score returns a 0-100 value with one decimal
func (g *Generator) score() float64 {
	return float64(400+g.rng.IntN(601)) / 10
}
