package mockdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersShape(t *testing.T) {
	users := New(42).Users(50)
	require.Len(t, users, 50)

	ids := make(map[string]struct{})
	for i, u := range users {
		assert.Equal(t, i+1, u.Position)
		assert.NotEmpty(t, u.Name)
		assert.NotEmpty(t, u.Department)
		assert.NotNil(t, u.Details)
		assert.GreaterOrEqual(t, u.Points, 0)
		if i > 0 {
			assert.Less(t, u.Points, users[i-1].Points, "points must strictly descend")
		}
		ids[u.ID] = struct{}{}
	}
	assert.Len(t, ids, 50)
}

func TestUsersDeterministic(t *testing.T) {
	a := New(7).Users(20)
	b := New(7).Users(20)
	assert.Equal(t, a, b)

	c := New(8).Users(20)
	assert.Equal(t, a[0].ID, c[0].ID, "ids depend on index only")
	assert.NotEqual(t, a, c)
}

func TestUsersCoverAllDepartments(t *testing.T) {
	counts := make(map[string]int)
	for _, u := range New(1).Users(60) {
		counts[u.Department]++
	}
	assert.Len(t, counts, len(Departments))
	for _, d := range Departments {
		assert.Equal(t, 10, counts[d])
	}
}

func TestUsersEmpty(t *testing.T) {
	assert.Empty(t, New(1).Users(0))
	assert.Empty(t, New(1).Users(-3))
}

func TestTeams(t *testing.T) {
	teams := New(42).Teams(20)
	require.Len(t, teams, len(Teams), "capped at the name pool")

	for i, team := range teams {
		assert.Equal(t, i+1, team.Position)
		assert.Equal(t, TeamID(team.Name), team.ID)
		assert.Positive(t, team.MemberCount)
		if i > 0 {
			assert.Less(t, team.Points, teams[i-1].Points)
		}
	}
}

func TestPopulationAssignsGeneratedTeams(t *testing.T) {
	users, teams := New(3).Population(30, 4)
	require.Len(t, teams, 4)

	names := make(map[string]bool)
	for _, team := range teams {
		names[team.Name] = true
	}
	for _, u := range users {
		assert.True(t, names[u.Team], "user team %q not generated", u.Team)
	}
}

func TestParseFixtures(t *testing.T) {
	data := []byte(`
users:
  - id: u1
    name: Ada
    points: 900
    department: Engineering
    details:
      assessmentScore: 91.5
      engagementScore: 80
      completionRate: 75
  - id: u2
    name: Lin
    points: 850
    department: Sales
teams:
  - name: Team Alpha
    points: 1750
    memberCount: 2
`)

	f, err := ParseFixtures(data)
	require.NoError(t, err)
	require.Len(t, f.Users, 2)
	require.Len(t, f.Teams, 1)

	assert.Equal(t, 1, f.Users[0].Position)
	assert.Equal(t, 2, f.Users[1].Position)
	require.NotNil(t, f.Users[0].Details)
	assert.Equal(t, 91.5, f.Users[0].Details.AssessmentScore)
	assert.Equal(t, TeamID("Team Alpha"), f.Teams[0].ID)
	assert.Equal(t, 1, f.Teams[0].Position)
}

func TestParseFixturesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: "   \n"},
		{name: "malformed", data: "users: ["},
		{name: "missing id", data: "users:\n  - name: Ada\n"},
		{name: "duplicate id", data: "users:\n  - id: a\n  - id: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - id: a\n    points: 10\n"), 0o600))

	f, err := LoadFixtures(path)
	require.NoError(t, err)
	assert.Len(t, f.Users, 1)

	_, err = LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
