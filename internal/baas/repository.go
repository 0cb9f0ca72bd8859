package baas

import (
	"context"
	"net/url"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// Table names on the BaaS side
const (
	TableUserRanks = "user_ranks"
	TableTeamRanks = "team_ranks"
)

var byPosition = Query{Order: "position.asc"}

type userRow struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Position        int      `json:"position"`
	PositionChange  int      `json:"position_change"`
	Points          int      `json:"points"`
	Avatar          string   `json:"avatar,omitempty"`
	Department      string   `json:"department,omitempty"`
	Team            string   `json:"team,omitempty"`
	Role            string   `json:"role,omitempty"`
	Location        string   `json:"location,omitempty"`
	Segment         string   `json:"segment,omitempty"`
	JobFamily       string   `json:"job_family,omitempty"`
	Skill           string   `json:"skill,omitempty"`
	AssessmentScore *float64 `json:"assessment_score,omitempty"`
	EngagementScore *float64 `json:"engagement_score,omitempty"`
	CompletionRate  *float64 `json:"completion_rate,omitempty"`
}

func (r userRow) rank() contracts.UserRank {
	u := contracts.UserRank{
		ID:             r.ID,
		Name:           r.Name,
		Position:       r.Position,
		PositionChange: r.PositionChange,
		Points:         r.Points,
		Avatar:         r.Avatar,
		Department:     r.Department,
		Team:           r.Team,
		Role:           r.Role,
		Location:       r.Location,
		Segment:        r.Segment,
		JobFamily:      r.JobFamily,
		Skill:          r.Skill,
	}
	if r.AssessmentScore != nil || r.EngagementScore != nil || r.CompletionRate != nil {
		u.Details = &contracts.RankDetails{
			AssessmentScore: deref(r.AssessmentScore),
			EngagementScore: deref(r.EngagementScore),
			CompletionRate:  deref(r.CompletionRate),
		}
	}
	return u
}

func newUserRow(u contracts.UserRank) userRow {
	row := userRow{
		ID:             u.ID,
		Name:           u.Name,
		Position:       u.Position,
		PositionChange: u.PositionChange,
		Points:         u.Points,
		Avatar:         u.Avatar,
		Department:     u.Department,
		Team:           u.Team,
		Role:           u.Role,
		Location:       u.Location,
		Segment:        u.Segment,
		JobFamily:      u.JobFamily,
		Skill:          u.Skill,
	}
	if d := u.Details; d != nil {
		row.AssessmentScore = &d.AssessmentScore
		row.EngagementScore = &d.EngagementScore
		row.CompletionRate = &d.CompletionRate
	}
	return row
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

type teamRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Position       int    `json:"position"`
	PositionChange int    `json:"position_change"`
	Points         int    `json:"points"`
	Avatar         string `json:"avatar,omitempty"`
	MemberCount    int    `json:"member_count"`
	WinStreak      int    `json:"win_streak"`
}

func (r teamRow) rank() contracts.TeamRank {
	return contracts.TeamRank{
		ID:             r.ID,
		Name:           r.Name,
		Position:       r.Position,
		PositionChange: r.PositionChange,
		Points:         r.Points,
		Avatar:         r.Avatar,
		MemberCount:    r.MemberCount,
		WinStreak:      r.WinStreak,
	}
}

func newTeamRow(t contracts.TeamRank) teamRow {
	return teamRow{
		ID:             t.ID,
		Name:           t.Name,
		Position:       t.Position,
		PositionChange: t.PositionChange,
		Points:         t.Points,
		Avatar:         t.Avatar,
		MemberCount:    t.MemberCount,
		WinStreak:      t.WinStreak,
	}
}

// UserRankRepository reads and writes the user_ranks table
type UserRankRepository struct {
	client *Client
}

// NewUserRankRepository creates a new BaaS-backed user repository
func NewUserRankRepository(client *Client) *UserRankRepository {
	return &UserRankRepository{client: client}
}

func (r *UserRankRepository) Get(ctx context.Context, id string) (contracts.UserRank, error) {
	var rows []userRow
	if err := r.client.Select(ctx, TableUserRanks, Query{Eq: url.Values{"id": {id}}}, &rows); err != nil {
		return contracts.UserRank{}, err
	}
	if len(rows) == 0 {
		return contracts.UserRank{}, &FetchError{Table: TableUserRanks, Op: "select", Kind: KindNotFound}
	}
	return rows[0].rank(), nil
}

func (r *UserRankRepository) Put(ctx context.Context, users ...contracts.UserRank) error {
	if len(users) == 0 {
		return nil
	}
	rows := make([]userRow, len(users))
	for i, u := range users {
		rows[i] = newUserRow(u)
	}
	return r.client.Upsert(ctx, TableUserRanks, rows)
}

func (r *UserRankRepository) List(ctx context.Context) ([]contracts.UserRank, error) {
	var rows []userRow
	if err := r.client.Select(ctx, TableUserRanks, byPosition, &rows); err != nil {
		return nil, err
	}
	users := make([]contracts.UserRank, len(rows))
	for i, row := range rows {
		users[i] = row.rank()
	}
	return users, nil
}

// TeamRankRepository reads and writes the team_ranks table
type TeamRankRepository struct {
	client *Client
}

// NewTeamRankRepository creates a new BaaS-backed team repository
func NewTeamRankRepository(client *Client) *TeamRankRepository {
	return &TeamRankRepository{client: client}
}

func (r *TeamRankRepository) Get(ctx context.Context, id string) (contracts.TeamRank, error) {
	var rows []teamRow
	if err := r.client.Select(ctx, TableTeamRanks, Query{Eq: url.Values{"id": {id}}}, &rows); err != nil {
		return contracts.TeamRank{}, err
	}
	if len(rows) == 0 {
		return contracts.TeamRank{}, &FetchError{Table: TableTeamRanks, Op: "select", Kind: KindNotFound}
	}
	return rows[0].rank(), nil
}

func (r *TeamRankRepository) Put(ctx context.Context, teams ...contracts.TeamRank) error {
	if len(teams) == 0 {
		return nil
	}
	rows := make([]teamRow, len(teams))
	for i, t := range teams {
		rows[i] = newTeamRow(t)
	}
	return r.client.Upsert(ctx, TableTeamRanks, rows)
}

func (r *TeamRankRepository) List(ctx context.Context) ([]contracts.TeamRank, error) {
	var rows []teamRow
	if err := r.client.Select(ctx, TableTeamRanks, byPosition, &rows); err != nil {
		return nil, err
	}
	teams := make([]contracts.TeamRank, len(rows))
	for i, row := range rows {
		teams[i] = row.rank()
	}
	return teams, nil
}
