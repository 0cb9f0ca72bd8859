package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// Schema creates the learning tables. Safe to run repeatedly.
const Schema = `
	CREATE SCHEMA IF NOT EXISTS learning;

	CREATE TABLE IF NOT EXISTS learning.user_ranks (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		position         INTEGER NOT NULL,
		position_change  INTEGER NOT NULL DEFAULT 0,
		points           INTEGER NOT NULL DEFAULT 0,
		avatar           TEXT NOT NULL DEFAULT '',
		department       TEXT NOT NULL DEFAULT '',
		team             TEXT NOT NULL DEFAULT '',
		role             TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		segment          TEXT NOT NULL DEFAULT '',
		job_family       TEXT NOT NULL DEFAULT '',
		skill            TEXT NOT NULL DEFAULT '',
		details          JSONB,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS learning.team_ranks (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		position         INTEGER NOT NULL,
		position_change  INTEGER NOT NULL DEFAULT 0,
		points           INTEGER NOT NULL DEFAULT 0,
		avatar           TEXT NOT NULL DEFAULT '',
		member_count     INTEGER NOT NULL DEFAULT 0,
		win_streak       INTEGER NOT NULL DEFAULT 0,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS learning.rank_snapshots (
		id          UUID PRIMARY KEY,
		kind        TEXT NOT NULL,
		taken_at    TIMESTAMPTZ NOT NULL,
		positions   JSONB NOT NULL,
		previous    JSONB
	);

	CREATE INDEX IF NOT EXISTS rank_snapshots_kind_taken_at
		ON learning.rank_snapshots (kind, taken_at DESC);
`

// Postgres stores rank populations and snapshots in PostgreSQL
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL store
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the schema if it does not exist
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate learning schema: %w", err)
	}
	return nil
}

// Users exposes the store as a UserRankRepository
func (p *Postgres) Users() contracts.UserRankRepository { return postgresUsers{p.pool} }

// Teams exposes the store as a TeamRankRepository
func (p *Postgres) Teams() contracts.TeamRankRepository { return postgresTeams{p.pool} }

const userColumns = `
	id, name, position, position_change, points, avatar,
	department, team, role, location, segment, job_family, skill, details`

type postgresUsers struct{ pool *pgxpool.Pool }

func (r postgresUsers) Get(ctx context.Context, id string) (contracts.UserRank, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM learning.user_ranks WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.UserRank{}, contracts.ErrNotFound
	}
	if err != nil {
		return contracts.UserRank{}, fmt.Errorf("failed to get user rank %s: %w", id, err)
	}
	return u, nil
}

// Put upserts users in one transaction
func (r postgresUsers) Put(ctx context.Context, users ...contracts.UserRank) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO learning.user_ranks (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			position_change = EXCLUDED.position_change,
			points = EXCLUDED.points,
			avatar = EXCLUDED.avatar,
			department = EXCLUDED.department,
			team = EXCLUDED.team,
			role = EXCLUDED.role,
			location = EXCLUDED.location,
			segment = EXCLUDED.segment,
			job_family = EXCLUDED.job_family,
			skill = EXCLUDED.skill,
			details = EXCLUDED.details,
			updated_at = NOW()
	`

	for _, u := range users {
		var details []byte
		if u.Details != nil {
			if details, err = json.Marshal(u.Details); err != nil {
				return fmt.Errorf("failed to marshal details of %s: %w", u.ID, err)
			}
		}

		_, err := tx.Exec(ctx, query,
			u.ID, u.Name, u.Position, u.PositionChange, u.Points, u.Avatar,
			u.Department, u.Team, u.Role, u.Location, u.Segment, u.JobFamily, u.Skill, details,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert user rank %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r postgresUsers) List(ctx context.Context) ([]contracts.UserRank, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM learning.user_ranks ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ranks: %w", err)
	}
	defer rows.Close()

	users := make([]contracts.UserRank, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user rank: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ranks: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (contracts.UserRank, error) {
	var u contracts.UserRank
	var details []byte

	err := row.Scan(
		&u.ID, &u.Name, &u.Position, &u.PositionChange, &u.Points, &u.Avatar,
		&u.Department, &u.Team, &u.Role, &u.Location, &u.Segment, &u.JobFamily, &u.Skill, &details,
	)
	if err != nil {
		return contracts.UserRank{}, err
	}

	if len(details) > 0 {
		u.Details = &contracts.RankDetails{}
		if err := json.Unmarshal(details, u.Details); err != nil {
			return contracts.UserRank{}, fmt.Errorf("failed to unmarshal details: %w", err)
		}
	}
	return u, nil
}

const teamColumns = `id, name, position, position_change, points, avatar, member_count, win_streak`

type postgresTeams struct{ pool *pgxpool.Pool }

func (r postgresTeams) Get(ctx context.Context, id string) (contracts.TeamRank, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM learning.team_ranks WHERE id = $1`, id)

	t, err := scanTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.TeamRank{}, contracts.ErrNotFound
	}
	if err != nil {
		return contracts.TeamRank{}, fmt.Errorf("failed to get team rank %s: %w", id, err)
	}
	return t, nil
}

func (r postgresTeams) Put(ctx context.Context, teams ...contracts.TeamRank) error {
	if len(teams) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO learning.team_ranks (` + teamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			position_change = EXCLUDED.position_change,
			points = EXCLUDED.points,
			avatar = EXCLUDED.avatar,
			member_count = EXCLUDED.member_count,
			win_streak = EXCLUDED.win_streak,
			updated_at = NOW()
	`

	for _, t := range teams {
		_, err := tx.Exec(ctx, query,
			t.ID, t.Name, t.Position, t.PositionChange, t.Points, t.Avatar, t.MemberCount, t.WinStreak,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert team rank %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r postgresTeams) List(ctx context.Context) ([]contracts.TeamRank, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+teamColumns+` FROM learning.team_ranks ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query team ranks: %w", err)
	}
	defer rows.Close()

	teams := make([]contracts.TeamRank, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team rank: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team ranks: %w", err)
	}
	return teams, nil
}

func scanTeam(row pgx.Row) (contracts.TeamRank, error) {
	var t contracts.TeamRank
	err := row.Scan(&t.ID, &t.Name, &t.Position, &t.PositionChange, &t.Points, &t.Avatar, &t.MemberCount, &t.WinStreak)
	return t, err
}

// SaveSnapshot stores a snapshot and prunes all but the latest two of its kind
func (p *Postgres) SaveSnapshot(ctx context.Context, snapshot contracts.Snapshot) error {
	positions, err := json.Marshal(snapshot.Positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	var previous []byte
	if snapshot.Previous != nil {
		if previous, err = json.Marshal(snapshot.Previous); err != nil {
			return fmt.Errorf("failed to marshal previous positions: %w", err)
		}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO learning.rank_snapshots (id, kind, taken_at, positions, previous)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshot.ID, snapshot.Kind, snapshot.TakenAt, positions, previous)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM learning.rank_snapshots
		WHERE kind = $1 AND id NOT IN (
			SELECT id FROM learning.rank_snapshots
			WHERE kind = $1
			ORDER BY taken_at DESC
			LIMIT 2
		)
	`, snapshot.Kind)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot of kind
func (p *Postgres) LatestSnapshot(ctx context.Context, kind string) (contracts.Snapshot, error) {
	query := `
		SELECT id::text, kind, taken_at, positions, previous
		FROM learning.rank_snapshots
		WHERE kind = $1
		ORDER BY taken_at DESC
		LIMIT 1
	`

	var s contracts.Snapshot
	var positions, previous []byte
	err := p.pool.QueryRow(ctx, query, kind).Scan(&s.ID, &s.Kind, &s.TakenAt, &positions, &previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.Snapshot{}, contracts.ErrNotFound
	}
	if err != nil {
		return contracts.Snapshot{}, fmt.Errorf("failed to get %s snapshot: %w", kind, err)
	}

	if err := json.Unmarshal(positions, &s.Positions); err != nil {
		return contracts.Snapshot{}, fmt.Errorf("failed to unmarshal positions: %w", err)
	}
	if len(previous) > 0 {
		if err := json.Unmarshal(previous, &s.Previous); err != nil {
			return contracts.Snapshot{}, fmt.Errorf("failed to unmarshal previous positions: %w", err)
		}
	}
	return s, nil
}
