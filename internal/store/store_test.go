package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/mockdata"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/redis"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	repo := m.Users()

	users := mockdata.New(1).Users(5)
	require.NoError(t, repo.Put(ctx, users[3], users[1], users[4]))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{users[3].ID, users[1].ID, users[4].ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	// update keeps insertion order
	updated := users[1]
	updated.Points = 1
	require.NoError(t, repo.Put(ctx, updated))

	got, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[1].Points)

	one, err := repo.Get(ctx, users[4].ID)
	require.NoError(t, err)
	assert.Equal(t, users[4], one)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestMemoryUsersAreCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory().Users()

	u := mockdata.New(1).Users(1)[0]
	require.NoError(t, repo.Put(ctx, u))
	u.Details.AssessmentScore = -1

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, -1.0, got[0].Details.AssessmentScore)

	got[0].Details.AssessmentScore = -2
	again, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, -2.0, again.Details.AssessmentScore)
}

func TestMemoryTeams(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory().Teams()

	teams := mockdata.New(1).Teams(3)
	require.NoError(t, repo.Put(ctx, teams...))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, teams, got)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestMemorySnapshots(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.LatestSnapshot(ctx, contracts.SnapshotUsers)
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	positions := map[string]int{"a": 1}
	require.NoError(t, m.SaveSnapshot(ctx, contracts.Snapshot{ID: "1", Kind: contracts.SnapshotUsers, Positions: positions}))
	positions["a"] = 99
	require.NoError(t, m.SaveSnapshot(ctx, contracts.Snapshot{ID: "2", Kind: contracts.SnapshotTeams}))

	s, err := m.LatestSnapshot(ctx, contracts.SnapshotUsers)
	require.NoError(t, err)
	assert.Equal(t, "1", s.ID)
	assert.Equal(t, 1, s.Positions["a"])
}

func TestMemoryQuestionSets(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetQuestionSet(ctx, "SQL", "beginner")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	require.NoError(t, m.PutQuestionSet(ctx, "SQL", "beginner", json.RawMessage(`{"questions":[]}`)))

	got, err := m.GetQuestionSet(ctx, " sql ", "Beginner")
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[]}`, string(got))
}

func disabledCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func TestCachedUsersPassThroughWhenDisabled(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	repo := NewCachedUsers(mem.Users(), disabledCache(t), logger.Nop())

	users := mockdata.New(4).Users(3)
	require.NoError(t, repo.Put(ctx, users...))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	one, err := repo.Get(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, one.ID)
}

func TestRedisAssessmentCacheDisabledMisses(t *testing.T) {
	ctx := context.Background()
	c := NewRedisAssessmentCache(disabledCache(t))

	require.NoError(t, c.PutQuestionSet(ctx, "SQL", "beginner", json.RawMessage(`{}`)))
	_, err := c.GetQuestionSet(ctx, "SQL", "beginner")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestRedisAssessmentCacheIntegration(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}

	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: true, Host: host, Port: "6379"}})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	c := NewRedisAssessmentCache(redis.NewCache(client, "questboard-test-"+uuid.NewString()))
	require.NoError(t, c.PutQuestionSet(ctx, "SQL", "beginner", json.RawMessage(`{"questions":[{"id":1}]}`)))

	got, err := c.GetQuestionSet(ctx, "sql", "beginner")
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[{"id":1}]}`, string(got))
}

func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	pg := NewPostgres(pool)
	require.NoError(t, pg.Migrate(ctx))

	users := mockdata.New(9).Users(3)
	for i := range users {
		users[i].ID = "test-" + uuid.NewString()
	}
	require.NoError(t, pg.Users().Put(ctx, users...))

	got, err := pg.Users().Get(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, users[1].Points, got.Points)
	require.NotNil(t, got.Details)
	assert.Equal(t, users[1].Details.CompletionRate, got.Details.CompletionRate)

	_, err = pg.Users().Get(ctx, "test-missing")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	kind := "test:" + uuid.NewString()
	snap := contracts.Snapshot{ID: uuid.NewString(), Kind: kind, TakenAt: time.Now().UTC(), Positions: map[string]int{"a": 2}}
	require.NoError(t, pg.SaveSnapshot(ctx, snap))

	latest, err := pg.LatestSnapshot(ctx, kind)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, latest.ID)
	assert.Equal(t, 2, latest.Positions["a"])
}
