package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/leaderboard"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/mockdata"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/scheduler"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/store"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

type failingService struct{}

func (failingService) Snapshot(ctx context.Context) (leaderboard.SnapshotResult, error) {
	return leaderboard.SnapshotResult{}, errors.New("store offline")
}

func (failingService) Warmup(ctx context.Context) (int, error) {
	return 0, errors.New("cache offline")
}

func seededService(t *testing.T) (*leaderboard.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	users, teams := mockdata.New(11).Population(12, 4)
	require.NoError(t, mem.Users().Put(context.Background(), users...))
	require.NoError(t, mem.Teams().Put(context.Background(), teams...))

	svc := leaderboard.NewService(mem.Users(), mem.Teams(), leaderboard.ServiceOptions{Snapshots: mem}, logger.Nop())
	return svc, mem
}

func TestJobDefaults(t *testing.T) {
	snap := NewSnapshotJob(failingService{}, "", logger.Nop())
	assert.Equal(t, "ranking_snapshot", snap.Name())
	assert.Equal(t, "0 0 * * * *", snap.Schedule())

	warm := NewWarmupJob(failingService{}, "@every 5m", logger.Nop())
	assert.Equal(t, "leaderboard_warmup", warm.Name())
	assert.Equal(t, "@every 5m", warm.Schedule())
}

func TestSnapshotJob(t *testing.T) {
	svc, mem := seededService(t)
	job := NewSnapshotJob(svc, "", logger.Nop())

	require.NoError(t, job.Run(context.Background()))

	snap, err := mem.LatestSnapshot(context.Background(), contracts.SnapshotUsers)
	require.NoError(t, err)
	assert.Len(t, snap.Positions, 12)
}

func TestJobsWrapErrors(t *testing.T) {
	err := NewSnapshotJob(failingService{}, "", logger.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ranking snapshot: store offline")

	err = NewWarmupJob(failingService{}, "", logger.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaderboard warmup: cache offline")
}

func TestJobsRunUnderScheduler(t *testing.T) {
	svc, _ := seededService(t)
	s := scheduler.New(logger.Nop(), scheduler.WithRetry(0, time.Millisecond))

	require.NoError(t, s.AddJob(NewSnapshotJob(svc, "", logger.Nop())))
	require.NoError(t, s.AddJob(NewWarmupJob(svc, "", logger.Nop())))
	assert.Equal(t, []string{"leaderboard_warmup", "ranking_snapshot"}, s.GetAllJobs())

	for _, name := range s.GetAllJobs() {
		result, err := s.Run(context.Background(), name)
		require.NoError(t, err)
		assert.True(t, result.Success, result.Error)
	}
}
