package jobs

import (
	"context"
	"fmt"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/leaderboard"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// Snapshotter re-ranks the population and records a snapshot
type Snapshotter interface {
	Snapshot(ctx context.Context) (leaderboard.SnapshotResult, error)
}

// SnapshotJob re-ranks users and teams so position changes reflect the last period
type SnapshotJob struct {
	service  Snapshotter
	schedule string
	logger   *logger.Logger
}

// NewSnapshotJob creates a new ranking snapshot job
func NewSnapshotJob(service Snapshotter, schedule string, log *logger.Logger) *SnapshotJob {
	if schedule == "" {
		schedule = "0 0 * * * *"
	}
	return &SnapshotJob{
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "ranking_snapshot"
}

// Schedule returns the cron schedule (hourly unless configured)
func (j *SnapshotJob) Schedule() string {
	return j.schedule
}

// Run executes the snapshot
func (j *SnapshotJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled ranking snapshot")

	result, err := j.service.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("ranking snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"users":    result.Users,
		"teams":    result.Teams,
		"groups":   result.Groups,
		"taken_at": result.TakenAt,
	}).Info("Ranking snapshot completed")

	return nil
}
