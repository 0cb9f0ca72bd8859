package jobs

import (
	"context"
	"fmt"

	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// Warmer pre-computes the common boards into the cache
type Warmer interface {
	Warmup(ctx context.Context) (int, error)
}

// WarmupJob keeps the default boards in the redis cache
type WarmupJob struct {
	service  Warmer
	schedule string
	logger   *logger.Logger
}

// NewWarmupJob creates a new cache warmup job
func NewWarmupJob(service Warmer, schedule string, log *logger.Logger) *WarmupJob {
	if schedule == "" {
		schedule = "0 */10 * * * *"
	}
	return &WarmupJob{
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WarmupJob) Name() string {
	return "leaderboard_warmup"
}

// Schedule returns the cron schedule (every 10 minutes unless configured)
func (j *WarmupJob) Schedule() string {
	return j.schedule
}

// Run executes the warmup
func (j *WarmupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled leaderboard warmup")

	warmed, err := j.service.Warmup(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard warmup: %w", err)
	}

	if warmed > 0 {
		j.logger.WithField("boards", warmed).Info("Leaderboard warmup completed")
	}

	return nil
}
