package commands

import (
	"context"
	"fmt"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/api"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/assessment"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/baas"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/leaderboard"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/mockdata"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/store"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/database"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/redis"
)

const cachePrefix = "questboard"

// deps is the wired application shared by every command
type deps struct {
	cfg *config.Config
	log *logger.Logger

	db    *database.DB
	redis *redis.Client

	users     contracts.UserRankRepository
	teams     contracts.TeamRankRepository
	snapshots contracts.SnapshotRepository
	questions contracts.AssessmentCache
	limiter   *redis.RateLimiter
	cache     *redis.Cache

	service *leaderboard.Service
}

// buildDeps connects the configured store backend and redis and builds the leaderboard service
func buildDeps(ctx context.Context) (*deps, error) {
	d, err := openDeps(ctx)
	if err != nil {
		return nil, err
	}
	d.buildService(nil)
	return d, nil
}

// openDeps connects the configured store backend and redis without building the service
func openDeps(ctx context.Context) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	d := &deps{cfg: cfg, log: log}

	rc, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	d.redis = rc
	d.cache = redis.NewCache(rc, cachePrefix)
	d.limiter = redis.NewRateLimiter(rc, cachePrefix)

	if err := d.openStore(ctx); err != nil {
		d.Close()
		return nil, err
	}

	if rc.Enabled() {
		d.users = store.NewCachedUsers(d.users, d.cache, log)
		d.questions = store.NewRedisAssessmentCache(d.cache)
		log.Info("Redis caching enabled")
	}

	return d, nil
}

// buildService creates the leaderboard service; notifier may be nil
func (d *deps) buildService(notifier leaderboard.Notifier) {
	lb := d.cfg.Leaderboard
	d.service = leaderboard.NewService(d.users, d.teams, leaderboard.ServiceOptions{
		Snapshots: d.snapshots,
		Cache:     d.cache,
		CacheTTL:  lb.CacheTTL,
		Notifier:  notifier,
		MockUsers: lb.MockUsers,
		MockTeams: lb.MockTeams,
		MockSeed:  lb.MockSeed,
	}, d.log)
}

func (d *deps) openStore(ctx context.Context) error {
	log := d.log.WithField("store", d.cfg.StoreBackend)

	switch d.cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.New(d.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		d.db = db

		pg := store.NewPostgres(db.Pool)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		d.users, d.teams, d.snapshots = pg.Users(), pg.Teams(), pg
		d.questions = store.NewMemory()

	case config.StoreBaaS:
		client := baas.NewClient(d.cfg.BaaS, d.log)
		d.users = baas.NewUserRankRepository(client)
		d.teams = baas.NewTeamRankRepository(client)

		// the hosted tables carry no snapshot history
		mem := store.NewMemory()
		d.snapshots, d.questions = mem, mem

	default:
		mem := store.NewMemory()
		users, teams := mockdata.New(d.cfg.Leaderboard.MockSeed).Population(d.cfg.Leaderboard.MockUsers, d.cfg.Leaderboard.MockTeams)
		if err := mem.Users().Put(ctx, users...); err != nil {
			return fmt.Errorf("seed memory store: %w", err)
		}
		if err := mem.Teams().Put(ctx, teams...); err != nil {
			return fmt.Errorf("seed memory store: %w", err)
		}
		d.users, d.teams, d.snapshots, d.questions = mem.Users(), mem.Teams(), mem, mem
		log = log.WithFields(map[string]interface{}{"users": len(users), "teams": len(teams)})
	}

	log.Info("Store ready")
	return nil
}

// assessmentClient builds the generation client over the shared cache and rate limiter
func (d *deps) assessmentClient() *assessment.Client {
	var limiter *redis.RateLimiter
	if d.redis.Enabled() {
		limiter = d.limiter
	}
	return assessment.NewClient(d.cfg.Generation, d.questions, limiter, d.log)
}

// healthChecks covers the connections this process holds
func (d *deps) healthChecks() map[string]api.HealthCheck {
	checks := map[string]api.HealthCheck{}
	if d.db != nil {
		checks["database"] = func(ctx context.Context) error {
			_, err := d.db.HealthCheck(ctx)
			return err
		}
	}
	if d.redis.Enabled() {
		checks["redis"] = func(ctx context.Context) error {
			return d.redis.Redis().Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases connections. Safe on a partially built deps.
func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
