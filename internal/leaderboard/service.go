package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/mockdata"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/redis"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/validation"
)

// Query is what a client asks for. Empty fields fall back to the default view.
type Query struct {
	ViewerID  string `json:"viewer,omitempty" validate:"max=128"`
	Scope     string `json:"scope,omitempty" validate:"omitempty,oneof=individual team"`
	TeamScope string `json:"teamScope,omitempty" validate:"omitempty,oneof=intra inter"`
	Filter    string `json:"filter,omitempty" validate:"max=32"`
	Value     string `json:"value,omitempty" validate:"max=128"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// Values encodes q as URL query parameters
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("viewer", q.ViewerID)
	set("scope", q.Scope)
	set("teamScope", q.TeamScope)
	set("filter", q.Filter)
	set("value", q.Value)
	if q.Detailed {
		v.Set("detailed", strconv.FormatBool(q.Detailed))
	}
	return v
}

// BoardCache stores computed boards; *redis.Cache implements it
type BoardCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Notifier is told when a new ranking has been published
type Notifier interface {
	NotifyUpdated(ctx context.Context, at time.Time)
}

// Population is the full ranking the selectors run on
type Population struct {
	Users []contracts.UserRank `json:"users"`
	Teams []contracts.TeamRank `json:"teams"`
	// Stale is set when the repositories failed and a fallback was served
	Stale bool `json:"stale"`
}

// SnapshotResult summarizes a ranking run
type SnapshotResult struct {
	Users   int       `json:"users"`
	Teams   int       `json:"teams"`
	Groups  int       `json:"groups"`
	TakenAt time.Time `json:"takenAt"`
}

// ServiceOptions carries the optional collaborators of a Service
type ServiceOptions struct {
	Snapshots contracts.SnapshotRepository
	Cache     BoardCache
	CacheTTL  time.Duration
	Notifier  Notifier

	// MockUsers, MockTeams and MockSeed size the population served when nothing was ever loaded
	MockUsers int
	MockTeams int
	MockSeed  uint64
}

// Service loads populations and serves boards. Repository failures never reach the client:
// the last population that loaded is served instead, or a generated one.
type Service struct {
	users     contracts.UserRankRepository
	teams     contracts.TeamRankRepository
	snapshots contracts.SnapshotRepository
	cache     BoardCache
	cacheTTL  time.Duration
	notifier  Notifier
	ranker    *Ranker
	validator *validation.Validator
	logger    *logger.Logger
	now       func() time.Time

	mockUsers int
	mockTeams int
	mockSeed  uint64

	mu      sync.RWMutex
	last    Population
	hasLast bool
}

// NewService creates a new leaderboard service
func NewService(users contracts.UserRankRepository, teams contracts.TeamRankRepository, opts ServiceOptions, log *logger.Logger) *Service {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = redis.TTLShort
	}
	return &Service{
		users:     users,
		teams:     teams,
		snapshots: opts.Snapshots,
		cache:     opts.Cache,
		cacheTTL:  ttl,
		notifier:  opts.Notifier,
		ranker:    NewRanker(log),
		validator: validation.New(),
		logger:    log.WithComponent("leaderboard"),
		now:       time.Now,
		mockUsers: opts.MockUsers,
		mockTeams: opts.MockTeams,
		mockSeed:  opts.MockSeed,
	}
}

// Board computes the leaderboard described by q
func (s *Service) Board(ctx context.Context, q Query) (Board, error) {
	return s.board(ctx, q, false)
}

// board skips the cache read when refresh is set; the result is still written back
func (s *Service) board(ctx context.Context, q Query, refresh bool) (Board, error) {
	if err := s.validator.Validate(q); err != nil {
		return Board{}, err
	}

	key := redis.BoardKey(q.Values())
	if s.cache != nil && !refresh {
		var cached Board
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Board cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	pop := s.Population(ctx)
	req := s.request(ctx, q, pop)

	board := BuildBoard(req, s.now().UTC())
	board.Stale = pop.Stale

	if s.cache != nil && !board.Stale {
		if err := s.cache.Set(ctx, key, board, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Board cache write failed")
		}
	}

	return board, nil
}

func (s *Service) request(ctx context.Context, q Query, pop Population) Request {
	req := Request{
		Users:     pop.Users,
		Teams:     pop.Teams,
		Scope:     contracts.ParseScope(q.Scope),
		TeamScope: contracts.ParseTeamScope(q.TeamScope),
		Dimension: contracts.ParseDimension(q.Filter),
		Value:     q.Value,
		Detailed:  q.Detailed,
	}

	if q.ViewerID != "" {
		if viewer, ok := contracts.FindUser(pop.Users, q.ViewerID); ok {
			req.Viewer = &viewer
		}
	}

	if req.Scope == contracts.ScopeTeam && req.TeamScope == contracts.TeamScopeInter {
		if d := teamDimension(req.Dimension); d != contracts.DimensionTeam {
			req.PreviousGroups = s.latestSnapshot(ctx, contracts.GroupSnapshotKind(d)).Baseline()
		}
	}

	return req
}

// Population returns the current users and teams, falling back when the repositories fail
func (s *Service) Population(ctx context.Context) Population {
	users, uerr := s.users.List(ctx)
	teams, terr := s.teams.List(ctx)
	if err := errors.Join(uerr, terr); err != nil {
		return s.fallback(err)
	}

	pop := Population{Users: users, Teams: teams}
	s.remember(pop)
	return pop
}

func (s *Service) fallback(err error) Population {
	s.mu.RLock()
	last, ok := s.last, s.hasLast
	s.mu.RUnlock()

	if ok {
		s.logger.WithError(err).Warn("Rank repositories failed, serving last known population")
		return Population{
			Users: contracts.CloneUsers(last.Users),
			Teams: append([]contracts.TeamRank(nil), last.Teams...),
			Stale: true,
		}
	}

	s.logger.WithError(err).Warn("Rank repositories failed, serving generated population")
	users, teams := mockdata.New(s.mockSeed).Population(s.mockUsers, s.mockTeams)
	return Population{Users: users, Teams: teams, Stale: true}
}

func (s *Service) remember(pop Population) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = Population{
		Users: contracts.CloneUsers(pop.Users),
		Teams: append([]contracts.TeamRank(nil), pop.Teams...),
	}
	s.hasLast = true
}

// latestSnapshot returns nil when there is no snapshot store or no snapshot yet
func (s *Service) latestSnapshot(ctx context.Context, kind string) *contracts.Snapshot {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.LatestSnapshot(ctx, kind)
	if err != nil {
		if !errors.Is(err, contracts.ErrNotFound) {
			s.logger.WithError(err).WithField("kind", kind).Warn("Failed to load snapshot")
		}
		return nil
	}
	return &snap
}

// Snapshot re-ranks both populations against the previous snapshots, stores the result
// together with new snapshots and tells subscribers about it
func (s *Service) Snapshot(ctx context.Context) (SnapshotResult, error) {
	start := s.now()

	users, err := s.users.List(ctx)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("list users: %w", err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("list teams: %w", err)
	}

	rankedUsers := s.ranker.RankUsers(users, s.latestSnapshot(ctx, contracts.SnapshotUsers))
	rankedTeams := s.ranker.RankTeams(teams, s.latestSnapshot(ctx, contracts.SnapshotTeams))

	if err := s.users.Put(ctx, rankedUsers...); err != nil {
		return SnapshotResult{}, fmt.Errorf("store ranked users: %w", err)
	}
	if err := s.teams.Put(ctx, rankedTeams...); err != nil {
		return SnapshotResult{}, fmt.Errorf("store ranked teams: %w", err)
	}

	result := SnapshotResult{
		Users:   len(rankedUsers),
		Teams:   len(rankedTeams),
		TakenAt: start.UTC(),
	}

	if s.snapshots != nil {
		snaps := []contracts.Snapshot{
			s.ranker.SnapshotOfUsers(rankedUsers),
			s.ranker.SnapshotOfTeams(rankedTeams),
		}
		for _, d := range contracts.AttributeDimensions {
			if d == contracts.DimensionTeam {
				continue
			}
			previous := s.latestSnapshot(ctx, contracts.GroupSnapshotKind(d))
			groups := AggregateAll(rankedUsers, d, nil, previous)
			snaps = append(snaps, s.ranker.SnapshotOfGroups(d, groups, previous))
			result.Groups += len(groups)
		}

		for _, snap := range snaps {
			if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
				return SnapshotResult{}, fmt.Errorf("save %s snapshot: %w", snap.Kind, err)
			}
		}
	}

	s.remember(Population{Users: rankedUsers, Teams: rankedTeams})
	s.invalidateBoards(ctx)

	if s.notifier != nil {
		s.notifier.NotifyUpdated(ctx, result.TakenAt)
	}

	s.logger.WithFields(map[string]interface{}{
		"users":    result.Users,
		"teams":    result.Teams,
		"groups":   result.Groups,
		"duration": s.now().Sub(start).String(),
	}).Info("Ranking snapshot completed")

	return result, nil
}

// invalidateBoards drops every cached board so subscribers refetch the new ranking
func (s *Service) invalidateBoards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.DeletePrefix(ctx, redis.BoardKeyPrefix)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate cached boards")
		return
	}
	s.logger.WithField("boards", n).Debug("Cached boards invalidated")
}

// WarmupQueries are the boards precomputed by Warmup: the default view and every inter-group view
func WarmupQueries() []Query {
	queries := []Query{{}, {Detailed: true}}
	for _, d := range contracts.AttributeDimensions {
		queries = append(queries, Query{
			Scope:     string(contracts.ScopeTeam),
			TeamScope: string(contracts.TeamScopeInter),
			Filter:    d.String(),
		})
	}
	return queries
}

// Warmup recomputes the viewer-independent boards and overwrites their cache entries
func (s *Service) Warmup(ctx context.Context) (int, error) {
	warmed := 0
	for _, q := range WarmupQueries() {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := s.board(ctx, q, true); err != nil {
			return warmed, fmt.Errorf("warm board %s: %w", q.Values().Encode(), err)
		}
		warmed++
	}
	return warmed, nil
}
