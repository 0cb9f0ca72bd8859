package store

import (
	"context"
	"encoding/json"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/redis"
)

// CachedUsers is a read-through Redis cache in front of a UserRankRepository.
// Cache errors are logged and the wrapped repository is used.
type CachedUsers struct {
	next   contracts.UserRankRepository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedUsers wraps next with cache
func NewCachedUsers(next contracts.UserRankRepository, cache *redis.Cache, log *logger.Logger) *CachedUsers {
	return &CachedUsers{
		next:   next,
		cache:  cache,
		logger: log.WithComponent("store.cache"),
	}
}

var usersKey = redis.PopulationKey("users")

func (c *CachedUsers) Get(ctx context.Context, id string) (contracts.UserRank, error) {
	return c.next.Get(ctx, id)
}

// Put writes through and drops the cached population
func (c *CachedUsers) Put(ctx context.Context, users ...contracts.UserRank) error {
	if err := c.next.Put(ctx, users...); err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, usersKey); err != nil {
		c.logger.WithError(err).Warn("Failed to invalidate cached users")
	}
	return nil
}

func (c *CachedUsers) List(ctx context.Context) ([]contracts.UserRank, error) {
	var cached []contracts.UserRank
	hit, err := c.cache.Get(ctx, usersKey, &cached)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read cached users")
	}
	if hit {
		return cached, nil
	}

	users, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, usersKey, users, redis.TTLMedium); err != nil {
		c.logger.WithError(err).Warn("Failed to cache users")
	}
	return users, nil
}

// RedisAssessmentCache keeps generated question sets in Redis for a day
type RedisAssessmentCache struct {
	cache *redis.Cache
}

// NewRedisAssessmentCache creates a new Redis-backed assessment cache
func NewRedisAssessmentCache(cache *redis.Cache) *RedisAssessmentCache {
	return &RedisAssessmentCache{cache: cache}
}

func (c *RedisAssessmentCache) GetQuestionSet(ctx context.Context, skill, proficiency string) (json.RawMessage, error) {
	var payload json.RawMessage
	hit, err := c.cache.Get(ctx, questionKey(skill, proficiency), &payload)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, contracts.ErrNotFound
	}
	return payload, nil
}

func (c *RedisAssessmentCache) PutQuestionSet(ctx context.Context, skill, proficiency string, payload json.RawMessage) error {
	return c.cache.Set(ctx, questionKey(skill, proficiency), payload, redis.TTLDaily)
}

func questionKey(skill, proficiency string) string {
	return redis.QuestionSetKey(skill, proficiency)
}
