package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed JSON caching on top of Client
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value into dest. A miss is reported as (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.key(key)).Err()
}

// DeletePrefix removes every cached value whose key starts with prefix and returns how many went
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	rdb := c.client.Redis()
	iter := rdb.Scan(ctx, 0, c.key(prefix)+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("cache scan failed: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache delete failed: %w", err)
	}
	return int(n), nil
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // computed boards
	TTLMedium = 10 * time.Minute // raw populations
	TTLDaily  = 24 * time.Hour   // generated question sets
)

// PopulationKey names a cached rank population ("users", "teams")
func PopulationKey(kind string) string {
	return fmt.Sprintf("population:%s", kind)
}

// BoardKeyPrefix prefixes every computed board
const BoardKeyPrefix = "board:"

// BoardKey builds a stable key from leaderboard query parameters
func BoardKey(params url.Values) string {
	return BoardKeyPrefix + params.Encode()
}

// QuestionSetKey names the last good question set for a skill and proficiency
func QuestionSetKey(skill, proficiency string) string {
	return fmt.Sprintf("assessment:%s:%s", normalizeKeyPart(skill), normalizeKeyPart(proficiency))
}

func normalizeKeyPart(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
