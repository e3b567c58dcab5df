package reporsitory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"profile-service/internal/models"

	"github.com/redis/go-redis/v9"
)

const profileCacheKeyPrefix = "profile:user:"

var ErrCacheMiss = errors.New("cache miss")

// ProfileCache fronts FindByOwner reads with a Redis JSON cache. Writers
// invalidate the owner's key before returning so readers never serve a
// profile older than the last completed mutation (absent TTL expiry races,
// which only ever re-fetch from Mongo).
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*models.Profile, error) {
	data, err := c.client.Get(ctx, profileCacheKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached profile for user %s: %w", userID, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

func (c *ProfileCache) Set(ctx context.Context, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile for cache: %w", err)
	}

	if err := c.client.Set(ctx, profileCacheKeyPrefix+profile.UserID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile for user %s: %w", profile.UserID, err)
	}
	return nil
}

func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, profileCacheKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached profile for user %s: %w", userID, err)
	}
	return nil
}
