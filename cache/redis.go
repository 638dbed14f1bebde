// Package cache stores inspection results in Redis, keyed by the SHA-256 of
// the uploaded bytes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"mp3inspect/config"
	"mp3inspect/models"
)

const keyPrefix = "mp3inspect:inspect:"

// RedisCache implements the handlers' result cache on top of Redis.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Entry
	ttl    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, logger *logrus.Entry, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Connect dials Redis from cfg and checks the connection.
func Connect(ctx context.Context, cfg *config.RedisConfig, logger *logrus.Entry) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisCache(client, logger, cfg.TTL), nil
}

// Key returns the hex SHA-256 digest of data.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for key. A miss is (nil, false, nil).
func (c *RedisCache) Get(ctx context.Context, key string) (*models.InspectResponse, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached result: %w", err)
	}

	var resp models.InspectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	c.logger.WithField("sha256", key).Debug("Cache hit")
	return &resp, true, nil
}

// Set stores resp under key for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, resp *models.InspectResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"sha256": key,
		"ttl":    c.ttl.String(),
	}).Debug("Cached inspection result")
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
