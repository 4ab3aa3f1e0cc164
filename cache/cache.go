// Package cache keeps recent job analyses keyed by URL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/models"
)

const keyPrefix = "jobfit:analysis:"

// Cache stores job details by URL
type Cache interface {
	Get(ctx context.Context, url string) (*models.JobDetails, bool, error)
	Set(ctx context.Context, url string, details models.JobDetails) error
	Close() error
}

// New returns a Redis cache when REDIS_ADDR is set, otherwise an in-process one
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if cfg.RedisAddr == "" {
		return NewMemory(ttl), nil
	}
	return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
}

// Key derives the storage key of a URL
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return keyPrefix + hex.EncodeToString(sum[:])
}
