package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
	"github.com/alem-hub/exam-schedule-hub/pkg/circuitbreaker"
)

// ScheduleCache stores query responses for one service. Calls are guarded by
// a circuit breaker so a failing Redis degrades to cache misses quickly.
type ScheduleCache struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewScheduleCache creates a ScheduleCache with the given TTL.
func NewScheduleCache(cache *Cache, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker) *ScheduleCache {
	if breaker == nil {
		breaker = circuitbreaker.New("redis")
	}
	return &ScheduleCache{cache: cache, ttl: ttl, breaker: breaker}
}

// GetJSON loads a cached value. It reports false on a miss.
func (s *ScheduleCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	hit := false
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		err := s.cache.Get(ctx, PrefixSchedule+key, dest)
		switch {
		case err == nil:
			hit = true
		case errors.Is(err, ErrCacheMiss):
			return nil
		}
		return err
	})
	if err != nil {
		return false, shared.ErrCacheUnavailable.Wrap(err)
	}
	return hit, nil
}

// SetJSON stores a value with the configured TTL.
func (s *ScheduleCache) SetJSON(ctx context.Context, key string, value any) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.cache.Set(ctx, PrefixSchedule+key, value, s.ttl)
	})
	if err != nil {
		return shared.ErrCacheUnavailable.Wrap(err)
	}
	return nil
}

// Purge drops cached responses of every dataset version except keep.
// An empty keep drops everything.
func (s *ScheduleCache) Purge(ctx context.Context, keep string) error {
	if keep == "" {
		return s.cache.DeleteByPattern(ctx, PrefixSchedule+"*")
	}
	return s.cache.DeleteMatching(ctx, PrefixSchedule+"*", func(key string) bool {
		return keyVersion(key) == keep
	})
}

// keyVersion extracts the dataset version from "schedule:<kind>:<version>:...".
func keyVersion(key string) string {
	parts := strings.SplitN(strings.TrimPrefix(key, PrefixSchedule), ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// Ping reports Redis health for the readiness probe.
func (s *ScheduleCache) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}
