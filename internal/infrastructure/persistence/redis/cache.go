// Package redis keeps rendered API responses (search pages, calendar bodies)
// in Redis so repeated lookups skip the in-memory scan and ICS rendering.
//
// Cache is the thin JSON layer over go-redis. ScheduleCache adds the breaker
// and the key namespace; every key it writes lives under PrefixSchedule.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/exam-schedule-hub/pkg/retry"
)

// PrefixSchedule namespaces every key written by this service.
const PrefixSchedule = "schedule:"

// scanBatch is both the SCAN page hint and the DEL batch size of Purge.
const scanBatch = 100

var (
	ErrCacheMiss          = errors.New("cache: key not found")
	ErrCacheConnection    = errors.New("cache: connection failed")
	ErrCacheSerialization = errors.New("cache: cannot encode value")
	ErrCacheInvalidTTL    = errors.New("cache: negative TTL")
	ErrCacheKeyEmpty      = errors.New("cache: empty key")
)

// Config is the connection setup of the response cache.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize int
	// Per-command retries inside go-redis; -1 disables them.
	MaxRetries int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig targets a local Redis with short socket timeouts; a slow
// cache must not hold up a search request.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		PoolSize:     10,
		MaxRetries:   1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Cache stores JSON documents under plain string keys.
type Cache struct {
	client *redis.Client
	config Config
}

// NewCache opens a client and fails unless PING answers within DialTimeout.
func NewCache(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrCacheConnection, cfg.Addr(), err)
	}
	return &Cache{client: client, config: cfg}, nil
}

// ConnectWithRetry repeats NewCache under r. The server starts without a
// cache when this gives up, so callers log the error and carry on.
func ConnectWithRetry(ctx context.Context, cfg Config, r *retry.Retrier) (*Cache, error) {
	var cache *Cache
	err := r.Do(ctx, func(ctx context.Context) error {
		c, err := NewCache(ctx, cfg)
		if err != nil {
			return retry.Retryable(err)
		}
		cache = c
		return nil
	})
	return cache, err
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping is used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Set writes value as JSON. A zero ttl keeps the key until Purge.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch {
	case key == "":
		return ErrCacheKeyEmpty
	case ttl < 0:
		return ErrCacheInvalidTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the document at key into dest, or returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCacheSerialization, key, err)
	}
	return nil
}

// DeleteByPattern removes every key matching pattern, walking the keyspace
// with SCAN and deleting in batches.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	return c.DeleteMatching(ctx, pattern, nil)
}

// DeleteMatching is DeleteByPattern with a filter: keys for which keep
// returns true stay. A nil keep deletes every match.
func (c *Cache) DeleteMatching(ctx context.Context, pattern string, keep func(key string) bool) error {
	if pattern == "" {
		return ErrCacheKeyEmpty
	}

	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		if keep != nil && keep(iter.Val()) {
			continue
		}
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return flush()
}
