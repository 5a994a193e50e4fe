// Package cache provides the Redis backed read-through cache used for product
// lookups. Entries are JSON encoded and expire after a fixed TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sima/internal/config"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Store defines the interface for cache operations
type Store interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Cache drivers selectable with CACHE_DRIVER
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// Config holds cache settings. Addr, Password and DB apply to the redis driver.
type Config struct {
	Driver   string
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// LoadConfig reads cache settings from the environment. CACHE_DRIVER defaults
// to redis when REDIS_ADDR is set. It reports false when caching is disabled:
// CACHE_DRIVER=none, or the redis driver without REDIS_ADDR.
func LoadConfig() (*Config, bool) {
	addr := config.GetEnvOrDefault("REDIS_ADDR", "")
	driver := config.GetEnvOrDefault("CACHE_DRIVER", DriverRedis)

	switch driver {
	case DriverMemory:
		return &Config{
			Driver: DriverMemory,
			TTL:    config.GetEnvDuration("CACHE_TTL", 5*time.Minute),
		}, true
	case DriverRedis:
		if addr == "" {
			return nil, false
		}
	default:
		return nil, false
	}

	return &Config{
		Driver:   DriverRedis,
		Addr:     addr,
		Password: config.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       config.GetEnvInt("REDIS_DB", 0),
		TTL:      config.GetEnvDuration("CACHE_TTL", 5*time.Minute),
	}, true
}

// New returns the Store for cfg.Driver. The memory driver keeps entries in
// process and suits a single API instance.
func New(cfg *Config) Store {
	if cfg.Driver == DriverMemory {
		return NewMemoryStore()
	}
	return NewRedisStore(cfg)
}

// redisStore implements Store using Redis
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis backed store
func NewRedisStore(cfg *Config) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetJSON decodes the cached value at key into T
func GetJSON[T any](ctx context.Context, s Store, key string) (*T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return &value, nil
}

// SetJSON encodes value and stores it at key
func SetJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data), ttl)
}
