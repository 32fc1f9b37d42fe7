package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nhl-travel-service/internal/snapshots"
)

// ErrMiss is returned by Get when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores opaque values with a per-key TTL.
// A non-positive TTL stores the value without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Name identifies the backend in logs and metrics.
	Name() string
	Close() error
}

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendValkey = "valkey"
	BackendFS     = "fs"

	defaultPrefix = "nhl-travel:schedule:"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	RedisURL      string
	ValkeyAddr    string
	SnapshotDir   string
	RetentionDays int
	Prefix        string
	DialTimeout   time.Duration
}

// New builds the configured backend. BackendNone returns a nil Cache and no error.
func New(ctx context.Context, cfg Config) (Cache, error) {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendNone:
		return nil, nil
	case "", BackendMemory:
		return NewMemoryCache(), nil
	case BackendRedis:
		return NewRedisCache(ctx, RedisConfig{URL: cfg.RedisURL, Prefix: prefix, Timeout: cfg.DialTimeout})
	case BackendValkey:
		return NewValkeyCache(ValkeyConfig{Addr: cfg.ValkeyAddr, Prefix: prefix})
	case BackendFS:
		dir := cfg.SnapshotDir
		if dir == "" {
			return nil, errors.New("cache: fs backend requires a snapshot directory")
		}
		return NewSnapshotCache(snapshots.NewWriter(dir, cfg.RetentionDays), snapshots.NewFSStore(dir)), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
