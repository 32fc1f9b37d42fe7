package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyConfig holds Valkey connection configuration.
type ValkeyConfig struct {
	Addr   string
	Prefix string
}

// ValkeyCache implements Cache on valkey-go.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache connects to a Valkey server at cfg.Addr.
func NewValkeyCache(cfg ValkeyConfig) (*ValkeyCache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("cache: valkey address required")
	}
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.Addr},
	})
	if err != nil {
		return nil, fmt.Errorf("cache: connect valkey: %w", err)
	}
	return &ValkeyCache{client: client, prefix: cfg.Prefix}, nil
}

func (c *ValkeyCache) prefixKey(key string) string {
	return c.prefix + key
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(c.prefixKey(key)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := c.client.B().Set().Key(c.prefixKey(key)).Value(string(value))
	if ttl > 0 {
		return c.client.Do(ctx, set.Ex(ttl).Build()).Error()
	}
	return c.client.Do(ctx, set.Build()).Error()
}

func (c *ValkeyCache) Delete(ctx context.Context, key string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(c.prefixKey(key)).Build()).Error()
}

func (c *ValkeyCache) Name() string { return BackendValkey }

func (c *ValkeyCache) Close() error {
	c.client.Close()
	return nil
}
