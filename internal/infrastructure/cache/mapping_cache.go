// Package cache keeps the product and colour maps in Redis so feed imports
// and lookups do not reread the catalogs on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
)

// DefaultTTL bounds how long a list stays cached without a write.
const DefaultTTL = 30 * time.Minute

const (
	mappingsKey = "mappings"
	colorsKey   = "colors"
)

var _ mapping.Cache = (*MappingCache)(nil)

// MappingCache implements mapping.Cache on Redis. A nil *MappingCache is
// never handed to the service; pass a nil mapping.Cache to disable caching.
type MappingCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// MappingCacheOption configures a MappingCache.
type MappingCacheOption func(*MappingCache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) MappingCacheOption {
	return func(c *MappingCache) { c.ttl = ttl }
}

// WithPrefix namespaces the keys, e.g. per environment.
func WithPrefix(prefix string) MappingCacheOption {
	return func(c *MappingCache) { c.prefix = prefix }
}

// NewMappingCache creates a cache on an existing client. The caller owns the client.
func NewMappingCache(client redis.Cmdable, opts ...MappingCacheOption) *MappingCache {
	c := &MappingCache{client: client, prefix: "vts:", ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MappingCache) key(name string) string {
	return c.prefix + name
}

func (c *MappingCache) GetMappings(ctx context.Context) ([]mapping.ProductMapping, bool, error) {
	var ms []mapping.ProductMapping
	ok, err := c.get(ctx, mappingsKey, &ms)
	return ms, ok, err
}

func (c *MappingCache) SetMappings(ctx context.Context, ms []mapping.ProductMapping) error {
	return c.set(ctx, mappingsKey, ms)
}

func (c *MappingCache) GetColors(ctx context.Context) ([]mapping.ColorCode, bool, error) {
	var cs []mapping.ColorCode
	ok, err := c.get(ctx, colorsKey, &cs)
	return cs, ok, err
}

func (c *MappingCache) SetColors(ctx context.Context, cs []mapping.ColorCode) error {
	return c.set(ctx, colorsKey, cs)
}

// Invalidate drops both lists.
func (c *MappingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key(mappingsKey), c.key(colorsKey)).Err(); err != nil {
		return fmt.Errorf("invalidate mapping cache: %w", err)
	}
	return nil
}

func (c *MappingCache) get(ctx context.Context, name string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// Corrupted entry: drop it and report a miss.
		_ = c.client.Del(ctx, c.key(name)).Err()
		return false, nil
	}
	return true, nil
}

func (c *MappingCache) set(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := c.client.Set(ctx, c.key(name), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return client, nil
}
