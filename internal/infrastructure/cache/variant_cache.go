// Package cache provides Redis-backed read caches for hot lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/catalog"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
)

// Client wraps the redis connection shared by the caches.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis.
func NewClient(addr, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Client{rdb: rdb}
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// VariantDirectory decorates a catalog.Directory with a Redis cache.
// Descriptors change rarely (price edits) so a short TTL keeps the
// directory cheap without a cross-service invalidation protocol. The
// snapshot written onto units and order lines is never read from cache
// staleness-sensitively: it is copied once at intake or sale time.
type VariantDirectory struct {
	next   catalog.Directory
	client *Client
	ttl    time.Duration
}

// Compile-time check.
var _ catalog.Directory = (*VariantDirectory)(nil)

// NewVariantDirectory wraps next with caching.
func NewVariantDirectory(next catalog.Directory, client *Client, ttl time.Duration) *VariantDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &VariantDirectory{next: next, client: client, ttl: ttl}
}

func variantKey(productID, variantID id.ID) string {
	return fmt.Sprintf("catalog:variant:%s:%s", productID, variantID)
}

// ResolveVariant returns the cached descriptor or falls through to the
// underlying directory. Cache failures degrade to a direct lookup.
func (d *VariantDirectory) ResolveVariant(ctx context.Context, productID, variantID id.ID) (catalog.VariantDescriptor, error) {
	key := variantKey(productID, variantID)

	val, err := d.client.rdb.Get(ctx, key).Result()
	if err == nil {
		var desc catalog.VariantDescriptor
		if err := json.Unmarshal([]byte(val), &desc); err == nil {
			return desc, nil
		}
		// Corrupt entry: drop it and fall through.
		_ = d.client.rdb.Del(ctx, key).Err()
	} else if err != redis.Nil {
		logger.Warn(ctx, "variant cache read failed", "key", key, "error", err)
	}

	desc, err := d.next.ResolveVariant(ctx, productID, variantID)
	if err != nil {
		return catalog.VariantDescriptor{}, err
	}

	if payload, err := json.Marshal(desc); err == nil {
		if err := d.client.rdb.Set(ctx, key, payload, d.ttl).Err(); err != nil {
			logger.Warn(ctx, "variant cache write failed", "key", key, "error", err)
		}
	}

	return desc, nil
}
