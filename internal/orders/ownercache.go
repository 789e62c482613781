package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/vendora/vendora/internal/authz"
)

// OwnerCache is a read-through cache in front of an owner-info source.
// It caches resource lookups only, never authorization decisions, so a
// grant/revoke takes effect on the next check.
type OwnerCache struct {
	client *redis.Client
	source authz.OwnerInfoSource
	ttl    time.Duration
	group  singleflight.Group
}

// NewOwnerCache constructs an OwnerCache.
func NewOwnerCache(client *redis.Client, source authz.OwnerInfoSource, ttl time.Duration) *OwnerCache {
	return &OwnerCache{client: client, source: source, ttl: ttl}
}

type ownerPayload struct {
	OwnerID    int64 `json:"owner_id"`
	MerchantID int64 `json:"merchant_id"`
}

func ownerKey(id int64) string {
	return fmt.Sprintf("orders:owner:%d", id)
}

// OwnerInfo resolves owner identities through the cache. Concurrent misses
// for the same order collapse into one database lookup.
func (c *OwnerCache) OwnerInfo(ctx context.Context, id int64) (authz.OwnerInfo, error) {
	key := ownerKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var payload ownerPayload
		if err := json.Unmarshal(data, &payload); err == nil {
			return authz.OwnerInfo{OwnerID: payload.OwnerID, MerchantID: payload.MerchantID}, nil
		}
		// Corrupt entry: fall through to refill.
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailability must not block authorization; read through.
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		info, err := c.source.OwnerInfo(ctx, id)
		if err != nil {
			return authz.OwnerInfo{}, err
		}
		if data, err := json.Marshal(ownerPayload{OwnerID: info.OwnerID, MerchantID: info.MerchantID}); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttl).Err()
		}
		return info, nil
	})
	if err != nil {
		return authz.OwnerInfo{}, err
	}
	return result.(authz.OwnerInfo), nil
}

// Invalidate drops the cached entry for an order, used after mutations that
// could reassign ownership.
func (c *OwnerCache) Invalidate(ctx context.Context, id int64) {
	_ = c.client.Del(ctx, ownerKey(id)).Err()
}
