package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache keeps pricing snapshots in Redis so every quantity change on a busy
// cart does not hit the database. A stale snapshot is bounded by the TTL; a
// price or offer change is additionally invalidated explicitly by the catalog
// write path.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a snapshot cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func snapshotKey(productID uuid.UUID, variantID *uuid.UUID) string {
	if variantID != nil {
		return "pricing:snap:" + productID.String() + ":" + variantID.String()
	}
	return "pricing:snap:" + productID.String()
}

// GetSnapshot reports whether a cached snapshot existed for the key.
func (c *Cache) GetSnapshot(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (Snapshot, bool, error) {
	if c == nil || c.client == nil {
		return Snapshot{}, false, nil
	}
	data, err := c.client.Get(ctx, snapshotKey(productID, variantID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// SetSnapshot stores a snapshot with the configured TTL.
func (c *Cache) SetSnapshot(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, snap Snapshot) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(productID, variantID), data, c.ttl).Err()
}

// Invalidate drops the cached snapshot after a catalog write.
func (c *Cache) Invalidate(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, snapshotKey(productID, variantID)).Err()
}
