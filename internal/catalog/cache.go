package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/store"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	pinsKey       = "catalog:pins"
	generationKey = "catalog:generation"
)

// ErrStale is returned by SetPins when a mutation moved the generation
// after the list was read.
var ErrStale = errors.New("catalog changed since read")

// Cache keeps the unfiltered pin list in redis. A nil client turns every
// call into a miss or a no-op.
//
// Every invalidation bumps a generation counter. Writers read the
// generation before loading pins and only store the list if it has not
// moved, so a list read before a mutation never outlives it.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: logger.OrNop(log)}
}

// Pins returns the cached list. ok is false on a miss.
func (c *Cache) Pins(ctx context.Context) ([]store.Pin, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, pinsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.log.Warn("catalog cache get failed", zap.Error(err))
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var pins []store.Pin
	if err := json.Unmarshal(raw, &pins); err != nil {
		c.log.Warn("catalog cache entry unreadable", zap.Error(err))
		return nil, false, nil
	}
	c.log.Debug("catalog cache hit", zap.Int("pins", len(pins)))
	return pins, true, nil
}

// Enabled reports whether a redis client backs the cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Generation returns the current invalidation count. A missing counter
// reads as zero.
func (c *Cache) Generation(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

// SetPins stores the list if the generation is still gen. It returns
// ErrStale when an invalidation happened in between.
func (c *Cache) SetPins(ctx context.Context, gen int64, pins []store.Pin) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(pins)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, pinsKey, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("catalog cache write skipped, list is stale", zap.Int64("generation", gen))
		return ErrStale
	default:
		c.log.Warn("catalog cache set failed", zap.Error(err))
		return fmt.Errorf("cache set: %w", err)
	}
}

// Invalidate bumps the generation and drops the cached list after any pin
// mutation.
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, pinsKey)
		return nil
	})
	if err != nil {
		c.log.Warn("catalog cache invalidate failed", zap.Error(err))
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
