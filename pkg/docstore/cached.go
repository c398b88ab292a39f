package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheClient is the part of a Redis client the cache uses. *redis.Client
// satisfies it.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore puts a Redis read-through cache in front of List. Append goes
// straight to the wrapped store and invalidates the collection's key.
type CachedStore struct {
	inner  Store
	client CacheClient
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedStore(inner Store, client CacheClient, ttl time.Duration, log *zap.Logger) *CachedStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl, log: log}
}

func collectionKey(collection string) string {
	return fmt.Sprintf("docstore:%s", collection)
}

func (c *CachedStore) List(ctx context.Context, collection string) ([]Document, error) {
	key := collectionKey(collection)

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var docs []Document
		if err := json.Unmarshal([]byte(val), &docs); err == nil {
			c.log.Debug("cache hit", zap.String("collection", collection))
			return docs, nil
		}
		c.log.Warn("discarding unreadable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	docs, err := c.inner.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(docs)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("collection", collection), zap.Error(err))
		return docs, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return docs, nil
}

func (c *CachedStore) Append(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id, err := c.inner.Append(ctx, collection, fields)
	if err != nil {
		return "", err
	}
	if err := c.client.Del(ctx, collectionKey(collection)).Err(); err != nil {
		c.log.Warn("cache invalidation failed", zap.String("collection", collection), zap.Error(err))
	}
	return id, nil
}
