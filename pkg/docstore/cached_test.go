package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeCache is an in-process CacheClient. Setting err makes every call fail.
type fakeCache struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	f.gets++
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// countingStore counts List calls that reach the backing store.
type countingStore struct {
	*MemoryStore
	lists   int
	listErr error
}

func (c *countingStore) List(ctx context.Context, collection string) ([]Document, error) {
	c.lists++
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.MemoryStore.List(ctx, collection)
}

func newCachedFixture(t *testing.T) (*CachedStore, *countingStore, *fakeCache) {
	t.Helper()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	if _, err := inner.MemoryStore.Append(context.Background(), CollectionProducts, map[string]any{"name": "Flour"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cache := newFakeCache()
	return NewCachedStore(inner, cache, time.Minute, nil), inner, cache
}

func TestCachedStoreList(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(cache *fakeCache)
		wantLists  int
		wantCached bool
	}{
		{
			name:       "miss reads through and fills the cache",
			prepare:    func(cache *fakeCache) {},
			wantLists:  1,
			wantCached: true,
		},
		{
			name: "hit skips the store",
			prepare: func(cache *fakeCache) {
				cache.data[collectionKey(CollectionProducts)] = `[{"id":"cached","fields":{"name":"Flour"}}]`
			},
			wantLists:  0,
			wantCached: true,
		},
		{
			name: "unreadable entry is replaced",
			prepare: func(cache *fakeCache) {
				cache.data[collectionKey(CollectionProducts)] = "{not json"
			},
			wantLists:  1,
			wantCached: true,
		},
		{
			name: "redis failure falls back to the store",
			prepare: func(cache *fakeCache) {
				cache.err = errors.New("connection refused")
			},
			wantLists:  1,
			wantCached: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cached, inner, cache := newCachedFixture(t)
			tt.prepare(cache)

			docs, err := cached.List(context.Background(), CollectionProducts)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(docs) != 1 || docs[0].Fields["name"] != "Flour" {
				t.Fatalf("unexpected docs %+v", docs)
			}
			if inner.lists != tt.wantLists {
				t.Fatalf("store read %d times, want %d", inner.lists, tt.wantLists)
			}

			cache.err = nil
			_, cachedNow := cache.data[collectionKey(CollectionProducts)]
			if cachedNow != tt.wantCached {
				t.Fatalf("cache entry present = %v, want %v", cachedNow, tt.wantCached)
			}
		})
	}
}

func TestCachedStoreSecondListIsServedFromCache(t *testing.T) {
	cached, inner, cache := newCachedFixture(t)
	ctx := context.Background()

	first, _ := cached.List(ctx, CollectionProducts)
	second, err := cached.List(ctx, CollectionProducts)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if inner.lists != 1 {
		t.Fatalf("expected one store read, got %d", inner.lists)
	}
	if second[0].ID != first[0].ID {
		t.Fatalf("cached copy lost the id: %s vs %s", second[0].ID, first[0].ID)
	}
	if cache.ttls[collectionKey(CollectionProducts)] != time.Minute {
		t.Fatalf("ttl not applied: %v", cache.ttls)
	}
}

func TestCachedStoreAppendInvalidates(t *testing.T) {
	cached, inner, cache := newCachedFixture(t)
	ctx := context.Background()

	cached.List(ctx, CollectionProducts)
	if _, err := cached.Append(ctx, CollectionProducts, map[string]any{"name": "Sugar"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, ok := cache.data[collectionKey(CollectionProducts)]; ok {
		t.Fatalf("append did not invalidate the cache")
	}

	docs, _ := cached.List(ctx, CollectionProducts)
	if len(docs) != 2 || inner.lists != 2 {
		t.Fatalf("expected a fresh read with 2 docs, got %d docs after %d reads", len(docs), inner.lists)
	}
}

func TestCachedStoreListErrorIsNotCached(t *testing.T) {
	cached, inner, cache := newCachedFixture(t)
	inner.listErr = errors.New("store down")

	if _, err := cached.List(context.Background(), CollectionProducts); !errors.Is(err, inner.listErr) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if len(cache.data) != 0 {
		t.Fatalf("failed read was cached: %v", cache.data)
	}
}
