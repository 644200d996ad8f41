// Package cache memoizes a check's result behind its Fingerprint, with
// at-most-one concurrent builder per key and TTL-based eviction.
package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/finopsguard/finopsguard/internal/types"
)

const stripeCount = 32

type entry struct {
	value        any
	createdAt    time.Time
	expiresAt    time.Time
	hitCount     int64
	lastAccessed time.Time
}

// stripe is one lock-protected shard of the cache, so concurrent lookups
// for unrelated keys never contend on a single mutex.
type stripe struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// Store is the process-wide analysis cache. It never runs a second
// concurrent build for the same key: the first caller builds, the rest
// wait on and share that result, via a singleflight.Group per stripe.
type Store struct {
	stripes []*stripe
	groups  []*singleflight.Group
	ttl     time.Duration
}

// New creates a Store whose entries expire defaultTTL after insertion
// unless a caller-supplied TTL in SetTTL or GetOrBuildTTL overrides it.
func New(defaultTTL time.Duration) *Store {
	s := &Store{
		stripes: make([]*stripe, stripeCount),
		groups:  make([]*singleflight.Group, stripeCount),
		ttl:     defaultTTL,
	}
	for i := range s.stripes {
		s.stripes[i] = &stripe{entries: make(map[string]*entry)}
		s.groups[i] = &singleflight.Group{}
	}
	return s
}

func (s *Store) shardFor(key string) (*stripe, *singleflight.Group) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	idx := int(h.Sum32()) % stripeCount
	if idx < 0 {
		idx += stripeCount
	}
	return s.stripes[idx], s.groups[idx]
}

// Get returns the cached value for key, if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	shard, _ := s.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	e, ok := shard.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(shard.entries, key)
		return nil, false
	}
	e.hitCount++
	e.lastAccessed = time.Now()
	return e.value, true
}

// Set inserts value under key with the Store's default TTL.
func (s *Store) Set(key string, value any) {
	s.SetTTL(key, value, s.ttl)
}

// SetTTL inserts value under key, expiring after ttl.
func (s *Store) SetTTL(key string, value any, ttl time.Duration) {
	shard, _ := s.shardFor(key)
	now := time.Now()
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.entries[key] = &entry{
		value:        value,
		createdAt:    now,
		expiresAt:    now.Add(ttl),
		lastAccessed: now,
	}
}

// Invalidate removes key, if present.
func (s *Store) Invalidate(key string) {
	shard, _ := s.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.entries, key)
}

// Builder produces the value to cache under a miss. It runs at most once
// per key at any given moment, even under concurrent callers.
type Builder func(ctx context.Context) (any, error)

// GetOrBuild returns the cached value for key, or invokes build exactly
// once among any concurrently-waiting callers sharing that key, caches its
// result with the Store's default TTL, and returns it. A build error is
// never cached.
func (s *Store) GetOrBuild(ctx context.Context, key string, build Builder) (any, error) {
	return s.GetOrBuildTTL(ctx, key, s.ttl, build)
}

// GetOrBuildTTL is GetOrBuild with an explicit TTL for a fresh build.
func (s *Store) GetOrBuildTTL(ctx context.Context, key string, ttl time.Duration, build Builder) (any, error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	_, group := s.shardFor(key)
	value, err, _ := group.Do(key, func() (interface{}, error) {
		// Re-check: another goroutine may have populated the cache while
		// this one waited to become the singleflight leader.
		if value, ok := s.Get(key); ok {
			return value, nil
		}
		built, err := build(ctx)
		if err != nil {
			return nil, err
		}
		s.SetTTL(key, built, ttl)
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Sweep removes every expired entry across all stripes and reports how
// many were evicted. Run periodically from a background goroutine.
func (s *Store) Sweep() int {
	now := time.Now()
	evicted := 0
	for _, shard := range s.stripes {
		shard.mu.Lock()
		for key, e := range shard.entries {
			if now.After(e.expiresAt) {
				delete(shard.entries, key)
				evicted++
			}
		}
		shard.mu.Unlock()
	}
	return evicted
}

// RunSweeper starts a background goroutine that calls Sweep every interval
// until ctx is cancelled.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stats reports per-key metadata snapshots, mirroring types.CacheEntry, for
// diagnostics endpoints.
func (s *Store) Stats() []types.CacheEntry {
	var out []types.CacheEntry
	for _, shard := range s.stripes {
		shard.mu.Lock()
		for key, e := range shard.entries {
			out = append(out, types.CacheEntry{
				CacheKey:     key,
				CacheType:    "analysis",
				CreatedAt:    e.createdAt,
				ExpiresAt:    e.expiresAt,
				HitCount:     e.hitCount,
				LastAccessed: e.lastAccessed,
			})
		}
		shard.mu.Unlock()
	}
	return out
}
