package mapsource

import (
	"context"
	"sync"
	"time"

	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"go.uber.org/zap"
)

type cacheEntry struct {
	graph     *da.Graph
	expiresAt time.Time
}

// RegionCache serves built graphs keyed by bounding box, with a time-to-live so
// repeated queries in the same area skip the provider fetch. cached graphs are
// read-only; callers clone before applying a traffic snapshot.
type RegionCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	builder *Builder
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewRegionCache(builder *Builder, ttl time.Duration, log *zap.Logger) *RegionCache {
	return &RegionCache{
		entries: make(map[string]cacheEntry),
		builder: builder,
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// Get returns the cached graph for the region, building and caching it on miss
// or expiry.
func (rc *RegionCache) Get(ctx context.Context, bbox da.BoundingBox) (*da.Graph, error) {
	key := bbox.Key()

	rc.mu.Lock()
	if e, ok := rc.entries[key]; ok && rc.now().Before(e.expiresAt) {
		rc.mu.Unlock()
		rc.log.Debug("region cache hit", zap.String("region", key))
		return e.graph, nil
	}
	rc.mu.Unlock()

	// build outside the lock, the provider fetch can take a while
	g, err := rc.builder.Build(ctx, bbox)
	if err != nil {
		return nil, err
	}

	rc.mu.Lock()
	rc.entries[key] = cacheEntry{graph: g, expiresAt: rc.now().Add(rc.ttl)}
	rc.evictExpiredLocked()
	rc.mu.Unlock()

	return g, nil
}

func (rc *RegionCache) evictExpiredLocked() {
	now := rc.now()
	for k, e := range rc.entries {
		if !now.Before(e.expiresAt) {
			delete(rc.entries, k)
		}
	}
}

func (rc *RegionCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}
