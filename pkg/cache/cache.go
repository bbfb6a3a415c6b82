package cache

// cache.go implements a bounded, strictly-LRU Cache, adapted from the
// teacher's pkg/cache.go shape (one mutex guarding an index + recency
// list) but with the teacher's CLOCK-Pro replacement policy and
// TTL/generation arenas replaced entirely: this is the exact LRU
// openslide-cache.c implements (_openslide_cache_put/_openslide_cache_get/
// possibly_evict) — move-to-head on every hit, evict-from-tail until the new
// entry fits, a single global capacity in bytes, no expiry.
//
// © 2025 slidecore authors. MIT License.

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/openvsf/slidecore/internal/lrulist"
)

// node is the cache's bookkeeping unit: a live entry plus the key needed to
// remove it from the index on eviction. It is the "value" stored in each
// lrulist.Node; the index maps the key to that Node.
type node struct {
	key   Key
	entry *Entry
}

// Cache is a bounded, concurrency-safe, reference-counted LRU tile cache.
// A Cache is itself reference-counted (Ref/Unref) independent
// of the refcounting on the *Entry values it holds — this mirrors
// openslide-cache.c's distinct _openslide_cache (cache-level) and
// _openslide_cache_entry (value-level) refcounts, which is what lets a
// CacheBinding swap the active cache out from under live readers.
type Cache struct {
	refcount int32 // atomic; cache-level, independent of entry refcounts

	mu            sync.Mutex
	index         map[Key]*lrulist.Node
	recency       *lrulist.List
	capacityBytes int64
	totalSize     int64

	warnedOverlarge atomic.Bool

	logger  *zap.Logger
	metrics metricsSink
}

// Create constructs a Cache with refcount 1, ready for use. Capacity
// defaults to DefaultCapacityBytes; override with WithCapacity.
func Create(opts ...Option) (*Cache, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		refcount:      1,
		index:         make(map[Key]*lrulist.Node),
		recency:       lrulist.New(),
		capacityBytes: cfg.capacityBytes,
		logger:        cfg.logger,
		metrics:       newMetricsSink(cfg.registry),
	}
	c.logger.Debug("cache created", zap.Int64("capacity_bytes", c.capacityBytes))
	return c, nil
}

// Ref increments the cache-level refcount and returns c, so callers read
// naturally: `shared := cache.Ref()`.
func (c *Cache) Ref() *Cache {
	atomic.AddInt32(&c.refcount, 1)
	return c
}

// Unref decrements the cache-level refcount. At zero every resident entry
// is released and the cache becomes unusable; callers must not use c after
// its last Unref.
func (c *Cache) Unref() {
	switch n := atomic.AddInt32(&c.refcount, -1); {
	case n == 0:
		c.drain()
	case n < 0:
		panic("cache: cache refcount underflow")
	}
}

func (c *Cache) drain() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.index {
		n.Value.(*node).entry.Release()
	}
	c.index = nil
	c.recency = lrulist.New()
	c.totalSize = 0
	c.logger.Debug("cache drained")
}

// Put inserts data under key, replacing and releasing any prior entry under
// the same key. The cache takes its own reference on entry (distinct from
// whatever reference the caller already holds), so the caller's own
// Release is still required as usual. If entry alone exceeds capacity, Put
// discards it without caching — an oversized tile is not cached and not
// an error — and logs a one-time warning (openslide-cache.c does the
// analogous thing: warn once, do not fail the call).
func (c *Cache) Put(key Key, entry *Entry) {
	size := int64(entry.Size())
	if size > c.capacityBytes {
		if !c.warnedOverlarge.Swap(true) {
			c.logger.Warn("cache: entry exceeds total capacity, not caching",
				zap.Int64("size", size), zap.Int64("capacity_bytes", c.capacityBytes))
		}
		c.metrics.incOverlarge()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.index[key]; ok {
		c.unlinkLocked(key, old)
	}

	c.evictUntilFitsLocked(size)

	n := c.recency.PushFront(&node{key: key, entry: entry.Ref()})
	c.index[key] = n
	c.totalSize += size

	c.metrics.setResidentBytes(c.totalSize)
	c.metrics.setEntryCount(int64(len(c.index)))
}

// Get looks up key, moving it to the recency head on a hit and returning a
// new reference to its entry — the caller must Release it. On a miss it
// returns (nil, false) without side effects.
func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.index[key]
	if !ok {
		c.metrics.incMiss()
		return nil, false
	}
	c.recency.MoveToFront(n)
	c.metrics.incHit()
	return n.Value.(*node).entry.Ref(), true
}

// evictUntilFitsLocked evicts from the recency tail until size more bytes
// fit within capacity. Callers hold c.mu.
func (c *Cache) evictUntilFitsLocked(size int64) {
	for c.totalSize+size > c.capacityBytes {
		tail := c.recency.Back()
		if tail == nil {
			return
		}
		tn := tail.Value.(*node)
		c.unlinkLocked(tn.key, tail)
		c.metrics.incEvict()
	}
}

// unlinkLocked removes n from both the index and the recency list and
// releases the cache's own reference on its entry. Callers hold c.mu.
func (c *Cache) unlinkLocked(key Key, n *lrulist.Node) {
	c.recency.Remove(n)
	delete(c.index, key)
	c.totalSize -= int64(n.Value.(*node).entry.Size())
	n.Value.(*node).entry.Release()
}
