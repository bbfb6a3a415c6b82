package cache

// binding.go implements CacheBinding, grounded directly on
// openslide-cache.c's _openslide_cache_binding_*: a small indirection layer
// that lets a slide handle's cache be swapped out from under it (e.g. to
// share one cache across several open slides) without every reader holding
// a stale *Cache pointer. The binding owns a reference on whichever cache
// it currently points at; swapping takes a reference on the new cache,
// swaps the pointer under its own mutex, and then releases the old
// reference. Every delegated Put/Get holds the binding
// mutex for the full duration of the call into the cache, exactly as
// openslide-cache.c's _openslide_cache_get/_openslide_cache_put hold their
// binding lock across the whole operation: this is what makes it safe for
// Set to run concurrently with an in-flight Put/Get — Set cannot drop the
// last reference on the cache a Put/Get is still using, because it cannot
// acquire the binding mutex until that call returns.
//
// © 2025 slidecore authors. MIT License.

import "sync"

// CacheBinding decouples a slide handle from a swappable shared Cache.
type CacheBinding struct {
	mu    sync.Mutex
	cache *Cache
}

// NewBinding creates a binding pointing at cache, taking a reference on it.
// cache may be nil (the binding behaves as a pure no-op cache until Set).
func NewBinding(cache *Cache) *CacheBinding {
	if cache != nil {
		cache.Ref()
	}
	return &CacheBinding{cache: cache}
}

// Set repoints the binding at a new cache, releasing the previous one (if
// any) and taking a reference on the new one (if non-nil). Safe to call
// concurrently with Put/Get/Destroy on the same binding: it takes the same
// binding mutex Put/Get hold for their whole call, so it can only swap the
// pointer (and drop the old reference) between delegated calls, never
// underneath one.
func (b *CacheBinding) Set(cache *Cache) {
	if cache != nil {
		cache.Ref()
	}
	b.mu.Lock()
	old := b.cache
	b.cache = cache
	b.mu.Unlock()
	if old != nil {
		old.Unref()
	}
}

// Put forwards to the currently bound cache's Put. A no-op if unbound. The
// binding mutex is held for the entire delegated call, not just the
// pointer read, so a concurrent Set cannot Unref the cache out from under
// it.
func (b *CacheBinding) Put(key Key, entry *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cache != nil {
		b.cache.Put(key, entry)
	}
}

// Get forwards to the currently bound cache's Get. Always a miss if
// unbound. Holds the binding mutex for the entire delegated call, for the
// same reason as Put.
func (b *CacheBinding) Get(key Key) (*Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cache != nil {
		return b.cache.Get(key)
	}
	return nil, false
}

// Destroy releases the binding's reference on its current cache and
// unbinds it. The binding must not be used after Destroy.
func (b *CacheBinding) Destroy() {
	b.mu.Lock()
	old := b.cache
	b.cache = nil
	b.mu.Unlock()
	if old != nil {
		old.Unref()
	}
}
