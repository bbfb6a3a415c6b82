// Package cache implements a reference-counted, bounded LRU tile cache:
// entries, keys, the cache itself, and a swappable binding on top of it.
// Its shape and locking discipline are adapted from the teacher's
// pkg/cache.go (github.com/Voskan/arena-cache): a single mutex guarding an
// index + recency list, with atomically refcounted values that may outlive
// their residency in the cache. Its exact eviction/replace semantics are
// grounded directly on openslide-cache.c, the original C this package's
// behavior follows.
//
// © 2025 slidecore authors. MIT License.
package cache

import "sync/atomic"

// Entry is a refcounted holder of a decoded tile pixel buffer. An Entry may
// outlive its residency in the Cache: the last holder to Release it frees
// the buffer. Refcount updates are atomic and are never guarded by the
// cache mutex, so a reader may keep using a tile's bytes after it has been
// evicted without holding any lock for the duration of its use.
type Entry struct {
	refcount int32 // atomic
	data     []byte
	size     uint64
}

// NewEntry constructs an Entry with refcount 1, owned by the caller.
func NewEntry(data []byte) *Entry {
	return &Entry{refcount: 1, data: data, size: uint64(len(data))}
}

// Data returns the entry's pixel buffer. Valid only while the caller holds
// a reference (i.e. between receiving the Entry and calling Release).
func (e *Entry) Data() []byte { return e.data }

// Size reports the byte size the entry occupies for accounting purposes.
func (e *Entry) Size() uint64 { return e.size }

// Ref atomically increments the refcount and returns e, so cloning a
// reference reads naturally at call sites: `held := entry.Ref()`.
func (e *Entry) Ref() *Entry {
	atomic.AddInt32(&e.refcount, 1)
	return e
}

// Release atomically decrements the refcount. When it reaches zero the
// entry's buffer is dropped for GC and the entry itself becomes unusable.
// Releasing an entry more times than it has been held is a contract
// violation and panics rather than silently corrupting accounting.
func (e *Entry) Release() {
	switch n := atomic.AddInt32(&e.refcount, -1); {
	case n == 0:
		e.data = nil
	case n < 0:
		panic("cache: entry refcount underflow")
	}
}
