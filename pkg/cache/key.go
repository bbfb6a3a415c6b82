package cache

import (
	"fmt"
	"reflect"
)

// Key identifies a tile by coordinate plane and (x, y) index.
// Plane is an opaque identity cookie supplied by the caller — typically a
// pyramid level's pointer identity. Two keys are equal iff all three
// components are equal; for Plane that means identity for pointer-shaped
// values and ordinary equality for comparable scalars, which is exactly
// what Go's `==` on an `any` field already gives us, so Key is used
// directly as a map key rather than through a hand-rolled hash table.
type Key struct {
	Plane any
	X, Y  int64
}

// Hash mixes the plane's identity with (x, y) using the same formula as
// the original C (openslide-cache.c's hash_func): the plane pointer XOR'd
// with 34369*y + x. Go's built-in map does not need this to operate
// correctly — Key is comparable on its own — but the formula is kept and
// exposed for callers that want to bucket metrics or logs by a stable
// numeric fingerprint of a key.
func (k Key) Hash() uint64 {
	return planeIdentity(k.Plane) ^ (34369*uint64(k.Y) + uint64(k.X))
}

// planeIdentity extracts a stable numeric fingerprint from an opaque plane
// cookie. Pointer-shaped values (the common case — a *Level, say) use their
// address; everything else falls back to an FNV-1a hash of its formatted
// value so the function never panics on an unexpected Plane type.
func planeIdentity(plane any) uint64 {
	if plane == nil {
		return 0
	}
	v := reflect.ValueOf(plane)
	switch v.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Map, reflect.Func:
		return uint64(v.Pointer())
	default:
		h := fnv64a(plane)
		return h
	}
}

// fnv64a hashes the %v formatting of a non-pointer plane cookie. This path
// is only exercised by callers that choose scalar plane identities (e.g.
// tests using a small int as the plane); pointer identity is the expected
// production case (a pyramid level object).
func fnv64a(v any) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, c := range []byte(stringerOf(v)) {
		h ^= uint64(c)
		h *= prime64
	}
	return h
}

func stringerOf(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
