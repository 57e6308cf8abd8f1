package cache

// Cache defines the key-value memoization API used by the repositories.
// Every entry shares the TTL the cache was built with.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	// An expired entry is removed as a side effect.
	Get(key K) (V, bool)

	// Set stores the value, replacing any previous entry for key.
	Set(key K, value V)

	// Delete removes a key if present.
	Delete(key K)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Size returns the number of stored entries, expired ones included.
	Size() int

	// Clear removes all entries.
	Clear()

	// PurgeExpired scans and removes expired entries, returning how many were removed.
	PurgeExpired() int
}

// Observer is notified about cache traffic. Callbacks run while the cache
// lock is held and must not call back into the cache.
type Observer interface {
	Hit()
	Miss()
	Evict()
}

type noopObserver struct{}

func (noopObserver) Hit()   {}
func (noopObserver) Miss()  {}
func (noopObserver) Evict() {}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Name    string `json:"name"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Expired uint64 `json:"expired"`
	Size    int    `json:"size"`
	TTLMs   int64  `json:"ttlMs"`
}

// Inspector is the type-erased view of a cache used by admin endpoints.
type Inspector interface {
	Stats() Stats
	Clear()
}
