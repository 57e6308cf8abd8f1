package cache

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultTTL is used by callers that have no configured TTL.
const DefaultTTL = time.Minute

// entry stores a cached value and the time it was written.
type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// TTLCache is a map-backed cache where every entry expires a fixed TTL after
// it was set. There is no background janitor unless StartJanitor is called;
// expired entries are otherwise removed lazily by Get/Has, PurgeExpired,
// Delete or Clear.
type TTLCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	muPtr *sync.Mutex

	name     string
	ttl      time.Duration
	clock    clock.Clock
	observer Observer
	items    map[K]entry[V]

	hits    uint64
	misses  uint64
	expired uint64
}

// Options controls construction of a TTLCache.
type Options struct {
	// Name labels the cache in stats and metrics.
	Name string

	// ConcurrencySafe guards every operation with a mutex.
	// Leave it off only when a single goroutine owns the cache.
	ConcurrencySafe bool

	// Clock defaults to the wall clock.
	Clock clock.Clock

	// Observer receives hit/miss/evict notifications.
	Observer Observer
}

// NewTTLCache constructs an empty cache. A negative ttl is treated as 0,
// which makes every entry stale as soon as any time has passed.
func NewTTLCache[K comparable, V any](ttl time.Duration, opts Options) *TTLCache[K, V] {
	if ttl < 0 {
		ttl = 0
	}
	var mu *sync.Mutex
	if opts.ConcurrencySafe {
		mu = &sync.Mutex{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	var obs Observer = noopObserver{}
	if opts.Observer != nil {
		obs = opts.Observer
	}
	return &TTLCache[K, V]{
		muPtr:    mu,
		name:     opts.Name,
		ttl:      ttl,
		clock:    clk,
		observer: obs,
		items:    make(map[K]entry[V]),
	}
}

func (c *TTLCache[K, V]) lock() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// TTL returns the lifetime applied to every entry.
func (c *TTLCache[K, V]) TTL() time.Duration { return c.ttl }

// Name returns the label given at construction.
func (c *TTLCache[K, V]) Name() string { return c.name }

// isExpired reports whether e has outlived the TTL. An entry exactly ttl old
// is still valid.
func (c *TTLCache[K, V]) isExpired(e entry[V], now time.Time) bool {
	return now.Sub(e.insertedAt) > c.ttl
}

// lookup must be called with the lock held.
func (c *TTLCache[K, V]) lookup(key K) (V, bool) {
	var zero V
	e, ok := c.items[key]
	if !ok {
		c.misses++
		c.observer.Miss()
		return zero, false
	}
	if c.isExpired(e, c.clock.Now()) {
		delete(c.items, key)
		c.expired++
		c.misses++
		c.observer.Evict()
		c.observer.Miss()
		return zero, false
	}
	c.hits++
	c.observer.Hit()
	return e.value, true
}

// Get implements Cache.Get.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lock()
	defer unlock()
	return c.lookup(key)
}

// Set implements Cache.Set.
func (c *TTLCache[K, V]) Set(key K, value V) {
	unlock := c.lock()
	defer unlock()
	c.items[key] = entry[V]{
		value:      value,
		insertedAt: c.clock.Now(),
	}
}

// Delete implements Cache.Delete.
func (c *TTLCache[K, V]) Delete(key K) {
	unlock := c.lock()
	defer unlock()
	delete(c.items, key)
}

// Has implements Cache.Has. It does not count towards hit/miss stats.
func (c *TTLCache[K, V]) Has(key K) bool {
	unlock := c.lock()
	defer unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	if c.isExpired(e, c.clock.Now()) {
		delete(c.items, key)
		c.expired++
		c.observer.Evict()
		return false
	}
	return true
}

// Size implements Cache.Size. Expired entries that have not been evicted yet
// are counted, so Size is not a measure of live entries.
func (c *TTLCache[K, V]) Size() int {
	unlock := c.lock()
	defer unlock()
	return len(c.items)
}

// Keys returns a snapshot of the stored keys in no particular order.
// Like Size it is not expiry-aware.
func (c *TTLCache[K, V]) Keys() []K {
	unlock := c.lock()
	defer unlock()
	keys := make([]K, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// Clear implements Cache.Clear.
func (c *TTLCache[K, V]) Clear() {
	unlock := c.lock()
	defer unlock()
	c.items = make(map[K]entry[V])
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *TTLCache[K, V]) PurgeExpired() int {
	unlock := c.lock()
	defer unlock()
	if len(c.items) == 0 {
		return 0
	}
	nowTs := c.clock.Now()
	removed := 0
	for k, e := range c.items {
		if c.isExpired(e, nowTs) {
			delete(c.items, k)
			removed++
			c.observer.Evict()
		}
	}
	c.expired += uint64(removed)
	return removed
}

// Stats returns the current counters.
func (c *TTLCache[K, V]) Stats() Stats {
	unlock := c.lock()
	defer unlock()
	return Stats{
		Name:    c.name,
		Hits:    c.hits,
		Misses:  c.misses,
		Expired: c.expired,
		Size:    len(c.items),
		TTLMs:   c.ttl.Milliseconds(),
	}
}

// Ensure TTLCache implements Cache at compile time.
var _ Cache[any, any] = (*TTLCache[any, any])(nil)
