package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the value for a key that missed the cache.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// ReadThrough puts a TTLCache in front of an expensive lookup. Misses on the
// same key that overlap in time share one call to the loader; errors are
// never cached. A load that finishes after the key was invalidated or
// overwritten returns its value to its callers but does not store it.
type ReadThrough[V any] struct {
	cache *TTLCache[string, V]
	group singleflight.Group

	mu       sync.Mutex
	epoch    uint64
	gens     map[string]uint64
	inflight map[string]int
}

var _ Inspector = (*ReadThrough[any])(nil)

// NewReadThrough wraps c.
func NewReadThrough[V any](c *TTLCache[string, V]) *ReadThrough[V] {
	return &ReadThrough[V]{
		cache:    c,
		gens:     make(map[string]uint64),
		inflight: make(map[string]int),
	}
}

// Cache exposes the underlying store.
func (r *ReadThrough[V]) Cache() *TTLCache[string, V] { return r.cache }

func (r *ReadThrough[V]) Stats() Stats { return r.cache.Stats() }

// Clear is InvalidateAll.
func (r *ReadThrough[V]) Clear() { r.InvalidateAll() }

type generation struct {
	epoch uint64
	key   uint64
}

func (r *ReadThrough[V]) begin(key string) generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight[key]++
	return generation{epoch: r.epoch, key: r.gens[key]}
}

// finish stores v unless key changed since begin.
func (r *ReadThrough[V]) finish(key string, g generation, v V, store bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[key]--; r.inflight[key] <= 0 {
		delete(r.inflight, key)
	}
	if store && r.epoch == g.epoch && r.gens[key] == g.key {
		r.cache.Set(key, v)
	}
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result on success. The shared load is detached from the cancellation of
// whichever caller started it; each caller stops waiting when its own ctx
// is done.
func (r *ReadThrough[V]) GetOrLoad(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	var zero V
	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		g := r.begin(key)
		v, err := load(loadCtx)
		r.finish(key, g, v, err == nil)
		if err != nil {
			return nil, err
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(V)
		if !ok {
			return zero, fmt.Errorf("cache %q: unexpected type %T from loader", r.cache.Name(), res.Val)
		}
		return v, nil
	}
}

// Put stores v under key and discards any load of key still in flight.
func (r *ReadThrough[V]) Put(key string, v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[key]++
	r.group.Forget(key)
	r.cache.Set(key, v)
}

// Invalidate drops keys from the cache. Loads of those keys still in flight
// will not repopulate them.
func (r *ReadThrough[V]) Invalidate(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		r.gens[k]++
		r.group.Forget(k)
		r.cache.Delete(k)
	}
}

// InvalidateAll empties the cache and discards every load in flight.
func (r *ReadThrough[V]) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	clear(r.gens)
	for k := range r.inflight {
		r.group.Forget(k)
	}
	r.cache.Clear()
}
