package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string
}

func newMockCache[V any](t *testing.T, ttl time.Duration) (*TTLCache[string, V], *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	c := NewTTLCache[string, V](ttl, Options{Name: "test", ConcurrencySafe: true, Clock: mock})
	return c, mock
}

func TestTTLCache_SetGet_RoundTrip(t *testing.T) {
	c, _ := newMockCache[int](t, time.Second)
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit with value 1, got ok=%v v=%v", ok, v)
	}
	if !c.Has("a") {
		t.Fatalf("expected Has to be true")
	}
	if c.Size() != 1 {
		t.Fatalf("expected Size=1, got %d", c.Size())
	}
}

func TestTTLCache_GetNeverSet(t *testing.T) {
	c, _ := newMockCache[string](t, time.Second)
	v, ok := c.Get("missing")
	require.False(t, ok)
	require.Empty(t, v)
}

func TestTTLCache_Set_Overwrites(t *testing.T) {
	c, mock := newMockCache[string](t, 100*time.Millisecond)
	c.Set("k", "old")
	mock.Add(80 * time.Millisecond)
	c.Set("k", "new")
	mock.Add(80 * time.Millisecond)

	// the overwrite restamped the entry, so it is still live
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "new", v)
	require.Equal(t, 1, c.Size())
}

func TestTTLCache_ExpiryBoundary(t *testing.T) {
	c, mock := newMockCache[int](t, 100*time.Millisecond)
	c.Set("a", 1)

	mock.Add(99 * time.Millisecond)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	mock.Add(time.Millisecond)
	_, ok = c.Get("a")
	require.True(t, ok, "an entry exactly ttl old is still valid")

	mock.Add(time.Millisecond)
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestTTLCache_LazyEviction(t *testing.T) {
	c, mock := newMockCache[int](t, 100*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	mock.Add(101 * time.Millisecond)

	// size is not expiry-aware until the entries are read
	require.Equal(t, 2, c.Size())

	_, ok := c.Get("a")
	require.False(t, ok)
	require.Equal(t, 1, c.Size())
	require.ElementsMatch(t, []string{"b"}, c.Keys())

	require.False(t, c.Has("b"))
	require.Equal(t, 0, c.Size())
}

func TestTTLCache_ZeroTTL(t *testing.T) {
	c, mock := newMockCache[int](t, 0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	require.True(t, ok, "no time has elapsed")

	mock.Add(time.Nanosecond)
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestTTLCache_NegativeTTLClamped(t *testing.T) {
	c := NewTTLCache[string, int](-time.Second, Options{})
	require.Equal(t, time.Duration(0), c.TTL())
}

func TestTTLCache_Delete_Clear(t *testing.T) {
	c := NewTTLCache[int, int](time.Minute, Options{ConcurrencySafe: true})
	c.Set(1, 10)
	c.Set(2, 20)
	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Fatalf("expected key 1 to be deleted")
	}
	if v, ok := c.Get(2); !ok || v != 20 {
		t.Fatalf("expected key 2 to survive, got ok=%v v=%v", ok, v)
	}
	if c.Size() != 1 {
		t.Fatalf("expected Size=1, got %d", c.Size())
	}
	c.Delete(42)
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("expected Size=0 after Clear, got %d", c.Size())
	}
}

func TestTTLCache_UserScenario(t *testing.T) {
	c, mock := newMockCache[user](t, time.Second)
	c.Set("user:42", user{Name: "Ada"})

	v, ok := c.Get("user:42")
	require.True(t, ok)
	require.Equal(t, user{Name: "Ada"}, v)

	mock.Add(1001 * time.Millisecond)
	_, ok = c.Get("user:42")
	require.False(t, ok)
	require.Equal(t, 0, c.Size())
}

func TestTTLCache_PurgeExpired(t *testing.T) {
	c, mock := newMockCache[int](t, time.Second)
	c.Set("old1", 1)
	c.Set("old2", 2)
	mock.Add(600 * time.Millisecond)
	c.Set("fresh", 3)
	mock.Add(600 * time.Millisecond)

	require.Equal(t, 2, c.PurgeExpired())
	require.Equal(t, 1, c.Size())
	require.Equal(t, uint64(2), c.Stats().Expired)
	require.Equal(t, 0, c.PurgeExpired())
}

func TestTTLCache_Stats(t *testing.T) {
	c, mock := newMockCache[int](t, time.Second)
	c.Set("a", 1)
	c.Get("a")
	c.Get("b")
	mock.Add(2 * time.Second)
	c.Get("a")

	st := c.Stats()
	require.Equal(t, "test", st.Name)
	require.Equal(t, uint64(1), st.Hits)
	require.Equal(t, uint64(2), st.Misses)
	require.Equal(t, uint64(1), st.Expired)
	require.Equal(t, 0, st.Size)
	require.Equal(t, int64(1000), st.TTLMs)
}

type countingObserver struct {
	mu                  sync.Mutex
	hits, misses, evict int
}

func (o *countingObserver) Hit()   { o.mu.Lock(); o.hits++; o.mu.Unlock() }
func (o *countingObserver) Miss()  { o.mu.Lock(); o.misses++; o.mu.Unlock() }
func (o *countingObserver) Evict() { o.mu.Lock(); o.evict++; o.mu.Unlock() }

func TestTTLCache_Observer(t *testing.T) {
	obs := &countingObserver{}
	mock := clock.NewMock()
	c := NewTTLCache[string, int](time.Second, Options{Clock: mock, Observer: obs})

	c.Set("a", 1)
	c.Get("a")
	c.Get("nope")
	mock.Add(2 * time.Second)
	c.Get("a")

	require.Equal(t, 1, obs.hits)
	require.Equal(t, 2, obs.misses)
	require.Equal(t, 1, obs.evict)
}

func TestTTLCache_Janitor(t *testing.T) {
	c, mock := newMockCache[int](t, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := c.StartJanitor(ctx, 500*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	mock.Add(1500 * time.Millisecond)
	require.Eventually(t, func() bool { return c.Size() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop after cancel")
	}
}

func TestTTLCache_JanitorDisabled(t *testing.T) {
	c, _ := newMockCache[int](t, time.Second)
	done := c.StartJanitor(context.Background(), 0)
	select {
	case <-done:
	default:
		t.Fatalf("expected closed channel for disabled janitor")
	}
}

func TestTTLCache_ConcurrencySafe(t *testing.T) {
	keys := 50
	rounds := 200

	c := NewTTLCache[int, int](time.Minute, Options{ConcurrencySafe: true})
	var wg sync.WaitGroup
	for i := 0; i < keys; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				c.Set(i, r)
				_, _ = c.Get(i)
				if r%50 == 0 {
					c.PurgeExpired()
				}
			}
		}()
	}
	wg.Wait()
	for i := 0; i < keys; i++ {
		if v, ok := c.Get(i); !ok || v != rounds-1 {
			t.Fatalf("key %d: expected %d, got ok=%v v=%v", i, rounds-1, ok, v)
		}
	}
}
