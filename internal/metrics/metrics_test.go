package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agent-settings-api/internal/cache"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCacheObserver_CountsTraffic(t *testing.T) {
	m := New()
	mock := clock.NewMock()
	c := cache.NewTTLCache[string, int](time.Second, cache.Options{
		Name:     "roles",
		Clock:    mock,
		Observer: m.CacheObserver("roles"),
	})

	c.Set("a", 1)
	c.Get("a")
	c.Get("b")
	mock.Add(2 * time.Second)
	c.Get("a")

	require.Equal(t, 1.0, testutil.ToFloat64(m.CacheOps.WithLabelValues("roles", "hit")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.CacheOps.WithLabelValues("roles", "miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CacheOps.WithLabelValues("roles", "evict")))
}

func TestRecordBulk(t *testing.T) {
	m := New()
	m.RecordBulk("roles_import", 8, 2)
	m.RecordBulk("roles_import", 1, 0)

	require.Equal(t, 9.0, testutil.ToFloat64(m.BulkItems.WithLabelValues("roles_import", "success")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.BulkItems.WithLabelValues("roles_import", "failure")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New()
	m.RecordBulk("agents_import", 1, 1)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), `bulk_items_total{operation="agents_import",outcome="failure"} 1`))
}
