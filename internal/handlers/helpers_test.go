package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"agent-settings-api/internal/auth"
	"agent-settings-api/internal/cache"
	"agent-settings-api/internal/database"
	"agent-settings-api/internal/logging"
	"agent-settings-api/internal/metrics"
	"agent-settings-api/internal/middleware"
	"agent-settings-api/internal/models"
	"agent-settings-api/internal/realtime"
	"agent-settings-api/internal/repository"
	"agent-settings-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router  *gin.Engine
	handler *Handler
	hub     *realtime.Hub
	metrics *metrics.Metrics
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	opts := func(name string) cache.Options { return cache.Options{Name: name, ConcurrencySafe: true} }
	roles := repository.NewRoleRepository(db,
		cache.NewTTLCache[string, models.Role](time.Minute, opts("roles")),
		cache.NewTTLCache[string, []models.Role](time.Minute, opts("role_lists")))
	agents := repository.NewAgentRepository(db, roles,
		cache.NewTTLCache[string, models.Agent](time.Minute, opts("agents")),
		cache.NewTTLCache[string, []models.Agent](time.Minute, opts("agent_lists")))

	m := metrics.New()
	hub := realtime.NewHub()
	h := NewHandler(roles, agents, hub, m, logging.Discard())

	r := gin.New()
	r.POST("/api/login", Login)
	p := r.Group("/api")
	p.Use(middleware.JWTAuthMiddleware())
	p.GET("/roles", h.ListRoles)
	p.POST("/roles", h.CreateRole)
	p.POST("/roles/import", h.ImportRoles)
	p.POST("/roles/bulk-delete", h.BulkDeleteRoles)
	p.GET("/roles/:id", h.GetRole)
	p.PUT("/roles/:id", h.UpdateRole)
	p.DELETE("/roles/:id", h.DeleteRole)
	p.GET("/agents", h.ListAgents)
	p.POST("/agents", h.CreateAgent)
	p.POST("/agents/import", h.ImportAgents)
	p.GET("/agents/:id", h.GetAgent)
	p.DELETE("/agents/:id", h.DeleteAgent)
	p.GET("/cache/stats", h.CacheStats)
	p.DELETE("/cache", h.ClearCaches)
	p.GET("/users", GetAllUsers)

	token, err := auth.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	return &testEnv{router: r, handler: h, hub: hub, metrics: m, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type recordingClient struct {
	msgs [][]byte
}

func (c *recordingClient) Send(message []byte) bool {
	c.msgs = append(c.msgs, message)
	return true
}

func (c *recordingClient) Close() {}
