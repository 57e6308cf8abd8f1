package handlers

import (
	"net/http"
	"testing"

	"agent-settings-api/internal/bulk"
	"agent-settings-api/internal/cache"
	"agent-settings-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCreateListDeleteAgent(t *testing.T) {
	env := newTestEnv(t)
	role := decode[models.Role](t, env.do(t, http.MethodPost, "/api/roles", map[string]string{"name": "Coder"}))

	w := env.do(t, http.MethodPost, "/api/agents", map[string]any{
		"name": "dev", "provider": "anthropic", "model": "claude", "roleId": role.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	agent := decode[models.Agent](t, w)

	w = env.do(t, http.MethodGet, "/api/agents?roleId="+role.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Agents []models.Agent `json:"agents"`
	}](t, w)
	require.Len(t, list.Agents, 1)

	w = env.do(t, http.MethodGet, "/api/agents/"+agent.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// role is bound, so it cannot be deleted yet
	require.Equal(t, http.StatusConflict, env.do(t, http.MethodDelete, "/api/roles/"+role.ID, nil).Code)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/agents/"+agent.ID, nil).Code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/agents/"+agent.ID, nil).Code)
}

func TestCreateAgent_UnknownRole(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/agents", map[string]any{
		"name": "dev", "provider": "openai", "model": "gpt-4o", "roleId": "nope",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateAgent_ValidationFields(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/agents", map[string]any{
		"name": "dev", "provider": "skynet", "model": "t800", "temperature": 3,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Fields []string `json:"fields"`
	}](t, w)
	require.Equal(t, []string{
		"provider must be one of [openai anthropic gemini ollama]",
		"temperature must be <= 2",
	}, body.Fields)
}

func TestImportAgents(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/agents/import", map[string]any{
		"agents": []map[string]any{
			{"name": "a", "provider": "openai", "model": "gpt-4o"},
			{"name": "b", "provider": "nope", "model": "x"},
		},
	})
	require.Equal(t, http.StatusMultiStatus, w.Code)
	res := decode[bulk.Result[models.Agent]](t, w)
	require.Equal(t, 2, res.TotalProcessed)
	require.Len(t, res.SuccessfulOperations, 1)
	require.Len(t, res.FailedOperations, 1)
}

func TestCacheStatsAndClear(t *testing.T) {
	env := newTestEnv(t)
	role := decode[models.Role](t, env.do(t, http.MethodPost, "/api/roles", map[string]string{"name": "Cached"}))
	env.do(t, http.MethodGet, "/api/roles/"+role.ID, nil)

	w := env.do(t, http.MethodGet, "/api/cache/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Caches []cache.Stats `json:"caches"`
	}](t, w)
	require.Len(t, stats.Caches, 4)
	require.Equal(t, "roles", stats.Caches[0].Name)
	require.Equal(t, uint64(1), stats.Caches[0].Hits)
	require.Equal(t, 1, stats.Caches[0].Size)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/cache", nil).Code)
	for _, ci := range env.handler.caches() {
		require.Equal(t, 0, ci.Stats().Size)
	}
}
