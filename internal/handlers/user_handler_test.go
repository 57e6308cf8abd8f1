package handlers

import (
	"net/http"
	"testing"

	"agent-settings-api/internal/database"
	"agent-settings-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestGetAllUsers(t *testing.T) {
	env := newTestEnv(t)

	// Seed some users
	require.NoError(t, database.GetDB().Create(&models.User{ID: "u-1", Username: "alice", Password: "x"}).Error)
	require.NoError(t, database.GetDB().Create(&models.User{ID: "u-2", Username: "bob", Password: "x"}).Error)

	w := env.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Users []UserResponse `json:"users"`
		Count int            `json:"count"`
	}](t, w)
	require.Equal(t, 2, body.Count)
	require.Equal(t, "alice", body.Users[0].Username)
}
