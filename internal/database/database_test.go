package database

import (
	"path/filepath"
	"testing"

	"agent-settings-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestInitDB_MigratesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	require.NoError(t, InitDB(path))
	t.Cleanup(func() {
		if sqlDB, err := GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	db := GetDB()
	require.True(t, db.Migrator().HasTable(&models.User{}))
	require.True(t, db.Migrator().HasTable(&models.Role{}))
	require.True(t, db.Migrator().HasTable(&models.Agent{}))
}
