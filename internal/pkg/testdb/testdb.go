// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"testing"

	"rocktalk-be/internal/model"
	"rocktalk-be/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
		Silent: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
