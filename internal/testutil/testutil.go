// Package testutil provides shared fixtures for package tests: migrated
// in-memory databases, deterministic ids, event recorders and HTTP helpers.
package testutil

import (
	"testing"

	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens a migrated in-memory database on a single connection.
// Every call returns an isolated database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.AutoMigrate(db), "Failed to migrate sqlite")
	return db
}

// NewTestUUID generates a deterministic UUID from a seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID returns a standard store id for tests.
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID returns a standard actor id for tests.
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}
