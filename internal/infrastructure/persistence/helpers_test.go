package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func createTestUser(t *testing.T, db *gorm.DB, name, username string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(name, username, "password123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func createTestLead(t *testing.T, db *gorm.DB, name, phone string) *lead.Lead {
	t.Helper()
	l, err := lead.NewLead(lead.Contact{Name: name, Phone: phone})
	require.NoError(t, err)
	require.NoError(t, NewGormLeadRepository(db).Save(context.Background(), l))
	return l
}

func int64Ptr(v int64) *int64 {
	return &v
}
