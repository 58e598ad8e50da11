package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedUser inserts a user and returns it
func seedUser(t *testing.T, db *DB, id string) *model.User {
	t.Helper()
	u := &model.User{
		ID:           id,
		Name:         id,
		Username:     id,
		Email:        id + "@example.com",
		Role:         model.UserRoleUser,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"users",
		"teams",
		"team_members",
		"team_invitations",
		"projects",
		"tasks",
		"notifications",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Running twice is harmless
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestUserRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "neema")

	got, err := repo.GetByEmail(ctx, "neema@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, model.UserRoleUser, got.Role)

	got, err = repo.GetByUsername(ctx, "neema")
	require.NoError(t, err)
	require.Equal(t, "hash", got.PasswordHash)

	dup := *u
	dup.ID = "other"
	err = repo.Create(ctx, &dup)
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
