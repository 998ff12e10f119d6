package store_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_FindActiveByUsername(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db)
	ctx := context.Background()

	seedUser(t, db, "alice", auth.RoleAdmin)

	t.Run("active user resolves", func(t *testing.T) {
		record, err := users.FindActiveByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "alice", record.Username)
		assert.Equal(t, auth.RoleAdmin, record.Role)
		assert.NotEmpty(t, record.PasswordHash)
	})

	t.Run("unknown username resolves to nil", func(t *testing.T) {
		record, err := users.FindActiveByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("inactive user resolves to nil", func(t *testing.T) {
		bob := seedUser(t, db, "bob", auth.RoleViewer)
		_, err := db.NewUpdate().Model(bob).
			Set("is_active = ?", false).
			WherePK().
			Exec(ctx)
		require.NoError(t, err)

		record, err := users.FindActiveByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestUsers_Create_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db)

	seedUser(t, db, "alice", auth.RoleAdmin)

	_, err := users.Create(context.Background(), &store.User{
		Username:     "alice",
		PasswordHash: "x",
		FullName:     "Other Alice",
		Role:         auth.RoleViewer,
		Active:       true,
	})
	require.Error(t, err)

	var rich *errors.Error
	require.ErrorAs(t, err, &rich)
	assert.Equal(t, errors.CategoryConflict, rich.Category)
}

func TestBootstrapAdmin(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db)
	ctx := context.Background()

	t.Run("creates the first admin", func(t *testing.T) {
		require.NoError(t, store.BootstrapAdmin(ctx, users, "admin", "changeme", nil))

		record, err := users.FindActiveByUsername(ctx, "admin")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, auth.RoleAdmin, record.Role)
		assert.NoError(t, auth.ComparePasswordAndHash("changeme", record.PasswordHash))
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		require.NoError(t, store.BootstrapAdmin(ctx, users, "admin", "changeme", nil))

		count, err := db.NewSelect().Model((*store.User)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("empty credentials disable bootstrap", func(t *testing.T) {
		require.NoError(t, store.BootstrapAdmin(ctx, users, "", "", nil))
	})
}
