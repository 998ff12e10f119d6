package store_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// newTestDB opens a per-test in-memory database with the schema applied.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Migrate(context.Background(), db))
	return db
}

func seedUser(t *testing.T, db *bun.DB, username string, role auth.UserRole) *store.User {
	t.Helper()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	user, err := store.NewUsers(db).Create(context.Background(), &store.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "User " + username,
		Email:        username + "@example.edu",
		Role:         role,
		Active:       true,
	})
	require.NoError(t, err)
	return user
}

func seedDevice(t *testing.T, db *bun.DB, uniqueID string) *store.Device {
	t.Helper()
	ctx := context.Background()

	meta := store.NewMetadata(db)
	dt, err := meta.CreateType(ctx, &store.DeviceType{Name: "Projector-" + uniqueID})
	require.NoError(t, err)
	brand, err := meta.CreateBrand(ctx, &store.DeviceBrand{Name: "Epson-" + uniqueID})
	require.NoError(t, err)

	device, err := store.NewDevices(db).Create(ctx, &store.Device{
		UniqueID: uniqueID,
		TypeID:   dt.ID,
		BrandID:  brand.ID,
		Model:    "EB-2250U",
		Active:   true,
	})
	require.NoError(t, err)
	return device
}

func seedRoom(t *testing.T, db *bun.DB, number string) *store.Room {
	t.Helper()

	room, err := store.NewRooms(db).Create(context.Background(), &store.Room{
		Number:   number,
		Name:     "Room " + number,
		Building: "Main",
	})
	require.NoError(t, err)
	return room
}
