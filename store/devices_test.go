package store_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/icetlab/assettrack/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCategory(t *testing.T, err error, category any) {
	t.Helper()

	var rich *errors.Error
	require.ErrorAs(t, err, &rich)
	assert.Equal(t, category, rich.Category)
}

func TestDevices_Create_DuplicateUniqueID(t *testing.T) {
	db := newTestDB(t)
	devices := store.NewDevices(db)

	existing := seedDevice(t, db, "PRJ-001")

	_, err := devices.Create(context.Background(), &store.Device{
		UniqueID: "PRJ-001",
		TypeID:   existing.TypeID,
		BrandID:  existing.BrandID,
		Active:   true,
	})
	requireCategory(t, err, errors.CategoryConflict)
}

func TestDevices_List_Filters(t *testing.T) {
	db := newTestDB(t)
	devices := store.NewDevices(db)
	ctx := context.Background()

	prj := seedDevice(t, db, "PRJ-001")
	seedDevice(t, db, "PC-042")

	t.Run("unfiltered returns everything with relations", func(t *testing.T) {
		list, err := devices.List(ctx, store.DeviceFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		// ordered by unique id
		assert.Equal(t, "PC-042", list[0].UniqueID)
		assert.Equal(t, "PRJ-001", list[1].UniqueID)
		require.NotNil(t, list[1].Type)
		require.NotNil(t, list[1].Brand)
	})

	t.Run("unique id substring", func(t *testing.T) {
		list, err := devices.List(ctx, store.DeviceFilter{UniqueID: "PRJ"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, prj.ID, list[0].ID)
	})

	t.Run("by type", func(t *testing.T) {
		list, err := devices.List(ctx, store.DeviceFilter{TypeID: prj.TypeID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, prj.ID, list[0].ID)
	})

	t.Run("by current room", func(t *testing.T) {
		room := seedRoom(t, db, "B-101")
		_, err := store.NewInstallations(db).Install(ctx, &store.Installation{
			DeviceID:      prj.ID,
			RoomID:        room.ID,
			InstalledDate: "2026-01-10",
		})
		require.NoError(t, err)

		list, err := devices.List(ctx, store.DeviceFilter{RoomID: room.ID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, prj.ID, list[0].ID)
	})
}

func TestDevices_SoftDeleteAndRestore(t *testing.T) {
	db := newTestDB(t)
	devices := store.NewDevices(db)
	installations := store.NewInstallations(db)
	ctx := context.Background()

	device := seedDevice(t, db, "PRJ-001")
	room := seedRoom(t, db, "B-101")

	t.Run("blocked while an installation is active", func(t *testing.T) {
		_, err := installations.Install(ctx, &store.Installation{
			DeviceID:      device.ID,
			RoomID:        room.ID,
			InstalledDate: "2026-01-10",
		})
		require.NoError(t, err)

		err = devices.SoftDelete(ctx, device.ID, 1)
		requireCategory(t, err, errors.CategoryConflict)
	})

	t.Run("allowed after withdrawal", func(t *testing.T) {
		list, err := installations.List(ctx, store.InstallationFilter{DeviceID: device.ID})
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, installations.Withdraw(ctx, store.Withdrawal{
			InstallationID: list[0].ID,
			WithdrawnDate:  "2026-02-01",
			WithdrawnBy:    1,
		}))

		require.NoError(t, devices.SoftDelete(ctx, device.ID, 1))

		live, err := devices.List(ctx, store.DeviceFilter{})
		require.NoError(t, err)
		assert.Empty(t, live)

		deleted, err := devices.ListDeleted(ctx)
		require.NoError(t, err)
		require.Len(t, deleted, 1)
		assert.Equal(t, device.ID, deleted[0].ID)
	})

	t.Run("restore brings it back", func(t *testing.T) {
		require.NoError(t, devices.Restore(ctx, device.ID))

		live, err := devices.List(ctx, store.DeviceFilter{})
		require.NoError(t, err)
		require.Len(t, live, 1)

		deleted, err := devices.ListDeleted(ctx)
		require.NoError(t, err)
		assert.Empty(t, deleted)
	})

	t.Run("restoring a live device is not found", func(t *testing.T) {
		err := devices.Restore(ctx, device.ID)
		requireCategory(t, err, errors.CategoryNotFound)
	})
}

func TestInstallations_InstallWithdrawHistory(t *testing.T) {
	db := newTestDB(t)
	installations := store.NewInstallations(db)
	ctx := context.Background()

	device := seedDevice(t, db, "PRJ-001")
	roomA := seedRoom(t, db, "B-101")
	roomB := seedRoom(t, db, "B-202")

	first, err := installations.Install(ctx, &store.Installation{
		DeviceID:         device.ID,
		RoomID:           roomA.ID,
		InstalledDate:    "2026-01-10",
		InstallationType: store.InstallTypeNew,
	})
	require.NoError(t, err)
	assert.Equal(t, store.InstallationActive, first.Status)

	t.Run("second install while active conflicts", func(t *testing.T) {
		_, err := installations.Install(ctx, &store.Installation{
			DeviceID:      device.ID,
			RoomID:        roomB.ID,
			InstalledDate: "2026-01-20",
		})
		requireCategory(t, err, errors.CategoryConflict)
	})

	t.Run("withdraw then reinstall elsewhere", func(t *testing.T) {
		require.NoError(t, installations.Withdraw(ctx, store.Withdrawal{
			InstallationID:  first.ID,
			WithdrawnDate:   "2026-02-01",
			WithdrawalNotes: "lamp failure",
			WithdrawnBy:     1,
		}))

		got, err := installations.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, store.InstallationWithdrawn, got.Status)
		assert.Equal(t, "2026-02-01", got.WithdrawnDate)

		_, err = installations.Install(ctx, &store.Installation{
			DeviceID:         device.ID,
			RoomID:           roomB.ID,
			InstalledDate:    "2026-02-05",
			InstallationType: store.InstallTypeReinstall,
		})
		require.NoError(t, err)
	})

	t.Run("history lists both stays newest first", func(t *testing.T) {
		history, err := installations.HistoryForDevice(ctx, device.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "2026-02-05", history[0].InstalledDate)
		assert.Equal(t, "2026-01-10", history[1].InstalledDate)
		require.NotNil(t, history[0].Room)
		assert.Equal(t, roomB.ID, history[0].Room.ID)
	})

	t.Run("room listing counts active devices", func(t *testing.T) {
		rooms, err := store.NewRooms(db).List(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		// ordered by room number: B-101 then B-202
		assert.Equal(t, 0, rooms[0].DeviceCount)
		assert.Equal(t, 1, rooms[1].DeviceCount)
	})
}
