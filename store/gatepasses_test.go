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

func TestGatePasses_CreateWithDevices(t *testing.T) {
	db := newTestDB(t)
	passes := store.NewGatePasses(db)
	ctx := context.Background()

	creator := seedUser(t, db, "alice", auth.RoleAdmin)
	prj := seedDevice(t, db, "PRJ-001")
	pc := seedDevice(t, db, "PC-042")

	pass, err := passes.Create(ctx, &store.GatePass{
		Number:        "GP-2026-001",
		Date:          "2026-03-01",
		ConsigneeName: "Central Repair",
		Destination:   "Service Center",
		CarrierName:   "K. Perera",
		Status:        "active",
		CreatedBy:     creator.ID,
	}, []int64{prj.ID, pc.ID})
	require.NoError(t, err)
	require.NotZero(t, pass.ID)

	t.Run("get resolves the device set", func(t *testing.T) {
		got, err := passes.Get(ctx, pass.ID)
		require.NoError(t, err)
		assert.Equal(t, "GP-2026-001", got.Number)
		require.Len(t, got.Devices, 2)
	})

	t.Run("list carries device counts", func(t *testing.T) {
		list, err := passes.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 2, list[0].DeviceCount)
	})

	t.Run("duplicate number conflicts", func(t *testing.T) {
		_, err := passes.Create(ctx, &store.GatePass{
			Number:        "GP-2026-001",
			Date:          "2026-03-02",
			ConsigneeName: "Elsewhere",
			Destination:   "Elsewhere",
			CarrierName:   "Nobody",
		}, nil)
		requireCategory(t, err, errors.CategoryConflict)
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		require.NoError(t, passes.SoftDelete(ctx, pass.ID, creator.ID))

		list, err := passes.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		deleted, err := passes.ListDeleted(ctx)
		require.NoError(t, err)
		require.Len(t, deleted, 1)

		require.NoError(t, passes.Restore(ctx, pass.ID))

		got, err := passes.Get(ctx, pass.ID)
		require.NoError(t, err)
		require.Len(t, got.Devices, 2)
	})
}

func TestSupport_MemberLifecycle(t *testing.T) {
	db := newTestDB(t)
	support := store.NewSupport(db)
	ctx := context.Background()

	admin := seedUser(t, db, "alice", auth.RoleAdmin)

	member, err := support.CreateMember(ctx, &store.SupportMember{
		Name:       "N. Silva",
		Department: "AV",
		Active:     true,
		CreatedBy:  admin.ID,
	})
	require.NoError(t, err)

	record, err := support.CreateRecord(ctx, &store.SupportRecord{
		MemberID:    member.ID,
		SupportDate: "2026-03-10",
		SupportTime: "09:30",
		Location:    "B-101",
		Description: "Projector alignment",
		Status:      "completed",
		CreatedBy:   admin.ID,
	})
	require.NoError(t, err)

	t.Run("member with records cannot be deleted", func(t *testing.T) {
		err := support.DeleteMember(ctx, member.ID)
		requireCategory(t, err, errors.CategoryConflict)
	})

	t.Run("record filters", func(t *testing.T) {
		records, err := support.ListRecords(ctx, store.SupportRecordFilter{
			MemberID: member.ID,
			DateFrom: "2026-03-01",
			DateTo:   "2026-03-31",
			Status:   "completed",
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].Member)
		assert.Equal(t, "N. Silva", records[0].Member.Name)

		none, err := support.ListRecords(ctx, store.SupportRecordFilter{Location: "library"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("deleting the record frees the member", func(t *testing.T) {
		require.NoError(t, support.SoftDeleteRecord(ctx, record.ID, admin.ID))
		require.NoError(t, support.DeleteMember(ctx, member.ID))

		members, err := support.ListMembers(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, members)
	})
}

func TestAuditLogs_RecordAndRecent(t *testing.T) {
	db := newTestDB(t)
	audit := store.NewAuditLogs(db)
	ctx := context.Background()

	require.NoError(t, audit.Record(ctx, auth.AuditEntry{
		UserID:    7,
		Action:    auth.AuditActionLogin,
		TableName: "users",
		RecordID:  7,
		IPAddress: "10.0.0.5",
	}))
	require.NoError(t, audit.RecordChange(ctx, auth.AuditEntry{
		UserID:    7,
		Action:    auth.AuditActionUpdate,
		TableName: "devices",
		RecordID:  3,
	}, `{"model":"old"}`, `{"model":"new"}`))

	recent, err := audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// newest first
	assert.Equal(t, auth.AuditActionUpdate, recent[0].Action)
	assert.Equal(t, `{"model":"new"}`, recent[0].NewValues)
	assert.Equal(t, auth.AuditActionLogin, recent[1].Action)
}
