package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// InstallationFilter narrows installation listings.
type InstallationFilter struct {
	DeviceID int64
	RoomID   int64
	Status   string
	Type     string
}

// Withdrawal carries the fields recorded when a device leaves a room.
type Withdrawal struct {
	InstallationID    int64
	WithdrawnDate     string
	WithdrawerName    string
	WithdrawalNotes   string
	IssueAtWithdrawal string
	StorageLocation   string
	WithdrawnBy       int64
}

// Installations tracks device placements and removals.
type Installations struct {
	db *bun.DB
}

func NewInstallations(db *bun.DB) *Installations {
	return &Installations{db: db}
}

// List returns non-deleted installations matching the filter with device and
// room resolved, newest installs first.
func (i *Installations) List(ctx context.Context, filter InstallationFilter) ([]*Installation, error) {
	var rows []*Installation
	q := i.db.NewSelect().Model(&rows).
		Relation("Device").
		Relation("Device.Type").
		Relation("Device.Brand").
		Relation("Room").
		Order("di.installed_date DESC")

	if filter.DeviceID > 0 {
		q = q.Where("di.device_id = ?", filter.DeviceID)
	}
	if filter.RoomID > 0 {
		q = q.Where("di.room_id = ?", filter.RoomID)
	}
	if filter.Status != "" {
		q = q.Where("di.status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("di.installation_type = ?", filter.Type)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, internal(err, "failed to list installations")
	}
	return rows, nil
}

// HistoryForDevice returns every non-deleted stay of the device, newest first.
func (i *Installations) HistoryForDevice(ctx context.Context, deviceID int64) ([]*Installation, error) {
	var rows []*Installation
	err := i.db.NewSelect().Model(&rows).
		Relation("Room").
		Where("di.device_id = ?", deviceID).
		Order("di.installed_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to query device history")
	}
	return rows, nil
}

// Install places a device into a room. A device with an active installation
// has to be withdrawn before it can be installed again.
func (i *Installations) Install(ctx context.Context, inst *Installation) (*Installation, error) {
	active, err := i.db.NewSelect().Model((*Installation)(nil)).
		Where("di.device_id = ?", inst.DeviceID).
		Where("di.status = ?", InstallationActive).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check active installations")
	}
	if active > 0 {
		return nil, conflict("device already has an active installation, withdraw it first")
	}

	inst.Status = InstallationActive
	if _, err := i.db.NewInsert().Model(inst).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create installation")
	}
	return inst, nil
}

// Withdraw closes an active installation.
func (i *Installations) Withdraw(ctx context.Context, w Withdrawal) error {
	res, err := i.db.NewUpdate().Model((*Installation)(nil)).
		Set("withdrawn_date = ?", w.WithdrawnDate).
		Set("withdrawn_by = ?", w.WithdrawnBy).
		Set("withdrawer_name = ?", w.WithdrawerName).
		Set("withdrawal_notes = ?", w.WithdrawalNotes).
		Set("issue_at_withdrawal = ?", w.IssueAtWithdrawal).
		Set("storage_location = ?", w.StorageLocation).
		Set("data_entry_by = ?", w.WithdrawnBy).
		Set("status = ?", InstallationWithdrawn).
		Where("di.installation_id = ?", w.InstallationID).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to withdraw installation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("installation not found")
	}
	return nil
}

// GetByID returns a non-deleted installation.
func (i *Installations) GetByID(ctx context.Context, id int64) (*Installation, error) {
	inst := new(Installation)
	err := i.db.NewSelect().Model(inst).
		Where("di.installation_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("installation not found")
		}
		return nil, internal(err, "failed to query installation")
	}
	return inst, nil
}

// SoftDelete marks the installation record deleted.
func (i *Installations) SoftDelete(ctx context.Context, id, deletedBy int64) error {
	res, err := i.db.NewUpdate().Model((*Installation)(nil)).
		Set("deleted_at = ?", time.Now()).
		Set("deleted_by = ?", deletedBy).
		Where("di.installation_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete installation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("installation not found")
	}
	return nil
}
