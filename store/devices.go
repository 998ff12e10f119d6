package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// DeviceFilter narrows device listings. Zero values mean "no constraint".
type DeviceFilter struct {
	DeviceID int64
	UniqueID string // substring match
	TypeID   int64
	BrandID  int64
	RoomID   int64 // devices currently installed in this room
}

// Devices reads and writes the asset inventory.
type Devices struct {
	db *bun.DB
}

func NewDevices(db *bun.DB) *Devices {
	return &Devices{db: db}
}

// List returns non-deleted devices matching the filter with their type and
// brand resolved, ordered by unique id.
func (d *Devices) List(ctx context.Context, filter DeviceFilter) ([]*Device, error) {
	var devices []*Device
	q := d.db.NewSelect().Model(&devices).
		Relation("Type").
		Relation("Brand").
		Order("d.device_unique_id ASC")

	if filter.DeviceID > 0 {
		q = q.Where("d.device_id = ?", filter.DeviceID)
	}
	if filter.UniqueID != "" {
		q = q.Where("d.device_unique_id LIKE ?", "%"+filter.UniqueID+"%")
	}
	if filter.TypeID > 0 {
		q = q.Where("d.type_id = ?", filter.TypeID)
	}
	if filter.BrandID > 0 {
		q = q.Where("d.brand_id = ?", filter.BrandID)
	}
	if filter.RoomID > 0 {
		q = q.Where("d.device_id IN (SELECT device_id FROM device_installations WHERE room_id = ? AND status = ? AND deleted_at IS NULL)",
			filter.RoomID, InstallationActive)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, internal(err, "failed to list devices")
	}
	return devices, nil
}

// GetByID returns a non-deleted device with relations.
func (d *Devices) GetByID(ctx context.Context, id int64) (*Device, error) {
	device := new(Device)
	err := d.db.NewSelect().Model(device).
		Relation("Type").
		Relation("Brand").
		Where("d.device_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("device not found")
		}
		return nil, internal(err, "failed to query device")
	}
	return device, nil
}

// Create inserts a device; the unique id must not be in use by any device,
// deleted ones included.
func (d *Devices) Create(ctx context.Context, device *Device) (*Device, error) {
	exists, err := d.db.NewSelect().Model((*Device)(nil)).
		WhereAllWithDeleted().
		Where("d.device_unique_id = ?", device.UniqueID).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check device unique id")
	}
	if exists > 0 {
		return nil, conflict("device with this unique ID already exists")
	}

	if _, err := d.db.NewInsert().Model(device).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create device")
	}
	return device, nil
}

// Update overwrites the editable columns of an existing device.
func (d *Devices) Update(ctx context.Context, device *Device) error {
	device.UpdatedAt = time.Now()

	res, err := d.db.NewUpdate().Model(device).
		Column("device_unique_id", "type_id", "brand_id", "model", "serial_number",
			"purchase_date", "warranty_period", "notes", "is_active", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to update device")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("device not found")
	}
	return nil
}

// SoftDelete marks the device deleted. Devices with an active installation
// must be withdrawn first.
func (d *Devices) SoftDelete(ctx context.Context, id, deletedBy int64) error {
	active, err := d.db.NewSelect().Model((*Installation)(nil)).
		Where("di.device_id = ?", id).
		Where("di.status = ?", InstallationActive).
		Count(ctx)
	if err != nil {
		return internal(err, "failed to check installations")
	}
	if active > 0 {
		return conflict("cannot delete device with active installations, withdraw it first")
	}

	now := time.Now()
	res, err := d.db.NewUpdate().Model((*Device)(nil)).
		Set("deleted_at = ?", now).
		Set("deleted_by = ?", deletedBy).
		Where("d.device_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete device")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("device not found")
	}
	return nil
}

// Restore clears the soft-delete markers of a deleted device.
func (d *Devices) Restore(ctx context.Context, id int64) error {
	res, err := d.db.NewUpdate().Model((*Device)(nil)).
		Set("deleted_at = NULL").
		Set("deleted_by = NULL").
		Where("d.device_id = ?", id).
		Where("d.deleted_at IS NOT NULL").
		WhereAllWithDeleted().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to restore device")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("device not found or not deleted")
	}
	return nil
}

// ListDeleted returns soft-deleted devices, newest deletions first.
func (d *Devices) ListDeleted(ctx context.Context) ([]*Device, error) {
	var devices []*Device
	err := d.db.NewSelect().Model(&devices).
		Relation("Type").
		Relation("Brand").
		WhereAllWithDeleted().
		Where("d.deleted_at IS NOT NULL").
		Order("d.deleted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list deleted devices")
	}
	return devices, nil
}

// PurgeDeleted permanently removes a soft-deleted device and its installation
// history in one transaction.
func (d *Devices) PurgeDeleted(ctx context.Context, id int64) error {
	return d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*Installation)(nil)).
			WhereAllWithDeleted().
			Where("di.device_id = ?", id).
			Exec(ctx); err != nil {
			return internal(err, "failed to purge installations")
		}

		res, err := tx.NewDelete().Model((*Device)(nil)).
			WhereAllWithDeleted().
			Where("d.device_id = ?", id).
			Where("d.deleted_at IS NOT NULL").
			Exec(ctx)
		if err != nil {
			return internal(err, "failed to purge device")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound("device not found or not deleted")
		}
		return nil
	})
}
