package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Rooms reads and writes room rows.
type Rooms struct {
	db *bun.DB
}

func NewRooms(db *bun.DB) *Rooms {
	return &Rooms{db: db}
}

// List returns active rooms ordered by number, each carrying the count of
// devices currently installed in it.
func (r *Rooms) List(ctx context.Context) ([]*Room, error) {
	var rooms []*Room
	err := r.db.NewSelect().Model(&rooms).
		ColumnExpr("r.*").
		ColumnExpr("(SELECT COUNT(*) FROM device_installations di WHERE di.room_id = r.room_id AND di.status = ? AND di.deleted_at IS NULL) AS device_count",
			InstallationActive).
		Order("room_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list rooms")
	}
	return rooms, nil
}

// GetByID returns an active room.
func (r *Rooms) GetByID(ctx context.Context, id int64) (*Room, error) {
	room := new(Room)
	err := r.db.NewSelect().Model(room).
		Where("r.room_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("room not found")
		}
		return nil, internal(err, "failed to query room")
	}
	return room, nil
}

// Create inserts a room; room numbers are unique across live and deleted rooms.
func (r *Rooms) Create(ctx context.Context, room *Room) (*Room, error) {
	exists, err := r.db.NewSelect().Model((*Room)(nil)).
		WhereAllWithDeleted().
		Where("r.room_number = ?", room.Number).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check room number")
	}
	if exists > 0 {
		return nil, conflict("room with this number already exists")
	}

	if _, err := r.db.NewInsert().Model(room).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create room")
	}
	return room, nil
}

// Update overwrites the editable columns; the new number must not belong to
// another room.
func (r *Rooms) Update(ctx context.Context, room *Room) error {
	taken, err := r.db.NewSelect().Model((*Room)(nil)).
		WhereAllWithDeleted().
		Where("r.room_number = ?", room.Number).
		Where("r.room_id != ?", room.ID).
		Count(ctx)
	if err != nil {
		return internal(err, "failed to check room number")
	}
	if taken > 0 {
		return conflict("room with this number already exists")
	}

	room.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().Model(room).
		Column("room_number", "room_name", "building", "floor", "capacity", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to update room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("room not found")
	}
	return nil
}

// SoftDelete marks the room deleted. Rooms holding active installations must
// be emptied first.
func (r *Rooms) SoftDelete(ctx context.Context, id int64) error {
	active, err := r.db.NewSelect().Model((*Installation)(nil)).
		Where("di.room_id = ?", id).
		Where("di.status = ?", InstallationActive).
		Count(ctx)
	if err != nil {
		return internal(err, "failed to check installations")
	}
	if active > 0 {
		return conflict("cannot delete room with active installations, withdraw all devices first")
	}

	res, err := r.db.NewUpdate().Model((*Room)(nil)).
		Set("deleted_at = ?", time.Now()).
		Where("r.room_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("room not found")
	}
	return nil
}

// Restore brings a soft-deleted room back.
func (r *Rooms) Restore(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().Model((*Room)(nil)).
		Set("deleted_at = NULL").
		Where("r.room_id = ?", id).
		Where("r.deleted_at IS NOT NULL").
		WhereAllWithDeleted().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to restore room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("room not found or not deleted")
	}
	return nil
}

// ListDeleted returns soft-deleted rooms, newest deletions first.
func (r *Rooms) ListDeleted(ctx context.Context) ([]*Room, error) {
	var rooms []*Room
	err := r.db.NewSelect().Model(&rooms).
		WhereAllWithDeleted().
		Where("r.deleted_at IS NOT NULL").
		Order("r.deleted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list deleted rooms")
	}
	return rooms, nil
}

// PurgeDeleted permanently removes a soft-deleted room.
func (r *Rooms) PurgeDeleted(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*Room)(nil)).
		WhereAllWithDeleted().
		Where("r.room_id = ?", id).
		Where("r.deleted_at IS NOT NULL").
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to purge room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("room not found or not deleted")
	}
	return nil
}
