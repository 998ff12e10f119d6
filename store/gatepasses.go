package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// GatePasses manages removal documents and their device sets.
type GatePasses struct {
	db *bun.DB
}

func NewGatePasses(db *bun.DB) *GatePasses {
	return &GatePasses{db: db}
}

// List returns non-deleted gate passes with their device counts, newest first.
func (g *GatePasses) List(ctx context.Context) ([]*GatePass, error) {
	var passes []*GatePass
	err := g.db.NewSelect().Model(&passes).
		ColumnExpr("gp.*").
		ColumnExpr("(SELECT COUNT(*) FROM gate_pass_devices gpd WHERE gpd.gate_pass_id = gp.gate_pass_id) AS device_count").
		Order("gp.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list gate passes")
	}
	return passes, nil
}

// Get returns one gate pass with its devices resolved.
func (g *GatePasses) Get(ctx context.Context, id int64) (*GatePass, error) {
	pass := new(GatePass)
	err := g.db.NewSelect().Model(pass).
		Relation("Devices").
		Relation("Devices.Type").
		Relation("Devices.Brand").
		Where("gp.gate_pass_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("gate pass not found")
		}
		return nil, internal(err, "failed to query gate pass")
	}
	return pass, nil
}

// Create inserts the pass and its device links in one transaction. The pass
// number must be unique among live passes.
func (g *GatePasses) Create(ctx context.Context, pass *GatePass, deviceIDs []int64) (*GatePass, error) {
	exists, err := g.db.NewSelect().Model((*GatePass)(nil)).
		Where("gp.gate_pass_number = ?", pass.Number).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check gate pass number")
	}
	if exists > 0 {
		return nil, conflict("gate pass number already exists")
	}

	err = g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(pass).Exec(ctx); err != nil {
			return internal(err, "failed to create gate pass")
		}

		links := make([]*GatePassDevice, 0, len(deviceIDs))
		for _, deviceID := range deviceIDs {
			links = append(links, &GatePassDevice{GatePassID: pass.ID, DeviceID: deviceID})
		}
		if len(links) > 0 {
			if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
				return internal(err, "failed to attach devices to gate pass")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pass, nil
}

// SoftDelete marks the gate pass deleted; device links are kept for restore.
func (g *GatePasses) SoftDelete(ctx context.Context, id, deletedBy int64) error {
	res, err := g.db.NewUpdate().Model((*GatePass)(nil)).
		Set("deleted_at = ?", time.Now()).
		Set("deleted_by = ?", deletedBy).
		Where("gp.gate_pass_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete gate pass")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("gate pass not found")
	}
	return nil
}

// Restore brings a soft-deleted gate pass back.
func (g *GatePasses) Restore(ctx context.Context, id int64) error {
	res, err := g.db.NewUpdate().Model((*GatePass)(nil)).
		Set("deleted_at = NULL").
		Set("deleted_by = NULL").
		Where("gp.gate_pass_id = ?", id).
		Where("gp.deleted_at IS NOT NULL").
		WhereAllWithDeleted().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to restore gate pass")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("gate pass not found or not deleted")
	}
	return nil
}

// ListDeleted returns soft-deleted gate passes, newest deletions first.
func (g *GatePasses) ListDeleted(ctx context.Context) ([]*GatePass, error) {
	var passes []*GatePass
	err := g.db.NewSelect().Model(&passes).
		WhereAllWithDeleted().
		Where("gp.deleted_at IS NOT NULL").
		Order("gp.deleted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list deleted gate passes")
	}
	return passes, nil
}
