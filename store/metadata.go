package store

import (
	"context"

	"github.com/uptrace/bun"
)

// InstallationTypeOption is one entry of the fixed installation-type enum the
// clients render in dropdowns.
type InstallationTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InstallationTypes lists the accepted installation types.
func InstallationTypes() []InstallationTypeOption {
	return []InstallationTypeOption{
		{Value: InstallTypeNew, Label: "New Installation"},
		{Value: InstallTypeRepaired, Label: "Repaired Device"},
		{Value: InstallTypeReinstall, Label: "Old Device Reinstall"},
	}
}

// Metadata manages the device type and brand lookup tables.
type Metadata struct {
	db *bun.DB
}

func NewMetadata(db *bun.DB) *Metadata {
	return &Metadata{db: db}
}

// ListTypes returns all device types ordered by name.
func (m *Metadata) ListTypes(ctx context.Context) ([]*DeviceType, error) {
	var types []*DeviceType
	err := m.db.NewSelect().Model(&types).
		Order("type_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list device types")
	}
	return types, nil
}

// ListBrands returns all device brands ordered by name.
func (m *Metadata) ListBrands(ctx context.Context) ([]*DeviceBrand, error) {
	var brands []*DeviceBrand
	err := m.db.NewSelect().Model(&brands).
		Order("brand_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list device brands")
	}
	return brands, nil
}

// CreateType inserts a device type.
func (m *Metadata) CreateType(ctx context.Context, t *DeviceType) (*DeviceType, error) {
	exists, err := m.db.NewSelect().Model((*DeviceType)(nil)).
		Where("type_name = ?", t.Name).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check device type")
	}
	if exists > 0 {
		return nil, conflict("device type already exists")
	}

	if _, err := m.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create device type")
	}
	return t, nil
}

// CreateBrand inserts a device brand.
func (m *Metadata) CreateBrand(ctx context.Context, b *DeviceBrand) (*DeviceBrand, error) {
	exists, err := m.db.NewSelect().Model((*DeviceBrand)(nil)).
		Where("brand_name = ?", b.Name).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check device brand")
	}
	if exists > 0 {
		return nil, conflict("brand already exists")
	}

	if _, err := m.db.NewInsert().Model(b).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create brand")
	}
	return b, nil
}
