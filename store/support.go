package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// SupportRecordFilter narrows support-record listings.
type SupportRecordFilter struct {
	MemberID  int64
	Location  string // substring match
	DateFrom  string
	DateTo    string
	Status    string
	IssueType string
}

// Support manages the support team roster and classroom support records.
type Support struct {
	db *bun.DB
}

func NewSupport(db *bun.DB) *Support {
	return &Support{db: db}
}

// ListMembers returns team members ordered by name. When activeOnly is set,
// inactive members are filtered out.
func (s *Support) ListMembers(ctx context.Context, activeOnly bool) ([]*SupportMember, error) {
	var members []*SupportMember
	q := s.db.NewSelect().Model(&members).
		Order("member_name ASC")
	if activeOnly {
		q = q.Where("stm.is_active = ?", true)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, internal(err, "failed to list support members")
	}
	return members, nil
}

// CreateMember adds a team member.
func (s *Support) CreateMember(ctx context.Context, m *SupportMember) (*SupportMember, error) {
	if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create support member")
	}
	return m, nil
}

// UpdateMember overwrites the editable columns of a team member.
func (s *Support) UpdateMember(ctx context.Context, m *SupportMember) error {
	res, err := s.db.NewUpdate().Model(m).
		Column("member_name", "member_email", "member_phone", "department", "user_id", "is_active").
		WherePK().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to update support member")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("support member not found")
	}
	return nil
}

// DeleteMember removes a team member. Members referenced by support records
// cannot be deleted; deactivate them instead.
func (s *Support) DeleteMember(ctx context.Context, id int64) error {
	referenced, err := s.db.NewSelect().Model((*SupportRecord)(nil)).
		Where("csr.member_id = ?", id).
		Count(ctx)
	if err != nil {
		return internal(err, "failed to check support records")
	}
	if referenced > 0 {
		return conflict("cannot delete member with existing support records, set to inactive instead")
	}

	res, err := s.db.NewDelete().Model((*SupportMember)(nil)).
		Where("stm.member_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete support member")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("support member not found")
	}
	return nil
}

// ListRecords returns non-deleted support records matching the filter, newest
// visit first.
func (s *Support) ListRecords(ctx context.Context, filter SupportRecordFilter) ([]*SupportRecord, error) {
	var records []*SupportRecord
	q := s.db.NewSelect().Model(&records).
		Relation("Member").
		Relation("Room").
		Order("csr.support_date DESC", "csr.support_time DESC")

	if filter.MemberID > 0 {
		q = q.Where("csr.member_id = ?", filter.MemberID)
	}
	if filter.Location != "" {
		q = q.Where("csr.location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.DateFrom != "" {
		q = q.Where("csr.support_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("csr.support_date <= ?", filter.DateTo)
	}
	if filter.Status != "" {
		q = q.Where("csr.status = ?", filter.Status)
	}
	if filter.IssueType != "" {
		q = q.Where("csr.issue_type = ?", filter.IssueType)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, internal(err, "failed to list support records")
	}
	return records, nil
}

// GetRecord returns a non-deleted support record.
func (s *Support) GetRecord(ctx context.Context, id int64) (*SupportRecord, error) {
	record := new(SupportRecord)
	err := s.db.NewSelect().Model(record).
		Where("csr.support_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("support record not found")
		}
		return nil, internal(err, "failed to query support record")
	}
	return record, nil
}

// CreateRecord adds a support visit.
func (s *Support) CreateRecord(ctx context.Context, r *SupportRecord) (*SupportRecord, error) {
	if _, err := s.db.NewInsert().Model(r).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create support record")
	}
	return r, nil
}

// UpdateRecord overwrites the editable columns of a support record. Ownership
// is the caller's concern.
func (s *Support) UpdateRecord(ctx context.Context, r *SupportRecord) error {
	r.UpdatedAt = time.Now()

	res, err := s.db.NewUpdate().Model(r).
		Column("member_id", "support_date", "support_time", "location", "room_id",
			"support_description", "issue_type", "priority", "status", "devices_involved",
			"duration_minutes", "faculty_name", "notes", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to update support record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("support record not found")
	}
	return nil
}

// SoftDeleteRecord marks a support record deleted.
func (s *Support) SoftDeleteRecord(ctx context.Context, id, deletedBy int64) error {
	res, err := s.db.NewUpdate().Model((*SupportRecord)(nil)).
		Set("deleted_at = ?", time.Now()).
		Set("deleted_by = ?", deletedBy).
		Where("csr.support_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete support record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("support record not found")
	}
	return nil
}
