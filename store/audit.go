package store

import (
	"context"
	"time"

	"github.com/icetlab/assettrack/auth"
	"github.com/uptrace/bun"
)

// AuditLogs persists the audit trail. It satisfies auth.AuditRecorder so the
// login flow and the handlers share one sink.
type AuditLogs struct {
	db *bun.DB
}

func NewAuditLogs(db *bun.DB) *AuditLogs {
	return &AuditLogs{db: db}
}

var _ auth.AuditRecorder = (*AuditLogs)(nil)

// Record implements auth.AuditRecorder.
func (a *AuditLogs) Record(ctx context.Context, entry auth.AuditEntry) error {
	occurred := entry.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	row := &AuditLog{
		UserID:    entry.UserID,
		Action:    entry.Action,
		TableName: entry.TableName,
		RecordID:  entry.RecordID,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		CreatedAt: occurred,
	}

	if _, err := a.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return internal(err, "failed to record audit entry")
	}
	return nil
}

// RecordChange is Record plus before/after JSON snapshots, used by the
// resource handlers on update.
func (a *AuditLogs) RecordChange(ctx context.Context, entry auth.AuditEntry, oldValues, newValues string) error {
	row := &AuditLog{
		UserID:    entry.UserID,
		Action:    entry.Action,
		TableName: entry.TableName,
		RecordID:  entry.RecordID,
		OldValues: oldValues,
		NewValues: newValues,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		CreatedAt: time.Now(),
	}

	if _, err := a.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return internal(err, "failed to record audit entry")
	}
	return nil
}

// Recent returns the newest entries, newest first.
func (a *AuditLogs) Recent(ctx context.Context, limit int) ([]*AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []*AuditLog
	err := a.db.NewSelect().Model(&rows).
		Order("log_id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list audit entries")
	}
	return rows, nil
}
