package auth

import (
	"context"
	"time"
)

// Audit actions recorded by this package and the resource handlers.
const (
	AuditActionLogin   = "LOGIN"
	AuditActionLogout  = "LOGOUT"
	AuditActionInsert  = "INSERT"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionRestore = "RESTORE"
)

// AuditEntry captures who did what to which record.
type AuditEntry struct {
	UserID     int64
	Action     string
	TableName  string
	RecordID   int64
	IPAddress  string
	UserAgent  string
	OccurredAt time.Time
}

// AuditRecorder consumes audit entries. Recording is best effort: a failing
// recorder must never block or fail the operation that produced the entry.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditRecorderFunc adapts a function to the AuditRecorder interface.
type AuditRecorderFunc func(ctx context.Context, entry AuditEntry) error

// Record implements AuditRecorder.
func (f AuditRecorderFunc) Record(ctx context.Context, entry AuditEntry) error {
	if f == nil {
		return nil
	}
	return f(ctx, entry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) error {
	return nil
}

func normalizeAuditRecorder(r AuditRecorder) AuditRecorder {
	if r == nil {
		return noopAuditRecorder{}
	}
	return r
}
