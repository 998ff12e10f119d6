package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// recordAudit writes a trail entry for a mutation. Recording is best effort;
// a failing sink is logged and the response proceeds unchanged.
func recordAudit(c *fiber.Ctx, logger auth.Logger, audit *store.AuditLogs, action, table string, recordID int64) {
	if audit == nil {
		return
	}

	entry := auditEntry(c, action, table, recordID)
	if err := audit.Record(c.UserContext(), entry); err != nil {
		logger.Warn("audit record failed for %s on %s: %v", action, table, err)
	}
}

// recordAuditChange is recordAudit plus before and after snapshots.
func recordAuditChange(c *fiber.Ctx, logger auth.Logger, audit *store.AuditLogs, action, table string, recordID int64, oldValues, newValues any) {
	if audit == nil {
		return
	}

	entry := auditEntry(c, action, table, recordID)
	if err := audit.RecordChange(c.UserContext(), entry, snapshotJSON(oldValues), snapshotJSON(newValues)); err != nil {
		logger.Warn("audit record failed for %s on %s: %v", action, table, err)
	}
}

func auditEntry(c *fiber.Ctx, action, table string, recordID int64) auth.AuditEntry {
	entry := auth.AuditEntry{
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
	if p := principal(c); p != nil {
		entry.UserID = p.UserID
	}
	return entry
}

func snapshotJSON(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
