package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// AuditLogRepository is the append-only store of account audit entries.
// There is no update or delete.
type AuditLogRepository interface {
	// AppendAuditEntry writes a new entry.
	AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error

	// ListAuditEntries retrieves a page of entries ordered by timestamp then
	// append order. An empty accountID lists entries for every account.
	ListAuditEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error)
}
