package services

import (
	"context"
	"iter"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// AuditLogSvc exposes the read side of the account audit log. Entries are
// only ever written by account mutations.
type AuditLogSvc interface {
	// History yields audit entries oldest first. An empty accountID yields
	// entries for every account.
	History(ctx context.Context, accountID string) iter.Seq2[domain.AuditLogEntry, error]
}
