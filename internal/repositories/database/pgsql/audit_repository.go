package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/internal/models"
	"github.com/SscSPs/bookkeeping_core/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_core/internal/utils/pagination"
)

type PgxAuditRepository struct {
	q querier
}

func newPgxAuditRepository(q querier) *PgxAuditRepository {
	return &PgxAuditRepository{q: q}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditRepository)(nil)

// AppendAuditEntry inserts the entry. Snapshots are stored as JSONB; the
// table rejects updates and deletes.
func (r *PgxAuditRepository) AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	m, err := mapping.ToModelAuditLogEntry(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO audit_log (entry_id, actor_id, action, occurred_at, before_snapshot, after_snapshot, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.EntryID, m.ActorID, m.Action, m.OccurredAt, m.Before, m.After, m.AccountID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: audit entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to append audit entry %s: %w", m.EntryID, err)
	}
	return nil
}

func (r *PgxAuditRepository) ListAuditEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		where []string
		a     args
	)
	if accountID != "" {
		where = append(where, `account_id = `+a.add(accountID))
	}
	if nextToken != nil && *nextToken != "" {
		lastAt, lastSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		where = append(where, fmt.Sprintf(`(occurred_at, seq) > (%s, %s)`, a.add(lastAt), a.add(lastSeq)))
	}

	query := `SELECT seq, entry_id, actor_id, action, occurred_at, before_snapshot, after_snapshot, account_id FROM audit_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY occurred_at, seq LIMIT ` + a.add(limit+1)

	rows, err := r.q.Query(ctx, query, a...)
	if err != nil {
		return nil, nil, queryFailed("list audit entries", err)
	}
	defer rows.Close()

	var ms []models.AuditLogEntry
	for rows.Next() {
		var m models.AuditLogEntry
		if err := rows.Scan(&m.Seq, &m.EntryID, &m.ActorID, &m.Action, &m.OccurredAt, &m.Before, &m.After, &m.AccountID); err != nil {
			return nil, nil, queryFailed("scan audit entry", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, queryFailed("iterate audit entries", err)
	}

	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.Seq)
		next = &token
		ms = ms[:limit]
	}

	entries := make([]domain.AuditLogEntry, 0, len(ms))
	for _, m := range ms {
		e, err := mapping.ToDomainAuditLogEntry(m)
		if err != nil {
			return nil, nil, queryFailed("decode audit entry", err)
		}
		entries = append(entries, e)
	}
	return entries, next, nil
}
