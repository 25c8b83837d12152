package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/internal/models"
	"github.com/SscSPs/bookkeeping_core/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_core/internal/utils/pagination"
)

type auditRepository struct {
	q querier
}

func newAuditRepository(q querier) *auditRepository {
	return &auditRepository{q: q}
}

var _ portsrepo.AuditLogRepository = (*auditRepository)(nil)

func nullableJSON(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func (r *auditRepository) AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	m, err := mapping.ToModelAuditLogEntry(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO audit_log (entry_id, actor_id, action, occurred_at, before_snapshot, after_snapshot, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.EntryID, m.ActorID, m.Action, formatTime(m.OccurredAt),
		nullableJSON(m.Before), nullableJSON(m.After), m.AccountID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: audit entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to append audit entry %s: %w", m.EntryID, err)
	}
	return nil
}

func (r *auditRepository) ListAuditEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		where []string
		args  []any
	)
	if accountID != "" {
		where = append(where, `account_id = ?`)
		args = append(args, accountID)
	}
	if nextToken != nil && *nextToken != "" {
		lastAt, lastSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		at := formatTime(lastAt)
		where = append(where, `(occurred_at > ? OR (occurred_at = ? AND seq > ?))`)
		args = append(args, at, at, lastSeq)
	}

	query := `SELECT seq, entry_id, actor_id, action, occurred_at, before_snapshot, after_snapshot, account_id FROM audit_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY occurred_at, seq LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, queryFailed("list audit entries", err)
	}
	defer rows.Close()

	var ms []models.AuditLogEntry
	for rows.Next() {
		var (
			m             models.AuditLogEntry
			occurredAt    string
			before, after sql.NullString
		)
		if err := rows.Scan(&m.Seq, &m.EntryID, &m.ActorID, &m.Action, &occurredAt, &before, &after, &m.AccountID); err != nil {
			return nil, nil, queryFailed("scan audit entry", err)
		}
		if m.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, nil, queryFailed("scan audit entry", err)
		}
		if before.Valid {
			m.Before = []byte(before.String)
		}
		if after.Valid {
			m.After = []byte(after.String)
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
