package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/internal/models"
	"github.com/SscSPs/bookkeeping_core/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_core/internal/utils/pagination"
)

const legColumns = `seq, leg_id, group_id, account_id, debit, credit, entry_date,
	comment, attachment_ref, status, created_at`

const groupColumns = `group_id, created_at, created_by, review_comment, reviewed_by, reviewed_at`

type journalRepository struct {
	q querier
}

func newJournalRepository(q querier) *journalRepository {
	return &journalRepository{q: q}
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func scanLeg(s scanner) (models.JournalLeg, error) {
	var (
		m                    models.JournalLeg
		entryDate, createdAt string
	)
	err := s.Scan(&m.Seq, &m.LegID, &m.GroupID, &m.AccountID, &m.Debit, &m.Credit, &entryDate,
		&m.Comment, &m.AttachmentRef, &m.Status, &createdAt)
	if err != nil {
		return m, err
	}
	if m.EntryDate, err = parseDate(entryDate); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	return m, nil
}

func scanGroup(s scanner) (models.JournalGroup, error) {
	var (
		m          models.JournalGroup
		createdAt  string
		reviewedAt sql.NullString
	)
	if err := s.Scan(&m.GroupID, &createdAt, &m.CreatedBy, &m.ReviewComment, &m.ReviewedBy, &reviewedAt); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	if reviewedAt.Valid {
		t, err := parseTime(reviewedAt.String)
		if err != nil {
			return m, err
		}
		m.ReviewedAt = sql.NullTime{Time: t, Valid: true}
	}
	return m, nil
}

func (r *journalRepository) queryLegs(ctx context.Context, query string, args ...any) ([]models.JournalLeg, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryFailed("query journal legs", err)
	}
	defer rows.Close()

	var out []models.JournalLeg
	for rows.Next() {
		m, err := scanLeg(rows)
		if err != nil {
			return nil, queryFailed("scan journal leg", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterate journal legs", err)
	}
	return out, nil
}

func (r *journalRepository) SaveJournalGroup(ctx context.Context, group domain.JournalEntryGroup, legs []domain.JournalEntryLeg) error {
	g := mapping.ToModelJournalGroup(group)
	var reviewedAt sql.NullString
	if g.ReviewedAt.Valid {
		reviewedAt = sql.NullString{String: formatTime(g.ReviewedAt.Time), Valid: true}
	}
	_, err := r.q.ExecContext(ctx, `INSERT INTO journal_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		g.GroupID, formatTime(g.CreatedAt), g.CreatedBy, g.ReviewComment, g.ReviewedBy, reviewedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry group %s already exists", apperrors.ErrDuplicate, g.GroupID)
		}
		return fmt.Errorf("failed to save journal entry group %s: %w", g.GroupID, err)
	}

	// Legs are inserted in the given order; seq records it.
	for _, leg := range legs {
		m := mapping.ToModelJournalLeg(leg)
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO journal_legs (leg_id, group_id, account_id, debit, credit, entry_date,
				comment, attachment_ref, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.LegID, g.GroupID, m.AccountID, m.Debit, m.Credit, formatDate(m.EntryDate),
			m.Comment, m.AttachmentRef, string(m.Status), formatTime(m.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to save journal leg %s: %w", m.LegID, err)
		}
	}
	return nil
}

func (r *journalRepository) UpdateGroupStatus(ctx context.Context, group domain.JournalEntryGroup, status domain.LegStatus) error {
	g := mapping.ToModelJournalGroup(group)
	var reviewedAt sql.NullString
	if g.ReviewedAt.Valid {
		reviewedAt = sql.NullString{String: formatTime(g.ReviewedAt.Time), Valid: true}
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE journal_groups SET review_comment = ?, reviewed_by = ?, reviewed_at = ?
		WHERE group_id = ?`,
		g.ReviewComment, g.ReviewedBy, reviewedAt, g.GroupID)
	if err != nil {
		return fmt.Errorf("failed to update journal entry group %s: %w", g.GroupID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return queryFailed("read affected rows", err)
	} else if n == 0 {
		return fmt.Errorf("%w: journal entry group %s", apperrors.ErrNotFound, g.GroupID)
	}

	if _, err := r.q.ExecContext(ctx, `UPDATE journal_legs SET status = ? WHERE group_id = ?`, string(status), g.GroupID); err != nil {
		return fmt.Errorf("failed to update legs of group %s: %w", g.GroupID, err)
	}
	return nil
}

func (r *journalRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.JournalEntryGroup, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM journal_groups WHERE group_id = ?`, groupID)
	m, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry group %s", apperrors.ErrNotFound, groupID)
		}
		return nil, queryFailed("find journal entry group", err)
	}

	legs, err := r.FindLegsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group := mapping.ToDomainJournalGroup(m)
	group.Legs = legs
	return &group, nil
}

func (r *journalRepository) ListGroups(ctx context.Context, status *domain.LegStatus, limit int, nextToken *string) ([]domain.JournalEntryGroup, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		where []string
		args  []any
	)
	if status != nil {
		where = append(where, `EXISTS (SELECT 1 FROM journal_legs l WHERE l.group_id = g.group_id AND l.status = ?)`)
		args = append(args, string(*status))
	}
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken, 2)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		where = append(where, `(g.created_at > ? OR (g.created_at = ? AND g.group_id > ?))`)
		args = append(args, fields[0], fields[0], fields[1])
	}

	query := `SELECT g.group_id, g.created_at, g.created_by, g.review_comment, g.reviewed_by, g.reviewed_at
		FROM journal_groups g`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY g.created_at, g.group_id LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, queryFailed("list journal entry groups", err)
	}
	var ms []models.JournalGroup
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, nil, queryFailed("scan journal entry group", err)
		}
		ms = append(ms, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, queryFailed("iterate journal entry groups", err)
	}

	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeMultiFieldToken(formatTime(last.CreatedAt), last.GroupID)
		next = &token
		ms = ms[:limit]
	}
	if len(ms) == 0 {
		return []domain.JournalEntryGroup{}, nil, nil
	}

	ids := make([]any, len(ms))
	for i, m := range ms {
		ids[i] = m.GroupID
	}
	legRows, err := r.queryLegs(ctx,
		`SELECT `+legColumns+` FROM journal_legs WHERE group_id IN (`+placeholders(len(ids))+`) ORDER BY seq`, ids...)
	if err != nil {
		return nil, nil, err
	}
	byGroup := make(map[string][]domain.JournalEntryLeg, len(ms))
	for _, l := range legRows {
		byGroup[l.GroupID] = append(byGroup[l.GroupID], mapping.ToDomainJournalLeg(l))
	}

	groups := make([]domain.JournalEntryGroup, len(ms))
	for i, m := range ms {
		groups[i] = mapping.ToDomainJournalGroup(m)
		groups[i].Legs = byGroup[m.GroupID]
	}
	return groups, next, nil
}

func (r *journalRepository) FindLegsByGroupID(ctx context.Context, groupID string) ([]domain.JournalEntryLeg, error) {
	ms, err := r.queryLegs(ctx, `SELECT `+legColumns+` FROM journal_legs WHERE group_id = ? ORDER BY seq`, groupID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainJournalLegSlice(ms), nil
}

// FindLegsByGroupIDForUpdate reads the legs inside the current transaction,
// which on this backend already holds the only connection.
func (r *journalRepository) FindLegsByGroupIDForUpdate(ctx context.Context, groupID string) ([]domain.JournalEntryLeg, error) {
	return r.FindLegsByGroupID(ctx, groupID)
}

func (r *journalRepository) ListLegsByAccount(ctx context.Context, accountID string, q domain.LedgerQuery, limit int, nextToken *string) ([]domain.JournalEntryLeg, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	statuses := q.EffectiveStatuses()
	where := []string{`account_id = ?`, `status IN (` + placeholders(len(statuses)) + `)`}
	args := []any{accountID}
	for _, st := range statuses {
		args = append(args, string(st))
	}
	if q.Range.From != nil {
		where = append(where, `entry_date >= ?`)
		args = append(args, formatDate(*q.Range.From))
	}
	if q.Range.To != nil {
		where = append(where, `entry_date <= ?`)
		args = append(args, formatDate(*q.Range.To))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		d := formatDate(lastDate)
		where = append(where, `(entry_date > ? OR (entry_date = ? AND seq > ?))`)
		args = append(args, d, d, lastSeq)
	}
	args = append(args, limit+1)

	ms, err := r.queryLegs(ctx, `SELECT `+legColumns+` FROM journal_legs
		WHERE `+strings.Join(where, ` AND `)+`
		ORDER BY entry_date, seq LIMIT ?`, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.Seq)
		next = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainJournalLegSlice(ms), next, nil
}
