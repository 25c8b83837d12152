package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/internal/models"
	"github.com/SscSPs/bookkeeping_core/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const legColumns = `seq, leg_id, group_id, account_id, debit, credit, entry_date,
	comment, attachment_ref, status, created_at`

const groupColumns = `group_id, created_at, created_by, review_comment, reviewed_by, reviewed_at`

type PgxJournalRepository struct {
	q querier
}

// newPgxJournalRepository creates a new repository for journal entry groups and legs.
func newPgxJournalRepository(q querier) *PgxJournalRepository {
	return &PgxJournalRepository{q: q}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanLeg(row pgx.Row) (models.JournalLeg, error) {
	var m models.JournalLeg
	err := row.Scan(&m.Seq, &m.LegID, &m.GroupID, &m.AccountID, &m.Debit, &m.Credit, &m.EntryDate,
		&m.Comment, &m.AttachmentRef, &m.Status, &m.CreatedAt)
	return m, err
}

func scanGroup(row pgx.Row) (models.JournalGroup, error) {
	var m models.JournalGroup
	err := row.Scan(&m.GroupID, &m.CreatedAt, &m.CreatedBy, &m.ReviewComment, &m.ReviewedBy, &m.ReviewedAt)
	return m, err
}

func (r *PgxJournalRepository) queryLegs(ctx context.Context, query string, args ...any) ([]models.JournalLeg, error) {
	rows, err := r.q.Query(ctx, query, args...)
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

// SaveJournalGroup inserts the group header and then its legs in one batch.
// Legs keep the given order; seq records it.
func (r *PgxJournalRepository) SaveJournalGroup(ctx context.Context, group domain.JournalEntryGroup, legs []domain.JournalEntryLeg) error {
	g := mapping.ToModelJournalGroup(group)
	_, err := r.q.Exec(ctx, `INSERT INTO journal_groups (`+groupColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		g.GroupID, g.CreatedAt, g.CreatedBy, g.ReviewComment, g.ReviewedBy, g.ReviewedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry group %s already exists", apperrors.ErrDuplicate, g.GroupID)
		}
		return fmt.Errorf("failed to save journal entry group %s: %w", g.GroupID, err)
	}

	batch := &pgx.Batch{}
	legQuery := `
		INSERT INTO journal_legs (leg_id, group_id, account_id, debit, credit, entry_date,
			comment, attachment_ref, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, leg := range legs {
		m := mapping.ToModelJournalLeg(leg)
		batch.Queue(legQuery,
			m.LegID, g.GroupID, m.AccountID, m.Debit, m.Credit, m.EntryDate,
			m.Comment, m.AttachmentRef, string(m.Status), m.CreatedAt)
	}
	// Close the batch results to surface the error of any queued insert.
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save legs of journal entry group %s: %w", g.GroupID, err)
	}
	return nil
}

func (r *PgxJournalRepository) UpdateGroupStatus(ctx context.Context, group domain.JournalEntryGroup, status domain.LegStatus) error {
	g := mapping.ToModelJournalGroup(group)
	tag, err := r.q.Exec(ctx, `
		UPDATE journal_groups SET review_comment = $1, reviewed_by = $2, reviewed_at = $3
		WHERE group_id = $4`,
		g.ReviewComment, g.ReviewedBy, g.ReviewedAt, g.GroupID)
	if err != nil {
		return fmt.Errorf("failed to update journal entry group %s: %w", g.GroupID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry group %s", apperrors.ErrNotFound, g.GroupID)
	}

	if _, err := r.q.Exec(ctx, `UPDATE journal_legs SET status = $1 WHERE group_id = $2`, string(status), g.GroupID); err != nil {
		return fmt.Errorf("failed to update legs of group %s: %w", g.GroupID, err)
	}
	return nil
}

// FindGroupByID retrieves a group with its legs.
func (r *PgxJournalRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.JournalEntryGroup, error) {
	m, err := scanGroup(r.q.QueryRow(ctx, `SELECT `+groupColumns+` FROM journal_groups WHERE group_id = $1`, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

// ListGroups pages through groups by (created_at, group_id) and loads the
// legs of the page in one query.
func (r *PgxJournalRepository) ListGroups(ctx context.Context, status *domain.LegStatus, limit int, nextToken *string) ([]domain.JournalEntryGroup, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		where []string
		a     args
	)
	if status != nil {
		where = append(where, `EXISTS (SELECT 1 FROM journal_legs l WHERE l.group_id = g.group_id AND l.status = `+a.add(string(*status))+`)`)
	}
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken, 2)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		where = append(where, fmt.Sprintf(`(g.created_at, g.group_id) > (%s, %s)`, a.add(createdAt), a.add(fields[1])))
	}

	query := `SELECT g.group_id, g.created_at, g.created_by, g.review_comment, g.reviewed_by, g.reviewed_at
		FROM journal_groups g`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY g.created_at, g.group_id LIMIT ` + a.add(limit+1)

	rows, err := r.q.Query(ctx, query, a...)
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
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.UTC().Format(time.RFC3339Nano), last.GroupID)
		next = &token
		ms = ms[:limit]
	}
	if len(ms) == 0 {
		return []domain.JournalEntryGroup{}, nil, nil
	}

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.GroupID
	}
	legRows, err := r.queryLegs(ctx, `SELECT `+legColumns+` FROM journal_legs WHERE group_id = ANY($1) ORDER BY seq`, ids)
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

func (r *PgxJournalRepository) FindLegsByGroupID(ctx context.Context, groupID string) ([]domain.JournalEntryLeg, error) {
	ms, err := r.queryLegs(ctx, `SELECT `+legColumns+` FROM journal_legs WHERE group_id = $1 ORDER BY seq`, groupID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainJournalLegSlice(ms), nil
}

// FindLegsByGroupIDForUpdate locks the group's legs. A concurrent reviewer
// blocks here until the first one commits, then sees the new status.
func (r *PgxJournalRepository) FindLegsByGroupIDForUpdate(ctx context.Context, groupID string) ([]domain.JournalEntryLeg, error) {
	ms, err := r.queryLegs(ctx, `SELECT `+legColumns+` FROM journal_legs WHERE group_id = $1 ORDER BY seq FOR UPDATE`, groupID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainJournalLegSlice(ms), nil
}

func (r *PgxJournalRepository) ListLegsByAccount(ctx context.Context, accountID string, q domain.LedgerQuery, limit int, nextToken *string) ([]domain.JournalEntryLeg, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	statuses := make([]string, 0, len(q.EffectiveStatuses()))
	for _, st := range q.EffectiveStatuses() {
		statuses = append(statuses, string(st))
	}
	var a args
	where := []string{`account_id = ` + a.add(accountID), `status = ANY(` + a.add(statuses) + `)`}
	if q.Range.From != nil {
		where = append(where, `entry_date >= `+a.add(domain.TruncateDate(*q.Range.From)))
	}
	if q.Range.To != nil {
		where = append(where, `entry_date <= `+a.add(domain.TruncateDate(*q.Range.To)))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		where = append(where, fmt.Sprintf(`(entry_date, seq) > (%s, %s)`, a.add(domain.TruncateDate(lastDate)), a.add(lastSeq)))
	}

	ms, err := r.queryLegs(ctx, `SELECT `+legColumns+` FROM journal_legs
		WHERE `+strings.Join(where, ` AND `)+`
		ORDER BY entry_date, seq LIMIT `+a.add(limit+1), a...)
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
