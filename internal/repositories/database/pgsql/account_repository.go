package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/internal/models"
	"github.com/SscSPs/bookkeeping_core/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, account_number, account_name, account_description,
	account_category, account_subcategory, normal_side, initial_balance, debit, credit,
	balance, is_active, owner_id, sort_order, statement, comment,
	created_at, created_by, last_updated_at, last_updated_by`

// searchableAccountColumns are matched by AccountFilter.Query.
var searchableAccountColumns = []string{
	"account_name", "account_number", "account_description", "account_category", "account_subcategory",
}

type PgxAccountRepository struct {
	q querier
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(q querier) *PgxAccountRepository {
	return &PgxAccountRepository{q: q}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.Number, &m.Name, &m.Description,
		&m.Category, &m.Subcategory, &m.NormalSide, &m.InitialBalance, &m.Debit, &m.Credit,
		&m.Balance, &m.IsActive, &m.OwnerID, &m.SortOrder, &m.Statement, &m.Comment,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, queryFailed("query accounts", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, queryFailed("scan account", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterate accounts", err)
	}
	return out, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.q.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		m.AccountID, m.Number, m.Name, m.Description,
		m.Category, m.Subcategory, string(m.NormalSide), m.InitialBalance, m.Debit, m.Credit,
		m.Balance, m.IsActive, m.OwnerID, m.SortOrder, m.Statement, m.Comment,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) { // Unique violation
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// UpdateAccount writes every mutable column. Normal side and initial
// balance are fixed at creation.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	tag, err := r.q.Exec(ctx, `
		UPDATE accounts SET
			account_number = $1, account_name = $2, account_description = $3,
			account_category = $4, account_subcategory = $5, debit = $6, credit = $7, balance = $8,
			is_active = $9, sort_order = $10, statement = $11, comment = $12,
			last_updated_at = $13, last_updated_by = $14
		WHERE account_id = $15`,
		m.Number, m.Name, m.Description,
		m.Category, m.Subcategory, m.Debit, m.Credit, m.Balance,
		m.IsActive, m.SortOrder, m.Statement, m.Comment,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.AccountID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	m, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, queryFailed("find account", err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are
// absent from the result.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.findByIDs(ctx, accountIDs, false)
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the
// rows in account ID order. Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	return r.findByIDs(ctx, slices.Compact(ids), true)
}

func (r *PgxAccountRepository) findByIDs(ctx context.Context, accountIDs []string, forUpdate bool) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	ms, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

func (r *PgxAccountRepository) AccountNumberExists(ctx context.Context, number string, excludeAccountID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1 AND account_id <> $2)`,
		number, excludeAccountID,
	).Scan(&exists)
	if err != nil {
		return false, queryFailed("check account number", err)
	}
	return exists, nil
}

// FindAccounts pages through accounts by (sort_order, account_number).
func (r *PgxAccountRepository) FindAccounts(ctx context.Context, filter domain.AccountFilter, limit int, nextToken *string) ([]domain.Account, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		where []string
		a     args
	)
	if clause := accountFilterClause(filter, &a); clause != "" {
		where = append(where, clause)
	}
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken, 2)
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		order, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, invalidToken(err)
		}
		where = append(where, fmt.Sprintf(`(sort_order, account_number) > (%s, %s)`, a.add(order), a.add(fields[1])))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY sort_order, account_number LIMIT ` + a.add(limit+1)

	ms, err := r.queryAccounts(ctx, query, a...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeMultiFieldToken(strconv.Itoa(last.SortOrder), last.Number)
		next = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainAccountSlice(ms), next, nil
}

func (r *PgxAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	ms, err := r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY sort_order, account_number`)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// accountFilterClause builds the OR-combined, case-insensitive substring
// match for filter, appending its arguments to a.
func accountFilterClause(filter domain.AccountFilter, a *args) string {
	var terms []string
	match := func(column, term string) {
		if term != "" {
			terms = append(terms, `lower(`+column+`) LIKE `+a.add(likePattern(term)))
		}
	}
	if filter.Query != "" {
		for _, col := range searchableAccountColumns {
			match(col, filter.Query)
		}
	}
	match("account_name", filter.Name)
	match("account_number", filter.Number)
	match("account_description", filter.Description)
	match("account_category", filter.Category)
	match("account_subcategory", filter.Subcategory)

	if len(terms) == 0 {
		return ""
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}
