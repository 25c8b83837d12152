package sqlite

import (
	"context"
	"database/sql"
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
)

const accountColumns = `account_id, account_number, account_name, account_description,
	account_category, account_subcategory, normal_side, initial_balance, debit, credit,
	balance, is_active, owner_id, sort_order, statement, comment,
	created_at, created_by, last_updated_at, last_updated_by`

// searchableAccountColumns are matched by AccountFilter.Query.
var searchableAccountColumns = []string{
	"account_name", "account_number", "account_description", "account_category", "account_subcategory",
}

type accountRepository struct {
	q querier
}

func newAccountRepository(q querier) *accountRepository {
	return &accountRepository{q: q}
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func scanAccount(s scanner) (models.Account, error) {
	var (
		m                    models.Account
		createdAt, updatedAt string
	)
	err := s.Scan(
		&m.AccountID, &m.Number, &m.Name, &m.Description,
		&m.Category, &m.Subcategory, &m.NormalSide, &m.InitialBalance, &m.Debit, &m.Credit,
		&m.Balance, &m.IsActive, &m.OwnerID, &m.SortOrder, &m.Statement, &m.Comment,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return m, err
	}
	return m, nil
}

// queryAccounts runs query and reads every row before returning.
func (r *accountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
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

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.AccountID, m.Number, m.Name, m.Description,
		m.Category, m.Subcategory, string(m.NormalSide), m.InitialBalance, m.Debit, m.Credit,
		m.Balance, m.IsActive, m.OwnerID, m.SortOrder, m.Statement, m.Comment,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	res, err := r.q.ExecContext(ctx, `
		UPDATE accounts SET
			account_number = ?, account_name = ?, account_description = ?,
			account_category = ?, account_subcategory = ?, debit = ?, credit = ?, balance = ?,
			is_active = ?, sort_order = ?, statement = ?, comment = ?,
			last_updated_at = ?, last_updated_by = ?
		WHERE account_id = ?`,
		m.Number, m.Name, m.Description,
		m.Category, m.Subcategory, m.Debit, m.Credit, m.Balance,
		m.IsActive, m.SortOrder, m.Statement, m.Comment,
		formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
		m.AccountID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return queryFailed("read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
	m, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, queryFailed("find account", err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}
	ms, err := r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id IN (`+placeholders(len(accountIDs))+`)`, args...)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

// FindAccountsByIDsForUpdate reads the accounts inside the current
// transaction. The backend runs on a single connection, so an open
// transaction already excludes every other writer.
func (r *accountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	return r.FindAccountsByIDs(ctx, slices.Compact(ids))
}

func (r *accountRepository) AccountNumberExists(ctx context.Context, number string, excludeAccountID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = ? AND account_id <> ?)`,
		number, excludeAccountID,
	).Scan(&exists)
	if err != nil {
		return false, queryFailed("check account number", err)
	}
	return exists, nil
}

func (r *accountRepository) FindAccounts(ctx context.Context, filter domain.AccountFilter, limit int, nextToken *string) ([]domain.Account, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		where []string
		args  []any
	)
	if terms, termArgs := accountFilterClause(filter); terms != "" {
		where = append(where, terms)
		args = append(args, termArgs...)
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
		where = append(where, `(sort_order > ? OR (sort_order = ? AND account_number > ?))`)
		args = append(args, order, order, fields[1])
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY sort_order, account_number LIMIT ?`
	args = append(args, limit+1)

	ms, err := r.queryAccounts(ctx, query, args...)
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

func (r *accountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	ms, err := r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY sort_order, account_number`)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// accountFilterClause builds the OR-combined, case-insensitive substring
// match for filter.
func accountFilterClause(filter domain.AccountFilter) (string, []any) {
	var (
		terms []string
		args  []any
	)
	add := func(column, term string) {
		if term == "" {
			return
		}
		terms = append(terms, `lower(`+column+`) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(term))
	}
	if filter.Query != "" {
		for _, col := range searchableAccountColumns {
			add(col, filter.Query)
		}
	}
	add("account_name", filter.Name)
	add("account_number", filter.Number)
	add("account_description", filter.Description)
	add("account_category", filter.Category)
	add("account_subcategory", filter.Subcategory)

	if len(terms) == 0 {
		return "", nil
	}
	return "(" + strings.Join(terms, " OR ") + ")", args
}
