package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_core/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsNumbersPlaceholders(t *testing.T) {
	var a args
	assert.Equal(t, "$1", a.add("x"))
	assert.Equal(t, "$2", a.add(2))
	assert.Equal(t, args{"x", 2}, a)
}

func TestAccountFilterClause(t *testing.T) {
	var a args
	clause := accountFilterClause(domain.AccountFilter{Name: "Cash", Category: "50%"}, &a)
	assert.Equal(t, "(lower(account_name) LIKE $1 OR lower(account_category) LIKE $2)", clause)
	assert.Equal(t, args{"%cash%", `%50\%%`}, a)

	a = nil
	assert.Empty(t, accountFilterClause(domain.AccountFilter{}, &a))
	assert.Empty(t, a)

	clause = accountFilterClause(domain.AccountFilter{Query: "x"}, &a)
	assert.Len(t, a, len(searchableAccountColumns))
	assert.Contains(t, clause, "account_subcategory")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

// The tests below need a disposable PostgreSQL database named by
// PGSQL_TEST_URL. Every table is truncated before each test.

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("PGSQL_TEST_URL")
	if url == "" || testing.Short() {
		t.Skip("PGSQL_TEST_URL not set")
	}
	require.NoError(t, Migrate(url, slog.Default()))

	ctx := context.Background()
	pool, err := database.NewPgxPool(ctx, url, database.PoolOptions{PingOnStart: true})
	require.NoError(t, err)
	t.Cleanup(func() { database.ClosePgxPool(pool) })

	_, err = pool.Exec(ctx, `TRUNCATE audit_log, journal_legs, journal_groups, accounts`)
	require.NoError(t, err)
	return pool
}

func newAccount(id, number, name string) domain.Account {
	a := domain.Account{
		AccountID:      id,
		Number:         number,
		Name:           name,
		Category:       "Assets",
		NormalSide:     domain.Left,
		InitialBalance: d("100.00"),
		IsActive:       true,
		OwnerID:        "admin",
		AuditFields: domain.AuditFields{
			CreatedAt: testNow, CreatedBy: "admin", LastUpdatedAt: testNow, LastUpdatedBy: "admin",
		},
	}
	a.Balance = a.ComputeBalance()
	return a
}

func TestPostgresAccountRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repos := NewRepositoryProvider(pool)

	acc := newAccount("a-1", "101", "Cash")
	require.NoError(t, repos.Accounts.SaveAccount(ctx, acc))
	err := repos.Accounts.SaveAccount(ctx, newAccount("a-2", "101", "Bank"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	got, err := repos.Accounts.FindAccountByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)
	assert.True(t, got.Balance.Equal(d("100.00")))
	assert.True(t, got.CreatedAt.Equal(testNow))

	_, err = repos.Accounts.FindAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgresJournalAndTotals(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repos := NewRepositoryProvider(pool)
	require.NoError(t, repos.Accounts.SaveAccount(ctx, newAccount("a-1", "101", "Cash")))
	require.NoError(t, repos.Accounts.SaveAccount(ctx, newAccount("a-2", "201", "Loan")))

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	group := domain.JournalEntryGroup{GroupID: "g-1", CreatedAt: testNow, CreatedBy: "clerk"}
	legs := []domain.JournalEntryLeg{
		{LegID: "l-1", GroupID: "g-1", AccountID: "a-1", Debit: d("25.50"), Credit: decimal.Zero, Date: day, Status: domain.Pending, CreatedAt: testNow},
		{LegID: "l-2", GroupID: "g-1", AccountID: "a-2", Debit: decimal.Zero, Credit: d("25.50"), Date: day, Status: domain.Pending, CreatedAt: testNow},
	}

	err := repos.TxManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		if err := tx.Journals.SaveJournalGroup(ctx, group, legs); err != nil {
			return err
		}
		locked, err := tx.Journals.FindLegsByGroupIDForUpdate(ctx, "g-1")
		if err != nil {
			return err
		}
		if len(locked) != 2 {
			return fmt.Errorf("want 2 legs, got %d", len(locked))
		}
		reviewedAt := testNow.Add(time.Hour)
		group.ReviewedBy, group.ReviewedAt = "admin", &reviewedAt
		return tx.Journals.UpdateGroupStatus(ctx, group, domain.Approved)
	})
	require.NoError(t, err)

	got, err := repos.Journals.FindGroupByID(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Approved, got.Status())
	require.Len(t, got.Legs, 2)
	assert.Less(t, got.Legs[0].Seq, got.Legs[1].Seq)

	totals, err := repos.Reporting.GetAccountTotals(ctx, domain.DateRange{}, nil)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "25.50", totals[0].TotalDebit.StringFixed(2))
	assert.Equal(t, "25.50", totals[1].TotalCredit.StringFixed(2))

	page, next, err := repos.Journals.ListLegsByAccount(ctx, "a-1", domain.LedgerQuery{}, 10, nil)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, page, 1)
}

func TestPostgresAuditLogIsAppendOnly(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repos := NewRepositoryProvider(pool)
	acc := newAccount("a-1", "101", "Cash")
	require.NoError(t, repos.Accounts.SaveAccount(ctx, acc))

	after := acc.Snapshot()
	require.NoError(t, repos.Audit.AppendAuditEntry(ctx, domain.AuditLogEntry{
		EntryID: "e-1", ActorID: "admin", Action: domain.ActionAdded, Timestamp: testNow, After: &after, AccountID: "a-1",
	}))

	entries, _, err := repos.Audit.ListAuditEntries(ctx, "a-1", 10, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Before)
	require.NotNil(t, entries[0].After)
	assert.Equal(t, "101", entries[0].After.Number)

	_, err = pool.Exec(ctx, `UPDATE audit_log SET actor_id = 'mallory'`)
	assert.Error(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM audit_log`)
	assert.Error(t, err)
}

func TestPostgresTransactionRollsBack(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repos := NewRepositoryProvider(pool)

	boom := errors.New("boom")
	err := repos.TxManager.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		if err := tx.Accounts.SaveAccount(ctx, newAccount("a-1", "101", "Cash")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Accounts.FindAccountByID(ctx, "a-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
