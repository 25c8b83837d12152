package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// AccountNumberExists reports whether another account already uses number.
	// excludeAccountID is ignored when empty.
	AccountNumberExists(ctx context.Context, number string, excludeAccountID string) (bool, error)

	// FindAccounts returns one page of accounts matching filter, ordered by
	// order key then number, and a token for the next page.
	FindAccounts(ctx context.Context, filter domain.AccountFilter, limit int, nextToken *string) ([]domain.Account, *string, error)

	// ListAllAccounts returns every account, ordered by order key then number.
	ListAllAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount writes every mutable column of an existing account.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update
	// within the current transaction. Locks are taken in account ID order.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
