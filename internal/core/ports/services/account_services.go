package services

import (
	"context"
	"iter"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccounts yields accounts matching filter, ordered by order key then
	// number. The sequence can be ranged over more than once; each pass reads
	// the store afresh.
	FindAccounts(ctx context.Context, filter domain.AccountFilter) iter.Seq2[domain.Account, error]

	// ListAllAccounts retrieves every account, ordered by order key then number.
	ListAllAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data. Each call is
// one atomic unit together with its audit entry.
type AccountWriterSvc interface {
	// CreateAccount persists a new account owned by actor.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error)

	// EditAccount applies the requested changes to an existing account.
	EditAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor domain.Actor) (*domain.Account, error)

	// ActivateAccount marks an account as active.
	ActivateAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. It fails while the
	// account's balance is non-zero.
	DeactivateAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
