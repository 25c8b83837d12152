package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountPoster applies approved postings to accounts. It is the only path
// that moves cumulative debits and credits, and it runs inside the caller's
// atomic unit.
type AccountPoster interface {
	ApplyPosting(ctx context.Context, repos portsrepo.Repositories, accountID string, side domain.PostingSide, amount decimal.Decimal, actor domain.Actor, at time.Time) (*domain.Account, error)
}

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		repos:       repos,
	}
}

var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ AccountPoster             = (*accountService)(nil)
)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if err := s.RequirePrivileged(actor, "create account"); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Number:         req.Number,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		NormalSide:     req.NormalSide,
		InitialBalance: req.InitialBalance,
		Debit:          decimal.Zero,
		Credit:         decimal.Zero,
		IsActive:       true,
		OwnerID:        actor.ID,
		Order:          req.Order,
		Statement:      req.Statement,
		Comment:        req.Comment,
		AuditFields:    domain.NewAuditFields(actor.ID, now),
	}
	account.Balance = account.ComputeBalance()

	err := s.repos.TxManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		exists, err := repos.Accounts.AccountNumberExists(ctx, account.Number, "")
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: account number %s is already in use", apperrors.ErrDuplicate, account.Number)
		}
		if err := repos.Accounts.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
		after := account.Snapshot()
		return s.appendAudit(ctx, repos, actor, domain.ActionAdded, account.AccountID, nil, &after, now)
	})
	if err != nil {
		s.LogFailure(ctx, err, "create account", slog.String("number", req.Number))
		return nil, err
	}

	s.recordMutation(domain.ActionAdded)
	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("number", account.Number))
	return &account, nil
}

func (s *accountService) EditAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if err := s.RequireActor(actor, "edit account"); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	changes := req.ToAccountChanges()

	var updated domain.Account
	err := s.repos.TxManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		account, err := lockAccount(ctx, repos, accountID)
		if err != nil {
			return err
		}

		before := account.Snapshot()
		if !changes.Apply(&account) {
			return fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
		}
		if changes.Number != nil && *changes.Number != before.Number {
			exists, err := repos.Accounts.AccountNumberExists(ctx, account.Number, account.AccountID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: account number %s is already in use", apperrors.ErrDuplicate, account.Number)
			}
		}

		now := s.now()
		account.Touch(actor.ID, now)
		if err := repos.Accounts.UpdateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		after := account.Snapshot()
		if err := s.appendAudit(ctx, repos, actor, domain.ActionModified, account.AccountID, &before, &after, now); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "edit account", slog.String("account_id", accountID))
		return nil, err
	}

	s.recordMutation(domain.ActionModified)
	return &updated, nil
}

func (s *accountService) ActivateAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	return s.setActive(ctx, accountID, true, actor)
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	return s.setActive(ctx, accountID, false, actor)
}

// setActive flips the active flag. Deactivation is refused while the account
// carries a balance. Setting the flag it already has is a no-op and writes no
// audit entry.
func (s *accountService) setActive(ctx context.Context, accountID string, active bool, actor domain.Actor) (*domain.Account, error) {
	action, operation := domain.ActionActivated, "activate"
	if !active {
		action, operation = domain.ActionDeactivated, "deactivate"
	}
	if err := s.RequirePrivileged(actor, operation+" account"); err != nil {
		return nil, err
	}

	var (
		result  domain.Account
		changed bool
	)
	err := s.repos.TxManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		account, err := lockAccount(ctx, repos, accountID)
		if err != nil {
			return err
		}
		if account.IsActive == active {
			result = account
			return nil
		}
		if !active {
			if balance := account.ComputeBalance(); !balance.IsZero() {
				return fmt.Errorf("%w: account %s has balance %s and cannot be deactivated",
					apperrors.ErrConstraintViolation, account.Number, balance.StringFixed(2))
			}
		}

		before := account.Snapshot()
		now := s.now()
		account.IsActive = active
		account.Touch(actor.ID, now)
		if err := repos.Accounts.UpdateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		after := account.Snapshot()
		if err := s.appendAudit(ctx, repos, actor, action, account.AccountID, &before, &after, now); err != nil {
			return err
		}
		result = account
		changed = true
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, operation+" account", slog.String("account_id", accountID))
		return nil, err
	}

	if changed {
		s.recordMutation(action)
		s.LogInfo(ctx, "Account "+string(action), slog.String("account_id", accountID))
	}
	return &result, nil
}

// ApplyPosting moves the account's cumulative debit or credit by amount and
// records the change in the audit log. The caller must have locked the
// account in the same unit.
func (s *accountService) ApplyPosting(ctx context.Context, repos portsrepo.Repositories, accountID string, side domain.PostingSide, amount decimal.Decimal, actor domain.Actor, at time.Time) (*domain.Account, error) {
	account, err := repos.Accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInactiveAccount, account.Number)
	}

	before := account.Snapshot()
	if err := account.ApplyPosting(side, amount); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	account.Touch(actor.ID, at)
	if err := repos.Accounts.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to post to account %s: %w", accountID, err)
	}
	after := account.Snapshot()
	if err := s.appendAudit(ctx, repos, actor, domain.ActionModified, accountID, &before, &after, at); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repos.Accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		s.LogFailure(ctx, err, "get account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) FindAccounts(ctx context.Context, filter domain.AccountFilter) iter.Seq2[domain.Account, error] {
	return snapshotSeq(ctx, s.repos.TxManager, func(ctx context.Context, repos portsrepo.Repositories) ([]domain.Account, error) {
		return collectPages(s.pageSize, func(limit int, nextToken *string) ([]domain.Account, *string, error) {
			return repos.Accounts.FindAccounts(ctx, filter, limit, nextToken)
		})
	})
}

func (s *accountService) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repos.Accounts.ListAllAccounts(ctx)
	if err != nil {
		s.LogFailure(ctx, err, "list accounts")
		return nil, err
	}
	return accounts, nil
}

// appendAudit writes one audit entry through the unit's audit repository. A
// failure here fails the whole unit.
func (s *accountService) appendAudit(ctx context.Context, repos portsrepo.Repositories, actor domain.Actor, action domain.AuditAction, accountID string, before, after *domain.AccountSnapshot, at time.Time) error {
	entry := domain.AuditLogEntry{
		EntryID:   uuid.NewString(),
		ActorID:   actor.ID,
		Action:    action,
		Timestamp: at,
		Before:    before,
		After:     after,
		AccountID: accountID,
	}
	if err := repos.Audit.AppendAuditEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry for account %s: %w", accountID, err)
	}
	return nil
}

func (s *accountService) recordMutation(action domain.AuditAction) {
	s.metrics.AccountMutated(string(action))
	s.metrics.AuditAppended(1)
}

// lockAccount loads one account for update within the unit.
func lockAccount(ctx context.Context, repos portsrepo.Repositories, accountID string) (domain.Account, error) {
	locked, err := repos.Accounts.FindAccountsByIDsForUpdate(ctx, []string{accountID})
	if err != nil {
		return domain.Account{}, err
	}
	account, ok := locked[accountID]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}
