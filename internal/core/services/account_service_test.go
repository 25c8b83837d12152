package services_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	ledgerSuite
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestCreateAccount() {
	acc := s.createAccount("101", "Cash", "Assets", domain.Left, "1000.00")

	s.Equal("admin", acc.OwnerID)
	s.True(acc.IsActive)
	s.Equal("1000.00", acc.Balance.StringFixed(2))

	entries := s.history(acc.AccountID)
	s.Require().Len(entries, 1)
	s.Equal(domain.ActionAdded, entries[0].Action)
	s.Nil(entries[0].Before)
	s.Require().NotNil(entries[0].After)
	s.Equal("101", entries[0].After.Number)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AccountMutations.WithLabelValues("added")))
}

func (s *AccountServiceTestSuite) TestCreateAccountValidation() {
	tests := []struct {
		name    string
		req     dto.CreateAccountRequest
		wantErr error
	}{
		{"unknown normal side", dto.CreateAccountRequest{Number: "1", Name: "X", Category: "Assets", NormalSide: "Up"}, apperrors.ErrValidation},
		{"negative initial balance", dto.CreateAccountRequest{Number: "1", Name: "X", Category: "Assets", NormalSide: domain.Left, InitialBalance: dec("-1")}, apperrors.ErrValidation},
		{"missing name", dto.CreateAccountRequest{Number: "1", Category: "Assets", NormalSide: domain.Left}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Account.CreateAccount(s.ctx, tt.req, s.admin)
			s.ErrorIs(err, tt.wantErr)
		})
	}
	s.Empty(s.history(""))
}

func (s *AccountServiceTestSuite) TestCreateAccountDuplicateNumber() {
	s.createAccount("101", "Cash", "Assets", domain.Left, "0")
	_, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Number: "101", Name: "Bank", Category: "Assets", NormalSide: domain.Left,
	}, s.admin)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestEditAccountRecordsBeforeAndAfter() {
	acc := s.createAccount("101", "Cash", "Assets", domain.Left, "10")
	name := "Cash on hand"

	edited, err := s.svc.Account.EditAccount(s.ctx, acc.AccountID, dto.UpdateAccountRequest{Name: &name}, s.clerk)
	s.Require().NoError(err)
	s.Equal(name, edited.Name)
	s.Equal("clerk", edited.LastUpdatedBy)

	entries := s.history(acc.AccountID)
	s.Require().Len(entries, 2)
	s.Equal(domain.ActionModified, entries[1].Action)
	s.Equal("clerk", entries[1].ActorID)
	s.Equal("Cash", entries[1].Before.Name)
	s.Equal(name, entries[1].After.Name)
}

func (s *AccountServiceTestSuite) TestEditAccountErrors() {
	acc := s.createAccount("101", "Cash", "Assets", domain.Left, "10")
	s.createAccount("102", "Bank", "Assets", domain.Left, "10")

	taken := "102"
	_, err := s.svc.Account.EditAccount(s.ctx, acc.AccountID, dto.UpdateAccountRequest{Number: &taken}, s.clerk)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.svc.Account.EditAccount(s.ctx, acc.AccountID, dto.UpdateAccountRequest{}, s.clerk)
	s.ErrorIs(err, apperrors.ErrValidation)

	name := "Ghost"
	_, err = s.svc.Account.EditAccount(s.ctx, "missing", dto.UpdateAccountRequest{Name: &name}, s.clerk)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Len(s.history(acc.AccountID), 1)
}

func (s *AccountServiceTestSuite) TestDeactivationIsBalanceGated() {
	zero := s.createAccount("101", "Suspense", "Assets", domain.Left, "0.00")
	cent := s.createAccount("102", "Float", "Assets", domain.Left, "0.01")

	deactivated, err := s.svc.Account.DeactivateAccount(s.ctx, zero.AccountID, s.admin)
	s.Require().NoError(err)
	s.False(deactivated.IsActive)

	_, err = s.svc.Account.DeactivateAccount(s.ctx, cent.AccountID, s.admin)
	s.ErrorIs(err, apperrors.ErrConstraintViolation)
	s.True(s.account(cent.AccountID).IsActive)
	s.Len(s.history(cent.AccountID), 1)

	entries := s.history(zero.AccountID)
	s.Require().Len(entries, 2)
	s.Equal(domain.ActionDeactivated, entries[1].Action)
	s.True(entries[1].Before.IsActive)
	s.False(entries[1].After.IsActive)
}

func (s *AccountServiceTestSuite) TestActivateAccount() {
	acc := s.createAccount("101", "Suspense", "Assets", domain.Left, "0")
	_, err := s.svc.Account.DeactivateAccount(s.ctx, acc.AccountID, s.admin)
	s.Require().NoError(err)

	activated, err := s.svc.Account.ActivateAccount(s.ctx, acc.AccountID, s.admin)
	s.Require().NoError(err)
	s.True(activated.IsActive)

	// Already active: nothing to record.
	_, err = s.svc.Account.ActivateAccount(s.ctx, acc.AccountID, s.admin)
	s.Require().NoError(err)

	entries := s.history(acc.AccountID)
	s.Require().Len(entries, 3)
	s.Equal(domain.ActionActivated, entries[2].Action)
}

func (s *AccountServiceTestSuite) TestPrivilegedOperationsRequirePrivilege() {
	acc := s.createAccount("101", "Suspense", "Assets", domain.Left, "0")

	_, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Number: "102", Name: "Bank", Category: "Assets", NormalSide: domain.Left,
	}, s.clerk)
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = s.svc.Account.DeactivateAccount(s.ctx, acc.AccountID, s.clerk)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	_, err = s.svc.Account.ActivateAccount(s.ctx, acc.AccountID, s.clerk)
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	name := "Renamed"
	_, err = s.svc.Account.EditAccount(s.ctx, acc.AccountID, dto.UpdateAccountRequest{Name: &name}, domain.Actor{})
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	s.Len(s.history(acc.AccountID), 1)
}

func (s *AccountServiceTestSuite) TestFindAccountsIsIdempotentAndRestartable() {
	s.createAccount("301", "Capital", "Equity", domain.Right, "0")
	s.createAccount("101", "Cash", "Assets", domain.Left, "0")
	s.createAccount("103", "Receivables", "Assets", domain.Left, "0")
	s.createAccount("102", "Inventory", "Assets", domain.Left, "0")

	collect := func(filter domain.AccountFilter) []string {
		var numbers []string
		for acc, err := range s.svc.Account.FindAccounts(s.ctx, filter) {
			s.Require().NoError(err)
			numbers = append(numbers, acc.Number)
		}
		return numbers
	}

	filter := domain.AccountFilter{Category: "assets"}
	first := collect(filter)
	second := collect(filter)
	s.Equal([]string{"101", "102", "103"}, first)
	s.Equal(first, second)

	// Ranging the same sequence twice restarts from the first page.
	seq := s.svc.Account.FindAccounts(s.ctx, domain.AccountFilter{})
	count := func() int {
		n := 0
		for _, err := range seq {
			s.Require().NoError(err)
			n++
		}
		return n
	}
	s.Equal(4, count())
	s.Equal(4, count())

	// Early break ends the range.
	for acc, err := range seq {
		s.Require().NoError(err)
		s.Equal("101", acc.Number)
		break
	}
}

func (s *AccountServiceTestSuite) TestAuditFailureRollsBackMutation() {
	acc := s.createAccount("101", "Cash", "Assets", domain.Left, "0")

	auditRepo := new(MockAuditLogRepository)
	auditRepo.On("AppendAuditEntry", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	failing := s.repos
	failing.TxManager = &auditOverrideTxManager{inner: s.repos.TxManager, audit: auditRepo}
	svc := s.newContainer(failing)

	_, err := svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Number: "102", Name: "Bank", Category: "Assets", NormalSide: domain.Left,
	}, s.admin)
	s.Require().Error(err)
	s.Contains(err.Error(), "disk full")

	name := "Renamed"
	_, err = svc.Account.EditAccount(s.ctx, acc.AccountID, dto.UpdateAccountRequest{Name: &name}, s.admin)
	s.Require().Error(err)
	_, err = svc.Account.DeactivateAccount(s.ctx, acc.AccountID, s.admin)
	s.Require().Error(err)

	all, err := s.svc.Account.ListAllAccounts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("Cash", all[0].Name)
	s.True(all[0].IsActive)
	s.Len(s.history(""), 1)
	auditRepo.AssertNumberOfCalls(s.T(), "AppendAuditEntry", 3)
}

func (s *AccountServiceTestSuite) TestFindAccountsReadsOneSnapshotPerRange() {
	cash := s.createAccount("101", "Cash", "Assets", domain.Left, "0")
	s.createAccount("102", "Bank", "Assets", domain.Left, "0")
	other := s.createAccount("103", "Other", "Liabilities", domain.Right, "0")
	group := s.submit(debitLeg(cash.AccountID, "50"), creditLeg(other.AccountID, "50"))

	balances := func(approveAfter int) map[string]string {
		seen := map[string]string{}
		for acc, err := range s.svc.Account.FindAccounts(s.ctx, domain.AccountFilter{}) {
			s.Require().NoError(err)
			seen[acc.Number] = acc.Balance.StringFixed(2)
			if len(seen) == approveAfter {
				_, err := s.svc.Journal.ApproveEntry(s.ctx, group.GroupID, dtoReview(), s.admin)
				s.Require().NoError(err)
			}
		}
		return seen
	}

	// The approval commits after the first page; the range keeps its view
	// from before it for both sides of the entry.
	s.Equal(map[string]string{"101": "0.00", "102": "0.00", "103": "0.00"}, balances(2))
	s.Equal(map[string]string{"101": "50.00", "102": "0.00", "103": "50.00"}, balances(0))
}
