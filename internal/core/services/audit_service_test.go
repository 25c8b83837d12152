package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/core/services"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditHistoryFollowsPageTokens(t *testing.T) {
	repo := new(MockAuditLogRepository)
	svc := services.NewAuditService(repo, services.WithPageSize(2))
	ctx := context.Background()

	page1 := []domain.AuditLogEntry{{EntryID: "1", Seq: 1}, {EntryID: "2", Seq: 2}}
	page2 := []domain.AuditLogEntry{{EntryID: "3", Seq: 3}}
	token := "t1"
	repo.On("ListAuditEntries", ctx, "acc-1", 2, (*string)(nil)).Return(page1, "t1", nil)
	repo.On("ListAuditEntries", ctx, "acc-1", 2, &token).Return(page2, nil, nil)

	var ids []string
	for e, err := range svc.History(ctx, "acc-1") {
		require.NoError(t, err)
		ids = append(ids, e.EntryID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	repo.AssertExpectations(t)
}

func TestAuditHistoryStopsOnError(t *testing.T) {
	repo := new(MockAuditLogRepository)
	svc := services.NewAuditService(repo)
	ctx := context.Background()
	boom := errors.New("connection reset")
	repo.On("ListAuditEntries", ctx, "", mock.Anything, (*string)(nil)).Return(nil, nil, boom)

	var errs []error
	for _, err := range svc.History(ctx, "") {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestAuditHistoryIsNotFetchedUntilRanged(t *testing.T) {
	repo := new(MockAuditLogRepository)
	svc := services.NewAuditService(repo)

	_ = svc.History(context.Background(), "acc-1")
	repo.AssertNotCalled(t, "ListAuditEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestHistoryAcrossAccountsInAppendOrder() {
	a := s.createAccount("101", "Cash", "Assets", domain.Left, "0")
	b := s.createAccount("102", "Bank", "Assets", domain.Left, "0")
	name := "Main bank"
	_, err := s.svc.Account.EditAccount(s.ctx, b.AccountID, dto.UpdateAccountRequest{Name: &name}, s.admin)
	s.Require().NoError(err)
	_, err = s.svc.Account.DeactivateAccount(s.ctx, a.AccountID, s.admin)
	s.Require().NoError(err)

	all := s.history("")
	s.Require().Len(all, 4)
	var actions []domain.AuditAction
	for i, e := range all {
		actions = append(actions, e.Action)
		if i > 0 {
			s.Greater(e.Seq, all[i-1].Seq)
			s.False(e.Timestamp.Before(all[i-1].Timestamp))
		}
	}
	s.Equal([]domain.AuditAction{domain.ActionAdded, domain.ActionAdded, domain.ActionModified, domain.ActionDeactivated}, actions)
	s.Len(s.history(b.AccountID), 2)
}
