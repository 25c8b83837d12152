package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_core/internal/utils/accounting"
)

// reportedStatuses are the leg statuses that count towards reports.
var reportedStatuses = []domain.LegStatus{domain.Approved}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	repos portsrepo.RepositoryProvider
	cfg   domain.ReportConfig
}

// NewReportingService creates a new reporting service
func NewReportingService(repos portsrepo.RepositoryProvider, cfg domain.ReportConfig, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService: newBaseService(options...),
		repos:       repos,
		cfg:         cfg,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// accountTotals reads per-account totals from one snapshot.
func (s *reportingService) accountTotals(ctx context.Context, r domain.DateRange) ([]domain.AccountTotals, error) {
	var totals []domain.AccountTotals
	err := s.repos.TxManager.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		totals, err = repos.Reporting.GetAccountTotals(ctx, r, reportedStatuses)
		return err
	})
	return totals, err
}

func (s *reportingService) TrialBalance(ctx context.Context, r domain.DateRange) (*domain.TrialBalance, error) {
	defer s.metrics.ObserveReport("trial_balance", time.Now())

	totals, err := s.accountTotals(ctx, r)
	if err != nil {
		s.LogFailure(ctx, err, "trial balance")
		return nil, err
	}
	tb := accounting.BuildTrialBalance(r, totals)
	s.logWarnings(ctx, "trial balance", tb.Warnings)
	return &tb, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, r domain.DateRange) (*domain.IncomeStatement, error) {
	defer s.metrics.ObserveReport("income_statement", time.Now())

	totals, err := s.accountTotals(ctx, r)
	if err != nil {
		s.LogFailure(ctx, err, "income statement")
		return nil, err
	}
	is := accounting.BuildIncomeStatement(r, totals, s.cfg)
	return &is, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, r domain.DateRange) (*domain.BalanceSheet, error) {
	defer s.metrics.ObserveReport("balance_sheet", time.Now())

	totals, err := s.accountTotals(ctx, r)
	if err != nil {
		s.LogFailure(ctx, err, "balance sheet")
		return nil, err
	}
	bs := accounting.BuildBalanceSheet(r, totals, s.cfg)
	s.logWarnings(ctx, "balance sheet", bs.Warnings)
	return &bs, nil
}

func (s *reportingService) RetainedEarnings(ctx context.Context) ([]domain.Account, error) {
	defer s.metrics.ObserveReport("retained_earnings", time.Now())

	accounts, err := snapshotAccounts(ctx, s.repos.TxManager)
	if err != nil {
		s.LogFailure(ctx, err, "retained earnings")
		return nil, err
	}
	return accounts, nil
}

func (s *reportingService) logWarnings(ctx context.Context, report string, warnings []domain.ComputationWarning) {
	for _, w := range warnings {
		s.GetLogger(ctx).Warn("Report computation warning",
			slog.String("report", report),
			slog.String("code", w.Code),
			slog.String("left", w.Left.StringFixed(2)),
			slog.String("right", w.Right.StringFixed(2)))
	}
}

// snapshotAccounts lists every account inside one read-only snapshot.
func snapshotAccounts(ctx context.Context, tm portsrepo.TransactionManager) ([]domain.Account, error) {
	var accounts []domain.Account
	err := tm.WithSnapshot(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		accounts, err = repos.Accounts.ListAllAccounts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}
