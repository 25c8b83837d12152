package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Reports read one consistent snapshot and never fail on an accounting
// mismatch; mismatches are returned as warnings.
type ReportingService interface {
	// TrialBalance sums approved legs in r per account.
	TrialBalance(ctx context.Context, r domain.DateRange) (*domain.TrialBalance, error)

	// IncomeStatement nets revenue and expense accounts named in the report
	// configuration.
	IncomeStatement(ctx context.Context, r domain.DateRange) (*domain.IncomeStatement, error)

	// BalanceSheet totals assets, liabilities and equity by account category.
	BalanceSheet(ctx context.Context, r domain.DateRange) (*domain.BalanceSheet, error)

	// RetainedEarnings returns the full account set for presentation.
	RetainedEarnings(ctx context.Context) ([]domain.Account, error)
}

// RatioService computes financial ratios from current account balances.
type RatioService interface {
	// Ratios returns every ratio whose denominator is non-zero.
	Ratios(ctx context.Context) (*domain.RatioReport, error)
}
