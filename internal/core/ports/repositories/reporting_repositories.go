package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetAccountTotals sums debit and credit per account over legs dated in r
	// whose status is one of statuses. Accounts without matching legs are
	// omitted. Rows are ordered by order key then number.
	GetAccountTotals(ctx context.Context, r domain.DateRange, statuses []domain.LegStatus) ([]domain.AccountTotals, error)
}
