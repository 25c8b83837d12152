package accounting

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerDelta is the leg's contribution to an account's running ledger
// balance: +debit -credit, whatever the account's normal side.
func LedgerDelta(leg domain.JournalEntryLeg) decimal.Decimal {
	return leg.Debit.Sub(leg.Credit)
}

// DebitNet returns debit minus credit, the natural sign for assets and expenses.
func DebitNet(debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit)
}

// CreditNet returns credit minus debit, the natural sign for liabilities,
// equity and revenue.
func CreditNet(debit, credit decimal.Decimal) decimal.Decimal {
	return credit.Sub(debit)
}

// ValidateJournalBalance checks the shape of a submitted entry: at least two
// legs, each carrying exactly one positive amount, with equal debit and
// credit totals.
func ValidateJournalBalance(legs []domain.JournalEntryLeg) error {
	if len(legs) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two legs", apperrors.ErrValidation)
	}

	for i, leg := range legs {
		if leg.AccountID == "" {
			return fmt.Errorf("%w: leg %d has no account", apperrors.ErrValidation, i)
		}
		if leg.Debit.IsNegative() || leg.Credit.IsNegative() {
			return fmt.Errorf("%w: leg %d has a negative amount", apperrors.ErrValidation, i)
		}
		if leg.Debit.IsZero() == leg.Credit.IsZero() {
			return fmt.Errorf("%w: leg %d must carry exactly one of debit or credit", apperrors.ErrValidation, i)
		}
	}

	debit, credit := domain.SumLegs(legs)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: total debit %s, total credit %s", apperrors.ErrImbalancedEntry, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}
