package accounting

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildTrialBalance sums per-account totals. A debit/credit mismatch is
// reported as a warning on the result.
func BuildTrialBalance(r domain.DateRange, totals []domain.AccountTotals) domain.TrialBalance {
	tb := domain.TrialBalance{
		Range:       r,
		Rows:        make([]domain.TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range totals {
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			Number:      t.Number,
			AccountName: t.Name,
			Category:    t.Category,
			TotalDebit:  t.TotalDebit,
			TotalCredit: t.TotalCredit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(t.TotalDebit)
		tb.TotalCredit = tb.TotalCredit.Add(t.TotalCredit)
	}

	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	if !tb.Balanced {
		tb.Warnings = append(tb.Warnings, domain.ComputationWarning{
			Code: domain.WarningTrialBalanceMismatch,
			Message: fmt.Sprintf("total debit %s does not equal total credit %s",
				tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2)),
			Left:  tb.TotalDebit,
			Right: tb.TotalCredit,
		})
	}
	return tb
}

// BuildIncomeStatement classifies accounts by the configured revenue and
// expense name lists, not by their category.
func BuildIncomeStatement(r domain.DateRange, totals []domain.AccountTotals, cfg domain.ReportConfig) domain.IncomeStatement {
	is := domain.IncomeStatement{
		Range:         r,
		Revenue:       []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, t := range totals {
		switch {
		case cfg.IsRevenue(t.Name):
			amt := CreditNet(t.TotalDebit, t.TotalCredit)
			is.Revenue = append(is.Revenue, toAccountAmount(t, amt))
			is.TotalRevenue = is.TotalRevenue.Add(amt)
		case cfg.IsExpense(t.Name):
			amt := DebitNet(t.TotalDebit, t.TotalCredit)
			is.Expenses = append(is.Expenses, toAccountAmount(t, amt))
			is.TotalExpenses = is.TotalExpenses.Add(amt)
		}
	}
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is
}

// BuildBalanceSheet classifies accounts by category into assets, liabilities
// and equity, and checks the accounting equation.
func BuildBalanceSheet(r domain.DateRange, totals []domain.AccountTotals, cfg domain.ReportConfig) domain.BalanceSheet {
	bs := domain.BalanceSheet{
		Range:            r,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, t := range totals {
		switch {
		case cfg.IsAsset(t.Category):
			amt := DebitNet(t.TotalDebit, t.TotalCredit)
			bs.Assets = append(bs.Assets, toAccountAmount(t, amt))
			bs.TotalAssets = bs.TotalAssets.Add(amt)
		case cfg.IsLiability(t.Category):
			amt := CreditNet(t.TotalDebit, t.TotalCredit)
			bs.Liabilities = append(bs.Liabilities, toAccountAmount(t, amt))
			bs.TotalLiabilities = bs.TotalLiabilities.Add(amt)
		case cfg.IsEquity(t.Category):
			amt := CreditNet(t.TotalDebit, t.TotalCredit)
			bs.Equity = append(bs.Equity, toAccountAmount(t, amt))
			bs.TotalEquity = bs.TotalEquity.Add(amt)
		}
	}

	bs.TotalLiabilitiesAndEquity = bs.TotalLiabilities.Add(bs.TotalEquity)
	bs.Balanced = bs.TotalAssets.Equal(bs.TotalLiabilitiesAndEquity)
	if !bs.Balanced {
		bs.Warnings = append(bs.Warnings, domain.ComputationWarning{
			Code: domain.WarningAccountingEquation,
			Message: fmt.Sprintf("total assets %s does not equal liabilities plus equity %s",
				bs.TotalAssets.StringFixed(2), bs.TotalLiabilitiesAndEquity.StringFixed(2)),
			Left:  bs.TotalAssets,
			Right: bs.TotalLiabilitiesAndEquity,
		})
	}
	return bs
}

func toAccountAmount(t domain.AccountTotals, amt decimal.Decimal) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID:   t.AccountID,
		Number:      t.Number,
		AccountName: t.Name,
		Amount:      amt,
	}
}
