package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReportConfig is the inspectable classification mapping used by the report
// and ratio engines. Name and category matches are case-insensitive.
type ReportConfig struct {
	RevenueAccountNames []string `json:"revenueAccountNames"`
	ExpenseAccountNames []string `json:"expenseAccountNames"`
	AssetCategories     []string `json:"assetCategories"`
	LiabilityCategories []string `json:"liabilityCategories"`
	EquityCategories    []string `json:"equityCategories"`
}

// DefaultReportConfig returns the stock classification.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		RevenueAccountNames: []string{"Unearned Revenue"},
		ExpenseAccountNames: []string{"Accrued Expense", "Prepaid Expenses"},
		AssetCategories:     []string{"Assets"},
		LiabilityCategories: []string{"Liabilities"},
		EquityCategories:    []string{"Equity", "Stockholders' Equity"},
	}
}

// IsRevenue reports whether the account name is configured as revenue.
func (c ReportConfig) IsRevenue(name string) bool { return containsFold(c.RevenueAccountNames, name) }

// IsExpense reports whether the account name is configured as an expense.
func (c ReportConfig) IsExpense(name string) bool { return containsFold(c.ExpenseAccountNames, name) }

// IsAsset reports whether the category is configured as an asset category.
func (c ReportConfig) IsAsset(category string) bool {
	return containsFold(c.AssetCategories, category)
}

// IsLiability reports whether the category is configured as a liability category.
func (c ReportConfig) IsLiability(category string) bool {
	return containsFold(c.LiabilityCategories, category)
}

// IsEquity reports whether the category is configured as an equity category.
func (c ReportConfig) IsEquity(category string) bool {
	return containsFold(c.EquityCategories, category)
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

// AccountTotals is one account's aggregated leg amounts over a period.
type AccountTotals struct {
	AccountID   string          `json:"accountID"`
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	NormalSide  NormalSide      `json:"normalSide"`
	Order       int             `json:"order"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// ComputationWarning reports an accounting identity that did not hold. It is
// returned as data and never as an error.
type ComputationWarning struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Left    decimal.Decimal `json:"left"`
	Right   decimal.Decimal `json:"right"`
}

const (
	WarningTrialBalanceMismatch = "TRIAL_BALANCE_MISMATCH"
	WarningAccountingEquation   = "ACCOUNTING_EQUATION_VIOLATION"
)

// TrialBalanceRow is a single account line in a trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Number      string          `json:"number"`
	AccountName string          `json:"accountName"`
	Category    string          `json:"category"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// TrialBalance lists per-account totals for a period.
type TrialBalance struct {
	Range       DateRange            `json:"range"`
	Rows        []TrialBalanceRow    `json:"rows"`
	TotalDebit  decimal.Decimal      `json:"totalDebit"`
	TotalCredit decimal.Decimal      `json:"totalCredit"`
	Balanced    bool                 `json:"balanced"`
	Warnings    []ComputationWarning `json:"warnings,omitempty"`
}

// AccountAmount is an account paired with its computed statement amount.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	Number      string          `json:"number"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement summarises revenue and expense accounts for a period.
type IncomeStatement struct {
	Range         DateRange       `json:"range"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheet summarises asset, liability and equity accounts for a period.
type BalanceSheet struct {
	Range                     DateRange            `json:"range"`
	Assets                    []AccountAmount      `json:"assets"`
	Liabilities               []AccountAmount      `json:"liabilities"`
	Equity                    []AccountAmount      `json:"equity"`
	TotalAssets               decimal.Decimal      `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal      `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal      `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal      `json:"totalLiabilitiesAndEquity"`
	Balanced                  bool                 `json:"balanced"`
	Warnings                  []ComputationWarning `json:"warnings,omitempty"`
}
