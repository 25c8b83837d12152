package services_test

import (
	"testing"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	ledgerSuite
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

// SetupTest books a small set of approved entries plus one pending entry
// that no report should see.
func (s *ReportingServiceTestSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	cash := s.createAccount("101", "Cash", "Assets", domain.Left, "0")
	loan := s.createAccount("201", "Loan", "Liabilities", domain.Right, "0")
	unearned := s.createAccount("202", "Unearned Revenue", "Liabilities", domain.Right, "0")
	accrued := s.createAccount("203", "Accrued Expense", "Liabilities", domain.Right, "0")
	capital := s.createAccount("301", "Capital", "Equity", domain.Right, "0")

	approved := []*domain.JournalEntryGroup{
		s.submit(debitLeg(cash.AccountID, "1000"), creditLeg(capital.AccountID, "1000")),
		s.submit(debitLeg(cash.AccountID, "600"), creditLeg(loan.AccountID, "600")),
		s.submit(debitLeg(cash.AccountID, "300"), creditLeg(unearned.AccountID, "300")),
		s.submit(debitLeg(accrued.AccountID, "100"), creditLeg(cash.AccountID, "100")),
	}
	for _, g := range approved {
		_, err := s.svc.Journal.ApproveEntry(s.ctx, g.GroupID, dtoReview(), s.admin)
		s.Require().NoError(err)
	}
	s.submit(debitLeg(cash.AccountID, "50"), creditLeg(capital.AccountID, "50"))
}

func (s *ReportingServiceTestSuite) TestTrialBalance() {
	tb, err := s.svc.Reporting.TrialBalance(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.True(tb.Balanced)
	s.Empty(tb.Warnings)
	s.Equal("2000.00", tb.TotalDebit.StringFixed(2))
	s.Equal("2000.00", tb.TotalCredit.StringFixed(2))
	s.Require().Len(tb.Rows, 5)
	s.Equal("101", tb.Rows[0].Number)
	s.Equal("1900.00", tb.Rows[0].TotalDebit.StringFixed(2))
	s.Equal("100.00", tb.Rows[0].TotalCredit.StringFixed(2))

	s.Equal(1, testutil.CollectAndCount(s.metrics.ReportDuration))
}

func (s *ReportingServiceTestSuite) TestTrialBalanceOutsideRangeIsEmpty() {
	from := entryDate.AddDate(0, 0, 1)
	tb, err := s.svc.Reporting.TrialBalance(s.ctx, domain.DateRange{From: &from})
	s.Require().NoError(err)
	s.Empty(tb.Rows)
	s.True(tb.Balanced)
	s.True(tb.TotalDebit.IsZero())

	to := entryDate
	tb, err = s.svc.Reporting.TrialBalance(s.ctx, domain.DateRange{To: &to})
	s.Require().NoError(err)
	s.Equal("2000.00", tb.TotalDebit.StringFixed(2))
}

func (s *ReportingServiceTestSuite) TestIncomeStatement() {
	is, err := s.svc.Reporting.IncomeStatement(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(is.Revenue, 1)
	s.Equal("Unearned Revenue", is.Revenue[0].AccountName)
	s.Equal("300.00", is.TotalRevenue.StringFixed(2))
	s.Require().Len(is.Expenses, 1)
	s.Equal("100.00", is.TotalExpenses.StringFixed(2))
	s.Equal("200.00", is.NetIncome.StringFixed(2))
}

func (s *ReportingServiceTestSuite) TestBalanceSheet() {
	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.Equal("1800.00", bs.TotalAssets.StringFixed(2))
	s.Equal("800.00", bs.TotalLiabilities.StringFixed(2))
	s.Equal("1000.00", bs.TotalEquity.StringFixed(2))
	s.Equal("1800.00", bs.TotalLiabilitiesAndEquity.StringFixed(2))
	s.True(bs.Balanced)
	s.Len(bs.Liabilities, 3)
}

func (s *ReportingServiceTestSuite) TestRetainedEarningsListsAccountBalances() {
	accounts, err := s.svc.Reporting.RetainedEarnings(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(accounts, 5)
	s.Equal("Cash", accounts[0].Name)
	s.Equal("1800.00", accounts[0].Balance.StringFixed(2))
	s.Equal("Capital", accounts[4].Name)
	s.Equal("1000.00", accounts[4].Balance.StringFixed(2))
}

func (s *ReportingServiceTestSuite) TestRatios() {
	report, err := s.svc.Ratio.Ratios(s.ctx)
	s.Require().NoError(err)
	// Cash is a named input and stays out of the asset aggregate.
	s.Equal("1800.00", report.Inputs.Cash.StringFixed(2))
	s.Equal("0.00", report.Inputs.CurrentAssets.StringFixed(2))
	s.Equal("800.00", report.Inputs.CurrentLiabilities.StringFixed(2))
	s.Equal("1000.00", report.Inputs.ShareholderEquity.StringFixed(2))

	current, ok := report.Get(domain.RatioCurrent)
	s.Require().True(ok)
	s.Equal("0.00", current.Value.StringFixed(2))
	s.Equal(domain.RatingPoor, current.Rating)

	cash, ok := report.Get(domain.RatioCash)
	s.Require().True(ok)
	s.Equal("2.25", cash.Value.StringFixed(2))

	debtToEquity, ok := report.Get(domain.RatioDebtToEquity)
	s.Require().True(ok)
	s.Equal("0.80", debtToEquity.Value.StringFixed(2))
	s.Equal(domain.RatingWarning, debtToEquity.Rating)

	// No other asset account, so the debt ratio has no denominator.
	_, ok = report.Get(domain.RatioDebt)
	s.False(ok)
	// No inventory account, so turnover ratios are omitted.
	_, ok = report.Get(domain.RatioInventoryTurnover)
	s.False(ok)
}
