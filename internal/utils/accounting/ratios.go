package accounting

import (
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

// ResolveRatioInputs reads named account balances and category aggregates
// from an account snapshot. Names match exactly. An account carrying one of
// the standalone input names is left out of its category aggregate; when two
// accounts share such a name the later one wins. Net Credit Sales and
// Accounts Receivable are read by name and still count toward their category.
func ResolveRatioInputs(accounts []domain.Account, cfg domain.ReportConfig) domain.RatioInputs {
	in := domain.RatioInputs{}
	standalone := map[string]*decimal.Decimal{
		domain.InputCash:             &in.Cash,
		domain.InputOperatingCash:    &in.OperatingCash,
		domain.InputTotalDebtService: &in.TotalDebtService,
		domain.InputOperatingIncome:  &in.OperatingIncome,
		domain.InputInterestExpense:  &in.InterestExpense,
		domain.InputNetSales:         &in.NetSales,
		domain.InputCostOfGoodsSold:  &in.CostOfGoodsSold,
		domain.InputGrossProfit:      &in.GrossProfit,
		domain.InputNetIncome:        &in.NetIncome,
		domain.InputInventory:        &in.Inventory,
	}
	shared := map[string]*decimal.Decimal{
		domain.InputNetCreditSales:     &in.NetCreditSales,
		domain.InputAccountsReceivable: &in.AccountsReceivable,
	}

	for _, a := range accounts {
		bal := a.Balance.Round(2)
		if dst, ok := standalone[a.Name]; ok {
			*dst = bal
			continue
		}
		if dst, ok := shared[a.Name]; ok {
			*dst = bal
		}
		switch {
		case cfg.IsAsset(a.Category):
			in.CurrentAssets = in.CurrentAssets.Add(bal)
			in.TotalAssets = in.TotalAssets.Add(bal)
		case cfg.IsLiability(a.Category):
			in.CurrentLiabilities = in.CurrentLiabilities.Add(bal)
			in.TotalLiabilities = in.TotalLiabilities.Add(bal)
		case cfg.IsEquity(a.Category):
			in.ShareholderEquity = in.ShareholderEquity.Add(bal)
		}
	}
	return in
}

// ComputeRatios derives every ratio whose denominator is non-zero. Values are
// rounded to two decimal places before classification.
func ComputeRatios(in domain.RatioInputs) domain.RatioReport {
	report := domain.RatioReport{Inputs: in, Ratios: []domain.RatioResult{}}
	add := func(name string, num, den decimal.Decimal) (decimal.Decimal, bool) {
		if den.IsZero() {
			return decimal.Zero, false
		}
		v := num.Div(den).Round(2)
		rating := domain.RatioThresholds[name].Classify(v)
		report.Ratios = append(report.Ratios, domain.RatioResult{
			Name:   name,
			Value:  v,
			Rating: rating,
			Color:  rating.Color(),
		})
		return v, true
	}

	// Liquidity
	add(domain.RatioCurrent, in.CurrentAssets, in.CurrentLiabilities)
	add(domain.RatioAcidTest, in.CurrentAssets.Sub(in.Inventory), in.CurrentLiabilities)
	add(domain.RatioCash, in.Cash, in.CurrentLiabilities)
	add(domain.RatioOperatingCashFlow, in.OperatingCash, in.CurrentLiabilities)

	// Leverage
	add(domain.RatioDebt, in.TotalLiabilities, in.TotalAssets)
	add(domain.RatioDebtToEquity, in.TotalLiabilities, in.ShareholderEquity)
	add(domain.RatioInterestCoverage, in.OperatingIncome, in.InterestExpense)
	add(domain.RatioDebtServiceCoverage, in.OperatingIncome, in.TotalDebtService)

	// Efficiency
	add(domain.RatioAssetTurnover, in.NetSales, in.TotalAssets)
	if turnover, ok := add(domain.RatioInventoryTurnover, in.CostOfGoodsSold, in.Inventory); ok {
		add(domain.RatioDaysSalesInInventory, daysPerYear, turnover)
	}
	add(domain.RatioReceivablesTurnover, in.NetCreditSales, in.AccountsReceivable)

	// Profitability
	add(domain.RatioGrossMargin, in.GrossProfit, in.NetSales)
	add(domain.RatioOperatingMargin, in.OperatingIncome, in.NetSales)
	add(domain.RatioReturnOnAssets, in.NetIncome, in.TotalAssets)
	add(domain.RatioReturnOnEquity, in.NetIncome, in.ShareholderEquity)

	return report
}
