package domain

import "github.com/shopspring/decimal"

// Rating is the three-tier classification of a ratio against its thresholds.
type Rating string

const (
	RatingGood    Rating = "GOOD"
	RatingWarning Rating = "WARNING"
	RatingPoor    Rating = "POOR"
)

// Color returns the display color name for the rating.
func (r Rating) Color() string {
	switch r {
	case RatingGood:
		return "GREEN"
	case RatingWarning:
		return "YELLOW"
	default:
		return "RED"
	}
}

// Hex returns the display color as an RGB hex string.
func (r Rating) Hex() string {
	switch r {
	case RatingGood:
		return "#28a745"
	case RatingWarning:
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

// Ratio names.
const (
	RatioCurrent              = "current_ratio"
	RatioAcidTest             = "acid_test_ratio"
	RatioCash                 = "cash_ratio"
	RatioOperatingCashFlow    = "operating_cash_flow_ratio"
	RatioDebt                 = "debt_ratio"
	RatioDebtToEquity         = "debt_to_equity_ratio"
	RatioInterestCoverage     = "interest_coverage_ratio"
	RatioDebtServiceCoverage  = "debt_service_coverage_ratio"
	RatioAssetTurnover        = "asset_turnover_ratio"
	RatioInventoryTurnover    = "inventory_turnover_ratio"
	RatioDaysSalesInInventory = "days_sales_in_inventory_ratio"
	RatioReceivablesTurnover  = "receivables_turnover_ratio"
	RatioGrossMargin          = "gross_margin_ratio"
	RatioOperatingMargin      = "operating_margin_ratio"
	RatioReturnOnAssets       = "return_on_assets_ratio"
	RatioReturnOnEquity       = "return_on_equity_ratio"
)

// RatioThreshold classifies a ratio value. With HigherIsBetter, values at or
// above Good rate good and at or above Warning rate warning; otherwise the
// comparisons are at or below.
type RatioThreshold struct {
	Good           decimal.Decimal `json:"good"`
	Warning        decimal.Decimal `json:"warning"`
	HigherIsBetter bool            `json:"higherIsBetter"`
}

// Classify rates v against the threshold.
func (t RatioThreshold) Classify(v decimal.Decimal) Rating {
	if t.HigherIsBetter {
		switch {
		case v.GreaterThanOrEqual(t.Good):
			return RatingGood
		case v.GreaterThanOrEqual(t.Warning):
			return RatingWarning
		}
		return RatingPoor
	}
	switch {
	case v.LessThanOrEqual(t.Good):
		return RatingGood
	case v.LessThanOrEqual(t.Warning):
		return RatingWarning
	}
	return RatingPoor
}

func atLeast(good, warning string) RatioThreshold {
	return RatioThreshold{Good: decimal.RequireFromString(good), Warning: decimal.RequireFromString(warning), HigherIsBetter: true}
}

func atMost(good, warning string) RatioThreshold {
	return RatioThreshold{Good: decimal.RequireFromString(good), Warning: decimal.RequireFromString(warning)}
}

// RatioThresholds holds the fixed classification bands per ratio.
var RatioThresholds = map[string]RatioThreshold{
	RatioCurrent:              atLeast("1.5", "1"),
	RatioAcidTest:             atLeast("1", "0.5"),
	RatioCash:                 atLeast("0.5", "0.2"),
	RatioOperatingCashFlow:    atLeast("1", "0.5"),
	RatioDebt:                 atMost("0.5", "0.6"),
	RatioDebtToEquity:         atMost("0.7", "1"),
	RatioInterestCoverage:     atLeast("3", "1.5"),
	RatioDebtServiceCoverage:  atLeast("1", "0.5"),
	RatioAssetTurnover:        atLeast("1", "0.5"),
	RatioInventoryTurnover:    atLeast("6", "3"),
	RatioDaysSalesInInventory: atMost("60", "120"),
	RatioReceivablesTurnover:  atLeast("10", "7"),
	RatioGrossMargin:          atLeast("0.4", "0.2"),
	RatioOperatingMargin:      atLeast("0.15", "0.05"),
	RatioReturnOnAssets:       atLeast("0.03", "0.01"),
	RatioReturnOnEquity:       atLeast("0.1", "0.05"),
}

// Account names that feed individual ratio inputs.
const (
	InputCash               = "Cash"
	InputOperatingCash      = "Operating Cash"
	InputTotalDebtService   = "Total Debt Service"
	InputOperatingIncome    = "Operating Income"
	InputInterestExpense    = "Interest Expense"
	InputNetSales           = "Net Sales"
	InputCostOfGoodsSold    = "Cost of Goods Sold"
	InputGrossProfit        = "Gross Profit"
	InputNetIncome          = "Net Income"
	InputInventory          = "Inventory"
	InputNetCreditSales     = "Net Credit Sales"
	InputAccountsReceivable = "Accounts Receivable"
)

// RatioInputs are the balances a ratio computation draws on, rounded to
// two decimal places.
type RatioInputs struct {
	CurrentAssets      decimal.Decimal `json:"currentAssets"`
	CurrentLiabilities decimal.Decimal `json:"currentLiabilities"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
	TotalLiabilities   decimal.Decimal `json:"totalLiabilities"`
	ShareholderEquity  decimal.Decimal `json:"shareholderEquity"`
	Cash               decimal.Decimal `json:"cash"`
	OperatingCash      decimal.Decimal `json:"operatingCash"`
	TotalDebtService   decimal.Decimal `json:"totalDebtService"`
	OperatingIncome    decimal.Decimal `json:"operatingIncome"`
	InterestExpense    decimal.Decimal `json:"interestExpense"`
	NetSales           decimal.Decimal `json:"netSales"`
	CostOfGoodsSold    decimal.Decimal `json:"costOfGoodsSold"`
	GrossProfit        decimal.Decimal `json:"grossProfit"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	Inventory          decimal.Decimal `json:"inventory"`
	NetCreditSales     decimal.Decimal `json:"netCreditSales"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
}

// RatioResult is one computed ratio with its classification.
type RatioResult struct {
	Name   string          `json:"name"`
	Value  decimal.Decimal `json:"value"`
	Rating Rating          `json:"rating"`
	Color  string          `json:"color"`
}

// RatioReport holds the computable ratios in a fixed order. Ratios whose
// denominator is zero are absent.
type RatioReport struct {
	Inputs RatioInputs   `json:"inputs"`
	Ratios []RatioResult `json:"ratios"`
}

// Get returns the named ratio if it was computed.
func (r RatioReport) Get(name string) (RatioResult, bool) {
	for _, res := range r.Ratios {
		if res.Name == name {
			return res, true
		}
	}
	return RatioResult{}, false
}
