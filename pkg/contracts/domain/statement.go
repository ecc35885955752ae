package domain

import "fmt"

// StatementSection identifies the financial-statement section (sj_div)
// a raw account line was reported under.
type StatementSection string

const (
	SectionBalanceSheet        StatementSection = "BS"  // 재무상태표
	SectionIncomeStatement     StatementSection = "IS"  // 손익계산서
	SectionComprehensiveIncome StatementSection = "CIS" // 포괄손익계산서
	SectionCashFlow            StatementSection = "CF"  // 현금흐름표
)

// RawLineItem is a single account line as returned by the OpenDART
// fnlttSinglAcntAll endpoint. Amounts are kept as the raw strings the
// API delivers; tolerant parsing happens during normalization.
type RawLineItem struct {
	AccountName    string           `json:"account_nm"`
	Section        StatementSection `json:"sj_div"`
	CurrentAmount  string           `json:"thstrm_amount"`
	PriorAmount    string           `json:"frmtrm_amount"`
	TwoPriorAmount string           `json:"bfefrmtrm_amount"`
}

// StandardKey is a canonical financial-concept identifier. The set is
// closed: the ratio engine only ever references the keys declared here.
type StandardKey string

const (
	// Balance sheet
	KeyTotalAssets         StandardKey = "total_assets"
	KeyCurrentAssets       StandardKey = "current_assets"
	KeyNonCurrentAssets    StandardKey = "non_current_assets"
	KeyTangibleAssets      StandardKey = "tangible_assets"
	KeyIntangibleAssets    StandardKey = "intangible_assets"
	KeyTradeReceivables    StandardKey = "trade_receivables"
	KeyInventories         StandardKey = "inventories"
	KeyCash                StandardKey = "cash"
	KeyTotalLiabilities    StandardKey = "total_liabilities"
	KeyCurrentLiabilities  StandardKey = "current_liabilities"
	KeyShortTermBorrowings StandardKey = "short_term_borrowings"
	KeyLongTermBorrowings  StandardKey = "long_term_borrowings"
	KeyBondsPayable        StandardKey = "bonds_payable"
	KeyTotalEquity         StandardKey = "total_equity"
	KeyPaidInCapital       StandardKey = "paid_in_capital"
	KeyRetainedEarnings    StandardKey = "retained_earnings"
	KeyCapitalSurplus      StandardKey = "capital_surplus"

	// Income statement
	KeyRevenue         StandardKey = "revenue"
	KeyCostOfSales     StandardKey = "cost_of_sales"
	KeyGrossProfit     StandardKey = "gross_profit"
	KeyOperatingIncome StandardKey = "operating_income"
	KeyNetIncome       StandardKey = "net_income"
	KeyInterestExpense StandardKey = "interest_expense"

	// Cash flow statement
	KeyDepreciation StandardKey = "depreciation"
	KeyAmortization StandardKey = "amortization"
)

// PeriodAmounts holds the three reporting-period amounts for one
// canonical key. A nil entry means the figure was absent or unparseable.
type PeriodAmounts struct {
	Current  *float64 `json:"current"`
	Prior    *float64 `json:"prior"`
	TwoPrior *float64 `json:"two_prior"`
}

// CanonicalItemSet maps canonical keys to their period amounts for one
// company-period. A key absent from the map means no raw line matched it.
type CanonicalItemSet map[StandardKey]PeriodAmounts

// Get returns the current-period amount for key, or nil when the key is
// unresolved.
func (c CanonicalItemSet) Get(key StandardKey) *float64 {
	entry, ok := c[key]
	if !ok {
		return nil
	}
	return entry.Current
}

// GetPrior returns the prior-period amount for key, or nil.
func (c CanonicalItemSet) GetPrior(key StandardKey) *float64 {
	entry, ok := c[key]
	if !ok {
		return nil
	}
	return entry.Prior
}

// ReportPeriod is one of the four fixed fiscal sub-periods OpenDART
// accepts per business year.
type ReportPeriod string

const (
	PeriodQ1     ReportPeriod = "Q1"
	PeriodH1     ReportPeriod = "H1"
	PeriodQ3     ReportPeriod = "Q3"
	PeriodAnnual ReportPeriod = "ANNUAL"
)

// ReportPeriods lists the periods in their fiscal order. This order also
// drives row ordering inside persisted per-company files.
var ReportPeriods = []ReportPeriod{PeriodQ1, PeriodH1, PeriodQ3, PeriodAnnual}

// reportCodes maps each period to its OpenDART reprt_code.
var reportCodes = map[ReportPeriod]string{
	PeriodQ1:     "11013",
	PeriodH1:     "11012",
	PeriodQ3:     "11014",
	PeriodAnnual: "11011",
}

// ReportCode returns the OpenDART reprt_code for the period, or an error
// for an unknown period name. Validation happens before any network call.
func (p ReportPeriod) ReportCode() (string, error) {
	code, ok := reportCodes[p]
	if !ok {
		return "", fmt.Errorf("unknown report period %q (valid: Q1, H1, Q3, ANNUAL)", string(p))
	}
	return code, nil
}

// SortIndex returns the fiscal ordering index of the period. Unrecognized
// period names sort after all known ones.
func (p ReportPeriod) SortIndex() int {
	for i, known := range ReportPeriods {
		if p == known {
			return i
		}
	}
	return len(ReportPeriods)
}

// StatementDivision selects the consolidation basis of a statement fetch.
type StatementDivision string

const (
	// DivisionConsolidated requests group-wide (연결) statements.
	DivisionConsolidated StatementDivision = "CFS"
	// DivisionSeparate requests standalone-entity (별도) statements.
	DivisionSeparate StatementDivision = "OFS"
)

// Valid reports whether the division is one of the two OpenDART values.
func (d StatementDivision) Valid() bool {
	return d == DivisionConsolidated || d == DivisionSeparate
}
