// Package ratios derives the 30 named financial ratios from a canonical
// item set. Each ratio is a standalone pure function registered in a
// fixed-order table; the table order is the external CSV column
// contract and must not change.
//
// Ratio names are the original Korean column names. Two activity ratios
// (총자본회전율 and 유형자산회전율) share the revenue / total-assets
// formula by definition of the source ratio table; both names are kept
// for output compatibility.
package ratios

import (
	"dartcli/pkg/contracts/domain"
)

// Category groups ratios for documentation and reporting.
type Category string

const (
	CategoryGrowth        Category = "growth"
	CategoryProfitability Category = "profitability"
	CategoryActivity      Category = "activity"
	CategoryStability     Category = "stability"
	CategoryValuation     Category = "valuation"
)

// Fn computes one ratio from a canonical item set. A nil result means
// the underlying figures were absent or the denominator was zero.
type Fn func(domain.CanonicalItemSet) *float64

// Definition is one registry entry: name, category and compute function.
type Definition struct {
	Name     string
	Category Category
	Fn       Fn
}

// Growth

func totalAssetsGrowth(items domain.CanonicalItemSet) *float64 {
	// Prior-period balance of a BS item is the opening balance of the
	// current period.
	return GrowthRate(items.Get(domain.KeyTotalAssets), items.GetPrior(domain.KeyTotalAssets))
}

func currentAssetsGrowth(items domain.CanonicalItemSet) *float64 {
	return GrowthRate(items.Get(domain.KeyCurrentAssets), items.GetPrior(domain.KeyCurrentAssets))
}

func revenueGrowth(items domain.CanonicalItemSet) *float64 {
	return GrowthRate(items.Get(domain.KeyRevenue), items.GetPrior(domain.KeyRevenue))
}

func netIncomeGrowth(items domain.CanonicalItemSet) *float64 {
	return GrowthRate(items.Get(domain.KeyNetIncome), items.GetPrior(domain.KeyNetIncome))
}

func operatingIncomeGrowth(items domain.CanonicalItemSet) *float64 {
	return GrowthRate(items.Get(domain.KeyOperatingIncome), items.GetPrior(domain.KeyOperatingIncome))
}

// Profitability

func netProfitMargin(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyNetIncome), items.Get(domain.KeyRevenue))
}

func grossProfitMargin(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyGrossProfit), items.Get(domain.KeyRevenue))
}

func returnOnEquity(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyNetIncome), items.Get(domain.KeyTotalEquity))
}

// Activity

func receivablesTurnover(items domain.CanonicalItemSet) *float64 {
	return SafeDivide(items.Get(domain.KeyRevenue), items.Get(domain.KeyTradeReceivables))
}

func inventoryTurnover(items domain.CanonicalItemSet) *float64 {
	return SafeDivide(items.Get(domain.KeyCostOfSales), items.Get(domain.KeyInventories))
}

func assetTurnover(items domain.CanonicalItemSet) *float64 {
	return SafeDivide(items.Get(domain.KeyRevenue), items.Get(domain.KeyTotalAssets))
}

// tangibleAssetTurnover intentionally shares assetTurnover's formula;
// the source ratio table defines both as revenue / total assets.
func tangibleAssetTurnover(items domain.CanonicalItemSet) *float64 {
	return SafeDivide(items.Get(domain.KeyRevenue), items.Get(domain.KeyTotalAssets))
}

func costOfSalesRatio(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyCostOfSales), items.Get(domain.KeyRevenue))
}

// Stability

func debtToEquity(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyTotalLiabilities), items.Get(domain.KeyTotalEquity))
}

func currentRatio(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyCurrentAssets), items.Get(domain.KeyCurrentLiabilities))
}

func equityRatio(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyTotalEquity), items.Get(domain.KeyTotalAssets))
}

// quickRatio uses quick assets = current assets - inventories; a missing
// inventory figure counts as zero, a missing current-assets figure
// voids the ratio.
func quickRatio(items domain.CanonicalItemSet) *float64 {
	currentAssets := items.Get(domain.KeyCurrentAssets)
	if currentAssets == nil {
		return nil
	}
	quick := *currentAssets - orZero(items.Get(domain.KeyInventories))
	return Percent(ptr(quick), items.Get(domain.KeyCurrentLiabilities))
}

func nonCurrentAssetsToLongTermDebt(items domain.CanonicalItemSet) *float64 {
	return SafeDivide(items.Get(domain.KeyNonCurrentAssets), items.Get(domain.KeyLongTermBorrowings))
}

func netWorkingCapitalRatio(items domain.CanonicalItemSet) *float64 {
	currentAssets := items.Get(domain.KeyCurrentAssets)
	currentLiabilities := items.Get(domain.KeyCurrentLiabilities)
	if currentAssets == nil || currentLiabilities == nil {
		return nil
	}
	nwc := *currentAssets - *currentLiabilities
	return Percent(ptr(nwc), items.Get(domain.KeyTotalAssets))
}

func borrowingDependency(items domain.CanonicalItemSet) *float64 {
	borrowings := orZero(items.Get(domain.KeyShortTermBorrowings)) +
		orZero(items.Get(domain.KeyLongTermBorrowings)) +
		orZero(items.Get(domain.KeyBondsPayable))
	return Percent(ptr(borrowings), items.Get(domain.KeyTotalAssets))
}

func cashRatio(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyCash), items.Get(domain.KeyCurrentLiabilities))
}

func tangibleAssetsValue(items domain.CanonicalItemSet) *float64 {
	return items.Get(domain.KeyTangibleAssets)
}

func intangibleAssetsValue(items domain.CanonicalItemSet) *float64 {
	return items.Get(domain.KeyIntangibleAssets)
}

func amortizationValue(items domain.CanonicalItemSet) *float64 {
	return items.Get(domain.KeyAmortization)
}

func depreciationValue(items domain.CanonicalItemSet) *float64 {
	return items.Get(domain.KeyDepreciation)
}

// totalDepreciation sums depreciation and amortization; nil only when
// both inputs are absent, a single present figure carries the sum.
func totalDepreciation(items domain.CanonicalItemSet) *float64 {
	depreciation := items.Get(domain.KeyDepreciation)
	amortization := items.Get(domain.KeyAmortization)
	if depreciation == nil && amortization == nil {
		return nil
	}
	return ptr(orZero(depreciation) + orZero(amortization))
}

// Valuation

func operatingIncomeToAssets(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyOperatingIncome), items.Get(domain.KeyTotalAssets))
}

func netIncomeToAssets(items domain.CanonicalItemSet) *float64 {
	return Percent(items.Get(domain.KeyNetIncome), items.Get(domain.KeyTotalAssets))
}

// reservesToPaidInCapital computes (retained earnings + capital surplus)
// over paid-in capital. Retained earnings gates the ratio; a missing
// capital surplus counts as zero.
func reservesToPaidInCapital(items domain.CanonicalItemSet) *float64 {
	retained := items.Get(domain.KeyRetainedEarnings)
	if retained == nil {
		return nil
	}
	reserves := *retained + orZero(items.Get(domain.KeyCapitalSurplus))
	return Percent(ptr(reserves), items.Get(domain.KeyPaidInCapital))
}

// capitalInvestmentEfficiency computes (net income + interest expense)
// over total assets. Net income gates the ratio; missing interest
// expense counts as zero.
func capitalInvestmentEfficiency(items domain.CanonicalItemSet) *float64 {
	netIncome := items.Get(domain.KeyNetIncome)
	if netIncome == nil {
		return nil
	}
	numerator := *netIncome + orZero(items.Get(domain.KeyInterestExpense))
	return SafeDivide(ptr(numerator), items.Get(domain.KeyTotalAssets))
}

// definitions is the fixed-order ratio registry. The order here is the
// CSV column order and part of the external contract.
var definitions = []Definition{
	// Growth
	{"총자산증가율", CategoryGrowth, totalAssetsGrowth},
	{"유동자산증가율", CategoryGrowth, currentAssetsGrowth},
	{"매출액증가율", CategoryGrowth, revenueGrowth},
	{"순이익증가율", CategoryGrowth, netIncomeGrowth},
	{"영업이익증가율", CategoryGrowth, operatingIncomeGrowth},
	// Profitability
	{"매출액순이익률", CategoryProfitability, netProfitMargin},
	{"매출총이익률", CategoryProfitability, grossProfitMargin},
	{"자기자본순이익률", CategoryProfitability, returnOnEquity},
	// Activity
	{"매출채권회전율", CategoryActivity, receivablesTurnover},
	{"재고자산회전율", CategoryActivity, inventoryTurnover},
	{"총자본회전율", CategoryActivity, assetTurnover},
	{"유형자산회전율", CategoryActivity, tangibleAssetTurnover},
	{"매출원가율", CategoryActivity, costOfSalesRatio},
	// Stability
	{"부채비율", CategoryStability, debtToEquity},
	{"유동비율", CategoryStability, currentRatio},
	{"자기자본비율", CategoryStability, equityRatio},
	{"당좌비율", CategoryStability, quickRatio},
	{"비유동자산장기적합률", CategoryStability, nonCurrentAssetsToLongTermDebt},
	{"순운전자본비율", CategoryStability, netWorkingCapitalRatio},
	{"차입금의존도", CategoryStability, borrowingDependency},
	{"현금비율", CategoryStability, cashRatio},
	{"유형자산", CategoryStability, tangibleAssetsValue},
	{"무형자산", CategoryStability, intangibleAssetsValue},
	{"무형자산상각비", CategoryStability, amortizationValue},
	{"유형자산상각비", CategoryStability, depreciationValue},
	{"감가상각비", CategoryStability, totalDepreciation},
	// Valuation
	{"총자본영업이익률", CategoryValuation, operatingIncomeToAssets},
	{"총자본순이익률", CategoryValuation, netIncomeToAssets},
	{"유보액/납입자본비율", CategoryValuation, reservesToPaidInCapital},
	{"총자본투자효율", CategoryValuation, capitalInvestmentEfficiency},
}

// Definitions returns the ordered ratio registry. The returned slice
// must not be mutated.
func Definitions() []Definition {
	return definitions
}

// Names returns the ratio names in registry order. This order drives
// the CSV column layout.
func Names() []string {
	names := make([]string, len(definitions))
	for i, def := range definitions {
		names[i] = def.Name
	}
	return names
}

// ComputeAll evaluates every registered ratio. Each ratio runs
// independently: a panic inside one compute function yields nil for
// that ratio and computation continues with the rest. Every declared
// name is present in the result.
func ComputeAll(items domain.CanonicalItemSet) map[string]*float64 {
	result := make(map[string]*float64, len(definitions))
	for _, def := range definitions {
		result[def.Name] = computeOne(def, items)
	}
	return result
}

func computeOne(def Definition, items domain.CanonicalItemSet) (value *float64) {
	defer func() {
		if recover() != nil {
			value = nil
		}
	}()
	return def.Fn(items)
}
