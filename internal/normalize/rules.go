package normalize

import (
	"regexp"

	"dartcli/pkg/contracts/domain"
)

// Rule binds one canonical key to a section filter and a compiled
// account-name pattern. Rules are evaluated in declaration order;
// ordering is the tie-break when patterns overlap, so more specific
// patterns must be declared before more general ones (e.g. gross profit
// before revenue).
type Rule struct {
	Key     domain.StandardKey
	Section domain.StatementSection // empty matches any section
	Pattern *regexp.Regexp
}

// rules is the priority-ordered account-name vocabulary. OpenDART does
// not guarantee a fixed vocabulary for account_nm, so each key carries
// the known filer variants. The six income-statement keys repeat with a
// CIS filter because some filers report income lines only on the
// comprehensive income statement; whichever section matches first wins.
var rules = []Rule{
	// Balance sheet
	{domain.KeyTotalAssets, domain.SectionBalanceSheet, regexp.MustCompile(`자산\s*총계`)},
	{domain.KeyCurrentAssets, domain.SectionBalanceSheet, regexp.MustCompile(`유동\s*자산$`)},
	{domain.KeyNonCurrentAssets, domain.SectionBalanceSheet, regexp.MustCompile(`비유동\s*자산$`)},
	{domain.KeyTangibleAssets, domain.SectionBalanceSheet, regexp.MustCompile(`유형\s*자산$`)},
	{domain.KeyIntangibleAssets, domain.SectionBalanceSheet, regexp.MustCompile(`무형\s*자산$|영업권\s*이외의\s*무형자산`)},
	{domain.KeyTradeReceivables, domain.SectionBalanceSheet, regexp.MustCompile(`매출\s*채권|단기매출채권`)},
	{domain.KeyInventories, domain.SectionBalanceSheet, regexp.MustCompile(`재고\s*자산$`)},
	{domain.KeyCash, domain.SectionBalanceSheet, regexp.MustCompile(`현금\s*(및|과)\s*현금\s*성?\s*자산`)},
	{domain.KeyTotalLiabilities, domain.SectionBalanceSheet, regexp.MustCompile(`부채\s*총계`)},
	{domain.KeyCurrentLiabilities, domain.SectionBalanceSheet, regexp.MustCompile(`유동\s*부채$`)},
	{domain.KeyShortTermBorrowings, domain.SectionBalanceSheet, regexp.MustCompile(`단기\s*차입금`)},
	{domain.KeyLongTermBorrowings, domain.SectionBalanceSheet, regexp.MustCompile(`장기\s*차입금`)},
	{domain.KeyBondsPayable, domain.SectionBalanceSheet, regexp.MustCompile(`^사채$`)},
	{domain.KeyTotalEquity, domain.SectionBalanceSheet, regexp.MustCompile(`자본\s*총계`)},
	{domain.KeyPaidInCapital, domain.SectionBalanceSheet, regexp.MustCompile(`^자본금$|납입\s*자본`)},
	{domain.KeyRetainedEarnings, domain.SectionBalanceSheet, regexp.MustCompile(`이익\s*잉여금`)},
	{domain.KeyCapitalSurplus, domain.SectionBalanceSheet, regexp.MustCompile(`자본\s*잉여금`)},

	// Income statement
	{domain.KeyRevenue, domain.SectionIncomeStatement, regexp.MustCompile(`^매출액$|^매출$|^수익\s*\(매출액\)$|^영업\s*수익$|^수익$`)},
	{domain.KeyCostOfSales, domain.SectionIncomeStatement, regexp.MustCompile(`매출\s*원가`)},
	{domain.KeyGrossProfit, domain.SectionIncomeStatement, regexp.MustCompile(`매출\s*총이익|매출\s*총\s*손익`)},
	{domain.KeyOperatingIncome, domain.SectionIncomeStatement, regexp.MustCompile(`영업\s*이익|영업\s*손익`)},
	{domain.KeyNetIncome, domain.SectionIncomeStatement, regexp.MustCompile(`당기\s*순이익|당기순이익|당기\s*순\s*손익`)},
	{domain.KeyInterestExpense, domain.SectionIncomeStatement, regexp.MustCompile(`이자\s*비용`)},

	// Comprehensive income statement carries the same income lines for
	// filers that skip a standalone income statement.
	{domain.KeyRevenue, domain.SectionComprehensiveIncome, regexp.MustCompile(`^매출액$|^매출$|^수익\s*\(매출액\)$|^영업\s*수익$|^수익$`)},
	{domain.KeyCostOfSales, domain.SectionComprehensiveIncome, regexp.MustCompile(`매출\s*원가`)},
	{domain.KeyGrossProfit, domain.SectionComprehensiveIncome, regexp.MustCompile(`매출\s*총이익|매출\s*총\s*손익`)},
	{domain.KeyOperatingIncome, domain.SectionComprehensiveIncome, regexp.MustCompile(`영업\s*이익|영업\s*손익`)},
	{domain.KeyNetIncome, domain.SectionComprehensiveIncome, regexp.MustCompile(`당기\s*순이익|당기순이익|당기\s*순\s*손익`)},
	{domain.KeyInterestExpense, domain.SectionComprehensiveIncome, regexp.MustCompile(`이자\s*비용`)},

	// Cash flow statement, depreciation and amortization
	{domain.KeyDepreciation, domain.SectionCashFlow, regexp.MustCompile(`유형\s*자산\s*감가\s*상각비|감가\s*상각비`)},
	{domain.KeyAmortization, domain.SectionCashFlow, regexp.MustCompile(`무형\s*자산\s*상각비|무형자산상각비`)},
}

// Rules returns the priority-ordered rule table. Exposed for tests and
// documentation tooling; the slice must not be mutated.
func Rules() []Rule {
	return rules
}
