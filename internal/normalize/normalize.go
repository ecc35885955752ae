// Package normalize maps raw OpenDART account lines onto the fixed
// canonical key schema. Matching walks an ordered rule table with
// first-match-wins semantics: once a key is resolved it never changes,
// and the declaration order of rules is the only tie-break between
// overlapping patterns.
package normalize

import (
	"strconv"
	"strings"

	"dartcli/pkg/contracts/domain"
)

// Normalize builds a CanonicalItemSet from raw statement line items.
// It never fails: unmatched items are ignored, unparseable amounts
// become nil. Each canonical key is populated by at most one raw item.
func Normalize(items []domain.RawLineItem) domain.CanonicalItemSet {
	result := make(domain.CanonicalItemSet)
	matched := make(map[domain.StandardKey]bool, len(rules))

	for _, item := range items {
		name := strings.TrimSpace(item.AccountName)
		if name == "" {
			continue
		}
		section := domain.StatementSection(strings.TrimSpace(string(item.Section)))

		for _, rule := range rules {
			if matched[rule.Key] {
				continue
			}
			if rule.Section != "" && rule.Section != section {
				continue
			}
			if !rule.Pattern.MatchString(name) {
				continue
			}
			result[rule.Key] = domain.PeriodAmounts{
				Current:  ParseAmount(item.CurrentAmount),
				Prior:    ParseAmount(item.PriorAmount),
				TwoPrior: ParseAmount(item.TwoPriorAmount),
			}
			matched[rule.Key] = true
			break
		}
	}

	return result
}

// ParseAmount parses a DART amount string. Thousands separators and
// whitespace are stripped; an empty string or a bare "-" placeholder
// parses to nil, and so does any other non-numeric text. Parsing never
// fails hard.
func ParseAmount(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &value
}
