package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountFamilies are tried in order; the first family producing a parseable
// candidate decides the amount.
var amountFamilies = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total:?\s*\$?\d+\.?\d{0,2}`),
	regexp.MustCompile(`(?i)amount:?\s*\$?\d+\.?\d{0,2}`),
	regexp.MustCompile(`\$?\d+\.?\d{0,2}`),
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Amount returns the most plausible total in text formatted with two decimal
// places, or an empty string when no candidate is found.
//
// Receipts list item prices alongside the total, so the largest value of the
// most specific matching family is taken.
func Amount(text string) string {
	for _, family := range amountFamilies {
		best, ok := maxCandidate(family.FindAllString(text, -1))
		if ok {
			return best.StringFixed(2)
		}
	}
	return ""
}

func maxCandidate(matches []string) (decimal.Decimal, bool) {
	var (
		best  decimal.Decimal
		found bool
	)
	for _, m := range matches {
		value, ok := parseCandidate(m)
		if !ok {
			continue
		}
		if !found || value.GreaterThan(best) {
			best = value
			found = true
		}
	}
	return best, found
}

// parseCandidate strips everything except digits and periods and parses the rest.
func parseCandidate(match string) (decimal.Decimal, bool) {
	s := nonNumeric.ReplaceAllString(match, "")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
