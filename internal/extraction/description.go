package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// FallbackDescription is used when no line looks like a merchant name
const FallbackDescription = "Receipt transaction"

// MerchantWindow is how many leading lines are searched for a merchant name
const MerchantWindow = 5

var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z][A-Za-z\s&]+)$`),
	regexp.MustCompile(`([A-Z][A-Za-z\s&]{3,})`),
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Description guesses a merchant or description from receipt lines. It never
// returns an empty string.
func Description(lines Lines) string {
	if name, ok := ScanWindow(lines, MerchantWindow); ok {
		return name
	}
	if line, ok := FirstMeaningfulLine(lines); ok {
		return line
	}
	return FallbackDescription
}

// ScanWindow looks for a merchant-like run of capitalized words in the first
// limit lines. The first acceptable match wins.
func ScanWindow(lines Lines, limit int) (string, bool) {
	if limit > len(lines) {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		for _, pattern := range merchantPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if utf8.RuneCountInString(m[1]) > 3 && !strings.Contains(m[1], "$") {
				return strings.TrimSpace(m[1]), true
			}
		}
	}
	return "", false
}

// FirstMeaningfulLine returns the first line, searching all lines, that is not
// a price, a bare number or a "receipt" header.
func FirstMeaningfulLine(lines Lines) (string, bool) {
	for _, line := range lines {
		if utf8.RuneCountInString(line) <= 3 {
			continue
		}
		if strings.Contains(line, "$") || digitsOnly.MatchString(line) {
			continue
		}
		if strings.Contains(strings.ToLower(line), "receipt") {
			continue
		}
		return line, true
	}
	return "", false
}
