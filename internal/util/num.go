package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reDotGroups   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reCommaGroups = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParseNumber reads a quantity or price cell tolerant of thousands
// separators and comma decimals ("1 234,50", "1,234.56", "12.000").
// Returns nil when the cell holds no parseable number.
func ParseNumber(input string) *float64 {
	token := strings.TrimSpace(strings.ReplaceAll(input, "\u00a0", " "))
	if token == "" {
		return nil
	}
	token = strings.TrimPrefix(token, "$")
	token = strings.TrimPrefix(token, "€")
	token = strings.TrimSpace(token)

	parsed, err := strconv.ParseFloat(normalizeNumericToken(token), 64)
	if err != nil {
		return nil
	}
	return FloatPtr(parsed)
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if reDotGroups.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if reCommaGroups.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && strings.Contains(compact, ".") {
		// "1,234.56" style: commas are grouping.
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
