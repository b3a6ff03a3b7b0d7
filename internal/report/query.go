package report

import (
	"strconv"
	"strings"
	"unicode"

	"finbot/internal/core"
)

// ParseQuery turns a raw search token into a SearchFilter.
//
// Recognized forms, checked in order:
//
//	"еда:expense"  -> text "еда", kind expense ("расход" also maps to expense,
//	                  any other suffix means income)
//	"5000-10000"   -> inclusive amount range, no text filter
//	"50000"        -> exact amount widened to ±1%, no text filter
//	anything else  -> the whole token is the text filter
func ParseQuery(query string) core.SearchFilter {
	query = strings.TrimSpace(query)
	var f core.SearchFilter

	if strings.Contains(query, ":") {
		parts := strings.SplitN(query, ":", 2)
		f.Text = strings.TrimSpace(parts[0])
		suffix := strings.TrimSpace(parts[1])
		if suffix == "expense" || suffix == "расход" {
			f.Kind = core.KindExpense
		} else {
			f.Kind = core.KindIncome
		}
		return f
	}

	if min, max, ok := parseAmountRange(query); ok {
		f.MinAmount = &min
		f.MaxAmount = &max
		return f
	}

	if amount, ok := parseExactAmount(query); ok {
		min := amount * 0.99
		max := amount * 1.01
		f.MinAmount = &min
		f.MaxAmount = &max
		return f
	}

	f.Text = query
	return f
}

func parseAmountRange(query string) (min, max float64, ok bool) {
	if query == "" || !unicode.IsDigit(rune(query[0])) || !strings.Contains(query, "-") {
		return 0, 0, false
	}
	parts := strings.Split(query, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, errMin := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, errMax := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errMin != nil || errMax != nil {
		return 0, 0, false
	}
	return min, max, true
}

func parseExactAmount(query string) (float64, bool) {
	normalized := strings.ReplaceAll(query, ",", ".")
	stripped := strings.ReplaceAll(normalized, ".", "")
	if stripped == "" {
		return 0, false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
