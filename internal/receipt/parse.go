// Package receipt derives a best-effort transaction suggestion from freeform
// receipt text. Everything here is heuristic: a missing amount is a nil
// pointer for manual entry, a missing date falls back to the upload time.
package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/entity"
)

var (
	// Currency-tagged amount: rs/rs./inr/₹ marker, grouped thousands with
	// comma or space, up to two decimals.
	reCurrency = regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([0-9]+(?:[, ][0-9]{2,3})*(?:\.[0-9]{1,2})?)`)

	reDate = regexp.MustCompile(`\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}[/.\-]\d{1,2}[/.\-]\d{1,2}`)
)

// Keywords marking the payable total. Lines carrying "subtotal" or
// "total price" are never totals even though they contain "total".
var finalAmountKeywords = []string{
	"grand total",
	"net amount",
	"amount due",
	"balance due",
	"payable",
	"total",
	"final",
}

// Suggest extracts an amount and date from receipt text. The type is always
// expense and the category the default; receipts carry neither.
func Suggest(text string, now time.Time) entity.FieldSuggestion {
	return entity.FieldSuggestion{
		Type:     constants.Expense,
		Amount:   parseAmount(text),
		Date:     parseDate(text, now),
		Category: constants.DefaultCategory,
	}
}

// parseAmount prefers an amount on a final-keyword line; failing that it
// takes the last currency-tagged amount in document order, the usual position
// of the payable total on printed receipts. nil means no candidate at all.
func parseAmount(text string) *float64 {
	for _, line := range strings.Split(text, "\n") {
		low := strings.ToLower(line)
		if strings.Contains(low, "subtotal") || strings.Contains(low, "total price") {
			continue
		}
		if !containsAny(low, finalAmountKeywords) {
			continue
		}
		if v, ok := pickAmount(line); ok {
			return &v
		}
	}

	matches := reCurrency.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	if v, ok := parseDecimal(matches[len(matches)-1][1]); ok {
		return &v
	}
	return nil
}

func pickAmount(line string) (float64, bool) {
	m := reCurrency.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return parseDecimal(m[1])
}

func parseDecimal(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var receiptDateLayouts = []string{"1/2/2006", "2/1/2006", "1/2/06", "2/1/06", "2006/1/2"}

// parseDate takes the first date-looking substring, normalizes separators and
// parses it month-first, then day-first. Unparseable or absent dates fall
// back to now.
func parseDate(text string, now time.Time) time.Time {
	raw := reDate.FindString(text)
	if raw == "" {
		return now
	}
	s := strings.NewReplacer("-", "/", ".", "/").Replace(raw)
	for _, layout := range receiptDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return now
}
