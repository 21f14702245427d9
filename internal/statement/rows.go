package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/entity"
)

var (
	reTotalLine = regexp.MustCompile(`(?i)^total\b`)

	// Glued row: ISO date, then the type, then category/description/amount
	// run together, e.g. "2025-08-01incomeSalaryMonthly salary3000".
	reGluedRow      = regexp.MustCompile(`(?i)^(\d{4}-\d{2}-\d{2})\s*(income|expense)\s*(.*)$`)
	reTrailingValue = regexp.MustCompile(`(-?\d{1,3}(?:,\d{3})*(?:\.\d+)?|-?\d+(?:\.\d+)?)$`)
)

// ParseRows converts the lines beneath the header into validated
// transactions, re-tokenizing each line with the header's strategy. Malformed
// lines and summary lines are skipped, never fatal: one bad row must not sink
// the rest of the statement.
func ParseRows(lines []string, hm HeaderMapping) []entity.Transaction {
	var rows []entity.Transaction
	for _, line := range lines {
		if line == "" || reTotalLine.MatchString(line) {
			continue
		}
		var (
			row entity.Transaction
			ok  bool
		)
		if hm.glued() {
			row, ok = parseGluedRow(line)
		} else {
			row, ok = parseDelimitedRow(line, hm)
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func parseDelimitedRow(line string, hm HeaderMapping) (entity.Transaction, bool) {
	toks := tokenize(line, hm.strategy)
	cell := func(role string) string {
		pos, ok := hm.index[role]
		if !ok || pos < 0 || pos >= len(toks) {
			return ""
		}
		return toks[pos]
	}

	dateStr := cell(roleDate)
	typeStr := cell(roleType)
	category := cell(roleCategory)
	amountStr := cell(roleAmount)
	if dateStr == "" || typeStr == "" || category == "" || amountStr == "" {
		return entity.Transaction{}, false
	}

	date, err := parseRowDate(dateStr)
	if err != nil {
		return entity.Transaction{}, false
	}
	txType, ok := constants.ParseTxType(typeStr)
	if !ok {
		return entity.Transaction{}, false
	}
	amount, err := parseRowAmount(amountStr)
	if err != nil {
		return entity.Transaction{}, false
	}

	return entity.Transaction{
		Date:        date,
		Type:        txType,
		Category:    category,
		Description: cell(roleDescription),
		Amount:      amount,
		Source:      constants.SourcePDF,
	}, true
}

// parseGluedRow handles exports where the columns run together. The date and
// type anchor the start, the amount anchors the end, the first remaining
// token is the category and the rest the description.
func parseGluedRow(line string) (entity.Transaction, bool) {
	m := reGluedRow.FindStringSubmatch(line)
	if m == nil {
		return entity.Transaction{}, false
	}

	date, err := parseRowDate(m[1])
	if err != nil {
		return entity.Transaction{}, false
	}
	txType, _ := constants.ParseTxType(m[2])

	tail := strings.TrimSpace(m[3])
	raw := reTrailingValue.FindString(tail)
	if raw == "" {
		return entity.Transaction{}, false
	}
	amount, err := parseRowAmount(raw)
	if err != nil {
		return entity.Transaction{}, false
	}

	tail = strings.TrimSpace(tail[:len(tail)-len(raw)])
	parts := strings.Fields(tail)
	if len(parts) == 0 {
		return entity.Transaction{}, false
	}

	category := titleCase(parts[0])
	if category == "" {
		category = constants.DefaultCategory
	}

	return entity.Transaction{
		Date:        date,
		Type:        txType,
		Category:    category,
		Description: strings.Join(parts[1:], " "),
		Amount:      amount,
		Source:      constants.SourcePDF,
	}, true
}

var rowDateLayouts = []string{"2006/1/2", "1/2/2006", "2/1/2006", "1/2/06"}

// parseRowDate accepts -, . or / separated dates and returns midnight UTC.
func parseRowDate(s string) (time.Time, error) {
	s = strings.NewReplacer("-", "/", ".", "/").Replace(strings.TrimSpace(s))
	var lastErr error
	for _, layout := range rowDateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseRowAmount strips grouping separators and currency markers and parses
// a non-negative decimal.
func parseRowAmount(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range []string{"rs.", "rs", "inr"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '₹', '$', '£', '€':
			return -1
		}
		return r
	}, s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
