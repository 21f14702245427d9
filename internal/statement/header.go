package statement

import (
	"errors"
	"regexp"
	"strings"
)

// Column roles a statement header must provide.
const (
	roleDate        = "date"
	roleType        = "type"
	roleCategory    = "category"
	roleDescription = "description"
	roleAmount      = "amount"
)

var roleOrder = []string{roleDate, roleType, roleCategory, roleDescription, roleAmount}

// Accepted header labels after normalization.
var roleSynonyms = map[string]string{
	"date":        roleDate,
	"type":        roleType,
	"category":    roleCategory,
	"cat":         roleCategory,
	"description": roleDescription,
	"desc":        roleDescription,
	"amount":      roleAmount,
	"amt":         roleAmount,
}

// ErrHeaderNotFound is returned when no line looks like a statement header.
var ErrHeaderNotFound = errors.New("header not found")

// MissingColumnsError is returned when a line is clearly a header attempt but
// does not carry all five required columns.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

// tokenizer identifies how a line is split into columns. The same strategy
// that matched the header is reused for every data row beneath it.
type tokenizer int

const (
	splitTabs tokenizer = iota
	splitSpaces
	splitCommas
	splitGlued
)

var (
	reTwoSpaces = regexp.MustCompile(` {2,}`)
	reSpaceRun  = regexp.MustCompile(`\s+`)

	// A header with no delimiter at all: the labels (with synonyms) glued
	// together once everything but letters is stripped.
	reGluedHeader = regexp.MustCompile(`^datetype(?:category|cat)(?:description|desc)(?:amount|amt)$`)
)

// HeaderMapping locates the header line and maps column roles to positions in
// a tokenized row. For glued headers there are no positions; rows are parsed
// by pattern instead.
type HeaderMapping struct {
	Line     int
	strategy tokenizer
	index    map[string]int
}

func (h HeaderMapping) glued() bool { return h.strategy == splitGlued }

// normalizeLines prepares extracted text for header detection: CR stripped,
// non-breaking spaces mapped to plain spaces, lines trimmed, empties dropped.
// Tab and multi-space runs inside a line survive because they are delimiters.
func normalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, " ", " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// pickTokenizer returns the first applicable delimiter strategy for a line,
// in priority order: tabs, runs of two or more spaces, commas. When none is
// present the line is a glued candidate.
func pickTokenizer(line string) (tokenizer, bool) {
	switch {
	case strings.Contains(line, "\t"):
		return splitTabs, true
	case reTwoSpaces.MatchString(line):
		return splitSpaces, true
	case strings.Contains(line, ","):
		return splitCommas, true
	}
	return splitGlued, false
}

// tokenize splits a line with the given strategy, preserving positions so
// empty cells keep their column index. Tokens are trimmed and inner space
// runs collapsed.
func tokenize(line string, strat tokenizer) []string {
	var parts []string
	switch strat {
	case splitTabs:
		parts = strings.Split(line, "\t")
	case splitSpaces:
		parts = reTwoSpaces.Split(line, -1)
	case splitCommas:
		parts = strings.Split(line, ",")
	default:
		return []string{line}
	}
	for i, p := range parts {
		parts[i] = reSpaceRun.ReplaceAllString(strings.TrimSpace(p), " ")
	}
	return parts
}

// normalizeToken lowercases a token and strips everything but letters.
func normalizeToken(tok string) string {
	return strings.Map(func(r rune) rune {
		if r < 'a' || r > 'z' {
			return -1
		}
		return r
	}, strings.ToLower(tok))
}

// DetectHeader scans top to bottom for the first line whose tokens cover all
// five column roles. If no line qualifies but some line carried at least
// three roles, the error names the columns that line was missing; otherwise
// ErrHeaderNotFound.
func DetectHeader(lines []string) (HeaderMapping, error) {
	bestFound := 0
	var bestMissing []string

	for i, line := range lines {
		strat, delimited := pickTokenizer(line)
		if !delimited {
			if reGluedHeader.MatchString(normalizeToken(line)) {
				return HeaderMapping{Line: i, strategy: splitGlued}, nil
			}
			continue
		}

		index := make(map[string]int)
		for pos, tok := range tokenize(line, strat) {
			role, ok := roleSynonyms[normalizeToken(tok)]
			if !ok {
				continue
			}
			if _, dup := index[role]; !dup {
				index[role] = pos
			}
		}
		if len(index) == len(roleOrder) {
			return HeaderMapping{Line: i, strategy: strat, index: index}, nil
		}
		if len(index) > bestFound {
			bestFound = len(index)
			bestMissing = missingRoles(index)
		}
	}

	if bestFound >= 3 {
		return HeaderMapping{}, &MissingColumnsError{Missing: bestMissing}
	}
	return HeaderMapping{}, ErrHeaderNotFound
}

func missingRoles(index map[string]int) []string {
	var missing []string
	for _, role := range roleOrder {
		if _, ok := index[role]; !ok {
			missing = append(missing, role)
		}
	}
	return missing
}
