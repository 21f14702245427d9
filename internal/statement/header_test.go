package statement

import (
	"errors"
	"strings"
	"testing"
)

func TestDetectHeaderSynonymsAndDelimiters(t *testing.T) {
	labelSets := [][]string{
		{"Date", "Type", "Category", "Description", "Amount"},
		{"DATE", "TYPE", "CATEGORY", "DESCRIPTION", "AMOUNT"},
		{"date", "type", "cat", "desc", "amt"},
		{"Date", "Type", "Cat.", "Desc.", "Amt."},
	}
	delimiters := map[string]string{
		"tabs":   "\t",
		"spaces": "   ",
		"commas": ",",
	}

	for _, labels := range labelSets {
		for name, delim := range delimiters {
			t.Run(strings.Join(labels, "_")+"/"+name, func(t *testing.T) {
				lines := []string{
					"Acme Bank statement export",
					strings.Join(labels, delim),
					"ignored",
				}
				hm, err := DetectHeader(lines)
				if err != nil {
					t.Fatalf("DetectHeader: %v", err)
				}
				if hm.Line != 1 {
					t.Errorf("header line = %d, want 1", hm.Line)
				}
				for pos, role := range roleOrder {
					if got := hm.index[role]; got != pos {
						t.Errorf("role %s mapped to column %d, want %d", role, got, pos)
					}
				}
			})
		}
	}
}

func TestDetectHeaderGlued(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"concatenated", "DateTypeCategoryDescriptionAmount"},
		{"single spaces", "Date Type Category Description Amount"},
		{"synonyms", "DateTypeCatDescAmt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm, err := DetectHeader([]string{"preamble", tt.line})
			if err != nil {
				t.Fatalf("DetectHeader: %v", err)
			}
			if hm.Line != 1 || !hm.glued() {
				t.Errorf("got line=%d glued=%v, want glued header at line 1", hm.Line, hm.glued())
			}
		})
	}
}

func TestDetectHeaderExtraColumnsTolerated(t *testing.T) {
	hm, err := DetectHeader([]string{"No.\tDate\tType\tCategory\tDescription\tAmount\tBalance"})
	if err != nil {
		t.Fatalf("DetectHeader: %v", err)
	}
	if got := hm.index[roleDate]; got != 1 {
		t.Errorf("date column = %d, want 1", got)
	}
	if got := hm.index[roleAmount]; got != 5 {
		t.Errorf("amount column = %d, want 5", got)
	}
}

func TestDetectHeaderMissingColumns(t *testing.T) {
	_, err := DetectHeader([]string{"Date\tType\tAmount"})
	var mce *MissingColumnsError
	if !errors.As(err, &mce) {
		t.Fatalf("error = %v, want MissingColumnsError", err)
	}
	want := "missing columns: category, description"
	if mce.Error() != want {
		t.Errorf("Error() = %q, want %q", mce.Error(), want)
	}
}

func TestDetectHeaderNotFound(t *testing.T) {
	lines := []string{
		"Monthly summary for August",
		"Opening balance,1000.00",
		"Closing balance,1200.00",
	}
	if _, err := DetectHeader(lines); !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("error = %v, want ErrHeaderNotFound", err)
	}
}

func TestNormalizeLines(t *testing.T) {
	text := "First line\r\n\n  second line  \r\n\t\n"
	got := normalizeLines(text)
	want := []string{"First line", "second line"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
