package export

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/entity"
)

type stubRepo struct {
	rows     []entity.Transaction
	lastFrom *time.Time
	lastTo   *time.Time
}

func (s *stubRepo) InsertBatch(_ context.Context, txs []entity.Transaction) error {
	s.rows = append(s.rows, txs...)
	return nil
}

func (s *stubRepo) List(_ context.Context, from, to *time.Time) ([]entity.Transaction, error) {
	s.lastFrom, s.lastTo = from, to
	return s.rows, nil
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestExportXLSX(t *testing.T) {
	repo := &stubRepo{rows: []entity.Transaction{
		{Date: day("2025-08-01"), Type: constants.Income, Category: "Salary", Description: "Monthly salary", Amount: 3000, Source: constants.SourcePDF},
		{Date: day("2025-08-02"), Type: constants.Expense, Category: "Food", Description: "Lunch", Amount: 250.50, Source: constants.SourceManual},
	}}
	svc := NewService(repo, slog.Default())

	out, err := svc.ExportXLSX(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][4] != "Amount" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2025-08-01" || rows[1][1] != "income" || rows[1][2] != "Salary" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][3] != "Lunch" || rows[2][5] != "manual" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestExportXLSXDefaultsToRange(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, slog.Default())

	from := day("2025-08-01")
	if _, err := svc.ExportXLSX(context.Background(), &from, nil); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}
	if repo.lastFrom == nil || !repo.lastFrom.Equal(from) {
		t.Errorf("from = %v, want %v", repo.lastFrom, from)
	}
	if repo.lastTo == nil {
		t.Error("to = nil, want today filled in")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 140); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	if got := truncate(string(long), 140); len([]rune(got)) != 140 {
		t.Errorf("truncated length = %d, want 140", len([]rune(got)))
	}
}
