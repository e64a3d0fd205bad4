package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/model"
)

func appendEntry(t *testing.T, s *LedgerStore, direction model.Direction, category model.LedgerCategory, date string, amount int64) *model.LedgerEntry {
	t.Helper()
	e, err := s.Append(&model.LedgerEntry{
		Direction: direction,
		Category:  category,
		EntryDate: date,
		Memo:      "test entry",
		Amount:    decimal.NewFromInt(amount),
		Source:    "manual",
		CreatedBy: "Bendahara",
	})
	if err != nil {
		t.Fatalf("append entry: %v", err)
	}
	return e
}

func TestLedgerAppendAndGet(t *testing.T) {
	db := openTestDB(t)
	s := NewLedgerStore(db)

	e := appendEntry(t, s, model.DirectionIn, model.CategoryDues, "2025-03-01", 50000)
	if e.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if e.BalanceSnapshot != nil {
		t.Error("manual entries should not carry a balance snapshot")
	}

	got, err := s.GetByID(e.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if got == nil || !got.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("got %+v, want amount 50000", got)
	}
}

func TestLedgerSummaryDerivesBalance(t *testing.T) {
	db := openTestDB(t)
	s := NewLedgerStore(db)

	appendEntry(t, s, model.DirectionIn, model.CategoryDues, "2025-01-05", 100000)
	appendEntry(t, s, model.DirectionIn, model.CategoryDonation, "2025-02-05", 250000)
	appendEntry(t, s, model.DirectionOut, model.CategoryBenefitPayout, "2025-02-10", 150000)

	// A stale snapshot must not influence the derived balance
	wrong := decimal.NewFromInt(9999999)
	if _, err := s.Append(&model.LedgerEntry{
		Direction:       model.DirectionIn,
		Category:        model.CategoryOther,
		EntryDate:       "2025-03-01",
		Amount:          decimal.NewFromInt(1000),
		BalanceSnapshot: &wrong,
		Source:          "import",
		CreatedBy:       "importer",
	}); err != nil {
		t.Fatalf("append imported entry: %v", err)
	}

	summary, err := s.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.TotalIn.Equal(decimal.NewFromInt(351000)) {
		t.Errorf("total in = %s, want 351000", summary.TotalIn)
	}
	if !summary.TotalOut.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("total out = %s, want 150000", summary.TotalOut)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(201000)) {
		t.Errorf("balance = %s, want 201000", summary.Balance)
	}
}

func TestLedgerMonthlyGrouping(t *testing.T) {
	db := openTestDB(t)
	s := NewLedgerStore(db)

	now := time.Now()
	thisMonth := now.Format("2006-01") + "-05"
	lastMonth := now.AddDate(0, -1, 0).Format("2006-01") + "-10"

	appendEntry(t, s, model.DirectionIn, model.CategoryDues, lastMonth, 50000)
	appendEntry(t, s, model.DirectionIn, model.CategoryDues, thisMonth, 50000)
	appendEntry(t, s, model.DirectionOut, model.CategoryOperational, thisMonth, 20000)

	months, err := s.Monthly(6)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}

	last := months[len(months)-1]
	if last.Month != now.Format("2006-01") {
		t.Errorf("last month = %q, want %q", last.Month, now.Format("2006-01"))
	}
	if !last.TotalIn.Equal(decimal.NewFromInt(50000)) || !last.TotalOut.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("this month totals = in %s out %s", last.TotalIn, last.TotalOut)
	}
}

func TestCountByCategory(t *testing.T) {
	db := openTestDB(t)
	s := NewLedgerStore(db)

	appendEntry(t, s, model.DirectionIn, model.CategoryDues, "2025-03-01", 50000)
	appendEntry(t, s, model.DirectionIn, model.CategoryDues, "2025-04-01", 50000)
	appendEntry(t, s, model.DirectionOut, model.CategoryBenefitPayout, "2025-04-10", 150000)

	n, err := s.CountByCategory(model.CategoryDues)
	if err != nil {
		t.Fatalf("count by category: %v", err)
	}
	if n != 2 {
		t.Errorf("dues count = %d, want 2", n)
	}
}
