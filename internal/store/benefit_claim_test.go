package store

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/model"
)

// newClaimFixture creates a member with a death record and returns the
// stores plus the death record id.
func newClaimFixture(t *testing.T) (*MemberStore, *DeathRecordStore, *BenefitClaimStore, *LedgerStore, int64) {
	t.Helper()
	db := openTestDB(t)
	members := NewMemberStore(db)
	deaths := NewDeathRecordStore(db)
	claims := NewBenefitClaimStore(db)
	ledger := NewLedgerStore(db)

	m, err := members.Create(testMember("001"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	record, err := deaths.Create(&model.DeathRecord{MemberID: m.ID, DateOfDeath: "2025-06-01"})
	if err != nil {
		t.Fatalf("create death record: %v", err)
	}
	return members, deaths, claims, ledger, record.ID
}

func TestClaimCreate(t *testing.T) {
	_, _, claims, _, deathID := newClaimFixture(t)

	claim, err := claims.Create(deathID, decimal.NewFromInt(1500000))
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if claim.Status != model.ClaimPending {
		t.Errorf("status = %q, want pending", claim.Status)
	}
	if !claim.Amount.Equal(decimal.NewFromInt(1500000)) {
		t.Errorf("amount = %s, want 1500000", claim.Amount)
	}
	if claim.ApprovedBy != nil || claim.ApprovedAt != nil {
		t.Error("new claim should not carry approval stamps")
	}
}

func TestClaimRequiresDeathRecord(t *testing.T) {
	db := openTestDB(t)
	claims := NewBenefitClaimStore(db)

	_, err := claims.Create(999, decimal.NewFromInt(1000000))
	if !errors.Is(err, ErrNoDeathRecord) {
		t.Fatalf("expected ErrNoDeathRecord, got %v", err)
	}
}

func TestClaimRequiresActiveMembership(t *testing.T) {
	members, _, claims, _, deathID := newClaimFixture(t)

	// Demote the membership before claiming. Status updates are blocked for
	// deceased members, so edit the row directly.
	var memberID int64
	if err := members.db.QueryRow(`SELECT member_id FROM death_records WHERE id = ?`, deathID).Scan(&memberID); err != nil {
		t.Fatalf("find member: %v", err)
	}
	if _, err := members.db.Exec(`UPDATE membership_statuses SET status = 'exited' WHERE member_id = ?`, memberID); err != nil {
		t.Fatalf("demote membership: %v", err)
	}

	_, err := claims.Create(deathID, decimal.NewFromInt(1000000))
	if !errors.Is(err, ErrMemberNotActive) {
		t.Fatalf("expected ErrMemberNotActive, got %v", err)
	}
}

func TestClaimOnePerDeathRecord(t *testing.T) {
	_, _, claims, _, deathID := newClaimFixture(t)

	if _, err := claims.Create(deathID, decimal.NewFromInt(1000000)); err != nil {
		t.Fatalf("create claim: %v", err)
	}
	_, err := claims.Create(deathID, decimal.NewFromInt(2000000))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for second claim, got %v", err)
	}
}

func TestApproveWritesOneLedgerEntry(t *testing.T) {
	_, _, claims, ledger, deathID := newClaimFixture(t)

	claim, err := claims.Create(deathID, decimal.NewFromInt(1500000))
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}

	approved, err := claims.Approve(claim.ID, "Bendahara")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.ClaimApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != "Bendahara" {
		t.Errorf("approved_by = %v, want Bendahara", approved.ApprovedBy)
	}
	today := time.Now().UTC().Format("2006-01-02")
	if approved.DisbursedDate == nil || *approved.DisbursedDate != today {
		t.Errorf("disbursed_date = %v, want %s", approved.DisbursedDate, today)
	}

	entries, err := ledger.List()
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 ledger entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Direction != model.DirectionOut {
		t.Errorf("direction = %q, want out", e.Direction)
	}
	if e.Category != model.CategoryBenefitPayout {
		t.Errorf("category = %q, want benefit_payout", e.Category)
	}
	if !e.Amount.Equal(claim.Amount) {
		t.Errorf("amount = %s, want %s", e.Amount, claim.Amount)
	}
	if e.Memo != "Pembayaran santunan - Alm. Kepala 001" {
		t.Errorf("memo = %q", e.Memo)
	}
	if e.Source != "santunan_approval" {
		t.Errorf("source = %q, want santunan_approval", e.Source)
	}
	if e.EntryDate != today {
		t.Errorf("entry_date = %q, want %s", e.EntryDate, today)
	}
}

func TestApproveZeroAmountSkipsLedger(t *testing.T) {
	_, _, claims, ledger, deathID := newClaimFixture(t)

	claim, err := claims.Create(deathID, decimal.Zero)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}

	approved, err := claims.Approve(claim.ID, "Bendahara")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.ClaimApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}

	entries, err := ledger.List()
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no ledger entries for zero amount, got %d", len(entries))
	}
}

func TestApproveTwiceFails(t *testing.T) {
	_, _, claims, ledger, deathID := newClaimFixture(t)

	claim, err := claims.Create(deathID, decimal.NewFromInt(1000000))
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if _, err := claims.Approve(claim.ID, "Bendahara"); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	if _, err := claims.Approve(claim.ID, "Orang Lain"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second approve: expected ErrNotPending, got %v", err)
	}

	// Payout must still appear exactly once
	entries, err := ledger.List()
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 ledger entry, got %d", len(entries))
	}
}

func TestApproveMissingClaim(t *testing.T) {
	db := openTestDB(t)
	claims := NewBenefitClaimStore(db)

	if _, err := claims.Approve(999, "Bendahara"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTotalApprovedInYear(t *testing.T) {
	_, _, claims, _, deathID := newClaimFixture(t)

	claim, err := claims.Create(deathID, decimal.NewFromInt(1500000))
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if _, err := claims.Approve(claim.ID, "Bendahara"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	total, err := claims.TotalApprovedInYear(time.Now().UTC().Year())
	if err != nil {
		t.Fatalf("total approved: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(1500000)) {
		t.Errorf("total = %s, want 1500000", total)
	}

	other, err := claims.TotalApprovedInYear(1999)
	if err != nil {
		t.Fatalf("total approved: %v", err)
	}
	if !other.IsZero() {
		t.Errorf("total for empty year = %s, want 0", other)
	}
}
