package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/wargadigital/rukem/internal/database"
	"github.com/wargadigital/rukem/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Ensure foreign keys are enforced (modernc/sqlite may not honor DSN param for :memory:)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMember(no string) *model.Member {
	return &model.Member{
		MemberNo:       no,
		FamilyCardNo:   "3201" + no,
		NationalIDNo:   "3202" + no,
		HeadOfFamily:   "Kepala " + no,
		BirthPlace:     "Bogor",
		BirthDate:      "1970-01-01",
		Gender:         "L",
		Religion:       "Islam",
		MaritalStatus:  "Kawin",
		Occupation:     "Petani",
		Education:      "SMA",
		Address:        "Jl. Anggrek No. 1",
		RT:             "01",
		RW:             "03",
		Village:        "Sukamaju",
		District:       "Cibinong",
		City:           "Bogor",
		Province:       "Jawa Barat",
		PostalCode:     "16911",
		Phone:          "0812000" + no,
		RegisteredDate: "2020-01-01",
	}
}

func TestMemberCreateSeedsStatus(t *testing.T) {
	db := openTestDB(t)
	s := NewMemberStore(db)

	m, err := s.Create(testMember("001"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if m.Deceased {
		t.Error("new member should not be deceased")
	}

	status, err := s.GetStatus(m.ID)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status == nil {
		t.Fatal("expected seeded membership status")
	}
	if !status.Registered || status.Status != model.MembershipActive {
		t.Errorf("seeded status = %+v, want registered active", status)
	}
}

func TestMemberCreateDuplicateNo(t *testing.T) {
	db := openTestDB(t)
	s := NewMemberStore(db)

	if _, err := s.Create(testMember("001")); err != nil {
		t.Fatalf("create member: %v", err)
	}
	_, err := s.Create(testMember("001"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMemberGetByIDMissing(t *testing.T) {
	db := openTestDB(t)
	s := NewMemberStore(db)

	m, err := s.GetByID(999)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil for missing member, got %+v", m)
	}
}

func TestMemberUpdate(t *testing.T) {
	db := openTestDB(t)
	s := NewMemberStore(db)

	m, err := s.Create(testMember("001"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	m.HeadOfFamily = "Nama Baru"
	m.Phone = "0813999"
	updated, err := s.Update(m.ID, m)
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if updated.HeadOfFamily != "Nama Baru" {
		t.Errorf("head of family = %q, want Nama Baru", updated.HeadOfFamily)
	}
}

func TestDeceasedMemberIsImmutable(t *testing.T) {
	db := openTestDB(t)
	members := NewMemberStore(db)
	deaths := NewDeathRecordStore(db)

	m, err := members.Create(testMember("001"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := deaths.Create(&model.DeathRecord{MemberID: m.ID, DateOfDeath: "2025-06-01"}); err != nil {
		t.Fatalf("create death record: %v", err)
	}

	if _, err := members.Update(m.ID, m); !errors.Is(err, ErrDeceasedImmutable) {
		t.Errorf("update: expected ErrDeceasedImmutable, got %v", err)
	}
	if err := members.Delete(m.ID); !errors.Is(err, ErrDeceasedImmutable) {
		t.Errorf("delete: expected ErrDeceasedImmutable, got %v", err)
	}
	if _, err := members.UpdateStatus(m.ID, true, model.MembershipActive, model.DuesMonthly, model.DuesCurrent, "2020-01-01"); !errors.Is(err, ErrDeceasedImmutable) {
		t.Errorf("update status: expected ErrDeceasedImmutable, got %v", err)
	}

	got, err := members.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if !got.Deceased {
		t.Error("member should be flagged deceased")
	}
}

func TestListActiveExcludesDeceasedAndExited(t *testing.T) {
	db := openTestDB(t)
	members := NewMemberStore(db)
	deaths := NewDeathRecordStore(db)

	alive, err := members.Create(testMember("001"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	dead, err := members.Create(testMember("002"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := deaths.Create(&model.DeathRecord{MemberID: dead.ID, DateOfDeath: "2025-06-01"}); err != nil {
		t.Fatalf("create death record: %v", err)
	}

	exited := testMember("003")
	exited.Exited = true
	if _, err := members.Create(exited); err != nil {
		t.Fatalf("create member: %v", err)
	}

	active, err := members.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active member, got %d", len(active))
	}
	if active[0].ID != alive.ID {
		t.Errorf("active member id = %d, want %d", active[0].ID, alive.ID)
	}
}

func TestCountActive(t *testing.T) {
	db := openTestDB(t)
	s := NewMemberStore(db)

	for i := 1; i <= 3; i++ {
		m := testMember(fmt.Sprintf("%03d", i))
		if i == 3 {
			m.Exited = true
		}
		if _, err := s.Create(m); err != nil {
			t.Fatalf("create member: %v", err)
		}
	}

	n, err := s.CountActive()
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if n != 2 {
		t.Errorf("active count = %d, want 2", n)
	}
}

func TestUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	s := NewMemberStore(db)

	m, err := s.Create(testMember("001"))
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	status, err := s.UpdateStatus(m.ID, true, model.MembershipActive, model.DuesPerIncident, model.DuesDelinquent, "2021-05-01")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if status.DuesType != model.DuesPerIncident {
		t.Errorf("dues type = %q, want per_incident", status.DuesType)
	}
	if status.DuesStanding != model.DuesDelinquent {
		t.Errorf("dues standing = %q, want delinquent", status.DuesStanding)
	}

	if _, err := s.UpdateStatus(999, true, model.MembershipActive, model.DuesMonthly, model.DuesCurrent, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing member, got %v", err)
	}
}
