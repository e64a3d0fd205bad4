package store

import (
	"errors"
	"testing"

	"github.com/wargadigital/rukem/internal/model"
)

func TestFirstUserBecomesActiveAdmin(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)

	first, err := s.Create("ketua@example.com", "Ketua", "hash1")
	if err != nil {
		t.Fatalf("create first user: %v", err)
	}
	if first.Role != model.RoleAdmin {
		t.Errorf("first user role = %q, want admin", first.Role)
	}
	if first.AccountStatus != model.AccountActive {
		t.Errorf("first user status = %q, want active", first.AccountStatus)
	}

	second, err := s.Create("warga@example.com", "Warga", "hash2")
	if err != nil {
		t.Fatalf("create second user: %v", err)
	}
	if second.Role != model.RoleMember {
		t.Errorf("second user role = %q, want member", second.Role)
	}
	if second.AccountStatus != model.AccountPending {
		t.Errorf("second user status = %q, want pending", second.AccountStatus)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)

	if _, err := s.Create("a@example.com", "A", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.Create("a@example.com", "B", "hash"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccountApprovalIsOneWay(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)

	if _, err := s.Create("admin@example.com", "Admin", "hash"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	pending, err := s.Create("warga@example.com", "Warga", "hash")
	if err != nil {
		t.Fatalf("create pending user: %v", err)
	}

	list, err := s.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(list) != 1 || list[0].ID != pending.ID {
		t.Fatalf("pending list = %+v", list)
	}

	approved, err := s.SetAccountStatus(pending.ID, model.AccountActive)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.AccountStatus != model.AccountActive {
		t.Errorf("status = %q, want active", approved.AccountStatus)
	}

	if _, err := s.SetAccountStatus(pending.ID, model.AccountRejected); !errors.Is(err, ErrNotPending) {
		t.Errorf("second decision: expected ErrNotPending, got %v", err)
	}
	if _, err := s.SetAccountStatus(999, model.AccountActive); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: expected ErrNotFound, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)

	if _, err := s.Create("a@example.com", "A", "hash-one"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	hash, err := s.GetPasswordHash("a@example.com")
	if err != nil {
		t.Fatalf("get hash: %v", err)
	}
	if hash != "hash-one" {
		t.Errorf("hash = %q, want hash-one", hash)
	}

	if err := s.SetPasswordHash("a@example.com", "hash-two"); err != nil {
		t.Fatalf("set hash: %v", err)
	}
	hash, _ = s.GetPasswordHash("a@example.com")
	if hash != "hash-two" {
		t.Errorf("hash = %q, want hash-two", hash)
	}

	// Unknown email reads as empty, writes as not found
	if hash, _ := s.GetPasswordHash("nobody@example.com"); hash != "" {
		t.Errorf("expected empty hash for unknown email, got %q", hash)
	}
	if err := s.SetPasswordHash("nobody@example.com", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAdminsExcludesPendingAndMembers(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)

	admin, err := s.Create("admin@example.com", "Admin", "hash")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	// Second signup is a pending member
	if _, err := s.Create("warga@example.com", "Warga", "hash"); err != nil {
		t.Fatalf("create member: %v", err)
	}

	admins, err := s.ListAdmins()
	if err != nil {
		t.Fatalf("list admins: %v", err)
	}
	if len(admins) != 1 || admins[0].ID != admin.ID {
		t.Fatalf("admins = %+v, want only the first account", admins)
	}
}
