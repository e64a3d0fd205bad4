package store

import (
	"testing"
	"time"
)

func newSessionFixture(t *testing.T) (*UserStore, *SessionStore, int64) {
	t.Helper()
	db := openTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db)

	u, err := users.Create("admin@example.com", "Admin", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return users, sessions, u.ID
}

func TestSessionCreateAndGet(t *testing.T) {
	_, sessions, userID := newSessionFixture(t)

	sess, err := sessions.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil || got.UserID != userID {
		t.Fatalf("got %+v, want session for user %d", got, userID)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	_, sessions, _ := newSessionFixture(t)

	got, err := sessions.GetByToken("no-such-token")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown token, got %+v", got)
	}
}

func TestSessionDelete(t *testing.T) {
	_, sessions, userID := newSessionFixture(t)

	sess, err := sessions.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := sessions.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Error("expected session to be gone after delete")
	}
}

func TestSessionExpiry(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db)

	u, err := users.Create("admin@example.com", "Admin", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := sessions.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Force the session into the past
	if _, err := db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`,
		time.Now().Add(-time.Hour).UTC(), sess.ID); err != nil {
		t.Fatalf("expire session: %v", err)
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Error("expected nil for expired session")
	}

	n, err := sessions.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
}
