package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/wargadigital/rukem/internal/model"
)

const resetTTL = 15 * time.Minute

type PasswordResetStore struct {
	db *sql.DB
}

func NewPasswordResetStore(db *sql.DB) *PasswordResetStore {
	return &PasswordResetStore{db: db}
}

// Create issues a 6-digit reset code for the email.
func (s *PasswordResetStore) Create(email string) (*model.PasswordReset, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	expiresAt := time.Now().Add(resetTTL).UTC()

	result, err := s.db.Exec(
		`INSERT INTO password_resets (email, code, expires_at) VALUES (?, ?, ?)`,
		email, code, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert password reset: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &model.PasswordReset{
		ID:        id,
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GetLatestByEmail returns the newest unused, unexpired code for the email.
func (s *PasswordResetStore) GetLatestByEmail(email string) (*model.PasswordReset, error) {
	var pr model.PasswordReset
	err := s.db.QueryRow(
		`SELECT id, email, code, expires_at, used_at, attempts, created_at
		FROM password_resets
		WHERE email = ? AND used_at IS NULL AND expires_at > ?
		ORDER BY created_at DESC LIMIT 1`,
		email, time.Now().UTC(),
	).Scan(&pr.ID, &pr.Email, &pr.Code, &pr.ExpiresAt, &pr.UsedAt, &pr.Attempts, &pr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get password reset: %w", err)
	}
	return &pr, nil
}

func (s *PasswordResetStore) IncrementAttempts(id int64) (int, error) {
	if _, err := s.db.Exec(`UPDATE password_resets SET attempts = attempts + 1 WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	var attempts int
	if err := s.db.QueryRow(`SELECT attempts FROM password_resets WHERE id = ?`, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("get attempts: %w", err)
	}
	return attempts, nil
}

func (s *PasswordResetStore) MarkUsed(id int64) error {
	if _, err := s.db.Exec(`UPDATE password_resets SET used_at = ? WHERE id = ?`, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark used: %w", err)
	}
	return nil
}

// DeleteExpired removes stale reset codes.
func (s *PasswordResetStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM password_resets WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired resets: %w", err)
	}
	return result.RowsAffected()
}
