package store

import (
	"database/sql"
	"fmt"

	"github.com/wargadigital/rukem/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, email, name, role, account_status, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.AccountStatus, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. The first account ever created becomes an active
// admin; everyone after that starts as a pending member awaiting approval.
func (s *UserStore) Create(email, name, passwordHash string) (*model.User, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	role := model.RoleMember
	status := model.AccountPending
	if count == 0 {
		role = model.RoleAdmin
		status = model.AccountActive
	}

	result, err := s.db.Exec(
		`INSERT INTO users (email, name, password_hash, role, account_status) VALUES (?, ?, ?, ?, ?)`,
		email, name, passwordHash, role, status,
	)
	if err != nil {
		return nil, translateConstraint(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetPasswordHash returns the stored bcrypt hash for an email, or "" when
// the user does not exist.
func (s *UserStore) GetPasswordHash(email string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

func (s *UserStore) SetPasswordHash(email, passwordHash string) error {
	result, err := s.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		passwordHash, email,
	)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending returns accounts awaiting admin approval.
func (s *UserStore) ListPending() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users WHERE account_status = 'pending' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query pending users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetAccountStatus approves or rejects a pending account. The conditional
// update keeps the decision one-way.
func (s *UserStore) SetAccountStatus(id int64, status model.AccountStatus) (*model.User, error) {
	result, err := s.db.Exec(
		`UPDATE users SET account_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND account_status = 'pending'`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set account status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		existing, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrNotPending
	}
	return s.GetByID(id)
}

// ListAdmins returns active admin and operator accounts, the recipients of
// workflow push notifications.
func (s *UserStore) ListAdmins() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users
		WHERE account_status = 'active' AND role IN ('admin', 'operator')
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
