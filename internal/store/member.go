package store

import (
	"database/sql"
	"fmt"

	"github.com/wargadigital/rukem/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `m.id, m.member_no, m.family_card_no, m.national_id_no, m.head_of_family,
	m.birth_place, m.birth_date, m.gender, m.religion, m.marital_status, m.occupation,
	m.education, m.address, m.rt, m.rw, m.village, m.district, m.city, m.province,
	m.postal_code, m.phone, m.registered_date, m.exited,
	EXISTS (SELECT 1 FROM death_records d WHERE d.member_id = m.id),
	m.created_at, m.updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(
		&m.ID, &m.MemberNo, &m.FamilyCardNo, &m.NationalIDNo, &m.HeadOfFamily,
		&m.BirthPlace, &m.BirthDate, &m.Gender, &m.Religion, &m.MaritalStatus, &m.Occupation,
		&m.Education, &m.Address, &m.RT, &m.RW, &m.Village, &m.District, &m.City, &m.Province,
		&m.PostalCode, &m.Phone, &m.RegisteredDate, &m.Exited, &m.Deceased,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a member and seeds the 1:1 membership status row.
func (s *MemberStore) Create(m *model.Member) (*model.Member, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO members (member_no, family_card_no, national_id_no, head_of_family,
			birth_place, birth_date, gender, religion, marital_status, occupation,
			education, address, rt, rw, village, district, city, province,
			postal_code, phone, registered_date, exited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MemberNo, m.FamilyCardNo, m.NationalIDNo, m.HeadOfFamily,
		m.BirthPlace, m.BirthDate, m.Gender, m.Religion, m.MaritalStatus, m.Occupation,
		m.Education, m.Address, m.RT, m.RW, m.Village, m.District, m.City, m.Province,
		m.PostalCode, m.Phone, m.RegisteredDate, m.Exited,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", translateConstraint(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO membership_statuses (member_id, registered, status, dues_type, dues_standing, start_date)
		VALUES (?, 1, 'active', 'monthly', 'current', ?)`,
		id, m.RegisteredDate,
	); err != nil {
		return nil, fmt.Errorf("insert membership status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) List() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM members m ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

// ListActive returns members eligible to originate death reports or
// claims: not exited and without a death record.
func (s *MemberStore) ListActive() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM members m
		WHERE m.exited = 0
		  AND NOT EXISTS (SELECT 1 FROM death_records d WHERE d.member_id = m.id)
		ORDER BY m.head_of_family`)
	if err != nil {
		return nil, fmt.Errorf("query active members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func collectMembers(rows *sql.Rows) ([]model.Member, error) {
	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members m WHERE m.id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// Update modifies a member's registry fields. Members with a death record
// are immutable.
func (s *MemberStore) Update(id int64, m *model.Member) (*model.Member, error) {
	deceased, err := s.isDeceased(id)
	if err != nil {
		return nil, err
	}
	if deceased {
		return nil, ErrDeceasedImmutable
	}

	_, err = s.db.Exec(
		`UPDATE members SET member_no = ?, family_card_no = ?, national_id_no = ?,
			head_of_family = ?, birth_place = ?, birth_date = ?, gender = ?, religion = ?,
			marital_status = ?, occupation = ?, education = ?, address = ?, rt = ?, rw = ?,
			village = ?, district = ?, city = ?, province = ?, postal_code = ?, phone = ?,
			registered_date = ?, exited = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		m.MemberNo, m.FamilyCardNo, m.NationalIDNo,
		m.HeadOfFamily, m.BirthPlace, m.BirthDate, m.Gender, m.Religion,
		m.MaritalStatus, m.Occupation, m.Education, m.Address, m.RT, m.RW,
		m.Village, m.District, m.City, m.Province, m.PostalCode, m.Phone,
		m.RegisteredDate, m.Exited,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", translateConstraint(err))
	}
	return s.GetByID(id)
}

// Delete removes a member. Members with a death record are immutable.
func (s *MemberStore) Delete(id int64) error {
	deceased, err := s.isDeceased(id)
	if err != nil {
		return err
	}
	if deceased {
		return ErrDeceasedImmutable
	}

	result, err := s.db.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", translateConstraint(err))
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

func (s *MemberStore) isDeceased(id int64) (bool, error) {
	var deceased bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM death_records WHERE member_id = ?)`, id,
	).Scan(&deceased)
	if err != nil {
		return false, fmt.Errorf("check deceased: %w", err)
	}
	return deceased, nil
}

// CountActive counts members who have not exited the association.
func (s *MemberStore) CountActive() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM members WHERE exited = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

const statusCols = `id, member_id, registered, status, dues_type, dues_standing, start_date, created_at, updated_at`

func (s *MemberStore) GetStatus(memberID int64) (*model.MembershipStatus, error) {
	var ms model.MembershipStatus
	err := s.db.QueryRow(
		`SELECT `+statusCols+` FROM membership_statuses WHERE member_id = ?`, memberID,
	).Scan(&ms.ID, &ms.MemberID, &ms.Registered, &ms.Status, &ms.DuesType, &ms.DuesStanding,
		&ms.StartDate, &ms.CreatedAt, &ms.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership status: %w", err)
	}
	return &ms, nil
}

func (s *MemberStore) UpdateStatus(memberID int64, registered bool, status model.MembershipState, duesType model.DuesType, duesStanding model.DuesStanding, startDate string) (*model.MembershipStatus, error) {
	deceased, err := s.isDeceased(memberID)
	if err != nil {
		return nil, err
	}
	if deceased {
		return nil, ErrDeceasedImmutable
	}

	result, err := s.db.Exec(
		`UPDATE membership_statuses SET registered = ?, status = ?, dues_type = ?,
			dues_standing = ?, start_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE member_id = ?`,
		registered, status, duesType, duesStanding, startDate, memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("update membership status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetStatus(memberID)
}
