package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/wargadigital/rukem/internal/model"
)

type DeathRecordStore struct {
	db *sql.DB
}

func NewDeathRecordStore(db *sql.DB) *DeathRecordStore {
	return &DeathRecordStore{db: db}
}

const deathCols = `d.id, d.member_id, m.head_of_family, d.date_of_death, d.time_of_death,
	d.place_of_death, d.reporter, d.certificate_no, d.note, d.verification_status,
	d.verified_by, d.verified_at, d.created_at, d.updated_at`

func scanDeathRecord(scanner interface{ Scan(...any) error }) (*model.DeathRecord, error) {
	var d model.DeathRecord
	err := scanner.Scan(
		&d.ID, &d.MemberID, &d.MemberName, &d.DateOfDeath, &d.TimeOfDeath,
		&d.PlaceOfDeath, &d.Reporter, &d.CertificateNo, &d.Note, &d.VerificationStatus,
		&d.VerifiedBy, &d.VerifiedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create records a death for a member. The member must exist and must not
// already have a death record; the unique index on member_id is the
// enforcement point for the latter.
func (s *DeathRecordStore) Create(d *model.DeathRecord) (*model.DeathRecord, error) {
	var exists bool
	if err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM members WHERE id = ?)`, d.MemberID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check member: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	result, err := s.db.Exec(
		`INSERT INTO death_records (member_id, date_of_death, time_of_death, place_of_death,
			reporter, certificate_no, note, verification_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending')`,
		d.MemberID, d.DateOfDeath, d.TimeOfDeath, d.PlaceOfDeath,
		d.Reporter, d.CertificateNo, d.Note,
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

func (s *DeathRecordStore) List() ([]model.DeathRecord, error) {
	rows, err := s.db.Query(`SELECT ` + deathCols + ` FROM death_records d
		JOIN members m ON m.id = d.member_id
		ORDER BY d.date_of_death DESC`)
	if err != nil {
		return nil, fmt.Errorf("query death records: %w", err)
	}
	defer rows.Close()

	var records []model.DeathRecord
	for rows.Next() {
		d, err := scanDeathRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan death record: %w", err)
		}
		records = append(records, *d)
	}
	return records, rows.Err()
}

// ListWithoutClaim returns death records that have no benefit claim yet,
// the picker source for creating a claim.
func (s *DeathRecordStore) ListWithoutClaim() ([]model.DeathRecord, error) {
	rows, err := s.db.Query(`SELECT ` + deathCols + ` FROM death_records d
		JOIN members m ON m.id = d.member_id
		WHERE NOT EXISTS (SELECT 1 FROM benefit_claims c WHERE c.death_record_id = d.id)
		ORDER BY d.date_of_death DESC`)
	if err != nil {
		return nil, fmt.Errorf("query unclaimed death records: %w", err)
	}
	defer rows.Close()

	var records []model.DeathRecord
	for rows.Next() {
		d, err := scanDeathRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan death record: %w", err)
		}
		records = append(records, *d)
	}
	return records, rows.Err()
}

func (s *DeathRecordStore) GetByID(id int64) (*model.DeathRecord, error) {
	row := s.db.QueryRow(`SELECT `+deathCols+` FROM death_records d
		JOIN members m ON m.id = d.member_id
		WHERE d.id = ?`, id)
	d, err := scanDeathRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get death record: %w", err)
	}
	return d, nil
}

func (s *DeathRecordStore) GetByMemberID(memberID int64) (*model.DeathRecord, error) {
	row := s.db.QueryRow(`SELECT `+deathCols+` FROM death_records d
		JOIN members m ON m.id = d.member_id
		WHERE d.member_id = ?`, memberID)
	d, err := scanDeathRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get death record by member: %w", err)
	}
	return d, nil
}

// Verify moves a pending record to verified, stamping who and when. The
// conditional update makes the transition one-way: a second verification
// matches zero rows and fails with ErrAlreadyVerified.
func (s *DeathRecordStore) Verify(id int64, verifiedBy string) (*model.DeathRecord, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`UPDATE death_records SET verification_status = 'verified', verified_by = ?,
			verified_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND verification_status = 'pending'`,
		verifiedBy, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("verify death record: %w", err)
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
		return nil, ErrAlreadyVerified
	}
	return s.GetByID(id)
}

// Count returns the number of recorded deaths.
func (s *DeathRecordStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM death_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count death records: %w", err)
	}
	return n, nil
}
