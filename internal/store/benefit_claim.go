package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/model"
)

type BenefitClaimStore struct {
	db *sql.DB
}

func NewBenefitClaimStore(db *sql.DB) *BenefitClaimStore {
	return &BenefitClaimStore{db: db}
}

const claimCols = `c.id, c.death_record_id, c.member_id, m.head_of_family, c.amount, c.status,
	c.approved_by, c.approved_at, c.disbursed_date, c.created_at, c.updated_at`

func scanClaim(scanner interface{ Scan(...any) error }) (*model.BenefitClaim, error) {
	var c model.BenefitClaim
	var amount string
	err := scanner.Scan(
		&c.ID, &c.DeathRecordID, &c.MemberID, &c.MemberName, &amount, &c.Status,
		&c.ApprovedBy, &c.ApprovedAt, &c.DisbursedDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return &c, nil
}

// Create opens a claim against a death record. Preconditions checked here,
// not left to the caller: the death record must exist, and the member must
// be a registered active fund member. One claim per death record is
// enforced by the unique index.
func (s *BenefitClaimStore) Create(deathRecordID int64, amount decimal.Decimal) (*model.BenefitClaim, error) {
	var memberID int64
	err := s.db.QueryRow(
		`SELECT member_id FROM death_records WHERE id = ?`, deathRecordID,
	).Scan(&memberID)
	if err == sql.ErrNoRows {
		return nil, ErrNoDeathRecord
	}
	if err != nil {
		return nil, fmt.Errorf("look up death record: %w", err)
	}

	var registered bool
	var status model.MembershipState
	err = s.db.QueryRow(
		`SELECT registered, status FROM membership_statuses WHERE member_id = ?`, memberID,
	).Scan(&registered, &status)
	if err == sql.ErrNoRows {
		return nil, ErrMemberNotActive
	}
	if err != nil {
		return nil, fmt.Errorf("look up membership status: %w", err)
	}
	if !registered || status != model.MembershipActive {
		return nil, ErrMemberNotActive
	}

	result, err := s.db.Exec(
		`INSERT INTO benefit_claims (death_record_id, member_id, amount, status)
		VALUES (?, ?, ?, 'pending')`,
		deathRecordID, memberID, amount.String(),
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

func (s *BenefitClaimStore) List() ([]model.BenefitClaim, error) {
	rows, err := s.db.Query(`SELECT ` + claimCols + ` FROM benefit_claims c
		JOIN members m ON m.id = c.member_id
		ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var claims []model.BenefitClaim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}

func (s *BenefitClaimStore) GetByID(id int64) (*model.BenefitClaim, error) {
	row := s.db.QueryRow(`SELECT `+claimCols+` FROM benefit_claims c
		JOIN members m ON m.id = c.member_id
		WHERE c.id = ?`, id)
	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return c, nil
}

// Approve moves a pending claim to approved and, when the amount is
// positive, appends the payout to the cash ledger. Both writes happen in
// one transaction so the claim and the ledger cannot disagree. The
// conditional update guards racing approvers: the second one matches zero
// rows and gets ErrNotPending, so the ledger entry is appended exactly
// once.
func (s *BenefitClaimStore) Approve(id int64, approvedBy string) (*model.BenefitClaim, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+claimCols+` FROM benefit_claims c
		JOIN members m ON m.id = c.member_id
		WHERE c.id = ?`, id)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")

	result, err := tx.Exec(
		`UPDATE benefit_claims SET status = 'approved', approved_by = ?, approved_at = ?,
			disbursed_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'`,
		approvedBy, now, today, id,
	)
	if err != nil {
		return nil, fmt.Errorf("approve claim: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotPending
	}

	if claim.Amount.IsPositive() {
		memo := fmt.Sprintf("Pembayaran santunan - Alm. %s", claim.MemberName)
		if _, err := tx.Exec(
			`INSERT INTO ledger_entries (direction, category, entry_date, memo, amount, source, created_by)
			VALUES ('out', 'benefit_payout', ?, ?, ?, 'santunan_approval', ?)`,
			today, memo, claim.Amount.String(), approvedBy,
		); err != nil {
			return nil, fmt.Errorf("append ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// TotalApprovedInYear sums approved claim amounts whose approval date falls
// in the given year, for the dashboard.
func (s *BenefitClaimStore) TotalApprovedInYear(year int) (decimal.Decimal, error) {
	rows, err := s.db.Query(
		`SELECT amount FROM benefit_claims
		WHERE status = 'approved' AND strftime('%Y', approved_at) = ?`,
		fmt.Sprintf("%04d", year),
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("query approved claims: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}
