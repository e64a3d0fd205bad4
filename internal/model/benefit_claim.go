package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus is the state of a benefit claim. Only pending and approved
// are reachable; disbursed and rejected are enumerated for imported data.
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimApproved  ClaimStatus = "approved"
	ClaimDisbursed ClaimStatus = "disbursed"
	ClaimRejected  ClaimStatus = "rejected"
)

// BenefitClaim is a payout request tied to exactly one death record.
// MemberID is denormalized from the death record for listing joins.
type BenefitClaim struct {
	ID            int64           `json:"id"`
	DeathRecordID int64           `json:"death_record_id"`
	MemberID      int64           `json:"member_id"`
	MemberName    string          `json:"member_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        ClaimStatus     `json:"status"`
	ApprovedBy    *string         `json:"approved_by"`
	ApprovedAt    *time.Time      `json:"approved_at"`
	DisbursedDate *string         `json:"disbursed_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
