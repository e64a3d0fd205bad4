package model

import "time"

// VerificationStatus is the review state of a death report. The only
// transition is pending to verified; there is no way back.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
)

// DeathRecord reports that a member has died. A member can have at most
// one; once it exists the member is treated everywhere as deceased.
type DeathRecord struct {
	ID                 int64              `json:"id"`
	MemberID           int64              `json:"member_id"`
	MemberName         string             `json:"member_name,omitempty"`
	DateOfDeath        string             `json:"date_of_death"`
	TimeOfDeath        string             `json:"time_of_death"`
	PlaceOfDeath       string             `json:"place_of_death"`
	Reporter           string             `json:"reporter"`
	CertificateNo      string             `json:"certificate_no"`
	Note               string             `json:"note"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerifiedBy         *string            `json:"verified_by"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
