package model

import "time"

// MembershipState is the association-level standing of a member.
type MembershipState string

const (
	MembershipActive MembershipState = "active"
	MembershipExited MembershipState = "exited"
)

// DuesType is how a member contributes to the benefit fund.
type DuesType string

const (
	DuesMonthly     DuesType = "monthly"
	DuesPerIncident DuesType = "per_incident"
)

// DuesStanding tracks whether a member's contributions are up to date.
type DuesStanding string

const (
	DuesCurrent    DuesStanding = "current"
	DuesDelinquent DuesStanding = "delinquent"
)

// Member is one household record in the registry. Dates that come from
// paper forms (birth, registration) are stored as YYYY-MM-DD strings.
type Member struct {
	ID             int64     `json:"id"`
	MemberNo       string    `json:"member_no"`
	FamilyCardNo   string    `json:"family_card_no"`
	NationalIDNo   string    `json:"national_id_no"`
	HeadOfFamily   string    `json:"head_of_family"`
	BirthPlace     string    `json:"birth_place"`
	BirthDate      string    `json:"birth_date"`
	Gender         string    `json:"gender"`
	Religion       string    `json:"religion"`
	MaritalStatus  string    `json:"marital_status"`
	Occupation     string    `json:"occupation"`
	Education      string    `json:"education"`
	Address        string    `json:"address"`
	RT             string    `json:"rt"`
	RW             string    `json:"rw"`
	Village        string    `json:"village"`
	District       string    `json:"district"`
	City           string    `json:"city"`
	Province       string    `json:"province"`
	PostalCode     string    `json:"postal_code"`
	Phone          string    `json:"phone"`
	RegisteredDate string    `json:"registered_date"`
	Exited         bool      `json:"exited"`
	Deceased       bool      `json:"deceased"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MembershipStatus is the 1:1 record of a member's standing in the fund.
type MembershipStatus struct {
	ID           int64           `json:"id"`
	MemberID     int64           `json:"member_id"`
	Registered   bool            `json:"registered"`
	Status       MembershipState `json:"status"`
	DuesType     DuesType        `json:"dues_type"`
	DuesStanding DuesStanding    `json:"dues_standing"`
	StartDate    string          `json:"start_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
