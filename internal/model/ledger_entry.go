package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of money movement through the association's cash account.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Ledger entry categories.
type LedgerCategory string

const (
	CategoryDues          LedgerCategory = "dues"
	CategoryDonation      LedgerCategory = "donation"
	CategoryBenefitPayout LedgerCategory = "benefit_payout"
	CategoryOperational   LedgerCategory = "operational"
	CategoryOther         LedgerCategory = "other"
)

// LedgerEntry is one inflow or outflow in the cash ledger. BalanceSnapshot
// is kept only for imported history; the balance reported by the API is
// always derived from the entry amounts.
type LedgerEntry struct {
	ID              int64            `json:"id"`
	Direction       Direction        `json:"direction"`
	Category        LedgerCategory   `json:"category"`
	EntryDate       string           `json:"entry_date"`
	Memo            string           `json:"memo"`
	Amount          decimal.Decimal  `json:"amount"`
	BalanceSnapshot *decimal.Decimal `json:"balance_snapshot,omitempty"`
	Source          string           `json:"source"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// LedgerSummary is the aggregate view shown on the dashboard.
type LedgerSummary struct {
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
	Balance  decimal.Decimal `json:"balance"`
}

// MonthlyCashflow is one month's in/out totals for charting.
type MonthlyCashflow struct {
	Month    string          `json:"month"` // YYYY-MM
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
}
