package store

import (
	"errors"
	"strings"
)

// Sentinel errors for business-rule failures. Handlers translate these to
// HTTP statuses and user-facing messages.
var (
	// ErrDuplicate signals a uniqueness violation, e.g. a second death
	// record for the same member or a second claim for the same death.
	ErrDuplicate = errors.New("record already exists")

	// ErrNotFound signals a missing row or dangling reference.
	ErrNotFound = errors.New("record not found")

	// ErrDeceasedImmutable signals an attempt to modify or delete a member
	// who has a death record.
	ErrDeceasedImmutable = errors.New("deceased member is immutable")

	// ErrNoDeathRecord signals a claim created without a death record.
	ErrNoDeathRecord = errors.New("no death record for member")

	// ErrMemberNotActive signals a claim for a member who is not a
	// registered active member of the fund.
	ErrMemberNotActive = errors.New("member is not registered or active")

	// ErrNotPending signals a state transition attempted on a record that
	// has already left the pending state.
	ErrNotPending = errors.New("record is not pending")

	// ErrAlreadyVerified signals a second verification of a death record.
	ErrAlreadyVerified = errors.New("death record already verified")
)

// translateConstraint maps SQLite constraint failures onto sentinels.
// modernc.org/sqlite surfaces constraint violations as plain error strings.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return ErrNotFound
	}
	return err
}
