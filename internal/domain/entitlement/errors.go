package entitlement

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entitlement is not found
	ErrNotFound = errors.New("entitlement not found")

	// ErrInvalidQuantity is returned for non-positive unit counts
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientBalance is returned when a deduction exceeds the
	// remaining units
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadyLinked is returned when an entitlement is already tied to a
	// billing line
	ErrAlreadyLinked = errors.New("entitlement already linked to a billing line")

	// ErrNotLinked is returned when clearing a link that does not exist
	ErrNotLinked = errors.New("entitlement is not linked to a billing line")

	// ErrInUse is returned when deleting an entitlement whose units have
	// been consumed
	ErrInUse = errors.New("entitlement has consumed units")

	// ErrCorruptBalance is returned when a restoration would drive the used
	// count negative. The store and ledger have diverged; manual
	// reconciliation is required.
	ErrCorruptBalance = errors.New("restoration would drive used units negative")

	// ErrInvalidKind is returned when an invalid kind is provided
	ErrInvalidKind = errors.New("invalid entitlement kind")

	// ErrInvalidStatus is returned when an invalid status is provided
	ErrInvalidStatus = errors.New("invalid entitlement status")

	// ErrPatientRequired is returned when the patient ID is missing
	ErrPatientRequired = errors.New("patient ID is required")

	// ErrLabelRequired is returned when the display label is missing
	ErrLabelRequired = errors.New("label is required")
)

// ErrShortfall describes an over-deduction with the exact numbers the caller
// needs to correct input.
func ErrShortfall(requested, remaining int) error {
	return fmt.Errorf("%w: requested %d units, %d remaining", ErrInsufficientBalance, requested, remaining)
}
