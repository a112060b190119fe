package ledger

import "errors"

var (
	// ErrNotFound is returned when no ledger entry exists for a billing line
	ErrNotFound = errors.New("ledger entry not found")

	// ErrDuplicateResolution is returned when a billing line already carries
	// a resolution; the caller must reverse it first
	ErrDuplicateResolution = errors.New("billing line already resolved")

	// ErrInvalidKind is returned for an unknown resolution kind
	ErrInvalidKind = errors.New("invalid resolution kind")

	// ErrBillingLineRequired is returned when the billing line ID is missing
	ErrBillingLineRequired = errors.New("billing line ID is required")

	// ErrPatientRequired is returned when the patient ID is missing
	ErrPatientRequired = errors.New("patient ID is required")

	// ErrEntitlementRequired is returned when an entry kind demands an
	// entitlement reference and none was given
	ErrEntitlementRequired = errors.New("entitlement ID is required for this resolution kind")
)
