package entitlement

import "context"

// Repository defines the interface for entitlement persistence operations.
// Mutating operations participate in the ambient transaction when one is
// present on the context.
type Repository interface {
	// Create creates a new entitlement
	Create(ctx context.Context, e *Entitlement) error

	// Update persists aggregate changes using an optimistic version check
	Update(ctx context.Context, e *Entitlement) error

	// UpdateLocked persists aggregate changes for a row previously loaded
	// with GetByIDForUpdate inside the same transaction
	UpdateLocked(ctx context.Context, e *Entitlement) error

	// Delete removes an entitlement by ID; only creation reversals of
	// never-consumed grants reach this
	Delete(ctx context.Context, id uint) error

	// GetByID retrieves an entitlement by ID; ErrNotFound when absent
	GetByID(ctx context.Context, id uint) (*Entitlement, error)

	// GetByIDForUpdate retrieves an entitlement with a row-level write lock.
	// Must be called inside a transaction; two concurrent deductions against
	// the same grant serialize here.
	GetByIDForUpdate(ctx context.Context, id uint) (*Entitlement, error)

	// GetActive retrieves active entitlements with remaining balance for a
	// patient and kind, soonest expiry first with open-ended grants last.
	GetActive(ctx context.Context, patientID uint, kind Kind) ([]*Entitlement, error)

	// GetUnlinked retrieves active or completed entitlements not yet tied to
	// a billing line, for the link-unlinked flow.
	GetUnlinked(ctx context.Context, patientID uint, kind Kind) ([]*Entitlement, error)

	// GetByPatient retrieves every entitlement for a patient, newest first.
	GetByPatient(ctx context.Context, patientID uint) ([]*Entitlement, error)

	// GetByBillingLine retrieves entitlements whose purchase was reconciled
	// to the given billing line.
	GetByBillingLine(ctx context.Context, billingLineID uint) ([]*Entitlement, error)
}
