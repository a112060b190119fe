package ledger

import "context"

// Repository defines the interface for usage-ledger persistence. Record and
// Delete participate in the ambient transaction when one is present on the
// context.
type Repository interface {
	// Record appends the entry. Returns ErrDuplicateResolution when a
	// non-deleted entry already exists for the billing line; a unique index
	// on billing_line_id backstops the check against races.
	Record(ctx context.Context, e *Entry) error

	// GetByBillingLine retrieves the entry for a billing line; ErrNotFound
	// when the line is unresolved.
	GetByBillingLine(ctx context.Context, billingLineID uint) (*Entry, error)

	// GetByBillingLineForUpdate is GetByBillingLine with a row-level write
	// lock, used by the reversal flow. Must be called inside a transaction.
	GetByBillingLineForUpdate(ctx context.Context, billingLineID uint) (*Entry, error)

	// Delete removes the entry during reversal.
	Delete(ctx context.Context, id uint) error

	// ListByPatient returns a patient's resolution history, newest first.
	ListByPatient(ctx context.Context, patientID uint, limit int) ([]*Entry, error)

	// ListByEntitlement returns every entry that drew from an entitlement.
	ListByEntitlement(ctx context.Context, entitlementID uint) ([]*Entry, error)

	// Exists reports whether a billing line is already resolved.
	Exists(ctx context.Context, billingLineID uint) (bool, error)
}
