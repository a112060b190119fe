package ledger

import (
	"fmt"
	"time"
)

// Entry represents one applied resolution on a billing line. At most one
// non-deleted entry may exist per billing line; a line with an entry is
// closed until that entry is reversed.
type Entry struct {
	id             uint
	sid            string
	billingLineID  uint
	receiptID      uint
	patientID      uint
	resolutionKind ResolutionKind
	entitlementID  *uint
	itemLabel      string
	items          []Item
	quantity       int
	unitsDeducted  int
	usageDate      time.Time
	note           string
	createdAt      time.Time
}

// NewEntry creates a ledger entry for a resolution about to be applied.
// For deduction kinds, items carries the catalog-classified breakdown and
// unitsDeducted must equal TotalUnits(items).
func NewEntry(
	sid string,
	billingLineID uint,
	receiptID uint,
	patientID uint,
	kind ResolutionKind,
	entitlementID *uint,
	itemLabel string,
	items []Item,
	quantity int,
	unitsDeducted int,
	usageDate time.Time,
	note string,
) (*Entry, error) {
	if billingLineID == 0 {
		return nil, ErrBillingLineRequired
	}
	if patientID == 0 {
		return nil, ErrPatientRequired
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if kind.RequiresEntitlement() && entitlementID == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntitlementRequired, kind)
	}
	if kind.IsDeduction() {
		if len(items) == 0 {
			return nil, fmt.Errorf("deduction entry needs at least one item")
		}
		if got := TotalUnits(items); got != unitsDeducted {
			return nil, fmt.Errorf("units deducted %d does not match item total %d", unitsDeducted, got)
		}
		if unitsDeducted <= 0 {
			return nil, fmt.Errorf("deduction entry must consume units")
		}
	}

	return &Entry{
		sid:            sid,
		billingLineID:  billingLineID,
		receiptID:      receiptID,
		patientID:      patientID,
		resolutionKind: kind,
		entitlementID:  entitlementID,
		itemLabel:      itemLabel,
		items:          items,
		quantity:       quantity,
		unitsDeducted:  unitsDeducted,
		usageDate:      usageDate,
		note:           note,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructEntry rebuilds an entry from persistence.
func ReconstructEntry(
	id uint,
	sid string,
	billingLineID uint,
	receiptID uint,
	patientID uint,
	kind ResolutionKind,
	entitlementID *uint,
	itemLabel string,
	items []Item,
	quantity int,
	unitsDeducted int,
	usageDate time.Time,
	note string,
	createdAt time.Time,
) (*Entry, error) {
	if id == 0 {
		return nil, fmt.Errorf("entry ID cannot be zero")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	return &Entry{
		id:             id,
		sid:            sid,
		billingLineID:  billingLineID,
		receiptID:      receiptID,
		patientID:      patientID,
		resolutionKind: kind,
		entitlementID:  entitlementID,
		itemLabel:      itemLabel,
		items:          items,
		quantity:       quantity,
		unitsDeducted:  unitsDeducted,
		usageDate:      usageDate,
		note:           note,
		createdAt:      createdAt,
	}, nil
}

// ID returns the entry ID
func (e *Entry) ID() uint { return e.id }

// SID returns the external-facing short ID
func (e *Entry) SID() string { return e.sid }

// BillingLineID returns the resolved billing line
func (e *Entry) BillingLineID() uint { return e.billingLineID }

// ReceiptID returns the receipt the billing line belongs to
func (e *Entry) ReceiptID() uint { return e.receiptID }

// PatientID returns the patient's opaque key
func (e *Entry) PatientID() uint { return e.patientID }

// ResolutionKind returns how the line was resolved
func (e *Entry) ResolutionKind() ResolutionKind { return e.resolutionKind }

// EntitlementID returns the referenced entitlement, nil for note-only entries
func (e *Entry) EntitlementID() *uint { return e.entitlementID }

// ItemLabel returns the human-entered item name from the billing line
func (e *Entry) ItemLabel() string { return e.itemLabel }

// Items returns the catalog-classified breakdown for deduction entries
func (e *Entry) Items() []Item { return e.items }

// Quantity returns the total item quantity on the line
func (e *Entry) Quantity() int { return e.quantity }

// UnitsDeducted returns the entitlement units this resolution consumed,
// zero for non-deduction kinds.
func (e *Entry) UnitsDeducted() int { return e.unitsDeducted }

// UsageDate returns the receipt date the resolution applies to
func (e *Entry) UsageDate() time.Time { return e.usageDate }

// Note returns the free-text memo recorded with the resolution
func (e *Entry) Note() string { return e.note }

// CreatedAt returns when the entry was written
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// SetID sets the entry ID (only for persistence layer use)
func (e *Entry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("entry ID cannot be zero")
	}
	e.id = id
	return nil
}
