package entitlement

import (
	"fmt"
	"time"
)

// Entitlement represents the prepaid-grant aggregate root. One row exists per
// grant; its balance only moves through Deduct and Restore so the invariant
// remaining == total - used holds at every rest point.
type Entitlement struct {
	id                  uint
	sid                 string
	patientID           uint
	kind                Kind
	label               string
	totalUnits          int
	usedUnits           int
	remainingUnits      int
	status              Status
	startDate           time.Time
	expireDate          *time.Time
	linkedBillingLineID *uint
	memo                string
	createdAt           time.Time
	updatedAt           time.Time
	version             int
}

// NewEntitlement creates a new entitlement grant with a full balance.
func NewEntitlement(
	sid string,
	patientID uint,
	kind Kind,
	label string,
	totalUnits int,
	startDate time.Time,
	expireDate *time.Time,
	memo string,
) (*Entitlement, error) {
	if patientID == 0 {
		return nil, ErrPatientRequired
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if label == "" {
		return nil, ErrLabelRequired
	}
	if totalUnits <= 0 {
		return nil, fmt.Errorf("%w: total units must be positive, got %d", ErrInvalidQuantity, totalUnits)
	}
	if expireDate != nil && expireDate.Before(startDate) {
		return nil, fmt.Errorf("expire date %s precedes start date %s",
			expireDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	return &Entitlement{
		sid:            sid,
		patientID:      patientID,
		kind:           kind,
		label:          label,
		totalUnits:     totalUnits,
		usedUnits:      0,
		remainingUnits: totalUnits,
		status:         StatusActive,
		startDate:      startDate,
		expireDate:     expireDate,
		memo:           memo,
		createdAt:      now,
		updatedAt:      now,
		version:        1,
	}, nil
}

// Reconstruct rebuilds an entitlement from persistence.
func Reconstruct(
	id uint,
	sid string,
	patientID uint,
	kind Kind,
	label string,
	totalUnits, usedUnits int,
	status Status,
	startDate time.Time,
	expireDate *time.Time,
	linkedBillingLineID *uint,
	memo string,
	createdAt, updatedAt time.Time,
	version int,
) (*Entitlement, error) {
	if id == 0 {
		return nil, fmt.Errorf("entitlement ID cannot be zero")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if usedUnits < 0 || usedUnits > totalUnits {
		return nil, fmt.Errorf("used units %d outside [0, %d]", usedUnits, totalUnits)
	}

	return &Entitlement{
		id:                  id,
		sid:                 sid,
		patientID:           patientID,
		kind:                kind,
		label:               label,
		totalUnits:          totalUnits,
		usedUnits:           usedUnits,
		remainingUnits:      totalUnits - usedUnits,
		status:              status,
		startDate:           startDate,
		expireDate:          expireDate,
		linkedBillingLineID: linkedBillingLineID,
		memo:                memo,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		version:             version,
	}, nil
}

// ID returns the entitlement ID
func (e *Entitlement) ID() uint { return e.id }

// SID returns the external-facing short ID
func (e *Entitlement) SID() string { return e.sid }

// PatientID returns the owning patient's opaque key
func (e *Entitlement) PatientID() uint { return e.patientID }

// Kind returns the entitlement kind
func (e *Entitlement) Kind() Kind { return e.kind }

// Label returns the display label (package product or herbal formula name)
func (e *Entitlement) Label() string { return e.label }

// TotalUnits returns the granted unit count
func (e *Entitlement) TotalUnits() int { return e.totalUnits }

// UsedUnits returns the consumed unit count
func (e *Entitlement) UsedUnits() int { return e.usedUnits }

// RemainingUnits returns the unconsumed unit count
func (e *Entitlement) RemainingUnits() int { return e.remainingUnits }

// Status returns the lifecycle status
func (e *Entitlement) Status() Status { return e.status }

// StartDate returns when the grant became usable
func (e *Entitlement) StartDate() time.Time { return e.startDate }

// ExpireDate returns the expiry date, nil when open-ended
func (e *Entitlement) ExpireDate() *time.Time { return e.expireDate }

// LinkedBillingLineID returns the billing line this grant's purchase was
// reconciled to, nil while the grant is unlinked.
func (e *Entitlement) LinkedBillingLineID() *uint { return e.linkedBillingLineID }

// Memo returns the free-text note attached at creation
func (e *Entitlement) Memo() string { return e.memo }

// CreatedAt returns when the entitlement was created
func (e *Entitlement) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns when the entitlement was last updated
func (e *Entitlement) UpdatedAt() time.Time { return e.updatedAt }

// Version returns the aggregate version for optimistic locking
func (e *Entitlement) Version() int { return e.version }

// SetID sets the entitlement ID (only for persistence layer use)
func (e *Entitlement) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("entitlement ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("entitlement ID cannot be zero")
	}
	e.id = id
	return nil
}

// IsUnlinked reports whether the grant's purchase has not yet been reconciled
// to a billing line.
func (e *Entitlement) IsUnlinked() bool {
	return e.linkedBillingLineID == nil
}

// IsExpired reports whether the expiry date has passed.
func (e *Entitlement) IsExpired(now time.Time) bool {
	if e.expireDate == nil {
		return false
	}
	return now.After(*e.expireDate)
}

// Deduct consumes units from the balance. Deducting exactly the remaining
// balance is valid and flips the status to completed.
func (e *Entitlement) Deduct(units int) error {
	if units <= 0 {
		return fmt.Errorf("%w: deduction must be positive, got %d", ErrInvalidQuantity, units)
	}
	if e.status == StatusCancelled {
		return fmt.Errorf("cannot deduct from cancelled entitlement %d", e.id)
	}
	if units > e.remainingUnits {
		return ErrShortfall(units, e.remainingUnits)
	}

	e.usedUnits += units
	e.remainingUnits -= units
	if e.remainingUnits == 0 {
		e.status = StatusCompleted
	}
	e.touch()
	return nil
}

// Restore is the exact inverse of Deduct, applied during reversal. A
// restoration that would drive the used count negative means the store and
// ledger have diverged and is reported as ErrCorruptBalance rather than
// clamped.
func (e *Entitlement) Restore(units int) error {
	if units <= 0 {
		return fmt.Errorf("%w: restoration must be positive, got %d", ErrInvalidQuantity, units)
	}
	if units > e.usedUnits {
		return fmt.Errorf("%w: restoring %d units with only %d used on entitlement %d",
			ErrCorruptBalance, units, e.usedUnits, e.id)
	}

	e.usedUnits -= units
	e.remainingUnits += units
	if e.remainingUnits > 0 && e.status == StatusCompleted {
		e.status = StatusActive
	}
	e.touch()
	return nil
}

// LinkToBillingLine ties an unlinked grant to its originating billing line.
func (e *Entitlement) LinkToBillingLine(billingLineID uint) error {
	if billingLineID == 0 {
		return fmt.Errorf("billing line ID cannot be zero")
	}
	if e.linkedBillingLineID != nil {
		return fmt.Errorf("%w: entitlement %d already linked to billing line %d",
			ErrAlreadyLinked, e.id, *e.linkedBillingLineID)
	}
	e.linkedBillingLineID = &billingLineID
	e.touch()
	return nil
}

// UnlinkBillingLine clears the billing-line tie during link reversal.
func (e *Entitlement) UnlinkBillingLine() error {
	if e.linkedBillingLineID == nil {
		return fmt.Errorf("%w: entitlement %d", ErrNotLinked, e.id)
	}
	e.linkedBillingLineID = nil
	e.touch()
	return nil
}

// Cancel withdraws the grant. Staff-side correction, not the reversal path.
func (e *Entitlement) Cancel() error {
	if e.status == StatusCancelled {
		return nil
	}
	e.status = StatusCancelled
	e.touch()
	return nil
}

// CanDelete reports whether the grant may be removed outright, which is only
// allowed while nothing has been consumed from it.
func (e *Entitlement) CanDelete() bool {
	return e.usedUnits == 0
}

// Validate performs domain-level validation of the balance invariant.
func (e *Entitlement) Validate() error {
	if !e.kind.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, e.kind)
	}
	if !e.status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, e.status)
	}
	if e.usedUnits < 0 || e.usedUnits > e.totalUnits {
		return fmt.Errorf("used units %d outside [0, %d]", e.usedUnits, e.totalUnits)
	}
	if e.remainingUnits != e.totalUnits-e.usedUnits {
		return fmt.Errorf("remaining %d != total %d - used %d", e.remainingUnits, e.totalUnits, e.usedUnits)
	}
	if e.status == StatusCompleted && e.remainingUnits != 0 {
		return fmt.Errorf("completed entitlement %d has %d remaining units", e.id, e.remainingUnits)
	}
	return nil
}

func (e *Entitlement) touch() {
	e.updatedAt = time.Now().UTC()
	e.version++
}
