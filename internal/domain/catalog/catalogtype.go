// Package catalog provides read-only reference data mapping human-entered
// billing item names to entitlement types and their deduction weights. The
// rows are externally administered; this core only reads them.
package catalog

import (
	"fmt"
	"time"
)

// Family groups catalog types by the resolution flow that consumes them.
type Family string

const (
	// FamilyPackage classifies fixed-count treatment package items
	FamilyPackage Family = "package"
	// FamilyMembership classifies membership period items
	FamilyMembership Family = "membership"
	// FamilyHerbal classifies herbal formulas and pickup items
	FamilyHerbal Family = "herbal"
	// FamilyAddon classifies add-on items (injection therapy, tonics)
	FamilyAddon Family = "addon"
)

// IsValid checks if the family is valid
func (f Family) IsValid() bool {
	switch f {
	case FamilyPackage, FamilyMembership, FamilyHerbal, FamilyAddon:
		return true
	default:
		return false
	}
}

// String returns the string representation of the family
func (f Family) String() string {
	return string(f)
}

// Type is one catalog row: a named item within a family, with the number of
// entitlement units a single quantity of the item consumes.
type Type struct {
	id              uint
	name            string
	family          Family
	deductionWeight int
	createdAt       time.Time
}

// ReconstructType rebuilds a catalog type from persistence. A missing or
// non-positive weight defaults to 1.
func ReconstructType(id uint, name string, family Family, deductionWeight int, createdAt time.Time) (*Type, error) {
	if id == 0 {
		return nil, fmt.Errorf("catalog type ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("catalog type name is required")
	}
	if !family.IsValid() {
		return nil, fmt.Errorf("invalid catalog family: %s", family)
	}
	if deductionWeight <= 0 {
		deductionWeight = 1
	}

	return &Type{
		id:              id,
		name:            name,
		family:          family,
		deductionWeight: deductionWeight,
		createdAt:       createdAt,
	}, nil
}

// ID returns the catalog type ID
func (t *Type) ID() uint { return t.id }

// Name returns the catalog label matched against billing item names
func (t *Type) Name() string { return t.name }

// Family returns the resolution family
func (t *Type) Family() Family { return t.family }

// DeductionWeight returns the units one quantity of this item consumes
func (t *Type) DeductionWeight() int { return t.deductionWeight }

// CreatedAt returns when the row was created
func (t *Type) CreatedAt() time.Time { return t.createdAt }
