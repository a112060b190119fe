// Package ledger provides the usage-ledger domain: the append-style log of
// every resolution applied to an out-of-pocket billing line.
package ledger

import "haneul/internal/domain/entitlement"

// ResolutionKind identifies which of the resolution flows produced an entry.
type ResolutionKind string

const (
	// ResolutionDeductPackage deducted sessions from a treatment package
	ResolutionDeductPackage ResolutionKind = "deduct_package"
	// ResolutionDeductMembership drew points from a membership period
	ResolutionDeductMembership ResolutionKind = "deduct_membership"
	// ResolutionDeductHerbal consumed a herbal pickup round
	ResolutionDeductHerbal ResolutionKind = "deduct_herbal"
	// ResolutionDeductAddon consumed an add-on cycle dose
	ResolutionDeductAddon ResolutionKind = "deduct_addon"
	// ResolutionCreateEntitlement recorded a new grant purchased on this line
	ResolutionCreateEntitlement ResolutionKind = "create_entitlement"
	// ResolutionLinkUnlinked tied a side-channel grant to this line
	ResolutionLinkUnlinked ResolutionKind = "link_unlinked"
	// ResolutionNoteOnly recorded a memo with no entitlement effect,
	// including pure one-time consumption
	ResolutionNoteOnly ResolutionKind = "note_only"
)

// IsValid checks if the resolution kind is valid
func (rk ResolutionKind) IsValid() bool {
	switch rk {
	case ResolutionDeductPackage, ResolutionDeductMembership, ResolutionDeductHerbal,
		ResolutionDeductAddon, ResolutionCreateEntitlement, ResolutionLinkUnlinked,
		ResolutionNoteOnly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the resolution kind
func (rk ResolutionKind) String() string {
	return string(rk)
}

// IsDeduction reports whether the kind moved an entitlement balance.
func (rk ResolutionKind) IsDeduction() bool {
	switch rk {
	case ResolutionDeductPackage, ResolutionDeductMembership, ResolutionDeductHerbal, ResolutionDeductAddon:
		return true
	default:
		return false
	}
}

// RequiresEntitlement reports whether entries of this kind must reference an
// entitlement row.
func (rk ResolutionKind) RequiresEntitlement() bool {
	return rk.IsDeduction() || rk == ResolutionCreateEntitlement || rk == ResolutionLinkUnlinked
}

// DeductionKindFor maps an entitlement kind to its deduction resolution kind.
func DeductionKindFor(k entitlement.Kind) (ResolutionKind, bool) {
	switch k {
	case entitlement.KindPackage:
		return ResolutionDeductPackage, true
	case entitlement.KindMembership:
		return ResolutionDeductMembership, true
	case entitlement.KindHerbalCycle:
		return ResolutionDeductHerbal, true
	case entitlement.KindAddonCycle:
		return ResolutionDeductAddon, true
	default:
		return "", false
	}
}

// Item is one catalog-classified line item inside a composite resolution. A
// single billing line may bundle several items, each consuming
// quantity × weight units.
type Item struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
	Weight   int    `json:"weight"`
}

// Units returns the entitlement units this item consumes.
func (i Item) Units() int {
	return i.Quantity * i.Weight
}

// TotalUnits sums the unit consumption of a composite item set. The total is
// computed and validated before any mutation so partial deductions across
// items cannot occur.
func TotalUnits(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Units()
	}
	return total
}
