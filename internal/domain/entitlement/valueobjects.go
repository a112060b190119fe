// Package entitlement provides domain models and business logic for a
// patient's prepaid treatment entitlements: fixed-count packages, point-based
// membership periods, herbal pickup cycles and add-on cycles.
package entitlement

// Kind represents the variety of prepaid grant
type Kind string

const (
	// KindPackage is a fixed-count treatment package
	KindPackage Kind = "package"
	// KindMembership is a point-based membership period
	KindMembership Kind = "membership"
	// KindHerbalCycle is a herbal-medicine pickup cycle
	KindHerbalCycle Kind = "herbal_cycle"
	// KindAddonCycle is an optional add-on cycle (e.g. monthly tonic doses)
	KindAddonCycle Kind = "addon_cycle"
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindPackage, KindMembership, KindHerbalCycle, KindAddonCycle:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// Unit returns the countable unit for the kind: treatment sessions for
// packages and memberships, calendar months for cycles.
func (k Kind) Unit() string {
	switch k {
	case KindHerbalCycle, KindAddonCycle:
		return "month"
	default:
		return "session"
	}
}

// Status represents the lifecycle status of an entitlement
type Status string

const (
	// StatusActive indicates the entitlement still has remaining units
	StatusActive Status = "active"
	// StatusCompleted indicates every unit has been consumed
	StatusCompleted Status = "completed"
	// StatusCancelled indicates the entitlement was withdrawn by staff
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Policy captures the per-kind behavior differences so one resolution flow can
// serve all four kinds instead of one handler each.
type Policy struct {
	Kind Kind
	// UnitLabel is the display unit for balances of this kind.
	UnitLabel string
	// DefaultWeight is the units one quantity of an unweighted item consumes.
	DefaultWeight int
	// Linkable marks kinds whose entitlements may be provisioned through a
	// side channel first and tied to a billing line later.
	Linkable bool
}

var policies = map[Kind]Policy{
	KindPackage:     {Kind: KindPackage, UnitLabel: "session", DefaultWeight: 1, Linkable: false},
	KindMembership:  {Kind: KindMembership, UnitLabel: "point", DefaultWeight: 1, Linkable: false},
	KindHerbalCycle: {Kind: KindHerbalCycle, UnitLabel: "round", DefaultWeight: 1, Linkable: true},
	KindAddonCycle:  {Kind: KindAddonCycle, UnitLabel: "dose", DefaultWeight: 1, Linkable: true},
}

// PolicyFor returns the policy for a kind. The second return is false for
// unknown kinds.
func PolicyFor(k Kind) (Policy, bool) {
	p, ok := policies[k]
	return p, ok
}
