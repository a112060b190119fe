package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Matcher classifies free-form billing item names against the catalog by
// case-insensitive substring matching. Billing lines carry hand-typed labels
// such as "공진단 10환 패키지", so an exact key lookup would miss most rows.
type Matcher struct {
	types  []*Type
	folder cases.Caser
}

// NewMatcher builds a matcher over the given catalog types. Longer catalog
// names are tried first so "약침 패키지" wins over "약침" when both occur in
// the item name.
func NewMatcher(types []*Type) *Matcher {
	sorted := make([]*Type, len(types))
	copy(sorted, types)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Name()) > len(sorted[j].Name())
	})
	return &Matcher{
		types:  sorted,
		folder: cases.Fold(),
	}
}

// MatchAll returns every catalog type whose name occurs in itemName, best
// match first. Composite lines such as "공진단+경옥고 세트" bundle several
// catalog items in one label, so all of them are reported.
func (m *Matcher) MatchAll(itemName string) []*Type {
	folded := m.folder.String(strings.TrimSpace(itemName))
	var matches []*Type
	for _, t := range m.types {
		if strings.Contains(folded, m.folder.String(t.Name())) {
			matches = append(matches, t)
		}
	}
	return matches
}

// MatchAllInFamily behaves like MatchAll but only considers one family. Used
// when the caller already knows the resolution flow (a herbal tab only wants
// herbal catalog rows).
func (m *Matcher) MatchAllInFamily(itemName string, family Family) []*Type {
	folded := m.folder.String(strings.TrimSpace(itemName))
	var matches []*Type
	for _, t := range m.types {
		if t.Family() != family {
			continue
		}
		if strings.Contains(folded, m.folder.String(t.Name())) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Match returns the best-matching catalog type, or nil when nothing matches.
func (m *Matcher) Match(itemName string) *Type {
	if matches := m.MatchAll(itemName); len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// MatchInFamily returns the best family-scoped match, or nil.
func (m *Matcher) MatchInFamily(itemName string, family Family) *Type {
	if matches := m.MatchAllInFamily(itemName, family); len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// SuggestWeight returns the deduction weight for the item name, falling back
// to 1 when the catalog has no matching row.
func (m *Matcher) SuggestWeight(itemName string) int {
	if t := m.Match(itemName); t != nil {
		return t.DeductionWeight()
	}
	return 1
}
