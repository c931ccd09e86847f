package browse

import "splitkb-catalog/internal/domain"

// MaxPriceCeiling is the largest representable price ceiling. A ceiling
// at this value means "unbounded" and is never transmitted.
const MaxPriceCeiling int64 = 1_000_000

// PriceFilter selects how the price axis is filtered. The three modes
// are mutually exclusive; the ceiling matters only for All and
// WithPrice.
type PriceFilter string

const (
	PriceAll       PriceFilter = "all"
	PriceWithPrice PriceFilter = "with_price"
	PriceDIYOnly   PriceFilter = "diy_only"
)

// FilterState is one snapshot of the catalog filter configuration. It
// is a value type; Clone produces an independent copy.
type FilterState struct {
	PriceFilter      PriceFilter
	PriceCeiling     int64
	KeyRanges        []string
	KeyboardType     *domain.KeyboardType
	IsWireless       *bool
	HasCursorControl *bool
	Search           string
	SortBy           domain.SortOption
}

// DefaultFilterState returns the documented defaults: everything
// unfiltered, sorted by name ascending.
func DefaultFilterState() FilterState {
	return FilterState{
		PriceFilter:  PriceAll,
		PriceCeiling: MaxPriceCeiling,
		SortBy:       domain.SortNameAsc,
	}
}

// Clone returns a deep copy; mutating the copy never touches the
// original.
func (f FilterState) Clone() FilterState {
	c := f
	if f.KeyRanges != nil {
		c.KeyRanges = append([]string(nil), f.KeyRanges...)
	}
	if f.KeyboardType != nil {
		kt := *f.KeyboardType
		c.KeyboardType = &kt
	}
	if f.IsWireless != nil {
		b := *f.IsWireless
		c.IsWireless = &b
	}
	if f.HasCursorControl != nil {
		b := *f.HasCursorControl
		c.HasCursorControl = &b
	}
	return c
}

// ToggleKeyRange adds the bucket token to the OR set, or removes it if
// already present. Tokens are opaque strings; "5*6" is just a token.
func (f *FilterState) ToggleKeyRange(token string) {
	for i, t := range f.KeyRanges {
		if t == token {
			f.KeyRanges = append(f.KeyRanges[:i], f.KeyRanges[i+1:]...)
			return
		}
	}
	f.KeyRanges = append(f.KeyRanges, token)
}

// FilterStore holds the two filter snapshots: pending (user-edited) and
// applied (driving fetches). Only Commit and QuickApply move state from
// pending to applied; nothing here triggers a fetch.
type FilterStore struct {
	pending FilterState
	applied FilterState
}

// NewFilterStore creates a store with both snapshots at the defaults.
func NewFilterStore() *FilterStore {
	return &FilterStore{
		pending: DefaultFilterState(),
		applied: DefaultFilterState(),
	}
}

// Pending exposes the pending snapshot for direct field edits. Edits
// have no effect on fetches until committed.
func (s *FilterStore) Pending() *FilterState {
	return &s.pending
}

// Applied returns an independent copy of the applied snapshot.
func (s *FilterStore) Applied() FilterState {
	return s.applied.Clone()
}

// ResetPending restores the pending snapshot to the defaults. The
// applied snapshot is untouched.
func (s *FilterStore) ResetPending() {
	s.pending = DefaultFilterState()
}

// Commit replaces the applied snapshot with a clone of pending. This is
// the sole full-width trigger a consumer should re-fetch on.
func (s *FilterStore) Commit() {
	s.applied = s.pending.Clone()
}

// QuickApply commits only the search string and sort key, leaving the
// rest of the applied snapshot untouched. Search and sort feel instant;
// structural filters still require an explicit Commit. The asymmetry is
// deliberate.
func (s *FilterStore) QuickApply() {
	s.applied.Search = s.pending.Search
	s.applied.SortBy = s.pending.SortBy
}
