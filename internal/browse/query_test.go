package browse

import (
	"strings"
	"testing"

	"splitkb-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBuildQueryDefaults(t *testing.T) {
	q := BuildQuery(DefaultFilterState(), 1, 20)

	if got := q.Get("include_null_price"); got != "true" {
		t.Errorf("include_null_price = %q, want %q", got, "true")
	}
	if q.Has("max_price") {
		t.Errorf("max_price sent for unbounded ceiling: %q", q.Get("max_price"))
	}
	if q.Has("only_null_price") {
		t.Error("only_null_price sent in default price mode")
	}
	if q.Has("key_ranges") || q.Has("keyboard_type") || q.Has("is_wireless") || q.Has("has_cursor_control") || q.Has("search") {
		t.Errorf("unexpected facet parameters in defaults: %v", q)
	}
	if got := q.Get("sort_by"); got != string(domain.SortNameAsc) {
		t.Errorf("sort_by = %q, want %q", got, domain.SortNameAsc)
	}
	if q.Get("page") != "1" || q.Get("limit") != "20" {
		t.Errorf("pagination = page %q limit %q, want 1/20", q.Get("page"), q.Get("limit"))
	}
}

func TestBuildQueryWithPriceCeiling(t *testing.T) {
	f := DefaultFilterState()
	f.PriceFilter = PriceWithPrice
	f.PriceCeiling = 200000
	f.ToggleKeyRange("42")

	q := BuildQuery(f, 1, 20)

	if got := q.Get("include_null_price"); got != "false" {
		t.Errorf("include_null_price = %q, want %q", got, "false")
	}
	if got := q.Get("max_price"); got != "200000" {
		t.Errorf("max_price = %q, want %q", got, "200000")
	}
	if got := q.Get("key_ranges"); got != "42" {
		t.Errorf("key_ranges = %q, want %q", got, "42")
	}
}

// The DIY-only mode must never transmit a price bound, no matter what
// the ceiling slider was left at.
func TestBuildQueryDIYOnlyOmitsPriceBounds(t *testing.T) {
	f := DefaultFilterState()
	f.PriceFilter = PriceDIYOnly
	f.PriceCeiling = 50

	q := BuildQuery(f, 3, 10)

	if got := q.Get("only_null_price"); got != "true" {
		t.Errorf("only_null_price = %q, want %q", got, "true")
	}
	if got := q.Get("include_null_price"); got != "true" {
		t.Errorf("include_null_price = %q, want %q", got, "true")
	}
	if q.Has("max_price") {
		t.Errorf("max_price sent in diy_only mode: %q", q.Get("max_price"))
	}
	if q.Get("page") != "3" || q.Get("limit") != "10" {
		t.Errorf("pagination = page %q limit %q, want 3/10", q.Get("page"), q.Get("limit"))
	}
}

// Bucket tokens are opaque; a token containing "*" travels verbatim and
// is never expanded into a pattern.
func TestBuildQueryKeyRangeTokensAreOpaque(t *testing.T) {
	f := DefaultFilterState()
	f.ToggleKeyRange("5*6")
	f.ToggleKeyRange("36-49")

	q := BuildQuery(f, 1, 20)

	if got := q.Get("key_ranges"); got != "5*6,36-49" {
		t.Errorf("key_ranges = %q, want %q", got, "5*6,36-49")
	}
}

func TestBuildQuerySearchTrimmed(t *testing.T) {
	f := DefaultFilterState()
	f.Search = "   "
	if q := BuildQuery(f, 1, 20); q.Has("search") {
		t.Errorf("blank search transmitted: %q", q.Get("search"))
	}

	f.Search = "  corne "
	if got := BuildQuery(f, 1, 20).Get("search"); got != "corne" {
		t.Errorf("search = %q, want %q", got, "corne")
	}
}

func TestBuildQueryTriStateFacets(t *testing.T) {
	f := DefaultFilterState()
	wireless := true
	cursor := false
	f.IsWireless = &wireless
	f.HasCursorControl = &cursor
	kt := domain.TypeColumnStagger
	f.KeyboardType = &kt

	q := BuildQuery(f, 1, 20)

	if got := q.Get("is_wireless"); got != "true" {
		t.Errorf("is_wireless = %q, want %q", got, "true")
	}
	if got := q.Get("has_cursor_control"); got != "false" {
		t.Errorf("has_cursor_control = %q, want %q", got, "false")
	}
	if got := q.Get("keyboard_type"); got != string(domain.TypeColumnStagger) {
		t.Errorf("keyboard_type = %q, want %q", got, domain.TypeColumnStagger)
	}
}

func TestProperty_DIYOnlyNeverSendsMaxPrice(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("diy_only omits max_price for any ceiling", prop.ForAll(
		func(ceiling int64, page int, limit int) bool {
			f := DefaultFilterState()
			f.PriceFilter = PriceDIYOnly
			f.PriceCeiling = ceiling

			q := BuildQuery(f, page, limit)
			if q.Has("max_price") {
				t.Logf("FAIL: max_price %q sent at ceiling %d", q.Get("max_price"), ceiling)
				return false
			}
			return q.Get("only_null_price") == "true"
		},
		gen.Int64Range(0, MaxPriceCeiling),
		gen.IntRange(1, 100),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_KeyRangeSelectionRoundTrips(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("selected tokens appear exactly once, comma joined", prop.ForAll(
		func(tokens []string) bool {
			f := DefaultFilterState()
			seen := map[string]bool{}
			for _, tok := range tokens {
				if !seen[tok] {
					seen[tok] = true
					f.ToggleKeyRange(tok)
				}
			}

			q := BuildQuery(f, 1, 20)
			if len(f.KeyRanges) == 0 {
				return !q.Has("key_ranges")
			}

			got := strings.Split(q.Get("key_ranges"), ",")
			if len(got) != len(f.KeyRanges) {
				t.Logf("FAIL: %d tokens sent, %d selected", len(got), len(f.KeyRanges))
				return false
			}
			for i, tok := range f.KeyRanges {
				if got[i] != tok {
					t.Logf("FAIL: token %d = %q, want %q", i, got[i], tok)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.RegexMatch(`[0-9]{1,3}(-[0-9]{1,3}|\+|\*[0-9])?`)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
