package browse

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildQuery translates a filter snapshot plus pagination into list
// endpoint parameters. Pure and total: absent constraints simply
// produce no parameter.
//
// Bucket tokens are comma-joined and matched by exact string equality
// server-side; a token like "5*6" travels as-is and is never treated as
// a pattern.
func BuildQuery(f FilterState, page, limit int) url.Values {
	q := url.Values{}

	switch f.PriceFilter {
	case PriceWithPrice:
		q.Set("include_null_price", "false")
		if f.PriceCeiling < MaxPriceCeiling {
			q.Set("max_price", strconv.FormatInt(f.PriceCeiling, 10))
		}
	case PriceDIYOnly:
		// Ceiling is meaningless here and must not be sent.
		q.Set("include_null_price", "true")
		q.Set("only_null_price", "true")
	default:
		q.Set("include_null_price", "true")
		if f.PriceCeiling < MaxPriceCeiling {
			q.Set("max_price", strconv.FormatInt(f.PriceCeiling, 10))
		}
	}

	if len(f.KeyRanges) > 0 {
		q.Set("key_ranges", strings.Join(f.KeyRanges, ","))
	}

	if f.KeyboardType != nil {
		q.Set("keyboard_type", string(*f.KeyboardType))
	}
	if f.IsWireless != nil {
		q.Set("is_wireless", strconv.FormatBool(*f.IsWireless))
	}
	if f.HasCursorControl != nil {
		q.Set("has_cursor_control", strconv.FormatBool(*f.HasCursorControl))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}

	q.Set("sort_by", string(f.SortBy))
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	return q
}
