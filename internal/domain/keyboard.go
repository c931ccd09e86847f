package domain

import "time"

// KeyboardType classifies the physical key arrangement. It is a closed
// vocabulary; anything outside it is rejected at the API boundary.
type KeyboardType string

const (
	TypeTypewriter    KeyboardType = "typewriter"
	TypeAlice         KeyboardType = "alice"
	TypeOrtholinear   KeyboardType = "ortholinear"
	TypeColumnStagger KeyboardType = "column_stagger"
	TypeSplay         KeyboardType = "splay"
	TypeDactyl        KeyboardType = "dactyl"
	TypeNone          KeyboardType = "none"
)

// Valid reports whether t is a member of the closed type vocabulary.
func (t KeyboardType) Valid() bool {
	switch t {
	case TypeTypewriter, TypeAlice, TypeOrtholinear, TypeColumnStagger,
		TypeSplay, TypeDactyl, TypeNone:
		return true
	}
	return false
}

// SortOption enumerates the supported list orderings.
type SortOption string

const (
	SortNameAsc   SortOption = "name_asc"
	SortNameDesc  SortOption = "name_desc"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
)

// Valid reports whether s is a supported sort option.
func (s SortOption) Valid() bool {
	switch s {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// KeyboardTags is the pair of independent boolean facets that survived
// the tag-vocabulary collapse; everything else lives in KeyboardType.
type KeyboardTags struct {
	IsWireless       bool `json:"is_wireless"`
	HasCursorControl bool `json:"has_cursor_control"`
}

// Keyboard represents one catalog entry. Price is nil for handmade/DIY
// boards that have no fixed price; that absence is itself filterable.
// KeyCountRange is a free-form bucket token ("42", "5*6", "tkl", ...),
// never interpreted as a pattern, and independent of KeyboardType.
type Keyboard struct {
	ID            int64        `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	Price         *int64       `json:"price" db:"price"`
	Link          string       `json:"link" db:"link"`
	ImagePath     string       `json:"-" db:"image_path"`
	KeyCountRange string       `json:"key_count_range" db:"key_count_range"`
	KeyboardType  KeyboardType `json:"keyboard_type" db:"keyboard_type"`
	Tags          KeyboardTags `json:"tags"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}
