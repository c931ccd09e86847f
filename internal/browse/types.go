// Package browse is the client side of the catalog: filter state,
// query building, paginated fetching with stale-response discarding,
// pairwise comparison selection, and the authenticated admin
// operations. It holds no UI; a frontend drives it and renders what it
// exposes.
package browse

import (
	"time"

	"splitkb-catalog/internal/domain"
)

// Keyboard is one catalog entry as served by the list endpoint.
type Keyboard struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Price         *int64              `json:"price"`
	Link          string              `json:"link"`
	ImageURL      string              `json:"image_url"`
	KeyCountRange string              `json:"key_count_range"`
	KeyboardType  domain.KeyboardType `json:"keyboard_type"`
	Tags          domain.KeyboardTags `json:"tags"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// KeyboardList is one page of list results.
type KeyboardList struct {
	Keyboards  []Keyboard `json:"keyboards"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}

// Account is one admin account as served by the accounts endpoint.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
