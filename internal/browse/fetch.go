package browse

import (
	"context"
	"sync"
)

// FetchState is the lifecycle of the list controller.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateSuccess
	StateError
)

// ListController issues catalog list fetches and owns the visible
// result state. Every fetch carries a sequence number; a completion
// whose number is no longer the latest issued is discarded entirely,
// so out-of-order responses can never overwrite newer state. On
// failure the previous result list is kept and only the error message
// changes.
type ListController struct {
	client  *Client
	filters *FilterStore
	limit   int

	mu         sync.Mutex
	seq        uint64
	state      FetchState
	page       int
	keyboards  []Keyboard
	total      int
	totalPages int
	errMsg     string
}

// NewListController creates a controller over the given filter store.
func NewListController(client *Client, filters *FilterStore, limit int) *ListController {
	if limit <= 0 {
		limit = 20
	}
	return &ListController{
		client:  client,
		filters: filters,
		limit:   limit,
		page:    1,
		state:   StateIdle,
	}
}

// Fetch issues a list request for the current applied filter and page,
// blocking until it completes or is superseded. Safe to call from
// multiple goroutines; only the most recently issued request may update
// state.
func (c *ListController) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = StateLoading
	applied := c.filters.Applied()
	page := c.page
	c.mu.Unlock()

	list, err := c.client.ListKeyboards(ctx, BuildQuery(applied, page, c.limit))

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer fetch was issued while this one was in flight; its
	// outcome, success or failure, is stale and must not surface.
	if seq != c.seq {
		return nil
	}

	if err != nil {
		c.state = StateError
		c.errMsg = err.Error()
		return err
	}

	c.state = StateSuccess
	c.keyboards = list.Keyboards
	c.total = list.Total
	c.totalPages = list.TotalPages
	c.errMsg = ""
	return nil
}

// Apply commits pending filters, rewinds to the first page, and
// fetches. This is the "apply filters" action.
func (c *ListController) Apply(ctx context.Context) error {
	c.mu.Lock()
	c.filters.Commit()
	c.page = 1
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// QuickSearch commits only search and sort, rewinds to the first page,
// and fetches. This is the instant search-box/sort-selector path.
func (c *ListController) QuickSearch(ctx context.Context) error {
	c.mu.Lock()
	c.filters.QuickApply()
	c.page = 1
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetPage clamps the requested page to [1, totalPages] and fetches if
// it changed. With no known pages yet the clamp floor is page 1.
func (c *ListController) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	if c.totalPages > 0 && page > c.totalPages {
		page = c.totalPages
	}
	if page == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = page
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// State returns the current lifecycle state.
func (c *ListController) State() FetchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Keyboards returns a copy of the current result list.
func (c *ListController) Keyboards() []Keyboard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Keyboard(nil), c.keyboards...)
}

// Total returns the total match count of the last successful fetch.
func (c *ListController) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// TotalPages returns the page count of the last successful fetch.
func (c *ListController) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// Page returns the current page number.
func (c *ListController) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Err returns the last error message, empty after a successful fetch.
func (c *ListController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}
