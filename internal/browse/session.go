package browse

import "context"

// Session owns all client-side state for one browsing session:
// filters, the fetch controller, the comparison selection, and the
// admin controller. It is created at session start and discarded at
// page exit; nothing here is a process-wide singleton.
type Session struct {
	Filters *FilterStore
	List    *ListController
	Compare *Selection
	Admin   *AdminController
}

// NewSession wires up a session against the given client. The default
// page size matches the server's.
func NewSession(client *Client) *Session {
	filters := NewFilterStore()
	list := NewListController(client, filters, 20)
	return &Session{
		Filters: filters,
		List:    list,
		Compare: NewSelection(),
		Admin:   NewAdminController(client, nil),
	}
}

// Start issues the initial fetch with default filters.
func (s *Session) Start(ctx context.Context) error {
	return s.List.Fetch(ctx)
}

// CreateKeyboard performs the admin create and re-fetches the list on
// success, so the admin view reflects the mutation.
func (s *Session) CreateKeyboard(ctx context.Context, draft KeyboardDraft) (*Keyboard, error) {
	kb, err := s.Admin.CreateKeyboard(ctx, draft)
	if err != nil {
		return nil, err
	}
	return kb, s.List.Fetch(ctx)
}

// UpdateKeyboard performs the admin update and re-fetches on success.
func (s *Session) UpdateKeyboard(ctx context.Context, id int64, draft KeyboardDraft) (*Keyboard, error) {
	kb, err := s.Admin.UpdateKeyboard(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	return kb, s.List.Fetch(ctx)
}

// DeleteKeyboard performs the admin delete and re-fetches on success.
func (s *Session) DeleteKeyboard(ctx context.Context, id int64) error {
	if err := s.Admin.DeleteKeyboard(ctx, id); err != nil {
		return err
	}
	return s.List.Fetch(ctx)
}

// Close tears down session state. Selections and filters do not
// survive a session.
func (s *Session) Close() {
	s.Compare.Clear()
	s.Filters.ResetPending()
}
