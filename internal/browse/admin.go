package browse

import (
	"context"
	"strings"
)

// AdminController drives the authenticated catalog and account
// mutations. Required fields are validated locally so an obviously
// incomplete submission never leaves the client. After every
// successful mutation the refresh hook fires; writes are never
// retried automatically.
type AdminController struct {
	client   *Client
	onMutate func()
}

// NewAdminController creates a controller over the given client. The
// onMutate hook may be nil.
func NewAdminController(client *Client, onMutate func()) *AdminController {
	return &AdminController{
		client:   client,
		onMutate: onMutate,
	}
}

// Login authenticates and installs the bearer credential on the
// underlying client.
func (a *AdminController) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return &ValidationError{Detail: "username and password are required"}
	}
	return a.client.Login(ctx, username, password)
}

func (a *AdminController) mutated() {
	if a.onMutate != nil {
		a.onMutate()
	}
}

// validateDraft checks the locally checkable requirements of a
// keyboard draft. The image requirement only applies on create.
func validateDraft(draft KeyboardDraft, imageRequired bool) error {
	var missing []string
	if strings.TrimSpace(draft.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(draft.Link) == "" {
		missing = append(missing, "link")
	}
	if strings.TrimSpace(draft.KeyCountRange) == "" {
		missing = append(missing, "key_count_range")
	}
	if imageRequired && draft.Image == nil {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return &ValidationError{Detail: "required fields are missing", Fields: missing}
	}

	if draft.Price != nil && *draft.Price < 0 {
		return &ValidationError{Detail: "price must not be negative", Fields: []string{"price"}}
	}
	if draft.KeyboardType != "" && !draft.KeyboardType.Valid() {
		return &ValidationError{Detail: "unknown keyboard type", Fields: []string{"keyboard_type"}}
	}
	return nil
}

// CreateKeyboard creates a catalog entry. Name, link, key count range,
// and image are required.
func (a *AdminController) CreateKeyboard(ctx context.Context, draft KeyboardDraft) (*Keyboard, error) {
	if err := validateDraft(draft, true); err != nil {
		return nil, err
	}
	kb, err := a.client.CreateKeyboard(ctx, draft)
	if err != nil {
		return nil, err
	}
	a.mutated()
	return kb, nil
}

// UpdateKeyboard overwrites a catalog entry. A nil draft image keeps
// the current one.
func (a *AdminController) UpdateKeyboard(ctx context.Context, id int64, draft KeyboardDraft) (*Keyboard, error) {
	if err := validateDraft(draft, false); err != nil {
		return nil, err
	}
	kb, err := a.client.UpdateKeyboard(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	a.mutated()
	return kb, nil
}

// DeleteKeyboard removes a catalog entry. Irreversible; the caller is
// expected to have confirmed intent.
func (a *AdminController) DeleteKeyboard(ctx context.Context, id int64) error {
	if err := a.client.DeleteKeyboard(ctx, id); err != nil {
		return err
	}
	a.mutated()
	return nil
}

// ListAccounts returns all admin accounts.
func (a *AdminController) ListAccounts(ctx context.Context) ([]Account, error) {
	return a.client.ListAccounts(ctx)
}

// CreateAccount creates an admin account. Duplicate usernames come
// back as a ConflictError.
func (a *AdminController) CreateAccount(ctx context.Context, username, password string) (*Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, &ValidationError{Detail: "username and password are required"}
	}
	account, err := a.client.CreateAccount(ctx, username, password)
	if err != nil {
		return nil, err
	}
	a.mutated()
	return account, nil
}

// DeleteAccount removes an admin account. Self-deletion is rejected
// server-side with a PolicyError and changes nothing.
func (a *AdminController) DeleteAccount(ctx context.Context, id int64) error {
	if err := a.client.DeleteAccount(ctx, id); err != nil {
		return err
	}
	a.mutated()
	return nil
}
