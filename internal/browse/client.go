package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"splitkb-catalog/internal/domain"
)

// Client talks to the catalog API. The zero token issues only public
// reads; SetToken enables the admin endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the API at baseURL. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken installs the bearer credential for admin requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// errorBody mirrors the structured error responses of the API.
type errorBody struct {
	Detail string `json:"detail"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

// decodeError maps a non-2xx response onto the error taxonomy. A body
// that is not the structured shape degrades to NetworkError.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == "" {
		return &NetworkError{Detail: fmt.Sprintf("unexpected response status %d", resp.StatusCode)}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{Detail: body.Detail}
	case http.StatusConflict:
		return &ConflictError{Detail: body.Detail}
	case http.StatusBadRequest:
		if len(body.Fields) > 0 {
			fields := make([]string, 0, len(body.Fields))
			for _, f := range body.Fields {
				fields = append(fields, f.Field)
			}
			return &ValidationError{Detail: body.Detail, Fields: fields}
		}
		return &PolicyError{Detail: body.Detail}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &PolicyError{Detail: body.Detail}
	default:
		return &NetworkError{Detail: body.Detail}
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Detail: "failed to decode response", Err: err}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &NetworkError{Detail: "failed to build request", Err: err}
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &NetworkError{Detail: "failed to encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Detail: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// ListKeyboards fetches one page of the catalog.
func (c *Client) ListKeyboards(ctx context.Context, query url.Values) (*KeyboardList, error) {
	var list KeyboardList
	if err := c.getJSON(ctx, "/api/keyboards", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetKeyboard fetches a single catalog entry.
func (c *Client) GetKeyboard(ctx context.Context, id int64) (*Keyboard, error) {
	var kb Keyboard
	if err := c.getJSON(ctx, fmt.Sprintf("/api/keyboards/%d", id), nil, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

// CompareKeyboards resolves two entries for side-by-side display.
func (c *Client) CompareKeyboards(ctx context.Context, ids []int64) ([]Keyboard, error) {
	payload := struct {
		KeyboardIDs []int64 `json:"keyboard_ids"`
	}{KeyboardIDs: ids}

	var resp struct {
		Keyboards []Keyboard `json:"keyboards"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/keyboards/compare", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Keyboards, nil
}

// Login exchanges credentials for an access token and installs it on
// the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/admin/login", payload, &resp); err != nil {
		return err
	}

	c.token = resp.AccessToken
	return nil
}

// KeyboardDraft carries the fields of a keyboard create or update. A
// nil Image on update keeps the current image; create requires one.
type KeyboardDraft struct {
	Name             string
	Price            *int64
	Link             string
	KeyCountRange    string
	KeyboardType     domain.KeyboardType
	IsWireless       bool
	HasCursorControl bool
	ImageName        string
	Image            io.Reader
}

// multipartBody renders the draft as a multipart form, the wire format
// the admin keyboard endpoints require because of the embedded image.
func (d KeyboardDraft) multipartBody() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"name":               d.Name,
		"link":               d.Link,
		"key_count_range":    d.KeyCountRange,
		"is_wireless":        strconv.FormatBool(d.IsWireless),
		"has_cursor_control": strconv.FormatBool(d.HasCursorControl),
	}
	if d.KeyboardType != "" {
		fields["keyboard_type"] = string(d.KeyboardType)
	}
	if d.Price != nil {
		fields["price"] = strconv.FormatInt(*d.Price, 10)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if d.Image != nil {
		part, err := w.CreateFormFile("image", d.ImageName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, d.Image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) sendKeyboardForm(ctx context.Context, method, path string, draft KeyboardDraft) (*Keyboard, error) {
	body, contentType, err := draft.multipartBody()
	if err != nil {
		return nil, &NetworkError{Detail: "failed to encode form", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &NetworkError{Detail: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	var kb Keyboard
	if err := c.do(req, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

// CreateKeyboard creates a catalog entry (admin).
func (c *Client) CreateKeyboard(ctx context.Context, draft KeyboardDraft) (*Keyboard, error) {
	return c.sendKeyboardForm(ctx, http.MethodPost, "/api/admin/keyboards", draft)
}

// UpdateKeyboard overwrites a catalog entry (admin).
func (c *Client) UpdateKeyboard(ctx context.Context, id int64, draft KeyboardDraft) (*Keyboard, error) {
	return c.sendKeyboardForm(ctx, http.MethodPut, fmt.Sprintf("/api/admin/keyboards/%d", id), draft)
}

// DeleteKeyboard removes a catalog entry (admin).
func (c *Client) DeleteKeyboard(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/api/admin/keyboards/%d", c.baseURL, id), nil)
	if err != nil {
		return &NetworkError{Detail: "failed to build request", Err: err}
	}
	return c.do(req, nil)
}

// ListAccounts returns all admin accounts (admin).
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.getJSON(ctx, "/api/admin/accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// CreateAccount creates an admin account (admin).
func (c *Client) CreateAccount(ctx context.Context, username, password string) (*Account, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var account Account
	if err := c.sendJSON(ctx, http.MethodPost, "/api/admin/accounts", payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount removes an admin account (admin). Deleting the
// caller's own account is rejected server-side with a PolicyError.
func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/api/admin/accounts/%d", c.baseURL, id), nil)
	if err != nil {
		return &NetworkError{Detail: "failed to build request", Err: err}
	}
	return c.do(req, nil)
}
