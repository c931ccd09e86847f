package transport

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"splitkb-catalog/internal/domain"
	"splitkb-catalog/internal/middleware"
	"splitkb-catalog/internal/repository"
	"splitkb-catalog/internal/service"
	"splitkb-catalog/internal/upload"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger bodies spill to temp files.
const maxMultipartMemory = 10 << 20

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AccountCreateRequest is the payload for creating an admin account.
type AccountCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// AccountResponse is the wire shape of one admin account.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountListResponse lists all admin accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AdminHandler handles admin authentication, account management, and
// keyboard mutations.
type AdminHandler struct {
	admins   service.AdminService
	catalog  service.CatalogService
	keyboard *KeyboardHandler
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. The keyboard handler is
// shared so mutation responses use the same wire shape as the catalog.
func NewAdminHandler(admins service.AdminService, catalog service.CatalogService, keyboard *KeyboardHandler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		catalog:  catalog,
		keyboard: keyboard,
		logger:   logger,
	}
}

// RegisterRoutes registers all admin routes. loginLimiter, when
// non-nil, wraps only the login endpoint.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		if loginLimiter != nil {
			r.With(loginLimiter).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/accounts", h.ListAccounts)
			r.Post("/accounts", h.CreateAccount)
			r.Delete("/accounts/{id}", h.DeleteAccount)

			r.Post("/keyboards", h.CreateKeyboard)
			r.Put("/keyboards/{id}", h.UpdateKeyboard)
			r.Delete("/keyboards/{id}", h.DeleteKeyboard)
		})
	})
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", req.Username))
	middleware.RespondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// ListAccounts handles GET /api/admin/accounts.
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	resp := AccountListResponse{Accounts: make([]AccountResponse, 0, len(admins))}
	for _, a := range admins {
		resp.Accounts = append(resp.Accounts, AccountResponse{
			ID:        a.ID,
			Username:  a.Username,
			CreatedAt: a.CreatedAt,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// CreateAccount handles POST /api/admin/accounts.
func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountCreateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.admins.CreateAccount(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == repository.ErrAdminAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to create account", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.logger.Info("Admin account created", zap.String("username", admin.Username))
	middleware.RespondWithJSON(w, http.StatusCreated, AccountResponse{
		ID:        admin.ID,
		Username:  admin.Username,
		CreatedAt: admin.CreatedAt,
	})
}

// DeleteAccount handles DELETE /api/admin/accounts/{id}. Self-deletion
// is rejected as a policy violation.
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	callerID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.admins.DeleteAccount(r.Context(), callerID, targetID); err != nil {
		switch err {
		case service.ErrSelfDeletion:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrAdminNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("Failed to delete account", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete account")
		}
		return
	}

	h.logger.Info("Admin account deleted", zap.Int64("id", targetID))
	w.WriteHeader(http.StatusNoContent)
}

// keyboardForm is the parsed multipart payload for keyboard mutations.
type keyboardForm struct {
	input     service.KeyboardInput
	imageName string
	image     multipart.File
}

// parseKeyboardForm parses and validates a multipart keyboard payload.
// The image part is required only when imageRequired is set (create);
// on update a missing image means "keep the current one".
func parseKeyboardForm(r *http.Request, imageRequired bool) (*keyboardForm, []middleware.ValidationError, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, nil, err
	}

	var fieldErrors []middleware.ValidationError
	missing := func(field string) {
		fieldErrors = append(fieldErrors, middleware.ValidationError{
			Field:   field,
			Message: "This field is required",
		})
	}

	form := &keyboardForm{}
	form.input.Name = r.FormValue("name")
	form.input.Link = r.FormValue("link")
	form.input.KeyCountRange = r.FormValue("key_count_range")

	if form.input.Name == "" {
		missing("name")
	}
	if form.input.Link == "" {
		missing("link")
	}
	if form.input.KeyCountRange == "" {
		missing("key_count_range")
	}

	form.input.KeyboardType = domain.TypeNone
	if v := r.FormValue("keyboard_type"); v != "" {
		form.input.KeyboardType = domain.KeyboardType(v)
		if !form.input.KeyboardType.Valid() {
			fieldErrors = append(fieldErrors, middleware.ValidationError{
				Field:   "keyboard_type",
				Message: "Invalid value",
			})
		}
	}

	if v := r.FormValue("price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			fieldErrors = append(fieldErrors, middleware.ValidationError{
				Field:   "price",
				Message: "Price must be a non-negative number",
			})
		} else {
			form.input.Price = &n
		}
	}

	if v := r.FormValue("is_wireless"); v != "" {
		form.input.IsWireless, _ = strconv.ParseBool(v)
	}
	if v := r.FormValue("has_cursor_control"); v != "" {
		form.input.HasCursorControl, _ = strconv.ParseBool(v)
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		form.image = file
		form.imageName = header.Filename
	case err == http.ErrMissingFile:
		if imageRequired {
			missing("image")
		}
	default:
		return nil, nil, err
	}

	if len(fieldErrors) > 0 {
		if form.image != nil {
			form.image.Close()
		}
		return nil, fieldErrors, nil
	}

	return form, nil, nil
}

func (h *AdminHandler) respondKeyboardError(w http.ResponseWriter, err error) {
	switch err {
	case repository.ErrKeyboardNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "keyboard not found")
	case service.ErrInvalidKeyboardType, service.ErrNegativePrice,
		upload.ErrFileTypeNotAllowed, upload.ErrFileTooLarge:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Keyboard mutation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "keyboard mutation failed")
	}
}

// CreateKeyboard handles POST /api/admin/keyboards (multipart).
func (h *AdminHandler) CreateKeyboard(w http.ResponseWriter, r *http.Request) {
	form, fieldErrors, err := parseKeyboardForm(r, true)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if len(fieldErrors) > 0 {
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}
	defer form.image.Close()

	kb, err := h.catalog.Create(r.Context(), form.input, form.imageName, form.image)
	if err != nil {
		h.respondKeyboardError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, h.keyboard.toResponse(kb))
}

// UpdateKeyboard handles PUT /api/admin/keyboards/{id} (multipart).
func (h *AdminHandler) UpdateKeyboard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid keyboard id")
		return
	}

	form, fieldErrors, err := parseKeyboardForm(r, false)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if len(fieldErrors) > 0 {
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}

	var image io.Reader
	if form.image != nil {
		defer form.image.Close()
		image = form.image
	}

	kb, err := h.catalog.Update(r.Context(), id, form.input, form.imageName, image)
	if err != nil {
		h.respondKeyboardError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.keyboard.toResponse(kb))
}

// DeleteKeyboard handles DELETE /api/admin/keyboards/{id}.
func (h *AdminHandler) DeleteKeyboard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid keyboard id")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.respondKeyboardError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
