package transport

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"splitkb-catalog/internal/domain"
	"splitkb-catalog/internal/middleware"
	"splitkb-catalog/internal/repository"
	"splitkb-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// KeyboardResponse is the wire shape of one catalog entry.
type KeyboardResponse struct {
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

// KeyboardListResponse is one page of catalog entries.
type KeyboardListResponse struct {
	Keyboards  []KeyboardResponse `json:"keyboards"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
}

// CompareRequest selects exactly two keyboards for comparison.
type CompareRequest struct {
	KeyboardIDs []int64 `json:"keyboard_ids" validate:"required,len=2"`
}

// CompareResponse carries both sides of a comparison.
type CompareResponse struct {
	Keyboards []KeyboardResponse `json:"keyboards"`
}

// KeyboardHandler handles the public catalog read endpoints.
type KeyboardHandler struct {
	catalog         service.CatalogService
	imagePublicPath string
	logger          *zap.Logger
}

// NewKeyboardHandler creates a new KeyboardHandler. imagePublicPath is
// the URL prefix under which stored images are served.
func NewKeyboardHandler(catalog service.CatalogService, imagePublicPath string, logger *zap.Logger) *KeyboardHandler {
	return &KeyboardHandler{
		catalog:         catalog,
		imagePublicPath: imagePublicPath,
		logger:          logger,
	}
}

// RegisterRoutes registers the public keyboard routes.
func (h *KeyboardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/keyboards", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/compare", h.Compare)
		r.Get("/{id}", h.Get)
	})
}

func (h *KeyboardHandler) toResponse(kb *domain.Keyboard) KeyboardResponse {
	return KeyboardResponse{
		ID:            kb.ID,
		Name:          kb.Name,
		Price:         kb.Price,
		Link:          kb.Link,
		ImageURL:      path.Join(h.imagePublicPath, kb.ImagePath),
		KeyCountRange: kb.KeyCountRange,
		KeyboardType:  kb.KeyboardType,
		Tags:          kb.Tags,
		CreatedAt:     kb.CreatedAt,
		UpdatedAt:     kb.UpdatedAt,
	}
}

// parseListQuery maps query parameters onto the repository filter.
// Unset parameters leave their axis unfiltered; include_null_price
// defaults to true.
func parseListQuery(r *http.Request) (repository.KeyboardFilter, domain.SortOption, int, int, error) {
	q := r.URL.Query()
	filter := repository.KeyboardFilter{IncludeNullPrice: true}

	if v := q.Get("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, "", 0, 0, newParamError("min_price")
		}
		filter.MinPrice = &n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, "", 0, 0, newParamError("max_price")
		}
		filter.MaxPrice = &n
	}
	if v := q.Get("include_null_price"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, "", 0, 0, newParamError("include_null_price")
		}
		filter.IncludeNullPrice = b
	}
	if v := q.Get("only_null_price"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, "", 0, 0, newParamError("only_null_price")
		}
		filter.OnlyNullPrice = b
	}

	// Comma-joined exact tokens. Tokens are matched literally; '*' has
	// no special meaning anywhere in the bucket vocabulary.
	if v := q.Get("key_ranges"); v != "" {
		for _, token := range strings.Split(v, ",") {
			token = strings.TrimSpace(token)
			if token != "" {
				filter.KeyRanges = append(filter.KeyRanges, token)
			}
		}
	}

	if v := q.Get("keyboard_type"); v != "" {
		kt := domain.KeyboardType(v)
		if !kt.Valid() {
			return filter, "", 0, 0, newParamError("keyboard_type")
		}
		filter.KeyboardType = &kt
	}
	if v := q.Get("is_wireless"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, "", 0, 0, newParamError("is_wireless")
		}
		filter.IsWireless = &b
	}
	if v := q.Get("has_cursor_control"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, "", 0, 0, newParamError("has_cursor_control")
		}
		filter.HasCursorControl = &b
	}

	filter.Search = q.Get("search")

	sortBy := domain.SortNameAsc
	if v := q.Get("sort_by"); v != "" {
		sortBy = domain.SortOption(v)
		if !sortBy.Valid() {
			return filter, "", 0, 0, newParamError("sort_by")
		}
	}

	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, "", 0, 0, newParamError("page")
		}
		page = n
	}

	limit := service.DefaultPageSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, "", 0, 0, newParamError("limit")
		}
		limit = n
	}

	return filter, sortBy, page, limit, nil
}

type paramError struct {
	param string
}

func newParamError(param string) error {
	return &paramError{param: param}
}

func (e *paramError) Error() string {
	return "invalid value for parameter " + e.param
}

// List handles GET /api/keyboards.
func (h *KeyboardHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, sortBy, page, limit, err := parseListQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalog.List(r.Context(), filter, sortBy, page, limit)
	if err != nil {
		h.logger.Error("Failed to list keyboards", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list keyboards")
		return
	}

	resp := KeyboardListResponse{
		Keyboards:  make([]KeyboardResponse, 0, len(result.Keyboards)),
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	}
	for _, kb := range result.Keyboards {
		resp.Keyboards = append(resp.Keyboards, h.toResponse(kb))
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/keyboards/{id}.
func (h *KeyboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid keyboard id")
		return
	}

	kb, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrKeyboardNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "keyboard not found")
			return
		}
		h.logger.Error("Failed to get keyboard", zap.Int64("id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get keyboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(kb))
}

// Compare handles POST /api/keyboards/compare.
func (h *KeyboardHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	keyboards, err := h.catalog.Compare(r.Context(), req.KeyboardIDs)
	if err != nil {
		switch err {
		case service.ErrCompareCount:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case service.ErrCompareNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("Failed to compare keyboards", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compare keyboards")
		}
		return
	}

	resp := CompareResponse{Keyboards: make([]KeyboardResponse, 0, len(keyboards))}
	for _, kb := range keyboards {
		resp.Keyboards = append(resp.Keyboards, h.toResponse(kb))
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}
