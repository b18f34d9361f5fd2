// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/syxphajm/artzone-sub000/internal/core"
	"github.com/syxphajm/artzone-sub000/internal/metrics"
	"github.com/syxphajm/artzone-sub000/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth, artistOnly func(http.Handler) http.Handler,
) {
	r.Get("/categories", h.ListCategories)

	r.Route("/artworks", func(r chi.Router) {
		r.Get("/", h.Browse)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(artistOnly)
			r.Get("/mine", h.ListMine)
			r.Post("/", h.CreateArtwork)
			r.Put("/{artworkID}", h.UpdateArtwork)
			r.Delete("/{artworkID}", h.DeleteArtwork)
		})

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/{artworkID}", h.GetArtwork)
		})
	})
}

// RegisterAdminRoutes registers the moderation endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/artworks", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ModerationQueue)
		r.Patch("/{artworkID}", h.ModerateArtwork)
	})
}

func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	rows, total, err := h.service.Browse(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToArtworkResponseList(rows), params.Page, params.PageSize, total)
}

func (h *Handler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "artworkID")
	viewerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	row, err := h.service.Get(r.Context(), artworkID, viewerID, isAdmin)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "artwork")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, row.ToResponse())
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	params := parseListParams(r)

	rows, total, err := h.service.ListMine(r.Context(), userID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToArtworkResponseList(rows), params.Page, params.PageSize, total)
}

func (h *Handler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateArtworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	artwork, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, err.Error())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToArtworkResponse(artwork))
}

func (h *Handler) UpdateArtwork(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	artworkID := chi.URLParam(r, "artworkID")

	var req UpdateArtworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	artwork, err := h.service.Update(r.Context(), userID, artworkID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "artwork")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToArtworkResponse(artwork))
}

func (h *Handler) DeleteArtwork(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	artworkID := chi.URLParam(r, "artworkID")

	err := h.service.Delete(r.Context(), userID, artworkID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "artwork")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	status := StatusPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || !ArtworkStatus(value).Valid() {
			core.BadRequest(w, "status must be 0, 1 or 2")
			return
		}
		status = ArtworkStatus(value)
	}

	rows, total, err := h.service.ListByStatus(r.Context(), status, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToArtworkResponseList(rows), params.Page, params.PageSize, total)
}

func (h *Handler) ModerateArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "artworkID")

	var req ModerateArtworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	row, err := h.service.Moderate(r.Context(), artworkID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "artwork")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "status must be 0, 1 or 2")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	metrics.ArtworksModerated.WithLabelValues(ArtworkStatus(req.Status).String()).Inc()
	core.OK(w, row.ToResponse())
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, categories)
}

func parseListParams(r *http.Request) ListArtworksParams {
	params := ListArtworksParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			params.CategoryID = id
		}
	}
	return params
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
