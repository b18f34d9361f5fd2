// AngelaMos | 2026
// handler.go

package artist

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/syxphajm/artzone-sub000/internal/core"
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
	authenticator, artistOnly func(http.Handler) http.Handler,
) {
	r.Route("/artists", func(r chi.Router) {
		r.Get("/{artistID}", h.GetArtist)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(artistOnly)
			r.Get("/me", h.GetMyProfile)
			r.Put("/me", h.UpdateMyProfile)
		})
	})
}

func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	artistID := chi.URLParam(r, "artistID")

	artist, name, err := h.service.Get(r.Context(), artistID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "artist")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToArtistResponse(artist, name))
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	artist, err := h.service.ProfileForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToArtistResponse(artist, ""))
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	artist, err := h.service.UpdateForUser(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToArtistResponse(artist, ""))
}
