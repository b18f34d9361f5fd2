// AngelaMos | 2026
// handler.go

package order

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
	authenticator, placementLimit func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.With(placementLimit).Post("/", h.CreateOrder)
		r.Get("/", h.ListMyOrders)
		r.Get("/{orderID}", h.GetOrder)
		r.Patch("/{orderID}/cancel", h.CancelOrder)
	})
}

// RegisterAdminRoutes registers the fulfillment endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/orders", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListAllOrders)
		r.Get("/{orderID}", h.GetOrderAdmin)
		r.Patch("/{orderID}/status", h.UpdateOrderStatus)
	})
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	row, details, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		case errors.Is(err, core.ErrNotFound):
			core.BadRequest(w, err.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	metrics.OrdersCreated.Inc()
	core.Created(w, ToOrderResponse(row, details))
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	params := parseListParams(r)

	rows, total, err := h.service.ListMine(r.Context(), userID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToOrderResponseList(rows), params.Page, params.PageSize, total)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.getOrder(w, r, false)
}

func (h *Handler) GetOrderAdmin(w http.ResponseWriter, r *http.Request) {
	h.getOrder(w, r, true)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request, asAdmin bool) {
	userID := middleware.GetUserID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	row, details, err := h.service.Get(r.Context(), orderID, userID, asAdmin)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "order")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(row, details))
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	err := h.service.Cancel(r.Context(), orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "order")
		case errors.Is(err, core.ErrInvalidState):
			core.JSONError(w, core.InvalidStateError("only pending orders can be canceled"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	metrics.OrdersCanceled.Inc()
	core.NoContent(w)
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	rows, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToOrderResponseList(rows), params.Page, params.PageSize, total)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), orderID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "order")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		case errors.Is(err, core.ErrInvalidState):
			core.JSONError(w, core.InvalidStateError(err.Error()))
		case errors.Is(err, core.ErrConflict):
			core.Conflict(w, "order was modified concurrently, refetch and retry")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, updated)
}

func parseListParams(r *http.Request) ListOrdersParams {
	params := ListOrdersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			status := OrderStatus(value)
			if status.Valid() {
				params.Status = &status
			}
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
