// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/middleware"
)

type checkoutRequest struct {
	Token string `json:"token" validate:"required"`
}

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

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.List)
		r.Get("/{orderID}", h.Get)
		r.Post("/checkout", h.Checkout)
	})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.Checkout(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.Token,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "your cart is empty")
		case errors.Is(err, core.ErrPaymentDeclined):
			core.JSONError(w, core.PaymentDeclinedError(err.Error()))
		case errors.Is(err, core.ErrPaymentGateway):
			core.JSONError(w, core.PaymentGatewayError())
		case errors.Is(err, core.ErrReconciliation):
			core.JSONError(w, core.ReconciliationError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, order)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetPermissions(r.Context()),
		chi.URLParam(r, "orderID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "order")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "you cannot see this order")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, order)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, orders)
}
