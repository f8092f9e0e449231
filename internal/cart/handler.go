// AngelaMos | 2026
// handler.go

package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/middleware"
)

type addToCartRequest struct {
	ItemID string `json:"itemId" validate:"required,uuid"`
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
	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.List)
		r.Post("/", h.AddToCart)
		r.Delete("/{cartItemID}", h.RemoveFromCart)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, lines)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	line, err := h.service.AddToCart(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ItemID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "item")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, line)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	line, err := h.service.RemoveFromCart(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "cartItemID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "cart item")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "that cart item is not yours")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, line)
}
