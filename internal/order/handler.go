// AngelaMos | 2026
// handler.go

package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/user/{userId}", func(r chi.Router) {
			r.Use(middleware.RequireOwner("userId"))
			r.Get("/current", h.Current)
			r.Get("/completed", h.Completed)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Delete)
			r.Post("/products", h.AddProduct)
			r.Patch("/status", h.UpdateStatus)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invalid order id")
	if !ok {
		return
	}

	order, products, err := h.service.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToOrderDetailResponse(order, products))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.Created(w, ToOrderResponse(order))
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invalid order id")
	if !ok {
		return
	}

	var req AddProductRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	line, err := h.service.AddProduct(r.Context(), id, middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.Created(w, ToOrderProductResponse(line))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invalid order id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.Message(w, "Order deleted successfully")
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invalid order id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToOrderResponse(order))
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", "invalid user id")
	if !ok {
		return
	}

	order, err := h.service.Current(r.Context(), userID)
	if errors.Is(err, ErrNoActiveOrder) {
		core.Message(w, "No active order found")
		return
	}
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToOrderResponse(order))
}

func (h *Handler) Completed(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", "invalid user id")
	if !ok {
		return
	}

	orders, err := h.service.Completed(r.Context(), userID)
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func pathID(w http.ResponseWriter, r *http.Request, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, message)
		return 0, false
	}
	return id, true
}
