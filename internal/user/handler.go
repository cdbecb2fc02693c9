// AngelaMos | 2026
// handler.go

package user

import (
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

// RegisterRoutes mounts /users. public registers unauthenticated routes
// (signup, login) on the same subrouter.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	public ...func(chi.Router),
) {
	r.Route("/users", func(r chi.Router) {
		for _, register := range public {
			register(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/", h.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.RequireOwner("id"))
				r.Get("/", h.Get)
				r.Put("/", h.Update)
				r.Delete("/", h.Delete)
				r.Put("/password", h.UpdatePassword)
				r.Get("/orders/recent", h.RecentOrders)
			})
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	user, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := core.DecodeJSON(r, h.validator, &req); err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	if err := h.service.UpdatePassword(r.Context(), id, req); err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.Message(w, "Password updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.Message(w, "User deleted successfully")
}

func (h *Handler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	orders, err := h.service.RecentOrders(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToRecentOrderResponseList(orders))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid user id")
		return 0, false
	}
	return id, true
}
