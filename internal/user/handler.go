package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*User, error)
	Areas(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*User, error)
	Profile(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, in UserInput) (*User, error)
	Update(ctx context.Context, id string, body []byte) (*User, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.Service.List(r.Context(), ListFilter{Search: q.Get("busqueda"), Area: q.Get("area")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: users, Total: len(users)})
}

func (h *Handler) Areas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Service.Areas(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: areas})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: u})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Service.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: profile})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in UserInput
	if err := h.DecodeJSON(r, &in); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.Logger.Warn("Create: user not created", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, transport.DataResponse{Data: u, Message: "Usuario creado exitosamente"})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := h.ReadBody(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.Update(r.Context(), id, body)
	if err != nil {
		h.Logger.Warn("Update: user not updated", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: u, Message: "Usuario actualizado"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Warn("Delete: user not deleted", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: nil, Message: "Usuario eliminado"})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/areas", h.Areas)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/profile", h.Profile)
}
