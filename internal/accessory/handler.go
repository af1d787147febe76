package accessory

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Accessory, error)
	Get(ctx context.Context, id string) (*Accessory, error)
	Create(ctx context.Context, in AccessoryInput) (*Accessory, error)
	Update(ctx context.Context, id string, body []byte) (*Accessory, error)
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
	items, err := h.Service.List(r.Context(), ListFilter{Search: q.Get("busqueda"), Status: q.Get("estado")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: items, Total: len(items)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: item})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in AccessoryInput
	if err := h.DecodeJSON(r, &in); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	item, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, transport.DataResponse{Data: item, Message: "Accesorio registrado exitosamente"})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := h.ReadBody(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	item, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: item, Message: "Accesorio actualizado"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: nil, Message: "Accesorio eliminado"})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
