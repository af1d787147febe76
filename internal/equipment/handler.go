package equipment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Equipment, error)
	Get(ctx context.Context, id string) (*Equipment, error)
	Create(ctx context.Context, in EquipmentInput) (*Equipment, error)
	Update(ctx context.Context, id string, body []byte) (*Equipment, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) (*HistoryResponse, error)
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
	filter := ListFilter{
		Search:      q.Get("busqueda"),
		Status:      q.Get("estado"),
		Criticality: q.Get("criticidad"),
		Type:        q.Get("tipo"),
		IsRented:    transport.QueryBool(r, "es_rentado"),
	}

	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("List: failed to list equipment", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: items, Total: len(items)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: item})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in EquipmentInput
	if err := h.DecodeJSON(r, &in); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	item, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.Logger.Warn("Create: equipment not created", "error", err, "placa", in.AssetTag)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, transport.DataResponse{Data: item, Message: "Equipo creado exitosamente"})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := h.ReadBody(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	item, err := h.Service.Update(r.Context(), id, body)
	if err != nil {
		h.Logger.Warn("Update: equipment not updated", "error", err, "equipment_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: item, Message: "Equipo actualizado exitosamente"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Warn("Delete: equipment not deleted", "error", err, "equipment_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: nil, Message: "Equipo eliminado exitosamente"})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	history, err := h.Service.History(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: history})
}

// Routes mounts the equipment endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/history", h.History)
}
