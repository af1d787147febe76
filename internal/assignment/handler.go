package assignment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/internal/equipment"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Get(ctx context.Context, id string) (*Assignment, error)
	Create(ctx context.Context, req CreateAssignmentRequest) (*Assignment, error)
	RegisterReturn(ctx context.Context, id string) (*Assignment, error)
	Update(ctx context.Context, id string, body []byte) (*Assignment, error)
	AvailableEquipment(ctx context.Context) ([]*equipment.Equipment, error)
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
	result, err := h.Service.List(r.Context(), ListFilter{
		Search: q.Get("busqueda"),
		Status: q.Get("estado"),
	})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) AvailableEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.AvailableEquipment(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: items})
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
	var req CreateAssignmentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	item, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.Logger.Warn("Create: assignment not created", "error", err,
			"equipment_id", req.EquipmentID, "user_id", req.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, transport.DataResponse{Data: item, Message: "Asignación creada exitosamente"})
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
		h.Logger.Warn("Update: assignment not updated", "error", err, "assignment_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: item, Message: "Asignación actualizada"})
}

func (h *Handler) RegisterReturn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.Service.RegisterReturn(r.Context(), id)
	if err != nil {
		h.Logger.Warn("RegisterReturn: return not registered", "error", err, "assignment_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{
		Data:    item,
		Message: "Devolución registrada. Equipo marcado como Disponible",
	})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/available-equipment", h.AvailableEquipment)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/devolucion", h.RegisterReturn)
}
