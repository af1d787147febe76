package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Stats(ctx context.Context) (*Stats, error)
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: stats})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Get)
}
