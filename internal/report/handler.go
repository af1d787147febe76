package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Generate(ctx context.Context, name string) (*Report, error)
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
	name := chi.URLParam(r, "name")
	rep, err := h.Service.Generate(r.Context(), name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+Filename(name, internal.Today().String())+`"`)
		w.WriteHeader(http.StatusOK)
		if err := WriteCSV(w, rep); err != nil {
			h.Logger.Error("Get: failed to write csv", "error", err, "report", name)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: rep.Rows, Total: len(rep.Rows)})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{name}", h.Get)
}
