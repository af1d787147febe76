package document

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
)

// FileField is the multipart field carrying the uploaded file.
const FileField = "archivo"

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	Create(ctx context.Context, in DocumentInput, file *Upload) (*Document, error)
	Update(ctx context.Context, id string, body []byte, file *Upload) (*Document, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxUploadBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxUploadBytes int64) *Handler {
	return &Handler{
		BaseHandler:    baseHandler,
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := h.Service.List(r.Context(), ListFilter{
		Search:      q.Get("busqueda"),
		Type:        q.Get("tipo"),
		EquipmentID: q.Get("equipo_id"),
		UserID:      q.Get("usuario_id"),
	})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: docs, Total: len(docs)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: doc})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		in   DocumentInput
		file *Upload
	)
	if isMultipart(r) {
		fields, upload, cleanup, err := h.readMultipart(w, r)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		defer cleanup()
		in = fields
		file = upload
	} else if err := h.DecodeJSON(r, &in); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	doc, err := h.Service.Create(r.Context(), in, file)
	if err != nil {
		h.Logger.Warn("Create: document not created", "error", err, "tipo", in.Type)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, transport.DataResponse{Data: doc, Message: "Documento registrado exitosamente"})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		body []byte
		file *Upload
		err  error
	)
	if isMultipart(r) {
		fields, upload, cleanup, mpErr := h.readMultipart(w, r)
		if mpErr != nil {
			h.HandleServiceError(w, mpErr)
			return
		}
		defer cleanup()
		body, err = formPatch(r, fields)
		file = upload
	} else {
		body, err = h.ReadBody(r)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	doc, err := h.Service.Update(r.Context(), id, body, file)
	if err != nil {
		h.Logger.Warn("Update: document not updated", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: doc, Message: "Documento actualizado"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Warn("Delete: document not deleted", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.DataResponse{Data: nil, Message: "Documento eliminado"})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readMultipart parses form fields and the optional file. The request body
// is capped slightly above the upload limit to leave room for the fields.
func (h *Handler) readMultipart(w http.ResponseWriter, r *http.Request) (DocumentInput, *Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		return DocumentInput{}, nil, noop, errors.NewValidationFieldError(FileField,
			"could not read multipart form: "+err.Error(), errors.ErrCodeInvalidUpload)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	in := DocumentInput{
		Name:         r.FormValue("nombre"),
		Type:         r.FormValue("tipo"),
		EquipmentID:  formOptional(r, "equipo_id"),
		AssignmentID: formOptional(r, "asignacion_id"),
		UserID:       formOptional(r, "usuario_id"),
		URL:          r.FormValue("url"),
		UploadedBy:   r.FormValue("cargado_por"),
	}

	f, header, err := r.FormFile(FileField)
	if err == http.ErrMissingFile {
		return in, nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return DocumentInput{}, nil, noop, errors.NewValidationFieldError(FileField, err.Error(), errors.ErrCodeInvalidUpload)
	}
	upload := &Upload{Filename: header.Filename, Size: header.Size, Content: f}
	return in, upload, func() { f.Close(); cleanup() }, nil
}

func formOptional(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}
	v := r.FormValue(key)
	return &v
}

// formPatch turns the multipart fields that were actually sent into a
// merge patch, so absent fields keep their stored value.
func formPatch(r *http.Request, in DocumentInput) ([]byte, error) {
	patch := map[string]interface{}{}
	set := func(key string, value interface{}) {
		if _, ok := r.MultipartForm.Value[key]; ok {
			patch[key] = value
		}
	}
	set("nombre", in.Name)
	set("tipo", in.Type)
	set("equipo_id", in.EquipmentID)
	set("asignacion_id", in.AssignmentID)
	set("usuario_id", in.UserID)
	set("url", in.URL)
	set("cargado_por", in.UploadedBy)
	return json.Marshal(patch)
}

