package document

import (
	"io"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/validation"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
)

// DocumentInput is the create payload and the merge-patch target for updates.
type DocumentInput struct {
	Name         string  `json:"nombre"`
	Type         string  `json:"tipo"`
	EquipmentID  *string `json:"equipo_id"`
	AssignmentID *string `json:"asignacion_id"`
	UserID       *string `json:"usuario_id"`
	URL          string  `json:"url"`
	UploadedBy   string  `json:"cargado_por"`
}

func (in *DocumentInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.URL = strings.TrimSpace(in.URL)
	in.UploadedBy = strings.TrimSpace(in.UploadedBy)
	in.EquipmentID = optional(in.EquipmentID)
	in.AssignmentID = optional(in.AssignmentID)
	in.UserID = optional(in.UserID)
}

// Validate checks the metadata. hasFile reports whether an upload supplies the URL.
func (in DocumentInput) Validate(hasFile bool) *errors.AppError {
	v := validation.NewValidator()
	v.Field("nombre", in.Name).Required().MaxLength(200)
	v.Field("tipo", in.Type).Required().OneOf(inventory.DocumentTypes...)
	if !hasFile {
		v.Field("url", in.URL).Required()
	}
	v.Field("cargado_por", in.UploadedBy).MaxLength(150)
	return v.Validate()
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Upload is a file received with a document.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type ListFilter struct {
	Search      string
	Type        string
	EquipmentID string
	UserID      string
}
