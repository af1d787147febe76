package assignment

import (
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/validation"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
)

type CreateAssignmentRequest struct {
	UserID            string      `json:"usuario_id"`
	EquipmentID       string      `json:"equipo_id"`
	AssignedAt        errors.Date `json:"fecha_asignacion"`
	Notes             string      `json:"observaciones"`
	ActDocumentURL    *string     `json:"acta_pdf"`
	ResumeDocumentURL *string     `json:"hoja_vida_pdf"`
}

func (r *CreateAssignmentRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.EquipmentID = strings.TrimSpace(r.EquipmentID)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r CreateAssignmentRequest) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("usuario_id", r.UserID).Required()
	v.Field("equipo_id", r.EquipmentID).Required()
	v.Field("fecha_asignacion", r.AssignedAt).Required()
	v.Field("observaciones", r.Notes).MaxLength(2000)
	return v.Validate()
}

// UpdateAssignmentRequest is the merge-patch target for metadata edits.
type UpdateAssignmentRequest struct {
	Notes             string       `json:"observaciones"`
	Status            string       `json:"estado"`
	ActDocumentURL    *string      `json:"acta_pdf"`
	ResumeDocumentURL *string      `json:"hoja_vida_pdf"`
	ReturnedAt        *errors.Date `json:"fecha_devolucion"`
}

func (r UpdateAssignmentRequest) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("estado", r.Status).Required().OneOf(inventory.AssignmentStatuses...)
	v.Field("observaciones", r.Notes).MaxLength(2000)
	return v.Validate()
}

type ListFilter struct {
	Search string
	Status string
}

// ListResult carries the filtered rows and how many of them are Active.
type ListResult struct {
	Data   []*Assignment `json:"data"`
	Total  int           `json:"total"`
	Active int           `json:"activas"`
}
