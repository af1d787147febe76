package assignment

import (
	"time"

	"github.com/frahmantamala/asset-management/internal"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
)

// Assignment is the joined read model: the ledger row plus the display
// fields of its user and equipment.
type Assignment struct {
	ID                string         `json:"id"`
	UserID            string         `json:"usuario_id"`
	EquipmentID       string         `json:"equipo_id"`
	AssignedAt        internal.Date  `json:"fecha_asignacion"`
	ReturnedAt        *internal.Date `json:"fecha_devolucion"`
	Status            string         `json:"estado"`
	Notes             string         `json:"observaciones"`
	ActDocumentURL    *string        `json:"acta_pdf"`
	ResumeDocumentURL *string        `json:"hoja_vida_pdf"`
	UserName          string         `json:"usuario_nombre"`
	UserPosition      string         `json:"cargo"`
	UserArea          string         `json:"area"`
	AssetTag          string         `json:"placa"`
	Brand             string         `json:"marca"`
	Model             string         `json:"modelo"`
	EquipmentType     string         `json:"tipo_equipo"`
	EquipmentStatus   string         `json:"equipo_estado"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (a *Assignment) IsActive() bool {
	return a.Status == inventory.AssignmentActive
}

// UpdateInput returns the metadata a merge patch may change.
func (a *Assignment) UpdateInput() UpdateAssignmentRequest {
	return UpdateAssignmentRequest{
		Notes:             a.Notes,
		Status:            a.Status,
		ActDocumentURL:    a.ActDocumentURL,
		ResumeDocumentURL: a.ResumeDocumentURL,
		ReturnedAt:        a.ReturnedAt,
	}
}

// NewAssignment builds an Active ledger row from a validated request.
func NewAssignment(req CreateAssignmentRequest) *assignmentDatamodel.Assignment {
	now := time.Now()
	return &assignmentDatamodel.Assignment{
		UserID:            req.UserID,
		EquipmentID:       req.EquipmentID,
		AssignedAt:        req.AssignedAt.Time,
		Status:            inventory.AssignmentActive,
		Notes:             req.Notes,
		ActDocumentURL:    req.ActDocumentURL,
		ResumeDocumentURL: req.ResumeDocumentURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func FromView(v *assignmentDatamodel.AssignmentView) *Assignment {
	return &Assignment{
		ID:                v.ID,
		UserID:            v.UserID,
		EquipmentID:       v.EquipmentID,
		AssignedAt:        internal.NewDate(v.AssignedAt),
		ReturnedAt:        internal.DatePtr(v.ReturnedAt),
		Status:            v.Status,
		Notes:             v.Notes,
		ActDocumentURL:    v.ActDocumentURL,
		ResumeDocumentURL: v.ResumeDocumentURL,
		UserName:          v.UserName,
		UserPosition:      v.UserPosition,
		UserArea:          v.UserArea,
		AssetTag:          v.AssetTag,
		Brand:             v.Brand,
		Model:             v.Model,
		EquipmentType:     v.EquipmentType,
		EquipmentStatus:   v.EquipmentStatus,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func FromViews(rows []*assignmentDatamodel.AssignmentView) []*Assignment {
	out := make([]*Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromView(row))
	}
	return out
}
