package document

import (
	"time"

	documentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/document"
)

type Document struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	Type         string    `json:"tipo"`
	EquipmentID  *string   `json:"equipo_id"`
	AssignmentID *string   `json:"asignacion_id"`
	UserID       *string   `json:"usuario_id"`
	URL          string    `json:"url"`
	Version      int       `json:"version"`
	UploadedAt   time.Time `json:"fecha_carga"`
	UploadedBy   string    `json:"cargado_por"`
	AssetTag     string    `json:"equipo_placa,omitempty"`
	UserName     string    `json:"usuario_nombre,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (d *Document) Input() DocumentInput {
	return DocumentInput{
		Name:         d.Name,
		Type:         d.Type,
		EquipmentID:  d.EquipmentID,
		AssignmentID: d.AssignmentID,
		UserID:       d.UserID,
		URL:          d.URL,
		UploadedBy:   d.UploadedBy,
	}
}

func (d *Document) Apply(in DocumentInput) {
	d.Name = in.Name
	d.Type = in.Type
	d.EquipmentID = in.EquipmentID
	d.AssignmentID = in.AssignmentID
	d.UserID = in.UserID
	d.URL = in.URL
	d.UploadedBy = in.UploadedBy
	d.UpdatedAt = time.Now()
}

func ToDataModel(d *Document) *documentDatamodel.Document {
	return &documentDatamodel.Document{
		ID:           d.ID,
		Name:         d.Name,
		DocType:      d.Type,
		EquipmentID:  d.EquipmentID,
		AssignmentID: d.AssignmentID,
		UserID:       d.UserID,
		URL:          d.URL,
		Version:      d.Version,
		UploadedAt:   d.UploadedAt,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func FromDataModel(d *documentDatamodel.Document) *Document {
	return &Document{
		ID:           d.ID,
		Name:         d.Name,
		Type:         d.DocType,
		EquipmentID:  d.EquipmentID,
		AssignmentID: d.AssignmentID,
		UserID:       d.UserID,
		URL:          d.URL,
		Version:      d.Version,
		UploadedAt:   d.UploadedAt,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func FromView(v *documentDatamodel.DocumentView) *Document {
	d := FromDataModel(&v.Document)
	d.AssetTag = v.AssetTag
	d.UserName = v.UserName
	return d
}

func FromViews(rows []*documentDatamodel.DocumentView) []*Document {
	out := make([]*Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromView(row))
	}
	return out
}
