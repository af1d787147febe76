package accessory

import (
	"time"

	"github.com/frahmantamala/asset-management/internal"
	accessoryDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/accessory"
)

type Accessory struct {
	ID                string        `json:"id"`
	Name              string        `json:"nombre"`
	AssetTag          string        `json:"placa"`
	Serial            string        `json:"serial"`
	EquipmentID       *string       `json:"equipo_principal_id"`
	Quantity          int           `json:"cantidad"`
	Status            string        `json:"estado"`
	Notes             string        `json:"observaciones"`
	RegisteredAt      internal.Date `json:"fecha_registro"`
	EquipmentAssetTag string        `json:"equipo_placa,omitempty"`
	EquipmentBrand    string        `json:"equipo_marca,omitempty"`
	EquipmentModel    string        `json:"equipo_modelo,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (a *Accessory) Input() AccessoryInput {
	qty := a.Quantity
	return AccessoryInput{
		Name:        a.Name,
		AssetTag:    a.AssetTag,
		Serial:      a.Serial,
		EquipmentID: a.EquipmentID,
		Quantity:    &qty,
		Status:      a.Status,
		Notes:       a.Notes,
	}
}

func (a *Accessory) Apply(in AccessoryInput) {
	a.Name = in.Name
	a.AssetTag = in.AssetTag
	a.Serial = in.Serial
	a.EquipmentID = in.EquipmentID
	a.Quantity = *in.Quantity
	a.Status = in.Status
	a.Notes = in.Notes
	a.UpdatedAt = time.Now()
}

func ToDataModel(a *Accessory) *accessoryDatamodel.Accessory {
	return &accessoryDatamodel.Accessory{
		ID:           a.ID,
		Name:         a.Name,
		AssetTag:     a.AssetTag,
		Serial:       a.Serial,
		EquipmentID:  a.EquipmentID,
		Quantity:     a.Quantity,
		Status:       a.Status,
		Notes:        a.Notes,
		RegisteredAt: a.RegisteredAt.Time,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromView(v *accessoryDatamodel.AccessoryView) *Accessory {
	return &Accessory{
		ID:                v.ID,
		Name:              v.Name,
		AssetTag:          v.AssetTag,
		Serial:            v.Serial,
		EquipmentID:       v.EquipmentID,
		Quantity:          v.Quantity,
		Status:            v.Status,
		Notes:             v.Notes,
		RegisteredAt:      internal.NewDate(v.RegisteredAt),
		EquipmentAssetTag: v.EquipmentAssetTag,
		EquipmentBrand:    v.EquipmentBrand,
		EquipmentModel:    v.EquipmentModel,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}
