package equipment

import (
	"time"

	"github.com/frahmantamala/asset-management/internal"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/shopspring/decimal"
)

type Equipment struct {
	ID              string              `json:"id"`
	AssetTag        string              `json:"placa"`
	Serial          string              `json:"serial"`
	EquipmentType   string              `json:"tipo_equipo"`
	Brand           string              `json:"marca"`
	Model           string              `json:"modelo"`
	OS              string              `json:"sistema_operativo"`
	OSVersion       string              `json:"version_so"`
	RAM             string              `json:"ram"`
	Disk            string              `json:"disco"`
	Technology      string              `json:"tecnologia"`
	Criticality     string              `json:"criticidad"`
	Confidentiality string              `json:"confidencialidad"`
	Status          string              `json:"estado"`
	RegisteredAt    internal.Date       `json:"fecha_registro"`
	PurchasedAt     *internal.Date      `json:"fecha_compra"`
	Supplier        string              `json:"proveedor"`
	Cost            decimal.NullDecimal `json:"costo"`
	IsRented        bool                `json:"es_rentado"`
	Notes           string              `json:"observaciones"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (e *Equipment) IsDecommissioned() bool {
	return e.Status == inventory.StatusDecommissioned
}

// Input returns the mutable fields, the document a merge patch applies to.
func (e *Equipment) Input() EquipmentInput {
	return EquipmentInput{
		AssetTag:        e.AssetTag,
		Serial:          e.Serial,
		EquipmentType:   e.EquipmentType,
		Brand:           e.Brand,
		Model:           e.Model,
		OS:              e.OS,
		OSVersion:       e.OSVersion,
		RAM:             e.RAM,
		Disk:            e.Disk,
		Technology:      e.Technology,
		Criticality:     e.Criticality,
		Confidentiality: e.Confidentiality,
		Status:          e.Status,
		PurchasedAt:     e.PurchasedAt,
		Supplier:        e.Supplier,
		Cost:            e.Cost,
		IsRented:        e.IsRented,
		Notes:           e.Notes,
	}
}

// Apply copies validated input onto the equipment.
func (e *Equipment) Apply(in EquipmentInput) {
	e.AssetTag = in.AssetTag
	e.Serial = in.Serial
	e.EquipmentType = in.EquipmentType
	e.Brand = in.Brand
	e.Model = in.Model
	e.OS = in.OS
	e.OSVersion = in.OSVersion
	e.RAM = in.RAM
	e.Disk = in.Disk
	e.Technology = in.Technology
	e.Criticality = in.Criticality
	e.Confidentiality = in.Confidentiality
	e.Status = in.Status
	e.PurchasedAt = in.PurchasedAt
	e.Supplier = in.Supplier
	e.Cost = in.Cost
	e.IsRented = in.IsRented
	e.Notes = in.Notes
	e.UpdatedAt = time.Now()
}

func NewEquipment(in EquipmentInput) *Equipment {
	now := time.Now()
	e := &Equipment{
		RegisteredAt: internal.NewDate(now),
		CreatedAt:    now,
	}
	e.Apply(in)
	return e
}

func ToDataModel(e *Equipment) *equipmentDatamodel.Equipment {
	return &equipmentDatamodel.Equipment{
		ID:              e.ID,
		AssetTag:        e.AssetTag,
		Serial:          e.Serial,
		EquipmentType:   e.EquipmentType,
		Brand:           e.Brand,
		Model:           e.Model,
		OS:              e.OS,
		OSVersion:       e.OSVersion,
		RAM:             e.RAM,
		Disk:            e.Disk,
		Technology:      e.Technology,
		Criticality:     e.Criticality,
		Confidentiality: e.Confidentiality,
		Status:          e.Status,
		RegisteredAt:    e.RegisteredAt.Time,
		PurchasedAt:     e.PurchasedAt.TimePtr(),
		Supplier:        e.Supplier,
		Cost:            e.Cost,
		IsRented:        e.IsRented,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromDataModel(e *equipmentDatamodel.Equipment) *Equipment {
	return &Equipment{
		ID:              e.ID,
		AssetTag:        e.AssetTag,
		Serial:          e.Serial,
		EquipmentType:   e.EquipmentType,
		Brand:           e.Brand,
		Model:           e.Model,
		OS:              e.OS,
		OSVersion:       e.OSVersion,
		RAM:             e.RAM,
		Disk:            e.Disk,
		Technology:      e.Technology,
		Criticality:     e.Criticality,
		Confidentiality: e.Confidentiality,
		Status:          e.Status,
		RegisteredAt:    internal.NewDate(e.RegisteredAt),
		PurchasedAt:     internal.DatePtr(e.PurchasedAt),
		Supplier:        e.Supplier,
		Cost:            e.Cost,
		IsRented:        e.IsRented,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
