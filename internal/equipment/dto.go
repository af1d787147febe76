package equipment

import (
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/validation"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/shopspring/decimal"
)

// EquipmentInput is the create payload and the merge-patch target for updates.
type EquipmentInput struct {
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
	PurchasedAt     *errors.Date        `json:"fecha_compra"`
	Supplier        string              `json:"proveedor"`
	Cost            decimal.NullDecimal `json:"costo"`
	IsRented        bool                `json:"es_rentado"`
	Notes           string              `json:"observaciones"`
}

func (in *EquipmentInput) Normalize() {
	in.AssetTag = strings.TrimSpace(in.AssetTag)
	in.Serial = strings.TrimSpace(in.Serial)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	if in.Status == "" {
		in.Status = inventory.StatusAvailable
	}
}

func (in EquipmentInput) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("placa", in.AssetTag).Required().MaxLength(50)
	v.Field("serial", in.Serial).MaxLength(100)
	v.Field("tipo_equipo", in.EquipmentType).Required().OneOf(inventory.EquipmentTypes...)
	v.Field("criticidad", in.Criticality).Required().OneOf(inventory.Criticalities...)
	v.Field("confidencialidad", in.Confidentiality).Required().OneOf(inventory.Confidentialities...)
	v.Field("estado", in.Status).OneOf(inventory.EquipmentStatuses...)
	v.Field("marca", in.Brand).MaxLength(100)
	v.Field("modelo", in.Model).MaxLength(100)
	v.Field("costo", in.Cost).Custom(func(value interface{}) *errors.AppError {
		if in.Cost.Valid && in.Cost.Decimal.IsNegative() {
			return errors.NewValidationFieldError("costo", "costo must not be negative", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}

type ListFilter struct {
	Search      string
	Status      string
	Criticality string
	Type        string
	IsRented    *bool
}

// HistoryEntry is one past or current assignment of an equipment.
type HistoryEntry struct {
	AssignmentID string       `json:"id"`
	UserID       string       `json:"usuario_id"`
	UserName     string       `json:"usuario_nombre"`
	UserPosition string       `json:"cargo"`
	UserArea     string       `json:"area"`
	AssignedAt   errors.Date  `json:"fecha_asignacion"`
	ReturnedAt   *errors.Date `json:"fecha_devolucion"`
	Status       string       `json:"estado"`
	Notes        string       `json:"observaciones"`
}

// Responsible is the user holding the equipment through its active assignment.
type Responsible struct {
	UserID     string      `json:"usuario_id"`
	Name       string      `json:"nombre"`
	Position   string      `json:"cargo"`
	Area       string      `json:"area"`
	AssignedAt errors.Date `json:"fecha_asignacion"`
}

type HistoryResponse struct {
	Equipment   *Equipment      `json:"equipo"`
	History     []*HistoryEntry `json:"historial"`
	Responsible *Responsible    `json:"responsable"`
}
