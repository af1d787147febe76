package accessory

import (
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/validation"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
)

type AccessoryInput struct {
	Name        string  `json:"nombre"`
	AssetTag    string  `json:"placa"`
	Serial      string  `json:"serial"`
	EquipmentID *string `json:"equipo_principal_id"`
	Quantity    *int    `json:"cantidad"`
	Status      string  `json:"estado"`
	Notes       string  `json:"observaciones"`
}

func (in *AccessoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.AssetTag = strings.TrimSpace(in.AssetTag)
	in.Serial = strings.TrimSpace(in.Serial)
	if in.EquipmentID != nil {
		id := strings.TrimSpace(*in.EquipmentID)
		in.EquipmentID = &id
		if id == "" {
			in.EquipmentID = nil
		}
	}
	if in.Quantity == nil {
		one := 1
		in.Quantity = &one
	}
	if in.Status == "" {
		in.Status = inventory.StatusAvailable
	}
}

func (in AccessoryInput) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("nombre", in.Name).Required().MaxLength(150)
	v.Field("placa", in.AssetTag).MaxLength(50)
	v.Field("serial", in.Serial).MaxLength(100)
	v.Field("cantidad", in.Quantity).MinInt(1)
	v.Field("estado", in.Status).OneOf(inventory.AccessoryStatuses...)
	return v.Validate()
}

type ListFilter struct {
	Search string
	Status string
}
