package accessory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Accessory struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	AssetTag     string    `gorm:"column:asset_tag"`
	Serial       string    `gorm:"column:serial"`
	EquipmentID  *string   `gorm:"column:equipment_id"`
	Quantity     int       `gorm:"column:quantity;not null"`
	Status       string    `gorm:"column:status;not null"`
	Notes        string    `gorm:"column:notes"`
	RegisteredAt time.Time `gorm:"column:registered_at;type:date"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Accessory) TableName() string {
	return "accessories"
}

func (a *Accessory) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AccessoryView adds the principal equipment labels.
type AccessoryView struct {
	Accessory
	EquipmentAssetTag string `gorm:"column:equipment_asset_tag"`
	EquipmentBrand    string `gorm:"column:equipment_brand"`
	EquipmentModel    string `gorm:"column:equipment_model"`
}
