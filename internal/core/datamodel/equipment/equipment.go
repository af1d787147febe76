package equipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Equipment struct {
	ID              string              `gorm:"column:id;primaryKey"`
	AssetTag        string              `gorm:"column:asset_tag;uniqueIndex;not null"`
	Serial          string              `gorm:"column:serial"`
	EquipmentType   string              `gorm:"column:equipment_type;not null"`
	Brand           string              `gorm:"column:brand"`
	Model           string              `gorm:"column:model"`
	OS              string              `gorm:"column:os"`
	OSVersion       string              `gorm:"column:os_version"`
	RAM             string              `gorm:"column:ram"`
	Disk            string              `gorm:"column:disk"`
	Technology      string              `gorm:"column:technology"`
	Criticality     string              `gorm:"column:criticality;not null"`
	Confidentiality string              `gorm:"column:confidentiality;not null"`
	Status          string              `gorm:"column:status;not null"`
	RegisteredAt    time.Time           `gorm:"column:registered_at;type:date"`
	PurchasedAt     *time.Time          `gorm:"column:purchased_at;type:date"`
	Supplier        string              `gorm:"column:supplier"`
	Cost            decimal.NullDecimal `gorm:"column:cost;type:numeric(14,2)"`
	IsRented        bool                `gorm:"column:is_rented"`
	Notes           string              `gorm:"column:notes"`
	CreatedAt       time.Time           `gorm:"column:created_at"`
	UpdatedAt       time.Time           `gorm:"column:updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}

func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
