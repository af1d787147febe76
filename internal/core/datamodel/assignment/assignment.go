package assignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	ID                string     `gorm:"column:id;primaryKey"`
	UserID            string     `gorm:"column:user_id;not null"`
	EquipmentID       string     `gorm:"column:equipment_id;not null"`
	AssignedAt        time.Time  `gorm:"column:assigned_at;type:date;not null"`
	ReturnedAt        *time.Time `gorm:"column:returned_at;type:date"`
	Status            string     `gorm:"column:status;not null"`
	Notes             string     `gorm:"column:notes"`
	ActDocumentURL    *string    `gorm:"column:act_document_url"`
	ResumeDocumentURL *string    `gorm:"column:resume_document_url"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AssignmentView is an assignment joined with its user and equipment.
type AssignmentView struct {
	Assignment
	UserName        string `gorm:"column:user_name"`
	UserPosition    string `gorm:"column:user_position"`
	UserArea        string `gorm:"column:user_area"`
	AssetTag        string `gorm:"column:asset_tag"`
	Brand           string `gorm:"column:brand"`
	Model           string `gorm:"column:model"`
	EquipmentType   string `gorm:"column:equipment_type"`
	EquipmentStatus string `gorm:"column:equipment_status"`
}
