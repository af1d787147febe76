package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	DocType      string    `gorm:"column:doc_type;not null"`
	EquipmentID  *string   `gorm:"column:equipment_id"`
	AssignmentID *string   `gorm:"column:assignment_id"`
	UserID       *string   `gorm:"column:user_id"`
	URL          string    `gorm:"column:url;not null"`
	Version      int       `gorm:"column:version;not null"`
	UploadedAt   time.Time `gorm:"column:uploaded_at"`
	UploadedBy   string    `gorm:"column:uploaded_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DocumentView adds the labels of the referenced equipment and user.
type DocumentView struct {
	Document
	AssetTag string `gorm:"column:asset_tag"`
	UserName string `gorm:"column:user_name"`
}
