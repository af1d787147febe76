package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a person in the organization who can hold equipment.
type User struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Position      string    `gorm:"column:position;not null"`
	Process       string    `gorm:"column:process;not null"`
	AssignedGroup string    `gorm:"column:assigned_group;not null"`
	Area          string    `gorm:"column:area;not null"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	Location      string    `gorm:"column:location"`
	IsActive      bool      `gorm:"column:is_active"`
	RegisteredAt  time.Time `gorm:"column:registered_at;type:date"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
