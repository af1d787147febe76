package user

import (
	"time"

	"github.com/frahmantamala/asset-management/internal"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
)

// User is a person in the organization. It is not a login account.
type User struct {
	ID            string        `json:"id"`
	Name          string        `json:"nombre"`
	Position      string        `json:"cargo"`
	Process       string        `json:"proceso"`
	AssignedGroup string        `json:"grupo_asignado"`
	Area          string        `json:"area"`
	Email         string        `json:"correo"`
	Location      string        `json:"ubicacion"`
	IsActive      bool          `json:"activo"`
	RegisteredAt  internal.Date `json:"fecha_registro"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (u *User) Input() UserInput {
	active := u.IsActive
	return UserInput{
		Name:          u.Name,
		Position:      u.Position,
		Process:       u.Process,
		AssignedGroup: u.AssignedGroup,
		Area:          u.Area,
		Email:         u.Email,
		Location:      u.Location,
		IsActive:      &active,
	}
}

// Apply copies normalized input onto the user.
func (u *User) Apply(in UserInput) {
	u.Name = in.Name
	u.Position = in.Position
	u.Process = in.Process
	u.AssignedGroup = in.AssignedGroup
	u.Area = in.Area
	u.Email = in.Email
	u.Location = in.Location
	u.IsActive = in.IsActive == nil || *in.IsActive
	u.UpdatedAt = time.Now()
}

func NewUser(in UserInput) *User {
	now := time.Now()
	u := &User{
		RegisteredAt: internal.NewDate(now),
		CreatedAt:    now,
	}
	u.Apply(in)
	return u
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		Name:          u.Name,
		Position:      u.Position,
		Process:       u.Process,
		AssignedGroup: u.AssignedGroup,
		Area:          u.Area,
		Email:         u.Email,
		Location:      u.Location,
		IsActive:      u.IsActive,
		RegisteredAt:  u.RegisteredAt.Time,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:            u.ID,
		Name:          u.Name,
		Position:      u.Position,
		Process:       u.Process,
		AssignedGroup: u.AssignedGroup,
		Area:          u.Area,
		Email:         u.Email,
		Location:      u.Location,
		IsActive:      u.IsActive,
		RegisteredAt:  internal.NewDate(u.RegisteredAt),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
