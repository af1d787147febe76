package user

import (
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/assignment"
	"github.com/frahmantamala/asset-management/internal/core/common/validation"
	"github.com/frahmantamala/asset-management/internal/document"
)

// UserInput is the create payload and the merge-patch target for updates.
type UserInput struct {
	Name          string `json:"nombre"`
	Position      string `json:"cargo"`
	Process       string `json:"proceso"`
	AssignedGroup string `json:"grupo_asignado"`
	Area          string `json:"area"`
	Email         string `json:"correo"`
	Location      string `json:"ubicacion"`
	IsActive      *bool  `json:"activo"`
}

func (in *UserInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Position = strings.TrimSpace(in.Position)
	in.Process = strings.TrimSpace(in.Process)
	in.AssignedGroup = strings.TrimSpace(in.AssignedGroup)
	in.Area = strings.TrimSpace(in.Area)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Location = strings.TrimSpace(in.Location)
}

func (in UserInput) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("nombre", in.Name).Required().MaxLength(150)
	v.Field("cargo", in.Position).Required().MaxLength(100)
	v.Field("proceso", in.Process).Required().MaxLength(100)
	v.Field("grupo_asignado", in.AssignedGroup).Required().MaxLength(100)
	v.Field("area", in.Area).Required().MaxLength(100)
	v.Field("correo", in.Email).Required().Email().MaxLength(150)
	v.Field("ubicacion", in.Location).MaxLength(150)
	return v.Validate()
}

type ListFilter struct {
	Search string
	Area   string
}

// Profile is everything known about a user: what they hold now, what they
// held before and the documents filed against them.
type Profile struct {
	User              *User                    `json:"usuario"`
	ActiveAssignments []*assignment.Assignment `json:"asignaciones_activas"`
	History           []*assignment.Assignment `json:"historial"`
	Documents         []*document.Document     `json:"documentos"`
}
