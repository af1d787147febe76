// Package seed loads a YAML fixture of users, equipment, accessories and
// assignments and inserts it through the domain services.
package seed

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/accessory"
	"github.com/frahmantamala/asset-management/internal/assignment"
	"github.com/frahmantamala/asset-management/internal/equipment"
	"github.com/frahmantamala/asset-management/internal/user"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Fixture struct {
	Users       []UserFixture       `yaml:"usuarios"`
	Equipment   []EquipmentFixture  `yaml:"equipos"`
	Accessories []AccessoryFixture  `yaml:"accesorios"`
	Assignments []AssignmentFixture `yaml:"asignaciones"`
}

type UserFixture struct {
	Name          string `yaml:"nombre"`
	Position      string `yaml:"cargo"`
	Process       string `yaml:"proceso"`
	AssignedGroup string `yaml:"grupo_asignado"`
	Area          string `yaml:"area"`
	Email         string `yaml:"correo"`
	Location      string `yaml:"ubicacion"`
}

type EquipmentFixture struct {
	AssetTag        string `yaml:"placa"`
	Serial          string `yaml:"serial"`
	EquipmentType   string `yaml:"tipo_equipo"`
	Brand           string `yaml:"marca"`
	Model           string `yaml:"modelo"`
	OS              string `yaml:"sistema_operativo"`
	RAM             string `yaml:"ram"`
	Disk            string `yaml:"disco"`
	Criticality     string `yaml:"criticidad"`
	Confidentiality string `yaml:"confidencialidad"`
	Status          string `yaml:"estado"`
	Supplier        string `yaml:"proveedor"`
	Cost            string `yaml:"costo"`
	IsRented        bool   `yaml:"es_rentado"`
}

type AccessoryFixture struct {
	Name      string `yaml:"nombre"`
	AssetTag  string `yaml:"placa"`
	Serial    string `yaml:"serial"`
	Equipment string `yaml:"equipo_placa"`
	Quantity  int    `yaml:"cantidad"`
}

type AssignmentFixture struct {
	UserEmail  string `yaml:"correo"`
	AssetTag   string `yaml:"placa"`
	AssignedAt string `yaml:"fecha_asignacion"`
	Notes      string `yaml:"observaciones"`
	Returned   bool   `yaml:"devuelta"`
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	DB            *gorm.DB
	Users         *user.Service
	UserRepo      user.RepositoryAPI
	Equipment     *equipment.Service
	EquipmentRepo equipment.RepositoryAPI
	Accessories   *accessory.Service
	Assignments   *assignment.Service
	Logger        *slog.Logger
}

// Clear removes every inventory row, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	for _, table := range []string{"documents", "accessories", "assignments", "equipment", "users"} {
		if err := s.DB.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	s.Logger.Info("cleared inventory tables")
	return nil
}

// Run inserts the fixture. Users and equipment that already exist are reused,
// so running it twice does not duplicate them.
func (s *Seeder) Run(ctx context.Context, f *Fixture) error {
	userIDs := make(map[string]string, len(f.Users))
	for _, u := range f.Users {
		id, err := s.ensureUser(ctx, u)
		if err != nil {
			return err
		}
		userIDs[u.Email] = id
	}

	equipmentIDs := make(map[string]string, len(f.Equipment))
	created := make(map[string]bool, len(f.Equipment))
	for _, e := range f.Equipment {
		id, isNew, err := s.ensureEquipment(ctx, e)
		if err != nil {
			return err
		}
		equipmentIDs[e.AssetTag] = id
		created[e.AssetTag] = isNew
	}

	for _, a := range f.Accessories {
		if a.Equipment == "" {
			exists, err := s.looseAccessoryExists(ctx, a.Name)
			if err != nil {
				return err
			}
			if !exists {
				if err := s.createAccessory(ctx, a, nil); err != nil {
					return err
				}
			}
			continue
		}
		id, ok := equipmentIDs[a.Equipment]
		if !ok {
			return fmt.Errorf("accessory %s references unknown equipment %s", a.Name, a.Equipment)
		}
		if created[a.Equipment] {
			if err := s.createAccessory(ctx, a, &id); err != nil {
				return err
			}
		}
	}

	// History is only written for equipment inserted by this run.
	for _, a := range f.Assignments {
		if _, known := equipmentIDs[a.AssetTag]; known && !created[a.AssetTag] {
			continue
		}
		if err := s.createAssignment(ctx, a, userIDs, equipmentIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, u UserFixture) (string, error) {
	existing, err := s.UserRepo.GetByEmail(ctx, u.Email)
	if err != nil {
		return "", fmt.Errorf("look up user %s: %w", u.Email, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	created, err := s.Users.Create(ctx, user.UserInput{
		Name:          u.Name,
		Position:      u.Position,
		Process:       u.Process,
		AssignedGroup: u.AssignedGroup,
		Area:          u.Area,
		Email:         u.Email,
		Location:      u.Location,
	})
	if err != nil {
		return "", fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	s.Logger.Info("seeded user", "correo", created.Email)
	return created.ID, nil
}

func (s *Seeder) ensureEquipment(ctx context.Context, e EquipmentFixture) (string, bool, error) {
	existing, err := s.EquipmentRepo.GetByAssetTag(ctx, e.AssetTag)
	if err != nil {
		return "", false, fmt.Errorf("look up equipment %s: %w", e.AssetTag, err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	in := equipment.EquipmentInput{
		AssetTag:        e.AssetTag,
		Serial:          e.Serial,
		EquipmentType:   e.EquipmentType,
		Brand:           e.Brand,
		Model:           e.Model,
		OS:              e.OS,
		RAM:             e.RAM,
		Disk:            e.Disk,
		Criticality:     e.Criticality,
		Confidentiality: e.Confidentiality,
		Status:          e.Status,
		Supplier:        e.Supplier,
		IsRented:        e.IsRented,
	}
	if e.Cost != "" {
		cost, err := decimal.NewFromString(e.Cost)
		if err != nil {
			return "", false, fmt.Errorf("equipment %s: invalid cost %q: %w", e.AssetTag, e.Cost, err)
		}
		in.Cost = decimal.NewNullDecimal(cost)
	}

	created, err := s.Equipment.Create(ctx, in)
	if err != nil {
		return "", false, fmt.Errorf("seed equipment %s: %w", e.AssetTag, err)
	}
	s.Logger.Info("seeded equipment", "placa", created.AssetTag)
	return created.ID, true, nil
}

func (s *Seeder) looseAccessoryExists(ctx context.Context, name string) (bool, error) {
	existing, err := s.Accessories.List(ctx, accessory.ListFilter{Search: name})
	if err != nil {
		return false, fmt.Errorf("look up accessory %s: %w", name, err)
	}
	for _, a := range existing {
		if a.Name == name && a.EquipmentID == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *Seeder) createAccessory(ctx context.Context, a AccessoryFixture, equipmentID *string) error {
	in := accessory.AccessoryInput{
		Name:        a.Name,
		AssetTag:    a.AssetTag,
		Serial:      a.Serial,
		EquipmentID: equipmentID,
	}
	if a.Quantity > 0 {
		qty := a.Quantity
		in.Quantity = &qty
	}
	if _, err := s.Accessories.Create(ctx, in); err != nil {
		return fmt.Errorf("seed accessory %s: %w", a.Name, err)
	}
	return nil
}

func (s *Seeder) createAssignment(ctx context.Context, a AssignmentFixture, userIDs, equipmentIDs map[string]string) error {
	userID, ok := userIDs[a.UserEmail]
	if !ok {
		return fmt.Errorf("assignment references unknown user %s", a.UserEmail)
	}
	equipmentID, ok := equipmentIDs[a.AssetTag]
	if !ok {
		return fmt.Errorf("assignment references unknown equipment %s", a.AssetTag)
	}
	assignedAt, err := errors.ParseDate(a.AssignedAt)
	if err != nil {
		return fmt.Errorf("assignment %s/%s: %w", a.UserEmail, a.AssetTag, err)
	}

	created, err := s.Assignments.Create(ctx, assignment.CreateAssignmentRequest{
		UserID:      userID,
		EquipmentID: equipmentID,
		AssignedAt:  assignedAt,
		Notes:       a.Notes,
	})
	if stderrors.Is(err, errors.ErrActiveAssignmentExists) {
		s.Logger.Info("equipment already assigned, skipping", "placa", a.AssetTag)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed assignment %s/%s: %w", a.UserEmail, a.AssetTag, err)
	}

	if a.Returned {
		if _, err := s.Assignments.RegisterReturn(ctx, created.ID); err != nil {
			return fmt.Errorf("return assignment %s/%s: %w", a.UserEmail, a.AssetTag, err)
		}
	}
	return nil
}
