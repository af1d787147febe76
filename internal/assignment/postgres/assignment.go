package postgres

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/assignment"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const viewColumns = `a.*,
	u.name AS user_name, u.position AS user_position, u.area AS user_area,
	e.asset_tag, e.brand, e.model, e.equipment_type, e.status AS equipment_status`

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) assignment.RepositoryAPI {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) view(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(viewColumns).
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN equipment e ON e.id = a.equipment_id")
}

func (r *AssignmentRepository) List(ctx context.Context, filter assignment.ListFilter) ([]*assignmentDatamodel.AssignmentView, error) {
	q := r.view(ctx)

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(u.name) LIKE ? OR LOWER(e.asset_tag) LIKE ? OR LOWER(e.equipment_type) LIKE ?", like, like, like)
	}
	if filter.Status != "" {
		q = q.Where("a.status = ?", filter.Status)
	}

	var rows []*assignmentDatamodel.AssignmentView
	err := q.Order("a.assigned_at DESC").Order("a.created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*assignmentDatamodel.AssignmentView, error) {
	var rows []*assignmentDatamodel.AssignmentView
	if err := r.view(ctx).Where("a.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.ErrAssignmentNotFound
	}
	return rows[0], nil
}

func (r *AssignmentRepository) HasActiveAssignment(ctx context.Context, equipmentID string) (bool, error) {
	return hasActive(r.db.WithContext(ctx), equipmentID)
}

func hasActive(db *gorm.DB, equipmentID string) (bool, error) {
	var n int64
	err := db.Model(&assignmentDatamodel.Assignment{}).
		Where("equipment_id = ? AND status = ?", equipmentID, inventory.AssignmentActive).
		Count(&n).Error
	return n > 0, err
}

func (r *AssignmentRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&n).Error
	return n > 0, err
}

func (r *AssignmentRepository) GetEquipment(ctx context.Context, equipmentID string) (*equipmentDatamodel.Equipment, error) {
	var e equipmentDatamodel.Equipment
	err := r.db.WithContext(ctx).Where("id = ?", equipmentID).First(&e).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create locks the equipment row, re-checks exclusivity, inserts the
// assignment and marks the equipment Assigned.
func (r *AssignmentRepository) Create(ctx context.Context, a *assignmentDatamodel.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eq equipmentDatamodel.Equipment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", a.EquipmentID).First(&eq).Error
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrEquipmentNotFound
			}
			return err
		}

		active, err := hasActive(tx, a.EquipmentID)
		if err != nil {
			return err
		}
		if active {
			return errors.ErrActiveAssignmentExists
		}

		if err := tx.Create(a).Error; err != nil {
			return translate(err)
		}
		return setEquipmentStatus(tx, a.EquipmentID, inventory.StatusAssigned)
	})
}

// Return closes the assignment only if it is still Active, so a concurrent
// return loses cleanly instead of flipping the equipment twice.
func (r *AssignmentRepository) Return(ctx context.Context, id string, returnedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a assignmentDatamodel.Assignment
		if err := tx.Where("id = ?", id).First(&a).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrAssignmentNotFound
			}
			return err
		}

		res := tx.Model(&assignmentDatamodel.Assignment{}).
			Where("id = ? AND status = ?", id, inventory.AssignmentActive).
			Updates(map[string]interface{}{
				"status":      inventory.AssignmentReturned,
				"returned_at": returnedAt,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrAssignmentNotActive
		}
		return setEquipmentStatus(tx, a.EquipmentID, inventory.StatusAvailable)
	})
}

// Update saves the assignment metadata and, when equipmentStatus is set,
// the equipment status in the same transaction.
func (r *AssignmentRepository) Update(ctx context.Context, a *assignmentDatamodel.Assignment, equipmentStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(a).Error; err != nil {
			return translate(err)
		}
		if equipmentStatus == "" {
			return nil
		}
		return setEquipmentStatus(tx, a.EquipmentID, equipmentStatus)
	})
}

func (r *AssignmentRepository) ListAvailableEquipment(ctx context.Context) ([]*equipmentDatamodel.Equipment, error) {
	var rows []*equipmentDatamodel.Equipment
	err := r.db.WithContext(ctx).
		Where("status = ?", inventory.StatusAvailable).
		Order("asset_tag ASC").
		Find(&rows).Error
	return rows, err
}

func setEquipmentStatus(tx *gorm.DB, equipmentID, status string) error {
	res := tx.Model(&equipmentDatamodel.Equipment{}).
		Where("id = ?", equipmentID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrEquipmentNotFound
	}
	return nil
}

// translate maps constraint violations to ledger errors. The only unique
// index besides the primary key is the one-active-per-equipment index.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.ErrActiveAssignmentExists
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		// equipment is read under lock first, so the missing reference is the user
		return errors.ErrUserNotFound
	}
	return err
}
