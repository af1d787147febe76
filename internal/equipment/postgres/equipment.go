package postgres

import (
	"context"
	stderrors "errors"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/equipment"
	"gorm.io/gorm"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.RepositoryAPI {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) List(ctx context.Context, filter equipment.ListFilter) ([]*equipmentDatamodel.Equipment, error) {
	q := r.db.WithContext(ctx).Model(&equipmentDatamodel.Equipment{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(asset_tag) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(serial) LIKE ?",
			like, like, like, like)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Criticality != "" {
		q = q.Where("criticality = ?", filter.Criticality)
	}
	if filter.Type != "" {
		q = q.Where("equipment_type = ?", filter.Type)
	}
	if filter.IsRented != nil {
		q = q.Where("is_rented = ?", *filter.IsRented)
	}

	var rows []*equipmentDatamodel.Equipment
	err := q.Order("registered_at DESC").Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*equipmentDatamodel.Equipment, error) {
	var e equipmentDatamodel.Equipment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) GetByAssetTag(ctx context.Context, assetTag string) (*equipmentDatamodel.Equipment, error) {
	var e equipmentDatamodel.Equipment
	err := r.db.WithContext(ctx).Where("asset_tag = ?", assetTag).First(&e).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, e *equipmentDatamodel.Equipment) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *EquipmentRepository) Update(ctx context.Context, e *equipmentDatamodel.Equipment) error {
	return translate(r.db.WithContext(ctx).Save(e).Error)
}

func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&equipmentDatamodel.Equipment{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) CountReferences(ctx context.Context, id string) (int64, error) {
	var assignments, accessories int64
	db := r.db.WithContext(ctx)
	if err := db.Table("assignments").Where("equipment_id = ?", id).Count(&assignments).Error; err != nil {
		return 0, err
	}
	if err := db.Table("accessories").Where("equipment_id = ?", id).Count(&accessories).Error; err != nil {
		return 0, err
	}
	return assignments + accessories, nil
}

func (r *EquipmentRepository) ListAssignments(ctx context.Context, equipmentID string) ([]*assignmentDatamodel.AssignmentView, error) {
	var rows []*assignmentDatamodel.AssignmentView
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select("a.*, u.name AS user_name, u.position AS user_position, u.area AS user_area").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Where("a.equipment_id = ?", equipmentID).
		Order("a.assigned_at DESC").
		Order("a.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// translate maps constraint violations (gorm TranslateError) to domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.ErrDuplicateAssetTag
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.ErrEquipmentReferenced
	}
	return err
}
