package postgres

import (
	"context"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/accessory"
	accessoryDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/accessory"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"gorm.io/gorm"
)

type AccessoryRepository struct {
	db *gorm.DB
}

func NewAccessoryRepository(db *gorm.DB) accessory.RepositoryAPI {
	return &AccessoryRepository{db: db}
}

func (r *AccessoryRepository) view(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("accessories AS ac").
		Select(`ac.*, e.asset_tag AS equipment_asset_tag, e.brand AS equipment_brand, e.model AS equipment_model`).
		Joins("LEFT JOIN equipment e ON e.id = ac.equipment_id")
}

func (r *AccessoryRepository) List(ctx context.Context, filter accessory.ListFilter) ([]*accessoryDatamodel.AccessoryView, error) {
	q := r.view(ctx)
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(ac.name) LIKE ? OR LOWER(ac.asset_tag) LIKE ? OR LOWER(ac.serial) LIKE ?", like, like, like)
	}
	if filter.Status != "" {
		q = q.Where("ac.status = ?", filter.Status)
	}

	var rows []*accessoryDatamodel.AccessoryView
	err := q.Order("ac.name ASC").Scan(&rows).Error
	return rows, err
}

func (r *AccessoryRepository) GetByID(ctx context.Context, id string) (*accessoryDatamodel.AccessoryView, error) {
	var rows []*accessoryDatamodel.AccessoryView
	if err := r.view(ctx).Where("ac.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.ErrAccessoryNotFound
	}
	return rows[0], nil
}

func (r *AccessoryRepository) EquipmentExists(ctx context.Context, equipmentID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&equipmentDatamodel.Equipment{}).Where("id = ?", equipmentID).Count(&n).Error
	return n > 0, err
}

func (r *AccessoryRepository) Create(ctx context.Context, a *accessoryDatamodel.Accessory) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccessoryRepository) Update(ctx context.Context, a *accessoryDatamodel.Accessory) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccessoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&accessoryDatamodel.Accessory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrAccessoryNotFound
	}
	return nil
}
