package postgres

import (
	"context"
	stderrors "errors"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	documentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/document"
	"github.com/frahmantamala/asset-management/internal/document"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.RepositoryAPI {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) view(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("documents AS d").
		Select("d.*, e.asset_tag, u.name AS user_name").
		Joins("LEFT JOIN equipment e ON e.id = d.equipment_id").
		Joins("LEFT JOIN users u ON u.id = d.user_id")
}

func (r *DocumentRepository) List(ctx context.Context, filter document.ListFilter) ([]*documentDatamodel.DocumentView, error) {
	q := r.view(ctx)

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(d.name) LIKE ? OR LOWER(d.doc_type) LIKE ?", like, like)
	}
	if filter.Type != "" {
		q = q.Where("d.doc_type = ?", filter.Type)
	}
	if filter.EquipmentID != "" {
		q = q.Where("d.equipment_id = ?", filter.EquipmentID)
	}
	if filter.UserID != "" {
		q = q.Where("d.user_id = ?", filter.UserID)
	}

	var rows []*documentDatamodel.DocumentView
	err := q.Order("d.uploaded_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*documentDatamodel.DocumentView, error) {
	var rows []*documentDatamodel.DocumentView
	if err := r.view(ctx).Where("d.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.ErrDocumentNotFound
	}
	return rows[0], nil
}

func (r *DocumentRepository) Create(ctx context.Context, d *documentDatamodel.Document) error {
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DocumentRepository) Update(ctx context.Context, d *documentDatamodel.Document) error {
	return translate(r.db.WithContext(ctx).Save(d).Error)
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&documentDatamodel.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

// MaxVersion returns the highest version filed for a (type, equipment)
// pair, or zero when there is none.
func (r *DocumentRepository) MaxVersion(ctx context.Context, docType, equipmentID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&documentDatamodel.Document{}).
		Select("COALESCE(MAX(version), 0)").
		Where("doc_type = ? AND equipment_id = ?", docType, equipmentID).
		Scan(&max).Error
	return max, err
}

func translate(err error) error {
	if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.NewValidationError("Referenced equipment, assignment or user does not exist", errors.ErrCodeValidationFailed)
	}
	return err
}
