package postgres

import (
	"context"
	stderrors "errors"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	documentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/document"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*userDatamodel.User, error) {
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(area) LIKE ? OR LOWER(process) LIKE ?",
			like, like, like, like)
	}
	if filter.Area != "" {
		q = q.Where("area = ?", filter.Area)
	}

	var rows []*userDatamodel.User
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *UserRepository) Areas(ctx context.Context) ([]string, error) {
	var areas []string
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Distinct("area").
		Order("area ASC").
		Pluck("area", &areas).Error
	return areas, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userDatamodel.User{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountAssignments(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&assignmentDatamodel.Assignment{}).Where("user_id = ?", id).Count(&n).Error
	return n, err
}

func (r *UserRepository) ListAssignments(ctx context.Context, userID string) ([]*assignmentDatamodel.AssignmentView, error) {
	var rows []*assignmentDatamodel.AssignmentView
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(`a.*, u.name AS user_name, u.position AS user_position, u.area AS user_area,
			e.asset_tag, e.brand, e.model, e.equipment_type, e.status AS equipment_status`).
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN equipment e ON e.id = a.equipment_id").
		Where("a.user_id = ?", userID).
		Order("a.assigned_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *UserRepository) ListDocuments(ctx context.Context, userID string) ([]*documentDatamodel.DocumentView, error) {
	var rows []*documentDatamodel.DocumentView
	err := r.db.WithContext(ctx).
		Table("documents AS d").
		Select("d.*, e.asset_tag, u.name AS user_name").
		Joins("LEFT JOIN equipment e ON e.id = d.equipment_id").
		Joins("LEFT JOIN users u ON u.id = d.user_id").
		Where("d.user_id = ?", userID).
		Order("d.uploaded_at DESC").
		Scan(&rows).Error
	return rows, err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.ErrDuplicateEmail
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.ErrUserReferenced
	}
	return err
}
