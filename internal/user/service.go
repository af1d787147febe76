package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/assignment"
	"github.com/frahmantamala/asset-management/internal/core/common/patch"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	documentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/document"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/document"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*userDatamodel.User, error)
	Areas(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id string) error
	CountAssignments(ctx context.Context, id string) (int64, error)
	ListAssignments(ctx context.Context, userID string) ([]*assignmentDatamodel.AssignmentView, error)
	ListDocuments(ctx context.Context, userID string) ([]*documentDatamodel.DocumentView, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.wrap(err, "failed to list users")
	}
	result := make([]*User, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result, nil
}

func (s *Service) Areas(ctx context.Context) ([]string, error) {
	areas, err := s.repo.Areas(ctx)
	if err != nil {
		return nil, s.wrap(err, "failed to list areas")
	}
	if areas == nil {
		areas = []string{}
	}
	return areas, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get user", "user_id", id)
	}
	return FromDataModel(row), nil
}

func (s *Service) Profile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAssignments(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load user assignments", "user_id", id)
	}
	docs, err := s.repo.ListDocuments(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load user documents", "user_id", id)
	}

	profile := &Profile{
		User:              u,
		ActiveAssignments: []*assignment.Assignment{},
		History:           assignment.FromViews(rows),
		Documents:         document.FromViews(docs),
	}
	for _, a := range profile.History {
		if a.IsActive() {
			profile.ActiveAssignments = append(profile.ActiveAssignments, a)
		}
	}
	return profile, nil
}

func (s *Service) Create(ctx context.Context, in UserInput) (*User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	u := NewUser(in)
	row := ToDataModel(u)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.wrap(err, "failed to create user", "correo", in.Email)
	}

	s.logger.Info("user created", "user_id", row.ID, "area", row.Area)
	s.publish(ctx, row.ID, events.ActionCreated)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, body []byte) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get user", "user_id", id)
	}
	current := FromDataModel(row)

	in, err := patch.Merge(current.Input(), body)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	if appErr := in.Validate(); appErr != nil {
		return nil, appErr
	}
	if in.Email != current.Email {
		if err := s.ensureEmailAvailable(ctx, in.Email, id); err != nil {
			return nil, err
		}
	}

	current.Apply(in)
	if err := s.repo.Update(ctx, ToDataModel(current)); err != nil {
		return nil, s.wrap(err, "failed to update user", "user_id", id)
	}

	s.publish(ctx, id, events.ActionUpdated)
	return current, nil
}

// Delete refuses to remove users with any assignment on record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return s.wrap(err, "failed to get user", "user_id", id)
	}

	n, err := s.repo.CountAssignments(ctx, id)
	if err != nil {
		return s.wrap(err, "failed to count user assignments", "user_id", id)
	}
	if n > 0 {
		return errors.ErrUserReferenced
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "failed to delete user", "user_id", id)
	}

	s.logger.Info("user deleted", "user_id", id)
	s.publish(ctx, id, events.ActionDeleted)
	return nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return s.wrap(err, "failed to check email", "correo", email)
	}
	if existing != nil && existing.ID != selfID {
		return errors.ErrDuplicateEmail
	}
	return nil
}

func (s *Service) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEntityChangedEvent(events.EventTypeUserChanged, id, action)); err != nil {
		s.logger.Warn("failed to publish user event", "user_id", id, "error", err)
	}
}

func (s *Service) wrap(err error, message string, attrs ...any) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, append([]any{"error", err}, attrs...)...)
	return errors.NewInternalError(message, err)
}
