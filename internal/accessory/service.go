package accessory

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/patch"
	accessoryDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/accessory"
	"github.com/frahmantamala/asset-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*accessoryDatamodel.AccessoryView, error)
	GetByID(ctx context.Context, id string) (*accessoryDatamodel.AccessoryView, error)
	EquipmentExists(ctx context.Context, equipmentID string) (bool, error)
	Create(ctx context.Context, a *accessoryDatamodel.Accessory) error
	Update(ctx context.Context, a *accessoryDatamodel.Accessory) error
	Delete(ctx context.Context, id string) error
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Accessory, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.wrap(err, "failed to list accessories")
	}
	out := make([]*Accessory, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromView(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Accessory, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get accessory", "accessory_id", id)
	}
	return FromView(row), nil
}

func (s *Service) Create(ctx context.Context, in AccessoryInput) (*Accessory, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEquipment(ctx, in.EquipmentID); err != nil {
		return nil, err
	}

	now := time.Now()
	a := &Accessory{RegisteredAt: errors.NewDate(now), CreatedAt: now}
	a.Apply(in)

	row := ToDataModel(a)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.wrap(err, "failed to create accessory", "nombre", in.Name)
	}

	s.logger.Info("accessory created", "accessory_id", row.ID)
	s.publish(ctx, row.ID, events.ActionCreated)
	return s.Get(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id string, body []byte) (*Accessory, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in, err := patch.Merge(current.Input(), body)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	if appErr := in.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.ensureEquipment(ctx, in.EquipmentID); err != nil {
		return nil, err
	}

	current.Apply(in)
	if err := s.repo.Update(ctx, ToDataModel(current)); err != nil {
		return nil, s.wrap(err, "failed to update accessory", "accessory_id", id)
	}

	s.publish(ctx, id, events.ActionUpdated)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "failed to delete accessory", "accessory_id", id)
	}
	s.logger.Info("accessory deleted", "accessory_id", id)
	s.publish(ctx, id, events.ActionDeleted)
	return nil
}

func (s *Service) ensureEquipment(ctx context.Context, equipmentID *string) error {
	if equipmentID == nil {
		return nil
	}
	ok, err := s.repo.EquipmentExists(ctx, *equipmentID)
	if err != nil {
		return s.wrap(err, "failed to check principal equipment", "equipment_id", *equipmentID)
	}
	if !ok {
		return errors.ErrEquipmentNotFound
	}
	return nil
}

func (s *Service) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEntityChangedEvent(events.EventTypeAccessoryChanged, id, action)); err != nil {
		s.logger.Warn("failed to publish accessory event", "accessory_id", id, "error", err)
	}
}

func (s *Service) wrap(err error, message string, attrs ...any) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, append([]any{"error", err}, attrs...)...)
	return errors.NewInternalError(message, err)
}
