package equipment

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/patch"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*equipmentDatamodel.Equipment, error)
	GetByID(ctx context.Context, id string) (*equipmentDatamodel.Equipment, error)
	GetByAssetTag(ctx context.Context, assetTag string) (*equipmentDatamodel.Equipment, error)
	Create(ctx context.Context, e *equipmentDatamodel.Equipment) error
	Update(ctx context.Context, e *equipmentDatamodel.Equipment) error
	Delete(ctx context.Context, id string) error
	CountReferences(ctx context.Context, id string) (int64, error)
	ListAssignments(ctx context.Context, equipmentID string) ([]*assignmentDatamodel.AssignmentView, error)
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Equipment, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err)
		return nil, errors.NewInternalError("failed to list equipment", err)
	}

	result := make([]*Equipment, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Equipment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get equipment", "equipment_id", id)
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, in EquipmentInput) (*Equipment, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureTagAvailable(ctx, in.AssetTag, ""); err != nil {
		return nil, err
	}

	e := NewEquipment(in)
	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.wrap(err, "failed to create equipment", "placa", in.AssetTag)
	}

	s.logger.Info("equipment created", "equipment_id", row.ID, "placa", row.AssetTag)
	s.publish(ctx, row.ID, events.ActionCreated)
	return FromDataModel(row), nil
}

// Update applies a JSON merge patch over the mutable fields and revalidates
// the result as a whole.
func (s *Service) Update(ctx context.Context, id string, body []byte) (*Equipment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get equipment", "equipment_id", id)
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

	if in.AssetTag != current.AssetTag {
		if err := s.ensureTagAvailable(ctx, in.AssetTag, id); err != nil {
			return nil, err
		}
	}
	if in.Status != current.Status {
		// direct status edits bypass the assignment ledger; the dashboard
		// integrity alert reports any drift this creates
		s.logger.Warn("equipment status edited directly",
			"equipment_id", id, "from", current.Status, "to", in.Status)
	}

	current.Apply(in)
	updated := ToDataModel(current)
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, s.wrap(err, "failed to update equipment", "equipment_id", id)
	}

	s.publish(ctx, id, events.ActionUpdated)
	return current, nil
}

// Delete refuses to remove equipment that assignments or accessories still reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return s.wrap(err, "failed to get equipment", "equipment_id", id)
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return s.wrap(err, "failed to count equipment references", "equipment_id", id)
	}
	if refs > 0 {
		return errors.ErrEquipmentReferenced
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "failed to delete equipment", "equipment_id", id)
	}

	s.logger.Info("equipment deleted", "equipment_id", id)
	s.publish(ctx, id, events.ActionDeleted)
	return nil
}

// History returns the assignment trail and the current responsible user.
func (s *Service) History(ctx context.Context, id string) (*HistoryResponse, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAssignments(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load equipment history", "equipment_id", id)
	}

	resp := &HistoryResponse{Equipment: e, History: make([]*HistoryEntry, 0, len(rows))}
	for _, row := range rows {
		resp.History = append(resp.History, &HistoryEntry{
			AssignmentID: row.ID,
			UserID:       row.UserID,
			UserName:     row.UserName,
			UserPosition: row.UserPosition,
			UserArea:     row.UserArea,
			AssignedAt:   errors.NewDate(row.AssignedAt),
			ReturnedAt:   errors.DatePtr(row.ReturnedAt),
			Status:       row.Status,
			Notes:        row.Notes,
		})
		if row.Status == inventory.AssignmentActive && resp.Responsible == nil {
			resp.Responsible = &Responsible{
				UserID:     row.UserID,
				Name:       row.UserName,
				Position:   row.UserPosition,
				Area:       row.UserArea,
				AssignedAt: errors.NewDate(row.AssignedAt),
			}
		}
	}
	return resp, nil
}

func (s *Service) ensureTagAvailable(ctx context.Context, assetTag, selfID string) error {
	existing, err := s.repo.GetByAssetTag(ctx, assetTag)
	if err != nil {
		return s.wrap(err, "failed to check asset tag", "placa", assetTag)
	}
	if existing != nil && existing.ID != selfID {
		return errors.ErrDuplicateAssetTag
	}
	return nil
}

func (s *Service) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEntityChangedEvent(events.EventTypeEquipmentChanged, id, action)); err != nil {
		s.logger.Warn("failed to publish equipment event", "equipment_id", id, "error", err)
	}
}

// wrap passes AppErrors through and turns anything else into an internal error.
func (s *Service) wrap(err error, message string, attrs ...any) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error(message, append([]any{"error", err}, attrs...)...)
	return errors.NewInternalError(message, err)
}
