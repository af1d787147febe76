package assignment

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/patch"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/equipment"
)

// RepositoryAPI is the ledger's persistence port. Create, Return and Update
// write the assignment row and the equipment status in one transaction.
type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*assignmentDatamodel.AssignmentView, error)
	GetByID(ctx context.Context, id string) (*assignmentDatamodel.AssignmentView, error)
	HasActiveAssignment(ctx context.Context, equipmentID string) (bool, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	GetEquipment(ctx context.Context, equipmentID string) (*equipmentDatamodel.Equipment, error)
	Create(ctx context.Context, a *assignmentDatamodel.Assignment) error
	Return(ctx context.Context, id string, returnedAt time.Time) error
	Update(ctx context.Context, a *assignmentDatamodel.Assignment, equipmentStatus string) error
	ListAvailableEquipment(ctx context.Context) ([]*equipmentDatamodel.Equipment, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.wrap(err, "failed to list assignments")
	}

	result := &ListResult{Data: FromViews(rows), Total: len(rows)}
	for _, a := range result.Data {
		if a.IsActive() {
			result.Active++
		}
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Assignment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get assignment", "assignment_id", id)
	}
	return FromView(row), nil
}

// Create opens an Active assignment and marks the equipment Assigned.
// The active-assignment check runs here for a fast answer and again inside
// the repository transaction, with the partial unique index as backstop.
func (s *Service) Create(ctx context.Context, req CreateAssignmentRequest) (*Assignment, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, s.wrap(err, "failed to check user", "user_id", req.UserID)
	}
	if !exists {
		return nil, errors.ErrUserNotFound
	}

	eq, err := s.repo.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		return nil, s.wrap(err, "failed to get equipment", "equipment_id", req.EquipmentID)
	}
	if eq.Status == inventory.StatusDecommissioned {
		return nil, errors.NewInvalidStateError("Decommissioned equipment cannot be assigned", errors.ErrCodeInvalidTransition)
	}

	active, err := s.repo.HasActiveAssignment(ctx, req.EquipmentID)
	if err != nil {
		return nil, s.wrap(err, "failed to check active assignment", "equipment_id", req.EquipmentID)
	}
	if active {
		return nil, errors.ErrActiveAssignmentExists
	}

	row := NewAssignment(req)
	if err := s.repo.Create(ctx, row); err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr == errors.ErrActiveAssignmentExists {
			s.logger.Warn("concurrent assignment rejected", "equipment_id", req.EquipmentID)
		}
		return nil, s.wrap(err, "failed to create assignment", "equipment_id", req.EquipmentID)
	}

	s.logger.Info("assignment created",
		"assignment_id", row.ID, "equipment_id", row.EquipmentID, "user_id", row.UserID, "from_status", eq.Status)
	s.publish(ctx, events.EventTypeAssignmentCreated, row)
	return s.Get(ctx, row.ID)
}

// RegisterReturn closes an Active assignment with today's date and makes
// the equipment Available again.
func (s *Service) RegisterReturn(ctx context.Context, id string) (*Assignment, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get assignment", "assignment_id", id)
	}
	if current.Status != inventory.AssignmentActive {
		return nil, errors.ErrAssignmentNotActive
	}

	returnedAt := errors.NewDate(s.now()).Time
	if err := s.repo.Return(ctx, id, returnedAt); err != nil {
		return nil, s.wrap(err, "failed to register return", "assignment_id", id)
	}

	returned := current.Assignment
	returned.Status = inventory.AssignmentReturned
	returned.ReturnedAt = &returnedAt
	s.logger.Info("assignment returned", "assignment_id", id, "equipment_id", returned.EquipmentID)
	s.publish(ctx, events.EventTypeAssignmentReturned, &returned)
	return s.Get(ctx, id)
}

// Update applies a merge patch to the assignment metadata. Returned is
// terminal and only reachable through RegisterReturn; Active to Lost sends
// the equipment to review in the same transaction.
func (s *Service) Update(ctx context.Context, id string, body []byte) (*Assignment, error) {
	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get assignment", "assignment_id", id)
	}
	current := FromView(view)

	in, err := patch.Merge(current.UpdateInput(), body)
	if err != nil {
		return nil, err
	}
	if appErr := in.Validate(); appErr != nil {
		return nil, appErr
	}

	equipmentStatus, err := transition(current.Status, in.Status)
	if err != nil {
		return nil, err
	}

	row := view.Assignment
	row.Notes = in.Notes
	row.Status = in.Status
	row.ActDocumentURL = in.ActDocumentURL
	row.ResumeDocumentURL = in.ResumeDocumentURL
	row.ReturnedAt = in.ReturnedAt.TimePtr()
	row.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &row, equipmentStatus); err != nil {
		return nil, s.wrap(err, "failed to update assignment", "assignment_id", id)
	}

	if equipmentStatus != "" {
		s.logger.Info("assignment status changed",
			"assignment_id", id, "from", current.Status, "to", in.Status, "equipment_status", equipmentStatus)
	}
	s.publish(ctx, events.EventTypeAssignmentUpdated, &row)
	return s.Get(ctx, id)
}

// transition returns the equipment status implied by a status change, or
// "" when the equipment is untouched.
func transition(from, to string) (string, error) {
	if from == to {
		return "", nil
	}
	switch {
	case to == inventory.AssignmentReturned:
		return "", errors.NewInvalidStateError("Use the return operation to close an assignment", errors.ErrCodeInvalidTransition)
	case from == inventory.AssignmentActive && to == inventory.AssignmentLost:
		return inventory.StatusInReview, nil
	}
	return "", errors.NewInvalidStateError("Assignment status cannot change from "+from+" to "+to, errors.ErrCodeInvalidTransition)
}

// AvailableEquipment is the candidate pool for new assignments.
func (s *Service) AvailableEquipment(ctx context.Context) ([]*equipment.Equipment, error) {
	rows, err := s.repo.ListAvailableEquipment(ctx)
	if err != nil {
		return nil, s.wrap(err, "failed to list available equipment")
	}
	out := make([]*equipment.Equipment, 0, len(rows))
	for _, row := range rows {
		out = append(out, equipment.FromDataModel(row))
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, eventType string, a *assignmentDatamodel.Assignment) {
	if s.publisher == nil {
		return
	}
	evt := events.NewAssignmentEvent(eventType, a.ID, a.EquipmentID, a.UserID, a.Status)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish assignment event", "assignment_id", a.ID, "error", err)
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
