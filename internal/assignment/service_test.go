package assignment_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/assignment"
	assignmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/assignment"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAssignment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Assignment Suite")
}

// MockRepository implements assignment.RepositoryAPI over maps, keeping the
// equipment status in step with the ledger like the real transaction does.
type MockRepository struct {
	assignments map[string]*assignmentDatamodel.Assignment
	equipment   map[string]*equipmentDatamodel.Equipment
	users       map[string]string
	skipCheck   bool
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		assignments: make(map[string]*assignmentDatamodel.Assignment),
		equipment:   make(map[string]*equipmentDatamodel.Equipment),
		users:       make(map[string]string),
	}
}

func (m *MockRepository) view(a *assignmentDatamodel.Assignment) *assignmentDatamodel.AssignmentView {
	v := &assignmentDatamodel.AssignmentView{Assignment: *a, UserName: m.users[a.UserID]}
	if e, ok := m.equipment[a.EquipmentID]; ok {
		v.AssetTag = e.AssetTag
		v.EquipmentType = e.EquipmentType
		v.EquipmentStatus = e.Status
	}
	return v
}

func (m *MockRepository) List(ctx context.Context, filter assignment.ListFilter) ([]*assignmentDatamodel.AssignmentView, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*assignmentDatamodel.AssignmentView
	for _, a := range m.assignments {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, m.view(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*assignmentDatamodel.AssignmentView, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, errors.ErrAssignmentNotFound
	}
	return m.view(a), nil
}

func (m *MockRepository) HasActiveAssignment(ctx context.Context, equipmentID string) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	if m.skipCheck {
		return false, nil
	}
	return m.activeCount(equipmentID) > 0, nil
}

func (m *MockRepository) activeCount(equipmentID string) int {
	n := 0
	for _, a := range m.assignments {
		if a.EquipmentID == equipmentID && a.Status == inventory.AssignmentActive {
			n++
		}
	}
	return n
}

func (m *MockRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	_, ok := m.users[userID]
	return ok, nil
}

func (m *MockRepository) GetEquipment(ctx context.Context, equipmentID string) (*equipmentDatamodel.Equipment, error) {
	e, ok := m.equipment[equipmentID]
	if !ok {
		return nil, errors.ErrEquipmentNotFound
	}
	return e, nil
}

// Create re-checks exclusivity the way the locked transaction does.
func (m *MockRepository) Create(ctx context.Context, a *assignmentDatamodel.Assignment) error {
	if m.shouldFail {
		return m.failError
	}
	if m.activeCount(a.EquipmentID) > 0 {
		return errors.ErrActiveAssignmentExists
	}
	a.ID = uuid.NewString()
	cp := *a
	m.assignments[a.ID] = &cp
	m.equipment[a.EquipmentID].Status = inventory.StatusAssigned
	return nil
}

func (m *MockRepository) Return(ctx context.Context, id string, returnedAt time.Time) error {
	if m.shouldFail {
		return m.failError
	}
	a := m.assignments[id]
	if a.Status != inventory.AssignmentActive {
		return errors.ErrAssignmentNotActive
	}
	a.Status = inventory.AssignmentReturned
	a.ReturnedAt = &returnedAt
	m.equipment[a.EquipmentID].Status = inventory.StatusAvailable
	return nil
}

func (m *MockRepository) Update(ctx context.Context, a *assignmentDatamodel.Assignment, equipmentStatus string) error {
	if m.shouldFail {
		return m.failError
	}
	cp := *a
	m.assignments[a.ID] = &cp
	if equipmentStatus != "" {
		m.equipment[a.EquipmentID].Status = equipmentStatus
	}
	return nil
}

func (m *MockRepository) ListAvailableEquipment(ctx context.Context) ([]*equipmentDatamodel.Equipment, error) {
	var out []*equipmentDatamodel.Equipment
	for _, e := range m.equipment {
		if e.Status == inventory.StatusAvailable {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetTag < out[j].AssetTag })
	return out, nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) addEquipment(tag, status string) string {
	id := uuid.NewString()
	m.equipment[id] = &equipmentDatamodel.Equipment{ID: id, AssetTag: tag, EquipmentType: "Laptop", Status: status}
	return id
}

func (m *MockRepository) addUser(name string) string {
	id := uuid.NewString()
	m.users[id] = name
	return id
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func expectAppError(err error, code errors.ErrorCode, status int) {
	appErr, ok := errors.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue(), "expected AppError, got %v", err)
	ExpectWithOffset(1, appErr.Code).To(Equal(code))
	ExpectWithOffset(1, appErr.StatusCode).To(Equal(status))
}

func request(userID, equipmentID, date string) assignment.CreateAssignmentRequest {
	d, err := errors.ParseDate(date)
	Expect(err).NotTo(HaveOccurred())
	return assignment.CreateAssignmentRequest{UserID: userID, EquipmentID: equipmentID, AssignedAt: d}
}

var _ = Describe("Assignment Service", func() {
	var (
		mockRepo  *MockRepository
		publisher *recordingPublisher
		service   *assignment.Service
		ctx       context.Context
		eac001    string
		u1, u2    string
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = assignment.NewService(mockRepo, publisher, logger)
		ctx = context.Background()

		eac001 = mockRepo.addEquipment("EAC001", inventory.StatusAvailable)
		u1 = mockRepo.addUser("Ana")
		u2 = mockRepo.addUser("Luis")
	})

	Describe("Create", func() {
		It("opens an Active assignment and marks the equipment Assigned", func() {
			a, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Status).To(Equal(inventory.AssignmentActive))
			Expect(a.UserID).To(Equal(u1))
			Expect(a.EquipmentID).To(Equal(eac001))
			Expect(a.AssignedAt.String()).To(Equal("2024-01-01"))
			Expect(a.UserName).To(Equal("Ana"))
			Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusAssigned))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeAssignmentCreated))
		})

		It("round-trips through Get", func() {
			created, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())

			read, err := service.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(read.UserID).To(Equal(u1))
			Expect(read.EquipmentID).To(Equal(eac001))
			Expect(read.AssignedAt).To(Equal(created.AssignedAt))
			Expect(read.Status).To(Equal(inventory.AssignmentActive))
		})

		It("rejects a second assignment and keeps exactly one Active", func() {
			_, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, request(u2, eac001, "2024-01-02"))
			expectAppError(err, errors.ErrCodeActiveAssignmentExists, 409)
			Expect(mockRepo.activeCount(eac001)).To(Equal(1))
			Expect(mockRepo.assignments).To(HaveLen(1))
		})

		It("still reports a conflict when the race slips past the pre-check", func() {
			_, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())

			mockRepo.skipCheck = true
			_, err = service.Create(ctx, request(u2, eac001, "2024-01-02"))
			expectAppError(err, errors.ErrCodeActiveAssignmentExists, 409)
			Expect(mockRepo.activeCount(eac001)).To(Equal(1))
		})

		It("requires user, equipment and date", func() {
			_, err := service.Create(ctx, assignment.CreateAssignmentRequest{})
			expectAppError(err, errors.ErrCodeValidationFailed, 400)
			details := err.(*errors.AppError).Details.(errors.ValidationErrors)
			Expect(details.Errors).To(HaveLen(3))
			Expect(mockRepo.assignments).To(BeEmpty())
		})

		It("returns not found for unknown user or equipment", func() {
			_, err := service.Create(ctx, request(uuid.NewString(), eac001, "2024-01-01"))
			expectAppError(err, errors.ErrCodeUserNotFound, 404)

			_, err = service.Create(ctx, request(u1, uuid.NewString(), "2024-01-01"))
			expectAppError(err, errors.ErrCodeEquipmentNotFound, 404)
			Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusAvailable))
		})

		It("refuses decommissioned equipment", func() {
			old := mockRepo.addEquipment("EAC900", inventory.StatusDecommissioned)
			_, err := service.Create(ctx, request(u1, old, "2024-01-01"))
			expectAppError(err, errors.ErrCodeInvalidTransition, 400)
		})

		It("wraps repository failures as internal errors", func() {
			mockRepo.SetShouldFail(true, stderrors.New("deadlock detected"))
			_, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("RegisterReturn", func() {
		It("closes the assignment today and frees the equipment", func() {
			a, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())

			returned, err := service.RegisterReturn(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(returned.Status).To(Equal(inventory.AssignmentReturned))
			Expect(returned.ReturnedAt).NotTo(BeNil())
			Expect(*returned.ReturnedAt).To(Equal(errors.Today()))
			Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusAvailable))
			Expect(publisher.events[len(publisher.events)-1].EventType()).To(Equal(events.EventTypeAssignmentReturned))
		})

		It("fails with invalid state on a returned assignment and leaves it unchanged", func() {
			a, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RegisterReturn(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			firstReturn := *mockRepo.assignments[a.ID].ReturnedAt

			_, err = service.RegisterReturn(ctx, a.ID)
			expectAppError(err, errors.ErrCodeAssignmentNotActive, 400)
			Expect(mockRepo.assignments[a.ID].Status).To(Equal(inventory.AssignmentReturned))
			Expect(*mockRepo.assignments[a.ID].ReturnedAt).To(Equal(firstReturn))
		})

		It("returns not found for unknown assignments", func() {
			_, err := service.RegisterReturn(ctx, uuid.NewString())
			expectAppError(err, errors.ErrCodeAssignmentNotFound, 404)
		})
	})

	It("runs the EAC001 lifecycle end to end", func() {
		first, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Status).To(Equal(inventory.AssignmentActive))
		Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusAssigned))

		_, err = service.Create(ctx, request(u2, eac001, "2024-02-01"))
		expectAppError(err, errors.ErrCodeActiveAssignmentExists, 409)

		returned, err := service.RegisterReturn(ctx, first.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(returned.Status).To(Equal(inventory.AssignmentReturned))
		Expect(*returned.ReturnedAt).To(Equal(errors.Today()))
		Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusAvailable))

		second, err := service.Create(ctx, request(u2, eac001, "2024-03-01"))
		Expect(err).NotTo(HaveOccurred())
		Expect(second.UserID).To(Equal(u2))
		Expect(mockRepo.activeCount(eac001)).To(Equal(1))
	})

	Describe("Update", func() {
		var active *assignment.Assignment

		BeforeEach(func() {
			var err error
			active, err = service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes only the fields present in the body", func() {
			updated, err := service.Update(ctx, active.ID, []byte(`{"observaciones":"Cargador incluido","acta_pdf":"/uploads/acta.pdf"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Notes).To(Equal("Cargador incluido"))
			Expect(*updated.ActDocumentURL).To(Equal("/uploads/acta.pdf"))
			Expect(updated.Status).To(Equal(inventory.AssignmentActive))
			Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusAssigned))
		})

		It("moves lost equipment to review in the same step", func() {
			updated, err := service.Update(ctx, active.ID, []byte(`{"estado":"Extraviada"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(inventory.AssignmentLost))
			Expect(mockRepo.equipment[eac001].Status).To(Equal(inventory.StatusInReview))
		})

		It("routes returns through the return operation", func() {
			_, err := service.Update(ctx, active.ID, []byte(`{"estado":"Devuelta"}`))
			expectAppError(err, errors.ErrCodeInvalidTransition, 400)
			Expect(mockRepo.assignments[active.ID].Status).To(Equal(inventory.AssignmentActive))
		})

		It("keeps returned assignments terminal but editable", func() {
			_, err := service.RegisterReturn(ctx, active.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, active.ID, []byte(`{"estado":"Activa"}`))
			expectAppError(err, errors.ErrCodeInvalidTransition, 400)

			updated, err := service.Update(ctx, active.ID, []byte(`{"observaciones":"Devuelto con rayones"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Notes).To(Equal("Devuelto con rayones"))
			Expect(updated.Status).To(Equal(inventory.AssignmentReturned))
		})

		It("rejects unknown statuses", func() {
			_, err := service.Update(ctx, active.ID, []byte(`{"estado":"Prestada"}`))
			expectAppError(err, errors.ErrCodeValidationFailed, 400)
		})
	})

	Describe("List", func() {
		It("counts Active rows", func() {
			other := mockRepo.addEquipment("EAC002", inventory.StatusAvailable)
			a, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, request(u2, other, "2024-02-01"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RegisterReturn(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())

			result, err := service.List(ctx, assignment.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(2))
			Expect(result.Active).To(Equal(1))
			Expect(result.Data[0].AssignedAt.String()).To(Equal("2024-02-01"))
		})
	})

	It("offers only Available equipment, by asset tag", func() {
		mockRepo.addEquipment("EAC000", inventory.StatusAvailable)
		mockRepo.addEquipment("EAC003", inventory.StatusDamaged)
		_, err := service.Create(ctx, request(u1, eac001, "2024-01-01"))
		Expect(err).NotTo(HaveOccurred())

		items, err := service.AvailableEquipment(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].AssetTag).To(Equal("EAC000"))
	})
})
