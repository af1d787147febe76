package assignment_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/asset-management/internal/assignment/postgres"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/datamodel/testdb"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Assignment Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		eac001 *equipmentDatamodel.Equipment
		u1, u2 *userDatamodel.User
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		eac001 = &equipmentDatamodel.Equipment{
			AssetTag: "EAC001", EquipmentType: "Laptop", Criticality: inventory.CriticalityMedium,
			Confidentiality: "Interna", Status: inventory.StatusAvailable, RegisteredAt: time.Now(),
		}
		Expect(db.Create(eac001).Error).To(Succeed())
		u1 = &userDatamodel.User{Name: "U1", Position: "Analista", Process: "TI", AssignedGroup: "Soporte", Area: "TI", Email: "u1@example.com", IsActive: true}
		u2 = &userDatamodel.User{Name: "U2", Position: "Analista", Process: "TI", AssignedGroup: "Soporte", Area: "TI", Email: "u2@example.com", IsActive: true}
		Expect(db.Create(u1).Error).To(Succeed())
		Expect(db.Create(u2).Error).To(Succeed())

		service := assignment.NewService(assignmentPostgres.NewAssignmentRepository(db), nil, slogger)
		handler := assignment.NewHandler(transport.NewBaseHandler(slogger), service)
		router = chi.NewRouter()
		router.Route("/assignments", handler.Routes)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var resp struct {
			Data map[string]interface{} `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp.Data
	}

	equipmentStatus := func() string {
		var e equipmentDatamodel.Equipment
		Expect(db.Where("id = ?", eac001.ID).First(&e).Error).To(Succeed())
		return e.Status
	}

	create := func(userID string) *httptest.ResponseRecorder {
		return do(http.MethodPost, "/assignments",
			`{"usuario_id":"`+userID+`","equipo_id":"`+eac001.ID+`","fecha_asignacion":"2024-01-01"}`)
	}

	It("runs the EAC001 lifecycle over HTTP", func() {
		w := create(u1.ID)
		Expect(w.Code).To(Equal(http.StatusCreated))
		first := decode(w)
		Expect(first["estado"]).To(Equal(inventory.AssignmentActive))
		Expect(first["placa"]).To(Equal("EAC001"))
		Expect(first["fecha_asignacion"]).To(Equal("2024-01-01"))
		Expect(equipmentStatus()).To(Equal(inventory.StatusAssigned))

		w = create(u2.ID)
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = do(http.MethodPost, "/assignments/"+first["id"].(string)+"/devolucion", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		returned := decode(w)
		Expect(returned["estado"]).To(Equal(inventory.AssignmentReturned))
		Expect(returned["fecha_devolucion"]).To(Equal(errors.Today().String()))
		Expect(equipmentStatus()).To(Equal(inventory.StatusAvailable))

		w = create(u2.ID)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/assignments", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list assignment.ListResult
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Total).To(Equal(2))
		Expect(list.Active).To(Equal(1))
	})

	It("answers 400 when required fields are missing", func() {
		w := do(http.MethodPost, "/assignments", `{"usuario_id":"`+u1.ID+`"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("equipo_id"))
		Expect(w.Body.String()).To(ContainSubstring("fecha_asignacion"))
	})

	It("answers 400 for a malformed date", func() {
		w := do(http.MethodPost, "/assignments",
			`{"usuario_id":"`+u1.ID+`","equipo_id":"`+eac001.ID+`","fecha_asignacion":"01/01/2024"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 for unknown references", func() {
		w := do(http.MethodPost, "/assignments",
			`{"usuario_id":"nobody","equipo_id":"`+eac001.ID+`","fecha_asignacion":"2024-01-01"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		w = do(http.MethodPost, "/assignments/nothing/devolucion", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 when returning a returned assignment", func() {
		created := decode(create(u1.ID))
		path := "/assignments/" + created["id"].(string) + "/devolucion"
		Expect(do(http.MethodPost, path, "").Code).To(Equal(http.StatusOK))

		w := do(http.MethodPost, path, "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("ASSIGNMENT_NOT_ACTIVE"))
	})

	It("lists available equipment", func() {
		w := do(http.MethodGet, "/assignments/available-equipment", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"placa":"EAC001"`))

		create(u1.ID)
		w = do(http.MethodGet, "/assignments/available-equipment", "")
		Expect(w.Body.String()).To(ContainSubstring(`"data":[]`))
	})

	It("applies partial updates", func() {
		created := decode(create(u1.ID))
		w := do(http.MethodPut, "/assignments/"+created["id"].(string), `{"observaciones":"Incluye mouse"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		updated := decode(w)
		Expect(updated["observaciones"]).To(Equal("Incluye mouse"))
		Expect(updated["estado"]).To(Equal(inventory.AssignmentActive))
	})
})
