package accessory_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/accessory"
	accessoryPostgres "github.com/frahmantamala/asset-management/internal/accessory/postgres"
	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/datamodel/testdb"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccessory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Accessory Suite")
}

var _ = Describe("Accessory", func() {
	var (
		service *accessory.Service
		router  *chi.Mux
		ctx     context.Context
		eq      *equipmentDatamodel.Equipment
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		eq = &equipmentDatamodel.Equipment{
			AssetTag: "EAC001", EquipmentType: "Laptop", Brand: "Dell", Model: "Latitude",
			Criticality: inventory.CriticalityMedium, Confidentiality: "Interna",
			Status: inventory.StatusAvailable, RegisteredAt: time.Now(),
		}
		Expect(db.Create(eq).Error).To(Succeed())

		service = accessory.NewService(accessoryPostgres.NewAccessoryRepository(db), nil, slogger)
		router = chi.NewRouter()
		router.Route("/accessories", accessory.NewHandler(transport.NewBaseHandler(slogger), service).Routes)
	})

	Describe("Service", func() {
		It("defaults quantity and status and joins the principal equipment", func() {
			a, err := service.Create(ctx, accessory.AccessoryInput{Name: "Mouse", EquipmentID: &eq.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Quantity).To(Equal(1))
			Expect(a.Status).To(Equal(inventory.StatusAvailable))
			Expect(a.EquipmentAssetTag).To(Equal("EAC001"))
			Expect(a.EquipmentBrand).To(Equal("Dell"))
		})

		It("validates name and quantity", func() {
			zero := 0
			_, err := service.Create(ctx, accessory.AccessoryInput{Quantity: &zero})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(errors.ValidationErrors).Errors).To(HaveLen(2))
		})

		It("requires the principal equipment to exist", func() {
			missing := "missing"
			_, err := service.Create(ctx, accessory.AccessoryInput{Name: "Cargador", EquipmentID: &missing})
			Expect(err).To(Equal(errors.ErrEquipmentNotFound))
		})

		It("detaches from the equipment through a null patch", func() {
			a, err := service.Create(ctx, accessory.AccessoryInput{Name: "Base", EquipmentID: &eq.ID})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(ctx, a.ID, []byte(`{"equipo_principal_id":null,"cantidad":3}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.EquipmentID).To(BeNil())
			Expect(updated.EquipmentAssetTag).To(BeEmpty())
			Expect(updated.Quantity).To(Equal(3))
			Expect(updated.Name).To(Equal("Base"))
		})
	})

	Describe("HTTP", func() {
		do := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("lists by name and filters by search and status", func() {
			Expect(do(http.MethodPost, "/accessories", `{"nombre":"Teclado","serial":"KB-1"}`).Code).To(Equal(http.StatusCreated))
			Expect(do(http.MethodPost, "/accessories", `{"nombre":"Audífonos","estado":"Dañado"}`).Code).To(Equal(http.StatusCreated))

			var list struct {
				Data  []accessory.Accessory `json:"data"`
				Total int                   `json:"total"`
			}
			w := do(http.MethodGet, "/accessories", "")
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list.Total).To(Equal(2))
			Expect(list.Data[0].Name).To(Equal("Audífonos"))

			w = do(http.MethodGet, "/accessories?busqueda=kb-", "")
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list.Total).To(Equal(1))

			w = do(http.MethodGet, "/accessories?estado=Da%C3%B1ado", "")
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list.Total).To(Equal(1))
		})

		It("answers 404 for unknown accessories", func() {
			Expect(do(http.MethodGet, "/accessories/missing", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodDelete, "/accessories/missing", "").Code).To(Equal(http.StatusNotFound))
		})
	})
})
