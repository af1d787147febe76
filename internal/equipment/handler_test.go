package equipment_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/asset-management/internal/core/datamodel/testdb"
	"github.com/frahmantamala/asset-management/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/asset-management/internal/equipment/postgres"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Equipment Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		service := equipment.NewService(equipmentPostgres.NewEquipmentRepository(db), nil, slogger)
		handler := equipment.NewHandler(transport.NewBaseHandler(slogger), service)
		router = chi.NewRouter()
		router.Route("/equipment", handler.Routes)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	create := func(tag string) map[string]interface{} {
		w := do(http.MethodPost, "/equipment", `{"placa":"`+tag+`","tipo_equipo":"Laptop","criticidad":"Alta","confidencialidad":"Interna","costo":1200}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp struct {
			Data map[string]interface{} `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp.Data
	}

	It("creates and fetches equipment with wire field names", func() {
		created := create("EAC001")
		Expect(created["estado"]).To(Equal("Disponible"))
		Expect(created["costo"]).To(Equal("1200"))

		w := do(http.MethodGet, "/equipment/"+created["id"].(string), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"placa":"EAC001"`))
	})

	It("answers 409 for a duplicate asset tag", func() {
		create("EAC001")
		w := do(http.MethodPost, "/equipment", `{"placa":"EAC001","tipo_equipo":"Laptop","criticidad":"Alta","confidencialidad":"Interna"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))

		var resp map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp["error"]["code"]).To(Equal("DUPLICATE_ASSET_TAG"))
	})

	It("answers 400 for missing required fields", func() {
		w := do(http.MethodPost, "/equipment", `{"placa":"EAC009"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("tipo_equipo"))
	})

	It("answers 400 for malformed JSON", func() {
		w := do(http.MethodPost, "/equipment", `{"placa":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("applies partial updates", func() {
		created := create("EAC001")
		w := do(http.MethodPut, "/equipment/"+created["id"].(string), `{"marca":"HP","es_rentado":true}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"marca":"HP"`))
		Expect(w.Body.String()).To(ContainSubstring(`"placa":"EAC001"`))

		w = do(http.MethodGet, "/equipment?es_rentado=true", "")
		var list transport.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Total).To(Equal(1))
	})

	It("answers 404 for unknown equipment", func() {
		w := do(http.MethodGet, "/equipment/does-not-exist", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		w = do(http.MethodDelete, "/equipment/does-not-exist", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns an empty history for fresh equipment", func() {
		created := create("EAC001")
		w := do(http.MethodGet, "/equipment/"+created["id"].(string)+"/history", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"responsable":null`))
		Expect(w.Body.String()).To(ContainSubstring(`"historial":[]`))
	})
})
