package document_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	equipmentDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/equipment"
	"github.com/frahmantamala/asset-management/internal/core/datamodel/testdb"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/document"
	documentPostgres "github.com/frahmantamala/asset-management/internal/document/postgres"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Document Handler Integration", func() {
	var (
		router *chi.Mux
		dir    string
		eq     *equipmentDatamodel.Equipment
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		eq = &equipmentDatamodel.Equipment{
			AssetTag: "EAC001", EquipmentType: "Laptop", Criticality: inventory.CriticalityMedium,
			Confidentiality: "Interna", Status: inventory.StatusAvailable, RegisteredAt: time.Now(),
		}
		Expect(db.Create(eq).Error).To(Succeed())

		dir = GinkgoT().TempDir()
		store, err := document.NewLocalStorage(dir, "/uploads", 1<<20)
		Expect(err).NotTo(HaveOccurred())

		service := document.NewService(documentPostgres.NewDocumentRepository(db), store, nil, slogger)
		handler := document.NewHandler(transport.NewBaseHandler(slogger), service, 1<<20)
		router = chi.NewRouter()
		router.Route("/documents", handler.Routes)
	})

	multipartRequest := func(method, path string, fields map[string]string, filename, content string) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			Expect(mw.WriteField(k, v)).To(Succeed())
		}
		if filename != "" {
			fw, err := mw.CreateFormFile(document.FileField, filename)
			Expect(err).NotTo(HaveOccurred())
			_, err = fw.Write([]byte(content))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(mw.Close()).To(Succeed())

		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	serve := func(req *http.Request) *httptest.ResponseRecorder {
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

	It("accepts a multipart upload and versions replacements", func() {
		fields := map[string]string{"nombre": "Acta EAC001", "tipo": inventory.DocumentAct, "equipo_id": eq.ID}
		w := serve(multipartRequest(http.MethodPost, "/documents", fields, "acta.pdf", "%PDF-1.4"))
		Expect(w.Code).To(Equal(http.StatusCreated))
		first := decode(w)
		Expect(first["url"]).To(HavePrefix("/uploads/"))
		Expect(first["version"]).To(BeNumerically("==", 1))
		Expect(first["equipo_placa"]).To(Equal("EAC001"))

		_, err := os.Stat(filepath.Join(dir, filepath.Base(first["url"].(string))))
		Expect(err).NotTo(HaveOccurred())

		w = serve(multipartRequest(http.MethodPost, "/documents", fields, "acta-v2.pdf", "%PDF-1.5"))
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(decode(w)["version"]).To(BeNumerically("==", 2))

		w = serve(multipartRequest(http.MethodPut, "/documents/"+first["id"].(string), map[string]string{}, "acta-v3.pdf", "%PDF-1.6"))
		Expect(w.Code).To(Equal(http.StatusOK))
		replaced := decode(w)
		Expect(replaced["version"]).To(BeNumerically("==", 2))
		Expect(replaced["nombre"]).To(Equal("Acta EAC001"))
	})

	It("rejects disallowed file types", func() {
		fields := map[string]string{"nombre": "Script", "tipo": inventory.DocumentOther}
		w := serve(multipartRequest(http.MethodPost, "/documents", fields, "run.sh", "echo"))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_UPLOAD"))
	})

	It("accepts JSON with an external URL and filters the list", func() {
		body := `{"nombre":"Factura","tipo":"Factura","url":"https://files.example.com/f.pdf","equipo_id":"` + eq.ID + `"}`
		req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		Expect(serve(req).Code).To(Equal(http.StatusCreated))

		w := serve(httptest.NewRequest(http.MethodGet, "/documents?tipo=Factura&equipo_id="+eq.ID, nil))
		var list transport.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Total).To(Equal(1))

		w = serve(httptest.NewRequest(http.MethodGet, "/documents?tipo=Acta", nil))
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Total).To(Equal(0))
	})

	It("rejects references to unknown equipment", func() {
		body := `{"nombre":"Factura","tipo":"Factura","url":"https://files.example.com/f.pdf","equipo_id":"missing"}`
		req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		Expect(serve(req).Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 for unknown documents", func() {
		Expect(serve(httptest.NewRequest(http.MethodGet, "/documents/missing", nil)).Code).To(Equal(http.StatusNotFound))
		Expect(serve(httptest.NewRequest(http.MethodDelete, "/documents/missing", nil)).Code).To(Equal(http.StatusNotFound))
	})
})
