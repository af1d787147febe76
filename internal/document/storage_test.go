package document_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/document"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		dir   string
		store *document.LocalStorage
		ctx   context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		var err error
		store, err = document.NewLocalStorage(dir, "uploads", 16)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("writes allowed files under a generated name", func() {
		url, err := store.Save(ctx, document.Upload{Filename: "Acta Final.PDF", Size: 4, Content: strings.NewReader("%PDF")})
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(HavePrefix("/uploads/"))
		Expect(url).To(HaveSuffix(".pdf"))
		Expect(url).NotTo(ContainSubstring("Acta"))

		content, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("%PDF"))
	})

	It("rejects extensions outside the allow list", func() {
		_, err := store.Save(ctx, document.Upload{Filename: "script.exe", Size: 1, Content: strings.NewReader("x")})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
		Expect(appErr.Details.(errors.ValidationErrors).Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidUpload)))
	})

	It("rejects files over the size limit even when the declared size lies", func() {
		_, err := store.Save(ctx, document.Upload{Filename: "big.pdf", Size: 64, Content: strings.NewReader(strings.Repeat("x", 64))})
		Expect(err).To(HaveOccurred())

		_, err = store.Save(ctx, document.Upload{Filename: "big.pdf", Size: 1, Content: strings.NewReader(strings.Repeat("x", 64))})
		Expect(err).To(HaveOccurred())
		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("removes only its own files", func() {
		url, err := store.Save(ctx, document.Upload{Filename: "a.png", Size: 1, Content: strings.NewReader("x")})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Remove(ctx, url)).To(Succeed())
		Expect(store.Remove(ctx, "https://files.example.com/a.png")).To(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})
})
