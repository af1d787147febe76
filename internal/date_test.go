package internal_test

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/asset-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Date", func() {
	It("parses plain dates and timestamps to midnight UTC", func() {
		d, err := internal.ParseDate("2024-03-05")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.String()).To(Equal("2024-03-05"))

		d, err = internal.ParseDate(" 2024-03-05T22:10:00Z ")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Time).To(Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects anything else", func() {
		_, err := internal.ParseDate("05/03/2024")
		Expect(err).To(MatchError(ContainSubstring("expected YYYY-MM-DD")))
	})

	It("renders the zero date as null and empty", func() {
		var d internal.Date
		Expect(d.String()).To(BeEmpty())
		b, err := json.Marshal(d)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("null"))
	})

	It("decodes null and empty strings as the zero date", func() {
		var body struct {
			A internal.Date  `json:"a"`
			B *internal.Date `json:"b"`
		}
		Expect(json.Unmarshal([]byte(`{"a":"","b":"2024-01-02"}`), &body)).To(Succeed())
		Expect(body.A.IsZero()).To(BeTrue())
		Expect(body.B.String()).To(Equal("2024-01-02"))

		Expect(json.Unmarshal([]byte(`{"a":"yesterday"}`), &body)).NotTo(Succeed())
	})

	It("converts optional values", func() {
		Expect(internal.DatePtr(nil)).To(BeNil())
		var nilDate *internal.Date
		Expect(nilDate.TimePtr()).To(BeNil())

		t := time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC)
		d := internal.DatePtr(&t)
		Expect(d.String()).To(Equal("2024-07-01"))
		Expect(*d.TimePtr()).To(Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	})
})
