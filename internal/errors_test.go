package internal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/frahmantamala/asset-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("finds wrapped application errors", func() {
		wrapped := fmt.Errorf("creating: %w", internal.ErrDuplicateAssetTag)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusConflict))

		_, ok = internal.IsAppError(fmt.Errorf("plain"))
		Expect(ok).To(BeFalse())
	})

	It("uses the first field message for validation errors", func() {
		err := internal.NewValidationFieldError("placa", "placa is required", internal.ErrCodeValidationFailed)
		Expect(err.Error()).To(Equal("placa is required"))
		Expect(err.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("includes the cause in the message but not on the wire", func() {
		err := internal.NewInternalError("failed to list equipment", fmt.Errorf("connection refused"))
		Expect(err.Error()).To(Equal("failed to list equipment: connection refused"))

		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		b, marshalErr := json.Marshal(body)
		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(string(b)).To(MatchJSON(`{"error":{"type":"INTERNAL_ERROR","code":"INTERNAL_ERROR","message":"failed to list equipment"}}`))
	})

	It("maps invalid state to 400", func() {
		Expect(internal.ErrAssignmentNotActive.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(internal.ErrAssignmentNotActive.Type).To(Equal(internal.ErrorTypeInvalidState))
	})
})

var _ = Describe("Actor context", func() {
	It("round-trips the actor and tolerates a nil context", func() {
		ctx := internal.ContextWithActor(context.Background(), "mesa de ayuda")
		Expect(internal.ActorFromContext(ctx)).To(Equal("mesa de ayuda"))
		Expect(internal.ActorFromContext(context.Background())).To(BeEmpty())
		//nolint:staticcheck
		Expect(internal.ActorFromContext(nil)).To(BeEmpty())
	})
})
