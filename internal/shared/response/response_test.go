package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlib-backend/internal/shared"
	"classlib-backend/pkg/database"
)

func TestFromError_StatusByKind(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("%w: %w", shared.ErrValidation, validation.Errors{"borrower_name": errors.New("cannot be blank")}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", shared.NewError(shared.ErrNotFound, "item not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", shared.NewError(shared.ErrConflict, "item is already checked out"), http.StatusConflict, "CONFLICT"},
		{"unavailable", database.Unavailable(errors.New("lock timeout")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestFromError_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("%w: %w", shared.ErrValidation, validation.Errors{"borrower_name": errors.New("cannot be blank")})
	FromError(c, err)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Invalid request","details":{"borrower_name":"cannot be blank"}}}`,
		w.Body.String())
}
