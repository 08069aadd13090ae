package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"classlib-backend/internal/domains/circulation/model"
	itemModel "classlib-backend/internal/domains/item/model"
	"classlib-backend/pkg/database"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CheckOut(ctx context.Context, itemID int64, req model.CheckoutRequest) error {
	return m.Called(ctx, itemID, req).Error(0)
}

func (m *mockService) Return(ctx context.Context, itemID int64) (*model.HistoryEntry, error) {
	args := m.Called(ctx, itemID)
	e, _ := args.Get(0).(*model.HistoryEntry)
	return e, args.Error(1)
}

func (m *mockService) ItemHistory(ctx context.Context, itemID int64) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, itemID)
	v, _ := args.Get(0).([]model.HistoryEntry)
	return v, args.Error(1)
}

func setupRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	r.POST("/items/:id/checkout", h.CheckOut)
	r.POST("/items/:id/return", h.Return)
	r.GET("/items/:id/history", h.ItemHistory)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckOut_ReturnsOK(t *testing.T) {
	svc := new(mockService)
	svc.On("CheckOut", mock.Anything, int64(7), model.CheckoutRequest{BorrowerName: "Ana"}).Return(nil)

	w := post(setupRouter(svc), "/items/7/checkout", `{"borrower_name":"Ana"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"ok":true}}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestCheckOut_AcceptsLegacyBody(t *testing.T) {
	svc := new(mockService)
	cls := "C1"
	svc.On("CheckOut", mock.Anything, int64(7), model.CheckoutRequest{StudentName: "Ana", ClassID: &cls}).Return(nil)

	w := post(setupRouter(svc), "/items/7/checkout", `{"studentName":"Ana","classId":"C1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCheckOut_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", model.ErrItemAlreadyCheckedOut, http.StatusConflict},
		{"not found", itemModel.ErrItemNotFound, http.StatusNotFound},
		{"unavailable", database.Unavailable(context.DeadlineExceeded), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("CheckOut", mock.Anything, int64(1), mock.Anything).Return(tt.err)

			w := post(setupRouter(svc), "/items/1/checkout", `{"borrower_name":"Ana"}`)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCheckOut_MalformedBody(t *testing.T) {
	svc := new(mockService)

	w := post(setupRouter(svc), "/items/1/checkout", `{"borrower_name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CheckOut", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckOut_InvalidID(t *testing.T) {
	svc := new(mockService)

	w := post(setupRouter(svc), "/items/x/checkout", `{"borrower_name":"Ana"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CheckOut", mock.Anything, mock.Anything, mock.Anything)
}

func TestReturn_ReturnsOK(t *testing.T) {
	svc := new(mockService)
	svc.On("Return", mock.Anything, int64(3)).Return(&model.HistoryEntry{ID: 1, ItemID: 3}, nil)

	w := post(setupRouter(svc), "/items/3/return", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"ok":true}}`, w.Body.String())
}

func TestReturn_NotCheckedOut(t *testing.T) {
	svc := new(mockService)
	svc.On("Return", mock.Anything, int64(3)).Return(nil, model.ErrItemNotCheckedOut)

	w := post(setupRouter(svc), "/items/3/return", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"CONFLICT"`)
}

func TestItemHistory_ListsEntries(t *testing.T) {
	svc := new(mockService)
	out := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	ms := int64(60000)
	svc.On("ItemHistory", mock.Anything, int64(3)).Return([]model.HistoryEntry{
		{ID: 1, BorrowerID: 2, ItemID: 3, CheckedOutAt: &out, CheckedInAt: out.Add(time.Minute), DurationMs: &ms},
	}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/3/history", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duration_ms":60000`)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
