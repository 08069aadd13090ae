package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"classlib-backend/internal/domains/item/model"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListItems(ctx context.Context, req model.ListItemsRequest) ([]model.ItemView, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).([]model.ItemView)
	return v, args.Error(1)
}

func (m *mockService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*model.Item)
	return it, args.Error(1)
}

func (m *mockService) ExportItemsToExcel(ctx context.Context, req model.ListItemsRequest) (*excelize.File, error) {
	args := m.Called(ctx, req)
	f, _ := args.Get(0).(*excelize.File)
	return f, args.Error(1)
}

func setupRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	r.GET("/items", h.ListItems)
	r.GET("/items/export", h.ExportItems)
	r.GET("/items/:id", h.GetItem)
	return r
}

func TestListItems_ParsesFilter(t *testing.T) {
	svc := new(mockService)
	available := true
	svc.On("ListItems", mock.Anything, model.ListItemsRequest{Available: &available, Query: "dune"}).
		Return([]model.ItemView{{ID: 1, Title: "Dune", Author: "Herbert", Available: true}}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?available=true&q=dune", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Dune"`)
	svc.AssertExpectations(t)
}

func TestGetItem_NotFound(t *testing.T) {
	svc := new(mockService)
	svc.On("GetItem", mock.Anything, int64(42)).Return(nil, model.ErrItemNotFound)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetItem_InvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		setupRouter(new(mockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestExportItems_WritesWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "id"))

	svc := new(mockService)
	svc.On("ExportItemsToExcel", mock.Anything, model.ListItemsRequest{}).Return(f, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "items.xlsx")

	got, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	v, err := got.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "id", v)
}
