package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"classlib-backend/internal/domains/borrower/model"
	"classlib-backend/pkg/database"
)

type mockRoster struct {
	mock.Mock
}

func (m *mockRoster) Get(ctx context.Context) ([]model.RosterEntry, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]model.RosterEntry)
	return r, args.Error(1)
}

func (m *mockRoster) Refresh(ctx context.Context) ([]model.RosterEntry, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]model.RosterEntry)
	return r, args.Error(1)
}

func (m *mockRoster) Invalidate(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}

func setupRouter(roster *mockRoster) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/borrowers", NewHandler(roster).GetRoster)
	return r
}

func TestGetRoster(t *testing.T) {
	roster := new(mockRoster)
	cls := "C1"
	roster.On("Get", mock.Anything).Return([]model.RosterEntry{
		{Name: "Ana", Classification: &cls, Items: []model.RosterItem{}, History: []model.RosterHistory{}},
	}, nil)

	w := httptest.NewRecorder()
	setupRouter(roster).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/borrowers", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"success":true,"data":[{"name":"Ana","classification":"C1","items":[],"history":[]}],"meta":{"total":1}}`,
		w.Body.String())
}

func TestGetRoster_Unavailable(t *testing.T) {
	roster := new(mockRoster)
	roster.On("Get", mock.Anything).Return(nil, database.Unavailable(errors.New("pool closed")))

	w := httptest.NewRecorder()
	setupRouter(roster).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/borrowers", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
