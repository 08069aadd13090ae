package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"classlib-backend/internal/domains/borrower/model"
	"classlib-backend/internal/shared"
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

func TestRosterRefreshHandler(t *testing.T) {
	roster := new(mockRoster)
	roster.On("Refresh", mock.Anything).Return([]model.RosterEntry{{Name: "Ana"}}, nil).Once()

	err := NewRosterRefreshHandler(roster).ProcessTask(context.Background(), asynq.NewTask(shared.TypeRosterRefresh, nil))

	assert.NoError(t, err)
	roster.AssertExpectations(t)
}

func TestRosterRefreshHandler_ErrorIsRetried(t *testing.T) {
	roster := new(mockRoster)
	roster.On("Refresh", mock.Anything).Return(nil, errors.New("db down"))

	err := NewRosterRefreshHandler(roster).ProcessTask(context.Background(), asynq.NewTask(shared.TypeRosterRefresh, nil))

	assert.Error(t, err)
}
