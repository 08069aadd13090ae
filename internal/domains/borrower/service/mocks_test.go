package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"classlib-backend/internal/domains/borrower/model"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Upsert(ctx context.Context, tx pgx.Tx, name string, classification *string) (model.Resolution, error) {
	args := m.Called(ctx, tx, name, classification)
	return args.Get(0).(model.Resolution), args.Error(1)
}

func (m *mockRepo) FindByName(ctx context.Context, name string) (*model.Borrower, error) {
	args := m.Called(ctx, name)
	b, _ := args.Get(0).(*model.Borrower)
	return b, args.Error(1)
}

func (m *mockRepo) ListRoster(ctx context.Context) ([]model.RosterEntry, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]model.RosterEntry)
	return r, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	if fill, ok := args.Get(2).(func(interface{})); ok && fill != nil {
		fill(dest)
	}
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueRosterRefresh(ctx context.Context, reason string) error {
	return m.Called(ctx, reason).Error(0)
}

func strPtr(s string) *string { return &s }
