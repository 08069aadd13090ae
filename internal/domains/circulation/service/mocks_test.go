package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	borrowerModel "classlib-backend/internal/domains/borrower/model"
	"classlib-backend/internal/domains/circulation/model"
	itemModel "classlib-backend/internal/domains/item/model"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveOrCreate(ctx context.Context, tx pgx.Tx, name string, classification *string) (borrowerModel.Resolution, error) {
	args := m.Called(ctx, tx, name, classification)
	return args.Get(0).(borrowerModel.Resolution), args.Error(1)
}

type mockItems struct {
	mock.Mock
}

func (m *mockItems) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*itemModel.Item, error) {
	args := m.Called(ctx, tx, id)
	it, _ := args.Get(0).(*itemModel.Item)
	return it, args.Error(1)
}

func (m *mockItems) MarkCheckedOut(ctx context.Context, tx pgx.Tx, id, borrowerID int64, at time.Time) error {
	return m.Called(ctx, tx, id, borrowerID, at).Error(0)
}

func (m *mockItems) MarkReturned(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error {
	return m.Called(ctx, tx, id, at).Error(0)
}

func (m *mockItems) LockIDAllocation(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockItems) MaxID(ctx context.Context, tx pgx.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItems) Upsert(ctx context.Context, tx pgx.Tx, fields itemModel.ItemFields) (bool, error) {
	args := m.Called(ctx, tx, fields)
	return args.Bool(0), args.Error(1)
}

func (m *mockItems) GetByID(ctx context.Context, id int64) (*itemModel.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*itemModel.Item)
	return it, args.Error(1)
}

func (m *mockItems) List(ctx context.Context, filter itemModel.ListItemsRequest) ([]itemModel.ItemView, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]itemModel.ItemView)
	return v, args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Append(ctx context.Context, tx pgx.Tx, entry model.HistoryEntry) (*model.HistoryEntry, error) {
	args := m.Called(ctx, tx, entry)
	e, _ := args.Get(0).(*model.HistoryEntry)
	return e, args.Error(1)
}

func (m *mockHistory) ListByItem(ctx context.Context, itemID int64) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, itemID)
	e, _ := args.Get(0).([]model.HistoryEntry)
	return e, args.Error(1)
}

type mockRoster struct {
	mock.Mock
}

func (m *mockRoster) Invalidate(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}
