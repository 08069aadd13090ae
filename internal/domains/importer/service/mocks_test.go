package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	borrowerModel "classlib-backend/internal/domains/borrower/model"
	"classlib-backend/internal/domains/importer/model"
	itemModel "classlib-backend/internal/domains/item/model"
	"classlib-backend/pkg/database"
)

func passthroughSavepoint(ctx context.Context, tx pgx.Tx, fn database.TxFunc) error {
	return fn(ctx, tx)
}

func strPtr(s string) *string { return &s }

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

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) ImportBorrowers(ctx context.Context, rows []model.BorrowerRow) (*model.ImportResult, error) {
	args := m.Called(ctx, rows)
	r, _ := args.Get(0).(*model.ImportResult)
	return r, args.Error(1)
}

func (m *mockReconciler) ImportItems(ctx context.Context, rows []model.ItemRow) (*model.ImportResult, error) {
	args := m.Called(ctx, rows)
	r, _ := args.Get(0).(*model.ImportResult)
	return r, args.Error(1)
}

type mockRuns struct {
	mock.Mock
}

func (m *mockRuns) Create(ctx context.Context, run *model.ImportRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *mockRuns) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRuns) Complete(ctx context.Context, id uuid.UUID, totalRows int, result *model.ImportResult) error {
	return m.Called(ctx, id, totalRows, result).Error(0)
}

func (m *mockRuns) Fail(ctx context.Context, id uuid.UUID, failure string) error {
	return m.Called(ctx, id, failure).Error(0)
}

func (m *mockRuns) GetByID(ctx context.Context, id uuid.UUID) (*model.ImportRun, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.ImportRun)
	return r, args.Error(1)
}

func (m *mockRuns) List(ctx context.Context, limit int) ([]model.ImportRun, error) {
	args := m.Called(ctx, limit)
	r, _ := args.Get(0).([]model.ImportRun)
	return r, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *mockStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueImport(ctx context.Context, runID string) error {
	return m.Called(ctx, runID).Error(0)
}

type mockRoster struct {
	mock.Mock
}

func (m *mockRoster) Invalidate(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}
