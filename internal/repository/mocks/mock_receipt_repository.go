package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"receiptapi/internal/model"
	"receiptapi/internal/repository"
)

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, r *model.Receipt) (*model.Receipt, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(*model.Receipt) *model.Receipt); ok {
		return f(r), args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByStoragePath(ctx context.Context, key string) (*model.Receipt, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Receipt], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Receipt]), args.Error(1)
}

func (m *MockReceiptRepository) TotalsByStore(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockReceiptRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, s *model.UploadSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) Consume(ctx context.Context, token string, now time.Time) (*model.UploadSession, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
