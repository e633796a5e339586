package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"receiptapi/internal/model"
	"receiptapi/internal/service"
	"receiptapi/internal/storage"
)

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) CreateUploadURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptService) Upload(ctx context.Context, token string, in service.UploadInput) (*model.Receipt, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptService) List(ctx context.Context, limit, offset int) (*service.ReceiptListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceiptListResult), args.Error(1)
}

func (m *MockReceiptService) Get(ctx context.Context, id string) (*service.ReceiptDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceiptDetail), args.Error(1)
}

func (m *MockReceiptService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceiptService) OpenImage(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockReceiptService) SpendingByStore(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockReceiptService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
