// Package repository declares the data access contracts for receipts and
// upload sessions. Implementations live in subpackages (postgres, mocks).
package repository

import (
	"context"
	"errors"
	"time"

	"receiptapi/internal/model"
)

// ErrSessionUnavailable is returned when an upload token is unknown, expired or already used.
var ErrSessionUnavailable = errors.New("upload session unavailable")

// ReceiptRepository defines data access for receipts using SQL queries only.
type ReceiptRepository interface {
	// Create inserts a new receipt record and returns the stored row.
	Create(ctx context.Context, r *model.Receipt) (*model.Receipt, error)

	// FindByID returns a receipt by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Receipt, error)

	// FindByStoragePath returns the receipt whose image lives at the given object key, or sql.ErrNoRows.
	FindByStoragePath(ctx context.Context, key string) (*model.Receipt, error)

	// List returns a page of receipts, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Receipt], error)

	// TotalsByStore sums prices per lower-cased store over receipts that have both.
	TotalsByStore(ctx context.Context) (map[string]float64, error)

	// Delete removes a receipt by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// UploadSessionRepository stores the single-use tokens behind upload URLs.
type UploadSessionRepository interface {
	// Create stores a new unused session.
	Create(ctx context.Context, s *model.UploadSession) error

	// Consume marks the session used if it exists, is unused and has not expired at now.
	// It returns ErrSessionUnavailable otherwise. Consumption is atomic.
	Consume(ctx context.Context, token string, now time.Time) (*model.UploadSession, error)

	// DeleteExpired removes sessions that expired before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
