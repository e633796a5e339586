package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptapi/internal/model"
	"receiptapi/internal/repository"
)

var receiptCols = []string{"id", "label", "store", "price", "filename", "storage_path", "image_url", "size", "content_type", "created_at"}

func TestReceiptPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReceiptPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	price := 5.89
	rec := &model.Receipt{
		ID:          "test-uuid",
		Label:       "Lunch",
		Store:       "McDonald's",
		Price:       &price,
		Filename:    "test-uuid.jpg",
		StoragePath: "receipts/test-uuid.jpg",
		ImageURL:    "/serve-image?blob-key=receipts/test-uuid.jpg",
		Size:        10,
		ContentType: "image/jpeg",
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(receiptCols).
		AddRow(rec.ID, rec.Label, rec.Store, price, rec.Filename, rec.StoragePath, rec.ImageURL, rec.Size, rec.ContentType, rec.CreatedAt)

	mock.ExpectQuery("INSERT INTO receipts").
		WithArgs(rec.ID, rec.Label, rec.Store, price, rec.Filename, rec.StoragePath, rec.ImageURL, rec.Size, rec.ContentType, rec.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, rec)

	require.NoError(t, err)
	assert.Equal(t, rec.ID, result.ID)
	require.NotNil(t, result.Price)
	assert.Equal(t, 5.89, *result.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_CreateWithoutPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReceiptPostgres(db)
	now := time.Now().UTC()
	rec := &model.Receipt{ID: "id", Label: "Lunch", Filename: "id.jpg", StoragePath: "receipts/id.jpg", Size: 1, ContentType: "image/jpeg", CreatedAt: now}

	mock.ExpectQuery("INSERT INTO receipts").
		WithArgs(rec.ID, rec.Label, "", nil, rec.Filename, rec.StoragePath, "", rec.Size, rec.ContentType, now).
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow(rec.ID, rec.Label, "", nil, rec.Filename, rec.StoragePath, "", rec.Size, rec.ContentType, now))

	result, err := repo.Create(context.Background(), rec)

	require.NoError(t, err)
	assert.Nil(t, result.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReceiptPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(receiptCols).
			AddRow("test-id", "Lunch", "", nil, "a.jpg", "receipts/a.jpg", "/serve-image?blob-key=receipts/a.jpg", 100, "image/jpeg", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM receipts WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		rec, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.Equal(t, "test-id", rec.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM receipts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, rec)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_FindByStoragePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM receipts WHERE storage_path = ?").
		WithArgs("receipts/a.jpg").
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow("id", "", "", nil, "a.jpg", "receipts/a.jpg", "", 3, "image/jpeg", time.Now()))

	rec, err := NewReceiptPostgres(db).FindByStoragePath(context.Background(), "receipts/a.jpg")

	require.NoError(t, err)
	assert.Equal(t, "receipts/a.jpg", rec.StoragePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReceiptPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM receipts").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(receiptCols).
			AddRow("1", "a", "", nil, "1.jpg", "receipts/1.jpg", "", 10, "image/jpeg", time.Now()).
			AddRow("2", "b", "walmart", 26.12, "2.jpg", "receipts/2.jpg", "", 20, "image/jpeg", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM receipts ORDER BY created_at DESC, id DESC LIMIT \\$1 OFFSET \\$2").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		assert.Nil(t, res.Items[0].Price)
		assert.Equal(t, 26.12, *res.Items[1].Price)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM receipts").
			WillReturnError(errors.New("count error"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.EqualError(t, err, "count error")
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_TotalsByStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT lower\\(store\\), SUM\\(price\\) FROM receipts").
		WillReturnRows(sqlmock.NewRows([]string{"store", "sum"}).
			AddRow("walmart", 26.119999).
			AddRow("contoso", 14.51))

	totals, err := NewReceiptPostgres(db).TotalsByStore(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"walmart": 26.12, "contoso": 14.51}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReceiptPostgres(db)

	mock.ExpectExec("DELETE FROM receipts WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM receipts WHERE id = ?").
		WithArgs("boom").
		WillReturnError(errors.New("delete error"))

	assert.NoError(t, repo.Delete(context.Background(), "test-id"))
	assert.EqualError(t, repo.Delete(context.Background(), "boom"), "delete error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
