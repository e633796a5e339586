package postgres

import (
	"context"
	"database/sql"
	"math"

	"receiptapi/internal/model"
	"receiptapi/internal/repository"
)

// ReceiptPostgres is a PostgreSQL implementation of repository.ReceiptRepository.
type ReceiptPostgres struct {
	db *sql.DB
}

// NewReceiptPostgres creates a new ReceiptPostgres repository.
func NewReceiptPostgres(db *sql.DB) *ReceiptPostgres {
	return &ReceiptPostgres{db: db}
}

var _ repository.ReceiptRepository = (*ReceiptPostgres)(nil)

const receiptColumns = `id, label, store, price, filename, storage_path, image_url, size, content_type, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*model.Receipt, error) {
	var (
		r     model.Receipt
		price sql.NullFloat64
	)
	if err := row.Scan(
		&r.ID,
		&r.Label,
		&r.Store,
		&price,
		&r.Filename,
		&r.StoragePath,
		&r.ImageURL,
		&r.Size,
		&r.ContentType,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Float64
		r.Price = &p
	}
	return &r, nil
}

// Create inserts a new receipt row and returns the stored record.
func (p *ReceiptPostgres) Create(ctx context.Context, r *model.Receipt) (*model.Receipt, error) {
	const q = `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + receiptColumns

	var price sql.NullFloat64
	if r.Price != nil {
		price = sql.NullFloat64{Float64: *r.Price, Valid: true}
	}
	row := p.db.QueryRowContext(ctx, q,
		r.ID,
		r.Label,
		r.Store,
		price,
		r.Filename,
		r.StoragePath,
		r.ImageURL,
		r.Size,
		r.ContentType,
		r.CreatedAt,
	)
	return scanReceipt(row)
}

// FindByID fetches a single receipt by its ID.
func (p *ReceiptPostgres) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	const q = `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`
	return scanReceipt(p.db.QueryRowContext(ctx, q, id))
}

// FindByStoragePath fetches the receipt stored under the given object key.
func (p *ReceiptPostgres) FindByStoragePath(ctx context.Context, key string) (*model.Receipt, error) {
	const q = `SELECT ` + receiptColumns + ` FROM receipts WHERE storage_path = $1`
	return scanReceipt(p.db.QueryRowContext(ctx, q, key))
}

// List returns receipts using LIMIT/OFFSET pagination and a total count.
func (p *ReceiptPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Receipt], error) {
	const qCount = `SELECT COUNT(*) FROM receipts`
	var total int
	if err := p.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + receiptColumns + `
		FROM receipts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := p.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Receipt, 0)
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Receipt]{Items: items, Total: total}, nil
}

// TotalsByStore aggregates spending per store, rounded to cents.
func (p *ReceiptPostgres) TotalsByStore(ctx context.Context) (map[string]float64, error) {
	const q = `
		SELECT lower(store), SUM(price)
		FROM receipts
		WHERE store <> '' AND price IS NOT NULL
		GROUP BY lower(store)
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var (
			store string
			sum   float64
		)
		if err := rows.Scan(&store, &sum); err != nil {
			return nil, err
		}
		totals[store] = math.Round(sum*100) / 100
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

// Delete removes a receipt by ID. It does not return an error if the row does not exist.
func (p *ReceiptPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM receipts WHERE id = $1`
	_, err := p.db.ExecContext(ctx, q, id)
	return err
}
