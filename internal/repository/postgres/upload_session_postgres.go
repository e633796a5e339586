package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"receiptapi/internal/model"
	"receiptapi/internal/repository"
)

// UploadSessionPostgres is a PostgreSQL implementation of repository.UploadSessionRepository.
type UploadSessionPostgres struct {
	db *sql.DB
}

// NewUploadSessionPostgres creates a new UploadSessionPostgres repository.
func NewUploadSessionPostgres(db *sql.DB) *UploadSessionPostgres {
	return &UploadSessionPostgres{db: db}
}

var _ repository.UploadSessionRepository = (*UploadSessionPostgres)(nil)

// Create inserts an unused session.
func (p *UploadSessionPostgres) Create(ctx context.Context, s *model.UploadSession) error {
	const q = `INSERT INTO upload_sessions (token, created_at, expires_at) VALUES ($1, $2, $3)`
	_, err := p.db.ExecContext(ctx, q, s.Token, s.CreatedAt, s.ExpiresAt)
	return err
}

// Consume flips used_at in a single statement so two concurrent uploads
// against the same URL cannot both succeed.
func (p *UploadSessionPostgres) Consume(ctx context.Context, token string, now time.Time) (*model.UploadSession, error) {
	const q = `
		UPDATE upload_sessions
		SET used_at = $2
		WHERE token = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING token, created_at, expires_at, used_at
	`
	var (
		s      model.UploadSession
		usedAt time.Time
	)
	err := p.db.QueryRowContext(ctx, q, token, now).Scan(&s.Token, &s.CreatedAt, &s.ExpiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionUnavailable
		}
		return nil, err
	}
	s.UsedAt = &usedAt
	return &s, nil
}

// DeleteExpired purges sessions whose expiry has passed.
func (p *UploadSessionPostgres) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM upload_sessions WHERE expires_at <= $1`
	res, err := p.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
