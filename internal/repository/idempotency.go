package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mockbank/bank/internal/db"
	"github.com/mockbank/bank/internal/models"
)

// IdempotencyRepository stores processed request responses keyed by
// idempotency key and path, so replays return the original response.
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type idempotencyRepository struct {
	db *db.DB
}

// NewIdempotencyRepository creates a postgres-backed IdempotencyRepository.
func NewIdempotencyRepository(database *db.DB) IdempotencyRepository {
	return &idempotencyRepository{db: database}
}

// Get returns the cached response for (key, path), or nil if none exists.
func (r *idempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	query := `
		SELECT key, request_path, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2
	`

	var idemKey models.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, key, requestPath).Scan(
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	return &idemKey, nil
}

// Store saves the response for (key, path). The first writer wins; a
// concurrent duplicate insert is ignored.
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, request_path, response_status, response_body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key, request_path) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query,
		idemKey.Key,
		idemKey.RequestPath,
		idemKey.ResponseStatus,
		idemKey.ResponseBody,
	); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}
