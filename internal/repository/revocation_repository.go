package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RevocationRepository is the durable set of invalidated token values.
// Lookup is by exact token string, matching how invalidation is recorded.
type RevocationRepository interface {
	Add(ctx context.Context, token string, expiresAt time.Time, reason string) error
	Contains(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type revocationRepository struct {
	pool *pgxpool.Pool
}

// NewRevocationRepository returns a Postgres-backed implementation.
func NewRevocationRepository(pool *pgxpool.Pool) RevocationRepository {
	return &revocationRepository{pool: pool}
}

func (r *revocationRepository) Add(ctx context.Context, token string, expiresAt time.Time, reason string) error {
	const query = `
        INSERT INTO revoked_tokens (token, expires_at, reason)
        VALUES ($1, $2, $3)
        ON CONFLICT (token) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, token, expiresAt, reason)
	return err
}

func (r *revocationRepository) Contains(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteExpired removes records whose token has passed its natural expiry;
// an expired token needs no explicit revocation.
func (r *revocationRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < $1`

	cmd, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
