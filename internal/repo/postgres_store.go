package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	name       VARCHAR(64) PRIMARY KEY,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps each slot as a row of kv_entries in PostgreSQL.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// OpenPostgres connects with dsn, verifies the connection and ensures the
// slot table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// Load returns the slot value, or ErrNotFound when the row is absent.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := s.Pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE name = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// Save upserts the slot.
func (s *PostgresStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO kv_entries (name, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(data))
	return err
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
