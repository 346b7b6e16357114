package storage

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerorigin/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

const schema = `
	CREATE TABLE IF NOT EXISTS origin_lookups (
		id            BIGSERIAL PRIMARY KEY,
		backend       TEXT        NOT NULL,
		account       TEXT        NOT NULL,
		signature     TEXT        NOT NULL,
		slot          BIGINT      NOT NULL,
		origin_time   TIMESTAMPTZ NOT NULL,
		pages_fetched INTEGER     NOT NULL,
		resolved_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS origin_lookups_account_idx
		ON origin_lookups (account, resolved_at DESC);
`

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

// EnsureSchema creates the lookup log table when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	slog.Debug("Origin lookup schema ready")
	return nil
}

// SaveOrigin appends a lookup and fills in its ID and resolved_at
func (r *PostgresRepository) SaveOrigin(ctx context.Context, lookup *models.OriginLookup) error {
	query := `
		INSERT INTO origin_lookups (
			backend, account, signature, slot, origin_time, pages_fetched
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, resolved_at
	`

	err := r.pool.QueryRow(ctx, query,
		lookup.Backend,
		lookup.Account,
		lookup.Signature,
		int64(lookup.Slot),
		lookup.OriginTime,
		lookup.PagesFetched,
	).Scan(&lookup.ID, &lookup.ResolvedAt)

	if err != nil {
		return fmt.Errorf("failed to save origin lookup: %w", err)
	}

	return nil
}

// ListOrigins returns logged lookups, newest first
func (r *PostgresRepository) ListOrigins(ctx context.Context, filter models.LookupFilter) ([]models.OriginLookup, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, backend, account, signature, slot, origin_time, pages_fetched, resolved_at
		FROM origin_lookups
		WHERE ($1 = '' OR account = $1)
		ORDER BY resolved_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.Account, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list origin lookups: %w", err)
	}

	lookups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.OriginLookup, error) {
		var (
			lookup models.OriginLookup
			slot   int64
		)
		err := row.Scan(
			&lookup.ID,
			&lookup.Backend,
			&lookup.Account,
			&lookup.Signature,
			&slot,
			&lookup.OriginTime,
			&lookup.PagesFetched,
			&lookup.ResolvedAt,
		)
		lookup.Slot = uint64(slot)
		return lookup, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan origin lookups: %w", err)
	}

	return lookups, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
