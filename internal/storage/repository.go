package storage

import (
	"context"

	"ledgerorigin/internal/models"
)

// Repository is the append-only log of resolved account origins.
// Lookups never consult it; it only records what was resolved.
type Repository interface {
	EnsureSchema(ctx context.Context) error

	SaveOrigin(ctx context.Context, lookup *models.OriginLookup) error
	ListOrigins(ctx context.Context, filter models.LookupFilter) ([]models.OriginLookup, error)

	// Health & Maintenance
	Ping(ctx context.Context) error
	Close() error
}
