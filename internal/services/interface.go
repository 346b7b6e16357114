package services

import (
	"context"
	"errors"

	"ledgerorigin/internal/models"
	"ledgerorigin/internal/origin"
)

// ErrNoRepository is returned by lookup log operations when no database is configured
var ErrNoRepository = errors.New("lookup log is not configured")

// OriginResolver is what the CLI and HTTP API need from OriginService
type OriginResolver interface {
	Resolve(ctx context.Context, address string) (*origin.Origin, error)
	Lookups(ctx context.Context, filter models.LookupFilter) ([]models.OriginLookup, error)
	Ping(ctx context.Context) error

	// Backend returns the ledger backend name
	Backend() string
}

var _ OriginResolver = (*OriginService)(nil)
