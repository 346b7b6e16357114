package services

import (
	"context"
	"log/slog"

	"ledgerorigin/internal/history"
	"ledgerorigin/internal/metrics"
	"ledgerorigin/internal/models"
	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/storage"
)

// OriginService resolves account origins against one ledger backend and
// optionally appends every successful lookup to the lookup log
type OriginService struct {
	backend    history.Backend
	resolver   *origin.Resolver
	repository storage.Repository
}

// NewOriginService creates a new OriginService. repository may be nil.
func NewOriginService(backend history.Backend, resolver *origin.Resolver, repository storage.Repository) *OriginService {
	return &OriginService{
		backend:    backend,
		resolver:   resolver,
		repository: repository,
	}
}

// Name returns the service name
func (s *OriginService) Name() string {
	return "OriginService"
}

// Backend returns the name of the ledger backend in use
func (s *OriginService) Backend() string {
	return s.backend.Name()
}

// Resolve parses address and walks its history back to the first record.
// A failure to write the lookup log is logged and does not fail the lookup.
func (s *OriginService) Resolve(ctx context.Context, address string) (*origin.Origin, error) {
	account, err := s.backend.ParseAccount(address)
	if err != nil {
		metrics.Resolutions.WithLabelValues(s.backend.Name(), origin.KindName(err)).Inc()
		return nil, err
	}

	result, err := s.resolver.ResolveEarliest(ctx, account)
	metrics.Resolutions.WithLabelValues(s.backend.Name(), origin.KindName(err)).Inc()
	if err != nil {
		slog.Warn("Origin lookup failed",
			"backend", s.backend.Name(),
			"account", account,
			"kind", origin.KindName(err),
			"error", err,
		)
		return nil, err
	}
	metrics.PagesPerResolution.Observe(float64(result.PagesFetched))

	slog.Info("Origin resolved",
		"backend", s.backend.Name(),
		"account", account,
		"signature", result.Signature,
		"created_at", result.Time,
		"pages", result.PagesFetched,
	)

	if s.repository != nil {
		lookup := &models.OriginLookup{
			Backend:      s.backend.Name(),
			Account:      string(result.Account),
			Signature:    result.Signature,
			Slot:         result.Slot,
			OriginTime:   result.Time,
			PagesFetched: result.PagesFetched,
		}
		if err := s.repository.SaveOrigin(ctx, lookup); err != nil {
			slog.Error("OriginService: Failed to save lookup to database",
				"account", account,
				"error", err,
			)
		} else {
			metrics.OriginsRecorded.Inc()
		}
	}

	return result, nil
}

// Lookups lists the lookup log. It returns ErrNoRepository when no database is configured.
func (s *OriginService) Lookups(ctx context.Context, filter models.LookupFilter) ([]models.OriginLookup, error) {
	if s.repository == nil {
		return nil, ErrNoRepository
	}
	return s.repository.ListOrigins(ctx, filter)
}

// Ping checks the lookup log database when one is configured
func (s *OriginService) Ping(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}
	return s.repository.Ping(ctx)
}
