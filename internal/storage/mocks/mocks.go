package mocks

import (
	"context"

	"ledgerorigin/internal/models"

	"github.com/stretchr/testify/mock"
)

// Repository is a mock for storage.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Repository) SaveOrigin(ctx context.Context, lookup *models.OriginLookup) error {
	args := m.Called(ctx, lookup)
	return args.Error(0)
}

func (m *Repository) ListOrigins(ctx context.Context, filter models.LookupFilter) ([]models.OriginLookup, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]models.OriginLookup); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Repository) Close() error {
	args := m.Called()
	return args.Error(0)
}
