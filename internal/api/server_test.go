package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledgerorigin/internal/history"
	"ledgerorigin/internal/models"
	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrigins struct {
	result  *origin.Origin
	err     error
	lookups []models.OriginLookup
	listErr error
	pingErr error
	filter  models.LookupFilter
}

func (f *fakeOrigins) Resolve(ctx context.Context, address string) (*origin.Origin, error) {
	return f.result, f.err
}

func (f *fakeOrigins) Lookups(ctx context.Context, filter models.LookupFilter) ([]models.OriginLookup, error) {
	f.filter = filter
	return f.lookups, f.listErr
}

func (f *fakeOrigins) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeOrigins) Backend() string                 { return "solana" }

func serve(t *testing.T, origins services.OriginResolver, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(0, origins).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleGetOrigin(t *testing.T) {
	created := time.Date(2023, 12, 24, 11, 27, 24, 0, time.UTC)
	origins := &fakeOrigins{result: &origin.Origin{
		Account:      "FZKzL4wWoWpmUb6U4ggKGzDAKZUaMQWekfBF28cSBZE4",
		Signature:    "sig",
		Slot:         42,
		Time:         created,
		PagesFetched: 2,
	}}

	rec := serve(t, origins, "/accounts/FZKzL4wWoWpmUb6U4ggKGzDAKZUaMQWekfBF28cSBZE4/origin")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.OriginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "sig", body.Signature)
	assert.Equal(t, "2023-12-24 11:27:24", body.CreatedAtUTC)
	assert.Equal(t, 2, body.PagesFetched)
	assert.Equal(t, "solana", body.Backend)
}

func TestHandleGetOrigin_ErrorMapping(t *testing.T) {
	tests := []struct {
		kind error
		code int
		name string
	}{
		{history.ErrInvalidAccount, http.StatusBadRequest, "invalid_account"},
		{origin.ErrNotFound, http.StatusNotFound, "not_found"},
		{origin.ErrMissingTimestamp, http.StatusUnprocessableEntity, "missing_timestamp"},
		{origin.ErrHistoryTooDeep, http.StatusUnprocessableEntity, "history_too_deep"},
		{origin.ErrTransport, http.StatusBadGateway, "transport"},
		{origin.ErrInvalidCursor, http.StatusInternalServerError, "invalid_cursor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error = &origin.Error{Account: "acct", Kind: tt.kind}
			if tt.kind == history.ErrInvalidAccount {
				err = fmt.Errorf("parse account: %w", tt.kind)
			}
			origins := &fakeOrigins{err: err}

			rec := serve(t, origins, "/accounts/acct/origin")
			assert.Equal(t, tt.code, rec.Code)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.name, body.Kind)
			assert.Equal(t, "acct", body.Account)
		})
	}
}

func TestHandleListOrigins(t *testing.T) {
	origins := &fakeOrigins{lookups: []models.OriginLookup{{ID: 7, Account: "acct"}}}

	rec := serve(t, origins, "/origins?account=acct&limit=5&offset=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LookupFilter{Account: "acct", Limit: 5, Offset: 10}, origins.filter)

	var body models.LookupListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, int64(7), body.Lookups[0].ID)
}

func TestHandleListOrigins_BadQuery(t *testing.T) {
	rec := serve(t, &fakeOrigins{}, "/origins?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListOrigins_NoDatabase(t *testing.T) {
	rec := serve(t, &fakeOrigins{listErr: services.ErrNoRepository}, "/origins")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, &fakeOrigins{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, &fakeOrigins{pingErr: errors.New("connection refused")}, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleIndexAndMetrics(t *testing.T) {
	rec := serve(t, &fakeOrigins{}, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/accounts/{address}/origin")

	rec = serve(t, &fakeOrigins{}, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, &fakeOrigins{}, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
