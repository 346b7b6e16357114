package rpc_backend

import (
	"testing"

	"ledgerorigin/internal/config"
	"ledgerorigin/internal/horizon"
	"ledgerorigin/internal/solana"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerBuilder_Build(t *testing.T) {
	cfg := &config.Config{
		Backend:      config.BackendSolana,
		RPCServerURL: "http://localhost:8899",
		HorizonURL:   "http://localhost:8000",
	}

	backend, err := NewLedgerBuilder(cfg).Build()
	require.NoError(t, err)
	assert.Equal(t, "solana", backend.Name())
	assert.Equal(t, solana.PageLimit, backend.PageLimit())

	cfg.Backend = config.BackendHorizon
	builder := NewLedgerBuilder(cfg)
	assert.Equal(t, "http://localhost:8000", builder.ClientConfig.Endpoint)

	backend, err = builder.Build()
	require.NoError(t, err)
	assert.Equal(t, "horizon", backend.Name())
	assert.Equal(t, horizon.PageLimit, backend.PageLimit())
}

func TestLedgerBuilder_BuildErrors(t *testing.T) {
	_, err := (&LedgerBuilder{ClientConfig: ClientConfig{Kind: config.BackendSolana}}).Build()
	assert.Error(t, err)

	_, err = (&LedgerBuilder{ClientConfig: ClientConfig{Kind: "ripple", Endpoint: "http://x"}}).Build()
	assert.Error(t, err)
}
