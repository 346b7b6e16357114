package rpc_backend

import (
	"fmt"

	"ledgerorigin/internal/config"
	"ledgerorigin/internal/history"
	"ledgerorigin/internal/horizon"
	"ledgerorigin/internal/retry"
	"ledgerorigin/internal/solana"
)

type LedgerBuilder struct {
	ClientConfig ClientConfig
}

// NewLedgerBuilder maps the application config onto a ClientConfig
func NewLedgerBuilder(cfg *config.Config) *LedgerBuilder {
	clientConfig := ClientConfig{
		Kind:       cfg.Backend,
		Endpoint:   cfg.RPCServerURL,
		Commitment: cfg.Commitment,
		TimeoutConfig: ClientTimeoutConfig{
			Timeout:           cfg.RequestTimeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		},
		Retry: cfg.Retry,
	}
	if cfg.Backend == config.BackendHorizon {
		clientConfig.Endpoint = cfg.HorizonURL
	}
	return &LedgerBuilder{ClientConfig: clientConfig}
}

// Build creates the history backend described by ClientConfig
func (lb *LedgerBuilder) Build() (history.Backend, error) {
	if lb.ClientConfig.Endpoint == "" {
		return nil, fmt.Errorf("ClientConfig.Endpoint value is empty, please provide a valid endpoint")
	}

	strategy := retry.NewStrategy(lb.ClientConfig.Retry)
	timeouts := lb.ClientConfig.TimeoutConfig

	switch lb.ClientConfig.Kind {
	case config.BackendSolana:
		client, err := solana.NewClient(solana.Options{
			Endpoint:          lb.ClientConfig.Endpoint,
			Commitment:        lb.ClientConfig.Commitment,
			RequestsPerSecond: timeouts.RequestsPerSecond,
			Burst:             timeouts.Burst,
			Timeout:           timeouts.Timeout,
			Retry:             strategy,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendHorizon:
		source, err := horizon.NewSource(horizon.Options{
			HorizonURL:        lb.ClientConfig.Endpoint,
			RequestsPerSecond: timeouts.RequestsPerSecond,
			Burst:             timeouts.Burst,
			Timeout:           timeouts.Timeout,
			Retry:             strategy,
		})
		if err != nil {
			return nil, err
		}
		return source, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", lb.ClientConfig.Kind)
	}
}
