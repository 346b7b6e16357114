package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"ledgerorigin/internal/history"
	"ledgerorigin/internal/metrics"
	"ledgerorigin/internal/retry"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"golang.org/x/time/rate"
)

const (
	// PageLimit is the maximum getSignaturesForAddress page size
	PageLimit = 1000

	// DefaultCommitment only reports records that can no longer roll back
	DefaultCommitment = "finalized"

	// DefaultTimeout bounds a single HTTP request when Options.Timeout is unset
	DefaultTimeout = 30 * time.Second

	backendName = "solana"
	methodName  = "getSignaturesForAddress"
)

// Options configures a Client
type Options struct {
	Endpoint          string
	Commitment        string
	RequestsPerSecond float64 // <= 0 disables throttling
	Burst             int
	Timeout           time.Duration
	HTTPClient        *http.Client
	Retry             retry.Strategy
}

// Client reads address signature history over Solana JSON-RPC.
// It is safe for concurrent use. Every call gets its own jrpc2 client, so an
// HTTP failure on one call never leaks into calls running beside it.
type Client struct {
	endpoint   string
	commitment string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retry.Strategy
	closed     atomic.Bool
}

type signaturesConfig struct {
	Limit      int    `json:"limit"`
	Before     string `json:"before,omitempty"`
	Commitment string `json:"commitment,omitempty"`
}

type signatureStatus struct {
	Signature          string          `json:"signature"`
	Slot               uint64          `json:"slot"`
	Err                json.RawMessage `json:"err"`
	Memo               *string         `json:"memo"`
	BlockTime          *int64          `json:"blockTime"`
	ConfirmationStatus string          `json:"confirmationStatus"`
}

// NewClient creates a Client for the JSON-RPC endpoint in opts
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("solana RPC endpoint is required")
	}
	if opts.Commitment == "" {
		opts.Commitment = DefaultCommitment
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Retry == nil {
		opts.Retry = retry.NewNoRetryStrategy()
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}

	return &Client{
		endpoint:   opts.Endpoint,
		commitment: opts.Commitment,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		retry:      opts.Retry,
	}, nil
}

// Name returns the backend name
func (c *Client) Name() string {
	return backendName
}

// PageLimit returns the page size requested from the node
func (c *Client) PageLimit() int {
	return PageLimit
}

// ParseAccount validates a base58 encoded 32 byte address
func (c *Client) ParseAccount(address string) (history.AccountID, error) {
	if _, err := decodeFixed(address, publicKeyLength); err != nil {
		return "", fmt.Errorf("%w: %q: %v", history.ErrInvalidAccount, address, err)
	}
	return history.AccountID(address), nil
}

// CursorFor returns the record signature after checking it is a well formed
// 64 byte transaction signature
func (c *Client) CursorFor(rec history.Record) (history.Cursor, error) {
	if _, err := decodeFixed(rec.Signature, signatureLength); err != nil {
		return "", fmt.Errorf("signature %q: %w", rec.Signature, err)
	}
	return history.Cursor(rec.Signature), nil
}

// FetchPage calls getSignaturesForAddress for signatures older than before
func (c *Client) FetchPage(ctx context.Context, account history.AccountID, before history.Cursor) (history.Page, error) {
	params := []any{
		string(account),
		signaturesConfig{
			Limit:      PageLimit,
			Before:     string(before),
			Commitment: c.commitment,
		},
	}

	startTime := time.Now()
	var result []signatureStatus
	err := c.retry.Execute(ctx, retry.OperationInfo{Name: methodName, Account: string(account)}, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		result = nil
		return c.callResult(ctx, methodName, params, &result)
	})
	metrics.PageFetchDuration.WithLabelValues(backendName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		metrics.PagesFetched.WithLabelValues(backendName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s %s: %w", methodName, account, err)
	}
	metrics.PagesFetched.WithLabelValues(backendName, metrics.OutcomeOK).Inc()
	metrics.RecordsFetched.WithLabelValues(backendName).Add(float64(len(result)))

	slog.Debug("Signatures fetched",
		"account", account,
		"before", before,
		"count", len(result),
		"fetch_ms", time.Since(startTime).Milliseconds(),
	)

	page := make(history.Page, 0, len(result))
	for _, item := range result {
		page = append(page, history.Record{
			Signature: item.Signature,
			Slot:      item.Slot,
			BlockTime: item.BlockTime,
		})
	}
	return page, nil
}

// Close stops the client; later calls fail. Idle HTTP connections are released.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

// callResult issues one JSON-RPC call on a fresh jrpc2 client. A jrpc2 client
// stops for good after a channel failure such as an HTTP 429, failing every
// call pending on it, so clients are never shared between calls.
func (c *Client) callResult(ctx context.Context, method string, params, result any) error {
	if c.closed.Load() {
		return fmt.Errorf("solana client closed")
	}

	ch := jhttp.NewChannel(c.endpoint, &jhttp.ChannelOptions{Client: c.httpClient})
	cli := jrpc2.NewClient(ch, nil)
	defer cli.Close()

	return cli.CallResult(ctx, method, params, result)
}
