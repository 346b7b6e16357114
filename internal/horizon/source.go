package horizon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ledgerorigin/internal/history"
	"ledgerorigin/internal/metrics"
	"ledgerorigin/internal/retry"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/strkey"
	"golang.org/x/time/rate"
)

const (
	// PageLimit is the largest page Horizon serves
	PageLimit = 200

	// DefaultTimeout bounds a single HTTP request when Options.Timeout is unset.
	// Calls abandoned on ctx keep running until the HTTP client gives up.
	DefaultTimeout = 30 * time.Second

	backendName = "horizon"
)

// TransactionsClient is the part of horizonclient.ClientInterface we need
type TransactionsClient interface {
	Transactions(request horizonclient.TransactionRequest) (hProtocol.TransactionsPage, error)
}

// Options configures a Source
type Options struct {
	HorizonURL        string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Retry             retry.Strategy
}

// Source pages through an account's transactions on Stellar Horizon
type Source struct {
	client  TransactionsClient
	limiter *rate.Limiter
	retry   retry.Strategy
}

// NewSource creates a Source talking to the Horizon server in opts
func NewSource(opts Options) (*Source, error) {
	if opts.HorizonURL == "" {
		return nil, fmt.Errorf("horizon URL is required")
	}
	client := &horizonclient.Client{
		HorizonURL: opts.HorizonURL,
		HTTP:       &http.Client{Timeout: httpTimeout(opts.Timeout)},
	}
	return NewSourceWithClient(client, opts), nil
}

func httpTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	return timeout
}

// NewSourceWithClient wraps an existing Horizon client
func NewSourceWithClient(client TransactionsClient, opts Options) *Source {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	strategy := opts.Retry
	if strategy == nil {
		strategy = retry.NewNoRetryStrategy()
	}

	return &Source{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		retry:   strategy,
	}
}

// Name returns the backend name
func (s *Source) Name() string {
	return backendName
}

// PageLimit returns the page size requested from Horizon
func (s *Source) PageLimit() int {
	return PageLimit
}

// ParseAccount validates a G... account strkey
func (s *Source) ParseAccount(address string) (history.AccountID, error) {
	if _, err := strkey.Decode(strkey.VersionByteAccountID, address); err != nil {
		return "", fmt.Errorf("%w: %q: %v", history.ErrInvalidAccount, address, err)
	}
	return history.AccountID(address), nil
}

// CursorFor returns the record's paging token
func (s *Source) CursorFor(rec history.Record) (history.Cursor, error) {
	if rec.PagingToken == "" {
		return "", fmt.Errorf("transaction %s has no paging token", rec.Signature)
	}
	return history.Cursor(rec.PagingToken), nil
}

// FetchPage returns the account's transactions older than before, newest first.
// Horizon answers 404 for accounts it has never seen, which is an empty history.
func (s *Source) FetchPage(ctx context.Context, account history.AccountID, before history.Cursor) (history.Page, error) {
	request := horizonclient.TransactionRequest{
		ForAccount:    string(account),
		Order:         horizonclient.OrderDesc,
		Cursor:        string(before),
		Limit:         PageLimit,
		IncludeFailed: true,
	}

	startTime := time.Now()
	var txPage hProtocol.TransactionsPage
	err := s.retry.Execute(ctx, retry.OperationInfo{Name: "transactions", Account: string(account)}, func(ctx context.Context) error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		txPage, err = s.transactions(ctx, request)
		return err
	})
	metrics.PageFetchDuration.WithLabelValues(backendName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			metrics.PagesFetched.WithLabelValues(backendName, metrics.OutcomeOK).Inc()
			slog.Debug("Account unknown to Horizon", "account", account)
			return history.Page{}, nil
		}
		metrics.PagesFetched.WithLabelValues(backendName, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("horizon transactions %s: %w", account, err)
	}

	records := txPage.Embedded.Records
	metrics.PagesFetched.WithLabelValues(backendName, metrics.OutcomeOK).Inc()
	metrics.RecordsFetched.WithLabelValues(backendName).Add(float64(len(records)))

	page := make(history.Page, 0, len(records))
	for _, tx := range records {
		rec := history.Record{
			Signature:   tx.Hash,
			Slot:        uint64(tx.Ledger),
			PagingToken: tx.PagingToken(),
		}
		if !tx.LedgerCloseTime.IsZero() {
			closeTime := tx.LedgerCloseTime.Unix()
			rec.BlockTime = &closeTime
		}
		page = append(page, rec)
	}
	return page, nil
}

type transactionsResult struct {
	page hProtocol.TransactionsPage
	err  error
}

// transactions makes the blocking horizonclient call abandonable on ctx
func (s *Source) transactions(ctx context.Context, request horizonclient.TransactionRequest) (hProtocol.TransactionsPage, error) {
	done := make(chan transactionsResult, 1)
	go func() {
		page, err := s.client.Transactions(request)
		done <- transactionsResult{page: page, err: err}
	}()

	select {
	case <-ctx.Done():
		return hProtocol.TransactionsPage{}, ctx.Err()
	case res := <-done:
		return res.page, res.err
	}
}
