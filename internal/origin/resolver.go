package origin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledgerorigin/internal/history"
)

// DefaultMaxPages bounds a walk when no page budget is configured
const DefaultMaxPages = 1000

// Origin is the earliest recorded activity of an account
type Origin struct {
	Account      history.AccountID
	Signature    string
	Slot         uint64
	Time         time.Time
	PagesFetched int
}

// Resolver walks an account's history back to its first record.
// It holds no per-call state and may be shared between goroutines.
type Resolver struct {
	source   history.Source
	maxPages int
}

// Option configures a Resolver
type Option func(*Resolver)

// WithMaxPages caps the number of pages fetched by a single walk.
// Values below 1 keep DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxPages = n
		}
	}
}

// NewResolver creates a Resolver reading from source
func NewResolver(source history.Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:   source,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxPages returns the page budget of a single walk
func (r *Resolver) MaxPages() int {
	return r.maxPages
}

// ResolveEarliest returns the oldest record the service knows for account.
// Source errors, including context cancellation, are returned wrapped in
// ErrTransport without retrying.
func (r *Resolver) ResolveEarliest(ctx context.Context, account history.AccountID) (*Origin, error) {
	limit := r.source.PageLimit()

	var (
		cursor   history.Cursor
		earliest history.Record
		found    bool
		pages    int
	)

	for {
		if pages >= r.maxPages {
			return nil, &Error{Account: account, Kind: ErrHistoryTooDeep, Pages: pages}
		}

		page, err := r.source.FetchPage(ctx, account, cursor)
		if err != nil {
			return nil, &Error{Account: account, Kind: ErrTransport, Pages: pages, Err: err}
		}
		pages++

		oldest, ok := page.Oldest()
		if !ok {
			if !found {
				return nil, &Error{Account: account, Kind: ErrNotFound, Pages: pages}
			}
			// A full page followed by nothing: the previous page held the tail.
			slog.Debug("Empty page after full page, treating as terminal",
				"account", account,
				"cursor", cursor,
				"pages", pages,
			)
			break
		}
		earliest, found = oldest, true

		slog.Debug("History page fetched",
			"account", account,
			"page", pages,
			"records", len(page),
			"oldest_signature", oldest.Signature,
		)

		if len(page) < limit {
			break
		}

		cursor, err = r.source.CursorFor(oldest)
		if err != nil {
			return nil, &Error{Account: account, Kind: ErrInvalidCursor, Pages: pages, Err: err}
		}
	}

	if earliest.BlockTime == nil {
		return nil, &Error{
			Account: account,
			Kind:    ErrMissingTimestamp,
			Pages:   pages,
			Err:     fmt.Errorf("signature %s", earliest.Signature),
		}
	}

	return &Origin{
		Account:      account,
		Signature:    earliest.Signature,
		Slot:         earliest.Slot,
		Time:         history.BlockTimeToUTC(*earliest.BlockTime),
		PagesFetched: pages,
	}, nil
}
