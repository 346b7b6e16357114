package history

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrInvalidAccount is returned when an address cannot be parsed by a backend
var ErrInvalidAccount = errors.New("invalid account address")

// AccountID is a ledger address as understood by the backend that parsed it
type AccountID string

// Cursor marks a position in an account's history. The zero value means
// "start from the newest record".
type Cursor string

// Record is a single entry of an account's activity history
type Record struct {
	Signature string
	Slot      uint64

	// BlockTime is seconds since the Unix epoch; nil until the service has
	// finalized the record.
	BlockTime *int64

	// PagingToken is only set by backends that do not page by signature
	PagingToken string
}

// Page is one bounded slice of history, newest first as the service sent it
type Page []Record

// OldestFirst returns a copy of the page sorted by block time ascending.
// Records without a block time sort after every timed record, and records
// sharing a block time end up in reverse service order.
//
// Untimed records are the newest ones the service has not finalized yet, so
// they are deliberately kept out of the oldest position: a page fails with a
// missing timestamp only when none of its records is timed.
func (p Page) OldestFirst() Page {
	sorted := make(Page, len(p))
	for i, rec := range p {
		sorted[len(p)-1-i] = rec
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].BlockTime, sorted[j].BlockTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	return sorted
}

// Oldest returns the oldest record of the page
func (p Page) Oldest() (Record, bool) {
	if len(p) == 0 {
		return Record{}, false
	}
	return p.OldestFirst()[0], true
}

// Source serves an account's history newest-first in bounded pages
type Source interface {
	// PageLimit is the largest page the service returns. A shorter page
	// proves no older history remains.
	PageLimit() int

	// FetchPage returns up to PageLimit records strictly older than before,
	// or the newest records when before is empty.
	FetchPage(ctx context.Context, account AccountID, before Cursor) (Page, error)

	// CursorFor converts a record returned by FetchPage into the cursor for
	// the page preceding it.
	CursorFor(rec Record) (Cursor, error)
}

// AccountParser validates user supplied addresses
type AccountParser interface {
	ParseAccount(address string) (AccountID, error)
}

// Backend is a complete ledger history integration
type Backend interface {
	Source
	AccountParser
	Name() string
}

// DateTimeLayout is how origin times are rendered for people
const DateTimeLayout = "2006-01-02 15:04:05"

// BlockTimeToUTC converts epoch seconds to a UTC date-time
func BlockTimeToUTC(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}
