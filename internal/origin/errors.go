package origin

import (
	"errors"
	"fmt"

	"ledgerorigin/internal/history"
)

var (
	// ErrNotFound is returned when the account has no history at all
	ErrNotFound = errors.New("account has no history")

	// ErrMissingTimestamp is returned when the earliest record has no block time yet
	ErrMissingTimestamp = errors.New("earliest record has no timestamp")

	// ErrInvalidCursor is returned when a record returned by the service cannot
	// be turned back into a pagination cursor
	ErrInvalidCursor = errors.New("invalid history cursor")

	// ErrHistoryTooDeep is returned when the page budget runs out before a
	// short page is seen
	ErrHistoryTooDeep = errors.New("history exceeds page limit")

	// ErrTransport wraps any failure surfaced by the history source
	ErrTransport = errors.New("history transport error")
)

// Error carries the failure kind together with the account that triggered it.
// errors.Is matches both the kind sentinel and the underlying cause.
type Error struct {
	Account history.AccountID
	Kind    error
	Pages   int
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %s: %v", e.Account, e.Kind)
	}
	return fmt.Sprintf("resolve %s: %v: %v", e.Account, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a stable name for the failure kind of err
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, history.ErrInvalidAccount):
		return "invalid_account"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMissingTimestamp):
		return "missing_timestamp"
	case errors.Is(err, ErrInvalidCursor):
		return "invalid_cursor"
	case errors.Is(err, ErrHistoryTooDeep):
		return "history_too_deep"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}
