package models

import (
	"time"
)

// OriginResponse is the API view of a resolved account origin
type OriginResponse struct {
	Backend      string    `json:"backend"`
	Account      string    `json:"account"`
	Signature    string    `json:"signature"`
	Slot         uint64    `json:"slot"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedAtUTC string    `json:"created_at_utc"` // "2006-01-02 15:04:05"
	PagesFetched int       `json:"pages_fetched"`
}

// LookupListResponse represents a paginated slice of the lookup log
type LookupListResponse struct {
	Lookups []OriginLookup `json:"lookups"`
	Count   int            `json:"count"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Account string `json:"account,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
