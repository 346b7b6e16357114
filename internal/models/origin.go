package models

import "time"

// OriginLookup is one successful account origin resolution as stored in the
// lookup log
type OriginLookup struct {
	ID           int64     `json:"id"`
	Backend      string    `json:"backend"`
	Account      string    `json:"account"`
	Signature    string    `json:"signature"`
	Slot         uint64    `json:"slot"`
	OriginTime   time.Time `json:"origin_time"`
	PagesFetched int       `json:"pages_fetched"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// LookupFilter narrows a lookup log listing
type LookupFilter struct {
	Account string // empty lists every account
	Limit   int
	Offset  int
}
