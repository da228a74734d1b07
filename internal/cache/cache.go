package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/nwalden/farescout/internal/flights"
)

// Defaults for the search-result cache. Two hours matches the relevance
// window of scraped fares.
const (
	DefaultTTL  = 2 * time.Hour
	DefaultSize = 500
)

// Store is the cache boundary the engine depends on. Lookups and inserts
// never fail: a miss or a broken backend both read as "absent", and a full
// store silently evicts.
type Store interface {
	Get(ctx context.Context, key string) (*flights.SearchResult, bool)
	Put(ctx context.Context, key string, result *flights.SearchResult, ttl time.Duration)
	Ping(ctx context.Context) error
	Close() error
}

// Key returns the deterministic cache key for a normalized query. Queries
// equal after normalization produce byte-identical keys; any differing field
// changes the key. One-way trips use a sentinel in the return-date slot.
func Key(q flights.SearchQuery) string {
	ret := q.ReturnDate
	if ret == "" {
		ret = "oneway"
	}
	return strings.Join([]string{
		"flights",
		q.Origin,
		q.Destination,
		q.DepartDate,
		ret,
		strconv.Itoa(q.Adults),
		q.CabinClass,
	}, ":")
}
