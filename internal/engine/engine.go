// Package engine orchestrates the search pipeline: normalize the query,
// consult the cache, fetch raw content, extract offers, classify failures,
// and fill the cache on success.
package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nwalden/farescout/internal/cache"
	"github.com/nwalden/farescout/internal/classify"
	"github.com/nwalden/farescout/internal/extract"
	"github.com/nwalden/farescout/internal/flights"
)

// Retriever fetches raw result markup for a normalized query.
type Retriever interface {
	Fetch(ctx context.Context, q flights.SearchQuery) (string, error)
	Source() string
}

// Engine runs flight searches. It owns no global state: the cache store and
// fetcher are injected at construction.
type Engine struct {
	store   cache.Store
	fetcher Retriever
	ttl     time.Duration
	group   singleflight.Group
	log     *slog.Logger
	now     func() time.Time
}

// Config wires an Engine.
type Config struct {
	Store   cache.Store
	Fetcher Retriever
	TTL     time.Duration
	Log     *slog.Logger
}

// New constructs an Engine. A zero TTL falls back to the cache default.
func New(cfg Config) *Engine {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:   cfg.Store,
		fetcher: cfg.Fetcher,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Search runs one query end to end. Only a ValidationError is returned as an
// error, since it reflects a caller bug; retrieval failures, blocks, and
// empty results are folded into the result envelope so the caller always has
// something renderable.
func (e *Engine) Search(ctx context.Context, raw flights.SearchQuery) (*flights.SearchResult, error) {
	q, err := flights.Normalize(raw)
	if err != nil {
		return nil, err
	}

	key := cache.Key(q)
	if cached, ok := e.store.Get(ctx, key); ok {
		e.log.Info("search served from cache", "key", key)
		return cached.WithSource(flights.SourceCache), nil
	}

	// Concurrent identical queries share one fetch instead of each hitting
	// the upstream.
	v, _, shared := e.group.Do(key, func() (any, error) {
		return e.search(ctx, q, key), nil
	})
	if shared {
		e.log.Info("search shared with in-flight duplicate", "key", key)
	}
	return v.(*flights.SearchResult), nil
}

func (e *Engine) search(ctx context.Context, q flights.SearchQuery, key string) *flights.SearchResult {
	body, err := e.fetcher.Fetch(ctx, q)
	if err != nil {
		e.log.Warn("retrieval failed",
			"origin", q.Origin, "destination", q.Destination, "err", err)
		return e.degraded(q, classify.Failure(q))
	}

	offers := extract.Offers(body, q)
	if len(offers) == 0 {
		outcome := classify.Empty(body, q)
		if outcome.Kind == classify.Blocked {
			e.log.Warn("search surface blocked the request",
				"origin", q.Origin, "destination", q.Destination)
		} else {
			e.log.Info("no offers extracted",
				"origin", q.Origin, "destination", q.Destination)
		}
		// Neither outcome is cached: a transient empty answer must not
		// poison the TTL window for other callers.
		return e.degraded(q, outcome)
	}

	result := &flights.SearchResult{
		Flights:    offers,
		Count:      len(offers),
		SearchedAt: e.now().UTC(),
		Source:     e.fetcher.Source(),
	}
	e.store.Put(ctx, key, result, e.ttl)
	e.log.Info("search completed",
		"origin", q.Origin, "destination", q.Destination,
		"offers", len(offers), "source", result.Source)
	return result
}

func (e *Engine) degraded(q flights.SearchQuery, o classify.Outcome) *flights.SearchResult {
	return &flights.SearchResult{
		Flights:        []flights.FlightOffer{},
		Count:          0,
		SearchedAt:     e.now().UTC(),
		Source:         e.fetcher.Source(),
		Error:          o.Message,
		SuggestedLinks: o.Links,
	}
}
