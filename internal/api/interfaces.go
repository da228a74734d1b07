package api

import (
	"context"

	"github.com/nwalden/farescout/internal/flights"
)

// FlightSearcher is the engine boundary the handlers depend on.
type FlightSearcher interface {
	Search(ctx context.Context, q flights.SearchQuery) (*flights.SearchResult, error)
}

// cachePinger reports cache backend health.
type cachePinger interface {
	Ping(ctx context.Context) error
}
