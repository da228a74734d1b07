package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nwalden/farescout/internal/flights"
	"github.com/nwalden/farescout/internal/format"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	engine FlightSearcher
	log    *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(engine FlightSearcher, log *slog.Logger) *Handlers {
	return &Handlers{engine: engine, log: log}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type searchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"departDate"`
	ReturnDate  string `json:"returnDate"`
	Adults      int    `json:"adults"`
	CabinClass  string `json:"cabinClass"`
}

func (h *Handlers) decodeQuery(r *http.Request) (flights.SearchQuery, error) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return flights.SearchQuery{}, err
	}
	return flights.SearchQuery{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Adults:      req.Adults,
		CabinClass:  req.CabinClass,
		ClientIP:    clientIP(r),
	}, nil
}

// run decodes the request, performs the search, and hands the result to
// render. Validation failures are the only 400s; retrieval failures arrive
// inside the envelope and still render as 200.
func (h *Handlers) run(w http.ResponseWriter, r *http.Request, render func(*flights.SearchResult) any) {
	q, err := h.decodeQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.engine.Search(r.Context(), q)
	if err != nil {
		var verr flights.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
			return
		}
		h.log.Error("search failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, render(result))
}

// SearchFlights handles POST /api/v1/flights/search with the detailed
// response shape.
func (h *Handlers) SearchFlights(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(res *flights.SearchResult) any { return format.Detailed(res) })
}

// SearchFlightsCompact handles POST /api/v1/flights/search/compact with the
// tool-call response shape.
func (h *Handlers) SearchFlightsCompact(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(res *flights.SearchResult) any { return format.Compact(res) })
}

// clientIP recovers the caller's network origin, preferring a forwarded
// header set by an upstream proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// HealthHandlerFunc returns an http.HandlerFunc that checks cache backend
// connectivity.
func HealthHandlerFunc(store cachePinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		overall := "ok"
		cacheStatus := "ok"

		if err := store.Ping(ctx); err != nil {
			log.Error("health check: cache ping failed", "err", err)
			cacheStatus = "error"
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"cache":  cacheStatus,
		})
	}
}
