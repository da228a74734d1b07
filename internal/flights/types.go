package flights

import "time"

// Cabin class identifiers accepted by Normalize.
const (
	CabinEconomy        = "ECONOMY"
	CabinPremiumEconomy = "PREMIUM_ECONOMY"
	CabinBusiness       = "BUSINESS"
	CabinFirst          = "FIRST"
)

// Source tags carried on a SearchResult.
const (
	SourceCache  = "cache"
	SourceProxy  = "proxy"
	SourceDirect = "direct"
)

// Unknown marks fields the source text does not expose, such as exact
// scheduled times.
const Unknown = "—"

// SearchQuery is a flight search request. Queries must pass through
// Normalize before being used as a cache key or handed to the fetcher.
type SearchQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"departDate"`
	ReturnDate  string `json:"returnDate,omitempty"`
	Adults      int    `json:"adults"`
	CabinClass  string `json:"cabinClass"`

	// ClientIP personalizes the upstream request and never affects the
	// cache key.
	ClientIP string `json:"-"`
}

// RoundTrip reports whether the query includes a return date.
func (q SearchQuery) RoundTrip() bool { return q.ReturnDate != "" }

// FlightSegment is one flown hop of a leg.
type FlightSegment struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Airline  string `json:"airline"`
	FlightNo string `json:"flightNo"`
	Duration string `json:"duration"`
}

// FlightLeg is one directional portion of an itinerary.
type FlightLeg struct {
	Departure  string          `json:"departure"`
	Arrival    string          `json:"arrival"`
	DepartTime string          `json:"departTime"`
	ArriveTime string          `json:"arriveTime"`
	DepartDate string          `json:"departDate"`
	Duration   string          `json:"duration"`
	Stops      int             `json:"stops"`
	StopCities []string        `json:"stopCities"`
	Segments   []FlightSegment `json:"segments"`
}

// FlightOffer is one priced itinerary candidate.
type FlightOffer struct {
	ID           string     `json:"id"`
	Price        int        `json:"price"`
	Currency     string     `json:"currency"`
	Airlines     []string   `json:"airlines"`
	AirlineCodes []string   `json:"airlineCodes"`
	Outbound     FlightLeg  `json:"outbound"`
	Inbound      *FlightLeg `json:"inbound,omitempty"`
	Cabin        string     `json:"cabin"`
	DeepLink     string     `json:"deepLink"`
}

// SuggestedLinks are the fallback search surfaces offered when structured
// extraction fails.
type SuggestedLinks struct {
	GoogleFlights string `json:"googleFlights"`
	Skyscanner    string `json:"skyscanner"`
}

// SearchResult is the engine's response envelope. Failures are represented
// in the payload (Error set, Flights empty) rather than as transport errors.
type SearchResult struct {
	Flights        []FlightOffer   `json:"flights"`
	Count          int             `json:"count"`
	SearchedAt     time.Time       `json:"searchedAt"`
	Source         string          `json:"source"`
	Error          string          `json:"error,omitempty"`
	SuggestedLinks *SuggestedLinks `json:"suggestedLinks,omitempty"`
}

// WithSource returns a shallow clone of r tagged with the given source.
// Stored results are immutable; serving from cache clones instead of
// mutating.
func (r *SearchResult) WithSource(source string) *SearchResult {
	clone := *r
	clone.Source = source
	return &clone
}
