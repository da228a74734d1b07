package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalden/farescout/internal/flights"
	"github.com/nwalden/farescout/internal/format"
)

func successResult() *flights.SearchResult {
	inbound := &flights.FlightLeg{
		Departure: "DXB", Arrival: "DEL",
		DepartTime: flights.Unknown, ArriveTime: flights.Unknown,
		Duration: flights.Unknown, Stops: 0,
	}
	return &flights.SearchResult{
		Flights: []flights.FlightOffer{
			{
				ID: "gf-DEL-DXB-120-0", Price: 120, Currency: "USD",
				Airlines: []string{"IndiGo"}, AirlineCodes: []string{"6E"},
				Outbound: flights.FlightLeg{
					Departure: "DEL", Arrival: "DXB",
					Duration: "2h 15m", Stops: 0,
				},
				Cabin: "Economy",
			},
			{
				ID: "gf-DEL-DXB-1340-1", Price: 1340, Currency: "USD",
				Airlines: []string{"Emirates", "Flydubai"}, AirlineCodes: []string{"EK", "FZ"},
				Outbound: flights.FlightLeg{
					Departure: "DEL", Arrival: "DXB",
					Duration: "8h 40m", Stops: 2, StopCities: []string{"MCT", "AUH"},
				},
				Inbound: inbound,
				Cabin:   "Economy",
			},
		},
		Count:      2,
		SearchedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Source:     flights.SourceProxy,
	}
}

func TestDetailed_IsTheEnvelopeItself(t *testing.T) {
	r := successResult()
	assert.Same(t, r, format.Detailed(r))
}

func TestCompact_Success(t *testing.T) {
	out := format.Compact(successResult())

	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, flights.SourceProxy, out.Source)
	assert.Empty(t, out.Error)
	assert.Empty(t, out.Note)
	require.Len(t, out.Flights, 2)

	first := out.Flights[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "$120", first.Price)
	assert.Equal(t, "IndiGo", first.Airlines)
	assert.Equal(t, "DEL → DXB", first.Route)
	assert.Equal(t, "2h 15m", first.Duration)
	assert.Equal(t, "nonstop", first.Stops)
	assert.Equal(t, "one-way", first.Trip)

	second := out.Flights[1]
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, "$1,340", second.Price)
	assert.Equal(t, "Emirates, Flydubai", second.Airlines)
	assert.Equal(t, "2 stops via MCT, AUH", second.Stops)
	assert.Equal(t, "round-trip", second.Trip)
}

func TestCompact_FailureEnvelope(t *testing.T) {
	r := &flights.SearchResult{
		Flights: []flights.FlightOffer{},
		Error:   "Flight search is unavailable right now.",
		SuggestedLinks: &flights.SuggestedLinks{
			GoogleFlights: "https://www.google.com/travel/flights?q=x",
			Skyscanner:    "https://www.skyscanner.net/transport/flights/del/dxb/260315/",
		},
	}

	out := format.Compact(r)
	assert.Equal(t, r.Error, out.Error)
	assert.NotEmpty(t, out.Note)
	assert.Equal(t, r.SuggestedLinks.GoogleFlights, out.GoogleFlightsLink)
	assert.Equal(t, r.SuggestedLinks.Skyscanner, out.SkyscannerLink)
	assert.NotNil(t, out.Flights)
	assert.Empty(t, out.Flights)
	assert.Zero(t, out.Count)
}

func TestCompact_EmptyWithoutErrorStillFails(t *testing.T) {
	out := format.Compact(&flights.SearchResult{Flights: []flights.FlightOffer{}})
	assert.Equal(t, "No flights found for this search.", out.Error)
	assert.Empty(t, out.GoogleFlightsLink, "no links when the result carries none")
}

func TestCompact_StopsWording(t *testing.T) {
	leg := func(stops int, cities ...string) flights.FlightLeg {
		return flights.FlightLeg{Departure: "DEL", Arrival: "DXB", Stops: stops, StopCities: cities}
	}
	result := func(l flights.FlightLeg) *flights.SearchResult {
		return &flights.SearchResult{
			Flights: []flights.FlightOffer{{Price: 100, Currency: "USD", Outbound: l}},
			Count:   1,
		}
	}

	assert.Equal(t, "nonstop", format.Compact(result(leg(0))).Flights[0].Stops)
	assert.Equal(t, "1 stop", format.Compact(result(leg(1))).Flights[0].Stops)
	assert.Equal(t, "2 stops", format.Compact(result(leg(2))).Flights[0].Stops)
	assert.Equal(t, "1 stop via MCT", format.Compact(result(leg(1, "MCT"))).Flights[0].Stops)
	assert.Equal(t, "stops unknown", format.Compact(result(leg(-1))).Flights[0].Stops)
}

func TestCompact_PriceFormatting(t *testing.T) {
	result := func(price int, currency string) *flights.SearchResult {
		return &flights.SearchResult{
			Flights: []flights.FlightOffer{{Price: price, Currency: currency}},
			Count:   1,
		}
	}

	assert.Equal(t, "$85", format.Compact(result(85, "USD")).Flights[0].Price)
	assert.Equal(t, "$1,200", format.Compact(result(1200, "USD")).Flights[0].Price)
	assert.Equal(t, "$1,234,567", format.Compact(result(1234567, "")).Flights[0].Price)
	assert.Equal(t, "EUR 950", format.Compact(result(950, "EUR")).Flights[0].Price)
}
