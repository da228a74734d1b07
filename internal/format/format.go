// Package format renders a SearchResult in the two shapes consumers need:
// the full structured envelope for display UIs, and a compact list for a
// conversational tool-call turn that narrates results in prose. Both are
// stateless views over the same immutable result.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nwalden/farescout/internal/flights"
)

// CompactOffer is one line of the tool-call rendering.
type CompactOffer struct {
	Rank     int    `json:"rank"`
	Price    string `json:"price"`
	Airlines string `json:"airlines"`
	Route    string `json:"route"`
	Duration string `json:"duration"`
	Stops    string `json:"stops"`
	Trip     string `json:"trip"`
}

// CompactResult is the tool-call response shape. On failure it carries the
// error, a note for the caller, and the fallback links with an empty offer
// list. It is never a Go error, because the consuming conversational turn
// cannot usefully interrupt on one.
type CompactResult struct {
	Count             int            `json:"count,omitempty"`
	Currency          string         `json:"currency,omitempty"`
	Source            string         `json:"source,omitempty"`
	Error             string         `json:"error,omitempty"`
	Note              string         `json:"note,omitempty"`
	GoogleFlightsLink string         `json:"googleFlightsLink,omitempty"`
	SkyscannerLink    string         `json:"skyscannerLink,omitempty"`
	Flights           []CompactOffer `json:"flights"`
}

const failureNote = "Share the linked searches with the user so they can check prices directly."

// Detailed returns the structured envelope for display/ranking consumers.
// It exists so both renderings go through one place.
func Detailed(r *flights.SearchResult) *flights.SearchResult { return r }

// Compact renders r for the tool-call consumer.
func Compact(r *flights.SearchResult) CompactResult {
	if r.Error != "" || len(r.Flights) == 0 {
		out := CompactResult{
			Error:   r.Error,
			Note:    failureNote,
			Flights: []CompactOffer{},
		}
		if out.Error == "" {
			out.Error = "No flights found for this search."
		}
		if r.SuggestedLinks != nil {
			out.GoogleFlightsLink = r.SuggestedLinks.GoogleFlights
			out.SkyscannerLink = r.SuggestedLinks.Skyscanner
		}
		return out
	}

	offers := make([]CompactOffer, 0, len(r.Flights))
	for i, f := range r.Flights {
		offers = append(offers, CompactOffer{
			Rank:     i + 1,
			Price:    formatPrice(f.Price, f.Currency),
			Airlines: strings.Join(f.Airlines, ", "),
			Route:    f.Outbound.Departure + " → " + f.Outbound.Arrival,
			Duration: f.Outbound.Duration,
			Stops:    describeStops(f.Outbound),
			Trip:     tripType(f),
		})
	}

	return CompactResult{
		Count:    len(offers),
		Currency: r.Flights[0].Currency,
		Source:   r.Source,
		Flights:  offers,
	}
}

func tripType(f flights.FlightOffer) string {
	if f.Inbound != nil {
		return "round-trip"
	}
	return "one-way"
}

func describeStops(leg flights.FlightLeg) string {
	switch {
	case leg.Stops == 0:
		return "nonstop"
	case leg.Stops < 0:
		return "stops unknown"
	}

	desc := fmt.Sprintf("%d stop", leg.Stops)
	if leg.Stops > 1 {
		desc += "s"
	}
	if len(leg.StopCities) > 0 {
		desc += " via " + strings.Join(leg.StopCities, ", ")
	}
	return desc
}

func formatPrice(amount int, currency string) string {
	formatted := addThousandsSeparator(strconv.Itoa(amount))
	if currency == "" || currency == "USD" {
		return "$" + formatted
	}
	return currency + " " + formatted
}

func addThousandsSeparator(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
