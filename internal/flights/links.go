package flights

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildGoogleFlightsLink returns a natural-language Google Flights search URL
// for q. It is a pure function and must stay callable when retrieval fails,
// since the link is the fallback UX.
func BuildGoogleFlightsLink(q SearchQuery) string {
	phrase := fmt.Sprintf("Flights to %s from %s on %s", q.Destination, q.Origin, q.DepartDate)
	if q.ReturnDate != "" {
		phrase += " return " + q.ReturnDate
	}
	if q.Adults > 1 {
		phrase += fmt.Sprintf(" %d passengers", q.Adults)
	}

	link := "https://www.google.com/travel/flights?q=" + url.QueryEscape(phrase)
	switch q.CabinClass {
	case CabinPremiumEconomy:
		link += "&tfc=CPE"
	case CabinBusiness:
		link += "&tfc=CB"
	case CabinFirst:
		link += "&tfc=CF"
	}
	return link
}

// BuildSkyscannerLink returns a route/date-encoded Skyscanner URL for q.
// Dates are encoded as YYMMDD path segments.
func BuildSkyscannerLink(q SearchQuery) string {
	link := fmt.Sprintf("https://www.skyscanner.net/transport/flights/%s/%s/%s/",
		strings.ToLower(q.Origin), strings.ToLower(q.Destination), compactDate(q.DepartDate))
	if q.ReturnDate != "" {
		link += compactDate(q.ReturnDate) + "/"
	}
	return link
}

// SuggestedLinksFor bundles both fallback links for q.
func SuggestedLinksFor(q SearchQuery) *SuggestedLinks {
	return &SuggestedLinks{
		GoogleFlights: BuildGoogleFlightsLink(q),
		Skyscanner:    BuildSkyscannerLink(q),
	}
}

// compactDate turns 2026-03-15 into 260315.
func compactDate(iso string) string {
	d := strings.ReplaceAll(iso, "-", "")
	if len(d) < 2 {
		return d
	}
	return d[2:]
}
