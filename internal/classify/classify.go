// Package classify decides what an empty extraction means: the search
// surface blocking us, or a route with genuinely nothing to sell. A block
// means the retrieval strategy needs attention; an empty result is just a
// routing reality.
package classify

import (
	"strings"

	"github.com/nwalden/farescout/internal/flights"
)

// Kind distinguishes why a search produced no offers.
type Kind int

const (
	// NoResults: retrieval succeeded, nothing parseable, no blocking
	// signature. Not a hard error.
	NoResults Kind = iota
	// Blocked: the raw body carries a bot-block or CAPTCHA signature.
	Blocked
	// Unavailable: retrieval itself failed.
	Unavailable
)

// Outcome is the user-facing explanation for an empty result set. Every
// outcome carries a plain-language message and both fallback links, never
// a raw status code or stack trace.
type Outcome struct {
	Kind    Kind
	Message string
	Links   *flights.SuggestedLinks
}

var blockSignatures = []string{
	"unusual traffic",
	"captcha",
	"not a robot",
	"automated queries",
	"enablejs",
	"please enable javascript",
}

const (
	blockedMessage     = "Flight search is temporarily limited. Use the links below to check live prices."
	noResultsMessage   = "No flights found for these dates. Try different dates or nearby airports, or check the links below."
	unavailableMessage = "Flight search is unavailable right now. Please try again in a moment, or check the links below."
)

// Empty classifies a successful retrieval that yielded zero offers.
func Empty(rawBody string, q flights.SearchQuery) Outcome {
	body := strings.ToLower(rawBody)
	for _, sig := range blockSignatures {
		if strings.Contains(body, sig) {
			return Outcome{Kind: Blocked, Message: blockedMessage, Links: flights.SuggestedLinksFor(q)}
		}
	}
	return Outcome{Kind: NoResults, Message: noResultsMessage, Links: flights.SuggestedLinksFor(q)}
}

// Failure describes a retrieval-level failure for q.
func Failure(q flights.SearchQuery) Outcome {
	return Outcome{Kind: Unavailable, Message: unavailableMessage, Links: flights.SuggestedLinksFor(q)}
}
