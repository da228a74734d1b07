// Package extract turns raw search-result markup into structured flight
// offers. Result pages embed offer data as readable inline phrases rather
// than a structured format, so the page is flattened to a plain text stream
// and scanned for recurring offer-card phrase shapes.
package extract

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nwalden/farescout/internal/flights"
)

// MaxOffers caps the number of offers returned per search.
const MaxOffers = 8

var (
	scriptRE = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRE  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRE    = regexp.MustCompile(`<[^>]*>`)
	spaceRE  = regexp.MustCompile(`\s+`)
)

// Flatten strips markup and collapses whitespace, leaving the inline phrase
// stream the offer patterns are matched against.
func Flatten(raw string) string {
	text := scriptRE.ReplaceAllString(raw, " ")
	text = styleRE.ReplaceAllString(text, " ")
	text = tagRE.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spaceRE.ReplaceAllString(text, " "))
}

// candidate is one parsed offer phrase before it is mapped to a FlightOffer.
type candidate struct {
	airline  string
	duration string
	stops    int
	price    int
}

// matcher pairs a phrase pattern with the function that turns a match into a
// candidate. New source phrase shapes are added here without touching the
// rest of the pipeline.
type matcher struct {
	pattern *regexp.Regexp
	extract func(groups []string) (candidate, bool)
}

// Offer-card phrase fragments. The airline token is 1-4 title-cased words or
// a multi-carrier phrase; the duration token allows a day prefix and an
// "or longer" suffix; the price is an integer after a currency marker.
const (
	airlinePat  = `(Multiple (?:airlines|carriers)|[A-Z][\w'&.-]*(?: [A-Z][\w'&.-]*){0,3})`
	durationPat = `((?:\d+d ?)?\d+h(?: ?\d+m)?\+?)`
	stopsPat    = `(Nonstop|Non-stop|Connecting|\d+ stops?)`
	pricePat    = `(?:US)?\$([0-9][0-9,]*)`
)

var matchers = []matcher{
	// "IndiGo 2h 15m Nonstop from $120"
	{regexp.MustCompile(airlinePat + ` ` + durationPat + ` ` + stopsPat + ` from ` + pricePat), extractOfferCard},
	// "IndiGo · 2h 15m · Nonstop · $120"
	{regexp.MustCompile(airlinePat + ` · ` + durationPat + ` · ` + stopsPat + ` · ` + pricePat), extractOfferCard},
}

// Trip-type and cabin words that sometimes prefix the airline token in the
// flattened stream.
var leadingQualifiers = map[string]struct{}{
	"round": {}, "trip": {}, "one-way": {}, "oneway": {}, "return": {},
	"economy": {}, "premium": {}, "business": {}, "first": {}, "class": {},
	"flights": {}, "departing": {}, "cheapest": {}, "best": {},
}

// Offers extracts the ordered, deduplicated offer list for q from raw
// markup. Zero offers is a valid outcome — the caller classifies what an
// empty scan means.
func Offers(raw string, q flights.SearchQuery) []flights.FlightOffer {
	cands := scan(Flatten(raw))

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].price < cands[j].price })
	if len(cands) > MaxOffers {
		cands = cands[:MaxOffers]
	}

	offers := make([]flights.FlightOffer, 0, len(cands))
	for i, c := range cands {
		offers = append(offers, mapOffer(c, q, i))
	}
	return offers
}

func scan(text string) []candidate {
	var out []candidate
	seen := make(map[string]struct{})

	for _, m := range matchers {
		for _, groups := range m.pattern.FindAllStringSubmatch(text, -1) {
			c, ok := m.extract(groups)
			if !ok {
				continue
			}
			key := fmt.Sprintf("%s|%s|%d", c.airline, c.duration, c.price)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func extractOfferCard(groups []string) (candidate, bool) {
	airline := stripQualifiers(groups[1])
	if n := len(airline); n < 2 || n > 40 {
		return candidate{}, false
	}

	price, err := strconv.Atoi(strings.ReplaceAll(groups[4], ",", ""))
	if err != nil || price <= 0 {
		return candidate{}, false
	}

	return candidate{
		airline:  airline,
		duration: normalizeDuration(groups[2]),
		stops:    stopCount(groups[3]),
		price:    price,
	}, true
}

func stripQualifiers(name string) string {
	words := strings.Fields(name)
	for len(words) > 1 {
		if _, ok := leadingQualifiers[strings.ToLower(words[0])]; !ok {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}

var durationRE = regexp.MustCompile(`^(?:(\d+)d ?)?(?:(\d+)h)? ?(?:(\d+)m)?(\+)?$`)

// normalizeDuration renders a duration token in consistent "XhYm" form,
// keeping day prefixes and the "or longer" marker.
func normalizeDuration(tok string) string {
	m := durationRE.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return tok
	}
	var parts []string
	if m[1] != "" {
		parts = append(parts, m[1]+"d")
	}
	if m[2] != "" {
		parts = append(parts, m[2]+"h")
	}
	if m[3] != "" {
		parts = append(parts, m[3]+"m")
	}
	return strings.Join(parts, " ") + m[4]
}

func stopCount(descriptor string) int {
	switch strings.ToLower(descriptor) {
	case "nonstop", "non-stop":
		return 0
	case "connecting":
		return 1
	}
	n, err := strconv.Atoi(strings.Fields(descriptor)[0])
	if err != nil {
		return 1
	}
	return n
}

func mapOffer(c candidate, q flights.SearchQuery, idx int) flights.FlightOffer {
	code := flights.AirlineCode(c.airline)

	outbound := flights.FlightLeg{
		Departure:  q.Origin,
		Arrival:    q.Destination,
		DepartTime: flights.Unknown,
		ArriveTime: flights.Unknown,
		DepartDate: displayDate(q.DepartDate),
		Duration:   c.duration,
		Stops:      c.stops,
		StopCities: []string{},
		Segments: []flights.FlightSegment{{
			From:     q.Origin,
			To:       q.Destination,
			Airline:  c.airline,
			FlightNo: code,
			Duration: c.duration,
		}},
	}

	var inbound *flights.FlightLeg
	if q.RoundTrip() {
		inbound = &flights.FlightLeg{
			Departure:  q.Destination,
			Arrival:    q.Origin,
			DepartTime: flights.Unknown,
			ArriveTime: flights.Unknown,
			DepartDate: displayDate(q.ReturnDate),
			Duration:   flights.Unknown,
			Stops:      c.stops,
			StopCities: []string{},
			Segments:   []flights.FlightSegment{},
		}
	}

	return flights.FlightOffer{
		ID:           fmt.Sprintf("gf-%s-%s-%d-%d", q.Origin, q.Destination, c.price, idx),
		Price:        c.price,
		Currency:     "USD",
		Airlines:     []string{c.airline},
		AirlineCodes: []string{code},
		Outbound:     outbound,
		Inbound:      inbound,
		Cabin:        flights.CabinLabel(q.CabinClass),
		DeepLink:     flights.BuildSkyscannerLink(q),
	}
}

func displayDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("Mon, Jan 2")
}
