package flights

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a missing or malformed required query field.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrMissingOrigin      ValidationError = "origin is required"
	ErrMissingDestination ValidationError = "destination is required"
	ErrMissingDepartDate  ValidationError = "departDate is required"
)

const dateLayout = "2006-01-02"

var cabinLabels = map[string]string{
	CabinEconomy:        "Economy",
	CabinPremiumEconomy: "Premium Economy",
	CabinBusiness:       "Business",
	CabinFirst:          "First",
}

// CabinLabel returns the display label for a normalized cabin class.
func CabinLabel(cabin string) string {
	if label, ok := cabinLabels[cabin]; ok {
		return label
	}
	return cabinLabels[CabinEconomy]
}

// Normalize validates raw and returns its canonical form: airport codes
// upper-cased, dates in ISO form, adults defaulted to 1, cabin class
// defaulted to economy. Normalizing an already-normalized query returns an
// identical query. The input is not modified.
func Normalize(raw SearchQuery) (SearchQuery, error) {
	q := raw

	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.DepartDate = strings.TrimSpace(q.DepartDate)
	q.ReturnDate = strings.TrimSpace(q.ReturnDate)

	if q.Origin == "" {
		return SearchQuery{}, ErrMissingOrigin
	}
	if q.Destination == "" {
		return SearchQuery{}, ErrMissingDestination
	}
	if q.DepartDate == "" {
		return SearchQuery{}, ErrMissingDepartDate
	}

	if !validAirportCode(q.Origin) {
		return SearchQuery{}, ValidationError(fmt.Sprintf("origin %q is not a 3-letter airport code", q.Origin))
	}
	if !validAirportCode(q.Destination) {
		return SearchQuery{}, ValidationError(fmt.Sprintf("destination %q is not a 3-letter airport code", q.Destination))
	}

	depart, err := time.Parse(dateLayout, q.DepartDate)
	if err != nil {
		return SearchQuery{}, ValidationError(fmt.Sprintf("departDate %q is not a valid YYYY-MM-DD date", q.DepartDate))
	}
	q.DepartDate = depart.Format(dateLayout)

	if q.ReturnDate != "" {
		ret, err := time.Parse(dateLayout, q.ReturnDate)
		if err != nil {
			return SearchQuery{}, ValidationError(fmt.Sprintf("returnDate %q is not a valid YYYY-MM-DD date", q.ReturnDate))
		}
		if ret.Before(depart) {
			return SearchQuery{}, ValidationError("returnDate is before departDate")
		}
		q.ReturnDate = ret.Format(dateLayout)
	}

	if q.Adults <= 0 {
		q.Adults = 1
	}
	q.CabinClass = normalizeCabin(q.CabinClass)

	return q, nil
}

func normalizeCabin(cabin string) string {
	c := strings.ToUpper(strings.TrimSpace(cabin))
	c = strings.ReplaceAll(c, "-", "_")
	c = strings.ReplaceAll(c, " ", "_")
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return c
	}
	return CabinEconomy
}

func validAirportCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
