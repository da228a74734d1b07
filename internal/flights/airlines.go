package flights

import "strings"

// MultiCarrierCode is the sentinel carrier code for offers spanning several
// airlines ("Multiple airlines" result cards).
const MultiCarrierCode = "XX"

var airlineNames = map[string]string{
	"6E": "IndiGo", "AA": "American Airlines", "AC": "Air Canada", "AF": "Air France",
	"AI": "Air India", "AK": "AirAsia", "AY": "Finnair", "AZ": "ITA Airways",
	"BA": "British Airways", "BR": "EVA Air", "CA": "Air China", "CI": "China Airlines",
	"CX": "Cathay Pacific", "CZ": "China Southern", "DL": "Delta", "EK": "Emirates",
	"ET": "Ethiopian Airlines", "EY": "Etihad", "FZ": "Flydubai", "G8": "GoAir",
	"GA": "Garuda Indonesia", "HA": "Hawaiian Airlines", "HU": "Hainan Airlines",
	"IB": "Iberia", "IX": "Air India Express", "JL": "Japan Airlines", "KE": "Korean Air",
	"KL": "KLM", "KU": "Kuwait Airways", "LH": "Lufthansa", "LO": "LOT Polish",
	"LX": "SWISS", "MH": "Malaysia Airlines", "MU": "China Eastern", "NH": "ANA",
	"NZ": "Air New Zealand", "OS": "Austrian", "OZ": "Asiana", "PC": "Pegasus",
	"PK": "PIA", "QF": "Qantas", "QR": "Qatar Airways", "RJ": "Royal Jordanian",
	"SA": "South African Airways", "SK": "SAS", "SQ": "Singapore Airlines",
	"SU": "Aeroflot", "SV": "Saudia", "TG": "Thai Airways", "TK": "Turkish Airlines",
	"TP": "TAP Portugal", "UA": "United Airlines", "UK": "Vistara", "UL": "SriLankan",
	"UX": "Air Europa", "VN": "Vietnam Airlines", "VS": "Virgin Atlantic",
	"W6": "Wizz Air", "WN": "Southwest", "WY": "Oman Air",
	"FR": "Ryanair", "U2": "easyJet", "SG": "SpiceJet", "QG": "Citilink",
	"WS": "WestJet", "B6": "JetBlue", "AS": "Alaska Airlines", "NK": "Spirit Airlines",
	"F9": "Frontier Airlines", "G4": "Allegiant Air", "SY": "Sun Country",
}

var airlineCodes = func() map[string]string {
	m := make(map[string]string, len(airlineNames))
	for code, name := range airlineNames {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// AirlineName resolves an IATA carrier code to a display name. Unknown codes
// are returned unchanged.
func AirlineName(code string) string {
	if name, ok := airlineNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// AirlineCode resolves a display name back to a carrier code. Multi-carrier
// phrases map to MultiCarrierCode; unknown names fall back to their first two
// letters.
func AirlineCode(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(lower, "multiple ") {
		return MultiCarrierCode
	}
	if code, ok := airlineCodes[lower]; ok {
		return code
	}

	letters := []rune(strings.ToUpper(trimmed))
	if len(letters) < 2 {
		return MultiCarrierCode
	}
	return string(letters[:2])
}
