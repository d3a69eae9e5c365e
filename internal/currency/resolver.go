// Package currency provides static currency code resolution and formatting.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// info holds the display attributes of a supported currency.
type info struct {
	Symbol string
	Name   string
}

// supported is the fixed set of supported currency codes.
var supported = map[string]info{
	// Americas
	"USD": {"$", "US Dollar"},
	"CAD": {"CA$", "Canadian Dollar"},
	"MXN": {"MX$", "Mexican Peso"},
	"BRL": {"R$", "Brazilian Real"},
	"ARS": {"AR$", "Argentine Peso"},
	"CLP": {"CLP$", "Chilean Peso"},
	"COP": {"COL$", "Colombian Peso"},
	"PEN": {"S/", "Peruvian Sol"},
	"UYU": {"$U", "Uruguayan Peso"},

	// Europe
	"EUR": {"€", "Euro"},
	"GBP": {"£", "British Pound"},
	"CHF": {"CHF", "Swiss Franc"},
	"SEK": {"kr", "Swedish Krona"},
	"NOK": {"kr", "Norwegian Krone"},
	"DKK": {"kr", "Danish Krone"},
	"PLN": {"zł", "Polish Zloty"},
	"CZK": {"Kč", "Czech Koruna"},
	"HUF": {"Ft", "Hungarian Forint"},
	"RON": {"lei", "Romanian Leu"},
	"BGN": {"лв", "Bulgarian Lev"},
	"ISK": {"kr", "Icelandic Krona"},
	"TRY": {"₺", "Turkish Lira"},

	// Asia-Pacific
	"JPY": {"¥", "Japanese Yen"},
	"CNY": {"¥", "Chinese Yuan"},
	"KRW": {"₩", "South Korean Won"},
	"INR": {"₹", "Indian Rupee"},
	"SGD": {"S$", "Singapore Dollar"},
	"HKD": {"HK$", "Hong Kong Dollar"},
	"TWD": {"NT$", "New Taiwan Dollar"},
	"THB": {"฿", "Thai Baht"},
	"MYR": {"RM", "Malaysian Ringgit"},
	"IDR": {"Rp", "Indonesian Rupiah"},
	"PHP": {"₱", "Philippine Peso"},
	"VND": {"₫", "Vietnamese Dong"},
	"MMK": {"K", "Myanmar Kyat"},
	"AUD": {"A$", "Australian Dollar"},
	"NZD": {"NZ$", "New Zealand Dollar"},
	"PKR": {"₨", "Pakistani Rupee"},
	"BDT": {"৳", "Bangladeshi Taka"},
	"LKR": {"Rs", "Sri Lankan Rupee"},
	"NPR": {"रू", "Nepalese Rupee"},

	// Middle East / Africa
	"AED": {"د.إ", "UAE Dirham"},
	"SAR": {"﷼", "Saudi Riyal"},
	"QAR": {"QR", "Qatari Riyal"},
	"KWD": {"KD", "Kuwaiti Dinar"},
	"BHD": {"BD", "Bahraini Dinar"},
	"OMR": {"OMR", "Omani Rial"},
	"ILS": {"₪", "Israeli New Shekel"},
	"EGP": {"E£", "Egyptian Pound"},
	"ZAR": {"R", "South African Rand"},
	"NGN": {"₦", "Nigerian Naira"},
	"KES": {"KSh", "Kenyan Shilling"},
	"MAD": {"DH", "Moroccan Dirham"},

	// CIS
	"RUB": {"₽", "Russian Ruble"},
	"UAH": {"₴", "Ukrainian Hryvnia"},
	"KZT": {"₸", "Kazakhstani Tenge"},
	"UZS": {"soʻm", "Uzbekistani Som"},
	"GEL": {"₾", "Georgian Lari"},
	"AMD": {"֏", "Armenian Dram"},
	"AZN": {"₼", "Azerbaijani Manat"},
	"BYN": {"Br", "Belarusian Ruble"},
}

// zeroDecimal lists codes conventionally formatted without minor units.
var zeroDecimal = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"CLP": true,
	"ISK": true,
	"UZS": true,
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsSupported reports whether the code is in the supported set.
func IsSupported(code string) bool {
	_, ok := supported[Normalize(code)]
	return ok
}

// Symbol returns the canonical symbol for a known code. Unknown codes are
// returned unchanged so callers always have something displayable.
func Symbol(code string) string {
	if c, ok := supported[Normalize(code)]; ok {
		return c.Symbol
	}
	return code
}

// Name returns the human-readable currency name, with the same
// unknown-code fallback behavior as Symbol.
func Name(code string) string {
	if c, ok := supported[Normalize(code)]; ok {
		return c.Name
	}
	return code
}

// Codes returns all supported codes in unspecified order.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	return codes
}

// Format renders an amount with the currency's symbol. Codes without
// minor units drop the decimal places; everything else gets two. Unknown
// codes fall back to the code itself as the symbol. Never fails.
func Format(amount decimal.Decimal, code string) string {
	norm := Normalize(code)
	if zeroDecimal[norm] {
		return Symbol(norm) + amount.Round(0).String()
	}
	return Symbol(norm) + amount.StringFixed(2)
}

// symbolIndex maps unambiguous symbols back to their code, for heuristic
// extraction from raw text. Ambiguous symbols ("$", "¥", "kr") resolve to
// the most common code carrying them.
var symbolIndex = map[string]string{
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
	"¥":   "JPY",
	"₹":   "INR",
	"₩":   "KRW",
	"฿":   "THB",
	"₫":   "VND",
	"₱":   "PHP",
	"₽":   "RUB",
	"₴":   "UAH",
	"₺":   "TRY",
	"₪":   "ILS",
	"₦":   "NGN",
	"S$":  "SGD",
	"A$":  "AUD",
	"HK$": "HKD",
	"NT$": "TWD",
	"RM":  "MYR",
	"Rp":  "IDR",
	"R$":  "BRL",
}

// FromSymbol resolves a currency symbol to a code. Returns the empty
// string if the symbol is unknown.
func FromSymbol(sym string) string {
	return symbolIndex[strings.TrimSpace(sym)]
}

// localeHints maps merchant-name substrings to a likely currency. Used as
// a contextual signal when extraction produced an unsupported code.
// Ordered: more specific markers first, first match wins.
var localeHints = []struct {
	marker string
	code   string
}{
	{"sdn bhd", "MYR"},
	{"pte", "SGD"},
	{"gmbh", "EUR"},
	{"s.r.l", "EUR"},
	{"sarl", "EUR"},
	{"plc", "GBP"},
	{"ltd", "GBP"},
	{"pty", "AUD"},
	{"k.k", "JPY"},
	{"llc", "USD"},
	{"inc", "USD"},
}

// GuessFromHints inspects a merchant name for locale markers and returns
// a best-guess currency code, or the empty string when no signal exists.
func GuessFromHints(merchant string) string {
	m := strings.ToLower(merchant)
	for _, hint := range localeHints {
		if strings.Contains(m, hint.marker) {
			return hint.code
		}
	}
	return ""
}
