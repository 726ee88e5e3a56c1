package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// unicodeReplacements maps characters that PDF extraction commonly emits to
// their ASCII equivalents.
var unicodeReplacements = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	" ", " ", // non-breaking space
	" ", " ", // thin space
	" ", " ", // hair space
)

// ocrFixes repairs misreads the extraction layer is known to produce, then
// collapses metro-area variants onto their primary market name.
var ocrFixes = []struct{ old, new string }{
	{"LAs Vegas", "Las Vegas"},
	{"Las VegAs", "Las Vegas"},
	{"Salt LAke City", "Salt Lake City"},
	{"Salt LAke", "Salt Lake"},
	{"LAke", "Lake"},
	{"Fort LAuderdale", "Fort Lauderdale"},
	{"Ft LAuderdale", "Fort Lauderdale"},
	{"LAuderdale", "Lauderdale"},
	{"New YOrk", "New York"},
	{"San FrAncisco", "San Francisco"},
	{"PhilAdElphia", "Philadelphia"},
	{"WashIngton", "Washington"},
	{"Southern CAlifornia", "Southern California"},

	{"Dallas/Ft Worth", "Dallas"},
	{"Dallas/Fort Worth", "Dallas"},
	{"Minneapolis/St Paul", "Minneapolis"},
	{"Minneapolis/Saint Paul", "Minneapolis"},
	{"Tampa/St Petersburg", "Tampa"},
	{"Miami/Fort Lauderdale", "Miami"},
	{"Riverside/San Bernardino", "Riverside"},
}

// abbreviationFixes restores casing of well-known abbreviations after
// title-casing.
var abbreviationFixes = []struct{ old, new string }{
	{"Dc", "DC"},
	{"Nyc", "NYC"},
	{"Sf", "SF"},
	{"St.", "St"},
	{"Mt.", "Mt"},
	{"Ft.", "Ft"},
	{"Ft ", "Fort "},
	{" Dc", " DC"},
	{" Ny", " NY"},
	{" Ca", " CA"},
	{" Tx", " TX"},
	{" Fl", " FL"},
}

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	edgeDashesRe   = regexp.MustCompile(`^[-\s]+|[-\s]+$`)
	allDigitsRe    = regexp.MustCompile(`^\d+$`)
)

// NormalizeMarketName cleans a raw market/city name into its canonical
// form. Deny-listed artifacts and names that cannot be a market come back
// as the empty string; callers treat that as an invalid market, not an
// error.
func NormalizeMarketName(raw string) string {
	cleaned := unicodeReplacements.Replace(raw)
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = edgeDashesRe.ReplaceAllString(cleaned, "")

	for _, fix := range ocrFixes {
		cleaned = strings.ReplaceAll(cleaned, fix.old, fix.new)
	}

	for _, pattern := range denyPatterns {
		if pattern.MatchString(cleaned) {
			return ""
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}

	cleaned = titleCase(cleaned)

	// LA prefix is ambiguous: Los Angeles shortens to LA, Las Vegas must not.
	if strings.HasPrefix(cleaned, "La ") && !strings.Contains(cleaned, "Vegas") {
		cleaned = "LA " + strings.TrimPrefix(cleaned, "La ")
	} else if strings.HasSuffix(cleaned, " La") && !strings.Contains(cleaned, "Vegas") {
		cleaned = strings.TrimSuffix(cleaned, " La") + " LA"
	}

	for _, fix := range abbreviationFixes {
		cleaned = strings.ReplaceAll(cleaned, fix.old, fix.new)
	}

	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) < 3 || allDigitsRe.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, matching the behavior the historical dataset was built with.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, c := range s {
		if unicode.IsLetter(c) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(c))
			} else {
				b.WriteRune(unicode.ToUpper(c))
			}
			prevLetter = true
		} else {
			b.WriteRune(c)
			prevLetter = false
		}
	}
	return b.String()
}
