package utils

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// currencyTokens are the written currency names dropped from a price.
var currencyTokens = []string{"zł", "zl", "pln"}

// NormalizePrice turns a displayed price such as "1 234,50 zł" into 1234.5.
// Whitespace (including no-break spaces), currency names and currency symbols
// are dropped and a comma decimal separator becomes a dot. When both
// separators appear the dots are treated as thousands grouping. Any other
// leftover character, or a number that does not parse, yields 0, which
// callers read as "unknown price".
func NormalizePrice(raw string) float64 {
	s := strings.ToLower(raw)
	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		default:
			return 0
		}
	}
	s = b.String()
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatPrice renders a normalized price so that NormalizePrice reads it back unchanged.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NormalizeText trims s and collapses runs of whitespace left behind by
// concatenated text nodes into single spaces.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// FoldText normalizes s and folds its case for case-insensitive comparison.
func FoldText(s string) string {
	return cases.Fold().String(NormalizeText(s))
}

// ParseScore parses a catalog numeric field, returning 0 and false for
// anything that is not a finite number.
func ParseScore(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
