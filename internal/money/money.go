// Package money converts locale-formatted price strings into exact decimal
// values. Argentine sources format prices like "$ 1.200,00" while others use
// "1,200.00"; the parser disambiguates without knowing the locale upfront.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a price string into a decimal value. It strips currency
// symbols, spaces (including non-breaking) and other non-numeric noise, then
// resolves the thousands/decimal separator ambiguity:
//
//   - both "." and "," present: the right-most one is the decimal point;
//   - only "," present: decimal point if followed by exactly two digits,
//     thousands separator otherwise;
//   - only "." present: the symmetric rule.
//
// Returns ok=false on unparseable input. Callers must treat that as "price
// unknown", never as zero.
func Parse(text string) (decimal.Decimal, bool) {
	cleaned := clean(text)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	dot := strings.LastIndex(cleaned, ".")
	comma := strings.LastIndex(cleaned, ",")

	var canonical string
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// "1.200,00" -> dot is thousands, comma is decimal
			canonical = strings.ReplaceAll(cleaned, ".", "")
			canonical = strings.Replace(canonical, ",", ".", 1)
		} else {
			// "1,200.00"
			canonical = strings.ReplaceAll(cleaned, ",", "")
		}
	case comma >= 0:
		canonical = resolveSingle(cleaned, ",")
	case dot >= 0:
		canonical = resolveSingle(cleaned, ".")
	default:
		canonical = cleaned
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// resolveSingle handles a string containing only one separator kind: it is a
// decimal point when the last occurrence is followed by exactly two digits
// and it appears once, a thousands separator otherwise.
func resolveSingle(s, sep string) string {
	last := strings.LastIndex(s, sep)
	digitsAfter := len(s) - last - 1
	if digitsAfter == 2 && strings.Count(s, sep) == 1 {
		return s[:last] + "." + s[last+1:]
	}
	return strings.ReplaceAll(s, sep, "")
}

// clean strips everything except digits, separators and a leading minus sign.
func clean(text string) string {
	var b strings.Builder
	seenDigit := false
	for _, r := range strings.TrimSpace(text) {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.' || r == ',':
			if seenDigit {
				b.WriteRune(r)
			}
		case r == '-' && !seenDigit && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".,")
}
