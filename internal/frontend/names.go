package frontend

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normalizeIdent trims and NFC-normalises an identifier so that visually
// equal ids written with different code point sequences compare equal.
func normalizeIdent(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// validIdent accepts letters, digits, '_' and '-', not starting with a digit
// or '-'.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

// defaultID derives the base of a generated id from a type name:
// "VerticalLayout" becomes "vertical-layout".
func defaultID(typeName string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range typeName {
		if unicode.IsUpper(r) {
			if prevLower {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			prevLower = false
			continue
		}
		sb.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	if sb.Len() == 0 {
		return "element"
	}
	return sb.String()
}
