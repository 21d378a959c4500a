package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/licitaciones/constants"
)

// Fold lowercases s, strips diacritics and collapses whitespace, so that
// "Miércoles,  12" and "miercoles, 12" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// IsSentinel reports whether v carries no extracted value: blank, the
// "unavailable" sentinel, or one of the "not extracted" sentinels.
func IsSentinel(v string) bool {
	s := strings.TrimSpace(v)
	if s == "" {
		return true
	}
	switch Fold(s) {
	case Fold(constants.Unavailable), Fold(constants.LocationNotExtracted), Fold(constants.DescriptionNotExtracted):
		return true
	}
	return false
}

// OrUnavailable returns v trimmed, or the sentinel when v is blank.
func OrUnavailable(v string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return constants.Unavailable
}
