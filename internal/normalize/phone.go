package normalize

import (
	"regexp"
	"strings"
)

// PRAreaCodes are the only area codes accepted for contact phones.
var PRAreaCodes = map[string]struct{}{"787": {}, "939": {}}

var rePRPhone = regexp.MustCompile(`^(787|939)-\d{3}-\d{4}$`)

// ValidPRPhone reports whether v is a Puerto Rico number in AAA-NNN-NNNN form.
func ValidPRPhone(v string) bool {
	return rePRPhone.MatchString(strings.TrimSpace(v))
}

// FormatPhone joins the three phone groups with dashes.
func FormatPhone(area, exchange, line string) string {
	return area + "-" + exchange + "-" + line
}

// IsPRAreaCode reports whether code is 787 or 939.
func IsPRAreaCode(code string) bool {
	_, ok := PRAreaCodes[code]
	return ok
}
