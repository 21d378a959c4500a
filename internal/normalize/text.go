package normalize

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`[\t\f\v]+`)
	reNBSP       = regexp.MustCompile(`\x{00A0}+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Text collapses noisy whitespace in extracted document text.
// Conservative: keeps line breaks, since several field patterns stop at them.
func Text(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reNBSP.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// VisitLocationLabel cleans a visit-location value for grouping and display.
// Placeholder values come back as "".
func VisitLocationLabel(v string) string {
	s := strings.Join(strings.Fields(v), " ")
	switch Fold(s) {
	case "", "no disponible", "no especificada", "no especificado", "n/a", "na":
		return ""
	}
	return s
}
