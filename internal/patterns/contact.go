package patterns

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

const (
	contactWindowChars  = 200
	twoDigitTailChars   = 30
	threeDigitTailChars = 20
)

var (
	reConSup        = regexp.MustCompile(`(?i)CON\s+EL\s+SUP\.?\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñA-ZÁÉÍÓÚÑ\s]+?)(?:,|\d{3})`)
	reConName       = regexp.MustCompile(`(?i)CON\s+(?:EL\s+)?([A-ZÁÉÍÓÚÑ][a-záéíóúñA-ZÁÉÍÓÚÑ\s]+?)(?:,|\d{3})`)
	reContactoPhone = regexp.MustCompile(`(?i)Contacto\s*:\s*([A-ZÁÉÍÓÚÑ][a-záéíóúñA-ZÁÉÍÓÚÑ\s]+?)(?:\d{3}[-\s]?\d{3}[-\s]?\d{2,4})`)
	reContactoLine  = regexp.MustCompile(`(?i)Contacto\s*:\s*([A-ZÁÉÍÓÚÑ][a-záéíóúñA-ZÁÉÍÓÚÑ\s]{3,50}?)(?:\n|#)`)
	reContactoLabel = regexp.MustCompile(`(?i)Contacto\s*:`)
	rePRPhoneAnyway = regexp.MustCompile(`(787|939)[-\s]?(\d{3})[-\s]?(\d{4})`)
	reTwoDigitTail  = regexp.MustCompile(`\s+(\d{2})`)
	reOneDigitTail  = regexp.MustCompile(`\s+(\d)`)
	rePartialPhones = []*regexp.Regexp{
		regexp.MustCompile(`^(\d{3})[-\s]?(\d{3})[-\s]?(\d{4})`),
		regexp.MustCompile(`^(\d{3})[-\s]?(\d{3})[-\s]?(\d{3})`),
		regexp.MustCompile(`^(\d{3})[-\s]?(\d{3})[-\s]?(\d{2})`),
	}
)

// ContactNameRules find the contact person, supervisor form first.
var ContactNameRules = captures(reConSup, reConName, reContactoPhone, reContactoLine)

// ContactName returns the contact person or constants.Unavailable.
func ContactName(text string) string {
	return ContactNameRules.Or(text, constants.Unavailable)
}

// phoneCandidate is a 3-3-N digit group found after a contact label.
type phoneCandidate struct {
	area, exchange, line string
	end                  int
}

// ExtractPhone returns a Puerto Rico number as NNN-NNN-NNNN, or
// constants.Unavailable. Numbers broken across lines by the text layer
// ("787-406-94\n20") are rejoined from a short window after the fragment;
// digit groups that run into longer numeric codes are never used.
func ExtractPhone(text string) string {
	return contactPhone(text, slog.Default())
}

func contactPhone(text string, logger *slog.Logger) string {
	clean := strings.ReplaceAll(text, "#", " ")
	labels := reContactoLabel.FindAllStringIndex(clean, -1)

	for _, label := range labels {
		limit := runeWindow(clean, label[1], contactWindowChars)
		if loc := findNotFollowedByDigit(rePRPhoneAnyway, clean, label[1]); loc != nil && loc[0] <= limit {
			return phoneFromLoc(clean, loc)
		}
	}
	if loc := findNotFollowedByDigit(rePRPhoneAnyway, clean, 0); loc != nil {
		return phoneFromLoc(clean, loc)
	}

	cand, ok := partialAfterContact(clean, labels)
	if !ok {
		return constants.Unavailable
	}
	if !normalize.IsPRAreaCode(cand.area) {
		logger.Info("patterns.phone.non_pr", "area", cand.area, "exchange", cand.exchange)
		return constants.Unavailable
	}
	switch len(cand.line) {
	case 4:
		return normalize.FormatPhone(cand.area, cand.exchange, cand.line)
	case 2:
		if tail, ok := digitTail(clean, cand.end, twoDigitTailChars, reTwoDigitTail); ok {
			return normalize.FormatPhone(cand.area, cand.exchange, cand.line+tail)
		}
	case 3:
		if tail, ok := digitTail(clean, cand.end, threeDigitTailChars, reOneDigitTail); ok {
			return normalize.FormatPhone(cand.area, cand.exchange, cand.line+tail)
		}
	}
	return constants.Unavailable
}

// partialAfterContact returns the first digit group starting within the
// contact window that is not followed by another digit. At each start the
// longest line group is preferred.
func partialAfterContact(s string, labels [][]int) (phoneCandidate, bool) {
	for _, label := range labels {
		limit := runeWindow(s, label[1], contactWindowChars)
		for p := label[1]; p <= limit && p < len(s); p = runeWindow(s, p, 1) {
			if !isDigit(s[p]) {
				continue
			}
			for _, re := range rePartialPhones {
				m := re.FindStringSubmatchIndex(s[p:])
				if m == nil {
					continue
				}
				end := p + m[1]
				if !isDigitBoundary(s, end) {
					continue
				}
				return phoneCandidate{
					area:     s[p+m[2] : p+m[3]],
					exchange: s[p+m[4] : p+m[5]],
					line:     s[p+m[6] : p+m[7]],
					end:      end,
				}, true
			}
		}
	}
	return phoneCandidate{}, false
}

// digitTail looks for the completing digits of a split number within n
// characters after end.
func digitTail(s string, end, n int, re *regexp.Regexp) (string, bool) {
	loc := findNotFollowedByDigit(re, s, end)
	if loc == nil || loc[1] > runeWindow(s, end, n) {
		return "", false
	}
	return s[loc[2]:loc[3]], true
}

func phoneFromLoc(s string, loc []int) string {
	return normalize.FormatPhone(s[loc[2]:loc[3]], s[loc[4]:loc[5]], s[loc[6]:loc[7]])
}

// isDigitBoundary reports whether position i in s does not start a digit.
// A match whose previous character is a digit still counts; only trailing
// digits disqualify a candidate.
func isDigitBoundary(s string, i int) bool {
	return i >= len(s) || !isDigit(s[i])
}
