package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

const (
	summaryMaxChars      = 150
	descriptionScanChars = 500
	descriptionMinLine   = 20
)

var (
	reObjeto         = regexp.MustCompile(`(?i)(?:Objeto|Descripci[óo]n|Asunto)\s*(?:de\s*la\s*licitaci[óo]n)?\s*:?\s*([^\n]{10,500})`)
	reObjectEnglish  = regexp.MustCompile(`(?i)(?:Object|Description|Subject)\s*:?\s*([^\n]{10,500})`)
	reLicitacionPara = regexp.MustCompile(`(?i)Licitaci[óo]n\s*(?:para|de)\s*:?\s*([^\n]{10,500})`)
	reLicitacionWord = regexp.MustCompile(`(?i)licitación`)

	reSummaryLabel  = regexp.MustCompile(`(?i)^(?:Objeto|Descripción|Asunto)\s*(?:de\s*la\s*licitación)?\s*:?\s*`)
	reSummaryPrefix = regexp.MustCompile(`(?i)^Licitación\s*(?:para|de)\s*:?\s*`)
	reSummarySplit  = regexp.MustCompile(`(?i)[.;]|Lugar:|Ubicación:|Ciudad:`)
)

// DescriptionRules find the labeled object of the notice.
var DescriptionRules = Chain{
	Capture(reObjeto),
	Capture(reObjectEnglish),
	Capture(reLicitacionPara),
	firstLongLineAfterLicitacion,
}

// Description returns the object of the notice or
// constants.DescriptionNotExtracted.
func Description(text string) string {
	return DescriptionRules.Or(text, constants.DescriptionNotExtracted)
}

// firstLongLineAfterLicitacion scans the text following the first
// "licitación" for a line with real content.
func firstLongLineAfterLicitacion(text string) (string, bool) {
	loc := reLicitacionWord.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	window := text[loc[0]:runeWindow(text, loc[0], descriptionScanChars)]
	for _, line := range strings.Split(window, "\n") {
		if line = strings.TrimSpace(line); utf8.RuneCountInString(line) > descriptionMinLine {
			return line, true
		}
	}
	return "", false
}

// Summarize condenses a description to its first clause, at most 150
// characters.
func Summarize(description string) string {
	if normalize.IsSentinel(description) {
		return constants.Unavailable
	}
	s := reSummaryLabel.ReplaceAllString(description, "")
	s = strings.TrimSpace(reSummaryPrefix.ReplaceAllString(s, ""))

	first := strings.TrimSpace(reSummarySplit.Split(s, 2)[0])
	if utf8.RuneCountInString(first) > summaryMaxChars {
		return truncateRunes(first, summaryMaxChars-3) + "..."
	}
	if first != "" {
		return first
	}
	if s = truncateRunes(s, summaryMaxChars); s != "" {
		return s
	}
	return constants.Unavailable
}

func truncateRunes(s string, n int) string {
	return s[:runeWindow(s, 0, n)]
}
