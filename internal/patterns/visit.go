package patterns

import (
	"regexp"

	"github.com/joseph-ayodele/licitaciones/constants"
)

var (
	reVisitaElDia    = regexp.MustCompile(`(?i)VISITA\s+EL\s+D[ÍI]A\s+(\d{1,2}\s+DE\s+\w+(?:\s+DE\s+\d{4})?)`)
	reDiaLabel       = regexp.MustCompile(`(?i)D[íi]a\s*:\s*([^\n#]{3,50})`)
	reFechaVisita    = regexp.MustCompile(`(?i)Fecha\s*(?:de\s*)?(?:Site\s*Visit|Visita)\s*:?\s*([^\n#]{3,50})`)
	reSiteVisitDia   = regexp.MustCompile(`(?i)Site\s*Visit[#\s]*D[íi]a\s*:\s*([^\n#]{3,50})`)
	reALasTime       = regexp.MustCompile(`(?i)A\s+LAS\s+([0-9]{1,2}:[0-9]{2}\s*[AP]M)`)
	reHashHora       = regexp.MustCompile(`(?i)#HORA\s*:\s*([0-9]{1,2}:[0-9]{2}\s*[AP]M)`)
	reHoraMeridiem   = regexp.MustCompile(`(?i)Hora\s*:\s*([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
	reHoraClock      = regexp.MustCompile(`(?i)Hora\s*:\s*([0-9]{1,2}:[0-9]{2})`)
	reSiteVisitHora  = regexp.MustCompile(`(?i)Site\s*Visit[#\s]*Hora\s*:\s*([^\n#]{3,20})`)
	reHashLugar      = regexp.MustCompile(`(?i)#LUGAR\s*(?:DE\s*ENCUENTRO)?\s*:\s*([^#\n]{3,100})`)
	reLugarEncuentro = regexp.MustCompile(`(?i)LUGAR\s*DE\s*ENCUENTRO\s*:\s*([^#\n]{3,100})`)
	reLugarLabel     = regexp.MustCompile(`(?i)LUGAR\s*:\s*([^#\n]{3,100})`)
)

// VisitDateRules capture the raw site-visit date token.
var VisitDateRules = captures(reVisitaElDia, reDiaLabel, reFechaVisita, reSiteVisitDia)

// VisitTimeRules capture the raw site-visit time token.
var VisitTimeRules = captures(reALasTime, reHashHora, reHoraMeridiem, reHoraClock, reSiteVisitHora)

// VisitLocationRules capture the meeting point of the site visit.
var VisitLocationRules = captures(reHashLugar, reLugarEncuentro, reLugarLabel)

// SiteVisitDate returns the raw visit date or constants.Unavailable.
func SiteVisitDate(text string) string { return VisitDateRules.Or(text, constants.Unavailable) }

// SiteVisitTime returns the raw visit time or constants.Unavailable.
func SiteVisitTime(text string) string { return VisitTimeRules.Or(text, constants.Unavailable) }

// VisitLocation returns the meeting point or constants.Unavailable.
func VisitLocation(text string) string {
	return VisitLocationRules.Or(text, constants.Unavailable)
}
