package patterns

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
)

var (
	reValidezDate     = regexp.MustCompile(`(?i)Validez\s*de\s*su\s*oferta\s*hasta\s*:?\s*([0-9]{1,2}/[0-9]{1,2}/[0-9]{4})`)
	reValidezLoose    = regexp.MustCompile(`(?i)Validez\s*de\s*su\s*oferta\s*hasta\s*:?\s*([^\n#]{3,50})`)
	reCierrePropuesta = regexp.MustCompile(`(?i)(?:Fecha\s*de\s*)?(?:Cierre|entrega)\s*de\s*(?:propuestas?|ofertas?)\s*:?\s*([^\n#]{3,50})`)
	reFechaLimite     = regexp.MustCompile(`(?i)Fecha\s*[lí]mite\s*(?:de\s*entrega)?\s*:?\s*([^\n#]{3,50})`)
	reFechaCierre     = regexp.MustCompile(`(?i)Fecha\s*de\s*cierre\s*:?\s*([^\n#]{3,50})`)
	reDueDate         = regexp.MustCompile(`(?i)(?:Due\s*date|Deadline)\s*:?\s*([^\n#]{3,50})`)
	reEntregaLabel    = regexp.MustCompile(`(?i)Entrega\s*de\s*propuestas?\s*:?\s*([^\n#]{3,50})`)
	reHoraSuffix      = regexp.MustCompile(`(?i)\s*Hora\s*:.*$`)

	reValidezSeconds  = regexp.MustCompile(`(?i)Validez\s*de\s*su\s*oferta\s*hasta\s*:?.*?([0-9]{1,2}:[0-9]{2}:[0-9]{2}\s*[AP]M)`)
	reValidezClock    = regexp.MustCompile(`(?i)Validez\s*de\s*su\s*oferta\s*hasta\s*:?.*?([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
	rePeriodo         = regexp.MustCompile(`(?i)Per[íi]odo\s*de\s*presentaci[óo]n.*?[0-9/]+\s*([0-9]{1,2}:[0-9]{2}:[0-9]{2}\s*[AP]M)`)
	reCierreHora      = regexp.MustCompile(`(?i)(?:Cierre|entrega).*?Hora\s*:?\s*([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
	reFechaCierreHora = regexp.MustCompile(`(?i)Fecha\s*de\s*cierre.*?([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
	reEntregaALas     = regexp.MustCompile(`(?i)Entrega.*?(?:a\s*las?|@)\s*([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
	reHoraCierre      = regexp.MustCompile(`(?i)Hora\s*de\s*cierre\s*:?\s*([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
	reHoraLimite      = regexp.MustCompile(`(?i)Hora\s*l[íi]mite\s*:?\s*([0-9]{1,2}:[0-9]{2}\s*[ap]m)`)
)

// CloseDateRules capture the raw bid deadline date. A trailing "Hora: ..."
// belongs to the time field and is cut off.
var CloseDateRules = func() Chain {
	c := captures(reValidezDate, reValidezLoose, reCierrePropuesta, reFechaLimite, reFechaCierre, reDueDate, reEntregaLabel)
	for i := range c {
		c[i] = c[i].Then(stripHora)
	}
	return c
}()

// CloseTimeRules capture the raw bid deadline time.
var CloseTimeRules = captures(
	reValidezSeconds, reValidezClock, rePeriodo, reCierreHora,
	reFechaCierreHora, reEntregaALas, reHoraCierre, reHoraLimite,
)

// CloseDate returns the raw deadline date or constants.Unavailable.
func CloseDate(text string) string { return CloseDateRules.Or(text, constants.Unavailable) }

// CloseTime returns the raw deadline time or constants.Unavailable.
func CloseTime(text string) string { return CloseTimeRules.Or(text, constants.Unavailable) }

func stripHora(v string) string {
	return strings.TrimSpace(reHoraSuffix.ReplaceAllString(v, ""))
}
