package patterns

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
)

var (
	reCiudadName     = regexp.MustCompile(`(?i)Ciudad\s*:?\s*([A-ZÁÉÍÓÚÑ][a-zA-ZáéíóúñÁÉÍÓÚÑ\s]+?)(?:\n|Cod|,|$)`)
	reCiudadLoose    = regexp.MustCompile(`(?i)Ciudad\s*:?\s*([^\n,]{3,50})`)
	reMunicipioName  = regexp.MustCompile(`(?i)(?:Municipio|Localidad)\s*:?\s*([A-ZÁÉÍÓÚÑ][a-zA-ZáéíóúñÁÉÍÓÚÑ\s]+?)(?:\n|Cod|,|$)`)
	reMunicipioLoose = regexp.MustCompile(`(?i)(?:Municipio|Localidad)\s*:?\s*([^\n,]{3,50})`)
	reUbicacion      = regexp.MustCompile(`(?i)(?:Ubicaci[óo]n|Lugar)\s*:?\s*([^\n]{5,200})`)
	reProvincia      = regexp.MustCompile(`(?i)Provincia\s*:?\s*([^\n]{5,200})`)

	rePostalTail = regexp.MustCompile(`(?i)\s*Cod\.?\s*Postal\s*:?\s*\d+.*$`)
	reZipTail    = regexp.MustCompile(`\s+\d{5}\s*$`)
	rePRTail     = regexp.MustCompile(`(?i)\s*\b(?:PR|Puerto\s+Rico)\b.*$`)
)

// LocationRules locate the municipality, "Ciudad" first.
var LocationRules = Chain{
	Capture(reCiudadName).Then(CleanLocation),
	Capture(reCiudadLoose).Then(CleanLocation),
	Capture(reMunicipioName).Then(CleanLocation),
	Capture(reMunicipioLoose).Then(CleanLocation),
	Capture(reUbicacion).Then(CleanLocation),
	Capture(reProvincia).Then(CleanLocation),
}

// Location returns the municipality or constants.LocationNotExtracted.
func Location(text string) string {
	return LocationRules.Or(text, constants.LocationNotExtracted)
}

// CleanLocation drops postal codes and the "PR"/"Puerto Rico" suffix.
func CleanLocation(v string) string {
	v = rePostalTail.ReplaceAllString(v, "")
	v = reZipTail.ReplaceAllString(v, "")
	v = rePRTail.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}
