package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/licitaciones/constants"
)

const systemRole = "You are an expert at analyzing Puerto Rico government bidding documents (Licitaciones) " +
	"and extracting structured data. You understand Spanish and can parse various date formats. Always return valid JSON."

// BuildSystemPrompt composes the system message: field contract, sentinel
// rule, formats, PR-only phones, the purchase site-visit exception and the
// category and priority rubrics.
func BuildSystemPrompt() string {
	parts := []string{
		systemRole,
		"Return ONLY a JSON object with exactly these keys: " + strings.Join(requiredKeys, ", ") + ", and optionally estimatedValue.",
		`If a field is not found or unclear use "` + constants.Unavailable + `". NEVER make up information and NEVER leave a field empty.`,

		// field guidance
		`location: municipality or city ONLY (look for "Ciudad:", "Municipio:", "Localidad:", "Ubicación:"); remove zip codes, "PR", "Puerto Rico", "Cod. Postal".`,
		`description: the full object of the bidding from "Objeto:", "Descripción:" or "Asunto:". summary: one sentence, at most 150 characters.`,
		`siteVisitDate/siteVisitTime/visitLocation: from "VISITA EL DÍA", "DIA:", "HORA:", "A LAS", "LUGAR DE ENCUENTRO:".`,
		`contactName: the person's name without titles such as Ing., Sr., Sra. (look for "Contacto:", "CON EL", "PERSONA CONTACTO:").`,
		`contactPhone: ONLY Puerto Rico numbers (area code 787 or 939) formatted 787-XXX-XXXX; rejoin numbers split across lines ("787-406-94" then "20" becomes "787-406-9420"); IGNORE long numeric codes such as UPC or invoice numbers.`,
		`biddingCloseDate/biddingCloseTime: primarily "Validez de su oferta hasta:", also "Fecha de cierre", "Entrega de propuestas", "Fecha límite".`,

		// formats
		"Dates MUST be MM/DD/YYYY. Times MUST be HH:MM AM/PM.",
		"Spanish months: " + monthTable() + ".",
		"Always remove day names (lunes, martes, miércoles, jueves, viernes, sábado, domingo) before converting dates.",

		// purchase exception
		`Purchase orders (Suministros/Supplies/Equipos) normally have NO site visit: use "` + constants.Unavailable + `" for siteVisitDate, siteVisitTime and visitLocation. Construction and services biddings usually do have one; extract it when present.`,

		"category: one of " + categoryRubric() + `. You may qualify it, e.g. "Servicios - Mantenimiento de filtros".`,
		"priority: High (fewer than 7 days to close, complex or high value work, mandatory site visit), Medium (1-4 weeks, routine work), Low (more than 4 weeks, simple or low value work).",
		`estimatedValue: contract value with currency such as "$50,000", or "` + constants.Unavailable + `".`,
	}
	return strings.Join(parts, "\n")
}

// BuildUserPrompt packages subject and filename hints with the document text
// cut to maxChars characters.
func BuildUserPrompt(req ExtractRequest, maxChars int) string {
	if maxChars <= 0 {
		maxChars = constants.MaxModelInputChars
	}
	var b strings.Builder
	if s := strings.TrimSpace(req.Subject); s != "" {
		b.WriteString("Email subject: ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	if f := strings.TrimSpace(req.Filename); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	text := strings.TrimSpace(req.Text)
	b.WriteString("\nDOCUMENT TEXT:\n")
	if utf8.RuneCountInString(text) > maxChars {
		b.WriteString(string([]rune(text)[:maxChars]))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	b.WriteString("\n\nReturn ONLY valid JSON, no additional text.")
	return b.String()
}

var monthOrder = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func monthTable() string {
	parts := make([]string, len(monthOrder))
	for i, m := range monthOrder {
		parts[i] = fmt.Sprintf("%s=%02d", m, i+1)
	}
	return strings.Join(parts, ", ")
}

func categoryRubric() string {
	defs := map[constants.Category]string{
		constants.Construccion:  "building and infrastructure work",
		constants.Servicios:     "repairs and professional services",
		constants.Suministros:   "materials, supplies and equipment purchases",
		constants.Equipos:       "equipment rental or purchase",
		constants.Mantenimiento: "maintenance services",
	}
	var parts []string
	for _, c := range constants.AllCategories() {
		if d, ok := defs[c]; ok {
			parts = append(parts, `"`+string(c)+`" (`+d+`)`)
		}
	}
	return strings.Join(parts, ", ")
}
