// Package classify assigns categories and priorities to extracted records.
package classify

import (
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

type keywordSet struct {
	category constants.Category
	words    []string
}

// Ordered most specific first; matching is on folded text.
var keywordSets = []keywordSet{
	{constants.Suministros, []string{"suministro", "compra de", "adquisicion", "materiales", "supplies", "piezas", "quimicos"}},
	{constants.Equipos, []string{"equipo", "equipment", "maquinaria", "vehiculo", "alquiler de"}},
	{constants.Construccion, []string{"construccion", "construction", "obra", "rehabilitacion", "instalacion de tuberia", "pavimentacion", "infraestructura"}},
	{constants.Mantenimiento, []string{"mantenimiento", "maintenance", "limpieza", "reparacion", "poda"}},
	{constants.Servicios, []string{"servicio", "service", "consultoria", "profesionales", "inspeccion"}},
}

// Category classifies free text (typically description plus summary) by
// keyword. Sentinel inputs are ignored; unknown work is
// constants.Unclassified.
func Category(texts ...string) constants.Category {
	var parts []string
	for _, t := range texts {
		if !normalize.IsSentinel(t) {
			parts = append(parts, t)
		}
	}
	folded := normalize.Fold(strings.Join(parts, " "))
	if folded == "" {
		return constants.Unclassified
	}
	for _, set := range keywordSets {
		for _, w := range set.words {
			if strings.Contains(folded, w) {
				return set.category
			}
		}
	}
	return constants.Unclassified
}

var synonyms = map[string]constants.Category{
	"construccion":   constants.Construccion,
	"construction":   constants.Construccion,
	"obra":           constants.Construccion,
	"obras":          constants.Construccion,
	"servicio":       constants.Servicios,
	"servicios":      constants.Servicios,
	"service":        constants.Servicios,
	"services":       constants.Servicios,
	"suministro":     constants.Suministros,
	"suministros":    constants.Suministros,
	"supplies":       constants.Suministros,
	"compra":         constants.Suministros,
	"compras":        constants.Suministros,
	"materiales":     constants.Suministros,
	"equipo":         constants.Equipos,
	"equipos":        constants.Equipos,
	"equipment":      constants.Equipos,
	"mantenimiento":  constants.Mantenimiento,
	"maintenance":    constants.Mantenimiento,
	"no clasificado": constants.Unclassified,
}

// Canonicalize maps a free-form category label, such as the model's
// "Servicios - Mantenimiento de filtros", onto a known category. The head
// before " - " or "(" decides; accents and case are ignored.
func Canonicalize(label string) (constants.Category, bool) {
	head := label
	if i := strings.Index(head, " - "); i >= 0 {
		head = head[:i]
	}
	if i := strings.Index(head, "("); i >= 0 {
		head = head[:i]
	}
	key := strings.Trim(normalize.Fold(head), " .:-/")
	if c, ok := synonyms[key]; ok {
		return c, c != constants.Unclassified
	}
	if c := Category(key); c != constants.Unclassified {
		return c, true
	}
	return constants.Unclassified, false
}
