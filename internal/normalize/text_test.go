package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/licitaciones/constants"
)

func TestText(t *testing.T) {
	in := "Ciudad:\tBayamón  \r\n\r\n\r\n\r\nContacto:   Juan Pérez\r\n"
	assert.Equal(t, "Ciudad: Bayamón\n\nContacto: Juan Pérez", Text(in))
	assert.Equal(t, "", Text(""))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "miercoles, 12 de noviembre", Fold("  Miércoles,   12 de NOVIEMBRE "))
	assert.Equal(t, "construccion", Fold("Construcción"))
	assert.Equal(t, "sabado", Fold("SÁBADO"))
}

func TestIsSentinel(t *testing.T) {
	for _, v := range []string{"", "  ", constants.Unavailable, "no disponible", constants.LocationNotExtracted, constants.DescriptionNotExtracted, "No se pudo extraer la ubicacion"} {
		assert.True(t, IsSentinel(v), v)
	}
	for _, v := range []string{"Bayamón", "0", "N/A disponible"} {
		assert.False(t, IsSentinel(v), v)
	}
}

func TestOrUnavailable(t *testing.T) {
	assert.Equal(t, constants.Unavailable, OrUnavailable(" "))
	assert.Equal(t, "Caguas", OrUnavailable(" Caguas "))
}

func TestVisitLocationLabel(t *testing.T) {
	assert.Equal(t, "Escuela Segunda Unidad", VisitLocationLabel("  Escuela   Segunda\nUnidad "))
	assert.Equal(t, "", VisitLocationLabel("No disponible"))
	assert.Equal(t, "", VisitLocationLabel("no especificada"))
	assert.Equal(t, "", VisitLocationLabel("N/A"))
}

func TestValidPRPhone(t *testing.T) {
	assert.True(t, ValidPRPhone("787-406-9420"))
	assert.True(t, ValidPRPhone("939-555-0101"))
	assert.False(t, ValidPRPhone("305-406-9420"))
	assert.False(t, ValidPRPhone("7874069420"))
	assert.False(t, ValidPRPhone(constants.Unavailable))
	assert.True(t, IsPRAreaCode("939"))
	assert.Equal(t, "787-406-9420", FormatPhone("787", "406", "9420"))
}
