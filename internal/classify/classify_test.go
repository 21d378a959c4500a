package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/licitaciones/constants"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		text string
		want constants.Category
	}{
		{"Suministro de cloro para plantas de filtración", constants.Suministros},
		{"Compra de materiales de oficina", constants.Suministros},
		{"Alquiler de maquinaria pesada", constants.Equipos},
		{"Construcción de tanque de almacenamiento", constants.Construccion},
		{"Reparación de techos en escuela", constants.Mantenimiento},
		{"Servicios profesionales de consultoría ambiental", constants.Servicios},
		{"Aviso general", constants.Unclassified},
		{"", constants.Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.text))
		})
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		label  string
		want   constants.Category
		wantOK bool
	}{
		{"Servicios - Mantenimiento de filtros", constants.Servicios, true},
		{"construccion", constants.Construccion, true},
		{"CONSTRUCCIÓN (obra civil)", constants.Construccion, true},
		{"Supplies", constants.Suministros, true},
		{"Equipos", constants.Equipos, true},
		{"Mantenimiento.", constants.Mantenimiento, true},
		{"Suministro de piezas", constants.Suministros, true},
		{"No clasificado", constants.Unclassified, false},
		{"Otro", constants.Unclassified, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := Canonicalize(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriority(t *testing.T) {
	now := time.Date(2025, time.November, 1, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		closeDate string
		want      constants.Priority
	}{
		{"10/31/2025", constants.PriorityHigh},
		{"11/01/2025", constants.PriorityHigh},
		{"11/07/2025", constants.PriorityHigh},
		{"11/08/2025", constants.PriorityMedium},
		{"11/29/2025", constants.PriorityMedium},
		{"11/30/2025", constants.PriorityLow},
		{"15 de diciembre de 2025", constants.PriorityLow},
		{"No disponible", constants.PriorityMedium},
		{"por determinar", constants.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.closeDate, func(t *testing.T) {
			assert.Equal(t, tt.want, Priority(tt.closeDate, now))
		})
	}
}
