package normalize

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/licitaciones/constants"
)

func fixedDates() Dates {
	return Dates{Now: func() time.Time { return time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC) }}
}

func TestDatesNormalize(t *testing.T) {
	d := fixedDates()
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"canonical", "11/29/2025", "11/29/2025"},
		{"pads month and day", "1/5/2026", "01/05/2026"},
		{"embedded us date", "Validez hasta: 3/7/2026 a las 4:00", "03/07/2026"},
		{"spanish with year", "12 DE NOVIEMBRE DE 2026", "11/12/2026"},
		{"spanish without year uses clock", "3 de diciembre", "12/03/2025"},
		{"spanish weekday stripped", "miércoles, 12 de noviembre de 2025", "11/12/2025"},
		{"spanish weekday without accent", "Sabado 6 de diciembre", "12/06/2025"},
		{"setiembre spelling", "1 de setiembre de 2026", "09/01/2026"},
		{"iso", "2025-12-01", "12/01/2025"},
		{"english month", "November 3, 2025", "11/03/2025"},
		{"spreadsheet serial", "45992", "12/01/2025"},
		{"small number is not a serial", "3", "3"},
		{"unparseable kept verbatim", "por determinar", "por determinar"},
		{"out of range kept padded", "13/45/2025", "13/45/2025"},
		{"blank", "   ", constants.Unavailable},
		{"sentinel", "No disponible", constants.Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Normalize(tt.token))
		})
	}
}

func TestDatesNormalizeIsIdempotent(t *testing.T) {
	d := fixedDates()
	for _, in := range []string{"01/01/2025", "02/28/2026", "12/31/2030", "7/4/2026", "15 de mayo de 2026"} {
		once := d.Normalize(in)
		require.True(t, ValidDate(once), once)
		assert.Equal(t, once, d.Normalize(once))
	}
}

func TestDatesNormalizeSerialMatchesSpreadsheetEpoch(t *testing.T) {
	d := fixedDates()
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	for _, n := range []int{60, 61, 1000, 25569, 36526, 44927, 45992, 60000} {
		want := epoch.AddDate(0, 0, n).Format(DateLayout)
		assert.Equal(t, want, d.Normalize(strconv.Itoa(n)), "serial %d", n)
	}
}

func TestDatesParseUsesClockLocation(t *testing.T) {
	loc := time.FixedZone("AST", -4*3600)
	d := Dates{Now: func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, loc) }}
	got, ok := d.Parse("4 de julio")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.July, 4, 0, 0, 0, 0, loc), got)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("11/29/2025"))
	assert.False(t, ValidDate("11/31/2025"))
	assert.False(t, ValidDate("1/5/2025"))
	assert.False(t, ValidDate("2025-11-29"))
	assert.False(t, ValidDate(constants.Unavailable))
}
