package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

func fixedEvaluator() Evaluator {
	return Evaluator{Now: func() time.Time { return time.Date(2025, time.November, 10, 15, 30, 0, 0, time.UTC) }}
}

func TestIsOpen(t *testing.T) {
	e := fixedEvaluator()
	tests := []struct {
		name      string
		closeDate string
		want      bool
	}{
		{"yesterday", "11/09/2025", false},
		{"today", "11/10/2025", true},
		{"tomorrow", "11/11/2025", true},
		{"unpadded us date", "11/9/2025", false},
		{"missing", "", true},
		{"sentinel", constants.Unavailable, true},
		{"spanish with year", "12 de noviembre de 2025", true},
		{"spanish past", "3 de noviembre de 2025", false},
		{"spanish without year uses clock year", "10 de noviembre", true},
		{"english", "November 3, 2025", false},
		{"unparseable stays open", "por determinar", true},
		{"last year", "12/01/2024", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.IsOpen(tt.closeDate))
		})
	}
}

func TestIsOpenRespectsClockLocation(t *testing.T) {
	ast := time.FixedZone("AST", -4*3600)
	// 01:00 UTC on the 11th is still the 10th in Puerto Rico
	e := Evaluator{Now: func() time.Time { return time.Date(2025, time.November, 11, 1, 0, 0, 0, time.UTC).In(ast) }}
	assert.True(t, e.IsOpen("11/10/2025"))
}

func TestFilter(t *testing.T) {
	e := fixedEvaluator()
	rec := func(d string) entity.ExtractedRecord {
		r := entity.EmptyRecord()
		r.BiddingCloseDate = d
		return r
	}
	in := []entity.ExtractedRecord{rec("11/01/2025"), rec("11/20/2025"), rec(constants.Unavailable), rec("10/31/2025")}
	got := e.Filter(in)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "11/20/2025", got[0].BiddingCloseDate)
		assert.Equal(t, constants.Unavailable, got[1].BiddingCloseDate)
	}
	assert.Empty(t, e.Filter(nil))
}
