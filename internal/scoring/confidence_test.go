package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

func fullRecord() entity.ExtractedRecord {
	return entity.ExtractedRecord{
		Location:         "Caguas",
		Description:      "Reparación de techos",
		Summary:          "Reparación de techos",
		SiteVisitDate:    "11/04/2025",
		SiteVisitTime:    "10:00",
		VisitLocation:    "Oficina Regional",
		ContactName:      "Luis Rodríguez",
		ContactPhone:     "787-406-9420",
		BiddingCloseDate: "11/29/2025",
		BiddingCloseTime: "16:00",
	}
}

func TestConfidenceCriticalOnly(t *testing.T) {
	rec := entity.EmptyRecord()
	rec.Location = "Caguas"
	rec.Description = "Reparación de techos"
	rec.BiddingCloseDate = "11/29/2025"
	rec.ContactPhone = "787-406-9420"
	assert.Equal(t, 60, Confidence(rec, false))
	assert.Equal(t, 60, Confidence(rec, true))
}

func TestConfidenceFull(t *testing.T) {
	assert.Equal(t, 100, Confidence(fullRecord(), false))
	assert.Equal(t, 100, Confidence(fullRecord(), true))
}

func TestConfidenceEmpty(t *testing.T) {
	assert.Equal(t, 0, Confidence(entity.EmptyRecord(), false))
	assert.Equal(t, 0, Confidence(entity.ExtractedRecord{}, true))
}

func TestConfidencePurchaseIgnoresSiteVisit(t *testing.T) {
	rec := fullRecord()
	rec.SiteVisitDate = constants.Unavailable
	rec.SiteVisitTime = constants.Unavailable
	rec.VisitLocation = constants.Unavailable

	assert.Equal(t, 100, Confidence(rec, true))
	// 60 + 3/6 * 40
	assert.Equal(t, 80, Confidence(rec, false))
}

func TestConfidenceRoundsHalfUp(t *testing.T) {
	rec := fullRecord()
	rec.Summary = ""
	// 60 + 5/6 * 40 = 93.33
	assert.Equal(t, 93, Confidence(rec, false))
	rec.ContactName = "No disponible"
	// 60 + 1/3 * 40 = 73.33
	assert.Equal(t, 73, Confidence(rec, true))
	rec.Location = constants.LocationNotExtracted
	// 45 + 13.33
	assert.Equal(t, 58, Confidence(rec, true))
}

func TestIsPurchase(t *testing.T) {
	for _, label := range []string{"Suministros", "SUPPLIES", "Equipos", "Compra de materiales", "Suministro - tuberías"} {
		assert.True(t, IsPurchase(label), label)
	}
	for _, label := range []string{"Construcción", "Servicios", "Mantenimiento", ""} {
		assert.False(t, IsPurchase(label), label)
	}
}
