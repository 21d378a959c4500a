// Package scoring rates how complete an extracted record is.
package scoring

import (
	"math"
	"strings"

	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

const (
	criticalWeight = 60.0
	optionalWeight = 40.0
)

var purchaseMarkers = []string{"suministro", "supplies", "equipo", "compra"}

// IsPurchase reports whether a category label denotes a purchase or supply
// bidding, where site visits are normally absent.
func IsPurchase(label string) bool {
	l := strings.ToLower(label)
	for _, m := range purchaseMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

// Confidence returns a 0-100 completeness score. Critical fields carry 60
// points and optional fields 40, each split evenly across the populated
// share. Site-visit fields are only optional when purchase is false.
func Confidence(rec entity.ExtractedRecord, purchase bool) int {
	critical := []string{rec.Location, rec.Description, rec.BiddingCloseDate, rec.ContactPhone}
	optional := []string{rec.Summary, rec.ContactName, rec.BiddingCloseTime}
	if !purchase {
		optional = append(optional, rec.SiteVisitDate, rec.SiteVisitTime, rec.VisitLocation)
	}
	score := share(critical)*criticalWeight + share(optional)*optionalWeight
	return int(math.Round(score))
}

func share(fields []string) float64 {
	filled := 0
	for _, f := range fields {
		if !normalize.IsSentinel(f) {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}
