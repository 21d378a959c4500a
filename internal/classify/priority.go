package classify

import (
	"math"
	"time"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

const (
	urgentDays   = 7
	standardDays = 28
)

// Priority derives urgency from the days left until closeDate, counted from
// the calendar day of now. Past and imminent closings are High; an unknown
// date is Medium.
func Priority(closeDate string, now time.Time) constants.Priority {
	if normalize.IsSentinel(closeDate) {
		return constants.PriorityMedium
	}
	dates := normalize.Dates{Now: func() time.Time { return now }}
	closing, ok := dates.Parse(closeDate)
	if !ok {
		return constants.PriorityMedium
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Round(closing.Sub(today).Hours() / 24))
	switch {
	case days < urgentDays:
		return constants.PriorityHigh
	case days <= standardDays:
		return constants.PriorityMedium
	default:
		return constants.PriorityLow
	}
}
