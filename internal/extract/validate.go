package extract

import (
	"errors"

	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

// ErrNoDescription rejects a model record that could not name the object of
// the bidding.
var ErrNoDescription = errors.New("model record has no description")

// ValidateModelRecord checks a normalized model record. A missing
// description is the only hard failure; irregular phone, date and time
// values are reported as warnings.
func ValidateModelRecord(rec entity.ExtractedRecord) (warnings []string, err error) {
	if normalize.IsSentinel(rec.Description) {
		return nil, ErrNoDescription
	}
	if p := rec.ContactPhone; !normalize.IsSentinel(p) && !normalize.ValidPRPhone(p) {
		warnings = append(warnings, "contact_phone: not a 787/939 number: "+p)
	}
	for name, v := range map[string]string{
		"site_visit_date":    rec.SiteVisitDate,
		"bidding_close_date": rec.BiddingCloseDate,
	} {
		if !normalize.IsSentinel(v) && !normalize.ValidDate(v) {
			warnings = append(warnings, name+": not MM/DD/YYYY: "+v)
		}
	}
	for name, v := range map[string]string{
		"site_visit_time":    rec.SiteVisitTime,
		"bidding_close_time": rec.BiddingCloseTime,
	} {
		if !normalize.IsSentinel(v) && !normalize.ValidTime(v) {
			warnings = append(warnings, name+": not HH:MM: "+v)
		}
	}
	return warnings, nil
}
